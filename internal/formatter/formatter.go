// package formatter provides functions to export missing-attendee reports to various formats (CSV, Markdown, plain text, JSON)
package formatter

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"os"
	"time"

	"github.com/desertthunder/rollcall/internal/match"
	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
)

// Summary carries run metadata rendered above the report body.
type Summary struct {
	GuildName     string
	GuildID       string
	MemberCount   int
	AttendeeCount int
	Threshold     int
	GeneratedAt   time.Time
}

// ExportToCSV converts a MissingReport to CSV with columns: Name, Group
func ExportToCSV(report models.MissingReport) ([]byte, error) {
	var buf bytes.Buffer
	writer := csv.NewWriter(&buf)

	if err := writer.Write([]string{"Name", "Group"}); err != nil {
		return nil, fmt.Errorf("failed to write CSV headers: %w", err)
	}

	for _, group := range report.Order {
		for _, attendee := range report.Groups[group] {
			if err := writer.Write([]string{attendee.Name, group}); err != nil {
				return nil, fmt.Errorf("failed to write CSV record: %w", err)
			}
		}
	}

	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("CSV writer error: %w", err)
	}

	return buf.Bytes(), nil
}

// ExportToText converts a MissingReport to the plain text report format,
// prefixed with the run summary.
func ExportToText(report models.MissingReport, summary Summary) []byte {
	var buf bytes.Buffer

	buf.WriteString(fmt.Sprintf("Missing Attendees Report - %s\n", summary.GeneratedAt.Format("2006-01-02 15:04:05")))
	if summary.GuildName != "" {
		buf.WriteString(fmt.Sprintf("Server: %s (ID: %s)\n", summary.GuildName, summary.GuildID))
	}
	buf.WriteString(fmt.Sprintf("Total Members: %d\n", summary.MemberCount))
	buf.WriteString(fmt.Sprintf("Total Attendees: %d\n", summary.AttendeeCount))
	buf.WriteString(fmt.Sprintf("Similarity Threshold: %d\n\n", summary.Threshold))

	buf.WriteString(match.Render(report))
	buf.WriteString("\n")

	return buf.Bytes()
}

// ExportToMarkdown converts a MissingReport to Markdown with one section per group.
func ExportToMarkdown(report models.MissingReport, summary Summary) []byte {
	var buf bytes.Buffer

	buf.WriteString("# Missing Attendees\n\n")
	if summary.GuildName != "" {
		buf.WriteString(fmt.Sprintf("**Server**: %s\n", summary.GuildName))
	}
	buf.WriteString(fmt.Sprintf("**Members**: %d\n", summary.MemberCount))
	buf.WriteString(fmt.Sprintf("**Attendees**: %d\n", summary.AttendeeCount))
	buf.WriteString(fmt.Sprintf("**Missing**: %d\n\n", report.Total))

	if report.Empty() {
		buf.WriteString(match.NoMissingMarker + "\n")
		return buf.Bytes()
	}

	for _, group := range report.Order {
		attendees := report.Groups[group]
		buf.WriteString(fmt.Sprintf("## %s (%d missing)\n\n", group, len(attendees)))
		for i, attendee := range attendees {
			buf.WriteString(fmt.Sprintf("%d. %s\n", i+1, attendee.Name))
		}
		buf.WriteString("\n")
	}

	return buf.Bytes()
}

// jsonReport is the serialization shape for JSON export: group order is
// preserved by emitting an array of buckets rather than a map.
type jsonReport struct {
	Total  int          `json:"total"`
	Groups []jsonBucket `json:"groups"`
}

type jsonBucket struct {
	Group     string   `json:"group"`
	Attendees []string `json:"attendees"`
}

// ToJSON generates a JSON representation of the report with stable group ordering.
func ToJSON(report models.MissingReport, pretty bool) ([]byte, error) {
	out := jsonReport{Total: report.Total, Groups: []jsonBucket{}}
	for _, group := range report.Order {
		bucket := jsonBucket{Group: group}
		for _, attendee := range report.Groups[group] {
			bucket.Attendees = append(bucket.Attendees, attendee.Name)
		}
		out.Groups = append(out.Groups, bucket)
	}
	return shared.MarshalJSON(out, pretty)
}

// Extensions for the supported report formats.
var extensions = map[string]string{
	"text":     "txt",
	"csv":      "csv",
	"markdown": "md",
	"json":     "json",
}

// SupportedFormat reports whether format names a known export format.
func SupportedFormat(format string) bool {
	_, ok := extensions[format]
	return ok
}

// WriteReport renders the report in the given format and writes it to path.
//
// An empty path defaults to missing_attendees_{timestamp}.{ext} in the
// working directory. Returns the file path written.
func WriteReport(report models.MissingReport, summary Summary, format, path string) (string, error) {
	ext, ok := extensions[format]
	if !ok {
		return "", fmt.Errorf("%w: unknown format %q", shared.ErrInvalidFlag, format)
	}

	var data []byte
	var err error

	switch format {
	case "text":
		data = ExportToText(report, summary)
	case "csv":
		data, err = ExportToCSV(report)
	case "markdown":
		data = ExportToMarkdown(report, summary)
	case "json":
		data, err = ToJSON(report, true)
	}
	if err != nil {
		return "", fmt.Errorf("failed to render report: %w", err)
	}

	if path == "" {
		path = fmt.Sprintf("missing_attendees_%s.%s", summary.GeneratedAt.Format("20060102_150405"), ext)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return "", fmt.Errorf("failed to write report: %w", err)
	}

	return path, nil
}
