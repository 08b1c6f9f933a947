package match

import (
	"fmt"
	"strings"

	"github.com/desertthunder/rollcall/internal/models"
)

// UnknownGroup is the sentinel bucket for attendees without a group label.
const UnknownGroup = "Unknown"

// NoMissingMarker is rendered when every attendee was matched.
const NoMissingMarker = "No missing attendees. Everyone on the roster is present."

// BuildReport buckets unmatched attendees by group.
//
// Groups appear in first-seen order and attendees keep their roster order
// within each bucket. Empty or whitespace-only group labels fold into
// [UnknownGroup].
func BuildReport(results []models.MatchResult) models.MissingReport {
	report := models.MissingReport{Groups: make(map[string][]models.Attendee)}

	for _, result := range results {
		if !result.Missing() {
			continue
		}

		group := strings.TrimSpace(result.Attendee.Group)
		if group == "" {
			group = UnknownGroup
		}

		if _, seen := report.Groups[group]; !seen {
			report.Order = append(report.Order, group)
		}
		report.Groups[group] = append(report.Groups[group], result.Attendee)
		report.Total++
	}

	return report
}

// Render produces the human-readable grouped listing for a MissingReport.
// An empty report renders [NoMissingMarker] rather than an empty string.
func Render(report models.MissingReport) string {
	if report.Empty() {
		return NoMissingMarker
	}

	var b strings.Builder
	fmt.Fprintf(&b, "Missing attendees: %d\n", report.Total)

	for _, group := range report.Order {
		attendees := report.Groups[group]
		fmt.Fprintf(&b, "\nGroup: %s (%d missing)\n", group, len(attendees))
		for i, attendee := range attendees {
			fmt.Fprintf(&b, "  %d. %s\n", i+1, attendee.Name)
		}
	}

	return b.String()
}
