package formatter

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/desertthunder/rollcall/internal/match"
	"github.com/desertthunder/rollcall/internal/models"
)

func sampleReport() models.MissingReport {
	return models.MissingReport{
		Order: []string{"Blue", "Unknown"},
		Groups: map[string][]models.Attendee{
			"Blue":    {{Name: "Alice", Group: "Blue", Row: 2}, {Name: "Dave", Group: "Blue", Row: 5}},
			"Unknown": {{Name: "Bob", Row: 3}},
		},
		Total: 3,
	}
}

func sampleSummary() Summary {
	return Summary{
		GuildName:     "Cohort 7",
		GuildID:       "99",
		MemberCount:   120,
		AttendeeCount: 50,
		Threshold:     80,
		GeneratedAt:   time.Date(2025, 3, 14, 9, 30, 0, 0, time.UTC),
	}
}

func TestExportToCSV(t *testing.T) {
	data, err := ExportToCSV(sampleReport())
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	want := []string{"Name,Group", "Alice,Blue", "Dave,Blue", "Bob,Unknown"}
	if len(lines) != len(want) {
		t.Fatalf("expected %d lines, got %d: %q", len(want), len(lines), lines)
	}
	for i, line := range want {
		if lines[i] != line {
			t.Errorf("line %d = %q, want %q", i, lines[i], line)
		}
	}
}

func TestExportToText(t *testing.T) {
	data := ExportToText(sampleReport(), sampleSummary())
	text := string(data)

	for _, want := range []string{
		"Missing Attendees Report - 2025-03-14 09:30:00",
		"Server: Cohort 7 (ID: 99)",
		"Total Members: 120",
		"Total Attendees: 50",
		"Group: Blue (2 missing)",
	} {
		if !strings.Contains(text, want) {
			t.Errorf("text export missing %q", want)
		}
	}
}

func TestExportToMarkdown(t *testing.T) {
	t.Run("with missing attendees", func(t *testing.T) {
		text := string(ExportToMarkdown(sampleReport(), sampleSummary()))

		for _, want := range []string{"# Missing Attendees", "## Blue (2 missing)", "1. Alice", "## Unknown (1 missing)"} {
			if !strings.Contains(text, want) {
				t.Errorf("markdown export missing %q", want)
			}
		}
	})

	t.Run("empty report", func(t *testing.T) {
		text := string(ExportToMarkdown(models.MissingReport{}, sampleSummary()))
		if !strings.Contains(text, match.NoMissingMarker) {
			t.Error("expected no-missing marker in markdown export")
		}
	})
}

func TestToJSON(t *testing.T) {
	data, err := ToJSON(sampleReport(), false)
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}

	var decoded struct {
		Total  int `json:"total"`
		Groups []struct {
			Group     string   `json:"group"`
			Attendees []string `json:"attendees"`
		} `json:"groups"`
	}
	if err := json.Unmarshal(data, &decoded); err != nil {
		t.Fatalf("export should be valid JSON: %v", err)
	}

	if decoded.Total != 3 {
		t.Errorf("expected total 3, got %d", decoded.Total)
	}
	if len(decoded.Groups) != 2 || decoded.Groups[0].Group != "Blue" {
		t.Errorf("unexpected groups: %+v", decoded.Groups)
	}
}

func TestWriteReport(t *testing.T) {
	t.Run("writes to explicit path", func(t *testing.T) {
		dir := t.TempDir()
		path := filepath.Join(dir, "report.csv")

		written, err := WriteReport(sampleReport(), sampleSummary(), "csv", path)
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != path {
			t.Errorf("expected %s, got %s", path, written)
		}

		if _, err := os.Stat(path); err != nil {
			t.Errorf("report file should exist: %v", err)
		}
	})

	t.Run("default filename carries timestamp", func(t *testing.T) {
		dir := t.TempDir()
		cwd, _ := os.Getwd()
		if err := os.Chdir(dir); err != nil {
			t.Fatalf("failed to chdir: %v", err)
		}
		defer os.Chdir(cwd)

		written, err := WriteReport(sampleReport(), sampleSummary(), "text", "")
		if err != nil {
			t.Fatalf("expected no error, got %v", err)
		}
		if written != "missing_attendees_20250314_093000.txt" {
			t.Errorf("unexpected default filename: %s", written)
		}
	})

	t.Run("unknown format", func(t *testing.T) {
		if _, err := WriteReport(sampleReport(), sampleSummary(), "xlsx", ""); err == nil {
			t.Error("expected error for unknown format")
		}
	})
}

func TestSupportedFormat(t *testing.T) {
	for _, format := range []string{"text", "csv", "markdown", "json"} {
		if !SupportedFormat(format) {
			t.Errorf("expected %q to be supported", format)
		}
	}
	if SupportedFormat("xlsx") {
		t.Error("xlsx should not be supported")
	}
}
