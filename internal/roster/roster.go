// package roster loads attendee records from a registration CSV export.
//
// Exports from registration platforms are wide and messy: the attendee name
// and group live at fixed column positions and rows may be ragged. The loader
// pulls just those two columns and skips rows without a usable name, keeping
// the 1-based row index on each record for traceability.
package roster

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/desertthunder/rollcall/internal/models"
	"github.com/desertthunder/rollcall/internal/shared"
)

// Options describes how to read a roster file.
type Options struct {
	NameColumn  int  // Zero-based index of the attendee name column
	GroupColumn int  // Zero-based index of the group column
	HasHeader   bool // Skip the first row
}

// DefaultOptions matches the registration export this tool was built for:
// name in column 2, group in column 12, with a header row.
func DefaultOptions() Options {
	return Options{NameColumn: 1, GroupColumn: 11, HasHeader: true}
}

// Load reads attendees from the CSV file at path.
func Load(path string, opts Options) ([]models.Attendee, error) {
	f, err := os.Open(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", shared.ErrRosterNotFound, path)
		}
		return nil, fmt.Errorf("failed to open roster: %w", err)
	}
	defer f.Close()

	attendees, err := Parse(f, opts)
	if err != nil {
		return nil, fmt.Errorf("%w: %s: %v", shared.ErrInvalidRoster, path, err)
	}
	return attendees, nil
}

// Parse reads attendees from r.
//
// Rows shorter than the name column, or with a blank name cell, are skipped.
// A group cell that is absent or blank is left empty for the reporter's
// sentinel bucket to absorb.
func Parse(r io.Reader, opts Options) ([]models.Attendee, error) {
	if opts.NameColumn < 0 || opts.GroupColumn < 0 {
		return nil, fmt.Errorf("column indexes must not be negative")
	}

	reader := csv.NewReader(r)
	reader.FieldsPerRecord = -1 // ragged rows are expected

	var attendees []models.Attendee
	row := 0

	for {
		record, err := reader.Read()
		if err == io.EOF {
			break
		}
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row+1, err)
		}
		row++

		if opts.HasHeader && row == 1 {
			continue
		}

		if len(record) <= opts.NameColumn {
			continue
		}
		name := strings.TrimSpace(record[opts.NameColumn])
		if name == "" {
			continue
		}

		group := ""
		if len(record) > opts.GroupColumn {
			group = strings.TrimSpace(record[opts.GroupColumn])
		}

		attendees = append(attendees, models.Attendee{Name: name, Group: group, Row: row})
	}

	return attendees, nil
}

// Groups returns the distinct group labels in first-seen order, with counts.
func Groups(attendees []models.Attendee) ([]string, map[string]int) {
	var order []string
	counts := make(map[string]int)

	for _, a := range attendees {
		group := a.Group
		if group == "" {
			group = "Unknown"
		}
		if _, seen := counts[group]; !seen {
			order = append(order, group)
		}
		counts[group]++
	}

	return order, counts
}
