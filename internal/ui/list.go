package ui

import (
	"fmt"

	"github.com/charmbracelet/bubbles/list"
	"github.com/desertthunder/rollcall/internal/tasks"
)

var (
	_ list.Item = groupItem{}
	_ list.Item = attendeeItem{}
)

// groupItem wraps [tasks.GroupStat] to implement [list.Item].
type groupItem struct {
	stat tasks.GroupStat
}

func (i groupItem) FilterValue() string { return i.stat.Group }
func (i groupItem) Title() string       { return i.stat.Group }
func (i groupItem) Description() string {
	if i.stat.Missing == 0 {
		return fmt.Sprintf("%d attendees • all present", i.stat.Total)
	}
	return fmt.Sprintf("%d attendees • %d missing", i.stat.Total, i.stat.Missing)
}

// attendeeItem wraps [tasks.AttendanceRow] to implement [list.Item].
type attendeeItem struct {
	row tasks.AttendanceRow
}

func (i attendeeItem) FilterValue() string { return i.row.Attendee.Name }
func (i attendeeItem) Title() string       { return i.row.Attendee.Name }
func (i attendeeItem) Description() string {
	if i.row.Present {
		return fmt.Sprintf("present • matched %s (score %d)", i.row.Matched, i.row.Score)
	}
	if !i.row.Scored {
		return "missing • no members to compare"
	}
	return fmt.Sprintf("missing • best score %d", i.row.Score)
}
