// Package ui implements an interactive terminal interface using bubbletea's Elm architecture.
//
// The TUI provides a multi-view workflow for browsing attendance results:
//  1. [CheckView] : Monitor the running reconciliation with progress updates
//  2. [GroupListView] : Browse groups with present/missing counts
//  3. [AttendeeListView] : Inspect attendees within a group, with match scores
//  4. [SummaryView] : Display overall attendance totals
//
// The (view) [Model] implements bubbletea/Elm's standard Init/Update/View pattern.
// Progress updates flow through a channel from the AttendanceEngine, providing non-blocking status reporting during the check.
//
// Keyboard navigation uses vim-style bindings (j/k, enter, esc, s, r, q) with contextual help displayed via charmbracelet/bubbles/help.
package ui
