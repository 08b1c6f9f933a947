package ui

import (
	"context"
	"fmt"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/desertthunder/rollcall/internal/tasks"
)

// ViewState represents the current view in the TUI.
type ViewState int

const (
	CheckView ViewState = iota
	GroupListView
	AttendeeListView
	SummaryView
)

// Model represents the TUI application state.
type Model struct {
	ctx           context.Context
	view          ViewState
	engine        *tasks.AttendanceEngine
	opts          tasks.CheckOpts
	width         int
	height        int
	groupList     list.Model
	attendeeList  list.Model
	selectedGroup string
	progressChan  chan tasks.ProgressUpdate
	progress      tasks.ProgressUpdate
	result        *tasks.AttendanceResult
	err           error
	help          help.Model
	keys          keyMap
}

type progressUpdateMsg tasks.ProgressUpdate

type checkCompleteMsg struct {
	result *tasks.AttendanceResult
	err    error
}

// NewModel creates a new TUI model with the provided dependencies.
func NewModel(ctx context.Context, engine *tasks.AttendanceEngine, opts tasks.CheckOpts) *Model {
	return &Model{
		ctx:    ctx,
		view:   CheckView,
		engine: engine,
		opts:   opts,
		help:   help.New(),
		keys:   newKeyMap(),
	}
}

// Init starts the attendance check in the background.
func (m *Model) Init() tea.Cmd {
	return m.startCheck()
}

// Update handles incoming messages and updates the model state.
func (m *Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		if m.groupList.Width() == 0 {
			m.groupList.SetSize(msg.Width-4, msg.Height-8)
		}
		if m.attendeeList.Width() == 0 {
			m.attendeeList.SetSize(msg.Width-4, msg.Height-8)
		}
		return m, nil

	case tea.KeyMsg:
		switch m.view {
		case CheckView:
			if msg.String() == "q" || msg.String() == "ctrl+c" {
				return m, tea.Quit
			}
		case GroupListView:
			return m.handleGroupListKeys(msg)
		case AttendeeListView:
			return m.handleAttendeeListKeys(msg)
		case SummaryView:
			return m.handleSummaryKeys(msg)
		}

	case progressUpdateMsg:
		m.progress = tasks.ProgressUpdate(msg)
		return m, m.waitForProgress()

	case checkCompleteMsg:
		m.result = msg.result
		m.err = msg.err
		m.progressChan = nil
		if m.err != nil {
			return m, tea.Quit
		}
		items := make([]list.Item, len(m.result.Groups))
		for i, stat := range m.result.Groups {
			items[i] = groupItem{stat: stat}
		}
		m.groupList = list.New(items, list.NewDefaultDelegate(), 0, 0)
		m.groupList.Title = "Attendance by Group"
		m.groupList.SetSize(m.width-4, m.height-8)
		m.view = GroupListView
		return m, nil
	}

	return m.updateLists(msg)
}

// View renders the UI based on the current view state.
func (m *Model) View() string {
	if m.err != nil {
		return styles.err.Render(fmt.Sprintf("Error: %v\n\nPress q to quit", m.err))
	}

	switch m.view {
	case CheckView:
		return m.renderCheck()
	case GroupListView:
		return m.renderGroupList()
	case AttendeeListView:
		return m.renderAttendeeList()
	case SummaryView:
		return m.renderSummary()
	default:
		return ""
	}
}

func (m *Model) handleGroupListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "s":
		m.view = SummaryView
		return m, nil
	case "r":
		return m, m.restart()
	case "enter":
		selected := m.groupList.SelectedItem()
		if selected != nil {
			if group, ok := selected.(groupItem); ok {
				m.openGroup(group.stat.Group)
				return m, nil
			}
		}
	}

	var cmd tea.Cmd
	m.groupList, cmd = m.groupList.Update(msg)
	return m, cmd
}

func (m *Model) handleAttendeeListKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = GroupListView
		return m, nil
	}

	var cmd tea.Cmd
	m.attendeeList, cmd = m.attendeeList.Update(msg)
	return m, cmd
}

func (m *Model) handleSummaryKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "esc":
		m.view = GroupListView
		return m, nil
	case "r":
		return m, m.restart()
	}
	return m, nil
}

func (m *Model) updateLists(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd
	switch m.view {
	case GroupListView:
		m.groupList, cmd = m.groupList.Update(msg)
	case AttendeeListView:
		m.attendeeList, cmd = m.attendeeList.Update(msg)
	}
	return m, cmd
}

// openGroup populates the attendee list with the rows of one group.
func (m *Model) openGroup(group string) {
	m.selectedGroup = group

	var items []list.Item
	for _, row := range m.result.Rows {
		name := row.Attendee.Group
		if name == "" {
			name = "Unknown"
		}
		if name == group {
			items = append(items, attendeeItem{row: row})
		}
	}

	m.attendeeList = list.New(items, list.NewDefaultDelegate(), 0, 0)
	m.attendeeList.Title = fmt.Sprintf("Attendees in '%s'", group)
	m.attendeeList.SetSize(m.width-4, m.height-8)
	m.view = AttendeeListView
}

func (m *Model) startCheck() tea.Cmd {
	m.progressChan = make(chan tasks.ProgressUpdate, 50)

	go func(progress chan tasks.ProgressUpdate) {
		result, err := m.engine.Report(m.ctx, progress, m.opts)
		m.result = result
		m.err = err
		close(progress)
	}(m.progressChan)

	return m.waitForProgress()
}

func (m *Model) restart() tea.Cmd {
	m.result = nil
	m.err = nil
	m.view = CheckView
	return m.startCheck()
}

func (m *Model) waitForProgress() tea.Cmd {
	return func() tea.Msg {
		if m.progressChan == nil {
			return checkCompleteMsg{result: m.result, err: m.err}
		}

		update, ok := <-m.progressChan
		if !ok {
			return checkCompleteMsg{result: m.result, err: m.err}
		}
		return progressUpdateMsg(update)
	}
}

func (m *Model) renderCheck() string {
	title := styles.title.Render("Checking Attendance")

	var phase string
	switch m.progress.Phase {
	case tasks.FetchGuild:
		phase = "Connecting to server..."
	case tasks.FetchMembers:
		phase = "Fetching members..."
	case tasks.LoadRoster:
		phase = "Loading roster..."
	case tasks.MatchNames:
		phase = "Matching names..."
	case tasks.BuildReport:
		phase = "Building report..."
	default:
		phase = "Processing..."
	}

	return fmt.Sprintf("%s\n\n%s\n%s", title, phase, m.progress.Message)
}

func (m *Model) renderGroupList() string {
	helpKeys := []key.Binding{m.keys.enter, m.keys.summary, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.groupList.View(), helpView)
}

func (m *Model) renderAttendeeList() string {
	helpKeys := []key.Binding{m.keys.back, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)
	return fmt.Sprintf("%s\n\n%s", m.attendeeList.View(), helpView)
}

func (m *Model) renderSummary() string {
	check := m.result.Check

	var title string
	if check.Report.Empty() {
		title = styles.ok.Render("✓ Everyone Present")
	} else {
		title = styles.warn.Render(fmt.Sprintf("%d Missing", check.Report.Total))
	}

	var server string
	if check.Guild != nil {
		server = fmt.Sprintf("\nServer: %s", check.Guild.Name)
	}

	info := fmt.Sprintf(
		"%s\nMembers: %d\nAttendees: %d\nPresent: %d\nMissing: %d",
		server,
		len(check.Members),
		len(check.Attendees),
		check.MatchedCount,
		check.Report.Total,
	)

	helpKeys := []key.Binding{m.keys.back, m.keys.restart, m.keys.quit}
	helpView := m.help.ShortHelpView(helpKeys)

	return fmt.Sprintf("%s\n%s\n\n%s", title, info, helpView)
}
