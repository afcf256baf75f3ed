package tasklist

import (
	"context"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// Lister loads a user's task board.
type Lister interface {
	List(ctx context.Context, userID string, opts tasks.ListOptions) (*tasks.Board, error)
}

// BoardLoadedMsg is sent when a board has been loaded. Tab and Query
// echo the request so stale responses can be dropped.
type BoardLoadedMsg struct {
	Tab   board.Tab
	Query string
	Board *tasks.Board
	Err   error
}

// SelectedTaskMsg is sent when a user selects a task to view details.
type SelectedTaskMsg struct {
	TaskID string
}

// CompleteRequestMsg asks the parent to complete a task.
type CompleteRequestMsg struct {
	TaskID string
}

// Model is the role-bucketed task list.
type Model struct {
	list        list.Model
	lister      Lister
	keys        *keys.KeyMap
	userID      string
	tab         board.Tab
	counts      map[board.Tab]int
	query       string
	searchMode  bool
	searchInput textinput.Model
	err         error
	width       int
	height      int
}

// New creates a task list for userID. Deadlines render through disp.
func New(l Lister, k *keys.KeyMap, userID string, disp ui.Display, width, height int) Model {
	lm := list.New([]list.Item{}, ItemDelegate{Display: disp}, width, height-1)
	lm.SetShowTitle(false)
	lm.SetShowStatusBar(true)
	lm.SetShowHelp(false)
	lm.SetFilteringEnabled(false)
	// Quit and help belong to the root model.
	lm.KeyMap.Quit.SetEnabled(false)
	lm.KeyMap.ShowFullHelp.SetEnabled(false)

	si := textinput.New()
	si.Placeholder = "title, description or responsible name..."
	si.Prompt = "/ "
	si.Width = width - 4

	return Model{
		list:        lm,
		lister:      l,
		keys:        k,
		userID:      userID,
		tab:         board.TabCreator,
		counts:      map[board.Tab]int{},
		searchInput: si,
		width:       width,
		height:      height,
	}
}

// Init returns a command that loads the initial board.
func (m Model) Init() tea.Cmd {
	return m.LoadBoard()
}

// Tab returns the active tab.
func (m Model) Tab() board.Tab { return m.tab }

// Counts returns the size of every bucket from the last load.
func (m Model) Counts() map[board.Tab]int { return m.counts }

// Query returns the active search text.
func (m Model) Query() string { return m.query }

// Searching reports whether the search input has focus.
func (m Model) Searching() bool { return m.searchMode }

// Err returns the error from the last load, if any.
func (m Model) Err() error { return m.err }

// SelectedRow returns the row under the cursor.
func (m Model) SelectedRow() (tasks.Row, bool) {
	item, ok := m.list.SelectedItem().(TaskItem)
	if !ok {
		return tasks.Row{}, false
	}
	return item.Row, true
}

// Update handles messages for the task list view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case BoardLoadedMsg:
		if msg.Tab != m.tab || msg.Query != m.query {
			return m, nil
		}
		m.err = msg.Err
		if msg.Err != nil {
			return m, nil
		}
		m.counts = msg.Board.Counts
		return m, m.list.SetItems(items(msg.Board.Rows))

	case tea.KeyMsg:
		if m.searchMode {
			return m.handleSearchKeys(msg)
		}
		return m.handleNormalKeys(msg)
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

// handleSearchKeys processes key input while in search mode. Every edit
// reloads the board with the new query.
func (m Model) handleSearchKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEnter:
		m.searchMode = false
		m.searchInput.Blur()
		return m, nil

	case tea.KeyEsc:
		m.searchMode = false
		m.searchInput.Blur()
		m.searchInput.Reset()
		if m.query == "" {
			return m, nil
		}
		m.query = ""
		return m, m.LoadBoard()
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)
	if v := m.searchInput.Value(); v != m.query {
		m.query = v
		return m, tea.Batch(cmd, m.LoadBoard())
	}
	return m, cmd
}

// handleNormalKeys processes key input in normal (non-search) mode.
func (m Model) handleNormalKeys(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Select):
		row, ok := m.SelectedRow()
		if !ok {
			return m, nil
		}
		return m, func() tea.Msg {
			return SelectedTaskMsg{TaskID: row.Task.ID}
		}

	case key.Matches(msg, m.keys.Complete):
		row, ok := m.SelectedRow()
		if !ok || row.Task.Completed {
			return m, nil
		}
		return m, func() tea.Msg {
			return CompleteRequestMsg{TaskID: row.Task.ID}
		}

	case key.Matches(msg, m.keys.Search):
		m.searchMode = true
		m.searchInput.SetValue(m.query)
		m.searchInput.CursorEnd()
		return m, m.searchInput.Focus()

	case key.Matches(msg, m.keys.NextTab):
		return m.SetTab(m.shiftTab(1))

	case key.Matches(msg, m.keys.PrevTab):
		return m.SetTab(m.shiftTab(-1))

	case key.Matches(msg, m.keys.Refresh):
		return m, m.LoadBoard()
	}

	// Navigation keys (up/down/pgup/pgdn) go to the list.
	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) shiftTab(delta int) board.Tab {
	n := len(board.Tabs)
	for i, t := range board.Tabs {
		if t == m.tab {
			return board.Tabs[((i+delta)%n+n)%n]
		}
	}
	return board.TabCreator
}

// SetTab switches the active tab and reloads the board.
func (m Model) SetTab(tab board.Tab) (Model, tea.Cmd) {
	m.tab = tab
	m.list.ResetSelected()
	m.list.SetItems(nil)
	return m, m.LoadBoard()
}

// View renders the task list view.
func (m Model) View() string {
	var body string
	switch {
	case m.err != nil:
		body = m.centered(theme.ErrorStyle.Render("Could not load tasks: " + m.err.Error()))
	case len(m.list.Items()) == 0:
		body = m.centered(emptyMessage(m.tab, m.query))
	default:
		body = m.list.View()
	}

	return lipgloss.JoinVertical(lipgloss.Left, m.searchBar(), body)
}

func (m Model) searchBar() string {
	style := lipgloss.NewStyle().Padding(0, 1)
	switch {
	case m.searchMode:
		return style.Foreground(theme.ColorWhite).Render(m.searchInput.View())
	case m.query != "":
		return style.Foreground(theme.ColorGray).Render("search: " + m.query)
	default:
		return ""
	}
}

func (m Model) centered(s string) string {
	return lipgloss.NewStyle().
		Width(m.width).
		Height(max(m.height-1, 1)).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray).
		Render(s)
}

// LoadBoard returns a tea.Cmd that lists the active tab with the
// current query.
func (m Model) LoadBoard() tea.Cmd {
	l, userID, tab, query := m.lister, m.userID, m.tab, m.query
	return func() tea.Msg {
		b, err := l.List(context.Background(), userID, tasks.ListOptions{
			Tab:    tab,
			Filter: board.Filter{Query: strings.TrimSpace(query)},
		})
		return BoardLoadedMsg{Tab: tab, Query: query, Board: b, Err: err}
	}
}

// SetSize updates the list dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.list.SetSize(width, max(height-1, 1))
	m.searchInput.Width = width - 4
}
