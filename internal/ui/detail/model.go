package detail

import (
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// BackMsg signals the parent to navigate back to the list view.
type BackMsg struct{}

// DetailLoadedMsg carries the loaded task detail.
type DetailLoadedMsg struct {
	Detail *tasks.Detail
	Err    error
}

// CompleteRequestMsg asks the parent to complete the displayed task.
type CompleteRequestMsg struct {
	TaskID string
}

// Model is the task detail view component.
type Model struct {
	task     *tasks.Detail
	err      error
	viewport viewport.Model
	keys     *keys.KeyMap
	display  ui.Display
	width    int
	height   int
	loading  bool
}

// New creates a new detail view model. Timestamps render through disp.
func New(keys *keys.KeyMap, disp ui.Display, width, height int) Model {
	vp := viewport.New(width, height)
	vp.Style = lipgloss.NewStyle()

	return Model{
		viewport: vp,
		keys:     keys,
		display:  disp,
		width:    width,
		height:   height,
	}
}

// Update handles messages for the detail view.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case DetailLoadedMsg:
		m.loading = false
		m.err = msg.Err
		if msg.Err == nil {
			m.SetTask(msg.Detail)
		}
		return m, nil

	case tea.KeyMsg:
		switch {
		case key.Matches(msg, m.keys.Back):
			return m, func() tea.Msg {
				return BackMsg{}
			}

		case key.Matches(msg, m.keys.Complete):
			if m.task != nil && m.task.Permissions.CanComplete && !m.task.Task.Completed {
				id := m.task.Task.ID
				return m, func() tea.Msg {
					return CompleteRequestMsg{TaskID: id}
				}
			}
			return m, nil
		}
	}

	// Delegate to viewport for scrolling (j/k, up/down, pgup/pgdn)
	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

// View renders the detail view.
func (m Model) View() string {
	placeholder := lipgloss.NewStyle().
		Width(m.width).
		Height(m.height).
		Align(lipgloss.Center, lipgloss.Center).
		Foreground(theme.ColorGray)

	switch {
	case m.loading:
		return placeholder.Render("Loading task details...")
	case m.err != nil:
		return placeholder.Render(theme.ErrorStyle.Render(m.err.Error()))
	case m.task == nil:
		return placeholder.Render("No task selected")
	}
	return m.viewport.View()
}

// renderContent builds the full detail content string for the viewport.
func (m Model) renderContent() string {
	if m.task == nil {
		return ""
	}

	d := m.task
	var sections []string

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	sections = append(sections, titleStyle.Render(d.Task.Title))

	badgeLine := lipgloss.JoinHorizontal(
		lipgloss.Top,
		theme.DeadlineStyle(d.Status).Render(theme.DeadlineLabel(d.Status)),
		"  ",
		theme.RoleStyle(d.RoleLabel).Render(d.RoleLabel),
	)
	sections = append(sections, badgeLine, "")

	metaStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Width(13)
	valStyle := lipgloss.NewStyle().Foreground(theme.ColorWhite)
	meta := func(label, value string) {
		sections = append(sections, metaStyle.Render(label+":")+valStyle.Render(value))
	}

	meta("Creator", userName(d.Creator))
	meta("Responsible", userName(d.Responsible))
	if d.Task.Deadline != nil {
		meta("Deadline", m.format(*d.Task.Deadline))
	}
	meta("Created", m.format(d.Task.CreatedAt))
	if d.Task.Delegated && d.Task.DelegatedAt != nil {
		meta("Delegated", m.format(*d.Task.DelegatedAt))
	}
	if d.Task.CompletedAt != nil {
		meta("Completed", m.format(*d.Task.CompletedAt))
	}
	meta("You can", permissionSummary(d.Permissions))

	separator := lipgloss.NewStyle().
		Foreground(theme.ColorSubtle).
		Render(strings.Repeat("─", max(min(m.width-4, 80), 1)))
	headerStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	section := func(title string) {
		sections = append(sections, "", separator, "", headerStyle.Render(title))
	}
	muted := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)

	section("Description")
	if d.Task.Description == "" {
		sections = append(sections, muted.Render("No description"))
	} else {
		sections = append(sections, d.Task.Description)
	}

	section(fmt.Sprintf("Participants (%d)", len(d.Participants)))
	for _, p := range d.Participants {
		sections = append(sections, fmt.Sprintf("  %s %s",
			theme.RoleStyle(p.Role.Label()).Render(fmt.Sprintf("%-11s", p.Role.Label())),
			userName(p.User),
		))
	}

	section(fmt.Sprintf("Attachments (%d)", len(d.Attachments)))
	for _, a := range d.Attachments {
		sections = append(sections, fmt.Sprintf("  %s  %s  %s",
			a.Name,
			muted.Render(humanize.IBytes(uint64(max(a.Size, 0)))),
			muted.Render(userName(a.Uploader)),
		))
	}

	section(fmt.Sprintf("Messages (%d)", len(d.Messages)))
	authorStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorBlue)
	for _, msg := range d.Messages {
		author := authorStyle.Render(userName(msg.Sender))
		if msg.System {
			author = lipgloss.NewStyle().Foreground(theme.ColorMagenta).Render("system")
		}
		sections = append(sections,
			fmt.Sprintf("%s  %s", author, muted.Render(m.format(msg.CreatedAt))),
			msg.Content,
			"",
		)
	}

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

func (m Model) format(t time.Time) string {
	return m.display.DateTime(t)
}

func userName(u *model.User) string {
	if u == nil {
		return "—"
	}
	return u.DisplayName()
}

// permissionSummary lists the actions the viewer may take.
func permissionSummary(p access.TaskPermissions) string {
	var can []string
	if p.CanEdit {
		can = append(can, "edit")
	}
	if p.CanComplete {
		can = append(can, "complete")
	}
	if p.CanDelegate {
		can = append(can, "delegate")
	}
	if p.CanUpload {
		can = append(can, "upload")
	}
	if len(can) == 0 {
		return "view"
	}
	return strings.Join(can, ", ")
}

// Task returns the displayed task detail, if any.
func (m Model) Task() *tasks.Detail {
	return m.task
}

// SetTask updates the task being displayed and re-renders the content.
func (m *Model) SetTask(d *tasks.Detail) {
	m.task = d
	m.err = nil
	m.loading = false
	m.viewport.SetContent(m.renderContent())
	m.viewport.GotoTop()
}

// SetLoading sets the loading state.
func (m *Model) SetLoading(loading bool) {
	m.loading = loading
	if loading {
		m.err = nil
	}
}

// SetSize updates the detail view dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	m.viewport.Width = width
	m.viewport.Height = height
	if m.task != nil {
		m.viewport.SetContent(m.renderContent())
	}
}
