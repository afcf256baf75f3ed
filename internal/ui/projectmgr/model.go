package projectmgr

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/projects"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
)

// Service is the slice of projects.Service the browser drives.
type Service interface {
	List(ctx context.Context, userID, query string) ([]projects.Summary, error)
	Detail(ctx context.Context, userID, projectID string) (*projects.Detail, error)
	Create(ctx context.Context, userID string, in projects.Input) (*model.Project, error)
	ToggleItem(ctx context.Context, userID, projectID, itemID string) (*model.ProjectItem, error)
}

// ProjectListCloseMsg signals the parent to close the project view.
type ProjectListCloseMsg struct{}

type projectMode int

const (
	modeList projectMode = iota
	modeItems
	modeForm
)

type formBindings struct {
	title       string
	description string
	items       string
}

type projectsLoadedMsg struct {
	projects []projects.Summary
	err      error
}

type detailLoadedMsg struct {
	detail *projects.Detail
	err    error
}

type projectSavedMsg struct {
	project *model.Project
	err     error
}

type itemToggledMsg struct {
	item *model.ProjectItem
	err  error
}

// Model is the Bubble Tea model for browsing projects and ticking off
// their checklist items.
type Model struct {
	mode        projectMode
	service     Service
	keys        *keys.KeyMap
	userID      string
	display     ui.Display
	projects    []projects.Summary
	selectedIdx int
	detail      *projects.Detail
	itemIdx     int
	form        *huh.Form
	fb          *formBindings
	statusMsg   string
	width       int
	height      int
}

// New creates a project browser for userID.
func New(svc Service, k *keys.KeyMap, userID string, disp ui.Display, width, height int) Model {
	return Model{
		mode:     modeList,
		service:  svc,
		keys:     k,
		userID:   userID,
		display:  disp,
		fb:       &formBindings{},
		width:    width,
		height:   height,
	}
}

// Init loads the visible projects.
func (m Model) Init() tea.Cmd {
	return m.loadProjects()
}

// Reset returns to the project list.
func (m *Model) Reset() {
	m.mode = modeList
	m.detail = nil
	m.form = nil
	m.statusMsg = ""
}

// Editing reports whether the new project form has focus.
func (m Model) Editing() bool {
	return m.mode == modeForm
}

// Update handles messages.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	switch msg := msg.(type) {
	case projectsLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.projects = msg.projects
		if m.selectedIdx >= len(m.projects) {
			m.selectedIdx = max(len(m.projects)-1, 0)
		}
		return m, nil

	case detailLoadedMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			m.mode = modeList
			return m, nil
		}
		m.detail = msg.detail
		if m.itemIdx >= len(m.detail.Items) {
			m.itemIdx = max(len(m.detail.Items)-1, 0)
		}
		m.mode = modeItems
		return m, nil

	case projectSavedMsg:
		m.mode = modeList
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = "Project created: " + msg.project.Title
		return m, m.loadProjects()

	case itemToggledMsg:
		if msg.err != nil {
			m.statusMsg = fmt.Sprintf("Error: %v", msg.err)
			return m, nil
		}
		m.statusMsg = ""
		return m, tea.Batch(m.loadDetail(msg.item.ProjectID), m.loadProjects())

	case tea.KeyMsg:
		return m.handleKey(msg)
	}

	if m.mode == modeForm {
		return m.updateForm(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch m.mode {
	case modeItems:
		return m.handleItemKey(msg)
	case modeForm:
		return m.updateForm(msg)
	default:
		return m.handleListKey(msg)
	}
}

func (m Model) handleListKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		return m, func() tea.Msg { return ProjectListCloseMsg{} }

	case key.Matches(msg, m.keys.Down):
		if len(m.projects) > 0 {
			m.selectedIdx = (m.selectedIdx + 1) % len(m.projects)
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if len(m.projects) > 0 {
			m.selectedIdx--
			if m.selectedIdx < 0 {
				m.selectedIdx = len(m.projects) - 1
			}
		}
		return m, nil

	case key.Matches(msg, m.keys.Select):
		if len(m.projects) == 0 {
			return m, nil
		}
		m.itemIdx = 0
		return m, m.loadDetail(m.projects[m.selectedIdx].Project.ID)

	case key.Matches(msg, m.keys.New):
		m.fb = &formBindings{}
		m.form = m.buildForm()
		m.mode = modeForm
		return m, m.form.Init()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadProjects()
	}
	return m, nil
}

func (m Model) handleItemKey(msg tea.KeyMsg) (Model, tea.Cmd) {
	if m.detail == nil {
		m.mode = modeList
		return m, nil
	}
	n := len(m.detail.Items)

	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = modeList
		m.detail = nil
		return m, nil

	case key.Matches(msg, m.keys.Down):
		if n > 0 {
			m.itemIdx = (m.itemIdx + 1) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Up):
		if n > 0 {
			m.itemIdx = (m.itemIdx - 1 + n) % n
		}
		return m, nil

	case key.Matches(msg, m.keys.Complete), msg.String() == " ":
		if n == 0 {
			return m, nil
		}
		item := m.detail.Items[m.itemIdx]
		if !item.CanToggle {
			m.statusMsg = "You cannot toggle this item"
			return m, nil
		}
		return m, m.toggleItem(item.ProjectID, item.ID)
	}
	return m, nil
}

// buildForm asks for the project and its checklist, one item per line.
func (m Model) buildForm() *huh.Form {
	return huh.NewForm(
		huh.NewGroup(
			huh.NewInput().
				Title("Title").
				Placeholder("Project title").
				Value(&m.fb.title).
				Validate(func(s string) error {
					if strings.TrimSpace(s) == "" {
						return errors.New("title is required")
					}
					return nil
				}),
			huh.NewText().
				Title("Description").
				Placeholder("Optional description").
				Value(&m.fb.description),
			huh.NewText().
				Title("Checklist").
				Description("One item per line").
				Value(&m.fb.items),
		),
	).WithKeyMap(keys.FormKeyMap()).WithWidth(m.formWidth()).WithHeight(m.formHeight())
}

func (m Model) updateForm(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		m.mode = modeList
		return m, nil
	}
	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}
	switch m.form.State {
	case huh.StateCompleted:
		m.form = nil
		return m, m.saveProject(m.fb.input())
	case huh.StateAborted:
		m.form = nil
		m.mode = modeList
		return m, nil
	}
	return m, cmd
}

// input converts the form into a project with its checklist. Blank
// lines are skipped.
func (fb *formBindings) input() projects.Input {
	in := projects.Input{
		Title:       strings.TrimSpace(fb.title),
		Description: strings.TrimSpace(fb.description),
	}
	for _, line := range strings.Split(fb.items, "\n") {
		if line = strings.TrimSpace(line); line != "" {
			in.Items = append(in.Items, projects.ItemInput{Title: line})
		}
	}
	return in
}

// View renders the project manager.
func (m Model) View() string {
	switch m.mode {
	case modeForm:
		if m.form == nil {
			return ""
		}
		return lipgloss.NewStyle().Padding(1, 2).Render(m.form.View())
	case modeItems:
		return m.viewItems()
	default:
		return m.viewList()
	}
}

func (m Model) viewList() string {
	var b strings.Builder

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite).MarginBottom(1)
	b.WriteString(titleStyle.Render("Projects"))
	b.WriteString("\n\n")

	if len(m.projects) == 0 {
		emptyStyle := lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true)
		b.WriteString(emptyStyle.Render("No projects yet. Press 'n' to create one."))
	}
	for i, s := range m.projects {
		label := fmt.Sprintf("%s  %s  %s",
			progressBadge(s.Progress),
			s.Project.Title,
			theme.RoleStyle(s.RoleLabel).Render(s.RoleLabel),
		)
		if s.Project.Deadline != nil {
			label += theme.DeadlineStyle(s.Status).Render("  " + m.format(*s.Project.Deadline))
		}

		if i == m.selectedIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	m.writeFooter(&b, "enter checklist | n new | r refresh | esc back")
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) viewItems() string {
	var b strings.Builder
	d := m.detail

	titleStyle := lipgloss.NewStyle().Bold(true).Foreground(theme.ColorWhite)
	b.WriteString(titleStyle.Render(d.Project.Title))
	b.WriteString("  ")
	b.WriteString(progressBadge(d.Progress))
	b.WriteString("\n\n")

	if len(d.Items) == 0 {
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Italic(true).Render("No checklist items."))
	}
	for i, it := range d.Items {
		box := "[ ]"
		if it.Completed {
			box = "[x]"
		}
		label := fmt.Sprintf("%s %s", box, it.Title)
		if it.Deadline != nil {
			label += theme.DeadlineStyle(it.Status).Render("  " + m.format(*it.Deadline))
		}
		if names := assigneeNames(it.Assignees); names != "" {
			label += lipgloss.NewStyle().Foreground(theme.ColorBlue).Render("  " + names)
		}
		if it.Completed {
			label = theme.DimmedStyle.Render(label)
		}

		if i == m.itemIdx {
			b.WriteString(theme.SelectedItemStyle.Render(label))
		} else {
			b.WriteString(theme.ListItemStyle.Render(label))
		}
		b.WriteString("\n")
	}

	m.writeFooter(&b, "c/space toggle | esc back")
	return lipgloss.NewStyle().Padding(1, 2).Width(m.width).Height(m.height).Render(b.String())
}

func (m Model) writeFooter(b *strings.Builder, hints string) {
	if m.statusMsg != "" {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorYellow).Italic(true).Render(m.statusMsg))
	}
	b.WriteString("\n\n")
	b.WriteString(lipgloss.NewStyle().Foreground(theme.ColorGray).Render(hints))
}

func (m Model) format(t time.Time) string {
	return m.display.Date(t)
}

func progressBadge(p projects.Progress) string {
	style := lipgloss.NewStyle().Foreground(theme.ColorGray)
	if p.Complete() {
		style = style.Foreground(theme.ColorGreen)
	}
	return style.Render(fmt.Sprintf("%d/%d", p.Done, p.Total))
}

func assigneeNames(users []model.User) string {
	names := make([]string, len(users))
	for i, u := range users {
		names[i] = "@" + u.Username
	}
	return strings.Join(names, " ")
}

// SetSize updates dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func (m Model) loadProjects() tea.Cmd {
	svc, userID := m.service, m.userID
	return func() tea.Msg {
		ps, err := svc.List(context.Background(), userID, "")
		return projectsLoadedMsg{projects: ps, err: err}
	}
}

func (m Model) loadDetail(projectID string) tea.Cmd {
	svc, userID := m.service, m.userID
	return func() tea.Msg {
		d, err := svc.Detail(context.Background(), userID, projectID)
		return detailLoadedMsg{detail: d, err: err}
	}
}

func (m Model) saveProject(in projects.Input) tea.Cmd {
	svc, userID := m.service, m.userID
	return func() tea.Msg {
		p, err := svc.Create(context.Background(), userID, in)
		return projectSavedMsg{project: p, err: err}
	}
}

func (m Model) toggleItem(projectID, itemID string) tea.Cmd {
	svc, userID := m.service, m.userID
	return func() tea.Msg {
		it, err := svc.ToggleItem(context.Background(), userID, projectID, itemID)
		return itemToggledMsg{item: it, err: err}
	}
}
