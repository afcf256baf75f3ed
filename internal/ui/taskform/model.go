package taskform

import (
	"errors"
	"fmt"
	"strings"
	"time"
	"unicode/utf8"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/huh"
	"github.com/charmbracelet/lipgloss"

	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/theme"
)

// Accepted deadline layouts. A bare date means the end of that day.
const (
	DateTimeLayout = "2006-01-02 15:04"
	DateLayout     = "2006-01-02"
)

// SubmittedMsg is dispatched when the form is completed.
type SubmittedMsg struct {
	Input tasks.Input
}

// CancelMsg is dispatched when the user aborts the form.
type CancelMsg struct{}

// formBindings holds form field values on the heap so that huh's Value()
// pointers remain valid across Bubble Tea model copies.
type formBindings struct {
	title          string
	description    string
	deadline       string
	responsibleID  string
	participantIDs []string
	role           model.Role
}

func newBindings() *formBindings {
	return &formBindings{role: model.RoleExecutor}
}

// Model is the Bubble Tea model for the new task form.
type Model struct {
	form     *huh.Form
	fb       *formBindings
	self     model.User
	users    []model.User
	location *time.Location
	width    int
	height   int
}

// New creates a form for self. users are the other people who may be
// picked as responsible or participants.
func New(self model.User, users []model.User, loc *time.Location, width, height int) Model {
	if loc == nil {
		loc = time.UTC
	}
	return Model{
		fb:       newBindings(),
		self:     self,
		users:    users,
		location: loc,
		width:    width,
		height:   height,
	}
}

// SetUsers replaces the pickable users. It takes effect on the next
// Start.
func (m *Model) SetUsers(users []model.User) {
	m.users = users
}

// Start resets the bindings and builds a fresh form.
func (m *Model) Start() tea.Cmd {
	m.fb = newBindings()
	m.form = buildForm(m.fb, m.self, m.users, m.location).
		WithWidth(m.formWidth()).
		WithHeight(m.formHeight()).
		WithShowHelp(true)
	return m.form.Init()
}

// Update handles messages for the task form.
func (m Model) Update(msg tea.Msg) (Model, tea.Cmd) {
	if m.form == nil {
		return m, nil
	}

	mdl, cmd := m.form.Update(msg)
	if f, ok := mdl.(*huh.Form); ok {
		m.form = f
	}

	switch m.form.State {
	case huh.StateCompleted:
		in := m.fb.input(m.location)
		m.form = nil
		return m, func() tea.Msg { return SubmittedMsg{Input: in} }
	case huh.StateAborted:
		m.form = nil
		return m, func() tea.Msg { return CancelMsg{} }
	}

	return m, cmd
}

// View renders the task form.
func (m Model) View() string {
	if m.form == nil {
		return ""
	}

	title := lipgloss.NewStyle().
		Bold(true).
		Foreground(theme.ColorWhite).
		MarginBottom(1).
		Render("New Task")

	return lipgloss.NewStyle().
		Padding(1, 2).
		Render(title + "\n" + m.form.View())
}

// SetSize updates the form dimensions.
func (m *Model) SetSize(width, height int) {
	m.width = width
	m.height = height
	if m.form != nil {
		m.form = m.form.WithWidth(m.formWidth()).WithHeight(m.formHeight())
	}
}

// Run shows the form on the terminal outside a Bubble Tea program and
// returns the completed input. An aborted form returns
// huh.ErrUserAborted.
func Run(self model.User, users []model.User, loc *time.Location) (tasks.Input, error) {
	if loc == nil {
		loc = time.UTC
	}
	fb := newBindings()
	if err := buildForm(fb, self, users, loc).Run(); err != nil {
		return tasks.Input{}, err
	}
	return fb.input(loc), nil
}

// buildForm lays out two groups: the task itself, then the people on
// it.
func buildForm(fb *formBindings, self model.User, users []model.User, loc *time.Location) *huh.Form {
	responsible := []huh.Option[string]{
		huh.NewOption("Unassigned", ""),
		huh.NewOption("Me ("+self.DisplayName()+")", self.ID),
	}
	participants := make([]huh.Option[string], 0, len(users))
	for _, u := range users {
		label := fmt.Sprintf("%s (%s)", u.DisplayName(), u.Username)
		responsible = append(responsible, huh.NewOption(label, u.ID))
		participants = append(participants, huh.NewOption(label, u.ID))
	}

	roles := make([]huh.Option[model.Role], len(model.Roles))
	for i, r := range model.Roles {
		roles[i] = huh.NewOption(r.Label(), r)
	}

	details := huh.NewGroup(
		huh.NewInput().
			Title("Title").
			Placeholder("What needs to be done?").
			Value(&fb.title).
			Validate(validateTitle),
		huh.NewText().
			Title("Description").
			Placeholder("Optional details...").
			Value(&fb.description),
		huh.NewInput().
			Title("Deadline").
			Placeholder("YYYY-MM-DD or YYYY-MM-DD HH:MM (optional)").
			Value(&fb.deadline).
			Validate(func(s string) error {
				_, err := parseDeadline(s, loc)
				return err
			}),
	)

	fields := []huh.Field{
		huh.NewSelect[string]().
			Title("Responsible").
			Options(responsible...).
			Value(&fb.responsibleID),
	}
	if len(participants) > 0 {
		fields = append(fields,
			huh.NewMultiSelect[string]().
				Title("Participants").
				Options(participants...).
				Value(&fb.participantIDs),
			huh.NewSelect[model.Role]().
				Title("Participant role").
				Description("Applied to every selected participant").
				Options(roles...).
				Value(&fb.role),
		)
	}

	return huh.NewForm(details, huh.NewGroup(fields...)).WithKeyMap(keys.FormKeyMap())
}

// input converts the bindings into the service input. The deadline was
// validated by the form, so a parse failure here leaves it unset.
func (fb *formBindings) input(loc *time.Location) tasks.Input {
	in := tasks.Input{
		Title:         strings.TrimSpace(fb.title),
		Description:   strings.TrimSpace(fb.description),
		ResponsibleID: fb.responsibleID,
	}
	if d, err := parseDeadline(fb.deadline, loc); err == nil {
		in.Deadline = d
	}
	for _, id := range fb.participantIDs {
		in.Participants = append(in.Participants, tasks.ParticipantInput{UserID: id, Role: fb.role})
	}
	return in
}

func (m Model) formWidth() int {
	return min(max(m.width-4, 40), 100)
}

func (m Model) formHeight() int {
	return max(m.height-4, 10)
}

func validateTitle(s string) error {
	switch n := utf8.RuneCountInString(strings.TrimSpace(s)); {
	case n == 0:
		return errors.New("title is required")
	case n > tasks.MaxTitleLength:
		return fmt.Errorf("title must be at most %d characters", tasks.MaxTitleLength)
	}
	return nil
}

// parseDeadline reads an optional deadline in loc. Empty input yields
// nil. A date without a time resolves to 23:59 that day.
func parseDeadline(s string, loc *time.Location) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	if t, err := time.ParseInLocation(DateTimeLayout, s, loc); err == nil {
		return &t, nil
	}
	t, err := time.ParseInLocation(DateLayout, s, loc)
	if err != nil {
		return nil, errors.New("invalid deadline, use YYYY-MM-DD or YYYY-MM-DD HH:MM")
	}
	t = time.Date(t.Year(), t.Month(), t.Day(), 23, 59, 0, 0, loc)
	return &t, nil
}
