package app

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/theme"
	"github.com/nhle/taskboard/internal/ui"
	"github.com/nhle/taskboard/internal/ui/dashboard"
	"github.com/nhle/taskboard/internal/ui/detail"
	helpview "github.com/nhle/taskboard/internal/ui/help"
	"github.com/nhle/taskboard/internal/ui/projectmgr"
	"github.com/nhle/taskboard/internal/ui/taskform"
	"github.com/nhle/taskboard/internal/ui/tasklist"
)

// TaskService is the slice of tasks.Service the browser drives.
type TaskService interface {
	tasklist.Lister
	Detail(ctx context.Context, userID, taskID string) (*tasks.Detail, error)
	Complete(ctx context.Context, userID, taskID string) (*model.Task, error)
	Create(ctx context.Context, userID string, in tasks.Input) (*model.Task, error)
	Dashboard(ctx context.Context, userID string) board.Stats
	Users(ctx context.Context, excludeID string) ([]model.User, error)
}

// ViewState represents the current active view in the application.
type ViewState int

const (
	ViewList ViewState = iota
	ViewDetail
	ViewHelp
	ViewTaskForm
	ViewProjects
)

type statsLoadedMsg struct {
	stats board.Stats
}

type usersLoadedMsg struct {
	users []model.User
	err   error
}

type completedMsg struct {
	task *model.Task
	err  error
}

type createdMsg struct {
	task *model.Task
	err  error
}

// Model is the root Bubble Tea model that routes between the board,
// the detail panel, the help overlay, the task form and the project
// browser.
type Model struct {
	currentView  ViewState
	previousView ViewState
	layout       ui.Layout
	service      TaskService
	user         model.User
	keys         *keys.KeyMap
	taskList     tasklist.Model
	detail       detail.Model
	helpView     helpview.Model
	taskForm     taskform.Model
	projectView  projectmgr.Model
	stats        board.Stats
	notice       string
	noticeIsErr  bool
	ready        bool
}

// New creates the root model browsing as user. Times render through
// disp.
func New(svc TaskService, projectSvc projectmgr.Service, user model.User, disp ui.Display) Model {
	k := keys.DefaultKeyMap()
	return Model{
		currentView: ViewList,
		service:     svc,
		user:        user,
		keys:        k,
		layout:      ui.NewLayout(80, 24),
		taskList:    tasklist.New(svc, k, user.ID, disp, 80, 21),
		detail:      detail.New(k, disp, 80, 21),
		helpView:    helpview.New(k, 80, 21),
		taskForm:    taskform.New(user, nil, disp.Location, 80, 21),
		projectView: projectmgr.New(projectSvc, k, user.ID, disp, 80, 21),
	}
}

// Init loads the first board and the dashboard counts.
func (m Model) Init() tea.Cmd {
	return tea.Batch(m.taskList.Init(), m.loadStats())
}

// CurrentView returns the active view.
func (m Model) CurrentView() ViewState { return m.currentView }

// Notice returns the last status message and whether it is an error.
func (m Model) Notice() (string, bool) { return m.notice, m.noticeIsErr }

// Update handles messages and dispatches to the active view.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.layout = ui.NewLayout(msg.Width, msg.Height)
		m.ready = true
		w, h := m.layout.ContentWidth(), m.layout.ContentHeight()
		m.taskList.SetSize(w, h)
		m.detail.SetSize(w, h)
		m.helpView.SetSize(w, h)
		m.taskForm.SetSize(w, h)
		m.projectView.SetSize(w, h)
		return m.updateActiveView(msg)

	case statsLoadedMsg:
		m.stats = msg.stats
		return m, nil

	case tasklist.BoardLoadedMsg:
		var cmd tea.Cmd
		m.taskList, cmd = m.taskList.Update(msg)
		return m, cmd

	case tasklist.SelectedTaskMsg:
		m.previousView = m.currentView
		m.currentView = ViewDetail
		m.detail.SetLoading(true)
		return m, m.loadDetail(msg.TaskID)

	case detail.DetailLoadedMsg:
		var cmd tea.Cmd
		m.detail, cmd = m.detail.Update(msg)
		return m, cmd

	case detail.BackMsg:
		m.currentView = ViewList
		return m, nil

	case tasklist.CompleteRequestMsg:
		return m, m.complete(msg.TaskID)

	case detail.CompleteRequestMsg:
		return m, m.complete(msg.TaskID)

	case completedMsg:
		if msg.err != nil {
			m.setError("complete failed", msg.err)
			return m, nil
		}
		m.setNotice("Completed: " + msg.task.Title)
		cmds := []tea.Cmd{m.taskList.LoadBoard(), m.loadStats()}
		if m.currentView == ViewDetail {
			cmds = append(cmds, m.loadDetail(msg.task.ID))
		}
		return m, tea.Batch(cmds...)

	case usersLoadedMsg:
		if msg.err != nil {
			m.setError("loading users failed", msg.err)
			return m, nil
		}
		m.taskForm.SetUsers(msg.users)
		m.previousView = m.currentView
		m.currentView = ViewTaskForm
		return m, m.taskForm.Start()

	case taskform.SubmittedMsg:
		m.currentView = ViewList
		return m, m.create(msg.Input)

	case taskform.CancelMsg:
		m.currentView = ViewList
		return m, nil

	case projectmgr.ProjectListCloseMsg:
		m.currentView = ViewList
		return m, m.loadStats()

	case createdMsg:
		if msg.err != nil {
			m.setError("create failed", msg.err)
			return m, nil
		}
		m.setNotice("Created: " + msg.task.Title)
		return m, tea.Batch(m.taskList.LoadBoard(), m.loadStats())

	case tea.KeyMsg:
		if msg.String() == "ctrl+c" {
			return m, tea.Quit
		}
		if m.capturesKeys() {
			return m.updateActiveView(msg)
		}
		m.notice = ""

		switch msg.String() {
		case "q":
			if m.currentView == ViewList {
				return m, tea.Quit
			}

		case "?":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}
			m.previousView = m.currentView
			m.currentView = ViewHelp
			return m, nil

		case "esc":
			if m.currentView == ViewHelp {
				m.currentView = m.previousView
				return m, nil
			}

		case "n":
			if m.currentView == ViewList {
				return m, m.loadUsers()
			}

		case "p":
			if m.currentView == ViewList {
				m.previousView = m.currentView
				m.currentView = ViewProjects
				m.projectView.Reset()
				return m, m.projectView.Init()
			}
		}
	}

	return m.updateActiveView(msg)
}

// capturesKeys reports whether the active view is taking free text, so
// global shortcuts must not fire.
func (m Model) capturesKeys() bool {
	switch m.currentView {
	case ViewTaskForm:
		return true
	case ViewList:
		return m.taskList.Searching()
	case ViewProjects:
		return m.projectView.Editing()
	}
	return false
}

func (m Model) updateActiveView(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch m.currentView {
	case ViewList:
		m.taskList, cmd = m.taskList.Update(msg)
	case ViewDetail:
		m.detail, cmd = m.detail.Update(msg)
	case ViewHelp:
		m.helpView, cmd = m.helpView.Update(msg)
	case ViewTaskForm:
		m.taskForm, cmd = m.taskForm.Update(msg)
	case ViewProjects:
		m.projectView, cmd = m.projectView.Update(msg)
	}

	return m, cmd
}

// View renders the header, tab bar, active view and status bar.
func (m Model) View() string {
	if !m.ready {
		return "Loading..."
	}

	title := fmt.Sprintf("taskboard · %s (%s)", m.user.DisplayName(), m.user.Username)
	header := m.layout.RenderHeader(title, dashboard.Summary(m.stats))
	tabs := m.layout.RenderTabs(m.taskList.Tab(), m.taskList.Counts())
	statusBar := m.layout.RenderStatusBar(m.keyHints())

	return m.layout.RenderWithFrame(header, tabs, m.renderContent(), statusBar)
}

func (m Model) renderContent() string {
	switch m.currentView {
	case ViewDetail:
		return m.detail.View()
	case ViewHelp:
		return m.helpView.View()
	case ViewTaskForm:
		return m.taskForm.View()
	case ViewProjects:
		return m.projectView.View()
	default:
		return m.taskList.View()
	}
}

func (m Model) keyHints() string {
	if m.notice != "" {
		if m.noticeIsErr {
			return theme.ErrorStyle.Render(m.notice)
		}
		return m.notice
	}

	switch m.currentView {
	case ViewHelp:
		return "? close help | esc back"
	case ViewDetail:
		if d := m.detail.Task(); d != nil && d.Permissions.CanComplete && !d.Task.Completed {
			return "esc back | c complete | j/k scroll"
		}
		return "esc back | j/k scroll"
	case ViewTaskForm:
		return "enter next | esc cancel"
	case ViewProjects:
		return "? help | ctrl+c quit"
	default:
		if m.taskList.Searching() {
			return "enter keep search | esc clear"
		}
		return m.helpView.ShortView()
	}
}

func (m *Model) setNotice(s string) {
	m.notice = s
	m.noticeIsErr = false
}

func (m *Model) setError(what string, err error) {
	m.notice = fmt.Sprintf("%s: %v", what, err)
	m.noticeIsErr = true
}

func (m Model) loadStats() tea.Cmd {
	svc, userID := m.service, m.user.ID
	return func() tea.Msg {
		return statsLoadedMsg{stats: svc.Dashboard(context.Background(), userID)}
	}
}

func (m Model) loadDetail(taskID string) tea.Cmd {
	svc, userID := m.service, m.user.ID
	return func() tea.Msg {
		d, err := svc.Detail(context.Background(), userID, taskID)
		return detail.DetailLoadedMsg{Detail: d, Err: err}
	}
}

func (m Model) loadUsers() tea.Cmd {
	svc, userID := m.service, m.user.ID
	return func() tea.Msg {
		users, err := svc.Users(context.Background(), userID)
		return usersLoadedMsg{users: users, err: err}
	}
}

func (m Model) complete(taskID string) tea.Cmd {
	svc, userID := m.service, m.user.ID
	return func() tea.Msg {
		t, err := svc.Complete(context.Background(), userID, taskID)
		return completedMsg{task: t, err: err}
	}
}

func (m Model) create(in tasks.Input) tea.Cmd {
	svc, userID := m.service, m.user.ID
	return func() tea.Msg {
		t, err := svc.Create(context.Background(), userID, in)
		return createdMsg{task: t, err: err}
	}
}
