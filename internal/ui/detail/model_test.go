package detail

import (
	"errors"
	"testing"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/keys"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/internal/ui"
)

func sampleDetail() *tasks.Detail {
	created := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	alice := &model.User{ID: "u1", Username: "alice", FirstName: "Alice"}
	bob := &model.User{ID: "u2", Username: "bob"}
	return &tasks.Detail{
		Task: model.Task{
			ID:          "t1",
			Title:       "Prepare budget",
			Description: "Numbers for Q3",
			CreatedAt:   created,
		},
		Creator:      alice,
		Responsible:  bob,
		Participants: []model.Participant{{UserID: "u2", Role: model.RoleObserver, User: bob}},
		Attachments:  []model.Attachment{{Name: "budget.xlsx", Size: 2048, Uploader: alice}},
		Messages: []model.Message{
			{Content: "Task created", System: true, CreatedAt: created},
			{Content: "Draft attached", Sender: alice, CreatedAt: created.Add(time.Hour)},
		},
		Permissions: access.TaskPermissions{CanEdit: true, CanComplete: true},
		RoleLabel:   board.LabelCreator,
		Status:      board.StatusOK,
	}
}

func loaded(t *testing.T, d *tasks.Detail) Model {
	t.Helper()
	m := New(keys.DefaultKeyMap(), ui.NewDisplay(time.UTC, ""), 100, 60)
	m.SetLoading(true)
	m, _ = m.Update(DetailLoadedMsg{Detail: d})
	return m
}

func TestRendersDetail(t *testing.T) {
	m := loaded(t, sampleDetail())
	out := m.View()

	for _, want := range []string{
		"Prepare budget",
		"ON TRACK",
		"Alice",
		"bob",
		"Numbers for Q3",
		"Participants (1)",
		"budget.xlsx",
		"2.0 KiB",
		"Messages (2)",
		"system",
		"Draft attached",
		"edit, complete",
		"2026-05-01 08:00",
	} {
		assert.Contains(t, out, want)
	}
	assert.Equal(t, "t1", m.Task().Task.ID)
}

func TestLoadingAndError(t *testing.T) {
	m := New(keys.DefaultKeyMap(), ui.Display{}, 80, 20)
	assert.Contains(t, m.View(), "No task selected")

	m.SetLoading(true)
	assert.Contains(t, m.View(), "Loading task details")

	m, _ = m.Update(DetailLoadedMsg{Err: errors.New("forbidden")})
	assert.Contains(t, m.View(), "forbidden")
}

func TestCompleteNeedsPermission(t *testing.T) {
	c := tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune("c")}

	m := loaded(t, sampleDetail())
	_, cmd := m.Update(c)
	require.NotNil(t, cmd)
	assert.Equal(t, CompleteRequestMsg{TaskID: "t1"}, cmd())

	d := sampleDetail()
	d.Permissions.CanComplete = false
	m = loaded(t, d)
	_, cmd = m.Update(c)
	assert.Nil(t, cmd)

	d = sampleDetail()
	d.Task.Completed = true
	m = loaded(t, d)
	_, cmd = m.Update(c)
	assert.Nil(t, cmd)
}

func TestBack(t *testing.T) {
	m := loaded(t, sampleDetail())
	_, cmd := m.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	assert.Equal(t, BackMsg{}, cmd())
}

func TestPermissionSummary(t *testing.T) {
	assert.Equal(t, "view", permissionSummary(access.TaskPermissions{}))
	assert.Equal(t, "complete, upload", permissionSummary(access.TaskPermissions{CanComplete: true, CanUpload: true}))
	assert.Equal(t, "edit, complete, delegate, upload", permissionSummary(access.TaskPermissions{
		CanEdit: true, CanComplete: true, CanDelegate: true, CanUpload: true,
	}))
}
