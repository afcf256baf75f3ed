package tasks_test

import (
	"context"
	"errors"
	"io"
	"io/fs"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/clock"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
	"github.com/nhle/taskboard/internal/tasks"
	"github.com/nhle/taskboard/tests/testutil"
)

var epoch = time.Date(2026, 6, 1, 12, 0, 0, 0, time.UTC)

type fixture struct {
	ctx   context.Context
	st    *store.SQLiteStore
	clk   *clock.FakeClock
	svc   *tasks.Service
	alice model.User
	bob   model.User
	carol model.User
	dave  model.User
}

func newFixture(t *testing.T) *fixture {
	t.Helper()

	st := testutil.NewTestStore(t)
	files, err := filestore.NewDisk(t.TempDir())
	require.NoError(t, err)
	clk := clock.Fake(epoch)

	return &fixture{
		ctx:   context.Background(),
		st:    st,
		clk:   clk,
		svc:   tasks.NewService(st, files, tasks.WithClock(clk)),
		alice: testutil.CreateUser(t, st, "alice"),
		bob:   testutil.CreateUser(t, st, "bob"),
		carol: testutil.CreateUser(t, st, "carol"),
		dave:  testutil.CreateUser(t, st, "dave"),
	}
}

func (f *fixture) roles(t *testing.T, taskID string) map[string]model.Role {
	t.Helper()
	ps, err := f.st.GetParticipants(f.ctx, taskID)
	require.NoError(t, err)
	out := make(map[string]model.Role, len(ps))
	for _, p := range ps {
		out[p.UserID] = p.Role
	}
	return out
}

func TestCreateRoundTripsParticipants(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "  Prepare release  ",
		ResponsibleID: f.bob.ID,
		Participants: []tasks.ParticipantInput{
			{UserID: f.carol.ID, Role: model.RoleExecutor},
			{UserID: f.dave.ID, Role: model.RoleObserver},
			{UserID: "", Role: model.RoleObserver},
		},
	})
	require.NoError(t, err)
	assert.Equal(t, "Prepare release", task.Title)
	assert.Equal(t, f.alice.ID, task.CreatorID)
	assert.True(t, task.IsResponsible(f.bob.ID))
	assert.False(t, task.Delegated)

	assert.Equal(t, map[string]model.Role{
		f.carol.ID: model.RoleExecutor,
		f.dave.ID:  model.RoleObserver,
	}, f.roles(t, task.ID))
}

func TestCreateValidation(t *testing.T) {
	f := newFixture(t)

	tests := []struct {
		name  string
		in    tasks.Input
		field string
	}{
		{
			name:  "missing title",
			in:    tasks.Input{Title: "   "},
			field: "title",
		},
		{
			name:  "title too long",
			in:    tasks.Input{Title: strings.Repeat("я", tasks.MaxTitleLength+1)},
			field: "title",
		},
		{
			name:  "unknown responsible",
			in:    tasks.Input{Title: "t", ResponsibleID: "nobody"},
			field: "responsible_id",
		},
		{
			name: "unknown participant",
			in: tasks.Input{Title: "t", Participants: []tasks.ParticipantInput{
				{UserID: "nobody", Role: model.RoleExecutor},
			}},
			field: "participants[0].user_id",
		},
		{
			name: "invalid role",
			in: tasks.Input{Title: "t", Participants: []tasks.ParticipantInput{
				{UserID: f.bob.ID, Role: "boss"},
			}},
			field: "participants[0].role",
		},
		{
			name: "duplicate participant",
			in: tasks.Input{Title: "t", Participants: []tasks.ParticipantInput{
				{UserID: f.bob.ID, Role: model.RoleExecutor},
				{UserID: f.bob.ID, Role: model.RoleObserver},
			}},
			field: "participants[1].user_id",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := f.svc.Create(f.ctx, f.alice.ID, tt.in)
			var verr *model.ValidationError
			require.ErrorAs(t, err, &verr)
			assert.Contains(t, verr.Fields, tt.field)
		})
	}

	entries, err := f.st.GetVisibleTasks(f.ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Empty(t, entries, "rejected submissions persist nothing")
}

func TestEditReplacesParticipants(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "t",
		ResponsibleID: f.alice.ID,
		Participants:  []tasks.ParticipantInput{{UserID: f.bob.ID, Role: model.RoleExecutor}},
	})
	require.NoError(t, err)

	edited, err := f.svc.Edit(f.ctx, f.alice.ID, task.ID, tasks.Input{
		Title:         "renamed",
		ResponsibleID: f.dave.ID,
		Participants:  []tasks.ParticipantInput{{UserID: f.carol.ID, Role: model.RoleObserver}},
	})
	require.NoError(t, err)
	assert.Equal(t, "renamed", edited.Title)
	assert.True(t, edited.IsResponsible(f.alice.ID), "edit never changes the responsible user")

	assert.Equal(t, map[string]model.Role{f.carol.ID: model.RoleObserver}, f.roles(t, task.ID))

	p, err := f.st.GetParticipant(f.ctx, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Nil(t, p)
}

func TestEditPermissions(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title: "t",
		Participants: []tasks.ParticipantInput{
			{UserID: f.bob.ID, Role: model.RoleExecutor},
			{UserID: f.carol.ID, Role: model.RoleObserver},
		},
	})
	require.NoError(t, err)

	_, err = f.svc.Edit(f.ctx, f.bob.ID, task.ID, tasks.Input{Title: "by executor"})
	assert.True(t, model.IsForbidden(err), "executors cannot edit")

	_, err = f.svc.Edit(f.ctx, f.dave.ID, task.ID, tasks.Input{Title: "by stranger"})
	assert.True(t, model.IsForbidden(err))

	_, err = f.svc.Edit(f.ctx, f.carol.ID, task.ID, tasks.Input{
		Title:        "by observer",
		Participants: []tasks.ParticipantInput{{UserID: f.carol.ID, Role: model.RoleObserver}},
	})
	require.NoError(t, err, "observers can edit")

	_, err = f.svc.Edit(f.ctx, f.alice.ID, "missing", tasks.Input{Title: "x"})
	assert.True(t, model.IsNotFound(err))
}

func TestDelegate(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	f.clk.Advance(time.Hour)
	got, err := f.svc.Delegate(f.ctx, f.alice.ID, task.ID, f.carol.ID)
	require.NoError(t, err)
	assert.True(t, got.IsResponsible(f.carol.ID))
	assert.True(t, got.Delegated)

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsResponsible(f.carol.ID))
	assert.True(t, stored.Delegated)
	require.NotNil(t, stored.DelegatedFromID)
	assert.Equal(t, f.bob.ID, *stored.DelegatedFromID)
	require.NotNil(t, stored.DelegatedAt)
	assert.True(t, epoch.Add(time.Hour).Equal(*stored.DelegatedAt))
	assert.Equal(t, f.alice.ID, stored.CreatorID)

	assert.Equal(t, map[string]model.Role{
		f.bob.ID:   model.RoleObserver,
		f.carol.ID: model.RoleResponsible,
	}, f.roles(t, task.ID))

	msgs, err := f.st.GetTaskMessages(f.ctx, task.ID)
	require.NoError(t, err)
	require.Len(t, msgs, 1)
	assert.True(t, msgs[0].System)
	assert.Contains(t, msgs[0].Content, f.alice.DisplayName())
	assert.Contains(t, msgs[0].Content, f.carol.DisplayName())
}

func TestDelegateKeepsExistingRoles(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "t",
		ResponsibleID: f.bob.ID,
		Participants: []tasks.ParticipantInput{
			{UserID: f.bob.ID, Role: model.RoleExecutor},
			{UserID: f.carol.ID, Role: model.RoleObserver},
		},
	})
	require.NoError(t, err)

	// bob is responsible, so he may delegate his own task.
	_, err = f.svc.Delegate(f.ctx, f.bob.ID, task.ID, f.carol.ID)
	require.NoError(t, err)

	assert.Equal(t, map[string]model.Role{
		f.bob.ID:   model.RoleExecutor,
		f.carol.ID: model.RoleObserver,
	}, f.roles(t, task.ID), "get-or-create never overwrites a role")

	// Re-delegating back adds no rows and posts one more message.
	_, err = f.svc.Delegate(f.ctx, f.carol.ID, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Len(t, f.roles(t, task.ID), 2)

	msgs, err := f.st.GetTaskMessages(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Len(t, msgs, 2)
}

func TestDelegateWithoutResponsible(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t"})
	require.NoError(t, err)

	got, err := f.svc.Delegate(f.ctx, f.alice.ID, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.Nil(t, got.DelegatedFromID)
	assert.Equal(t, map[string]model.Role{f.bob.ID: model.RoleResponsible}, f.roles(t, task.ID))
}

func TestDelegateToCurrentResponsibleIsNoop(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	got, err := f.svc.Delegate(f.ctx, f.alice.ID, task.ID, f.bob.ID)
	require.NoError(t, err)
	assert.False(t, got.Delegated)

	msgs, err := f.st.GetTaskMessages(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Empty(t, msgs)
	assert.Empty(t, f.roles(t, task.ID))
}

func TestDelegateErrors(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "t",
		ResponsibleID: f.bob.ID,
		Participants:  []tasks.ParticipantInput{{UserID: f.carol.ID, Role: model.RoleResponsible}},
	})
	require.NoError(t, err)

	_, err = f.svc.Delegate(f.ctx, f.dave.ID, task.ID, f.dave.ID)
	assert.True(t, model.IsForbidden(err), "strangers cannot delegate")

	_, err = f.svc.Delegate(f.ctx, f.carol.ID, task.ID, f.carol.ID)
	assert.True(t, model.IsForbidden(err), "a responsible participant who is not the current responsible cannot delegate")

	_, err = f.svc.Delegate(f.ctx, f.alice.ID, "missing", f.carol.ID)
	assert.True(t, model.IsNotFound(err))

	_, err = f.svc.Delegate(f.ctx, f.alice.ID, task.ID, "nobody")
	assert.True(t, model.IsNotFound(err))

	_, err = f.svc.Delegate(f.ctx, f.alice.ID, task.ID, "")
	assert.True(t, model.IsValidation(err))

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsResponsible(f.bob.ID))
	assert.False(t, stored.Delegated)
}

// failingStore fails CreateMessage and CreateAttachment inside
// transactions.
type failingStore struct {
	store.Store
	err error
}

func (s *failingStore) RunInTx(ctx context.Context, fn func(tx store.Store) error) error {
	return s.Store.RunInTx(ctx, func(tx store.Store) error {
		return fn(&failingStore{Store: tx, err: s.err})
	})
}

func (s *failingStore) CreateMessage(context.Context, *model.Message) error {
	return s.err
}

func (s *failingStore) CreateAttachment(context.Context, *model.Attachment) error {
	return s.err
}

func (s *failingStore) GetVisibleTasks(context.Context, string) ([]board.Entry, error) {
	return nil, s.err
}

func TestDelegateRollsBackOnFailure(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	boom := errors.New("disk full")
	files, err := filestore.NewDisk(t.TempDir())
	require.NoError(t, err)
	svc := tasks.NewService(&failingStore{Store: f.st, err: boom}, files, tasks.WithClock(f.clk))

	_, err = svc.Delegate(f.ctx, f.alice.ID, task.ID, f.carol.ID)
	var txErr *model.TransactionError
	require.ErrorAs(t, err, &txErr)
	assert.ErrorIs(t, err, boom)

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsResponsible(f.bob.ID))
	assert.False(t, stored.Delegated)
	assert.Empty(t, f.roles(t, task.ID), "no participant rows survive the rollback")
}

func TestComplete(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:        "t",
		Participants: []tasks.ParticipantInput{{UserID: f.bob.ID, Role: model.RoleObserver}},
	})
	require.NoError(t, err)

	_, err = f.svc.Complete(f.ctx, f.bob.ID, task.ID)
	assert.True(t, model.IsForbidden(err), "observers cannot complete")

	got, err := f.svc.Complete(f.ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	require.NotNil(t, got.CompletedAt)
	first := *got.CompletedAt

	f.clk.Advance(time.Hour)
	got, err = f.svc.Complete(f.ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, first.Equal(*got.CompletedAt), "completing twice changes nothing")
}

// interleavingStore runs hook once, the first time userID's participant
// row is looked up, so another write can commit between a service's
// permission check and its update.
type interleavingStore struct {
	store.Store
	userID string
	hook   func()
}

func (s *interleavingStore) GetParticipant(ctx context.Context, taskID, userID string) (*model.Participant, error) {
	if userID == s.userID && s.hook != nil {
		hook := s.hook
		s.hook = nil
		hook()
	}
	return s.Store.GetParticipant(ctx, taskID, userID)
}

func (f *fixture) interleaved(t *testing.T, userID string, hook func()) *tasks.Service {
	t.Helper()
	files, err := filestore.NewDisk(t.TempDir())
	require.NoError(t, err)
	st := &interleavingStore{Store: f.st, userID: userID, hook: hook}
	return tasks.NewService(st, files, tasks.WithClock(f.clk))
}

func TestDelegateKeepsConcurrentCompletion(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	svc := f.interleaved(t, f.alice.ID, func() {
		_, err := f.svc.Complete(f.ctx, f.bob.ID, task.ID)
		require.NoError(t, err)
	})
	got, err := svc.Delegate(f.ctx, f.alice.ID, task.ID, f.carol.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed, "delegation must not reopen a completed task")
	require.NotNil(t, stored.CompletedAt)
	assert.True(t, stored.IsResponsible(f.carol.ID))
	require.NotNil(t, stored.DelegatedFromID)
	assert.Equal(t, f.bob.ID, *stored.DelegatedFromID)
}

func TestDelegateStartsFromCommittedResponsible(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	svc := f.interleaved(t, f.alice.ID, func() {
		_, err := f.svc.Delegate(f.ctx, f.alice.ID, task.ID, f.carol.ID)
		require.NoError(t, err)
	})
	_, err = svc.Delegate(f.ctx, f.alice.ID, task.ID, f.dave.ID)
	require.NoError(t, err)

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.IsResponsible(f.dave.ID))
	require.NotNil(t, stored.DelegatedFromID)
	assert.Equal(t, f.carol.ID, *stored.DelegatedFromID)
	assert.Equal(t, map[string]model.Role{
		f.bob.ID:   model.RoleObserver,
		f.carol.ID: model.RoleObserver,
		f.dave.ID:  model.RoleResponsible,
	}, f.roles(t, task.ID))
}

func TestCompleteKeepsConcurrentDelegation(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	svc := f.interleaved(t, f.bob.ID, func() {
		_, err := f.svc.Delegate(f.ctx, f.alice.ID, task.ID, f.carol.ID)
		require.NoError(t, err)
	})
	got, err := svc.Complete(f.ctx, f.bob.ID, task.ID)
	require.NoError(t, err)
	assert.True(t, got.Completed)
	assert.True(t, got.IsResponsible(f.carol.ID))

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.True(t, stored.Completed)
	assert.True(t, stored.IsResponsible(f.carol.ID), "completion must not undo a delegation")
	assert.True(t, stored.Delegated)
}

func TestEditKeepsConcurrentCompletion(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t", ResponsibleID: f.bob.ID})
	require.NoError(t, err)

	svc := f.interleaved(t, f.alice.ID, func() {
		_, err := f.svc.Complete(f.ctx, f.bob.ID, task.ID)
		require.NoError(t, err)
	})
	got, err := svc.Edit(f.ctx, f.alice.ID, task.ID, tasks.Input{Title: "renamed"})
	require.NoError(t, err)
	assert.Equal(t, "renamed", got.Title)

	stored, err := f.st.GetTaskByID(f.ctx, task.ID)
	require.NoError(t, err)
	assert.Equal(t, "renamed", stored.Title)
	assert.True(t, stored.Completed, "an edit must not reopen a completed task")
	assert.True(t, stored.IsResponsible(f.bob.ID))
}

func TestListAndExport(t *testing.T) {
	f := newFixture(t)
	deadline := epoch.Add(2 * time.Hour)

	mine, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "mine",
		Deadline:      &deadline,
		ResponsibleID: f.alice.ID,
	})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, f.bob.ID, tasks.Input{Title: "for alice", ResponsibleID: f.alice.ID})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, f.bob.ID, tasks.Input{
		Title:         "watching",
		ResponsibleID: f.bob.ID,
		Participants:  []tasks.ParticipantInput{{UserID: f.alice.ID, Role: model.RoleObserver}},
	})
	require.NoError(t, err)
	done, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "done"})
	require.NoError(t, err)
	_, err = f.svc.Complete(f.ctx, f.alice.ID, done.ID)
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, f.carol.ID, tasks.Input{Title: "hidden"})
	require.NoError(t, err)

	b, err := f.svc.List(f.ctx, f.alice.ID, tasks.ListOptions{})
	require.NoError(t, err)
	assert.Equal(t, board.TabCreator, b.Tab)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, mine.ID, b.Rows[0].Task.ID)
	assert.Equal(t, board.LabelCreator, b.Rows[0].RoleLabel)
	assert.Equal(t, board.StatusSoon, b.Rows[0].Status)
	assert.Equal(t, map[board.Tab]int{
		board.TabCreator:     1,
		board.TabResponsible: 1,
		board.TabParticipant: 1,
		board.TabCompleted:   1,
	}, b.Counts)

	b, err = f.svc.List(f.ctx, f.alice.ID, tasks.ListOptions{Tab: board.TabParticipant})
	require.NoError(t, err)
	require.Len(t, b.Rows, 1)
	assert.Equal(t, "Observer", b.Rows[0].RoleLabel)

	rows, err := f.svc.Export(f.ctx, f.alice.ID, board.Filter{})
	require.NoError(t, err)
	assert.Len(t, rows, 4)

	rows, err = f.svc.Export(f.ctx, f.alice.ID, board.Filter{Query: "WATCH"})
	require.NoError(t, err)
	require.Len(t, rows, 1)
	assert.Equal(t, "watching", rows[0][board.ColumnTitle])
}

func TestDashboard(t *testing.T) {
	f := newFixture(t)
	past := epoch.Add(-time.Hour)

	_, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "late", Deadline: &past})
	require.NoError(t, err)
	_, err = f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "fine"})
	require.NoError(t, err)

	stats := f.svc.Dashboard(f.ctx, f.alice.ID)
	assert.Equal(t, 2, stats.Total)
	assert.Equal(t, 1, stats.Overdue)
	assert.Equal(t, 0, stats.Completed)

	files, err := filestore.NewDisk(t.TempDir())
	require.NoError(t, err)
	broken := tasks.NewService(&failingStore{Store: f.st, err: errors.New("db gone")}, files)
	assert.Equal(t, board.Stats{}, broken.Dashboard(f.ctx, f.alice.ID))
}

func TestDetailAndMessages(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{
		Title:         "t",
		ResponsibleID: f.bob.ID,
		Participants:  []tasks.ParticipantInput{{UserID: f.carol.ID, Role: model.RoleExecutor}},
	})
	require.NoError(t, err)

	_, err = f.svc.PostMessage(f.ctx, f.carol.ID, task.ID, "on it")
	require.NoError(t, err)
	f.clk.Advance(time.Minute)
	_, err = f.svc.PostMessage(f.ctx, f.bob.ID, task.ID, "thanks")
	require.NoError(t, err)

	_, err = f.svc.PostMessage(f.ctx, f.dave.ID, task.ID, "let me in")
	assert.True(t, model.IsForbidden(err))
	_, err = f.svc.PostMessage(f.ctx, f.carol.ID, task.ID, "   ")
	assert.True(t, model.IsValidation(err))

	d, err := f.svc.Detail(f.ctx, f.carol.ID, task.ID)
	require.NoError(t, err)
	require.NotNil(t, d.Creator)
	assert.Equal(t, f.alice.ID, d.Creator.ID)
	require.NotNil(t, d.Responsible)
	assert.Equal(t, f.bob.ID, d.Responsible.ID)
	assert.Len(t, d.Participants, 1)
	require.Len(t, d.Messages, 2)
	assert.Equal(t, "on it", d.Messages[0].Content)
	assert.Equal(t, "Executor", d.RoleLabel)
	assert.Equal(t, board.StatusNoDeadline, d.Status)
	assert.False(t, d.Permissions.CanEdit)
	assert.True(t, d.Permissions.CanComplete)
	assert.True(t, d.Permissions.CanDelegate)
	assert.True(t, d.Permissions.CanUpload)

	_, err = f.svc.Detail(f.ctx, f.dave.ID, task.ID)
	assert.True(t, model.IsForbidden(err))
	_, err = f.svc.Detail(f.ctx, f.alice.ID, "missing")
	assert.True(t, model.IsNotFound(err))
}

func TestUploadAndOpen(t *testing.T) {
	f := newFixture(t)

	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t"})
	require.NoError(t, err)
	other, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "other"})
	require.NoError(t, err)

	_, err = f.svc.Upload(f.ctx, f.alice.ID, task.ID, nil)
	assert.True(t, model.IsValidation(err))

	_, err = f.svc.Upload(f.ctx, f.bob.ID, task.ID, []tasks.Upload{{Name: "x", Body: strings.NewReader("x")}})
	assert.True(t, model.IsForbidden(err))

	atts, err := f.svc.Upload(f.ctx, f.alice.ID, task.ID, []tasks.Upload{
		{Name: "../notes.txt", ContentType: "text/plain", Body: strings.NewReader("hello")},
		{Name: "data.bin", Body: strings.NewReader("0101")},
	})
	require.NoError(t, err)
	require.Len(t, atts, 2)
	assert.Equal(t, "notes.txt", atts[0].Name)
	assert.Equal(t, int64(5), atts[0].Size)
	assert.NotEmpty(t, atts[0].Digest)

	a, rc, err := f.svc.OpenAttachment(f.ctx, f.alice.ID, task.ID, atts[0].ID)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
	assert.Equal(t, "text/plain", a.ContentType)

	_, _, err = f.svc.OpenAttachment(f.ctx, f.alice.ID, other.ID, atts[0].ID)
	assert.True(t, model.IsNotFound(err), "attachments are scoped to their task")

	d, err := f.svc.Detail(f.ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Len(t, d.Attachments, 2)
}

func TestUploadRemovesContentWhenRecordingFails(t *testing.T) {
	f := newFixture(t)
	task, err := f.svc.Create(f.ctx, f.alice.ID, tasks.Input{Title: "t"})
	require.NoError(t, err)

	root := t.TempDir()
	files, err := filestore.NewDisk(root)
	require.NoError(t, err)
	boom := errors.New("db gone")
	svc := tasks.NewService(&failingStore{Store: f.st, err: boom}, files, tasks.WithClock(f.clk))

	_, err = svc.Upload(f.ctx, f.alice.ID, task.ID, []tasks.Upload{
		{Name: "a.txt", Body: strings.NewReader("a")},
		{Name: "b.txt", Body: strings.NewReader("b")},
	})
	require.ErrorIs(t, err, boom)

	var left []string
	require.NoError(t, filepath.WalkDir(root, func(p string, d fs.DirEntry, err error) error {
		if err == nil && !d.IsDir() {
			left = append(left, p)
		}
		return err
	}))
	assert.Empty(t, left, "no content survives without an attachment row")

	d, err := f.svc.Detail(f.ctx, f.alice.ID, task.ID)
	require.NoError(t, err)
	assert.Empty(t, d.Attachments)
}

func TestUsersExcludesCurrent(t *testing.T) {
	f := newFixture(t)

	users, err := f.svc.Users(f.ctx, f.alice.ID)
	require.NoError(t, err)
	assert.Len(t, users, 3)
	for _, u := range users {
		assert.NotEqual(t, f.alice.ID, u.ID)
	}
}
