package testutil

import (
	"context"
	"testing"
	"time"

	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// NewTestStore creates an in-memory SQLiteStore with all migrations applied.
// It automatically closes the store when the test completes.
func NewTestStore(t *testing.T) *store.SQLiteStore {
	t.Helper()

	s, err := store.NewSQLiteStore(":memory:")
	if err != nil {
		t.Fatalf("creating test store: %v", err)
	}

	t.Cleanup(func() {
		if err := s.Close(); err != nil {
			t.Errorf("closing test store: %v", err)
		}
	})

	return s
}

// CreateUser inserts a user with the given username and a derived
// first/last name.
func CreateUser(t *testing.T, s store.Store, username string) model.User {
	t.Helper()

	u := model.User{
		Username:  username,
		FirstName: "First" + username,
		LastName:  "Last" + username,
		Email:     username + "@example.com",
	}
	if err := s.CreateUser(context.Background(), &u); err != nil {
		t.Fatalf("creating user %s: %v", username, err)
	}
	return u
}

// TaskOption customizes a fixture task before it is inserted.
type TaskOption func(*model.Task)

// WithResponsible sets the task's responsible user.
func WithResponsible(userID string) TaskOption {
	return func(t *model.Task) { t.ResponsibleID = &userID }
}

// WithDeadline sets the task's deadline.
func WithDeadline(d time.Time) TaskOption {
	return func(t *model.Task) { t.Deadline = &d }
}

// WithDescription sets the task's description.
func WithDescription(desc string) TaskOption {
	return func(t *model.Task) { t.Description = desc }
}

// Completed marks the task as completed.
func Completed() TaskOption {
	return func(t *model.Task) { t.Completed = true }
}

// CreateTask inserts a task created by creatorID.
func CreateTask(t *testing.T, s store.Store, creatorID, title string, opts ...TaskOption) model.Task {
	t.Helper()

	task := model.Task{Title: title, CreatorID: creatorID}
	for _, opt := range opts {
		opt(&task)
	}
	if err := s.CreateTask(context.Background(), &task); err != nil {
		t.Fatalf("creating task %s: %v", title, err)
	}
	return task
}

// AddParticipant gives userID the role on taskID.
func AddParticipant(t *testing.T, s store.Store, taskID, userID string, role model.Role) {
	t.Helper()

	_, err := s.EnsureParticipant(context.Background(), model.Participant{
		TaskID: taskID,
		UserID: userID,
		Role:   role,
	})
	if err != nil {
		t.Fatalf("adding participant %s to %s: %v", userID, taskID, err)
	}
}
