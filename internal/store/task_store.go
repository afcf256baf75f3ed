package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
)

// CreateTask inserts a new task. Generates an ID if empty and fills
// CreatedAt/UpdatedAt when unset.
func (s *SQLiteStore) CreateTask(ctx context.Context, t *model.Task) error {
	if t.ID == "" {
		t.ID = newID()
	}
	if t.CreatedAt.IsZero() {
		t.CreatedAt = now()
	}
	t.UpdatedAt = t.CreatedAt

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO tasks (
			id, title, description, deadline, created_at,
			is_completed, is_delegated, creator_id, responsible_id,
			delegated_from_id, delegated_at, completed_at, updated_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		t.ID, t.Title, t.Description, utc(t.Deadline), t.CreatedAt.UTC(),
		boolToInt(t.Completed), boolToInt(t.Delegated), t.CreatorID, t.ResponsibleID,
		t.DelegatedFromID, utc(t.DelegatedAt), utc(t.CompletedAt), t.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating task: %w", err)
	}
	return nil
}

// UpdateTaskDetails writes the task's title, description and deadline.
// Completion and delegation columns are only written by CompleteTask and
// DelegateTask, so an edit never undoes either.
func (s *SQLiteStore) UpdateTaskDetails(ctx context.Context, t *model.Task) error {
	t.UpdatedAt = now()

	err := s.exec(ctx, true, `
		UPDATE tasks SET title = ?, description = ?, deadline = ?, updated_at = ?
		WHERE id = ?`,
		t.Title, t.Description, utc(t.Deadline), t.UpdatedAt, t.ID,
	)
	if err != nil {
		return fmt.Errorf("updating task %s: %w", t.ID, err)
	}
	return nil
}

// CompleteTask marks the task completed at at. It reports false and
// changes nothing when the task was already completed.
func (s *SQLiteStore) CompleteTask(ctx context.Context, id string, at time.Time) (bool, error) {
	err := s.exec(ctx, true, `
		UPDATE tasks SET is_completed = 1, completed_at = ?, updated_at = ?
		WHERE id = ? AND is_completed = 0`,
		at.UTC(), now(), id,
	)
	if errors.Is(err, model.ErrNotFound) {
		if _, err := s.GetTaskByID(ctx, id); err != nil {
			return false, err
		}
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("completing task %s: %w", id, err)
	}
	return true, nil
}

// DelegateTask makes toID the task's responsible user, recording fromID
// as the previous one. Only the delegation columns are written.
func (s *SQLiteStore) DelegateTask(ctx context.Context, id string, fromID *string, toID string, at time.Time) error {
	err := s.exec(ctx, true, `
		UPDATE tasks SET
			responsible_id = ?, delegated_from_id = ?, is_delegated = 1,
			delegated_at = ?, updated_at = ?
		WHERE id = ?`,
		toID, fromID, at.UTC(), now(), id,
	)
	if err != nil {
		return fmt.Errorf("delegating task %s: %w", id, err)
	}
	return nil
}

// GetTaskByID retrieves a single task by ID.
func (s *SQLiteStore) GetTaskByID(ctx context.Context, id string) (*model.Task, error) {
	var t model.Task
	if err := s.get(ctx, &t, "SELECT * FROM tasks WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting task %s: %w", id, err)
	}
	return &t, nil
}

// entryRow is a task joined with the viewer's participant role and the
// responsible user's columns.
type entryRow struct {
	model.Task
	ViewerRole    sql.NullString `db:"viewer_role"`
	RespID        sql.NullString `db:"resp_id"`
	RespUsername  sql.NullString `db:"resp_username"`
	RespFirstName sql.NullString `db:"resp_first_name"`
	RespLastName  sql.NullString `db:"resp_last_name"`
	RespEmail     sql.NullString `db:"resp_email"`
}

// GetVisibleTasks returns every task userID created, is responsible
// for, or participates in, newest first. Each task appears once.
func (s *SQLiteStore) GetVisibleTasks(ctx context.Context, userID string) ([]board.Entry, error) {
	const query = `
		SELECT t.*,
			p.role       AS viewer_role,
			r.id         AS resp_id,
			r.username   AS resp_username,
			r.first_name AS resp_first_name,
			r.last_name  AS resp_last_name,
			r.email      AS resp_email
		FROM tasks t
		LEFT JOIN task_participants p ON p.task_id = t.id AND p.user_id = ?
		LEFT JOIN users r ON r.id = t.responsible_id
		WHERE t.creator_id = ? OR t.responsible_id = ? OR p.id IS NOT NULL
		ORDER BY t.created_at DESC, t.id DESC`

	var rows []entryRow
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, userID, userID, userID); err != nil {
		return nil, fmt.Errorf("querying visible tasks for %s: %w", userID, err)
	}

	entries := make([]board.Entry, len(rows))
	for i, r := range rows {
		e := board.Entry{Task: r.Task, ViewerRole: model.Role(r.ViewerRole.String)}
		if r.RespID.Valid {
			e.Responsible = &model.User{
				ID:        r.RespID.String,
				Username:  r.RespUsername.String,
				FirstName: r.RespFirstName.String,
				LastName:  r.RespLastName.String,
				Email:     r.RespEmail.String,
			}
		}
		entries[i] = e
	}
	return entries, nil
}
