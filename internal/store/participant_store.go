package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// GetParticipant returns userID's participant row on taskID, or nil
// when they hold none.
func (s *SQLiteStore) GetParticipant(ctx context.Context, taskID, userID string) (*model.Participant, error) {
	var p model.Participant
	err := s.get(ctx, &p,
		"SELECT * FROM task_participants WHERE task_id = ? AND user_id = ?",
		taskID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting participant %s on task %s: %w", userID, taskID, err)
	}
	return &p, nil
}

// GetParticipants returns every participant of a task in the order they
// were added, with User populated.
func (s *SQLiteStore) GetParticipants(ctx context.Context, taskID string) ([]model.Participant, error) {
	var participants []model.Participant
	err := sqlx.SelectContext(ctx, s.q, &participants,
		"SELECT * FROM task_participants WHERE task_id = ? ORDER BY created_at, id",
		taskID)
	if err != nil {
		return nil, fmt.Errorf("querying participants for task %s: %w", taskID, err)
	}

	ids := make([]string, len(participants))
	for i, p := range participants {
		ids[i] = p.UserID
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range participants {
		if u, ok := users[participants[i].UserID]; ok {
			participants[i].User = &u
		}
	}
	return participants, nil
}

// ReplaceParticipants deletes every participant row of taskID and
// inserts the given set. Run it inside RunInTx so readers never observe
// the empty intermediate state.
func (s *SQLiteStore) ReplaceParticipants(ctx context.Context, taskID string, participants []model.Participant) error {
	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM task_participants WHERE task_id = ?", taskID); err != nil {
		return fmt.Errorf("clearing participants for task %s: %w", taskID, err)
	}

	for i := range participants {
		p := &participants[i]
		p.TaskID = taskID
		if p.ID == "" {
			p.ID = newID()
		}
		if p.CreatedAt.IsZero() {
			p.CreatedAt = now()
		}
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO task_participants (id, task_id, user_id, role, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			p.ID, p.TaskID, p.UserID, string(p.Role), p.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("adding participant %s to task %s: %w", p.UserID, taskID, err)
		}
	}
	return nil
}

// EnsureParticipant inserts p unless the user already holds a row on
// the task, in which case the existing row (and its role) is left
// untouched. Reports whether a row was created.
func (s *SQLiteStore) EnsureParticipant(ctx context.Context, p model.Participant) (bool, error) {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}

	result, err := s.q.ExecContext(ctx, `
		INSERT INTO task_participants (id, task_id, user_id, role, created_at)
		VALUES (?, ?, ?, ?, ?)
		ON CONFLICT(task_id, user_id) DO NOTHING`,
		p.ID, p.TaskID, p.UserID, string(p.Role), p.CreatedAt.UTC(),
	)
	if err != nil {
		return false, fmt.Errorf("ensuring participant %s on task %s: %w", p.UserID, p.TaskID, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return false, fmt.Errorf("ensuring participant %s on task %s: %w", p.UserID, p.TaskID, err)
	}
	return n > 0, nil
}
