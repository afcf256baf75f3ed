package tasks

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Create adds a task created by userID with the submitted participants.
// The task and its participant rows are written in one transaction.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*model.Task, error) {
	if err := userExists(ctx, s.store, userID); err != nil {
		return nil, fmt.Errorf("creator %s: %w", userID, err)
	}
	if err := validate(ctx, s.store, &in, true); err != nil {
		return nil, err
	}

	t := &model.Task{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		CreatorID:   userID,
		CreatedAt:   s.now(),
	}
	if in.ResponsibleID != "" {
		responsible := in.ResponsibleID
		t.ResponsibleID = &responsible
	}

	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.CreateTask(ctx, t); err != nil {
			return err
		}
		return tx.ReplaceParticipants(ctx, t.ID, in.participants())
	})
	if err != nil {
		return nil, fmt.Errorf("creating task: %w", err)
	}

	s.logger.Info("task created",
		"task_id", t.ID,
		"creator_id", userID,
		"participants", len(in.Participants),
	)
	return t, nil
}

// Edit updates the task's title, description and deadline and replaces
// its participant set wholesale. Only users passing access.CanEdit may
// edit. The responsible user is left unchanged.
func (s *Service) Edit(ctx context.Context, userID, taskID string, in Input) (*model.Task, error) {
	t, _, err := s.authorize(ctx, userID, taskID, access.CanEdit)
	if err != nil {
		return nil, err
	}
	if err := validate(ctx, s.store, &in, false); err != nil {
		return nil, err
	}

	t.Title = in.Title
	t.Description = in.Description
	t.Deadline = in.Deadline

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.UpdateTaskDetails(ctx, t); err != nil {
			return err
		}
		return tx.ReplaceParticipants(ctx, t.ID, in.participants())
	})
	if err != nil {
		return nil, fmt.Errorf("editing task %s: %w", taskID, err)
	}

	s.logger.Info("task edited", "task_id", t.ID, "user_id", userID)
	return s.store.GetTaskByID(ctx, t.ID)
}

// Complete marks the task completed. Completion is one-way; completing
// an already completed task changes nothing.
func (s *Service) Complete(ctx context.Context, userID, taskID string) (*model.Task, error) {
	t, _, err := s.authorize(ctx, userID, taskID, access.CanComplete)
	if err != nil {
		return nil, err
	}
	if t.Completed {
		return t, nil
	}

	completed, err := s.store.CompleteTask(ctx, t.ID, s.now())
	if err != nil {
		return nil, fmt.Errorf("completing task %s: %w", taskID, err)
	}
	// Re-read so the result reflects any change committed since the
	// permission check, including a completion by someone else.
	t, err = s.store.GetTaskByID(ctx, t.ID)
	if err != nil {
		return nil, fmt.Errorf("completing task %s: %w", taskID, err)
	}
	if !completed {
		return t, nil
	}

	s.logger.Info("task completed", "task_id", t.ID, "user_id", userID)
	return t, nil
}
