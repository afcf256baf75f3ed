package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Delegate hands the task from its current responsible user to
// newResponsibleID on behalf of actorID.
//
// Inside one transaction the outgoing responsible is kept on the task
// as an observer, the task's responsible and delegation fields are
// updated, the incoming user is given a responsible participant row,
// and a system message recording the handover is appended. Existing
// participant rows keep their role. Delegating to the user who is
// already responsible changes nothing and posts no message.
func (s *Service) Delegate(ctx context.Context, actorID, taskID, newResponsibleID string) (*model.Task, error) {
	newResponsibleID = strings.TrimSpace(newResponsibleID)
	if newResponsibleID == "" {
		return nil, model.NewValidationError("responsible_id", "required")
	}

	if _, _, err := s.authorize(ctx, actorID, taskID, access.CanDelegate); err != nil {
		return nil, err
	}
	incoming, err := s.store.GetUserByID(ctx, newResponsibleID)
	if err != nil {
		return nil, fmt.Errorf("delegating task %s: %w", taskID, err)
	}
	actor, err := s.store.GetUserByID(ctx, actorID)
	if err != nil {
		return nil, fmt.Errorf("delegating task %s: %w", taskID, err)
	}

	// The task is read again inside the transaction so the handover
	// starts from the responsible user as committed, not as first read.
	var t *model.Task
	handedOver := false
	at := s.now()
	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		cur, p, err := load(ctx, tx, actorID, taskID)
		if err != nil {
			return err
		}
		if !access.CanDelegate(actorID, *cur, p) {
			return fmt.Errorf("task %s: %w", taskID, model.ErrForbidden)
		}
		t = cur
		if cur.IsResponsible(incoming.ID) {
			return nil
		}

		if cur.ResponsibleID != nil {
			_, err := tx.EnsureParticipant(ctx, model.Participant{
				TaskID:    cur.ID,
				UserID:    *cur.ResponsibleID,
				Role:      model.RoleObserver,
				CreatedAt: at,
			})
			if err != nil {
				return err
			}
		}

		if err := tx.DelegateTask(ctx, cur.ID, cur.ResponsibleID, incoming.ID, at); err != nil {
			return err
		}

		_, err = tx.EnsureParticipant(ctx, model.Participant{
			TaskID:    cur.ID,
			UserID:    incoming.ID,
			Role:      model.RoleResponsible,
			CreatedAt: at,
		})
		if err != nil {
			return err
		}

		err = tx.CreateMessage(ctx, &model.Message{
			TaskID:    &cur.ID,
			SenderID:  &actor.ID,
			Content:   delegationMessage(*actor, *incoming),
			System:    true,
			CreatedAt: at,
		})
		if err != nil {
			return err
		}
		handedOver = true
		return nil
	})
	if err != nil {
		if t == nil {
			return nil, err
		}
		return nil, &model.TransactionError{Op: "delegate task " + taskID, Err: err}
	}
	if !handedOver {
		return t, nil
	}

	updated := *t
	updated.DelegatedFromID = t.ResponsibleID
	updated.ResponsibleID = &incoming.ID
	updated.Delegated = true
	updated.DelegatedAt = &at

	s.logger.Info("task delegated",
		"task_id", t.ID,
		"actor_id", actorID,
		"from_id", deref(t.ResponsibleID),
		"to_id", incoming.ID,
	)
	return &updated, nil
}

func delegationMessage(actor, incoming model.User) string {
	return fmt.Sprintf("%s delegated the task to %s.", actor.DisplayName(), incoming.DisplayName())
}

func deref(s *string) string {
	if s == nil {
		return ""
	}
	return *s
}
