package tasks

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
)

// Detail is everything shown on a task's page.
type Detail struct {
	Task         model.Task             `json:"task"`
	Creator      *model.User            `json:"creator,omitempty"`
	Responsible  *model.User            `json:"responsible,omitempty"`
	Participants []model.Participant    `json:"participants"`
	Messages     []model.Message        `json:"messages"`
	Attachments  []model.Attachment     `json:"attachments"`
	Permissions  access.TaskPermissions `json:"permissions"`
	RoleLabel    string                 `json:"role_label"`
	Status       board.Status           `json:"deadline_status"`
}

// Detail returns the task with its people, thread and files. Users who
// fail access.CanAccess get ErrForbidden.
func (s *Service) Detail(ctx context.Context, userID, taskID string) (*Detail, error) {
	t, p, err := s.authorize(ctx, userID, taskID, access.CanAccess)
	if err != nil {
		return nil, err
	}

	d := &Detail{
		Task:        *t,
		Permissions: access.ForTask(userID, *t, p),
		RoleLabel:   board.RoleLabel(userID, *t, p),
		Status:      board.DeadlineStatus(*t, s.clock.Now()),
	}

	if d.Creator, err = s.optionalUser(ctx, &t.CreatorID); err != nil {
		return nil, err
	}
	if d.Responsible, err = s.optionalUser(ctx, t.ResponsibleID); err != nil {
		return nil, err
	}
	if d.Participants, err = s.store.GetParticipants(ctx, t.ID); err != nil {
		return nil, err
	}
	if d.Messages, err = s.store.GetTaskMessages(ctx, t.ID); err != nil {
		return nil, err
	}
	if d.Attachments, err = s.store.GetTaskAttachments(ctx, t.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// optionalUser loads the user id points at, or nil when id is nil or
// the user no longer exists.
func (s *Service) optionalUser(ctx context.Context, id *string) (*model.User, error) {
	if id == nil {
		return nil, nil
	}
	u, err := s.store.GetUserByID(ctx, *id)
	if model.IsNotFound(err) {
		return nil, nil
	}
	return u, err
}

// PostMessage appends content to the task's thread as userID. Anyone
// who can view the task may post.
func (s *Service) PostMessage(ctx context.Context, userID, taskID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewValidationError("content", "required")
	}
	t, _, err := s.authorize(ctx, userID, taskID, access.CanAccess)
	if err != nil {
		return nil, err
	}

	m := &model.Message{
		TaskID:    &t.ID,
		SenderID:  &userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("posting to task %s: %w", taskID, err)
	}
	return m, nil
}
