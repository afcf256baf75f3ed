package projects

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// AddItem appends a checklist item to the project.
func (s *Service) AddItem(ctx context.Context, userID, projectID string, in ItemInput) (*model.ProjectItem, error) {
	p, _, err := s.authorize(ctx, userID, projectID, access.CanManageItems)
	if err != nil {
		return nil, err
	}
	verr := &model.ValidationError{}
	if err := in.validate(ctx, s.store, verr, ""); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	item := &model.ProjectItem{
		ProjectID: p.ID,
		Title:     in.Title,
		Deadline:  in.Deadline,
		SortOrder: in.Order,
		CreatedAt: s.now(),
	}
	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.CreateProjectItem(ctx, item); err != nil {
			return err
		}
		return tx.SetItemAssignees(ctx, item.ID, in.AssigneeIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("adding item to project %s: %w", projectID, err)
	}

	return s.store.GetProjectItem(ctx, item.ID)
}

// UpdateItem changes an item's title, deadline and order and replaces
// its assignees. Completion is changed through ToggleItem only.
func (s *Service) UpdateItem(ctx context.Context, userID, projectID, itemID string, in ItemInput) (*model.ProjectItem, error) {
	if _, _, err := s.authorize(ctx, userID, projectID, access.CanManageItems); err != nil {
		return nil, err
	}
	item, err := s.itemOf(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	verr := &model.ValidationError{}
	if err := in.validate(ctx, s.store, verr, ""); err != nil {
		return nil, err
	}
	if err := verr.OrNil(); err != nil {
		return nil, err
	}

	item.Title = in.Title
	item.Deadline = in.Deadline
	if in.Order != 0 {
		item.SortOrder = in.Order
	}
	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.UpdateProjectItem(ctx, item); err != nil {
			return err
		}
		return tx.SetItemAssignees(ctx, item.ID, in.AssigneeIDs)
	})
	if err != nil {
		return nil, fmt.Errorf("updating item %s: %w", itemID, err)
	}

	return s.store.GetProjectItem(ctx, item.ID)
}

// ToggleItem flips an item between done and not done.
func (s *Service) ToggleItem(ctx context.Context, userID, projectID, itemID string) (*model.ProjectItem, error) {
	p, m, err := s.authorize(ctx, userID, projectID, access.CanAccessProject)
	if err != nil {
		return nil, err
	}
	item, err := s.itemOf(ctx, projectID, itemID)
	if err != nil {
		return nil, err
	}
	if !access.CanToggleItem(userID, *p, m, *item) {
		return nil, fmt.Errorf("item %s: %w", itemID, model.ErrForbidden)
	}

	item.Completed = !item.Completed
	if item.Completed {
		at := s.now()
		item.CompletedAt = &at
	} else {
		item.CompletedAt = nil
	}
	if err := s.store.UpdateProjectItem(ctx, item); err != nil {
		return nil, fmt.Errorf("toggling item %s: %w", itemID, err)
	}

	s.logger.Info("project item toggled",
		"project_id", projectID,
		"item_id", itemID,
		"user_id", userID,
		"completed", item.Completed,
	)
	return item, nil
}
