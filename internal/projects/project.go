package projects

import (
	"context"
	"fmt"
	"strings"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Create adds a project owned by userID together with its members and
// initial checklist, in one transaction. Items without an explicit
// order are numbered by position in steps of ten.
func (s *Service) Create(ctx context.Context, userID string, in Input) (*model.Project, error) {
	if _, err := s.store.GetUserByID(ctx, userID); err != nil {
		return nil, fmt.Errorf("creator %s: %w", userID, err)
	}
	if err := in.validate(ctx, s.store, true); err != nil {
		return nil, err
	}

	now := s.now()
	p := &model.Project{
		Title:       in.Title,
		Description: in.Description,
		Deadline:    in.Deadline,
		CreatorID:   userID,
		CreatedAt:   now,
	}

	err := s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.CreateProject(ctx, p); err != nil {
			return err
		}
		if err := tx.ReplaceProjectMembers(ctx, p.ID, in.members()); err != nil {
			return err
		}
		for i, it := range in.Items {
			item := &model.ProjectItem{
				ProjectID: p.ID,
				Title:     it.Title,
				Deadline:  it.Deadline,
				SortOrder: it.Order,
				CreatedAt: now,
			}
			if item.SortOrder == 0 {
				item.SortOrder = (i + 1) * 10
			}
			if err := tx.CreateProjectItem(ctx, item); err != nil {
				return err
			}
			if err := tx.SetItemAssignees(ctx, item.ID, it.AssigneeIDs); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("creating project: %w", err)
	}

	s.logger.Info("project created",
		"project_id", p.ID,
		"creator_id", userID,
		"members", len(in.Members),
		"items", len(in.Items),
	)
	return p, nil
}

// Edit updates the project's fields and replaces its member list.
// Checklist items are changed through AddItem, UpdateItem and
// ToggleItem.
func (s *Service) Edit(ctx context.Context, userID, projectID string, in Input) (*model.Project, error) {
	p, _, err := s.authorize(ctx, userID, projectID, access.CanEditProject)
	if err != nil {
		return nil, err
	}
	if err := in.validate(ctx, s.store, false); err != nil {
		return nil, err
	}

	p.Title = in.Title
	p.Description = in.Description
	p.Deadline = in.Deadline

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		if err := tx.UpdateProject(ctx, p); err != nil {
			return err
		}
		return tx.ReplaceProjectMembers(ctx, p.ID, in.members())
	})
	if err != nil {
		return nil, fmt.Errorf("editing project %s: %w", projectID, err)
	}

	s.logger.Info("project edited", "project_id", p.ID, "user_id", userID)
	return p, nil
}

// ItemView is a checklist item with its read-time status.
type ItemView struct {
	model.ProjectItem
	Status    board.Status `json:"deadline_status"`
	CanToggle bool         `json:"can_toggle"`
}

// Detail is everything shown on a project's page.
type Detail struct {
	Project     model.Project             `json:"project"`
	Creator     *model.User               `json:"creator,omitempty"`
	Members     []model.ProjectMember     `json:"members"`
	Items       []ItemView                `json:"items"`
	Messages    []model.Message           `json:"messages"`
	Attachments []model.Attachment        `json:"attachments"`
	Progress    Progress                  `json:"progress"`
	Permissions access.ProjectPermissions `json:"permissions"`
	RoleLabel   string                    `json:"role_label"`
	Status      board.Status              `json:"deadline_status"`
}

// Detail returns the project with its members, checklist, thread and
// files.
func (s *Service) Detail(ctx context.Context, userID, projectID string) (*Detail, error) {
	p, m, err := s.authorize(ctx, userID, projectID, access.CanAccessProject)
	if err != nil {
		return nil, err
	}

	items, err := s.store.GetProjectItems(ctx, p.ID)
	if err != nil {
		return nil, err
	}
	now := s.clock.Now()
	progress := progressOf(items)

	d := &Detail{
		Project:     *p,
		Progress:    progress,
		Permissions: access.ForProject(userID, *p, m),
		RoleLabel:   RoleLabel(userID, *p, m),
		Status:      board.Classify(p.Deadline, progress.Complete(), now),
		Items:       make([]ItemView, len(items)),
	}
	for i, it := range items {
		d.Items[i] = ItemView{
			ProjectItem: it,
			Status:      board.DeadlineStatus(it, now),
			CanToggle:   access.CanToggleItem(userID, *p, m, it),
		}
	}

	creator, err := s.store.GetUserByID(ctx, p.CreatorID)
	switch {
	case err == nil:
		d.Creator = creator
	case !model.IsNotFound(err):
		return nil, err
	}
	if d.Members, err = s.store.GetProjectMembers(ctx, p.ID); err != nil {
		return nil, err
	}
	if d.Messages, err = s.store.GetProjectMessages(ctx, p.ID); err != nil {
		return nil, err
	}
	if d.Attachments, err = s.store.GetProjectAttachments(ctx, p.ID); err != nil {
		return nil, err
	}
	return d, nil
}

// Summary is one project in a list.
type Summary struct {
	Project   model.Project `json:"project"`
	RoleLabel string        `json:"role_label"`
	Progress  Progress      `json:"progress"`
	Status    board.Status  `json:"deadline_status"`
}

// List returns the projects userID created or is a member of, newest
// first. A non-empty query keeps projects whose title or description
// contains it, ignoring case.
func (s *Service) List(ctx context.Context, userID, query string) ([]Summary, error) {
	entries, err := s.store.GetVisibleProjects(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("listing projects for %s: %w", userID, err)
	}

	q := strings.ToLower(strings.TrimSpace(query))
	now := s.clock.Now()
	out := make([]Summary, 0, len(entries))
	for _, e := range entries {
		p := e.Project
		if q != "" &&
			!strings.Contains(strings.ToLower(p.Title), q) &&
			!strings.Contains(strings.ToLower(p.Description), q) {
			continue
		}

		var m *model.ProjectMember
		if e.ViewerRole != "" {
			m = &model.ProjectMember{ProjectID: p.ID, UserID: userID, Role: e.ViewerRole}
		}
		progress := Progress{Done: e.DoneCount, Total: e.ItemCount}
		out = append(out, Summary{
			Project:   p,
			RoleLabel: RoleLabel(userID, p, m),
			Progress:  progress,
			Status:    board.Classify(p.Deadline, progress.Complete(), now),
		})
	}
	return out, nil
}
