// Package projects implements projects: a creator, a member list with
// roles, and an ordered checklist of items that are completed
// independently.
package projects

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/clock"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Service runs project operations against a store and a file store.
type Service struct {
	store  store.Store
	files  filestore.Store
	clock  clock.Clock
	logger *slog.Logger
}

// Option configures a Service.
type Option func(*Service)

// WithClock overrides the time source.
func WithClock(c clock.Clock) Option {
	return func(s *Service) { s.clock = c }
}

// WithLogger sets the logger. The default discards output.
func WithLogger(l *slog.Logger) Option {
	return func(s *Service) { s.logger = l }
}

// NewService returns a Service backed by st and files.
func NewService(st store.Store, files filestore.Store, opts ...Option) *Service {
	s := &Service{
		store:  st,
		files:  files,
		clock:  clock.Real(),
		logger: slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// authorize loads the project and userID's member row, failing with
// ErrForbidden unless allowed holds.
func (s *Service) authorize(
	ctx context.Context,
	userID, projectID string,
	allowed func(string, model.Project, *model.ProjectMember) bool,
) (*model.Project, *model.ProjectMember, error) {
	p, err := s.store.GetProjectByID(ctx, projectID)
	if err != nil {
		return nil, nil, err
	}
	m, err := s.store.GetProjectMember(ctx, projectID, userID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed(userID, *p, m) {
		return nil, nil, fmt.Errorf("project %s: %w", projectID, model.ErrForbidden)
	}
	return p, m, nil
}

// itemOf loads itemID and checks it belongs to projectID.
func (s *Service) itemOf(ctx context.Context, projectID, itemID string) (*model.ProjectItem, error) {
	item, err := s.store.GetProjectItem(ctx, itemID)
	if err != nil {
		return nil, err
	}
	if item.ProjectID != projectID {
		return nil, fmt.Errorf("item %s in project %s: %w", itemID, projectID, model.ErrNotFound)
	}
	return item, nil
}

// RoleLabel names the user's relationship to the project: creator,
// their member role, or the placeholder.
func RoleLabel(userID string, p model.Project, m *model.ProjectMember) string {
	if p.IsCreator(userID) {
		return board.LabelCreator
	}
	if m != nil && m.UserID == userID && m.ProjectID == p.ID {
		return m.Role.Label()
	}
	return board.LabelNone
}

// Progress counts completed checklist items.
type Progress struct {
	Done  int `json:"done"`
	Total int `json:"total"`
}

// Complete reports whether the project has items and all are done.
func (p Progress) Complete() bool {
	return p.Total > 0 && p.Done == p.Total
}

func progressOf(items []model.ProjectItem) Progress {
	p := Progress{Total: len(items)}
	for _, it := range items {
		if it.Completed {
			p.Done++
		}
	}
	return p
}
