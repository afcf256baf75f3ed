// Package tasks implements the task operations: listing and exporting
// a user's board, creating and editing tasks, delegation, completion,
// messages, files and the dashboard summary.
//
// Every method takes the acting user's id explicitly and checks the
// access predicates against freshly loaded rows before any write.
package tasks

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/nhle/taskboard/internal/clock"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Service runs task operations against a store and a file store.
type Service struct {
	store    store.Store
	files    filestore.Store
	clock    clock.Clock
	logger   *slog.Logger
	location *time.Location
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

// WithLocation sets the zone used to render dates for export.
func WithLocation(loc *time.Location) Option {
	return func(s *Service) { s.location = loc }
}

// NewService returns a Service backed by st and files.
func NewService(st store.Store, files filestore.Store, opts ...Option) *Service {
	s := &Service{
		store:    st,
		files:    files,
		clock:    clock.Real(),
		logger:   slog.New(slog.DiscardHandler),
		location: time.UTC,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

func (s *Service) now() time.Time {
	return s.clock.Now().UTC()
}

// load fetches a task and userID's participant row on it. The row is
// nil when the user holds none.
func load(ctx context.Context, st store.Store, userID, taskID string) (*model.Task, *model.Participant, error) {
	t, err := st.GetTaskByID(ctx, taskID)
	if err != nil {
		return nil, nil, err
	}
	p, err := st.GetParticipant(ctx, taskID, userID)
	if err != nil {
		return nil, nil, err
	}
	return t, p, nil
}

// authorize loads the task and fails with ErrForbidden unless allowed
// holds for userID.
func (s *Service) authorize(
	ctx context.Context,
	userID, taskID string,
	allowed func(string, model.Task, *model.Participant) bool,
) (*model.Task, *model.Participant, error) {
	t, p, err := load(ctx, s.store, userID, taskID)
	if err != nil {
		return nil, nil, err
	}
	if !allowed(userID, *t, p) {
		return nil, nil, fmt.Errorf("task %s: %w", taskID, model.ErrForbidden)
	}
	return t, p, nil
}

// Users returns every user except excludeID, for pickers. Pass an
// empty excludeID to list everyone.
func (s *Service) Users(ctx context.Context, excludeID string) ([]model.User, error) {
	users, err := s.store.GetUsers(ctx)
	if err != nil {
		return nil, err
	}
	if excludeID == "" {
		return users, nil
	}
	out := users[:0]
	for _, u := range users {
		if u.ID != excludeID {
			out = append(out, u)
		}
	}
	return out, nil
}
