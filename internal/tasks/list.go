package tasks

import (
	"context"
	"fmt"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
)

// ListOptions selects the tab and filter for List.
type ListOptions struct {
	Tab    board.Tab
	Filter board.Filter
}

// Row is one task as shown in a list.
type Row struct {
	Task        model.Task   `json:"task"`
	Responsible *model.User  `json:"responsible,omitempty"`
	RoleLabel   string       `json:"role_label"`
	Status      board.Status `json:"deadline_status"`
}

// Board is a user's filtered task list for one tab, along with the size
// of every bucket.
type Board struct {
	Tab    board.Tab         `json:"tab"`
	Rows   []Row             `json:"tasks"`
	Counts map[board.Tab]int `json:"counts"`

	Buckets board.Buckets `json:"-"`
}

// List partitions the tasks visible to userID into role buckets after
// applying the filter, and returns the rows of the selected tab. An
// empty tab selects the creator bucket.
func (s *Service) List(ctx context.Context, userID string, opts ListOptions) (*Board, error) {
	if opts.Tab == "" {
		opts.Tab = board.TabCreator
	}
	b, err := s.buckets(ctx, userID, opts.Filter)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	active := b.Get(opts.Tab)
	rows := make([]Row, len(active))
	for i, e := range active {
		rows[i] = Row{
			Task:        e.Task,
			Responsible: e.Responsible,
			RoleLabel:   board.RoleLabel(userID, e.Task, e.Participant(userID)),
			Status:      board.DeadlineStatus(e.Task, now),
		}
	}

	return &Board{
		Tab:     opts.Tab,
		Rows:    rows,
		Counts:  b.Counts(),
		Buckets: b,
	}, nil
}

// Export returns one row per filtered task across every bucket,
// regardless of tab.
func (s *Service) Export(ctx context.Context, userID string, f board.Filter) ([]board.ExportRow, error) {
	b, err := s.buckets(ctx, userID, f)
	if err != nil {
		return nil, err
	}
	return board.ExportRows(userID, b, s.location), nil
}

// Dashboard summarises the tasks visible to userID. A failure, panics
// included, is logged and yields zero counts rather than an error.
func (s *Service) Dashboard(ctx context.Context, userID string) (stats board.Stats) {
	defer func() {
		if r := recover(); r != nil {
			s.logger.Error("dashboard statistics panicked",
				"user_id", userID,
				"panic", fmt.Sprint(r),
			)
			stats = board.Stats{}
		}
	}()

	entries, err := s.store.GetVisibleTasks(ctx, userID)
	if err != nil {
		s.logger.Warn("dashboard statistics unavailable",
			"user_id", userID,
			"error", err,
		)
		return board.Stats{}
	}
	return board.Summarize(userID, entries, s.clock.Now())
}

func (s *Service) buckets(ctx context.Context, userID string, f board.Filter) (board.Buckets, error) {
	entries, err := s.store.GetVisibleTasks(ctx, userID)
	if err != nil {
		return board.Buckets{}, fmt.Errorf("listing tasks for %s: %w", userID, err)
	}
	return board.Partition(userID, entries, f), nil
}
