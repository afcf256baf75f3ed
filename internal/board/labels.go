package board

import (
	"time"

	"github.com/nhle/taskboard/internal/model"
)

// Role labels shown in lists and exports.
const (
	LabelCreator     = "Creator"
	LabelResponsible = "Responsible"
	LabelNone        = "—"
)

// RoleLabel names the user's relationship to the task for display.
// Checks run in order: creator, current responsible, participant role,
// then the placeholder. This is display only; access decisions use the
// access package.
func RoleLabel(userID string, t model.Task, p *model.Participant) string {
	if t.IsCreator(userID) {
		return LabelCreator
	}
	if t.IsResponsible(userID) {
		return LabelResponsible
	}
	if p != nil && p.UserID == userID && p.TaskID == t.ID {
		return p.Role.Label()
	}
	return LabelNone
}

// Status is the read-time urgency of an item's deadline.
type Status string

// Deadline statuses.
const (
	StatusNoDeadline Status = "no_deadline"
	StatusDone       Status = "done"
	StatusOverdue    Status = "overdue"
	StatusSoon       Status = "soon"
	StatusOK         Status = "ok"
)

// SoonWindow is how close a deadline must be to count as soon.
const SoonWindow = 24 * time.Hour

// DeadlineStatus classifies an item's deadline relative to now. It is
// never persisted.
func DeadlineStatus(item model.ListItem, now time.Time) Status {
	return Classify(item.GetDeadline(), item.IsCompleted(), now)
}

// Classify is DeadlineStatus over raw values.
func Classify(deadline *time.Time, completed bool, now time.Time) Status {
	switch {
	case deadline == nil:
		return StatusNoDeadline
	case completed:
		return StatusDone
	case deadline.Before(now):
		return StatusOverdue
	case !deadline.After(now.Add(SoonWindow)):
		return StatusSoon
	default:
		return StatusOK
	}
}
