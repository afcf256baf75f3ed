package model

import (
	"fmt"
	"time"
)

// Role is the capacity a participant holds on a task.
type Role string

// Participant roles.
const (
	RoleExecutor    Role = "executor"
	RoleResponsible Role = "responsible"
	RoleObserver    Role = "observer"
)

// Roles lists every valid participant role in display order.
var Roles = []Role{RoleExecutor, RoleResponsible, RoleObserver}

// Valid reports whether r is one of the known participant roles.
func (r Role) Valid() bool {
	switch r {
	case RoleExecutor, RoleResponsible, RoleObserver:
		return true
	}
	return false
}

// Label returns the human-readable name of the role.
func (r Role) Label() string {
	switch r {
	case RoleExecutor:
		return "Executor"
	case RoleResponsible:
		return "Responsible"
	case RoleObserver:
		return "Observer"
	}
	return string(r)
}

// Task is a unit of work with a single creator and a current
// responsible owner.
type Task struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	Completed   bool       `json:"is_completed" db:"is_completed"`
	Delegated   bool       `json:"is_delegated" db:"is_delegated"`

	// CreatorID is set once at creation and never changes.
	CreatorID string `json:"creator_id" db:"creator_id"`

	// ResponsibleID is nil only before the first assignment.
	ResponsibleID   *string    `json:"responsible_id,omitempty" db:"responsible_id"`
	DelegatedFromID *string    `json:"delegated_from_id,omitempty" db:"delegated_from_id"`
	DelegatedAt     *time.Time `json:"delegated_at,omitempty" db:"delegated_at"`
	CompletedAt     *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	UpdatedAt       time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCreator reports whether userID created the task.
func (t Task) IsCreator(userID string) bool {
	return t.CreatorID == userID
}

// IsResponsible reports whether userID is the current responsible owner.
func (t Task) IsResponsible(userID string) bool {
	return t.ResponsibleID != nil && *t.ResponsibleID == userID
}

func (t Task) String() string {
	if t.Deadline == nil {
		return t.Title
	}
	return fmt.Sprintf("%s (due %s)", t.Title, t.Deadline.Format("02.01.2006"))
}

// Participant associates a user with a task in a given role. A user
// holds at most one participant row per task.
type Participant struct {
	ID        string    `json:"id" db:"id"`
	TaskID    string    `json:"task_id" db:"task_id"`
	UserID    string    `json:"user_id" db:"user_id"`
	Role      Role      `json:"role" db:"role"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`

	// User is populated by queries that join with users.
	User *User `json:"user,omitempty" db:"-"`
}
