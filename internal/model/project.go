package model

import "time"

// MemberRole is the capacity a user holds on a project.
type MemberRole string

// Project member roles.
const (
	MemberRoleManager  MemberRole = "manager"
	MemberRoleMember   MemberRole = "member"
	MemberRoleObserver MemberRole = "observer"
)

// MemberRoles lists every valid member role in display order.
var MemberRoles = []MemberRole{MemberRoleManager, MemberRoleMember, MemberRoleObserver}

// Valid reports whether r is one of the known member roles.
func (r MemberRole) Valid() bool {
	switch r {
	case MemberRoleManager, MemberRoleMember, MemberRoleObserver:
		return true
	}
	return false
}

// Label returns the human-readable name of the role.
func (r MemberRole) Label() string {
	switch r {
	case MemberRoleManager:
		return "Manager"
	case MemberRoleMember:
		return "Member"
	case MemberRoleObserver:
		return "Observer"
	}
	return string(r)
}

// Project groups an ordered checklist of items under one creator.
type Project struct {
	ID          string     `json:"id" db:"id"`
	Title       string     `json:"title" db:"title"`
	Description string     `json:"description" db:"description"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	CreatorID   string     `json:"creator_id" db:"creator_id"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`
	UpdatedAt   time.Time  `json:"updated_at" db:"updated_at"`
}

// IsCreator reports whether userID created the project.
func (p Project) IsCreator(userID string) bool {
	return p.CreatorID == userID
}

// ProjectMember associates a user with a project. A user holds at most
// one member row per project.
type ProjectMember struct {
	ID        string     `json:"id" db:"id"`
	ProjectID string     `json:"project_id" db:"project_id"`
	UserID    string     `json:"user_id" db:"user_id"`
	Role      MemberRole `json:"role" db:"role"`
	CreatedAt time.Time  `json:"created_at" db:"created_at"`

	User *User `json:"user,omitempty" db:"-"`
}

// ProjectItem is one checklist entry within a project. Items are
// ordered by (SortOrder, ID); sort values need not be contiguous.
type ProjectItem struct {
	ID          string     `json:"id" db:"id"`
	ProjectID   string     `json:"project_id" db:"project_id"`
	Title       string     `json:"title" db:"title"`
	Deadline    *time.Time `json:"deadline,omitempty" db:"deadline"`
	Completed   bool       `json:"is_completed" db:"is_completed"`
	SortOrder   int        `json:"order" db:"sort_order"`
	CompletedAt *time.Time `json:"completed_at,omitempty" db:"completed_at"`
	CreatedAt   time.Time  `json:"created_at" db:"created_at"`

	// Assignees is populated from project_item_assignees.
	Assignees []User `json:"assignees" db:"-"`
}

// IsAssigned reports whether userID is among the item's assignees.
func (i ProjectItem) IsAssigned(userID string) bool {
	for _, u := range i.Assignees {
		if u.ID == userID {
			return true
		}
	}
	return false
}
