// Package access decides which operations a user may perform on a task
// or project.
//
// Every predicate is a pure function of the user, the entity, and the
// user's own participant (or member) row for that entity, fetched by
// the caller by exact (entity, user) pair immediately before the check.
// A nil row means the user holds no role. Nothing is cached, and a
// false result is the only way denial is signalled; callers translate
// it into model.ErrForbidden.
package access

import "github.com/nhle/taskboard/internal/model"

// CanAccess reports whether userID may view the task: they created it,
// are currently responsible for it, or hold any participant row.
func CanAccess(userID string, t model.Task, p *model.Participant) bool {
	return t.IsCreator(userID) || t.IsResponsible(userID) || holds(userID, t, p)
}

// CanUploadFiles applies the same rule as CanAccess.
func CanUploadFiles(userID string, t model.Task, p *model.Participant) bool {
	return CanAccess(userID, t, p)
}

// CanComplete reports whether userID may mark the task completed: the
// creator, the current responsible, or an executor or responsible
// participant.
func CanComplete(userID string, t model.Task, p *model.Participant) bool {
	if t.IsCreator(userID) || t.IsResponsible(userID) {
		return true
	}
	return holds(userID, t, p, model.RoleExecutor, model.RoleResponsible)
}

// CanEdit reports whether userID may edit the task: the creator or an
// observer participant. Executors and responsible participants cannot
// edit.
func CanEdit(userID string, t model.Task, p *model.Participant) bool {
	if t.IsCreator(userID) {
		return true
	}
	return holds(userID, t, p, model.RoleObserver)
}

// CanDelegate reports whether userID may hand the task to someone else:
// the creator, the current responsible, or an executor or observer
// participant.
func CanDelegate(userID string, t model.Task, p *model.Participant) bool {
	if t.IsCreator(userID) || t.IsResponsible(userID) {
		return true
	}
	return holds(userID, t, p, model.RoleExecutor, model.RoleObserver)
}

// TaskPermissions bundles every task predicate for a view-model.
type TaskPermissions struct {
	CanEdit     bool `json:"can_edit"`
	CanComplete bool `json:"can_complete"`
	CanDelegate bool `json:"can_delegate"`
	CanUpload   bool `json:"can_upload"`
}

// ForTask evaluates all task predicates for userID.
func ForTask(userID string, t model.Task, p *model.Participant) TaskPermissions {
	return TaskPermissions{
		CanEdit:     CanEdit(userID, t, p),
		CanComplete: CanComplete(userID, t, p),
		CanDelegate: CanDelegate(userID, t, p),
		CanUpload:   CanUploadFiles(userID, t, p),
	}
}

// holds reports whether p is userID's row on t and, when roles are
// given, whether its role is one of them.
func holds(userID string, t model.Task, p *model.Participant, roles ...model.Role) bool {
	if p == nil || p.UserID != userID || p.TaskID != t.ID {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if p.Role == r {
			return true
		}
	}
	return false
}
