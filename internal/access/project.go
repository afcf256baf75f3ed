package access

import "github.com/nhle/taskboard/internal/model"

// CanAccessProject reports whether userID may view the project: the
// creator or any member.
func CanAccessProject(userID string, p model.Project, m *model.ProjectMember) bool {
	return p.IsCreator(userID) || member(userID, p, m)
}

// CanUploadProjectFiles applies the same rule as CanAccessProject.
func CanUploadProjectFiles(userID string, p model.Project, m *model.ProjectMember) bool {
	return CanAccessProject(userID, p, m)
}

// CanEditProject reports whether userID may change the project's fields
// and member list: the creator or a manager.
func CanEditProject(userID string, p model.Project, m *model.ProjectMember) bool {
	return p.IsCreator(userID) || member(userID, p, m, model.MemberRoleManager)
}

// CanManageItems reports whether userID may add or change checklist
// items. Same rule as CanEditProject.
func CanManageItems(userID string, p model.Project, m *model.ProjectMember) bool {
	return CanEditProject(userID, p, m)
}

// CanToggleItem reports whether userID may flip an item's completion:
// the creator, a manager or member, or anyone assigned to the item.
// Observers may toggle only items they are assigned to.
func CanToggleItem(userID string, p model.Project, m *model.ProjectMember, item model.ProjectItem) bool {
	if p.IsCreator(userID) || member(userID, p, m, model.MemberRoleManager, model.MemberRoleMember) {
		return true
	}
	return item.ProjectID == p.ID && item.IsAssigned(userID)
}

// ProjectPermissions bundles the project predicates for a view-model.
type ProjectPermissions struct {
	CanEdit        bool `json:"can_edit"`
	CanManageItems bool `json:"can_manage_items"`
	CanUpload      bool `json:"can_upload"`
}

// ForProject evaluates the project-level predicates for userID.
func ForProject(userID string, p model.Project, m *model.ProjectMember) ProjectPermissions {
	return ProjectPermissions{
		CanEdit:        CanEditProject(userID, p, m),
		CanManageItems: CanManageItems(userID, p, m),
		CanUpload:      CanUploadProjectFiles(userID, p, m),
	}
}

func member(userID string, p model.Project, m *model.ProjectMember, roles ...model.MemberRole) bool {
	if m == nil || m.UserID != userID || m.ProjectID != p.ID {
		return false
	}
	if len(roles) == 0 {
		return true
	}
	for _, r := range roles {
		if m.Role == r {
			return true
		}
	}
	return false
}
