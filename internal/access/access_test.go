package access

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/nhle/taskboard/internal/model"
)

const (
	creator     = "u-creator"
	responsible = "u-responsible"
	other       = "u-other"
)

func newTask() model.Task {
	r := responsible
	return model.Task{ID: "t1", CreatorID: creator, ResponsibleID: &r}
}

func row(userID string, role model.Role) *model.Participant {
	return &model.Participant{TaskID: "t1", UserID: userID, Role: role}
}

func TestTaskPredicates(t *testing.T) {
	tests := []struct {
		name   string
		user   string
		row    *model.Participant
		want   TaskPermissions
		access bool
	}{
		{
			name:   "creator",
			user:   creator,
			want:   TaskPermissions{CanEdit: true, CanComplete: true, CanDelegate: true, CanUpload: true},
			access: true,
		},
		{
			name:   "current responsible",
			user:   responsible,
			want:   TaskPermissions{CanEdit: false, CanComplete: true, CanDelegate: true, CanUpload: true},
			access: true,
		},
		{
			name:   "executor participant",
			user:   other,
			row:    row(other, model.RoleExecutor),
			want:   TaskPermissions{CanEdit: false, CanComplete: true, CanDelegate: true, CanUpload: true},
			access: true,
		},
		{
			name:   "responsible participant",
			user:   other,
			row:    row(other, model.RoleResponsible),
			want:   TaskPermissions{CanEdit: false, CanComplete: true, CanDelegate: false, CanUpload: true},
			access: true,
		},
		{
			name:   "observer participant",
			user:   other,
			row:    row(other, model.RoleObserver),
			want:   TaskPermissions{CanEdit: true, CanComplete: false, CanDelegate: true, CanUpload: true},
			access: true,
		},
		{
			name:   "stranger",
			user:   other,
			want:   TaskPermissions{},
			access: false,
		},
		{
			name:   "row belonging to someone else is ignored",
			user:   other,
			row:    row("u-someone", model.RoleObserver),
			want:   TaskPermissions{},
			access: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			task := newTask()
			assert.Equal(t, tt.access, CanAccess(tt.user, task, tt.row))
			assert.Equal(t, tt.want, ForTask(tt.user, task, tt.row))
		})
	}
}

func TestCanAccessWithoutResponsible(t *testing.T) {
	task := model.Task{ID: "t1", CreatorID: creator}

	assert.True(t, CanAccess(creator, task, nil))
	assert.False(t, CanAccess(responsible, task, nil))
	assert.False(t, CanComplete(responsible, task, nil))
}

func TestRowForAnotherTaskIsIgnored(t *testing.T) {
	task := newTask()
	p := &model.Participant{TaskID: "t2", UserID: other, Role: model.RoleObserver}

	assert.False(t, CanAccess(other, task, p))
	assert.False(t, CanEdit(other, task, p))
}

func TestProjectPredicates(t *testing.T) {
	project := model.Project{ID: "p1", CreatorID: creator}
	item := model.ProjectItem{
		ID:        "i1",
		ProjectID: "p1",
		Assignees: []model.User{{ID: "u-assignee"}},
	}
	mem := func(user string, role model.MemberRole) *model.ProjectMember {
		return &model.ProjectMember{ProjectID: "p1", UserID: user, Role: role}
	}

	tests := []struct {
		name   string
		user   string
		member *model.ProjectMember
		access bool
		edit   bool
		toggle bool
	}{
		{"creator", creator, nil, true, true, true},
		{"manager", other, mem(other, model.MemberRoleManager), true, true, true},
		{"member", other, mem(other, model.MemberRoleMember), true, false, true},
		{"observer", other, mem(other, model.MemberRoleObserver), true, false, false},
		{"assigned observer", "u-assignee", mem("u-assignee", model.MemberRoleObserver), true, false, true},
		{"stranger", other, nil, false, false, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.access, CanAccessProject(tt.user, project, tt.member))
			assert.Equal(t, tt.access, CanUploadProjectFiles(tt.user, project, tt.member))
			assert.Equal(t, tt.edit, CanEditProject(tt.user, project, tt.member))
			assert.Equal(t, tt.edit, CanManageItems(tt.user, project, tt.member))
			assert.Equal(t, tt.toggle, CanToggleItem(tt.user, project, tt.member, item))
		})
	}
}
