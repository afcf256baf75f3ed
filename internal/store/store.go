package store

import (
	"context"
	"time"

	"github.com/nhle/taskboard/internal/board"
	"github.com/nhle/taskboard/internal/model"
)

// ProjectEntry is one project visible to a user, with the user's own
// member role (empty when they are only the creator) and item progress.
type ProjectEntry struct {
	Project    model.Project
	ViewerRole model.MemberRole
	ItemCount  int
	DoneCount  int
}

// Store defines the persistence interface for users, tasks, projects
// and their participants, messages and attachments.
//
// Lookups of a single row return model.ErrNotFound when it does not
// exist, except the (entity, user) role lookups, which return nil so
// that "no role" reads naturally at the call site.
type Store interface {
	// RunInTx runs fn against a transaction-bound Store. The
	// transaction commits when fn returns nil and rolls back otherwise.
	// Calling RunInTx on a transaction-bound Store reuses the
	// transaction.
	RunInTx(ctx context.Context, fn func(tx Store) error) error

	// === Users ===

	CreateUser(ctx context.Context, u *model.User) error
	GetUserByID(ctx context.Context, id string) (*model.User, error)
	GetUserByUsername(ctx context.Context, username string) (*model.User, error)
	GetUsers(ctx context.Context) ([]model.User, error)

	// === Tasks ===

	CreateTask(ctx context.Context, t *model.Task) error
	UpdateTaskDetails(ctx context.Context, t *model.Task) error
	CompleteTask(ctx context.Context, id string, at time.Time) (bool, error)
	DelegateTask(ctx context.Context, id string, fromID *string, toID string, at time.Time) error
	GetTaskByID(ctx context.Context, id string) (*model.Task, error)
	GetVisibleTasks(ctx context.Context, userID string) ([]board.Entry, error)

	// === Participants ===

	GetParticipant(ctx context.Context, taskID, userID string) (*model.Participant, error)
	GetParticipants(ctx context.Context, taskID string) ([]model.Participant, error)
	ReplaceParticipants(ctx context.Context, taskID string, participants []model.Participant) error
	EnsureParticipant(ctx context.Context, p model.Participant) (bool, error)

	// === Messages and attachments ===

	CreateMessage(ctx context.Context, m *model.Message) error
	GetTaskMessages(ctx context.Context, taskID string) ([]model.Message, error)
	GetProjectMessages(ctx context.Context, projectID string) ([]model.Message, error)
	CreateAttachment(ctx context.Context, a *model.Attachment) error
	GetAttachmentByID(ctx context.Context, id string) (*model.Attachment, error)
	GetTaskAttachments(ctx context.Context, taskID string) ([]model.Attachment, error)
	GetProjectAttachments(ctx context.Context, projectID string) ([]model.Attachment, error)

	// === Projects ===

	CreateProject(ctx context.Context, p *model.Project) error
	UpdateProject(ctx context.Context, p *model.Project) error
	GetProjectByID(ctx context.Context, id string) (*model.Project, error)
	GetVisibleProjects(ctx context.Context, userID string) ([]ProjectEntry, error)

	GetProjectMember(ctx context.Context, projectID, userID string) (*model.ProjectMember, error)
	GetProjectMembers(ctx context.Context, projectID string) ([]model.ProjectMember, error)
	ReplaceProjectMembers(ctx context.Context, projectID string, members []model.ProjectMember) error

	// === Checklist items ===

	CreateProjectItem(ctx context.Context, item *model.ProjectItem) error
	UpdateProjectItem(ctx context.Context, item *model.ProjectItem) error
	GetProjectItem(ctx context.Context, id string) (*model.ProjectItem, error)
	GetProjectItems(ctx context.Context, projectID string) ([]model.ProjectItem, error)
	SetItemAssignees(ctx context.Context, itemID string, userIDs []string) error
}
