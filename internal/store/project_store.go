package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// CreateProject inserts a new project. Generates an ID if empty.
func (s *SQLiteStore) CreateProject(ctx context.Context, p *model.Project) error {
	if p.ID == "" {
		p.ID = newID()
	}
	if p.CreatedAt.IsZero() {
		p.CreatedAt = now()
	}
	p.UpdatedAt = p.CreatedAt

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO projects (id, title, description, deadline, creator_id, created_at, updated_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		p.ID, p.Title, p.Description, utc(p.Deadline), p.CreatorID, p.CreatedAt.UTC(), p.UpdatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating project: %w", err)
	}
	return nil
}

// UpdateProject writes title, description and deadline.
func (s *SQLiteStore) UpdateProject(ctx context.Context, p *model.Project) error {
	p.UpdatedAt = now()

	err := s.exec(ctx, true, `
		UPDATE projects SET title = ?, description = ?, deadline = ?, updated_at = ?
		WHERE id = ?`,
		p.Title, p.Description, utc(p.Deadline), p.UpdatedAt, p.ID,
	)
	if err != nil {
		return fmt.Errorf("updating project %s: %w", p.ID, err)
	}
	return nil
}

// GetProjectByID retrieves a single project by ID.
func (s *SQLiteStore) GetProjectByID(ctx context.Context, id string) (*model.Project, error) {
	var p model.Project
	if err := s.get(ctx, &p, "SELECT * FROM projects WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting project %s: %w", id, err)
	}
	return &p, nil
}

type projectRow struct {
	model.Project
	ViewerRole sql.NullString `db:"viewer_role"`
	ItemCount  int            `db:"item_count"`
	DoneCount  int            `db:"done_count"`
}

// GetVisibleProjects returns every project userID created or is a
// member of, newest first, with item progress.
func (s *SQLiteStore) GetVisibleProjects(ctx context.Context, userID string) ([]ProjectEntry, error) {
	const query = `
		SELECT pr.*,
			m.role AS viewer_role,
			(SELECT COUNT(*) FROM project_items i WHERE i.project_id = pr.id) AS item_count,
			(SELECT COUNT(*) FROM project_items i WHERE i.project_id = pr.id AND i.is_completed = 1) AS done_count
		FROM projects pr
		LEFT JOIN project_members m ON m.project_id = pr.id AND m.user_id = ?
		WHERE pr.creator_id = ? OR m.id IS NOT NULL
		ORDER BY pr.created_at DESC, pr.id DESC`

	var rows []projectRow
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, userID, userID); err != nil {
		return nil, fmt.Errorf("querying visible projects for %s: %w", userID, err)
	}

	entries := make([]ProjectEntry, len(rows))
	for i, r := range rows {
		entries[i] = ProjectEntry{
			Project:    r.Project,
			ViewerRole: model.MemberRole(r.ViewerRole.String),
			ItemCount:  r.ItemCount,
			DoneCount:  r.DoneCount,
		}
	}
	return entries, nil
}

// === Members ===

// GetProjectMember returns userID's member row on projectID, or nil when
// they hold none.
func (s *SQLiteStore) GetProjectMember(ctx context.Context, projectID, userID string) (*model.ProjectMember, error) {
	var m model.ProjectMember
	err := s.get(ctx, &m,
		"SELECT * FROM project_members WHERE project_id = ? AND user_id = ?",
		projectID, userID)
	if errors.Is(err, model.ErrNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("getting member %s on project %s: %w", userID, projectID, err)
	}
	return &m, nil
}

// GetProjectMembers returns the members of a project with User populated.
func (s *SQLiteStore) GetProjectMembers(ctx context.Context, projectID string) ([]model.ProjectMember, error) {
	var members []model.ProjectMember
	err := sqlx.SelectContext(ctx, s.q, &members,
		"SELECT * FROM project_members WHERE project_id = ? ORDER BY created_at, id",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("querying members for project %s: %w", projectID, err)
	}

	ids := make([]string, len(members))
	for i, m := range members {
		ids[i] = m.UserID
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range members {
		if u, ok := users[members[i].UserID]; ok {
			members[i].User = &u
		}
	}
	return members, nil
}

// ReplaceProjectMembers deletes every member row of projectID and
// inserts the given set.
func (s *SQLiteStore) ReplaceProjectMembers(ctx context.Context, projectID string, members []model.ProjectMember) error {
	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM project_members WHERE project_id = ?", projectID); err != nil {
		return fmt.Errorf("clearing members for project %s: %w", projectID, err)
	}

	for i := range members {
		m := &members[i]
		m.ProjectID = projectID
		if m.ID == "" {
			m.ID = newID()
		}
		if m.CreatedAt.IsZero() {
			m.CreatedAt = now()
		}
		_, err := s.q.ExecContext(ctx, `
			INSERT INTO project_members (id, project_id, user_id, role, created_at)
			VALUES (?, ?, ?, ?, ?)`,
			m.ID, m.ProjectID, m.UserID, string(m.Role), m.CreatedAt.UTC(),
		)
		if err != nil {
			return fmt.Errorf("adding member %s to project %s: %w", m.UserID, projectID, err)
		}
	}
	return nil
}
