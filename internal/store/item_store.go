package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// CreateProjectItem inserts a checklist item. A zero SortOrder places
// the item after every existing item of the project.
func (s *SQLiteStore) CreateProjectItem(ctx context.Context, item *model.ProjectItem) error {
	if item.ID == "" {
		item.ID = newID()
	}
	if item.CreatedAt.IsZero() {
		item.CreatedAt = now()
	}
	if item.SortOrder == 0 {
		var last int
		err := sqlx.GetContext(ctx, s.q, &last,
			"SELECT COALESCE(MAX(sort_order), 0) FROM project_items WHERE project_id = ?",
			item.ProjectID)
		if err != nil {
			return fmt.Errorf("reading item order for project %s: %w", item.ProjectID, err)
		}
		item.SortOrder = last + 10
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO project_items (id, project_id, title, deadline, is_completed, sort_order, completed_at, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)`,
		item.ID, item.ProjectID, item.Title, utc(item.Deadline), boolToInt(item.Completed),
		item.SortOrder, utc(item.CompletedAt), item.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating item in project %s: %w", item.ProjectID, err)
	}
	return nil
}

// UpdateProjectItem writes title, deadline, order and completion state.
func (s *SQLiteStore) UpdateProjectItem(ctx context.Context, item *model.ProjectItem) error {
	err := s.exec(ctx, true, `
		UPDATE project_items SET
			title = ?, deadline = ?, is_completed = ?, sort_order = ?, completed_at = ?
		WHERE id = ?`,
		item.Title, utc(item.Deadline), boolToInt(item.Completed), item.SortOrder,
		utc(item.CompletedAt), item.ID,
	)
	if err != nil {
		return fmt.Errorf("updating item %s: %w", item.ID, err)
	}
	return nil
}

// GetProjectItem retrieves a single item with its assignees.
func (s *SQLiteStore) GetProjectItem(ctx context.Context, id string) (*model.ProjectItem, error) {
	var item model.ProjectItem
	if err := s.get(ctx, &item, "SELECT * FROM project_items WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting item %s: %w", id, err)
	}

	assignees, err := s.assignees(ctx, "a.item_id = ?", id)
	if err != nil {
		return nil, err
	}
	item.Assignees = assignees[item.ID]
	return &item, nil
}

// GetProjectItems returns a project's checklist ordered by (sort_order, id).
func (s *SQLiteStore) GetProjectItems(ctx context.Context, projectID string) ([]model.ProjectItem, error) {
	var items []model.ProjectItem
	err := sqlx.SelectContext(ctx, s.q, &items,
		"SELECT * FROM project_items WHERE project_id = ? ORDER BY sort_order, id",
		projectID)
	if err != nil {
		return nil, fmt.Errorf("querying items for project %s: %w", projectID, err)
	}

	assignees, err := s.assignees(ctx, "i.project_id = ?", projectID)
	if err != nil {
		return nil, err
	}
	for i := range items {
		items[i].Assignees = assignees[items[i].ID]
	}
	return items, nil
}

// SetItemAssignees replaces the assignee set of an item.
func (s *SQLiteStore) SetItemAssignees(ctx context.Context, itemID string, userIDs []string) error {
	if _, err := s.q.ExecContext(ctx,
		"DELETE FROM project_item_assignees WHERE item_id = ?", itemID); err != nil {
		return fmt.Errorf("clearing assignees for item %s: %w", itemID, err)
	}
	for _, uid := range dedupe(userIDs) {
		if _, err := s.q.ExecContext(ctx,
			"INSERT INTO project_item_assignees (item_id, user_id) VALUES (?, ?)",
			itemID, uid); err != nil {
			return fmt.Errorf("assigning %s to item %s: %w", uid, itemID, err)
		}
	}
	return nil
}

type assigneeRow struct {
	ItemID string `db:"item_id"`
	model.User
}

// assignees loads the assignees matching where, keyed by item ID.
func (s *SQLiteStore) assignees(ctx context.Context, where string, arg any) (map[string][]model.User, error) {
	query := `
		SELECT a.item_id, u.*
		FROM project_item_assignees a
		JOIN project_items i ON i.id = a.item_id
		JOIN users u ON u.id = a.user_id
		WHERE ` + where + `
		ORDER BY u.last_name, u.first_name, u.username`

	var rows []assigneeRow
	if err := sqlx.SelectContext(ctx, s.q, &rows, query, arg); err != nil {
		return nil, fmt.Errorf("querying item assignees: %w", err)
	}

	out := make(map[string][]model.User)
	for _, r := range rows {
		out[r.ItemID] = append(out[r.ItemID], r.User)
	}
	return out, nil
}
