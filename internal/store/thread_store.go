package store

import (
	"context"
	"fmt"

	"github.com/jmoiron/sqlx"

	"github.com/nhle/taskboard/internal/model"
)

// === Messages ===

// CreateMessage appends a message to a task or project thread.
func (s *SQLiteStore) CreateMessage(ctx context.Context, m *model.Message) error {
	if m.ID == "" {
		m.ID = newID()
	}
	if m.CreatedAt.IsZero() {
		m.CreatedAt = now()
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO messages (id, task_id, project_id, sender_id, content, is_system, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?)`,
		m.ID, m.TaskID, m.ProjectID, m.SenderID, m.Content, boolToInt(m.System), m.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating message: %w", err)
	}
	return nil
}

// GetTaskMessages returns a task's thread, oldest first.
func (s *SQLiteStore) GetTaskMessages(ctx context.Context, taskID string) ([]model.Message, error) {
	return s.messages(ctx, "task_id", taskID)
}

// GetProjectMessages returns a project's thread, oldest first.
func (s *SQLiteStore) GetProjectMessages(ctx context.Context, projectID string) ([]model.Message, error) {
	return s.messages(ctx, "project_id", projectID)
}

func (s *SQLiteStore) messages(ctx context.Context, column, id string) ([]model.Message, error) {
	var msgs []model.Message
	query := "SELECT * FROM messages WHERE " + column + " = ? ORDER BY created_at, id"
	if err := sqlx.SelectContext(ctx, s.q, &msgs, query, id); err != nil {
		return nil, fmt.Errorf("querying messages by %s %s: %w", column, id, err)
	}

	var ids []string
	for _, m := range msgs {
		if m.SenderID != nil {
			ids = append(ids, *m.SenderID)
		}
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range msgs {
		if msgs[i].SenderID == nil {
			continue
		}
		if u, ok := users[*msgs[i].SenderID]; ok {
			msgs[i].Sender = &u
		}
	}
	return msgs, nil
}

// === Attachments ===

// CreateAttachment records metadata for a file already written to the
// file store.
func (s *SQLiteStore) CreateAttachment(ctx context.Context, a *model.Attachment) error {
	if a.ID == "" {
		a.ID = newID()
	}
	if a.CreatedAt.IsZero() {
		a.CreatedAt = now()
	}
	if a.ContentType == "" {
		a.ContentType = "application/octet-stream"
	}

	_, err := s.q.ExecContext(ctx, `
		INSERT INTO attachments (
			id, task_id, project_id, uploaded_by, name, blob_ref,
			size, content_type, digest, created_at
		) VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		a.ID, a.TaskID, a.ProjectID, a.UploadedBy, a.Name, a.BlobRef,
		a.Size, a.ContentType, a.Digest, a.CreatedAt.UTC(),
	)
	if err != nil {
		return fmt.Errorf("creating attachment %s: %w", a.Name, err)
	}
	return nil
}

// GetAttachmentByID retrieves a single attachment by ID.
func (s *SQLiteStore) GetAttachmentByID(ctx context.Context, id string) (*model.Attachment, error) {
	var a model.Attachment
	if err := s.get(ctx, &a, "SELECT * FROM attachments WHERE id = ?", id); err != nil {
		return nil, fmt.Errorf("getting attachment %s: %w", id, err)
	}
	return &a, nil
}

// GetTaskAttachments returns a task's attachments, oldest first.
func (s *SQLiteStore) GetTaskAttachments(ctx context.Context, taskID string) ([]model.Attachment, error) {
	return s.attachments(ctx, "task_id", taskID)
}

// GetProjectAttachments returns a project's attachments, oldest first.
func (s *SQLiteStore) GetProjectAttachments(ctx context.Context, projectID string) ([]model.Attachment, error) {
	return s.attachments(ctx, "project_id", projectID)
}

func (s *SQLiteStore) attachments(ctx context.Context, column, id string) ([]model.Attachment, error) {
	var atts []model.Attachment
	query := "SELECT * FROM attachments WHERE " + column + " = ? ORDER BY created_at, id"
	if err := sqlx.SelectContext(ctx, s.q, &atts, query, id); err != nil {
		return nil, fmt.Errorf("querying attachments by %s %s: %w", column, id, err)
	}

	var ids []string
	for _, a := range atts {
		if a.UploadedBy != nil {
			ids = append(ids, *a.UploadedBy)
		}
	}
	users, err := s.usersByID(ctx, ids)
	if err != nil {
		return nil, err
	}
	for i := range atts {
		if atts[i].UploadedBy == nil {
			continue
		}
		if u, ok := users[*atts[i].UploadedBy]; ok {
			atts[i].Uploader = &u
		}
	}
	return atts, nil
}
