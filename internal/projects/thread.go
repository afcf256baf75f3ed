package projects

import (
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// PostMessage appends content to the project's thread as userID.
func (s *Service) PostMessage(ctx context.Context, userID, projectID, content string) (*model.Message, error) {
	content = strings.TrimSpace(content)
	if content == "" {
		return nil, model.NewValidationError("content", "required")
	}
	p, _, err := s.authorize(ctx, userID, projectID, access.CanAccessProject)
	if err != nil {
		return nil, err
	}

	m := &model.Message{
		ProjectID: &p.ID,
		SenderID:  &userID,
		Content:   content,
		CreatedAt: s.now(),
	}
	if err := s.store.CreateMessage(ctx, m); err != nil {
		return nil, fmt.Errorf("posting to project %s: %w", projectID, err)
	}
	return m, nil
}

// Upload stores each file and records it as an attachment of the project.
func (s *Service) Upload(ctx context.Context, userID, projectID string, uploads []filestore.Upload) ([]model.Attachment, error) {
	if len(uploads) == 0 {
		return nil, model.NewValidationError("files", "at least one file is required")
	}
	p, _, err := s.authorize(ctx, userID, projectID, access.CanUploadProjectFiles)
	if err != nil {
		return nil, err
	}

	atts, err := filestore.Attach(ctx, s.files, filestore.ScopeProject, p.ID, uploads)
	if err != nil {
		return nil, err
	}
	at := s.now()
	for i := range atts {
		atts[i].ProjectID = &p.ID
		atts[i].UploadedBy = &userID
		atts[i].CreatedAt = at
	}

	err = s.store.RunInTx(ctx, func(tx store.Store) error {
		for i := range atts {
			if err := tx.CreateAttachment(ctx, &atts[i]); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		if derr := filestore.Discard(s.files, atts); derr != nil {
			s.logger.Warn("discarding unrecorded uploads", "project_id", p.ID, "error", derr)
		}
		return nil, fmt.Errorf("recording uploads for project %s: %w", projectID, err)
	}

	s.logger.Info("files uploaded", "project_id", p.ID, "user_id", userID, "count", len(atts))
	return atts, nil
}

// OpenAttachment returns an attachment of the project and a reader over
// its content. The caller closes the reader.
func (s *Service) OpenAttachment(ctx context.Context, userID, projectID, attachmentID string) (*model.Attachment, io.ReadCloser, error) {
	if _, _, err := s.authorize(ctx, userID, projectID, access.CanAccessProject); err != nil {
		return nil, nil, err
	}
	a, err := s.store.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if a.ProjectID == nil || *a.ProjectID != projectID {
		return nil, nil, fmt.Errorf("attachment %s on project %s: %w", attachmentID, projectID, model.ErrNotFound)
	}
	rc, err := s.files.Open(a.BlobRef)
	if err != nil {
		return nil, nil, fmt.Errorf("opening attachment %s: %w", attachmentID, err)
	}
	return a, rc, nil
}
