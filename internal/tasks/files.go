package tasks

import (
	"context"
	"fmt"
	"io"

	"github.com/nhle/taskboard/internal/access"
	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
	"github.com/nhle/taskboard/internal/store"
)

// Upload is one file submitted for attachment.
type Upload = filestore.Upload

// Upload stores each file and records it as an attachment of the task.
// Content is written first; the attachment rows are then inserted in a
// single transaction, and the content is removed again if that fails.
func (s *Service) Upload(ctx context.Context, userID, taskID string, uploads []Upload) ([]model.Attachment, error) {
	if len(uploads) == 0 {
		return nil, model.NewValidationError("files", "at least one file is required")
	}
	t, _, err := s.authorize(ctx, userID, taskID, access.CanUploadFiles)
	if err != nil {
		return nil, err
	}

	atts, err := filestore.Attach(ctx, s.files, filestore.ScopeTask, t.ID, uploads)
	if err != nil {
		return nil, err
	}
	at := s.now()
	for i := range atts {
		atts[i].TaskID = &t.ID
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
			s.logger.Warn("discarding unrecorded uploads", "task_id", t.ID, "error", derr)
		}
		return nil, fmt.Errorf("recording uploads for task %s: %w", taskID, err)
	}

	s.logger.Info("files uploaded", "task_id", t.ID, "user_id", userID, "count", len(atts))
	return atts, nil
}

// OpenAttachment returns an attachment of the task and a reader over its
// content. The caller closes the reader.
func (s *Service) OpenAttachment(ctx context.Context, userID, taskID, attachmentID string) (*model.Attachment, io.ReadCloser, error) {
	if _, _, err := s.authorize(ctx, userID, taskID, access.CanAccess); err != nil {
		return nil, nil, err
	}
	a, err := s.store.GetAttachmentByID(ctx, attachmentID)
	if err != nil {
		return nil, nil, err
	}
	if a.TaskID == nil || *a.TaskID != taskID {
		return nil, nil, fmt.Errorf("attachment %s on task %s: %w", attachmentID, taskID, model.ErrNotFound)
	}
	rc, err := s.files.Open(a.BlobRef)
	if err != nil {
		return nil, nil, fmt.Errorf("opening attachment %s: %w", attachmentID, err)
	}
	return a, rc, nil
}
