package filestore

import (
	"context"
	"errors"
	"fmt"
	"io"

	"github.com/nhle/taskboard/internal/model"
)

// Upload is one file submitted for attachment.
type Upload struct {
	Name        string
	ContentType string
	Body        io.Reader
}

// Attach writes each upload to s under scope/ownerID and returns
// attachment rows describing them. The rows are not persisted; the
// caller sets the parent and uploader and inserts them. If any upload
// fails, the content already written is removed.
func Attach(ctx context.Context, s Store, scope, ownerID string, uploads []Upload) ([]model.Attachment, error) {
	atts := make([]model.Attachment, 0, len(uploads))
	for _, u := range uploads {
		name := SanitizeName(u.Name)
		blob, err := s.Put(ctx, Key(scope, ownerID, name), u.Body)
		if err != nil {
			err = fmt.Errorf("storing %s: %w", name, err)
			return nil, errors.Join(err, Discard(s, atts))
		}
		atts = append(atts, model.Attachment{
			Name:        name,
			BlobRef:     blob.Ref,
			Size:        blob.Size,
			Digest:      blob.Digest,
			ContentType: u.ContentType,
		})
	}
	return atts, nil
}

// Discard removes the content behind atts from s. It is used when the
// attachment rows could not be recorded.
func Discard(s Store, atts []model.Attachment) error {
	var errs []error
	for _, a := range atts {
		if err := s.Delete(a.BlobRef); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
