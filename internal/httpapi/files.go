package httpapi

import (
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/nhle/taskboard/internal/filestore"
	"github.com/nhle/taskboard/internal/model"
)

// readUploads parses a multipart request and opens every part of the
// repeatable "files" field. The returned cleanup closes the parts and
// removes temporary files.
func (s *Server) readUploads(w http.ResponseWriter, r *http.Request) ([]filestore.Upload, func(), error) {
	r.Body = http.MaxBytesReader(w, r.Body, s.maxUpload)
	if err := r.ParseMultipartForm(s.maxUpload); err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, nil, err
		}
		return nil, nil, model.NewValidationError("files", "expected multipart form data")
	}

	var opened []multipart.File
	cleanup := func() {
		for _, f := range opened {
			f.Close()
		}
		r.MultipartForm.RemoveAll()
	}

	headers := r.MultipartForm.File["files"]
	uploads := make([]filestore.Upload, 0, len(headers))
	for _, h := range headers {
		f, err := h.Open()
		if err != nil {
			cleanup()
			return nil, nil, err
		}
		opened = append(opened, f)
		uploads = append(uploads, filestore.Upload{
			Name:        h.Filename,
			ContentType: h.Header.Get("Content-Type"),
			Body:        f,
		})
	}
	return uploads, cleanup, nil
}

func serveAttachment(w http.ResponseWriter, a *model.Attachment, content io.Reader) {
	w.Header().Set("Content-Type", a.ContentType)
	w.Header().Set("Content-Length", strconv.FormatInt(a.Size, 10))
	w.Header().Set("Content-Disposition",
		mime.FormatMediaType("attachment", map[string]string{"filename": a.Name}))
	w.WriteHeader(http.StatusOK)
	io.Copy(w, content)
}
