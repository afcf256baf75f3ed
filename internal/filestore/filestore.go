// Package filestore keeps uploaded attachment content on disk. Metadata
// lives in the relational store; a file is addressed there by the ref
// returned from Put.
package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"fmt"
	"io"
	"os"
	"path"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/zeebo/blake3"
)

// ErrInvalidRef is returned for refs that are empty, absolute, or would
// resolve outside the store root.
var ErrInvalidRef = errors.New("invalid file reference")

// Blob describes content written by Put.
type Blob struct {
	Ref    string
	Size   int64
	Digest string // hex BLAKE3-256 of the content
}

// Store persists attachment content.
type Store interface {
	Put(ctx context.Context, ref string, r io.Reader) (Blob, error)
	Open(ref string) (io.ReadCloser, error)
	Delete(ref string) error
}

// Scopes for Key.
const (
	ScopeTask    = "tasks"
	ScopeProject = "projects"
)

// Key builds a fresh ref for a file named name that belongs to the
// given owner, e.g. "tasks/<id>/<uuid>-report.pdf". Two uploads with
// the same name never collide.
func Key(scope, ownerID, name string) string {
	return path.Join(scope, ownerID, uuid.NewString()+"-"+SanitizeName(name))
}

// SanitizeName strips any directory components from a client-supplied
// file name.
func SanitizeName(name string) string {
	name = strings.ReplaceAll(name, "\\", "/")
	base := path.Base(name)
	switch base {
	case "", ".", "..", "/":
		return "file"
	}
	return base
}

// Disk stores files under a root directory.
type Disk struct {
	root string
}

// NewDisk returns a Disk rooted at root, creating the directory if needed.
func NewDisk(root string) (*Disk, error) {
	if err := os.MkdirAll(root, 0o755); err != nil {
		return nil, fmt.Errorf("creating storage directory %s: %w", root, err)
	}
	return &Disk{root: root}, nil
}

// Put writes r to ref, replacing any existing content. The write goes
// to a temporary file that is renamed into place once complete, so a
// failed upload never leaves a partial file behind.
func (d *Disk) Put(ctx context.Context, ref string, r io.Reader) (Blob, error) {
	finalPath, err := d.resolve(ref)
	if err != nil {
		return Blob{}, err
	}
	if err := os.MkdirAll(filepath.Dir(finalPath), 0o755); err != nil {
		return Blob{}, fmt.Errorf("creating directory for %s: %w", ref, err)
	}

	tmpFile, err := os.CreateTemp(filepath.Dir(finalPath), ".upload-*")
	if err != nil {
		return Blob{}, fmt.Errorf("creating temp file for %s: %w", ref, err)
	}
	tmpPath := tmpFile.Name()

	success := false
	defer func() {
		if !success {
			tmpFile.Close()
			os.Remove(tmpPath)
		}
	}()

	hasher := blake3.New()
	size, err := io.Copy(io.MultiWriter(tmpFile, hasher), &ctxReader{ctx: ctx, r: r})
	if err != nil {
		return Blob{}, fmt.Errorf("writing %s: %w", ref, err)
	}
	if err := tmpFile.Close(); err != nil {
		return Blob{}, fmt.Errorf("closing temp file for %s: %w", ref, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		return Blob{}, fmt.Errorf("renaming temp file to %s: %w", ref, err)
	}

	success = true
	return Blob{
		Ref:    ref,
		Size:   size,
		Digest: hex.EncodeToString(hasher.Sum(nil)),
	}, nil
}

// Open returns the content stored at ref.
func (d *Disk) Open(ref string) (io.ReadCloser, error) {
	p, err := d.resolve(ref)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(p)
	if err != nil {
		return nil, fmt.Errorf("opening %s: %w", ref, err)
	}
	return f, nil
}

// Delete removes the content stored at ref. A missing file is not an
// error.
func (d *Disk) Delete(ref string) error {
	p, err := d.resolve(ref)
	if err != nil {
		return err
	}
	if err := os.Remove(p); err != nil && !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("deleting %s: %w", ref, err)
	}
	return nil
}

// resolve maps ref to a path under the root.
func (d *Disk) resolve(ref string) (string, error) {
	if ref == "" || path.IsAbs(ref) || strings.Contains(ref, "\\") {
		return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
	}
	for _, part := range strings.Split(ref, "/") {
		if part == ".." {
			return "", fmt.Errorf("%w: %q", ErrInvalidRef, ref)
		}
	}
	return filepath.Join(d.root, filepath.FromSlash(path.Clean(ref))), nil
}

// ctxReader stops a copy once ctx is cancelled.
type ctxReader struct {
	ctx context.Context
	r   io.Reader
}

func (c *ctxReader) Read(p []byte) (int, error) {
	if err := c.ctx.Err(); err != nil {
		return 0, err
	}
	return c.r.Read(p)
}
