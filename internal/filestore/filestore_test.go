package filestore

import (
	"context"
	"encoding/hex"
	"errors"
	"io"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/zeebo/blake3"
)

func TestDiskPutOpen(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	ref := Key(ScopeTask, "task-1", "report.txt")
	assert.True(t, strings.HasPrefix(ref, "tasks/task-1/"))
	assert.True(t, strings.HasSuffix(ref, "-report.txt"))

	blob, err := d.Put(context.Background(), ref, strings.NewReader("hello"))
	require.NoError(t, err)
	assert.Equal(t, ref, blob.Ref)
	assert.Equal(t, int64(5), blob.Size)

	sum := blake3.Sum256([]byte("hello"))
	assert.Equal(t, hex.EncodeToString(sum[:]), blob.Digest)

	rc, err := d.Open(ref)
	require.NoError(t, err)
	defer rc.Close()
	data, err := io.ReadAll(rc)
	require.NoError(t, err)
	assert.Equal(t, "hello", string(data))
}

func TestDiskRejectsEscapingRefs(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	for _, ref := range []string{"", "/etc/passwd", "../outside", "tasks/../../x", `tasks\x`} {
		_, err := d.Open(ref)
		assert.ErrorIs(t, err, ErrInvalidRef, ref)

		_, err = d.Put(context.Background(), ref, strings.NewReader("x"))
		assert.ErrorIs(t, err, ErrInvalidRef, ref)
	}
}

func TestDiskPutCancelled(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	ref := Key(ScopeProject, "p", "a.bin")
	_, err = d.Put(ctx, ref, strings.NewReader("data"))
	require.ErrorIs(t, err, context.Canceled)

	_, err = d.Open(ref)
	assert.Error(t, err, "failed upload leaves nothing behind")
}

func TestDiskDelete(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	ref := Key(ScopeTask, "task-1", "a.txt")
	_, err = d.Put(context.Background(), ref, strings.NewReader("a"))
	require.NoError(t, err)

	require.NoError(t, d.Delete(ref))
	_, err = d.Open(ref)
	assert.Error(t, err)

	assert.NoError(t, d.Delete(ref), "deleting twice is fine")
	assert.ErrorIs(t, d.Delete("../x"), ErrInvalidRef)
}

func TestAttachRemovesWrittenOnFailure(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	broken := errors.New("connection reset")
	first := &refRecorder{Store: d}
	_, err = Attach(context.Background(), first, ScopeTask, "task-1", []Upload{
		{Name: "ok.txt", Body: strings.NewReader("ok")},
		{Name: "bad.txt", Body: iotest.ErrReader(broken)},
	})
	require.ErrorIs(t, err, broken)
	require.NotEmpty(t, first.refs)

	_, err = d.Open(first.refs[0])
	assert.Error(t, err, "earlier uploads are removed")
}

func TestDiscard(t *testing.T) {
	d, err := NewDisk(t.TempDir())
	require.NoError(t, err)

	atts, err := Attach(context.Background(), d, ScopeProject, "p", []Upload{
		{Name: "a.txt", Body: strings.NewReader("a")},
		{Name: "b.txt", Body: strings.NewReader("b")},
	})
	require.NoError(t, err)
	require.Len(t, atts, 2)

	require.NoError(t, Discard(d, atts))
	for _, a := range atts {
		_, err := d.Open(a.BlobRef)
		assert.Error(t, err, a.Name)
	}
}

// refRecorder remembers the refs passed to Put.
type refRecorder struct {
	Store
	refs []string
}

func (r *refRecorder) Put(ctx context.Context, ref string, body io.Reader) (Blob, error) {
	r.refs = append(r.refs, ref)
	return r.Store.Put(ctx, ref, body)
}

func TestSanitizeName(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"report.pdf", "report.pdf"},
		{"../../etc/passwd", "passwd"},
		{`C:\Users\me\doc.txt`, "doc.txt"},
		{"", "file"},
		{"..", "file"},
		{"dir/", "dir"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, SanitizeName(tt.in), tt.in)
	}
}
