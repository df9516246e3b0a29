package storage

import (
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"os"
	"path/filepath"
	"strings"

	svcErr "github.com/oggyb/muzz-web/internal/errors"
)

// Uploads is the directory profile pictures are written to and served from.
type Uploads struct {
	dir      string
	maxBytes int64
}

// NewUploads makes sure dir exists.
func NewUploads(dir string, maxBytes int64) (*Uploads, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload dir: %w", err)
	}
	return &Uploads{dir: dir, maxBytes: maxBytes}, nil
}

// NameFor derives the stored filename for a user's upload: <id>_<original>, sanitized.
func (u *Uploads) NameFor(userID uint64, original string) string {
	return SecureFilename(fmt.Sprintf("%d_%s", userID, original))
}

// Path resolves name inside the upload dir. Names that would escape it are rejected.
func (u *Uploads) Path(name string) (string, error) {
	if name == "" || name != SecureFilename(name) {
		return "", svcErr.ErrNotFound
	}
	return filepath.Join(u.dir, name), nil
}

// Check enforces the size cap and sniffs the first 512 bytes for an image type.
func (u *Uploads) Check(fh *multipart.FileHeader) error {
	if u.maxBytes > 0 && fh.Size > u.maxBytes {
		return fmt.Errorf("%w: file larger than %d bytes", svcErr.ErrInvalidUpload, u.maxBytes)
	}

	f, err := fh.Open()
	if err != nil {
		return fmt.Errorf("open upload: %w", err)
	}
	defer f.Close()

	head := make([]byte, 512)
	n, err := io.ReadFull(f, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return fmt.Errorf("read upload: %w", err)
	}
	if ct := http.DetectContentType(head[:n]); !strings.HasPrefix(ct, "image/") {
		return fmt.Errorf("%w: only image files are allowed", svcErr.ErrInvalidUpload)
	}
	return nil
}

// SecureFilename flattens name to a single safe path component.
//
// Path separators and whitespace become "_", anything outside [A-Za-z0-9._-]
// is dropped, and leading dots/underscores are trimmed so the result can't be
// hidden or refer to a parent directory. Returns "" if nothing survives.
func SecureFilename(name string) string {
	var b strings.Builder
	for _, r := range name {
		switch {
		case r == '/' || r == '\\' || r == ' ' || r == '\t':
			b.WriteByte('_')
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9',
			r == '.', r == '_', r == '-':
			b.WriteRune(r)
		}
	}
	return strings.Trim(b.String(), "._")
}
