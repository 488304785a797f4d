package upload

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is where stored images are served from.
const URLPrefix = "/uploads/"

var (
	ErrEmpty           = errors.New("empty upload")
	ErrTooLarge        = errors.New("upload too large")
	ErrUnsupportedType = errors.New("only jpeg and png images are allowed")
)

var allowed = map[string]string{
	"image/jpeg": ".jpg",
	"image/png":  ".png",
}

// Storage keeps uploaded chat images on local disk.
type Storage struct {
	dir      string
	maxBytes int64
}

// New creates the upload directory if needed.
func New(dir string, maxBytes int64) (*Storage, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &Storage{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are written to.
func (s *Storage) Dir() string {
	return s.dir
}

// Save stores an image read from r under a random name and returns its public URL.
// The type is sniffed from the content; the client-provided name is ignored.
func (s *Storage) Save(r io.Reader) (string, error) {
	data, err := io.ReadAll(io.LimitReader(r, s.maxBytes+1))
	if err != nil {
		return "", fmt.Errorf("read upload: %w", err)
	}
	if len(data) == 0 {
		return "", ErrEmpty
	}
	if int64(len(data)) > s.maxBytes {
		return "", ErrTooLarge
	}

	detected := mimetype.Detect(data)
	ext, ok := allowed[detected.String()]
	if !ok {
		return "", fmt.Errorf("%w: got %s", ErrUnsupportedType, detected.String())
	}

	name := uuid.NewString() + ext
	if err := os.WriteFile(filepath.Join(s.dir, name), data, 0o644); err != nil {
		return "", fmt.Errorf("write upload: %w", err)
	}
	return URLPrefix + name, nil
}
