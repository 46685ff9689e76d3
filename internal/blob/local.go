package blob

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
)

// LocalStore keeps images on local disk and serves them from the server's
// own /images/ route.
type LocalStore struct {
	dir     string
	baseURL string
}

var _ ObjectStore = (*LocalStore)(nil)

// NewLocalStore creates a store rooted at dir. baseURL is the externally
// visible server root (e.g. "http://localhost:8080").
func NewLocalStore(dir, baseURL string) *LocalStore {
	return &LocalStore{
		dir:     dir,
		baseURL: strings.TrimRight(baseURL, "/"),
	}
}

// Dir returns the storage root, for wiring the static file route.
func (s *LocalStore) Dir() string {
	return s.dir
}

// Put writes the upload under dir/key and returns its public URL.
func (s *LocalStore) Put(_ context.Context, key, _ string, r io.Reader) (string, error) {
	path := filepath.Join(s.dir, filepath.FromSlash(key))
	if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
		return "", fmt.Errorf("failed to create image directory: %w", err)
	}

	f, err := os.Create(path)
	if err != nil {
		return "", fmt.Errorf("failed to create image file: %w", err)
	}
	defer f.Close()

	if _, err := io.Copy(f, r); err != nil {
		os.Remove(path)
		return "", fmt.Errorf("failed to write image: %w", err)
	}

	return fmt.Sprintf("%s/images/%s", s.baseURL, key), nil
}
