package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

// FSStore keeps photos in a local directory and serves them under
// publicURL/photos/. The default for development and tests.
type FSStore struct {
	dir       string
	publicURL string
}

func NewFSStore(dir, publicURL string) (*FSStore, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("photo dir: %w", err)
	}
	return &FSStore{dir: dir, publicURL: strings.TrimRight(publicURL, "/")}, nil
}

// Dir returns the directory photos are written to, for static serving.
func (s *FSStore) Dir() string { return s.dir }

func (s *FSStore) Put(ctx context.Context, key, contentType string, data []byte) (string, error) {
	path := filepath.Join(s.dir, filepath.Base(key))
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("write photo: %w", err)
	}
	return s.publicURL + "/photos/" + filepath.Base(key), nil
}
