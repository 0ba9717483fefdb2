package storage

import (
	"context"
	"fmt"
	"os"
	"path/filepath"

	"chatrelay/internal/pkg/randx"
)

// PublicUploadPrefix is the URL path under which locally stored uploads are served.
const PublicUploadPrefix = "/static/uploads/"

// localService stores uploaded files on the local filesystem.
type localService struct {
	dir string
}

// newLocalService ensures the upload directory exists and returns the service.
func newLocalService(dir string) (*localService, error) {
	if dir == "" {
		return nil, fmt.Errorf("upload directory is required for local storage")
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory %s: %w", dir, err)
	}

	return &localService{dir: dir}, nil
}

// Save writes the payload under a fresh random name and returns the public URL path.
func (s *localService) Save(_ context.Context, originalFilename string, data []byte) (string, error) {
	name := randx.UploadName(originalFilename)
	path := filepath.Join(s.dir, name)

	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("failed to write uploaded file: %w", err)
	}

	return PublicUploadPrefix + name, nil
}

// Dir exposes the upload directory so the router can serve it.
func (s *localService) Dir() string {
	return s.dir
}
