package storage

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/rs/zerolog"
)

// FilesystemBackend stores uploads in a local directory.
type FilesystemBackend struct {
	dir    string
	logger zerolog.Logger
}

// NewFilesystemBackend creates a filesystem backend rooted at dir,
// creating the directory if needed.
func NewFilesystemBackend(dir string, logger zerolog.Logger) (*FilesystemBackend, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("failed to create upload directory: %w", err)
	}
	return &FilesystemBackend{
		dir:    dir,
		logger: logger.With().Str("storage", "filesystem").Logger(),
	}, nil
}

// Store writes the file content to the upload directory.
func (b *FilesystemBackend) Store(ctx context.Context, reader io.Reader, name string, size int64) (string, error) {
	dst := filepath.Join(b.dir, filepath.Base(name))

	f, err := os.Create(dst)
	if err != nil {
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}
	defer f.Close()

	if _, err := io.Copy(f, io.LimitReader(reader, size)); err != nil {
		os.Remove(dst)
		return "", fmt.Errorf("%w: %v", ErrUploadFailed, err)
	}

	b.logger.Debug().Str("file", dst).Msg("stored upload")
	return "/uploads/" + filepath.Base(name), nil
}

// Delete removes a stored file. A missing file is not an error.
func (b *FilesystemBackend) Delete(ctx context.Context, name string) error {
	err := os.Remove(filepath.Join(b.dir, filepath.Base(name)))
	if err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("failed to delete upload: %w", err)
	}
	return nil
}

// Ensure FilesystemBackend implements Backend
var _ Backend = (*FilesystemBackend)(nil)
