// Package storage defines interfaces for upload storage backends.
// Uploaded product photos are persisted through a backend and referenced
// by path from the owning document.
package storage

import (
	"context"
	"errors"
	"io"
)

// ErrUploadFailed indicates the backend could not persist the file.
var ErrUploadFailed = errors.New("failed to store uploaded file")

// Backend persists uploaded files.
// Implementations include the local filesystem and S3-compatible stores.
type Backend interface {
	// Store writes the file content under the given name and returns the
	// public path the stored file is served from.
	Store(ctx context.Context, reader io.Reader, name string, size int64) (path string, err error)

	// Delete removes a stored file by name. Deleting a missing file is
	// not an error.
	Delete(ctx context.Context, name string) error
}
