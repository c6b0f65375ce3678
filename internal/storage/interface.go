package storage

import (
	"context"
	"time"
)

// StorageClient stores exported chart frames
type StorageClient interface {
	// Close releases the client
	Close() error

	// StoreFile stores data under the frame folder for timestamp and returns the
	// stored path. filename may be a slash-separated relative path.
	StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) (string, error)

	// GetFile retrieves a file by the path StoreFile returned
	GetFile(ctx context.Context, filePath string) ([]byte, error)

	// ListFrames lists stored PNG frames, newest first
	ListFrames(ctx context.Context, limit int) ([]string, error)
}
