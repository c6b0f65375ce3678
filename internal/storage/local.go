package storage

import (
	"context"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// LocalStorageClient stores frames under a base directory
type LocalStorageClient struct {
	baseDir string
}

// NewLocalStorageClient creates a new local storage client
func NewLocalStorageClient(baseDir string) (*LocalStorageClient, error) {
	if err := os.MkdirAll(baseDir, 0755); err != nil {
		return nil, fmt.Errorf("failed to create base directory %s: %w", baseDir, err)
	}
	return &LocalStorageClient{baseDir: baseDir}, nil
}

// Close is a no-op for local storage
func (l *LocalStorageClient) Close() error {
	return nil
}

// StoreFile writes fileData to <base>/<frame folder>/<filename> and returns the
// path relative to the base directory.
func (l *LocalStorageClient) StoreFile(ctx context.Context, fileData []byte, filename string, timestamp time.Time) (string, error) {
	rel := filepath.Join(filepath.FromSlash(GenerateFrameFolderPath(timestamp)), filepath.FromSlash(filename))
	full := filepath.Join(l.baseDir, rel)

	if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
		return "", fmt.Errorf("failed to create directory %s: %w", filepath.Dir(full), err)
	}
	if err := os.WriteFile(full, fileData, 0644); err != nil {
		return "", fmt.Errorf("failed to write file %s: %w", full, err)
	}
	return filepath.ToSlash(rel), nil
}

// GetFile reads a file relative to the base directory
func (l *LocalStorageClient) GetFile(ctx context.Context, filePath string) ([]byte, error) {
	clean := filepath.Clean(filepath.FromSlash(filePath))
	if filepath.IsAbs(clean) || strings.HasPrefix(clean, "..") {
		return nil, fmt.Errorf("invalid file path %s", filePath)
	}
	data, err := os.ReadFile(filepath.Join(l.baseDir, clean))
	if err != nil {
		return nil, fmt.Errorf("failed to read file %s: %w", filePath, err)
	}
	return data, nil
}

// ListFrames lists stored PNG frames, newest first
func (l *LocalStorageClient) ListFrames(ctx context.Context, limit int) ([]string, error) {
	var frames []string
	err := filepath.WalkDir(l.baseDir, func(p string, d fs.DirEntry, err error) error {
		if err != nil {
			return nil
		}
		if d.IsDir() || !strings.HasSuffix(d.Name(), ".png") {
			return nil
		}
		rel, err := filepath.Rel(l.baseDir, p)
		if err != nil {
			return nil
		}
		frames = append(frames, filepath.ToSlash(rel))
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to walk frames directory: %w", err)
	}
	return newestFirst(frames, limit), nil
}
