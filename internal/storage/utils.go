package storage

import (
	"fmt"
	"path"
	"sort"
	"strings"
	"time"
)

// GenerateFrameFolderPath generates a consistent folder path for a frame export
// Format: YYYY/MM/DD/frame-YYYY-MM-DD-HH-MM-SS
func GenerateFrameFolderPath(timestamp time.Time) string {
	ts := timestamp.UTC()
	return fmt.Sprintf("%04d/%02d/%02d/frame-%s",
		ts.Year(), ts.Month(), ts.Day(), ts.Format("2006-01-02-15-04-05"))
}

// GetContentType determines the MIME content type based on file extension
func GetContentType(filename string) string {
	switch strings.ToLower(path.Ext(filename)) {
	case ".png":
		return "image/png"
	case ".json":
		return "application/json"
	case ".html":
		return "text/html"
	case ".txt":
		return "text/plain"
	default:
		return "application/octet-stream"
	}
}

// newestFirst sorts frame paths so the latest timestamped folder comes first
// and applies limit when positive.
func newestFirst(paths []string, limit int) []string {
	sort.Sort(sort.Reverse(sort.StringSlice(paths)))
	if limit > 0 && limit < len(paths) {
		paths = paths[:limit]
	}
	return paths
}
