// Package blob stores export files on the local filesystem or in an
// S3 compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path/filepath"
	"strings"
	"time"
)

// Driver names a blob backend
type Driver string

const (
	DriverFilesystem Driver = "fs"
	DriverS3         Driver = "s3"
)

// ErrExists is returned when Put targets a key that is already stored
var ErrExists = errors.New("blob already exists")

// ErrNotFound is returned when Get targets a missing key
var ErrNotFound = errors.New("blob not found")

// Object describes a stored blob
type Object struct {
	Key         string
	Size        int64
	ContentType string
	URL         string // file path or s3:// URL
	CreatedAt   time.Time
}

// Store is the minimal create-only blob surface used by ledger exports
type Store interface {
	Driver() Driver
	// Put stores data under key. Keys are never overwritten.
	Put(ctx context.Context, key string, data []byte, contentType string) (Object, error)
	// Get returns the stored bytes
	Get(ctx context.Context, key string) ([]byte, error)
}

// sanitizeKey rejects keys that could escape the store root
func sanitizeKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" {
		return "", fmt.Errorf("empty key")
	}
	if strings.Contains(key, "..") {
		return "", fmt.Errorf("invalid key %q: contains '..'", key)
	}
	if strings.HasPrefix(key, "/") {
		return "", fmt.Errorf("invalid key %q: absolute", key)
	}
	return filepath.ToSlash(filepath.Clean(key)), nil
}
