// Package blob stores uploaded files on the local filesystem or in an S3
// compatible bucket.
package blob

import (
	"context"
	"errors"
	"fmt"
	"path"
	"strings"

	"github.com/CodeCraft-Studio/studio-site/internal/config"
)

// ErrInvalidKey is returned for keys that are empty, absolute or escape the root.
var ErrInvalidKey = errors.New("invalid blob key")

// ImageTypes are the image media types accepted for upload and display.
var ImageTypes = []string{"image/jpeg", "image/png", "image/gif", "image/webp"} //nolint:gochecknoglobals

// IsImageType reports whether mediaType is one of ImageTypes.
func IsImageType(mediaType string) bool {
	for _, t := range ImageTypes {
		if t == mediaType {
			return true
		}
	}

	return false
}

// Store is a write-mostly object store for uploads.
type Store interface {
	// Put stores data under key and returns the public URL of the object.
	Put(ctx context.Context, key string, data []byte, contentType string) (string, error)
	// Delete removes the object stored under key.
	Delete(ctx context.Context, key string) error
	// Driver names the backend.
	Driver() string
}

// Open creates the store selected by cfg.Driver.
func Open(ctx context.Context, cfg config.Upload) (Store, error) {
	switch cfg.Driver {
	case config.UploadDriverFS, "":
		return NewFS(cfg.Root, cfg.URLPath)
	case config.UploadDriverS3:
		return NewS3(ctx, cfg.S3)
	default:
		return nil, fmt.Errorf("%w: %q", config.ErrUnknownUploadDriver, cfg.Driver)
	}
}

// CleanKey normalizes key and rejects traversal and absolute keys.
func CleanKey(key string) (string, error) {
	if strings.TrimSpace(key) == "" || strings.HasPrefix(key, "/") || strings.Contains(key, "..") {
		return "", fmt.Errorf("%w: %q", ErrInvalidKey, key)
	}

	return path.Clean(key), nil
}
