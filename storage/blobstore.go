// Package storage holds the image blob backends. A blob is addressed by a
// name derived from the owning product's id plus the upload's file extension,
// so re-uploading an image for the same product overwrites in place.
package storage

import (
	"context"
	"errors"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// ErrNotFound is returned by Retrieve when no blob exists under the name.
var ErrNotFound = errors.New("blob not found")

// BlobStore stores raw image bytes independent of record metadata.
// Store overwrites silently when the name already exists. Remove is a no-op
// (not an error) when the blob is already absent. Any underlying I/O fault
// propagates to the caller; there is no retry or caching layer.
type BlobStore interface {
	Store(ctx context.Context, name string, data []byte, contentType string) error
	Retrieve(ctx context.Context, name string) (data []byte, contentType string, err error)
	Remove(ctx context.Context, name string) error
}

// ImageName derives the storage name for a product's image from the product
// id and the upload's original filename.
func ImageName(id uuid.UUID, originalFilename string) string {
	return id.String() + strings.ToLower(filepath.Ext(originalFilename))
}

// ContentTypeByExt maps an image name's extension to a MIME type, falling
// back to octet-stream for anything unrecognized.
func ContentTypeByExt(name string) string {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".png":
		return "image/png"
	case ".jpg", ".jpeg":
		return "image/jpeg"
	case ".gif":
		return "image/gif"
	case ".webp":
		return "image/webp"
	default:
		return "application/octet-stream"
	}
}
