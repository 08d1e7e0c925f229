// Package storage keeps rendered chart images in S3-compatible object storage.
package storage

import (
	"context"
	"errors"
	"io"
	"path"
	"time"
)

// ChartContentType is the MIME type of stored charts.
const ChartContentType = "image/png"

// ErrObjectNotFound is returned when the requested key does not exist.
var ErrObjectNotFound = errors.New("object not found")

// PutObjectOptions describe an upload. Size is -1 when unknown.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
}

// ObjectInfo is what the backend reports about a stored object.
type ObjectInfo struct {
	Key          string
	Size         int64
	ETag         string
	ContentType  string
	LastModified time.Time
	Metadata     map[string]string
}

// Storage is the object store behind analysis charts.
type Storage interface {
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// Get streams an object. Callers close the reader.
	Get(ctx context.Context, key string) (io.ReadCloser, ObjectInfo, error)
	// Delete is idempotent on most backends; MinIO reports no error for missing keys.
	Delete(ctx context.Context, key string) error
	// PresignGet returns a credential-free download URL valid for expiry.
	PresignGet(ctx context.Context, key string, expiry time.Duration) (string, error)
	// Ping reports whether the bucket is reachable.
	Ping(ctx context.Context) error
}

// ChartKey returns the object key of an analysis chart, e.g. charts/<id>.png.
func ChartKey(prefix, analysisID string) string {
	return path.Join(prefix, analysisID+".png")
}
