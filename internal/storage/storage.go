// Package storage defines the interface for object storage operations.
// Swap implementations by changing the concrete type injected at startup.
// The MinIO implementation works with any S3-compatible provider; the AWS
// implementation talks to S3 through the official SDK.
package storage

import (
	"context"
	"io"
	"time"
)

// Object is a raw entry reported by the store.
type Object struct {
	Key          string
	Size         int64
	LastModified time.Time
}

// Storage is the interface for writing and listing objects.
type Storage interface {
	// Put streams data to the store under the given key.
	Put(ctx context.Context, key string, reader io.Reader, size int64, contentType string, metadata map[string]string) error
	// List returns every object under prefix. An empty store yields an empty slice.
	List(ctx context.Context, prefix string) ([]Object, error)
	// PublicURL constructs the browser-accessible URL for a given key.
	PublicURL(key string) string
}
