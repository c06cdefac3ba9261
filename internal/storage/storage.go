// Package storage contains object storage abstractions for S3-compatible backends.
// Implementations stream from the reader and never touch local disk.
package storage

import (
	"context"
	"io"
	"net/url"
	"strings"
)

// PutObjectOptions define optional parameters for uploading objects.
// Size should be the exact number of bytes if known; if unknown, set to -1 and the implementation
// will buffer/chunk as supported by the backend.
type PutObjectOptions struct {
	Size        int64
	ContentType string
	Metadata    map[string]string
	// PublicRead makes the object readable by anonymous clients.
	PublicRead bool
}

// ObjectInfo contains basic information about a stored object.
type ObjectInfo struct {
	Key         string
	Size        int64
	ETag        string
	ContentType string
	URL         string
}

// Storage is an S3-compatible object storage client.
type Storage interface {
	// Put uploads an object under key and returns its info, including the public URL.
	Put(ctx context.Context, key string, r io.Reader, opt PutObjectOptions) (ObjectInfo, error)
	// PublicURL returns the anonymous URL of key.
	PublicURL(key string) string
}

// escapeKey escapes each path segment of key, keeping the separators.
func escapeKey(key string) string {
	parts := strings.Split(key, "/")
	for i, p := range parts {
		parts[i] = url.PathEscape(p)
	}
	return strings.Join(parts, "/")
}
