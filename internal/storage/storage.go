package storage

import (
	"context"
	"io"
	"strings"
	"time"
)

type ObjectInfo struct {
	Key          string
	Size         int64
	LastModified *time.Time
}

// UploadOptions conveys upload destination metadata.
type UploadOptions struct {
	Bucket      string
	KeyPrefix   string
	ContentType string
}

// Service stores export documents in remote object storage.
type Service interface {
	PutObject(ctx context.Context, key string, body io.Reader, opts UploadOptions) (string, error)
	ListObjects(ctx context.Context, bucket, prefix string) ([]ObjectInfo, error)
	DeletePrefix(ctx context.Context, bucket, prefix string) error
	GetObjectURL(ctx context.Context, bucket, key string, expires time.Duration) (string, error)
}

// ObjectKey joins a key prefix and a relative name with single slashes.
func ObjectKey(prefix string, parts ...string) string {
	key := strings.Trim(prefix, "/")
	for _, part := range parts {
		part = strings.Trim(part, "/")
		if part == "" {
			continue
		}
		if key != "" {
			key += "/"
		}
		key += part
	}
	return key
}
