package services

import (
	"context"
	"time"
)

// StoredObject là một blob trong bucket
type StoredObject struct {
	Key       string
	URL       string
	CreatedAt time.Time
}

// ObjectStore là adapter tới object storage
type ObjectStore interface {
	// Upload lưu blob dưới key và trả về public URL
	Upload(ctx context.Context, bucket, key, contentType string, data []byte) (string, error)
	Remove(ctx context.Context, bucket string, keys []string) error
	// List trả ErrListUnsupported nếu backend không hỗ trợ
	List(ctx context.Context, bucket string) ([]StoredObject, error)
}
