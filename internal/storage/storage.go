package storage

import "context"

// PhotoStore persists uploaded story photos and returns a public URL.
type PhotoStore interface {
	Put(ctx context.Context, key string, contentType string, data []byte) (url string, err error)
}
