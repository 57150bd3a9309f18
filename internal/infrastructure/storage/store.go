package storage

import "context"

// Store is implemented by every upload backend
type Store interface {
	// Put writes data under key, replacing any existing object
	Put(ctx context.Context, key string, data []byte, contentType string) error
	// URL returns the public address of key
	URL(key string) string
}
