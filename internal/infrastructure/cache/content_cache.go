package cache

import (
	"context"
	"time"
)

// KeyPrefix namespaces every public content key
const KeyPrefix = "taxprep:content:"

// ContentCache stores rendered public responses by key. Keys are grouped by
// resource so one admin change can drop everything derived from it.
type ContentCache interface {
	// Get returns the value and whether it was present
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	// InvalidatePrefix drops every key starting with prefix
	InvalidatePrefix(ctx context.Context, prefix string) error
}

// Key builds the cache key of a public response
func Key(resource, variant string) string {
	return KeyPrefix + resource + ":" + variant
}

// ResourcePrefix is the prefix shared by every key of resource
func ResourcePrefix(resource string) string {
	return KeyPrefix + resource + ":"
}
