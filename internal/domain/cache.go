package domain

import (
	"context"
	"time"
)

// CacheError represents an error originating from the cache.
type CacheError string

func (e CacheError) Error() string {
	return string(e)
}

// ErrCacheMiss is returned when a key is not found in the cache.
const ErrCacheMiss = CacheError("cache: key not found")

// Cache is the port for the key/value cache used by discussion lookups.
type Cache interface {
	// Get returns ErrCacheMiss if the key is not found.
	Get(ctx context.Context, key string) (string, error)
	// Set stores value under key. A zero expiration keeps it indefinitely.
	Set(ctx context.Context, key string, value string, expiration time.Duration) error
	// Delete does not fail when the key is absent.
	Delete(ctx context.Context, key string) error
	Ping(ctx context.Context) error
}
