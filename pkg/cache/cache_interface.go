package cache

import (
	"context"
	"time"
)

// Cache is the key/value contract shared by the Redis and in-memory backends.
type Cache interface {
	// Get unmarshals the value stored under key into dest.
	// found is false on a miss and dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores value under key. A ttl <= 0 means no expiry.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	Delete(ctx context.Context, keys ...string) error

	Exists(ctx context.Context, key string) (bool, error)

	// TTL returns the remaining lifetime of key, or 0 if it is missing or has no expiry.
	TTL(ctx context.Context, key string) (time.Duration, error)

	Ping(ctx context.Context) error
	Close() error
}
