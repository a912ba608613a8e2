package shared

import (
	"context"
	"time"
)

// Cache stores JSON-encodable values under string keys.
// Implementations must be safe for concurrent use.
type Cache interface {
	// Get decodes the cached value into dest. It reports false on a miss.
	Get(ctx context.Context, key string, dest any) (bool, error)
	// Set stores value for ttl; a zero ttl means no expiry
	Set(ctx context.Context, key string, value any, ttl time.Duration) error
	// Delete removes the keys; missing keys are ignored
	Delete(ctx context.Context, keys ...string) error
}
