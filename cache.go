package aegis

import (
	"context"
	"time"
)

// Cache stores serialized permission sets keyed by (user, organization).
// Implementations must be safe to call when the backing cache is
// unreachable: Get degrades to a miss, Set and Delete return the error for
// the caller to log and swallow. A cache failure never fails a decision or
// a write.
type Cache interface {
	// Get returns the cached blob for key, if present and unexpired.
	Get(ctx context.Context, key string) ([]byte, bool)

	// Set stores value under key with the given TTL.
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error

	// Delete removes the given keys. Missing keys are not an error.
	Delete(ctx context.Context, keys ...string) error
}
