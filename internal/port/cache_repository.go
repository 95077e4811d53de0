package port

import (
	"context"
	"time"
)

type CacheRepository interface {
	// GetJSON decodes the value stored under key into dest, reporting
	// whether the key was present.
	GetJSON(ctx context.Context, key string, dest any) (bool, error)

	// SetJSON stores the JSON encoding of value under key with an expiry.
	SetJSON(ctx context.Context, key string, value any, ttl time.Duration) error

	// Delete invalidates a key. Deleting a missing key is not an error.
	Delete(ctx context.Context, key string) error
}
