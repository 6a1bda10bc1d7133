package cache

import (
	"context"
	"time"
)

// Cache definisce il contract del cache layer.
// L'handle viene iniettato esplicitamente nei service: nessun singleton globale,
// chi scrive un record deve invalidare le chiavi interessate.
type Cache interface {
	// Get reads a key and unmarshals it into dest.
	// Returns (found, error): on a miss dest is left untouched.
	Get(ctx context.Context, key string, dest interface{}) (bool, error)

	// Set stores a value with a TTL. Readers must treat the value as
	// possibly stale up to the TTL.
	Set(ctx context.Context, key string, value interface{}, ttl time.Duration) error

	// Delete removes keys from the cache.
	Delete(ctx context.Context, keys ...string) error

	// DeletePattern removes every key matching a glob pattern
	// (used to invalidate paginated listings in one shot).
	DeletePattern(ctx context.Context, pattern string) error

	// Ping checks the connection.
	Ping(ctx context.Context) error
}
