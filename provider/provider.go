// Package provider defines the byte-store abstraction tagcache keeps entities
// (and, through tagstore.KV, tag versions) in.
//
// Implementations MUST be byte-for-byte transparent: Get must return exactly the
// same []byte that was previously passed to Set for a key (no prepended/appended
// metadata, no re-encoding, no mutation).
//
// The keyspaces "entity:<ns>:" and "tag:<ns>:" are owned by tagcache. External
// code MUST NOT write values under these prefixes; foreign bytes under an entity
// key are treated as corruption and deleted.
package provider

import (
	"context"
	"errors"
	"time"
)

// ErrClosed is returned by providers that refuse calls after Close.
var ErrClosed = errors.New("provider: closed")

// Provider is a minimal byte store with TTLs.
// Must be safe for concurrent use.
type Provider interface {
	// Get returns (value, true, nil) on hit; (nil, false, nil) on miss.
	// If an IO/remote error happens, return (nil, false, err).
	Get(ctx context.Context, key string) ([]byte, bool, error)

	// Set stores value with the given TTL (ttl <= 0 means no expiry).
	// May ignore cost if unsupported.
	// Returns ok=false when the store rejected the write under pressure.
	Set(ctx context.Context, key string, value []byte, cost int64, ttl time.Duration) (ok bool, err error)

	// Del removes a key. Deleting a missing key is not an error.
	Del(ctx context.Context, key string) error

	// Clear removes every key starting with prefix. Stores that cannot
	// enumerate keys may drop everything they hold; callers must then give
	// each namespace its own Provider.
	Clear(ctx context.Context, prefix string) error

	// Close releases resources.
	Close(ctx context.Context) error
}

// Evicting is implemented by providers that may drop keys on their own under
// memory pressure or after a fixed lifetime. Such providers are fine for
// entities but must not hold tag versions: a dropped tag is re-created at the
// current time, which can be older than the version it replaces.
type Evicting interface {
	Evicts() bool
}

// PrefixIgnorer is implemented by providers whose Clear drops everything
// regardless of prefix. tagcache refuses to keep tags and entities in one such
// provider.
type PrefixIgnorer interface {
	ClearIgnoresPrefix() bool
}
