// Package tagstore holds tag version counters for tagcache.
//
// Keys handed to a Store are already namespaced by tagcache
// ("tag:<ns>:<name>"); stores keep them verbatim. A version is a Unix-seconds
// based int64 that only ever grows.
package tagstore

import (
	"context"
	"errors"
)

// ErrBadVersion is returned when a stored version cannot be parsed.
var ErrBadVersion = errors.New("tagstore: malformed version")

// Store abstracts where tag versions live.
// Use KV over any provider, Redis for shared counters, or Local for a single process.
type Store interface {
	// Get returns (version, true, nil) when the key exists and (0, false, nil) when it does not.
	Get(ctx context.Context, key string) (int64, bool, error)
	// GetMany returns versions for the keys that exist. Missing keys are absent from the map.
	GetMany(ctx context.Context, keys []string) (map[string]int64, error)
	// Add stores version only when key is absent and reports whether it did.
	Add(ctx context.Context, key string, version int64) (bool, error)
	// Set overwrites the version unconditionally.
	Set(ctx context.Context, key string, version int64) error
	// Close releases resources (no-op ok).
	Close(context.Context) error
}

// Toucher is implemented by stores that can apply the bump rule atomically:
// the new version is max(now, current+1), where an absent key counts as
// current = now.
type Toucher interface {
	Touch(ctx context.Context, key string, now int64) (int64, error)
}

// NextVersion applies the bump rule to an observed version.
func NextVersion(current, now int64) int64 {
	if next := current + 1; next > now {
		return next
	}
	return now
}
