package tagcache

import (
	"context"
	"time"

	c "github.com/unkn0wn-root/tagcache/codec"
	pr "github.com/unkn0wn-root/tagcache/provider"
	ts "github.com/unkn0wn-root/tagcache/tagstore"
)

type SetCostFunc func(key string, raw []byte) int64

// MissFunc computes a value on a cache miss.
type MissFunc[V any] func(ctx context.Context) (V, error)

// TaggedMissFunc computes a value on a cache miss and declares the tags it
// depends on through e.
type TaggedMissFunc[V any] func(ctx context.Context, e *Entry) (V, error)

// Cache is the tag-invalidated cache API.
// V is the caller's value type. Serialization is handled by a pluggable Codec[V].
type Cache[V any] interface {
	Enabled() bool
	Close(context.Context) error

	// Tags
	ReadTag(ctx context.Context, name string) (int64, error)
	ReadTags(ctx context.Context, names ...string) (map[string]int64, error)
	TouchTag(ctx context.Context, ref Taggable) (int64, error)
	TouchTags(ctx context.Context, refs ...Taggable) (map[string]int64, error)

	// Entities
	Write(ctx context.Context, key string, value V, depends ...string) error
	Read(ctx context.Context, key string) (v V, ok bool, err error)
	Exist(ctx context.Context, key string) (bool, error)
	Delete(ctx context.Context, key string) error
	Fetch(ctx context.Context, key string, depends []string, onMiss MissFunc[V]) (V, error)
	TaggedFetch(ctx context.Context, key string, onMiss TaggedMissFunc[V]) (V, error)

	// Clear drops every entity. Tag versions are left as they are.
	Clear(ctx context.Context) error
}

// Options configure a Cache.
// TagStore, EntityStore and Codec are required; others have sensible defaults.
type Options[V any] struct {
	// Required
	TagStore    ts.Store    // tag versions, e.g. tagstore.NewRedis(rdb)
	EntityStore pr.Provider // entity envelopes
	Codec       c.Codec[V]

	TagNamespace    string           // "" => "tags"
	EntityNamespace string           // "" => "entities"
	Logger          Logger           // if nil, NopLogger is used
	Hooks           Hooks            // if nil, NopHooks is used
	DefaultTTL      time.Duration    // entity TTL; 0 => no expiry
	ComputeSetCost  SetCostFunc      // default 1
	Disabled        bool             // default false (enabled)
	Now             func() time.Time // clock for tag versions; nil => time.Now
}

func New[V any](opts Options[V]) (Cache[V], error) {
	return newCache[V](opts)
}
