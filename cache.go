package tagcache

import (
	"context"
	"errors"
	"reflect"
	"strings"
	"time"

	c "github.com/unkn0wn-root/tagcache/codec"
	"github.com/unkn0wn-root/tagcache/internal/wire"
	pr "github.com/unkn0wn-root/tagcache/provider"
	ts "github.com/unkn0wn-root/tagcache/tagstore"
)

type cache[V any] struct {
	tags     *tagManager
	entities *entityStore
	tagStore ts.Store
	codec    c.Codec[V]
	log      Logger
	hooks    Hooks
	enabled  bool
}

func newCache[V any](opts Options[V]) (*cache[V], error) {
	if opts.TagStore == nil {
		return nil, ErrTagStoreRequired
	}
	if opts.EntityStore == nil {
		return nil, ErrEntityStoreRequired
	}
	if opts.Codec == nil {
		return nil, ErrCodecRequired
	}
	if sharesClearAllProvider(opts.TagStore, opts.EntityStore) {
		return nil, ErrSharedProvider
	}

	tagNS := coalesce(opts.TagNamespace, defaultTagNamespace)
	entityNS := coalesce(opts.EntityNamespace, defaultEntityNamespace)
	// "a" would otherwise prefix-match the keys of "a:b" on Clear
	if strings.Contains(tagNS, ":") || strings.Contains(entityNS, ":") {
		return nil, ErrBadNamespace
	}

	log := coalesce[Logger](opts.Logger, NopLogger{})
	hooks := coalesce[Hooks](opts.Hooks, NopHooks{})
	now := opts.Now
	if now == nil {
		now = time.Now
	}
	cost := opts.ComputeSetCost
	if cost == nil {
		cost = func(_ string, _ []byte) int64 { return 1 }
	}

	c := &cache[V]{
		tags: &tagManager{
			store: opts.TagStore,
			ns:    tagNS,
			now:   now,
			log:   log,
			hooks: hooks,
		},
		entities: &entityStore{
			p:    opts.EntityStore,
			ns:   entityNS,
			ttl:  opts.DefaultTTL,
			cost: cost,
		},
		tagStore: opts.TagStore,
		codec:    opts.Codec,
		log:      log,
		hooks:    hooks,
		enabled:  !opts.Disabled,
	}
	return c, nil
}

// sharesClearAllProvider reports whether a KV tag store sits on the very
// provider used for entities while that provider clears instance-wide.
func sharesClearAllProvider(tags ts.Store, entities pr.Provider) bool {
	kv, ok := tags.(interface{ Provider() pr.Provider })
	if !ok {
		return false
	}
	pi, ok := entities.(pr.PrefixIgnorer)
	if !ok || !pi.ClearIgnoresPrefix() {
		return false
	}
	a, b := reflect.ValueOf(kv.Provider()), reflect.ValueOf(entities)
	if a.Kind() != reflect.Pointer || b.Kind() != reflect.Pointer {
		return false
	}
	return a.Type() == b.Type() && a.Pointer() == b.Pointer()
}

func (c *cache[V]) Enabled() bool { return c.enabled }

// Close closes the tag store first, then the entity provider.
func (c *cache[V]) Close(ctx context.Context) error {
	return errors.Join(c.tagStore.Close(ctx), c.entities.p.Close(ctx))
}

func (c *cache[V]) ReadTag(ctx context.Context, name string) (int64, error) {
	return c.tags.read(ctx, name)
}

func (c *cache[V]) ReadTags(ctx context.Context, names ...string) (map[string]int64, error) {
	return c.tags.readMany(ctx, names)
}

func (c *cache[V]) TouchTag(ctx context.Context, ref Taggable) (int64, error) {
	if ref == nil {
		return 0, ErrNilTag
	}
	return c.tags.touch(ctx, ref.CacheTag())
}

func (c *cache[V]) TouchTags(ctx context.Context, refs ...Taggable) (map[string]int64, error) {
	out := make(map[string]int64, len(refs))
	for _, r := range refs {
		v, err := c.TouchTag(ctx, r)
		if err != nil {
			return out, err
		}
		out[r.CacheTag()] = v
	}
	return out, nil
}

func (c *cache[V]) Write(ctx context.Context, key string, value V, depends ...string) error {
	if !c.enabled {
		return nil
	}
	payload, err := c.codec.Encode(value)
	if err != nil {
		return err
	}
	snap, err := c.tags.readMany(ctx, depends)
	if err != nil {
		return err
	}
	deps := make([]wire.Dep, 0, len(snap))
	for name, v := range snap {
		deps = append(deps, wire.Dep{Tag: name, Version: v})
	}

	k := c.entities.key(key)
	ok, err := c.entities.set(ctx, k, deps, payload)
	if err != nil {
		return c.storeFailed(err)
	}
	if !ok {
		c.hooks.ProviderSetRejected(k)
		c.log.Debug("Write rejected by provider (pressure)", Fields{"key": key})
	}
	return nil
}

func (c *cache[V]) Read(ctx context.Context, key string) (V, bool, error) {
	var zero V
	payload, k, ok, err := c.load(ctx, key)
	if err != nil || !ok {
		return zero, false, err
	}
	v, err := c.codec.Decode(payload)
	if err != nil {
		c.selfHeal(ctx, k, "value_decode")
		return zero, false, nil
	}
	return v, true, nil
}

// Exist reports whether Read would hit, without decoding the value.
func (c *cache[V]) Exist(ctx context.Context, key string) (bool, error) {
	_, _, ok, err := c.load(ctx, key)
	return ok, err
}

// load fetches the entry for key and checks its snapshot against the live
// tag versions. Stale entries stay where they are.
func (c *cache[V]) load(ctx context.Context, key string) (payload []byte, storageKey string, ok bool, err error) {
	if !c.enabled {
		return nil, "", false, nil
	}
	k := c.entities.key(key)
	deps, payload, ok, err := c.entities.get(ctx, k)
	if err != nil {
		if errors.Is(err, wire.ErrCorrupt) {
			c.selfHeal(ctx, k, "corrupt")
			return nil, k, false, nil
		}
		return nil, k, false, c.storeFailed(err)
	}
	if !ok {
		return nil, k, false, nil
	}

	if len(deps) > 0 {
		names := make([]string, len(deps))
		for i, d := range deps {
			names[i] = d.Tag
		}
		current, err := c.tags.readMany(ctx, names)
		if err != nil {
			return nil, k, false, err
		}
		for _, d := range deps {
			if current[d.Tag] != d.Version {
				c.hooks.EntryStale(k, d.Tag)
				c.log.Debug("stale entry", Fields{"key": key, "tag": d.Tag, "snapshot": d.Version, "current": current[d.Tag]})
				return nil, k, false, nil
			}
		}
	}
	return payload, k, true, nil
}

func (c *cache[V]) Delete(ctx context.Context, key string) error {
	if !c.enabled {
		return nil
	}
	if err := c.entities.del(ctx, c.entities.key(key)); err != nil {
		return c.storeFailed(err)
	}
	return nil
}

func (c *cache[V]) Fetch(ctx context.Context, key string, depends []string, onMiss MissFunc[V]) (V, error) {
	var zero V
	v, ok, err := c.Read(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}
	v, err = onMiss(ctx)
	if err != nil {
		return zero, err
	}
	if err := c.Write(ctx, key, v, depends...); err != nil {
		return zero, err
	}
	return v, nil
}

func (c *cache[V]) TaggedFetch(ctx context.Context, key string, onMiss TaggedMissFunc[V]) (V, error) {
	var zero V
	v, ok, err := c.Read(ctx, key)
	if err != nil {
		return zero, err
	}
	if ok {
		return v, nil
	}
	e := newEntry()
	v, err = onMiss(ctx, e)
	if err != nil {
		return zero, err
	}
	if err := c.Write(ctx, key, v, e.Depends()...); err != nil {
		return zero, err
	}
	return v, nil
}

// Clear only reaches the entity provider; tag versions survive.
func (c *cache[V]) Clear(ctx context.Context) error {
	if !c.enabled {
		return nil
	}
	if err := c.entities.clear(ctx); err != nil {
		return c.storeFailed(err)
	}
	c.log.Info("entities cleared", Fields{"namespace": c.entities.ns})
	return nil
}

func (c *cache[V]) selfHeal(ctx context.Context, storageKey, reason string) {
	_ = c.entities.del(ctx, storageKey)
	c.hooks.EntrySelfHeal(storageKey, reason)
	c.log.Debug("dropped unreadable entry", Fields{"key": storageKey, "reason": reason})
}

func (c *cache[V]) storeFailed(err error) error {
	var se *StoreError
	if errors.As(err, &se) {
		c.hooks.StoreError(se.Op, se.Err)
		c.log.Warn("entity store error", Fields{"op": se.Op, "key": se.Key, "err": se.Err})
	}
	return err
}
