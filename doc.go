// Package tagcache implements tag-based invalidation in front of two key/value
// stores: one holding tag version counters, the other holding cached entities.
// Touching a tag bumps one counter and makes every entity that depends on it a
// miss on its next read, without enumerating those entities.
//
// Components:
//   - tagstore.Store: tag name -> version. KV (any non-evicting Provider),
//     Redis (shared, atomic touch via Lua) or Local (in-process).
//   - Provider: byte store with TTL for entities (Redis, Ristretto, BigCache).
//   - Codec[V]: (de)serializes V <-> []byte.
//
// Keys:
//
//	tag:<tagNamespace>:<name>      - tag versions
//	entity:<entityNamespace>:<key> - entity envelopes (snapshot + value)
//
// Versions:
//
//	first read  -> now (Unix seconds), stored if absent
//	touch       -> max(now, current+1)
//
// Pattern:
//
//	_ = cache.Write(ctx, "post:7", post, "post:7", "author:3")
//	_, _ = cache.TouchTag(ctx, tagcache.Tag("author:3")) // post:7 now misses
//
//	v, err := cache.TaggedFetch(ctx, "feed:3", func(ctx context.Context, e *tagcache.Entry) (Feed, error) {
//	    f, err := loadFeed(ctx, 3)
//	    e.Depend("author:3").Merge(f.PostTags())
//	    return f, err
//	})
package tagcache
