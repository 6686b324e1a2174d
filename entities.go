package tagcache

import (
	"context"
	"time"

	"github.com/unkn0wn-root/tagcache/internal/util"
	"github.com/unkn0wn-root/tagcache/internal/wire"
	pr "github.com/unkn0wn-root/tagcache/provider"
)

// entityStore keeps entry envelopes under entity:<ns>: in a provider.
// It knows nothing about tags beyond carrying the snapshot.
type entityStore struct {
	p    pr.Provider
	ns   string
	ttl  time.Duration
	cost SetCostFunc
}

func (s *entityStore) key(k string) string { return util.Key("entity", s.ns, k) }

func (s *entityStore) prefix() string { return util.Prefix("entity", s.ns) }

// get returns ok=false on miss. A frame that fails to parse yields
// wire.ErrCorrupt so the caller can self-heal it.
func (s *entityStore) get(ctx context.Context, storageKey string) (deps []wire.Dep, payload []byte, ok bool, err error) {
	raw, ok, err := s.p.Get(ctx, storageKey)
	if err != nil {
		return nil, nil, false, storeErr("entity.get", storageKey, err)
	}
	if !ok {
		return nil, nil, false, nil
	}
	deps, payload, err = wire.DecodeEntry(raw)
	if err != nil {
		return nil, nil, false, err
	}
	return deps, payload, true, nil
}

// set reports accepted=false when the provider refused the write.
func (s *entityStore) set(ctx context.Context, storageKey string, deps []wire.Dep, payload []byte) (accepted bool, err error) {
	frame, err := wire.EncodeEntry(deps, payload)
	if err != nil {
		return false, err
	}
	ok, err := s.p.Set(ctx, storageKey, frame, s.cost(storageKey, frame), s.ttl)
	if err != nil {
		return false, storeErr("entity.set", storageKey, err)
	}
	return ok, nil
}

func (s *entityStore) del(ctx context.Context, storageKey string) error {
	return storeErr("entity.del", storageKey, s.p.Del(ctx, storageKey))
}

func (s *entityStore) clear(ctx context.Context) error {
	return storeErr("entity.clear", "", s.p.Clear(ctx, s.prefix()))
}
