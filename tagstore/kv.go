package tagstore

import (
	"context"
	"errors"
	"fmt"
	"strconv"

	pr "github.com/unkn0wn-root/tagcache/provider"
)

// ErrEvictingProvider is returned by NewKV for providers that drop keys on
// their own (ristretto, bigcache).
var ErrEvictingProvider = errors.New("tagstore: provider may evict tag versions")

// KV stores versions as decimal strings in a generic byte provider.
// Add and touch are read-modify-write: concurrent writers race and the last
// one wins, which the bump rule tolerates.
//
// The provider must keep every version until it is overwritten. A lost
// version is re-created at the current time, which may equal the snapshot of
// an entry that an earlier touch invalidated, making that entry valid again.
// NewKV therefore refuses providers reporting Evicts() == true. A Redis
// provider qualifies only while its maxmemory-policy never evicts keys
// without a TTL (noeviction or volatile-*).
//
// The provider must give read-your-writes; buffered providers exposing
// Wait() are flushed after every write.
type KV struct {
	p pr.Provider
}

var _ Store = (*KV)(nil)

func NewKV(p pr.Provider) (*KV, error) {
	if ev, ok := p.(pr.Evicting); ok && ev.Evicts() {
		return nil, ErrEvictingProvider
	}
	return &KV{p: p}, nil
}

// Provider returns the underlying byte store.
func (s *KV) Provider() pr.Provider { return s.p }

func (s *KV) Get(ctx context.Context, k string) (int64, bool, error) {
	b, ok, err := s.p.Get(ctx, k)
	if err != nil || !ok {
		return 0, false, err
	}
	v, err := parseVersion(b)
	if err != nil {
		return 0, false, fmt.Errorf("%w at %s: %v", ErrBadVersion, k, err)
	}
	return v, true, nil
}

func (s *KV) GetMany(ctx context.Context, ks []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ks))
	for _, k := range ks {
		v, ok, err := s.Get(ctx, k)
		if err != nil {
			return nil, err
		}
		if ok {
			out[k] = v
		}
	}
	return out, nil
}

func (s *KV) Add(ctx context.Context, k string, v int64) (bool, error) {
	_, ok, err := s.Get(ctx, k)
	if err != nil {
		return false, err
	}
	if ok {
		return false, nil
	}
	if err := s.Set(ctx, k, v); err != nil {
		return false, err
	}
	return true, nil
}

func (s *KV) Set(ctx context.Context, k string, v int64) error {
	ok, err := s.p.Set(ctx, k, formatVersion(v), 1, 0)
	if err != nil {
		return err
	}
	if !ok {
		return fmt.Errorf("tagstore: provider rejected version write for %s", k)
	}
	// buffered providers must apply the write before the next Get
	if w, ok := s.p.(waiter); ok {
		w.Wait()
	}
	return nil
}

type waiter interface{ Wait() }

func (s *KV) Close(ctx context.Context) error { return s.p.Close(ctx) }

func formatVersion(v int64) []byte { return strconv.AppendInt(nil, v, 10) }

func parseVersion(b []byte) (int64, error) {
	v, err := strconv.ParseInt(string(b), 10, 64)
	if err != nil {
		return 0, err
	}
	if v < 0 {
		return 0, fmt.Errorf("negative version %d", v)
	}
	return v, nil
}
