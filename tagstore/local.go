package tagstore

import (
	"context"
	"sync"
)

// Local keeps tag versions in-process. Versions are lost on restart, which
// turns every cached entry into a miss once tags are re-created.
type Local struct {
	mu   sync.RWMutex
	tags map[string]int64
}

var (
	_ Store   = (*Local)(nil)
	_ Toucher = (*Local)(nil)
)

func NewLocal() *Local {
	return &Local{tags: make(map[string]int64)}
}

func (s *Local) Get(_ context.Context, k string) (int64, bool, error) {
	s.mu.RLock()
	v, ok := s.tags[k]
	s.mu.RUnlock()
	return v, ok, nil
}

// GetMany acquires the read lock once and reads all requested keys.
func (s *Local) GetMany(_ context.Context, ks []string) (map[string]int64, error) {
	out := make(map[string]int64, len(ks))
	s.mu.RLock()
	for _, k := range ks {
		if v, ok := s.tags[k]; ok {
			out[k] = v
		}
	}
	s.mu.RUnlock()
	return out, nil
}

func (s *Local) Add(_ context.Context, k string, v int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.tags[k]; ok {
		return false, nil
	}
	s.tags[k] = v
	return true, nil
}

func (s *Local) Set(_ context.Context, k string, v int64) error {
	s.mu.Lock()
	s.tags[k] = v
	s.mu.Unlock()
	return nil
}

func (s *Local) Touch(_ context.Context, k string, now int64) (int64, error) {
	s.mu.Lock()
	cur, ok := s.tags[k]
	if !ok {
		cur = now
	}
	next := NextVersion(cur, now)
	s.tags[k] = next
	s.mu.Unlock()
	return next, nil
}

func (s *Local) Close(_ context.Context) error { return nil }
