package ristretto

import (
	"context"
	"errors"
	"time"

	rc "github.com/dgraph-io/ristretto"

	pr "github.com/unkn0wn-root/tagcache/provider"
)

// Provider keeps bytes in a ristretto cache. Ristretto cannot enumerate its
// keys, so Clear drops the whole instance: use one Provider per namespace.
type Provider struct {
	c *rc.Cache
}

var (
	_ pr.Provider      = (*Provider)(nil)
	_ pr.PrefixIgnorer = (*Provider)(nil)
	_ pr.Evicting      = (*Provider)(nil)
)

// ErrInvalidConfig is returned by New when counters or cost are not positive.
var ErrInvalidConfig = errors.New("ristretto: NumCounters and MaxCost must be positive")

// Config sizes the cache. Per-entry cost comes from Options.ComputeSetCost.
type Config struct {
	NumCounters int64
	MaxCost     int64
	BufferItems int64 // defaults to 64
	Metrics     bool
}

func New(cfg Config) (*Provider, error) {
	if cfg.NumCounters <= 0 || cfg.MaxCost <= 0 {
		return nil, ErrInvalidConfig
	}
	if cfg.BufferItems <= 0 {
		cfg.BufferItems = 64
	}
	c, err := rc.NewCache(&rc.Config{
		NumCounters: cfg.NumCounters,
		MaxCost:     cfg.MaxCost,
		BufferItems: cfg.BufferItems,
		Metrics:     cfg.Metrics,
	})
	if err != nil {
		return nil, err
	}
	return &Provider{c: c}, nil
}

func (p *Provider) Get(_ context.Context, key string) ([]byte, bool, error) {
	v, ok := p.c.Get(key)
	if !ok {
		return nil, false, nil
	}
	b, ok := v.([]byte)
	if !ok {
		p.c.Del(key)
		return nil, false, nil
	}
	return b, true, nil
}

// Set is buffered by ristretto; the value becomes visible once admitted.
// Call Wait to block until pending writes are applied.
func (p *Provider) Set(_ context.Context, key string, value []byte, cost int64, ttl time.Duration) (bool, error) {
	if ttl < 0 {
		ttl = 0
	}
	return p.c.SetWithTTL(key, value, cost, ttl), nil
}

func (p *Provider) Del(_ context.Context, key string) error {
	p.c.Del(key)
	return nil
}

// Clear ignores prefix and empties the cache.
func (p *Provider) Clear(_ context.Context, _ string) error {
	p.c.Clear()
	return nil
}

func (p *Provider) ClearIgnoresPrefix() bool { return true }

// Evicts reports true: ristretto drops entries once MaxCost is reached.
func (p *Provider) Evicts() bool { return true }

// Wait blocks until buffered Sets are applied.
func (p *Provider) Wait() { p.c.Wait() }

func (p *Provider) Close(_ context.Context) error {
	p.c.Wait()
	p.c.Close()
	return nil
}

// Metrics returns ristretto's counters, or nil unless Config.Metrics was set.
func (p *Provider) Metrics() *rc.Metrics { return p.c.Metrics }
