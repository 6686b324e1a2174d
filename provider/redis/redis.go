package redis

import (
	"context"
	"errors"
	"time"

	goredis "github.com/redis/go-redis/v9"

	"github.com/unkn0wn-root/tagcache/internal/util"
	pr "github.com/unkn0wn-root/tagcache/provider"
)

var ErrNilClient = errors.New("redis provider: nil client")

const defaultScanCount = 512

type Redis struct {
	rdb         goredis.UniversalClient
	closeClient bool
	scanCount   int64
}

var _ pr.Provider = (*Redis)(nil)

type Config struct {
	Client      goredis.UniversalClient
	CloseClient bool // set true only if this provider exclusively owns the client
	ScanCount   int64 // SCAN COUNT hint used by Clear; 0 => 512
}

func New(cfg Config) (*Redis, error) {
	if cfg.Client == nil {
		return nil, ErrNilClient
	}
	sc := cfg.ScanCount
	if sc <= 0 {
		sc = defaultScanCount
	}
	return &Redis{rdb: cfg.Client, closeClient: cfg.CloseClient, scanCount: sc}, nil
}

func (p *Redis) Get(ctx context.Context, key string) ([]byte, bool, error) {
	b, err := p.rdb.Get(ctx, key).Bytes()
	if err == goredis.Nil {
		return nil, false, nil // miss
	}
	if err != nil {
		return nil, false, err // transport/server error
	}
	return b, true, nil
}

func (p *Redis) Set(ctx context.Context, key string, value []byte, _ int64, ttl time.Duration) (bool, error) {
	if ttl <= 0 {
		ttl = 0 // treat non-positive TTLs as "no expiry" per provider contract
	}

	err := p.rdb.Set(ctx, key, value, ttl).Err()
	if err != nil {
		return false, err
	}
	return true, nil
}

func (p *Redis) Del(ctx context.Context, key string) error {
	return p.rdb.Del(ctx, key).Err()
}

// Clear unlinks every key under prefix. On a cluster client each master is
// scanned, since SCAN only walks the node it is sent to.
func (p *Redis) Clear(ctx context.Context, prefix string) error {
	if prefix == "" {
		return errors.New("redis provider: refusing to clear without a prefix")
	}
	match := util.EscapeGlob(prefix) + "*"
	if cc, ok := p.rdb.(*goredis.ClusterClient); ok {
		return cc.ForEachMaster(ctx, func(ctx context.Context, c *goredis.Client) error {
			return clearMatch(ctx, c, match, p.scanCount)
		})
	}
	return clearMatch(ctx, p.rdb, match, p.scanCount)
}

// clearMatch collects every key matching match before unlinking any, since
// deleting mid-iteration can make some SCAN implementations skip keys.
func clearMatch(ctx context.Context, c goredis.Cmdable, match string, count int64) error {
	var (
		keys   []string
		cursor uint64
	)
	for {
		page, next, err := c.Scan(ctx, cursor, match, count).Result()
		if err != nil {
			return err
		}
		keys = append(keys, page...)
		if next == 0 {
			break
		}
		cursor = next
	}

	for len(keys) > 0 {
		n := min(len(keys), int(count))
		batch := keys[:n]
		keys = keys[n:]
		// one key per UNLINK: a multi-key UNLINK is rejected across cluster slots
		_, err := c.Pipelined(ctx, func(pl goredis.Pipeliner) error {
			for _, k := range batch {
				pl.Unlink(ctx, k)
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}

// Close releases the underlying redis client only when this provider owns it.
// Safe to call multiple times; repeated calls become no-ops.
func (p *Redis) Close(context.Context) error {
	if p.closeClient {
		if err := p.rdb.Close(); err != nil && !errors.Is(err, goredis.ErrClosed) {
			return err
		}
	}
	return nil
}
