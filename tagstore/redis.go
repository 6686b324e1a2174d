package tagstore

import (
	"context"
	"fmt"
	"strconv"

	"github.com/redis/go-redis/v9"
)

// touchScript applies the bump rule server-side so concurrent touches from
// many processes each observe a strictly larger version.
var touchScript = redis.NewScript(`
local now = tonumber(ARGV[1])
local cur = redis.call('GET', KEYS[1])
if cur then
  cur = tonumber(cur)
else
  cur = now
end
local nxt = cur + 1
if now > nxt then
  nxt = now
end
redis.call('SET', KEYS[1], string.format('%d', nxt))
return nxt
`)

// Redis shares tag versions across processes and survives restarts.
// Keys never expire: tag garbage collection is left to the operator. Run the
// server with a maxmemory-policy that spares keys without a TTL (noeviction
// or volatile-*); an evicted tag is re-created at an older version.
type Redis struct {
	rdb         redis.UniversalClient
	closeClient bool
}

var (
	_ Store   = (*Redis)(nil)
	_ Toucher = (*Redis)(nil)
)

// NewRedis creates a Redis-backed tag store. The client is not closed by
// Close unless NewRedisOwned is used.
func NewRedis(client redis.UniversalClient) *Redis {
	return &Redis{rdb: client}
}

// NewRedisOwned is like NewRedis but Close also closes the client.
func NewRedisOwned(client redis.UniversalClient) *Redis {
	return &Redis{rdb: client, closeClient: true}
}

func (s *Redis) Get(ctx context.Context, key string) (int64, bool, error) {
	res, err := s.rdb.Get(ctx, key).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	v, err := parseVersion([]byte(res))
	if err != nil {
		return 0, false, fmt.Errorf("%w at %s: %v", ErrBadVersion, key, err)
	}
	return v, true, nil
}

// GetMany reads all keys with one MGET. Cluster clients get one pipelined
// GET per key instead, since MGET fails with CROSSSLOT when tags hash to
// different slots.
func (s *Redis) GetMany(ctx context.Context, keys []string) (map[string]int64, error) {
	if len(keys) == 0 {
		return map[string]int64{}, nil
	}
	if cc, ok := s.rdb.(*redis.ClusterClient); ok {
		return getPipelined(ctx, cc, keys)
	}
	vals, err := s.rdb.MGet(ctx, keys...).Result()
	if err != nil {
		return nil, err
	}
	out := make(map[string]int64, len(keys))
	for i, v := range vals {
		var raw string
		switch vv := v.(type) {
		case nil:
			continue
		case string:
			raw = vv
		case []byte:
			raw = string(vv)
		default:
			raw = fmt.Sprint(vv)
		}
		n, err := parseVersion([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %v", ErrBadVersion, keys[i], err)
		}
		out[keys[i]] = n
	}
	return out, nil
}

func getPipelined(ctx context.Context, c redis.Cmdable, keys []string) (map[string]int64, error) {
	cmds := make([]*redis.StringCmd, len(keys))
	_, err := c.Pipelined(ctx, func(pl redis.Pipeliner) error {
		for i, k := range keys {
			cmds[i] = pl.Get(ctx, k)
		}
		return nil
	})
	if err != nil && err != redis.Nil {
		return nil, err
	}
	out := make(map[string]int64, len(keys))
	for i, cmd := range cmds {
		raw, err := cmd.Result()
		if err == redis.Nil {
			continue
		}
		if err != nil {
			return nil, err
		}
		n, err := parseVersion([]byte(raw))
		if err != nil {
			return nil, fmt.Errorf("%w at %s: %v", ErrBadVersion, keys[i], err)
		}
		out[keys[i]] = n
	}
	return out, nil
}

// Add uses SETNX so concurrent first observations agree on one version.
func (s *Redis) Add(ctx context.Context, key string, version int64) (bool, error) {
	return s.rdb.SetNX(ctx, key, version, 0).Result()
}

func (s *Redis) Set(ctx context.Context, key string, version int64) error {
	return s.rdb.Set(ctx, key, version, 0).Err()
}

// Touch runs the bump rule as one Lua script (EVALSHA, falling back to EVAL).
func (s *Redis) Touch(ctx context.Context, key string, now int64) (int64, error) {
	v, err := touchScript.Run(ctx, s.rdb, []string{key}, strconv.FormatInt(now, 10)).Int64()
	if err != nil {
		return 0, err
	}
	return v, nil
}

// Close closes the client only when the store owns it.
func (s *Redis) Close(context.Context) error {
	if s.closeClient {
		return s.rdb.Close()
	}
	return nil
}
