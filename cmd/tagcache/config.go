package main

import (
	"context"
	"fmt"

	"github.com/redis/go-redis/v9"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/unkn0wn-root/tagcache"
	"github.com/unkn0wn-root/tagcache/codec"
	tczap "github.com/unkn0wn-root/tagcache/log/zap"
	rp "github.com/unkn0wn-root/tagcache/provider/redis"
	"github.com/unkn0wn-root/tagcache/tagstore"
)

type config struct {
	redisAddr       string
	redisDB         int
	tagNamespace    string
	entityNamespace string
	verbose         bool
}

func (c *config) bindFlags(cmd *cobra.Command) {
	f := cmd.PersistentFlags()
	f.StringVar(&c.redisAddr, "redis", "localhost:6379", "Redis address")
	f.IntVar(&c.redisDB, "redis-db", 0, "Redis database")
	f.StringVar(&c.tagNamespace, "tag-namespace", "tags", "Namespace of tag versions")
	f.StringVar(&c.entityNamespace, "entity-namespace", "entities", "Namespace of cached entities")
	f.BoolVar(&c.verbose, "verbose", false, "Log cache internals to stderr")
}

// open connects to Redis and builds a string-valued cache over it. One client
// serves both stores; their keys never overlap.
func (c *config) open() (tagcache.Cache[string], error) {
	rdb := redis.NewClient(&redis.Options{Addr: c.redisAddr, DB: c.redisDB})

	entities, err := rp.New(rp.Config{Client: rdb, CloseClient: true})
	if err != nil {
		return nil, err
	}

	opts := tagcache.Options[string]{
		TagStore:        tagstore.NewRedis(rdb),
		EntityStore:     entities,
		Codec:           codec.String{},
		TagNamespace:    c.tagNamespace,
		EntityNamespace: c.entityNamespace,
	}
	if c.verbose {
		zl, err := zap.NewDevelopment()
		if err != nil {
			return nil, fmt.Errorf("logger: %w", err)
		}
		opts.Logger = tczap.ZapLogger{L: zl}
	}
	return tagcache.New(opts)
}

// withCache opens the cache, runs fn and closes it.
func (c *config) withCache(ctx context.Context, fn func(tagcache.Cache[string]) error) error {
	tc, err := c.open()
	if err != nil {
		return err
	}
	defer tc.Close(ctx)
	return fn(tc)
}
