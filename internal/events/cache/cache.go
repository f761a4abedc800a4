// Package cache keeps recently read events in Redis, keyed by slug.
//
// The cache is advisory: every failure is logged and reported as a miss, so
// the store stays the source of truth. Invalidate leaves a short-lived
// tombstone and Set only writes absent keys, so a read that raced a write
// cannot put the old version back.
package cache

import (
	"context"
	"encoding/json"
	"errors"
	"time"

	"eventbook/pkg/logger"
	"eventbook/pkg/model"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "eventbook:event:slug:"

	tombstone    = "-"
	TombstoneTTL = 30 * time.Second
)

type EventCache interface {
	Get(ctx context.Context, slug string) (*model.Event, bool)
	Set(ctx context.Context, event *model.Event)
	Invalidate(ctx context.Context, slugs ...string)
}

type redisEventCache struct {
	client redis.Cmdable
	ttl    time.Duration
	log    *logger.Logger
}

func NewRedisEventCache(client redis.Cmdable, ttl time.Duration, log *logger.Logger) EventCache {
	return &redisEventCache{
		client: client,
		ttl:    ttl,
		log:    log,
	}
}

func Key(slug string) string {
	return keyPrefix + slug
}

func (c *redisEventCache) Get(ctx context.Context, slug string) (*model.Event, bool) {
	raw, err := c.client.Get(ctx, Key(slug)).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			c.log.Warn("Event cache read failed", "slug", slug, "error", err)
		}
		return nil, false
	}
	if string(raw) == tombstone {
		return nil, false
	}

	var event model.Event
	if err := json.Unmarshal(raw, &event); err != nil {
		c.log.Warn("Dropping undecodable event cache entry", "slug", slug, "error", err)
		if err := c.client.Del(ctx, Key(slug)).Err(); err != nil {
			c.log.Warn("Event cache delete failed", "slug", slug, "error", err)
		}
		return nil, false
	}
	return &event, true
}

func (c *redisEventCache) Set(ctx context.Context, event *model.Event) {
	if event == nil || event.Slug == "" {
		return
	}
	raw, err := json.Marshal(event)
	if err != nil {
		c.log.Warn("Failed to encode event for cache", "slug", event.Slug, "error", err)
		return
	}
	if err := c.client.SetNX(ctx, Key(event.Slug), raw, c.ttl).Err(); err != nil {
		c.log.Warn("Event cache write failed", "slug", event.Slug, "error", err)
	}
}

func (c *redisEventCache) Invalidate(ctx context.Context, slugs ...string) {
	for _, slug := range slugs {
		if slug == "" {
			continue
		}
		if err := c.client.Set(ctx, Key(slug), tombstone, TombstoneTTL).Err(); err != nil {
			c.log.Warn("Event cache invalidation failed", "slug", slug, "error", err)
		}
	}
}

type noopEventCache struct{}

// NewNoopEventCache is used when Redis is not configured.
func NewNoopEventCache() EventCache {
	return noopEventCache{}
}

func (noopEventCache) Get(context.Context, string) (*model.Event, bool) { return nil, false }
func (noopEventCache) Set(context.Context, *model.Event)                {}
func (noopEventCache) Invalidate(context.Context, ...string)            {}
