// Copyright (c) 2026 Madalin Gabriel Ignisca <hi@madalin.me>
// Copyright (c) 2026 Vlah Software House SRL <contact@vlah.sh>
// All rights reserved. See LICENSE for details.

// list.go caches the encoded body of the post list endpoint in Valkey.
// Bodies are stored under the generation that was current when the store
// was read. Invalidate bumps the generation, so a body built from a
// snapshot taken before a mutation lands under a key nobody reads again.
package cache

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"time"

	"github.com/redis/go-redis/v9"
)

const (
	// listKeyPrefix prefixes the per-generation list response keys.
	listKeyPrefix = "cache:posts:list:"

	// generationKey counts list invalidations.
	generationKey = "cache:posts:gen"

	// DefaultListTTL is how long a cached list response stays valid.
	DefaultListTTL = 30 * time.Second
)

// ListCache stores the serialized post list.
type ListCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewListCache creates a list cache backed by the given Valkey client.
func NewListCache(client *redis.Client, ttl time.Duration) *ListCache {
	if ttl <= 0 {
		ttl = DefaultListTTL
	}
	return &ListCache{client: client, ttl: ttl}
}

func listKey(gen int64) string {
	return listKeyPrefix + strconv.FormatInt(gen, 10)
}

// generation returns the current generation; a missing counter is 0.
func (c *ListCache) generation(ctx context.Context) (int64, error) {
	gen, err := c.client.Get(ctx, generationKey).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	return gen, err
}

// Get returns the cached body of the current generation together with
// that generation, to be handed to Set on a miss. A negative generation
// means the cache is unavailable and Set will do nothing. Errors are
// logged and reported as a miss.
func (c *ListCache) Get(ctx context.Context) ([]byte, int64, bool) {
	gen, err := c.generation(ctx)
	if err != nil {
		slog.Warn("list cache generation error", "error", err)
		return nil, -1, false
	}

	val, err := c.client.Get(ctx, listKey(gen)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, gen, false
	}
	if err != nil {
		slog.Warn("list cache get error", "error", err)
		return nil, gen, false
	}
	slog.Debug("list cache hit", "generation", gen)
	return val, gen, true
}

// Set stores body under generation gen with the configured TTL. gen must
// come from a Get issued before the store was read.
func (c *ListCache) Set(ctx context.Context, gen int64, body []byte) {
	if gen < 0 {
		return
	}
	if err := c.client.Set(ctx, listKey(gen), body, c.ttl).Err(); err != nil {
		slog.Warn("list cache set error", "error", err)
	}
}

// Invalidate advances the generation, orphaning every stored body.
func (c *ListCache) Invalidate(ctx context.Context) {
	gen, err := c.client.Incr(ctx, generationKey).Result()
	if err != nil {
		slog.Warn("list cache invalidate error", "error", err)
		return
	}
	slog.Debug("list cache invalidated", "generation", gen)
}
