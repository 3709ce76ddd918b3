// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"sync"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/taibuivan/sitecms/internal/platform/constants"
)

// anyType stands in for an omitted type in cache keys.
const anyType = "*"

// SlugCache holds published records for public slug lookups.
//
// A cache is never authoritative. Failures degrade into misses and every
// write to a record invalidates its keys.
type SlugCache interface {
	Get(context context.Context, key string) (*Content, bool)
	Set(context context.Context, key string, content *Content)
	Invalidate(context context.Context, keys ...string)
}

// slugCacheKey addresses a public lookup: "cms:content:slug:<locale>:<type|*>:<slug>".
func slugCacheKey(lookup SlugLookup) string {
	contentType := string(lookup.Type)
	if contentType == "" {
		contentType = anyType
	}
	return constants.RedisPrefixContentSlug + string(lookup.Locale) + ":" + contentType + ":" + lookup.Slug
}

// cacheKeysFor lists every key under which content could have been cached.
func cacheKeysFor(content *Content) []string {
	typed := SlugLookup{Slug: content.Slug, Locale: content.Locale, Type: content.Type}
	untyped := SlugLookup{Slug: content.Slug, Locale: content.Locale}
	return []string{slugCacheKey(typed), slugCacheKey(untyped)}
}

// # Fill Tracking

// cacheFills tracks public lookups that read the store and are about to
// populate the cache. A write that lands between the read and the Set marks
// the fill stale, so a deleted or unpublished record is never written back.
//
// The guard covers writers in this process. Other instances sharing the
// cache are still bounded by the TTL.
type cacheFills struct {
	mu      sync.Mutex
	pending map[string]*cacheFill
}

type cacheFill struct {
	stale bool
}

// begin registers a fill for key before the store is read.
func (fills *cacheFills) begin(key string) *cacheFill {
	fills.mu.Lock()
	defer fills.mu.Unlock()

	if fills.pending == nil {
		fills.pending = make(map[string]*cacheFill)
	}
	fill := &cacheFill{}
	fills.pending[key] = fill
	return fill
}

// finish runs store unless a write marked the fill stale, then forgets it.
// store runs under the lock so no write can slip in after the check.
func (fills *cacheFills) finish(key string, fill *cacheFill, store func()) {
	fills.mu.Lock()
	defer fills.mu.Unlock()

	if fills.pending[key] == fill {
		delete(fills.pending, key)
	}
	if store != nil && !fill.stale {
		store()
	}
}

// markStale flags every in-flight fill for keys.
func (fills *cacheFills) markStale(keys ...string) {
	fills.mu.Lock()
	defer fills.mu.Unlock()

	for _, key := range keys {
		if fill, ok := fills.pending[key]; ok {
			fill.stale = true
		}
	}
}

// # Redis Implementation

// RedisSlugCache stores JSON encoded records in Redis with a fixed TTL.
type RedisSlugCache struct {
	client redis.UniversalClient
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisSlugCache wraps an existing client.
func NewRedisSlugCache(client redis.UniversalClient, ttl time.Duration, logger *slog.Logger) *RedisSlugCache {
	return &RedisSlugCache{client: client, ttl: ttl, logger: logger}
}

func (cache *RedisSlugCache) Get(context context.Context, key string) (*Content, bool) {
	raw, err := cache.client.Get(context, key).Bytes()
	if err != nil {
		if !errors.Is(err, redis.Nil) {
			cache.logger.WarnContext(context, "content_cache_read_failed", slog.String("key", key), slog.Any("error", err))
		}
		return nil, false
	}

	content := &Content{}
	if err := json.Unmarshal(raw, content); err != nil {
		cache.logger.WarnContext(context, "content_cache_decode_failed", slog.String("key", key), slog.Any("error", err))
		return nil, false
	}
	return content, true
}

func (cache *RedisSlugCache) Set(context context.Context, key string, content *Content) {
	raw, err := json.Marshal(content)
	if err != nil {
		return
	}
	if err := cache.client.Set(context, key, raw, cache.ttl).Err(); err != nil {
		cache.logger.WarnContext(context, "content_cache_write_failed", slog.String("key", key), slog.Any("error", err))
	}
}

func (cache *RedisSlugCache) Invalidate(context context.Context, keys ...string) {
	if len(keys) == 0 {
		return
	}
	if err := cache.client.Del(context, keys...).Err(); err != nil {
		cache.logger.WarnContext(context, "content_cache_invalidate_failed", slog.Any("keys", keys), slog.Any("error", err))
	}
}

// # No-op Implementation

type noopSlugCache struct{}

func (noopSlugCache) Get(context.Context, string) (*Content, bool) { return nil, false }
func (noopSlugCache) Set(context.Context, string, *Content)        {}
func (noopSlugCache) Invalidate(context.Context, ...string)        {}
