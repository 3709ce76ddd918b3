// Copyright (c) 2026 Yomira. All rights reserved.
// Author: tai.buivan.jp@gmail.com

package content_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/taibuivan/sitecms/internal/core/content"
	"github.com/taibuivan/sitecms/pkg/pointer"
	"github.com/taibuivan/sitecms/pkg/uuid"
)

// # Fixtures

// redisStub answers GET, SET and DEL in memory through a go-redis process
// hook, so the client never dials.
type redisStub struct {
	mu      sync.Mutex
	values  map[string][]byte
	ttls    map[string]string
	failure error
}

func newRedisStub(t *testing.T) (*redisStub, *redis.Client) {
	t.Helper()

	stub := &redisStub{values: make(map[string][]byte), ttls: make(map[string]string)}
	client := redis.NewClient(&redis.Options{Addr: "127.0.0.1:0"})
	client.AddHook(stub)
	t.Cleanup(func() { _ = client.Close() })

	return stub, client
}

func (stub *redisStub) DialHook(next redis.DialHook) redis.DialHook { return next }

func (stub *redisStub) ProcessPipelineHook(next redis.ProcessPipelineHook) redis.ProcessPipelineHook {
	return next
}

func (stub *redisStub) ProcessHook(_ redis.ProcessHook) redis.ProcessHook {
	return func(_ context.Context, cmd redis.Cmder) error {
		stub.mu.Lock()
		defer stub.mu.Unlock()

		fail := func(err error) error {
			cmd.SetErr(err)
			return err
		}
		if stub.failure != nil {
			return fail(stub.failure)
		}

		args := cmd.Args()
		switch cmd.Name() {
		case "get":
			value, ok := stub.values[args[1].(string)]
			if !ok {
				return fail(redis.Nil)
			}
			cmd.(*redis.StringCmd).SetVal(string(value))
		case "set":
			key := args[1].(string)
			stub.values[key] = args[2].([]byte)
			if len(args) == 5 {
				stub.ttls[key] = fmt.Sprint(args[3], " ", args[4])
			}
			cmd.(*redis.StatusCmd).SetVal("OK")
		case "del":
			var removed int64
			for _, arg := range args[1:] {
				key := arg.(string)
				if _, ok := stub.values[key]; ok {
					delete(stub.values, key)
					removed++
				}
			}
			cmd.(*redis.IntCmd).SetVal(removed)
		default:
			return fail(fmt.Errorf("unexpected command %q", cmd.Name()))
		}
		return nil
	}
}

func (stub *redisStub) put(key string, raw []byte) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.values[key] = raw
}

func (stub *redisStub) has(key string) bool {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	_, ok := stub.values[key]
	return ok
}

func (stub *redisStub) fail(err error) {
	stub.mu.Lock()
	defer stub.mu.Unlock()
	stub.failure = err
}

func bufferLogger() (*slog.Logger, *bytes.Buffer) {
	buffer := &bytes.Buffer{}
	return slog.New(slog.NewJSONHandler(buffer, nil)), buffer
}

func cachedRecord() *content.Content {
	publishedAt := time.Date(2026, 5, 1, 8, 0, 0, 0, time.UTC)
	return &content.Content{
		ID:          uuid.New(),
		Title:       "Annual Report",
		Slug:        "annual-report",
		Excerpt:     pointer.To("Highlights of the year"),
		Body:        "<p>Revenue grew</p>",
		Status:      content.StatusPublished,
		Type:        content.TypePage,
		Locale:      content.LocaleZhCN,
		Tags:        []string{"finance"},
		Categories:  []string{},
		PublishedAt: &publishedAt,
		AuthorID:    "editor-1",
		Metadata:    map[string]any{"layout": "wide"},
		CreatedAt:   publishedAt,
		UpdatedAt:   publishedAt,
	}
}

const cacheKey = "cms:content:slug:zh-CN:page:annual-report"

// # Redis Slug Cache

func TestRedisSlugCache_SetThenGet(t *testing.T) {
	ctx := context.Background()
	stub, client := newRedisStub(t)
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, 5*time.Minute, logger)

	record := cachedRecord()
	cache.Set(ctx, cacheKey, record)
	assert.Equal(t, "ex 300", stub.ttls[cacheKey])

	cached, ok := cache.Get(ctx, cacheKey)
	require.True(t, ok)
	assert.Equal(t, record.ID, cached.ID)
	assert.Equal(t, record.Slug, cached.Slug)
	assert.Equal(t, record.Locale, cached.Locale)
	assert.Equal(t, *record.Excerpt, *cached.Excerpt)
	assert.Equal(t, record.Tags, cached.Tags)
	assert.Equal(t, "wide", cached.Metadata["layout"])
	assert.True(t, record.PublishedAt.Equal(*cached.PublishedAt))
	assert.Empty(t, logs.String())
}

func TestRedisSlugCache_MissIsSilent(t *testing.T) {
	_, client := newRedisStub(t)
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, time.Minute, logger)

	cached, ok := cache.Get(context.Background(), cacheKey)
	assert.False(t, ok)
	assert.Nil(t, cached)
	assert.Empty(t, logs.String())
}

func TestRedisSlugCache_UndecodableValueIsAMiss(t *testing.T) {
	stub, client := newRedisStub(t)
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, time.Minute, logger)

	stub.put(cacheKey, []byte("{not json"))

	cached, ok := cache.Get(context.Background(), cacheKey)
	assert.False(t, ok)
	assert.Nil(t, cached)
	assert.Contains(t, logs.String(), "content_cache_decode_failed")
}

func TestRedisSlugCache_Invalidate(t *testing.T) {
	ctx := context.Background()
	stub, client := newRedisStub(t)
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, time.Minute, logger)

	untyped := "cms:content:slug:zh-CN:*:annual-report"
	cache.Set(ctx, cacheKey, cachedRecord())
	cache.Set(ctx, untyped, cachedRecord())

	cache.Invalidate(ctx)
	assert.True(t, stub.has(cacheKey))

	cache.Invalidate(ctx, cacheKey, untyped)
	assert.False(t, stub.has(cacheKey))
	assert.False(t, stub.has(untyped))

	_, ok := cache.Get(ctx, cacheKey)
	assert.False(t, ok)
	assert.Empty(t, logs.String())
}

func TestRedisSlugCache_BackendFailuresDegrade(t *testing.T) {
	ctx := context.Background()
	stub, client := newRedisStub(t)
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, time.Minute, logger)

	stub.fail(errors.New("connection refused"))

	_, ok := cache.Get(ctx, cacheKey)
	assert.False(t, ok)
	cache.Set(ctx, cacheKey, cachedRecord())
	cache.Invalidate(ctx, cacheKey)

	output := logs.String()
	assert.Contains(t, output, "content_cache_read_failed")
	assert.Contains(t, output, "content_cache_write_failed")
	assert.Contains(t, output, "content_cache_invalidate_failed")
}

// TestRedisSlugCache_LiveServer runs against a real Redis when REDIS_URL is set.
func TestRedisSlugCache_LiveServer(t *testing.T) {
	redisURL := os.Getenv("REDIS_URL")
	if redisURL == "" {
		t.Skip("REDIS_URL not set")
	}

	options, err := redis.ParseURL(redisURL)
	require.NoError(t, err)
	client := redis.NewClient(options)
	t.Cleanup(func() { _ = client.Close() })

	ctx := context.Background()
	logger, logs := bufferLogger()
	cache := content.NewRedisSlugCache(client, time.Minute, logger)

	key := "cms:content:slug:test:" + uuid.New()
	t.Cleanup(func() { _ = client.Del(context.Background(), key).Err() })

	record := cachedRecord()
	cache.Set(ctx, key, record)

	cached, ok := cache.Get(ctx, key)
	require.True(t, ok)
	assert.Equal(t, record.ID, cached.ID)

	ttl, err := client.TTL(ctx, key).Result()
	require.NoError(t, err)
	assert.Greater(t, ttl, time.Duration(0))

	cache.Invalidate(ctx, key)
	_, ok = cache.Get(ctx, key)
	assert.False(t, ok)
	assert.Empty(t, logs.String())
}
