package utils

import (
	"context"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Cache is the best-effort response cache used by controllers and
// services. Every implementation must swallow backend failures: a failed
// read is a miss, a failed write or delete is logged and ignored. Absence
// of a key never means the underlying resource does not exist.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration)
	Delete(ctx context.Context, key string)
	DeleteByPrefix(ctx context.Context, prefix string)
}

// CacheKey builds the canonical cache key for a request: the path plus
// query parameters sorted by name and joined as k=v&k=v, so that
// ?page=0&size=10 and ?size=10&page=0 hit the same entry.
func CacheKey(path string, query url.Values) string {
	var b strings.Builder
	b.WriteString("cache:")
	b.WriteString(path)
	if len(query) == 0 {
		return b.String()
	}
	keys := make([]string, 0, len(query))
	for k := range query {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	sep := byte('?')
	for _, k := range keys {
		for _, v := range query[k] {
			b.WriteByte(sep)
			sep = '&'
			b.WriteString(k)
			b.WriteByte('=')
			b.WriteString(v)
		}
	}
	return b.String()
}

// RedisCache backs Cache with the shared Redis client.
type RedisCache struct{}

// NewRedisCache returns the Redis backed cache.
func NewRedisCache() *RedisCache {
	return &RedisCache{}
}

// Get returns cached bytes for a key. Errors count as misses.
func (rc *RedisCache) Get(ctx context.Context, key string) ([]byte, bool) {
	c := GetRedis()
	if c == nil {
		return nil, false
	}
	opCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	b, err := c.Get(opCtx, key).Bytes()
	if err != nil {
		if Sugar != nil {
			Sugar.Debugf("cache get miss key=%s err=%v", key, err)
		}
		return nil, false
	}
	return b, true
}

// Set stores bytes under key with the given TTL. Failures are logged and
// ignored so a cache outage never fails the surrounding request.
func (rc *RedisCache) Set(ctx context.Context, key string, value []byte, ttl time.Duration) {
	c := GetRedis()
	if c == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Set(opCtx, key, value, ttl).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache set failed key=%s err=%v", key, err)
		}
	}
}

// Delete removes a single cache entry.
func (rc *RedisCache) Delete(ctx context.Context, key string) {
	c := GetRedis()
	if c == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	if err := c.Del(opCtx, key).Err(); err != nil {
		if Sugar != nil {
			Sugar.Warnf("cache delete failed key=%s err=%v", key, err)
		}
	}
}

// DeleteByPrefix deletes keys matching the prefix using SCAN with
// pipelined deletes. Rounds are capped to keep invalidation bounded.
func (rc *RedisCache) DeleteByPrefix(ctx context.Context, prefix string) {
	c := GetRedis()
	if c == nil {
		return
	}
	opCtx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	var cursor uint64
	for i := 0; i < 10; i++ {
		keys, cur, err := c.Scan(opCtx, cursor, prefix+"*", 1000).Result()
		if err != nil {
			if Sugar != nil {
				Sugar.Warnf("cache scan failed prefix=%s err=%v", prefix, err)
			}
			break
		}
		cursor = cur
		if len(keys) > 0 {
			pipe := c.Pipeline()
			for _, k := range keys {
				pipe.Del(opCtx, k)
			}
			_, _ = pipe.Exec(opCtx)
		}
		if cursor == 0 {
			break
		}
	}
}

// NoopCache satisfies Cache while doing nothing; it stands in for Redis
// in tests and whenever caching is disabled.
type NoopCache struct{}

func (NoopCache) Get(context.Context, string) ([]byte, bool)         { return nil, false }
func (NoopCache) Set(context.Context, string, []byte, time.Duration) {}
func (NoopCache) Delete(context.Context, string)                     {}
func (NoopCache) DeleteByPrefix(context.Context, string)             {}
