package places

import (
	"context"
	"encoding/json"
	"log/slog"
	"time"

	gocache "github.com/patrickmn/go-cache"
	"github.com/redis/go-redis/v9"
)

// Cache stores place lookups by normalized query.
// Implementations never fail the caller: a broken cache behaves as a miss.
type Cache interface {
	Get(ctx context.Context, key string) (Place, bool)
	Set(ctx context.Context, key string, p Place)
}

// MemoryCache keeps lookups in process memory.
type MemoryCache struct {
	c *gocache.Cache
}

// NewMemoryCache returns a MemoryCache whose entries expire after ttl.
func NewMemoryCache(ttl time.Duration) *MemoryCache {
	return &MemoryCache{c: gocache.New(ttl, 2*ttl)}
}

func (m *MemoryCache) Get(_ context.Context, key string) (Place, bool) {
	v, ok := m.c.Get(key)
	if !ok {
		return Place{}, false
	}
	return v.(Place), true
}

func (m *MemoryCache) Set(_ context.Context, key string, p Place) {
	m.c.SetDefault(key, p)
}

// RedisCache shares lookups between processes through Redis.
type RedisCache struct {
	rdb    *redis.Client
	ttl    time.Duration
	logger *slog.Logger
}

// NewRedisCache returns a RedisCache writing entries with the given ttl.
func NewRedisCache(rdb *redis.Client, ttl time.Duration, logger *slog.Logger) *RedisCache {
	if logger == nil {
		logger = slog.Default()
	}
	return &RedisCache{rdb: rdb, ttl: ttl, logger: logger}
}

func (r *RedisCache) Get(ctx context.Context, key string) (Place, bool) {
	raw, err := r.rdb.Get(ctx, key).Bytes()
	if err != nil {
		if err != redis.Nil {
			r.logger.Warn("place cache get failed", "key", key, "error", err)
		}
		return Place{}, false
	}
	var p Place
	if err := json.Unmarshal(raw, &p); err != nil {
		r.logger.Warn("place cache entry corrupt", "key", key, "error", err)
		return Place{}, false
	}
	return p, true
}

func (r *RedisCache) Set(ctx context.Context, key string, p Place) {
	raw, err := json.Marshal(p)
	if err != nil {
		return
	}
	if err := r.rdb.Set(ctx, key, raw, r.ttl).Err(); err != nil {
		r.logger.Warn("place cache set failed", "key", key, "error", err)
	}
}
