package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/redis/go-redis/v9"

	"github.com/lifearrow/platform/internal/videos"
)

const keyPrefix = "video:slug:"

// Cache is a read-through Redis cache for business-id lookups. Failures are
// logged and treated as misses so the store remains authoritative.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(redisAddr string, ttl time.Duration) *Cache {
	if ttl <= 0 {
		ttl = 5 * time.Minute
	}
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: redisAddr}),
		ttl: ttl,
	}
}

func (c *Cache) GetVideo(ctx context.Context, uniqueID string) (*videos.Video, bool) {
	data, err := c.rdb.Get(ctx, keyPrefix+uniqueID).Bytes()
	if err != nil {
		return nil, false
	}
	var v videos.Video
	if err := json.Unmarshal(data, &v); err != nil {
		log.Printf("cache: corrupt entry for %s: %v", uniqueID, err)
		c.rdb.Del(ctx, keyPrefix+uniqueID)
		return nil, false
	}
	return &v, true
}

func (c *Cache) SetVideo(ctx context.Context, v *videos.Video) {
	data, err := json.Marshal(v)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, keyPrefix+v.UniqueID, data, c.ttl).Err(); err != nil {
		log.Printf("cache: set %s failed: %v", v.UniqueID, err)
	}
}

func (c *Cache) Invalidate(ctx context.Context, uniqueID string) {
	if err := c.rdb.Del(ctx, keyPrefix+uniqueID).Err(); err != nil {
		log.Printf("cache: invalidate %s failed: %v", uniqueID, err)
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
