package cache

import (
	"context"
	"encoding/json"
	"log"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/slidescope/slidescope/internal/models"
)

// Cache keeps segment lists in Redis so repeated reads of a processed video
// skip the database. Failures are logged and treated as misses; the cache is
// never load-bearing.
type Cache struct {
	rdb *redis.Client
	ttl time.Duration
}

func New(addr string, ttl time.Duration) *Cache {
	return &Cache{
		rdb: redis.NewClient(&redis.Options{Addr: addr}),
		ttl: ttl,
	}
}

func segmentsKey(videoID uuid.UUID) string {
	return "segments:" + videoID.String()
}

func (c *Cache) GetSegments(ctx context.Context, videoID uuid.UUID) ([]*models.SlideSegment, bool) {
	data, err := c.rdb.Get(ctx, segmentsKey(videoID)).Bytes()
	if err == redis.Nil {
		return nil, false
	}
	if err != nil {
		log.Printf("cache: get segments for %s: %v", videoID, err)
		return nil, false
	}
	var segments []*models.SlideSegment
	if err := json.Unmarshal(data, &segments); err != nil {
		log.Printf("cache: corrupt entry for %s, dropping: %v", videoID, err)
		c.rdb.Del(ctx, segmentsKey(videoID))
		return nil, false
	}
	return segments, true
}

func (c *Cache) SetSegments(ctx context.Context, videoID uuid.UUID, segments []*models.SlideSegment) {
	data, err := json.Marshal(segments)
	if err != nil {
		return
	}
	if err := c.rdb.Set(ctx, segmentsKey(videoID), data, c.ttl).Err(); err != nil {
		log.Printf("cache: set segments for %s: %v", videoID, err)
	}
}

// InvalidateSegments drops the cached list for a video. Called whenever a
// video is reprocessed or deleted.
func (c *Cache) InvalidateSegments(ctx context.Context, videoID uuid.UUID) {
	if err := c.rdb.Del(ctx, segmentsKey(videoID)).Err(); err != nil {
		log.Printf("cache: invalidate segments for %s: %v", videoID, err)
	}
}

func (c *Cache) Close() error {
	return c.rdb.Close()
}
