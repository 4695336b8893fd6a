package cache

import (
	"context"
	"crypto/sha256"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"sync"
	"time"

	"github.com/elliekim312/youtube-dashboard/domain/model"
	"github.com/elliekim312/youtube-dashboard/infrastructure/logger"

	"github.com/google/go-querystring/query"
	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix = "yt-search:"

	defaultMaxEntries = 512
)

type entry struct {
	data      []byte
	expiresAt time.Time
}

// SearchCache caches complete search results in memory (L1) and, when a
// redis client is given, in redis (L2). L1 is lost on restart.
type SearchCache struct {
	mu         sync.Mutex
	l1         map[string]entry
	maxEntries int
	rdb        *redis.Client
	now        func() time.Time
}

// NewSearchCache creates a search cache. rdb may be nil to run memory-only.
func NewSearchCache(rdb *redis.Client) *SearchCache {
	return &SearchCache{
		l1:         make(map[string]entry),
		maxEntries: defaultMaxEntries,
		rdb:        rdb,
		now:        time.Now,
	}
}

// CacheKey builds a deterministic key from every field of the query.
// Keywords differing only in case or surrounding spaces share a key.
func CacheKey(q model.SearchQuery) (string, error) {
	q.Keyword = strings.ToLower(strings.TrimSpace(q.Keyword))
	values, err := query.Values(q)
	if err != nil {
		return "", fmt.Errorf("encode cache key: %w", err)
	}
	hash := sha256.Sum256([]byte(values.Encode()))
	return fmt.Sprintf("%s%x", keyPrefix, hash[:12]), nil
}

func (c *SearchCache) Get(ctx context.Context, q model.SearchQuery) ([]model.VideoRecord, bool, error) {
	key, err := CacheKey(q)
	if err != nil {
		return nil, false, err
	}

	if data, ok := c.loadL1(key); ok {
		var videos []model.VideoRecord
		if err := json.Unmarshal(data, &videos); err == nil {
			logger.GetLogger().WithField("key", key).Debug("search cache L1 hit")
			return videos, true, nil
		}
		c.deleteL1(key)
	}

	if c.rdb == nil {
		return nil, false, nil
	}

	data, err := c.rdb.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get %s: %w", key, err)
	}

	var videos []model.VideoRecord
	if err := json.Unmarshal(data, &videos); err != nil {
		return nil, false, fmt.Errorf("decode cached search %s: %w", key, err)
	}

	// L1 gets the remaining redis TTL when it is known.
	ttl, err := c.rdb.TTL(ctx, key).Result()
	if err == nil && ttl > 0 {
		c.storeL1(key, data, ttl)
	}
	logger.GetLogger().WithField("key", key).Debug("search cache L2 hit")
	return videos, true, nil
}

func (c *SearchCache) Set(ctx context.Context, q model.SearchQuery, videos []model.VideoRecord, ttl time.Duration) error {
	if ttl <= 0 {
		return nil
	}
	key, err := CacheKey(q)
	if err != nil {
		return err
	}
	if videos == nil {
		videos = []model.VideoRecord{}
	}
	data, err := json.Marshal(videos)
	if err != nil {
		return fmt.Errorf("encode search result: %w", err)
	}

	c.storeL1(key, data, ttl)

	if c.rdb == nil {
		return nil
	}
	if err := c.rdb.Set(ctx, key, data, ttl).Err(); err != nil {
		return fmt.Errorf("redis set %s: %w", key, err)
	}
	return nil
}

func (c *SearchCache) loadL1(key string) ([]byte, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()

	e, ok := c.l1[key]
	if !ok {
		return nil, false
	}
	if !c.now().Before(e.expiresAt) {
		delete(c.l1, key)
		return nil, false
	}
	return e.data, true
}

func (c *SearchCache) storeL1(key string, data []byte, ttl time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()

	now := c.now()
	if _, exists := c.l1[key]; !exists && len(c.l1) >= c.maxEntries {
		for k, e := range c.l1 {
			if !now.Before(e.expiresAt) {
				delete(c.l1, k)
			}
		}
		if len(c.l1) >= c.maxEntries {
			// still full: evict one arbitrary entry
			for k := range c.l1 {
				delete(c.l1, k)
				break
			}
		}
	}
	c.l1[key] = entry{data: data, expiresAt: now.Add(ttl)}
}

func (c *SearchCache) deleteL1(key string) {
	c.mu.Lock()
	delete(c.l1, key)
	c.mu.Unlock()
}
