package cache

import (
	"context"
	"encoding/json"
	"strconv"
	"strings"
	"time"

	"github.com/redis/go-redis/v9"

	dom "github.com/faithingod1/parish-record/internal/domain"
)

const (
	keyCount  = "confirmation:count"
	keySearch = "confirmation:search:"
)

// ConfirmationCache caches search results and the record count in Redis.
// Every write to the record store invalidates all of it.
type ConfirmationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewConfirmationCache returns a new ConfirmationCache.
func NewConfirmationCache(rdb *redis.Client, ttl time.Duration) *ConfirmationCache {
	return &ConfirmationCache{rdb: rdb, ttl: ttl}
}

// GetSearch returns the cached result for query q, or nil on miss.
func (c *ConfirmationCache) GetSearch(ctx context.Context, q string) ([]dom.Confirmation, error) {
	b, err := c.rdb.Get(ctx, keySearch+normalizeQuery(q)).Bytes()
	if err == redis.Nil {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	var list []dom.Confirmation
	if err := json.Unmarshal(b, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// SetSearch stores the search result for query q.
func (c *ConfirmationCache) SetSearch(ctx context.Context, q string, list []dom.Confirmation) error {
	b, err := json.Marshal(list)
	if err != nil {
		return err
	}
	return c.rdb.Set(ctx, keySearch+normalizeQuery(q), b, c.ttl).Err()
}

// GetCount returns the cached record count. ok is false on miss.
func (c *ConfirmationCache) GetCount(ctx context.Context) (n int64, ok bool, err error) {
	s, err := c.rdb.Get(ctx, keyCount).Result()
	if err == redis.Nil {
		return 0, false, nil
	}
	if err != nil {
		return 0, false, err
	}
	n, err = strconv.ParseInt(s, 10, 64)
	if err != nil {
		return 0, false, err
	}
	return n, true, nil
}

// SetCount stores the record count.
func (c *ConfirmationCache) SetCount(ctx context.Context, n int64) error {
	return c.rdb.Set(ctx, keyCount, strconv.FormatInt(n, 10), c.ttl).Err()
}

// InvalidateAll removes the count key and every search key.
func (c *ConfirmationCache) InvalidateAll(ctx context.Context) error {
	if err := c.rdb.Del(ctx, keyCount).Err(); err != nil {
		return err
	}
	iter := c.rdb.Scan(ctx, 0, keySearch+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := c.rdb.Del(ctx, iter.Val()).Err(); err != nil {
			return err
		}
	}
	return iter.Err()
}

func normalizeQuery(q string) string {
	return strings.TrimSpace(strings.ToLower(q))
}
