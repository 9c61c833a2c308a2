package cache

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"

	"github.com/felixgeelhaar/pulse/internal/activity/domain"
)

// DefaultTTL applies when the configured TTL is not positive.
const DefaultTTL = 10 * time.Minute

// setIfGeneration writes a summary only while the user's generation still
// matches the one the caller read before loading records.
//
// KEYS: gen, summary, index. ARGV: generation, payload, ttl ms, index ttl ms.
var setIfGeneration = redis.NewScript(`
local current = redis.call('GET', KEYS[1]) or '0'
if current ~= ARGV[1] then
	return 0
end
redis.call('SET', KEYS[2], ARGV[2], 'PX', ARGV[3])
redis.call('SADD', KEYS[3], KEYS[2])
redis.call('PEXPIRE', KEYS[3], ARGV[4])
return 1
`)

// RedisSummaryCache stores summaries as JSON strings. Every key written for a
// user is tracked in a set so InvalidateUser can drop them in one call.
type RedisSummaryCache struct {
	client redis.Cmdable
	ttl    time.Duration
}

// NewRedisSummaryCache creates a Redis-backed summary cache.
func NewRedisSummaryCache(client redis.Cmdable, ttl time.Duration) *RedisSummaryCache {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &RedisSummaryCache{client: client, ttl: ttl}
}

func (c *RedisSummaryCache) Generation(ctx context.Context, userID uuid.UUID) (int64, error) {
	gen, err := c.client.Get(ctx, genKey(userID)).Int64()
	if errors.Is(err, redis.Nil) {
		return 0, nil
	}
	if err != nil {
		return 0, fmt.Errorf("read summary generation: %w", err)
	}
	return gen, nil
}

func (c *RedisSummaryCache) GetWeekly(ctx context.Context, userID uuid.UUID, day time.Time) (*domain.WeeklySummary, bool, error) {
	var summary domain.WeeklySummary
	ok, err := c.get(ctx, weeklyKey(userID, day), &summary)
	if !ok || err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) SetWeekly(ctx context.Context, userID uuid.UUID, gen int64, day time.Time, summary *domain.WeeklySummary) error {
	return c.set(ctx, userID, gen, weeklyKey(userID, day), summary)
}

func (c *RedisSummaryCache) GetMonthly(ctx context.Context, userID uuid.UUID, year int, month time.Month) (*domain.MonthlySummary, bool, error) {
	var summary domain.MonthlySummary
	ok, err := c.get(ctx, monthlyKey(userID, year, month), &summary)
	if !ok || err != nil {
		return nil, false, err
	}
	return &summary, true, nil
}

func (c *RedisSummaryCache) SetMonthly(ctx context.Context, userID uuid.UUID, gen int64, year int, month time.Month, summary *domain.MonthlySummary) error {
	return c.set(ctx, userID, gen, monthlyKey(userID, year, month), summary)
}

func (c *RedisSummaryCache) InvalidateUser(ctx context.Context, userID uuid.UUID) error {
	if err := c.client.Incr(ctx, genKey(userID)).Err(); err != nil {
		return fmt.Errorf("advance summary generation: %w", err)
	}

	index := indexKey(userID)
	keys, err := c.client.SMembers(ctx, index).Result()
	if err != nil {
		return fmt.Errorf("read summary index: %w", err)
	}
	keys = append(keys, index)
	if err := c.client.Del(ctx, keys...).Err(); err != nil {
		return fmt.Errorf("delete summaries: %w", err)
	}
	return nil
}

func (c *RedisSummaryCache) get(ctx context.Context, key string, v any) (bool, error) {
	raw, err := c.client.Get(ctx, key).Bytes()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, fmt.Errorf("get %s: %w", key, err)
	}
	if err := json.Unmarshal(raw, v); err != nil {
		return false, fmt.Errorf("decode %s: %w", key, err)
	}
	return true, nil
}

func (c *RedisSummaryCache) set(ctx context.Context, userID uuid.UUID, gen int64, key string, v any) error {
	raw, err := json.Marshal(v)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}

	// the index outlives every summary it lists
	keys := []string{genKey(userID), key, indexKey(userID)}
	err = setIfGeneration.Run(ctx, c.client, keys,
		strconv.FormatInt(gen, 10), raw, c.ttl.Milliseconds(), (2 * c.ttl).Milliseconds(),
	).Err()
	if err != nil {
		return fmt.Errorf("set %s: %w", key, err)
	}
	return nil
}
