package redis

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	goredis "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

const scanBatch = 100

// ViewCache is a generic JSON-backed Redis cache for read model projections.
// Bind it to a specific view type T; each instance holds a Redis client and an
// optional TTL (pass 0 for keys that should not expire).
type ViewCache[T any] struct {
	client *goredis.Client
	ttl    time.Duration
	logger *zap.Logger
}

// NewViewCache creates a ViewCache backed by the provided Redis client.
func NewViewCache[T any](client *goredis.Client, ttl time.Duration, logger *zap.Logger) *ViewCache[T] {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ViewCache[T]{client: client, ttl: ttl, logger: logger}
}

// Get retrieves and unmarshals a value from Redis.
// Returns (nil, false) on any miss or deserialisation error.
func (c *ViewCache[T]) Get(ctx context.Context, key string) (*T, bool) {
	data, err := c.client.Get(ctx, key).Result()
	if err != nil {
		return nil, false
	}
	var v T
	if err := json.Unmarshal([]byte(data), &v); err != nil {
		return nil, false
	}
	return &v, true
}

// Set marshals value and stores it in Redis under key.
// Write errors are logged, not returned.
func (c *ViewCache[T]) Set(ctx context.Context, key string, value *T) {
	data, err := json.Marshal(value)
	if err != nil {
		c.logger.Warn("view cache marshal failed", zap.String("key", key), zap.Error(err))
		return
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		c.logger.Warn("view cache write failed", zap.String("key", key), zap.Error(err))
	}
}

// SetMany writes all values in a single pipeline. keyFn derives each key.
func (c *ViewCache[T]) SetMany(ctx context.Context, values []T, keyFn func(*T) string) {
	if len(values) == 0 {
		return
	}
	pipe := c.client.Pipeline()
	for i := range values {
		data, err := json.Marshal(&values[i])
		if err != nil {
			c.logger.Warn("view cache marshal failed", zap.Error(err))
			continue
		}
		pipe.Set(ctx, keyFn(&values[i]), data, c.ttl)
	}
	if _, err := pipe.Exec(ctx); err != nil {
		c.logger.Warn("view cache pipeline write failed", zap.Int("count", len(values)), zap.Error(err))
	}
}

// DeletePrefix removes every key starting with prefix and reports how many
// keys were deleted.
func (c *ViewCache[T]) DeletePrefix(ctx context.Context, prefix string) (int, error) {
	var (
		cursor  uint64
		deleted int
	)
	for {
		keys, next, err := c.client.Scan(ctx, cursor, prefix+"*", scanBatch).Result()
		if err != nil {
			return deleted, fmt.Errorf("failed to scan %s*: %w", prefix, err)
		}
		if len(keys) > 0 {
			n, err := c.client.Del(ctx, keys...).Result()
			if err != nil {
				return deleted, fmt.Errorf("failed to delete %s*: %w", prefix, err)
			}
			deleted += int(n)
		}
		cursor = next
		if cursor == 0 {
			return deleted, nil
		}
	}
}
