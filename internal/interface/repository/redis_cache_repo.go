package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
)

const aggregationKeyPrefix = "searchpattern:aggregation:"

// RedisAggregationCache shares aggregations between service instances.
// Values are JSON encoded and expire after ttl.
type RedisAggregationCache struct {
	rdb *redis.Client
	ttl time.Duration
}

// NewRedisAggregationCache creates a new Redis backed aggregation cache
func NewRedisAggregationCache(rdb *redis.Client, ttl time.Duration) repository.AggregationCache {
	return &RedisAggregationCache{
		rdb: rdb,
		ttl: ttl,
	}
}

// Get returns the aggregation stored under hash
func (c *RedisAggregationCache) Get(ctx context.Context, hash string) (*entity.AggregationResult, bool, error) {
	data, err := c.rdb.Get(ctx, aggregationKey(hash)).Bytes()
	if errors.Is(err, redis.Nil) {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("redis get: %w", err)
	}

	var result entity.AggregationResult
	if err := json.Unmarshal(data, &result); err != nil {
		return nil, false, fmt.Errorf("decode cached aggregation: %w", err)
	}
	return &result, true, nil
}

// Set stores an aggregation under hash
func (c *RedisAggregationCache) Set(ctx context.Context, hash string, result *entity.AggregationResult) error {
	data, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("encode aggregation: %w", err)
	}
	if err := c.rdb.Set(ctx, aggregationKey(hash), data, c.ttl).Err(); err != nil {
		return fmt.Errorf("redis set: %w", err)
	}
	return nil
}

func aggregationKey(hash string) string {
	return aggregationKeyPrefix + hash
}
