package repository

import (
	"context"
	"fmt"

	lru "github.com/hashicorp/golang-lru/v2"

	"searchpattern-service/internal/domain/entity"
	"searchpattern-service/internal/domain/repository"
)

// MemoryAggregationCache keeps the most recently used aggregations in process
type MemoryAggregationCache struct {
	entries *lru.Cache[string, *entity.AggregationResult]
}

// NewMemoryAggregationCache creates a cache holding up to size aggregations
func NewMemoryAggregationCache(size int) (repository.AggregationCache, error) {
	entries, err := lru.New[string, *entity.AggregationResult](size)
	if err != nil {
		return nil, fmt.Errorf("failed to create aggregation cache: %w", err)
	}
	return &MemoryAggregationCache{entries: entries}, nil
}

// Get returns the aggregation stored under hash
func (c *MemoryAggregationCache) Get(ctx context.Context, hash string) (*entity.AggregationResult, bool, error) {
	result, ok := c.entries.Get(hash)
	return result, ok, nil
}

// Set stores an aggregation under hash
func (c *MemoryAggregationCache) Set(ctx context.Context, hash string, result *entity.AggregationResult) error {
	c.entries.Add(hash, result)
	return nil
}
