package repository

import (
	"context"

	"searchpattern-service/internal/domain/entity"
)

// AggregationCache stores aggregation results keyed by the content hash of
// the product file they were computed from.
type AggregationCache interface {
	Get(ctx context.Context, hash string) (*entity.AggregationResult, bool, error)
	Set(ctx context.Context, hash string, result *entity.AggregationResult) error
}
