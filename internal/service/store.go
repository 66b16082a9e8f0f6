package service

import (
	"context"

	"sales-dashboard/internal/feed"
	"sales-dashboard/internal/models"
)

// Feed supplies one snapshot of raw product records.
type Feed interface {
	Fetch(ctx context.Context) ([]feed.RawRecord, error)
}

type IngestStore interface {
	ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error)
	CreateBatch(ctx context.Context, transactions []*models.Transaction) error
}

type ListStore interface {
	List(ctx context.Context, filter models.ListFilter) ([]*models.Transaction, error)
	Count(ctx context.Context, search string) (int64, error)
}

type StatisticsStore interface {
	SumPrice(ctx context.Context, month string) (float64, error)
	CountBySold(ctx context.Context, month string, sold bool) (int64, error)
	PriceRangeCounts(ctx context.Context, month string) (map[string]int64, error)
	CategoryCounts(ctx context.Context, month string) ([]models.CategoryCount, error)
}

// SummaryCache holds computed statistics between ingestions. Entries live
// under a generation; Invalidate moves to a new one, so a value computed
// before an invalidation is never readable after it.
type SummaryCache interface {
	// Generation reports the current generation, ok is false when the cache
	// cannot be used.
	Generation(ctx context.Context) (gen int64, ok bool)
	Get(ctx context.Context, gen int64, key string, dst any) bool
	Set(ctx context.Context, gen int64, key string, value any)
	Invalidate(ctx context.Context)
}
