package service

import (
	"context"
	"errors"
	"fmt"
	"sync"

	"sales-dashboard/internal/dto"
	"sales-dashboard/internal/models"

	"go.uber.org/zap"
)

// StatisticsService computes the per-month dashboard summaries. Every call
// builds fresh response values; nothing is shared between requests except the
// optional cache.
type StatisticsService struct {
	store  StatisticsStore
	cache  SummaryCache
	logger *zap.Logger
}

// NewStatisticsService wires the service. cache may be nil.
func NewStatisticsService(store StatisticsStore, cache SummaryCache, logger *zap.Logger) *StatisticsService {
	return &StatisticsService{
		store:  store,
		cache:  cache,
		logger: logger,
	}
}

// TotalSales sums price over all transactions of the month, sold or not.
func (s *StatisticsService) TotalSales(ctx context.Context, month string) (*dto.TotalSaleResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, "total:"+m, func() (*dto.TotalSaleResponse, error) {
		total, err := s.store.SumPrice(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("%w: total sales for %s: %w", ErrAggregation, m, err)
		}
		return &dto.TotalSaleResponse{TotalSaleAmount: total}, nil
	})
}

func (s *StatisticsService) SoldCount(ctx context.Context, month string) (*dto.SoldItemsResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, "sold:"+m, func() (*dto.SoldItemsResponse, error) {
		n, err := s.store.CountBySold(ctx, m, true)
		if err != nil {
			return nil, fmt.Errorf("%w: sold count for %s: %w", ErrAggregation, m, err)
		}
		return &dto.SoldItemsResponse{TotalSoldItems: n}, nil
	})
}

func (s *StatisticsService) NotSoldCount(ctx context.Context, month string) (*dto.NotSoldItemsResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	return cached(ctx, s.cache, "notsold:"+m, func() (*dto.NotSoldItemsResponse, error) {
		n, err := s.store.CountBySold(ctx, m, false)
		if err != nil {
			return nil, fmt.Errorf("%w: unsold count for %s: %w", ErrAggregation, m, err)
		}
		return &dto.NotSoldItemsResponse{TotalNotSoldItems: n}, nil
	})
}

// PriceRanges returns the sold-item histogram: always every bucket, in bucket
// order, zero counts included.
func (s *StatisticsService) PriceRanges(ctx context.Context, month string) (*dto.PriceRangeResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	data, err := s.priceRanges(ctx, m)
	if err != nil {
		return nil, err
	}
	return &dto.PriceRangeResponse{Data: data}, nil
}

// Categories returns sold-item counts per category, largest first.
func (s *StatisticsService) Categories(ctx context.Context, month string) (*dto.CategoryResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}
	data, err := s.categories(ctx, m)
	if err != nil {
		return nil, err
	}
	return &dto.CategoryResponse{Data: data}, nil
}

// Combined runs the histogram and category pipelines concurrently. If one
// fails the other's data is still returned, together with the error.
func (s *StatisticsService) Combined(ctx context.Context, month string) (*dto.CombinedResponse, error) {
	m, err := parseMonth(month)
	if err != nil {
		return nil, err
	}

	var (
		wg                    sync.WaitGroup
		resp                  dto.CombinedResponse
		rangeErr, categoryErr error
	)
	wg.Add(2)
	go func() {
		defer wg.Done()
		resp.Data.Range, rangeErr = s.priceRanges(ctx, m)
	}()
	go func() {
		defer wg.Done()
		resp.Data.Categories, categoryErr = s.categories(ctx, m)
	}()
	wg.Wait()

	if err := errors.Join(rangeErr, categoryErr); err != nil {
		s.logger.Warn("Combined statistics incomplete", zap.String("month", m), zap.Error(err))
		return &resp, err
	}
	return &resp, nil
}

func (s *StatisticsService) priceRanges(ctx context.Context, month string) ([]models.PriceRangeCount, error) {
	return cached(ctx, s.cache, "ranges:"+month, func() ([]models.PriceRangeCount, error) {
		counts, err := s.store.PriceRangeCounts(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("%w: price ranges for %s: %w", ErrAggregation, month, err)
		}

		data := make([]models.PriceRangeCount, len(models.PriceRanges))
		matched := 0
		for i, pr := range models.PriceRanges {
			n, ok := counts[pr.Label]
			if ok {
				matched++
			}
			data[i] = models.PriceRangeCount{PriceRange: pr.Label, Count: n}
		}
		if matched != len(counts) {
			return nil, fmt.Errorf("%w: price ranges for %s: store returned unknown buckets", ErrAggregation, month)
		}
		return data, nil
	})
}

func (s *StatisticsService) categories(ctx context.Context, month string) ([]models.CategoryCount, error) {
	return cached(ctx, s.cache, "categories:"+month, func() ([]models.CategoryCount, error) {
		data, err := s.store.CategoryCounts(ctx, month)
		if err != nil {
			return nil, fmt.Errorf("%w: categories for %s: %w", ErrAggregation, month, err)
		}
		if data == nil {
			data = []models.CategoryCount{}
		}
		return data, nil
	})
}

func parseMonth(month string) (string, error) {
	if month == "" {
		return "", fmt.Errorf("%w: month is required", ErrValidation)
	}
	m, ok := models.ParseMonth(month)
	if !ok {
		return "", fmt.Errorf("%w: unknown month %q", ErrValidation, month)
	}
	return m, nil
}

// cached serves key from c when present, otherwise computes and stores it.
// The generation is taken before computing, so a result that raced with an
// invalidation lands in the retired generation. Errors are never cached.
func cached[T any](ctx context.Context, c SummaryCache, key string, compute func() (T, error)) (T, error) {
	if c == nil {
		return compute()
	}
	gen, ok := c.Generation(ctx)
	if !ok {
		return compute()
	}

	var hit T
	if c.Get(ctx, gen, key, &hit) {
		return hit, nil
	}
	v, err := compute()
	if err != nil {
		return v, err
	}
	c.Set(ctx, gen, key, v)
	return v, nil
}
