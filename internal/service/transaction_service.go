package service

import (
	"context"
	"fmt"
	"math"
	"strings"

	"sales-dashboard/internal/dto"
	"sales-dashboard/internal/models"

	"go.uber.org/zap"
)

// ListParams selects transactions. Pagination applies only when both Page and
// Limit are set.
type ListParams struct {
	Page   *int
	Limit  *int
	Search string
}

type TransactionService struct {
	store  ListStore
	logger *zap.Logger
}

func NewTransactionService(store ListStore, logger *zap.Logger) *TransactionService {
	return &TransactionService{
		store:  store,
		logger: logger,
	}
}

// List returns transactions ordered by id with the number of records matching
// the search, independent of the page.
func (s *TransactionService) List(ctx context.Context, p ListParams) (*dto.TransactionListResponse, error) {
	if p.Page != nil && *p.Page < 1 {
		return nil, fmt.Errorf("%w: page must be at least 1", ErrValidation)
	}
	if p.Limit != nil && *p.Limit <= 0 {
		return nil, fmt.Errorf("%w: limit must be positive", ErrValidation)
	}

	filter := models.ListFilter{Search: strings.TrimSpace(p.Search)}

	total, err := s.store.Count(ctx, filter.Search)
	if err != nil {
		return nil, fmt.Errorf("%w: count transactions: %w", ErrStore, err)
	}

	if p.Page != nil && p.Limit != nil {
		page, limit := uint64(*p.Page), uint64(*p.Limit)
		// beyond this the offset is far past any store
		if page-1 > math.MaxInt64/limit {
			return &dto.TransactionListResponse{Transactions: []*models.Transaction{}, TotalItems: total}, nil
		}
		filter.Paginate = true
		filter.Offset = (page - 1) * limit
		filter.Limit = limit
	}

	transactions, err := s.store.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("%w: list transactions: %w", ErrStore, err)
	}
	if transactions == nil {
		transactions = []*models.Transaction{}
	}

	s.logger.Debug("Transactions listed",
		zap.String("search", filter.Search),
		zap.Int("returned", len(transactions)),
		zap.Int64("total", total),
	)

	return &dto.TransactionListResponse{
		Transactions: transactions,
		TotalItems:   total,
	}, nil
}
