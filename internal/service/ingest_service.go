package service

import (
	"context"
	"fmt"

	"sales-dashboard/internal/dto"
	"sales-dashboard/internal/feed"
	"sales-dashboard/internal/metrics"
	"sales-dashboard/internal/models"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

// IngestService imports the product feed into the record store. Records whose
// id is already stored are skipped, so a run can be repeated safely.
type IngestService struct {
	feed    Feed
	store   IngestStore
	cache   SummaryCache
	metrics *metrics.Ingest
	logger  *zap.Logger
}

// NewIngestService wires the service. cache and m may be nil.
func NewIngestService(f Feed, store IngestStore, cache SummaryCache, m *metrics.Ingest, logger *zap.Logger) *IngestService {
	return &IngestService{
		feed:    f,
		store:   store,
		cache:   cache,
		metrics: m,
		logger:  logger,
	}
}

// Ingest fetches one feed snapshot and inserts the records not yet stored.
// Fetch and validation failures leave the store untouched. Every log line of
// the run carries the run id returned in the response.
func (s *IngestService) Ingest(ctx context.Context) (*dto.IngestResponse, error) {
	runID := uuid.New().String()
	log := s.logger.With(zap.String("run_id", runID))

	raw, err := s.feed.Fetch(ctx)
	if err != nil {
		s.fail(log, "fetch", err)
		return nil, fmt.Errorf("%w: %w", ErrFetch, err)
	}

	incoming, err := normalizeBatch(raw)
	if err != nil {
		s.fail(log, "validation", err)
		return nil, err
	}

	ids := make([]int64, len(incoming))
	for i, tx := range incoming {
		ids[i] = tx.ID
	}

	existing, err := s.store.ExistingIDs(ctx, ids)
	if err != nil {
		s.fail(log, "store", err)
		return nil, fmt.Errorf("%w: lookup existing ids: %w", ErrStore, err)
	}

	fresh := make([]*models.Transaction, 0, len(incoming))
	for _, tx := range incoming {
		if _, ok := existing[tx.ID]; !ok {
			fresh = append(fresh, tx)
		}
	}
	skipped := len(incoming) - len(fresh)

	if len(fresh) == 0 {
		s.metrics.Observe(0, skipped)
		log.Info("No new transactions to insert", zap.Int("skipped", skipped))
		return &dto.IngestResponse{
			RunID:        runID,
			Message:      "No new transactions to insert.",
			SkippedCount: skipped,
		}, nil
	}

	if err := s.store.CreateBatch(ctx, fresh); err != nil {
		s.fail(log.With(zap.Int("batch", len(fresh))), "store", err)
		return nil, fmt.Errorf("%w: insert batch: %w", ErrStore, err)
	}

	if s.cache != nil {
		s.cache.Invalidate(ctx)
	}
	s.metrics.Observe(len(fresh), skipped)
	log.Info("Transactions ingested",
		zap.Int("inserted", len(fresh)),
		zap.Int("skipped", skipped),
	)

	return &dto.IngestResponse{
		RunID:         runID,
		Message:       fmt.Sprintf("Inserted %d new transactions.", len(fresh)),
		InsertedCount: len(fresh),
		SkippedCount:  skipped,
	}, nil
}

func (s *IngestService) fail(log *zap.Logger, reason string, err error) {
	s.metrics.Fail(reason)
	log.Warn("Ingestion run failed", zap.String("reason", reason), zap.Error(err))
}

// normalizeBatch validates every record and derives its month. One bad record
// rejects the batch.
func normalizeBatch(raw []feed.RawRecord) ([]*models.Transaction, error) {
	out := make([]*models.Transaction, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))
	for i, r := range raw {
		r.Title = cleanText(r.Title)
		r.Description = cleanText(r.Description)
		r.Category = cleanText(r.Category)

		tx, err := feed.Normalize(r)
		if err != nil {
			return nil, fmt.Errorf("%w: feed entry %d: %w", ErrValidation, i, err)
		}
		if _, dup := seen[tx.ID]; dup {
			return nil, fmt.Errorf("%w: feed entry %d: duplicate id %d in snapshot", ErrValidation, i, tx.ID)
		}
		seen[tx.ID] = struct{}{}
		out = append(out, tx)
	}
	return out, nil
}
