package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"sort"
	"strings"
	"sync"

	"sales-dashboard/internal/feed"
	"sales-dashboard/internal/models"
)

// memStore is an in-memory record store with the same semantics as the
// PostgreSQL repository.
type memStore struct {
	mu      sync.Mutex
	records map[int64]models.Transaction
	inserts int

	// optional failure injection
	existingErr error
	createErr   error
	countErr    error
	listErr     error
	sumErr      error
	rangeErr    error
	categoryErr error
	extraRange  string

	// runs between ExistingIDs and CreateBatch, to simulate a concurrent writer
	beforeCreate func()
}

func newMemStore(txs ...models.Transaction) *memStore {
	s := &memStore{records: make(map[int64]models.Transaction)}
	for _, tx := range txs {
		s.records[tx.ID] = tx
	}
	return s
}

var errDuplicate = errors.New("duplicate key")

func (s *memStore) ExistingIDs(ctx context.Context, ids []int64) (map[int64]struct{}, error) {
	if s.existingErr != nil {
		return nil, s.existingErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make(map[int64]struct{})
	for _, id := range ids {
		if _, ok := s.records[id]; ok {
			out[id] = struct{}{}
		}
	}
	return out, nil
}

func (s *memStore) CreateBatch(ctx context.Context, txs []*models.Transaction) error {
	if s.beforeCreate != nil {
		s.beforeCreate()
	}
	if s.createErr != nil {
		return s.createErr
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, tx := range txs {
		if _, ok := s.records[tx.ID]; ok {
			return fmt.Errorf("%w: id %d", errDuplicate, tx.ID)
		}
	}
	for _, tx := range txs {
		s.records[tx.ID] = *tx
	}
	s.inserts++
	return nil
}

func (s *memStore) sorted(search string) []models.Transaction {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []models.Transaction
	for _, tx := range s.records {
		if search == "" || strings.Contains(strings.ToLower(tx.Title), strings.ToLower(search)) {
			out = append(out, tx)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}

func (s *memStore) List(ctx context.Context, f models.ListFilter) ([]*models.Transaction, error) {
	if s.listErr != nil {
		return nil, s.listErr
	}
	all := s.sorted(f.Search)
	if f.Paginate {
		if f.Offset >= uint64(len(all)) {
			all = nil
		} else {
			end := f.Offset + f.Limit
			if end > uint64(len(all)) {
				end = uint64(len(all))
			}
			all = all[f.Offset:end]
		}
	}
	out := make([]*models.Transaction, len(all))
	for i := range all {
		out[i] = &all[i]
	}
	return out, nil
}

func (s *memStore) Count(ctx context.Context, search string) (int64, error) {
	if s.countErr != nil {
		return 0, s.countErr
	}
	return int64(len(s.sorted(search))), nil
}

func (s *memStore) SumPrice(ctx context.Context, month string) (float64, error) {
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	var total float64
	for _, tx := range s.sorted("") {
		if tx.Month == month {
			total += tx.Price
		}
	}
	return total, nil
}

func (s *memStore) CountBySold(ctx context.Context, month string, sold bool) (int64, error) {
	if s.sumErr != nil {
		return 0, s.sumErr
	}
	var n int64
	for _, tx := range s.sorted("") {
		if tx.Month == month && tx.Sold == sold {
			n++
		}
	}
	return n, nil
}

func (s *memStore) PriceRangeCounts(ctx context.Context, month string) (map[string]int64, error) {
	if s.rangeErr != nil {
		return nil, s.rangeErr
	}
	out := make(map[string]int64)
	for _, tx := range s.sorted("") {
		if tx.Month == month && tx.Sold {
			out[models.PriceRangeFor(tx.Price)]++
		}
	}
	if s.extraRange != "" {
		out[s.extraRange] = 1
	}
	return out, nil
}

func (s *memStore) CategoryCounts(ctx context.Context, month string) ([]models.CategoryCount, error) {
	if s.categoryErr != nil {
		return nil, s.categoryErr
	}
	counts := make(map[string]int64)
	for _, tx := range s.sorted("") {
		if tx.Month == month && tx.Sold {
			counts[tx.Category]++
		}
	}
	out := make([]models.CategoryCount, 0, len(counts))
	for c, n := range counts {
		out = append(out, models.CategoryCount{Category: c, Count: n})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Category < out[j].Category
	})
	return out, nil
}

type fakeFeed struct {
	records []feed.RawRecord
	err     error
}

func (f *fakeFeed) Fetch(ctx context.Context) ([]feed.RawRecord, error) {
	return f.records, f.err
}

// mapCache is a SummaryCache keeping JSON in memory.
type mapCache struct {
	mu          sync.Mutex
	gen         int64
	entries     map[string][]byte
	invalidated int
	broken      bool
}

func newMapCache() *mapCache {
	return &mapCache{entries: make(map[string][]byte)}
}

func (c *mapCache) Generation(ctx context.Context) (int64, bool) {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.gen, !c.broken
}

func (c *mapCache) Get(ctx context.Context, gen int64, key string, dst any) bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	data, ok := c.entries[fmt.Sprintf("%d:%s", gen, key)]
	if !ok {
		return false
	}
	return json.Unmarshal(data, dst) == nil
}

func (c *mapCache) Set(ctx context.Context, gen int64, key string, value any) {
	data, _ := json.Marshal(value)
	c.mu.Lock()
	defer c.mu.Unlock()
	c.entries[fmt.Sprintf("%d:%s", gen, key)] = data
}

func (c *mapCache) Invalidate(ctx context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.gen++
	c.invalidated++
}

func ptr[T any](v T) *T { return &v }

func rawRecord(id int64, title string, price float64, sold bool, date, category string) feed.RawRecord {
	return feed.RawRecord{
		ID:          ptr(id),
		Title:       title,
		Price:       ptr(price),
		Description: "description of " + title,
		Category:    category,
		Image:       fmt.Sprintf("https://img.example.com/%d.jpg", id),
		Sold:        ptr(sold),
		DateOfSale:  date,
	}
}
