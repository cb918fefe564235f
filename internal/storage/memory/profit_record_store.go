package memory

import (
	"context"
	"sort"
	"sync"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// ProfitRecordStore is an in-memory implementation of storage.ProfitRecordStore.
type ProfitRecordStore struct {
	mu   sync.RWMutex
	data []*domain.ProfitRecord
}

// NewProfitRecordStore creates a new in-memory profit record store.
func NewProfitRecordStore() *ProfitRecordStore {
	return &ProfitRecordStore{}
}

// InsertBulk appends records. Uniqueness is not enforced, matching the
// ClickHouse-backed implementation.
func (s *ProfitRecordStore) InsertBulk(_ context.Context, records []*domain.ProfitRecord) error {
	for _, r := range records {
		if r == nil {
			return storage.ErrInvalidInput
		}
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	for _, r := range records {
		copy := *r
		s.data = append(s.data, &copy)
	}
	return nil
}

// GetAll retrieves all records, ordered by profit_usd DESC.
func (s *ProfitRecordStore) GetAll(_ context.Context) ([]*domain.ProfitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.ProfitRecord, 0, len(s.data))
	for _, r := range s.data {
		copy := *r
		result = append(result, &copy)
	}

	sortRecords(result)
	return result, nil
}

// GetByBot retrieves records for one bot wallet, ordered by profit_usd DESC.
func (s *ProfitRecordStore) GetByBot(_ context.Context, bot string) ([]*domain.ProfitRecord, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.ProfitRecord
	for _, r := range s.data {
		if r.Bot == bot {
			copy := *r
			result = append(result, &copy)
		}
	}

	sortRecords(result)
	return result, nil
}

func sortRecords(records []*domain.ProfitRecord) {
	sort.Slice(records, func(i, j int) bool {
		if records[i].ProfitUSD != records[j].ProfitUSD {
			return records[i].ProfitUSD > records[j].ProfitUSD
		}
		return records[i].SandwichID < records[j].SandwichID
	})
}

var _ storage.ProfitRecordStore = (*ProfitRecordStore)(nil)
