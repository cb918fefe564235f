package memory

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// SandwichStore is an in-memory implementation of storage.SandwichStore.
type SandwichStore struct {
	mu   sync.RWMutex
	data map[string]*domain.Sandwich // keyed by signature triple
}

// NewSandwichStore creates a new in-memory sandwich store.
func NewSandwichStore() *SandwichStore {
	return &SandwichStore{
		data: make(map[string]*domain.Sandwich),
	}
}

// sandwichKey generates a unique key for a sandwich.
func sandwichKey(s *domain.Sandwich) string {
	return fmt.Sprintf("%s|%s|%s", s.FrontRun.Signature, s.Victim.Signature, s.BackRun.Signature)
}

func validSandwich(s *domain.Sandwich) bool {
	return s != nil && s.FrontRun != nil && s.Victim != nil && s.BackRun != nil
}

// Insert adds a new sandwich. Returns ErrDuplicateKey if the signature
// triple exists.
func (s *SandwichStore) Insert(_ context.Context, sandwich *domain.Sandwich) error {
	if !validSandwich(sandwich) {
		return storage.ErrInvalidInput
	}

	key := sandwichKey(sandwich)

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[key]; exists {
		return storage.ErrDuplicateKey
	}

	s.data[key] = copySandwich(sandwich)
	return nil
}

// InsertBulk adds multiple sandwiches atomically. Fails entire batch on any duplicate.
func (s *SandwichStore) InsertBulk(_ context.Context, sandwiches []*domain.Sandwich) error {
	if len(sandwiches) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	batchKeys := make(map[string]struct{}, len(sandwiches))
	for _, sandwich := range sandwiches {
		if !validSandwich(sandwich) {
			return storage.ErrInvalidInput
		}
		key := sandwichKey(sandwich)
		if _, exists := s.data[key]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[key]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[key] = struct{}{}
	}

	for _, sandwich := range sandwiches {
		s.data[sandwichKey(sandwich)] = copySandwich(sandwich)
	}

	return nil
}

// GetAll retrieves all sandwiches, ordered by front-run (slot, tx_index) ASC.
func (s *SandwichStore) GetAll(_ context.Context) ([]*domain.Sandwich, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	result := make([]*domain.Sandwich, 0, len(s.data))
	for _, sandwich := range s.data {
		result = append(result, copySandwich(sandwich))
	}

	sortSandwiches(result)
	return result, nil
}

// GetByBot retrieves all sandwiches attributed to a bot wallet, ordered by
// front-run (slot, tx_index) ASC.
func (s *SandwichStore) GetByBot(_ context.Context, bot string) ([]*domain.Sandwich, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.Sandwich
	for _, sandwich := range s.data {
		if sandwich.Metadata.BotWallet == bot {
			result = append(result, copySandwich(sandwich))
		}
	}

	sortSandwiches(result)
	return result, nil
}

// copySandwich deep-copies a sandwich so callers cannot mutate stored legs.
func copySandwich(s *domain.Sandwich) *domain.Sandwich {
	front := *s.FrontRun
	victim := *s.Victim
	back := *s.BackRun
	return &domain.Sandwich{
		FrontRun: &front,
		Victim:   &victim,
		BackRun:  &back,
		Metadata: s.Metadata,
	}
}

func sortSandwiches(sandwiches []*domain.Sandwich) {
	sort.Slice(sandwiches, func(i, j int) bool {
		a, b := sandwiches[i].FrontRun, sandwiches[j].FrontRun
		if a.Slot != b.Slot {
			return a.Slot < b.Slot
		}
		if a.TxIndex != b.TxIndex {
			return a.TxIndex < b.TxIndex
		}
		return a.Signature < b.Signature
	})
}

var _ storage.SandwichStore = (*SandwichStore)(nil)
