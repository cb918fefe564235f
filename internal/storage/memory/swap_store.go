// Package memory provides in-memory store implementations for tests and
// single-process pipeline runs.
package memory

import (
	"context"
	"sort"
	"sync"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

// SwapStore is an in-memory implementation of storage.SwapStore.
type SwapStore struct {
	mu   sync.RWMutex
	data map[string]*domain.SwapTransaction // keyed by signature
}

// NewSwapStore creates a new in-memory swap store.
func NewSwapStore() *SwapStore {
	return &SwapStore{
		data: make(map[string]*domain.SwapTransaction),
	}
}

// Insert adds a new swap. Returns ErrDuplicateKey if the signature exists.
func (s *SwapStore) Insert(_ context.Context, swap *domain.SwapTransaction) error {
	if swap == nil || swap.Signature == "" {
		return storage.ErrInvalidInput
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.data[swap.Signature]; exists {
		return storage.ErrDuplicateKey
	}

	copy := *swap
	s.data[swap.Signature] = &copy
	return nil
}

// InsertBulk adds multiple swaps atomically. Fails entire batch on any duplicate.
func (s *SwapStore) InsertBulk(_ context.Context, swaps []*domain.SwapTransaction) error {
	if len(swaps) == 0 {
		return nil
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// First pass: check existing and intra-batch duplicates.
	batchKeys := make(map[string]struct{}, len(swaps))
	for _, swap := range swaps {
		if swap == nil || swap.Signature == "" {
			return storage.ErrInvalidInput
		}
		if _, exists := s.data[swap.Signature]; exists {
			return storage.ErrDuplicateKey
		}
		if _, exists := batchKeys[swap.Signature]; exists {
			return storage.ErrDuplicateKey
		}
		batchKeys[swap.Signature] = struct{}{}
	}

	// Second pass: insert all.
	for _, swap := range swaps {
		copy := *swap
		s.data[swap.Signature] = &copy
	}

	return nil
}

// GetBySignature retrieves a swap by signature. Returns ErrNotFound if not exists.
func (s *SwapStore) GetBySignature(_ context.Context, signature string) (*domain.SwapTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	swap, ok := s.data[signature]
	if !ok {
		return nil, storage.ErrNotFound
	}
	copy := *swap
	return &copy, nil
}

// GetBySlotRange retrieves swaps within [start, end] (inclusive), ordered by
// (slot, tx_index) ASC.
func (s *SwapStore) GetBySlotRange(_ context.Context, start, end int64) ([]*domain.SwapTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapTransaction
	for _, swap := range s.data {
		if swap.Slot >= start && swap.Slot <= end {
			copy := *swap
			result = append(result, &copy)
		}
	}

	sortSwaps(result)
	return result, nil
}

// GetBySigner retrieves all swaps signed by a wallet, ordered by
// (slot, tx_index) ASC.
func (s *SwapStore) GetBySigner(_ context.Context, signer string) ([]*domain.SwapTransaction, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	var result []*domain.SwapTransaction
	for _, swap := range s.data {
		if swap.Signer == signer {
			copy := *swap
			result = append(result, &copy)
		}
	}

	sortSwaps(result)
	return result, nil
}

func sortSwaps(swaps []*domain.SwapTransaction) {
	sort.Slice(swaps, func(i, j int) bool {
		if swaps[i].Slot != swaps[j].Slot {
			return swaps[i].Slot < swaps[j].Slot
		}
		return swaps[i].TxIndex < swaps[j].TxIndex
	})
}

var _ storage.SwapStore = (*SwapStore)(nil)
