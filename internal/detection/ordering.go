package detection

import (
	"errors"
	"sort"

	"solana-sandwich-lab/internal/domain"
)

// ErrInvalidOrdering is returned when swaps are not properly ordered.
var ErrInvalidOrdering = errors.New("swaps are not in deterministic order")

// SortSwaps orders swaps by (slot ASC, tx_index ASC). Swaps without a known
// position within their slot carry domain.UnknownTxIndex and sort last.
// Detection correctness depends on this total order being established first.
func SortSwaps(swaps []*domain.SwapTransaction) {
	sort.SliceStable(swaps, func(i, j int) bool {
		return compareSwaps(swaps[i], swaps[j]) < 0
	})
}

// ValidateOrdering checks that swaps are sorted by (slot, tx_index).
// Returns ErrInvalidOrdering if not.
func ValidateOrdering(swaps []*domain.SwapTransaction) error {
	for i := 1; i < len(swaps); i++ {
		if compareSwaps(swaps[i-1], swaps[i]) > 0 {
			return ErrInvalidOrdering
		}
	}
	return nil
}

// compareSwaps returns:
//   - negative if a < b
//   - zero if a == b
//   - positive if a > b
//
// Order: (slot ASC, tx_index ASC)
func compareSwaps(a, b *domain.SwapTransaction) int {
	if a.Slot != b.Slot {
		if a.Slot < b.Slot {
			return -1
		}
		return 1
	}
	if a.TxIndex != b.TxIndex {
		if a.TxIndex < b.TxIndex {
			return -1
		}
		return 1
	}
	return 0
}
