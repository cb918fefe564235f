package detection

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-lab/internal/domain"
)

func tx(sig string, slot int64, txIndex int) *domain.SwapTransaction {
	return &domain.SwapTransaction{Signature: sig, Slot: slot, TxIndex: txIndex}
}

func TestSortSwaps(t *testing.T) {
	swaps := []*domain.SwapTransaction{
		tx("d", 101, 0),
		tx("b", 100, 7),
		tx("c", 100, domain.UnknownTxIndex),
		tx("a", 100, 2),
	}

	SortSwaps(swaps)

	got := make([]string, len(swaps))
	for i, s := range swaps {
		got[i] = s.Signature
	}
	assert.Equal(t, []string{"a", "b", "c", "d"}, got)
}

func TestSortSwapsStable(t *testing.T) {
	first := tx("first", 100, 1)
	second := tx("second", 100, 1)
	swaps := []*domain.SwapTransaction{first, second}

	SortSwaps(swaps)

	assert.Same(t, first, swaps[0])
	assert.Same(t, second, swaps[1])
}

func TestValidateOrdering(t *testing.T) {
	require.NoError(t, ValidateOrdering(nil))
	require.NoError(t, ValidateOrdering([]*domain.SwapTransaction{
		tx("a", 100, 0),
		tx("b", 100, 1),
		tx("c", 101, 0),
	}))

	err := ValidateOrdering([]*domain.SwapTransaction{
		tx("a", 101, 0),
		tx("b", 100, 0),
	})
	assert.ErrorIs(t, err, ErrInvalidOrdering)

	err = ValidateOrdering([]*domain.SwapTransaction{
		tx("a", 100, 5),
		tx("b", 100, 1),
	})
	assert.ErrorIs(t, err, ErrInvalidOrdering)
}
