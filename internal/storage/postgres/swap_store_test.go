package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

func testSwap(signature string, slot int64, txIndex int, signer string) *domain.SwapTransaction {
	return &domain.SwapTransaction{
		Signature:   signature,
		Slot:        slot,
		TxIndex:     txIndex,
		Signer:      signer,
		SwapProgram: "Raydium AMM v4",
		PoolName:    "SOL/USDC",
		TokenIn:     domain.SOLMint,
		TokenOut:    "TokenMint",
		AmountIn:    1.5,
		AmountOut:   250.0,
		PriorityFee: 12_000,
	}
}

func TestSwapStoreRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	swap := testSwap("sig-1", 100, 3, "WalletOne")
	swap.TipAccount = ptr("TipWallet111")
	swap.TipAmount = 50_000

	require.NoError(t, store.Insert(ctx, swap))

	got, err := store.GetBySignature(ctx, "sig-1")
	require.NoError(t, err)
	assert.Equal(t, swap, got)
}

func TestSwapStoreNilTipAccount(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSwap("sig-1", 100, 0, "WalletOne")))

	got, err := store.GetBySignature(ctx, "sig-1")
	require.NoError(t, err)
	assert.Nil(t, got.TipAccount)
	assert.Zero(t, got.TipAmount)
}

func TestSwapStoreDuplicateSignature(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSwap("sig-1", 100, 0, "WalletOne")))
	err := store.Insert(ctx, testSwap("sig-1", 200, 5, "WalletTwo"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSwapStoreGetBySignatureNotFound(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)

	_, err := store.GetBySignature(context.Background(), "absent")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSwapStoreInsertBulkRollsBackOnDuplicate(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSwap("sig-existing", 99, 0, "WalletOne")))

	err := store.InsertBulk(ctx, []*domain.SwapTransaction{
		testSwap("sig-a", 100, 0, "WalletOne"),
		testSwap("sig-existing", 100, 1, "WalletTwo"),
	})
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)

	_, err = store.GetBySignature(ctx, "sig-a")
	assert.ErrorIs(t, err, storage.ErrNotFound)
}

func TestSwapStoreGetBySlotRangeOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapTransaction{
		testSwap("sig-c", 102, 0, "WalletOne"),
		testSwap("sig-b", 100, 7, "WalletTwo"),
		testSwap("sig-a", 100, 2, "WalletOne"),
		testSwap("sig-out", 200, 0, "WalletOne"),
	}))

	swaps, err := store.GetBySlotRange(ctx, 100, 102)
	require.NoError(t, err)
	require.Len(t, swaps, 3)
	assert.Equal(t, "sig-a", swaps[0].Signature)
	assert.Equal(t, "sig-b", swaps[1].Signature)
	assert.Equal(t, "sig-c", swaps[2].Signature)
}

func TestSwapStoreGetBySigner(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSwapStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.SwapTransaction{
		testSwap("sig-a", 101, 0, "Bot"),
		testSwap("sig-b", 100, 0, "Bot"),
		testSwap("sig-c", 100, 1, "Other"),
	}))

	swaps, err := store.GetBySigner(ctx, "Bot")
	require.NoError(t, err)
	require.Len(t, swaps, 2)
	assert.Equal(t, "sig-b", swaps[0].Signature)
	assert.Equal(t, "sig-a", swaps[1].Signature)
}
