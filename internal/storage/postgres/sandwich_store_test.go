package postgres

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/storage"
)

func testSandwich(frontSig string, frontSlot int64, bot, victim string) *domain.Sandwich {
	return &domain.Sandwich{
		FrontRun: testSwap(frontSig, frontSlot, 0, bot),
		Victim:   testSwap(frontSig+"-victim", frontSlot+1, 2, victim),
		BackRun:  testSwap(frontSig+"-back", frontSlot+3, 1, bot),
		Metadata: domain.AttackMetadata{
			SlotGapFrontToVictim:   1,
			SlotGapVictimToBackrun: 2,
			SlotGapFrontToBackrun:  3,
			TokenPair:              [2]string{domain.SOLMint, "TokenMint"},
			BotWallet:              bot,
			VictimWallet:           victim,
			IsOppositeDirection:    true,
		},
	}
}

func TestSandwichStoreRoundTrip(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichStore(pool)
	ctx := context.Background()

	sandwich := testSandwich("sig-1", 100, "BotA", "VictimA")
	require.NoError(t, store.Insert(ctx, sandwich))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 1)
	assert.Equal(t, sandwich, all[0])
}

func TestSandwichStoreDuplicateTriple(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichStore(pool)
	ctx := context.Background()

	require.NoError(t, store.Insert(ctx, testSandwich("sig-1", 100, "BotA", "VictimA")))
	err := store.Insert(ctx, testSandwich("sig-1", 100, "BotA", "VictimA"))
	assert.ErrorIs(t, err, storage.ErrDuplicateKey)
}

func TestSandwichStoreInvalidInput(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichStore(pool)
	ctx := context.Background()

	assert.ErrorIs(t, store.Insert(ctx, nil), storage.ErrInvalidInput)
	assert.ErrorIs(t, store.Insert(ctx, &domain.Sandwich{}), storage.ErrInvalidInput)
}

func TestSandwichStoreGetAllOrdering(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sandwich{
		testSandwich("sig-late", 300, "BotA", "VictimA"),
		testSandwich("sig-early", 100, "BotB", "VictimB"),
	}))

	all, err := store.GetAll(ctx)
	require.NoError(t, err)
	require.Len(t, all, 2)
	assert.Equal(t, "sig-early", all[0].FrontRun.Signature)
	assert.Equal(t, "sig-late", all[1].FrontRun.Signature)
}

func TestSandwichStoreGetByBot(t *testing.T) {
	pool, cleanup := setupTestDB(t)
	defer cleanup()

	store := NewSandwichStore(pool)
	ctx := context.Background()

	require.NoError(t, store.InsertBulk(ctx, []*domain.Sandwich{
		testSandwich("sig-a", 100, "BotA", "VictimA"),
		testSandwich("sig-b", 200, "BotB", "VictimB"),
	}))

	got, err := store.GetByBot(ctx, "BotB")
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "sig-b", got[0].FrontRun.Signature)
	assert.Equal(t, "VictimB", got[0].Metadata.VictimWallet)
}
