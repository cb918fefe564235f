package scanner

import (
	"context"
	"io"
	"log"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-lab/internal/domain"
	"solana-sandwich-lab/internal/extraction"
	"solana-sandwich-lab/internal/observability"
	"solana-sandwich-lab/internal/solana"
	"solana-sandwich-lab/internal/solana/stub"
)

const (
	testProgram = "TestSwapProgram1111111111111111111111111111"
	testMintA   = "MintA"
	testMintB   = "MintB"
)

func testVenues() domain.VenueTable {
	return domain.NewVenueTable([]domain.Venue{
		{ProgramID: testProgram, Name: "TestDEX"},
	})
}

func uiAmount(v float64) solana.TokenAmount {
	return solana.TokenAmount{UIAmount: &v}
}

// swapTx builds a raw transaction the extractor accepts as a swap:
// the signer spends 10 of mint A for 5 of mint B.
func swapTx(signature string, slot int64, txIndex int, signer string) *solana.Transaction {
	return &solana.Transaction{
		Slot:      slot,
		TxIndex:   txIndex,
		Signature: signature,
		Meta: &solana.TransactionMeta{
			Fee:         5000,
			LogMessages: []string{"Program log: Instruction: Swap"},
			PreTokenBalances: []solana.TokenBalance{
				{AccountIndex: 2, Mint: testMintA, Owner: signer, UIAmount: uiAmount(100)},
				{AccountIndex: 3, Mint: testMintB, Owner: signer, UIAmount: uiAmount(0)},
			},
			PostTokenBalances: []solana.TokenBalance{
				{AccountIndex: 2, Mint: testMintA, Owner: signer, UIAmount: uiAmount(90)},
				{AccountIndex: 3, Mint: testMintB, Owner: signer, UIAmount: uiAmount(5)},
			},
		},
		Message: &solana.TransactionMessage{
			AccountKeys: []string{signer, testProgram, "TokenAcctA", "TokenAcctB"},
			Header:      solana.MessageHeader{NumRequiredSignatures: 1},
			Instructions: []solana.Instruction{
				{ProgramIDIndex: 1, Accounts: []int{2, 3}},
			},
		},
	}
}

// transferTx builds a raw transaction with no swap program or token movement.
func transferTx(signature string, slot int64, txIndex int) *solana.Transaction {
	return &solana.Transaction{
		Slot:      slot,
		TxIndex:   txIndex,
		Signature: signature,
		Meta:      &solana.TransactionMeta{Fee: 5000},
		Message: &solana.TransactionMessage{
			AccountKeys:  []string{"Sender", "Receiver"},
			Header:       solana.MessageHeader{NumRequiredSignatures: 1},
			Instructions: []solana.Instruction{{ProgramIDIndex: 1}},
		},
	}
}

func newTestScanner(rpc solana.RPCClient) *Scanner {
	return New(Options{
		RPC:        rpc,
		Extractor:  extraction.NewExtractor(testVenues()),
		BatchSize:  2,
		BatchDelay: 1, // no real pauses in tests
		Logger:     log.New(io.Discard, "", 0),
	})
}

func TestScanWindowExtractsAndSorts(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddBlock(&solana.Block{Slot: 100, Transactions: []solana.Transaction{
		*swapTx("sig-b", 100, 5, "WalletOne"),
		*swapTx("sig-a", 100, 1, "WalletTwo"),
		*transferTx("sig-noise", 100, 2),
	}})
	rpc.AddBlock(&solana.Block{Slot: 101, Transactions: []solana.Transaction{
		*swapTx("sig-c", 101, 0, "WalletThree"),
	}})

	s := newTestScanner(rpc)
	result, err := s.ScanWindow(context.Background(), 2)
	require.NoError(t, err)

	require.Len(t, result.Swaps, 3)
	assert.Equal(t, "sig-a", result.Swaps[0].Signature)
	assert.Equal(t, "sig-b", result.Swaps[1].Signature)
	assert.Equal(t, "sig-c", result.Swaps[2].Signature)

	assert.Equal(t, 2, result.Blocks)
	assert.Equal(t, 0, result.BlocksFail)
	assert.Equal(t, 4, result.TxsSeen)
	assert.Equal(t, 3, result.Extraction.Extracted)
}

func TestScanWindowIsolatesBlockFailures(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddBlock(&solana.Block{Slot: 200, Transactions: []solana.Transaction{
		*swapTx("sig-1", 200, 0, "WalletOne"),
	}})
	rpc.AddBlock(&solana.Block{Slot: 202, Transactions: []solana.Transaction{
		*swapTx("sig-2", 202, 0, "WalletTwo"),
	}})
	rpc.FailSlots[201] = true

	s := newTestScanner(rpc)
	result, err := s.ScanWindow(context.Background(), 3)
	require.NoError(t, err)

	assert.Len(t, result.Swaps, 2)
	assert.Equal(t, 2, result.Blocks)
	assert.Equal(t, 1, result.BlocksFail)
}

func TestScanWindowSkipsNonSwaps(t *testing.T) {
	rpc := stub.NewRPCClient()
	failed := swapTx("sig-failed", 300, 0, "WalletOne")
	failed.Meta.Err = map[string]interface{}{"InstructionError": []interface{}{0}}
	rpc.AddBlock(&solana.Block{Slot: 300, Transactions: []solana.Transaction{
		*failed,
		*transferTx("sig-plain", 300, 1),
		*swapTx("sig-good", 300, 2, "WalletTwo"),
	}})

	s := newTestScanner(rpc)
	result, err := s.ScanWindow(context.Background(), 1)
	require.NoError(t, err)

	require.Len(t, result.Swaps, 1)
	assert.Equal(t, "sig-good", result.Swaps[0].Signature)
	assert.Equal(t, 1, result.Extraction.Extracted)
	assert.Equal(t, 2, result.Extraction.TotalSkipped())
	assert.Equal(t, 1, result.Extraction.Skipped[extraction.ReasonFailedTx])
	assert.Equal(t, 1, result.Extraction.Skipped[extraction.ReasonNotSwap])
}

func TestScanPools(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddSignatures(testProgram, []solana.SignatureInfo{
		{Signature: "sig-ok", Slot: 400},
		{Signature: "sig-errored", Slot: 401, Err: map[string]interface{}{"InstructionError": nil}},
		{Signature: "sig-fetch-fail", Slot: 402},
	})
	rpc.AddTransaction(swapTx("sig-ok", 400, -1, "WalletOne"))
	rpc.AddTransaction(swapTx("sig-fetch-fail", 402, -1, "WalletTwo"))
	rpc.FailSignatures["sig-fetch-fail"] = true

	s := newTestScanner(rpc)
	result, err := s.ScanPools(context.Background(), []domain.Venue{{ProgramID: testProgram, Name: "TestDEX"}}, 10)
	require.NoError(t, err)

	// Errored signature never fetched, failed fetch isolated.
	require.Len(t, result.Swaps, 1)
	assert.Equal(t, "sig-ok", result.Swaps[0].Signature)
	assert.Equal(t, domain.UnknownTxIndex, result.Swaps[0].TxIndex)
}

func TestScanPoolsUnknownPool(t *testing.T) {
	rpc := stub.NewRPCClient()

	s := newTestScanner(rpc)
	result, err := s.ScanPools(context.Background(), []domain.Venue{{ProgramID: "Unknown", Name: "Ghost"}}, 10)
	require.NoError(t, err)
	assert.Empty(t, result.Swaps)
}

func TestScanWindowObservesMetrics(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.CurrentSlot = 501
	rpc.AddBlock(&solana.Block{Slot: 500, Transactions: []solana.Transaction{
		*swapTx("sig-m1", 500, 0, "WalletOne"),
		*transferTx("sig-m2", 500, 1),
	}})
	rpc.FailSlots[501] = true

	m := observability.NewMetrics("scanner_window_test")
	s := New(Options{
		RPC:        rpc,
		Extractor:  extraction.NewExtractor(testVenues()),
		BatchSize:  2,
		BatchDelay: 1,
		Logger:     log.New(io.Discard, "", 0),
		Metrics:    m,
	})

	_, err := s.ScanWindow(context.Background(), 2)
	require.NoError(t, err)

	assert.Equal(t, float64(1), testutil.ToFloat64(m.BlocksFetched))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.BlocksFailed))
	assert.Equal(t, float64(2), testutil.ToFloat64(m.TxsFetched))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.SwapsExtracted))
	// One histogram series, labelled by the RPC method.
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCCallLatency))
	assert.Equal(t, 1, testutil.CollectAndCount(m.RPCCallLatency, "scanner_window_test_solana_rpc_call_latency_seconds"))
}

func TestScanPoolsObservesRPCLatency(t *testing.T) {
	rpc := stub.NewRPCClient()
	rpc.AddSignatures(testProgram, []solana.SignatureInfo{{Signature: "sig-p1", Slot: 600}})
	rpc.AddTransaction(swapTx("sig-p1", 600, -1, "WalletOne"))

	m := observability.NewMetrics("scanner_pools_test")
	s := New(Options{
		RPC:        rpc,
		Extractor:  extraction.NewExtractor(testVenues()),
		BatchSize:  2,
		BatchDelay: 1,
		Logger:     log.New(io.Discard, "", 0),
		Metrics:    m,
	})

	_, err := s.ScanPools(context.Background(), []domain.Venue{{ProgramID: testProgram, Name: "TestDEX"}}, 10)
	require.NoError(t, err)

	// getSignaturesForAddress and getTransaction each record a series.
	assert.Equal(t, 2, testutil.CollectAndCount(m.RPCCallLatency))
}
