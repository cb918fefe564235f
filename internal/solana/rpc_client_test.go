package solana

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// rpcServer fakes a JSON-RPC endpoint: handlers are keyed by method name and
// return the raw result payload.
func rpcServer(t *testing.T, handlers map[string]func(params []interface{}) (interface{}, *rpcError)) *httptest.Server {
	t.Helper()
	return httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var req rpcRequest
		require.NoError(t, json.NewDecoder(r.Body).Decode(&req))

		handler, ok := handlers[req.Method]
		require.True(t, ok, "unexpected method %s", req.Method)

		result, rpcErr := handler(req.Params)
		resp := map[string]interface{}{"jsonrpc": "2.0", "id": req.ID}
		if rpcErr != nil {
			resp["error"] = rpcErr
		} else {
			resp["result"] = result
		}
		require.NoError(t, json.NewEncoder(w).Encode(resp))
	}))
}

func fastClient(endpoint string) *HTTPClient {
	return NewHTTPClient(endpoint,
		WithMaxRetries(1),
		WithRetryDelay(time.Millisecond),
	)
}

func TestGetSlot(t *testing.T) {
	server := rpcServer(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getSlot": func([]interface{}) (interface{}, *rpcError) {
			return 123_456_789, nil
		},
	})
	defer server.Close()

	slot, err := fastClient(server.URL).GetSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(123_456_789), slot)
}

func TestGetTransaction(t *testing.T) {
	blockTime := int64(1_700_000_000)
	server := rpcServer(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getTransaction": func(params []interface{}) (interface{}, *rpcError) {
			assert.Equal(t, "sig-1", params[0])
			return map[string]interface{}{
				"slot":      100,
				"blockTime": blockTime,
				"meta": map[string]interface{}{
					"err":          nil,
					"fee":          10_000,
					"logMessages":  []string{"Program log: Instruction: Swap"},
					"preBalances":  []uint64{1_000_000, 0},
					"postBalances": []uint64{900_000, 90_000},
					"preTokenBalances": []map[string]interface{}{
						{
							"accountIndex": 1,
							"mint":         "MintA",
							"owner":        "Wallet",
							"uiTokenAmount": map[string]interface{}{
								"amount": "1000000", "decimals": 6, "uiAmount": 1.0,
							},
						},
					},
					"innerInstructions": []map[string]interface{}{
						{
							"index": 0,
							"instructions": []map[string]interface{}{
								{"programIdIndex": 1, "accounts": []int{0}, "data": "abc"},
							},
						},
					},
				},
				"transaction": map[string]interface{}{
					"signatures": []string{"sig-1"},
					"message": map[string]interface{}{
						"accountKeys": []string{"Wallet", "Program"},
						"header": map[string]interface{}{
							"numRequiredSignatures":       1,
							"numReadonlyUnsignedAccounts": 1,
						},
						"instructions": []map[string]interface{}{
							{"programIdIndex": 1, "accounts": []int{0}},
						},
					},
				},
			}, nil
		},
	})
	defer server.Close()

	tx, err := fastClient(server.URL).GetTransaction(context.Background(), "sig-1")
	require.NoError(t, err)
	require.NotNil(t, tx)

	assert.Equal(t, "sig-1", tx.Signature)
	assert.Equal(t, int64(100), tx.Slot)
	assert.Equal(t, -1, tx.TxIndex)
	assert.Equal(t, blockTime, tx.BlockTime)

	require.NotNil(t, tx.Meta)
	assert.Equal(t, uint64(10_000), tx.Meta.Fee)
	assert.Equal(t, []uint64{1_000_000, 0}, tx.Meta.PreBalances)
	require.Len(t, tx.Meta.PreTokenBalances, 1)
	assert.Equal(t, "MintA", tx.Meta.PreTokenBalances[0].Mint)
	assert.Equal(t, "Wallet", tx.Meta.PreTokenBalances[0].Owner)
	assert.InDelta(t, 1.0, tx.Meta.PreTokenBalances[0].UIAmount.UIValue(), 1e-9)
	require.Len(t, tx.Meta.InnerInstructions, 1)
	assert.Equal(t, 1, tx.Meta.InnerInstructions[0].Instructions[0].ProgramIDIndex)

	require.NotNil(t, tx.Message)
	assert.Equal(t, []string{"Wallet", "Program"}, tx.Message.AccountKeys)
	assert.Equal(t, 1, tx.Message.Header.NumRequiredSignatures)
	assert.Equal(t, "Program", tx.Message.ProgramID(tx.Message.Instructions[0]))
}

func TestGetTransactionNotFound(t *testing.T) {
	server := rpcServer(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getTransaction": func([]interface{}) (interface{}, *rpcError) {
			return nil, nil
		},
	})
	defer server.Close()

	tx, err := fastClient(server.URL).GetTransaction(context.Background(), "missing")
	require.NoError(t, err)
	assert.Nil(t, tx)
}

func TestGetBlockIndexesTransactions(t *testing.T) {
	blockTime := int64(1_700_000_100)
	server := rpcServer(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getBlock": func(params []interface{}) (interface{}, *rpcError) {
			assert.EqualValues(t, 200, params[0])
			return map[string]interface{}{
				"blockTime": blockTime,
				"transactions": []map[string]interface{}{
					{"transaction": map[string]interface{}{"signatures": []string{"sig-a"}}},
					{"transaction": map[string]interface{}{"signatures": []string{"sig-b"}}},
				},
			}, nil
		},
	})
	defer server.Close()

	block, err := fastClient(server.URL).GetBlock(context.Background(), 200)
	require.NoError(t, err)

	assert.Equal(t, int64(200), block.Slot)
	require.Len(t, block.Transactions, 2)
	assert.Equal(t, "sig-a", block.Transactions[0].Signature)
	assert.Equal(t, 0, block.Transactions[0].TxIndex)
	assert.Equal(t, "sig-b", block.Transactions[1].Signature)
	assert.Equal(t, 1, block.Transactions[1].TxIndex)
	assert.Equal(t, blockTime, block.Transactions[0].BlockTime)
}

func TestGetSignaturesForAddress(t *testing.T) {
	server := rpcServer(t, map[string]func([]interface{}) (interface{}, *rpcError){
		"getSignaturesForAddress": func(params []interface{}) (interface{}, *rpcError) {
			assert.Equal(t, "Program", params[0])
			require.Len(t, params, 2)
			config := params[1].(map[string]interface{})
			assert.EqualValues(t, 2, config["limit"])
			assert.Equal(t, "cursor", config["before"])

			return []map[string]interface{}{
				{"signature": "sig-new", "slot": 300},
				{"signature": "sig-old", "slot": 299, "err": map[string]interface{}{"InstructionError": nil}},
			}, nil
		},
	})
	defer server.Close()

	sigs, err := fastClient(server.URL).GetSignaturesForAddress(context.Background(), "Program",
		&SignaturesOpts{Limit: 2, Before: "cursor"})
	require.NoError(t, err)

	require.Len(t, sigs, 2)
	assert.Equal(t, "sig-new", sigs[0].Signature)
	assert.Equal(t, int64(300), sigs[0].Slot)
	assert.Nil(t, sigs[0].Err)
	assert.NotNil(t, sigs[1].Err)
}

func TestCallRetriesOnServerError(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"result":42}`)
	}))
	defer server.Close()

	slot, err := fastClient(server.URL).GetSlot(context.Background())
	require.NoError(t, err)
	assert.Equal(t, int64(42), slot)
	assert.Equal(t, 2, calls)
}

func TestCallExhaustsRetries(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		w.WriteHeader(http.StatusInternalServerError)
	}))
	defer server.Close()

	_, err := fastClient(server.URL).GetSlot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "max retries exceeded")
	assert.Equal(t, 2, calls) // initial attempt + 1 retry
}

func TestCallRPCErrorNotRetried(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		fmt.Fprint(w, `{"jsonrpc":"2.0","id":1,"error":{"code":-32602,"message":"invalid params"}}`)
	}))
	defer server.Close()

	_, err := fastClient(server.URL).GetSlot(context.Background())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "invalid params")
	assert.Equal(t, 1, calls)
}
