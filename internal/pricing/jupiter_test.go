package pricing

import (
	"context"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"solana-sandwich-lab/internal/observability"
)

func newTestClient(serverURL string, opts ...JupiterOption) *JupiterClient {
	base := []JupiterOption{
		WithAPIURL(serverURL),
		WithLogger(log.New(io.Discard, "", 0)),
	}
	return NewJupiterClient(append(base, opts...)...)
}

func TestPricesUSD(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "MintA,MintB", r.URL.Query().Get("ids"))
		fmt.Fprint(w, `{
			"MintA": {"usdPrice": 1.5},
			"MintB": {"usdPrice": 150.25}
		}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	prices, err := c.PricesUSD(context.Background(), []string{"MintA", "MintB"})
	require.NoError(t, err)

	assert.InDelta(t, 1.5, prices["MintA"], 1e-9)
	assert.InDelta(t, 150.25, prices["MintB"], 1e-9)
}

func TestPricesUSDFieldVariants(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{
			"MintA": {"priceUsd": "2.5"},
			"MintB": {"price": 3},
			"MintC": {}
		}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL)
	prices, err := c.PricesUSD(context.Background(), []string{"MintA", "MintB", "MintC"})
	require.NoError(t, err)

	assert.InDelta(t, 2.5, prices["MintA"], 1e-9)
	assert.InDelta(t, 3, prices["MintB"], 1e-9)
	assert.NotContains(t, prices, "MintC")
}

func TestPricesUSDChunksAndDedupes(t *testing.T) {
	var batches []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ids := r.URL.Query().Get("ids")
		batches = append(batches, ids)

		resp := make([]string, 0)
		for _, mint := range strings.Split(ids, ",") {
			resp = append(resp, fmt.Sprintf("%q: {\"usdPrice\": 1}", mint))
		}
		fmt.Fprintf(w, "{%s}", strings.Join(resp, ","))
	}))
	defer server.Close()

	c := newTestClient(server.URL, WithBatchSize(2))
	prices, err := c.PricesUSD(context.Background(),
		[]string{"MintA", "MintB", "MintA", "MintC", "MintB"})
	require.NoError(t, err)

	assert.Equal(t, []string{"MintA,MintB", "MintC"}, batches)
	assert.Len(t, prices, 3)
}

func TestPricesUSDPartialFailure(t *testing.T) {
	calls := 0
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusTooManyRequests)
			return
		}
		fmt.Fprint(w, `{"MintB": {"usdPrice": 5}}`)
	}))
	defer server.Close()

	c := newTestClient(server.URL, WithBatchSize(1))
	prices, err := c.PricesUSD(context.Background(), []string{"MintA", "MintB"})
	require.NoError(t, err)

	// The failed chunk degrades to missing prices.
	assert.NotContains(t, prices, "MintA")
	assert.InDelta(t, 5, prices["MintB"], 1e-9)
}

func TestPricesUSDEmptyInput(t *testing.T) {
	c := newTestClient("http://unreachable.invalid")
	prices, err := c.PricesUSD(context.Background(), nil)
	require.NoError(t, err)
	assert.Empty(t, prices)
}

func TestPricesUSDContextCancelled(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	c := newTestClient(server.URL)
	_, err := c.PricesUSD(ctx, []string{"MintA"})
	assert.ErrorIs(t, err, context.Canceled)
}

func TestPricesUSDCountsFailedBatches(t *testing.T) {
	var calls int
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls++
		if calls == 1 {
			w.WriteHeader(http.StatusInternalServerError)
			return
		}
		fmt.Fprint(w, `{"MintC": {"usdPrice": 7}}`)
	}))
	defer server.Close()

	m := observability.NewMetrics("pricing_failures_test")
	c := newTestClient(server.URL, WithBatchSize(2), WithMetrics(m))
	prices, err := c.PricesUSD(context.Background(), []string{"MintA", "MintB", "MintC"})
	require.NoError(t, err)

	assert.NotContains(t, prices, "MintA")
	assert.InDelta(t, 7, prices["MintC"], 1e-9)
	assert.Equal(t, float64(1), testutil.ToFloat64(m.PriceLookupsFailed))
}
