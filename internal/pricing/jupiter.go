package pricing

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"solana-sandwich-lab/internal/observability"
)

// Default configuration values.
const (
	// DefaultAPIURL is the Jupiter lite price endpoint.
	DefaultAPIURL = "https://lite-api.jup.ag/price/v3"
	// DefaultBatchSize is the maximum mints per request.
	DefaultBatchSize = 50
	// DefaultTimeout bounds one price request.
	DefaultTimeout = 10 * time.Second
)

// JupiterClient implements Oracle against the Jupiter lite price API.
type JupiterClient struct {
	apiURL    string
	batchSize int
	client    *http.Client
	logger    *log.Logger
	metrics   *observability.Metrics
}

// JupiterOption configures a JupiterClient.
type JupiterOption func(*JupiterClient)

// WithAPIURL overrides the price endpoint.
func WithAPIURL(u string) JupiterOption {
	return func(c *JupiterClient) {
		c.apiURL = u
	}
}

// WithBatchSize overrides the per-request mint limit.
func WithBatchSize(n int) JupiterOption {
	return func(c *JupiterClient) {
		c.batchSize = n
	}
}

// WithHTTPClient sets a custom http.Client.
func WithHTTPClient(client *http.Client) JupiterOption {
	return func(c *JupiterClient) {
		c.client = client
	}
}

// WithMetrics enables failure counters for price lookups.
func WithMetrics(m *observability.Metrics) JupiterOption {
	return func(c *JupiterClient) {
		c.metrics = m
	}
}

// WithLogger sets the warning logger.
func WithLogger(logger *log.Logger) JupiterOption {
	return func(c *JupiterClient) {
		c.logger = logger
	}
}

// NewJupiterClient creates a Jupiter price client.
func NewJupiterClient(opts ...JupiterOption) *JupiterClient {
	c := &JupiterClient{
		apiURL:    DefaultAPIURL,
		batchSize: DefaultBatchSize,
		client:    &http.Client{Timeout: DefaultTimeout},
		logger:    log.Default(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// priceEntry tolerates the field names the API has used across versions.
type priceEntry struct {
	PriceUSD *json.Number `json:"priceUsd"`
	USDPrice *json.Number `json:"usdPrice"`
	Price    *json.Number `json:"price"`
}

func (e priceEntry) value() (float64, bool) {
	for _, n := range []*json.Number{e.PriceUSD, e.USDPrice, e.Price} {
		if n == nil {
			continue
		}
		if v, err := strconv.ParseFloat(n.String(), 64); err == nil {
			return v, true
		}
	}
	return 0, false
}

// PricesUSD fetches USD prices for the deduplicated mints, chunked to the
// batch size. A failed chunk is logged and its mints omitted from the
// result; PricesUSD itself only fails on context cancellation.
func (c *JupiterClient) PricesUSD(ctx context.Context, mints []string) (map[string]float64, error) {
	prices := make(map[string]float64)
	if len(mints) == 0 {
		return prices, nil
	}

	unique := dedupe(mints)
	for start := 0; start < len(unique); start += c.batchSize {
		end := start + c.batchSize
		if end > len(unique) {
			end = len(unique)
		}
		batch := unique[start:end]

		if err := ctx.Err(); err != nil {
			return prices, err
		}

		if err := c.fetchBatch(ctx, batch, prices); err != nil {
			c.logger.Printf("[WARN] price fetch failed for %d mints: %v", len(batch), err)
			if c.metrics != nil {
				c.metrics.PriceLookupsFailed.Inc()
			}
			continue
		}
	}

	return prices, nil
}

// fetchBatch fills prices for one chunk of mints.
func (c *JupiterClient) fetchBatch(ctx context.Context, batch []string, prices map[string]float64) error {
	u, err := url.Parse(c.apiURL)
	if err != nil {
		return fmt.Errorf("parse api url: %w", err)
	}
	q := u.Query()
	q.Set("ids", strings.Join(batch, ","))
	u.RawQuery = q.Encode()

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return fmt.Errorf("create request: %w", err)
	}

	resp, err := c.client.Do(req)
	if err != nil {
		return fmt.Errorf("http request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status %d: %s", resp.StatusCode, string(body))
	}

	var data map[string]priceEntry
	if err := json.Unmarshal(body, &data); err != nil {
		return fmt.Errorf("unmarshal response: %w", err)
	}

	for mint, entry := range data {
		if v, ok := entry.value(); ok {
			prices[mint] = v
		}
	}
	return nil
}

// dedupe preserves first-seen order.
func dedupe(mints []string) []string {
	seen := make(map[string]struct{}, len(mints))
	out := make([]string, 0, len(mints))
	for _, m := range mints {
		if _, ok := seen[m]; ok {
			continue
		}
		seen[m] = struct{}{}
		out = append(out, m)
	}
	return out
}

var _ Oracle = (*JupiterClient)(nil)
