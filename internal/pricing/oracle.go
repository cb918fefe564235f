package pricing

import "context"

// Oracle provides batched USD spot prices by mint address.
// The returned map is partial: mints the oracle cannot price are simply
// absent, never an error. A failed batch degrades to missing prices.
type Oracle interface {
	// PricesUSD returns {mint: price_usd} for the given mints.
	PricesUSD(ctx context.Context, mints []string) (map[string]float64, error)
}
