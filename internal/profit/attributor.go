// Package profit attributes extracted value to the attacking wallet and
// aggregates per-bot profit figures.
package profit

import (
	"errors"

	"solana-sandwich-lab/internal/domain"
)

// ErrMisaligned is returned when front-run and back-run directions do not
// round-trip through a common asset, so no spent/received pair exists.
var ErrMisaligned = errors.New("front/back run directions do not align")

// Attribute derives a profit record from one sandwich. Exactly one flow
// alignment must hold:
//
//   - front.token_in == back.token_out: the bot spends and recovers that
//     mint (spent = front.amount_in, received = back.amount_out), or
//   - front.token_out == back.token_in: the round trip runs through the
//     acquired mint (spent = front.amount_out, received = back.amount_in).
//
// Profit in USD uses the received token's price (0 when unknown); the SOL
// figure divides by solPrice and stays 0 when solPrice is 0. Reference
// pricing is best-effort, not an error.
func Attribute(s *domain.Sandwich, id int, prices map[string]float64, solPrice float64) (*domain.ProfitRecord, error) {
	fr, br := s.FrontRun, s.BackRun

	var token string
	var spent, received float64
	switch {
	case fr.TokenIn == br.TokenOut:
		token = fr.TokenIn
		spent = fr.AmountIn
		received = br.AmountOut
	case fr.TokenOut == br.TokenIn:
		token = fr.TokenOut
		spent = fr.AmountOut
		received = br.AmountIn
	default:
		return nil, ErrMisaligned
	}

	profitRaw := received - spent
	profitUSD := profitRaw * prices[token]
	profitSOL := 0.0
	if solPrice != 0 {
		profitSOL = profitUSD / solPrice
	}

	return &domain.ProfitRecord{
		SandwichID:     id,
		Bot:            s.Metadata.BotWallet,
		TokenSpent:     token,
		AmountSpent:    spent,
		TokenReceived:  token,
		AmountReceived: received,
		ProfitRaw:      profitRaw,
		ProfitUSD:      profitUSD,
		ProfitSOL:      profitSOL,
		FrontRun:       s.FrontRun,
		Victim:         s.Victim,
		BackRun:        s.BackRun,
	}, nil
}

// CollectMints returns the deduplicated union of every mint referenced by
// any leg of any sandwich, in first-seen order.
func CollectMints(sandwiches []*domain.Sandwich) []string {
	seen := make(map[string]struct{})
	var mints []string
	add := func(m string) {
		if m == "" {
			return
		}
		if _, ok := seen[m]; ok {
			return
		}
		seen[m] = struct{}{}
		mints = append(mints, m)
	}

	for _, s := range sandwiches {
		for _, leg := range []*domain.SwapTransaction{s.FrontRun, s.Victim, s.BackRun} {
			if leg == nil {
				continue
			}
			add(leg.TokenIn)
			add(leg.TokenOut)
		}
	}
	return mints
}
