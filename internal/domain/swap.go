package domain

// SOLMint is the wrapped SOL mint address, used as the common profit
// denominator.
const SOLMint = "So11111111111111111111111111111111111111112"

// UnknownTxIndex is the sentinel for swaps whose position within the slot is
// unknown. It is larger than any real index so index-less swaps sort last
// within their slot.
const UnknownTxIndex = 99999

// SwapTransaction is a canonical swap record extracted from one transaction.
// It is immutable once produced by the extractor.
type SwapTransaction struct {
	Signature   string  `json:"signature"`    // transaction signature (unique)
	Slot        int64   `json:"slot"`         // Solana slot number
	TxIndex     int     `json:"tx_index"`     // position within slot, UnknownTxIndex if absent
	Signer      string  `json:"signer"`       // fee payer / primary signer
	SwapProgram string  `json:"swap_program"` // venue name (e.g. "Raydium AMM")
	PoolName    string  `json:"pool_name"`    // resolved pool name, defaults to venue
	TokenIn     string  `json:"token_in"`     // mint spent by the signer
	TokenOut    string  `json:"token_out"`    // mint received by the signer
	AmountIn    float64 `json:"amount_in"`    // amount spent, token units
	AmountOut   float64 `json:"amount_out"`   // amount received, token units
	PriorityFee uint64  `json:"priority_fee"` // lamports, best-effort
	TipAccount  *string `json:"tip_account"`  // tip recipient, nil if none detected
	TipAmount   uint64  `json:"tip_amount"`   // lamports, best-effort
}

// SameDirection reports whether s and other trade the same pair the same way.
func (s *SwapTransaction) SameDirection(other *SwapTransaction) bool {
	return s.TokenIn == other.TokenIn && s.TokenOut == other.TokenOut
}

// OppositeDirection reports whether s trades the reverse of other.
func (s *SwapTransaction) OppositeDirection(other *SwapTransaction) bool {
	return s.TokenIn == other.TokenOut && s.TokenOut == other.TokenIn
}
