package domain

// ProfitRecord quantifies the profit extracted by one sandwich.
// TokenSpent and TokenReceived are always the same mint: the bot round-trips
// through the victim's trade, so a successful attribution starts and ends in
// one asset.
type ProfitRecord struct {
	SandwichID     int     `json:"sandwich_id"` // 1-based position in the input batch
	Bot            string  `json:"bot"`
	TokenSpent     string  `json:"token_spent"`
	AmountSpent    float64 `json:"amount_spent"`
	TokenReceived  string  `json:"token_received"`
	AmountReceived float64 `json:"amount_received"`
	ProfitRaw      float64 `json:"profit_raw"` // received - spent, token units; negative is a loss
	ProfitUSD      float64 `json:"profit_usd"` // 0 when the token price is unknown
	ProfitSOL      float64 `json:"profit_sol"` // 0 when the SOL price is unknown

	// Original legs, kept for audit. Not owned: these point into the
	// originating Sandwich.
	FrontRun *SwapTransaction `json:"front_run"`
	Victim   *SwapTransaction `json:"victim"`
	BackRun  *SwapTransaction `json:"back_run"`
}

// BotSummary aggregates profit records for one bot wallet.
type BotSummary struct {
	Bot           string  `json:"bot"`
	SandwichCount int     `json:"sandwich_count"`
	ProfitUSD     float64 `json:"profit_usd"`
	ProfitSOL     float64 `json:"profit_sol"`
}

// AnalysisSummary is the headline result of one profit analysis run.
type AnalysisSummary struct {
	TotalSandwiches int           `json:"total_sandwiches"`
	ProfitableCount int           `json:"profitable_count"`
	LossCount       int           `json:"loss_count"`
	MaxProfitUSD    float64       `json:"max_profit_usd"`
	MaxProfitSOL    float64       `json:"max_profit_sol"`
	TotalProfitUSD  float64       `json:"total_profit_usd"`
	TotalProfitSOL  float64       `json:"total_profit_sol"`
	SOLPriceUSD     float64       `json:"sol_price_usd"`
	TopBots         []*BotSummary `json:"top_bots"`
}
