package domain

// AttackMetadata summarizes the shape of a detected sandwich.
type AttackMetadata struct {
	SlotGapFrontToVictim   int64     `json:"slot_gap_front_to_victim"`
	SlotGapVictimToBackrun int64     `json:"slot_gap_victim_to_backrun"`
	SlotGapFrontToBackrun  int64     `json:"slot_gap_front_to_backrun"`
	TokenPair              [2]string `json:"token_pair"` // victim's (token_in, token_out)
	BotWallet              string    `json:"bot_wallet"`
	VictimWallet           string    `json:"victim_wallet"`
	IsOppositeDirection    bool      `json:"is_opposite_direction"`
}

// Sandwich is one detected front-run / victim / back-run triple.
// All three legs are read-only after detection.
type Sandwich struct {
	FrontRun *SwapTransaction `json:"front_run"`
	Victim   *SwapTransaction `json:"victim"`
	BackRun  *SwapTransaction `json:"back_run"`
	Metadata AttackMetadata   `json:"attack_metadata"`
}
