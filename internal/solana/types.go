package solana

// SignatureInfo is one entry from getSignaturesForAddress. A non-nil Err
// means the transaction failed on chain; the scanner never fetches those.
type SignatureInfo struct {
	Signature string
	Slot      int64
	BlockTime *int64
	Err       interface{}
}

// SignaturesOpts carries the pagination parameters of
// getSignaturesForAddress. Zero values mean the RPC defaults.
type SignaturesOpts struct {
	Before string // walk backwards starting from this signature
	Until  string // stop once this signature is reached
	Limit  int    // max signatures per call
}

// Block is a fetched block with its transactions in ledger order. TxIndex
// on each transaction is the position within this slice.
type Block struct {
	Slot         int64
	BlockTime    *int64
	Transactions []Transaction
}
