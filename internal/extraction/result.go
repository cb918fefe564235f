package extraction

import (
	"fmt"
	"sort"
	"strings"
)

// Reason explains why a transaction did not yield a swap record.
// ReasonNone accompanies every successful extraction. Reasons replace
// silent drops so batch runs can report what was skipped and why.
type Reason int

const (
	// ReasonNone means extraction succeeded.
	ReasonNone Reason = iota
	// ReasonMissingMeta means the transaction lacks meta or message data.
	ReasonMissingMeta
	// ReasonFailedTx means the transaction errored on chain.
	ReasonFailedTx
	// ReasonNotSwap means no monitored swap program was identified.
	ReasonNotSwap
	// ReasonNoSigner means the account key list is empty.
	ReasonNoSigner
	// ReasonAmbiguousFlow means no unambiguous in/out delta pair was found.
	ReasonAmbiguousFlow
)

// String returns the reason name.
func (r Reason) String() string {
	switch r {
	case ReasonNone:
		return "ok"
	case ReasonMissingMeta:
		return "missing_meta"
	case ReasonFailedTx:
		return "failed_tx"
	case ReasonNotSwap:
		return "not_swap"
	case ReasonNoSigner:
		return "no_signer"
	case ReasonAmbiguousFlow:
		return "ambiguous_flow"
	default:
		return fmt.Sprintf("reason(%d)", int(r))
	}
}

// Stats counts extraction outcomes across a batch.
type Stats struct {
	Extracted int
	Skipped   map[Reason]int
}

// NewStats creates an empty Stats.
func NewStats() *Stats {
	return &Stats{Skipped: make(map[Reason]int)}
}

// Record tallies one extraction outcome.
func (s *Stats) Record(r Reason) {
	if r == ReasonNone {
		s.Extracted++
		return
	}
	s.Skipped[r]++
}

// Merge folds another Stats into s.
func (s *Stats) Merge(other *Stats) {
	if other == nil {
		return
	}
	s.Extracted += other.Extracted
	for r, n := range other.Skipped {
		s.Skipped[r] += n
	}
}

// TotalSkipped returns the number of skipped transactions.
func (s *Stats) TotalSkipped() int {
	total := 0
	for _, n := range s.Skipped {
		total += n
	}
	return total
}

// String renders the stats in a stable order for logging.
func (s *Stats) String() string {
	reasons := make([]Reason, 0, len(s.Skipped))
	for r := range s.Skipped {
		reasons = append(reasons, r)
	}
	sort.Slice(reasons, func(i, j int) bool { return reasons[i] < reasons[j] })

	var b strings.Builder
	fmt.Fprintf(&b, "extracted=%d skipped=%d", s.Extracted, s.TotalSkipped())
	for _, r := range reasons {
		fmt.Fprintf(&b, " %s=%d", r, s.Skipped[r])
	}
	return b.String()
}
