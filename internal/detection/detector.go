// Package detection implements the wide-sandwich matcher: a same-direction
// front-run, a victim swap, and an opposite-direction back-run by the same
// wallet within a bounded slot window.
package detection

import (
	"solana-sandwich-lab/internal/domain"
)

// DefaultMaxSlotGap bounds the distance between front-run and victim, and
// between victim and back-run.
const DefaultMaxSlotGap = 4

// Options configures a Detector.
type Options struct {
	// MaxSlotGap is the maximum slot distance for each sandwich half.
	// Defaults to DefaultMaxSlotGap when zero.
	MaxSlotGap int64

	// Exclusive prevents a swap consumed by one sandwich from appearing in
	// later candidates. Off by default: a victim hit by several bots is
	// reported once per bot.
	Exclusive bool
}

// Detector finds wide sandwiches in an ordered swap sequence.
type Detector struct {
	maxSlotGap int64
	exclusive  bool
}

// NewDetector creates a detector.
func NewDetector(opts Options) *Detector {
	gap := opts.MaxSlotGap
	if gap == 0 {
		gap = DefaultMaxSlotGap
	}
	return &Detector{
		maxSlotGap: gap,
		exclusive:  opts.Exclusive,
	}
}

// Detect scans swaps for sandwich triples. The input must be sorted by
// (slot, tx_index); Detect sorts a copy defensively so callers holding a
// shared slice are not mutated. Output order is victim order, and the
// function is deterministic for a fixed input.
func (d *Detector) Detect(swaps []*domain.SwapTransaction) []*domain.Sandwich {
	txs := make([]*domain.SwapTransaction, len(swaps))
	copy(txs, swaps)
	SortSwaps(txs)

	var sandwiches []*domain.Sandwich
	used := make(map[string]bool)

	for i, victim := range txs {
		if d.exclusive && used[victim.Signature] {
			continue
		}

		// Backward scan: every same-direction swap by another wallet within
		// the slot window is a front-run candidate.
		var frontRuns []*domain.SwapTransaction
		for j := 0; j < i; j++ {
			fr := txs[j]
			if fr.Signer == victim.Signer {
				continue
			}
			if victim.Slot-fr.Slot > d.maxSlotGap {
				continue
			}
			if !fr.SameDirection(victim) {
				continue
			}
			if d.exclusive && used[fr.Signature] {
				continue
			}
			frontRuns = append(frontRuns, fr)
		}

		for _, frontRun := range frontRuns {
			if d.exclusive && (used[frontRun.Signature] || used[victim.Signature]) {
				continue
			}

			back := d.findBackRun(txs, i, victim, frontRun.Signer, used)
			if back == nil {
				continue
			}

			sandwiches = append(sandwiches, buildSandwich(frontRun, victim, back))
			used[frontRun.Signature] = true
			used[victim.Signature] = true
			used[back.Signature] = true
		}
	}

	return sandwiches
}

// findBackRun scans forward from the victim for the first opposite-direction
// swap by the bot. First match wins; the scan stops once the slot gap is
// exceeded.
func (d *Detector) findBackRun(txs []*domain.SwapTransaction, victimIdx int, victim *domain.SwapTransaction, bot string, used map[string]bool) *domain.SwapTransaction {
	for k := victimIdx + 1; k < len(txs); k++ {
		back := txs[k]
		if back.Slot-victim.Slot > d.maxSlotGap {
			break
		}
		if back.Signer != bot {
			continue
		}
		if !back.OppositeDirection(victim) {
			continue
		}
		if d.exclusive && used[back.Signature] {
			continue
		}
		return back
	}
	return nil
}

// buildSandwich assembles the candidate and its metadata.
func buildSandwich(frontRun, victim, back *domain.SwapTransaction) *domain.Sandwich {
	return &domain.Sandwich{
		FrontRun: frontRun,
		Victim:   victim,
		BackRun:  back,
		Metadata: domain.AttackMetadata{
			SlotGapFrontToVictim:   victim.Slot - frontRun.Slot,
			SlotGapVictimToBackrun: back.Slot - victim.Slot,
			SlotGapFrontToBackrun:  back.Slot - frontRun.Slot,
			TokenPair:            [2]string{victim.TokenIn, victim.TokenOut},
			BotWallet:            frontRun.Signer,
			VictimWallet:         victim.Signer,
			IsOppositeDirection:  true,
		},
	}
}
