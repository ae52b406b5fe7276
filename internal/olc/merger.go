// Package olc assembles one continuous label text from overlapping
// transcript fragments, borrowing the overlap-layout-consensus strategy
// from sequence assembly.
package olc

import (
	"strings"

	"github.com/mikkohei13/mocodigi/internal/textmetric"
)

// Merger fuses transcript fragments by their suffix/prefix overlaps.
//
// Two behaviors exist in the field and the choice is observable in the
// output, so both are kept selectable. With Dedup off the merge is the pure
// greedy overlap loop, and when nothing overlaps the remainder is joined
// with spaces. With Dedup on, contained and near-duplicate fragments are
// removed first in a single left-to-right sweep, and when nothing overlaps
// the longest surviving fragment is returned on the theory that it is the
// most complete reading.
type Merger struct {
	// MinOverlap is the shortest accepted suffix/prefix overlap, in runes.
	MinOverlap int
	// Dedup enables the redundancy sweep before the overlap loop.
	Dedup bool
	// DuplicateThreshold is the longest-common-substring ratio at which
	// two fragments count as duplicates during the sweep.
	DuplicateThreshold float64
}

// NewMerger returns a Merger with the production defaults.
func NewMerger() *Merger {
	return &Merger{
		MinOverlap:         3,
		Dedup:              true,
		DuplicateThreshold: textmetric.DefaultDuplicateThreshold,
	}
}

// Merge fuses the fragments into one text. It never fails: no non-empty
// input yields "", a single fragment is returned as is.
func (m *Merger) Merge(fragments []string) string {
	live := make([]string, 0, len(fragments))
	for _, f := range fragments {
		if trimmed := strings.TrimSpace(f); trimmed != "" {
			live = append(live, trimmed)
		}
	}

	if len(live) == 0 {
		return ""
	}
	if len(live) == 1 {
		return live[0]
	}

	if m.Dedup {
		live = m.dropRedundant(live)
		if len(live) == 1 {
			return live[0]
		}
	}

	for len(live) > 1 {
		bestOverlap := 0
		bestI, bestJ := 0, 0
		bestDirection := textmetric.NoOverlap

		// Global best pair across all remaining fragments. Ties keep the
		// first find in row-major pair order.
		for i := 0; i < len(live); i++ {
			for j := i + 1; j < len(live); j++ {
				overlap, direction := textmetric.OverlapLength(live[i], live[j], m.MinOverlap)
				if overlap > bestOverlap {
					bestOverlap = overlap
					bestI = i
					bestJ = j
					bestDirection = direction
				}
			}
		}

		if bestOverlap == 0 {
			if m.Dedup {
				return longest(live)
			}
			return strings.Join(live, " ")
		}

		var merged string
		if bestDirection == textmetric.FirstThenSecond {
			merged = fuse(live[bestI], live[bestJ], bestOverlap)
		} else {
			merged = fuse(live[bestJ], live[bestI], bestOverlap)
		}

		next := make([]string, 0, len(live)-1)
		for idx, f := range live {
			if idx != bestI && idx != bestJ {
				next = append(next, f)
			}
		}
		live = append(next, merged)
	}

	return live[0]
}

// dropRedundant removes fragments that are contained in, or near-duplicates
// of, another fragment. This is a single left-to-right sweep over pairs, not
// a fixed point: once dropped, a fragment is never compared again, so
// chained redundancy discovered out of order is not collapsed further.
func (m *Merger) dropRedundant(fragments []string) []string {
	dropped := make([]bool, len(fragments))

	for i := 0; i < len(fragments); i++ {
		if dropped[i] {
			continue
		}
		for j := i + 1; j < len(fragments); j++ {
			if dropped[j] {
				continue
			}
			switch textmetric.ContainmentOrDuplicate(fragments[i], fragments[j], m.DuplicateThreshold) {
			case textmetric.FirstRedundant:
				dropped[i] = true
			case textmetric.SecondRedundant:
				dropped[j] = true
			}
			if dropped[i] {
				break
			}
		}
	}

	kept := make([]string, 0, len(fragments))
	for i, f := range fragments {
		if !dropped[i] {
			kept = append(kept, f)
		}
	}
	return kept
}

// fuse appends to head the part of tail that extends past the overlap,
// preserving the original casing of both sides.
func fuse(head, tail string, overlap int) string {
	return head + string([]rune(tail)[overlap:])
}

func longest(fragments []string) string {
	best := fragments[0]
	for _, f := range fragments[1:] {
		if len([]rune(f)) > len([]rune(best)) {
			best = f
		}
	}
	return best
}
