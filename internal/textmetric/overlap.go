package textmetric

import (
	"regexp"
	"strings"
	"unicode"
)

// Direction tells which fragment comes first in a suffix/prefix overlap.
type Direction int

const (
	NoOverlap Direction = iota
	FirstThenSecond
	SecondThenFirst
)

// Redundancy tells which of two fragments is covered by the other.
type Redundancy int

const (
	NoRelation Redundancy = iota
	FirstRedundant
	SecondRedundant
)

// DefaultDuplicateThreshold is the longest-common-substring ratio above
// which two fragments count as duplicates of the same label.
const DefaultDuplicateThreshold = 0.80

var nonAlnum = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// OverlapLength returns the longest overlap of at least minOverlap runes
// between the suffix of one string and the prefix of the other,
// case-insensitively, together with the direction that won. When both
// directions reach the same length, first-then-second wins.
func OverlapLength(s1, s2 string, minOverlap int) (int, Direction) {
	r1 := lowerRunes(s1)
	r2 := lowerRunes(s2)

	limit := min(len(r1), len(r2))
	best := 0
	direction := NoOverlap

	for k := minOverlap; k <= limit; k++ {
		if k > best && runesEqual(r1[len(r1)-k:], r2[:k]) {
			best = k
			direction = FirstThenSecond
		}
	}
	for k := minOverlap; k <= limit; k++ {
		if k > best && runesEqual(r2[len(r2)-k:], r1[:k]) {
			best = k
			direction = SecondThenFirst
		}
	}

	return best, direction
}

// ContainmentOrDuplicate decides whether one of two fragments is redundant:
// either contained in the other (directly, or after stripping everything
// that is not a letter or digit), or a near-duplicate by
// longest-common-substring ratio over the stripped forms. Near-duplicates
// keep the longer original; exact mutual containment keeps the first.
func ContainmentOrDuplicate(s1, s2 string, threshold float64) Redundancy {
	l1 := strings.ToLower(s1)
	l2 := strings.ToLower(s2)

	if strings.Contains(l1, l2) {
		return SecondRedundant
	}
	if strings.Contains(l2, l1) {
		return FirstRedundant
	}

	p1 := nonAlnum.ReplaceAllString(l1, "")
	p2 := nonAlnum.ReplaceAllString(l2, "")
	if p1 == "" || p2 == "" {
		return NoRelation
	}
	if strings.Contains(p1, p2) {
		return SecondRedundant
	}
	if strings.Contains(p2, p1) {
		return FirstRedundant
	}

	lcs := LongestCommonSubstring(p1, p2)
	shorter := min(len([]rune(p1)), len([]rune(p2)))
	if float64(lcs)/float64(shorter) >= threshold {
		if len([]rune(s1)) >= len([]rune(s2)) {
			return SecondRedundant
		}
		return FirstRedundant
	}

	return NoRelation
}

// LongestCommonSubstring returns the length in runes of the longest
// contiguous substring shared by a and b.
func LongestCommonSubstring(a, b string) int {
	ra := []rune(a)
	rb := []rune(b)
	if len(ra) == 0 || len(rb) == 0 {
		return 0
	}

	prev := make([]int, len(rb)+1)
	curr := make([]int, len(rb)+1)
	best := 0

	for i := 1; i <= len(ra); i++ {
		for j := 1; j <= len(rb); j++ {
			if ra[i-1] == rb[j-1] {
				curr[j] = prev[j-1] + 1
				if curr[j] > best {
					best = curr[j]
				}
			} else {
				curr[j] = 0
			}
		}
		prev, curr = curr, prev
	}

	return best
}

// lowerRunes lowercases rune by rune so the rune count never changes,
// keeping overlap lengths valid as slice offsets into the original.
func lowerRunes(s string) []rune {
	runes := []rune(s)
	for i, r := range runes {
		runes[i] = unicode.ToLower(r)
	}
	return runes
}

func runesEqual(a, b []rune) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
