package span

import (
	"strings"
	"unicode"
)

// TextComparison is the order-insensitive character multiset metric: how
// many characters the two texts share regardless of position. It is a cheap
// sanity check alongside WER/CER, not a replacement for them.
type TextComparison struct {
	MatchPercentage float64 `json:"match_percentage" yaml:"matchpercentage"`
	Matches         int     `json:"matches" yaml:"matches"`
	Mismatches      int     `json:"mismatches" yaml:"mismatches"`
}

// CompareTexts strips all whitespace from both texts, lowercases them and
// optionally keeps only letters and digits (Unicode-aware, so diacritics
// survive), then compares the per-character multisets.
func CompareTexts(reference, candidate string, alphanumericOnly bool) TextComparison {
	refCounts := runeCounts(reference, alphanumericOnly)
	candCounts := runeCounts(candidate, alphanumericOnly)

	var matches, mismatches int
	for r, refCount := range refCounts {
		candCount := candCounts[r]
		matches += min(refCount, candCount)
		mismatches += abs(refCount - candCount)
	}
	for r, candCount := range candCounts {
		if _, ok := refCounts[r]; !ok {
			mismatches += candCount
		}
	}

	comparison := TextComparison{Matches: matches, Mismatches: mismatches}
	if total := matches + mismatches; total > 0 {
		comparison.MatchPercentage = 100 * float64(matches) / float64(total)
	}
	return comparison
}

func runeCounts(text string, alphanumericOnly bool) map[rune]int {
	counts := make(map[rune]int)
	for _, r := range strings.ToLower(text) {
		if unicode.IsSpace(r) {
			continue
		}
		if alphanumericOnly && !unicode.IsLetter(r) && !unicode.IsNumber(r) {
			continue
		}
		counts[r]++
	}
	return counts
}

func abs(n int) int {
	if n < 0 {
		return -n
	}
	return n
}
