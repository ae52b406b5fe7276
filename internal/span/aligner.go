// Package span scores a candidate transcription against a hand-verified
// reference using a two-level alignment: multi-line spans are matched
// first, then word- and character-level error rates are computed over the
// matched spans. Matching spans instead of lines tolerates reordering and
// line-wrapping differences between the two texts.
package span

import (
	"regexp"
	"sort"
	"strings"

	"github.com/mikkohei13/mocodigi/internal/textmetric"
)

const (
	// References may wrap one logical label over more physical lines than
	// the candidate, hence the asymmetric window sizes.
	maxReferenceSpanLines = 3
	maxCandidateSpanLines = 2

	// Span pairs less similar than this are never matched.
	minSimilarity = 0.5
)

// Span is a half-open line range [Start, End) of one text plus the joined,
// line-trimmed text of those lines.
type Span struct {
	Start int
	End   int
	Text  string
}

// Lines returns the number of lines the span covers.
func (s Span) Lines() int {
	return s.End - s.Start
}

// Match pairs a reference span with a candidate span. Accepted matches for
// one scoring call never overlap on either side's line ranges.
type Match struct {
	Reference  Span
	Candidate  Span
	Similarity float64
}

// Report carries the error rates for one reference/candidate pair. Rates
// are percentages and can exceed 100 when the candidate inserts more text
// than the reference contains.
type Report struct {
	WordErrorRate           float64 `json:"word_error_rate" yaml:"worderrorrate"`
	CharErrorRate           float64 `json:"char_error_rate" yaml:"charerrorrate"`
	MatchedSpans            int     `json:"matched_spans" yaml:"matchedspans"`
	UnmatchedReferenceLines int     `json:"unmatched_reference_lines" yaml:"unmatchedreferencelines"`
	UnmatchedCandidateLines int     `json:"unmatched_candidate_lines" yaml:"unmatchedcandidatelines"`

	// Denominators, useful when aggregating over many specimens.
	ReferenceWords int `json:"reference_words" yaml:"referencewords"`
	ReferenceChars int `json:"reference_chars" yaml:"referencechars"`

	// Matches lists the accepted span pairs in acceptance order.
	Matches []Match `json:"-" yaml:"-"`
}

// Score aligns candidate against reference and returns the error report.
// Both degenerate cases are defined: an empty reference scores 0 on both
// rates regardless of the candidate's unmatched-line counts.
func Score(reference, candidate string) Report {
	refLines := splitLines(reference)
	candLines := splitLines(candidate)

	refSpans := buildSpans(refLines, maxReferenceSpanLines)
	candSpans := buildSpans(candLines, maxCandidateSpanLines)

	candidates := pairCandidates(refSpans, candSpans)
	accepted := selectMatches(candidates, len(refLines), len(candLines))

	return scoreMatches(accepted, refLines, candLines)
}

type pairCandidate struct {
	match    Match
	normRef  string
	normCand string
}

func pairCandidates(refSpans, candSpans []Span) []pairCandidate {
	normRefs := make([]string, len(refSpans))
	for i, s := range refSpans {
		normRefs[i] = normalizeSpanText(s.Text)
	}
	normCands := make([]string, len(candSpans))
	for i, s := range candSpans {
		normCands[i] = normalizeSpanText(s.Text)
	}

	var candidates []pairCandidate
	for i, rs := range refSpans {
		if normRefs[i] == "" {
			continue
		}
		for j, cs := range candSpans {
			if normCands[j] == "" {
				continue
			}
			similarity := similarity(normRefs[i], normCands[j])
			if similarity < minSimilarity {
				continue
			}
			candidates = append(candidates, pairCandidate{
				match:    Match{Reference: rs, Candidate: cs, Similarity: similarity},
				normRef:  normRefs[i],
				normCand: normCands[j],
			})
		}
	}
	return candidates
}

// selectMatches greedily accepts span pairs by descending similarity, then
// descending total span size, then position. This approximates maximum-
// weight matching; the exact sort key is part of the contract because it
// makes scores reproducible.
func selectMatches(candidates []pairCandidate, refLineCount, candLineCount int) []pairCandidate {
	sort.Slice(candidates, func(i, j int) bool {
		a, b := candidates[i].match, candidates[j].match
		if a.Similarity != b.Similarity {
			return a.Similarity > b.Similarity
		}
		aSize := a.Reference.Lines() + a.Candidate.Lines()
		bSize := b.Reference.Lines() + b.Candidate.Lines()
		if aSize != bSize {
			return aSize > bSize
		}
		if a.Reference.Start != b.Reference.Start {
			return a.Reference.Start < b.Reference.Start
		}
		return a.Candidate.Start < b.Candidate.Start
	})

	refUsed := make([]bool, refLineCount)
	candUsed := make([]bool, candLineCount)

	var accepted []pairCandidate
	for _, c := range candidates {
		if rangeUsed(refUsed, c.match.Reference) || rangeUsed(candUsed, c.match.Candidate) {
			continue
		}
		markRange(refUsed, c.match.Reference)
		markRange(candUsed, c.match.Candidate)
		accepted = append(accepted, c)
	}
	return accepted
}

func scoreMatches(accepted []pairCandidate, refLines, candLines []string) Report {
	report := Report{MatchedSpans: len(accepted)}

	refUsed := make([]bool, len(refLines))
	candUsed := make([]bool, len(candLines))

	var refWords, refChars, wordErrors, charErrors int

	for _, c := range accepted {
		markRange(refUsed, c.match.Reference)
		markRange(candUsed, c.match.Candidate)
		report.Matches = append(report.Matches, c.match)

		refTokens := strings.Fields(c.normRef)
		candTokens := strings.Fields(c.normCand)
		wordErrors += textmetric.TokenLevenshtein(refTokens, candTokens)
		refWords += len(refTokens)

		refCompact := strings.ReplaceAll(c.normRef, " ", "")
		candCompact := strings.ReplaceAll(c.normCand, " ", "")
		charErrors += textmetric.Levenshtein(refCompact, candCompact)
		refChars += len([]rune(refCompact))
	}

	// Unmatched reference lines count fully as deletions; unmatched
	// candidate lines count fully as insertions without growing the
	// reference denominators.
	for i, line := range refLines {
		if refUsed[i] || strings.TrimSpace(line) == "" {
			continue
		}
		report.UnmatchedReferenceLines++
		norm := normalizeSpanText(line)
		tokens := len(strings.Fields(norm))
		chars := len([]rune(strings.ReplaceAll(norm, " ", "")))
		refWords += tokens
		wordErrors += tokens
		refChars += chars
		charErrors += chars
	}
	for i, line := range candLines {
		if candUsed[i] || strings.TrimSpace(line) == "" {
			continue
		}
		report.UnmatchedCandidateLines++
		norm := normalizeSpanText(line)
		wordErrors += len(strings.Fields(norm))
		charErrors += len([]rune(strings.ReplaceAll(norm, " ", "")))
	}

	report.ReferenceWords = refWords
	report.ReferenceChars = refChars
	if refWords > 0 {
		report.WordErrorRate = 100 * float64(wordErrors) / float64(refWords)
	}
	if refChars > 0 {
		report.CharErrorRate = 100 * float64(charErrors) / float64(refChars)
	}
	return report
}

// buildSpans generates every span of 1..maxLines consecutive lines whose
// joined trimmed text is non-empty.
func buildSpans(lines []string, maxLines int) []Span {
	var spans []Span
	for size := 1; size <= maxLines; size++ {
		for start := 0; start+size <= len(lines); start++ {
			text := joinTrimmed(lines[start : start+size])
			if text == "" {
				continue
			}
			spans = append(spans, Span{Start: start, End: start + size, Text: text})
		}
	}
	return spans
}

func joinTrimmed(lines []string) string {
	parts := make([]string, 0, len(lines))
	for _, line := range lines {
		if trimmed := strings.TrimSpace(line); trimmed != "" {
			parts = append(parts, trimmed)
		}
	}
	return strings.Join(parts, " ")
}

var nonAlnumRun = regexp.MustCompile(`[^\p{L}\p{N}]+`)

// normalizeSpanText case-folds, replaces every character that is not a
// letter or digit with a space and collapses whitespace.
func normalizeSpanText(text string) string {
	text = strings.ToLower(text)
	text = nonAlnumRun.ReplaceAllString(text, " ")
	return strings.Join(strings.Fields(text), " ")
}

// similarity is 1 - d/max over the normalized texts, counted in runes.
func similarity(normRef, normCand string) float64 {
	maxLen := max(len([]rune(normRef)), len([]rune(normCand)))
	if maxLen == 0 {
		return 0
	}
	distance := textmetric.Levenshtein(normRef, normCand)
	return 1 - float64(distance)/float64(maxLen)
}

func splitLines(text string) []string {
	if text == "" {
		return nil
	}
	lines := strings.Split(text, "\n")
	for i, line := range lines {
		lines[i] = strings.TrimSuffix(line, "\r")
	}
	return lines
}

func rangeUsed(used []bool, s Span) bool {
	for i := s.Start; i < s.End; i++ {
		if used[i] {
			return true
		}
	}
	return false
}

func markRange(used []bool, s Span) {
	for i := s.Start; i < s.End; i++ {
		used[i] = true
	}
}
