package span

import (
	"testing"
)

func TestScoreIdenticalTexts(t *testing.T) {
	text := "Lapponia inarensis\nleg. Koponen 1923"

	report := Score(text, text)

	if report.WordErrorRate != 0 {
		t.Errorf("WER = %v, want 0", report.WordErrorRate)
	}
	if report.CharErrorRate != 0 {
		t.Errorf("CER = %v, want 0", report.CharErrorRate)
	}
	if report.UnmatchedReferenceLines != 0 || report.UnmatchedCandidateLines != 0 {
		t.Errorf("unmatched lines = %d/%d, want 0/0",
			report.UnmatchedReferenceLines, report.UnmatchedCandidateLines)
	}
	if report.MatchedSpans == 0 {
		t.Error("expected at least one matched span")
	}
}

func TestScoreToleratesCaseAndPunctuation(t *testing.T) {
	report := Score("Helsinki\n1923", "helsinki, 1923")

	if report.WordErrorRate != 0 {
		t.Errorf("WER = %v, want 0 after normalization", report.WordErrorRate)
	}
	if report.CharErrorRate != 0 {
		t.Errorf("CER = %v, want 0 after normalization", report.CharErrorRate)
	}
	if report.MatchedSpans != 1 {
		t.Errorf("matched spans = %d, want 1 (wrapped lines fuse into one span)", report.MatchedSpans)
	}
}

func TestScoreUnmatchedReferenceLines(t *testing.T) {
	// Second reference line has no counterpart: its words and characters
	// count fully as deletions.
	report := Score("Helsinki 1923\nleg. Koponen", "Helsinki 1923")

	if report.UnmatchedReferenceLines != 1 {
		t.Errorf("unmatched reference lines = %d, want 1", report.UnmatchedReferenceLines)
	}
	// 2 matched words + 2 deleted words, 2 errors.
	if want := 100 * 2.0 / 4.0; report.WordErrorRate != want {
		t.Errorf("WER = %v, want %v", report.WordErrorRate, want)
	}
}

func TestScoreUnmatchedCandidateLines(t *testing.T) {
	// Hallucinated candidate line: insertions raise the error counts but
	// not the reference denominator.
	report := Score("Helsinki 1923", "Helsinki 1923\nimaginary extra line")

	if report.UnmatchedCandidateLines != 1 {
		t.Errorf("unmatched candidate lines = %d, want 1", report.UnmatchedCandidateLines)
	}
	if report.ReferenceWords != 2 {
		t.Errorf("reference words = %d, want 2", report.ReferenceWords)
	}
	// 3 inserted words over a 2-word reference: 150%.
	if want := 100 * 3.0 / 2.0; report.WordErrorRate != want {
		t.Errorf("WER = %v, want %v", report.WordErrorRate, want)
	}
}

func TestScoreEmptyReference(t *testing.T) {
	report := Score("", "whatever text")

	if report.WordErrorRate != 0 || report.CharErrorRate != 0 {
		t.Errorf("rates = %v/%v, want 0/0 for empty reference",
			report.WordErrorRate, report.CharErrorRate)
	}
	if report.UnmatchedCandidateLines != 1 {
		t.Errorf("unmatched candidate lines = %d, want 1", report.UnmatchedCandidateLines)
	}
}

func TestScoreBothEmpty(t *testing.T) {
	report := Score("", "")

	if report.WordErrorRate != 0 || report.CharErrorRate != 0 || report.MatchedSpans != 0 {
		t.Errorf("empty inputs: got %+v, want all-zero report", report)
	}
}

func TestScoreReordering(t *testing.T) {
	// Same labels transcribed in a different order still matches span for
	// span: alignment tolerates reordering, so no errors accumulate.
	report := Score("Lapponia inarensis\nleg. Koponen", "leg. Koponen\nLapponia inarensis")

	if report.WordErrorRate != 0 {
		t.Errorf("WER = %v, want 0 for reordered lines", report.WordErrorRate)
	}
	if report.MatchedSpans != 2 {
		t.Errorf("matched spans = %d, want 2", report.MatchedSpans)
	}
}

func TestScoreSubstitutionRate(t *testing.T) {
	// One substituted word out of two.
	report := Score("Helsinki 1923", "Helsinki 1924")

	if want := 100 * 1.0 / 2.0; report.WordErrorRate != want {
		t.Errorf("WER = %v, want %v", report.WordErrorRate, want)
	}
	// One substituted character out of 12 ("helsinki1923").
	if want := 100 * 1.0 / 12.0; report.CharErrorRate != want {
		t.Errorf("CER = %v, want %v", report.CharErrorRate, want)
	}
}

func TestScoreIdempotent(t *testing.T) {
	reference := "Lapponia inarensis\nleg. Koponen et Ahti\n1923"
	candidate := "Lapponia inarensis, leg. Koponen & Ahti 1923"

	first := Score(reference, candidate)
	second := Score(reference, candidate)

	if first.WordErrorRate != second.WordErrorRate || first.CharErrorRate != second.CharErrorRate ||
		first.MatchedSpans != second.MatchedSpans {
		t.Errorf("repeated scoring disagrees: %+v vs %+v", first, second)
	}
}
