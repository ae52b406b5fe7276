package span

import (
	"testing"
)

func TestCompareTexts(t *testing.T) {
	tests := []struct {
		name             string
		reference        string
		candidate        string
		alphanumericOnly bool
		wantPercentage   float64
		wantMismatches   int
	}{
		{
			name:           "same multiset ignores order",
			reference:      "abc",
			candidate:      "bca",
			wantPercentage: 100,
			wantMismatches: 0,
		},
		{
			name:           "whitespace and case ignored",
			reference:      "Hel sinki",
			candidate:      "HELSINKI",
			wantPercentage: 100,
			wantMismatches: 0,
		},
		{
			name:           "completely different",
			reference:      "aaa",
			candidate:      "bbb",
			wantPercentage: 0,
			wantMismatches: 6,
		},
		{
			name:             "punctuation ignored when alphanumeric only",
			reference:        "Helsinki, 1923!",
			candidate:        "helsinki 1923",
			alphanumericOnly: true,
			wantPercentage:   100,
			wantMismatches:   0,
		},
		{
			name:           "punctuation counts otherwise",
			reference:      "Helsinki, 1923!",
			candidate:      "helsinki 1923",
			wantPercentage: 100 * 12.0 / 14.0,
			wantMismatches: 2,
		},
		{
			name:           "both empty",
			reference:      "",
			candidate:      "",
			wantPercentage: 0,
			wantMismatches: 0,
		},
		{
			name:             "diacritics survive the alphanumeric filter",
			reference:        "Hämeenlinna",
			candidate:        "hämeenlinna",
			alphanumericOnly: true,
			wantPercentage:   100,
			wantMismatches:   0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := CompareTexts(tt.reference, tt.candidate, tt.alphanumericOnly)
			if got.MatchPercentage != tt.wantPercentage {
				t.Errorf("MatchPercentage = %v, want %v", got.MatchPercentage, tt.wantPercentage)
			}
			if got.Mismatches != tt.wantMismatches {
				t.Errorf("Mismatches = %d, want %d", got.Mismatches, tt.wantMismatches)
			}
		})
	}
}
