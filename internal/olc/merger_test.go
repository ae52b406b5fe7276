package olc

import (
	"testing"
)

func TestMerge(t *testing.T) {
	tests := []struct {
		name      string
		fragments []string
		want      string
	}{
		{
			name:      "no fragments",
			fragments: nil,
			want:      "",
		},
		{
			name:      "only blank fragments",
			fragments: []string{"", "   ", "\n"},
			want:      "",
		},
		{
			name:      "single fragment unchanged",
			fragments: []string{"x"},
			want:      "x",
		},
		{
			name:      "two overlapping fragments",
			fragments: []string{"abcdef", "defghi"},
			want:      "abcdefghi",
		},
		{
			name:      "overlap works in either order",
			fragments: []string{"defghi", "abcdef"},
			want:      "abcdefghi",
		},
		{
			name:      "contained fragment is dropped",
			fragments: []string{"hello world", "world"},
			want:      "hello world",
		},
		{
			name:      "casing of the first part survives",
			fragments: []string{"abcDEF", "defghi"},
			want:      "abcDEFghi",
		},
		{
			name:      "three fragments chain together",
			fragments: []string{"abcdef", "cdefgh", "fghij"},
			want:      "abcdefghij",
		},
		{
			name:      "whitespace is trimmed before merging",
			fragments: []string{"  abcdef  ", "\tdefghi\n"},
			want:      "abcdefghi",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := NewMerger().Merge(tt.fragments)
			if got != tt.want {
				t.Errorf("Merge(%q) = %q, want %q", tt.fragments, got, tt.want)
			}
		})
	}
}

func TestMergePermutationInvariance(t *testing.T) {
	// Overlaps of distinct lengths (4 and 3), so the global-best selection
	// has no ties and must converge regardless of input order.
	permutations := [][]string{
		{"abcdef", "cdefgh", "fghij"},
		{"cdefgh", "abcdef", "fghij"},
		{"fghij", "cdefgh", "abcdef"},
		{"cdefgh", "fghij", "abcdef"},
		{"abcdef", "fghij", "cdefgh"},
		{"fghij", "abcdef", "cdefgh"},
	}

	const want = "abcdefghij"
	for _, fragments := range permutations {
		if got := NewMerger().Merge(fragments); got != want {
			t.Errorf("Merge(%q) = %q, want %q", fragments, got, want)
		}
	}
}

func TestMergeFallbacks(t *testing.T) {
	// Fragments with no usable overlap: the two variants disagree on the
	// fallback and both behaviors are contractual.
	fragments := []string{"Helsinki", "Rovaniemi 1923"}

	greedy := &Merger{MinOverlap: 3}
	if got := greedy.Merge(fragments); got != "Helsinki Rovaniemi 1923" {
		t.Errorf("greedy fallback = %q, want space-joined concatenation", got)
	}

	dedup := NewMerger()
	if got := dedup.Merge(fragments); got != "Rovaniemi 1923" {
		t.Errorf("dedup fallback = %q, want longest fragment", got)
	}
}

func TestMergeDedupSweepIsSinglePass(t *testing.T) {
	// A near-duplicate pair plus a fragment that overlaps the survivor.
	fragments := []string{
		"Lapponia inarensis 1923",
		"Lapponia inarensis 1924",
		"923 leg. Koponen",
	}

	got := NewMerger().Merge(fragments)
	want := "Lapponia inarensis 1923 leg. Koponen"
	if got != want {
		t.Errorf("Merge() = %q, want %q", got, want)
	}
}

func TestMergeIdempotent(t *testing.T) {
	fragments := []string{"abcdef", "defghi", "hijkl"}
	first := NewMerger().Merge(fragments)
	second := NewMerger().Merge(fragments)
	if first != second {
		t.Errorf("repeated merges disagree: %q vs %q", first, second)
	}
}
