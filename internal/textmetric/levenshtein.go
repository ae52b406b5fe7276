package textmetric

// EditOps decomposes an optimal edit script into operation counts.
type EditOps struct {
	Substitutions int
	Insertions    int
	Deletions     int
}

// Total returns the edit distance the operations add up to.
func (o EditOps) Total() int {
	return o.Substitutions + o.Insertions + o.Deletions
}

// Levenshtein returns the edit distance between two strings in runes.
func Levenshtein(a, b string) int {
	return editDistance([]rune(a), []rune(b))
}

// LevenshteinOps returns the operation counts of an optimal edit script
// turning a into b.
func LevenshteinOps(a, b string) EditOps {
	return editOps([]rune(a), []rune(b))
}

// TokenLevenshtein returns the edit distance between two token sequences,
// counting whole tokens. This is the word-level distance behind WER.
func TokenLevenshtein(a, b []string) int {
	return editDistance(a, b)
}

// TokenLevenshteinOps is TokenLevenshtein with operation counts.
func TokenLevenshteinOps(a, b []string) EditOps {
	return editOps(a, b)
}

func editDistance[T comparable](a, b []T) int {
	if len(a) == 0 {
		return len(b)
	}
	if len(b) == 0 {
		return len(a)
	}

	prev := make([]int, len(b)+1)
	curr := make([]int, len(b)+1)
	for j := 0; j <= len(b); j++ {
		prev[j] = j
	}

	for i := 1; i <= len(a); i++ {
		curr[0] = i
		for j := 1; j <= len(b); j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			curr[j] = min(prev[j]+1, curr[j-1]+1, prev[j-1]+cost)
		}
		prev, curr = curr, prev
	}

	return prev[len(b)]
}

// editOps fills the full matrix and backtracks, preferring match, then
// substitution, then deletion, then insertion, so the decomposition is
// deterministic for a given input pair.
func editOps[T comparable](a, b []T) EditOps {
	rows := len(a) + 1
	cols := len(b) + 1

	matrix := make([][]int, rows)
	for i := range matrix {
		matrix[i] = make([]int, cols)
		matrix[i][0] = i
	}
	for j := 0; j < cols; j++ {
		matrix[0][j] = j
	}

	for i := 1; i < rows; i++ {
		for j := 1; j < cols; j++ {
			cost := 1
			if a[i-1] == b[j-1] {
				cost = 0
			}
			matrix[i][j] = min(matrix[i-1][j]+1, matrix[i][j-1]+1, matrix[i-1][j-1]+cost)
		}
	}

	var ops EditOps
	i, j := len(a), len(b)
	for i > 0 || j > 0 {
		switch {
		case i > 0 && j > 0 && a[i-1] == b[j-1] && matrix[i][j] == matrix[i-1][j-1]:
			i--
			j--
		case i > 0 && j > 0 && matrix[i][j] == matrix[i-1][j-1]+1:
			ops.Substitutions++
			i--
			j--
		case i > 0 && matrix[i][j] == matrix[i-1][j]+1:
			ops.Deletions++
			i--
		default:
			ops.Insertions++
			j--
		}
	}

	return ops
}
