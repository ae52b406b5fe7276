package textmetric

import (
	"regexp"
	"strings"
)

// Collector names on labels alternate between "A et B" and "A & B".
var etConnector = regexp.MustCompile(`(?i)\s+et\s+`)

// NormalizeForEquality lowercases a value and collapses the connector word
// " et " to " & " so that "Koponen et Ahti" and "Koponen & Ahti" compare
// equal. The replacement is word-boundary bounded: "letter" is untouched.
func NormalizeForEquality(value string) string {
	return etConnector.ReplaceAllString(strings.ToLower(value), " & ")
}

// absent reports whether a value counts as unanswered: a missing key,
// an explicit JSON null, and an empty string are all one class.
func absent(v *string) bool {
	return v == nil || *v == ""
}

// NullAwareEqual compares two optional field values. Two absent values are
// equal, absent never equals present, and present values compare after
// NormalizeForEquality.
func NullAwareEqual(a, b *string) bool {
	if absent(a) || absent(b) {
		return absent(a) && absent(b)
	}
	return NormalizeForEquality(*a) == NormalizeForEquality(*b)
}

// SemicolonSetEqual compares two semicolon-separated list values as
// unordered sets: each part is trimmed and normalized, empty parts are
// dropped. "A; B; C" equals "c;B;a" but not "A;B;C;D".
func SemicolonSetEqual(a, b *string) bool {
	if absent(a) || absent(b) {
		return absent(a) && absent(b)
	}
	sa := semicolonSet(*a)
	sb := semicolonSet(*b)
	if len(sa) != len(sb) {
		return false
	}
	for part := range sa {
		if _, ok := sb[part]; !ok {
			return false
		}
	}
	return true
}

func semicolonSet(value string) map[string]struct{} {
	parts := strings.Split(value, ";")
	set := make(map[string]struct{}, len(parts))
	for _, part := range parts {
		part = NormalizeForEquality(strings.TrimSpace(part))
		if part == "" {
			continue
		}
		set[part] = struct{}{}
	}
	return set
}
