package recommendation

import (
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/unicode/norm"
)

// folder case-folds free text for comparison. A cases.Caser keeps state, so each
// Score call owns one.
type folder struct {
	caser cases.Caser
}

func newFolder() *folder {
	return &folder{caser: cases.Fold()}
}

func (f *folder) fold(s string) string {
	return f.caser.String(norm.NFC.String(strings.TrimSpace(s)))
}

func (f *folder) foldAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if folded := f.fold(v); folded != "" {
			out = append(out, folded)
		}
	}
	return out
}

// foldSet folds values into a set, dropping blanks and duplicates.
func (f *folder) foldSet(values []string) map[string]struct{} {
	set := make(map[string]struct{}, len(values))
	for _, v := range values {
		if folded := f.fold(v); folded != "" {
			set[folded] = struct{}{}
		}
	}
	return set
}

// uniqueFolded keeps first occurrences in order.
func (f *folder) uniqueFolded(values []string) []string {
	seen := make(map[string]struct{}, len(values))
	out := make([]string, 0, len(values))
	for _, v := range values {
		folded := f.fold(v)
		if folded == "" {
			continue
		}
		if _, dup := seen[folded]; dup {
			continue
		}
		seen[folded] = struct{}{}
		out = append(out, folded)
	}
	return out
}

// mutualSubstring is the bidirectional containment test used for free-text matching.
// Both arguments must already be folded and non-empty.
func mutualSubstring(a, b string) bool {
	return strings.Contains(a, b) || strings.Contains(b, a)
}

// anyMutualSubstring reports whether term matches any of the folded properties.
func anyMutualSubstring(properties []string, term string) bool {
	for _, p := range properties {
		if mutualSubstring(p, term) {
			return true
		}
	}
	return false
}
