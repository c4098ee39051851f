package reconcile

import (
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/sergi/go-diff/diffmatchpatch"
)

// TokenSortRatio scores two strings from 0 to 100 after sorting their
// whitespace separated tokens, so word order does not matter.
func TokenSortRatio(a, b string) float64 {
	return Ratio(sortTokens(a), sortTokens(b))
}

// Ratio is the normalized indel similarity 200*LCS/(len(a)+len(b)),
// counted in runes. Two empty strings are identical.
func Ratio(a, b string) float64 {
	total := utf8.RuneCountInString(a) + utf8.RuneCountInString(b)
	if total == 0 {
		return 100
	}
	return 200 * float64(lcsLength(a, b)) / float64(total)
}

func sortTokens(s string) string {
	tokens := strings.Fields(s)
	sort.Strings(tokens)
	return strings.Join(tokens, " ")
}

// lcsLength is the size of the longest common subsequence of a and b, read
// off the equal segments of an optimal diff.
func lcsLength(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	dmp := diffmatchpatch.New()
	// no deadline, so the diff is minimal rather than a half-match shortcut
	dmp.DiffTimeout = 0

	n := 0
	for _, d := range dmp.DiffMain(a, b, false) {
		if d.Type == diffmatchpatch.DiffEqual {
			n += utf8.RuneCountInString(d.Text)
		}
	}
	return n
}
