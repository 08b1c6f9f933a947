package match

import (
	"math"
	"sort"
	"strings"
	"unicode/utf8"

	"github.com/agnivade/levenshtein"
)

// Score computes a 0-100 similarity between two normalized names.
//
// The result is the highest of three comparisons: the edit-distance ratio of
// the full strings, the ratio of the token-sorted strings (so "doe john" and
// "john doe" score 100), and the best ratio over all cross pairs of tokens
// (so a nickname like "bobby j" still lands near "bob johnson"). When either
// side has no tokens only the full-string ratio applies.
//
// Score is symmetric, returns 100 for identical non-empty strings and 0
// whenever either input is empty.
func Score(a, b string) int {
	tokensA := strings.Fields(a)
	tokensB := strings.Fields(b)

	if len(tokensA) == 0 || len(tokensB) == 0 {
		return ratio(a, b)
	}

	best := ratio(a, b)

	if s := ratio(sortTokens(tokensA), sortTokens(tokensB)); s > best {
		best = s
	}

	for _, ta := range tokensA {
		for _, tb := range tokensB {
			if s := ratio(ta, tb); s > best {
				best = s
			}
		}
	}

	return best
}

// ratio is the edit-distance ratio 100*(1 - lev/maxlen), rounded to the
// nearest integer and clamped to [0,100]. Both inputs empty, or either input
// empty, yields 0.
func ratio(a, b string) int {
	if a == "" || b == "" {
		return 0
	}

	longest := utf8.RuneCountInString(a)
	if n := utf8.RuneCountInString(b); n > longest {
		longest = n
	}

	dist := levenshtein.ComputeDistance(a, b)
	r := int(math.Round(100 * (1 - float64(dist)/float64(longest))))

	if r < 0 {
		return 0
	}
	if r > 100 {
		return 100
	}
	return r
}

// sortTokens joins tokens in sorted order, absorbing word-order differences.
func sortTokens(tokens []string) string {
	sorted := make([]string, len(tokens))
	copy(sorted, tokens)
	sort.Strings(sorted)
	return strings.Join(sorted, " ")
}
