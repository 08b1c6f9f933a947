package match

import "strings"

// separators are rewritten to spaces so "john_doe", "john.doe" and
// "john-doe" all compare equal to "john doe".
var separators = strings.NewReplacer("_", " ", ".", " ", "-", " ")

// Normalize canonicalizes a raw display name for comparison.
//
// Lower-cases, replaces separator characters with spaces, collapses runs of
// whitespace and trims the ends. Unrecognized characters pass through
// untouched; the result may be empty.
func Normalize(raw string) string {
	lowered := strings.ToLower(raw)
	spaced := separators.Replace(lowered)
	return strings.Join(strings.Fields(spaced), " ")
}
