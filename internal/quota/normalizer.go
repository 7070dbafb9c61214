package quota

import (
	"strings"
	"unicode"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

// Normalize canonicalizes a free-text forger label into the key used for
// quota matching: canonical decomposition, diacritics stripped, lower case.
// Normalize is idempotent; it is applied identically on write and on read.
//
// The fold chain is built per call: transform.Chain returns a stateful
// Transformer, so a shared instance would not be safe for concurrent use.
func Normalize(label string) string {
	fold := transform.Chain(norm.NFD, runes.Remove(runes.In(unicode.Mn)))
	folded, _, err := transform.String(fold, label)
	if err != nil {
		// Remove never fails and NFD passes malformed bytes through
		// unchanged; fall back to the raw label just in case.
		folded = label
	}
	return strings.ToLower(folded)
}
