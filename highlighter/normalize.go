package highlighter

import (
	"strings"

	"golang.org/x/text/unicode/norm"
)

// NormalizeQuestion applies NFKC normalization and collapses whitespace.
// Only the question is ever normalized: the passage must stay byte-exact so
// sentence spans keep pointing into the caller's original text.
func NormalizeQuestion(q string) string {
	normed := norm.NFKC.String(q)
	return strings.Join(strings.Fields(normed), " ")
}
