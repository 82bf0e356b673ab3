package analysis

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// SanitizeText removes every tag from s and returns plain text. Entities are
// decoded and the result re-checked until stable, so "a &amp; b" becomes
// "a & b" while "&lt;script&gt;" cannot smuggle a tag back in.
func SanitizeText(s string) string {
	for i := 0; i < 4; i++ {
		next := html.UnescapeString(strictPolicy.Sanitize(s))
		if next == s {
			return s
		}
		s = next
	}
	return strictPolicy.Sanitize(s)
}
