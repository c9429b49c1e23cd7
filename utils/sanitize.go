package utils

import (
	"html"

	"github.com/microcosm-cc/bluemonday"
)

var sanitizer = bluemonday.StrictPolicy()

// Sanitize strips markup from user supplied text (check-in notes, watchlist
// company names) to prevent stored XSS. These fields are plain text, not HTML,
// so entity escapes produced by the policy are undone afterwards: "AT&T" must
// round-trip unchanged or it can never match raw feed company names.
func Sanitize(input string) string {
	return html.UnescapeString(sanitizer.Sanitize(input))
}
