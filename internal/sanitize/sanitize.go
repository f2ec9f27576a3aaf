// Package sanitize strips markup from author-supplied text before it is
// persisted. Submitted fields are treated as plain text; rendering back to
// HTML happens elsewhere and never from raw input.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strict = bluemonday.StrictPolicy()

// Text removes all HTML from s and normalizes surrounding whitespace.
func Text(s string) string {
	cleaned := strict.Sanitize(s)
	// StrictPolicy escapes entities; fold them back so "&amp;" round-trips.
	cleaned = html.UnescapeString(cleaned)
	return strings.TrimSpace(cleaned)
}

// Fields applies Text to every author-editable field, in place.
func Fields(fields ...*string) {
	for _, f := range fields {
		*f = Text(*f)
	}
}
