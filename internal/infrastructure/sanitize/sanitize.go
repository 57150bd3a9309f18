// Package sanitize cleans user and editor supplied markup before it is stored.
package sanitize

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

// Sanitizer holds the two policies used by the application services
type Sanitizer struct {
	rich  *bluemonday.Policy
	plain *bluemonday.Policy
}

// New creates a sanitizer. Rich text keeps the formatting tags an editor can
// produce (headings, lists, links, images, tables); plain text keeps none.
func New() *Sanitizer {
	rich := bluemonday.UGCPolicy()
	rich.RequireNoFollowOnLinks(true)
	rich.AddTargetBlankToFullyQualifiedLinks(true)
	rich.AllowAttrs("class").OnElements("p", "span", "div", "pre", "code", "blockquote")

	return &Sanitizer{
		rich:  rich,
		plain: bluemonday.StrictPolicy(),
	}
}

// HTML returns s with scripts, event handlers and unknown tags removed
func (s *Sanitizer) HTML(input string) string {
	return strings.TrimSpace(s.rich.Sanitize(input))
}

// Text strips every tag. Entities are decoded again because the result is
// plain text, not markup.
func (s *Sanitizer) Text(input string) string {
	return strings.TrimSpace(html.UnescapeString(s.plain.Sanitize(input)))
}
