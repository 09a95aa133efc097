package utils

import (
	"html"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var strictPolicy = bluemonday.StrictPolicy()

// StripTags removes every HTML tag from visitor supplied text such as comments and contact messages.
// The result is plain text: entities are decoded again since output layers escape on render.
func StripTags(input string) string {
	return strings.TrimSpace(html.UnescapeString(strictPolicy.Sanitize(input)))
}
