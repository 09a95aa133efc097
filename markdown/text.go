package markdown

import (
	"math"
	"regexp"
	"strings"
	"unicode/utf8"
)

const wordsPerMinute = 200

var (
	reFence     = regexp.MustCompile("(?s)```.*?```")
	reMarkImage = regexp.MustCompile(`!\[([^\]]*)\]\([^)]*\)`)
	reMarkLink  = regexp.MustCompile(`\[([^\]]+)\]\([^)]*\)`)
	reLinePunct = regexp.MustCompile(`(?m)^\s*(?:#{1,6}\s+|>\s?|[-*+]\s+|\d+[.)]\s+)`)
	reEmphasis  = regexp.MustCompile("[*_`]+")
	reSpaces    = regexp.MustCompile(`\s+`)
)

// PlainText strips Markdown syntax and collapses whitespace. Code blocks are dropped.
func PlainText(md string) string {
	s := reFence.ReplaceAllString(md, " ")
	s = reMarkImage.ReplaceAllString(s, "$1")
	s = reMarkLink.ReplaceAllString(s, "$1")
	s = reLinePunct.ReplaceAllString(s, "")
	s = reRuleLines(s)
	s = reEmphasis.ReplaceAllString(s, "")
	return strings.TrimSpace(reSpaces.ReplaceAllString(s, " "))
}

func reRuleLines(s string) string {
	lines := strings.Split(s, "\n")
	for i, l := range lines {
		if reRule.MatchString(strings.TrimSpace(l)) {
			lines[i] = ""
		}
	}
	return strings.Join(lines, "\n")
}

// ReadingTime estimates minutes to read md at 200 words per minute, never less than one.
func ReadingTime(md string) int {
	words := len(strings.Fields(PlainText(md)))
	minutes := int(math.Ceil(float64(words) / wordsPerMinute))
	if minutes < 1 {
		return 1
	}
	return minutes
}

// Excerpt returns the first n runes of the plain text, cut at a word boundary with an ellipsis.
func Excerpt(md string, n int) string {
	text := PlainText(md)
	if n <= 0 || utf8.RuneCountInString(text) <= n {
		return text
	}
	runes := []rune(text)
	cut := string(runes[:n])
	if i := strings.LastIndexByte(cut, ' '); i > 0 {
		cut = cut[:i]
	}
	return strings.TrimRight(cut, " ,.;:") + "…"
}
