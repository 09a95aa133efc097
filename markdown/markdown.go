// Package markdown converts the small Markdown subset used by blog posts and
// case studies into HTML.
//
// Supported: ATX headings, paragraphs, fenced code, unordered and ordered
// lists, blockquotes, horizontal rules, images, links, bold, italic and
// inline code. Anything else is rendered as escaped paragraph text.
package markdown

import (
	"html"
	"net/url"
	"regexp"
	"strconv"
	"strings"

	"github.com/microcosm-cc/bluemonday"
)

var (
	reHeading     = regexp.MustCompile(`^(#{1,6})\s+(.*?)\s*#*\s*$`)
	reOrderedItem = regexp.MustCompile(`^\d+[.)]\s+`)
	reUnordered   = regexp.MustCompile(`^[-*+]\s+`)
	reRule        = regexp.MustCompile(`^(?:-\s*){3,}$|^(?:\*\s*){3,}$|^(?:_\s*){3,}$`)

	reImage      = regexp.MustCompile(`!\[([^\]]*)\]\(([^)\s]+)(?:\s+&#34;([^&]*)&#34;)?\)`)
	reLink       = regexp.MustCompile(`\[([^\]]+)\]\(([^)\s]+)\)`)
	reInlineCode = regexp.MustCompile("`([^`]+)`")
	reBold       = regexp.MustCompile(`\*\*(.+?)\*\*`)
	reBoldAlt    = regexp.MustCompile(`__(.+?)__`)
	reItalic     = regexp.MustCompile(`\*([^*\s][^*]*?)\*`)
	reItalicAlt  = regexp.MustCompile(`(^|[^\w])_([^_\s][^_]*?)_($|[^\w])`)

	reLanguageClass = regexp.MustCompile(`^language-[\w-]+$`)
)

var policy = newPolicy()

func newPolicy() *bluemonday.Policy {
	p := bluemonday.UGCPolicy()
	p.AllowAttrs("class").Matching(reLanguageClass).OnElements("code")
	p.AllowAttrs("loading").Matching(regexp.MustCompile(`^lazy$`)).OnElements("img")
	p.RequireNoFollowOnLinks(true)
	p.AddTargetBlankToFullyQualifiedLinks(true)
	return p
}

// ToHTML renders md and sanitizes the result. Use this for anything shown to visitors.
func ToHTML(md string) string {
	return policy.Sanitize(Render(md))
}

// Render converts md to HTML without sanitizing. Blocks are separated by a newline.
func Render(md string) string {
	var (
		blocks   []string
		para     []string
		items    []string
		listTag  string
		quote    []string
		code     []string
		codeLang string
		inCode   bool
	)

	flushPara := func() {
		if len(para) > 0 {
			blocks = append(blocks, "<p>"+strings.Join(para, " ")+"</p>")
			para = nil
		}
	}
	flushList := func() {
		if len(items) > 0 {
			var b strings.Builder
			b.WriteString("<" + listTag + ">")
			for _, it := range items {
				b.WriteString("<li>" + it + "</li>")
			}
			b.WriteString("</" + listTag + ">")
			blocks = append(blocks, b.String())
			items = nil
			listTag = ""
		}
	}
	flushQuote := func() {
		if len(quote) > 0 {
			blocks = append(blocks, "<blockquote><p>"+strings.Join(quote, " ")+"</p></blockquote>")
			quote = nil
		}
	}
	flushAll := func() {
		flushPara()
		flushList()
		flushQuote()
	}
	flushCode := func() {
		open := "<pre><code>"
		if codeLang != "" {
			open = `<pre><code class="language-` + html.EscapeString(codeLang) + `">`
		}
		body := ""
		if len(code) > 0 {
			body = strings.Join(code, "\n") + "\n"
		}
		blocks = append(blocks, open+body+"</code></pre>")
		code = nil
		codeLang = ""
		inCode = false
	}

	for _, raw := range strings.Split(md, "\n") {
		line := strings.TrimRight(raw, "\r")
		trimmed := strings.TrimSpace(line)

		if strings.HasPrefix(trimmed, "```") {
			if inCode {
				flushCode()
			} else {
				flushAll()
				inCode = true
				codeLang = strings.TrimSpace(strings.TrimPrefix(trimmed, "```"))
			}
			continue
		}
		if inCode {
			code = append(code, html.EscapeString(line))
			continue
		}

		if trimmed == "" {
			flushAll()
			continue
		}

		switch {
		case reRule.MatchString(trimmed):
			flushAll()
			blocks = append(blocks, "<hr>")
		case reHeading.MatchString(trimmed):
			flushAll()
			m := reHeading.FindStringSubmatch(trimmed)
			level := strconv.Itoa(len(m[1]))
			blocks = append(blocks, "<h"+level+">"+Inline(m[2])+"</h"+level+">")
		case reUnordered.MatchString(trimmed):
			flushPara()
			flushQuote()
			if listTag != "ul" {
				flushList()
				listTag = "ul"
			}
			items = append(items, Inline(reUnordered.ReplaceAllString(trimmed, "")))
		case reOrderedItem.MatchString(trimmed):
			flushPara()
			flushQuote()
			if listTag != "ol" {
				flushList()
				listTag = "ol"
			}
			items = append(items, Inline(reOrderedItem.ReplaceAllString(trimmed, "")))
		case strings.HasPrefix(trimmed, ">"):
			flushPara()
			flushList()
			quote = append(quote, Inline(strings.TrimSpace(strings.TrimPrefix(trimmed, ">"))))
		default:
			flushList()
			flushQuote()
			para = append(para, Inline(trimmed))
		}
	}
	if inCode {
		flushCode()
	}
	flushAll()
	return strings.Join(blocks, "\n")
}

// Inline escapes s and applies image, link, code, bold and italic formatting.
func Inline(s string) string {
	out := html.EscapeString(s)

	// code spans are swapped out first so their content is never formatted
	var spans []string
	out = reInlineCode.ReplaceAllStringFunc(out, func(m string) string {
		sub := reInlineCode.FindStringSubmatch(m)
		spans = append(spans, "<code>"+sub[1]+"</code>")
		return "\x00" + strconv.Itoa(len(spans)-1) + "\x00"
	})

	out = reImage.ReplaceAllStringFunc(out, func(m string) string {
		sub := reImage.FindStringSubmatch(m)
		src := SafeURL(sub[2])
		if src == "" {
			return sub[1]
		}
		img := `<img src="` + src + `" alt="` + sub[1] + `" loading="lazy"`
		if sub[3] != "" {
			img += ` title="` + sub[3] + `"`
		}
		return img + ">"
	})
	out = reLink.ReplaceAllStringFunc(out, func(m string) string {
		sub := reLink.FindStringSubmatch(m)
		href := SafeURL(sub[2])
		if href == "" {
			return sub[1]
		}
		return `<a href="` + href + `">` + sub[1] + `</a>`
	})

	out = outsideTags(out, func(seg string) string {
		seg = reBold.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reBoldAlt.ReplaceAllString(seg, "<strong>$1</strong>")
		seg = reItalic.ReplaceAllString(seg, "<em>$1</em>")
		seg = reItalicAlt.ReplaceAllString(seg, "$1<em>$2</em>$3")
		return seg
	})

	for i, span := range spans {
		out = strings.Replace(out, "\x00"+strconv.Itoa(i)+"\x00", span, 1)
	}
	return out
}

// outsideTags applies fn to the text between HTML tags only, so attribute values are left alone.
func outsideTags(s string, fn func(string) string) string {
	var b strings.Builder
	for len(s) > 0 {
		lt := strings.IndexByte(s, '<')
		if lt < 0 {
			b.WriteString(fn(s))
			break
		}
		b.WriteString(fn(s[:lt]))
		gt := strings.IndexByte(s[lt:], '>')
		if gt < 0 {
			b.WriteString(s[lt:])
			break
		}
		b.WriteString(s[lt : lt+gt+1])
		s = s[lt+gt+1:]
	}
	return b.String()
}

// SafeURL returns the escaped URL when it is relative or uses http, https or mailto.
// Anything else (javascript:, data:, malformed) yields "".
func SafeURL(raw string) string {
	val := strings.TrimSpace(html.UnescapeString(raw))
	if val == "" {
		return ""
	}
	if strings.HasPrefix(val, "/") || strings.HasPrefix(val, "#") {
		if strings.HasPrefix(val, "//") {
			return ""
		}
		return html.EscapeString(val)
	}
	u, err := url.Parse(val)
	if err != nil || u.Scheme == "" {
		return ""
	}
	switch strings.ToLower(u.Scheme) {
	case "http", "https", "mailto":
		return html.EscapeString(val)
	}
	return ""
}
