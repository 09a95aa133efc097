package markdown

import (
	"strings"
	"testing"
)

func TestRenderPlainTextOnlyParagraphs(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"Hello world", "<p>Hello world</p>"},
		{"first line\nsecond line", "<p>first line second line</p>"},
		{"one\n\ntwo\n\n\nthree", "<p>one</p>\n<p>two</p>\n<p>three</p>"},
		{"fish & chips", "<p>fish &amp; chips</p>"},
		{"  padded  \r\n", "<p>padded</p>"},
		{"", ""},
	}
	for _, tt := range tests {
		got := Render(tt.in)
		if got != tt.want {
			t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestRenderPlainTextIsStable(t *testing.T) {
	in := "A paragraph of prose.\n\nAnother one, with a comma and digits 42."
	first := Render(in)
	for i := 0; i < 5; i++ {
		if got := Render(in); got != first {
			t.Fatalf("Render is not deterministic: %q vs %q", got, first)
		}
	}
	if got := ToHTML(in); got != first {
		t.Errorf("ToHTML(%q) = %q, want %q", in, got, first)
	}
	stripped := strings.NewReplacer("<p>", "", "</p>", "").Replace(first)
	if strings.ContainsAny(stripped, "<>") {
		t.Errorf("plain text produced tags other than <p>: %q", first)
	}
}

func TestRenderBlocks(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"h1", "# Title", "<h1>Title</h1>"},
		{"h3 closing hashes", "### Section ###", "<h3>Section</h3>"},
		{"h6", "###### Small", "<h6>Small</h6>"},
		{"no space is text", "#hashtag", "<p>#hashtag</p>"},
		{"rule", "---", "<hr>"},
		{"unordered", "- a\n- b\n* c", "<ul><li>a</li><li>b</li><li>c</li></ul>"},
		{"ordered", "1. a\n2. b", "<ol><li>a</li><li>b</li></ol>"},
		{"list switch", "- a\n1. b", "<ul><li>a</li></ul>\n<ol><li>b</li></ol>"},
		{"quote", "> quoted\n> text", "<blockquote><p>quoted text</p></blockquote>"},
		{"code", "```go\nx := 1 < 2\n```", "<pre><code class=\"language-go\">x := 1 &lt; 2\n</code></pre>"},
		{"code keeps markup", "```\n# not a heading\n```", "<pre><code># not a heading\n</code></pre>"},
		{"unterminated code", "```\nx", "<pre><code>x\n</code></pre>"},
		{"para then list", "intro\n- item", "<p>intro</p>\n<ul><li>item</li></ul>"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := Render(tt.in); got != tt.want {
				t.Errorf("Render(%q) = %q, want %q", tt.in, got, tt.want)
			}
		})
	}
}

func TestInline(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"**bold**", "<strong>bold</strong>"},
		{"__bold__", "<strong>bold</strong>"},
		{"*em*", "<em>em</em>"},
		{"an _em_ word", "an <em>em</em> word"},
		{"snake_case_name", "snake_case_name"},
		{"`**raw**`", "<code>**raw**</code>"},
		{"`<b>`", "<code>&lt;b&gt;</code>"},
		{"[site](https://example.com)", `<a href="https://example.com">site</a>`},
		{"[bad](javascript:void)", "bad"},
		{"![cat](/img/cat.png)", `<img src="/img/cat.png" alt="cat" loading="lazy">`},
		{"2 * 3 * 4", "2 * 3 * 4"},
	}
	for _, tt := range tests {
		if got := Inline(tt.in); got != tt.want {
			t.Errorf("Inline(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestToHTMLSanitizes(t *testing.T) {
	out := ToHTML("[x](https://example.com/a_b_c)\n\n<script>alert(1)</script>")
	if !strings.Contains(out, `href="https://example.com/a_b_c"`) {
		t.Errorf("link href lost or altered: %q", out)
	}
	if strings.Contains(out, "<script>") {
		t.Errorf("script tag survived: %q", out)
	}

	code := ToHTML("```js\nlet a = 1\n```")
	if !strings.Contains(code, `class="language-js"`) {
		t.Errorf("language class stripped: %q", code)
	}
}

func TestSafeURL(t *testing.T) {
	tests := []struct {
		in   string
		want string
	}{
		{"https://example.com", "https://example.com"},
		{"/relative/path", "/relative/path"},
		{"#anchor", "#anchor"},
		{"mailto:me@example.com", "mailto:me@example.com"},
		{"javascript:alert(1)", ""},
		{"data:text/html;base64,xx", ""},
		{"//evil.example", ""},
		{"", ""},
	}
	for _, tt := range tests {
		if got := SafeURL(tt.in); got != tt.want {
			t.Errorf("SafeURL(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestPlainTextAndReadingTime(t *testing.T) {
	md := "# Heading\n\nSome **bold** and [a link](https://x.y).\n\n```\ncode here\n```\n- item"
	if got, want := PlainText(md), "Heading Some bold and a link. item"; got != want {
		t.Errorf("PlainText = %q, want %q", got, want)
	}

	if got := ReadingTime(""); got != 1 {
		t.Errorf("ReadingTime(empty) = %d, want 1", got)
	}
	long := strings.Repeat("word ", 401)
	if got := ReadingTime(long); got != 3 {
		t.Errorf("ReadingTime(401 words) = %d, want 3", got)
	}
}

func TestExcerpt(t *testing.T) {
	if got := Excerpt("short text", 50); got != "short text" {
		t.Errorf("Excerpt short = %q", got)
	}
	if got, want := Excerpt("The quick brown fox jumps over", 12), "The quick…"; got != want {
		t.Errorf("Excerpt = %q, want %q", got, want)
	}
}
