package scanner

import (
	"strings"

	"github.com/ZaguanLabs/glosa"
	"golang.org/x/net/html"
)

// rawTextTags hold script or style content, which is never translated.
var rawTextTags = map[string]bool{
	"script": true,
	"style":  true,
}

// HTMLScanner scans HTML and XML markup. Text between tags is reported as
// raw string spans and <!-- --> comments as comment spans, both with HTML
// quoting; tags, attributes and doctype declarations stay code.
type HTMLScanner struct {
	opts options
}

// NewHTMLScanner creates an HTML scanner.
func NewHTMLScanner(opts ...Option) *HTMLScanner {
	return &HTMLScanner{opts: defaultOptions(opts)}
}

// Languages returns "html", "htm" and "xml".
func (s *HTMLScanner) Languages() []string {
	return []string{"html", "htm", "xml"}
}

// Scan splits src into text, comment and markup spans. Token offsets are
// recovered from the tokenizer's raw bytes; if they ever disagree with src
// the rest of the input is left as code.
func (s *HTMLScanner) Scan(src string) []Span {
	l := newSpanList(src, s.opts)

	z := html.NewTokenizer(strings.NewReader(src))
	offset := 0
	inRawText := false

	for {
		tt := z.Next()
		if tt == html.ErrorToken {
			break
		}

		raw := z.Raw()
		start, end := offset, offset+len(raw)
		if end > len(src) || src[start:end] != string(raw) {
			break
		}
		offset = end

		switch tt {
		case html.TextToken:
			if inRawText || strings.TrimSpace(string(raw)) == "" {
				continue
			}
			span := delimited(glosa.KindString, start, start, end, end)
			span.Raw = true
			span.Quoting = glosa.QuotingHTML
			l.emit(span)

		case html.CommentToken:
			if !strings.HasPrefix(string(raw), "<!--") {
				// Bogus comments: <?xml ?>, <![CDATA[ ]]>
				continue
			}
			innerEnd := end
			if strings.HasSuffix(string(raw), "-->") && len(raw) >= 7 {
				innerEnd = end - 3
			}
			span := delimited(glosa.KindComment, start, start+4, innerEnd, end)
			span.Quoting = glosa.QuotingHTML
			l.emit(span)

		case html.StartTagToken:
			name, _ := z.TagName()
			inRawText = rawTextTags[strings.ToLower(string(name))]

		case html.EndTagToken:
			inRawText = false
		}
	}

	return l.finish()
}

var _ Scanner = (*HTMLScanner)(nil)
