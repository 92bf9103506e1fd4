package scanner

import (
	"strings"

	"github.com/ZaguanLabs/glosa"
)

// Interpolation selects how a language embeds expressions in string literals.
// Embedded expressions become code parts and are never translated.
type Interpolation int

const (
	// InterpolateNone: string bodies are plain text.
	InterpolateNone Interpolation = iota
	// InterpolateDollar: ${expr} and $name (Kotlin, Dart).
	InterpolateDollar
	// InterpolateScala: ${expr} and $name, where "\$" is not a valid escape.
	InterpolateScala
	// InterpolatePHP: $name, $name->prop, $name[key], {$expr} and ${expr} in "..." only.
	InterpolatePHP
	// InterpolateSwift: \(expr).
	InterpolateSwift
	// InterpolateBraces: {expr} with {{ and }} as literal braces (Rust format strings).
	InterpolateBraces
	// InterpolateCSharp: {expr} in $"..." strings; @"..." strings are verbatim.
	InterpolateCSharp
)

// CStyleConfig describes a member of the C-style language family.
type CStyleConfig struct {
	Languages          []string      // Language tags handled by the scanner
	TemplateLiterals   bool          // Backtick literals with ${...} interpolation
	SingleQuoteStrings bool          // '...' is a string; otherwise a character literal
	TripleQuoteStrings bool          // """...""" strings span lines
	RawTripleQuotes    bool          // Triple-quoted bodies have no backslash escapes
	Interpolation      Interpolation // Expressions embedded in string bodies
}

// CStyleScanner scans languages with "..." strings and // and /* */ comments.
type CStyleScanner struct {
	cfg  CStyleConfig
	opts options
}

// NewCStyleScanner creates a scanner for the given C-style configuration.
func NewCStyleScanner(cfg CStyleConfig, opts ...Option) *CStyleScanner {
	return &CStyleScanner{cfg: cfg, opts: defaultOptions(opts)}
}

// NewJavaScriptScanner scans JavaScript and TypeScript, including template literals.
func NewJavaScriptScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"js", "javascript", "jsx", "mjs", "cjs", "ts", "typescript", "tsx"},
		TemplateLiterals:   true,
		SingleQuoteStrings: true,
	}, opts...)
}

// NewCFamilyScanner scans C, C++, Java and Objective-C, where single quotes
// delimit character literals and strings have no interpolation.
func NewCFamilyScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages: []string{"c", "cpp", "c++", "java", "objc"},
	}, opts...)
}

// NewCSharpScanner scans C#: $"..." interpolated, @"..." verbatim and
// """...""" raw strings.
func NewCSharpScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"csharp", "cs"},
		TripleQuoteStrings: true,
		RawTripleQuotes:    true,
		Interpolation:      InterpolateCSharp,
	}, opts...)
}

// NewRustScanner scans Rust. Every string is treated as a potential format
// string; byte strings stay code.
func NewRustScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:     []string{"rust", "rs"},
		Interpolation: InterpolateBraces,
	}, opts...)
}

// NewKotlinScanner scans Kotlin string templates and raw """ strings.
func NewKotlinScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"kotlin", "kt", "kts"},
		TripleQuoteStrings: true,
		RawTripleQuotes:    true,
		Interpolation:      InterpolateDollar,
	}, opts...)
}

// NewScalaScanner scans Scala. Interpolator prefixes are not tracked, so $
// references are kept as code in every string.
func NewScalaScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"scala", "sc"},
		TripleQuoteStrings: true,
		RawTripleQuotes:    true,
		Interpolation:      InterpolateScala,
	}, opts...)
}

// NewSwiftScanner scans Swift, including multi-line """ strings.
func NewSwiftScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"swift"},
		TripleQuoteStrings: true,
		Interpolation:      InterpolateSwift,
	}, opts...)
}

// NewDartScanner scans Dart, where both quote styles delimit strings and
// r'...' strings are raw.
func NewDartScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"dart"},
		SingleQuoteStrings: true,
		TripleQuoteStrings: true,
		Interpolation:      InterpolateDollar,
	}, opts...)
}

// NewPHPScanner scans PHP. Single-quoted strings never interpolate.
func NewPHPScanner(opts ...Option) *CStyleScanner {
	return NewCStyleScanner(CStyleConfig{
		Languages:          []string{"php"},
		SingleQuoteStrings: true,
		Interpolation:      InterpolatePHP,
	}, opts...)
}

// Languages returns the language tags handled by the scanner.
func (s *CStyleScanner) Languages() []string {
	return s.cfg.Languages
}

// Scan splits src into string, comment and code spans.
func (s *CStyleScanner) Scan(src string) []Span {
	l := newSpanList(src, s.opts)

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '/' && i+1 < len(src) && src[i+1] == '/':
			end := lineEnd(src, i)
			l.emit(delimited(glosa.KindComment, i, i+2, end, end))
			i = end

		case c == '/' && i+1 < len(src) && src[i+1] == '*':
			innerEnd, end := blockCommentEnd(src, i+2)
			l.emit(delimited(glosa.KindComment, i, i+2, innerEnd, end))
			i = end

		case c == '"' || (c == '\'' && s.cfg.SingleQuoteStrings):
			span, text := s.scanString(src, i)
			if text {
				l.emit(span)
			}
			i = span.End

		case c == '\'':
			i = skipCharLiteral(src, i)

		case c == '`' && s.cfg.TemplateLiterals:
			span := scanTemplate(src, i)
			l.emit(span)
			i = span.End

		default:
			i++
		}
	}

	return l.finish()
}

// scanString scans a string literal whose opening quote is at q, together
// with any prefix the language puts before the quote. It reports false for
// literals that must stay code, such as Rust byte strings.
func (s *CStyleScanner) scanString(src string, q int) (Span, bool) {
	quote := src[q]
	closing := src[q : q+1]
	if s.cfg.TripleQuoteStrings && strings.HasPrefix(src[q:], strings.Repeat(closing, 3)) {
		closing = strings.Repeat(closing, 3)
	}
	triple := len(closing) == 3
	multiline := triple

	start := q
	style := s.cfg.Interpolation
	raw := triple && s.cfg.RawTripleQuotes
	verbatim := false
	text := true

	switch style {
	case InterpolateCSharp:
		for start > 0 && q-start < 2 && (src[start-1] == '$' || src[start-1] == '@') {
			start--
		}
		prefix := src[start:q]
		if !strings.Contains(prefix, "$") {
			style = InterpolateNone
		}
		if strings.Contains(prefix, "@") && !triple {
			raw, verbatim, multiline = true, true, true
		}

	case InterpolateDollar:
		if q > 0 && src[q-1] == 'r' && (q == 1 || !isIdentPart(src[q-2])) {
			start = q - 1
			raw = true
			style = InterpolateNone
		}

	case InterpolatePHP:
		if quote == '\'' {
			style = InterpolateNone
		}

	case InterpolateBraces:
		if p, hashes, isRaw, isBytes, ok := rustPrefix(src, q); ok {
			start = p
			if isRaw {
				raw, multiline = true, true
				closing = `"` + strings.Repeat("#", hashes)
			}
			text = !isBytes
		}
	}

	bodyStart := q + 1
	if triple {
		bodyStart = q + 3
	}

	var parts []Span
	hasExpr := false
	textStart := bodyStart
	innerEnd, end := len(src), len(src)

	j := bodyStart
scan:
	for j < len(src) {
		if next, expr := interpolationAt(src, j, style); next > j {
			if expr {
				parts = appendPart(parts, src, glosa.KindString, textStart, j)
				parts = appendPart(parts, src, glosa.KindCode, j, next)
				hasExpr = true
				textStart = next
			}
			j = next
			continue
		}

		switch c := src[j]; {
		case verbatim && c == quote && j+1 < len(src) && src[j+1] == quote:
			j += 2
		case c == '\\' && !raw:
			if j+1 < len(src) {
				j += 2
			} else {
				j++
			}
		case c == quote && strings.HasPrefix(src[j:], closing):
			innerEnd, end = j, j+len(closing)
			break scan
		case !multiline && (c == '\n' || (c == '\r' && j+1 < len(src) && src[j+1] == '\n')):
			innerEnd, end = j, j
			break scan
		default:
			j++
		}
	}
	if textStart > innerEnd {
		textStart = innerEnd
	}

	span := delimited(glosa.KindString, start, bodyStart, innerEnd, end)
	span.Raw = raw
	if hasExpr {
		span.Parts = appendPart(parts, src, glosa.KindString, textStart, innerEnd)
	}
	switch style {
	case InterpolateDollar, InterpolatePHP:
		span.Quoting = glosa.QuotingDollar
	case InterpolateBraces, InterpolateCSharp:
		span.Quoting = glosa.QuotingBraces
	}
	return span, text
}

// rustPrefix recognizes the r, r#, b and br prefixes before the quote at q.
// It returns ok=false when the characters before the quote are not a prefix.
func rustPrefix(src string, q int) (start, hashes int, raw, bytes, ok bool) {
	p := q
	for p > 0 && src[p-1] == '#' {
		p--
	}
	hashes = q - p
	if p > 0 && src[p-1] == 'r' {
		p--
		raw = true
	} else if hashes > 0 {
		return q, 0, false, false, false
	}
	if p > 0 && src[p-1] == 'b' {
		p--
		bytes = true
	}
	if p == q || (p > 0 && isIdentPart(src[p-1])) {
		return q, 0, false, false, false
	}
	return p, hashes, raw, bytes, true
}

// interpolationAt reports how a string body continues at j. It returns
// next > j when src[j:next] is an embedded expression (expr true) or a
// doubled brace that must stay text (expr false).
func interpolationAt(src string, j int, style Interpolation) (next int, expr bool) {
	c := src[j]
	var peek byte
	if j+1 < len(src) {
		peek = src[j+1]
	}

	switch style {
	case InterpolateDollar, InterpolateScala:
		switch {
		case c == '$' && peek == '{':
			return closeBracket(src, j+2, '{', '}'), true
		case c == '$' && isIdentStart(peek):
			return identEnd(src, j+1), true
		}

	case InterpolatePHP:
		switch {
		case c == '{' && peek == '$':
			return closeBracket(src, j+1, '{', '}'), true
		case c == '$' && peek == '{':
			return closeBracket(src, j+2, '{', '}'), true
		case c == '$' && isIdentStart(peek):
			end := identEnd(src, j+1)
			if strings.HasPrefix(src[end:], "->") && end+2 < len(src) && isIdentStart(src[end+2]) {
				end = identEnd(src, end+2)
			} else if end < len(src) && src[end] == '[' {
				end = closeBracket(src, end+1, '[', ']')
			}
			return end, true
		}

	case InterpolateSwift:
		if c == '\\' && peek == '(' {
			return closeBracket(src, j+2, '(', ')'), true
		}

	case InterpolateBraces, InterpolateCSharp:
		switch {
		case (c == '{' && peek == '{') || (c == '}' && peek == '}'):
			return j + 2, false
		case c == '{':
			return closeBracket(src, j+1, '{', '}'), true
		}
	}
	return j, false
}

// identEnd returns the end of the identifier starting at i.
func identEnd(src string, i int) int {
	for i < len(src) && isIdentPart(src[i]) {
		i++
	}
	return i
}

// blockCommentEnd finds the first "*/" at or after i. Block comments do not nest.
func blockCommentEnd(src string, i int) (innerEnd, end int) {
	idx := strings.Index(src[i:], "*/")
	if idx < 0 {
		return len(src), len(src)
	}
	return i + idx, i + idx + 2
}

// skipCharLiteral returns the position after a character literal starting at
// i, or i+1 when the quote does not open one (a Rust lifetime, say).
func skipCharLiteral(src string, i int) int {
	if i+1 >= len(src) {
		return i + 1
	}
	if src[i+1] == '\\' {
		// Escaped character: '\n', '\'', '\u{1F600}'
		for j := i + 2; j < len(src) && j < i+12; j++ {
			if src[j] == '\n' {
				break
			}
			if src[j] == '\'' && j > i+2 {
				return j + 1
			}
		}
		return i + 1
	}
	// One UTF-8 encoded character followed by the closing quote
	for j := i + 2; j < len(src) && j <= i+5; j++ {
		if src[j] == '\'' {
			return j + 1
		}
		if src[j] < 0x80 {
			break
		}
	}
	return i + 1
}

// scanTemplate scans a template literal starting at the backtick at i. The
// body is split into text parts and ${...} code parts.
func scanTemplate(src string, i int) Span {
	span := Span{Kind: glosa.KindString, Start: i, InnerStart: i + 1}

	textStart := i + 1
	j := i + 1
	for j < len(src) {
		switch c := src[j]; {
		case c == '\\':
			if j+1 < len(src) {
				j += 2
			} else {
				j++
			}
		case c == '`':
			span.Parts = appendPart(span.Parts, src, glosa.KindString, textStart, j)
			span.InnerEnd = j
			span.End = j + 1
			return span
		case c == '$' && j+1 < len(src) && src[j+1] == '{':
			span.Parts = appendPart(span.Parts, src, glosa.KindString, textStart, j)
			exprEnd := closeBracket(src, j+2, '{', '}')
			span.Parts = appendPart(span.Parts, src, glosa.KindCode, j, exprEnd)
			j = exprEnd
			textStart = j
		default:
			j++
		}
	}

	// Unterminated: runs to end of input
	span.Parts = appendPart(span.Parts, src, glosa.KindString, textStart, len(src))
	span.InnerEnd = len(src)
	span.End = len(src)
	return span
}

// closeBracket returns the position after the bracket closing an embedded
// expression that starts at i. Strings, nested templates and comments inside
// the expression are skipped so their brackets do not count.
func closeBracket(src string, i int, open, close byte) int {
	depth := 1
	j := i
	for j < len(src) {
		c := src[j]
		switch {
		case c == open:
			depth++
			j++
		case c == close:
			depth--
			j++
			if depth == 0 {
				return j
			}
		case c == '"' || c == '\'':
			_, j = scanQuoted(src, j+1, c)
		case c == '`':
			j = scanTemplate(src, j).End
		case c == '/' && j+1 < len(src) && src[j+1] == '/':
			j = lineEnd(src, j)
		case c == '/' && j+1 < len(src) && src[j+1] == '*':
			_, j = blockCommentEnd(src, j+2)
		default:
			j++
		}
	}
	return len(src)
}

var _ Scanner = (*CStyleScanner)(nil)
