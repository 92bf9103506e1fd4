package scanner

import (
	"strings"

	"github.com/ZaguanLabs/glosa"
)

// PythonScanner scans Python source: # comments, single and triple quoted
// strings with optional prefixes, and f-string interpolations. Bytes
// literals are reported as code.
type PythonScanner struct {
	opts options
}

// NewPythonScanner creates a Python scanner.
func NewPythonScanner(opts ...Option) *PythonScanner {
	return &PythonScanner{opts: defaultOptions(opts)}
}

// Languages returns "python" and "py".
func (s *PythonScanner) Languages() []string {
	return []string{"python", "py"}
}

// Scan splits src into string, comment and code spans.
func (s *PythonScanner) Scan(src string) []Span {
	l := newSpanList(src, s.opts)

	i := 0
	for i < len(src) {
		c := src[i]
		switch {
		case c == '#':
			end := lineEnd(src, i)
			l.emit(delimited(glosa.KindComment, i, i+1, end, end))
			i = end

		case c == '"' || c == '\'':
			span := scanPythonString(src, i, i)
			l.emit(span)
			i = span.End

		case isIdentStart(c):
			j := i + 1
			for j < len(src) && isIdentPart(src[j]) {
				j++
			}
			// String prefixes stay in the opening delimiter. Bytes literals
			// only admit ASCII, so they stay code.
			if j < len(src) && (src[j] == '"' || src[j] == '\'') && isStringPrefix(src[i:j]) {
				span := scanPythonString(src, i, j)
				if !strings.ContainsAny(src[i:j], "bB") {
					l.emit(span)
				}
				i = span.End
				continue
			}
			i = j

		default:
			i++
		}
	}

	return l.finish()
}

// scanPythonString scans a string literal whose prefix starts at start and
// whose opening quote is at q.
func scanPythonString(src string, start, q int) Span {
	prefix := strings.ToLower(src[start:q])
	quote := src[q]
	delim := src[q : q+1]
	if strings.HasPrefix(src[q:], strings.Repeat(delim, 3)) {
		delim = strings.Repeat(delim, 3)
	}
	bodyStart := q + len(delim)

	innerEnd, end := len(src), len(src)
	j := bodyStart
scan:
	for j < len(src) {
		switch c := src[j]; {
		case c == '\\':
			if j+1 < len(src) {
				j += 2
			} else {
				j++
			}
		case c == quote && strings.HasPrefix(src[j:], delim):
			innerEnd, end = j, j+len(delim)
			break scan
		case len(delim) == 1 && (c == '\n' || (c == '\r' && j+1 < len(src) && src[j+1] == '\n')):
			innerEnd, end = j, j
			break scan
		default:
			j++
		}
	}

	span := delimited(glosa.KindString, start, bodyStart, innerEnd, end)
	span.Raw = strings.Contains(prefix, "r")
	if strings.Contains(prefix, "f") {
		span.Parts = formatParts(src, bodyStart, innerEnd, span.Raw)
	}
	return span
}

// formatParts splits an f-string body into text parts and {expr} code parts.
// Doubled braces are literal text. Parts are returned only when the body
// contains at least one replacement field.
func formatParts(src string, start, end int, raw bool) []Span {
	var parts []Span
	hasField := false

	textStart := start
	k := start
	for k < end {
		switch c := src[k]; {
		case c == '\\' && !raw:
			k += 2
		case c == '{' && k+1 < end && src[k+1] == '{':
			k += 2
		case c == '}' && k+1 < end && src[k+1] == '}':
			k += 2
		case c == '{':
			parts = appendPart(parts, src, glosa.KindString, textStart, k)
			next := fieldEnd(src, k+1, end)
			parts = appendPart(parts, src, glosa.KindCode, k, next)
			hasField = true
			k = next
			textStart = k
		default:
			k++
		}
	}
	if k > end {
		k = end
	}
	parts = appendPart(parts, src, glosa.KindString, textStart, k)

	if !hasField {
		return nil
	}
	return parts
}

// fieldEnd returns the position after the '}' closing a replacement field
// whose expression starts at i, bounded by end.
func fieldEnd(src string, i, end int) int {
	depth := 1
	for j := i; j < end; j++ {
		switch src[j] {
		case '{':
			depth++
		case '}':
			depth--
			if depth == 0 {
				return j + 1
			}
		case '\'', '"':
			// Nested quotes of the other kind
			if idx := strings.IndexByte(src[j+1:end], src[j]); idx >= 0 {
				j += idx + 1
			}
		}
	}
	return end
}

func isIdentStart(c byte) bool {
	return c == '_' || (c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || c >= 0x80
}

func isIdentPart(c byte) bool {
	return isIdentStart(c) || (c >= '0' && c <= '9')
}

// isStringPrefix reports whether p is a valid Python string prefix.
func isStringPrefix(p string) bool {
	switch strings.ToLower(p) {
	case "r", "u", "b", "f", "rb", "br", "fr", "rf":
		return true
	}
	return false
}

var _ Scanner = (*PythonScanner)(nil)
