// Package scanner provides lexical scanners that split source code into
// string, comment and code spans.
package scanner

import "github.com/ZaguanLabs/glosa"

// Scanner is an alias to the main package interface.
type Scanner = glosa.Scanner

// Span is an alias to the main package type.
type Span = glosa.Span

// Option configures which span kinds a scanner reports.
type Option func(*options)

type options struct {
	comments bool
	strings  bool
}

func defaultOptions(opts []Option) options {
	o := options{comments: true, strings: true}
	for _, opt := range opts {
		opt(&o)
	}
	return o
}

// WithComments enables/disables comment spans. Disabled comments are
// reported as code and therefore never translated.
func WithComments(enabled bool) Option {
	return func(o *options) {
		o.comments = enabled
	}
}

// WithStrings enables/disables string spans.
func WithStrings(enabled bool) Option {
	return func(o *options) {
		o.strings = enabled
	}
}

// Defaults returns one scanner per supported language family.
func Defaults(opts ...Option) []Scanner {
	return []Scanner{
		NewJavaScriptScanner(opts...),
		NewCFamilyScanner(opts...),
		NewCSharpScanner(opts...),
		NewRustScanner(opts...),
		NewKotlinScanner(opts...),
		NewScalaScanner(opts...),
		NewSwiftScanner(opts...),
		NewDartScanner(opts...),
		NewPHPScanner(opts...),
		NewPythonScanner(opts...),
		NewGoScanner(opts...),
		NewHTMLScanner(opts...),
	}
}

// spanList accumulates spans while guaranteeing full coverage of src: any
// gap before an emitted span, and the tail after the last one, becomes code.
type spanList struct {
	src  string
	opts options
	list []Span
	pos  int // End of the last emitted span
}

func newSpanList(src string, opts options) *spanList {
	return &spanList{src: src, opts: opts}
}

// flushCode emits src[pos:upTo] as a code span.
func (l *spanList) flushCode(upTo int) {
	if upTo <= l.pos {
		return
	}
	l.list = append(l.list, Span{
		Kind:       glosa.KindCode,
		Start:      l.pos,
		End:        upTo,
		Text:       l.src[l.pos:upTo],
		InnerStart: l.pos,
		InnerEnd:   upTo,
	})
	l.pos = upTo
}

// emit appends a string or comment span. Spans that start before the
// current position, or whose kind is disabled, are folded into code.
func (l *spanList) emit(sp Span) {
	if sp.Start < l.pos || sp.End > len(l.src) || sp.End <= sp.Start {
		return
	}
	if (sp.Kind == glosa.KindComment && !l.opts.comments) || (sp.Kind == glosa.KindString && !l.opts.strings) {
		return
	}
	l.flushCode(sp.Start)
	sp.Text = l.src[sp.Start:sp.End]
	l.list = append(l.list, sp)
	l.pos = sp.End
}

// finish flushes the trailing code and returns the spans.
func (l *spanList) finish() []Span {
	l.flushCode(len(l.src))
	return l.list
}

// delimited builds a span whose body is src[innerStart:innerEnd].
func delimited(kind glosa.SpanKind, start, innerStart, innerEnd, end int) Span {
	return Span{
		Kind:       kind,
		Start:      start,
		End:        end,
		InnerStart: innerStart,
		InnerEnd:   innerEnd,
	}
}

// appendPart appends src[start:end] as a sub-span of kind. Empty ranges are
// skipped.
func appendPart(parts []Span, src string, kind glosa.SpanKind, start, end int) []Span {
	if end <= start {
		return parts
	}
	return append(parts, Span{
		Kind:       kind,
		Start:      start,
		End:        end,
		Text:       src[start:end],
		InnerStart: start,
		InnerEnd:   end,
	})
}

// scanQuoted scans a single-line quoted string whose body starts at i.
// It returns the end of the body and the end of the literal. A backslash
// escapes the next byte, except as the last byte of input. An unescaped line
// break ends an unterminated literal before the break; end of input ends it
// at len(src).
func scanQuoted(src string, i int, quote byte) (innerEnd, end int) {
	j := i
	for j < len(src) {
		switch c := src[j]; {
		case c == '\\':
			if j+1 < len(src) {
				j += 2
			} else {
				j++
			}
		case c == quote:
			return j, j + 1
		case c == '\n' || (c == '\r' && j+1 < len(src) && src[j+1] == '\n'):
			return j, j
		default:
			j++
		}
	}
	return len(src), len(src)
}

// lineEnd returns the index of the next '\n' at or after i, or len(src).
func lineEnd(src string, i int) int {
	for j := i; j < len(src); j++ {
		if src[j] == '\n' {
			return j
		}
	}
	return len(src)
}
