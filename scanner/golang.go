package scanner

import (
	goscanner "go/scanner"
	"go/token"
	"strings"

	"github.com/ZaguanLabs/glosa"
)

// GoScanner scans Go source using the standard library tokenizer, so rune
// literals and raw strings are recognized exactly as the compiler does.
type GoScanner struct {
	opts options
}

// NewGoScanner creates a Go scanner.
func NewGoScanner(opts ...Option) *GoScanner {
	return &GoScanner{opts: defaultOptions(opts)}
}

// Languages returns "go" and "golang".
func (s *GoScanner) Languages() []string {
	return []string{"go", "golang"}
}

// Scan splits src into string, comment and code spans. Lexical errors are
// ignored: whatever the tokenizer cannot classify stays code.
func (s *GoScanner) Scan(src string) []Span {
	l := newSpanList(src, s.opts)

	fset := token.NewFileSet()
	file := fset.AddFile("source.go", fset.Base(), len(src))

	var sc goscanner.Scanner
	sc.Init(file, []byte(src), func(token.Position, string) {}, goscanner.ScanComments)

	for {
		pos, tok, _ := sc.Scan()
		if tok == token.EOF {
			break
		}
		off := file.Offset(pos)
		if off < 0 || off >= len(src) {
			continue
		}

		switch tok {
		case token.COMMENT:
			if strings.HasPrefix(src[off:], "//") {
				end := lineEnd(src, off)
				l.emit(delimited(glosa.KindComment, off, off+2, end, end))
			} else {
				innerEnd, end := blockCommentEnd(src, off+2)
				l.emit(delimited(glosa.KindComment, off, off+2, innerEnd, end))
			}

		case token.STRING:
			if src[off] == '`' {
				innerEnd, end := len(src), len(src)
				if idx := strings.IndexByte(src[off+1:], '`'); idx >= 0 {
					innerEnd, end = off+1+idx, off+2+idx
				}
				span := delimited(glosa.KindString, off, off+1, innerEnd, end)
				span.Raw = true
				l.emit(span)
			} else {
				innerEnd, end := scanQuoted(src, off+1, '"')
				l.emit(delimited(glosa.KindString, off, off+1, innerEnd, end))
			}
		}
	}

	return l.finish()
}

var _ Scanner = (*GoScanner)(nil)
