package glosa

// SpanKind classifies a region of scanned source text.
type SpanKind string

const (
	// KindString marks a string literal (or the text part of a template literal).
	KindString SpanKind = "string"
	// KindComment marks a line or block comment.
	KindComment SpanKind = "comment"
	// KindCode marks everything that must be kept verbatim.
	KindCode SpanKind = "code"
)

// DictionaryEntry is a glossary term with its Spanish translation.
type DictionaryEntry struct {
	Term        string   `json:"term" yaml:"term" toml:"term"`
	Translation string   `json:"translation" yaml:"translation" toml:"translation"`
	Aliases     []string `json:"aliases,omitempty" yaml:"aliases,omitempty" toml:"aliases,omitempty"`
}

// Quoting names extra escaping rules for replacement text inside a body,
// beyond those implied by its opening quote.
type Quoting string

const (
	// QuotingDefault escapes only for the opening quote (none when Raw).
	QuotingDefault Quoting = ""
	// QuotingHTML escapes markup characters in text and keeps "--" out of comments.
	QuotingHTML Quoting = "html"
	// QuotingDollar also escapes "$", which starts an interpolation (Kotlin, Dart, PHP).
	QuotingDollar Quoting = "dollar"
	// QuotingBraces doubles "{" and "}" (C# interpolated strings, Rust format strings).
	QuotingBraces Quoting = "braces"
)

// Span is a contiguous region of source text produced by a Scanner.
//
// Text always equals src[Start:End]. For string and comment spans the
// translatable body is src[InnerStart:InnerEnd]; everything outside the body
// (quotes, prefixes, comment markers) is a delimiter and is never rewritten.
// Template literals set Parts: alternating string and code sub-spans that
// cover the body exactly. Raw marks string bodies without backslash escapes
// (Go raw strings, Python r-strings, HTML text). Quoting adds escaping rules
// that the delimiters alone do not imply.
type Span struct {
	Kind       SpanKind
	Start      int
	End        int
	Text       string
	InnerStart int
	InnerEnd   int
	Parts      []Span
	Raw        bool
	Quoting    Quoting
}

// Open returns the opening delimiter of the span.
func (s Span) Open() string {
	if !s.hasBody() {
		return ""
	}
	return s.Text[:s.InnerStart-s.Start]
}

// Body returns the translatable text between the delimiters.
func (s Span) Body() string {
	if !s.hasBody() {
		return s.Text
	}
	return s.Text[s.InnerStart-s.Start : s.InnerEnd-s.Start]
}

// Close returns the closing delimiter of the span (empty when unterminated).
func (s Span) Close() string {
	if !s.hasBody() {
		return ""
	}
	return s.Text[s.InnerEnd-s.Start:]
}

// hasBody reports whether the inner offsets describe a range within the span.
func (s Span) hasBody() bool {
	return s.Start <= s.InnerStart && s.InnerStart <= s.InnerEnd && s.InnerEnd <= s.End &&
		s.End-s.Start == len(s.Text)
}

// TranslationSegment describes one translated string or comment body.
type TranslationSegment struct {
	Type       SpanKind `json:"type"`
	Original   string   `json:"original"`
	Translated string   `json:"translated"`
	Start      int      `json:"start"` // Byte offset of the body in the input
	End        int      `json:"end"`
}

// Changed reports whether the translation differs from the original text.
func (s TranslationSegment) Changed() bool {
	return s.Original != s.Translated
}

// Request is the input of a structural translation.
type Request struct {
	Code     string `json:"code"`
	Language string `json:"language"`
}

// TranslationResult is the outcome of a structural translation.
type TranslationResult struct {
	Language         string               `json:"language"`
	FallbackApplied  bool                 `json:"fallbackApplied"`
	Code             string               `json:"code"`
	Segments         []TranslationSegment `json:"segments"`
	ReplacedStrings  int                  `json:"replacedStrings"`
	ReplacedComments int                  `json:"replacedComments"`
	CachedSegments   int                  `json:"cachedSegments"` // Segments served from the segment cache
}

// Replaced returns the total number of phrase replacements.
func (r *TranslationResult) Replaced() int {
	return r.ReplacedStrings + r.ReplacedComments
}
