package glosa

import (
	"context"
	"encoding/json"
	"log/slog"
	"sort"
	"strings"
	"sync"
)

// Translator is the structural code translation engine.
type Translator struct {
	dictionary  *DictionaryCache
	cache       TranslationCache
	logger      *slog.Logger
	concurrency int

	mu       sync.RWMutex
	scanners map[string]Scanner
}

// Scanner splits source text into ordered spans covering the whole input.
type Scanner interface {
	// Scan never fails: malformed input degrades into spans that run to the
	// end of the text.
	Scan(src string) []Span
	// Languages returns the language tags handled by the scanner.
	Languages() []string
}

// TranslationCache is the interface for segment translation caching.
type TranslationCache interface {
	Get(key string) (string, bool)
	Set(key string, value string) error
}

// TranslatorOption is a functional option for configuring the Translator.
type TranslatorOption func(*Translator)

// WithScanner registers a scanner for all of its languages.
// A later registration for the same tag replaces an earlier one.
func WithScanner(s Scanner) TranslatorOption {
	return func(t *Translator) {
		for _, lang := range s.Languages() {
			t.scanners[NormalizeLanguage(lang)] = s
		}
	}
}

// WithScanners registers several scanners.
func WithScanners(scanners ...Scanner) TranslatorOption {
	return func(t *Translator) {
		for _, s := range scanners {
			WithScanner(s)(t)
		}
	}
}

// WithCache sets the segment translation cache.
func WithCache(cache TranslationCache) TranslatorOption {
	return func(t *Translator) {
		t.cache = cache
	}
}

// WithLogger sets the logger.
func WithLogger(logger *slog.Logger) TranslatorOption {
	return func(t *Translator) {
		if logger != nil {
			t.logger = logger
		}
	}
}

// WithConcurrency sets how many requests TranslateBatch processes at once.
func WithConcurrency(n int) TranslatorOption {
	return func(t *Translator) {
		t.concurrency = n
	}
}

// NewTranslator creates a Translator that reads terms through dictionary.
func NewTranslator(dictionary *DictionaryCache, opts ...TranslatorOption) *Translator {
	t := &Translator{
		dictionary:  dictionary,
		logger:      slog.New(slog.DiscardHandler),
		concurrency: 4,
		scanners:    make(map[string]Scanner),
	}

	for _, opt := range opts {
		opt(t)
	}

	return t
}

// RegisterScanner adds a scanner after construction. Unlike WithScanner it
// refuses to replace a scanner already registered for one of its tags.
func (t *Translator) RegisterScanner(s Scanner) error {
	t.mu.Lock()
	defer t.mu.Unlock()

	langs := s.Languages()
	if len(langs) == 0 {
		return &ScannerError{Message: "scanner declares no languages"}
	}
	for _, lang := range langs {
		tag := NormalizeLanguage(lang)
		if tag == "" {
			return &ScannerError{Message: "empty language tag", Language: lang}
		}
		if _, exists := t.scanners[tag]; exists {
			return &ScannerError{Message: "language already registered", Language: tag}
		}
	}
	for _, lang := range langs {
		t.scanners[NormalizeLanguage(lang)] = s
	}
	return nil
}

// Scanner returns the scanner registered for a language tag.
func (t *Translator) Scanner(language string) (Scanner, bool) {
	t.mu.RLock()
	defer t.mu.RUnlock()
	s, ok := t.scanners[NormalizeLanguage(language)]
	return s, ok
}

// Languages returns the registered language tags, sorted.
func (t *Translator) Languages() []string {
	t.mu.RLock()
	defer t.mu.RUnlock()
	langs := make([]string, 0, len(t.scanners))
	for lang := range t.scanners {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

// Dictionary returns the dictionary cache backing the translator.
func (t *Translator) Dictionary() *DictionaryCache {
	return t.dictionary
}

// TranslateStructural translates the string literals and comments of
// req.Code, leaving everything else byte-identical. Languages without a
// registered scanner go through TranslateFallback.
//
// Only an empty request or a dictionary load failure produce an error.
func (t *Translator) TranslateStructural(ctx context.Context, req Request) (*TranslationResult, error) {
	// Validate input
	if strings.TrimSpace(req.Code) == "" {
		return nil, &InvalidInputError{Field: "code", Cause: ErrEmptyCode}
	}

	// Load dictionary
	idx, err := t.dictionary.Get(ctx)
	if err != nil {
		return nil, err
	}

	language := NormalizeLanguage(req.Language)
	scanner, ok := t.Scanner(language)
	if !ok {
		t.logger.Debug("no scanner for language, using fallback", slog.String("language", language))
		return fallbackResult(idx, req, language), nil
	}

	result := &TranslationResult{
		Language: language,
		Segments: []TranslationSegment{},
	}

	var out strings.Builder
	out.Grow(len(req.Code))
	for _, span := range scanner.Scan(req.Code) {
		t.translateSpan(idx, span, &out, result)
	}
	result.Code = out.String()

	t.logger.Debug("translated code",
		slog.String("language", language),
		slog.Int("segments", len(result.Segments)),
		slog.Int("replaced_strings", result.ReplacedStrings),
		slog.Int("replaced_comments", result.ReplacedComments),
		slog.Int("cached_segments", result.CachedSegments),
	)

	return result, nil
}

// translateSpan writes the translated form of span to out.
func (t *Translator) translateSpan(idx *Index, span Span, out *strings.Builder, result *TranslationResult) {
	if span.Kind != KindString && span.Kind != KindComment {
		out.WriteString(span.Text)
		return
	}

	opts := bodyOptions(span)
	out.WriteString(span.Open())

	if len(span.Parts) > 0 {
		// Template literal: only the text parts are translated
		for _, part := range span.Parts {
			if part.Kind != KindString {
				out.WriteString(part.Text)
				continue
			}
			out.WriteString(t.translateBody(idx, span.Kind, part.Text, part.Start, opts, result))
		}
	} else {
		out.WriteString(t.translateBody(idx, span.Kind, span.Body(), span.InnerStart, opts, result))
	}

	out.WriteString(span.Close())
}

// translateBody substitutes dictionary phrases in one body and records the segment.
func (t *Translator) translateBody(idx *Index, kind SpanKind, body string, start int, opts substituteOptions, result *TranslationResult) string {
	if body == "" {
		return body
	}

	translated, replaced, cached := t.substituteCached(idx, kind, body, opts)

	result.Segments = append(result.Segments, TranslationSegment{
		Type:       kind,
		Original:   body,
		Translated: translated,
		Start:      start,
		End:        start + len(body),
	})
	if kind == KindString {
		result.ReplacedStrings += replaced
	} else {
		result.ReplacedComments += replaced
	}
	if cached {
		result.CachedSegments++
	}

	return translated
}

// cachedSegment is the value stored in the segment cache.
type cachedSegment struct {
	Text     string `json:"text"`
	Replaced int    `json:"replaced"`
}

// substituteCached runs the substitution through the segment cache if one is set.
func (t *Translator) substituteCached(idx *Index, kind SpanKind, body string, opts substituteOptions) (string, int, bool) {
	if t.cache == nil {
		translated, replaced := idx.substitute(body, opts)
		return translated, replaced, false
	}

	key := SegmentKey(kind, opts.variant(), body, idx.Version())
	if raw, ok := t.cache.Get(key); ok {
		var seg cachedSegment
		if err := json.Unmarshal([]byte(raw), &seg); err == nil {
			return seg.Text, seg.Replaced, true
		}
		t.logger.Debug("ignoring corrupt cache entry", slog.String("key", key))
	}

	translated, replaced := idx.substitute(body, opts)
	if data, err := json.Marshal(cachedSegment{Text: translated, Replaced: replaced}); err == nil {
		_ = t.cache.Set(key, string(data)) // Ignore cache set errors
	}
	return translated, replaced, false
}
