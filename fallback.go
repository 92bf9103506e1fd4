package glosa

// TranslateFallback substitutes dictionary phrases over the whole text, with
// no notion of code, strings or comments. It is used for languages without a
// registered scanner.
//
// This trades precision for coverage: an identifier that happens to equal a
// dictionary word (a variable named "user", say) is rewritten too.
func TranslateFallback(idx *Index, text string) (code string, replaced int) {
	return idx.Substitute(text)
}

// fallbackResult wraps a fallback translation into the common result shape.
func fallbackResult(idx *Index, req Request, language string) *TranslationResult {
	code, replaced := TranslateFallback(idx, req.Code)
	return &TranslationResult{
		Language:        language,
		FallbackApplied: true,
		Code:            code,
		Segments:        []TranslationSegment{},
		ReplacedStrings: replaced,
	}
}
