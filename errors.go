package glosa

import (
	"errors"
	"fmt"
)

// ErrEmptyCode is returned (wrapped in an InvalidInputError) when the code to
// translate is empty or whitespace only.
var ErrEmptyCode = errors.New("code is required")

// TranslationError is the base error type for translation failures.
type TranslationError struct {
	Message string
	Cause   error
}

func (e *TranslationError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Cause)
	}
	return e.Message
}

func (e *TranslationError) Unwrap() error {
	return e.Cause
}

// DictionaryLoadError indicates the term store was unreachable or returned malformed data.
type DictionaryLoadError struct {
	Message   string
	Cause     error
	Retryable bool // Whether the load can be retried
}

func (e *DictionaryLoadError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("dictionary load error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("dictionary load error: %s", e.Message)
}

func (e *DictionaryLoadError) Unwrap() error {
	return e.Cause
}

// InvalidInputError indicates a request rejected before any scanning work.
type InvalidInputError struct {
	Field string
	Cause error
}

func (e *InvalidInputError) Error() string {
	return fmt.Sprintf("invalid input (%s): %v", e.Field, e.Cause)
}

func (e *InvalidInputError) Unwrap() error {
	return e.Cause
}

// CacheError indicates a segment cache operation failure.
type CacheError struct {
	Message string
	Cause   error
}

func (e *CacheError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("cache error: %s: %v", e.Message, e.Cause)
	}
	return fmt.Sprintf("cache error: %s", e.Message)
}

func (e *CacheError) Unwrap() error {
	return e.Cause
}

// ScannerError indicates a scanner registration problem.
type ScannerError struct {
	Message  string
	Language string // The language tag involved
}

func (e *ScannerError) Error() string {
	return fmt.Sprintf("scanner error (%s): %s", e.Language, e.Message)
}
