package glosa

import (
	"crypto/sha256"
	"encoding/hex"
	"sort"
	"strings"
)

// Index is an immutable, case-insensitive term lookup table built from
// dictionary entries. It is safe for concurrent use.
type Index struct {
	translations map[string]string // normalized key -> translation
	maxWords     int               // longest key, in word tokens
	version      string
}

// NewIndex builds an index from entries.
//
// Keys are the term and every alias, normalized with NormalizeKey. The first
// entry to claim a key wins, and every canonical term is indexed before any
// alias, so an alias never shadows another entry's term. Entries without a
// term or translation are skipped.
func NewIndex(entries []DictionaryEntry) *Index {
	idx := &Index{translations: make(map[string]string)}

	add := func(key, translation string) {
		key = NormalizeKey(key)
		if key == "" {
			return
		}
		if _, exists := idx.translations[key]; exists {
			return
		}
		words := countWords(key)
		if words == 0 {
			return
		}
		idx.translations[key] = translation
		if words > idx.maxWords {
			idx.maxWords = words
		}
	}

	// Terms first
	for _, e := range entries {
		translation := strings.TrimSpace(e.Translation)
		if translation == "" {
			continue
		}
		add(e.Term, translation)
	}

	// Then aliases
	for _, e := range entries {
		translation := strings.TrimSpace(e.Translation)
		if translation == "" || NormalizeKey(e.Term) == "" {
			continue
		}
		for _, alias := range e.Aliases {
			add(alias, translation)
		}
	}

	idx.version = idx.fingerprint()
	return idx
}

// NormalizeKey trims, lowercases and collapses internal whitespace.
func NormalizeKey(s string) string {
	return strings.ToLower(strings.Join(strings.Fields(s), " "))
}

// Lookup returns the stored translation for a phrase, matched case-insensitively.
func (idx *Index) Lookup(phrase string) (string, bool) {
	translation, ok := idx.translations[NormalizeKey(phrase)]
	return translation, ok
}

// Len returns the number of lookup keys.
func (idx *Index) Len() int {
	return len(idx.translations)
}

// MaxWords returns the word count of the longest key.
func (idx *Index) MaxWords() int {
	return idx.maxWords
}

// Version returns a fingerprint of the indexed mapping. Two indexes with the
// same keys and translations share a version.
func (idx *Index) Version() string {
	return idx.version
}

func (idx *Index) fingerprint() string {
	keys := make([]string, 0, len(idx.translations))
	for k := range idx.translations {
		keys = append(keys, k)
	}
	sort.Strings(keys)

	h := sha256.New()
	for _, k := range keys {
		h.Write([]byte(k))
		h.Write([]byte{0})
		h.Write([]byte(idx.translations[k]))
		h.Write([]byte{'\n'})
	}
	return hex.EncodeToString(h.Sum(nil))[:16]
}

// countWords counts word tokens in s.
func countWords(s string) int {
	n := 0
	for _, tok := range tokenize(s, false) {
		if tok.word {
			n++
		}
	}
	return n
}
