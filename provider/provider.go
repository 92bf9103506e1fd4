// Package provider defines term stores that feed the dictionary cache.
package provider

import "github.com/ZaguanLabs/glosa"

// TermProvider is the term store interface.
// This is an alias to the main package interface for convenience.
type TermProvider = glosa.TermProvider

// DictionaryEntry is an alias to the main package type.
type DictionaryEntry = glosa.DictionaryEntry

// cloneEntries copies entries, including alias slices, so callers cannot
// mutate a provider's data through the returned slice.
func cloneEntries(entries []DictionaryEntry) []DictionaryEntry {
	out := make([]DictionaryEntry, len(entries))
	for i, e := range entries {
		out[i] = e
		if e.Aliases != nil {
			out[i].Aliases = append([]string(nil), e.Aliases...)
		}
	}
	return out
}
