// Package cache provides segment cache implementations for the translator.
//
// Keys are produced by glosa.SegmentKey and end in the dictionary version, so
// a reloaded dictionary never reads entries computed from an older one.
package cache

import (
	"context"
	"strings"

	"github.com/ZaguanLabs/glosa"
)

// TranslationCache is an alias to the main package interface.
type TranslationCache = glosa.TranslationCache

// ExportableCache is a cache that can enumerate its entries.
type ExportableCache interface {
	TranslationCache
	// Entries returns all live entries as key-value pairs.
	Entries(ctx context.Context) (map[string]string, error)
}

// DictionaryVersion returns the dictionary version a segment key was computed
// with, or "" if key does not look like a segment key.
func DictionaryVersion(key string) string {
	i := strings.LastIndexByte(key, ':')
	if i < 0 {
		return ""
	}
	return key[i+1:]
}
