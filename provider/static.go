package provider

import (
	"context"
	"sync"
)

// StaticProvider serves a fixed, replaceable list of entries from memory.
type StaticProvider struct {
	mu      sync.RWMutex
	entries []DictionaryEntry
}

// NewStaticProvider creates a provider over a copy of entries.
func NewStaticProvider(entries []DictionaryEntry) *StaticProvider {
	return &StaticProvider{entries: cloneEntries(entries)}
}

// LoadAllTerms returns a copy of the current entries.
func (p *StaticProvider) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return cloneEntries(p.entries), nil
}

// Replace swaps the served entries. Callers invalidate their dictionary
// cache to pick up the change.
func (p *StaticProvider) Replace(entries []DictionaryEntry) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.entries = cloneEntries(entries)
}

var _ TermProvider = (*StaticProvider)(nil)
