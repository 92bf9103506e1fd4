package provider

import (
	"context"
	"sync/atomic"
	"time"
)

// MockProvider is a mock term store for testing.
type MockProvider struct {
	Entries []DictionaryEntry // Entries returned by LoadAllTerms
	Err     error             // Returned instead of entries when set
	Delay   time.Duration     // Simulated store latency

	calls atomic.Int64
}

// NewMockProvider creates a new mock provider with a small default glossary.
func NewMockProvider() *MockProvider {
	return &MockProvider{
		Entries: []DictionaryEntry{
			{Term: "fetch", Translation: "obtener"},
			{Term: "user", Translation: "usuario"},
			{Term: "fetch user", Translation: "obtener usuario"},
			{Term: "welcome", Translation: "bienvenido"},
			{Term: "save changes", Translation: "guardar cambios"},
			{Term: "sign in", Translation: "iniciar sesión", Aliases: []string{"log in", "login"}},
		},
	}
}

// LoadAllTerms returns the mock entries after the configured delay.
func (m *MockProvider) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	m.calls.Add(1)

	if m.Delay > 0 {
		select {
		case <-time.After(m.Delay):
		case <-ctx.Done():
			return nil, ctx.Err()
		}
	}

	if m.Err != nil {
		return nil, m.Err
	}
	return cloneEntries(m.Entries), nil
}

// Calls returns the number of LoadAllTerms calls.
func (m *MockProvider) Calls() int {
	return int(m.calls.Load())
}

// Reset resets the call count.
func (m *MockProvider) Reset() {
	m.calls.Store(0)
}

var _ TermProvider = (*MockProvider)(nil)
