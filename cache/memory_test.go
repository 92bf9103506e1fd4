package cache

import (
	"context"
	"sync"
	"testing"
	"time"
)

// fakeClock is a settable time source.
type fakeClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *fakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *fakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

func newClockedCache(ttl time.Duration) (*InMemoryCache, *fakeClock) {
	clock := &fakeClock{now: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)}
	c := NewInMemoryCache(ttl)
	c.now = clock.Now
	return c, clock
}

func TestInMemoryCache_GetSet(t *testing.T) {
	c := NewInMemoryCache(time.Hour)

	if err := c.Set("key1", "value1"); err != nil {
		t.Fatalf("Set failed: %v", err)
	}

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Get should return true for existing key")
	}
	if val != "value1" {
		t.Errorf("Get returned %q, want %q", val, "value1")
	}

	val, ok = c.Get("nonexistent")
	if ok {
		t.Error("Get should return false for missing key")
	}
	if val != "" {
		t.Errorf("Get should return empty string for missing key, got %q", val)
	}
}

func TestInMemoryCache_TTL(t *testing.T) {
	c, clock := newClockedCache(time.Minute)

	c.Set("key1", "value1")

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("Value should be available immediately after set")
	}

	clock.Advance(2 * time.Minute)

	if _, ok := c.Get("key1"); ok {
		t.Error("Value should be expired after TTL")
	}
	if c.Len() != 0 {
		t.Error("Expired entry should be removed on access")
	}
}

func TestInMemoryCache_NoTTL(t *testing.T) {
	c, clock := newClockedCache(0)

	c.Set("key1", "value1")
	clock.Advance(24 * time.Hour)

	if val, ok := c.Get("key1"); !ok || val != "value1" {
		t.Error("Value should be available with no TTL")
	}
}

func TestInMemoryCache_Prune(t *testing.T) {
	c, clock := newClockedCache(time.Minute)

	c.Set("old", "1")
	clock.Advance(2 * time.Minute)
	c.Set("new", "2")

	if removed := c.Prune(); removed != 1 {
		t.Errorf("Expected 1 pruned entry, got %d", removed)
	}
	if c.Len() != 1 {
		t.Errorf("Expected 1 remaining entry, got %d", c.Len())
	}
}

func TestInMemoryCache_PruneVersions(t *testing.T) {
	c := NewInMemoryCache(0)

	c.Set("aaa:v1", "1")
	c.Set("bbb:v1", "2")
	c.Set("ccc:v2", "3")

	if removed := c.PruneVersions("v2"); removed != 2 {
		t.Errorf("Expected 2 pruned entries, got %d", removed)
	}
	if _, ok := c.Get("ccc:v2"); !ok {
		t.Error("Entry for the kept version should survive")
	}
}

func TestInMemoryCache_Stats(t *testing.T) {
	c := NewInMemoryCache(0)

	c.Set("key1", "value1")
	c.Get("key1")
	c.Get("key1")
	c.Get("missing")

	stats := c.Stats()
	if stats.Hits != 2 || stats.Misses != 1 || stats.Entries != 1 {
		t.Errorf("Unexpected stats: %+v", stats)
	}

	c.Clear()
	if stats := c.Stats(); stats.Hits != 0 || stats.Misses != 0 || stats.Entries != 0 {
		t.Errorf("Clear should reset stats, got %+v", stats)
	}
}

func TestInMemoryCache_Entries(t *testing.T) {
	c, clock := newClockedCache(time.Minute)

	c.Set("old", "1")
	clock.Advance(2 * time.Minute)
	c.Set("new", "2")

	entries, err := c.Entries(context.Background())
	if err != nil {
		t.Fatalf("Entries failed: %v", err)
	}
	if len(entries) != 1 || entries["new"] != "2" {
		t.Errorf("Expected only the live entry, got %v", entries)
	}
}

func TestInMemoryCache_Overwrite(t *testing.T) {
	c := NewInMemoryCache(time.Hour)

	c.Set("key1", "value1")
	c.Set("key1", "value2")

	val, ok := c.Get("key1")
	if !ok {
		t.Error("Key should exist")
	}
	if val != "value2" {
		t.Errorf("Value should be overwritten, got %q, want %q", val, "value2")
	}
}

func TestInMemoryCache_Concurrent(t *testing.T) {
	c := NewInMemoryCache(time.Hour)
	var wg sync.WaitGroup

	for i := 0; i < 100; i++ {
		wg.Add(2)
		go func() {
			defer wg.Done()
			c.Set(string(rune('a'+i%26)), "value")
		}()
		go func() {
			defer wg.Done()
			c.Get(string(rune('a' + i%26)))
		}()
	}

	wg.Wait()

	if c.Len() > 26 {
		t.Errorf("Expected at most 26 entries, got %d", c.Len())
	}
}

func TestDictionaryVersion(t *testing.T) {
	tests := []struct {
		key      string
		expected string
	}{
		{"abc123:0f1e2d3c4b5a6978", "0f1e2d3c4b5a6978"},
		{"nocolon", ""},
		{"a:b:c", "c"},
	}

	for _, tt := range tests {
		if got := DictionaryVersion(tt.key); got != tt.expected {
			t.Errorf("DictionaryVersion(%q) = %q, want %q", tt.key, got, tt.expected)
		}
	}
}
