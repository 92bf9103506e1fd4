package glosa

import (
	"context"
	"errors"
	"log/slog"
	"strconv"
	"sync"

	"golang.org/x/sync/singleflight"
)

// TermProvider is the term store capability consumed by the dictionary cache.
type TermProvider interface {
	LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error)
}

// TermProviderFunc adapts a function to TermProvider.
type TermProviderFunc func(ctx context.Context) ([]DictionaryEntry, error)

// LoadAllTerms calls f.
func (f TermProviderFunc) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	return f(ctx)
}

// DictionaryCache memoizes the dictionary index built from a TermProvider.
//
// Concurrent callers that find the cache cold share a single provider call.
// Invalidate drops the cached index and detaches any in-flight load: waiters
// of that load still receive its result, but it is not stored.
type DictionaryCache struct {
	provider TermProvider
	logger   *slog.Logger
	group    singleflight.Group

	mu         sync.Mutex
	index      *Index
	generation uint64
}

// DictionaryCacheOption configures a DictionaryCache.
type DictionaryCacheOption func(*DictionaryCache)

// WithCacheLogger sets the logger used for load and invalidation events.
func WithCacheLogger(logger *slog.Logger) DictionaryCacheOption {
	return func(c *DictionaryCache) {
		if logger != nil {
			c.logger = logger
		}
	}
}

// NewDictionaryCache creates an empty cache over provider.
func NewDictionaryCache(provider TermProvider, opts ...DictionaryCacheOption) *DictionaryCache {
	c := &DictionaryCache{
		provider: provider,
		logger:   slog.New(slog.DiscardHandler),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Get returns the cached index, loading it from the provider when cold.
// Load failures are returned as *DictionaryLoadError and are not cached.
func (c *DictionaryCache) Get(ctx context.Context) (*Index, error) {
	c.mu.Lock()
	if c.index != nil {
		idx := c.index
		c.mu.Unlock()
		return idx, nil
	}
	gen := c.generation
	c.mu.Unlock()

	// The shared load outlives any single caller's cancellation.
	loadCtx := context.WithoutCancel(ctx)
	ch := c.group.DoChan(strconv.FormatUint(gen, 10), func() (interface{}, error) {
		return c.load(loadCtx, gen)
	})

	select {
	case <-ctx.Done():
		return nil, ctx.Err()
	case res := <-ch:
		if res.Err != nil {
			return nil, res.Err
		}
		return res.Val.(*Index), nil
	}
}

// Invalidate clears the cached index, forcing the next Get to reload.
func (c *DictionaryCache) Invalidate() {
	c.mu.Lock()
	old := c.generation
	c.index = nil
	c.generation++
	c.mu.Unlock()

	c.group.Forget(strconv.FormatUint(old, 10))
	c.logger.Debug("dictionary cache invalidated", slog.Uint64("generation", old+1))
}

// Loaded reports whether an index is currently cached.
func (c *DictionaryCache) Loaded() bool {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.index != nil
}

// load fetches all terms and stores the index if no invalidation happened meanwhile.
func (c *DictionaryCache) load(ctx context.Context, gen uint64) (*Index, error) {
	if c.provider == nil {
		return nil, &DictionaryLoadError{Message: "no term provider configured"}
	}

	// A caller that raced a just-finished load reuses its index
	c.mu.Lock()
	if c.index != nil && c.generation == gen {
		idx := c.index
		c.mu.Unlock()
		return idx, nil
	}
	c.mu.Unlock()

	c.logger.Debug("loading dictionary", slog.Uint64("generation", gen))

	entries, err := c.provider.LoadAllTerms(ctx)
	if err != nil {
		var loadErr *DictionaryLoadError
		if errors.As(err, &loadErr) {
			return nil, err
		}
		return nil, &DictionaryLoadError{
			Message: "term store unavailable",
			Cause:   err,
		}
	}
	if entries == nil {
		return nil, &DictionaryLoadError{Message: "term store returned no data"}
	}

	idx := NewIndex(entries)

	c.mu.Lock()
	stored := c.generation == gen
	if stored {
		c.index = idx
	}
	c.mu.Unlock()

	c.logger.Debug("dictionary loaded",
		slog.Int("entries", len(entries)),
		slog.Int("keys", idx.Len()),
		slog.String("version", idx.Version()),
		slog.Bool("stored", stored),
	)

	return idx, nil
}
