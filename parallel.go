package glosa

import (
	"context"
	"fmt"

	"golang.org/x/sync/errgroup"
)

// TranslateBatch translates several requests concurrently, at most
// WithConcurrency at a time. Results keep the order of reqs. The first
// failing request cancels the rest and its error is returned, annotated with
// the request index.
func (t *Translator) TranslateBatch(ctx context.Context, reqs []Request) ([]*TranslationResult, error) {
	results := make([]*TranslationResult, len(reqs))
	if len(reqs) == 0 {
		return results, nil
	}

	// Warm the dictionary once; concurrent Gets would coalesce anyway
	if _, err := t.dictionary.Get(ctx); err != nil {
		return nil, err
	}

	eg, egctx := errgroup.WithContext(ctx)
	if t.concurrency > 0 {
		eg.SetLimit(t.concurrency)
	}

	for i, req := range reqs {
		eg.Go(func() error {
			res, err := t.TranslateStructural(egctx, req)
			if err != nil {
				return &TranslationError{Message: fmt.Sprintf("request %d", i), Cause: err}
			}
			results[i] = res
			return nil
		})
	}

	if err := eg.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}
