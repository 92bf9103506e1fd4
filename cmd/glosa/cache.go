package main

import (
	"context"
	"errors"
	"fmt"

	"github.com/ZaguanLabs/glosa"
	"github.com/ZaguanLabs/glosa/cache"
	"github.com/spf13/cobra"
)

func (a *app) cacheCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "cache",
		Short: "Export or import the shared Redis segment cache",
	}
	cmd.AddCommand(a.cacheExportCommand(), a.cacheImportCommand())
	return cmd
}

// redisCache connects to the configured Redis segment cache.
func (a *app) redisCache(ctx context.Context) (*cache.RedisCache, error) {
	if a.cfg.RedisURL == "" {
		return nil, errors.New("cache commands need --redis-url")
	}
	return cache.NewRedisCache(ctx, cache.RedisConfig{
		URL:    a.cfg.RedisURL,
		TTL:    a.cfg.CacheTTL,
		Logger: a.logger,
	})
}

// dictionaryVersion returns the explicit version, or the version of the
// configured dictionary when current is set.
func (a *app) dictionaryVersion(ctx context.Context, explicit string, current bool) (string, error) {
	if !current {
		return explicit, nil
	}
	terms, closeTerms, err := a.termProvider(ctx)
	if err != nil {
		return "", err
	}
	defer closeTerms()

	idx, err := glosa.NewDictionaryCache(terms, glosa.WithCacheLogger(a.logger)).Get(ctx)
	if err != nil {
		return "", err
	}
	return idx.Version(), nil
}

func (a *app) cacheExportCommand() *cobra.Command {
	var (
		version string
		current bool
	)

	cmd := &cobra.Command{
		Use:   "export <file>",
		Short: "Write cached segments to a JSON snapshot",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := a.dictionaryVersion(ctx, version, current)
			if err != nil {
				return err
			}

			rc, err := a.redisCache(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			n, err := cache.NewExporter(rc, cache.WithExportVersion(v)).ExportToFile(ctx, args[0], map[string]string{
				"generator": glosa.UserAgent(),
			})
			if err != nil {
				return fmt.Errorf("exporting cache: %w", err)
			}
			fmt.Fprintf(a.stdout, "Exported %d entries to %s\n", n, args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "dictionary-version", "", "only export entries for this dictionary version")
	cmd.Flags().BoolVar(&current, "current", false, "only export entries for the configured dictionary")
	return cmd
}

func (a *app) cacheImportCommand() *cobra.Command {
	var (
		version string
		current bool
	)

	cmd := &cobra.Command{
		Use:   "import <file>",
		Short: "Load a JSON snapshot into the segment cache",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			v, err := a.dictionaryVersion(ctx, version, current)
			if err != nil {
				return err
			}

			rc, err := a.redisCache(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = rc.Close() }()

			res, err := cache.NewImporter(rc, cache.WithImportVersion(v)).ImportFromFile(args[0])
			if err != nil {
				return fmt.Errorf("importing cache: %w", err)
			}
			fmt.Fprintf(a.stdout, "Imported %d entries (%d skipped, %d failed)\n", res.Imported, res.Skipped, res.Failed)
			return nil
		},
	}

	cmd.Flags().StringVar(&version, "dictionary-version", "", "only import entries for this dictionary version")
	cmd.Flags().BoolVar(&current, "current", false, "only import entries for the configured dictionary")
	return cmd
}
