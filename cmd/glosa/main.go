// Command glosa translates the string literals and comments of source files
// using a term dictionary.
package main

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/ZaguanLabs/glosa"
	"github.com/ZaguanLabs/glosa/cache"
	"github.com/ZaguanLabs/glosa/internal/config"
	"github.com/ZaguanLabs/glosa/provider"
	"github.com/ZaguanLabs/glosa/scanner"
	"github.com/spf13/cobra"
)

func main() {
	if err := run(os.Args[1:], os.Stdout, os.Stderr); err != nil {
		fmt.Fprintf(os.Stderr, "error: %v\n", err)
		os.Exit(1)
	}
}

func run(args []string, stdout, stderr io.Writer) error {
	a := &app{stdin: os.Stdin, stdout: stdout, stderr: stderr}
	root := a.rootCommand()
	root.SetArgs(args)
	root.SetOut(stdout)
	root.SetErr(stderr)
	return root.ExecuteContext(context.Background())
}

// app holds state shared by subcommands.
type app struct {
	cfgFile string
	cfg     *config.Config
	logger  *slog.Logger

	stdin  io.Reader
	stdout io.Writer
	stderr io.Writer
}

func (a *app) rootCommand() *cobra.Command {
	root := &cobra.Command{
		Use:     glosa.Name,
		Short:   glosa.Description,
		Version: glosa.FullVersion(),
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			if cmd.Name() == "help" || cmd.Name() == "version" {
				return nil
			}

			cfg, err := config.Load(a.cfgFile, cmd.Flags())
			if err != nil {
				return err
			}
			a.cfg = cfg

			level := slog.LevelWarn
			if cfg.Verbose {
				level = slog.LevelDebug
			}
			a.logger = slog.New(slog.NewTextHandler(a.stderr, &slog.HandlerOptions{Level: level}))
			if cfg.ConfigFile != "" {
				a.logger.Debug("using config file", slog.String("path", cfg.ConfigFile))
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	root.SetVersionTemplate("{{.Name}} {{.Version}}\n")

	pf := root.PersistentFlags()
	pf.StringVar(&a.cfgFile, "config", "", "config file (default: ./glosa.yaml)")
	pf.String("dict", "", "glossary file (.yaml, .toml or .json)")
	pf.String("dsn", "", "SQL term store (SQLite path or postgres URL)")
	pf.String("driver", string(provider.DialectSQLite), "term store driver (sqlite|postgres)")
	pf.String("redis-url", "", "Redis URL for a shared segment cache")
	pf.Duration("cache-ttl", config.DefaultCacheTTL, "segment cache TTL (0 disables the in-memory cache)")
	pf.Int("concurrency", config.DefaultConcurrency, "files translated in parallel")
	pf.BoolP("verbose", "v", false, "verbose logging")

	root.AddCommand(
		a.translateCommand(),
		a.scanCommand(),
		a.diffCommand(),
		a.cacheCommand(),
		a.termsCommand(),
		a.versionCommand(),
	)
	return root
}

func (a *app) versionCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			d := glosa.ReadBuildDetails()
			fmt.Fprintf(a.stdout, "%s %s\n", glosa.Name, glosa.FullVersion())
			if d.Commit != "" {
				fmt.Fprintf(a.stdout, "  commit:  %s\n", d.Commit)
			}
			if d.BuildDate != "" {
				fmt.Fprintf(a.stdout, "  built:   %s\n", d.BuildDate)
			}
			fmt.Fprintf(a.stdout, "  go:      %s\n", d.GoVersion)
			return nil
		},
	}
}

// termProvider opens the configured term store. The returned close function
// releases any database handle.
func (a *app) termProvider(ctx context.Context) (glosa.TermProvider, func(), error) {
	noop := func() {}

	switch {
	case a.cfg.Dict != "":
		p, err := provider.NewFileProvider(a.cfg.Dict)
		if err != nil {
			return nil, noop, err
		}
		a.logger.Debug("using glossary file", slog.String("path", p.Path()))
		return p, noop, nil
	case a.cfg.DSN != "":
		p, db, err := a.sqlProvider(ctx)
		if err != nil {
			return nil, noop, err
		}
		retrying := glosa.NewRetryableTermProvider(p, glosa.DefaultRetryConfig(), glosa.WithRetryLogger(a.logger))
		return retrying, func() { _ = db.Close() }, nil
	default:
		return nil, noop, errors.New("no dictionary configured: set --dict or --dsn")
	}
}

func (a *app) sqlProvider(ctx context.Context) (*provider.SQLProvider, *sql.DB, error) {
	dialect := a.cfg.Dialect()
	db, err := provider.Open(ctx, dialect, a.cfg.DSN)
	if err != nil {
		return nil, nil, err
	}
	return provider.NewSQLProvider(db, dialect, provider.WithSQLLogger(a.logger)), db, nil
}

// segmentCache returns Redis when configured, otherwise an in-memory cache
// unless the TTL is zero.
func (a *app) segmentCache(ctx context.Context) (glosa.TranslationCache, func(), error) {
	noop := func() {}

	if a.cfg.RedisURL != "" {
		rc, err := cache.NewRedisCache(ctx, cache.RedisConfig{
			URL:    a.cfg.RedisURL,
			TTL:    a.cfg.CacheTTL,
			Logger: a.logger,
		})
		if err != nil {
			return nil, noop, err
		}
		return rc, func() { _ = rc.Close() }, nil
	}
	if a.cfg.CacheTTL > 0 {
		return cache.NewInMemoryCache(a.cfg.CacheTTL), noop, nil
	}
	return nil, noop, nil
}

// translator builds a translator over the configured term store and cache.
func (a *app) translator(ctx context.Context) (*glosa.Translator, func(), error) {
	terms, closeTerms, err := a.termProvider(ctx)
	if err != nil {
		return nil, nil, err
	}

	segments, closeCache, err := a.segmentCache(ctx)
	if err != nil {
		closeTerms()
		return nil, nil, err
	}

	opts := []glosa.TranslatorOption{
		glosa.WithScanners(scanner.Defaults()...),
		glosa.WithLogger(a.logger),
		glosa.WithConcurrency(a.cfg.Concurrency),
	}
	if segments != nil {
		opts = append(opts, glosa.WithCache(segments))
	}

	dict := glosa.NewDictionaryCache(terms, glosa.WithCacheLogger(a.logger))
	return glosa.NewTranslator(dict, opts...), func() {
		closeCache()
		closeTerms()
	}, nil
}

// scanOnly builds a translator with an empty dictionary. Its results list
// every translatable segment without changing any text.
func (a *app) scanOnly() *glosa.Translator {
	dict := glosa.NewDictionaryCache(provider.NewStaticProvider(nil))
	return glosa.NewTranslator(dict,
		glosa.WithScanners(scanner.Defaults()...),
		glosa.WithLogger(a.logger),
	)
}
