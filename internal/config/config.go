// Package config loads glosa CLI settings from defaults, a glosa.yaml file,
// GLOSA_ environment variables and command-line flags.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/ZaguanLabs/glosa/provider"
	"github.com/knadh/koanf/parsers/yaml"
	"github.com/knadh/koanf/providers/confmap"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/providers/file"
	"github.com/knadh/koanf/providers/posflag"
	"github.com/knadh/koanf/v2"
	"github.com/spf13/pflag"
)

// EnvPrefix is the prefix of environment variables read by Load.
const EnvPrefix = "GLOSA_"

// Defaults
const (
	DefaultCacheTTL    = time.Hour
	DefaultConcurrency = 4
)

// Config holds CLI settings.
type Config struct {
	// Dict is a YAML, TOML or JSON glossary file.
	Dict string `koanf:"dict"`
	// DSN is a SQL term store; Driver selects sqlite or postgres.
	DSN    string `koanf:"dsn"`
	Driver string `koanf:"driver"`
	// Lang is the default source language.
	Lang        string        `koanf:"lang"`
	CacheTTL    time.Duration `koanf:"cache_ttl"`
	RedisURL    string        `koanf:"redis_url"`
	Verbose     bool          `koanf:"verbose"`
	Concurrency int           `koanf:"concurrency"`

	// ConfigFile is the file that was read, if any.
	ConfigFile string `koanf:"-"`
}

// findConfigFile returns the explicit path, or glosa.yaml / glosa.yml in the
// working directory.
func findConfigFile(explicit string) string {
	if explicit != "" {
		return explicit
	}
	for _, name := range []string{"glosa.yaml", "glosa.yml"} {
		if _, err := os.Stat(name); err == nil {
			return name
		}
	}
	return ""
}

// Load builds a Config.
// Precedence (highest to lowest): flags > env vars > config file > defaults
func Load(cfgFile string, flags *pflag.FlagSet) (*Config, error) {
	k := koanf.New(".")

	// 1. Defaults
	if err := k.Load(confmap.Provider(map[string]interface{}{
		"driver":      string(provider.DialectSQLite),
		"cache_ttl":   DefaultCacheTTL,
		"verbose":     false,
		"concurrency": DefaultConcurrency,
	}, "."), nil); err != nil {
		return nil, fmt.Errorf("failed to load defaults: %w", err)
	}

	// 2. Config file
	used := findConfigFile(cfgFile)
	if used != "" {
		if err := k.Load(file.Provider(used), yaml.Parser()); err != nil {
			return nil, fmt.Errorf("error reading config file %s: %w", used, err)
		}
	}

	// 3. Environment: GLOSA_REDIS_URL -> redis_url
	if err := k.Load(env.Provider(EnvPrefix, ".", func(s string) string {
		return strings.ToLower(strings.TrimPrefix(s, EnvPrefix))
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to load env vars: %w", err)
	}

	// 4. Flags that were explicitly set
	if flags != nil {
		if err := k.Load(posflag.ProviderWithFlag(flags, ".", k, func(f *pflag.Flag) (string, interface{}) {
			if !f.Changed {
				return "", nil
			}
			return strings.ReplaceAll(f.Name, "-", "_"), posflag.FlagVal(flags, f)
		}), nil); err != nil {
			return nil, fmt.Errorf("failed to load flags: %w", err)
		}
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}
	cfg.ConfigFile = used

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks for conflicting or out-of-range settings.
func (c *Config) Validate() error {
	var errs []error

	if c.Dict != "" && c.DSN != "" {
		errs = append(errs, errors.New("dict and dsn are mutually exclusive"))
	}
	if _, err := provider.ParseDialect(c.Driver); err != nil {
		errs = append(errs, err)
	}
	if c.CacheTTL < 0 {
		errs = append(errs, fmt.Errorf("cache_ttl must not be negative, got %s", c.CacheTTL))
	}
	if c.Concurrency < 0 {
		errs = append(errs, fmt.Errorf("concurrency must not be negative, got %d", c.Concurrency))
	}

	if len(errs) > 0 {
		return fmt.Errorf("invalid configuration: %w", errors.Join(errs...))
	}
	return nil
}

// Dialect returns the parsed term store dialect.
func (c *Config) Dialect() provider.Dialect {
	d, err := provider.ParseDialect(c.Driver)
	if err != nil {
		return provider.DialectSQLite
	}
	return d
}
