package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"time"
)

// FormatVersion is the version written to and accepted from snapshots.
const FormatVersion = "1.0"

// ExportFormat represents the JSON structure for cache export/import.
type ExportFormat struct {
	Version           string            `json:"version"`
	ExportedAt        string            `json:"exported_at"`
	DictionaryVersion string            `json:"dictionary_version,omitempty"`
	Entries           []ExportEntry     `json:"entries"`
	Metadata          map[string]string `json:"metadata,omitempty"`
}

// ExportEntry represents a single cache entry.
type ExportEntry struct {
	Key   string `json:"key"`
	Value string `json:"value"`
}

// Exporter writes cache snapshots.
type Exporter struct {
	cache             ExportableCache
	dictionaryVersion string
}

// ExporterOption configures an Exporter.
type ExporterOption func(*Exporter)

// WithExportVersion limits the export to entries computed with the given
// dictionary version and records it in the snapshot.
func WithExportVersion(version string) ExporterOption {
	return func(e *Exporter) {
		e.dictionaryVersion = version
	}
}

// NewExporter creates a new cache exporter.
func NewExporter(cache ExportableCache, opts ...ExporterOption) *Exporter {
	e := &Exporter{cache: cache}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Export writes the cache contents to w as indented JSON, sorted by key.
func (e *Exporter) Export(ctx context.Context, w io.Writer, metadata map[string]string) (int, error) {
	data, err := e.cache.Entries(ctx)
	if err != nil {
		return 0, fmt.Errorf("getting cache entries: %w", err)
	}

	entries := make([]ExportEntry, 0, len(data))
	for key, value := range data {
		if e.dictionaryVersion != "" && DictionaryVersion(key) != e.dictionaryVersion {
			continue
		}
		entries = append(entries, ExportEntry{Key: key, Value: value})
	}
	sort.Slice(entries, func(i, j int) bool { return entries[i].Key < entries[j].Key })

	export := ExportFormat{
		Version:           FormatVersion,
		ExportedAt:        time.Now().UTC().Format(time.RFC3339),
		DictionaryVersion: e.dictionaryVersion,
		Entries:           entries,
		Metadata:          metadata,
	}

	encoder := json.NewEncoder(w)
	encoder.SetIndent("", "  ")
	if err := encoder.Encode(export); err != nil {
		return 0, fmt.Errorf("encoding JSON: %w", err)
	}

	return len(entries), nil
}

// ExportToFile exports the cache to a file.
// The path is provided by the caller and is intentionally user-controlled.
func (e *Exporter) ExportToFile(ctx context.Context, path string, metadata map[string]string) (int, error) {
	f, err := os.Create(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return 0, fmt.Errorf("creating file: %w", err)
	}
	defer f.Close()

	return e.Export(ctx, f, metadata)
}

// Importer loads cache snapshots.
type Importer struct {
	cache             TranslationCache
	dictionaryVersion string
}

// ImporterOption configures an Importer.
type ImporterOption func(*Importer)

// WithImportVersion skips entries computed with any other dictionary version.
func WithImportVersion(version string) ImporterOption {
	return func(i *Importer) {
		i.dictionaryVersion = version
	}
}

// NewImporter creates a new cache importer.
func NewImporter(cache TranslationCache, opts ...ImporterOption) *Importer {
	i := &Importer{cache: cache}
	for _, opt := range opts {
		opt(i)
	}
	return i
}

// Import reads cache entries from a reader and loads them into the cache.
func (i *Importer) Import(r io.Reader) (*ImportResult, error) {
	var export ExportFormat
	if err := json.NewDecoder(r).Decode(&export); err != nil {
		return nil, fmt.Errorf("decoding JSON: %w", err)
	}
	if export.Version != FormatVersion {
		return nil, fmt.Errorf("unsupported snapshot version %q", export.Version)
	}

	result := &ImportResult{
		Version:  export.Version,
		Metadata: export.Metadata,
	}

	for _, entry := range export.Entries {
		if i.dictionaryVersion != "" && DictionaryVersion(entry.Key) != i.dictionaryVersion {
			result.Skipped++
			continue
		}
		if err := i.cache.Set(entry.Key, entry.Value); err != nil {
			result.Failed++
			continue
		}
		result.Imported++
	}

	return result, nil
}

// ImportFromFile imports cache entries from a file.
// The path is provided by the caller and is intentionally user-controlled.
func (i *Importer) ImportFromFile(path string) (*ImportResult, error) {
	f, err := os.Open(path) // #nosec G304 - path is intentionally user-provided
	if err != nil {
		return nil, fmt.Errorf("opening file: %w", err)
	}
	defer f.Close()

	return i.Import(f)
}

// ImportResult contains statistics about the import operation.
type ImportResult struct {
	Version  string
	Metadata map[string]string
	Imported int
	Skipped  int // Entries for another dictionary version
	Failed   int
}
