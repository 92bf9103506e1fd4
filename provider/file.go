package provider

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"strings"

	"github.com/ZaguanLabs/glosa"
	"github.com/pelletier/go-toml/v2"
	"gopkg.in/yaml.v3"
)

// Format is a glossary file format.
type Format string

const (
	FormatYAML Format = "yaml"
	FormatTOML Format = "toml"
	FormatJSON Format = "json"
)

// Glossary is the on-disk layout of a glossary file:
//
//	terms:
//	  - term: fetch
//	    translation: obtener
//	    aliases: [retrieve]
type Glossary struct {
	Terms []DictionaryEntry `json:"terms" yaml:"terms" toml:"terms"`
}

// FormatForPath returns the glossary format implied by a file extension.
func FormatForPath(path string) (Format, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return FormatYAML, nil
	case ".toml":
		return FormatTOML, nil
	case ".json":
		return FormatJSON, nil
	default:
		return "", fmt.Errorf("unsupported glossary extension %q", filepath.Ext(path))
	}
}

// ParseGlossary decodes glossary data in the given format.
func ParseGlossary(data []byte, format Format) ([]DictionaryEntry, error) {
	var g Glossary
	var err error

	switch format {
	case FormatYAML:
		err = yaml.Unmarshal(data, &g)
	case FormatTOML:
		err = toml.Unmarshal(data, &g)
	case FormatJSON:
		err = json.Unmarshal(data, &g)
	default:
		return nil, fmt.Errorf("unsupported glossary format %q", format)
	}
	if err != nil {
		return nil, fmt.Errorf("parsing %s glossary: %w", format, err)
	}

	if g.Terms == nil {
		g.Terms = []DictionaryEntry{}
	}
	return g.Terms, nil
}

// MarshalGlossary encodes entries in the given format.
func MarshalGlossary(entries []DictionaryEntry, format Format) ([]byte, error) {
	g := Glossary{Terms: entries}

	switch format {
	case FormatYAML:
		var buf bytes.Buffer
		enc := yaml.NewEncoder(&buf)
		enc.SetIndent(2)
		if err := enc.Encode(g); err != nil {
			return nil, err
		}
		if err := enc.Close(); err != nil {
			return nil, err
		}
		return buf.Bytes(), nil
	case FormatTOML:
		return toml.Marshal(g)
	case FormatJSON:
		data, err := json.MarshalIndent(g, "", "  ")
		if err != nil {
			return nil, err
		}
		return append(data, '\n'), nil
	default:
		return nil, fmt.Errorf("unsupported glossary format %q", format)
	}
}

// FileProvider loads terms from a YAML, TOML or JSON glossary file. The file
// is read on every load, so invalidating the dictionary cache picks up edits.
type FileProvider struct {
	path   string
	format Format
}

// NewFileProvider creates a provider for path, choosing the format from its
// extension.
func NewFileProvider(path string) (*FileProvider, error) {
	format, err := FormatForPath(path)
	if err != nil {
		return nil, err
	}
	return &FileProvider{path: path, format: format}, nil
}

// Path returns the glossary file path.
func (p *FileProvider) Path() string {
	return p.path
}

// LoadAllTerms reads and parses the glossary file.
func (p *FileProvider) LoadAllTerms(ctx context.Context) ([]DictionaryEntry, error) {
	data, err := os.ReadFile(p.path)
	if err != nil {
		return nil, &glosa.DictionaryLoadError{
			Message:   "reading " + p.path,
			Cause:     err,
			Retryable: !errors.Is(err, fs.ErrNotExist),
		}
	}

	entries, err := ParseGlossary(data, p.format)
	if err != nil {
		return nil, &glosa.DictionaryLoadError{Message: p.path, Cause: err}
	}
	return entries, nil
}

var _ TermProvider = (*FileProvider)(nil)
