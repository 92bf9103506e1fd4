package main

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"time"

	"github.com/ZaguanLabs/glosa"
	"github.com/spf13/cobra"
)

// input is one source text read from a file or stdin.
type input struct {
	name string
	path string // Empty for stdin
	code string
}

// readInputs reads each path, or stdin when there are none.
func (a *app) readInputs(paths []string) ([]input, error) {
	if len(paths) == 0 {
		data, err := io.ReadAll(a.stdin)
		if err != nil {
			return nil, fmt.Errorf("reading stdin: %w", err)
		}
		return []input{{name: "stdin", code: string(data)}}, nil
	}

	inputs := make([]input, 0, len(paths))
	for _, path := range paths {
		data, err := os.ReadFile(path) // #nosec G304 - CLI tool reads user-specified files
		if err != nil {
			return nil, fmt.Errorf("reading file: %w", err)
		}
		inputs = append(inputs, input{name: filepath.Base(path), path: path, code: string(data)})
	}
	return inputs, nil
}

// language picks the configured language or infers one from the file name.
func (a *app) language(in input) (string, error) {
	if a.cfg.Lang != "" {
		return a.cfg.Lang, nil
	}
	if in.path == "" {
		return "", errors.New("--lang is required when reading stdin")
	}
	return glosa.LanguageForFile(in.path), nil
}

// translateOutput is the JSON form of one translated file.
type translateOutput struct {
	File string `json:"file"`
	*glosa.TranslationResult
	ElapsedMs int64 `json:"elapsedMs"`
}

func (a *app) translateCommand() *cobra.Command {
	var (
		output     string
		write      bool
		jsonOutput bool
		quiet      bool
	)

	cmd := &cobra.Command{
		Use:   "translate [file...]",
		Short: "Translate string literals and comments",
		Long: `Translate replaces dictionary phrases inside string literals and comments,
leaving code untouched. Without arguments the source is read from stdin and
--lang is required; otherwise the language is inferred from each extension.`,
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.readInputs(args)
			if err != nil {
				return err
			}
			if len(inputs) > 1 && output != "" {
				return errors.New("--output accepts a single input")
			}
			if len(inputs) > 1 && !write && !jsonOutput {
				return errors.New("translating several files needs --write or --json")
			}
			if write && inputs[0].path == "" {
				return errors.New("--write needs file arguments")
			}

			reqs := make([]glosa.Request, len(inputs))
			for i, in := range inputs {
				lang, err := a.language(in)
				if err != nil {
					return err
				}
				reqs[i] = glosa.Request{Code: in.code, Language: lang}
			}

			translator, closeAll, err := a.translator(cmd.Context())
			if err != nil {
				return err
			}
			defer closeAll()

			if !quiet {
				fmt.Fprintf(a.stderr, "Translating %d file(s)...\n", len(inputs))
			}

			start := time.Now()
			results, err := translator.TranslateBatch(cmd.Context(), reqs)
			if err != nil {
				return fmt.Errorf("translation failed: %w", err)
			}
			elapsed := time.Since(start)

			switch {
			case write:
				for i, in := range inputs {
					if err := writeFilePreservingMode(in.path, results[i].Code); err != nil {
						return err
					}
				}
			case jsonOutput:
				outs := make([]translateOutput, len(results))
				for i, res := range results {
					outs[i] = translateOutput{File: inputs[i].name, TranslationResult: res, ElapsedMs: elapsed.Milliseconds()}
				}
				w, closeOut, err := a.openOutput(output)
				if err != nil {
					return err
				}
				defer closeOut()
				if len(outs) == 1 {
					return encodeJSON(w, outs[0])
				}
				return encodeJSON(w, outs)
			default:
				w, closeOut, err := a.openOutput(output)
				if err != nil {
					return err
				}
				defer closeOut()
				fmt.Fprint(w, results[0].Code)
			}

			if !quiet {
				var replaced, cached int
				for _, res := range results {
					replaced += res.Replaced()
					cached += res.CachedSegments
				}
				fmt.Fprintf(a.stderr, "\nDone in %v\n", elapsed.Round(time.Millisecond))
				fmt.Fprintf(a.stderr, "  Files:        %d\n", len(results))
				fmt.Fprintf(a.stderr, "  Replacements: %d\n", replaced)
				fmt.Fprintf(a.stderr, "  From cache:   %d\n", cached)
			}
			return nil
		},
	}

	cmd.Flags().StringP("lang", "l", "", "source language (default: inferred from the file extension)")
	cmd.Flags().StringVarP(&output, "output", "o", "", "output file (default: stdout)")
	cmd.Flags().BoolVarP(&write, "write", "w", false, "rewrite the input files in place")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output results as JSON")
	cmd.Flags().BoolVarP(&quiet, "quiet", "q", false, "suppress progress output")
	return cmd
}

// openOutput returns stdout or a created file.
func (a *app) openOutput(path string) (io.Writer, func(), error) {
	if path == "" {
		return a.stdout, func() {}, nil
	}
	f, err := os.Create(path) // #nosec G304 - CLI tool writes user-specified files
	if err != nil {
		return nil, nil, fmt.Errorf("creating output file: %w", err)
	}
	return f, func() { _ = f.Close() }, nil
}

func writeFilePreservingMode(path, content string) error {
	info, err := os.Stat(path)
	if err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	if err := os.WriteFile(path, []byte(content), info.Mode().Perm()); err != nil {
		return fmt.Errorf("writing %s: %w", path, err)
	}
	return nil
}

func encodeJSON(w io.Writer, v any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(v)
}
