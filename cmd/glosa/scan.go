package main

import (
	"fmt"
	"io"
	"path/filepath"
	"unicode/utf8"

	"github.com/ZaguanLabs/glosa"
	"github.com/spf13/cobra"
)

// truncate shortens s to at most n bytes for display without splitting a
// UTF-8 sequence.
func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	cut := n - 3
	for cut > 0 && !utf8.RuneStart(s[cut]) {
		cut--
	}
	return s[:cut] + "..."
}

// scanOutput is the JSON form of a scan.
type scanOutput struct {
	File            string                     `json:"file"`
	Language        string                     `json:"language"`
	FallbackApplied bool                       `json:"fallbackApplied"`
	SegmentCount    int                        `json:"segmentCount"`
	Segments        []glosa.TranslationSegment `json:"segments"`
}

func (a *app) scanCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "scan [file]",
		Short: "List the translatable segments of a source file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.readInputs(args)
			if err != nil {
				return err
			}
			in := inputs[0]
			lang, err := a.language(in)
			if err != nil {
				return err
			}

			res, err := a.scanOnly().TranslateStructural(cmd.Context(), glosa.Request{Code: in.code, Language: lang})
			if err != nil {
				return err
			}

			if jsonOutput {
				return encodeJSON(a.stdout, scanOutput{
					File:            in.name,
					Language:        res.Language,
					FallbackApplied: res.FallbackApplied,
					SegmentCount:    len(res.Segments),
					Segments:        res.Segments,
				})
			}

			fmt.Fprintf(a.stdout, "Scan: %s (%s)\n", in.name, glosa.GetLanguageName(res.Language))
			if res.FallbackApplied {
				fmt.Fprintf(a.stdout, "No scanner for %q: the whole text goes through the fallback translator.\n", res.Language)
				return nil
			}
			fmt.Fprintf(a.stdout, "Found %d translatable segments:\n\n", len(res.Segments))
			for i, seg := range res.Segments {
				fmt.Fprintf(a.stdout, "%3d. %-7s %5d-%-5d %q\n", i+1, seg.Type, seg.Start, seg.End, truncate(seg.Original, 60))
			}
			return nil
		},
	}

	cmd.Flags().StringP("lang", "l", "", "source language (default: inferred from the file extension)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

// diffOutput is the JSON form of a diff.
type diffOutput struct {
	File             string                     `json:"file"`
	PreviousFile     string                     `json:"previousFile"`
	Language         string                     `json:"language"`
	Stats            glosa.DiffStats            `json:"stats"`
	NeedsTranslation []glosa.TranslationSegment `json:"needsTranslation"`
	Added            []string                   `json:"added,omitempty"`
	Removed          []string                   `json:"removed,omitempty"`
	Modified         []modifiedOutput           `json:"modified,omitempty"`
}

type modifiedOutput struct {
	Old string `json:"old"`
	New string `json:"new"`
}

func (a *app) diffCommand() *cobra.Command {
	var jsonOutput bool

	cmd := &cobra.Command{
		Use:   "diff <old> <new>",
		Short: "Show which segments changed between two versions of a file",
		Args:  cobra.ExactArgs(2),
		RunE: func(cmd *cobra.Command, args []string) error {
			inputs, err := a.readInputs(args)
			if err != nil {
				return err
			}
			oldIn, newIn := inputs[0], inputs[1]
			lang, err := a.language(newIn)
			if err != nil {
				return err
			}

			scan := a.scanOnly()
			oldRes, err := scan.TranslateStructural(cmd.Context(), glosa.Request{Code: oldIn.code, Language: lang})
			if err != nil {
				return fmt.Errorf("scanning previous version: %w", err)
			}
			newRes, err := scan.TranslateStructural(cmd.Context(), glosa.Request{Code: newIn.code, Language: lang})
			if err != nil {
				return fmt.Errorf("scanning new version: %w", err)
			}

			diff := glosa.DiffSegments(oldRes.Segments, newRes.Segments)
			if jsonOutput {
				out := diffOutput{
					File:             newIn.name,
					PreviousFile:     filepath.Base(oldIn.path),
					Language:         newRes.Language,
					Stats:            diff.Stats(),
					NeedsTranslation: diff.NeedsTranslation(),
				}
				for _, s := range diff.Added {
					out.Added = append(out.Added, s.Original)
				}
				for _, s := range diff.Removed {
					out.Removed = append(out.Removed, s.Original)
				}
				for _, m := range diff.Modified {
					out.Modified = append(out.Modified, modifiedOutput{Old: m.Old.Original, New: m.New.Original})
				}
				return encodeJSON(a.stdout, out)
			}

			printDiff(a.stdout, oldIn.name, newIn.name, diff)
			return nil
		},
	}

	cmd.Flags().StringP("lang", "l", "", "source language (default: inferred from the new file's extension)")
	cmd.Flags().BoolVar(&jsonOutput, "json", false, "output as JSON")
	return cmd
}

func printDiff(w io.Writer, oldName, newName string, diff *glosa.DiffResult) {
	stats := diff.Stats()

	fmt.Fprintf(w, "Diff: %s vs %s\n\n", newName, oldName)
	fmt.Fprintf(w, "Summary:\n")
	fmt.Fprintf(w, "  Unchanged: %d\n", stats.Unchanged)
	fmt.Fprintf(w, "  Added:     %d\n", stats.Added)
	fmt.Fprintf(w, "  Removed:   %d\n", stats.Removed)
	fmt.Fprintf(w, "  Modified:  %d\n", stats.Modified)
	fmt.Fprintf(w, "\n")

	if !diff.HasChanges() {
		fmt.Fprintf(w, "No changes detected.\n")
		return
	}

	fmt.Fprintf(w, "Needs translation: %d segments\n\n", len(diff.NeedsTranslation()))

	if len(diff.Added) > 0 {
		fmt.Fprintf(w, "Added:\n")
		for _, s := range diff.Added {
			fmt.Fprintf(w, "  + %q\n", truncate(s.Original, 50))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Modified) > 0 {
		fmt.Fprintf(w, "Modified:\n")
		for _, m := range diff.Modified {
			fmt.Fprintf(w, "  ~ %q -> %q\n", truncate(m.Old.Original, 30), truncate(m.New.Original, 30))
		}
		fmt.Fprintf(w, "\n")
	}

	if len(diff.Removed) > 0 {
		fmt.Fprintf(w, "Removed:\n")
		for _, s := range diff.Removed {
			fmt.Fprintf(w, "  - %q\n", truncate(s.Original, 50))
		}
		fmt.Fprintf(w, "\n")
	}
}
