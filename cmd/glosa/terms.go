package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/ZaguanLabs/glosa/provider"
	"github.com/spf13/cobra"
)

func (a *app) termsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "terms",
		Short: "Move glossary terms between files and a SQL term store",
	}
	cmd.AddCommand(a.termsImportCommand(), a.termsExportCommand())
	return cmd
}

func (a *app) termsImportCommand() *cobra.Command {
	return &cobra.Command{
		Use:   "import <glossary>",
		Short: "Upsert a glossary file into the --dsn term store",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if a.cfg.DSN == "" {
				return errors.New("terms import needs --dsn")
			}

			src, err := provider.NewFileProvider(args[0])
			if err != nil {
				return err
			}
			entries, err := src.LoadAllTerms(ctx)
			if err != nil {
				return err
			}

			store, db, err := a.sqlProvider(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = db.Close() }()

			if err := store.InitSchema(ctx); err != nil {
				return err
			}
			if err := store.Upsert(ctx, entries); err != nil {
				return err
			}
			fmt.Fprintf(a.stdout, "Imported %d terms\n", len(entries))
			return nil
		},
	}
}

func (a *app) termsExportCommand() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "export [file]",
		Short: "Write the configured dictionary as a glossary file",
		Args:  cobra.MaximumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()

			f := provider.Format(format)
			if len(args) == 1 && !cmd.Flags().Changed("format") {
				var err error
				if f, err = provider.FormatForPath(args[0]); err != nil {
					return err
				}
			}

			terms, closeTerms, err := a.termProvider(ctx)
			if err != nil {
				return err
			}
			defer closeTerms()

			entries, err := terms.LoadAllTerms(ctx)
			if err != nil {
				return err
			}
			data, err := provider.MarshalGlossary(entries, f)
			if err != nil {
				return err
			}

			if len(args) == 0 {
				_, err = a.stdout.Write(data)
				return err
			}
			if err := os.WriteFile(args[0], data, 0o644); err != nil { // #nosec G306 - glossary files are not secret
				return fmt.Errorf("writing glossary: %w", err)
			}
			fmt.Fprintf(a.stderr, "Exported %d terms to %s\n", len(entries), args[0])
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", string(provider.FormatYAML), "output format (yaml|toml|json)")
	return cmd
}
