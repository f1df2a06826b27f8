package main

import (
	"fmt"
	"log/slog"
	"time"

	"github.com/spf13/cobra"

	"github.com/715d/bdatconv/internal/config"
	"github.com/715d/bdatconv/pkg/deser"
	"github.com/715d/bdatconv/pkg/schema"
	"github.com/715d/bdatconv/pkg/textfmt"
)

func newSchemaCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "schema [paths...]",
		Short: "Store schemas for tables that declare their column types",
		Long: `schema reads text tables whose columns all carry a type and stores their
layout in the schema directory, so the tables can later be edited without
types and still be imported.`,
		Args: cobra.ArbitraryArgs,
		RunE: runSchema,
	}
	cmd.Flags().StringP("schema-dir", "s", config.DefaultSchemaDir, "Directory to write .bschema files to")
	cmd.Flags().String("extra-fields", config.DefaultExtraFields, "What to do with rows that have too many fields (reject|truncate)")
	cmd.Flags().IntP("jobs", "j", 0, "Tables to read at once (default number of CPUs)")
	return cmd
}

func runSchema(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	docs, err := textfmt.LoadDocuments(ctx, textfmt.LoaderOptions{Paths: args})
	if err != nil {
		return errWithCode(fmt.Errorf("load tables: %w", err), exitError)
	}

	opts := cfg.DeserOptions()
	opts.WithoutSchema = true
	opts.FailFast = false
	results, _ := deser.New(nil, opts).DeserializeAll(ctx, docs)
	report := buildReport(results, 0)

	store := schema.NewStore(cfg.SchemaDir)
	for i, r := range results {
		if r.Table == nil {
			continue
		}
		sch := schema.FromTable(r.Table)
		if err := store.Save(sch); err != nil {
			return errWithCode(fmt.Errorf("save schema for %s: %w", sch.Table, err), exitError)
		}
		report.Tables[i].Output = store.Path(sch.Table)
	}
	report.Stats.Duration = time.Since(start)
	slog.Info("stored schemas", "dir", cfg.SchemaDir, "num", report.Stats.Succeeded)

	if err := writeReport(cmd.OutOrStdout(), report, cfg); err != nil {
		return errWithCode(fmt.Errorf("format results: %w", err), exitError)
	}
	if report.Stats.Failed > 0 {
		return errWithCode(nil, exitFailed)
	}
	return nil
}
