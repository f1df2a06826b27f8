package main

import (
	"encoding/json"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/715d/bdatconv/internal/config"
	"github.com/715d/bdatconv/pkg/bdat"
	"github.com/715d/bdatconv/pkg/deser"
	"github.com/715d/bdatconv/pkg/schema"
	"github.com/715d/bdatconv/pkg/textfmt"
)

func newImportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "import [paths...]",
		Short: "Deserialize text tables into typed tables",
		Long: `import reads text tables from files or directories and rebuilds typed
tables from them. Every table is attempted; the exit code is 1 when any of
them failed.`,
		Args: cobra.ArbitraryArgs,
		RunE: runImport,
	}
	addDeserFlags(cmd)
	cmd.Flags().IntP("jobs", "j", 0, "Tables to deserialize at once (default number of CPUs)")
	cmd.Flags().Bool("fail-fast", false, "Stop at the first table that fails")
	cmd.Flags().StringP("out", "o", "", "Directory to write typed tables to as JSON")
	return cmd
}

func runImport(cmd *cobra.Command, args []string) error {
	ctx := cmd.Context()
	start := time.Now()

	docs, err := textfmt.LoadDocuments(ctx, textfmt.LoaderOptions{Paths: args})
	if err != nil {
		return errWithCode(fmt.Errorf("load tables: %w", err), exitError)
	}
	slog.Info("loaded tables", "num", len(docs))

	d := newDeserializer(cfg)
	results, err := d.DeserializeAll(ctx, docs)
	report := buildReport(results, time.Since(start))

	if cfg.Out != "" {
		if werr := writeTables(cfg.Out, results, report); werr != nil {
			return errWithCode(fmt.Errorf("write tables: %w", werr), exitError)
		}
	}

	if werr := writeReport(cmd.OutOrStdout(), report, cfg); werr != nil {
		return errWithCode(fmt.Errorf("format results: %w", werr), exitError)
	}

	if report.Stats.Failed == 0 {
		return nil
	}
	if cfg.FailFast {
		return errWithCode(err, exitFailed)
	}
	// Every failure is already in the report.
	return errWithCode(nil, exitFailed)
}

// newDeserializer builds a deserializer reading schemas from the configured
// directory.
func newDeserializer(c *config.Config) *deser.Deserializer {
	var store deser.SchemaLoader
	if !c.UnsafeWithoutSchema {
		store = schema.NewStore(c.SchemaDir)
	}
	return deser.New(store, c.DeserOptions())
}

// writeTables writes each deserialized table to dir as <table>.json and
// records the file in the report.
func writeTables(dir string, results []deser.Result, report *Report) error {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return err
	}
	for i, r := range results {
		if r.Table == nil {
			continue
		}
		path := filepath.Join(dir, tableFileName(r.Table.Name)+".json")
		data, err := jsonIndent(r.Table)
		if err != nil {
			return fmt.Errorf("table %s: %w", r.Table.Name, err)
		}
		if err := os.WriteFile(path, data, 0o644); err != nil {
			return err
		}
		report.Tables[i].Output = path
		slog.Debug("wrote table", "table", r.Table.Name, "path", path)
	}
	return nil
}

var unsafeFileChars = strings.NewReplacer("/", "_", "\\", "_", ":", "_")

func tableFileName(name bdat.OptLabel) string {
	label, ok := name.Get()
	if !ok || label == "" {
		return "unnamed"
	}
	return unsafeFileChars.Replace(string(label))
}

func jsonIndent(v any) ([]byte, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshaling json: %w", err)
	}
	return append(data, '\n'), nil
}
