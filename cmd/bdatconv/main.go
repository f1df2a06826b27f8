// Package main implements the bdatconv command line tool.
package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"runtime"
	"runtime/pprof"

	"github.com/spf13/cobra"

	"github.com/715d/bdatconv/internal/config"
)

const (
	exitFailed = 1
	exitError  = 2
)

var (
	// Set via ldflags during build.
	version   = "dev"
	buildTime = "unknown"
	gitCommit = "unknown"
)

var (
	cfgFile string
	cfg     *config.Config
)

func main() {
	rootCmd := newRootCmd()
	if err := rootCmd.Execute(); err != nil {
		_ = teardown(nil, nil)
		if err.Error() != "" {
			fmt.Fprintln(os.Stderr, err.Error())
		}
		var cErr *codedError
		if errors.As(err, &cErr) {
			os.Exit(cErr.code)
		}
		os.Exit(exitError)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:   "bdatconv",
		Short: "Convert edited BDAT text tables back into typed tables",
		Long: `bdatconv reads BDAT tables in their text form and rebuilds typed tables,
checking each one against the schema stored when it was extracted.

Without a schema (-u) the column types written in the tables are used instead.`,
		Example: `  bdatconv import -s schemas tables/          # Deserialize a directory
  bdatconv import -o out tables/ITM_Weapon.yaml # Write typed JSON
  bdatconv schema -s schemas tables/          # Store schemas from typed tables
  bdatconv show tables/ITM_Weapon.yaml        # Render one table`,
		PersistentPreRunE:  setup,
		PersistentPostRunE: teardown,
		SilenceUsage:       true,
		SilenceErrors:      true,
		Version:            version,
	}

	rootCmd.SetVersionTemplate(fmt.Sprintf("bdatconv version %s\n  commit: %s\n  built:  %s\n", version, gitCommit, buildTime))

	rootCmd.PersistentFlags().BoolP("verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().Bool("json", false, "Output in JSON format")
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file (default ./"+config.DefaultFile+" if present)")
	rootCmd.PersistentFlags().Bool("profile", false, "Enable CPU and memory profiling (writes cpu.prof and mem.prof to current directory)")

	rootCmd.AddCommand(newImportCmd(), newSchemaCmd(), newShowCmd())
	return rootCmd
}

// addDeserFlags registers the flags that control deserialization.
func addDeserFlags(cmd *cobra.Command) {
	cmd.Flags().StringP("schema-dir", "s", config.DefaultSchemaDir, "Directory holding .bschema files")
	cmd.Flags().BoolP("unsafe-without-schema", "u", false, "Take column types from the tables instead of stored schemas")
	cmd.Flags().String("extra-fields", config.DefaultExtraFields, "What to do with rows that have too many fields (reject|truncate)")
}

var cpuProfile *os.File

func setup(cmd *cobra.Command, _ []string) error {
	var err error
	cfg, err = config.Load(cfgFile, cmd.Flags())
	if err != nil {
		return errWithCode(err, exitError)
	}

	// Disable logger unless verbose flag is set.
	slog.SetDefault(slog.New(slog.DiscardHandler))
	if cfg.Verbose {
		opts := &slog.HandlerOptions{Level: slog.LevelDebug}
		var handler slog.Handler = slog.NewTextHandler(os.Stderr, opts)
		if cfg.JSON {
			handler = slog.NewJSONHandler(os.Stderr, opts)
		}
		slog.SetDefault(slog.New(handler))
	}
	if cfg.File != "" {
		slog.Info("using config file", "path", cfg.File)
	}

	if !cfg.Profile {
		return nil
	}

	cpuProfile, err = os.Create("cpu.prof")
	if err != nil {
		return fmt.Errorf("creating cpu.prof: %w", err)
	}
	if err := pprof.StartCPUProfile(cpuProfile); err != nil {
		_ = cpuProfile.Close()
		cpuProfile = nil
		return fmt.Errorf("starting CPU profile: %w", err)
	}
	slog.Info("cpu profiling started", "file", "cpu.prof")
	return nil
}

func teardown(_ *cobra.Command, _ []string) error {
	if cfg == nil || !cfg.Profile || cpuProfile == nil {
		return nil
	}

	pprof.StopCPUProfile()
	defer cpuProfile.Close()
	cpuProfile = nil
	slog.Info("cpu profiling stopped", "file", "cpu.prof")

	memFile, err := os.Create("mem.prof")
	if err != nil {
		return fmt.Errorf("creating mem.prof: %w", err)
	}
	defer memFile.Close()
	runtime.GC() // Get up-to-date statistics
	if err := pprof.WriteHeapProfile(memFile); err != nil {
		return fmt.Errorf("writing memory profile: %w", err)
	}
	slog.Info("memory profiling completed", "file", "mem.prof")
	return nil
}

func errWithCode(err error, code int) error {
	return &codedError{err: err, code: code}
}

type codedError struct {
	err  error
	code int
}

func (e *codedError) Error() string {
	if e.err != nil {
		return e.err.Error()
	}
	return ""
}

func (e *codedError) Unwrap() error { return e.err }
