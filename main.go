package main

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/giygas/mkb-merge/config"
	"github.com/giygas/mkb-merge/logging"
	"github.com/giygas/mkb-merge/metrics"
	"github.com/giygas/mkb-merge/mkbparser"
	"github.com/google/uuid"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
)

// newRootCmd builds the mkbmerge command and its flags
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "mkbmerge",
		Short: "Merge multilingual MKB-10 source files into mkb_data.csv",
		Long: `mkbmerge reads english.txt, serbian.csv and russian.csv, normalizes their
MKB-10 codes, outer-joins them on the code and writes mkb_data.csv.

Without flags every path is resolved beside the executable.`,
		Args:          cobra.NoArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runMerge,
	}

	flags := cmd.Flags()
	flags.String("source-dir", "", "directory holding the source files (default: executable directory)")
	flags.StringP("output", "o", "", "output CSV file (default: <source-dir>/mkb_data.csv)")
	flags.String("manifest", "", "TOML file describing the source layouts")
	flags.String("dedupe", "", "duplicate code policy (first|merge)")
	flags.String("metrics-file", "", "write Prometheus metrics to this textfile")
	flags.String("log-level", "", "console log level (debug|info|warn|error)")
	flags.String("log-file", "", "append JSON logs to this file")
	flags.String("color", "", "colorize status lines (auto|on|off)")
	flags.BoolP("verbose", "v", false, "show info logs even when ENV=test")

	return cmd
}

// main loads .env when present, runs the root command and exits 1 on any failure
func main() {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		fmt.Fprintf(os.Stderr, "Warning: could not read .env: %v\n", err)
	}

	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func runMerge(cmd *cobra.Command, _ []string) error {
	cfg, err := config.Load()
	if err != nil {
		return err
	}
	if err := applyFlags(cmd, cfg); err != nil {
		return err
	}

	verbose, _ := cmd.Flags().GetBool("verbose")
	consoleLevel := logging.GetConsoleLogLevel(cfg.Env, cfg.LogLevel, verbose)
	if err := logging.InitLogger(consoleLevel, cfg.LogFile, "run_id", uuid.NewString()); err != nil {
		logging.Warn("File logging disabled", "error", err)
	}
	defer func() {
		if err := logging.Close(); err != nil {
			fmt.Fprintf(os.Stderr, "Warning: failed to close log file: %v\n", err)
		}
	}()

	sources := mkbparser.DefaultSources()
	if cfg.SourcesManifest != "" {
		sources, err = mkbparser.LoadSourceManifest(cfg.SourcesManifest)
		if err != nil {
			return err
		}
		logging.Info("Using sources manifest", "file", cfg.SourcesManifest, "sources", len(sources))
	}

	policy, err := mkbparser.ParseDedupePolicy(cfg.DedupePolicy)
	if err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	logging.Info("Starting merge",
		"source_dir", cfg.SourceDir,
		"output", cfg.OutputFile,
		"policy", string(policy),
		"env", cfg.Env.String())

	start := time.Now()
	_, runErr := mkbparser.Run(ctx, mkbparser.Options{
		Sources:    sources,
		Loader:     mkbparser.NewFileLoader(cfg.SourceDir),
		OutputFile: cfg.OutputFile,
		Policy:     policy,
		Reporter:   mkbparser.NewReporter(os.Stdout, cfg.Color),
	})
	metrics.RunDuration.Set(time.Since(start).Seconds())

	if cfg.MetricsFile != "" {
		if err := metrics.WriteTextfile(cfg.MetricsFile); err != nil {
			logging.Warn("Failed to write metrics textfile", "file", cfg.MetricsFile, "error", err)
		}
	}

	return runErr
}

// applyFlags overrides configuration with the flags given on the command line
func applyFlags(cmd *cobra.Command, cfg *config.Config) error {
	flags := cmd.Flags()
	overrides := []struct {
		name   string
		target *string
	}{
		{"source-dir", &cfg.SourceDir},
		{"output", &cfg.OutputFile},
		{"manifest", &cfg.SourcesManifest},
		{"dedupe", &cfg.DedupePolicy},
		{"metrics-file", &cfg.MetricsFile},
		{"log-level", &cfg.LogLevel},
		{"log-file", &cfg.LogFile},
		{"color", &cfg.Color},
	}

	sourceDirChanged := flags.Changed("source-dir")
	outputChanged := flags.Changed("output") || os.Getenv("MKB_OUTPUT_FILE") != ""

	for _, o := range overrides {
		if !flags.Changed(o.name) {
			continue
		}
		value, err := flags.GetString(o.name)
		if err != nil {
			return err
		}
		*o.target = value
	}

	// The output follows a relocated source directory unless set explicitly
	if sourceDirChanged && !outputChanged {
		cfg.OutputFile = defaultOutput(cfg.SourceDir)
	}

	return cfg.Validate()
}

func defaultOutput(sourceDir string) string {
	return filepath.Join(sourceDir, config.DefaultOutputName)
}
