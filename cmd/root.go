package cmd

import (
	"fmt"
	"log/slog"
	"os"

	cfgpkg "github.com/KaramelBytes/timestudy-cli/internal/config"
	"github.com/KaramelBytes/timestudy-cli/internal/metrics"
	"github.com/spf13/cobra"
)

var (
	// Global flags (wired to config/viper)
	cfgFile     string
	debug       bool
	sessionName string
	metricsFile string

	// Loaded configuration
	cfg *cfgpkg.Global
	// Per-invocation counters, flushed to metrics_file after a successful command
	rec = metrics.New()
)

var rootCmd = &cobra.Command{
	Use:   "timestudy",
	Short: "Timestudy CLI: turn raw time-study sheets into activity statistics",
	Long: `Timestudy ingests CSV/XLSX time-study observations, helps unify near-duplicate
activity names, groups activities, and exports pivot and statistics reports.`,
	SilenceUsage: true,
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		return flushMetrics()
	},
}

// Execute is the entry point called by main.main()
func Execute() {
	// Initialize configuration before executing commands
	cobra.OnInitialize(loadConfig)
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "✗ Error:", err)
		os.Exit(1)
	}
}

func init() {
	// Persistent global flags available to all subcommands
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "config file (default is ~/.timestudy/config.yaml)")
	rootCmd.PersistentFlags().BoolVar(&debug, "debug", false, "enable debug output")
	rootCmd.PersistentFlags().StringVarP(&sessionName, "session", "s", "", "session name (default from config)")
	rootCmd.PersistentFlags().StringVar(&metricsFile, "metrics-file", "", "write Prometheus textfile metrics here (overrides config)")
}

func loadConfig() {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))

	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		// Non-fatal: allow running commands that don't need config
		fmt.Fprintf(os.Stderr, "⚠ Warning: failed to load config: %v\n", err)
		return
	}
	cfg = c
	applyOverrides()
}

// applyOverrides copies explicitly set global flags onto cfg.
func applyOverrides() {
	f := rootCmd.PersistentFlags()
	if f.Changed("metrics-file") {
		cfg.MetricsFile = metricsFile
	}
}

// requireConfig returns the loaded config, retrying the load so the error surfaces.
func requireConfig() (*cfgpkg.Global, error) {
	if cfg != nil {
		return cfg, nil
	}
	c, err := cfgpkg.Load(cfgFile)
	if err != nil {
		return nil, err
	}
	cfg = c
	applyOverrides()
	return cfg, nil
}

func flushMetrics() error {
	if cfg == nil || cfg.MetricsFile == "" {
		return nil
	}
	if err := rec.WriteFile(cfg.MetricsFile); err != nil {
		fmt.Fprintf(os.Stderr, "⚠ Warning: %v\n", err)
	}
	return nil
}
