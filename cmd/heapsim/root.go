package main

import (
	"context"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/fatih/color"
	"github.com/spf13/cobra"
	sdktrace "go.opentelemetry.io/otel/sdk/trace"
	"golang.org/x/term"

	"github.com/zero-day-ai/heapsim/internal/config"
	"github.com/zero-day-ai/heapsim/internal/observability"
)

// Global flags
var (
	cfgFile      string
	logLevel     string
	logFormat    string
	outputFormat string
	noColor      bool
	verbose      bool
	traceEnabled bool
)

// Runtime state assembled by initRuntime.
var (
	cfg            *config.Config
	logger         *slog.Logger
	tracerProvider *sdktrace.TracerProvider
)

var rootCmd = &cobra.Command{
	Use:   "heapsim",
	Short: "heapsim - Slab allocator and memory-safety bug simulator",
	Long: `heapsim simulates a slab-style heap allocator: allocations are
classified into size buckets, memory-safety bugs (overflow, use-after-free,
type confusion) are simulated against the tracked heap, and rule-based
exploitation strategies are generated from the resulting state.

Everything is an in-memory teaching model; nothing touches real memory.

When run without a subcommand in an interactive terminal, heapsim launches
the TUI dashboard.`,
	PersistentPreRunE:  initRuntime,
	PersistentPostRunE: shutdownRuntime,
	SilenceUsage:       true,
	SilenceErrors:      true,
	RunE:               runRootCmd,
}

// Execute runs the root command with signal handling.
func Execute(ctx context.Context) error {
	ctx, cancel := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	return rootCmd.ExecuteContext(ctx)
}

// initRuntime loads configuration and wires logging and tracing before any
// command runs.
func initRuntime(cmd *cobra.Command, args []string) error {
	// Version and help need no runtime.
	if cmd.Name() == "version" || cmd.Name() == "help" {
		return nil
	}

	var err error
	cfg, err = config.LoadWithDefaults(cfgFile)
	if err != nil {
		return err
	}

	// Flags override file values.
	if cmd.Flags().Changed("log-level") {
		cfg.Log.Level = logLevel
	}
	if cmd.Flags().Changed("log-format") {
		cfg.Log.Format = logFormat
	}
	if cmd.Flags().Changed("output") {
		cfg.Output.Format = outputFormat
	}
	if noColor {
		cfg.Output.Color = false
	}
	if verbose {
		cfg.Log.Level = "debug"
	}
	if traceEnabled {
		cfg.Tracing.Enabled = true
	}
	if err := config.Validate(cfg); err != nil {
		return err
	}

	color.NoColor = !cfg.Output.Color

	logger = observability.NewLogger(os.Stderr, cfg.Log.Format, cfg.Log.Level)
	slog.SetDefault(logger)

	tracerProvider, err = observability.InitTracing(cfg.Tracing.Enabled, cfg.Tracing.ServiceName)
	if err != nil {
		return err
	}

	return nil
}

// shutdownRuntime flushes any pending trace spans.
func shutdownRuntime(cmd *cobra.Command, args []string) error {
	return observability.ShutdownTracing(cmd.Context(), tracerProvider)
}

func init() {
	rootCmd.PersistentFlags().StringVar(&cfgFile, "config", "", "Config file path (default: heapsim.yaml if present)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "info", "Log level (debug, info, warn, error)")
	rootCmd.PersistentFlags().StringVar(&logFormat, "log-format", "text", "Log format (text, json)")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "output", "o", "table", "Output format (table, json, yaml)")
	rootCmd.PersistentFlags().BoolVar(&noColor, "no-color", false, "Disable ANSI color output")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Verbose output (implies --log-level debug)")
	rootCmd.PersistentFlags().BoolVar(&traceEnabled, "trace", false, "Enable OpenTelemetry span recording")

	rootCmd.AddCommand(allocCmd)
	rootCmd.AddCommand(freeCmd)
	rootCmd.AddCommand(bugCmd)
	rootCmd.AddCommand(strategyCmd)
	rootCmd.AddCommand(statsCmd)
	rootCmd.AddCommand(sprayCmd)
	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(consoleCmd)
	rootCmd.AddCommand(tuiCmd)
	rootCmd.AddCommand(versionCmd)
}

// runRootCmd launches the TUI in an interactive terminal, otherwise shows
// help.
func runRootCmd(cmd *cobra.Command, args []string) error {
	if isTerminalInteractive() {
		return launchTUI(cmd.Context(), "")
	}
	return cmd.Help()
}

// isTerminalInteractive checks if stdin is a terminal.
func isTerminalInteractive() bool {
	return term.IsTerminal(int(os.Stdin.Fd()))
}
