// Package main implements the ferrite CLI.
package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"ferrite/internal/version"
)

// errBroken signals that diagnostics were already printed; main exits with
// status 1 without repeating them.
var errBroken = errors.New("compilation failed")

var rootCmd = &cobra.Command{
	Use:           "ferrite",
	Short:         "Ferrite front end: type resolution and monomorphization",
	Long:          `Ferrite resolves syntactic modules into concrete, monomorphized modules ready for code generation`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		if err := applyColorMode(cmd); err != nil {
			return err
		}
		stopProfiling, err := setupProfiling(cmd)
		if err != nil {
			return err
		}
		profileCleanup = stopProfiling
		cleanup, err := setupTracing(cmd)
		if err != nil {
			return err
		}
		traceCleanup = cleanup
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		runTraceCleanup()
	},
}

var (
	traceCleanup   func()
	profileCleanup func()
)

func runTraceCleanup() {
	if traceCleanup != nil {
		traceCleanup()
		traceCleanup = nil
	}
	if profileCleanup != nil {
		profileCleanup()
		profileCleanup = nil
	}
}

func init() {
	// Глобальные флаги
	flags := rootCmd.PersistentFlags()
	flags.String("color", "auto", "colorize output (auto|on|off)")
	flags.String("ui", "auto", "progress UI for multi-file checks (auto|on|off)")
	flags.Bool("timings", false, "show timing information")
	flags.Int("max-diagnostics", 0, "maximum number of diagnostics per file (0 uses ferrite.toml or 100)")
	flags.Int("jobs", 0, "number of files checked in parallel (0 = GOMAXPROCS)")
	flags.String("target", "", "target ABI (x86_64|i386|wasm32); overrides ferrite.toml")
	flags.String("trace", "", "write a trace to this file (- for stderr)")
	flags.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	flags.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	flags.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	flags.Duration("trace-heartbeat", 0, "emit a heartbeat event at this interval")
	flags.String("cpu-profile", "", "write a CPU profile to this file")
	flags.String("mem-profile", "", "write a heap profile to this file on exit")
	flags.String("runtime-trace", "", "write a Go runtime trace to this file")

	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(buildCmd)
	rootCmd.AddCommand(versionCmd)
}

// main registers the subcommands and runs the root command. Any error,
// including broken inputs, exits with status 1.
func main() {
	// Устанавливаем версию для автоматического флага --version
	rootCmd.Version = version.Version

	err := rootCmd.Execute()
	runTraceCleanup()
	if err != nil {
		if !errors.Is(err, errBroken) {
			fmt.Fprintf(os.Stderr, "ferrite: %v\n", err)
		}
		os.Exit(1)
	}
}
