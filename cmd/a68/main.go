package main

import (
	"errors"
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"golang.org/x/term"

	"a68/internal/config"
	"a68/internal/version"
)

// errDiagnostics is returned by commands whose output already reports the
// errors; main exits with status 1 without printing it again.
var errDiagnostics = errors.New("diagnostics reported")

var rootCmd = &cobra.Command{
	Use:   "a68",
	Short: "Algol 68 compiler front end",
	Long: `a68 scans, parses and checks Algol 68 programs: modes, coercions and
scope. It reports diagnostics and can dump tokens, trees and the mode table.`,
	SilenceUsage:      true,
	SilenceErrors:     true,
	PersistentPreRunE: setupRun,
}

var cleanups []func()

// setupRun starts tracing and profiling before any subcommand runs.
func setupRun(cmd *cobra.Command, _ []string) error {
	stopTrace, err := setupTracing(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopTrace)
	stopProf, err := setupProfiling(cmd)
	if err != nil {
		return err
	}
	cleanups = append(cleanups, stopProf)
	return nil
}

func runCleanups() {
	// в обратном порядке: профилировщик закрывается раньше трейсера
	for i := len(cleanups) - 1; i >= 0; i-- {
		cleanups[i]()
	}
	cleanups = nil
}

func newRootCmd() *cobra.Command {
	rootCmd.Version = version.Plain()

	rootCmd.AddCommand(tokenizeCmd)
	rootCmd.AddCommand(parseCmd)
	rootCmd.AddCommand(modesCmd)
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(initCmd)
	rootCmd.AddCommand(versionCmd)

	addOutputFlags(rootCmd)
	addCompilerFlags(rootCmd)
	addTraceFlags(rootCmd)

	return rootCmd
}

// addOutputFlags registers the global flags that shape what is printed.
func addOutputFlags(cmd *cobra.Command) {
	// Глобальные флаги
	pf := cmd.PersistentFlags()
	pf.String("color", "auto", "colorize output (auto|on|off)")
	pf.Bool("quiet", false, "suppress non-essential output")
	pf.Bool("timings", false, "show per-phase timing information")
	pf.Int("max-diagnostics", 100, "maximum number of diagnostics to keep (0 = unlimited)")
	pf.String("path-mode", "auto", "how to print file paths (auto|absolute|relative|basename)")
	pf.Bool("no-config", false, "do not look for "+config.FileName+" above the source file")
}

func addTraceFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("trace", "", "write trace events to file (- for stderr)")
	pf.String("trace-level", "off", "trace level (off|error|phase|detail|debug)")
	pf.String("trace-mode", "stream", "trace storage (stream|ring|both)")
	pf.String("trace-format", "auto", "trace format (auto|text|ndjson)")
	pf.Int("trace-ring-size", 4096, "events kept by the ring tracer")
	pf.Duration("trace-heartbeat", 0, "emit heartbeat events at this interval")

	pf.String("cpu-profile", "", "write a CPU profile to file")
	pf.String("mem-profile", "", "write a heap profile to file")
	pf.String("runtime-trace", "", "write a Go runtime trace to file")
}

// main registers the commands and runs the root command. Diagnostics
// already printed by a command only set the exit status.
func main() {
	cmd := newRootCmd()
	err := cmd.Execute()
	runCleanups()
	if err != nil {
		if !errors.Is(err, errDiagnostics) {
			fmt.Fprintf(os.Stderr, "a68: %v\n", err)
		}
		os.Exit(1)
	}
}

// isTerminal проверяет, является ли файл терминалом
func isTerminal(f *os.File) bool {
	return term.IsTerminal(int(f.Fd()))
}
