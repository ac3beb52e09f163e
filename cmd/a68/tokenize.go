package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"a68/internal/diag"
	"a68/internal/diagfmt"
	"a68/internal/driver"
	"a68/internal/observ"
	"a68/internal/source"
)

var tokenizeCmd = &cobra.Command{
	Use:   "tokenize [flags] file.a68",
	Short: "Tokenize an Algol 68 source file",
	Long: `Tokenize scans a source file in the configured stropping regime, splices
refinements and prints the resulting tokens`,
	Args: cobra.ExactArgs(1),
	RunE: runTokenize,
}

func init() {
	tokenizeCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runTokenize(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, err := driverOptions(cmd, driver.StageTokenize)
	if err != nil {
		return err
	}
	out, err := readOutputOpts(cmd, os.Stderr)
	if err != nil {
		return err
	}

	result, err := driver.Tokenize(cmd.Context(), args[0], opts)
	if err != nil {
		return fmt.Errorf("tokenization failed: %w", err)
	}

	// Выводим диагностику в stderr, если есть
	printDiagnostics(cmd.ErrOrStderr(), result.Bag, result.FileSet, out)

	w := cmd.OutOrStdout()
	switch format {
	case "json":
		err = diagfmt.FormatTokensJSON(w, result.Tokens)
	default:
		err = diagfmt.FormatTokensPretty(w, result.Tokens, result.FileSet)
	}
	if err != nil {
		return err
	}
	if result.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}

// printDiagnostics writes bag in pretty form; an empty bag prints nothing.
func printDiagnostics(w io.Writer, bag *diag.Bag, fs *source.FileSet, out outputOpts) {
	if bag == nil || bag.Len() == 0 {
		return
	}
	diagfmt.Pretty(w, bag, fs, out.pretty())
}

func printTimings(w io.Writer, path string, report *observ.Report) {
	if report != nil {
		fmt.Fprint(w, report.Summary(path))
	}
}
