package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"a68/internal/diagfmt"
	"a68/internal/driver"
)

var modesCmd = &cobra.Command{
	Use:   "modes [flags] file.a68",
	Short: "Print the mode table of an Algol 68 program",
	Long: `Modes checks a program and prints every canonical mode it uses, the
standard environment included, with their deflexed, slice, multiple and
name forms`,
	Args: cobra.ExactArgs(1),
	RunE: runModes,
}

func init() {
	modesCmd.Flags().String("format", "pretty", "output format (pretty|json)")
}

func runModes(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	format, err := cmd.Flags().GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	opts, err := driverOptions(cmd, driver.StageModes)
	if err != nil {
		return err
	}
	out, err := readOutputOpts(cmd, os.Stderr)
	if err != nil {
		return err
	}

	res, err := driver.Compile(cmd.Context(), args[0], opts)
	if err != nil {
		return err
	}
	s := res.Session
	printDiagnostics(cmd.ErrOrStderr(), s.Bag, s.Files, out)
	printTimings(cmd.ErrOrStderr(), res.Path, res.Timing)

	w := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatModesJSON(w, s.Modes)
	} else {
		err = diagfmt.FormatModesPretty(w, s.Modes)
	}
	if err != nil {
		return err
	}
	if s.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
