package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"a68/internal/diagfmt"
	"a68/internal/driver"
)

var parseCmd = &cobra.Command{
	Use:   "parse [flags] file.a68",
	Short: "Parse an Algol 68 source file and print its syntax tree",
	Long: `Parse runs the syntax phases (and, with --stage, the mode and scope
checks) and prints the resulting tree as an outline or as JSON`,
	Args: cobra.ExactArgs(1),
	RunE: runParse,
}

func init() {
	parseCmd.Flags().String("format", "pretty", "output format (pretty|json)")
	parseCmd.Flags().String("stage", "syntax", "last stage to run (syntax|modes|all)")
	parseCmd.Flags().Bool("modes", false, "show the mode of every unit (needs --stage modes or all)")
	parseCmd.Flags().Bool("scopes", false, "show lexical levels of ranges and tags")
	parseCmd.Flags().Bool("spans", false, "show line:col of every node")
	parseCmd.Flags().Bool("coercions", false, "show inserted coercion nodes")
}

func runParse(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	flags := cmd.Flags()
	format, err := flags.GetString("format")
	if err != nil {
		return fmt.Errorf("failed to get format flag: %w", err)
	}
	if format != "pretty" && format != "json" {
		return fmt.Errorf("unknown format: %s", format)
	}
	stageStr, err := flags.GetString("stage")
	if err != nil {
		return fmt.Errorf("failed to get stage flag: %w", err)
	}
	stage, err := driver.ParseStage(stageStr)
	if err != nil {
		return err
	}
	if stage == driver.StageTokenize {
		return fmt.Errorf("parse needs at least --stage syntax; use tokenize instead")
	}
	var treeOpts diagfmt.TreeOpts
	for _, f := range []struct {
		name string
		dst  *bool
	}{
		{"modes", &treeOpts.Modes},
		{"scopes", &treeOpts.Scopes},
		{"spans", &treeOpts.Spans},
		{"coercions", &treeOpts.Coercions},
	} {
		if *f.dst, err = flags.GetBool(f.name); err != nil {
			return fmt.Errorf("failed to get %s flag: %w", f.name, err)
		}
	}
	if (treeOpts.Modes || treeOpts.Coercions) && stage == driver.StageSyntax {
		stage = driver.StageAll
	}

	opts, err := driverOptions(cmd, stage)
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

	in := diagfmt.TreeInput{Tree: s.Tree, Files: s.Files, Modes: s.Modes, Scopes: s.Scopes}
	w := cmd.OutOrStdout()
	if format == "json" {
		err = diagfmt.FormatTreeJSON(w, in, treeOpts)
	} else {
		err = diagfmt.FormatTreePretty(w, in, treeOpts)
	}
	if err != nil {
		return err
	}
	if s.Bag.HasErrors() {
		return errDiagnostics
	}
	return nil
}
