package main

import (
	"fmt"
	"io"
	"os"

	"github.com/dustin/go-humanize"
	"github.com/spf13/cobra"

	"a68/internal/diag"
	"a68/internal/diagfmt"
	"a68/internal/driver"
	"a68/internal/session"
)

var checkCmd = &cobra.Command{
	Use:   "check [flags] <file.a68|directory>...",
	Short: "Check Algol 68 programs and report diagnostics",
	Long: `Check runs the whole front end (syntax, modes, coercions and scope) on
each file, or on every *.a68 file below a directory, and reports what it finds.
Files are checked in parallel; unchanged files are answered from a cache.`,
	Args: cobra.MinimumNArgs(1),
	RunE: runCheck,
}

func init() {
	addCheckFlags(checkCmd)
}

func addCheckFlags(cmd *cobra.Command) {
	cmd.Flags().String("format", "pretty", "output format (pretty|json|short)")
	cmd.Flags().String("stage", "all", "last stage to run (tokenize|syntax|modes|all)")
	cmd.Flags().Int("jobs", 0, "max parallel workers (0=auto)")
	cmd.Flags().Bool("cache", true, "reuse results of unchanged files")
	cmd.Flags().Bool("clear-cache", false, "drop cached results before checking")
	cmd.Flags().String("ui", "auto", "live progress on stderr while checking several sources (auto|on|off)")
	cmd.Flags().Bool("warnings-as-errors", false, "fail when any warning is reported")
}

type checkFlags struct {
	format           string
	stage            driver.Stage
	jobs             int
	cache            bool
	clearCache       bool
	ui               progressView
	warningsAsErrors bool
}

func readCheckFlags(cmd *cobra.Command) (checkFlags, error) {
	flags := cmd.Flags()
	var cf checkFlags
	var err error
	if cf.format, err = flags.GetString("format"); err != nil {
		return cf, fmt.Errorf("failed to get format flag: %w", err)
	}
	switch cf.format {
	case "pretty", "json", "short":
	default:
		return cf, fmt.Errorf("unknown format: %s", cf.format)
	}
	stageStr, err := flags.GetString("stage")
	if err != nil {
		return cf, fmt.Errorf("failed to get stage flag: %w", err)
	}
	if cf.stage, err = driver.ParseStage(stageStr); err != nil {
		return cf, err
	}
	if cf.jobs, err = flags.GetInt("jobs"); err != nil {
		return cf, fmt.Errorf("failed to get jobs flag: %w", err)
	}
	if cf.cache, err = flags.GetBool("cache"); err != nil {
		return cf, fmt.Errorf("failed to get cache flag: %w", err)
	}
	if cf.clearCache, err = flags.GetBool("clear-cache"); err != nil {
		return cf, fmt.Errorf("failed to get clear-cache flag: %w", err)
	}
	uiStr, err := flags.GetString("ui")
	if err != nil {
		return cf, fmt.Errorf("failed to get ui flag: %w", err)
	}
	if cf.ui, err = parseProgressView(uiStr); err != nil {
		return cf, err
	}
	if cf.warningsAsErrors, err = flags.GetBool("warnings-as-errors"); err != nil {
		return cf, fmt.Errorf("failed to get warnings-as-errors flag: %w", err)
	}
	return cf, nil
}

// collectPaths expands directories into their sources. Files named
// explicitly are kept whatever their extension.
func collectPaths(args []string) ([]string, error) {
	var paths []string
	seen := make(map[string]bool)
	for _, arg := range args {
		st, err := os.Stat(arg)
		if err != nil {
			return nil, fmt.Errorf("failed to stat path: %w", err)
		}
		list := []string{arg}
		if st.IsDir() {
			if list, err = driver.ListSources(arg); err != nil {
				return nil, fmt.Errorf("failed to list %s: %w", arg, err)
			}
		}
		for _, p := range list {
			if !seen[p] {
				seen[p] = true
				paths = append(paths, p)
			}
		}
	}
	if len(paths) == 0 {
		return nil, fmt.Errorf("no %s files found", driver.SourceExt)
	}
	return paths, nil
}

func runCheck(cmd *cobra.Command, args []string) error {
	defer dumpTraceOnPanic()

	cf, err := readCheckFlags(cmd)
	if err != nil {
		return err
	}
	opts, err := driverOptions(cmd, cf.stage)
	if err != nil {
		return err
	}
	out, err := readOutputOpts(cmd, os.Stdout)
	if err != nil {
		return err
	}
	paths, err := collectPaths(args)
	if err != nil {
		return err
	}

	batch := driver.BatchOptions{Options: opts, Jobs: cf.jobs}
	if cf.cache {
		cache, cacheErr := driver.OpenResultCache("a68")
		if cacheErr != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "a68: cache disabled: %v\n", cacheErr)
		} else {
			if cf.clearCache {
				if err := cache.DropAll(); err != nil {
					return fmt.Errorf("failed to clear cache: %w", err)
				}
			}
			batch.Cache = cache
		}
	}

	var (
		results []driver.FileResult
		stats   driver.BatchStats
	)
	if cf.ui.showProgress(len(paths)) && cf.format == "pretty" {
		results, stats, err = runCheckWithUI(cmd.Context(), "checking", paths, batch)
	} else {
		results, stats, err = driver.CheckFiles(cmd.Context(), paths, batch)
	}
	if err != nil {
		return err
	}

	w := cmd.OutOrStdout()
	switch cf.format {
	case "json":
		err = writeCheckJSON(w, results, out)
	case "short":
		err = writeCheckShort(w, cmd.ErrOrStderr(), results)
	default:
		writeCheckPretty(w, cmd.ErrOrStderr(), results, out)
	}
	if err != nil {
		return err
	}
	if !out.quiet && cf.format != "json" {
		printSummary(cmd.ErrOrStderr(), results, stats)
	}
	if failed(results, cf.warningsAsErrors) {
		return errDiagnostics
	}
	return nil
}

func writeCheckPretty(w, errw io.Writer, results []driver.FileResult, out outputOpts) {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			fmt.Fprintf(errw, "a68: %v\n", r.Err)
			continue
		}
		printDiagnostics(w, r.Bag(), r.Files, out)
		printTimings(errw, r.Path, r.Timing)
	}
}

func writeCheckShort(w, errw io.Writer, results []driver.FileResult) error {
	for i := range results {
		r := &results[i]
		if r.Err != nil {
			fmt.Fprintf(errw, "a68: %v\n", r.Err)
			continue
		}
		if text := diag.FormatGoldenDiagnostics(r.Diagnostics, r.Files, true); text != "" {
			if _, err := fmt.Fprintln(w, text); err != nil {
				return err
			}
		}
	}
	return nil
}

func writeCheckJSON(w io.Writer, results []driver.FileResult, out outputOpts) error {
	jsonOpts := diagfmt.JSONOpts{
		IncludePositions: true,
		PathMode:         out.pathMode,
		IncludeNotes:     true,
	}
	reports := make([]diagfmt.FileReport, 0, len(results))
	for i := range results {
		r := &results[i]
		report := diagfmt.FileReport{
			Path:   r.Path,
			Status: r.Status.String(),
			Cached: r.Cached,
			Phases: r.Results,
		}
		if r.Err != nil {
			report.Status = "unreadable"
			report.DiagnosticsOutput = diagfmt.DiagnosticsOutput{Diagnostics: []diagfmt.DiagnosticJSON{}}
		} else {
			report.DiagnosticsOutput = diagfmt.BuildDiagnosticsOutput(r.Bag(), r.Files, jsonOpts)
		}
		reports = append(reports, report)
	}
	return diagfmt.JSONFiles(w, reports)
}

func printSummary(w io.Writer, results []driver.FileResult, stats driver.BatchStats) {
	var errs, warns, size int64
	for i := range results {
		r := &results[i]
		if r.Files != nil {
			if id, ok := r.Files.GetLatest(r.Path); ok {
				size += int64(len(r.Files.Get(id).Content))
			}
		}
		for _, d := range r.Diagnostics {
			switch {
			case d.Severity >= diag.SevError:
				errs++
			case d.Severity == diag.SevWarning:
				warns++
			}
		}
	}
	fmt.Fprintf(w, "checked %s file(s), %s: %s error(s), %s warning(s)",
		humanize.Comma(int64(len(results))), humanize.Bytes(uint64(size)),
		humanize.Comma(errs), humanize.Comma(warns))
	if stats.CacheHits > 0 {
		fmt.Fprintf(w, ", %s cached", humanize.Comma(stats.CacheHits))
	}
	if stats.Failed > 0 {
		fmt.Fprintf(w, ", %s unreadable", humanize.Comma(stats.Failed))
	}
	fmt.Fprintln(w)
}

// failed reports whether the batch should end with a non-zero status.
func failed(results []driver.FileResult, warningsAsErrors bool) bool {
	for i := range results {
		r := &results[i]
		if r.Err != nil || r.Status == session.StatusFatal {
			return true
		}
		for _, d := range r.Diagnostics {
			if d.Severity >= diag.SevError || (warningsAsErrors && d.Severity == diag.SevWarning) {
				return true
			}
		}
	}
	return false
}
