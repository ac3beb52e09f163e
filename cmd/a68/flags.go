package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"a68/internal/config"
	"a68/internal/diagfmt"
	"a68/internal/driver"
)

// addCompilerFlags registers the flags that mirror the [compiler] table of
// the project file.
func addCompilerFlags(cmd *cobra.Command) {
	pf := cmd.PersistentFlags()
	pf.String("stropping", "bold", "stropping regime (bold|quote)")
	pf.Bool("brackets", false, "accept { } and [ ] as parentheses")
	pf.Bool("portcheck", false, "warn about non-portable constructs")
	pf.Bool("warnings", true, "report warnings")
	pf.Bool("reductions", false, "trace every parser reduction (needs --trace-level debug)")
	pf.Int("max-errors", 0, "stop after this many errors")
	pf.Int("max-depth", 0, "maximum nesting depth of the program")
}

// compilerOverride returns the changes requested on the command line. Only
// flags set explicitly take part, so a project file keeps its values
// otherwise.
func compilerOverride(cmd *cobra.Command) (func(*config.Options), error) {
	flags := cmd.Flags()
	var edits []func(*config.Options)

	if flags.Changed("stropping") {
		v, err := flags.GetString("stropping")
		if err != nil {
			return nil, fmt.Errorf("failed to get stropping flag: %w", err)
		}
		strop, err := config.ParseStropping(v)
		if err != nil {
			return nil, err
		}
		edits = append(edits, func(o *config.Options) { o.Stropping = strop })
	}
	for _, b := range []struct {
		name string
		set  func(*config.Options, bool)
	}{
		{"brackets", func(o *config.Options, v bool) { o.Brackets = v }},
		{"portcheck", func(o *config.Options, v bool) { o.PortCheck = v }},
		{"warnings", func(o *config.Options, v bool) { o.Warnings = v }},
		{"reductions", func(o *config.Options, v bool) { o.TraceReductions = v }},
	} {
		if !flags.Changed(b.name) {
			continue
		}
		v, err := flags.GetBool(b.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", b.name, err)
		}
		set := b.set
		edits = append(edits, func(o *config.Options) { set(o, v) })
	}
	for _, n := range []struct {
		name string
		set  func(*config.Options, int)
	}{
		{"max-errors", func(o *config.Options, v int) { o.MaxErrors = v }},
		{"max-depth", func(o *config.Options, v int) { o.MaxDepth = v }},
	} {
		if !flags.Changed(n.name) {
			continue
		}
		v, err := flags.GetInt(n.name)
		if err != nil {
			return nil, fmt.Errorf("failed to get %s flag: %w", n.name, err)
		}
		if v <= 0 {
			return nil, fmt.Errorf("--%s must be positive, got %d", n.name, v)
		}
		set := n.set
		edits = append(edits, func(o *config.Options) { set(o, v) })
	}

	if len(edits) == 0 {
		return nil, nil
	}
	return func(o *config.Options) {
		for _, e := range edits {
			e(o)
		}
		*o = o.Normalize()
	}, nil
}

// driverOptions collects the flags shared by every compiling command.
func driverOptions(cmd *cobra.Command, stage driver.Stage) (driver.Options, error) {
	flags := cmd.Flags()
	maxDiagnostics, err := flags.GetInt("max-diagnostics")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get max-diagnostics flag: %w", err)
	}
	timings, err := flags.GetBool("timings")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get timings flag: %w", err)
	}
	noConfig, err := flags.GetBool("no-config")
	if err != nil {
		return driver.Options{}, fmt.Errorf("failed to get no-config flag: %w", err)
	}
	override, err := compilerOverride(cmd)
	if err != nil {
		return driver.Options{}, err
	}
	return driver.Options{
		Config:         config.Default(),
		Stage:          stage,
		MaxDiagnostics: maxDiagnostics,
		Timings:        timings,
		Discover:       !noConfig,
		Override:       override,
	}, nil
}

type outputOpts struct {
	color    bool
	pathMode diagfmt.PathMode
	quiet    bool
}

func readOutputOpts(cmd *cobra.Command, out *os.File) (outputOpts, error) {
	flags := cmd.Flags()
	colorFlag, err := flags.GetString("color")
	if err != nil {
		return outputOpts{}, fmt.Errorf("failed to get color flag: %w", err)
	}
	useColor, err := colorEnabled(colorFlag, out)
	if err != nil {
		return outputOpts{}, err
	}
	modeFlag, err := flags.GetString("path-mode")
	if err != nil {
		return outputOpts{}, fmt.Errorf("failed to get path-mode flag: %w", err)
	}
	mode, ok := diagfmt.ParsePathMode(modeFlag)
	if !ok {
		return outputOpts{}, fmt.Errorf("invalid --path-mode value %q (expected auto|absolute|relative|basename)", modeFlag)
	}
	quiet, err := flags.GetBool("quiet")
	if err != nil {
		return outputOpts{}, fmt.Errorf("failed to get quiet flag: %w", err)
	}
	return outputOpts{color: useColor, pathMode: mode, quiet: quiet}, nil
}

func colorEnabled(flag string, out *os.File) (bool, error) {
	switch flag {
	case "on":
		return true, nil
	case "off":
		return false, nil
	case "auto", "":
		return out != nil && isTerminal(out), nil
	}
	return false, fmt.Errorf("invalid --color value %q (expected auto|on|off)", flag)
}

func (o outputOpts) pretty() diagfmt.PrettyOpts {
	return diagfmt.PrettyOpts{
		Color:     o.color,
		Context:   2,
		PathMode:  o.pathMode,
		ShowNotes: true,
	}
}
