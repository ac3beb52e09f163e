package diagfmt

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/fatih/color"
	"github.com/mattn/go-runewidth"

	"a68/internal/diag"
	"a68/internal/source"
)

const tabWidth = 4

type palette struct {
	err, warn, info, code, gutter, caret, note *color.Color
}

func newPalette(enabled bool) palette {
	p := palette{
		err:    color.New(color.FgRed, color.Bold),
		warn:   color.New(color.FgYellow, color.Bold),
		info:   color.New(color.FgCyan),
		code:   color.New(color.Bold),
		gutter: color.New(color.FgBlue),
		caret:  color.New(color.FgGreen, color.Bold),
		note:   color.New(color.FgCyan, color.Bold),
	}
	for _, c := range []*color.Color{p.err, p.warn, p.info, p.code, p.gutter, p.caret, p.note} {
		if enabled {
			c.EnableColor()
		} else {
			c.DisableColor()
		}
	}
	return p
}

func (p palette) severity(sev diag.Severity) *color.Color {
	switch {
	case sev.IsError():
		return p.err
	case sev == diag.SevWarning:
		return p.warn
	}
	return p.info
}

// Pretty форматирует диагностики в человекочитаемый вид.
// Идёт по bag.Items() (ожидается bag.Sort() заранее).
// Для каждого diag печатает:
// <path>:<line>:<col>: <SEV> <CODE>: <Message>
// затем контекст строки с подчёркиванием ^~~~ по Span, затем Notes.
func Pretty(w io.Writer, bag *diag.Bag, fs *source.FileSet, opts PrettyOpts) {
	if bag == nil {
		return
	}
	p := newPalette(opts.Color)
	for _, d := range bag.Items() {
		prettyOne(w, d, fs, opts, p)
	}
}

func prettyOne(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	f := fs.Get(d.Primary.File)
	// информационные сообщения без позиции (тайминги) печатаются одной строкой
	if f == nil || (d.Severity == diag.SevInfo && d.Primary.Empty() && d.Primary.Start == 0) {
		fmt.Fprintf(w, "%s %s: %s\n", p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message())
		printNotes(w, d, fs, opts, p)
		return
	}
	start, end := fs.Resolve(d.Primary)
	fmt.Fprintf(w, "%s:%d:%d: %s %s: %s\n",
		formatPath(f, fs, opts.PathMode), start.Line, start.Col,
		p.severity(d.Severity).Sprint(d.Severity), p.code.Sprint(d.Code.ID()), d.Message())

	gutter := len(strconv.FormatUint(uint64(start.Line), 10))
	first := uint32(1)
	if ctx := uint32(max(opts.Context, 0)); start.Line > ctx {
		first = start.Line - ctx
	}
	for ln := first; ln < start.Line; ln++ {
		printSourceLine(w, f, ln, gutter, opts, p)
	}
	line := printSourceLine(w, f, start.Line, gutter, opts, p)

	// подчёркивание считаем в колонках терминала, а не в байтах
	col := int(start.Col) - 1
	if col > len(line) {
		col = len(line)
	}
	stop := len(line)
	if end.Line == start.Line {
		stop = min(int(end.Col)-1, len(line))
	}
	pad := displayWidth(line[:col])
	span := max(displayWidth(line[col:max(stop, col)]), 1)
	if opts.Width > 0 {
		limit := int(opts.Width) - gutter - 3
		if pad >= limit {
			pad, span = max(limit-1, 0), 1
		} else if pad+span > limit {
			span = limit - pad
		}
	}
	marker := "^" + strings.Repeat("~", span-1)
	fmt.Fprintf(w, "%s %s%s\n", p.gutter.Sprint(strings.Repeat(" ", gutter)+" |"), strings.Repeat(" ", pad), p.caret.Sprint(marker))
	printNotes(w, d, fs, opts, p)
}

// printSourceLine prints one numbered line and returns its text.
func printSourceLine(w io.Writer, f *source.File, ln uint32, gutter int, opts PrettyOpts, p palette) string {
	text := f.GetLine(ln)
	shown := expandTabs(text)
	if opts.Width > 0 {
		shown = runewidth.Truncate(shown, max(int(opts.Width)-gutter-3, 8), "…")
	}
	num := fmt.Sprintf("%*d |", gutter, ln)
	fmt.Fprintf(w, "%s %s\n", p.gutter.Sprint(num), shown)
	return text
}

func printNotes(w io.Writer, d *diag.Diagnostic, fs *source.FileSet, opts PrettyOpts, p palette) {
	if !opts.ShowNotes {
		return
	}
	for _, n := range d.Notes {
		f := fs.Get(n.Span.File)
		if f == nil || d.Code == diag.ObsTimings {
			fmt.Fprintf(w, "  %s %s\n", p.note.Sprint("note:"), n.Msg)
			continue
		}
		start, _ := fs.Resolve(n.Span)
		fmt.Fprintf(w, "  %s %s:%d:%d: %s\n", p.note.Sprint("note:"), formatPath(f, fs, opts.PathMode), start.Line, start.Col, n.Msg)
	}
}

func formatPath(f *source.File, fs *source.FileSet, mode PathMode) string {
	switch mode {
	case PathModeAbsolute:
		return f.FormatPath("absolute", "")
	case PathModeRelative:
		return f.FormatPath("relative", fs.BaseDir())
	case PathModeBasename:
		return f.FormatPath("basename", "")
	}
	return f.FormatPath("auto", "")
}

func expandTabs(s string) string {
	return strings.ReplaceAll(s, "\t", strings.Repeat(" ", tabWidth))
}

func displayWidth(s string) int {
	return runewidth.StringWidth(expandTabs(s))
}
