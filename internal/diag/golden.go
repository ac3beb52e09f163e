package diag

import (
	"cmp"
	"fmt"
	"path/filepath"
	"slices"
	"strings"

	"a68/internal/source"
)

// goldenLine is one row of the golden format:
//
//	<severity> <code> <path>:<line>:<col> <message>
type goldenLine struct {
	sev  string
	code string
	path string
	pos  source.LineCol
	msg  string
}

var goldenSeverity = map[Severity]string{
	SevInfo:    "info",
	SevWarning: "warning",
	SevError:   "error",
	SevSyntax:  "syntax-error",
}

// FormatGoldenDiagnostics renders diags one per line, sorted by position,
// with paths relative to the file set's base directory. Tests compare
// against it and `check --format=short` prints it.
// Notes become lines of severity "note" when includeNotes is set;
// diagnostics without a resolvable file are left out.
func FormatGoldenDiagnostics(diags []*Diagnostic, fs *source.FileSet, includeNotes bool) string {
	if fs == nil {
		return ""
	}
	var lines []goldenLine
	for _, d := range diags {
		if d == nil {
			continue
		}
		if l, ok := goldenAt(fs, d.Primary); ok {
			l.sev, l.code, l.msg = goldenSeverity[d.Severity], d.Code.ID(), oneLine(d.Message())
			lines = append(lines, l)
		}
		if !includeNotes {
			continue
		}
		for _, n := range d.Notes {
			if l, ok := goldenAt(fs, n.Span); ok {
				l.sev, l.code, l.msg = "note", d.Code.ID(), oneLine(n.Msg)
				lines = append(lines, l)
			}
		}
	}

	slices.SortStableFunc(lines, func(a, b goldenLine) int {
		return cmp.Or(
			cmp.Compare(a.path, b.path),
			cmp.Compare(a.pos.Line, b.pos.Line),
			cmp.Compare(a.pos.Col, b.pos.Col),
			cmp.Compare(a.sev, b.sev),
			cmp.Compare(a.code, b.code),
			cmp.Compare(a.msg, b.msg),
		)
	})

	out := make([]string, len(lines))
	for i, l := range lines {
		out[i] = fmt.Sprintf("%s %s %s:%d:%d %s", l.sev, l.code, l.path, l.pos.Line, l.pos.Col, l.msg)
	}
	return strings.Join(out, "\n")
}

func goldenAt(fs *source.FileSet, sp source.Span) (goldenLine, bool) {
	f := fs.Get(sp.File)
	if f == nil {
		return goldenLine{}, false
	}
	start, _ := fs.Resolve(sp)
	p := filepath.ToSlash(f.FormatPath("relative", fs.BaseDir()))
	for strings.HasPrefix(p, "./") {
		p = p[2:]
	}
	return goldenLine{path: p, pos: start}, true
}

// oneLine folds line breaks so that a message stays on its row.
func oneLine(msg string) string {
	return strings.TrimSpace(strings.NewReplacer("\r\n", " ", "\r", " ", "\n", " ").Replace(msg))
}
