package diag

import (
	"fmt"
	"strings"

	"a68/internal/source"
)

type Note struct {
	Span source.Span
	Msg  string
}

// Diagnostic is what a pass hands to the sink: a code, a position and a
// message template with its arguments. Producers never format final text.
type Diagnostic struct {
	Severity Severity
	Code     Code
	Template string
	Args     []string
	Primary  source.Span
	Notes    []Note
}

func New(sev Severity, code Code, primary source.Span, template string, args ...string) Diagnostic {
	return Diagnostic{Severity: sev, Code: code, Primary: primary, Template: template, Args: args}
}

// WithNote returns a copy of d with one more note. Notes of the copy do
// not alias those of d.
func (d Diagnostic) WithNote(sp source.Span, msg string) Diagnostic {
	d.Notes = append(d.Notes[:len(d.Notes):len(d.Notes)], Note{Span: sp, Msg: msg})
	return d
}

// Message expands the template. Each %s is replaced by the next argument,
// %% yields a percent sign; missing arguments render as "?".
func (d Diagnostic) Message() string {
	if len(d.Args) == 0 && !strings.Contains(d.Template, "%") {
		return d.Template
	}
	var b strings.Builder
	next := 0
	for i := 0; i < len(d.Template); i++ {
		ch := d.Template[i]
		if ch != '%' || i+1 >= len(d.Template) {
			b.WriteByte(ch)
			continue
		}
		switch d.Template[i+1] {
		case 's':
			if next < len(d.Args) {
				b.WriteString(d.Args[next])
			} else {
				b.WriteByte('?')
			}
			next++
			i++
		case '%':
			b.WriteByte('%')
			i++
		default:
			b.WriteByte(ch)
		}
	}
	return b.String()
}

func (d Diagnostic) String() string {
	return fmt.Sprintf("%s %s %s: %s", d.Severity, d.Code.ID(), d.Primary, d.Message())
}
