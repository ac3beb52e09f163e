package diag

import (
	"testing"

	"a68/internal/source"
)

func TestFormatGoldenDiagnostics(t *testing.T) {
	fs := source.NewFileSet()
	fs.SetBaseDir("/workspace")

	file := fs.Add("/workspace/testdata/golden/sample.a68", []byte("a\nb\n"), 0)

	diags := []*Diagnostic{
		{
			Severity: SevSyntax,
			Code:     SynMissingCloser,
			Template: "missing %s\nsecond",
			Args:     []string{"FI"},
			Primary:  source.Span{File: file, Start: 0, End: 1},
			Notes: []Note{
				{Span: source.Span{File: file, Start: 2, End: 3}, Msg: "opened here"},
			},
		},
		{
			Severity: SevWarning,
			Code:     ModVoided,
			Template: "value of mode %s is voided",
			Args:     []string{"INT"},
			Primary:  source.Span{File: file, Start: 2, End: 3},
		},
	}

	expected := "syntax-error SYN2002 testdata/golden/sample.a68:1:1 missing FI second\n" +
		"note SYN2002 testdata/golden/sample.a68:2:1 opened here\n" +
		"warning MOD4011 testdata/golden/sample.a68:2:1 value of mode INT is voided"

	if got := FormatGoldenDiagnostics(diags, fs, true); got != expected {
		t.Fatalf("unexpected golden diagnostics:\nwant:\n%s\n\ngot:\n%s", expected, got)
	}
}

func TestMessageExpansion(t *testing.T) {
	cases := []struct {
		tmpl string
		args []string
		want string
	}{
		{"plain", nil, "plain"},
		{"%s coerced to %s", []string{"INT", "REAL"}, "INT coerced to REAL"},
		{"%s and %s", []string{"A"}, "A and ?"},
		{"100%% sure", nil, "100% sure"},
	}
	for _, tc := range cases {
		d := Diagnostic{Template: tc.tmpl, Args: tc.args}
		if got := d.Message(); got != tc.want {
			t.Errorf("Message(%q) = %q, want %q", tc.tmpl, got, tc.want)
		}
	}
}

func TestDedupReporter(t *testing.T) {
	bag := NewBag(10)
	r := NewDedupReporter(BagReporter{Bag: bag})
	sp := source.Span{Start: 1, End: 2}
	r.Report(DclUndeclared, SevError, sp, "%s undeclared", []string{"x"}, nil)
	r.Report(DclUndeclared, SevError, sp, "%s undeclared", []string{"x"}, nil)
	r.Report(DclUndeclared, SevError, sp, "%s undeclared", []string{"y"}, nil)
	if bag.Len() != 2 || r.Suppressed() != 1 {
		t.Fatalf("expected 2 diagnostics and 1 duplicate, got %d and %d", bag.Len(), r.Suppressed())
	}
	r.Report(DclUndeclared, SevError, source.Span{Start: 1, End: 3}, "%s undeclared", []string{"x"}, nil)
	if bag.Len() != 3 {
		t.Fatal("different span treated as duplicate")
	}
}

func TestWithNoteDoesNotAlias(t *testing.T) {
	base := New(SevError, DclUndeclared, source.Span{}, "%s undeclared", "x").WithNote(source.Span{}, "first")
	a := base.WithNote(source.Span{}, "a")
	b := base.WithNote(source.Span{}, "b")
	if len(base.Notes) != 1 || a.Notes[1].Msg != "a" || b.Notes[1].Msg != "b" {
		t.Fatalf("notes alias: %+v %+v", a.Notes, b.Notes)
	}
	if got := a.Message(); got != "x undeclared" {
		t.Fatalf("message %q", got)
	}
}

func TestBagLimitAndSort(t *testing.T) {
	bag := NewBag(2)
	bag.Add(&Diagnostic{Severity: SevWarning, Primary: source.Span{Start: 5}})
	bag.Add(&Diagnostic{Severity: SevError, Primary: source.Span{Start: 1}})
	if bag.Add(&Diagnostic{Severity: SevError}) {
		t.Fatal("bag accepted diagnostic past its limit")
	}
	if !bag.HasErrors() || !bag.HasWarnings() {
		t.Fatal("expected both errors and warnings")
	}
	bag.Sort()
	if bag.Items()[0].Primary.Start != 1 {
		t.Fatalf("sort did not order by start: %+v", bag.Items()[0])
	}
	bag.Filter(SevError)
	if bag.Len() != 1 {
		t.Fatalf("filter kept %d", bag.Len())
	}
}
