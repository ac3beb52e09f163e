package source

import (
	"os"
	"path/filepath"
	"testing"
)

func TestLinesSplitsAndTracksOffsets(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("prog.a68", []byte("BEGIN\n  print (1)\nEND"))
	lines := Lines(fs.Get(id))
	if len(lines) != 3 {
		t.Fatalf("expected 3 lines, got %d", len(lines))
	}
	if lines[1].Text != "  print (1)" || lines[1].Number != 2 || lines[1].Offset != 6 {
		t.Fatalf("unexpected second line: %+v", lines[1])
	}
	if lines[2].Text != "END" || lines[2].Offset != 18 {
		t.Fatalf("unexpected last line: %+v", lines[2])
	}
}

func TestLinesBackslashContinuation(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("prog.a68", []byte("INT x = 1\\\n2;\n"))
	lines := Lines(fs.Get(id))
	if len(lines) != 2 {
		t.Fatalf("expected 2 lines, got %d: %+v", len(lines), lines)
	}
	if lines[0].Text != "INT x = 1" {
		t.Fatalf("backslash must be dropped, got %q", lines[0].Text)
	}
	if !lines[1].Joined || lines[1].Text != "2;" {
		t.Fatalf("second line must be joined: %+v", lines[1])
	}
}

func TestResolveLineCol(t *testing.T) {
	fs := NewFileSet()
	id := fs.AddVirtual("prog.a68", []byte("ab\ncd\nef"))
	start, end := fs.Resolve(Span{File: id, Start: 3, End: 5})
	if start != (LineCol{Line: 2, Col: 1}) || end != (LineCol{Line: 2, Col: 3}) {
		t.Fatalf("unexpected positions %v %v", start, end)
	}
	if got := fs.Get(id).GetLine(3); got != "ef" {
		t.Fatalf("GetLine(3) = %q", got)
	}
}

func TestSpanCover(t *testing.T) {
	a := Span{File: 1, Start: 10, End: 20}
	b := Span{File: 1, Start: 5, End: 12}
	if got := a.Cover(b); got != (Span{File: 1, Start: 5, End: 20}) {
		t.Fatalf("Cover = %v", got)
	}
	if !a.Cover(b).Contains(a) {
		t.Fatalf("cover must contain both spans")
	}
	other := Span{File: 2, Start: 0, End: 3}
	if got := a.Cover(other); got != a {
		t.Fatalf("spans from different files must not merge, got %v", got)
	}
}

func TestInternerRoundTrip(t *testing.T) {
	in := NewInterner()
	a := in.Intern("maxint")
	if b := in.Intern("maxint"); a != b {
		t.Fatalf("same string interned twice: %d != %d", a, b)
	}
	if s := in.MustLookup(a); s != "maxint" {
		t.Fatalf("lookup = %q", s)
	}
	if _, ok := in.Find("pi"); ok {
		t.Fatalf("Find must not intern")
	}
}

func TestLoadNormalizesAndFlags(t *testing.T) {
	path := filepath.Join(t.TempDir(), "prog.a68")
	if err := os.WriteFile(path, []byte("\xef\xbb\xbfBEGIN\r\nSKIP\r\nEND\r\n"), 0o600); err != nil {
		t.Fatal(err)
	}
	fs := NewFileSet()
	id, err := fs.Load(path)
	if err != nil {
		t.Fatal(err)
	}
	f := fs.Get(id)
	if string(f.Content) != "BEGIN\nSKIP\nEND\n" {
		t.Fatalf("content %q", f.Content)
	}
	if !f.Flags.Has(FileHadBOM|FileNormalizedCRLF) || f.Flags.Has(FileVirtual) {
		t.Fatalf("flags %b", f.Flags)
	}
	if v := fs.Get(fs.AddVirtual("mem.a68", []byte("SKIP"))); !v.Flags.Has(FileVirtual) {
		t.Fatalf("virtual flags %b", v.Flags)
	}
}
