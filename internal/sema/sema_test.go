package sema

import (
	"context"
	"slices"
	"testing"

	"a68/internal/ast"
	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/lexer"
	"a68/internal/modes"
	"a68/internal/parser"
	"a68/internal/session"
	"a68/internal/source"
	"a68/internal/token"
)

type phase func(*session.Session) session.Status

// check прогоняет все фазы до вставки приведений включительно.
func check(t *testing.T, src string) *session.Session {
	t.Helper()
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.a68", []byte(src))
	s := session.New(context.Background(), fs, id, config.Default())
	s.Tokens = lexer.Tokenize(source.Lines(s.File), lexer.Options{Config: &s.Opts, Reporter: s})
	s.Tokens = lexer.Refine(s.Tokens, s)
	for _, p := range []phase{parser.CheckBrackets, parser.TopDown, parser.BottomUp, parser.Bind} {
		if st := p(s); st == session.StatusFatal {
			t.Fatalf("parse %q: %v", src, codes(s.Bag))
		}
	}
	if s.Bag.HasErrors() {
		t.Fatalf("syntax errors in %q: %v", src, codes(s.Bag))
	}
	for _, p := range []phase{CollectModes, CheckModes, InsertCoercions} {
		if st := p(s); st == session.StatusFatal {
			break
		}
	}
	return s
}

func mustCheck(t *testing.T, src string) *session.Session {
	t.Helper()
	s := check(t, src)
	if s.Bag.HasErrors() {
		t.Fatalf("%q: %v", src, messages(s.Bag))
	}
	return s
}

func expect(t *testing.T, src string, code diag.Code) *session.Session {
	t.Helper()
	s := check(t, src)
	if !slices.Contains(codes(s.Bag), code) {
		t.Fatalf("%q: want %s, got %v", src, code.ID(), messages(s.Bag))
	}
	return s
}

func codes(bag *diag.Bag) []diag.Code {
	var out []diag.Code
	for _, d := range bag.Items() {
		out = append(out, d.Code)
	}
	return out
}

func messages(bag *diag.Bag) []string {
	var out []string
	for _, d := range bag.Items() {
		out = append(out, d.Code.ID()+" "+d.Message())
	}
	return out
}

func find(tr *ast.Tree, k token.Kind) ast.NodeID {
	found := ast.NoNodeID
	tr.Walk(tr.Root, func(n ast.NodeID, _ int) bool {
		if found.IsValid() {
			return false
		}
		if tr.Attr(n) == k {
			found = n
			return false
		}
		return true
	})
	return found
}

func TestFormulaAndPrint(t *testing.T) {
	s := mustCheck(t, "BEGIN INT i = 1, j = 2; print (i+j) END")
	std := &s.Modes.Std
	f := find(s.Tree, token.Formula)
	if !s.Modes.Same(s.Tree.Get(f).Mode, std.Int) {
		t.Fatalf("i+j has mode %s", s.Modes.String(s.Tree.Get(f).Mode))
	}
	op := s.Tree.Next(s.Tree.Sub(f))
	if !s.Tree.Get(op).Tag.IsValid() {
		t.Fatal("operator not identified")
	}
	args := find(s.Tree, token.Arguments)
	row := s.Tree.Sub(s.Tree.Sub(args))
	if s.Tree.Attr(row) != token.Rowing || !s.Modes.Same(s.Tree.Get(row).Mode, std.RowSimplout) {
		t.Fatalf("argument %s", s.Tree.Sexpr(args))
	}
	unite := s.Tree.Sub(row)
	if s.Tree.Attr(unite) != token.Uniting || !s.Modes.Same(s.Tree.Get(unite).Mode, std.Simplout) {
		t.Fatalf("argument %s", s.Tree.Sexpr(args))
	}
	if s.Tree.Sub(unite) != f {
		t.Fatalf("uniting wraps %s", s.Tree.Attr(s.Tree.Sub(unite)))
	}
	if !s.Tree.Get(unite).Has(ast.FlagInserted) {
		t.Fatal("coercion not flagged as inserted")
	}
}

func TestInsertCoercionsIsIdempotent(t *testing.T) {
	s := mustCheck(t, "INT i := 1; REAL x = i; print (x)")
	before := s.Tree.Sexpr(s.Tree.Root)
	if st := InsertCoercions(s); st != session.StatusOK {
		t.Fatalf("status %s", st)
	}
	if after := s.Tree.Sexpr(s.Tree.Root); after != before {
		t.Fatalf("second run changed the tree:\n%s\n%s", before, after)
	}
}

func TestVariableIsDereferencedAndWidened(t *testing.T) {
	s := mustCheck(t, "INT i := 1; REAL x = i; SKIP")
	w := find(s.Tree, token.Widening)
	if !w.IsValid() {
		t.Fatalf("no widening in %s", s.Tree.Sexpr(s.Tree.Root))
	}
	if s.Tree.Attr(s.Tree.Sub(w)) != token.Dereferencing {
		t.Fatalf("widening of %s", s.Tree.Attr(s.Tree.Sub(w)))
	}
}

func TestWellFormedModes(t *testing.T) {
	mustCheck(t, "MODE LIST = STRUCT (INT v, REF LIST next); SKIP")
	mustCheck(t, "MODE F = PROC (F) F; SKIP")
	expect(t, "MODE BAD = STRUCT (INT v, BAD next); SKIP", diag.ModNotWellFormed)
	expect(t, "MODE U = UNION (INT, U); SKIP", diag.ModNotWellFormed)
}

func TestIllFormedUnionReportedOnce(t *testing.T) {
	s := expect(t, "MODE A = UNION (A, INT); SKIP", diag.ModNotWellFormed)
	if got := codes(s.Bag); len(got) != 1 {
		t.Fatalf("want a single diagnostic, got %v", messages(s.Bag))
	}
}

func TestRelatedModesInUnion(t *testing.T) {
	expect(t, "MODE U = UNION (INT, REF INT); SKIP", diag.ModRelatedModes)
	mustCheck(t, "MODE U = UNION (INT, REAL); SKIP")
}

func TestBalancing(t *testing.T) {
	s := mustCheck(t, "BOOL b = TRUE; print (IF b THEN 1 ELSE 2.5 FI + 1.0)")
	c := find(s.Tree, token.ConditionalClause)
	if !s.Modes.Same(s.Tree.Get(c).Mode, s.Modes.Std.Real) {
		t.Fatalf("conditional balanced to %s", s.Modes.String(s.Tree.Get(c).Mode))
	}
	expect(t, "BOOL b = TRUE; print (IF b THEN 1 ELSE TRUE FI + 1)", diag.ModNoUniqueMode)
}

func TestBalancingPrefersFlex(t *testing.T) {
	s := mustCheck(t, "BOOL b = TRUE; STRING s = \"ab\"; print (IF b THEN s ELSE \"c\" FI + \"d\")")
	c := find(s.Tree, token.ConditionalClause)
	if !s.Modes.Same(s.Tree.Get(c).Mode, s.Modes.Std.String) {
		t.Fatalf("conditional balanced to %s", s.Modes.String(s.Tree.Get(c).Mode))
	}
}

func TestOperators(t *testing.T) {
	expect(t, "print (TRUE + 1)", diag.ModNoOperator)
	s := mustCheck(t, "REAL x = 1.5; print (x * 2)")
	f := find(s.Tree, token.Formula)
	if !s.Modes.Same(s.Tree.Get(f).Mode, s.Modes.Std.Real) {
		t.Fatalf("x * 2 has mode %s", s.Modes.String(s.Tree.Get(f).Mode))
	}
	mustCheck(t, "INT i := 0; i +:= 1; SKIP")
}

func TestUserOperator(t *testing.T) {
	s := mustCheck(t, "PRIO MAX = 9; OP MAX = (INT a, b) INT: (a > b | a | b); print (1 MAX 2)")
	f := find(s.Tree, token.Formula)
	op := s.Tree.Next(s.Tree.Sub(f))
	tg := s.Scopes.Tag(s.Tree.Get(op).Tag)
	if tg == nil || tg.Name != "MAX" {
		t.Fatalf("MAX bound to %+v", tg)
	}
}

func TestIncoercible(t *testing.T) {
	expect(t, "INT i = 1.5; SKIP", diag.ModIncoercible)
	expect(t, "INT i = 1; i := 2", diag.ModNotAName)
	expect(t, "INT i = 1; i (2)", diag.ModNotCallable)
	expect(t, "PROC f = (INT a) INT: a; f (1, 2)", diag.ModArgumentCount)
	expect(t, "[1:3] INT a; a[1, 2] := 0", diag.ModIndexerCount)
	expect(t, "INT i = 1; i[1]", diag.ModNotSliceable)
	expect(t, "MODE P = STRUCT (INT x); P p = 1; SKIP", diag.ModIncoercible)
	expect(t, "BEGIN (()) END", diag.ModIncoercible)
	expect(t, "INT i = (); SKIP", diag.ModIncoercible)
}

func TestNilNeedsAName(t *testing.T) {
	mustCheck(t, "REF INT r = NIL; SKIP")
	expect(t, "INT i = NIL; SKIP", diag.ModNilContext)
}

func TestVoidedValueWarns(t *testing.T) {
	s := check(t, "INT i = 1; i; SKIP")
	if s.Bag.HasErrors() || !slices.Contains(codes(s.Bag), diag.ModVoided) {
		t.Fatalf("got %v", messages(s.Bag))
	}
}

func TestDenotationRange(t *testing.T) {
	expect(t, "INT i = 99999999999999999999999; SKIP", diag.ModDenotationRange)
	mustCheck(t, "LONG INT i = LONG 99999999999999999999; SKIP")
}

func TestNamesAndSelections(t *testing.T) {
	s := mustCheck(t, "MODE POINT = STRUCT (REAL x, y); LOC POINT p; [1:3] INT v; x OF p := 1.0; v[2] := 3; SKIP")
	sel := find(s.Tree, token.Selection)
	if !s.Modes.Same(s.Tree.Get(sel).Mode, s.Modes.Std.RefReal) {
		t.Fatalf("x OF p has mode %s", s.Modes.String(s.Tree.Get(sel).Mode))
	}
	sl := find(s.Tree, token.Slice)
	if !s.Modes.Same(s.Tree.Get(sl).Mode, s.Modes.Std.RefInt) {
		t.Fatalf("v[2] has mode %s", s.Modes.String(s.Tree.Get(sl).Mode))
	}
	expect(t, "MODE POINT = STRUCT (REAL x, y); LOC POINT p; z OF p := 1.0", diag.ModNoField)
}

func TestRowDisplay(t *testing.T) {
	s := mustCheck(t, "[] INT a = (1, 2, 3); SKIP")
	c := find(s.Tree, token.CollateralClause)
	if !s.Modes.Same(s.Tree.Get(c).Mode, s.Modes.Row(1, s.Modes.Std.Int)) {
		t.Fatalf("display has mode %s", s.Modes.String(s.Tree.Get(c).Mode))
	}
	mustCheck(t, "print ((1, \"a\", 2.5))")
	mustCheck(t, "[] INT e = (); SKIP")
}

func TestConformity(t *testing.T) {
	mustCheck(t, "UNION (INT, REAL) u = 1; CASE u IN (INT i): print (i), (REAL r): print (r) OUT SKIP ESAC")
	expect(t, "UNION (INT, REAL) u = 1; CASE u IN (BOOL b): SKIP ESAC", diag.ModSpecifierNotInUnion)
}

func TestLoopAndJumps(t *testing.T) {
	mustCheck(t, "FOR i FROM 1 TO 10 WHILE i < 5 DO print (i) OD")
	s := mustCheck(t, "PROC VOID p = GOTO done; p; done: SKIP")
	if !find(s.Tree, token.Proceduring).IsValid() {
		t.Fatalf("jump not procedured: %s", s.Tree.Sexpr(s.Tree.Root))
	}
}

func TestIdentityRelation(t *testing.T) {
	s := mustCheck(t, "INT i := 1; REF INT r = i; print (r :=: i); print (r :/=: NIL)")
	rel := find(s.Tree, token.IdentityRelation)
	if !s.Modes.Same(s.Tree.Get(rel).Mode, s.Modes.Std.Bool) {
		t.Fatalf("relation has mode %s", s.Modes.String(s.Tree.Get(rel).Mode))
	}
}

func TestTransputTakesRowsAndStructures(t *testing.T) {
	s := mustCheck(t, "[] INT r = (1, 2, 3); print (r)")
	unite := find(s.Tree, token.Uniting)
	if !unite.IsValid() || !s.Modes.Same(s.Tree.Get(unite).Mode, s.Modes.Std.Simplout) {
		t.Fatalf("argument %s", s.Tree.Sexpr(find(s.Tree, token.Arguments)))
	}
	if s.Tree.Attr(s.Tree.Sub(unite)) != token.Identifier {
		t.Fatalf("uniting wraps %s", s.Tree.Attr(s.Tree.Sub(unite)))
	}

	mustCheck(t, "STRUCT (INT a, REAL b) s = (1, 2.0); print (s)")
	mustCheck(t, "[1:2, 1:2] REAL m; print (m)")
	mustCheck(t, "MODE POINT = STRUCT (REAL x, y); [1:3] POINT ps; print ((ps, newline))")
	mustCheck(t, "[1:3] INT v; read (v)")
	mustCheck(t, "LOC STRUCT (INT a, STRING b) p; read (p)")

	expect(t, "STRUCT (INT a, REF INT b) s = (1, NIL); print (s)", diag.ModIncoercible)
	expect(t, "[] INT r = (1, 2); read (r)", diag.ModIncoercible)
}

func TestCoercionIsMonotonic(t *testing.T) {
	s := mustCheck(t, "SKIP")
	c := newChecker(s)
	m, std := s.Modes, &s.Modes.Std
	number := m.Union([]modes.ModeID{std.Int, std.Real})
	rowInt := m.Row(1, std.Int)

	sorts := []ast.Sort{ast.Soft, ast.Weak, ast.Meek, ast.Firm, ast.Strong}
	tests := []struct {
		name     string
		from, to modes.ModeID
		weakest  ast.Sort // NoSort: never
	}{
		{"same mode", std.Int, std.Int, ast.Soft},
		{"deproceduring", m.Proc(nil, std.Int), std.Int, ast.Soft},
		{"dereferencing", std.RefInt, std.Int, ast.Weak},
		{"name of a name", m.Ref(std.RefInt), std.RefInt, ast.Weak},
		{"procedure yielding a name", m.Proc(nil, std.RefInt), std.Int, ast.Weak},
		{"uniting", std.Int, number, ast.Firm},
		{"dereferencing then uniting", std.RefInt, number, ast.Firm},
		{"row to transput", rowInt, std.Simplout, ast.Firm},
		{"widening", std.Int, std.Real, ast.Strong},
		{"rowing", std.Char, std.RowChar, ast.Strong},
		{"voiding", std.Int, std.Void, ast.Strong},
		{"name of a row to transput rows", m.Ref(rowInt), std.RowSimplout, ast.Strong},
		{"narrowing", std.Real, std.Int, ast.NoSort},
		{"not a variant", std.Bool, number, ast.NoSort},
		{"value to name", std.Int, std.RefInt, ast.NoSort},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			accepted := false
			for _, sort := range sorts {
				ok := c.coercible(tt.from, tt.to, sort)
				if accepted && !ok {
					t.Fatalf("%s to %s accepted in a weaker sort but not in %s",
						m.String(tt.from), m.String(tt.to), sort)
				}
				if ok && !accepted && sort != tt.weakest {
					t.Fatalf("%s to %s first accepted in %s, want %s",
						m.String(tt.from), m.String(tt.to), sort, tt.weakest)
				}
				accepted = accepted || ok
			}
			if !accepted && tt.weakest != ast.NoSort {
				t.Fatalf("%s to %s never accepted, want %s", m.String(tt.from), m.String(tt.to), tt.weakest)
			}
		})
	}
}
