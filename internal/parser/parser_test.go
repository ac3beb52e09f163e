package parser_test

import (
	"context"
	"slices"
	"strings"
	"testing"

	"a68/internal/ast"
	"a68/internal/config"
	"a68/internal/diag"
	"a68/internal/lexer"
	"a68/internal/parser"
	"a68/internal/session"
	"a68/internal/source"
	"a68/internal/symbols"
	"a68/internal/token"
)

type phase func(*session.Session) session.Status

// parse прогоняет синтаксические фазы до первой фатальной.
func parse(t *testing.T, src string, opts ...func(*config.Options)) (*session.Session, session.Status) {
	t.Helper()
	conf := config.Default()
	for _, o := range opts {
		o(&conf)
	}
	fs := source.NewFileSet()
	id := fs.AddVirtual("test.a68", []byte(src))
	s := session.New(context.Background(), fs, id, conf)
	s.Tokens = lexer.Tokenize(source.Lines(s.File), lexer.Options{Config: &s.Opts, Reporter: s})
	s.Tokens = lexer.Refine(s.Tokens, s)
	for _, p := range []phase{parser.CheckBrackets, parser.TopDown, parser.BottomUp, parser.Bind} {
		if st := p(s); st == session.StatusFatal {
			return s, st
		}
	}
	return s, session.StatusOK
}

// mustParse fails the test on any error diagnostic.
func mustParse(t *testing.T, src string) *session.Session {
	t.Helper()
	s, st := parse(t, src)
	if st == session.StatusFatal || s.Bag.HasErrors() {
		t.Fatalf("parse %q: status %s, diagnostics %v", src, st, codes(s.Bag))
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

func hasCode(bag *diag.Bag, code diag.Code) bool {
	return slices.Contains(codes(bag), code)
}

// phrases returns the phrases of the outermost serial clause.
func phrases(s *session.Session) []ast.NodeID {
	return s.Tree.Children(s.Tree.Sub(s.Tree.Root))
}

// find returns the first node of kind k below id in pre-order.
func find(tr *ast.Tree, id ast.NodeID, k token.Kind) ast.NodeID {
	found := ast.NoNodeID
	tr.Walk(id, func(n ast.NodeID, _ int) bool {
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

func kindsOf(tr *ast.Tree, ids []ast.NodeID) []token.Kind {
	out := make([]token.Kind, len(ids))
	for i, id := range ids {
		out[i] = tr.Attr(id)
	}
	return out
}

func TestWholeProgramTree(t *testing.T) {
	s := mustParse(t, "BEGIN INT i = 1, j = 2; print (i+j) END")
	want := "(PARTICULAR_PROGRAM (SERIAL_CLAUSE (UNIT (CLOSED_CLAUSE (SERIAL_CLAUSE " +
		"(IDENTITY_DECLARATION (DECLARER INT) i (UNIT (DENOTATION 1)) j (UNIT (DENOTATION 2))) " +
		"(UNIT (CALL print (ARGUMENT_LIST (UNIT (FORMULA i + j))))))))))"
	if got := s.Tree.Sexpr(s.Tree.Root); got != want {
		t.Fatalf("tree:\n got %s\nwant %s", got, want)
	}
}

func TestMissingFiIsOneDiagnostic(t *testing.T) {
	s, st := parse(t, "IF a THEN b")
	if st != session.StatusFatal {
		t.Fatalf("status %s, want fatal", st)
	}
	items := s.Bag.Items()
	if len(items) != 1 || items[0].Code != diag.SynMissingCloser {
		t.Fatalf("got %v", codes(s.Bag))
	}
	if !slices.Contains(items[0].Args, "FI") {
		t.Fatalf("diagnostic does not name FI: %v", items[0].Args)
	}
}

func TestBracketBalance(t *testing.T) {
	cases := []struct {
		src string
		ok  bool
	}{
		{"BEGIN (SKIP) END", true},
		{"[1:2] INT a; a[1] := 1", true},
		{"IF TRUE THEN SKIP FI", true},
		{"CASE 1 IN SKIP ESAC", true},
		{"DO SKIP OD", true},
		{"FORMAT f = $ 3d $; SKIP", true},
		{"BEGIN ( END )", false},
		{"( SKIP", false},
		{"SKIP )", false},
		{"IF TRUE THEN ( SKIP FI )", false},
		{"BEGIN [ SKIP ) END", false},
	}
	for _, tc := range cases {
		s, st := parse(t, tc.src)
		bad := hasCode(s.Bag, diag.SynMissingCloser) || hasCode(s.Bag, diag.SynUnexpectedCloser)
		if tc.ok == bad {
			t.Errorf("%q: balanced=%v but diagnostics %v (status %s)", tc.src, tc.ok, codes(s.Bag), st)
		}
	}
}

func TestFormulaPriorities(t *testing.T) {
	s := mustParse(t, "INT x; x := 1 + 2 * 3 - 4")
	ps := phrases(s)
	want := "(UNIT (ASSIGNATION x (FORMULA (FORMULA (DENOTATION 1) + (FORMULA (DENOTATION 2) * (DENOTATION 3))) - (DENOTATION 4))))"
	if got := s.Tree.Sexpr(ps[1]); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	f := find(s.Tree, ps[1], token.Formula)
	op := s.Tree.Next(s.Tree.Sub(f))
	if p := s.Tree.Get(op).Info; p != 6 {
		t.Fatalf("priority of - is %d", p)
	}
}

func TestMonadicBindsTighter(t *testing.T) {
	s := mustParse(t, "INT x; x := - 1 + 2")
	want := "(UNIT (ASSIGNATION x (FORMULA (MONADIC_FORMULA - (DENOTATION 1)) + (DENOTATION 2))))"
	if got := s.Tree.Sexpr(phrases(s)[1]); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestUserPriority(t *testing.T) {
	s := mustParse(t, "PRIO MAX = 9; OP MAX = (INT a, b) INT: (a > b | a | b); INT x = 1 + 2 MAX 3; SKIP")
	ps := phrases(s)
	if got := kindsOf(s.Tree, ps); !slices.Equal(got, []token.Kind{
		token.PriorityDeclaration, token.OperatorDeclaration, token.IdentityDeclaration, token.Unit,
	}) {
		t.Fatalf("phrases %v", got)
	}
	want := "(UNIT (FORMULA (DENOTATION 1) + (FORMULA (DENOTATION 2) MAX (DENOTATION 3))))"
	if got := s.Tree.Sexpr(s.Tree.Last(ps[2])); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
}

func TestInvalidPriority(t *testing.T) {
	s, _ := parse(t, "PRIO MAX = 10; SKIP")
	if !hasCode(s.Bag, diag.DclInvalidPriority) {
		t.Fatalf("got %v", codes(s.Bag))
	}
}

func TestBriefChoiceClauses(t *testing.T) {
	s := mustParse(t, "INT a = 1; (a > 0 | 1 | 2); (a | 1, 2 | 3)")
	ps := phrases(s)
	cond := s.Tree.Sub(ps[1])
	if s.Tree.Attr(cond) != token.ConditionalClause || !s.Tree.Get(cond).Has(ast.FlagBrief) {
		t.Fatalf("not a brief conditional: %s", s.Tree.Sexpr(ps[1]))
	}
	if got := kindsOf(s.Tree, s.Tree.Children(cond)); !slices.Equal(got, []token.Kind{token.IfPart, token.ThenPart, token.ElsePart}) {
		t.Fatalf("conditional parts %v", got)
	}
	cs := s.Tree.Sub(ps[2])
	if s.Tree.Attr(cs) != token.CaseClause {
		t.Fatalf("not a case clause: %s", s.Tree.Sexpr(ps[2]))
	}
	parts := s.Tree.Children(cs)
	if got := kindsOf(s.Tree, parts); !slices.Equal(got, []token.Kind{token.CasePart, token.CaseInPart, token.OutPart}) {
		t.Fatalf("case parts %v", got)
	}
	if n := s.Tree.Count(parts[1]); n != 2 {
		t.Fatalf("in part holds %d units", n)
	}
}

func TestElifChain(t *testing.T) {
	s := mustParse(t, "INT a = 1; IF a = 1 THEN 1 ELIF a = 2 THEN 2 ELSE 3 FI")
	cond := find(s.Tree, s.Tree.Root, token.ConditionalClause)
	want := []token.Kind{token.IfPart, token.ThenPart, token.ElifPart, token.ThenPart, token.ElsePart}
	if got := kindsOf(s.Tree, s.Tree.Children(cond)); !slices.Equal(got, want) {
		t.Fatalf("parts %v", got)
	}
}

func TestSeparatorOutOfPlace(t *testing.T) {
	s, st := parse(t, "IF TRUE THEN 1 THEN 2 FI")
	if st != session.StatusFatal || !hasCode(s.Bag, diag.SynExpectedNear) {
		t.Fatalf("status %s, diagnostics %v", st, codes(s.Bag))
	}
}

func TestStraySeparator(t *testing.T) {
	s, st := parse(t, "SKIP THEN SKIP")
	if st != session.StatusFatal || !hasCode(s.Bag, diag.SynStrayToken) {
		t.Fatalf("status %s, diagnostics %v", st, codes(s.Bag))
	}
}

func TestConformityClause(t *testing.T) {
	s := mustParse(t, "UNION (INT, REAL) u = 1; CASE u IN (INT i): i, (REAL r): 0 OUT SKIP ESAC")
	c := find(s.Tree, s.Tree.Root, token.ConformityClause)
	if !c.IsValid() {
		t.Fatalf("no conformity clause in %s", s.Tree.Sexpr(s.Tree.Root))
	}
	in := s.Tree.Find(c, token.ConformityInPart)
	units := s.Tree.Children(in)
	if len(units) != 2 {
		t.Fatalf("%d specified units", len(units))
	}
	spec := s.Tree.Sub(units[0])
	if s.Tree.Attr(spec) != token.Specifier {
		t.Fatalf("first child %s", s.Tree.Attr(spec))
	}
	def := s.Tree.Last(spec)
	tag := s.Scopes.Tag(s.Tree.Get(def).Tag)
	if tag == nil || tag.Name != "i" || s.Scopes.Scope(tag.Scope).Kind != symbols.ScopeSpecifier {
		t.Fatalf("specifier identifier not declared in its own range: %+v", tag)
	}
	// the applied i in the unit binds to the specifier
	applied := find(s.Tree, s.Tree.Last(units[0]), token.Identifier)
	if s.Tree.Get(applied).Tag != s.Tree.Get(def).Tag {
		t.Fatal("applied identifier bound elsewhere")
	}
}

func TestLoopClause(t *testing.T) {
	s := mustParse(t, "FOR i FROM 1 TO 10 WHILE i < 5 DO print (i) OD")
	loop := find(s.Tree, s.Tree.Root, token.LoopClause)
	want := []token.Kind{token.ForPart, token.FromPart, token.ToPart, token.WhilePart, token.DoPart}
	parts := s.Tree.Children(loop)
	if got := kindsOf(s.Tree, parts); !slices.Equal(got, want) {
		t.Fatalf("parts %v", got)
	}
	id := s.Tree.Sub(parts[0])
	tag := s.Scopes.Tag(s.Tree.Get(id).Tag)
	if tag == nil || !tag.Has(symbols.TagFlagLoopIdentifier) {
		t.Fatalf("loop identifier not flagged: %+v", tag)
	}
	own := s.Tree.Get(loop).Own
	if tag.Scope != own {
		t.Fatal("loop identifier outside the loop range")
	}
	// FROM and TO units are evaluated outside the loop range
	if sc := s.Tree.Get(parts[1]).Scope; sc == own || s.Scopes.IsAncestor(own, sc) {
		t.Fatal("FROM part inside loop range")
	}
	// the DO part sees the WHILE range
	while := s.Tree.Get(parts[3]).Own
	do := s.Tree.Get(parts[4]).Own
	if s.Scopes.Scope(do).Parent != while {
		t.Fatal("DO range is not nested in WHILE range")
	}
}

func TestBareLoop(t *testing.T) {
	s := mustParse(t, "DO stop OD")
	loop := find(s.Tree, s.Tree.Root, token.LoopClause)
	if got := kindsOf(s.Tree, s.Tree.Children(loop)); !slices.Equal(got, []token.Kind{token.DoPart}) {
		t.Fatalf("parts %v", got)
	}
}

func TestLoopPartsOutOfOrder(t *testing.T) {
	s, st := parse(t, "TO 10 FROM 1 DO SKIP OD")
	if st != session.StatusFatal || !hasCode(s.Bag, diag.SynExpectedNear) {
		t.Fatalf("status %s, diagnostics %v", st, codes(s.Bag))
	}
}

func TestRoutineText(t *testing.T) {
	s := mustParse(t, "PROC f = (INT a, b) INT: a + b; f (1, 2)")
	ps := phrases(s)
	want := "(PROCEDURE_DECLARATION f (UNIT (ROUTINE_TEXT (PARAMETER_PACK (PARAMETER (DECLARER INT) a b)) " +
		"(DECLARER INT) (UNIT (FORMULA a + b)))))"
	if got := s.Tree.Sexpr(ps[0]); got != want {
		t.Fatalf("got  %s\nwant %s", got, want)
	}
	a := s.Tree.Next(find(s.Tree, find(s.Tree, ps[0], token.Parameter), token.Declarer))
	tag := s.Scopes.Tag(s.Tree.Get(a).Tag)
	if !tag.Has(symbols.TagFlagParameter) || s.Scopes.Scope(tag.Scope).Kind != symbols.ScopeRoutine {
		t.Fatalf("parameter tag %+v", tag)
	}
}

func TestDeclarations(t *testing.T) {
	src := `MODE POINT = STRUCT (REAL x, y);
LOC POINT p;
REF INT r = LOC INT;
[1:3] INT v;
FLEX [] CHAR s := "ab";
HEAP INT h;
PROC q := VOID: SKIP;
x OF p := 1.0`
	s := mustParse(t, src)
	ps := phrases(s)
	want := []token.Kind{
		token.ModeDeclaration, token.VariableDeclaration, token.IdentityDeclaration,
		token.VariableDeclaration, token.VariableDeclaration, token.VariableDeclaration,
		token.ProcedureVariableDeclaration, token.Unit,
	}
	if got := kindsOf(s.Tree, ps); !slices.Equal(got, want) {
		t.Fatalf("phrases %v", got)
	}
	if !s.Tree.Get(ps[1]).Has(ast.FlagLoc) || !s.Tree.Get(ps[5]).Has(ast.FlagHeap) {
		t.Fatal("storage flags lost")
	}
	h := s.Tree.Find(ps[5], token.DefiningIdentifier)
	if st := s.Scopes.Tag(s.Tree.Get(h).Tag).Storage; st != symbols.StorageHeap {
		t.Fatalf("h storage %s", st)
	}
	if got := s.Tree.Sexpr(ps[0]); got != "(MODE_DECLARATION POINT (DECLARER STRUCT (STRUCTURE_PACK (FIELD (DECLARER REAL) x y))))" {
		t.Fatalf("mode declaration %s", got)
	}
	gen := find(s.Tree, ps[2], token.Generator)
	if !gen.IsValid() || !s.Tree.Get(gen).Has(ast.FlagLoc) {
		t.Fatalf("generator %s", s.Tree.Sexpr(ps[2]))
	}
	bounds := find(s.Tree, ps[3], token.Bounds)
	if s.Tree.Get(bounds).Info != 1 || s.Tree.Count(s.Tree.Sub(bounds)) != 3 {
		t.Fatalf("bounds %s", s.Tree.Sexpr(bounds))
	}
	if !find(s.Tree, ps[7], token.Selection).IsValid() {
		t.Fatalf("selection %s", s.Tree.Sexpr(ps[7]))
	}
}

func TestMixedDeclarationList(t *testing.T) {
	s := mustParse(t, "INT i = 1, REAL x = 2.0, y = 3.0; SKIP")
	ps := phrases(s)
	if got := kindsOf(s.Tree, ps); !slices.Equal(got, []token.Kind{token.IdentityDeclaration, token.IdentityDeclaration, token.Unit}) {
		t.Fatalf("phrases %v", got)
	}
	if n := s.Tree.Count(ps[1]); n != 5 {
		t.Fatalf("REAL declaration has %d children: %s", n, s.Tree.Sexpr(ps[1]))
	}
}

func TestLongDenotation(t *testing.T) {
	s := mustParse(t, "LONG INT x = LONG 1; SKIP")
	d := s.Tree.Sub(phrases(s)[0])
	if s.Tree.Attr(d) != token.Declarer || s.Tree.Get(d).Info != 1 {
		t.Fatalf("declarer %s info %d", s.Tree.Attr(d), s.Tree.Get(d).Info)
	}
	den := find(s.Tree, phrases(s)[0], token.Denotation)
	if s.Tree.Get(den).Info != 1 {
		t.Fatalf("denotation size %d", s.Tree.Get(den).Info)
	}
}

func TestCollateralAndParallel(t *testing.T) {
	s := mustParse(t, "print ((1, 2)); PAR (SKIP, SKIP)")
	ps := phrases(s)
	c := find(s.Tree, ps[0], token.CollateralClause)
	if !c.IsValid() || s.Tree.Count(c) != 2 {
		t.Fatalf("collateral %s", s.Tree.Sexpr(ps[0]))
	}
	par := s.Tree.Sub(ps[1])
	if s.Tree.Attr(par) != token.ParallelClause || s.Tree.Attr(s.Tree.Sub(par)) != token.CollateralClause {
		t.Fatalf("parallel %s", s.Tree.Sexpr(ps[1]))
	}
}

func TestSliceWithTrimmer(t *testing.T) {
	s := mustParse(t, "[1:3] INT a; a[2] := a[1]; print (a[1:2 AT 0])")
	tr := find(s.Tree, phrases(s)[2], token.Trimmer)
	if !tr.IsValid() {
		t.Fatalf("no trimmer in %s", s.Tree.Sexpr(phrases(s)[2]))
	}
	want := []token.Kind{token.Unit, token.Colon, token.Unit, token.At, token.Unit}
	if got := kindsOf(s.Tree, s.Tree.Children(tr)); !slices.Equal(got, want) {
		t.Fatalf("trimmer %v", got)
	}
}

func TestLabelsAndJumps(t *testing.T) {
	s := mustParse(t, "GOTO done; SKIP; done: print (1); stop")
	ps := phrases(s)
	jump := s.Tree.Sub(ps[0])
	if s.Tree.Attr(jump) != token.Jump || !s.Tree.Get(jump).Tag.IsValid() {
		t.Fatalf("goto %s", s.Tree.Sexpr(ps[0]))
	}
	if s.Tree.Attr(ps[2]) != token.LabeledUnit {
		t.Fatalf("labelled phrase %s", s.Tree.Attr(ps[2]))
	}
	// a bare label name is a jump too
	stop := s.Tree.Sub(ps[3])
	if s.Tree.Attr(stop) != token.Jump {
		t.Fatalf("stop is %s", s.Tree.Attr(stop))
	}
}

func TestLabelBeforeDeclaration(t *testing.T) {
	s, _ := parse(t, "l: INT x = 1; SKIP")
	if !hasCode(s.Bag, diag.SynLabelPosition) {
		t.Fatalf("got %v", codes(s.Bag))
	}
}

func TestUndeclared(t *testing.T) {
	s, _ := parse(t, "x := 1; FOO y")
	if !hasCode(s.Bag, diag.DclUndeclared) || !hasCode(s.Bag, diag.DclUndeclaredTag) {
		t.Fatalf("got %v", codes(s.Bag))
	}
}

func TestRedefinition(t *testing.T) {
	s, _ := parse(t, "INT a = 1; REAL a = 2.0; SKIP")
	if !hasCode(s.Bag, diag.DclRedefined) {
		t.Fatalf("got %v", codes(s.Bag))
	}
}

func TestUseBeforeDeclaration(t *testing.T) {
	mustParse(t, "PROC even = (INT n) BOOL: (n = 0 | TRUE | odd (n - 1)); PROC odd = (INT n) BOOL: (n = 0 | FALSE | even (n - 1)); even (4)")
}

func TestUnreducibleUnitIsRecovered(t *testing.T) {
	s, st := parse(t, "INT x; x := := 1; SKIP")
	if st == session.StatusFatal {
		t.Fatalf("recoverable error was fatal: %v", codes(s.Bag))
	}
	if got := codes(s.Bag); len(got) != 1 || got[0] != diag.SynInvalidConstruct {
		t.Fatalf("got %v", got)
	}
	u := phrases(s)[1]
	if !s.Tree.Get(u).Has(ast.FlagRecovered) {
		t.Fatalf("unit not flagged: %s", s.Tree.Sexpr(u))
	}
}

func TestEmptyEnquiry(t *testing.T) {
	s, _ := parse(t, "IF THEN SKIP FI")
	if !hasCode(s.Bag, diag.SynEmptyClause) {
		t.Fatalf("got %v", codes(s.Bag))
	}
}

func TestEmptyClosedClause(t *testing.T) {
	for _, src := range []string{"BEGIN END", "()", "(); SKIP", "BEGIN SKIP; BEGIN END; SKIP END"} {
		s, _ := parse(t, src)
		if !hasCode(s.Bag, diag.SynEmptyClause) {
			t.Errorf("%q: got %v", src, codes(s.Bag))
		}
	}
	// an empty display is still a row
	s, _ := parse(t, "[] INT a = (); SKIP")
	if s.Bag.HasErrors() {
		t.Fatalf("vacuum: %v", codes(s.Bag))
	}
}

func TestTooDeep(t *testing.T) {
	src := strings.Repeat("(", 12) + "SKIP" + strings.Repeat(")", 12)
	s, st := parse(t, src, func(o *config.Options) { o.MaxDepth = 5 })
	if st != session.StatusFatal || !hasCode(s.Bag, diag.SynTooDeep) {
		t.Fatalf("status %s, diagnostics %v", st, codes(s.Bag))
	}
}

func TestEveryNodeHasScope(t *testing.T) {
	s := mustParse(t, `BEGIN
  PROC f = (INT n) INT: (n > 1 | n * f (n - 1) | 1);
  FOR i TO 3 DO print (f (i)) OD;
  CASE 2 IN print (1), print (2) OUT SKIP ESAC
END`)
	s.Tree.Walk(s.Tree.Sub(s.Tree.Root), func(id ast.NodeID, _ int) bool {
		if !s.Tree.Get(id).Scope.IsValid() {
			t.Fatalf("node %s has no scope", s.Tree.Describe(id))
		}
		return true
	})
}
