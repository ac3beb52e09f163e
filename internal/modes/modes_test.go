package modes

import (
	"testing"
)

func recursiveList(tb *Table, name string) ModeID {
	a := tb.NewIndicant(name, 0, 0)
	s := tb.Struct([]Field{{Mode: tb.Ref(a), Name: "next"}, {Mode: tb.Std.Int, Name: "v"}})
	tb.Bind(a, s)
	return a
}

func TestInterningDeduplicates(t *testing.T) {
	tb := NewTable()
	if tb.Ref(tb.Std.Int) != tb.Ref(tb.Std.Int) {
		t.Fatalf("REF INT interned twice")
	}
	if tb.Row(2, tb.Std.Real) == tb.Row(1, tb.Std.Real) {
		t.Fatalf("rows of different dimension must differ")
	}
	if tb.Std.RefInt != tb.Ref(tb.Std.Int) {
		t.Fatalf("standard REF INT not reused")
	}
	if tb.LookupStandard("INT", 1) != tb.Std.LongInt {
		t.Fatalf("LONG INT lookup failed")
	}
	if tb.LookupStandard("REAL", -1) != tb.Std.Real {
		t.Fatalf("SHORT REAL should be REAL")
	}
	if tb.LookupStandard("BYTES", 2) != NoModeID {
		t.Fatalf("LONG LONG BYTES does not exist")
	}
}

func TestWellFormedness(t *testing.T) {
	tb := NewTable()
	good := recursiveList(tb, "A")

	bad := tb.NewIndicant("B", 0, 0)
	tb.Bind(bad, tb.Struct([]Field{{Mode: bad, Name: "next"}}))

	ref := tb.NewIndicant("C", 0, 0)
	tb.Bind(ref, tb.Ref(ref))

	un := tb.NewIndicant("U", 0, 0)
	tb.Bind(un, tb.Union([]ModeID{un, tb.Std.Int}))

	d := tb.NewIndicant("D", 0, 0)
	e := tb.NewIndicant("E", 0, 0)
	tb.Bind(d, e)
	tb.Bind(e, d)

	proc := tb.NewIndicant("P", 0, 0)
	tb.Bind(proc, tb.Proc([]ModeID{proc}, tb.Std.Void))

	ill := map[ModeID]bool{}
	for _, id := range tb.CheckWellFormed() {
		ill[id] = true
	}
	for _, id := range []ModeID{good, ref, proc} {
		if ill[id] {
			t.Errorf("%s reported ill-formed", tb.Get(id).Name)
		}
	}
	for _, id := range []ModeID{bad, un, d, e} {
		if !ill[id] {
			t.Errorf("%s accepted", tb.Get(id).Name)
		}
	}

	tb.Equivalence()
	if tb.Resolve(bad) != tb.Std.Error {
		t.Fatalf("ill-formed indicant should resolve to ERROR, got %s", tb.String(bad))
	}
}

func TestRecursiveModesAreEquivalent(t *testing.T) {
	tb := NewTable()
	a := recursiveList(tb, "A")
	b := recursiveList(tb, "B")
	if !tb.Equal(a, b) {
		t.Fatalf("A and B should be equivalent")
	}
	if !tb.Equal(tb.Ref(a), tb.Ref(b)) {
		t.Fatalf("REF A and REF B should be equivalent")
	}
	other := tb.NewIndicant("C", 0, 0)
	tb.Bind(other, tb.Struct([]Field{{Mode: tb.Ref(other), Name: "next"}, {Mode: tb.Std.Real, Name: "v"}}))
	if tb.Equal(a, other) {
		t.Fatalf("A and C differ in field v")
	}

	st := tb.Equivalence()
	if !st.Converged {
		t.Fatalf("equivalencing did not converge: %+v", st)
	}
	if tb.Canon(tb.Ref(a)) != tb.Canon(tb.Ref(b)) {
		t.Fatalf("REF A and REF B not unified")
	}
	if tb.Resolve(a) != tb.Resolve(b) {
		t.Fatalf("A and B not unified")
	}
}

func TestEquivalenceIsIdempotent(t *testing.T) {
	tb := NewTable()
	a := recursiveList(tb, "A")
	tb.Row(1, a)
	tb.Ref(tb.Row(2, tb.Struct([]Field{{Mode: tb.Std.Int, Name: "x"}, {Mode: tb.Std.String, Name: "s"}})))
	tb.Union([]ModeID{tb.Std.Int, tb.Union([]ModeID{tb.Std.Real, tb.Std.Int})})

	first := tb.Equivalence()
	second := tb.Equivalence()
	if second.Unified != 0 || second.Iterations != 1 {
		t.Fatalf("second run changed the table: %+v", second)
	}
	if first.Modes != second.Modes {
		t.Fatalf("mode count changed: %d then %d", first.Modes, second.Modes)
	}
}

func TestEqualIsReflexiveAndSymmetric(t *testing.T) {
	tb := NewTable()
	recursiveList(tb, "A")
	recursiveList(tb, "B")
	tb.Proc([]ModeID{tb.Std.Int, tb.Std.RefReal}, tb.Std.Bool)
	tb.Union([]ModeID{tb.Std.Real, tb.Std.Int})
	tb.Union([]ModeID{tb.Std.Int, tb.Std.Real})
	all := tb.All()
	for _, x := range all {
		if !tb.Equal(x, x) {
			t.Fatalf("%s not equal to itself", tb.String(x))
		}
		for _, y := range all {
			if tb.Equal(x, y) != tb.Equal(y, x) {
				t.Fatalf("asymmetric: %s vs %s", tb.String(x), tb.String(y))
			}
		}
	}
}

func TestUnionAbsorption(t *testing.T) {
	tb := NewTable()
	flat := tb.Union([]ModeID{tb.Std.Int, tb.Std.Real})
	nested := tb.Union([]ModeID{tb.Std.Real, tb.Union([]ModeID{tb.Std.Int, tb.Std.Real})})
	single := tb.Union([]ModeID{tb.Std.Char, tb.Std.Char})
	if tb.Equal(flat, nested) {
		t.Fatalf("nested union equal before absorption")
	}
	tb.Equivalence()
	if tb.Canon(flat) != tb.Canon(nested) {
		t.Fatalf("nested union not absorbed: %s vs %s", tb.String(flat), tb.String(nested))
	}
	if tb.Resolve(single) != tb.Std.Char {
		t.Fatalf("one-variant union should be CHAR, got %s", tb.String(single))
	}
	if !tb.InUnion(tb.Std.Int, flat) || tb.InUnion(tb.Std.Bool, flat) {
		t.Fatalf("union membership wrong")
	}
}

func TestDerivedForms(t *testing.T) {
	tb := NewTable()
	s := tb.Struct([]Field{{Mode: tb.Std.Int, Name: "a"}, {Mode: tb.Std.Real, Name: "b"}})
	rows := tb.Row(1, s)
	tb.Ref(rows)
	tb.Ref(s)
	tb.Equivalence()

	if got := tb.Slice(tb.Row(2, tb.Std.Int)); got != tb.Std.Int {
		t.Fatalf("slice of [,]INT: %s", tb.String(got))
	}
	if got := tb.Slice(tb.Ref(tb.Std.String)); got != tb.Std.RefChar {
		t.Fatalf("slice of REF STRING: %s", tb.String(got))
	}
	if got := tb.Deflex(tb.Std.String); got != tb.Std.RowChar {
		t.Fatalf("deflexed STRING: %s", tb.String(got))
	}
	want := tb.Struct([]Field{{Mode: tb.Row(1, tb.Std.Int), Name: "a"}, {Mode: tb.Row(1, tb.Std.Real), Name: "b"}})
	if got := tb.Multiple(rows); !tb.Equal(got, want) {
		t.Fatalf("multiple: %s", tb.String(got))
	}
	name := tb.Struct([]Field{{Mode: tb.Std.RefInt, Name: "a"}, {Mode: tb.Std.RefReal, Name: "b"}})
	if got := tb.NameForm(tb.Ref(s)); !tb.Equal(got, name) {
		t.Fatalf("name form: %s", tb.String(got))
	}
	if tb.Dim(tb.Ref(tb.Row(3, tb.Std.Bool))) != 3 {
		t.Fatalf("dim of REF [,,]BOOL")
	}
}

func TestPrinting(t *testing.T) {
	tb := NewTable()
	a := recursiveList(tb, "A")
	tb.Equivalence()
	cases := []struct {
		id   ModeID
		want string
	}{
		{tb.Std.LongLongInt, "LONG LONG INT"},
		{tb.Std.ShortInt, "SHORT INT"},
		{tb.Std.String, "STRING"},
		{tb.Std.Compl, "COMPL"},
		{tb.Ref(tb.Row(2, tb.Std.Int)), "REF [,] INT"},
		{tb.Proc([]ModeID{tb.Std.Int}, tb.Std.Real), "PROC (INT) REAL"},
		{tb.Std.ProcVoid, "PROC VOID"},
		{a, "STRUCT (REF A next, INT v)"},
		{tb.Union([]ModeID{tb.Std.Int, tb.Std.Bool}), "UNION (INT, BOOL)"},
	}
	for _, tc := range cases {
		if got := tb.String(tc.id); got != tc.want {
			t.Errorf("got %q, want %q", got, tc.want)
		}
	}
}

func TestWidening(t *testing.T) {
	tb := NewTable()
	if tb.Widened(tb.Std.Int) != tb.Std.Real {
		t.Fatalf("INT widens to REAL")
	}
	if tb.Widened(tb.Std.LongReal) != tb.Std.LongCompl {
		t.Fatalf("LONG REAL widens to LONG COMPL")
	}
	if tb.Widened(tb.Std.Bool) != NoModeID {
		t.Fatalf("BOOL does not widen")
	}
	if !tb.IsCompl(tb.Std.Compl) || !tb.IsNumber(tb.Std.LongInt) {
		t.Fatalf("number predicates")
	}
}
