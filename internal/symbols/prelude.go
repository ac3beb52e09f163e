package symbols

import (
	"slices"

	"a68/internal/ast"
	"a68/internal/modes"
	"a68/internal/source"
)

// standardPriorities lists dyadic operator priorities of the standard
// environment.
var standardPriorities = map[string]int{
	"MINUSAB": 1, "PLUSAB": 1, "TIMESAB": 1, "DIVAB": 1, "OVERAB": 1, "MODAB": 1, "PLUSTO": 1,
	"-:=": 1, "+:=": 1, "*:=": 1, "/:=": 1, "%:=": 1, "%*:=": 1, "+=:": 1,
	"OR":  2,
	"AND": 3, "&": 3, "XOR": 3,
	"EQ": 4, "NE": 4, "=": 4, "/=": 4, "~=": 4,
	"LT": 5, "LE": 5, "GE": 5, "GT": 5, "<": 5, "<=": 5, ">=": 5, ">": 5,
	"-": 6, "+": 6,
	"*": 7, "/": 7, "%": 7, "OVER": 7, "%*": 7, "MOD": 7, "ELEM": 7,
	"**": 8, "^": 8, "UP": 8, "DOWN": 8, "SHL": 8, "SHR": 8, "LWB": 8, "UPB": 8,
	"+*": 9, "I": 9,
}

// StandardPriority returns the priority of a standard dyadic operator.
func StandardPriority(name string) (int, bool) {
	p, ok := standardPriorities[name]
	return p, ok
}

// standardIndicants are the bold words bound in the standard environment.
var standardIndicants = []string{
	"INT", "REAL", "BOOL", "CHAR", "BITS", "BYTES", "COMPL", "STRING",
	"VOID", "FORMAT", "SEMA", "FILE",
}

type preludeBuilder struct {
	t     *Table
	m     *modes.Table
	scope ast.ScopeID
}

// BuildPrelude creates the level-0 scope holding standard indicants,
// priorities, operators and identifiers. It is idempotent.
func (t *Table) BuildPrelude(m *modes.Table) ast.ScopeID {
	if t.Prelude.IsValid() {
		return t.Prelude
	}
	t.Prelude = t.NewScope(ScopePrelude, ast.NoScopeID, ast.NoNodeID, source.Span{})
	b := &preludeBuilder{t: t, m: m, scope: t.Prelude}
	b.indicants()
	b.priorities()
	b.operators()
	b.identifiers()
	// level-0 storage is static; it does not count as a range with declarations
	t.Scope(t.Prelude).HasDecls = false
	return t.Prelude
}

func (b *preludeBuilder) declare(kind TagKind, name string, mode ast.ModeID) ast.TagID {
	id, _ := b.t.Declare(b.scope, kind, name, ast.NoNodeID)
	tg := b.t.Tag(id)
	tg.Mode = mode
	tg.Flags |= TagFlagPrelude
	return id
}

func (b *preludeBuilder) indicants() {
	for _, name := range standardIndicants {
		b.declare(TagIndicant, name, b.m.LookupStandard(name, 0))
	}
}

func (b *preludeBuilder) priorities() {
	names := make([]string, 0, len(standardPriorities))
	for name := range standardPriorities {
		names = append(names, name)
	}
	slices.Sort(names)
	for _, name := range names {
		id := b.declare(TagPriority, name, ast.NoModeID)
		b.t.Tag(id).Priority = standardPriorities[name]
	}
}

func (b *preludeBuilder) op(name string, result ast.ModeID, params ...ast.ModeID) {
	b.declare(TagOperator, name, b.m.Proc(params, result))
}

func (b *preludeBuilder) ops(names []string, result ast.ModeID, params ...ast.ModeID) {
	for _, n := range names {
		b.op(n, result, params...)
	}
}

var (
	eqNames  = []string{"=", "EQ"}
	neNames  = []string{"/=", "~=", "NE"}
	ltNames  = []string{"<", "LT"}
	leNames  = []string{"<=", "LE"}
	geNames  = []string{">=", "GE"}
	gtNames  = []string{">", "GT"}
	andNames = []string{"AND", "&"}
	notNames = []string{"NOT", "~"}
	powNames = []string{"**", "^", "UP"}
)

func (b *preludeBuilder) operators() {
	m := b.m
	s := &m.Std
	boolean := s.Bool
	for size := 0; size <= modes.MaxSize; size++ {
		i := m.LookupStandard("INT", size)
		r := m.LookupStandard("REAL", size)
		c := m.LookupStandard("COMPL", size)
		ri, rr := m.Ref(i), m.Ref(r)
		for _, x := range []ast.ModeID{i, r, c} {
			b.ops([]string{"+", "-", "*"}, x, x, x)
			b.ops([]string{"-", "+"}, x, x)
			b.ops(eqNames, boolean, x, x)
			b.ops(neNames, boolean, x, x)
			b.ops(powNames, x, x, i)
		}
		b.op("/", r, i, i)
		b.op("/", r, r, r)
		b.op("/", c, c, c)
		for _, x := range []ast.ModeID{i, r} {
			for _, cmp := range [][]string{ltNames, leNames, geNames, gtNames} {
				b.ops(cmp, boolean, x, x)
			}
			b.op("ABS", x, x)
			b.op("SIGN", s.Int, x)
		}
		b.ops([]string{"OVER", "%"}, i, i, i)
		b.ops([]string{"MOD", "%*"}, i, i, i)
		b.op("ODD", boolean, i)
		b.op("ENTIER", i, r)
		b.op("ROUND", i, r)
		for _, name := range []string{"RE", "IM", "ARG", "ABS"} {
			b.op(name, r, c)
		}
		b.op("CONJ", c, c)
		b.ops([]string{"I", "+*"}, c, r, r)
		b.ops([]string{"I", "+*"}, c, i, i)

		b.ops([]string{"+:=", "PLUSAB"}, ri, ri, i)
		b.ops([]string{"-:=", "MINUSAB"}, ri, ri, i)
		b.ops([]string{"*:=", "TIMESAB"}, ri, ri, i)
		b.ops([]string{"%:=", "OVERAB"}, ri, ri, i)
		b.ops([]string{"%*:=", "MODAB"}, ri, ri, i)
		b.ops([]string{"+:=", "PLUSAB"}, rr, rr, r)
		b.ops([]string{"-:=", "MINUSAB"}, rr, rr, r)
		b.ops([]string{"*:=", "TIMESAB"}, rr, rr, r)
		b.ops([]string{"/:=", "DIVAB"}, rr, rr, r)

		if size < modes.MaxSize {
			li := m.LookupStandard("INT", size+1)
			lr := m.LookupStandard("REAL", size+1)
			b.op("LENG", li, i)
			b.op("LENG", lr, r)
			b.op("SHORTEN", i, li)
			b.op("SHORTEN", r, lr)
		}
	}
	for _, x := range []ast.ModeID{s.ShortInt, s.ShortShortInt} {
		b.ops([]string{"+", "-", "*"}, x, x, x)
		b.ops(eqNames, boolean, x, x)
	}
	b.op("LENG", s.ShortInt, s.ShortShortInt)
	b.op("LENG", s.Int, s.ShortInt)
	b.op("SHORTEN", s.ShortInt, s.Int)

	// booleans, characters, strings
	b.ops(andNames, boolean, boolean, boolean)
	b.op("OR", boolean, boolean, boolean)
	b.op("XOR", boolean, boolean, boolean)
	b.ops(notNames, boolean, boolean)
	b.ops(eqNames, boolean, boolean, boolean)
	b.ops(neNames, boolean, boolean, boolean)
	b.op("ABS", s.Int, boolean)
	b.op("ABS", s.Int, s.Char)
	b.op("REPR", s.Char, s.Int)
	for _, x := range []ast.ModeID{s.Char, s.String} {
		for _, cmp := range [][]string{eqNames, neNames, ltNames, leNames, geNames, gtNames} {
			b.ops(cmp, boolean, x, x)
		}
	}
	b.op("+", s.String, s.String, s.String)
	b.op("+", s.String, s.Char, s.Char)
	b.op("+", s.String, s.String, s.Char)
	b.op("+", s.String, s.Char, s.String)
	b.op("*", s.String, s.Int, s.String)
	b.op("*", s.String, s.String, s.Int)
	b.op("*", s.String, s.Int, s.Char)
	b.ops([]string{"+:=", "PLUSAB"}, s.RefString, s.RefString, s.String)
	b.ops([]string{"+:=", "PLUSAB"}, s.RefString, s.RefString, s.Char)
	b.ops([]string{"+=:", "PLUSTO"}, s.RefString, s.String, s.RefString)
	b.ops([]string{"*:=", "TIMESAB"}, s.RefString, s.RefString, s.Int)

	// bits
	for _, x := range []ast.ModeID{s.Bits, s.LongBits, s.LongLongBits} {
		b.ops(andNames, x, x, x)
		b.op("OR", x, x, x)
		b.op("XOR", x, x, x)
		b.ops(notNames, x, x)
		b.ops(eqNames, boolean, x, x)
		b.ops(neNames, boolean, x, x)
		b.ops([]string{"SHL", "UP"}, x, x, s.Int)
		b.ops([]string{"SHR", "DOWN"}, x, x, s.Int)
		b.op("ELEM", boolean, s.Int, x)
	}
	b.op("ABS", s.Int, s.Bits)
	b.op("BIN", s.Bits, s.Int)
	b.op("ELEM", s.Char, s.Int, s.Bytes)
	b.ops(eqNames, boolean, s.Bytes, s.Bytes)

	// rows
	b.op("LWB", s.Int, s.Rows)
	b.op("UPB", s.Int, s.Rows)
	b.op("LWB", s.Int, s.Int, s.Rows)
	b.op("UPB", s.Int, s.Int, s.Rows)
	b.op("ELEMS", s.Int, s.Rows)

	// semaphores
	b.op("LEVEL", s.Sema, s.Int)
	b.op("LEVEL", s.Int, s.Sema)
	b.op("UP", s.Void, s.Sema)
	b.op("DOWN", s.Void, s.Sema)
}

func (b *preludeBuilder) identifiers() {
	m := b.m
	s := &m.Std
	realFn := m.Proc([]ast.ModeID{s.Real}, s.Real)
	for _, name := range []string{"sqrt", "exp", "ln", "log", "sin", "cos", "tan", "arcsin", "arccos", "arctan"} {
		b.declare(TagIdentifier, name, realFn)
	}
	longFn := m.Proc([]ast.ModeID{s.LongReal}, s.LongReal)
	for _, name := range []string{"longsqrt", "longexp", "longln", "longsin", "longcos"} {
		b.declare(TagIdentifier, name, longFn)
	}
	b.declare(TagIdentifier, "pi", s.Real)
	b.declare(TagIdentifier, "longpi", s.LongReal)
	b.declare(TagIdentifier, "maxint", s.Int)
	b.declare(TagIdentifier, "longmaxint", s.LongInt)
	b.declare(TagIdentifier, "maxreal", s.Real)
	b.declare(TagIdentifier, "minreal", s.Real)
	b.declare(TagIdentifier, "smallreal", s.Real)
	b.declare(TagIdentifier, "maxabschar", s.Int)
	b.declare(TagIdentifier, "blank", s.Char)
	b.declare(TagIdentifier, "nullcharacter", s.Char)
	b.declare(TagIdentifier, "errorchar", s.Char)
	b.declare(TagIdentifier, "flip", s.Char)
	b.declare(TagIdentifier, "flop", s.Char)
	b.declare(TagIdentifier, "intwidth", s.Int)
	b.declare(TagIdentifier, "realwidth", s.Int)
	b.declare(TagIdentifier, "bitswidth", s.Int)
	b.declare(TagIdentifier, "random", m.Proc(nil, s.Real))
	b.declare(TagIdentifier, "standin", s.RefFile)
	b.declare(TagIdentifier, "standout", s.RefFile)
	b.declare(TagIdentifier, "standback", s.RefFile)
	for _, name := range []string{"newline", "newpage", "space", "backspace"} {
		b.declare(TagIdentifier, name, s.ProcRefFileVoid)
	}
	out := m.Proc([]ast.ModeID{s.RowSimplout}, s.Void)
	b.declare(TagIdentifier, "print", out)
	b.declare(TagIdentifier, "write", out)
	in := m.Proc([]ast.ModeID{s.RowSimplin}, s.Void)
	b.declare(TagIdentifier, "read", in)
	b.declare(TagIdentifier, "put", m.Proc([]ast.ModeID{s.RefFile, s.RowSimplout}, s.Void))
	b.declare(TagIdentifier, "get", m.Proc([]ast.ModeID{s.RefFile, s.RowSimplin}, s.Void))
	number := m.Union([]ast.ModeID{s.Int, s.Real})
	b.declare(TagIdentifier, "whole", m.Proc([]ast.ModeID{number, s.Int}, s.String))
	b.declare(TagIdentifier, "fixed", m.Proc([]ast.ModeID{number, s.Int, s.Int}, s.String))
	b.declare(TagIdentifier, "float", m.Proc([]ast.ModeID{number, s.Int, s.Int, s.Int}, s.String))
	b.declare(TagLabel, "stop", ast.NoModeID)
}
