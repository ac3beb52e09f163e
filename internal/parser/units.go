package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/token"
)

var (
	literalKinds = []token.Kind{
		token.IntDenotation, token.RealDenotation, token.BitsDenotation,
		token.RowCharDenotation, token.True, token.False, token.Empty,
	}
	primaryKinds = []token.Kind{
		token.Identifier, token.Denotation, token.ClosedClause, token.CollateralClause,
		token.ConditionalClause, token.CaseClause, token.ConformityClause, token.LoopClause,
		token.ParallelClause, token.Call, token.Slice, token.Cast, token.FormatText,
	}
	secondaryKinds = append(append([]token.Kind(nil), primaryKinds...), token.Selection, token.Generator)
	tertiaryKinds  = append(append([]token.Kind(nil), secondaryKinds...), token.MonadicFormula, token.Formula, token.Nihil)
	unitKinds      = append(append([]token.Kind(nil), tertiaryKinds...),
		token.Assignation, token.IdentityRelation, token.RoutineText, token.SkipUnit, token.Jump)
	clauseKinds = []token.Kind{
		token.ConditionalClause, token.CaseClause, token.ConformityClause,
		token.LoopClause, token.ParallelClause,
	}
)

var primaryRules, secondaryRules, tertiaryRules, unitRules []rule

func init() {
	enclosable := append([]token.Kind{token.OpenGroup, token.BeginGroup}, clauseKinds...)
	primaryRules = []rule{
		{result: token.Denotation, pattern: []pat{k(literalKinds...)}, action: (*bottomUp).denotation},
		{result: token.ClosedClause, pattern: []pat{k(token.BeginGroup)}, action: (*bottomUp).enclosedPrimary},
		{result: token.ClosedClause, pattern: []pat{k(token.OpenGroup)}, guard: notAfterPrimary, action: (*bottomUp).enclosedPrimary},
		{result: token.Cast, pattern: []pat{k(token.Declarer), k(enclosable...)}, action: (*bottomUp).cast},
		{result: token.ConditionalClause, pattern: []pat{k(clauseKinds...)}, guard: notReduced, action: (*bottomUp).enclosedPrimary},
		{result: token.RoutineText, pattern: []pat{k(token.RoutineText)}, guard: notReduced, action: (*bottomUp).routineText},
		{result: token.Call, pattern: []pat{k(primaryKinds...), k(token.OpenGroup)}, action: (*bottomUp).call},
		{result: token.Slice, pattern: []pat{k(primaryKinds...), k(token.SubGroup)}, action: (*bottomUp).slice},
	}
	secondaryRules = []rule{
		{result: token.Selection, pattern: []pat{k(token.FieldIdentifier), k(token.Of), k(secondaryKinds...)}, action: (*bottomUp).selection},
		{result: token.Generator, pattern: []pat{k(token.Loc, token.Heap), k(token.Declarer)}, action: (*bottomUp).generator},
	}
	tertiaryRules = []rule{
		{result: token.Nihil, pattern: []pat{k(token.Nil)}},
		{result: token.SkipUnit, pattern: []pat{k(token.Skip)}},
		{result: token.Jump, pattern: []pat{k(token.Goto), k(token.Identifier)}, action: (*bottomUp).gotoJump},
	}
	unitRules = []rule{
		{result: token.Assignation, pattern: []pat{k(tertiaryKinds...), k(token.Assign), k(unitKinds...)}, action: (*bottomUp).assignation},
		{result: token.IdentityRelation, pattern: []pat{k(tertiaryKinds...), k(token.Is, token.Isnt), k(tertiaryKinds...)}},
	}
}

func notAfterPrimary(bu *bottomUp, run []ast.NodeID) bool {
	return !isPrimaryKind(bu.attr(bu.prev(run[0])))
}

func notReduced(bu *bottomUp, run []ast.NodeID) bool {
	return !bu.reduced[run[0]]
}

// denotation absorbs the LONG and SHORT symbols in front of a literal.
func (bu *bottomUp) denotation(run []ast.NodeID) ast.NodeID {
	lit := run[0]
	var size int32
	sp := bu.spanOf(lit)
	for p := bu.prev(lit); bu.is(p, token.Long, token.Short); {
		if bu.is(p, token.Long) {
			size++
		} else {
			size--
		}
		sp = bu.spanOf(p).Cover(sp)
		q := bu.prev(p)
		bu.t.Unlink(p)
		p = q
	}
	d := bu.t.Wrap(lit, token.Denotation)
	n := bu.node(d)
	n.Info = size
	n.Span = sp
	return d
}

func (bu *bottomUp) enclosedPrimary(run []ast.NodeID) ast.NodeID {
	return bu.primaryOf(run[0])
}

// primaryOf reduces the inside of an enclosed clause in place.
func (bu *bottomUp) primaryOf(g ast.NodeID) ast.NodeID {
	if bu.reduced[g] {
		return g
	}
	if !bu.s.Enter(bu.spanOf(g)) {
		bu.reduced[g] = true
		bu.node(g).Flags |= ast.FlagRecovered
		return g
	}
	defer bu.s.Leave()
	bu.reduced[g] = true
	switch bu.attr(g) {
	case token.BeginGroup, token.OpenGroup:
		return bu.enclosed(g)
	case token.ConditionalClause, token.CaseClause, token.ConformityClause:
		bu.choiceClause(g)
	case token.LoopClause:
		bu.loopClause(g)
	case token.ParallelClause:
		bu.parallelClause(g)
	}
	return g
}

func (bu *bottomUp) cast(run []ast.NodeID) ast.NodeID {
	g := bu.primaryOf(run[1])
	return bu.t.MakeSub(run[0], g, token.Cast)
}

func (bu *bottomUp) call(run []ast.NodeID) ast.NodeID {
	p, g := run[0], run[1]
	bu.t.Retag(g, token.Arguments)
	if bu.t.Sub(g).IsValid() {
		bu.unitList(g)
	}
	return bu.t.MakeSub(p, g, token.Call)
}

func (bu *bottomUp) slice(run []ast.NodeID) ast.NodeID {
	p, g := run[0], run[1]
	bu.t.Retag(g, token.Indexer)
	if !bu.t.Sub(g).IsValid() {
		bu.syntax(diag.SynExpectedNear, g, "subscript expected in %s", "[]")
		bu.node(g).Flags |= ast.FlagRecovered
	} else {
		bu.indexer(g)
	}
	return bu.t.MakeSub(p, g, token.Slice)
}

func (bu *bottomUp) selection(run []ast.NodeID) ast.NodeID {
	field, of, sec := run[0], run[1], run[2]
	bu.t.Unlink(of)
	return bu.t.MakeSub(field, sec, token.Selection)
}

func (bu *bottomUp) generator(run []ast.NodeID) ast.NodeID {
	kw, decl := run[0], run[1]
	flag := ast.FlagLoc
	if bu.is(kw, token.Heap) {
		flag = ast.FlagHeap
	}
	sp := bu.spanOf(kw).Cover(bu.spanOf(decl))
	bu.t.Unlink(kw)
	g := bu.t.Wrap(decl, token.Generator)
	n := bu.node(g)
	n.Flags |= flag
	n.Span = sp
	return g
}

func (bu *bottomUp) gotoJump(run []ast.NodeID) ast.NodeID {
	g, id := run[0], run[1]
	n := bu.node(id)
	n.Span = bu.spanOf(g).Cover(n.Span)
	bu.t.Unlink(g)
	bu.t.Retag(id, token.Jump)
	return id
}

func (bu *bottomUp) assignation(run []ast.NodeID) ast.NodeID {
	bu.t.Unlink(run[1])
	return bu.t.MakeSub(run[0], run[2], token.Assignation)
}

// routineText reduces [(params)] DECLARER : unit.
func (bu *bottomUp) routineText(run []ast.NodeID) ast.NodeID {
	r := run[0]
	bu.reduced[r] = true
	if !bu.s.Enter(bu.spanOf(r)) {
		bu.node(r).Flags |= ast.FlagRecovered
		return r
	}
	defer bu.s.Leave()
	kids := bu.t.Children(r)
	i := 0
	if bu.is(kids[0], token.ParameterPack) {
		bu.namedPack(kids[0], token.DefiningIdentifier, token.Parameter, "parameter")
		i = 1
	}
	j := i
	for j < len(kids) && !bu.is(kids[j], token.Colon) {
		j++
	}
	if j == i || j >= len(kids)-1 {
		bu.syntax(diag.SynExpectedNear, r, "routine text needs a declarer, %s and a unit", ":")
		bu.node(r).Flags |= ast.FlagRecovered
		return r
	}
	bu.declarerRun(kids[i:j])
	bu.t.Unlink(kids[j])
	bu.unit(kids[j+1:])
	return r
}

// choiceClause reduces the parts of IF, CASE and conformity clauses.
func (bu *bottomUp) choiceClause(g ast.NodeID) {
	for _, part := range bu.t.Children(g) {
		switch bu.attr(part) {
		case token.CaseInPart:
			if !bu.t.Sub(part).IsValid() {
				bu.syntax(diag.SynEmptyClause, part, "%s must contain a unit", "IN part")
				continue
			}
			bu.unitList(part)
		case token.ConformityInPart:
			for _, su := range bu.t.Children(part) {
				bu.specifiedUnit(su)
			}
		default:
			bu.serial(part)
		}
	}
}

// specifiedUnit reduces (MODE id): unit.
func (bu *bottomUp) specifiedUnit(su ast.NodeID) {
	kids := bu.t.Children(su)
	spec := kids[0]
	inner := bu.t.Children(spec)
	if n := len(inner); n > 0 && bu.is(inner[n-1], token.DefiningIdentifier) {
		inner = inner[:n-1]
	}
	if len(inner) == 0 {
		bu.syntax(diag.SynExpectedNear, spec, "declarer expected in %s", "specifier")
		bu.node(su).Flags |= ast.FlagRecovered
		return
	}
	bu.declarerRun(inner)
	bu.unit(kids[1:])
}

func (bu *bottomUp) loopClause(g ast.NodeID) {
	for _, part := range bu.t.Children(g) {
		switch bu.attr(part) {
		case token.FromPart, token.ByPart, token.ToPart:
			bu.unit(bu.t.Children(part))
		case token.WhilePart, token.DoPart:
			bu.serial(part)
		}
	}
}

func (bu *bottomUp) parallelClause(g ast.NodeID) {
	grp := bu.t.Sub(g)
	if !bu.is(grp, token.BeginGroup, token.OpenGroup) {
		return
	}
	bu.t.Retag(grp, token.CollateralClause)
	bu.reduced[grp] = true
	if bu.t.Sub(grp).IsValid() {
		bu.unitList(grp)
	}
}
