package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/symbols"
	"a68/internal/token"
)

type topDown struct {
	core
	// failed aborts the phase at the first structural error
	failed bool
}

// TopDown builds the tree from the session tokens. It folds bracketed
// constructs into groups, splits choice and loop clauses into parts, finds
// routine texts, allocates one scope per range and extracts declarations.
// Any structural error makes the phase fatal; the tree is then discarded.
func TopDown(s *session.Session) session.Status {
	s.Tree = ast.FromTokens(s.Tokens)
	td := &topDown{core: newCore(s)}
	root := td.t.Root

	td.foldList(td.t.Sub(root), token.Invalid)
	if td.failed {
		return session.StatusFatal
	}
	td.t.Walk(root, func(id ast.NodeID, _ int) bool {
		td.structure(id)
		return !td.failed
	})
	if td.failed {
		return session.StatusFatal
	}

	program := td.syms.NewScope(symbols.ScopeProgram, td.syms.Prelude, root, td.spanOf(root))
	rn := td.node(root)
	rn.Scope = td.syms.Prelude
	rn.Own = program
	td.assignScopes(root, program)
	if td.failed {
		return session.StatusFatal
	}

	ex := extractor{core: td.core}
	ex.run()
	if s.Halted() {
		return session.StatusFatal
	}
	return session.StatusOK
}

// foldList folds every bracketed construct of the sibling list that starts
// at first. It returns the first node of kind closer, or NoNodeID when the
// list ends.
func (td *topDown) foldList(first ast.NodeID, closer token.Kind) ast.NodeID {
	for n := first; n.IsValid(); n = td.next(n) {
		if td.attr(n) == closer {
			return n
		}
		n = td.foldOne(n)
		if td.failed {
			return ast.NoNodeID
		}
	}
	return ast.NoNodeID
}

// foldOne folds the construct opened by n, if any, and returns the node
// that now stands in n's place.
func (td *topDown) foldOne(n ast.NodeID) ast.NodeID {
	switch td.attr(n) {
	case token.Begin:
		return td.group(n, token.End, token.BeginGroup)
	case token.Open:
		return td.group(n, token.Close, token.OpenGroup)
	case token.Acco:
		return td.group(n, token.Occa, token.OpenGroup)
	case token.Sub:
		return td.group(n, token.Bus, token.SubGroup)
	case token.If:
		return td.group(n, token.Fi, token.ConditionalClause)
	case token.Case:
		return td.group(n, token.Esac, token.CaseClause)
	case token.For, token.From, token.By, token.To, token.While, token.Do:
		return td.loop(n)
	case token.FormatDelimiter:
		return td.format(n)
	}
	return n
}

func (td *topDown) group(open ast.NodeID, closer, kind token.Kind) ast.NodeID {
	if !td.s.Enter(td.spanOf(open)) {
		td.failed = true
		return open
	}
	end := td.foldList(td.next(open), closer)
	td.s.Leave()
	if td.failed {
		return open
	}
	if !end.IsValid() {
		fam := token.OpensFamily(td.attr(open))
		td.syntax(diag.SynMissingCloser, open, "%s is not closed: missing %s", fam.OpenerText(), fam.CloserText())
		td.failed = true
		return open
	}
	g := td.t.MakeSub(open, end, kind)
	td.t.Unlink(open)
	td.t.Unlink(end)
	switch kind {
	case token.ConditionalClause, token.CaseClause:
		td.choice(g)
	case token.OpenGroup:
		if td.hasBar(g) {
			td.brief(g)
		}
	}
	return g
}

func (td *topDown) format(open ast.NodeID) ast.NodeID {
	end := td.next(open)
	for end.IsValid() && !td.is(end, token.FormatDelimiter) {
		end = td.next(end)
	}
	if !end.IsValid() {
		td.syntax(diag.SynMissingCloser, open, "format text is not closed: missing %s", "$")
		td.failed = true
		return open
	}
	g := td.t.MakeSub(open, end, token.FormatText)
	td.t.Unlink(open)
	td.t.Unlink(end)
	return g
}

func (td *topDown) hasBar(g ast.NodeID) bool {
	for c := td.t.Sub(g); c.IsValid(); c = td.next(c) {
		if td.is(c, token.Bar, token.BarColon) {
			return true
		}
	}
	return false
}

// brief turns ( a | b | c ) into a conditional clause, or into a case
// clause when the first in-part holds several units or a specifier.
func (td *topDown) brief(g ast.NodeID) {
	kind := token.ConditionalClause
	inPart := false
scan:
	for c := td.t.Sub(g); c.IsValid(); c = td.next(c) {
		switch {
		case td.is(c, token.Bar, token.BarColon):
			if inPart {
				break scan
			}
			inPart = true
		case !inPart:
		case td.is(c, token.Comma):
			kind = token.CaseClause
		case td.is(c, token.OpenGroup) && td.is(td.next(c), token.Colon):
			kind = token.CaseClause
		}
	}
	td.t.Retag(g, kind)
	td.node(g).Flags |= ast.FlagBrief
	td.choice(g)
}

type partRun struct {
	kind token.Kind
	sep  ast.NodeID
	run  []ast.NodeID
}

// partAfter says which part a separator opens after a part of kind prev.
func partAfter(prev, sep token.Kind) (token.Kind, bool) {
	switch sep {
	case token.Then:
		if prev == token.IfPart || prev == token.ElifPart {
			return token.ThenPart, true
		}
	case token.Elif:
		if prev == token.ThenPart {
			return token.ElifPart, true
		}
	case token.Else:
		if prev == token.ThenPart {
			return token.ElsePart, true
		}
	case token.In:
		if prev == token.CasePart || prev == token.OusePart {
			return token.CaseInPart, true
		}
	case token.Ouse:
		if prev == token.CaseInPart {
			return token.OusePart, true
		}
	case token.Out:
		if prev == token.CaseInPart {
			return token.OutPart, true
		}
	case token.Bar:
		switch prev {
		case token.IfPart, token.ElifPart:
			return token.ThenPart, true
		case token.ThenPart:
			return token.ElsePart, true
		case token.CasePart, token.OusePart:
			return token.CaseInPart, true
		case token.CaseInPart:
			return token.OutPart, true
		}
	case token.BarColon:
		switch prev {
		case token.ThenPart:
			return token.ElifPart, true
		case token.CaseInPart:
			return token.OusePart, true
		}
	}
	return token.Invalid, false
}

func isChoiceSeparator(k token.Kind) bool {
	switch k {
	case token.Then, token.Elif, token.Else, token.In, token.Ouse, token.Out, token.Bar, token.BarColon:
		return true
	}
	return false
}

// choice splits the body of a conditional or case clause into parts and
// detects conformity clauses.
func (td *topDown) choice(g ast.NodeID) {
	isCase := td.attr(g) == token.CaseClause
	first := token.IfPart
	if isCase {
		first = token.CasePart
	}
	runs := []partRun{{kind: first}}
	for _, c := range td.t.Children(g) {
		k := td.attr(c)
		if !isChoiceSeparator(k) {
			runs[len(runs)-1].run = append(runs[len(runs)-1].run, c)
			continue
		}
		part, ok := partAfter(runs[len(runs)-1].kind, k)
		if !ok || (isCase != isCaseKind(part)) {
			td.syntax(diag.SynExpectedNear, c, "%s is not expected here", td.describe(c))
			td.failed = true
			return
		}
		runs = append(runs, partRun{kind: part, sep: c})
	}
	last := runs[len(runs)-1].kind
	if len(runs) == 1 || last == token.ElifPart || last == token.OusePart {
		want := "THEN"
		if isCase {
			want = "IN"
		}
		td.syntax(diag.SynExpectedNear, td.t.Last(g), "%s expected in %s", want, clauseName(td.attr(g)))
		td.failed = true
		return
	}
	for _, r := range runs {
		td.fold(r.run, r.kind, g, r.sep)
	}
	for _, r := range runs {
		if r.sep.IsValid() {
			td.t.Unlink(r.sep)
		}
	}
	if isCase {
		td.conformity(g)
	}
}

func isCaseKind(k token.Kind) bool {
	switch k {
	case token.CaseInPart, token.OusePart, token.OutPart, token.CasePart:
		return true
	}
	return false
}

func clauseName(k token.Kind) string {
	if k == token.CaseClause || k == token.ConformityClause {
		return "case clause"
	}
	return "conditional clause"
}

// conformity retags a case clause whose in-parts start with specifiers.
func (td *topDown) conformity(g ast.NodeID) {
	found := false
	for p := td.t.Sub(g); p.IsValid(); p = td.next(p) {
		if td.is(p, token.CaseInPart) {
			s := td.t.Sub(p)
			if td.is(s, token.OpenGroup) && td.is(td.next(s), token.Colon) {
				found = true
			}
		}
	}
	if !found {
		return
	}
	td.t.Retag(g, token.ConformityClause)
	for p := td.t.Sub(g); p.IsValid(); p = td.next(p) {
		if td.is(p, token.CaseInPart) {
			td.t.Retag(p, token.ConformityInPart)
			td.specifiers(p)
			if td.failed {
				return
			}
		}
	}
}

// specifiers folds "(MODE id): unit" alternatives of a conformity in-part.
func (td *topDown) specifiers(part ast.NodeID) {
	var runs [][]ast.NodeID
	var commas []ast.NodeID
	var cur []ast.NodeID
	for _, c := range td.t.Children(part) {
		if td.is(c, token.Comma) {
			runs = append(runs, cur)
			commas = append(commas, c)
			cur = nil
			continue
		}
		cur = append(cur, c)
	}
	runs = append(runs, cur)
	for i, run := range runs {
		if len(run) < 3 || !td.is(run[0], token.OpenGroup) || !td.is(run[1], token.Colon) {
			at := part
			if len(run) > 0 {
				at = run[0]
			} else if i < len(commas) {
				at = commas[i]
			}
			td.syntax(diag.SynExpectedNear, at, "specifier expected in conformity clause near %s", td.describe(at))
			td.failed = true
			return
		}
		td.t.Retag(run[0], token.Specifier)
		td.t.MakeSub(run[0], run[len(run)-1], token.SpecifiedUnit)
		td.t.Unlink(run[1])
	}
	for _, c := range commas {
		td.t.Unlink(c)
	}
}

var loopOrder = map[token.Kind]struct {
	rank int
	part token.Kind
}{
	token.For:   {1, token.ForPart},
	token.From:  {2, token.FromPart},
	token.By:    {3, token.ByPart},
	token.To:    {4, token.ToPart},
	token.While: {5, token.WhilePart},
}

// loop folds FOR ... FROM ... BY ... TO ... WHILE ... DO ... OD.
func (td *topDown) loop(first ast.NodeID) ast.NodeID {
	if !td.s.Enter(td.spanOf(first)) {
		td.failed = true
		return first
	}
	defer td.s.Leave()
	bare := td.is(first, token.Do)
	n := first
	for n.IsValid() && !td.is(n, token.Do) {
		if _, sep := loopOrder[td.attr(n)]; !sep {
			n = td.foldOne(n)
			if td.failed {
				return first
			}
		}
		n = td.next(n)
	}
	if !n.IsValid() {
		td.syntax(diag.SynExpectedNear, first, "loop clause needs %s", "DO")
		td.failed = true
		return first
	}
	do := td.group(n, token.Od, token.DoPart)
	if td.failed {
		return first
	}
	if bare {
		return td.t.Wrap(do, token.LoopClause)
	}
	loop := td.t.MakeSub(first, do, token.LoopClause)
	td.splitLoop(loop)
	return loop
}

func (td *topDown) splitLoop(loop ast.NodeID) {
	var runs []partRun
	rank := 0
	for _, c := range td.t.Children(loop) {
		if td.is(c, token.DoPart) {
			break
		}
		if o, sep := loopOrder[td.attr(c)]; sep {
			if o.rank <= rank {
				td.syntax(diag.SynExpectedNear, c, "%s is out of order in loop clause", td.describe(c))
				td.failed = true
				return
			}
			rank = o.rank
			runs = append(runs, partRun{kind: o.part, sep: c})
			continue
		}
		runs[len(runs)-1].run = append(runs[len(runs)-1].run, c)
	}
	for _, r := range runs {
		if len(r.run) == 0 {
			td.syntax(diag.SynExpectedNear, r.sep, "%s must be followed by a unit", td.describe(r.sep))
			td.failed = true
			return
		}
		if r.kind == token.ForPart && (len(r.run) != 1 || !td.is(r.run[0], token.Identifier)) {
			td.syntax(diag.SynExpectedNear, r.sep, "FOR must be followed by one identifier")
			td.failed = true
			return
		}
		td.fold(r.run, r.kind, loop, r.sep)
		td.t.Unlink(r.sep)
	}
}

// structure runs the per-list recognisers once folding is complete.
func (td *topDown) structure(id ast.NodeID) {
	switch td.attr(id) {
	case token.SubGroup, token.FormatText:
		return
	}
	if td.stray(id) {
		return
	}
	td.packs(id)
	td.parallel(id)
	if td.attr(id) != token.RoutineText {
		td.routines(id)
	}
}

// stray reports choice separators left outside any choice clause.
func (td *topDown) stray(parent ast.NodeID) bool {
	for c := td.t.Sub(parent); c.IsValid(); c = td.next(c) {
		if isChoiceSeparator(td.attr(c)) {
			td.syntax(diag.SynStrayToken, c, "%s is not inside a matching clause", td.describe(c))
			td.failed = true
			return true
		}
	}
	return false
}

// packs retags the parenthesised parts of STRUCT, UNION, PROC and OP
// declarers so that they do not open ranges.
func (td *topDown) packs(parent ast.NodeID) {
	for c := td.t.Sub(parent); c.IsValid(); c = td.next(c) {
		if !td.is(c, token.OpenGroup) {
			continue
		}
		switch td.attr(td.prev(c)) {
		case token.Struct:
			td.t.Retag(c, token.StructPack)
		case token.Union:
			td.t.Retag(c, token.UnionPack)
		case token.Proc, token.Op:
			td.t.Retag(c, token.FormalPack)
		}
	}
}

func (td *topDown) parallel(parent ast.NodeID) {
	for c := td.t.Sub(parent); c.IsValid(); c = td.next(c) {
		if td.is(c, token.Par) && td.is(td.next(c), token.BeginGroup, token.OpenGroup) {
			g := td.next(c)
			p := td.t.MakeSub(c, g, token.ParallelClause)
			td.t.Unlink(c)
			c = p
		}
	}
}

// routines folds every "(params) DECLARER : unit" of the list into a
// routine text. Colons are visited right to left so that a routine text in
// the body of another is folded first.
func (td *topDown) routines(parent ast.NodeID) {
	kids := td.t.Children(parent)
	for i := len(kids) - 1; i >= 0; i-- {
		colon := kids[i]
		if !td.is(colon, token.Colon) || td.t.Parent(colon) != parent {
			continue
		}
		start, pack, ok := td.routineStart(parent, colon)
		if !ok {
			continue
		}
		body, _ := td.until(td.next(colon), token.Comma, token.Semicolon, token.Exit, token.Bar, token.BarColon)
		if len(body) == 0 {
			td.syntax(diag.SynExpectedNear, colon, "routine text needs a unit after %s", ":")
			td.failed = true
			return
		}
		if pack.IsValid() {
			td.t.Retag(pack, token.ParameterPack)
		}
		td.t.MakeSub(start, body[len(body)-1], token.RoutineText)
	}
}

// routineContext lists what may precede a routine text.
var routineContext = []token.Kind{
	token.Equals, token.Assign, token.Comma, token.Semicolon, token.Exit,
	token.Colon, token.Is, token.Isnt, token.Operator,
}

func (td *topDown) routineStart(parent, colon ast.NodeID) (start, pack ast.NodeID, ok bool) {
	c := td.prev(colon)
	switch {
	case td.is(c, token.BoldTag):
		c = td.prev(c)
		for td.is(c, token.Long, token.Short) {
			c = td.prev(c)
		}
	case td.is(c, token.StructPack, token.UnionPack):
		c = td.prev(td.prev(c))
	default:
		return ast.NoNodeID, ast.NoNodeID, false
	}
	for td.is(c, token.Ref, token.Flex, token.SubGroup, token.Proc, token.FormalPack) {
		c = td.prev(c)
	}
	if td.is(c, token.OpenGroup) {
		pack = c
		c = td.prev(c)
	}
	if c.IsValid() && !td.is(c, routineContext...) {
		return ast.NoNodeID, ast.NoNodeID, false
	}
	if c.IsValid() {
		start = td.next(c)
	} else {
		start = td.t.Sub(parent)
	}
	return start, pack, true
}

func (td *topDown) newScope(kind symbols.ScopeKind, parent ast.ScopeID, owner ast.NodeID) ast.ScopeID {
	id := td.syms.NewScope(kind, parent, owner, td.spanOf(owner))
	td.node(owner).Own = id
	return id
}

// assignScopes stamps every node below parent with its range, opening new
// ranges for groups, choice parts, loops, routine texts and specifiers.
func (td *topDown) assignScopes(parent ast.NodeID, scope ast.ScopeID) {
	if !td.s.Enter(td.spanOf(parent)) {
		td.failed = true
		return
	}
	defer td.s.Leave()
	enquiry := scope
	for c := td.t.Sub(parent); c.IsValid() && !td.failed; c = td.next(c) {
		td.node(c).Scope = scope
		switch td.attr(c) {
		case token.BeginGroup, token.OpenGroup:
			td.assignScopes(c, td.newScope(symbols.ScopeSerial, scope, c))
		case token.IfPart, token.CasePart, token.ElifPart, token.OusePart:
			enquiry = td.newScope(symbols.ScopeChoice, enquiry, c)
			td.assignScopes(c, enquiry)
		case token.ThenPart, token.ElsePart, token.CaseInPart, token.ConformityInPart, token.OutPart:
			td.assignScopes(c, td.newScope(symbols.ScopeChoice, enquiry, c))
		case token.LoopClause:
			td.loopScopes(c, scope)
		case token.RoutineText:
			td.assignScopes(c, td.newScope(symbols.ScopeRoutine, scope, c))
		case token.SpecifiedUnit:
			td.assignScopes(c, td.newScope(symbols.ScopeSpecifier, scope, c))
		default:
			td.assignScopes(c, scope)
		}
	}
}

// loopScopes: FROM, BY and TO units are outside the loop range; the
// control identifier, the WHILE part and the DO part nest inside it.
func (td *topDown) loopScopes(loop ast.NodeID, scope ast.ScopeID) {
	own := td.newScope(symbols.ScopeLoop, scope, loop)
	inner := own
	for c := td.t.Sub(loop); c.IsValid(); c = td.next(c) {
		td.node(c).Scope = scope
		switch td.attr(c) {
		case token.ForPart:
			td.node(c).Scope = own
			td.assignScopes(c, own)
		case token.WhilePart:
			inner = td.newScope(symbols.ScopeSerial, own, c)
			td.assignScopes(c, inner)
		case token.DoPart:
			td.assignScopes(c, td.newScope(symbols.ScopeSerial, inner, c))
		default:
			td.assignScopes(c, scope)
		}
	}
}
