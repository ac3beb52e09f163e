package parser

import (
	"strings"

	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/token"
)

type bottomUp struct {
	core
	// reduced holds clauses whose parts were already reduced in place
	reduced map[ast.NodeID]bool
	runBuf  []ast.NodeID
	phrases int
}

// BottomUp reduces the folded tree into units, declarations and clauses.
// A unit that cannot be reduced to a single construct is reported once and
// flagged FlagRecovered; later phases skip such subtrees.
func BottomUp(s *session.Session) session.Status {
	bu := &bottomUp{core: newCore(s), reduced: make(map[ast.NodeID]bool)}
	root := bu.t.Root
	if !bu.t.Sub(root).IsValid() {
		bu.syntax(diag.SynEmptyClause, root, "the program is empty")
		return session.StatusFatal
	}
	bu.serial(root)
	if s.Halted() {
		return session.StatusFatal
	}
	return session.StatusOK
}

// hoist replaces wrapper by its only child.
func (c *core) hoist(wrapper ast.NodeID) ast.NodeID {
	child := c.t.Sub(wrapper)
	c.t.Unlink(child)
	c.t.InsertAfter(wrapper, child)
	c.t.Unlink(wrapper)
	return child
}

// split cuts the children of parent at separators of the given kinds. The
// separators are returned separately; runs may be empty.
func (bu *bottomUp) split(parent ast.NodeID, seps ...token.Kind) (runs [][]ast.NodeID, at []ast.NodeID) {
	var cur []ast.NodeID
	for c := bu.t.Sub(parent); c.IsValid(); c = bu.next(c) {
		if bu.is(c, seps...) {
			runs = append(runs, cur)
			at = append(at, c)
			cur = nil
			continue
		}
		cur = append(cur, c)
	}
	return append(runs, cur), at
}

// serial reduces the children of parent into one SerialClause of phrases.
func (bu *bottomUp) serial(parent ast.NodeID) ast.NodeID {
	if !bu.t.Sub(parent).IsValid() {
		bu.syntax(diag.SynEmptyClause, parent, "%s must contain a unit", bu.describe(parent))
		id := bu.fold(nil, token.SerialClause, parent, ast.NoNodeID)
		bu.node(id).Flags |= ast.FlagRecovered
		return id
	}
	if !bu.s.Enter(bu.spanOf(parent)) {
		return bu.t.Sub(parent)
	}
	defer bu.s.Leave()

	sc := bu.t.MakeSub(bu.t.Sub(parent), bu.t.Last(parent), token.SerialClause)
	runs, seps := bu.split(sc, token.Semicolon, token.Exit)
	lastDecl := false
	for i, run := range runs {
		if bu.phrases++; bu.phrases%64 == 0 && bu.s.Halted() {
			return sc
		}
		if len(run) == 0 {
			at := sc
			if i > 0 {
				at = seps[i-1]
			}
			bu.syntax(diag.SynExpectedNear, at, "unit expected after %s", bu.describe(at))
			continue
		}
		// a vacuum is a row display; a voided phrase or the whole program cannot be one
		if len(run) == 1 && bu.emptyGroup(run[0]) && (i < len(runs)-1 || parent == bu.t.Root) {
			bu.syntax(diag.SynEmptyClause, run[0], "%s must contain a unit", bu.describe(run[0]))
		}
		afterExit := i > 0 && bu.is(seps[i-1], token.Exit)
		lastDecl = bu.phrase(run, afterExit)
	}
	for _, sep := range seps {
		if bu.is(sep, token.Semicolon) {
			bu.t.Unlink(sep)
		}
	}
	if lastDecl {
		bu.syntax(diag.SynExpectedNear, bu.t.Last(sc), "a serial clause must end with a unit, not a declaration")
	}
	return sc
}

func (bu *bottomUp) emptyGroup(id ast.NodeID) bool {
	return bu.is(id, token.OpenGroup, token.BeginGroup) && !bu.t.Sub(id).IsValid()
}

// phrase reduces one run between semicolons. It reports whether the phrase
// was a declaration.
func (bu *bottomUp) phrase(run []ast.NodeID, afterExit bool) bool {
	var labels []ast.NodeID
	for len(run) >= 2 && bu.is(run[0], token.DefiningLabel) && bu.is(run[1], token.Colon) {
		labels = append(labels, run[0])
		bu.t.Unlink(run[1])
		run = run[2:]
	}
	if len(run) == 0 {
		bu.syntax(diag.SynExpectedNear, labels[len(labels)-1], "unit expected after label %s", bu.describe(labels[len(labels)-1]))
		return false
	}
	if afterExit && len(labels) == 0 {
		bu.syntax(diag.SynExpectedNear, run[0], "a label must follow %s", "EXIT")
	}
	if bu.isDeclaration(run) {
		if len(labels) > 0 {
			bu.syntax(diag.SynLabelPosition, labels[0], "label %s may not precede a declaration", bu.describe(labels[0]))
		}
		bu.declarations(run)
		return true
	}
	u := bu.unit(run)
	if len(labels) > 0 {
		bu.t.MakeSub(labels[0], u, token.LabeledUnit)
	}
	return false
}

func isDeclarerStart(k token.Kind) bool {
	switch k {
	case token.Loc, token.Heap, token.Indicant, token.Ref, token.Flex, token.SubGroup,
		token.Struct, token.Union, token.Long, token.Short, token.Proc:
		return true
	}
	return false
}

func (bu *bottomUp) isDeclaration(run []ast.NodeID) bool {
	switch bu.attr(run[0]) {
	case token.ModeSymbol, token.Prio, token.Op:
		return true
	}
	if !isDeclarerStart(bu.attr(run[0])) {
		return false
	}
	for _, n := range run {
		if bu.is(n, token.DefiningIdentifier) {
			return true
		}
	}
	return false
}

// unit wraps run into a Unit container and reduces it through every stage.
func (bu *bottomUp) unit(run []ast.NodeID) ast.NodeID {
	u := bu.t.MakeSub(run[0], run[len(run)-1], token.Unit)
	if !bu.s.Enter(bu.spanOf(u)) {
		bu.node(u).Flags |= ast.FlagRecovered
		return u
	}
	defer bu.s.Leave()
	bu.stages(u)
	if bu.t.Count(u) != 1 || !isUnitKind(bu.attr(bu.t.Sub(u))) {
		bu.recover(u, "unit")
	}
	return u
}

func (bu *bottomUp) stages(u ast.NodeID) {
	bu.applyRL(u, declarerRules)
	bu.applyLR(u, primaryRules)
	bu.applyRL(u, secondaryRules)
	bu.formulas(u)
	bu.applyLR(u, tertiaryRules)
	bu.applyRL(u, unitRules)
}

// recover flags a container that did not reduce and reports it once.
func (bu *bottomUp) recover(u ast.NodeID, what string) {
	bu.node(u).Flags |= ast.FlagRecovered
	var parts []string
	for _, c := range bu.t.Children(u) {
		if len(parts) == 6 {
			parts = append(parts, "...")
			break
		}
		parts = append(parts, bu.describe(c))
	}
	bu.syntax(diag.SynInvalidConstruct, u, "cannot make a %s of %s", what, strings.Join(parts, " "))
}

// declarerRun reduces run to a single Declarer node.
func (bu *bottomUp) declarerRun(run []ast.NodeID) ast.NodeID {
	u := bu.t.MakeSub(run[0], run[len(run)-1], token.Unit)
	bu.applyRL(u, declarerRules)
	if bu.t.Count(u) != 1 || !bu.is(bu.t.Sub(u), token.Declarer) {
		bu.recover(u, "declarer")
		return u
	}
	return bu.hoist(u)
}

// enclosed reduces a BEGIN or parenthesis group into a closed or
// collateral clause.
func (bu *bottomUp) enclosed(g ast.NodeID) ast.NodeID {
	if !bu.t.Sub(g).IsValid() {
		bu.t.Retag(g, token.CollateralClause)
		return g
	}
	if bu.isCollateral(g) {
		bu.t.Retag(g, token.CollateralClause)
		bu.unitList(g)
		return g
	}
	bu.t.Retag(g, token.ClosedClause)
	bu.serial(g)
	return g
}

func (bu *bottomUp) isCollateral(g ast.NodeID) bool {
	commas := 0
	for c := bu.t.Sub(g); c.IsValid(); c = bu.next(c) {
		switch bu.attr(c) {
		case token.Comma:
			commas++
		case token.Semicolon, token.Exit, token.DefiningIdentifier, token.DefiningLabel,
			token.DefiningIndicant, token.DefiningOperator:
			return false
		}
	}
	return commas > 0
}

// unitList reduces comma separated units.
func (bu *bottomUp) unitList(parent ast.NodeID) {
	runs, commas := bu.split(parent, token.Comma)
	for i, run := range runs {
		if len(run) == 0 {
			at := parent
			if i < len(commas) {
				at = commas[i]
			} else if i > 0 {
				at = commas[i-1]
			}
			bu.syntax(diag.SynExpectedNear, at, "unit expected near %s", bu.describe(at))
			continue
		}
		bu.unit(run)
	}
	for _, c := range commas {
		bu.t.Unlink(c)
	}
}

// indexer reduces the subscripts and trimmers of a slice.
func (bu *bottomUp) indexer(g ast.NodeID) {
	runs, commas := bu.split(g, token.Comma)
	for i, run := range runs {
		switch {
		case len(run) == 0:
			at := g
			if i < len(commas) {
				at = commas[i]
			}
			bu.syntax(diag.SynExpectedNear, at, "subscript expected near %s", bu.describe(at))
		case bu.hasAny(run, token.Colon, token.At):
			tr := bu.t.MakeSub(run[0], run[len(run)-1], token.Trimmer)
			bu.pieces(tr, token.Colon, token.At)
		default:
			bu.unit(run)
		}
	}
	for _, c := range commas {
		bu.t.Unlink(c)
	}
}

func (bu *bottomUp) hasAny(run []ast.NodeID, kinds ...token.Kind) bool {
	for _, n := range run {
		if bu.is(n, kinds...) {
			return true
		}
	}
	return false
}

// pieces reduces the runs between separator tokens into units, keeping
// the separators.
func (bu *bottomUp) pieces(parent ast.NodeID, seps ...token.Kind) {
	runs, _ := bu.split(parent, seps...)
	for _, run := range runs {
		if len(run) > 0 {
			bu.unit(run)
		}
	}
}

// bounds reduces [l:u, ...] of a declarer. Info counts dimensions.
func (bu *bottomUp) bounds(g ast.NodeID) {
	bu.t.Retag(g, token.Bounds)
	runs, commas := bu.split(g, token.Comma)
	for i, run := range runs {
		if len(run) == 0 {
			anchor := ast.NoNodeID
			if i > 0 {
				anchor = commas[i-1]
			}
			bu.fold(nil, token.Bound, g, anchor)
			continue
		}
		b := bu.t.MakeSub(run[0], run[len(run)-1], token.Bound)
		bu.pieces(b, token.Colon)
	}
	for _, c := range commas {
		bu.t.Unlink(c)
	}
	bu.node(g).Info = int32(len(runs))
}

// isOperandKind: what a formula operand may be.
func isOperandKind(k token.Kind) bool {
	switch k {
	case token.Identifier, token.Denotation, token.ClosedClause, token.CollateralClause,
		token.ConditionalClause, token.CaseClause, token.ConformityClause, token.LoopClause,
		token.ParallelClause, token.Call, token.Slice, token.Cast, token.FormatText,
		token.Selection, token.Generator, token.MonadicFormula, token.Formula:
		return true
	}
	return false
}

func isPrimaryKind(k token.Kind) bool {
	switch k {
	case token.Identifier, token.Denotation, token.ClosedClause, token.CollateralClause,
		token.ConditionalClause, token.CaseClause, token.ConformityClause, token.LoopClause,
		token.ParallelClause, token.Call, token.Slice, token.Cast, token.FormatText:
		return true
	}
	return false
}

func isTertiaryKind(k token.Kind) bool {
	return isOperandKind(k) || k == token.Nihil
}

func isUnitKind(k token.Kind) bool {
	switch k {
	case token.Assignation, token.IdentityRelation, token.RoutineText, token.SkipUnit, token.Jump:
		return true
	}
	return isTertiaryKind(k)
}
