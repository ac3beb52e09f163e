package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/token"
)

// formulas reduces monadic operators first, right to left, then dyadic
// operators from priority 9 down to 1, each level left associative.
func (bu *bottomUp) formulas(u ast.NodeID) {
	hasOp := false
	for c := bu.t.Sub(u); c.IsValid(); c = bu.next(c) {
		switch bu.attr(c) {
		case token.Equals:
			// outside declarations = is the equality operator
			bu.t.Retag(c, token.Operator)
			hasOp = true
		case token.Operator:
			hasOp = true
		}
	}
	if !hasOp {
		return
	}
	bu.monadic(u)
	bu.priorities(u)
	for prio := int32(9); prio >= 1; prio-- {
		bu.dyadic(u, prio)
	}
}

func (bu *bottomUp) monadic(u ast.NodeID) {
	for c := bu.t.Last(u); c.IsValid(); c = bu.prev(c) {
		if !bu.is(c, token.Operator) || !isOperandKind(bu.attr(bu.next(c))) || isOperandKind(bu.attr(bu.prev(c))) {
			continue
		}
		if bu.s.TraceReductions() {
			bu.s.Trace("reduce", "MonadicFormula <- Operator "+bu.attr(bu.next(c)).String())
		}
		c = bu.t.MakeSub(c, bu.next(c), token.MonadicFormula)
	}
}

// priorities stores the priority of every dyadic operator in its Info.
func (bu *bottomUp) priorities(u ast.NodeID) {
	for c := bu.t.Sub(u); c.IsValid(); c = bu.next(c) {
		if !bu.is(c, token.Operator) || !isOperandKind(bu.attr(bu.prev(c))) {
			continue
		}
		n := bu.node(c)
		p, ok := bu.syms.Priority(n.Scope, n.Text)
		if !ok {
			bu.errorAt(diag.DclNoPriority, c, "dyadic operator %s has no priority", n.Text)
			p = 1
		}
		bu.node(c).Info = int32(p)
	}
}

func (bu *bottomUp) dyadic(u ast.NodeID, prio int32) {
	for c := bu.t.Sub(u); c.IsValid(); {
		op := bu.next(c)
		if isOperandKind(bu.attr(c)) && bu.is(op, token.Operator) && bu.node(op).Info == prio &&
			isOperandKind(bu.attr(bu.next(op))) {
			if bu.s.TraceReductions() {
				bu.s.Trace("reduce", "Formula <- "+bu.attr(c).String()+" "+bu.node(op).Text+" "+bu.attr(bu.next(op)).String())
			}
			c = bu.t.MakeSub(c, bu.next(op), token.Formula)
			continue
		}
		c = bu.next(c)
	}
}
