package parser

import (
	"strings"

	"a68/internal/ast"
	"a68/internal/token"
)

// pat matches one sibling: any of kinds, or none of them when not is set.
type pat struct {
	kinds []token.Kind
	not   bool
	any   bool
}

func k(kinds ...token.Kind) pat    { return pat{kinds: kinds} }
func notK(kinds ...token.Kind) pat { return pat{kinds: kinds, not: true} }

var anyNode = pat{any: true}

func (p pat) String() string {
	if p.any {
		return "*"
	}
	names := make([]string, len(p.kinds))
	for i, k := range p.kinds {
		names[i] = k.String()
	}
	s := strings.Join(names, "|")
	if p.not {
		s = "!" + s
	}
	return s
}

// rule folds a run of siblings matching pattern. Without an action the run
// becomes a node of kind result. Actions return the node that replaced the
// run so that the engine can try again at the same place.
type rule struct {
	result  token.Kind
	pattern []pat
	guard   func(bu *bottomUp, run []ast.NodeID) bool
	action  func(bu *bottomUp, run []ast.NodeID) ast.NodeID
}

func (r *rule) describe() string {
	parts := make([]string, len(r.pattern))
	for i, p := range r.pattern {
		parts[i] = p.String()
	}
	return r.result.String() + " <- " + strings.Join(parts, " ")
}

// match returns the run starting at at if it fits the pattern.
func (bu *bottomUp) match(r *rule, at ast.NodeID) []ast.NodeID {
	run := bu.runBuf[:0]
	n := at
	for _, p := range r.pattern {
		if !n.IsValid() {
			return nil
		}
		if !p.any {
			hit := bu.is(n, p.kinds...)
			if hit == p.not {
				return nil
			}
		}
		run = append(run, n)
		n = bu.next(n)
	}
	bu.runBuf = run
	if r.guard != nil && !r.guard(bu, run) {
		return nil
	}
	return run
}

func (bu *bottomUp) fire(r *rule, run []ast.NodeID) ast.NodeID {
	if bu.s.TraceReductions() {
		bu.s.Trace("reduce", r.describe())
	}
	// action may reuse runBuf through nested reductions
	own := append([]ast.NodeID(nil), run...)
	if r.action != nil {
		return r.action(bu, own)
	}
	return bu.t.MakeSub(own[0], own[len(own)-1], r.result)
}

// try applies the first matching rule at n.
func (bu *bottomUp) try(rules []rule, n ast.NodeID) (ast.NodeID, bool) {
	for i := range rules {
		if run := bu.match(&rules[i], n); run != nil {
			return bu.fire(&rules[i], run), true
		}
	}
	return n, false
}

func (bu *bottomUp) budget(parent ast.NodeID) int {
	return 8*bu.t.Count(parent) + 64
}

// applyLR walks the list left to right; after a reduction it stays on the
// new node.
func (bu *bottomUp) applyLR(parent ast.NodeID, rules []rule) {
	left := bu.budget(parent)
	for n := bu.t.Sub(parent); n.IsValid(); {
		m, fired := bu.try(rules, n)
		if fired && left > 0 {
			left--
			n = m
			continue
		}
		n = bu.next(m)
	}
}

// applyRL walks the list right to left so that prefixes see their already
// reduced operands.
func (bu *bottomUp) applyRL(parent ast.NodeID, rules []rule) {
	left := bu.budget(parent)
	for n := bu.t.Last(parent); n.IsValid(); {
		m, fired := bu.try(rules, n)
		if fired && left > 0 {
			left--
			n = m
			continue
		}
		n = bu.prev(m)
	}
}
