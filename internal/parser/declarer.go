package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/token"
)

// declarerRules run right to left so that every prefix finds its operand
// already reduced: REF [] STRUCT (INT a) folds from the inside out.
var declarerRules []rule

func init() {
	declarerRules = []rule{
		{result: token.Declarer, pattern: []pat{k(token.Indicant)}, action: (*bottomUp).indicantDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Long, token.Short), k(token.Declarer)}, guard: sizedGuard, action: (*bottomUp).sizedDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Ref, token.Flex), k(token.Declarer)}},
		{result: token.Declarer, pattern: []pat{k(token.SubGroup), k(token.Declarer)}, guard: boundsGuard, action: (*bottomUp).rowDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Struct), k(token.StructPack)}, action: (*bottomUp).structDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Union), k(token.UnionPack)}, action: (*bottomUp).unionDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Proc), k(token.FormalPack), k(token.Declarer)}, action: (*bottomUp).procDeclarer},
		{result: token.Declarer, pattern: []pat{k(token.Proc), k(token.Declarer)}},
		// OP (INT, INT) BOOL: the formal pack of an operator declaration has no PROC
		{result: token.Declarer, pattern: []pat{k(token.FormalPack), k(token.Declarer)}, guard: opFormalGuard, action: (*bottomUp).procDeclarer},
	}
}

func sizedGuard(bu *bottomUp, run []ast.NodeID) bool {
	return bu.is(bu.t.Sub(run[1]), token.Indicant)
}

// boundsGuard keeps a[i] from being read as a row declarer.
func boundsGuard(bu *bottomUp, run []ast.NodeID) bool {
	p := bu.prev(run[0])
	if !p.IsValid() {
		return true
	}
	k := bu.attr(p)
	return !isPrimaryKind(k) && !k.IsDenotationToken() &&
		k != token.OpenGroup && k != token.BeginGroup && k != token.SubGroup
}

func opFormalGuard(bu *bottomUp, run []ast.NodeID) bool {
	return !bu.is(bu.prev(run[0]), token.Proc)
}

func (bu *bottomUp) indicantDeclarer(run []ast.NodeID) ast.NodeID {
	d := bu.t.Wrap(run[0], token.Declarer)
	bu.node(d).Tag = bu.node(run[0]).Tag
	return d
}

// LONG INT and SHORT INT keep the size in Info.
func (bu *bottomUp) sizedDeclarer(run []ast.NodeID) ast.NodeID {
	size, d := run[0], run[1]
	delta := int32(1)
	if bu.is(size, token.Short) {
		delta = -1
	}
	n := bu.node(d)
	n.Info += delta
	n.Span = bu.spanOf(size).Cover(n.Span)
	bu.t.Unlink(size)
	return d
}

func (bu *bottomUp) rowDeclarer(run []ast.NodeID) ast.NodeID {
	bu.bounds(run[0])
	return bu.t.MakeSub(run[0], run[1], token.Declarer)
}

func (bu *bottomUp) structDeclarer(run []ast.NodeID) ast.NodeID {
	bu.namedPack(run[1], token.FieldIdentifier, token.Field, "structure")
	return bu.t.MakeSub(run[0], run[1], token.Declarer)
}

func (bu *bottomUp) unionDeclarer(run []ast.NodeID) ast.NodeID {
	bu.declarerPack(run[1], "united mode")
	return bu.t.MakeSub(run[0], run[1], token.Declarer)
}

func (bu *bottomUp) procDeclarer(run []ast.NodeID) ast.NodeID {
	pack := run[0]
	if bu.is(pack, token.Proc) {
		pack = run[1]
	}
	bu.declarerPack(pack, "procedure parameters")
	return bu.t.MakeSub(run[0], run[len(run)-1], token.Declarer)
}

// declarerPack reduces (D1, D2, ...) to a list of declarers.
func (bu *bottomUp) declarerPack(pack ast.NodeID, what string) {
	bu.applyRL(pack, declarerRules)
	bu.dropCommas(pack)
	if !bu.t.Sub(pack).IsValid() {
		bu.syntax(diag.SynExpectedNear, pack, "%s need at least one declarer", what)
		bu.node(pack).Flags |= ast.FlagRecovered
		return
	}
	for c := bu.t.Sub(pack); c.IsValid(); c = bu.next(c) {
		if !bu.is(c, token.Declarer) {
			bu.recover(pack, what)
			return
		}
	}
}

// namedPack reduces (D a, b, E c) to groups [D a b] [E c] of kind group.
// It serves structure fields and routine parameters.
func (bu *bottomUp) namedPack(pack ast.NodeID, name, group token.Kind, what string) {
	bu.applyRL(pack, declarerRules)
	bu.dropCommas(pack)
	kids := bu.t.Children(pack)
	if len(kids) == 0 {
		bu.syntax(diag.SynExpectedNear, pack, "%s pack is empty", what)
		bu.node(pack).Flags |= ast.FlagRecovered
		return
	}
	for i := 0; i < len(kids); {
		if !bu.is(kids[i], token.Declarer) {
			bu.recover(pack, what)
			return
		}
		j := i + 1
		for j < len(kids) && bu.is(kids[j], name) {
			j++
		}
		if j == i+1 {
			bu.syntax(diag.SynExpectedNear, kids[i], "a name must follow %s", "declarer")
			bu.node(pack).Flags |= ast.FlagRecovered
			return
		}
		bu.t.MakeSub(kids[i], kids[j-1], group)
		i = j
	}
}

func (bu *bottomUp) dropCommas(parent ast.NodeID) {
	for _, c := range bu.t.Children(parent) {
		if bu.is(c, token.Comma) {
			bu.t.Unlink(c)
		}
	}
}
