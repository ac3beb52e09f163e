package parser

import (
	"strconv"

	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/symbols"
	"a68/internal/token"
)

// extractor enters every declared tag into its range before any unit is
// reduced, so applied occurrences may precede their declarations.
type extractor struct {
	core
}

func (ex *extractor) run() {
	root := ex.t.Root
	ex.lists(root, ex.modesAndOperators)
	ex.t.Walk(root, func(id ast.NodeID, _ int) bool {
		if ex.is(id, token.BoldTag) {
			ex.boldTag(id)
		}
		return true
	})
	ex.lists(root, ex.identifiers)
}

// lists calls fn for every node that has children.
func (ex *extractor) lists(root ast.NodeID, fn func(parent ast.NodeID)) {
	ex.t.Walk(root, func(id ast.NodeID, _ int) bool {
		if ex.t.Sub(id).IsValid() {
			fn(id)
		}
		return !ex.s.Halted()
	})
}

func (ex *extractor) declare(n ast.NodeID, kind symbols.TagKind) ast.TagID {
	node := ex.node(n)
	name := node.Text
	id, prev := ex.syms.Declare(node.Scope, kind, name, n)
	if prev.IsValid() {
		ex.errorAt(diag.DclRedefined, n, "%s %s is declared more than once in this range", kind.String(), name)
	}
	ex.node(n).Tag = id
	return id
}

func (ex *extractor) modesAndOperators(parent ast.NodeID) {
	for c := ex.t.Sub(parent); c.IsValid(); c = ex.next(c) {
		switch ex.attr(c) {
		case token.ModeSymbol:
			ex.modeDeclaration(c)
		case token.Prio:
			ex.priorityDeclaration(c)
		case token.Op:
			ex.operatorDeclaration(c)
		}
	}
}

// nextDefinition finds the next "name =" joined by a comma to the current
// declaration, where name is one of kinds.
func (ex *extractor) nextDefinition(from ast.NodeID, kinds ...token.Kind) ast.NodeID {
	for c := from; c.IsValid() && !ex.is(c, token.Semicolon, token.Exit); c = ex.next(c) {
		if !ex.is(c, token.Comma) {
			continue
		}
		d := ex.next(c)
		if ex.is(d, kinds...) && ex.is(ex.next(d), token.Equals) {
			return d
		}
	}
	return ast.NoNodeID
}

// MODE A = ..., B = ...
func (ex *extractor) modeDeclaration(kw ast.NodeID) {
	n := ex.next(kw)
	for {
		if !ex.is(n, token.BoldTag) || !ex.is(ex.next(n), token.Equals) {
			ex.syntax(diag.SynExpectedNear, kw, "mode indicant and = expected after %s", "MODE")
			return
		}
		ex.t.Retag(n, token.DefiningIndicant)
		ex.declare(n, symbols.TagIndicant)
		n = ex.nextDefinition(ex.next(n), token.BoldTag)
		if !n.IsValid() {
			return
		}
	}
}

// PRIO MAX = 9, + = 6
func (ex *extractor) priorityDeclaration(kw ast.NodeID) {
	n := ex.next(kw)
	for {
		digit := ex.next(ex.next(n))
		if !ex.is(n, token.BoldTag, token.Operator, token.Equals) || !ex.is(ex.next(n), token.Equals) ||
			!ex.is(digit, token.IntDenotation) {
			ex.syntax(diag.SynExpectedNear, kw, "operator, = and digit expected after %s", "PRIO")
			return
		}
		ex.t.Retag(n, token.DefiningOperator)
		id := ex.declare(n, symbols.TagPriority)
		text := ex.node(digit).Text
		p, err := strconv.Atoi(text)
		if err != nil || p < 1 || p > 9 {
			ex.errorAt(diag.DclInvalidPriority, digit, "priority %s is not between 1 and 9", text)
			p = 1
		}
		ex.syms.Tag(id).Priority = p
		n = ex.nextDefinition(ex.next(digit), token.BoldTag, token.Operator, token.Equals)
		if !n.IsValid() {
			return
		}
	}
}

// OP (INT, INT) INT MAX = ..., MIN = ...
func (ex *extractor) operatorDeclaration(kw ast.NodeID) {
	n := ex.next(kw)
	for n.IsValid() && !(ex.is(n, token.BoldTag, token.Operator, token.Equals) && ex.is(ex.next(n), token.Equals)) {
		if ex.is(n, token.Semicolon, token.Exit, token.Comma) {
			n = ast.NoNodeID
			break
		}
		n = ex.next(n)
	}
	for {
		if !n.IsValid() {
			ex.syntax(diag.SynExpectedNear, kw, "operator symbol and = expected after %s", "OP")
			return
		}
		ex.t.Retag(n, token.DefiningOperator)
		ex.declare(n, symbols.TagOperator)
		n = ex.nextDefinition(ex.next(ex.next(n)), token.BoldTag, token.Operator, token.Equals)
		if !n.IsValid() {
			return
		}
	}
}

// boldTag decides whether an applied bold word is a mode indicant or an
// operator.
func (ex *extractor) boldTag(id ast.NodeID) {
	n := ex.node(id)
	scope, name := n.Scope, n.Text
	if tag := ex.syms.Lookup(scope, symbols.TagIndicant, name); tag.IsValid() {
		ex.t.Retag(id, token.Indicant)
		ex.node(id).Tag = tag
		return
	}
	if ex.syms.IsOperatorName(scope, name) {
		ex.t.Retag(id, token.Operator)
		return
	}
	ex.errorAt(diag.DclUndeclaredTag, id, "bold tag %s has not been declared", name)
	ex.t.Retag(id, token.Indicant)
}

// identifiers marks defining identifiers, labels and field selectors of one
// list.
func (ex *extractor) identifiers(parent ast.NodeID) {
	switch ex.attr(parent) {
	case token.ParameterPack:
		ex.each(parent, token.Identifier, func(c ast.NodeID) {
			ex.defineIdentifier(c, symbols.TagFlagParameter, symbols.StorageNone)
		})
		return
	case token.StructPack:
		ex.each(parent, token.Identifier, func(c ast.NodeID) {
			ex.t.Retag(c, token.FieldIdentifier)
		})
		return
	case token.Specifier:
		if last := ex.t.Last(parent); ex.is(last, token.Identifier) {
			ex.defineIdentifier(last, 0, symbols.StorageNone)
		}
		return
	case token.ForPart:
		ex.each(parent, token.Identifier, func(c ast.NodeID) {
			ex.defineIdentifier(c, symbols.TagFlagLoopIdentifier, symbols.StorageNone)
		})
		return
	case token.FormalPack, token.UnionPack, token.FormatText:
		return
	}
	for c := ex.t.Sub(parent); c.IsValid(); c = ex.next(c) {
		if !ex.is(c, token.Identifier) {
			continue
		}
		after := ex.next(c)
		switch {
		case ex.is(after, token.Of):
			ex.t.Retag(c, token.FieldIdentifier)
		case ex.is(after, token.Colon) && ex.labelPosition(c):
			ex.t.Retag(c, token.DefiningLabel)
			ex.declare(c, symbols.TagLabel)
		case ex.declarerEnds(ex.prev(c)) && (!after.IsValid() || ex.is(after, definitionFollow...)):
			ex.declaration(c)
		}
	}
}

var definitionFollow = []token.Kind{token.Equals, token.Assign, token.Comma, token.Semicolon, token.Exit}

func (ex *extractor) each(parent ast.NodeID, kind token.Kind, fn func(ast.NodeID)) {
	for c := ex.t.Sub(parent); c.IsValid(); c = ex.next(c) {
		if ex.is(c, kind) {
			fn(c)
		}
	}
}

func (ex *extractor) labelPosition(c ast.NodeID) bool {
	p := ex.prev(c)
	if !p.IsValid() || ex.is(p, token.Semicolon, token.Exit) {
		return true
	}
	return ex.is(p, token.Colon) && ex.is(ex.prev(p), token.DefiningLabel)
}

func (ex *extractor) declarerEnds(p ast.NodeID) bool {
	return ex.is(p, token.Indicant, token.Proc, token.StructPack, token.UnionPack)
}

// declaration defines first and every identifier joined to it by commas.
func (ex *extractor) declaration(first ast.NodeID) {
	storage := symbols.StorageLoc
	for p := ex.prev(first); p.IsValid() && !ex.is(p, token.Semicolon, token.Exit, token.Comma); p = ex.prev(p) {
		if ex.is(p, token.Heap) {
			storage = symbols.StorageHeap
		}
	}
	for n := first; n.IsValid(); n = ex.nextDeclared(n) {
		var flags symbols.TagFlags
		st := symbols.StorageNone
		if !ex.is(ex.next(n), token.Equals) {
			flags = symbols.TagFlagVariable
			st = storage
		}
		ex.defineIdentifier(n, flags, st)
	}
}

// nextDeclared finds the identifier after the next comma of a declaration,
// stopping where a new declarer starts.
func (ex *extractor) nextDeclared(from ast.NodeID) ast.NodeID {
	for c := ex.next(from); c.IsValid() && !ex.is(c, token.Semicolon, token.Exit); c = ex.next(c) {
		if !ex.is(c, token.Comma) {
			continue
		}
		d := ex.next(c)
		if !ex.is(d, token.Identifier) {
			return ast.NoNodeID
		}
		if after := ex.next(d); !after.IsValid() || ex.is(after, definitionFollow...) {
			return d
		}
		return ast.NoNodeID
	}
	return ast.NoNodeID
}

func (ex *extractor) defineIdentifier(id ast.NodeID, flags symbols.TagFlags, st symbols.Storage) {
	ex.t.Retag(id, token.DefiningIdentifier)
	tag := ex.declare(id, symbols.TagIdentifier)
	t := ex.syms.Tag(tag)
	t.Flags |= flags
	t.Storage = st
}
