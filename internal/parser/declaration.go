package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/token"
)

// declarations reduces one declaration phrase. Declarations of different
// kinds joined by commas become consecutive siblings.
func (bu *bottomUp) declarations(run []ast.NodeID) {
	start := 0
	for i := 1; i < len(run); i++ {
		if !bu.is(run[i], token.Comma) || i+1 >= len(run) {
			continue
		}
		nk := bu.attr(run[i+1])
		if nk == token.ModeSymbol || nk == token.Prio || nk == token.Op || isDeclarerStart(nk) {
			bu.declaration(run[start:i])
			bu.t.Unlink(run[i])
			start = i + 1
		}
	}
	bu.declaration(run[start:])
}

// definition is one "name = source" of a declaration.
type definition struct {
	name ast.NodeID
	sep  ast.NodeID
	src  []ast.NodeID
}

// definitions splits the children of d after the head into definitions of
// names of kind name; the joining commas are unlinked.
func (bu *bottomUp) definitions(d ast.NodeID, name token.Kind) (head []ast.NodeID, defs []definition) {
	var commas []ast.NodeID
	kids := bu.t.Children(d)
	i := 0
	for i < len(kids) && !bu.is(kids[i], name) {
		head = append(head, kids[i])
		i++
	}
	for i < len(kids) {
		def := definition{name: kids[i]}
		i++
		if i < len(kids) && bu.is(kids[i], token.Equals, token.Assign) {
			def.sep = kids[i]
			i++
		}
		for i < len(kids) && !(bu.is(kids[i], token.Comma) && i+1 < len(kids) && bu.is(kids[i+1], name)) {
			def.src = append(def.src, kids[i])
			i++
		}
		if i < len(kids) {
			commas = append(commas, kids[i])
			i++
		}
		defs = append(defs, def)
	}
	for _, c := range commas {
		bu.t.Unlink(c)
	}
	return head, defs
}

func (bu *bottomUp) declaration(run []ast.NodeID) {
	if len(run) == 0 {
		return
	}
	switch bu.attr(run[0]) {
	case token.ModeSymbol:
		bu.modeDeclaration(run)
	case token.Prio:
		bu.priorityDeclaration(run)
	case token.Op:
		bu.operatorDeclaration(run)
	default:
		if bu.isProcedureDeclaration(run) {
			bu.procedureDeclaration(run)
			return
		}
		bu.identityOrVariable(run)
	}
}

// expectSep checks the symbol between a name and its source.
func (bu *bottomUp) expectSep(def definition, want token.Kind) bool {
	if bu.is(def.sep, want) && len(def.src) > 0 {
		bu.t.Unlink(def.sep)
		return true
	}
	at := def.name
	if def.sep.IsValid() {
		at = def.sep
	}
	bu.syntax(diag.SynExpectedNear, at, "%s and a source expected after %s", token.Spelling(want), bu.describe(def.name))
	return false
}

func (bu *bottomUp) modeDeclaration(run []ast.NodeID) {
	d := bu.t.MakeSub(run[0], run[len(run)-1], token.ModeDeclaration)
	bu.t.Unlink(run[0])
	_, defs := bu.definitions(d, token.DefiningIndicant)
	for _, def := range defs {
		if bu.expectSep(def, token.Equals) {
			bu.declarerRun(def.src)
		} else {
			bu.node(d).Flags |= ast.FlagRecovered
		}
	}
}

func (bu *bottomUp) priorityDeclaration(run []ast.NodeID) {
	d := bu.t.MakeSub(run[0], run[len(run)-1], token.PriorityDeclaration)
	bu.t.Unlink(run[0])
	_, defs := bu.definitions(d, token.DefiningOperator)
	for _, def := range defs {
		if !bu.expectSep(def, token.Equals) || len(def.src) != 1 || !bu.is(def.src[0], token.IntDenotation) {
			bu.node(d).Flags |= ast.FlagRecovered
		}
	}
}

func (bu *bottomUp) operatorDeclaration(run []ast.NodeID) {
	d := bu.t.MakeSub(run[0], run[len(run)-1], token.OperatorDeclaration)
	bu.t.Unlink(run[0])
	head, defs := bu.definitions(d, token.DefiningOperator)
	if len(head) > 0 {
		bu.declarerRun(head)
	}
	for _, def := range defs {
		if bu.expectSep(def, token.Equals) {
			bu.unit(def.src)
		} else {
			bu.node(d).Flags |= ast.FlagRecovered
		}
	}
}

func (bu *bottomUp) isProcedureDeclaration(run []ast.NodeID) bool {
	i := 0
	for i < len(run) && bu.is(run[i], token.Loc, token.Heap) {
		i++
	}
	return i+1 < len(run) && bu.is(run[i], token.Proc) && bu.is(run[i+1], token.DefiningIdentifier)
}

// qualifier strips LOC or HEAP from the front of a declaration.
func (bu *bottomUp) qualifier(d ast.NodeID) ast.Flags {
	var f ast.Flags
	for c := bu.t.Sub(d); bu.is(c, token.Loc, token.Heap); c = bu.t.Sub(d) {
		if bu.is(c, token.Heap) {
			f = ast.FlagHeap
		} else {
			f = ast.FlagLoc
		}
		bu.t.Unlink(c)
	}
	return f
}

// PROC f = unit and PROC f := unit.
func (bu *bottomUp) procedureDeclaration(run []ast.NodeID) {
	d := bu.t.MakeSub(run[0], run[len(run)-1], token.ProcedureDeclaration)
	flags := bu.qualifier(d)
	bu.t.Unlink(bu.t.Sub(d))
	_, defs := bu.definitions(d, token.DefiningIdentifier)
	want := token.Equals
	if !bu.is(defs[0].sep, token.Equals) {
		bu.t.Retag(d, token.ProcedureVariableDeclaration)
		want = token.Assign
	} else if flags != 0 {
		bu.syntax(diag.SynExpectedNear, defs[0].sep, "%s must follow a LOC or HEAP procedure variable", ":=")
	}
	bu.node(d).Flags |= flags
	for _, def := range defs {
		if bu.expectSep(def, want) {
			bu.unit(def.src)
		} else {
			bu.node(d).Flags |= ast.FlagRecovered
		}
	}
}

func (bu *bottomUp) identityOrVariable(run []ast.NodeID) {
	d := bu.t.MakeSub(run[0], run[len(run)-1], token.IdentityDeclaration)
	flags := bu.qualifier(d)
	head, defs := bu.definitions(d, token.DefiningIdentifier)
	if len(head) == 0 || len(defs) == 0 {
		bu.recover(d, "declaration")
		return
	}
	bu.declarerRun(head)
	identity := bu.is(defs[0].sep, token.Equals)
	if !identity {
		bu.t.Retag(d, token.VariableDeclaration)
		bu.node(d).Flags |= flags
	} else if flags != 0 {
		bu.syntax(diag.SynExpectedNear, defs[0].sep, "an identity declaration cannot be %s", "LOC or HEAP")
	}
	for _, def := range defs {
		switch {
		case identity:
			if bu.expectSep(def, token.Equals) {
				bu.unit(def.src)
			} else {
				bu.node(d).Flags |= ast.FlagRecovered
			}
		case !def.sep.IsValid() && len(def.src) == 0:
			// no initial value
		case bu.expectSep(def, token.Assign):
			bu.unit(def.src)
		default:
			bu.node(d).Flags |= ast.FlagRecovered
		}
	}
}
