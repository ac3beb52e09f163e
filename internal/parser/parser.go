// Package parser turns the scanner's token list into a reduced syntax tree.
//
// Parsing happens in phases that the driver runs one after another:
//
//   - CheckBrackets verifies that the nine bracket families nest;
//   - TopDown folds bracketed constructs into groups, splits choice and loop
//     clauses into their parts, allocates one scope per range and extracts
//     declarations so that tags may be used before they are declared;
//   - BottomUp reduces every group with an ordered rule table into units,
//     declarations and clauses;
//   - Bind resolves applied identifiers and labels.
package parser

import (
	"a68/internal/ast"
	"a68/internal/diag"
	"a68/internal/session"
	"a68/internal/source"
	"a68/internal/symbols"
	"a68/internal/token"
)

// core is shared by the phase workers.
type core struct {
	s    *session.Session
	t    *ast.Tree
	syms *symbols.Table
}

func newCore(s *session.Session) core {
	return core{s: s, t: s.Tree, syms: s.Scopes}
}

func (c *core) attr(id ast.NodeID) token.Kind { return c.t.Attr(id) }
func (c *core) next(id ast.NodeID) ast.NodeID { return c.t.Next(id) }
func (c *core) prev(id ast.NodeID) ast.NodeID { return c.t.Prev(id) }
func (c *core) node(id ast.NodeID) *ast.Node  { return c.t.Get(id) }

func (c *core) is(id ast.NodeID, kinds ...token.Kind) bool {
	return id.IsValid() && c.t.Is(id, kinds...)
}

// syntax сообщает синтаксическую ошибку в позиции узла.
func (c *core) syntax(code diag.Code, at ast.NodeID, template string, args ...string) {
	diag.ReportSyntax(c.s, code, c.spanOf(at), template, args...).Emit()
}

// errorAt сообщает обычную ошибку (декларации, моды).
func (c *core) errorAt(code diag.Code, at ast.NodeID, template string, args ...string) {
	diag.ReportError(c.s, code, c.spanOf(at), template, args...).Emit()
}

func (c *core) warnAt(code diag.Code, at ast.NodeID, template string, args ...string) {
	diag.ReportWarning(c.s, code, c.spanOf(at), template, args...).Emit()
}

func (c *core) spanOf(id ast.NodeID) source.Span {
	if n := c.t.Get(id); n != nil {
		return n.Span
	}
	return c.t.Span(c.t.Root)
}

// describe names a node in a message.
func (c *core) describe(id ast.NodeID) string {
	return c.t.Describe(id)
}

// until collects the siblings from first up to, not including, the first
// node of one of the stop kinds. It returns the run and the stop node.
func (c *core) until(first ast.NodeID, stops ...token.Kind) ([]ast.NodeID, ast.NodeID) {
	var run []ast.NodeID
	for n := first; n.IsValid(); n = c.next(n) {
		if c.is(n, stops...) {
			return run, n
		}
		run = append(run, n)
	}
	return run, ast.NoNodeID
}

// fold makes a node of kind over run, or an empty detached node of kind
// inserted after anchor when run is empty.
func (c *core) fold(run []ast.NodeID, kind token.Kind, parent, anchor ast.NodeID) ast.NodeID {
	if len(run) > 0 {
		return c.t.MakeSub(run[0], run[len(run)-1], kind)
	}
	id := c.t.New(kind, "", c.spanOf(anchor))
	n := c.t.Get(id)
	n.Scope = c.t.Get(parent).Scope
	if anchor.IsValid() && c.t.Parent(anchor) == parent {
		c.t.InsertAfter(anchor, id)
		return id
	}
	p := c.t.Get(parent)
	n.Parent = parent
	n.Next = p.Sub
	if p.Sub.IsValid() {
		c.t.Get(p.Sub).Prev = id
	}
	p.Sub = id
	return id
}
