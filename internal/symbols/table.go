package symbols

import (
	"fmt"

	"fortio.org/safecast"

	"a68/internal/ast"
	"a68/internal/source"
)

// Hints provide optional capacity suggestions for the arenas.
type Hints struct{ Scopes, Tags uint }

// Table owns every scope and tag of one compilation.
type Table struct {
	scopes  *ast.Arena[Scope]
	tags    *ast.Arena[Tag]
	Prelude ast.ScopeID
}

// NewTable builds an empty table. Call BuildPrelude to populate level 0.
func NewTable(h Hints) *Table {
	if h.Scopes == 0 {
		h.Scopes = 64
	}
	if h.Tags == 0 {
		h.Tags = 512
	}
	return &Table{
		scopes: ast.NewArena[Scope](h.Scopes),
		tags:   ast.NewArena[Tag](h.Tags),
	}
}

// NewScope allocates a range one level below parent.
func (t *Table) NewScope(kind ScopeKind, parent ast.ScopeID, owner ast.NodeID, span source.Span) ast.ScopeID {
	level := 0
	if p := t.Scope(parent); p != nil {
		level = p.Level + 1
	}
	id := ast.ScopeID(t.scopes.Allocate(Scope{
		Kind:   kind,
		Parent: parent,
		Level:  level,
		Owner:  owner,
		Span:   span,
	}))
	if p := t.Scope(parent); p != nil {
		p.Children = append(p.Children, id)
	}
	return id
}

// Scope returns the scope or nil.
func (t *Table) Scope(id ast.ScopeID) *Scope {
	return t.scopes.Get(uint32(id))
}

// Tag returns the tag or nil.
func (t *Table) Tag(id ast.TagID) *Tag {
	return t.tags.Get(uint32(id))
}

// ScopeCount reports the number of allocated scopes.
func (t *Table) ScopeCount() int { return int(t.scopes.Len()) }

// TagCount reports the number of allocated tags.
func (t *Table) TagCount() int { return int(t.tags.Len()) }

// Declare adds a tag to a scope chain. For identifiers, indicants and labels
// it also returns the tag of the same name already in that scope, if any,
// so the caller can report the redefinition. Operators overload freely.
func (t *Table) Declare(scope ast.ScopeID, kind TagKind, name string, node ast.NodeID) (ast.TagID, ast.TagID) {
	s := t.Scope(scope)
	if s == nil {
		panic(fmt.Errorf("declare %q in invalid scope %d", name, scope))
	}
	var prev ast.TagID
	switch kind {
	case TagIdentifier, TagIndicant, TagLabel, TagPriority:
		prev = t.LookupLocal(scope, kind, name)
	}
	id := ast.TagID(t.tags.Allocate(Tag{Name: name, Kind: kind, Scope: scope, Node: node}))
	s = t.Scope(scope)
	ch := s.chain(kind)
	*ch = append(*ch, id)
	if kind != TagLabel && kind != TagPriority {
		s.HasDecls = true
	}
	return id, prev
}

// DeclareAnonymous records a generator or routine text that occupies
// storage in scope.
func (t *Table) DeclareAnonymous(scope ast.ScopeID, node ast.NodeID, storage Storage) ast.TagID {
	id := ast.TagID(t.tags.Allocate(Tag{Kind: TagAnonymous, Scope: scope, Node: node, Storage: storage}))
	if s := t.Scope(scope); s != nil {
		s.Anonymous = append(s.Anonymous, id)
	}
	return id
}

// Chain returns one chain of a scope.
func (t *Table) Chain(scope ast.ScopeID, kind TagKind) []ast.TagID {
	s := t.Scope(scope)
	if s == nil {
		return nil
	}
	return *s.chain(kind)
}

// LookupLocal finds name in scope only.
func (t *Table) LookupLocal(scope ast.ScopeID, kind TagKind, name string) ast.TagID {
	for _, id := range t.Chain(scope, kind) {
		if t.Tag(id).Name == name {
			return id
		}
	}
	return ast.NoTagID
}

// Lookup finds name in scope or the nearest enclosing one.
func (t *Table) Lookup(scope ast.ScopeID, kind TagKind, name string) ast.TagID {
	for s := scope; s.IsValid(); s = t.Scope(s).Parent {
		if id := t.LookupLocal(s, kind, name); id.IsValid() {
			return id
		}
	}
	return ast.NoTagID
}

// Priority returns the priority of a dyadic operator visible from scope.
func (t *Table) Priority(scope ast.ScopeID, name string) (int, bool) {
	if id := t.Lookup(scope, TagPriority, name); id.IsValid() {
		return t.Tag(id).Priority, true
	}
	return 0, false
}

// Operators calls fn with the operators named name of each scope from the
// innermost outward until fn returns false. Scopes without such operators
// are skipped.
func (t *Table) Operators(scope ast.ScopeID, name string, fn func(scope ast.ScopeID, ops []ast.TagID) bool) {
	var buf []ast.TagID
	for s := scope; s.IsValid(); s = t.Scope(s).Parent {
		buf = buf[:0]
		for _, id := range t.Scope(s).Operators {
			if t.Tag(id).Name == name {
				buf = append(buf, id)
			}
		}
		if len(buf) > 0 && !fn(s, buf) {
			return
		}
	}
}

// IsOperatorName reports whether any operator or priority named name is
// visible from scope.
func (t *Table) IsOperatorName(scope ast.ScopeID, name string) bool {
	found := false
	t.Operators(scope, name, func(ast.ScopeID, []ast.TagID) bool {
		found = true
		return false
	})
	return found || t.Lookup(scope, TagPriority, name).IsValid()
}

// EffectiveLevel is the level of the nearest enclosing range that declares
// something; LOC storage of a range without declarations lives there.
func (t *Table) EffectiveLevel(scope ast.ScopeID) int {
	for s := scope; s.IsValid(); s = t.Scope(s).Parent {
		sc := t.Scope(s)
		if sc.HasDecls || !sc.Parent.IsValid() {
			return sc.Level
		}
	}
	return 0
}

// Level returns the nesting depth of a scope, 0 for the prelude.
func (t *Table) Level(scope ast.ScopeID) int {
	if s := t.Scope(scope); s != nil {
		return s.Level
	}
	return 0
}

// Reparent moves scope under parent and renumbers levels below it.
func (t *Table) Reparent(scope, parent ast.ScopeID) {
	s := t.Scope(scope)
	if s == nil || s.Parent == parent {
		return
	}
	if old := t.Scope(s.Parent); old != nil {
		for i, c := range old.Children {
			if c == scope {
				old.Children = append(old.Children[:i], old.Children[i+1:]...)
				break
			}
		}
	}
	s.Parent = parent
	if p := t.Scope(parent); p != nil {
		p.Children = append(p.Children, scope)
	}
	t.relevel(scope)
}

func (t *Table) relevel(scope ast.ScopeID) {
	s := t.Scope(scope)
	s.Level = t.Level(s.Parent) + 1
	for _, c := range s.Children {
		t.relevel(c)
	}
}

// IsAncestor reports whether outer encloses inner or is inner.
func (t *Table) IsAncestor(outer, inner ast.ScopeID) bool {
	for s := inner; s.IsValid(); s = t.Scope(s).Parent {
		if s == outer {
			return true
		}
	}
	return false
}

func toScopeID(idx int) (ast.ScopeID, error) {
	v, err := safecast.Conv[uint32](idx)
	if err != nil {
		return ast.NoScopeID, fmt.Errorf("scope index overflow: %w", err)
	}
	return ast.ScopeID(v), nil
}
