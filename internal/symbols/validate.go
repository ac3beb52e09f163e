package symbols

import (
	"errors"
	"fmt"

	"a68/internal/ast"
)

// Validate walks the arenas checking structural invariants. Returns nil if
// everything is consistent; otherwise aggregates all detected issues.
func (t *Table) Validate() error {
	var errs []error
	n := t.ScopeCount()
	for idx := 1; idx <= n; idx++ {
		id, err := toScopeID(idx)
		if err != nil {
			errs = append(errs, err)
			continue
		}
		s := t.Scope(id)
		if s.Kind == ScopeInvalid {
			errs = append(errs, fmt.Errorf("scope %d has invalid kind", id))
		}
		if s.Parent.IsValid() {
			p := t.Scope(s.Parent)
			if p == nil || s.Parent == id {
				errs = append(errs, fmt.Errorf("scope %d has invalid parent %d", id, s.Parent))
				continue
			}
			if s.Level != p.Level+1 {
				errs = append(errs, fmt.Errorf("scope %d level %d under level %d", id, s.Level, p.Level))
			}
			found := false
			for _, c := range p.Children {
				if c == id {
					found = true
					break
				}
			}
			if !found {
				errs = append(errs, fmt.Errorf("scope %d parent %d missing backlink", id, s.Parent))
			}
		}
		for _, kind := range []TagKind{TagIdentifier, TagOperator, TagIndicant, TagLabel, TagPriority, TagAnonymous} {
			for _, tag := range t.Chain(id, kind) {
				tg := t.Tag(tag)
				if tg == nil {
					errs = append(errs, fmt.Errorf("scope %d chain %s holds invalid tag %d", id, kind, tag))
					continue
				}
				if tg.Scope != id || tg.Kind != kind {
					errs = append(errs, fmt.Errorf("tag %d (%s %q) filed in scope %d chain %s", tag, tg.Kind, tg.Name, id, kind))
				}
			}
		}
	}
	return errors.Join(errs...)
}

// Describe renders a tag for dumps and messages.
func (t *Table) Describe(id ast.TagID) string {
	tg := t.Tag(id)
	if tg == nil {
		return "<no tag>"
	}
	if tg.Kind == TagAnonymous {
		return fmt.Sprintf("%s anonymous@%d", tg.Storage, t.Level(tg.Scope))
	}
	return fmt.Sprintf("%s %s@%d", tg.Kind, tg.Name, t.Level(tg.Scope))
}
