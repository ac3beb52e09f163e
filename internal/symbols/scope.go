package symbols

import (
	"a68/internal/ast"
	"a68/internal/source"
)

// ScopeKind says which construct opened a range.
type ScopeKind uint8

const (
	ScopeInvalid   ScopeKind = iota
	ScopePrelude             // standard environment, level 0
	ScopeProgram             // particular program
	ScopeSerial              // BEGIN ... END and ( ... )
	ScopeChoice              // IF/THEN/ELSE/CASE/IN/OUT parts
	ScopeLoop                // FOR ... DO ... OD
	ScopeRoutine             // routine text: formal parameters and body
	ScopeSpecifier           // conformity clause specifier
)

func (k ScopeKind) String() string {
	switch k {
	case ScopePrelude:
		return "prelude"
	case ScopeProgram:
		return "program"
	case ScopeSerial:
		return "serial"
	case ScopeChoice:
		return "choice"
	case ScopeLoop:
		return "loop"
	case ScopeRoutine:
		return "routine"
	case ScopeSpecifier:
		return "specifier"
	default:
		return "invalid"
	}
}

// Scope is one range with its tag chains. Chains keep declaration order.
type Scope struct {
	Kind     ScopeKind
	Parent   ast.ScopeID
	Level    int
	Owner    ast.NodeID
	Span     source.Span
	Children []ast.ScopeID

	Identifiers []ast.TagID
	Operators   []ast.TagID
	Indicants   []ast.TagID
	Labels      []ast.TagID
	Priorities  []ast.TagID
	// Anonymous holds generators and routine texts that occupy storage.
	Anonymous []ast.TagID

	// HasDecls marks a range whose LOC storage lives here.
	HasDecls bool
}

func (s *Scope) chain(kind TagKind) *[]ast.TagID {
	switch kind {
	case TagIdentifier:
		return &s.Identifiers
	case TagOperator:
		return &s.Operators
	case TagIndicant:
		return &s.Indicants
	case TagLabel:
		return &s.Labels
	case TagPriority:
		return &s.Priorities
	default:
		return &s.Anonymous
	}
}
