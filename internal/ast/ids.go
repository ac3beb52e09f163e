package ast

type (
	// NodeID indexes the node arena of one compilation.
	NodeID uint32
	// ScopeID indexes the scope (range) arena.
	ScopeID uint32
	// TagID indexes the tag arena.
	TagID uint32
	// ModeID indexes the global mode table.
	ModeID uint32
)

const (
	NoNodeID  NodeID  = 0
	NoScopeID ScopeID = 0
	NoTagID   TagID   = 0
	NoModeID  ModeID  = 0
)

func (id NodeID) IsValid() bool  { return id != NoNodeID }
func (id ScopeID) IsValid() bool { return id != NoScopeID }
func (id TagID) IsValid() bool   { return id != NoTagID }
func (id ModeID) IsValid() bool  { return id != NoModeID }

// Sort is a coercion context. Contexts nest: every coercion legal in a
// weaker sort is legal in a stronger one.
type Sort uint8

const (
	NoSort Sort = iota
	Soft
	Weak
	Meek
	Firm
	Strong
)

func (s Sort) String() string {
	switch s {
	case Soft:
		return "SOFT"
	case Weak:
		return "WEAK"
	case Meek:
		return "MEEK"
	case Firm:
		return "FIRM"
	case Strong:
		return "STRONG"
	}
	return "NO_SORT"
}
