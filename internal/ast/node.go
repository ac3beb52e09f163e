package ast

import (
	"a68/internal/source"
	"a68/internal/token"
)

// Flags carry parse facts that do not deserve their own category.
type Flags uint16

const (
	// FlagRecovered marks a node substituted by error recovery.
	FlagRecovered Flags = 1 << iota
	// FlagBrief marks a choice clause written with bars.
	FlagBrief
	// FlagHeap marks a HEAP generator or a HEAP variable declaration.
	FlagHeap
	// FlagLoc marks an explicit LOC qualifier.
	FlagLoc
	// FlagInserted marks coercion nodes added after mode checking.
	FlagInserted
	// FlagPortable is set when a non-portable construct was already reported.
	FlagPortable
	// FlagCheckedScope avoids re-reporting the same escape.
	FlagCheckedScope
)

// Node is one vertex of the syntax tree. Sub/Next/Prev/Parent own the tree
// shape; Scope, Tag and Mode are non-owning handles into other arenas.
type Node struct {
	Attr   token.Kind
	Text   string
	Span   source.Span
	Line   uint32
	Sub    NodeID
	Next   NodeID
	Prev   NodeID
	Parent NodeID
	// Scope is the range the node lives in; Own is the range it opens.
	Scope ScopeID
	Own   ScopeID
	// Mode is the a-priori mode; Want is the mode required by the context,
	// Sort the context strength. Want differs from Mode where a coercion is due.
	Mode  ModeID
	Want  ModeID
	Sort  Sort
	Tag   TagID
	Flags Flags
	// Info: LONG/SHORT count for declarers and denotations,
	// priority for dyadic operators, dimension count for bounds.
	Info int32
}

func (n *Node) Has(f Flags) bool { return n.Flags&f != 0 }
