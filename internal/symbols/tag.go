package symbols

import (
	"a68/internal/ast"
)

// TagKind is the chain a tag belongs to.
type TagKind uint8

const (
	TagInvalid TagKind = iota
	TagIdentifier
	TagOperator
	TagIndicant
	TagLabel
	TagPriority
	TagAnonymous
)

func (k TagKind) String() string {
	switch k {
	case TagIdentifier:
		return "identifier"
	case TagOperator:
		return "operator"
	case TagIndicant:
		return "indicant"
	case TagLabel:
		return "label"
	case TagPriority:
		return "priority"
	case TagAnonymous:
		return "anonymous"
	default:
		return "invalid"
	}
}

// Storage says where a generator or variable obtains its name.
type Storage uint8

const (
	StorageNone Storage = iota
	StorageLoc
	StorageHeap
)

func (s Storage) String() string {
	switch s {
	case StorageLoc:
		return "LOC"
	case StorageHeap:
		return "HEAP"
	default:
		return ""
	}
}

// TagFlags are quick attributes of a tag.
type TagFlags uint16

const (
	TagFlagPrelude TagFlags = 1 << iota
	TagFlagVariable
	TagFlagParameter
	TagFlagUsed
	// TagFlagTransient marks a name of a flexible row element, which must
	// not be stored.
	TagFlagTransient
	TagFlagLoopIdentifier
	// TagFlagScoped is set once the scope checker assigned Level.
	TagFlagScoped
)

// Tag is one declared entity.
type Tag struct {
	Name     string
	Kind     TagKind
	Scope    ast.ScopeID
	Mode     ast.ModeID
	Node     ast.NodeID
	Priority int
	Storage  Storage
	Flags    TagFlags
	// Level is the scope of the value the tag stands for, valid with
	// TagFlagScoped. Level 0 is the primal (heap) scope.
	Level int
}

// Has reports whether all bits of f are set.
func (t *Tag) Has(f TagFlags) bool { return t.Flags&f == f }
