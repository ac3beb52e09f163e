// Package modes keeps the global mode table of one compilation: every mode
// the program mentions, interned and, after Equivalence, unified so that
// structurally equal modes share one representative.
package modes

import (
	"a68/internal/ast"
)

// ModeID is the handle of a mode in the table.
type ModeID = ast.ModeID

// NoModeID is the nil handle.
const NoModeID = ast.NoModeID

// Kind is the shape of a mode.
type Kind uint8

const (
	KindInvalid Kind = iota
	// Standard is a primitive: INT, LONG REAL, BOOL, VOID, FORMAT, ...
	Standard
	// Indicant is a name bound by a mode declaration.
	Indicant
	Ref
	Proc
	Row
	Flex
	Struct
	Union
	// Series is the unresolved set of modes a balanced clause yields.
	Series
	// Stowed is the mode of a collateral display before it meets a row or struct.
	Stowed
	// Error is accepted by every coercion so that one fault is reported once.
	Error
	// Vacuum is the mode of the empty display ().
	Vacuum
	// Hip is the mode of SKIP, NIL and jumps: it adapts to whatever is wanted.
	Hip
)

func (k Kind) String() string {
	switch k {
	case Standard:
		return "STANDARD"
	case Indicant:
		return "INDICANT"
	case Ref:
		return "REF"
	case Proc:
		return "PROC"
	case Row:
		return "ROW"
	case Flex:
		return "FLEX"
	case Struct:
		return "STRUCT"
	case Union:
		return "UNION"
	case Series:
		return "SERIES"
	case Stowed:
		return "STOWED"
	case Error:
		return "ERROR"
	case Vacuum:
		return "VACUUM"
	case Hip:
		return "HIP"
	}
	return "INVALID"
}

// Field is one member of a pack: a struct field, a union variant, a
// procedure parameter or a series element. Name is empty except for fields.
type Field struct {
	Mode ModeID
	Name string
}

// Mode is one table entry.
type Mode struct {
	Kind Kind
	// Name is set for standard modes ("INT", "LONG REAL") and indicants.
	Name string
	// Size is the LONG count of a standard mode, negative for SHORT.
	Size int
	// Dim is the number of dimensions of a row.
	Dim int
	// Sub is the referenced, rowed or flexed mode, or a procedure's result.
	Sub  ModeID
	Pack []Field
	// Equivalent binds an indicant to the mode of its declarer.
	Equivalent ModeID
	Tag        ast.TagID
	Node       ast.NodeID

	// Derived forms, filled in by Equivalence.
	Deflexed ModeID
	Slice    ModeID
	Multiple ModeID
	NameForm ModeID

	// WellFormed is meaningful for indicants once CheckWellFormed ran.
	WellFormed bool
	checked    bool
}

// IsRowLike reports whether m is ROW or FLEX ROW.
func (m *Mode) IsRowLike() bool { return m.Kind == Row || m.Kind == Flex }
