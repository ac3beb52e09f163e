package modes

import (
	"fmt"
	"strconv"
	"strings"

	"fortio.org/safecast"

	"a68/internal/ast"
)

// Table is the interned mode list. Handles are 1-based; 0 is NoModeID.
type Table struct {
	modes  []Mode
	parent []ModeID // union-find over handles
	keys   map[string]ModeID
	assume []pair

	stdByName map[stdKey]ModeID
	Std       Std
}

type pair struct{ a, b ModeID }

// NewTable creates a table pre-populated with the standard modes.
func NewTable() *Table {
	t := &Table{
		modes:  make([]Mode, 1, 256),
		parent: make([]ModeID, 1, 256),
		keys:   make(map[string]ModeID, 256),
	}
	t.initStandard()
	return t
}

// Len returns the number of modes, including unified duplicates.
func (t *Table) Len() int { return len(t.modes) - 1 }

// Get returns the raw entry. Use Canon first when the representative matters.
func (t *Table) Get(id ModeID) *Mode {
	if id == NoModeID || int(id) >= len(t.modes) {
		return nil
	}
	return &t.modes[id]
}

// KindOf returns the kind of the representative of id.
func (t *Table) KindOf(id ModeID) Kind {
	if m := t.Get(t.Resolve(id)); m != nil {
		return m.Kind
	}
	return KindInvalid
}

func (t *Table) add(m Mode) ModeID {
	n, err := safecast.Conv[uint32](len(t.modes))
	if err != nil {
		panic(fmt.Errorf("mode table overflow: %w", err))
	}
	id := ModeID(n)
	t.modes = append(t.modes, m)
	t.parent = append(t.parent, id)
	return id
}

// Canon returns the representative of id's equivalence class.
func (t *Table) Canon(id ModeID) ModeID {
	if id == NoModeID || int(id) >= len(t.parent) {
		return id
	}
	for t.parent[id] != id {
		t.parent[id] = t.parent[t.parent[id]]
		id = t.parent[id]
	}
	return id
}

// union makes keep the representative of drop's class.
func (t *Table) union(keep, drop ModeID) bool {
	keep, drop = t.Canon(keep), t.Canon(drop)
	if keep == drop {
		return false
	}
	t.parent[drop] = keep
	return true
}

// Resolve returns the canonical, non-indicant mode id stands for. An
// indicant whose chain loops (MODE A = B, B = A) resolves to itself.
func (t *Table) Resolve(id ModeID) ModeID {
	id = t.Canon(id)
	for steps := 0; steps <= len(t.modes); steps++ {
		m := t.Get(id)
		if m == nil || m.Kind != Indicant || m.Equivalent == NoModeID {
			return id
		}
		next := t.Canon(m.Equivalent)
		if next == id {
			return id
		}
		id = next
	}
	return id
}

// Same reports whether a and b denote the same mode without proving anything new.
func (t *Table) Same(a, b ModeID) bool {
	return t.Resolve(a) == t.Resolve(b)
}

func (t *Table) intern(m Mode) ModeID {
	key := t.keyOf(&m)
	if id, ok := t.keys[key]; ok {
		return t.Canon(id)
	}
	id := t.add(m)
	t.keys[key] = id
	return id
}

// keyOf spells the structure of m over canonical handles.
func (t *Table) keyOf(m *Mode) string {
	var b strings.Builder
	switch m.Kind {
	case Ref:
		b.WriteString("R:")
	case Flex:
		b.WriteString("F:")
	case Row:
		b.WriteString("W")
		b.WriteString(strconv.Itoa(m.Dim))
		b.WriteByte(':')
	case Proc:
		b.WriteString("P:")
	case Struct:
		b.WriteString("S:")
	case Union:
		b.WriteString("U:")
	case Series:
		b.WriteString("E:")
	case Stowed:
		b.WriteString("D:")
	}
	for _, f := range m.Pack {
		b.WriteString(strconv.FormatUint(uint64(t.Canon(f.Mode)), 10))
		if f.Name != "" {
			b.WriteByte('=')
			b.WriteString(f.Name)
		}
		b.WriteByte(',')
	}
	if m.Sub != NoModeID {
		b.WriteByte('>')
		b.WriteString(strconv.FormatUint(uint64(t.Canon(m.Sub)), 10))
	}
	return b.String()
}

// rekey rebuilds the intern map over current representatives so that
// constructors called after unification find the merged modes.
func (t *Table) rekey() {
	keys := make(map[string]ModeID, len(t.keys))
	for _, id := range t.Representatives() {
		m := t.Get(id)
		switch m.Kind {
		case Ref, Flex, Row, Proc, Struct, Union, Series, Stowed:
			key := t.keyOf(m)
			if _, ok := keys[key]; !ok {
				keys[key] = id
			}
		}
	}
	t.keys = keys
}

// Ref interns REF sub.
func (t *Table) Ref(sub ModeID) ModeID {
	return t.intern(Mode{Kind: Ref, Sub: t.Canon(sub)})
}

// Row interns a row of dim dimensions over sub.
func (t *Table) Row(dim int, sub ModeID) ModeID {
	if dim <= 0 {
		return t.Canon(sub)
	}
	return t.intern(Mode{Kind: Row, Dim: dim, Sub: t.Canon(sub)})
}

// Flex interns FLEX sub.
func (t *Table) Flex(sub ModeID) ModeID {
	return t.intern(Mode{Kind: Flex, Sub: t.Canon(sub)})
}

// Proc interns PROC (params) result.
func (t *Table) Proc(params []ModeID, result ModeID) ModeID {
	return t.intern(Mode{Kind: Proc, Sub: t.Canon(result), Pack: plain(params)})
}

// Struct interns STRUCT (fields).
func (t *Table) Struct(fields []Field) ModeID {
	return t.packed(Struct, fields)
}

// Union interns UNION (variants). Variants are kept in the given order;
// Equivalence absorbs nesting and duplicates.
func (t *Table) Union(variants []ModeID) ModeID {
	return t.packed(Union, plain(variants))
}

// Series interns the series of modes a balanced clause collects.
func (t *Table) Series(members []ModeID) ModeID {
	return t.packed(Series, plain(members))
}

// Stowed interns the mode of a collateral display.
func (t *Table) Stowed(members []ModeID) ModeID {
	return t.packed(Stowed, plain(members))
}

func plain(ids []ModeID) []Field {
	out := make([]Field, len(ids))
	for i, id := range ids {
		out[i] = Field{Mode: id}
	}
	return out
}

func (t *Table) packed(kind Kind, fields []Field) ModeID {
	pack := make([]Field, len(fields))
	for i, f := range fields {
		pack[i] = Field{Mode: t.Canon(f.Mode), Name: f.Name}
	}
	return t.intern(Mode{Kind: kind, Pack: pack})
}

// NewIndicant creates the mode standing for a declared indicant. It is never
// interned: two indicants are equal only when their definitions are.
func (t *Table) NewIndicant(name string, tag ast.TagID, node ast.NodeID) ModeID {
	return t.add(Mode{Kind: Indicant, Name: name, Tag: tag, Node: node})
}

// Bind sets the definition of an indicant.
func (t *Table) Bind(indicant, def ModeID) {
	if m := t.Get(indicant); m != nil && m.Kind == Indicant {
		m.Equivalent = def
	}
}

// All returns every handle in creation order.
func (t *Table) All() []ModeID {
	out := make([]ModeID, 0, t.Len())
	for i := 1; i < len(t.modes); i++ {
		out = append(out, ModeID(i)) //nolint:gosec // bounded by add
	}
	return out
}

// Representatives returns the canonical handles only.
func (t *Table) Representatives() []ModeID {
	out := make([]ModeID, 0, t.Len())
	for i := 1; i < len(t.modes); i++ {
		id := ModeID(i) //nolint:gosec // bounded by add
		if t.Canon(id) == id {
			out = append(out, id)
		}
	}
	return out
}

// Pack returns the pack of the resolved mode.
func (t *Table) Pack(id ModeID) []Field {
	if m := t.Get(t.Resolve(id)); m != nil {
		return m.Pack
	}
	return nil
}

// SubOf returns Sub of the resolved mode.
func (t *Table) SubOf(id ModeID) ModeID {
	if m := t.Get(t.Resolve(id)); m != nil {
		return m.Sub
	}
	return NoModeID
}

// Is reports whether the resolved mode has kind k.
func (t *Table) Is(id ModeID, k Kind) bool { return t.KindOf(id) == k }

// IsRef reports whether id is a name.
func (t *Table) IsRef(id ModeID) bool { return t.KindOf(id) == Ref }

// IsRowLike reports whether id is a row, flexible or not.
func (t *Table) IsRowLike(id ModeID) bool {
	k := t.KindOf(id)
	return k == Row || k == Flex
}

// Field looks a field up by name in a struct mode.
func (t *Table) Field(structMode ModeID, name string) (ModeID, bool) {
	m := t.Get(t.Resolve(structMode))
	if m == nil || m.Kind != Struct {
		return NoModeID, false
	}
	for _, f := range m.Pack {
		if f.Name == name {
			return f.Mode, true
		}
	}
	return NoModeID, false
}
