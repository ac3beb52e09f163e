package modes

import (
	"strconv"
	"strings"
)

// String renders a mode in Algol 68 notation. Nested occurrences of a mode
// that some indicant names are printed as that indicant.
func (t *Table) String(id ModeID) string {
	var b strings.Builder
	t.write(&b, id, 0, map[ModeID]bool{})
	return b.String()
}

// Describe is String with the handle appended, for dumps.
func (t *Table) Describe(id ModeID) string {
	return t.String(id) + " #" + strconv.FormatUint(uint64(t.Canon(id)), 10)
}

func (t *Table) indicantName(id ModeID) string {
	for i := 1; i < len(t.modes); i++ {
		m := &t.modes[i]
		if m.Kind != Indicant || !m.WellFormed {
			continue
		}
		if t.Resolve(ModeID(i)) == id { //nolint:gosec // bounded by add
			return m.Name
		}
	}
	return ""
}

func sizePrefix(b *strings.Builder, size int) {
	for range size {
		b.WriteString("LONG ")
	}
	for range -size {
		b.WriteString("SHORT ")
	}
}

func (t *Table) write(b *strings.Builder, id ModeID, depth int, busy map[ModeID]bool) {
	raw := t.Get(id)
	if raw == nil {
		b.WriteString("?")
		return
	}
	if raw.Kind == Indicant && raw.Equivalent == NoModeID {
		b.WriteString(raw.Name)
		return
	}
	id = t.Resolve(id)
	m := t.Get(id)
	switch id {
	case t.Canon(t.Std.Compl):
		b.WriteString("COMPL")
		return
	case t.Canon(t.Std.LongCompl):
		b.WriteString("LONG COMPL")
		return
	case t.Canon(t.Std.LongLongCompl):
		b.WriteString("LONG LONG COMPL")
		return
	case t.Canon(t.Std.String):
		b.WriteString("STRING")
		return
	}
	if m.Kind == Indicant {
		b.WriteString(m.Name)
		return
	}
	if depth > 0 && (m.Kind == Struct || m.Kind == Union) {
		if name := t.indicantName(id); name != "" {
			b.WriteString(name)
			return
		}
	}
	if busy[id] {
		b.WriteString("...")
		return
	}
	busy[id] = true
	defer delete(busy, id)

	switch m.Kind {
	case Standard:
		sizePrefix(b, m.Size)
		b.WriteString(m.Name)
	case Ref:
		b.WriteString("REF ")
		t.write(b, m.Sub, depth+1, busy)
	case Flex:
		b.WriteString("FLEX ")
		t.write(b, m.Sub, depth+1, busy)
	case Row:
		b.WriteByte('[')
		b.WriteString(strings.Repeat(",", m.Dim-1))
		b.WriteString("] ")
		t.write(b, m.Sub, depth+1, busy)
	case Proc:
		b.WriteString("PROC ")
		if len(m.Pack) > 0 {
			t.writePack(b, m.Pack, depth, busy)
			b.WriteByte(' ')
		}
		t.write(b, m.Sub, depth+1, busy)
	case Struct:
		b.WriteString("STRUCT ")
		t.writePack(b, m.Pack, depth, busy)
	case Union:
		b.WriteString("UNION ")
		t.writePack(b, m.Pack, depth, busy)
	case Series, Stowed:
		t.writePack(b, m.Pack, depth, busy)
	default:
		b.WriteString(m.Name)
	}
}

func (t *Table) writePack(b *strings.Builder, pack []Field, depth int, busy map[ModeID]bool) {
	b.WriteByte('(')
	for i, f := range pack {
		if i > 0 {
			b.WriteString(", ")
		}
		t.write(b, f.Mode, depth+1, busy)
		if f.Name != "" {
			b.WriteByte(' ')
			b.WriteString(f.Name)
		}
	}
	b.WriteByte(')')
}
