package modes

// derive fills in the derived forms of one canonical mode. It reports
// whether anything new was computed.
func (t *Table) derive(id ModeID) bool {
	m := t.Get(id)
	if m == nil || m.Deflexed != NoModeID {
		return false
	}
	m.Deflexed = id // placeholder while recursive modes resolve through us
	deflexed := t.deflex(id, map[ModeID]bool{})
	m = t.Get(id)
	m.Deflexed = deflexed

	switch m.Kind {
	case Row, Flex:
		m.Slice = t.sliceOf(id)
		m.Multiple = t.multipleOf(id)
	case Ref:
		m.Slice = t.sliceOf(id)
		m.NameForm = t.nameOf(id)
	}
	return true
}

// deflex strips FLEX everywhere except behind REF and PROC: a value of mode
// STRUCT (STRING s) is also a STRUCT ([]CHAR s).
func (t *Table) deflex(id ModeID, busy map[ModeID]bool) ModeID {
	id = t.Resolve(id)
	m := t.Get(id)
	if m == nil || busy[id] {
		return id
	}
	busy[id] = true
	defer delete(busy, id)
	switch m.Kind {
	case Flex:
		return t.deflex(m.Sub, busy)
	case Row:
		sub := t.deflex(m.Sub, busy)
		if sub == t.Resolve(m.Sub) {
			return id
		}
		return t.Row(m.Dim, sub)
	case Struct:
		fields := make([]Field, len(t.Get(id).Pack))
		changed := false
		for i, f := range t.Get(id).Pack {
			d := t.deflex(f.Mode, busy)
			changed = changed || d != t.Resolve(f.Mode)
			fields[i] = Field{Mode: d, Name: f.Name}
		}
		if !changed {
			return id
		}
		return t.Struct(fields)
	case Union:
		pack := t.Get(id).Pack
		vs := make([]ModeID, len(pack))
		changed := false
		for i, f := range pack {
			vs[i] = t.deflex(f.Mode, busy)
			changed = changed || vs[i] != t.Resolve(f.Mode)
		}
		if !changed {
			return id
		}
		return t.Union(vs)
	}
	return id
}

// rowOf unwraps FLEX and returns the row entry, or nil.
func (t *Table) rowOf(id ModeID) *Mode {
	m := t.Get(t.Resolve(id))
	if m != nil && m.Kind == Flex {
		m = t.Get(t.Resolve(m.Sub))
	}
	if m == nil || m.Kind != Row {
		return nil
	}
	return m
}

// sliceOf is the mode of a fully indexed row: [,]X gives X, REF [,]X gives REF X.
func (t *Table) sliceOf(id ModeID) ModeID {
	m := t.Get(t.Resolve(id))
	if m == nil {
		return NoModeID
	}
	if m.Kind == Ref {
		if r := t.rowOf(m.Sub); r != nil {
			return t.Ref(r.Sub)
		}
		return NoModeID
	}
	if r := t.rowOf(id); r != nil {
		return r.Sub
	}
	return NoModeID
}

// multipleOf turns a row of structures into a structure of rows, the mode a
// selection from the row yields.
func (t *Table) multipleOf(id ModeID) ModeID {
	r := t.rowOf(id)
	if r == nil {
		return NoModeID
	}
	dim, elem := r.Dim, r.Sub
	s := t.Get(t.Resolve(elem))
	if s == nil || s.Kind != Struct {
		return NoModeID
	}
	pack := s.Pack
	fields := make([]Field, len(pack))
	for i, f := range pack {
		fields[i] = Field{Mode: t.Row(dim, f.Mode), Name: f.Name}
	}
	return t.Struct(fields)
}

// nameOf gives the structure of names selected from a name of a structure
// or of a row of structures.
func (t *Table) nameOf(id ModeID) ModeID {
	m := t.Get(t.Resolve(id))
	if m == nil || m.Kind != Ref {
		return NoModeID
	}
	target := t.Get(t.Resolve(m.Sub))
	if target == nil {
		return NoModeID
	}
	if target.Kind == Struct {
		pack := target.Pack
		fields := make([]Field, len(pack))
		for i, f := range pack {
			fields[i] = Field{Mode: t.Ref(f.Mode), Name: f.Name}
		}
		return t.Struct(fields)
	}
	r := t.rowOf(m.Sub)
	if r == nil {
		return NoModeID
	}
	dim := r.Dim
	s := t.Get(t.Resolve(r.Sub))
	if s == nil || s.Kind != Struct {
		return NoModeID
	}
	pack := s.Pack
	fields := make([]Field, len(pack))
	for i, f := range pack {
		fields[i] = Field{Mode: t.Ref(t.Row(dim, f.Mode)), Name: f.Name}
	}
	return t.Struct(fields)
}

// Deflex returns the deflexed form, computing it when Equivalence has not.
func (t *Table) Deflex(id ModeID) ModeID {
	id = t.Resolve(id)
	if m := t.Get(id); m != nil && m.Deflexed != NoModeID {
		return t.Resolve(m.Deflexed)
	}
	return t.deflex(id, map[ModeID]bool{})
}

// Slice returns the mode of an element of a row or of a name of a row.
func (t *Table) Slice(id ModeID) ModeID { return t.sliceOf(id) }

// Multiple returns the structure-of-rows form of a row of structures.
func (t *Table) Multiple(id ModeID) ModeID { return t.multipleOf(id) }

// NameForm returns the structure-of-names form of a name of a structure.
func (t *Table) NameForm(id ModeID) ModeID { return t.nameOf(id) }

// Dim returns the number of dimensions of a row or name of a row.
func (t *Table) Dim(id ModeID) int {
	m := t.Get(t.Resolve(id))
	if m != nil && m.Kind == Ref {
		id = m.Sub
	}
	if r := t.rowOf(id); r != nil {
		return r.Dim
	}
	return 0
}
