package modes

// CheckWellFormed decides whether the definition of an indicant is
// well-formed: every path from the indicant back to itself must pass through
// REF, PROC or a row. It returns the indicants found ill-formed, in order.
func (t *Table) CheckWellFormed() []ModeID {
	var bad []ModeID
	for i := 1; i < len(t.modes); i++ {
		m := &t.modes[i]
		if m.Kind != Indicant || m.checked {
			continue
		}
		id := ModeID(i) //nolint:gosec // bounded by add
		m.checked = true
		visiting := map[ModeID]bool{id: true}
		m.WellFormed = m.Equivalent != NoModeID && t.shielded(id, m.Equivalent, false, visiting)
		if !m.WellFormed {
			bad = append(bad, id)
		}
	}
	return bad
}

// IsWellFormed reports the verdict for an indicant; other modes are always
// well-formed.
func (t *Table) IsWellFormed(id ModeID) bool {
	m := t.Get(id)
	if m == nil || m.Kind != Indicant {
		return true
	}
	return m.WellFormed
}

func (t *Table) shielded(def, z ModeID, through bool, visiting map[ModeID]bool) bool {
	m := t.Get(z)
	if m == nil {
		return true
	}
	switch m.Kind {
	case Indicant:
		if z == def {
			return through
		}
		if visiting[z] {
			return true // a cycle that does not reach def is judged at its own indicant
		}
		visiting[z] = true
		ok := m.Equivalent == NoModeID || t.shielded(def, m.Equivalent, through, visiting)
		delete(visiting, z)
		return ok
	case Ref, Row, Flex:
		return t.shielded(def, m.Sub, true, visiting)
	case Proc:
		for _, p := range m.Pack {
			if !t.shielded(def, p.Mode, true, visiting) {
				return false
			}
		}
		return t.shielded(def, m.Sub, true, visiting)
	case Struct, Union, Series, Stowed:
		for _, f := range m.Pack {
			if !t.shielded(def, f.Mode, through, visiting) {
				return false
			}
		}
	}
	return true
}
