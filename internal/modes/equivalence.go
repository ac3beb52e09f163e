package modes

// MaxIterations bounds the equivalencing loop.
const MaxIterations = 32

// Stats summarises one Equivalence run.
type Stats struct {
	Iterations int
	Modes      int
	Unified    int
	Converged  bool
}

// Equivalence iterates until the table is stable: unions and series absorb
// nested members, derived forms exist for every mode, indicants are bound to
// their definitions and every pair of equal modes shares a representative.
// Running it again on a stable table changes nothing.
func (t *Table) Equivalence() Stats {
	var st Stats
	for st.Iterations < MaxIterations {
		st.Iterations++
		before := t.Len()
		changed := t.rebindIndicants()
		changed += t.absorb()
		for i := 1; i < len(t.modes); i++ {
			id := ModeID(i) //nolint:gosec // bounded by add
			if t.Canon(id) == id {
				t.derive(id)
			}
		}
		changed += t.unifyPairs()
		st.Unified += changed
		if t.Len() == before && changed == 0 {
			st.Converged = true
			break
		}
	}
	t.rekey()
	st.Modes = len(t.Representatives())
	return st
}

// rebindIndicants merges every well-formed indicant into its definition.
// Ill-formed ones collapse into ERROR.
func (t *Table) rebindIndicants() int {
	n := 0
	for i := 1; i < len(t.modes); i++ {
		m := &t.modes[i]
		if m.Kind != Indicant {
			continue
		}
		id := ModeID(i) //nolint:gosec // bounded by add
		if !m.checked {
			t.CheckWellFormed()
			m = &t.modes[i]
		}
		target := m.Equivalent
		if !m.WellFormed || target == NoModeID {
			target = t.Std.Error
		}
		if t.Resolve(target) == t.Canon(id) {
			continue
		}
		if t.union(t.Canon(target), id) {
			n++
		}
	}
	return n
}

// absorb flattens nested unions and series and drops duplicate variants.
func (t *Table) absorb() int {
	n := 0
	for i := 1; i < len(t.modes); i++ {
		id := ModeID(i) //nolint:gosec // bounded by add
		if t.Canon(id) != id {
			continue
		}
		kind := t.modes[i].Kind
		if kind != Union && kind != Series {
			continue
		}
		flat, changed := t.flatten(id, kind)
		if !changed {
			continue
		}
		var repl ModeID
		switch {
		case kind == Union && len(flat) == 1:
			repl = flat[0]
		case kind == Union:
			repl = t.Union(flat)
		default:
			repl = t.Series(flat)
		}
		if t.union(repl, id) {
			n++
		}
	}
	return n
}

func (t *Table) flatten(id ModeID, kind Kind) ([]ModeID, bool) {
	var out []ModeID
	changed := false
	var walk func(ModeID, int)
	walk = func(z ModeID, depth int) {
		m := t.Get(t.Resolve(z))
		if m != nil && m.Kind == kind && depth < len(t.modes) {
			if depth > 0 {
				changed = true
			}
			for _, f := range m.Pack {
				walk(f.Mode, depth+1)
			}
			return
		}
		for _, seen := range out {
			if kind == Union && t.Equal(seen, z) {
				changed = true
				return
			}
		}
		out = append(out, t.Resolve(z))
	}
	walk(id, 0)
	if kind == Union && len(out) == 1 {
		changed = true
	}
	return out, changed
}

type shape struct {
	kind Kind
	dim  int
	pack int
}

// unifyPairs tests every pair of representatives of the same shape.
func (t *Table) unifyPairs() int {
	buckets := make(map[shape][]ModeID)
	for _, id := range t.Representatives() {
		m := t.Get(id)
		switch m.Kind {
		case Indicant, Standard, Error, Vacuum, Hip:
			continue
		}
		s := shape{kind: m.Kind, dim: m.Dim, pack: len(m.Pack)}
		if m.Kind == Union {
			s.pack = 0
		}
		buckets[s] = append(buckets[s], id)
	}
	n := 0
	for _, ids := range buckets {
		for i := 0; i < len(ids); i++ {
			if t.Canon(ids[i]) != ids[i] {
				continue
			}
			for j := i + 1; j < len(ids); j++ {
				if t.Canon(ids[j]) != ids[j] {
					continue
				}
				if t.Equal(ids[i], ids[j]) && t.union(ids[i], ids[j]) {
					n++
				}
			}
		}
	}
	return n
}
