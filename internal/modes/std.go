package modes

// Std holds the handles of the standard modes.
type Std struct {
	Error, Vacuum, Hip ModeID

	Void, Bool, Char, Format, Sema, File, Rows ModeID

	ShortShortInt, ShortInt, Int, LongInt, LongLongInt ModeID
	Real, LongReal, LongLongReal                       ModeID
	Compl, LongCompl, LongLongCompl                    ModeID
	Bits, LongBits, LongLongBits                       ModeID
	Bytes, LongBytes                                   ModeID

	RowChar, String, RefString, ProcVoid ModeID
	RefInt, RefReal, RefBool, RefChar    ModeID
	RefFile, ProcRefFileVoid             ModeID

	Simplout, RowSimplout, Simplin, RowSimplin ModeID
}

type stdKey struct {
	name string
	size int
}

// MaxSize bounds LONG LONG; SHORT SHORT is -2.
const MaxSize = 2

func (t *Table) standard(name string, size int) ModeID {
	key := stdKey{name: name, size: size}
	if id, ok := t.stdByName[key]; ok {
		return id
	}
	id := t.add(Mode{Kind: Standard, Name: name, Size: size})
	t.stdByName[key] = id
	return id
}

// LookupStandard returns the standard mode for a (possibly LONG or SHORT)
// primitive name, or NoModeID when that size does not exist.
func (t *Table) LookupStandard(name string, size int) ModeID {
	if name == "COMPL" {
		switch size {
		case 0, -1, -2:
			return t.Std.Compl
		case 1:
			return t.Std.LongCompl
		case 2:
			return t.Std.LongLongCompl
		}
		return NoModeID
	}
	if name == "STRING" && size == 0 {
		return t.Std.String
	}
	if id, ok := t.stdByName[stdKey{name: name, size: size}]; ok {
		return id
	}
	// SHORT REAL is REAL, and likewise for types without short variants.
	if size < 0 {
		if id, ok := t.stdByName[stdKey{name: name, size: 0}]; ok && name != "INT" {
			return id
		}
	}
	return NoModeID
}

// IsStandardName reports whether name spells a standard mode indicant.
func IsStandardName(name string) bool {
	switch name {
	case "INT", "REAL", "BOOL", "CHAR", "BITS", "BYTES", "COMPL", "STRING",
		"VOID", "FORMAT", "SEMA", "FILE":
		return true
	}
	return false
}

func (t *Table) initStandard() {
	t.stdByName = make(map[stdKey]ModeID, 32)
	s := &t.Std
	s.Error = t.add(Mode{Kind: Error, Name: "ERROR"})
	s.Vacuum = t.add(Mode{Kind: Vacuum, Name: "VACUUM"})
	s.Hip = t.add(Mode{Kind: Hip, Name: "HIP"})

	s.Void = t.standard("VOID", 0)
	s.Bool = t.standard("BOOL", 0)
	s.Char = t.standard("CHAR", 0)
	s.Format = t.standard("FORMAT", 0)
	s.Sema = t.standard("SEMA", 0)
	s.File = t.standard("FILE", 0)
	s.Rows = t.standard("ROWS", 0)

	s.ShortShortInt = t.standard("INT", -2)
	s.ShortInt = t.standard("INT", -1)
	s.Int = t.standard("INT", 0)
	s.LongInt = t.standard("INT", 1)
	s.LongLongInt = t.standard("INT", 2)
	s.Real = t.standard("REAL", 0)
	s.LongReal = t.standard("REAL", 1)
	s.LongLongReal = t.standard("REAL", 2)
	s.Bits = t.standard("BITS", 0)
	s.LongBits = t.standard("BITS", 1)
	s.LongLongBits = t.standard("BITS", 2)
	s.Bytes = t.standard("BYTES", 0)
	s.LongBytes = t.standard("BYTES", 1)

	s.Compl = t.Struct([]Field{{Mode: s.Real, Name: "re"}, {Mode: s.Real, Name: "im"}})
	s.LongCompl = t.Struct([]Field{{Mode: s.LongReal, Name: "re"}, {Mode: s.LongReal, Name: "im"}})
	s.LongLongCompl = t.Struct([]Field{{Mode: s.LongLongReal, Name: "re"}, {Mode: s.LongLongReal, Name: "im"}})

	s.RowChar = t.Row(1, s.Char)
	s.String = t.Flex(s.RowChar)
	s.RefString = t.Ref(s.String)
	s.ProcVoid = t.Proc(nil, s.Void)
	s.RefInt = t.Ref(s.Int)
	s.RefReal = t.Ref(s.Real)
	s.RefBool = t.Ref(s.Bool)
	s.RefChar = t.Ref(s.Char)
	s.RefFile = t.Ref(s.File)
	s.ProcRefFileVoid = t.Proc([]ModeID{s.RefFile}, s.Void)

	s.Simplout = t.Union([]ModeID{
		s.Int, s.LongInt, s.LongLongInt,
		s.Real, s.LongReal, s.LongLongReal,
		s.Compl, s.LongCompl, s.LongLongCompl,
		s.Bool, s.Char, s.RowChar,
		s.Bits, s.LongBits, s.LongLongBits,
		s.Bytes, s.LongBytes,
		s.ProcRefFileVoid,
	})
	s.RowSimplout = t.Row(1, s.Simplout)
	s.Simplin = t.Union([]ModeID{
		s.RefInt, t.Ref(s.LongInt), t.Ref(s.LongLongInt),
		s.RefReal, t.Ref(s.LongReal), t.Ref(s.LongLongReal),
		t.Ref(s.Compl), t.Ref(s.LongCompl), t.Ref(s.LongLongCompl),
		s.RefBool, s.RefChar, t.Ref(s.RowChar), s.RefString,
		t.Ref(s.Bits), t.Ref(s.LongBits), t.Ref(s.LongLongBits),
		t.Ref(s.Bytes), t.Ref(s.LongBytes),
		s.ProcRefFileVoid,
	})
	s.RowSimplin = t.Row(1, s.Simplin)
}

// IsNumber reports whether id is an INT, REAL or COMPL of any size.
func (t *Table) IsNumber(id ModeID) bool {
	return t.IsInt(id) || t.IsReal(id) || t.IsCompl(id)
}

// IsInt reports whether id is INT of any size.
func (t *Table) IsInt(id ModeID) bool { return t.standardName(id) == "INT" }

// IsReal reports whether id is REAL of any size.
func (t *Table) IsReal(id ModeID) bool { return t.standardName(id) == "REAL" }

// IsCompl reports whether id is one of the COMPL structures.
func (t *Table) IsCompl(id ModeID) bool {
	id = t.Resolve(id)
	s := &t.Std
	return id == t.Canon(s.Compl) || id == t.Canon(s.LongCompl) || id == t.Canon(s.LongLongCompl)
}

func (t *Table) standardName(id ModeID) string {
	m := t.Get(t.Resolve(id))
	if m == nil || m.Kind != Standard {
		return ""
	}
	return m.Name
}

// SizeOf returns the LONG count of a standard or COMPL mode.
func (t *Table) SizeOf(id ModeID) int {
	id = t.Resolve(id)
	if m := t.Get(id); m != nil && m.Kind == Standard {
		return m.Size
	}
	switch id {
	case t.Canon(t.Std.LongCompl):
		return 1
	case t.Canon(t.Std.LongLongCompl):
		return 2
	}
	return 0
}

// Widened returns the mode id widens to in one step: INT to REAL, REAL to
// COMPL, BITS to []BOOL and BYTES to []CHAR. It keeps the LONG count.
func (t *Table) Widened(id ModeID) ModeID {
	size := t.SizeOf(id)
	switch t.standardName(id) {
	case "INT":
		if size < 0 {
			size = 0
		}
		return t.LookupStandard("REAL", size)
	case "REAL":
		return t.LookupStandard("COMPL", size)
	case "BITS":
		return t.Row(1, t.Std.Bool)
	case "BYTES":
		return t.Std.RowChar
	}
	return NoModeID
}
