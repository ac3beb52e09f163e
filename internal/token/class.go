package token

// Family is one of the nine bracket families checked before parsing.
type Family uint8

const (
	NoFamily Family = iota
	FamilyBeginEnd
	FamilyParen
	FamilySub
	FamilyAcco
	FamilyIf
	FamilyCase
	FamilyDo
	FamilyFormat
	FamilyFormatParen
	familyCount
)

var familyInfo = [familyCount]struct {
	open, close Kind
	name        string
}{
	NoFamily:          {Invalid, Invalid, ""},
	FamilyBeginEnd:    {Begin, End, "BEGIN"},
	FamilyParen:       {Open, Close, "("},
	FamilySub:         {Sub, Bus, "["},
	FamilyAcco:        {Acco, Occa, "{"},
	FamilyIf:          {If, Fi, "IF"},
	FamilyCase:        {Case, Esac, "CASE"},
	FamilyDo:          {Do, Od, "DO"},
	FamilyFormat:      {FormatDelimiter, FormatDelimiter, "$"},
	FamilyFormatParen: {FormatOpen, FormatClose, "("},
}

// Families returns every bracket family in checking order.
func Families() []Family {
	out := make([]Family, 0, familyCount-1)
	for f := FamilyBeginEnd; f < familyCount; f++ {
		out = append(out, f)
	}
	return out
}

func (f Family) Opener() Kind { return familyInfo[f].open }
func (f Family) Closer() Kind { return familyInfo[f].close }

// OpenerText and CloserText are used in "missing X" diagnostics.
func (f Family) OpenerText() string { return familyInfo[f].name }
func (f Family) CloserText() string {
	if f == FamilyFormatParen {
		return ")"
	}
	return Spelling(familyInfo[f].close)
}

// OpensFamily returns the family k opens. The format delimiter both opens
// and closes, so callers track it separately.
func OpensFamily(k Kind) Family {
	for f := FamilyBeginEnd; f < familyCount; f++ {
		if familyInfo[f].open == k {
			return f
		}
	}
	return NoFamily
}

// ClosesFamily returns the family k closes.
func ClosesFamily(k Kind) Family {
	for f := FamilyBeginEnd; f < familyCount; f++ {
		if familyInfo[f].close == k {
			return f
		}
	}
	return NoFamily
}

// IsTerminal reports whether k is produced directly by the scanner.
func (k Kind) IsTerminal() bool {
	return k > Invalid && k <= FormatClose
}

// IsDenotationToken reports whether k is a literal produced by the scanner.
func (k Kind) IsDenotationToken() bool {
	switch k {
	case IntDenotation, RealDenotation, BitsDenotation, RowCharDenotation, True, False, Empty:
		return true
	}
	return false
}

// IsDeclaration reports whether k is one of the reduced declaration kinds.
func (k Kind) IsDeclaration() bool {
	switch k {
	case IdentityDeclaration, VariableDeclaration, ProcedureDeclaration,
		ProcedureVariableDeclaration, ModeDeclaration, PriorityDeclaration,
		OperatorDeclaration:
		return true
	}
	return false
}

// IsCoercion reports whether k marks an inserted coercion.
func (k Kind) IsCoercion() bool {
	return k >= Dereferencing && k <= Proceduring
}

// IsEnclosed reports whether k is a finished enclosed clause.
func (k Kind) IsEnclosed() bool {
	switch k {
	case ClosedClause, CollateralClause, ParallelClause, ConditionalClause,
		CaseClause, ConformityClause, LoopClause:
		return true
	}
	return false
}

// IsWrapper reports whether k is a single-child grammar level that passes
// its operand through unchanged.
func (k Kind) IsWrapper() bool {
	switch k {
	case Primary, Secondary, Tertiary, Unit, EnclosedClause, Denotation:
		return true
	}
	return false
}

// Stops are the symbols that end a unit when a phrase is skipped.
func (k Kind) IsPhraseStop() bool {
	switch k {
	case Comma, Semicolon, Exit, Close, Bus, Occa, End, Then, Else, Elif, Fi,
		In, Ouse, Out, Esac, Do, Od, Bar, BarColon:
		return true
	}
	return false
}
