package token

// Nodes change category in place while the parser works: a folded group
// becomes a clause, a bold tag becomes an indicant. Every such change must be
// listed here; anything else is a parser bug.
var transitions = map[Kind][]Kind{
	BoldTag:              {Indicant, Operator, DefiningIndicant, DefiningOperator},
	Identifier:           {DefiningIdentifier, DefiningLabel, FieldIdentifier, Jump},
	Operator:             {DefiningOperator},
	Equals:               {Operator, DefiningOperator},
	OpenGroup:            {ClosedClause, CollateralClause, ConditionalClause, CaseClause, Arguments, ParameterPack, StructPack, UnionPack, FormalPack, Specifier},
	SubGroup:             {Bounds, Indexer},
	BeginGroup:           {ClosedClause, CollateralClause},
	CaseClause:           {ConformityClause},
	CaseInPart:           {ConformityInPart},
	OusePart:             {OusePart},
	Call:                 {Slice},
	Arguments:            {Indexer},
	Primary:              {Jump},
	ThenPart:             {CaseInPart},
	ElsePart:             {OutPart},
	ElifPart:             {OusePart},
	IfPart:               {CasePart},
	ConditionalClause:    {CaseClause, ConformityClause},
	IdentityDeclaration:  {VariableDeclaration},
	ProcedureDeclaration: {ProcedureVariableDeclaration},
}

// CanBecome reports whether a node of category from may be retagged to.
func CanBecome(from, to Kind) bool {
	if from == to {
		return true
	}
	for _, k := range transitions[from] {
		if k == to {
			return true
		}
	}
	return false
}
