package token

// Kind is the syntactic category of a tree node. Terminals come from the
// scanner; nonterminals are produced by the parser when it folds or reduces
// a run of siblings.
type Kind uint16

const (
	// Invalid indicates an erroneous or unset category.
	Invalid Kind = iota

	// --- terminals: tags and denotations ---

	Identifier        // applied identifier, "max int" is scanned as "maxint"
	BoldTag           // bold word that is not a reserved symbol
	IntDenotation     // 42
	RealDenotation    // 3.14, .5, 1e10
	BitsDenotation    // 16rff, 2r1010
	RowCharDenotation // "text"

	// --- terminals: symbols ---

	Operator // + - * / ** <= ... and bold operators once resolved
	Equals   // =
	Assign   // :=
	Is       // :=:
	Isnt     // :/=:
	Open     // (
	Close    // )
	Sub      // [
	Bus      // ]
	Acco     // {
	Occa     // }
	Comma    // ,
	Semicolon
	Colon
	Point    // .
	Bar      // |
	BarColon // |:
	At       // @ or AT

	// --- terminals: reserved bold words ---

	Begin
	End
	If
	Then
	Elif
	Else
	Fi
	Case
	In
	Ouse
	Out
	Esac
	For
	From
	By
	To
	While
	Do
	Od
	Proc
	Op
	Prio
	ModeSymbol
	Struct
	Union
	Ref
	Flex
	Long
	Short
	Loc
	Heap
	Nil
	Skip
	Goto
	Exit
	Par
	Of
	True
	False
	Empty

	// --- terminals: format texts ---

	FormatDelimiter // $
	FormatItem      // one picture letter, insertion or replicator
	FormatOpen      // ( inside a format
	FormatClose     // ) inside a format

	// --- groups folded by the top-down parser, still awaiting reduction ---

	OpenGroup  // ( ... ) or { ... }
	SubGroup   // [ ... ]
	BeginGroup // BEGIN ... END

	// --- tags after declaration extraction ---

	DefiningIdentifier
	DefiningIndicant
	DefiningOperator
	DefiningLabel
	Indicant
	FieldIdentifier

	// --- declarers ---

	Declarer
	Bounds
	Bound
	StructPack
	UnionPack
	FormalPack
	Field

	// --- units ---

	Denotation
	Primary
	Secondary
	Tertiary
	Unit
	Call
	Slice
	Arguments
	Indexer
	Trimmer
	Cast
	Selection
	Generator
	MonadicFormula
	Formula
	Nihil
	Assignation
	IdentityRelation
	RoutineText
	ParameterPack
	Parameter
	Jump
	SkipUnit
	Label
	LabeledUnit
	FormatText

	// --- declarations ---

	IdentityDeclaration
	VariableDeclaration
	ProcedureDeclaration
	ProcedureVariableDeclaration
	ModeDeclaration
	PriorityDeclaration
	OperatorDeclaration
	DeclarationList

	// --- clauses ---

	SerialClause
	UnitList
	ClosedClause
	CollateralClause
	ParallelClause
	ConditionalClause
	CaseClause
	ConformityClause
	LoopClause
	EnclosedClause
	IfPart
	ThenPart
	ElifPart
	ElsePart
	CasePart
	CaseInPart
	OusePart
	OutPart
	ConformityInPart
	Specifier
	SpecifiedUnit
	ForPart
	FromPart
	ByPart
	ToPart
	WhilePart
	DoPart
	Completer
	Program

	// --- coercions inserted after mode checking ---

	Dereferencing
	Deproceduring
	Uniting
	Widening
	Rowing
	Voiding
	Proceduring

	kindCount
)
