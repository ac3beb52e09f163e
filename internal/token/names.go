package token

import "fmt"

var kindNames = [...]string{
	Invalid:                      "INVALID",
	Identifier:                   "IDENTIFIER",
	BoldTag:                      "BOLD_TAG",
	IntDenotation:                "INT_DENOTATION",
	RealDenotation:               "REAL_DENOTATION",
	BitsDenotation:               "BITS_DENOTATION",
	RowCharDenotation:            "ROW_CHAR_DENOTATION",
	Operator:                     "OPERATOR",
	Equals:                       "EQUALS_SYMBOL",
	Assign:                       "ASSIGN_SYMBOL",
	Is:                           "IS_SYMBOL",
	Isnt:                         "ISNT_SYMBOL",
	Open:                         "OPEN_SYMBOL",
	Close:                        "CLOSE_SYMBOL",
	Sub:                          "SUB_SYMBOL",
	Bus:                          "BUS_SYMBOL",
	Acco:                         "ACCO_SYMBOL",
	Occa:                         "OCCA_SYMBOL",
	Comma:                        "COMMA_SYMBOL",
	Semicolon:                    "SEMI_SYMBOL",
	Colon:                        "COLON_SYMBOL",
	Point:                        "POINT_SYMBOL",
	Bar:                          "BAR_SYMBOL",
	BarColon:                     "BAR_COLON_SYMBOL",
	At:                           "AT_SYMBOL",
	Begin:                        "BEGIN_SYMBOL",
	End:                          "END_SYMBOL",
	If:                           "IF_SYMBOL",
	Then:                         "THEN_SYMBOL",
	Elif:                         "ELIF_SYMBOL",
	Else:                         "ELSE_SYMBOL",
	Fi:                           "FI_SYMBOL",
	Case:                         "CASE_SYMBOL",
	In:                           "IN_SYMBOL",
	Ouse:                         "OUSE_SYMBOL",
	Out:                          "OUT_SYMBOL",
	Esac:                         "ESAC_SYMBOL",
	For:                          "FOR_SYMBOL",
	From:                         "FROM_SYMBOL",
	By:                           "BY_SYMBOL",
	To:                           "TO_SYMBOL",
	While:                        "WHILE_SYMBOL",
	Do:                           "DO_SYMBOL",
	Od:                           "OD_SYMBOL",
	Proc:                         "PROC_SYMBOL",
	Op:                           "OP_SYMBOL",
	Prio:                         "PRIO_SYMBOL",
	ModeSymbol:                   "MODE_SYMBOL",
	Struct:                       "STRUCT_SYMBOL",
	Union:                        "UNION_SYMBOL",
	Ref:                          "REF_SYMBOL",
	Flex:                         "FLEX_SYMBOL",
	Long:                         "LONG_SYMBOL",
	Short:                        "SHORT_SYMBOL",
	Loc:                          "LOC_SYMBOL",
	Heap:                         "HEAP_SYMBOL",
	Nil:                          "NIL_SYMBOL",
	Skip:                         "SKIP_SYMBOL",
	Goto:                         "GOTO_SYMBOL",
	Exit:                         "EXIT_SYMBOL",
	Par:                          "PAR_SYMBOL",
	Of:                           "OF_SYMBOL",
	True:                         "TRUE_SYMBOL",
	False:                        "FALSE_SYMBOL",
	Empty:                        "EMPTY_SYMBOL",
	FormatDelimiter:              "FORMAT_DELIMITER_SYMBOL",
	FormatItem:                   "FORMAT_ITEM",
	FormatOpen:                   "FORMAT_OPEN_SYMBOL",
	FormatClose:                  "FORMAT_CLOSE_SYMBOL",
	OpenGroup:                    "OPEN_GROUP",
	SubGroup:                     "SUB_GROUP",
	BeginGroup:                   "BEGIN_GROUP",
	DefiningIdentifier:           "DEFINING_IDENTIFIER",
	DefiningIndicant:             "DEFINING_INDICANT",
	DefiningOperator:             "DEFINING_OPERATOR",
	DefiningLabel:                "DEFINING_LABEL",
	Indicant:                     "INDICANT",
	FieldIdentifier:              "FIELD_IDENTIFIER",
	Declarer:                     "DECLARER",
	Bounds:                       "BOUNDS",
	Bound:                        "BOUND",
	StructPack:                   "STRUCTURE_PACK",
	UnionPack:                    "UNION_PACK",
	FormalPack:                   "FORMAL_DECLARERS",
	Field:                        "FIELD",
	Denotation:                   "DENOTATION",
	Primary:                      "PRIMARY",
	Secondary:                    "SECONDARY",
	Tertiary:                     "TERTIARY",
	Unit:                         "UNIT",
	Call:                         "CALL",
	Slice:                        "SLICE",
	Arguments:                    "ARGUMENT_LIST",
	Indexer:                      "INDEXER",
	Trimmer:                      "TRIMMER",
	Cast:                         "CAST",
	Selection:                    "SELECTION",
	Generator:                    "GENERATOR",
	MonadicFormula:               "MONADIC_FORMULA",
	Formula:                      "FORMULA",
	Nihil:                        "NIHIL",
	Assignation:                  "ASSIGNATION",
	IdentityRelation:             "IDENTITY_RELATION",
	RoutineText:                  "ROUTINE_TEXT",
	ParameterPack:                "PARAMETER_PACK",
	Parameter:                    "PARAMETER",
	Jump:                         "JUMP",
	SkipUnit:                     "SKIP",
	Label:                        "LABEL",
	LabeledUnit:                  "LABELED_UNIT",
	FormatText:                   "FORMAT_TEXT",
	IdentityDeclaration:          "IDENTITY_DECLARATION",
	VariableDeclaration:          "VARIABLE_DECLARATION",
	ProcedureDeclaration:         "PROCEDURE_DECLARATION",
	ProcedureVariableDeclaration: "PROCEDURE_VARIABLE_DECLARATION",
	ModeDeclaration:              "MODE_DECLARATION",
	PriorityDeclaration:          "PRIORITY_DECLARATION",
	OperatorDeclaration:          "OPERATOR_DECLARATION",
	DeclarationList:              "DECLARATION_LIST",
	SerialClause:                 "SERIAL_CLAUSE",
	UnitList:                     "UNIT_LIST",
	ClosedClause:                 "CLOSED_CLAUSE",
	CollateralClause:             "COLLATERAL_CLAUSE",
	ParallelClause:               "PARALLEL_CLAUSE",
	ConditionalClause:            "CONDITIONAL_CLAUSE",
	CaseClause:                   "CASE_CLAUSE",
	ConformityClause:             "CONFORMITY_CLAUSE",
	LoopClause:                   "LOOP_CLAUSE",
	EnclosedClause:               "ENCLOSED_CLAUSE",
	IfPart:                       "IF_PART",
	ThenPart:                     "THEN_PART",
	ElifPart:                     "ELIF_PART",
	ElsePart:                     "ELSE_PART",
	CasePart:                     "CASE_PART",
	CaseInPart:                   "CASE_IN_PART",
	OusePart:                     "OUSE_PART",
	OutPart:                      "OUT_PART",
	ConformityInPart:             "CONFORMITY_IN_PART",
	Specifier:                    "SPECIFIER",
	SpecifiedUnit:                "SPECIFIED_UNIT",
	ForPart:                      "FOR_PART",
	FromPart:                     "FROM_PART",
	ByPart:                       "BY_PART",
	ToPart:                       "TO_PART",
	WhilePart:                    "WHILE_PART",
	DoPart:                       "DO_PART",
	Completer:                    "COMPLETER",
	Program:                      "PARTICULAR_PROGRAM",
	Dereferencing:                "DEREFERENCING",
	Deproceduring:                "DEPROCEDURING",
	Uniting:                      "UNITING",
	Widening:                     "WIDENING",
	Rowing:                       "ROWING",
	Voiding:                      "VOIDING",
	Proceduring:                  "PROCEDURING",
}

func (k Kind) String() string {
	if int(k) < len(kindNames) && kindNames[k] != "" {
		return kindNames[k]
	}
	return fmt.Sprintf("Kind(%d)", k)
}

// Count returns the number of defined kinds.
func Count() int { return int(kindCount) }
