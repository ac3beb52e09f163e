package diag

import (
	"fmt"
)

type Code uint16

const (
	// Неизвестная ошибка
	UnknownCode Code = 0

	// Лексические
	LexInfo                Code = 1000
	LexUnworthyChar        Code = 1001
	LexUnterminatedString  Code = 1002
	LexUnterminatedComment Code = 1003
	LexUnterminatedPragmat Code = 1004
	LexBadDenotation       Code = 1005
	LexBadFilename         Code = 1006
	LexUnterminatedFormat  Code = 1007
	LexPragmatIgnored      Code = 1008
	LexPortability         Code = 1009

	// Уточнения (refinements)
	LexRefinementTwice   Code = 1100
	LexRefinementUnused  Code = 1101
	LexRefinementApplied Code = 1102
	LexRefinementSyntax  Code = 1103

	// Структурные
	SynInfo             Code = 2000
	SynBracketMismatch  Code = 2001
	SynMissingCloser    Code = 2002
	SynUnexpectedCloser Code = 2003
	SynExpectedNear     Code = 2004
	SynPrematureEnd     Code = 2005
	SynInvalidConstruct Code = 2006
	SynTooDeep          Code = 2007
	SynTooManyErrors    Code = 2008
	SynEmptyClause      Code = 2009
	SynLabelPosition    Code = 2010
	SynStrayToken       Code = 2011

	// Декларации
	DclInfo            Code = 3000
	DclRedefined       Code = 3001
	DclUndeclared      Code = 3002
	DclInvalidOperator Code = 3003
	DclInvalidPriority Code = 3004
	DclNoPriority      Code = 3005
	DclUndeclaredTag   Code = 3006
	DclLabelMisuse     Code = 3007

	// Моды
	ModInfo                Code = 4000
	ModNotWellFormed       Code = 4001
	ModIncoercible         Code = 4002
	ModNoUniqueMode        Code = 4003
	ModNoOperator          Code = 4004
	ModAmbiguousOperator   Code = 4005
	ModArgumentCount       Code = 4006
	ModIndexerCount        Code = 4007
	ModNoField             Code = 4008
	ModNotCallable         Code = 4009
	ModNotSliceable        Code = 4010
	ModVoided              Code = 4011
	ModSpecifierNotInUnion Code = 4012
	ModDenotationRange     Code = 4013
	ModNilContext          Code = 4014
	ModNotAName            Code = 4015
	ModRelatedModes        Code = 4016

	// Области действия
	ScpInfo           Code = 5000
	ScpEscape         Code = 5001
	ScpPossibleEscape Code = 5002
	ScpTransient      Code = 5003

	// Наблюдаемость
	ObsInfo    Code = 6000
	ObsTimings Code = 6001
)

var (
	codeDescription = map[Code]string{
		UnknownCode:            "Unknown error",
		LexInfo:                "Lexical information",
		LexUnworthyChar:        "Unworthy character",
		LexUnterminatedString:  "Unterminated string denotation",
		LexUnterminatedComment: "Unterminated comment",
		LexUnterminatedPragmat: "Unterminated pragmat",
		LexBadDenotation:       "Malformed denotation",
		LexBadFilename:         "Bad file name in pragmat",
		LexUnterminatedFormat:  "Unterminated format text",
		LexPragmatIgnored:      "Pragmat item ignored",
		LexPortability:         "Construct is not portable",
		LexRefinementTwice:     "Refinement defined more than once",
		LexRefinementUnused:    "Refinement is not applied",
		LexRefinementApplied:   "Refinement applied more than once",
		LexRefinementSyntax:    "Malformed refinement definition",
		SynInfo:                "Syntax information",
		SynBracketMismatch:     "Mismatched brackets",
		SynMissingCloser:       "Missing closing symbol",
		SynUnexpectedCloser:    "Unexpected closing symbol",
		SynExpectedNear:        "Expected symbol",
		SynPrematureEnd:        "Premature end of program",
		SynInvalidConstruct:    "Construct cannot be parsed",
		SynTooDeep:             "Program too deeply nested",
		SynTooManyErrors:       "Too many errors",
		SynEmptyClause:         "Empty clause",
		SynLabelPosition:       "Label in wrong position",
		SynStrayToken:          "Stray symbol",
		DclInfo:                "Declaration information",
		DclRedefined:           "Tag declared more than once in a range",
		DclUndeclared:          "Tag has not been declared",
		DclInvalidOperator:     "Invalid operator declaration",
		DclInvalidPriority:     "Invalid priority",
		DclNoPriority:          "Dyadic operator has no priority",
		DclUndeclaredTag:       "Bold tag has not been declared",
		DclLabelMisuse:         "Label misused",
		ModInfo:                "Mode information",
		ModNotWellFormed:       "Mode is not well formed",
		ModIncoercible:         "Value cannot be coerced",
		ModNoUniqueMode:        "No unique mode",
		ModNoOperator:          "No operator found",
		ModAmbiguousOperator:   "Ambiguous operator",
		ModArgumentCount:       "Wrong number of arguments",
		ModIndexerCount:        "Wrong number of indexers",
		ModNoField:             "No such field",
		ModNotCallable:         "Not a procedure",
		ModNotSliceable:        "Not a row",
		ModVoided:              "Value is voided",
		ModSpecifierNotInUnion: "Specifier mode is not in the united mode",
		ModDenotationRange:     "Denotation out of range",
		ModNilContext:          "NIL not in a strong context",
		ModNotAName:            "Destination is not a name",
		ModRelatedModes:        "Related modes in union",
		ScpInfo:                "Scope information",
		ScpEscape:              "Value escapes its scope",
		ScpPossibleEscape:      "Value may escape its scope",
		ScpTransient:           "Transient name stored",
		ObsInfo:                "Observability information",
		ObsTimings:             "Phase timings",
	}
)

func (c Code) ID() string {
	switch ic := int(c); {
	case ic >= 1000 && ic < 2000:
		return fmt.Sprintf("LEX%04d", ic)
	case ic >= 2000 && ic < 3000:
		return fmt.Sprintf("SYN%04d", ic)
	case ic >= 3000 && ic < 4000:
		return fmt.Sprintf("DCL%04d", ic)
	case ic >= 4000 && ic < 5000:
		return fmt.Sprintf("MOD%04d", ic)
	case ic >= 5000 && ic < 6000:
		return fmt.Sprintf("SCP%04d", ic)
	case ic >= 6000 && ic < 7000:
		return fmt.Sprintf("OBS%04d", ic)
	}
	return "E0000"
}

func (c Code) Title() string {
	desc, ok := codeDescription[c]
	if !ok {
		return codeDescription[Code(0)]
	}
	return desc
}

func (c Code) String() string {
	return fmt.Sprintf("[%s]: %s", c.ID(), c.Title())
}
