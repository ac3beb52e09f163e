package token

// boldWords maps reserved bold words to their symbols. Upper-stropped words
// are looked up as written; quote-stropped words are upper-cased first.
var boldWords = map[string]Kind{
	"BEGIN":  Begin,
	"END":    End,
	"IF":     If,
	"THEN":   Then,
	"ELIF":   Elif,
	"ELSE":   Else,
	"FI":     Fi,
	"CASE":   Case,
	"IN":     In,
	"OUSE":   Ouse,
	"OUT":    Out,
	"ESAC":   Esac,
	"FOR":    For,
	"FROM":   From,
	"BY":     By,
	"TO":     To,
	"WHILE":  While,
	"DO":     Do,
	"OD":     Od,
	"PROC":   Proc,
	"OP":     Op,
	"PRIO":   Prio,
	"MODE":   ModeSymbol,
	"STRUCT": Struct,
	"UNION":  Union,
	"REF":    Ref,
	"FLEX":   Flex,
	"LONG":   Long,
	"SHORT":  Short,
	"LOC":    Loc,
	"HEAP":   Heap,
	"NIL":    Nil,
	"SKIP":   Skip,
	"GOTO":   Goto,
	"EXIT":   Exit,
	"PAR":    Par,
	"OF":     Of,
	"TRUE":   True,
	"FALSE":  False,
	"EMPTY":  Empty,
	"AT":     At,
	"IS":     Is,
	"ISNT":   Isnt,
}

// LookupBold возвращает символ для зарезервированного жирного слова.
func LookupBold(word string) (Kind, bool) {
	k, ok := boldWords[word]
	return k, ok
}

// Comment and pragmat openers; each closes with the same word.
const (
	WordComment = "COMMENT"
	WordCo      = "CO"
	WordPragmat = "PRAGMAT"
	WordPr      = "PR"
	WordGo      = "GO"
)

// IsCommentWord reports whether w opens a comment.
func IsCommentWord(w string) bool { return w == WordComment || w == WordCo }

// IsPragmatWord reports whether w opens a pragmat.
func IsPragmatWord(w string) bool { return w == WordPragmat || w == WordPr }

// symbolText is the canonical spelling used in diagnostics.
var symbolText = map[Kind]string{
	Equals: "=", Assign: ":=", Is: ":=:", Isnt: ":/=:",
	Open: "(", Close: ")", Sub: "[", Bus: "]", Acco: "{", Occa: "}",
	Comma: ",", Semicolon: ";", Colon: ":", Point: ".", Bar: "|", BarColon: "|:",
	FormatDelimiter: "$",
}

// Spelling returns how k is written in a program.
func Spelling(k Kind) string {
	if s, ok := symbolText[k]; ok {
		return s
	}
	for w, kk := range boldWords {
		if kk == k && w != "AT" && w != "IS" && w != "ISNT" {
			return w
		}
	}
	return k.String()
}
