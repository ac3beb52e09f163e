package diag

// Severity orders diagnostics; a higher value is worse. Syntax errors rank
// above the others because they stop the semantic phases.
type Severity uint8

const (
	SevInfo Severity = iota // timings and the like
	SevWarning
	SevError  // declaration, mode and scope errors
	SevSyntax // lexical and structural errors
)

var severityNames = [...]string{
	SevInfo:    "INFO",
	SevWarning: "WARNING",
	SevError:   "ERROR",
	SevSyntax:  "SYNTAX_ERROR",
}

func (s Severity) String() string {
	if int(s) < len(severityNames) {
		return severityNames[s]
	}
	return "UNKNOWN"
}

// IsError reports whether s counts towards the error ceiling.
func (s Severity) IsError() bool { return s >= SevError }
