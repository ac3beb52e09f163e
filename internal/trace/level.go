package trace

import (
	"fmt"
	"strings"
)

// Level controls tracing verbosity. Each level also admits every scope of
// the levels below it.
type Level uint8

const (
	LevelOff    Level = iota // no tracing
	LevelError               // nothing is emitted; the ring is dumped on a crash
	LevelPhase               // compile spans and front-end phases
	LevelDetail              // bracket ranges, refinements, pragmats
	LevelDebug               // per-node events of the parser and checkers
)

var levelNames = [...]string{"off", "error", "phase", "detail", "debug"}

// widest scope admitted by each level; LevelError admits nothing
var levelScopes = [...]Scope{
	LevelPhase:  ScopePass,
	LevelDetail: ScopeRange,
	LevelDebug:  ScopeNode,
}

func (l Level) String() string {
	if int(l) < len(levelNames) {
		return levelNames[l]
	}
	return "unknown"
}

// ParseLevel reads a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	name := strings.ToLower(strings.TrimSpace(s))
	for i, n := range levelNames {
		if n == name {
			return Level(i), nil
		}
	}
	return LevelOff, fmt.Errorf("invalid trace level: %q (expected: %s)", s, strings.Join(levelNames[:], "|"))
}

// ShouldEmit reports whether events of scope pass this level.
func (l Level) ShouldEmit(scope Scope) bool {
	if l < LevelPhase || int(l) >= len(levelScopes) {
		return false
	}
	return scope <= levelScopes[l]
}
