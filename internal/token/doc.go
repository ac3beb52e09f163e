// Package token defines the syntactic categories of the front end.
//
// One Kind enumeration covers both scanner terminals and the nonterminals
// the parser builds, because tree nodes are retagged in place as parsing
// proceeds. Allowed retaggings are listed in transition.go.
//
// Invariants:
//   - Identifier text never contains blanks ("max int" -> "maxint").
//   - Bold words are upper case regardless of stropping regime.
//   - Comments and pragmats never reach the token stream.
package token
