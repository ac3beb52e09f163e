// Package diag defines the diagnostic model shared by every front-end phase.
//
// Producers (scanner, parser, mode checker, scope checker) never build final
// user text. They hand a Reporter a Code, a Severity, the primary span and a
// message template with its arguments; rendering lives in internal/diagfmt.
//
// Severities are ordered: Info < Warning < Error < Syntax. Error and Syntax
// count towards the session error ceiling.
//
// Code prefixes follow the error taxonomy:
//
//   - LEX: unworthy characters, unterminated strings/comments/pragmats, refinements
//   - SYN: bracket mismatch, expected keyword, premature end, failed reduction
//   - DCL: redefinition, undeclared tag, invalid operator or priority
//   - MOD: ill-formed modes, incoercible values, operator resolution, counts
//   - SCP: static scope escapes
//   - OBS: timings and other observability output
//
// Bag keeps diagnostics in emission order and can sort them deterministically
// for golden output.
package diag
