// Package config holds the flat option record read once per compilation.
package config

import (
	"fmt"
	"strings"
)

// Stropping selects how bold words are told apart from identifiers.
type Stropping uint8

const (
	// StropBold: keywords and indicants are written in upper case.
	StropBold Stropping = iota
	// StropQuote: keywords are enclosed in apostrophes, 'BEGIN'.
	StropQuote
)

func (s Stropping) String() string {
	if s == StropQuote {
		return "quote"
	}
	return "bold"
}

// ParseStropping accepts "bold", "upper" and "quote".
func ParseStropping(s string) (Stropping, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "bold", "upper":
		return StropBold, nil
	case "quote":
		return StropQuote, nil
	}
	return StropBold, fmt.Errorf("unknown stropping regime %q", s)
}

const (
	DefaultMaxErrors = 100
	DefaultMaxDepth  = 2000
	// DefaultLongDigits и DefaultLongLongDigits: десятичные цифры для LONG/LONG LONG.
	DefaultLongDigits     = 28
	DefaultLongLongDigits = 63
)

// Options is immutable once a compilation starts; pragmats that change it
// are applied by the scanner to its own copy.
type Options struct {
	Stropping       Stropping
	Brackets        bool
	PortCheck       bool
	Warnings        bool
	TraceReductions bool
	MaxErrors       int
	MaxDepth        int
	LongDigits      int
	LongLongDigits  int
}

func Default() Options {
	return Options{
		Stropping:      StropBold,
		Warnings:       true,
		MaxErrors:      DefaultMaxErrors,
		MaxDepth:       DefaultMaxDepth,
		LongDigits:     DefaultLongDigits,
		LongLongDigits: DefaultLongLongDigits,
	}
}

// Normalize replaces zero limits with defaults.
func (o Options) Normalize() Options {
	if o.MaxErrors <= 0 {
		o.MaxErrors = DefaultMaxErrors
	}
	if o.MaxDepth <= 0 {
		o.MaxDepth = DefaultMaxDepth
	}
	if o.LongDigits <= 0 {
		o.LongDigits = DefaultLongDigits
	}
	if o.LongLongDigits <= o.LongDigits {
		o.LongLongDigits = max(DefaultLongLongDigits, 2*o.LongDigits)
	}
	return o
}

// ApplyPragmat applies one pragmat item. Unknown items return false.
func (o *Options) ApplyPragmat(item string) bool {
	switch strings.ToLower(item) {
	case "quote", "quotestropping":
		o.Stropping = StropQuote
	case "upper", "bold", "upperstropping":
		o.Stropping = StropBold
	case "brackets":
		o.Brackets = true
	case "nobrackets":
		o.Brackets = false
	case "portcheck":
		o.PortCheck = true
	case "noportcheck":
		o.PortCheck = false
	case "warnings":
		o.Warnings = true
	case "nowarnings":
		o.Warnings = false
	case "reductions":
		o.TraceReductions = true
	case "noreductions":
		o.TraceReductions = false
	default:
		return false
	}
	return true
}

// Fingerprint is a stable textual form used as part of cache keys.
func (o Options) Fingerprint() string {
	return fmt.Sprintf("strop=%s brackets=%t port=%t warn=%t red=%t maxerr=%d depth=%d long=%d/%d",
		o.Stropping, o.Brackets, o.PortCheck, o.Warnings, o.TraceReductions,
		o.MaxErrors, o.MaxDepth, o.LongDigits, o.LongLongDigits)
}
