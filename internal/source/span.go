package source

import "strconv"

// Span is a half-open byte range [Start, End) of one file. The zero Span
// stands for "no position" (timing diagnostics, synthetic nodes).
type Span struct {
	File  FileID
	Start uint32
	End   uint32
}

func (s Span) Empty() bool { return s.Start == s.End }

func (s Span) Len() uint32 { return s.End - s.Start }

// String is "file:start-end", used in dumps and test failures.
func (s Span) String() string {
	return strconv.FormatUint(uint64(s.File), 10) + ":" +
		strconv.FormatUint(uint64(s.Start), 10) + "-" +
		strconv.FormatUint(uint64(s.End), 10)
}

func (s Span) isNone() bool { return s.Start == 0 && s.End == 0 }

// Cover is the smallest span holding s and other. A no-position span is
// absorbed; a span of another file leaves s unchanged.
func (s Span) Cover(other Span) Span {
	switch {
	case s.isNone():
		return other
	case other.isNone(), other.File != s.File:
		return s
	}
	return Span{File: s.File, Start: min(s.Start, other.Start), End: max(s.End, other.End)}
}

// Contains reports whether other lies inside s.
func (s Span) Contains(other Span) bool {
	return s.File == other.File && s.Start <= other.Start && other.End <= s.End
}
