package source

import (
	"fmt"

	"fortio.org/safecast"
)

// Line is one record of the line loader: the text of a source line (without
// its newline), where it came from and the byte offset of its first character.
// The scanner consumes only this sequence, never the file system.
type Line struct {
	Text   string
	File   FileID
	Path   string
	Number uint32 // 1-based
	Offset uint32 // byte offset of Text[0] inside the file
	// Joined marks a line that continues the previous one after a
	// backslash-newline; the scanner does not see a line break before it.
	Joined bool
}

// Span returns the span of columns [from, to) of the line.
func (l Line) Span(from, to int) Span {
	start, err := safecast.Conv[uint32](from)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	end, err := safecast.Conv[uint32](to)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return Span{File: l.File, Start: l.Offset + start, End: l.Offset + end}
}

// Lines splits a file into loader records. A line whose last character is a
// backslash is continued by the next one: the backslash is dropped and the
// following record is flagged Joined.
func Lines(f *File) []Line {
	if f == nil {
		return nil
	}
	out := make([]Line, 0, len(f.LineIdx)+1)
	var start uint32
	number := uint32(1)
	joined := false
	content := f.Content
	emit := func(end uint32) {
		text := string(content[start:end])
		cont := false
		if n := len(text); n > 0 && text[n-1] == '\\' {
			text = text[:n-1]
			cont = true
		}
		out = append(out, Line{
			Text:   text,
			File:   f.ID,
			Path:   f.Path,
			Number: number,
			Offset: start,
			Joined: joined,
		})
		joined = cont
	}
	for _, nl := range f.LineIdx {
		emit(nl)
		start = nl + 1
		number++
	}
	lenContent, err := safecast.Conv[uint32](len(content))
	if err != nil {
		panic(fmt.Errorf("content length overflow: %w", err))
	}
	if start < lenContent || len(out) == 0 {
		emit(lenContent)
	}
	return out
}
