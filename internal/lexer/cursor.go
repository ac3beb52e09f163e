package lexer

import (
	"fmt"

	"fortio.org/safecast"

	"a68/internal/source"
)

// position is a place in the line sequence.
type position struct {
	li  int
	col int
}

// cursor walks the loader's line records. A line flagged Joined continues
// its predecessor: the scanner sees no line break between them.
type cursor struct {
	lines []source.Line
	li    int
	col   int
}

func newCursor(lines []source.Line) cursor {
	c := cursor{lines: lines}
	c.skipJoined()
	return c
}

func (c *cursor) skipJoined() {
	for c.li+1 < len(c.lines) && c.col >= len(c.lines[c.li].Text) && c.lines[c.li+1].Joined {
		c.li++
		c.col = 0
	}
}

// eof reports whether every line is consumed.
func (c *cursor) eof() bool {
	if c.li >= len(c.lines) {
		return true
	}
	return c.li == len(c.lines)-1 && c.col >= len(c.lines[c.li].Text)
}

// peek returns the current byte, '\n' at a line break and 0 at the end.
func (c *cursor) peek() byte {
	if c.eof() {
		return 0
	}
	text := c.lines[c.li].Text
	if c.col >= len(text) {
		return '\n'
	}
	return text[c.col]
}

// peekAt looks n bytes ahead within the current line.
func (c *cursor) peekAt(n int) byte {
	if c.li >= len(c.lines) {
		return 0
	}
	text := c.lines[c.li].Text
	switch {
	case c.col+n < len(text):
		return text[c.col+n]
	case c.col+n == len(text) && c.li+1 < len(c.lines):
		return '\n'
	}
	return 0
}

// bump consumes one byte, or the line break.
func (c *cursor) bump() byte {
	if c.eof() {
		return 0
	}
	text := c.lines[c.li].Text
	if c.col >= len(text) {
		c.li++
		c.col = 0
		c.skipJoined()
		return '\n'
	}
	b := text[c.col]
	c.col++
	c.skipJoined()
	return b
}

// eat consumes b if it is next.
func (c *cursor) eat(b byte) bool {
	if c.peek() == b && b != 0 {
		c.bump()
		return true
	}
	return false
}

// rest returns the unread part of the current line.
func (c *cursor) rest() string {
	if c.li >= len(c.lines) {
		return ""
	}
	text := c.lines[c.li].Text
	if c.col >= len(text) {
		return ""
	}
	return text[c.col:]
}

// advance skips n bytes of the current line.
func (c *cursor) advance(n int) {
	c.col += n
	c.skipJoined()
}

func (c *cursor) mark() position { return position{li: c.li, col: c.col} }

func (c *cursor) reset(p position) { c.li, c.col = p.li, p.col }

func offset(line source.Line, col int) uint32 {
	v, err := safecast.Conv[uint32](col)
	if err != nil {
		panic(fmt.Errorf("column overflow: %w", err))
	}
	return line.Offset + v
}

// spanFrom covers the text from p to the cursor.
func (c *cursor) spanFrom(p position) source.Span {
	if p.li >= len(c.lines) {
		return source.Span{}
	}
	first := c.lines[p.li]
	sp := source.Span{File: first.File, Start: offset(first, p.col)}
	endLine, endCol := c.li, c.col
	if endLine >= len(c.lines) {
		endLine = len(c.lines) - 1
		endCol = len(c.lines[endLine].Text)
	}
	last := c.lines[endLine]
	if last.File != first.File {
		last, endCol = first, len(first.Text)
	}
	sp.End = offset(last, endCol)
	if sp.End < sp.Start {
		sp.End = sp.Start
	}
	return sp
}

// lineOf returns the line number of p.
func (c *cursor) lineOf(p position) uint32 {
	if p.li >= len(c.lines) {
		if len(c.lines) == 0 {
			return 0
		}
		return c.lines[len(c.lines)-1].Number
	}
	return c.lines[p.li].Number
}
