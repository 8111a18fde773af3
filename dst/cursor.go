package dst

import "github.com/dellyoung/lessgo/internal/strings"

// Cursor is a byte-offset cursor over LESS source text. It never evaluates
// or interprets what it reads; it only exposes the primitives a recursive
// descent parser needs: peek, advance, match a literal string, skip
// whitespace/comments, and expect a specific character.
type Cursor struct {
	src string
	pos int
}

// NewCursor wraps src for cursor-based scanning starting at offset 0.
func NewCursor(src string) *Cursor {
	return &Cursor{src: src}
}

// Pos returns the current byte offset.
func (c *Cursor) Pos() int { return c.pos }

// Eof reports whether the cursor has consumed the whole source.
func (c *Cursor) Eof() bool { return c.pos >= len(c.src) }

// Peek returns the byte at the cursor without consuming it, or 0 at EOF.
func (c *Cursor) Peek() byte {
	if c.Eof() {
		return 0
	}
	return c.src[c.pos]
}

// PeekAt returns the byte offset bytes ahead of the cursor, or 0 past EOF.
func (c *Cursor) PeekAt(offset int) byte {
	i := c.pos + offset
	if i < 0 || i >= len(c.src) {
		return 0
	}
	return c.src[i]
}

// Advance consumes and returns the current byte.
func (c *Cursor) Advance() byte {
	b := c.src[c.pos]
	c.pos++
	return b
}

// MatchString consumes s if it appears literally at the cursor, reporting
// whether it matched.
func (c *Cursor) MatchString(s string) bool {
	if strings.HasPrefix(c.src[c.pos:], s) {
		c.pos += len(s)
		return true
	}
	return false
}

// Rest returns the unconsumed remainder of the source.
func (c *Cursor) Rest() string { return c.src[c.pos:] }

// Source returns the full source text the cursor was constructed from.
func (c *Cursor) Source() string { return c.src }

// Mark returns a position to later Reset to, for speculative parses.
func (c *Cursor) Mark() int { return c.pos }

// Reset rewinds the cursor to a previously captured Mark.
func (c *Cursor) Reset(mark int) { c.pos = mark }

// SkipWhitespaceAndComments advances past runs of whitespace, "//" line
// comments, and "/* ... */" block comments.
func (c *Cursor) SkipWhitespaceAndComments() {
	for !c.Eof() {
		ch := c.Peek()
		switch {
		case ch == ' ' || ch == '\t' || ch == '\r' || ch == '\n':
			c.pos++
		case ch == '/' && c.PeekAt(1) == '/':
			for !c.Eof() && c.Peek() != '\n' {
				c.pos++
			}
		case ch == '/' && c.PeekAt(1) == '*':
			c.pos += 2
			for !c.Eof() && !(c.Peek() == '*' && c.PeekAt(1) == '/') {
				c.pos++
			}
			if !c.Eof() {
				c.pos += 2
			}
		default:
			return
		}
	}
}

// ExpectChar consumes ch, or returns a ParseError referencing the current
// offset if the next byte does not match.
func (c *Cursor) ExpectChar(ch byte) error {
	if c.Eof() || c.Peek() != ch {
		return &ParseError{Offset: c.pos, Cause: "expected `" + string(ch) + "`"}
	}
	c.pos++
	return nil
}

func isIdentStart(b byte) bool {
	return b == '_' || b == '-' || (b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z')
}

func isIdentChar(b byte) bool {
	return isIdentStart(b) || (b >= '0' && b <= '9')
}

// readIdent reads an identifier (letters, digits, '-', '_') starting at the
// cursor, returning "" if the cursor isn't on an identifier character.
func (c *Cursor) readIdent() string {
	start := c.pos
	for !c.Eof() && isIdentChar(c.Peek()) {
		c.pos++
	}
	return c.src[start:c.pos]
}
