package enumscan

import "fmt"

// Cursor walks a flat token slice. Peeking past the end is not an error;
// moving onto a token that does not exist is.
type Cursor struct {
	tokens []string
	pos    int
}

// NewCursor returns a cursor positioned on the first token.
func NewCursor(tokens []string) *Cursor {
	return &Cursor{tokens: tokens}
}

// Pos returns the index of the current token.
func (c *Cursor) Pos() int { return c.pos }

// Done reports whether the cursor has moved past the last token.
func (c *Cursor) Done() bool { return c.pos >= len(c.tokens) }

// Current returns the token under the cursor.
func (c *Cursor) Current() (string, bool) {
	return c.Peek(0)
}

// Peek returns the token n positions ahead of the cursor without moving it.
func (c *Cursor) Peek(n int) (string, bool) {
	idx := c.pos + n
	if idx < 0 || idx >= len(c.tokens) {
		return "", false
	}
	return c.tokens[idx], true
}

// Advance moves the cursor n tokens forward.
func (c *Cursor) Advance(n int) {
	c.pos += n
}

// Next moves one token forward and returns the token landed on.
func (c *Cursor) Next() (string, error) {
	c.pos++
	tok, ok := c.Current()
	if !ok {
		return "", fmt.Errorf("%w: need token %d of %d", ErrUnexpectedEOF, c.pos+1, len(c.tokens))
	}
	return tok, nil
}

// expectCurrent returns the current token or ErrUnexpectedEOF.
func (c *Cursor) expectCurrent() (string, error) {
	tok, ok := c.Current()
	if !ok {
		return "", fmt.Errorf("%w: need token %d of %d", ErrUnexpectedEOF, c.pos+1, len(c.tokens))
	}
	return tok, nil
}
