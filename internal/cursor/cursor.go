// Package cursor provides a UTF-8-aware read cursor over source text,
// tracking the current position as a byte offset while peeking and
// advancing by rune. The tokenizer is the sole consumer.
package cursor

import "unicode/utf8"

// Cursor walks a source string one rune at a time while exposing the
// current read position as a byte offset, so tokens can be spanned in
// bytes regardless of how many multi-byte runes they contain.
type Cursor struct {
	src    string
	offset int
}

// New returns a Cursor positioned at the start of src.
func New(src string) *Cursor {
	return &Cursor{src: src}
}

// Peek returns the nth rune ahead of the current position (0 is the next
// rune to be consumed) without advancing, or 0 if that position is at or
// past EOF.
func (c *Cursor) Peek(n int) rune {
	off := c.offset
	var r rune
	for i := 0; i <= n; i++ {
		if off >= len(c.src) {
			return 0
		}
		var size int
		r, size = utf8.DecodeRuneInString(c.src[off:])
		off += size
	}
	return r
}

// Advance consumes and returns the next rune, or 0 if already at EOF.
func (c *Cursor) Advance() rune {
	if c.offset >= len(c.src) {
		return 0
	}
	r, size := utf8.DecodeRuneInString(c.src[c.offset:])
	c.offset += size
	return r
}

// IsEOF reports whether the cursor has consumed the whole source.
func (c *Cursor) IsEOF() bool {
	return c.offset >= len(c.src)
}

// Position returns the current byte offset into the source.
func (c *Cursor) Position() int {
	return c.offset
}

// SkipWhile advances past runes for which predicate returns true, stopping
// at the first rune that fails (or at EOF).
func (c *Cursor) SkipWhile(predicate func(rune) bool) {
	for !c.IsEOF() && predicate(c.Peek(0)) {
		c.Advance()
	}
}

// Slice returns the source bytes in the half-open range [start, end).
func (c *Cursor) Slice(start, end int) string {
	return c.src[start:end]
}

// State is an opaque snapshot of cursor position, used by the tokenizer to
// backtrack when a multi-rune lookahead turns out not to match.
type State struct {
	offset int
}

// Save captures the current position.
func (c *Cursor) Save() State {
	return State{offset: c.offset}
}

// Restore rewinds the cursor to a previously saved position.
func (c *Cursor) Restore(s State) {
	c.offset = s.offset
}
