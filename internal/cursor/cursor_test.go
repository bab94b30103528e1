package cursor

import "testing"

func TestPeekDoesNotAdvance(t *testing.T) {
	c := New("ab")
	if c.Peek(0) != 'a' || c.Peek(1) != 'b' || c.Peek(2) != 0 {
		t.Fatal("peek results wrong")
	}
	if c.Position() != 0 {
		t.Fatalf("peek moved the cursor to %d", c.Position())
	}
}

func TestAdvanceTracksByteOffset(t *testing.T) {
	c := New("aé!")
	if c.Advance() != 'a' || c.Position() != 1 {
		t.Fatalf("after 'a': pos %d", c.Position())
	}
	// é is two bytes in UTF-8; the offset must move by both.
	if c.Advance() != 'é' || c.Position() != 3 {
		t.Fatalf("after 'é': pos %d", c.Position())
	}
	if c.Advance() != '!' || !c.IsEOF() {
		t.Fatal("cursor did not reach EOF")
	}
	if c.Advance() != 0 {
		t.Fatal("advance past EOF must return 0")
	}
}

func TestSkipWhile(t *testing.T) {
	c := New("   abc")
	c.SkipWhile(func(r rune) bool { return r == ' ' })
	if c.Position() != 3 || c.Peek(0) != 'a' {
		t.Fatalf("pos %d", c.Position())
	}
}

func TestSaveRestore(t *testing.T) {
	c := New("abc")
	c.Advance()
	saved := c.Save()
	c.Advance()
	c.Advance()
	c.Restore(saved)
	if c.Position() != 1 || c.Peek(0) != 'b' {
		t.Fatalf("restore landed at %d", c.Position())
	}
}

func TestSlice(t *testing.T) {
	c := New("hello")
	if got := c.Slice(1, 4); got != "ell" {
		t.Fatalf("got %q", got)
	}
}
