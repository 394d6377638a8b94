package objfile

import (
	"fmt"
	"math"
)

// Cursor walks a segment's word stream. Reads past the end or of the wrong
// word kind record an error and return zero values, so decoders can parse a
// whole structure and check Err once at the end.
type Cursor struct {
	words []Word
	pos   int
	err   error
}

// NewCursor returns a cursor over segment seg of the file.
func NewCursor(f *File, seg int) (*Cursor, error) {
	if seg < 0 || seg >= len(f.WordsBySeg) {
		return nil, fmt.Errorf("objfile: segment %d out of range (have %d)", seg, len(f.WordsBySeg))
	}
	return &Cursor{words: f.WordsBySeg[seg]}, nil
}

func (c *Cursor) fail(format string, args ...any) {
	if c.err == nil {
		c.err = fmt.Errorf("objfile: "+format, args...)
	}
}

// U32 reads one plain data word.
func (c *Cursor) U32() uint32 {
	if c.pos >= len(c.words) {
		c.fail("read past end of segment at word %d", c.pos)
		return 0
	}
	w := c.words[c.pos]
	c.pos++
	if w.Kind != WordPlain {
		c.fail("expected data word at %d, got %v", c.pos-1, w.Kind)
		return 0
	}
	return w.Data
}

func (c *Cursor) I32() int32 { return int32(c.U32()) }

func (c *Cursor) F32() float32 { return math.Float32frombits(c.U32()) }

// TypeTag reads one type-pointer word and returns the referenced type name.
func (c *Cursor) TypeTag() string {
	if c.pos >= len(c.words) {
		c.fail("read past end of segment at word %d", c.pos)
		return ""
	}
	w := c.words[c.pos]
	c.pos++
	if w.Kind != WordTypePointer {
		c.fail("expected type pointer at word %d", c.pos-1)
		return ""
	}
	return w.Symbol
}

// Skip advances past n words.
func (c *Cursor) Skip(n int) {
	if c.pos+n > len(c.words) {
		c.fail("skip of %d words past end of segment at word %d", n, c.pos)
		c.pos = len(c.words)
		return
	}
	c.pos += n
}

// Remaining reports how many words are left.
func (c *Cursor) Remaining() int { return len(c.words) - c.pos }

// Err returns the first read error, if any.
func (c *Cursor) Err() error { return c.err }
