package protocol

import (
	"encoding/binary"
	"fmt"
	"math"
	"unicode/utf16"
)

// Buffer holds the bytes received on one connection that have not yet been
// consumed as complete packets.
type Buffer struct {
	data []byte
	gen  uint64
}

// Append adds freshly received bytes to the end of the buffer.
func (b *Buffer) Append(p []byte) {
	b.data = append(b.data, p...)
}

// Len returns the number of unconsumed bytes.
func (b *Buffer) Len() int { return len(b.data) }

// Bytes returns the unconsumed bytes. The slice is only valid until the next
// Append or Consume.
func (b *Buffer) Bytes() []byte { return b.data }

// HaveData reports whether at least n bytes are buffered.
func (b *Buffer) HaveData(n int) bool { return len(b.data) >= n }

// Cursor returns a fresh read cursor positioned at the start of the buffer.
func (b *Buffer) Cursor() *Cursor {
	return &Cursor{buf: b, gen: b.gen, valid: true}
}

// Consume drops the bytes covered by m from the front of the buffer. A mark
// can only be obtained from a cursor that stayed valid, and it is spent by
// the first Consume.
func (b *Buffer) Consume(m Mark) {
	if m.buf != b || m.gen != b.gen {
		panic("protocol: stale or foreign mark")
	}
	n := copy(b.data, b.data[m.n:])
	b.data = b.data[:n]
	b.gen++
}

// Mark proves that a cursor read n bytes without running out of data.
type Mark struct {
	buf *Buffer
	gen uint64
	n   int
}

// Len is the number of bytes the mark will consume.
func (m Mark) Len() int { return m.n }

// Cursor reads typed big-endian fields from a Buffer without consuming them.
// The first read that runs past the buffered bytes poisons the cursor; every
// later read is a no-op returning the zero value, so callers may read a whole
// packet and check Valid once.
type Cursor struct {
	buf   *Buffer
	gen   uint64
	pos   int
	valid bool
	err   error
}

// Valid reports whether every read so far found enough bytes.
func (c *Cursor) Valid() bool { return c.valid && c.err == nil }

// Err returns the structural violation seen while reading, if any.
func (c *Cursor) Err() error { return c.err }

// Pos returns the number of bytes read so far.
func (c *Cursor) Pos() int { return c.pos }

// Mark returns a commit token covering everything read so far. It fails if
// the cursor is poisoned.
func (c *Cursor) Mark() (Mark, bool) {
	if !c.Valid() {
		return Mark{}, false
	}
	return Mark{buf: c.buf, gen: c.gen, n: c.pos}, true
}

func (c *Cursor) fail(err error) {
	if c.err == nil {
		c.err = err
	}
}

func (c *Cursor) take(n int) []byte {
	if !c.Valid() {
		return nil
	}
	if n < 0 || c.pos+n > len(c.buf.data) {
		c.valid = false
		return nil
	}
	p := c.buf.data[c.pos : c.pos+n]
	c.pos += n
	return p
}

// Uint8 reads one unsigned byte.
func (c *Cursor) Uint8() uint8 {
	p := c.take(1)
	if p == nil {
		return 0
	}
	return p[0]
}

// Int8 reads one signed byte.
func (c *Cursor) Int8() int8 { return int8(c.Uint8()) }

// Bool reads one byte; any non-zero value is true.
func (c *Cursor) Bool() bool { return c.Uint8() != 0 }

// Int16 reads a big-endian int16.
func (c *Cursor) Int16() int16 {
	p := c.take(2)
	if p == nil {
		return 0
	}
	return int16(binary.BigEndian.Uint16(p))
}

// Int32 reads a big-endian int32.
func (c *Cursor) Int32() int32 {
	p := c.take(4)
	if p == nil {
		return 0
	}
	return int32(binary.BigEndian.Uint32(p))
}

// Int64 reads a big-endian int64.
func (c *Cursor) Int64() int64 {
	p := c.take(8)
	if p == nil {
		return 0
	}
	return int64(binary.BigEndian.Uint64(p))
}

// Float32 reads a big-endian IEEE 754 float32.
func (c *Cursor) Float32() float32 {
	p := c.take(4)
	if p == nil {
		return 0
	}
	return math.Float32frombits(binary.BigEndian.Uint32(p))
}

// Float64 reads a big-endian IEEE 754 float64.
func (c *Cursor) Float64() float64 {
	p := c.take(8)
	if p == nil {
		return 0
	}
	return math.Float64frombits(binary.BigEndian.Uint64(p))
}

// Bytes returns a copy of the next n bytes.
func (c *Cursor) Bytes(n int) []byte {
	if n < 0 {
		c.fail(fmt.Errorf("%w: byte length %d", ErrInvalidField, n))
		return nil
	}
	p := c.take(n)
	if p == nil {
		return nil
	}
	out := make([]byte, n)
	copy(out, p)
	return out
}

// String16 reads an int16 count of UTF-16 code units followed by the units.
func (c *Cursor) String16() string {
	n := c.Int16()
	if !c.Valid() {
		return ""
	}
	if n < 0 {
		c.fail(fmt.Errorf("%w: %d", ErrBadString, n))
		return ""
	}
	p := c.take(int(n) * 2)
	if p == nil {
		return ""
	}
	return decodeUTF16(p)
}

func decodeUTF16(p []byte) string {
	units := make([]uint16, len(p)/2)
	for i := range units {
		units[i] = binary.BigEndian.Uint16(p[i*2:])
	}
	return string(utf16.Decode(units))
}
