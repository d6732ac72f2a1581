package protocol

import (
	"bytes"
	"encoding/binary"
	"math"
	"unicode/utf16"
)

// Writer accumulates the big-endian fields of an outbound packet.
type Writer struct {
	buf bytes.Buffer
}

// Bytes returns the encoded packet.
func (w *Writer) Bytes() []byte { return w.buf.Bytes() }

// Len returns the number of bytes written.
func (w *Writer) Len() int { return w.buf.Len() }

// Uint8 writes one unsigned byte.
func (w *Writer) Uint8(v uint8) { w.buf.WriteByte(v) }

// Int8 writes one signed byte.
func (w *Writer) Int8(v int8) { w.buf.WriteByte(byte(v)) }

// Bool writes 1 for true and 0 for false.
func (w *Writer) Bool(v bool) {
	if v {
		w.buf.WriteByte(1)
		return
	}
	w.buf.WriteByte(0)
}

// Int16 writes v big-endian.
func (w *Writer) Int16(v int16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], uint16(v))
	w.buf.Write(b[:])
}

// Int32 writes v big-endian.
func (w *Writer) Int32(v int32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], uint32(v))
	w.buf.Write(b[:])
}

// Int64 writes v big-endian.
func (w *Writer) Int64(v int64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], uint64(v))
	w.buf.Write(b[:])
}

// Float32 writes v as a big-endian IEEE 754 float32.
func (w *Writer) Float32(v float32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], math.Float32bits(v))
	w.buf.Write(b[:])
}

// Float64 writes v as a big-endian IEEE 754 float64.
func (w *Writer) Float64(v float64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], math.Float64bits(v))
	w.buf.Write(b[:])
}

// Raw writes p unchanged.
func (w *Writer) Raw(p []byte) { w.buf.Write(p) }

// String16 writes s as an int16 count of UTF-16 code units followed by the
// big-endian units. Strings longer than 32767 units are truncated.
func (w *Writer) String16(s string) {
	units := utf16.Encode([]rune(s))
	if len(units) > math.MaxInt16 {
		units = units[:math.MaxInt16]
	}
	w.Int16(int16(len(units)))
	for _, u := range units {
		var b [2]byte
		binary.BigEndian.PutUint16(b[:], u)
		w.buf.Write(b[:])
	}
}
