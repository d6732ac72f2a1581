package nbt

import (
	"bufio"
	"encoding/binary"
	"fmt"
	"io"
	"math"
	"sort"
)

type encoder struct {
	w   *bufio.Writer
	err error
}

func (e *encoder) raw(p []byte) {
	if e.err == nil {
		_, e.err = e.w.Write(p)
	}
}

func (e *encoder) u8(v byte) { e.raw([]byte{v}) }

func (e *encoder) u16(v uint16) {
	var b [2]byte
	binary.BigEndian.PutUint16(b[:], v)
	e.raw(b[:])
}

func (e *encoder) u32(v uint32) {
	var b [4]byte
	binary.BigEndian.PutUint32(b[:], v)
	e.raw(b[:])
}

func (e *encoder) u64(v uint64) {
	var b [8]byte
	binary.BigEndian.PutUint64(b[:], v)
	e.raw(b[:])
}

func (e *encoder) str(s string) {
	if len(s) > math.MaxUint16 {
		e.fail(fmt.Errorf("nbt: string of %d bytes too long", len(s)))
		return
	}
	e.u16(uint16(len(s)))
	e.raw([]byte(s))
}

func (e *encoder) fail(err error) {
	if e.err == nil {
		e.err = err
	}
}

func (e *encoder) payload(t Tag) {
	switch v := t.(type) {
	case Byte:
		e.u8(byte(v))
	case Short:
		e.u16(uint16(v))
	case Int:
		e.u32(uint32(v))
	case Long:
		e.u64(uint64(v))
	case Float:
		e.u32(math.Float32bits(float32(v)))
	case Double:
		e.u64(math.Float64bits(float64(v)))
	case ByteArray:
		e.u32(uint32(len(v)))
		e.raw(v)
	case String:
		e.str(string(v))
	case *List:
		e.u8(byte(v.Elem))
		e.u32(uint32(len(v.Items)))
		for _, item := range v.Items {
			if item.Type() != v.Elem {
				e.fail(fmt.Errorf("nbt: %s in list of %s", item.Type(), v.Elem))
				return
			}
			e.payload(item)
		}
	case Compound:
		names := make([]string, 0, len(v))
		for name := range v {
			names = append(names, name)
		}
		sort.Strings(names)
		for _, name := range names {
			child := v[name]
			e.u8(byte(child.Type()))
			e.str(name)
			e.payload(child)
		}
		e.u8(byte(TagEnd))
	default:
		e.fail(fmt.Errorf("nbt: cannot encode %T", t))
	}
}

// Write encodes root as a named compound. Children are written in name order
// so equal trees encode to equal bytes.
func Write(w io.Writer, name string, root Compound) error {
	e := &encoder{w: bufio.NewWriter(w)}
	e.u8(byte(TagCompound))
	e.str(name)
	e.payload(root)
	if e.err != nil {
		return e.err
	}
	return e.w.Flush()
}
