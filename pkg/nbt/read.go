package nbt

import (
	"encoding/binary"
	"fmt"
	"math"
)

// MaxDepth bounds compound/list nesting while parsing.
const MaxDepth = 512

type decoder struct {
	data  []byte
	pos   int
	depth int
}

func (d *decoder) next(n int) ([]byte, error) {
	if n < 0 {
		return nil, ErrNegative
	}
	if d.pos+n > len(d.data) {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d", ErrTruncated, n, d.pos)
	}
	p := d.data[d.pos : d.pos+n]
	d.pos += n
	return p, nil
}

func (d *decoder) u8() (byte, error) {
	p, err := d.next(1)
	if err != nil {
		return 0, err
	}
	return p[0], nil
}

func (d *decoder) u16() (uint16, error) {
	p, err := d.next(2)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint16(p), nil
}

func (d *decoder) u32() (uint32, error) {
	p, err := d.next(4)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint32(p), nil
}

func (d *decoder) u64() (uint64, error) {
	p, err := d.next(8)
	if err != nil {
		return 0, err
	}
	return binary.BigEndian.Uint64(p), nil
}

func (d *decoder) str() (string, error) {
	n, err := d.u16()
	if err != nil {
		return "", err
	}
	p, err := d.next(int(n))
	if err != nil {
		return "", err
	}
	return string(p), nil
}

func (d *decoder) payload(t TagType) (Tag, error) {
	switch t {
	case TagByte:
		v, err := d.u8()
		return Byte(int8(v)), err
	case TagShort:
		v, err := d.u16()
		return Short(int16(v)), err
	case TagInt:
		v, err := d.u32()
		return Int(int32(v)), err
	case TagLong:
		v, err := d.u64()
		return Long(int64(v)), err
	case TagFloat:
		v, err := d.u32()
		return Float(math.Float32frombits(v)), err
	case TagDouble:
		v, err := d.u64()
		return Double(math.Float64frombits(v)), err
	case TagByteArray:
		n, err := d.u32()
		if err != nil {
			return nil, err
		}
		p, err := d.next(int(int32(n)))
		if err != nil {
			return nil, err
		}
		return ByteArray(append([]byte(nil), p...)), nil
	case TagString:
		s, err := d.str()
		return String(s), err
	case TagList:
		return d.list()
	case TagCompound:
		return d.compound()
	default:
		return nil, fmt.Errorf("%w: %d", ErrUnknownTag, byte(t))
	}
}

func (d *decoder) enter() error {
	d.depth++
	if d.depth > MaxDepth {
		return ErrTooDeep
	}
	return nil
}

func (d *decoder) list() (*List, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	elem, err := d.u8()
	if err != nil {
		return nil, err
	}
	n, err := d.u32()
	if err != nil {
		return nil, err
	}
	count := int(int32(n))
	if count < 0 {
		return nil, ErrNegative
	}
	// the capacity hint is bounded by the input left
	l := &List{Elem: TagType(elem), Items: make([]Tag, 0, min(count, len(d.data)-d.pos))}
	if count == 0 {
		return l, nil
	}
	if TagType(elem) == TagEnd {
		return nil, fmt.Errorf("%w: non-empty list of TAG_End", ErrUnknownTag)
	}
	for i := 0; i < count; i++ {
		tag, err := d.payload(l.Elem)
		if err != nil {
			return nil, err
		}
		l.Items = append(l.Items, tag)
	}
	return l, nil
}

func (d *decoder) compound() (Compound, error) {
	if err := d.enter(); err != nil {
		return nil, err
	}
	defer func() { d.depth-- }()

	c := Compound{}
	for {
		t, err := d.u8()
		if err != nil {
			return nil, err
		}
		if TagType(t) == TagEnd {
			return c, nil
		}
		name, err := d.str()
		if err != nil {
			return nil, err
		}
		tag, err := d.payload(TagType(t))
		if err != nil {
			return nil, fmt.Errorf("%q: %w", name, err)
		}
		c[name] = tag
	}
}

// ReadCompound parses a compound payload (the children and the closing
// TAG_End, without the leading type byte and name) from data. It returns the
// compound and the number of bytes used.
func ReadCompound(data []byte) (Compound, int, error) {
	d := &decoder{data: data}
	c, err := d.compound()
	if err != nil {
		return nil, d.pos, err
	}
	return c, d.pos, nil
}

// Read parses one complete named root tag, which must be a compound.
func Read(data []byte) (string, Compound, error) {
	d := &decoder{data: data}
	t, err := d.u8()
	if err != nil {
		return "", nil, err
	}
	if TagType(t) != TagCompound {
		return "", nil, fmt.Errorf("nbt: root is %s, want TAG_Compound", TagType(t))
	}
	name, err := d.str()
	if err != nil {
		return "", nil, err
	}
	c, err := d.compound()
	if err != nil {
		return "", nil, err
	}
	return name, c, nil
}
