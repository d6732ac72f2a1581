// Package nbt implements the typed, self-describing tag tree used for
// container contents, along with its gzip-framed wire form.
package nbt

import (
	"errors"
	"fmt"
)

// TagType is the one-byte type code preceding every tag.
type TagType byte

const (
	TagEnd TagType = iota
	TagByte
	TagShort
	TagInt
	TagLong
	TagFloat
	TagDouble
	TagByteArray
	TagString
	TagList
	TagCompound
)

var tagNames = [...]string{
	TagEnd:       "TAG_End",
	TagByte:      "TAG_Byte",
	TagShort:     "TAG_Short",
	TagInt:       "TAG_Int",
	TagLong:      "TAG_Long",
	TagFloat:     "TAG_Float",
	TagDouble:    "TAG_Double",
	TagByteArray: "TAG_Byte_Array",
	TagString:    "TAG_String",
	TagList:      "TAG_List",
	TagCompound:  "TAG_Compound",
}

func (t TagType) String() string {
	if int(t) < len(tagNames) {
		return tagNames[t]
	}
	return fmt.Sprintf("TagType(%d)", byte(t))
}

var (
	ErrUnknownTag = errors.New("nbt: unknown tag type")
	ErrTruncated  = errors.New("nbt: truncated data")
	ErrTooDeep    = errors.New("nbt: nesting too deep")
	ErrTooLarge   = errors.New("nbt: decompressed payload exceeds limit")
	ErrNegative   = errors.New("nbt: negative length")
)

// Tag is any node of the tree.
type Tag interface {
	Type() TagType
}

type (
	Byte      int8
	Short     int16
	Int       int32
	Long      int64
	Float     float32
	Double    float64
	ByteArray []byte
	String    string
)

// List holds unnamed tags that all share Elem.
type List struct {
	Elem  TagType
	Items []Tag
}

// Compound maps names to child tags. Children are owned by the compound.
type Compound map[string]Tag

func (Byte) Type() TagType      { return TagByte }
func (Short) Type() TagType     { return TagShort }
func (Int) Type() TagType       { return TagInt }
func (Long) Type() TagType      { return TagLong }
func (Float) Type() TagType     { return TagFloat }
func (Double) Type() TagType    { return TagDouble }
func (ByteArray) Type() TagType { return TagByteArray }
func (String) Type() TagType    { return TagString }
func (*List) Type() TagType     { return TagList }
func (Compound) Type() TagType  { return TagCompound }

// Compound returns the named child compound, if present.
func (c Compound) Compound(name string) (Compound, bool) {
	v, ok := c[name].(Compound)
	return v, ok
}

// List returns the named child list, if present.
func (c Compound) List(name string) (*List, bool) {
	v, ok := c[name].(*List)
	return v, ok
}
