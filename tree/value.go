package tree

import (
	"bytes"
	"math"
	"slices"

	"github.com/altpersona/nwn-gff-service/format"
)

// Value is the payload of a field. The concrete type selects the field type:
//
//	Byte, Char, Word, Short, Dword, Int, Dword64, Int64, Float, Double,
//	String, ResRef, *LocString, Void, *Struct, List
//
// Value is sealed; only the types in this package implement it.
type Value interface {
	// Type returns the GFF field type of the value.
	Type() format.FieldType
	isValue()
}

type (
	Byte    uint8   // Byte is an unsigned 8-bit field.
	Char    int8    // Char is a signed 8-bit field.
	Word    uint16  // Word is an unsigned 16-bit field.
	Short   int16   // Short is a signed 16-bit field.
	Dword   uint32  // Dword is an unsigned 32-bit field.
	Int     int32   // Int is a signed 32-bit field.
	Dword64 uint64  // Dword64 is an unsigned 64-bit field.
	Int64   int64   // Int64 is a signed 64-bit field.
	Float   float32 // Float is a 32-bit float field.
	Double  float64 // Double is a 64-bit float field.
	String  string  // String is a length-prefixed string field.
	ResRef  string  // ResRef is a resource reference of at most 16 bytes.
	Void    []byte  // Void is an opaque binary field.
	List    []*Struct
)

// LocSubstring is one language variant of a localized string.
type LocSubstring struct {
	Language uint32
	// Gender is 0 for masculine/neutral text and 1 for feminine text.
	Gender uint8
	Text   string
}

// LocString is a localized string: a talk-table reference plus zero or more
// embedded language variants.
type LocString struct {
	// StrRef is the talk-table string reference, 0xFFFFFFFF when unused.
	StrRef     uint32
	Substrings []LocSubstring
}

func (Byte) Type() format.FieldType       { return format.FieldByte }
func (Char) Type() format.FieldType       { return format.FieldChar }
func (Word) Type() format.FieldType       { return format.FieldWord }
func (Short) Type() format.FieldType      { return format.FieldShort }
func (Dword) Type() format.FieldType      { return format.FieldDword }
func (Int) Type() format.FieldType        { return format.FieldInt }
func (Dword64) Type() format.FieldType    { return format.FieldDword64 }
func (Int64) Type() format.FieldType      { return format.FieldInt64 }
func (Float) Type() format.FieldType      { return format.FieldFloat }
func (Double) Type() format.FieldType     { return format.FieldDouble }
func (String) Type() format.FieldType     { return format.FieldString }
func (ResRef) Type() format.FieldType     { return format.FieldResRef }
func (*LocString) Type() format.FieldType { return format.FieldLocString }
func (Void) Type() format.FieldType       { return format.FieldVoid }
func (*Struct) Type() format.FieldType    { return format.FieldStruct }
func (List) Type() format.FieldType       { return format.FieldList }

func (Byte) isValue()       {}
func (Char) isValue()       {}
func (Word) isValue()       {}
func (Short) isValue()      {}
func (Dword) isValue()      {}
func (Int) isValue()        {}
func (Dword64) isValue()    {}
func (Int64) isValue()      {}
func (Float) isValue()      {}
func (Double) isValue()     {}
func (String) isValue()     {}
func (ResRef) isValue()     {}
func (*LocString) isValue() {}
func (Void) isValue()       {}
func (*Struct) isValue()    {}
func (List) isValue()       {}

// Equal reports whether two values have the same type and payload. Floats
// compare by bit pattern, so NaN equals NaN and 0 differs from -0.
func Equal(a, b Value) bool {
	if a == nil || b == nil {
		return a == nil && b == nil
	}
	if a.Type() != b.Type() {
		return false
	}

	switch av := a.(type) {
	case Float:
		return math.Float32bits(float32(av)) == math.Float32bits(float32(b.(Float)))
	case Double:
		return math.Float64bits(float64(av)) == math.Float64bits(float64(b.(Double)))
	case Void:
		return bytes.Equal(av, b.(Void))
	case *LocString:
		return av.Equal(b.(*LocString))
	case *Struct:
		return av.Equal(b.(*Struct))
	case List:
		return slices.EqualFunc(av, b.(List), func(x, y *Struct) bool { return x.Equal(y) })
	default:
		return a == b
	}
}

// Equal reports whether two localized strings carry the same reference and
// the same substrings in the same order.
func (l *LocString) Equal(o *LocString) bool {
	if l == nil || o == nil {
		return l == o
	}

	return l.StrRef == o.StrRef && slices.Equal(l.Substrings, o.Substrings)
}

// StringID packs language and gender the way the file format stores them:
// language*2 + gender.
func (s LocSubstring) StringID() uint32 {
	return s.Language<<1 | uint32(s.Gender&1)
}

// SplitStringID is the inverse of LocSubstring.StringID.
func SplitStringID(id uint32) (language uint32, gender uint8) {
	return id >> 1, uint8(id & 1)
}
