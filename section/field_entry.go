package section

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
)

// FieldEntry is one 12-byte entry of the field table.
//
// DataOrOffset holds the value itself for inline types, a byte offset into
// the field-data region for dword64/int64/double/string/resref/locstring/void,
// a struct index for struct fields, or a byte offset into the list-indices
// region for list fields. Slot decodes that choice.
type FieldEntry struct {
	// Type is the field type tag.
	Type format.FieldType // 4 bytes, offset 0-3
	// LabelIndex is the position of the field's label in the label table.
	LabelIndex uint32 // 4 bytes, offset 4-7
	// DataOrOffset is an inline value, an offset or a struct index.
	DataOrOffset uint32 // 4 bytes, offset 8-11
}

// FieldSlot is the typed meaning of FieldEntry.DataOrOffset.
// It is one of InlineValue, FieldDataOffset, StructRef or ListOffset.
type FieldSlot interface {
	fieldSlot()
}

// InlineValue is the raw 4-byte value of an inline field.
type InlineValue struct {
	Raw uint32
}

// FieldDataOffset is a byte offset into the field-data region.
type FieldDataOffset struct {
	Offset uint32
}

// StructRef is the index of a child struct in the struct table.
type StructRef struct {
	Index uint32
}

// ListOffset is a byte offset into the list-indices region.
type ListOffset struct {
	Offset uint32
}

func (InlineValue) fieldSlot()     {}
func (FieldDataOffset) fieldSlot() {}
func (StructRef) fieldSlot()       {}
func (ListOffset) fieldSlot()      {}

// NewFieldEntry builds an entry from a type, a label index and a typed slot.
func NewFieldEntry(t format.FieldType, labelIndex uint32, slot FieldSlot) FieldEntry {
	e := FieldEntry{Type: t, LabelIndex: labelIndex}
	switch s := slot.(type) {
	case InlineValue:
		e.DataOrOffset = s.Raw
	case FieldDataOffset:
		e.DataOrOffset = s.Offset
	case StructRef:
		e.DataOrOffset = s.Index
	case ListOffset:
		e.DataOrOffset = s.Offset
	}

	return e
}

// Slot returns the typed meaning of DataOrOffset, selected by Type.
//
// Returns:
//   - error: ErrUnknownFieldType if Type is not a defined field type
func (e FieldEntry) Slot() (FieldSlot, error) {
	switch {
	case !e.Type.IsValid():
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownFieldType, uint32(e.Type))
	case e.Type.IsInline():
		return InlineValue{Raw: e.DataOrOffset}, nil
	case e.Type == format.FieldStruct:
		return StructRef{Index: e.DataOrOffset}, nil
	case e.Type == format.FieldList:
		return ListOffset{Offset: e.DataOrOffset}, nil
	default:
		return FieldDataOffset{Offset: e.DataOrOffset}, nil
	}
}

// WriteToSlice writes the entry to a byte slice using the specified endian engine.
// The slice must be at least 12 bytes long.
func (e FieldEntry) WriteToSlice(b []byte, engine endian.EndianEngine) error {
	if len(b) < FieldEntrySize {
		return errs.ErrInvalidEntrySize
	}

	engine.PutUint32(b[0:4], uint32(e.Type))
	engine.PutUint32(b[4:8], e.LabelIndex)
	engine.PutUint32(b[8:12], e.DataOrOffset)

	return nil
}

// ParseFieldEntry parses a field entry from a byte slice. The type tag is not
// validated here; Slot reports unknown types.
func ParseFieldEntry(data []byte, engine endian.EndianEngine) (FieldEntry, error) {
	if len(data) < FieldEntrySize {
		return FieldEntry{}, errs.ErrInvalidEntrySize
	}

	return FieldEntry{
		Type:         format.FieldType(engine.Uint32(data[0:4])),
		LabelIndex:   engine.Uint32(data[4:8]),
		DataOrOffset: engine.Uint32(data[8:12]),
	}, nil
}
