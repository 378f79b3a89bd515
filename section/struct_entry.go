package section

import (
	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
)

// StructEntry is one 12-byte entry of the struct table.
//
// The meaning of DataOrOffset depends on FieldCount:
//
//	FieldCount == 0   no fields, DataOrOffset is ignored
//	FieldCount == 1   DataOrOffset is the index of the single field
//	FieldCount  > 1   DataOrOffset is a byte offset into the field-indices
//	                  region where FieldCount uint32 field indices start
//
// Use Slot to get that meaning as a typed value instead of reinterpreting
// the raw word.
type StructEntry struct {
	// ID is the struct type id, opaque to the codec.
	ID uint32 // 4 bytes, offset 0-3
	// DataOrOffset is a field index or a field-indices byte offset.
	DataOrOffset uint32 // 4 bytes, offset 4-7
	// FieldCount is the number of fields in the struct.
	FieldCount uint32 // 4 bytes, offset 8-11
}

// StructSlot is the typed meaning of StructEntry.DataOrOffset.
// It is one of NoFields, SingleField or IndexedFields.
type StructSlot interface {
	structSlot()
}

// NoFields is the slot of a struct without fields.
type NoFields struct{}

// SingleField is the slot of a struct with exactly one field.
type SingleField struct {
	FieldIndex uint32
}

// IndexedFields is the slot of a struct with more than one field.
type IndexedFields struct {
	// Offset is the byte offset into the field-indices region.
	Offset uint32
	// Count is the number of field indices stored there.
	Count uint32
}

func (NoFields) structSlot()      {}
func (SingleField) structSlot()   {}
func (IndexedFields) structSlot() {}

// NewStructEntry builds an entry from a struct id and a typed slot.
func NewStructEntry(id uint32, slot StructSlot) StructEntry {
	switch s := slot.(type) {
	case SingleField:
		return StructEntry{ID: id, DataOrOffset: s.FieldIndex, FieldCount: 1}
	case IndexedFields:
		return StructEntry{ID: id, DataOrOffset: s.Offset, FieldCount: s.Count}
	default:
		return StructEntry{ID: id}
	}
}

// Slot returns the typed meaning of DataOrOffset.
func (e StructEntry) Slot() StructSlot {
	switch e.FieldCount {
	case 0:
		return NoFields{}
	case 1:
		return SingleField{FieldIndex: e.DataOrOffset}
	default:
		return IndexedFields{Offset: e.DataOrOffset, Count: e.FieldCount}
	}
}

// WriteToSlice writes the entry to a byte slice using the specified endian engine.
// The slice must be at least 12 bytes long.
func (e StructEntry) WriteToSlice(b []byte, engine endian.EndianEngine) error {
	if len(b) < StructEntrySize {
		return errs.ErrInvalidEntrySize
	}

	engine.PutUint32(b[0:4], e.ID)
	engine.PutUint32(b[4:8], e.DataOrOffset)
	engine.PutUint32(b[8:12], e.FieldCount)

	return nil
}

// ParseStructEntry parses a struct entry from a byte slice.
func ParseStructEntry(data []byte, engine endian.EndianEngine) (StructEntry, error) {
	if len(data) < StructEntrySize {
		return StructEntry{}, errs.ErrInvalidEntrySize
	}

	return StructEntry{
		ID:           engine.Uint32(data[0:4]),
		DataOrOffset: engine.Uint32(data[4:8]),
		FieldCount:   engine.Uint32(data[8:12]),
	}, nil
}
