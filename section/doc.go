// Package section defines the low-level binary structures of a GFF V3.2 file.
//
// It handles serialization of the header, the struct and field table
// entries and the label table, and checks that every region the header
// describes lies inside the file. Higher layers never index raw bytes of
// these regions themselves.
//
// # File Structure
//
// A GFF file is a fixed header followed by six regions, in this order:
//
//	┌─────────────────────────────────────────────────────────┐
//	│ Header (56 bytes, fixed)                                │
//	│  - FileType (4 bytes), e.g. "GFF ", "UTC "              │
//	│  - Version (4 bytes), "V3.2"                            │
//	│  - Six (offset, count) uint32 pairs                     │
//	├─────────────────────────────────────────────────────────┤
//	│ Struct table: count × 12 bytes                          │
//	├─────────────────────────────────────────────────────────┤
//	│ Field table: count × 12 bytes                           │
//	├─────────────────────────────────────────────────────────┤
//	│ Label table: count × 16 bytes                           │
//	├─────────────────────────────────────────────────────────┤
//	│ Field data: count bytes                                 │
//	├─────────────────────────────────────────────────────────┤
//	│ Field indices: count bytes of uint32                    │
//	├─────────────────────────────────────────────────────────┤
//	│ List indices: uint32 words (count unit is configurable) │
//	└─────────────────────────────────────────────────────────┘
//
// All integers are little-endian.
//
// # Struct Entry (12 bytes)
//
//	Offset | Field        | Type   | Description
//	-------|--------------|--------|------------------------------------------
//	0-3    | ID           | uint32 | Opaque struct type id
//	4-7    | DataOrOffset | uint32 | Field index, or byte offset into field indices
//	8-11   | FieldCount   | uint32 | Number of fields
//
// FieldCount selects how DataOrOffset is read: 0 means no fields, 1 means
// DataOrOffset is the single field's index, and anything larger means
// DataOrOffset is a byte offset to FieldCount consecutive uint32 indices.
// StructSlot models the three cases.
//
// # Field Entry (12 bytes)
//
//	Offset | Field        | Type   | Description
//	-------|--------------|--------|------------------------------------------
//	0-3    | Type         | uint32 | format.FieldType, 0-15
//	4-7    | LabelIndex   | uint32 | Index into the label table
//	8-11   | DataOrOffset | uint32 | Inline value or an offset, by type
//
// FieldSlot models the four readings of DataOrOffset: an inline value for
// types up to 4 bytes, a byte offset into field data, a struct index, or a
// byte offset into list indices.
//
// # Label (16 bytes)
//
// ASCII, NUL padded on the right. A 16-byte label has no terminator.
//
// # Usage
//
//	h, err := section.ParseHeader(data, format.FileTypeGFF)
//	...
//	if err := h.CheckBounds(len(data), format.CountElements); err != nil {
//	    return err
//	}
//	tables, err := section.ReadTables(data, h, format.CountElements)
package section
