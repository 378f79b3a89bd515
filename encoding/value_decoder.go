package encoding

import (
	"fmt"
	"math"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
)

// DecodeValue decodes the value of a non-struct, non-list field.
//
// Inline types are taken from the entry's slot. Other types are read from
// fieldData at the offset stored in the slot.
//
// Parameters:
//   - entry: Field table entry
//   - fieldData: The whole field-data region
//
// Returns:
//   - tree.Value: The decoded value
//   - error: ErrUnknownFieldType, ErrComplexFieldType for struct and list
//     entries, ErrOutOfBounds or ErrTruncatedData for bad offsets and lengths
func DecodeValue(entry section.FieldEntry, fieldData []byte) (tree.Value, error) {
	slot, err := entry.Slot()
	if err != nil {
		return nil, err
	}

	switch s := slot.(type) {
	case section.InlineValue:
		return decodeInline(entry.Type, s.Raw), nil
	case section.FieldDataOffset:
		c := cursor.NewReader(fieldData)
		if err := c.Seek(int(s.Offset)); err != nil {
			return nil, fmt.Errorf("%s field data: %w", entry.Type, err)
		}

		v, err := decodeFieldData(entry.Type, c)
		if err != nil {
			return nil, fmt.Errorf("%s at field data offset %d: %w", entry.Type, s.Offset, err)
		}

		return v, nil
	default:
		return nil, fmt.Errorf("%w: %s", errs.ErrComplexFieldType, entry.Type)
	}
}

func decodeInline(t format.FieldType, raw uint32) tree.Value {
	switch t {
	case format.FieldByte:
		return tree.Byte(uint8(raw)) //nolint: gosec
	case format.FieldChar:
		return tree.Char(int8(uint8(raw))) //nolint: gosec
	case format.FieldWord:
		return tree.Word(uint16(raw)) //nolint: gosec
	case format.FieldShort:
		return tree.Short(int16(uint16(raw))) //nolint: gosec
	case format.FieldDword:
		return tree.Dword(raw)
	case format.FieldInt:
		return tree.Int(int32(raw)) //nolint: gosec
	default: // format.FieldFloat
		return tree.Float(math.Float32frombits(raw))
	}
}

func decodeFieldData(t format.FieldType, c *cursor.Cursor) (tree.Value, error) {
	switch t {
	case format.FieldDword64:
		v, err := c.ReadUint64()
		return tree.Dword64(v), err
	case format.FieldInt64:
		v, err := c.ReadUint64()
		return tree.Int64(int64(v)), err //nolint: gosec
	case format.FieldDouble:
		v, err := c.ReadUint64()
		return tree.Double(math.Float64frombits(v)), err
	case format.FieldString:
		v, err := ReadExoString(c)
		return tree.String(v), err
	case format.FieldResRef:
		v, err := ReadResRef(c)
		return tree.ResRef(v), err
	case format.FieldLocString:
		return ReadLocString(c)
	case format.FieldVoid:
		v, err := ReadVoid(c)
		return tree.Void(v), err
	default:
		return nil, fmt.Errorf("%w: %d", errs.ErrUnknownFieldType, uint32(t))
	}
}
