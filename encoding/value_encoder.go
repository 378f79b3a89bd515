package encoding

import (
	"fmt"
	"math"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
)

// ValueEncoder encodes field values and accumulates the field-data region.
//
// Usage:
//
//	enc := encoding.NewValueEncoder()
//	defer enc.Release()
//	slot, err := enc.Encode(tree.String("Hello World"))
//	...
//	fieldData := enc.Bytes()
//
// Note: ValueEncoder is NOT thread-safe.
type ValueEncoder struct {
	w *cursor.Cursor
}

// NewValueEncoder creates an encoder with an empty field-data region.
func NewValueEncoder() *ValueEncoder {
	return &ValueEncoder{w: cursor.NewWriter()}
}

// Encode encodes v and returns the slot to store in its field entry.
//
// Inline types return a section.InlineValue and write nothing. Other types
// are appended to the field-data region and return a section.FieldDataOffset
// pointing at the first byte written.
//
// Returns:
//   - section.FieldSlot: InlineValue or FieldDataOffset
//   - error: ErrNilValue, ErrComplexFieldType for *tree.Struct and tree.List,
//     ErrResRefTooLong, ErrValueOutOfRange or ErrRegionTooLarge
func (e *ValueEncoder) Encode(v tree.Value) (section.FieldSlot, error) {
	switch val := v.(type) {
	case nil:
		return nil, errs.ErrNilValue
	case tree.Byte:
		return section.InlineValue{Raw: uint32(val)}, nil
	case tree.Char:
		return section.InlineValue{Raw: uint32(uint8(val))}, nil //nolint: gosec
	case tree.Word:
		return section.InlineValue{Raw: uint32(val)}, nil
	case tree.Short:
		return section.InlineValue{Raw: uint32(uint16(val))}, nil //nolint: gosec
	case tree.Dword:
		return section.InlineValue{Raw: uint32(val)}, nil
	case tree.Int:
		return section.InlineValue{Raw: uint32(val)}, nil //nolint: gosec
	case tree.Float:
		return section.InlineValue{Raw: math.Float32bits(float32(val))}, nil
	case *tree.Struct, tree.List:
		return nil, fmt.Errorf("%w: %s", errs.ErrComplexFieldType, v.Type())
	}

	start := e.w.Len()
	if uint64(start) > section.MaxRegionSize {
		return nil, fmt.Errorf("%w: field data at %d bytes", errs.ErrRegionTooLarge, start)
	}
	if err := e.seekEnd(); err != nil {
		return nil, err
	}

	var err error
	switch val := v.(type) {
	case tree.Dword64:
		e.w.WriteUint64(uint64(val))
	case tree.Int64:
		e.w.WriteUint64(uint64(val)) //nolint: gosec
	case tree.Double:
		e.w.WriteUint64(math.Float64bits(float64(val)))
	case tree.String:
		err = WriteExoString(e.w, string(val))
	case tree.ResRef:
		err = WriteResRef(e.w, string(val))
	case *tree.LocString:
		err = WriteLocString(e.w, val)
	case tree.Void:
		err = WriteVoid(e.w, val)
	}
	if err != nil {
		return nil, fmt.Errorf("%s: %w", v.Type(), err)
	}

	return section.FieldDataOffset{Offset: uint32(start)}, nil //nolint: gosec
}

func (e *ValueEncoder) seekEnd() error {
	return e.w.Seek(e.w.Len())
}

// Len returns the current size of the field-data region.
func (e *ValueEncoder) Len() int {
	return e.w.Len()
}

// Bytes returns a copy of the field-data region.
func (e *ValueEncoder) Bytes() []byte {
	return append([]byte(nil), e.w.Bytes()...)
}

// Release returns the internal buffer to the pool. The encoder must not be
// used afterwards.
func (e *ValueEncoder) Release() {
	e.w.Release()
}
