package encoding

import (
	"math"
	"testing"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
	"github.com/stretchr/testify/require"
)

func TestValueEncoder_InlineSlots(t *testing.T) {
	tests := []struct {
		value tree.Value
		raw   uint32
	}{
		{tree.Byte(0x7F), 0x0000007F},
		{tree.Char(-1), 0x000000FF},
		{tree.Word(0xBEEF), 0x0000BEEF},
		{tree.Short(-2), 0x0000FFFE},
		{tree.Dword(0xDEADBEEF), 0xDEADBEEF},
		{tree.Int(-1), 0xFFFFFFFF},
		{tree.Float(1.0), 0x3F800000},
	}

	enc := NewValueEncoder()
	defer enc.Release()

	for _, tt := range tests {
		slot, err := enc.Encode(tt.value)
		require.NoError(t, err)
		require.Equal(t, section.InlineValue{Raw: tt.raw}, slot, "%s", tt.value.Type())
	}
	require.Equal(t, 0, enc.Len(), "inline values never touch field data")
}

func TestValueEncoder_FieldDataOffsets(t *testing.T) {
	enc := NewValueEncoder()
	defer enc.Release()

	slot, err := enc.Encode(tree.String("Hello World"))
	require.NoError(t, err)
	require.Equal(t, section.FieldDataOffset{Offset: 0}, slot)

	slot, err = enc.Encode(tree.Dword64(1))
	require.NoError(t, err)
	require.Equal(t, section.FieldDataOffset{Offset: 15}, slot)

	slot, err = enc.Encode(tree.ResRef("abc"))
	require.NoError(t, err)
	require.Equal(t, section.FieldDataOffset{Offset: 23}, slot)
	require.Equal(t, 27, enc.Len())
}

func TestValueEncoder_Errors(t *testing.T) {
	enc := NewValueEncoder()
	defer enc.Release()

	_, err := enc.Encode(nil)
	require.ErrorIs(t, err, errs.ErrNilValue)

	_, err = enc.Encode(tree.NewStruct(0))
	require.ErrorIs(t, err, errs.ErrComplexFieldType)

	_, err = enc.Encode(tree.List{})
	require.ErrorIs(t, err, errs.ErrComplexFieldType)

	_, err = enc.Encode(tree.ResRef("this_resref_is_too_long"))
	require.ErrorIs(t, err, errs.ErrResRefTooLong)
	require.Equal(t, 0, enc.Len())
}

func TestValue_RoundTrip(t *testing.T) {
	values := []tree.Value{
		tree.Byte(0), tree.Byte(255),
		tree.Char(-128), tree.Char(127),
		tree.Word(65535),
		tree.Short(-32768),
		tree.Dword(math.MaxUint32),
		tree.Int(math.MinInt32),
		tree.Dword64(math.MaxUint64),
		tree.Int64(math.MinInt64),
		tree.Float(3.25), tree.Float(float32(math.Inf(-1))),
		tree.Double(-0.1), tree.Double(math.Copysign(0, -1)),
		tree.String(""), tree.String("Hello World"),
		tree.ResRef(""), tree.ResRef("nw_it_gold001"),
		tree.Void{}, tree.Void{1, 2, 3},
		&tree.LocString{StrRef: 7, Substrings: []tree.LocSubstring{{Language: 4, Gender: 1, Text: "Hallo"}}},
	}

	enc := NewValueEncoder()
	defer enc.Release()

	entries := make([]section.FieldEntry, 0, len(values))
	for _, v := range values {
		slot, err := enc.Encode(v)
		require.NoError(t, err)
		entries = append(entries, section.NewFieldEntry(v.Type(), 0, slot))
	}

	fieldData := enc.Bytes()
	for i, entry := range entries {
		got, err := DecodeValue(entry, fieldData)
		require.NoError(t, err)
		require.True(t, tree.Equal(values[i], got), "value %d: want %#v, got %#v", i, values[i], got)
	}
}

func TestDecodeValue_NaNBitsPreserved(t *testing.T) {
	bits := uint32(0x7FC00001)
	entry := section.NewFieldEntry(format.FieldFloat, 0, section.InlineValue{Raw: bits})

	v, err := DecodeValue(entry, nil)
	require.NoError(t, err)
	require.Equal(t, bits, math.Float32bits(float32(v.(tree.Float))))
}

func TestDecodeValue_Errors(t *testing.T) {
	_, err := DecodeValue(section.FieldEntry{Type: 99}, nil)
	require.ErrorIs(t, err, errs.ErrUnknownFieldType)

	_, err = DecodeValue(section.FieldEntry{Type: format.FieldStruct}, nil)
	require.ErrorIs(t, err, errs.ErrComplexFieldType)

	_, err = DecodeValue(section.FieldEntry{Type: format.FieldList}, nil)
	require.ErrorIs(t, err, errs.ErrComplexFieldType)

	_, err = DecodeValue(section.FieldEntry{Type: format.FieldDword64, DataOrOffset: 100}, make([]byte, 8))
	require.ErrorIs(t, err, errs.ErrOutOfBounds)

	_, err = DecodeValue(section.FieldEntry{Type: format.FieldDouble, DataOrOffset: 4}, make([]byte, 8))
	require.ErrorIs(t, err, errs.ErrTruncatedData)

	_, err = DecodeValue(section.FieldEntry{Type: format.FieldString}, []byte{0xFF, 0, 0, 0})
	require.ErrorIs(t, err, errs.ErrTruncatedData)
}
