package section

import (
	"testing"

	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/stretchr/testify/require"
)

func TestStructEntry_Slot(t *testing.T) {
	tests := []struct {
		name  string
		slot  StructSlot
		entry StructEntry
	}{
		{"No fields", NoFields{}, StructEntry{ID: 7}},
		{"Single field", SingleField{FieldIndex: 42}, StructEntry{ID: 7, DataOrOffset: 42, FieldCount: 1}},
		{"Indexed fields", IndexedFields{Offset: 16, Count: 3}, StructEntry{ID: 7, DataOrOffset: 16, FieldCount: 3}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewStructEntry(7, tt.slot)
			require.Equal(t, tt.entry, entry)
			require.Equal(t, tt.slot, entry.Slot())
		})
	}
}

func TestStructEntry_WireFormat(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entry := StructEntry{ID: 0xFFFFFFFF, DataOrOffset: 8, FieldCount: 2}

	b := make([]byte, StructEntrySize)
	require.NoError(t, entry.WriteToSlice(b, engine))
	require.Equal(t, []byte{0xFF, 0xFF, 0xFF, 0xFF, 8, 0, 0, 0, 2, 0, 0, 0}, b)

	parsed, err := ParseStructEntry(b, engine)
	require.NoError(t, err)
	require.Equal(t, entry, parsed)

	require.ErrorIs(t, entry.WriteToSlice(b[:11], engine), errs.ErrInvalidEntrySize)
	_, err = ParseStructEntry(b[:11], engine)
	require.ErrorIs(t, err, errs.ErrInvalidEntrySize)
}

func TestFieldEntry_Slot(t *testing.T) {
	tests := []struct {
		name string
		typ  format.FieldType
		want FieldSlot
	}{
		{"Byte is inline", format.FieldByte, InlineValue{Raw: 5}},
		{"Float is inline", format.FieldFloat, InlineValue{Raw: 5}},
		{"Int64 uses field data", format.FieldInt64, FieldDataOffset{Offset: 5}},
		{"String uses field data", format.FieldString, FieldDataOffset{Offset: 5}},
		{"LocString uses field data", format.FieldLocString, FieldDataOffset{Offset: 5}},
		{"Struct references a struct", format.FieldStruct, StructRef{Index: 5}},
		{"List uses list indices", format.FieldList, ListOffset{Offset: 5}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			entry := NewFieldEntry(tt.typ, 1, tt.want)
			require.Equal(t, FieldEntry{Type: tt.typ, LabelIndex: 1, DataOrOffset: 5}, entry)

			slot, err := entry.Slot()
			require.NoError(t, err)
			require.Equal(t, tt.want, slot)
		})
	}

	t.Run("Unknown type", func(t *testing.T) {
		_, err := FieldEntry{Type: 16}.Slot()
		require.ErrorIs(t, err, errs.ErrUnknownFieldType)
	})
}

func TestFieldEntry_WireFormat(t *testing.T) {
	engine := endian.GetLittleEndianEngine()
	entry := FieldEntry{Type: format.FieldInt, LabelIndex: 1, DataOrOffset: 0xFFFFFFFE}

	b := make([]byte, FieldEntrySize)
	require.NoError(t, entry.WriteToSlice(b, engine))
	require.Equal(t, []byte{5, 0, 0, 0, 1, 0, 0, 0, 0xFE, 0xFF, 0xFF, 0xFF}, b)

	parsed, err := ParseFieldEntry(b, engine)
	require.NoError(t, err)
	require.Equal(t, entry, parsed)
}

func TestLabel(t *testing.T) {
	t.Run("Short name is NUL padded", func(t *testing.T) {
		l, err := NewLabel("Tag")
		require.NoError(t, err)
		require.Equal(t, byte('g'), l[2])
		require.Equal(t, byte(0), l[3])
		require.Equal(t, "Tag", l.String())
	})

	t.Run("Full width name has no terminator", func(t *testing.T) {
		l, err := NewLabel("ABCDEFGHIJKLMNOP")
		require.NoError(t, err)
		require.Equal(t, "ABCDEFGHIJKLMNOP", l.String())
	})

	t.Run("Too long", func(t *testing.T) {
		_, err := NewLabel("ABCDEFGHIJKLMNOPQ")
		require.ErrorIs(t, err, errs.ErrLabelTooLong)
	})

	t.Run("Invalid bytes", func(t *testing.T) {
		_, err := NewLabel("a\x00b")
		require.ErrorIs(t, err, errs.ErrInvalidLabel)

		_, err = NewLabel("caf\xe9")
		require.ErrorIs(t, err, errs.ErrInvalidLabel)
	})

	t.Run("Parse", func(t *testing.T) {
		l, err := ParseLabel([]byte("Version\x00\x00\x00\x00\x00\x00\x00\x00\x00"))
		require.NoError(t, err)
		require.Equal(t, "Version", l.String())

		_, err = ParseLabel([]byte("short"))
		require.ErrorIs(t, err, errs.ErrInvalidEntrySize)
	})
}
