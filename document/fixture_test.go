package document

import (
	"testing"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/stretchr/testify/require"
)

// helloWorldFile is a minimal file with a root struct holding
// Test (string "Hello World") and Version (int 1).
func helloWorldFile() []byte {
	w := cursor.NewWriter()
	defer w.Release()

	w.WriteString("GFF V3.2")
	for _, pair := range [][2]uint32{
		{56, 1},   // structs
		{68, 2},   // fields
		{92, 2},   // labels
		{124, 15}, // field data, bytes
		{139, 8},  // field indices, bytes
		{147, 0},  // list indices
	} {
		w.WriteUint32(pair[0])
		w.WriteUint32(pair[1])
	}

	// struct 0: root id, field indices at byte 0, two fields
	w.WriteUint32(0xFFFFFFFF)
	w.WriteUint32(0)
	w.WriteUint32(2)

	// field 0: string, label 0, field data offset 0
	w.WriteUint32(uint32(format.FieldString))
	w.WriteUint32(0)
	w.WriteUint32(0)
	// field 1: int, label 1, inline value 1
	w.WriteUint32(uint32(format.FieldInt))
	w.WriteUint32(1)
	w.WriteUint32(1)

	w.WriteBytes(label16("Test"))
	w.WriteBytes(label16("Version"))

	w.WriteUint32(11)
	w.WriteString("Hello World")

	w.WriteUint32(0)
	w.WriteUint32(1)

	return append([]byte(nil), w.Bytes()...)
}

func label16(name string) []byte {
	b := make([]byte, section.LabelSize)
	copy(b, name)

	return b
}

func mustLabels(t *testing.T, names ...string) []section.Label {
	t.Helper()

	out := make([]section.Label, 0, len(names))
	for _, n := range names {
		l, err := section.NewLabel(n)
		require.NoError(t, err)
		out = append(out, l)
	}

	return out
}

// fileFromTables serializes hand-built tables so tests can describe
// malformed layouts at the table level.
func fileFromTables(t *testing.T, tables *section.Tables, mode format.CountMode) []byte {
	t.Helper()

	h, err := tables.Header(format.FileTypeGFF, format.VersionV32, mode)
	require.NoError(t, err)
	out, err := tables.Bytes(h)
	require.NoError(t, err)

	return out
}

func structField(label uint32, child uint32) section.FieldEntry {
	return section.NewFieldEntry(format.FieldStruct, label, section.StructRef{Index: child})
}

func intField(label uint32, v uint32) section.FieldEntry {
	return section.NewFieldEntry(format.FieldInt, label, section.InlineValue{Raw: v})
}
