package format

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFieldType_Classes(t *testing.T) {
	inline := map[FieldType]bool{
		FieldByte: true, FieldChar: true, FieldWord: true, FieldShort: true,
		FieldDword: true, FieldInt: true, FieldFloat: true,
	}

	for ft := FieldByte; ft <= FieldList; ft++ {
		assert.True(t, ft.IsValid(), ft.String())
		assert.Equal(t, inline[ft], ft.IsInline(), ft.String())
		assert.Equal(t, ft == FieldStruct || ft == FieldList, ft.IsComplex(), ft.String())
	}

	assert.False(t, FieldType(16).IsValid())
	assert.Equal(t, "unknown", FieldType(16).String())
}

func TestParseFieldType(t *testing.T) {
	tests := []struct {
		name string
		want FieldType
	}{
		{"int", FieldInt},
		{"  LocString ", FieldLocString},
		{"cexostring", FieldString},
		{"CExoLocString", FieldLocString},
		{"binary", FieldVoid},
		{"float64", FieldDouble},
		{"list", FieldList},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := ParseFieldType(tt.name)
			require.True(t, ok)
			assert.Equal(t, tt.want, got)
		})
	}

	_, ok := ParseFieldType("quaternion")
	assert.False(t, ok)
}

func TestParseFieldType_CanonicalNames(t *testing.T) {
	for ft := FieldByte; ft <= FieldList; ft++ {
		got, ok := ParseFieldType(ft.String())
		require.True(t, ok)
		assert.Equal(t, ft, got)
	}
}

func TestFileTypeForExtension(t *testing.T) {
	tag, ok := FileTypeForExtension(".UTC")
	require.True(t, ok)
	assert.Equal(t, "UTC ", tag)

	tag, ok = FileTypeForExtension("bic")
	require.True(t, ok)
	assert.Equal(t, "BIC ", tag)

	_, ok = FileTypeForExtension("2da")
	assert.False(t, ok)
}

func TestNormalizeTag(t *testing.T) {
	tag, ok := NormalizeTag("UTI")
	require.True(t, ok)
	assert.Equal(t, "UTI ", tag)

	tag, ok = NormalizeTag("")
	require.True(t, ok)
	assert.Equal(t, "    ", tag)

	_, ok = NormalizeTag("GFF V3.2")
	assert.False(t, ok)
}

func TestEnumStrings(t *testing.T) {
	assert.Equal(t, "Zlib", CompressionZlib.String())
	assert.Equal(t, "Unknown", CompressionType(0).String())
	assert.Equal(t, "Elements", CountElements.String())
	assert.Equal(t, "Bytes", CountBytes.String())
}
