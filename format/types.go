package format

import "strings"

type (
	// FieldType is the type tag stored in a field table entry.
	FieldType uint32
	// CompressionType selects the codec used for embedded database blobs.
	CompressionType uint8
	// CountMode selects how the list-indices count in the header is interpreted.
	CountMode uint8
)

const (
	FieldByte      FieldType = 0  // FieldByte is an unsigned 8-bit integer, stored inline.
	FieldChar      FieldType = 1  // FieldChar is a signed 8-bit integer, stored inline.
	FieldWord      FieldType = 2  // FieldWord is an unsigned 16-bit integer, stored inline.
	FieldShort     FieldType = 3  // FieldShort is a signed 16-bit integer, stored inline.
	FieldDword     FieldType = 4  // FieldDword is an unsigned 32-bit integer, stored inline.
	FieldInt       FieldType = 5  // FieldInt is a signed 32-bit integer, stored inline.
	FieldDword64   FieldType = 6  // FieldDword64 is an unsigned 64-bit integer in the field-data block.
	FieldInt64     FieldType = 7  // FieldInt64 is a signed 64-bit integer in the field-data block.
	FieldFloat     FieldType = 8  // FieldFloat is a 32-bit IEEE float, stored inline.
	FieldDouble    FieldType = 9  // FieldDouble is a 64-bit IEEE float in the field-data block.
	FieldString    FieldType = 10 // FieldString is a uint32 length-prefixed string.
	FieldResRef    FieldType = 11 // FieldResRef is a uint8 length-prefixed resource reference, max 16 bytes.
	FieldLocString FieldType = 12 // FieldLocString is a localized string with language variants.
	FieldVoid      FieldType = 13 // FieldVoid is an opaque uint32 length-prefixed binary blob.
	FieldStruct    FieldType = 14 // FieldStruct references a single child struct by index.
	FieldList      FieldType = 15 // FieldList references a list of child structs.
)

const (
	CompressionNone CompressionType = 0x1 // CompressionNone represents no compression.
	CompressionZstd CompressionType = 0x2 // CompressionZstd represents Zstandard compression.
	CompressionS2   CompressionType = 0x3 // CompressionS2 represents S2 compression.
	CompressionLZ4  CompressionType = 0x4 // CompressionLZ4 represents LZ4 compression.
	CompressionZlib CompressionType = 0x5 // CompressionZlib represents zlib (deflate) compression.
)

const (
	// CountElements treats the list-indices count as a number of uint32 words.
	CountElements CountMode = 0
	// CountBytes treats the list-indices count as a byte length, as BioWare tools write it.
	CountBytes CountMode = 1
)

var fieldTypeNames = [...]string{
	FieldByte:      "byte",
	FieldChar:      "char",
	FieldWord:      "word",
	FieldShort:     "short",
	FieldDword:     "dword",
	FieldInt:       "int",
	FieldDword64:   "dword64",
	FieldInt64:     "int64",
	FieldFloat:     "float",
	FieldDouble:    "double",
	FieldString:    "string",
	FieldResRef:    "resref",
	FieldLocString: "locstring",
	FieldVoid:      "void",
	FieldStruct:    "struct",
	FieldList:      "list",
}

// fieldTypeAliases holds alternative spellings accepted by ParseFieldType.
var fieldTypeAliases = map[string]FieldType{
	"cexostring":       FieldString,
	"cexolocstring":    FieldLocString,
	"localized-string": FieldLocString,
	"binary":           FieldVoid,
	"binary-blob":      FieldVoid,
	"uint64":           FieldDword64,
	"float32":          FieldFloat,
	"float64":          FieldDouble,
}

func (t FieldType) String() string {
	if t.IsValid() {
		return fieldTypeNames[t]
	}

	return "unknown"
}

// IsValid reports whether t is one of the sixteen defined field types.
func (t FieldType) IsValid() bool {
	return t <= FieldList
}

// IsInline reports whether values of type t are stored directly in the
// 4-byte slot of the field entry.
func (t FieldType) IsInline() bool {
	switch t { //nolint: exhaustive
	case FieldByte, FieldChar, FieldWord, FieldShort, FieldDword, FieldInt, FieldFloat:
		return true
	default:
		return false
	}
}

// IsComplex reports whether t references other structs (struct or list).
func (t FieldType) IsComplex() bool {
	return t == FieldStruct || t == FieldList
}

// ParseFieldType resolves a type name, case-insensitively, including the
// aliases used by other GFF JSON tools.
func ParseFieldType(name string) (FieldType, bool) {
	name = strings.ToLower(strings.TrimSpace(name))
	for i, n := range fieldTypeNames {
		if n == name {
			return FieldType(i), true //nolint: gosec
		}
	}
	if t, ok := fieldTypeAliases[name]; ok {
		return t, true
	}

	return 0, false
}

func (c CompressionType) String() string {
	switch c {
	case CompressionNone:
		return "None"
	case CompressionZstd:
		return "Zstd"
	case CompressionS2:
		return "S2"
	case CompressionLZ4:
		return "LZ4"
	case CompressionZlib:
		return "Zlib"
	default:
		return "Unknown"
	}
}

func (m CountMode) String() string {
	switch m {
	case CountElements:
		return "Elements"
	case CountBytes:
		return "Bytes"
	default:
		return "Unknown"
	}
}
