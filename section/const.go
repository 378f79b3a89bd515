package section

import "math"

// Fixed sizes of the GFF header and table entries, in bytes.
const (
	HeaderSize      = 56 // magic, version and six offset/count pairs
	StructEntrySize = 12 // id, data-or-offset, field count
	FieldEntrySize  = 12 // type, label index, data-or-offset
	LabelSize       = 16 // NUL padded ASCII
	IndexSize       = 4  // one uint32 in the field-indices and list-indices regions
)

// Byte offsets of the header fields.
const (
	fileTypeOffset    = 0
	versionOffset     = 4
	regionPairsOffset = 8
	regionPairSize    = 8
	regionCount       = 6
	MaxRegionSize     = math.MaxUint32 // largest region a uint32 offset can address
)

// Region identifies one of the six variable regions of a GFF file, in the
// order they appear in the header and in the file.
type Region int

const (
	RegionStructs Region = iota
	RegionFields
	RegionLabels
	RegionFieldData
	RegionFieldIndices
	RegionListIndices
)

func (r Region) String() string {
	switch r {
	case RegionStructs:
		return "struct table"
	case RegionFields:
		return "field table"
	case RegionLabels:
		return "label table"
	case RegionFieldData:
		return "field data"
	case RegionFieldIndices:
		return "field indices"
	case RegionListIndices:
		return "list indices"
	default:
		return "unknown region"
	}
}
