package section

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
)

// RegionSpan locates one region: its absolute byte offset and its count.
// Whether Count is an element count or a byte count depends on the region,
// see Header.RegionSize.
type RegionSpan struct {
	Offset uint32
	Count  uint32
}

// Header is the fixed 56-byte header at the start of every GFF file.
//
// Layout (all integers little-endian):
//
//	0-3    file type tag ("GFF ", "UTC ", ...)
//	4-7    version tag ("V3.2")
//	8-55   six (offset, count) pairs: structs, fields, labels,
//	       field data, field indices, list indices
type Header struct {
	FileType [format.TagSize]byte
	Version  [format.TagSize]byte
	Regions  [regionCount]RegionSpan
}

// NewHeader creates a header with the given tags and empty regions. Tags
// shorter than four bytes are padded with spaces.
func NewHeader(fileType, version string) (*Header, error) {
	ft, ok := format.NormalizeTag(fileType)
	if !ok {
		return nil, fmt.Errorf("%w: file type %q", errs.ErrInvalidTag, fileType)
	}
	ver, ok := format.NormalizeTag(version)
	if !ok {
		return nil, fmt.Errorf("%w: version %q", errs.ErrInvalidTag, version)
	}

	h := &Header{}
	copy(h.FileType[:], ft)
	copy(h.Version[:], ver)

	return h, nil
}

// Parse parses the header from a byte slice without checking its tags.
//
// Returns:
//   - error: ErrInvalidHeaderSize if data is not exactly 56 bytes
func (h *Header) Parse(data []byte) error {
	if len(data) != HeaderSize {
		return errs.ErrInvalidHeaderSize
	}

	engine := endian.GetLittleEndianEngine()

	copy(h.FileType[:], data[fileTypeOffset:fileTypeOffset+format.TagSize])
	copy(h.Version[:], data[versionOffset:versionOffset+format.TagSize])
	for i := range h.Regions {
		base := regionPairsOffset + i*regionPairSize
		h.Regions[i].Offset = engine.Uint32(data[base : base+4])
		h.Regions[i].Count = engine.Uint32(data[base+4 : base+8])
	}

	return nil
}

// Bytes serializes the header into a new 56-byte slice.
func (h *Header) Bytes() []byte {
	b := make([]byte, 0, HeaderSize)
	engine := endian.GetLittleEndianEngine()

	b = append(b, h.FileType[:]...)
	b = append(b, h.Version[:]...)
	for _, r := range h.Regions {
		b = engine.AppendUint32(b, r.Offset)
		b = engine.AppendUint32(b, r.Count)
	}

	return b
}

// FileTypeString returns the file type tag as a string, e.g. "GFF ".
func (h *Header) FileTypeString() string {
	return string(h.FileType[:])
}

// VersionString returns the version tag as a string, e.g. "V3.2".
func (h *Header) VersionString() string {
	return string(h.Version[:])
}

// HasVersion reports whether the version tag equals version.
func (h *Header) HasVersion(version string) bool {
	return h.VersionString() == version
}

// Span returns the offset/count pair of region r.
func (h *Header) Span(r Region) RegionSpan {
	return h.Regions[r]
}

// RegionSize returns the size in bytes of region r.
//
// The struct, field and label counts are element counts; the field-data and
// field-indices counts are byte counts. The list-indices count is an element
// count (uint32 words) unless mode is format.CountBytes.
func (h *Header) RegionSize(r Region, mode format.CountMode) uint64 {
	count := uint64(h.Regions[r].Count)

	switch r {
	case RegionStructs:
		return count * StructEntrySize
	case RegionFields:
		return count * FieldEntrySize
	case RegionLabels:
		return count * LabelSize
	case RegionListIndices:
		if mode == format.CountBytes {
			return count
		}

		return count * IndexSize
	default:
		return count
	}
}

// End returns the offset just past the furthest region, never less than
// the header size.
func (h *Header) End(mode format.CountMode) uint64 {
	end := uint64(HeaderSize)
	for i := range h.Regions {
		if e := uint64(h.Regions[i].Offset) + h.RegionSize(Region(i), mode); e > end {
			end = e
		}
	}

	return end
}

// CheckBounds verifies that every region lies within a buffer of bufLen bytes.
func (h *Header) CheckBounds(bufLen int, mode format.CountMode) error {
	for i := range h.Regions {
		r := Region(i)
		end := uint64(h.Regions[i].Offset) + h.RegionSize(r, mode)
		if end > uint64(bufLen) { //nolint: gosec
			return fmt.Errorf("%w: %s spans %d..%d, buffer has %d bytes",
				errs.ErrOutOfBounds, r, h.Regions[i].Offset, end, bufLen)
		}
	}

	return nil
}

// SetRegions assigns region counts and computes cumulative offsets in file
// order, starting right after the header. A region with a zero count points
// at the end of the previous region.
//
// Parameters:
//   - counts: per-region counts, with the same units as the header fields
//   - mode: unit of the list-indices count
//
// Returns:
//   - error: ErrRegionTooLarge if the file would exceed 4 GiB
func (h *Header) SetRegions(counts [regionCount]uint32, mode format.CountMode) error {
	offset := uint64(HeaderSize)
	for i := range h.Regions {
		if offset > MaxRegionSize {
			return fmt.Errorf("%w: %s starts at %d", errs.ErrRegionTooLarge, Region(i), offset)
		}
		h.Regions[i] = RegionSpan{Offset: uint32(offset), Count: counts[i]}
		offset += h.RegionSize(Region(i), mode)
	}
	if offset > MaxRegionSize {
		return fmt.Errorf("%w: file size %d", errs.ErrRegionTooLarge, offset)
	}

	return nil
}

// ParseHeader parses and validates a header from the start of data.
//
// The file type must equal one of fileTypes, or "GFF " when none are given.
// The version tag is not checked here; callers decide whether a mismatch is
// fatal.
//
// Returns:
//   - Header: Parsed header
//   - error: ErrInvalidHeaderSize if data is shorter than 56 bytes, ErrInvalidMagic
//     if the file type is not accepted
func ParseHeader(data []byte, fileTypes ...string) (Header, error) {
	if len(data) < HeaderSize {
		return Header{}, fmt.Errorf("%w: got %d bytes, need %d", errs.ErrInvalidHeaderSize, len(data), HeaderSize)
	}

	h := Header{}
	if err := h.Parse(data[:HeaderSize]); err != nil {
		return Header{}, err
	}

	if len(fileTypes) == 0 {
		fileTypes = []string{format.FileTypeGFF}
	}
	for _, ft := range fileTypes {
		if norm, ok := format.NormalizeTag(ft); ok && norm == h.FileTypeString() {
			return h, nil
		}
	}

	return Header{}, fmt.Errorf("%w: %q", errs.ErrInvalidMagic, h.FileTypeString())
}
