package section

import (
	"bytes"
	"fmt"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
)

// Tables holds the decoded content of the six regions that follow the header.
//
// FieldIndices and ListIndices are kept as uint32 words; struct and list slots
// address them by byte offset, so word i lives at byte offset 4*i.
type Tables struct {
	Structs      []StructEntry
	Fields       []FieldEntry
	Labels       []Label
	FieldData    []byte
	FieldIndices []uint32
	ListIndices  []uint32
}

// regionView returns the bytes of region r after checking it lies inside buf.
func regionView(buf []byte, h Header, r Region, mode format.CountMode) ([]byte, error) {
	span := h.Span(r)
	size := h.RegionSize(r, mode)
	if uint64(span.Offset)+size > uint64(len(buf)) {
		return nil, fmt.Errorf("%w: %s at offset %d needs %d bytes, buffer has %d",
			errs.ErrOutOfBounds, r, span.Offset, size, len(buf))
	}

	c := cursor.NewReader(buf)
	if err := c.Seek(int(span.Offset)); err != nil {
		return nil, err
	}

	return c.ReadView(int(size)) //nolint: gosec
}

// ReadStructTable decodes the struct table located by the header.
func ReadStructTable(buf []byte, h Header) ([]StructEntry, error) {
	view, err := regionView(buf, h, RegionStructs, format.CountElements)
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	entries := make([]StructEntry, h.Span(RegionStructs).Count)
	for i := range entries {
		entries[i], err = ParseStructEntry(view[i*StructEntrySize:], engine)
		if err != nil {
			return nil, fmt.Errorf("struct entry %d: %w", i, err)
		}
	}

	return entries, nil
}

// ReadFieldTable decodes the field table located by the header.
func ReadFieldTable(buf []byte, h Header) ([]FieldEntry, error) {
	view, err := regionView(buf, h, RegionFields, format.CountElements)
	if err != nil {
		return nil, err
	}

	engine := endian.GetLittleEndianEngine()
	entries := make([]FieldEntry, h.Span(RegionFields).Count)
	for i := range entries {
		entries[i], err = ParseFieldEntry(view[i*FieldEntrySize:], engine)
		if err != nil {
			return nil, fmt.Errorf("field entry %d: %w", i, err)
		}
	}

	return entries, nil
}

// ReadLabelTable decodes the label table located by the header.
func ReadLabelTable(buf []byte, h Header) ([]Label, error) {
	view, err := regionView(buf, h, RegionLabels, format.CountElements)
	if err != nil {
		return nil, err
	}

	labels := make([]Label, h.Span(RegionLabels).Count)
	for i := range labels {
		labels[i], err = ParseLabel(view[i*LabelSize:])
		if err != nil {
			return nil, fmt.Errorf("label %d: %w", i, err)
		}
	}

	return labels, nil
}

// ReadFieldData returns a copy of the field-data region.
func ReadFieldData(buf []byte, h Header) ([]byte, error) {
	view, err := regionView(buf, h, RegionFieldData, format.CountElements)
	if err != nil {
		return nil, err
	}

	return bytes.Clone(view), nil
}

// ReadFieldIndices decodes the field-indices region into uint32 words.
func ReadFieldIndices(buf []byte, h Header) ([]uint32, error) {
	view, err := regionView(buf, h, RegionFieldIndices, format.CountElements)
	if err != nil {
		return nil, err
	}

	return readWords(view, RegionFieldIndices)
}

// ReadListIndices decodes the list-indices region into uint32 words.
func ReadListIndices(buf []byte, h Header, mode format.CountMode) ([]uint32, error) {
	view, err := regionView(buf, h, RegionListIndices, mode)
	if err != nil {
		return nil, err
	}

	return readWords(view, RegionListIndices)
}

func readWords(view []byte, r Region) ([]uint32, error) {
	if len(view)%IndexSize != 0 {
		return nil, fmt.Errorf("%w: %s has %d bytes, not a multiple of %d",
			errs.ErrTruncatedData, r, len(view), IndexSize)
	}

	c := cursor.NewReader(view)
	words := make([]uint32, len(view)/IndexSize)
	for i := range words {
		w, err := c.ReadUint32()
		if err != nil {
			return nil, err
		}
		words[i] = w
	}

	return words, nil
}

// ReadTables decodes all six regions located by the header. The returned
// tables hold copies; buf can be reused once ReadTables returns.
func ReadTables(buf []byte, h Header, mode format.CountMode) (*Tables, error) {
	var (
		t   Tables
		err error
	)

	if t.Structs, err = ReadStructTable(buf, h); err != nil {
		return nil, err
	}
	if t.Fields, err = ReadFieldTable(buf, h); err != nil {
		return nil, err
	}
	if t.Labels, err = ReadLabelTable(buf, h); err != nil {
		return nil, err
	}
	if t.FieldData, err = ReadFieldData(buf, h); err != nil {
		return nil, err
	}
	if t.FieldIndices, err = ReadFieldIndices(buf, h); err != nil {
		return nil, err
	}
	if t.ListIndices, err = ReadListIndices(buf, h, mode); err != nil {
		return nil, err
	}

	return &t, nil
}

// Counts returns the header counts describing these tables.
func (t *Tables) Counts(mode format.CountMode) [regionCount]uint32 {
	listCount := uint64(len(t.ListIndices))
	if mode == format.CountBytes {
		listCount *= IndexSize
	}

	return [regionCount]uint32{
		RegionStructs:      uint32(len(t.Structs)),
		RegionFields:       uint32(len(t.Fields)),
		RegionLabels:       uint32(len(t.Labels)),
		RegionFieldData:    uint32(len(t.FieldData)),
		RegionFieldIndices: uint32(len(t.FieldIndices) * IndexSize),
		RegionListIndices:  uint32(listCount),
	}
}

// Header computes the header for these tables: counts from the table sizes
// and offsets laid out cumulatively in file order.
func (t *Tables) Header(fileType, version string, mode format.CountMode) (Header, error) {
	h, err := NewHeader(fileType, version)
	if err != nil {
		return Header{}, err
	}

	if uint64(len(t.FieldData)) > MaxRegionSize ||
		uint64(len(t.FieldIndices))*IndexSize > MaxRegionSize ||
		uint64(len(t.ListIndices))*IndexSize > MaxRegionSize {
		return Header{}, errs.ErrRegionTooLarge
	}
	if err := h.SetRegions(t.Counts(mode), mode); err != nil {
		return Header{}, err
	}

	return *h, nil
}

// Bytes serializes the header followed by the six regions in file order.
// The header must have been produced by Header for the same tables.
func (t *Tables) Bytes(h Header) ([]byte, error) {
	w := cursor.NewWriter()
	defer w.Release()

	w.WriteBytes(h.Bytes())

	engine := endian.GetLittleEndianEngine()
	var entry [StructEntrySize]byte

	if err := expectOffset(w, h, RegionStructs); err != nil {
		return nil, err
	}
	for _, s := range t.Structs {
		_ = s.WriteToSlice(entry[:], engine)
		w.WriteBytes(entry[:])
	}

	if err := expectOffset(w, h, RegionFields); err != nil {
		return nil, err
	}
	for _, f := range t.Fields {
		_ = f.WriteToSlice(entry[:], engine)
		w.WriteBytes(entry[:])
	}

	if err := expectOffset(w, h, RegionLabels); err != nil {
		return nil, err
	}
	for _, l := range t.Labels {
		w.WriteBytes(l[:])
	}

	if err := expectOffset(w, h, RegionFieldData); err != nil {
		return nil, err
	}
	w.WriteBytes(t.FieldData)

	if err := expectOffset(w, h, RegionFieldIndices); err != nil {
		return nil, err
	}
	for _, idx := range t.FieldIndices {
		w.WriteUint32(idx)
	}

	if err := expectOffset(w, h, RegionListIndices); err != nil {
		return nil, err
	}
	for _, idx := range t.ListIndices {
		w.WriteUint32(idx)
	}

	return bytes.Clone(w.Bytes()), nil
}

func expectOffset(w *cursor.Cursor, h Header, r Region) error {
	if want := int(h.Span(r).Offset); w.Pos() != want {
		return fmt.Errorf("%w: %s written at %d, header says %d", errs.ErrOutOfBounds, r, w.Pos(), want)
	}

	return nil
}
