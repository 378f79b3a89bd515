package document

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/encoding"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
	"go.uber.org/zap"
)

// Decoder decodes a GFF buffer into a Document.
//
// Note: The Decoder is NOT thread-safe. Distinct decoders may run in parallel
// over distinct or shared read-only buffers.
type Decoder struct {
	data     []byte
	header   section.Header
	config   *DecoderConfig
	warnings []string
}

// NewDecoder creates a decoder for data.
//
// The header is parsed and every region is bounds-checked here; tables and
// values are read by Decode.
//
// Parameters:
//   - data: Complete GFF file
//   - opts: Optional decoder configuration
//
// Returns:
//   - *Decoder: Decoder ready for Decode
//   - error: ErrMalformedHeader kinds, ErrOutOfBounds if a region lies past
//     the end of data, or an option error
func NewDecoder(data []byte, opts ...DecoderOption) (*Decoder, error) {
	config := newDecoderConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	h, err := section.ParseHeader(data, config.fileTypes...)
	if err != nil {
		return nil, err
	}

	d := &Decoder{data: data, header: h, config: config}

	if !h.HasVersion(format.VersionV32) {
		if config.strictVersion {
			return nil, fmt.Errorf("%w: %q", errs.ErrVersionMismatch, h.VersionString())
		}
		d.warn("unexpected version tag", zap.String("version", h.VersionString()))
	}

	if err := h.CheckBounds(len(data), config.listCount); err != nil {
		return nil, err
	}

	if end := d.header.End(d.config.listCount); end < uint64(len(data)) {
		d.warn("trailing bytes after last region",
			zap.Uint64("regionsEnd", end), zap.Int("size", len(data)))
	}

	return d, nil
}

// Header returns the parsed header.
func (d *Decoder) Header() section.Header {
	return d.header
}

// Decode reads the tables and materializes the struct tree.
//
// Returns:
//   - *Document: Decoded document; it holds no reference into the input buffer
//   - error: ErrOutOfBounds, ErrTruncatedData, ErrUnknownFieldType,
//     ErrCyclicStructReference, ErrDuplicateLabel or ErrLimitExceeded
func (d *Decoder) Decode() (*Document, error) {
	tables, err := section.ReadTables(d.data, d.header, d.config.listCount)
	if err != nil {
		return nil, err
	}

	b := &treeBuilder{
		tables:     tables,
		labels:     make([]string, len(tables.Labels)),
		onPath:     make([]bool, len(tables.Structs)),
		maxDepth:   d.config.maxDepth,
		maxStructs: d.config.maxStructs,
	}
	for i, l := range tables.Labels {
		b.labels[i] = l.String()
	}

	root, err := b.buildStruct(0, 0)
	if err != nil {
		return nil, err
	}

	if b.built < len(tables.Structs) {
		d.config.logger.Debug("unreferenced structs",
			zap.Int("structs", len(tables.Structs)), zap.Int("reached", b.built))
	}

	return &Document{
		FileType: d.header.FileTypeString(),
		Version:  d.header.VersionString(),
		Root:     root,
		tables:   tables,
		warnings: d.warnings,
	}, nil
}

func (d *Decoder) warn(msg string, fields ...zap.Field) {
	d.config.logger.Warn(msg, fields...)
	d.warnings = append(d.warnings, msg)
}

// treeBuilder resolves struct and field entries into tree nodes.
type treeBuilder struct {
	tables     *section.Tables
	labels     []string
	onPath     []bool // structs on the path from the root to the current one
	maxDepth   int
	maxStructs int
	built      int
}

func (b *treeBuilder) buildStruct(idx uint32, depth int) (*tree.Struct, error) {
	if uint64(idx) >= uint64(len(b.tables.Structs)) {
		return nil, fmt.Errorf("%w: %d of %d", errs.ErrInvalidStructIndex, idx, len(b.tables.Structs))
	}
	if b.onPath[idx] {
		return nil, fmt.Errorf("%w: struct %d", errs.ErrCyclicStructReference, idx)
	}
	if depth > b.maxDepth {
		return nil, fmt.Errorf("%w: struct %d at depth %d", errs.ErrLimitExceeded, idx, depth)
	}
	if b.built >= b.maxStructs {
		return nil, fmt.Errorf("%w: more than %d structs", errs.ErrLimitExceeded, b.maxStructs)
	}
	b.built++

	b.onPath[idx] = true
	defer func() { b.onPath[idx] = false }()

	entry := b.tables.Structs[idx]
	fieldIdx, err := b.fieldIndices(entry)
	if err != nil {
		return nil, fmt.Errorf("struct %d: %w", idx, err)
	}

	st := tree.NewStruct(entry.ID)
	for _, fi := range fieldIdx {
		label, v, err := b.buildField(fi, depth)
		if err != nil {
			return nil, fmt.Errorf("struct %d: %w", idx, err)
		}
		if err := st.Add(label, v); err != nil {
			return nil, fmt.Errorf("struct %d: %w", idx, err)
		}
	}

	return st, nil
}

// fieldIndices applies the field-count rule of a struct entry.
func (b *treeBuilder) fieldIndices(entry section.StructEntry) ([]uint32, error) {
	switch s := entry.Slot().(type) {
	case section.SingleField:
		return []uint32{s.FieldIndex}, nil
	case section.IndexedFields:
		start, err := wordIndex(s.Offset, s.Count, len(b.tables.FieldIndices))
		if err != nil {
			return nil, fmt.Errorf("field indices: %w", err)
		}

		return b.tables.FieldIndices[start : start+uint64(s.Count)], nil
	default:
		return nil, nil
	}
}

func (b *treeBuilder) buildField(fi uint32, depth int) (string, tree.Value, error) {
	if uint64(fi) >= uint64(len(b.tables.Fields)) {
		return "", nil, fmt.Errorf("%w: %d of %d", errs.ErrInvalidFieldIndex, fi, len(b.tables.Fields))
	}
	f := b.tables.Fields[fi]
	if uint64(f.LabelIndex) >= uint64(len(b.labels)) {
		return "", nil, fmt.Errorf("field %d: %w: %d of %d", fi, errs.ErrInvalidLabelIndex, f.LabelIndex, len(b.labels))
	}
	label := b.labels[f.LabelIndex]

	slot, err := f.Slot()
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", label, err)
	}

	var v tree.Value
	switch s := slot.(type) {
	case section.StructRef:
		v, err = b.buildStruct(s.Index, depth+1)
	case section.ListOffset:
		v, err = b.buildList(s.Offset, depth+1)
	default:
		v, err = encoding.DecodeValue(f, b.tables.FieldData)
	}
	if err != nil {
		return "", nil, fmt.Errorf("field %q: %w", label, err)
	}

	return label, v, nil
}

// buildList reads a uint32 count followed by that many struct indices at a
// byte offset into the list-indices region.
func (b *treeBuilder) buildList(offset uint32, depth int) (tree.List, error) {
	words := b.tables.ListIndices
	start, err := wordIndex(offset, 1, len(words))
	if err != nil {
		return nil, fmt.Errorf("list: %w", err)
	}

	count := words[start]
	if start+1+uint64(count) > uint64(len(words)) {
		return nil, fmt.Errorf("%w: list at offset %d claims %d structs, region has %d words",
			errs.ErrTruncatedData, offset, count, len(words))
	}

	list := make(tree.List, 0, count)
	for i, si := range words[start+1 : start+1+uint64(count)] {
		child, err := b.buildStruct(si, depth)
		if err != nil {
			return nil, fmt.Errorf("list element %d: %w", i, err)
		}
		list = append(list, child)
	}

	return list, nil
}

// wordIndex converts a byte offset into a uint32 region to a word index and
// checks that n words starting there fit in a region of size words.
func wordIndex(offset, n uint32, size int) (uint64, error) {
	if offset%section.IndexSize != 0 {
		return 0, fmt.Errorf("%w: %d", errs.ErrMisalignedOffset, offset)
	}
	start := uint64(offset / section.IndexSize)
	if start+uint64(n) > uint64(size) {
		return 0, fmt.Errorf("%w: %d words at byte offset %d, region has %d words",
			errs.ErrOutOfBounds, n, offset, size)
	}

	return start, nil
}
