package document

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/encoding"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/internal/labels"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
)

// Layout linearizes a tree into GFF tables.
//
// Structs are numbered breadth first with root at index 0. The fields of each
// struct occupy a contiguous run of the field table in the struct's field
// order. A struct with one field stores that field's index directly; a
// struct with more fields stores a byte offset into the field-indices region.
//
// The tree must be acyclic; Encoder checks that before calling Layout.
//
// Parameters:
//   - root: Top-level struct
//   - dedup: Share label table entries between fields with the same label
//
// Returns:
//   - *section.Tables: Tables ready for Header and Bytes
//   - error: Label, value or region size errors, wrapped with the struct
//     index and field label
func Layout(root *tree.Struct, dedup bool) (*section.Tables, error) {
	l := &layout{
		tables: &section.Tables{},
		labels: labels.NewTable(dedup),
		values: encoding.NewValueEncoder(),
		queue:  []*tree.Struct{root},
	}
	defer l.values.Release()

	for i := 0; i < len(l.queue); i++ {
		if err := l.layoutStruct(l.queue[i]); err != nil {
			return nil, fmt.Errorf("struct %d: %w", i, err)
		}
	}

	l.tables.Labels = append([]section.Label(nil), l.labels.Labels()...)
	l.tables.FieldData = l.values.Bytes()

	return l.tables, nil
}

type layout struct {
	tables *section.Tables
	labels *labels.Table
	values *encoding.ValueEncoder
	queue  []*tree.Struct // structs in index order; index i is queue[i]
}

// enqueue reserves the next struct index for s.
func (l *layout) enqueue(s *tree.Struct) (uint32, error) {
	if s == nil {
		return 0, errs.ErrNilValue
	}
	if uint64(len(l.queue)) > section.MaxRegionSize {
		return 0, fmt.Errorf("%w: too many structs", errs.ErrRegionTooLarge)
	}
	l.queue = append(l.queue, s)

	return uint32(len(l.queue) - 1), nil //nolint: gosec
}

func (l *layout) layoutStruct(s *tree.Struct) error {
	first := len(l.tables.Fields)

	for label, v := range s.All() {
		entry, err := l.layoutField(label, v)
		if err != nil {
			return fmt.Errorf("field %q: %w", label, err)
		}
		l.tables.Fields = append(l.tables.Fields, entry)
	}

	n := len(l.tables.Fields) - first
	var slot section.StructSlot
	switch {
	case n == 0:
		slot = section.NoFields{}
	case n == 1:
		slot = section.SingleField{FieldIndex: uint32(first)} //nolint: gosec
	default:
		offset, err := wordOffset(len(l.tables.FieldIndices))
		if err != nil {
			return err
		}
		for i := first; i < first+n; i++ {
			l.tables.FieldIndices = append(l.tables.FieldIndices, uint32(i)) //nolint: gosec
		}
		slot = section.IndexedFields{Offset: offset, Count: uint32(n)} //nolint: gosec
	}
	l.tables.Structs = append(l.tables.Structs, section.NewStructEntry(s.ID, slot))

	return nil
}

func (l *layout) layoutField(label string, v tree.Value) (section.FieldEntry, error) {
	labelIdx, err := l.labels.Intern(label)
	if err != nil {
		return section.FieldEntry{}, err
	}

	if v == nil {
		return section.FieldEntry{}, errs.ErrNilValue
	}
	if !v.Type().IsComplex() {
		slot, err := l.values.Encode(v)
		if err != nil {
			return section.FieldEntry{}, err
		}

		return section.NewFieldEntry(v.Type(), labelIdx, slot), nil
	}

	var slot section.FieldSlot
	switch val := v.(type) {
	case *tree.Struct:
		idx, err := l.enqueue(val)
		if err != nil {
			return section.FieldEntry{}, err
		}
		slot = section.StructRef{Index: idx}
	case tree.List:
		offset, err := wordOffset(len(l.tables.ListIndices))
		if err != nil {
			return section.FieldEntry{}, err
		}
		l.tables.ListIndices = append(l.tables.ListIndices, uint32(len(val))) //nolint: gosec
		for i, child := range val {
			idx, err := l.enqueue(child)
			if err != nil {
				return section.FieldEntry{}, fmt.Errorf("list element %d: %w", i, err)
			}
			l.tables.ListIndices = append(l.tables.ListIndices, idx)
		}
		slot = section.ListOffset{Offset: offset}
	}

	return section.NewFieldEntry(v.Type(), labelIdx, slot), nil
}

// wordOffset returns the byte offset of word n in a uint32 region.
func wordOffset(n int) (uint32, error) {
	offset := uint64(n) * section.IndexSize //nolint: gosec
	if offset > section.MaxRegionSize {
		return 0, fmt.Errorf("%w: offset %d", errs.ErrRegionTooLarge, offset)
	}

	return uint32(offset), nil
}
