// Package labels builds the label table of a GFF file while structs are laid
// out, handing out label indices for field labels.
package labels

import (
	"github.com/altpersona/nwn-gff-service/internal/hash"
	"github.com/altpersona/nwn-gff-service/section"
)

// Table interns field labels and assigns their label-table indices.
//
// With deduplication on, every distinct label is stored once and all fields
// carrying it share the index. Lookups go through an xxHash64 of the label;
// different labels with the same hash are told apart by comparing the
// stored bytes, so a collision only costs a longer bucket.
//
// Note: Table is NOT thread-safe.
type Table struct {
	byHash map[uint64][]uint32 // hash → candidate indices
	labels []section.Label     // label table in index order
	dedup  bool
}

// NewTable creates an empty label table.
func NewTable(dedup bool) *Table {
	return &Table{
		byHash: make(map[uint64][]uint32),
		labels: make([]section.Label, 0),
		dedup:  dedup,
	}
}

// Intern returns the label-table index for name, adding it when needed.
//
// Returns:
//   - uint32: Index into the label table
//   - error: ErrLabelTooLong or ErrInvalidLabel from section.NewLabel
func (t *Table) Intern(name string) (uint32, error) {
	label, err := section.NewLabel(name)
	if err != nil {
		return 0, err
	}

	if !t.dedup {
		return t.add(label), nil
	}

	h := hash.Label(name)
	for _, idx := range t.byHash[h] {
		if t.labels[idx] == label {
			return idx, nil
		}
	}

	idx := t.add(label)
	t.byHash[h] = append(t.byHash[h], idx)

	return idx, nil
}

func (t *Table) add(label section.Label) uint32 {
	t.labels = append(t.labels, label)
	return uint32(len(t.labels) - 1) //nolint: gosec
}

// Labels returns the label table in index order.
func (t *Table) Labels() []section.Label {
	return t.labels
}
