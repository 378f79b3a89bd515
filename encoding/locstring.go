package encoding

import (
	"fmt"
	"math"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/tree"
)

// locStringFixedSize is the strref and substring count that follow the
// total-size word.
const locStringFixedSize = 8

// ReadLocString reads a localized string. All reads are confined to the
// size declared by its first word, so a substring that claims more bytes
// than the declared size fails with ErrTruncatedData.
func ReadLocString(c *cursor.Cursor) (*tree.LocString, error) {
	body, err := readLengthPrefixed(c)
	if err != nil {
		return nil, fmt.Errorf("locstring: %w", err)
	}

	r := cursor.NewReader(body)
	strRef, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("locstring strref: %w", err)
	}
	count, err := r.ReadUint32()
	if err != nil {
		return nil, fmt.Errorf("locstring count: %w", err)
	}
	// Each substring needs at least 8 bytes, which bounds the allocation.
	if uint64(count)*8 > uint64(r.Remaining()) { //nolint: gosec
		return nil, fmt.Errorf("%w: locstring claims %d substrings in %d bytes",
			errs.ErrTruncatedData, count, r.Remaining())
	}

	ls := &tree.LocString{StrRef: strRef}
	if count > 0 {
		ls.Substrings = make([]tree.LocSubstring, 0, count)
	}
	for i := uint32(0); i < count; i++ {
		id, err := r.ReadUint32()
		if err != nil {
			return nil, fmt.Errorf("locstring substring %d: %w", i, err)
		}
		text, err := ReadExoString(r)
		if err != nil {
			return nil, fmt.Errorf("locstring substring %d: %w", i, err)
		}
		lang, gender := tree.SplitStringID(id)
		ls.Substrings = append(ls.Substrings, tree.LocSubstring{Language: lang, Gender: gender, Text: text})
	}

	return ls, nil
}

// LocStringSize returns the number of bytes WriteLocString emits for ls.
func LocStringSize(ls *tree.LocString) uint64 {
	size := uint64(4 + locStringFixedSize)
	for _, s := range ls.Substrings {
		size += 8 + uint64(len(s.Text))
	}

	return size
}

// WriteLocString writes a localized string.
//
// Returns:
//   - error: ErrValueOutOfRange if a gender is not 0 or 1, a language does
//     not fit in 31 bits, or the payload exceeds 4 GiB
func WriteLocString(c *cursor.Cursor, ls *tree.LocString) error {
	if ls == nil {
		return fmt.Errorf("locstring: %w", errs.ErrNilValue)
	}
	size := LocStringSize(ls)
	if size > math.MaxUint32 {
		return fmt.Errorf("%w: locstring of %d bytes", errs.ErrValueOutOfRange, size)
	}
	for i, s := range ls.Substrings {
		if s.Gender > 1 {
			return fmt.Errorf("%w: substring %d gender %d", errs.ErrValueOutOfRange, i, s.Gender)
		}
		if s.Language > math.MaxUint32>>1 {
			return fmt.Errorf("%w: substring %d language %d", errs.ErrValueOutOfRange, i, s.Language)
		}
	}

	c.WriteUint32(uint32(size - 4)) //nolint: gosec
	c.WriteUint32(ls.StrRef)
	c.WriteUint32(uint32(len(ls.Substrings))) //nolint: gosec
	for _, s := range ls.Substrings {
		c.WriteUint32(s.StringID())
		c.WriteUint32(uint32(len(s.Text))) //nolint: gosec
		c.WriteString(s.Text)
	}

	return nil
}
