package section

import (
	"bytes"
	"fmt"

	"github.com/altpersona/nwn-gff-service/errs"
)

// Label is a fixed 16-byte field name. Shorter names are NUL padded; a
// 16-byte name has no terminator.
type Label [LabelSize]byte

// NewLabel builds a label from a name of at most 16 ASCII bytes without NUL.
func NewLabel(name string) (Label, error) {
	var l Label
	if len(name) > LabelSize {
		return l, fmt.Errorf("%w: %q has %d bytes", errs.ErrLabelTooLong, name, len(name))
	}
	for i := 0; i < len(name); i++ {
		if name[i] == 0 || name[i] > 0x7F {
			return l, fmt.Errorf("%w: %q has byte 0x%02x at %d", errs.ErrInvalidLabel, name, name[i], i)
		}
	}
	copy(l[:], name)

	return l, nil
}

// ParseLabel copies a label out of a byte slice.
func ParseLabel(data []byte) (Label, error) {
	var l Label
	if len(data) < LabelSize {
		return l, errs.ErrInvalidEntrySize
	}
	copy(l[:], data[:LabelSize])

	return l, nil
}

// String returns the name up to the first NUL byte.
func (l Label) String() string {
	if i := bytes.IndexByte(l[:], 0); i >= 0 {
		return string(l[:i])
	}

	return string(l[:])
}
