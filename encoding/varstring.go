package encoding

import (
	"fmt"
	"math"

	"github.com/altpersona/nwn-gff-service/cursor"
	"github.com/altpersona/nwn-gff-service/errs"
)

// MaxResRefLength is the maximum length of a resref in bytes.
// The length prefix is a single byte, but the engine only accepts 16.
const MaxResRefLength = 16

// ReadResRef reads a uint8 length-prefixed resref.
//
// Returns:
//   - string: The resref bytes
//   - error: ErrResRefTooLong if the length byte exceeds 16, ErrTruncatedData
//     if the region ends early
func ReadResRef(c *cursor.Cursor) (string, error) {
	n, err := c.ReadUint8()
	if err != nil {
		return "", err
	}
	if n > MaxResRefLength {
		return "", fmt.Errorf("%w: length byte %d at offset %d", errs.ErrResRefTooLong, n, c.Pos()-1)
	}

	b, err := c.ReadView(int(n))
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WriteResRef writes a uint8 length-prefixed resref.
//
// Returns:
//   - error: ErrResRefTooLong if s is longer than 16 bytes; s is never truncated
func WriteResRef(c *cursor.Cursor, s string) error {
	if len(s) > MaxResRefLength {
		return fmt.Errorf("%w: %q has %d bytes", errs.ErrResRefTooLong, s, len(s))
	}

	c.WriteUint8(uint8(len(s))) //nolint: gosec
	c.WriteString(s)

	return nil
}

// ReadExoString reads a uint32 length-prefixed string. No trailing NUL is
// expected or consumed.
func ReadExoString(c *cursor.Cursor) (string, error) {
	b, err := readLengthPrefixed(c)
	if err != nil {
		return "", err
	}

	return string(b), nil
}

// WriteExoString writes a uint32 length-prefixed string.
func WriteExoString(c *cursor.Cursor, s string) error {
	if uint64(len(s)) > math.MaxUint32 {
		return fmt.Errorf("%w: string of %d bytes", errs.ErrValueOutOfRange, len(s))
	}

	c.WriteUint32(uint32(len(s))) //nolint: gosec
	c.WriteString(s)

	return nil
}

// ReadVoid reads a uint32 length-prefixed binary blob and returns a copy.
func ReadVoid(c *cursor.Cursor) ([]byte, error) {
	b, err := readLengthPrefixed(c)
	if err != nil {
		return nil, err
	}

	out := make([]byte, len(b))
	copy(out, b)

	return out, nil
}

// WriteVoid writes a uint32 length-prefixed binary blob.
func WriteVoid(c *cursor.Cursor, b []byte) error {
	if uint64(len(b)) > math.MaxUint32 {
		return fmt.Errorf("%w: blob of %d bytes", errs.ErrValueOutOfRange, len(b))
	}

	c.WriteUint32(uint32(len(b))) //nolint: gosec
	c.WriteBytes(b)

	return nil
}

func readLengthPrefixed(c *cursor.Cursor) ([]byte, error) {
	start := c.Pos()
	n, err := c.ReadUint32()
	if err != nil {
		return nil, err
	}
	if uint64(n) > uint64(c.Remaining()) { //nolint: gosec
		return nil, fmt.Errorf("%w: length %d at offset %d, %d bytes left",
			errs.ErrTruncatedData, n, start, c.Remaining())
	}

	return c.ReadView(int(n))
}
