// Package cursor provides a bounds-checked little-endian reader/writer over a
// byte buffer.
//
// A Cursor has a single position that both reads and writes advance. Reads
// never go past the end of the buffer: a read that needs more bytes than
// remain fails with errs.ErrTruncatedData and leaves the position unchanged.
// Writes grow the buffer as needed, overwriting bytes in place when the
// position is inside the existing data.
//
// Reading a GFF header field:
//
//	c := cursor.NewReader(data)
//	if err := c.Seek(8); err != nil {
//	    return err
//	}
//	structOffset, err := c.ReadUint32()
//
// Building a region:
//
//	w := cursor.NewWriter()
//	defer w.Release()
//	w.WriteUint32(uint32(len(s)))
//	w.WriteBytes([]byte(s))
package cursor

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/endian"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/internal/pool"
)

// Cursor reads and writes little-endian values at a movable position.
//
// Note: a Cursor is NOT thread-safe.
type Cursor struct {
	bb     *pool.ByteBuffer
	pos    int
	engine endian.EndianEngine
	pooled bool
}

// NewReader creates a cursor positioned at the start of data. The data is not
// copied; values returned by ReadBytes are copies.
func NewReader(data []byte) *Cursor {
	return &Cursor{
		bb:     pool.WrapByteBuffer(data),
		engine: endian.GetLittleEndianEngine(),
	}
}

// NewWriter creates an empty cursor backed by a pooled buffer. Call Release
// once the written bytes have been copied out.
func NewWriter() *Cursor {
	return &Cursor{
		bb:     pool.GetRegionBuffer(),
		engine: endian.GetLittleEndianEngine(),
		pooled: true,
	}
}

// Release returns a pooled buffer. The cursor must not be used afterwards.
func (c *Cursor) Release() {
	if c.pooled && c.bb != nil {
		pool.PutRegionBuffer(c.bb)
	}
	c.bb = nil
	c.pos = 0
}

// Pos returns the current absolute position.
func (c *Cursor) Pos() int {
	return c.pos
}

// Len returns the length of the underlying buffer.
func (c *Cursor) Len() int {
	return c.bb.Len()
}

// Remaining returns the number of bytes between the position and the end.
func (c *Cursor) Remaining() int {
	return c.bb.Len() - c.pos
}

// Bytes returns the underlying buffer. The slice is only valid until the
// next write or Release.
func (c *Cursor) Bytes() []byte {
	return c.bb.Bytes()
}

// Seek moves to an absolute position. Seeking to Len() is allowed.
func (c *Cursor) Seek(pos int) error {
	if pos < 0 || pos > c.bb.Len() {
		return fmt.Errorf("%w: seek to %d in buffer of %d bytes", errs.ErrOutOfBounds, pos, c.bb.Len())
	}
	c.pos = pos

	return nil
}

// need returns the next n bytes and advances past them.
func (c *Cursor) need(n int) ([]byte, error) {
	if n < 0 || n > c.Remaining() {
		return nil, fmt.Errorf("%w: need %d bytes at offset %d, have %d", errs.ErrTruncatedData, n, c.pos, c.Remaining())
	}
	b := c.bb.B[c.pos : c.pos+n]
	c.pos += n

	return b, nil
}

// ReadUint8 reads one byte.
func (c *Cursor) ReadUint8() (uint8, error) {
	b, err := c.need(1)
	if err != nil {
		return 0, err
	}

	return b[0], nil
}

// ReadUint16 reads a little-endian uint16.
func (c *Cursor) ReadUint16() (uint16, error) {
	b, err := c.need(2)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint16(b), nil
}

// ReadUint32 reads a little-endian uint32.
func (c *Cursor) ReadUint32() (uint32, error) {
	b, err := c.need(4)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint32(b), nil
}

// ReadUint64 reads a little-endian uint64.
func (c *Cursor) ReadUint64() (uint64, error) {
	b, err := c.need(8)
	if err != nil {
		return 0, err
	}

	return c.engine.Uint64(b), nil
}

// ReadBytes reads n bytes and returns a copy of them.
func (c *Cursor) ReadBytes(n int) ([]byte, error) {
	b, err := c.need(n)
	if err != nil {
		return nil, err
	}
	out := make([]byte, n)
	copy(out, b)

	return out, nil
}

// ReadView reads n bytes and returns a slice that aliases the buffer.
func (c *Cursor) ReadView(n int) ([]byte, error) {
	return c.need(n)
}

// reserve makes room for n bytes at the position, extending the buffer when
// the write runs past its end, and advances past them.
func (c *Cursor) reserve(n int) []byte {
	if end := c.pos + n; end > c.bb.Len() {
		c.bb.ExtendOrGrow(end - c.bb.Len())
	}
	b := c.bb.B[c.pos : c.pos+n]
	c.pos += n

	return b
}

// WriteUint8 writes one byte.
func (c *Cursor) WriteUint8(v uint8) {
	c.reserve(1)[0] = v
}

// WriteUint16 writes a little-endian uint16.
func (c *Cursor) WriteUint16(v uint16) {
	c.engine.PutUint16(c.reserve(2), v)
}

// WriteUint32 writes a little-endian uint32.
func (c *Cursor) WriteUint32(v uint32) {
	c.engine.PutUint32(c.reserve(4), v)
}

// WriteUint64 writes a little-endian uint64.
func (c *Cursor) WriteUint64(v uint64) {
	c.engine.PutUint64(c.reserve(8), v)
}

// WriteBytes writes b verbatim.
func (c *Cursor) WriteBytes(b []byte) {
	copy(c.reserve(len(b)), b)
}

// WriteString writes the bytes of s verbatim.
func (c *Cursor) WriteString(s string) {
	copy(c.reserve(len(s)), s)
}
