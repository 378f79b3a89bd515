package pool

import "sync"

const (
	// RegionBufferDefaultSize is the initial capacity of a pooled region buffer.
	RegionBufferDefaultSize = 1024 * 4 // 4KiB
	// RegionBufferMaxThreshold caps the capacity of buffers returned to the pool.
	RegionBufferMaxThreshold = 1024 * 256 // 256KiB
)

// ByteBuffer is the backing store of a cursor: either a pooled, growable
// region under construction or a read-only view of an input file.
type ByteBuffer struct {
	B []byte
}

// NewByteBuffer creates an empty buffer with the given capacity.
func NewByteBuffer(capacity int) *ByteBuffer {
	return &ByteBuffer{B: make([]byte, 0, capacity)}
}

// WrapByteBuffer wraps an existing slice without copying it.
func WrapByteBuffer(b []byte) *ByteBuffer {
	return &ByteBuffer{B: b}
}

// Bytes returns the buffer contents. The slice aliases the buffer.
func (bb *ByteBuffer) Bytes() []byte {
	return bb.B
}

// Reset empties the buffer and keeps its memory.
func (bb *ByteBuffer) Reset() {
	bb.B = bb.B[:0]
}

// Len returns the number of bytes in the buffer.
func (bb *ByteBuffer) Len() int {
	return len(bb.B)
}

// ExtendOrGrow appends n zero bytes, reallocating when capacity runs out.
// Reused memory is cleared so padding between fields is always zero.
func (bb *ByteBuffer) ExtendOrGrow(n int) {
	start := len(bb.B)
	bb.Grow(n)
	bb.B = bb.B[:start+n]
	clear(bb.B[start:])
}

// Grow makes room for n more bytes without changing the length.
//
// Buffers up to 16KiB grow by RegionBufferDefaultSize; larger ones grow by a
// quarter of their capacity, or by n when that is more.
func (bb *ByteBuffer) Grow(n int) {
	if cap(bb.B)-len(bb.B) >= n {
		return
	}

	step := RegionBufferDefaultSize
	if cap(bb.B) > 4*RegionBufferDefaultSize {
		step = cap(bb.B) / 4
	}
	step = max(step, n)

	grown := make([]byte, len(bb.B), len(bb.B)+step)
	copy(grown, bb.B)
	bb.B = grown
}

// ByteBufferPool recycles region buffers between encodes.
//
// Buffers whose capacity grew past maxThreshold are dropped instead of being
// returned, so one huge file does not pin memory.
type ByteBufferPool struct {
	pool         sync.Pool
	maxThreshold int
}

// NewByteBufferPool creates a pool handing out buffers of capacity size.
func NewByteBufferPool(size int, maxThreshold int) *ByteBufferPool {
	return &ByteBufferPool{
		pool: sync.Pool{
			New: func() any {
				return NewByteBuffer(size)
			},
		},
		maxThreshold: maxThreshold,
	}
}

// Get returns an empty buffer.
func (bbp *ByteBufferPool) Get() *ByteBuffer {
	bb, _ := bbp.pool.Get().(*ByteBuffer)
	return bb
}

// Put recycles bb. A nil buffer is ignored.
func (bbp *ByteBufferPool) Put(bb *ByteBuffer) {
	if bb == nil || (bbp.maxThreshold > 0 && cap(bb.B) > bbp.maxThreshold) {
		return
	}

	bb.Reset()
	bbp.pool.Put(bb)
}

var regionPool = NewByteBufferPool(RegionBufferDefaultSize, RegionBufferMaxThreshold)

// GetRegionBuffer returns an empty buffer from the shared region pool.
func GetRegionBuffer() *ByteBuffer {
	return regionPool.Get()
}

// PutRegionBuffer returns bb to the shared region pool.
func PutRegionBuffer(bb *ByteBuffer) {
	regionPool.Put(bb)
}
