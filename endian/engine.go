// Package endian pins the byte order used by the GFF wire format.
//
// Every integer in a GFF file (header fields, table entries, length prefixes
// and inline values) is little-endian, regardless of the host. Code that
// reads or writes GFF bytes goes through an EndianEngine obtained here
// instead of naming binary.LittleEndian directly, so the byte order is
// decided in exactly one place.
//
//	engine := endian.GetLittleEndianEngine()
//	buf = engine.AppendUint32(buf, structCount)
//
// All functions in this package are safe for concurrent use; the returned
// engines are stateless.
package endian

import "encoding/binary"

// EndianEngine combines ByteOrder and AppendByteOrder interfaces from encoding/binary
// into a single interface for convenient byte order operations.
type EndianEngine interface {
	binary.ByteOrder
	binary.AppendByteOrder
}

// GetLittleEndianEngine returns the little-endian engine used by GFF.
func GetLittleEndianEngine() EndianEngine {
	return binary.LittleEndian
}

// IsWireOrder reports whether engine matches the GFF wire byte order.
func IsWireOrder(engine EndianEngine) bool {
	return engine == binary.LittleEndian
}
