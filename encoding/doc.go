// Package encoding implements the GFF field value codec: the mapping between
// a field table entry's 4-byte slot plus the field-data region and a typed
// tree.Value.
//
// # Inline values
//
// byte, char, word, short, dword, int and float fit in the 4-byte slot of the
// field entry and are stored there, little-endian, using the low bytes of the
// slot for narrower types:
//
//	Byte(0x7F)   -> slot 0x0000007F
//	Char(-1)     -> slot 0x000000FF
//	Short(-2)    -> slot 0x0000FFFE
//	Float(1.0)   -> slot 0x3F800000
//
// # Field-data values
//
// Everything else except struct and list is appended to the field-data region
// and the slot holds the byte offset where the payload starts:
//
//	dword64, int64, double   8 bytes
//	string                   uint32 length + bytes
//	resref                   uint8 length (0-16) + bytes
//	locstring                uint32 size of the rest, uint32 strref,
//	                         uint32 count, then per substring:
//	                         uint32 language*2+gender, uint32 length, bytes
//	void                     uint32 length + bytes
//
// Struct and list fields reference other structs and are resolved by the
// document package, which owns the struct table.
//
// # Errors
//
// A payload that claims more bytes than the region holds fails with
// errs.ErrTruncatedData; an offset past the region fails with
// errs.ErrOutOfBounds; an unknown type tag fails with errs.ErrUnknownFieldType.
package encoding
