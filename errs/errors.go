// Package errs defines the sentinel errors returned by the GFF codec.
//
// The top-level kinds mirror the failure classes a caller has to tell apart:
// malformed headers, out-of-bounds tables, truncated payloads, unknown field
// types, cyclic struct references and invalid JSON documents. Finer errors
// wrap one of those kinds, so errors.Is works against either level.
package errs

import (
	"errors"
	"fmt"
)

// Top-level error kinds.
var (
	ErrMalformedHeader       = errors.New("malformed header")
	ErrOutOfBounds           = errors.New("out of bounds")
	ErrTruncatedData         = errors.New("truncated data")
	ErrUnknownFieldType      = errors.New("unknown field type")
	ErrCyclicStructReference = errors.New("cyclic struct reference")
	ErrInvalidJSONSchema     = errors.New("invalid json schema")
)

// Header errors.
var (
	ErrInvalidHeaderSize = fmt.Errorf("%w: buffer shorter than header", ErrMalformedHeader)
	ErrInvalidMagic      = fmt.Errorf("%w: unexpected magic tag", ErrMalformedHeader)
	ErrVersionMismatch   = fmt.Errorf("%w: unexpected version tag", ErrMalformedHeader)
	ErrInvalidTag        = errors.New("file type and version tags must be at most 4 bytes")
)

// Table and layout errors.
var (
	ErrInvalidEntrySize   = errors.New("invalid table entry size")
	ErrInvalidStructIndex = fmt.Errorf("%w: struct index", ErrOutOfBounds)
	ErrInvalidFieldIndex  = fmt.Errorf("%w: field index", ErrOutOfBounds)
	ErrInvalidLabelIndex  = fmt.Errorf("%w: label index", ErrOutOfBounds)
	ErrMisalignedOffset   = fmt.Errorf("%w: offset is not aligned to 4 bytes", ErrOutOfBounds)
	ErrDuplicateLabel     = errors.New("duplicate field label in struct")
	ErrLabelTooLong       = errors.New("label exceeds 16 bytes")
	ErrInvalidLabel       = errors.New("label must be printable ASCII")
	ErrRegionTooLarge     = errors.New("region exceeds 4 GiB")
	ErrLimitExceeded      = errors.New("decode limit exceeded")
)

// Value errors.
var (
	ErrResRefTooLong    = errors.New("resref exceeds 16 bytes")
	ErrValueOutOfRange  = errors.New("value out of range")
	ErrNilValue         = errors.New("nil field value")
	ErrComplexFieldType = errors.New("struct and list fields are resolved by the tree builder")
)

// JSON errors.
var (
	ErrReservedKeyCollision = fmt.Errorf("%w: field label collides with the struct id key", ErrInvalidJSONSchema)
)

// Embed errors.
var (
	ErrEmbedNotFound = errors.New("no embedded database found")
)

var kinds = []struct {
	err  error
	name string
}{
	{ErrMalformedHeader, "MalformedHeader"},
	{ErrOutOfBounds, "OutOfBounds"},
	{ErrTruncatedData, "TruncatedData"},
	{ErrUnknownFieldType, "UnknownFieldType"},
	{ErrCyclicStructReference, "CyclicStructReference"},
	{ErrInvalidJSONSchema, "InvalidJSONSchema"},
}

// Kind returns the name of the top-level error kind err belongs to, or
// "Internal" when it matches none of them.
func Kind(err error) string {
	for _, k := range kinds {
		if errors.Is(err, k.err) {
			return k.name
		}
	}

	return "Internal"
}

// IsClientError reports whether err was caused by malformed input rather than
// by an internal layout failure. Transport layers map client errors to a
// 4xx status and everything else to a 5xx status.
func IsClientError(err error) bool {
	if err == nil {
		return false
	}
	if Kind(err) != "Internal" {
		return true
	}

	return errors.Is(err, ErrDuplicateLabel) ||
		errors.Is(err, ErrResRefTooLong) ||
		errors.Is(err, ErrLabelTooLong) ||
		errors.Is(err, ErrInvalidLabel) ||
		errors.Is(err, ErrLimitExceeded) ||
		errors.Is(err, ErrEmbedNotFound)
}
