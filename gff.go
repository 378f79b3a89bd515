// Package gff reads and writes BioWare Generic File Format (GFF V3.2) files
// and maps them to and from a JSON representation.
//
// A GFF file is a tree of structs. Each struct holds labelled fields of
// sixteen types, from single bytes to localized strings, nested structs and
// lists of structs. On disk the tree is flattened into six tables addressed by
// a 56-byte header; this package hides that layout behind a typed tree.
//
// # Core Features
//
//   - Bounds-checked decoding: malformed input yields a typed error, never a panic
//   - Cycle detection and decode limits for hostile files
//   - Byte-exact re-encoding of files laid out in breadth-first order
//   - Typed JSON mapping that keeps every field type and struct id
//   - Embedding of compressed database images after the GFF payload
//
// # Basic Usage
//
// Converting a file to JSON and back:
//
//	import gff "github.com/altpersona/nwn-gff-service"
//
//	js, err := gff.GFFToJSON(data)
//	...
//	out, err := gff.JSONToGFF(js)
//
// Building a document by hand:
//
//	root := tree.NewStruct(tree.RootStructID)
//	root.Set("Tag", tree.String("guard_01"))
//	root.Set("HitPoints", tree.Short(12))
//	out, err := gff.Encode(gff.NewDocument(root))
//
// # Package Structure
//
// This package provides top-level wrappers for the common conversions. The
// document, jsonmap, embed and compress packages offer the full set of
// options.
package gff

import (
	"fmt"

	"github.com/altpersona/nwn-gff-service/compress"
	"github.com/altpersona/nwn-gff-service/document"
	"github.com/altpersona/nwn-gff-service/embed"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/jsonmap"
	"github.com/altpersona/nwn-gff-service/tree"
	"go.uber.org/zap"
)

type (
	// Document is a decoded or hand-built GFF file.
	Document = document.Document
	// Struct is a node of the document tree.
	Struct = tree.Struct
	// Value is the payload of a field.
	Value = tree.Value
)

// SetLogger sets the logger decoders and encoders use when no logger option
// is given. Call it once during startup.
func SetLogger(l *zap.Logger) {
	document.SetLogger(l)
}

// NewDocument creates a "GFF " V3.2 document around root.
func NewDocument(root *Struct) *Document {
	return document.New(root)
}

// Decode parses a GFF file into a document.
//
// Only the generic "GFF " magic is accepted unless
// document.WithAllowedFileTypes says otherwise.
func Decode(data []byte, opts ...document.DecoderOption) (*Document, error) {
	dec, err := document.NewDecoder(data, opts...)
	if err != nil {
		return nil, err
	}

	return dec.Decode()
}

// DecodeResource parses a GFF based resource whose type is given by its file
// extension, e.g. "utc" or ".bic". Both the resource magic and "GFF " are
// accepted.
func DecodeResource(ext string, data []byte, opts ...document.DecoderOption) (*Document, error) {
	tag, ok := format.FileTypeForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("unknown GFF resource extension %q", ext)
	}

	opts = append([]document.DecoderOption{document.WithAllowedFileTypes(format.FileTypeGFF, tag)}, opts...)

	return Decode(data, opts...)
}

// Encode serializes a document into a GFF file.
func Encode(doc *Document, opts ...document.EncoderOption) ([]byte, error) {
	enc, err := document.NewEncoder(opts...)
	if err != nil {
		return nil, err
	}

	return enc.Encode(doc)
}

// DocumentToJSON maps the document tree to its JSON form.
func DocumentToJSON(doc *Document, opts ...jsonmap.Option) ([]byte, error) {
	if doc == nil {
		return nil, fmt.Errorf("document: %w", errs.ErrNilValue)
	}

	return jsonmap.ToJSON(doc.Root, opts...)
}

// JSONToDocument parses the JSON form into a new "GFF " V3.2 document.
// The JSON form carries no file type; use JSONToResource for resources.
func JSONToDocument(data []byte, opts ...jsonmap.Option) (*Document, error) {
	root, err := jsonmap.FromJSON(data, opts...)
	if err != nil {
		return nil, err
	}

	return document.New(root), nil
}

// JSONToResource parses the JSON form into a document whose file type is the
// resource magic for ext, so that Encode writes e.g. "UTC " back.
func JSONToResource(ext string, data []byte, opts ...jsonmap.Option) (*Document, error) {
	tag, ok := format.FileTypeForExtension(ext)
	if !ok {
		return nil, fmt.Errorf("unknown GFF resource extension %q", ext)
	}

	doc, err := JSONToDocument(data, opts...)
	if err != nil {
		return nil, err
	}
	doc.FileType = tag

	return doc, nil
}

// GFFToJSON decodes a GFF file and maps it to JSON.
func GFFToJSON(data []byte, opts ...jsonmap.Option) ([]byte, error) {
	doc, err := Decode(data)
	if err != nil {
		return nil, err
	}

	return DocumentToJSON(doc, opts...)
}

// JSONToGFF parses the JSON form and encodes it as a GFF file.
func JSONToGFF(data []byte, opts ...jsonmap.Option) ([]byte, error) {
	doc, err := JSONToDocument(data, opts...)
	if err != nil {
		return nil, err
	}

	return Encode(doc)
}

// Compress compresses an opaque blob with zlib.
func Compress(data []byte) ([]byte, error) {
	return compress.NewZlibCompressor().Compress(data)
}

// Decompress reverses Compress.
func Decompress(data []byte) ([]byte, error) {
	return compress.NewZlibCompressor().Decompress(data)
}

// EmbedDatabase appends a compressed database image to a GFF file.
func EmbedDatabase(gffData, db []byte, opts ...embed.Option) ([]byte, error) {
	return embed.Embed(gffData, db, opts...)
}

// ExtractDatabase returns the database image embedded in data.
func ExtractDatabase(data []byte, opts ...embed.Option) ([]byte, error) {
	return embed.Extract(data, opts...)
}
