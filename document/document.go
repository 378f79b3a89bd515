// Package document assembles GFF tables into a tree of structs and linearizes
// a tree back into tables.
//
// Decoding starts at struct 0, resolves each struct's field-count rule into
// field indices and each field into a value, recursing into nested structs
// and lists. A struct that references one of its own ancestors fails with
// errs.ErrCyclicStructReference; structs referenced from more than one place
// without forming a cycle are decoded once per reference.
//
// Encoding is two passes. Layout walks the tree breadth first, numbering
// structs in visiting order with the root at 0, and builds every table and
// region in memory. The header is then computed from the region sizes and the
// file is serialized in region order.
//
//	doc, err := document.NewDecoder(data)
//	...
//	d, err := doc.Decode()
//	...
//	enc, _ := document.NewEncoder()
//	out, err := enc.Encode(d)
package document

import (
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/section"
	"github.com/altpersona/nwn-gff-service/tree"
)

// Document is a decoded or hand-built GFF file.
type Document struct {
	// FileType is the 4-byte magic tag, e.g. "GFF " or "UTC ".
	FileType string
	// Version is the 4-byte version tag.
	Version string
	// Root is the top-level struct.
	Root *tree.Struct

	tables   *section.Tables
	warnings []string
}

// New creates a document around root with the generic "GFF " file type and
// the current version. A nil root is replaced by an empty root struct.
func New(root *tree.Struct) *Document {
	if root == nil {
		root = tree.NewStruct(tree.RootStructID)
	}

	return &Document{
		FileType: format.FileTypeGFF,
		Version:  format.VersionV32,
		Root:     root,
	}
}

// Tables returns the tables the document was decoded from, or nil for a
// document that was not produced by a Decoder.
func (d *Document) Tables() *section.Tables {
	return d.tables
}

// Warnings returns the non-fatal problems found while decoding.
func (d *Document) Warnings() []string {
	return d.warnings
}

// StructCount returns the number of structs in the tree, the root included.
func (d *Document) StructCount() int {
	if d.Root == nil {
		return 0
	}

	n := 0
	_ = d.Root.Walk(func(*tree.Struct, int) error {
		n++
		return nil
	})

	return n
}
