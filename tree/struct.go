// Package tree is the in-memory form of a GFF document: a root Struct whose
// fields are typed Values, some of which are nested structs or lists of
// structs.
//
// Field order is insertion order and is preserved through decode and encode.
// Nothing in this package sorts fields unless asked to via SortedCopy.
//
//	root := tree.NewStruct(tree.RootStructID)
//	root.Set("Tag", tree.String("chest01"))
//	root.Set("HP", tree.Short(12))
//	items := tree.List{tree.NewStruct(0)}
//	root.Set("ItemList", items)
package tree

import (
	"fmt"
	"iter"
	"sort"
	"strings"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/elliotchance/orderedmap/v3"
)

// RootStructID is the id BioWare tools give the top-level struct.
const RootStructID uint32 = 0xFFFFFFFF

// Struct is an ordered set of labelled fields with an opaque numeric id.
//
// Note: a Struct is NOT thread-safe for concurrent modification.
type Struct struct {
	// ID is the struct type id. The codec preserves it but does not interpret it.
	ID     uint32
	fields *orderedmap.OrderedMap[string, Value]
}

// NewStruct creates an empty struct with the given id.
func NewStruct(id uint32) *Struct {
	return &Struct{
		ID:     id,
		fields: orderedmap.NewOrderedMap[string, Value](),
	}
}

func (s *Struct) lazyInit() {
	if s.fields == nil {
		s.fields = orderedmap.NewOrderedMap[string, Value]()
	}
}

// Len returns the number of fields.
func (s *Struct) Len() int {
	if s.fields == nil {
		return 0
	}

	return s.fields.Len()
}

// Get returns the value stored under label.
func (s *Struct) Get(label string) (Value, bool) {
	if s.fields == nil {
		return nil, false
	}

	return s.fields.Get(label)
}

// Set stores v under label. A new label is appended after the existing
// fields; an existing label keeps its position and gets the new value.
// Set returns s to allow chaining.
func (s *Struct) Set(label string, v Value) *Struct {
	s.lazyInit()
	s.fields.Set(label, v)

	return s
}

// Add appends a new field and fails with ErrDuplicateLabel when the label is
// already present. Decoders use Add so duplicate labels in the input are
// reported instead of silently collapsed.
func (s *Struct) Add(label string, v Value) error {
	if v == nil {
		return fmt.Errorf("field %q: %w", label, errs.ErrNilValue)
	}
	if _, ok := s.Get(label); ok {
		return fmt.Errorf("%w: %q", errs.ErrDuplicateLabel, label)
	}
	s.Set(label, v)

	return nil
}

// Delete removes a field and reports whether it was present.
func (s *Struct) Delete(label string) bool {
	if s.fields == nil {
		return false
	}

	return s.fields.Delete(label)
}

// All iterates over the fields in order.
func (s *Struct) All() iter.Seq2[string, Value] {
	return func(yield func(string, Value) bool) {
		if s.fields == nil {
			return
		}
		for el := s.fields.Front(); el != nil; el = el.Next() {
			if !yield(el.Key, el.Value) {
				return
			}
		}
	}
}

// Labels returns the field labels in order.
func (s *Struct) Labels() []string {
	labels := make([]string, 0, s.Len())
	for label := range s.All() {
		labels = append(labels, label)
	}

	return labels
}

// Equal reports whether two structs have the same id and the same fields in
// the same order with equal values.
func (s *Struct) Equal(o *Struct) bool {
	if s == nil || o == nil {
		return s == o
	}
	if s.ID != o.ID || s.Len() != o.Len() {
		return false
	}

	next, stop := iter.Pull2(o.All())
	defer stop()
	for label, v := range s.All() {
		olabel, ov, ok := next()
		if !ok || label != olabel || !Equal(v, ov) {
			return false
		}
	}

	return true
}

// SortedCopy returns a deep copy of s whose fields, and the fields of every
// nested struct, are sorted case-insensitively by label. Nil structs stay nil.
func (s *Struct) SortedCopy() *Struct {
	if s == nil {
		return nil
	}

	labels := s.Labels()
	sort.SliceStable(labels, func(i, j int) bool {
		return strings.ToLower(labels[i]) < strings.ToLower(labels[j])
	})

	out := NewStruct(s.ID)
	for _, label := range labels {
		v, _ := s.Get(label)
		switch tv := v.(type) {
		case *Struct:
			v = tv.SortedCopy()
		case List:
			list := make(List, len(tv))
			for i, child := range tv {
				list[i] = child.SortedCopy()
			}
			v = list
		}
		out.Set(label, v)
	}

	return out
}

// Walk calls fn for s and every struct nested below it, depth first, with the
// nesting depth (0 for s). Nil structs are skipped. It stops at the first
// error fn returns.
func (s *Struct) Walk(fn func(st *Struct, depth int) error) error {
	return s.walk(fn, 0)
}

func (s *Struct) walk(fn func(*Struct, int) error, depth int) error {
	if s == nil {
		return nil
	}
	if err := fn(s, depth); err != nil {
		return err
	}
	for _, v := range s.All() {
		switch tv := v.(type) {
		case *Struct:
			if err := tv.walk(fn, depth+1); err != nil {
				return err
			}
		case List:
			for _, child := range tv {
				if err := child.walk(fn, depth+1); err != nil {
					return err
				}
			}
		}
	}

	return nil
}

// CheckAcyclic fails with ErrCyclicStructReference when a struct contains
// itself, directly or through nested structs and lists. Trees built by the
// decoders are always acyclic; hand-built trees may not be.
func (s *Struct) CheckAcyclic() error {
	return s.checkAcyclic(make(map[*Struct]bool))
}

func (s *Struct) checkAcyclic(onPath map[*Struct]bool) error {
	if s == nil {
		return fmt.Errorf("%w: nil struct", errs.ErrNilValue)
	}
	if onPath[s] {
		return errs.ErrCyclicStructReference
	}
	onPath[s] = true
	defer delete(onPath, s)

	for label, v := range s.All() {
		switch tv := v.(type) {
		case *Struct:
			if err := tv.checkAcyclic(onPath); err != nil {
				return fmt.Errorf("field %q: %w", label, err)
			}
		case List:
			for i, child := range tv {
				if err := child.checkAcyclic(onPath); err != nil {
					return fmt.Errorf("field %q[%d]: %w", label, i, err)
				}
			}
		}
	}

	return nil
}
