// Package jsonmap converts GFF trees to and from a type-tagged JSON form.
//
// Every struct is an object. Its id is stored under a reserved key and each
// field becomes a {"type", "value"} wrapper, so integer width, signedness and
// the string/resref distinction survive the trip through JSON:
//
//	{
//	  "__struct_id": 4294967295,
//	  "Tag":      {"type": "string", "value": "chest01"},
//	  "HP":       {"type": "short", "value": 12},
//	  "LocName":  {"type": "locstring", "value": {"strref": 4294967295,
//	               "strings": [{"language": 0, "gender": 0, "text": "Chest"}]}},
//	  "Data":     {"type": "void", "value": "AAEC"},
//	  "Lock":     {"type": "struct", "value": {"__struct_id": 3, ...}},
//	  "ItemList": {"type": "list", "value": [{"__struct_id": 0, ...}]}
//	}
//
// Object key order is the field order. Floats that have no JSON number form
// are written as the strings "NaN", "+Inf" and "-Inf". Void payloads are
// standard base64.
package jsonmap

import (
	"bytes"
	"encoding/base64"
	"fmt"
	"math"
	"strconv"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"github.com/altpersona/nwn-gff-service/internal/pool"
	"github.com/altpersona/nwn-gff-service/tree"
	"github.com/goccy/go-json"
)

type jsonSubstring struct {
	Language uint32 `json:"language"`
	Gender   uint8  `json:"gender"`
	Text     string `json:"text"`
}

type jsonLocString struct {
	StrRef  *uint32         `json:"strref"`
	Strings []jsonSubstring `json:"strings"`
}

// ToJSON converts a struct tree to type-tagged JSON.
//
// Returns:
//   - []byte: JSON document
//   - error: ErrReservedKeyCollision if a label equals the struct id key,
//     ErrNilValue for nil fields
func ToJSON(root *tree.Struct, opts ...Option) ([]byte, error) {
	config := newConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, fmt.Errorf("root: %w", errs.ErrNilValue)
	}
	if err := root.CheckAcyclic(); err != nil {
		return nil, err
	}
	if config.sorted {
		root = root.SortedCopy()
	}

	bb := pool.GetRegionBuffer()
	defer pool.PutRegionBuffer(bb)

	w := &writer{buf: bb.B[:0], idKey: config.idKey}
	if err := w.writeStruct(root, "$"); err != nil {
		return nil, err
	}
	bb.B = w.buf

	if config.prefix == "" && config.indent == "" {
		return append([]byte(nil), w.buf...), nil
	}

	var out bytes.Buffer
	out.Grow(len(w.buf) * 2)
	if err := json.Indent(&out, w.buf, config.prefix, config.indent); err != nil {
		return nil, err
	}

	return out.Bytes(), nil
}

type writer struct {
	buf   []byte
	idKey string
}

func (w *writer) writeString(s string) error {
	b, err := json.Marshal(s)
	if err != nil {
		return err
	}
	w.buf = append(w.buf, b...)

	return nil
}

func (w *writer) writeStruct(s *tree.Struct, path string) error {
	w.buf = append(w.buf, '{')
	if err := w.writeString(w.idKey); err != nil {
		return err
	}
	w.buf = append(w.buf, ':')
	w.buf = strconv.AppendUint(w.buf, uint64(s.ID), 10)

	for label, v := range s.All() {
		fieldPath := path + "." + label
		if label == w.idKey {
			return fmt.Errorf("%s: %w", fieldPath, errs.ErrReservedKeyCollision)
		}
		w.buf = append(w.buf, ',')
		if err := w.writeString(label); err != nil {
			return err
		}
		w.buf = append(w.buf, ':')
		if err := w.writeField(v, fieldPath); err != nil {
			return err
		}
	}
	w.buf = append(w.buf, '}')

	return nil
}

func (w *writer) writeField(v tree.Value, path string) error {
	if v == nil {
		return fmt.Errorf("%s: %w", path, errs.ErrNilValue)
	}

	w.buf = append(w.buf, `{"type":"`...)
	w.buf = append(w.buf, v.Type().String()...)
	w.buf = append(w.buf, `","value":`...)

	var err error
	switch val := v.(type) {
	case tree.Byte:
		w.buf = strconv.AppendUint(w.buf, uint64(val), 10)
	case tree.Char:
		w.buf = strconv.AppendInt(w.buf, int64(val), 10)
	case tree.Word:
		w.buf = strconv.AppendUint(w.buf, uint64(val), 10)
	case tree.Short:
		w.buf = strconv.AppendInt(w.buf, int64(val), 10)
	case tree.Dword:
		w.buf = strconv.AppendUint(w.buf, uint64(val), 10)
	case tree.Int:
		w.buf = strconv.AppendInt(w.buf, int64(val), 10)
	case tree.Dword64:
		w.buf = strconv.AppendUint(w.buf, uint64(val), 10)
	case tree.Int64:
		w.buf = strconv.AppendInt(w.buf, int64(val), 10)
	case tree.Float:
		w.writeFloat(float64(val), uint64(math.Float32bits(float32(val))), 32)
	case tree.Double:
		w.writeFloat(float64(val), math.Float64bits(float64(val)), 64)
	case tree.String:
		err = w.writeString(string(val))
	case tree.ResRef:
		err = w.writeString(string(val))
	case *tree.LocString:
		err = w.writeLocString(val, path)
	case tree.Void:
		w.buf = append(w.buf, '"')
		w.buf = base64.StdEncoding.AppendEncode(w.buf, val)
		w.buf = append(w.buf, '"')
	case *tree.Struct:
		err = w.writeStruct(val, path)
	case tree.List:
		w.buf = append(w.buf, '[')
		for i, child := range val {
			if i > 0 {
				w.buf = append(w.buf, ',')
			}
			if err = w.writeStruct(child, fmt.Sprintf("%s[%d]", path, i)); err != nil {
				break
			}
		}
		w.buf = append(w.buf, ']')
	}
	if err != nil {
		return err
	}
	w.buf = append(w.buf, '}')

	return nil
}

// writeFloat writes non-finite values as strings. A NaN other than the
// quiet NaN of its width carries its bit pattern as "NaN:0x<hex>".
func (w *writer) writeFloat(f float64, bits uint64, bitSize int) {
	switch {
	case math.IsNaN(f) && bits == quietNaNBits(bitSize):
		w.buf = append(w.buf, `"NaN"`...)
	case math.IsNaN(f):
		w.buf = append(w.buf, `"NaN:0x`...)
		w.buf = strconv.AppendUint(w.buf, bits, 16)
		w.buf = append(w.buf, '"')
	case math.IsInf(f, 1):
		w.buf = append(w.buf, `"+Inf"`...)
	case math.IsInf(f, -1):
		w.buf = append(w.buf, `"-Inf"`...)
	default:
		w.buf = strconv.AppendFloat(w.buf, f, 'g', -1, bitSize)
	}
}

func (w *writer) writeLocString(ls *tree.LocString, path string) error {
	if ls == nil {
		return fmt.Errorf("%s: %w", path, errs.ErrNilValue)
	}

	strRef := ls.StrRef
	out := jsonLocString{StrRef: &strRef, Strings: make([]jsonSubstring, 0, len(ls.Substrings))}
	for _, s := range ls.Substrings {
		out.Strings = append(out.Strings, jsonSubstring{Language: s.Language, Gender: s.Gender, Text: s.Text})
	}

	b, err := json.Marshal(out)
	if err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	w.buf = append(w.buf, b...)

	return nil
}

const nanPrefix = "NaN:0x"

func quietNaNBits(bitSize int) uint64 {
	if bitSize == 32 {
		return 0x7FC00000
	}

	return 0x7FF8000000000000
}

func isNaNBits(v uint64, bitSize int) bool {
	if bitSize == 32 {
		return math.IsNaN(float64(math.Float32frombits(uint32(v))))
	}

	return math.IsNaN(math.Float64frombits(v))
}
