package jsonmap

import (
	"bytes"
	"encoding/base64"
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/altpersona/nwn-gff-service/encoding"
	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/format"
	"github.com/altpersona/nwn-gff-service/internal/options"
	"github.com/altpersona/nwn-gff-service/tree"
	"github.com/goccy/go-json"
)

// FromJSON converts type-tagged JSON back into a struct tree.
//
// Object key order becomes field order. A missing struct id key means id 0.
// Every field must carry a known "type" and a "value" of the matching JSON
// kind; the mapper never guesses a type from the value.
//
// Returns:
//   - *tree.Struct: Root struct
//   - error: ErrInvalidJSONSchema (malformed JSON, missing or unknown type,
//     wrong value kind, duplicate keys, out-of-range numbers),
//     ErrReservedKeyCollision or ErrResRefTooLong
func FromJSON(data []byte, opts ...Option) (*tree.Struct, error) {
	config := newConfig()
	if err := options.Apply(config, opts...); err != nil {
		return nil, err
	}

	r := &reader{idKey: config.idKey}
	dec := newDecoder(data)
	root, err := r.readStruct(dec, "$")
	if err != nil {
		return nil, err
	}
	if _, err := dec.Token(); !errors.Is(err, io.EOF) {
		return nil, schemaError("$", "trailing data after root object")
	}

	return root, nil
}

type reader struct {
	idKey string
}

func newDecoder(data []byte) *json.Decoder {
	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()

	return dec
}

func schemaError(path, msg string, args ...any) error {
	return fmt.Errorf("%s: %w: %s", path, errs.ErrInvalidJSONSchema, fmt.Sprintf(msg, args...))
}

func rangeError(path string, err error) error {
	return fmt.Errorf("%s: %w: %w", path, errs.ErrInvalidJSONSchema, errors.Join(errs.ErrValueOutOfRange, err))
}

func expectDelim(dec *json.Decoder, want json.Delim, path string) error {
	tok, err := dec.Token()
	if err != nil {
		return schemaError(path, "%v", err)
	}
	if d, ok := tok.(json.Delim); !ok || d != want {
		return schemaError(path, "expected %q, got %v", want, tok)
	}

	return nil
}

func readKey(dec *json.Decoder, path string) (string, error) {
	tok, err := dec.Token()
	if err != nil {
		return "", schemaError(path, "%v", err)
	}
	key, ok := tok.(string)
	if !ok {
		return "", schemaError(path, "expected object key, got %v", tok)
	}

	return key, nil
}

func (r *reader) readStruct(dec *json.Decoder, path string) (*tree.Struct, error) {
	if err := expectDelim(dec, '{', path); err != nil {
		return nil, err
	}

	st := tree.NewStruct(0)
	idSeen := false
	for dec.More() {
		key, err := readKey(dec, path)
		if err != nil {
			return nil, err
		}
		fieldPath := path + "." + key

		if key == r.idKey {
			if idSeen {
				return nil, schemaError(fieldPath, "duplicate struct id")
			}
			idSeen = true
			if st.ID, err = readStructID(dec, fieldPath); err != nil {
				return nil, err
			}

			continue
		}

		if _, dup := st.Get(key); dup {
			return nil, schemaError(fieldPath, "duplicate field")
		}
		v, err := r.readField(dec, fieldPath)
		if err != nil {
			return nil, err
		}
		if err := st.Add(key, v); err != nil {
			return nil, fmt.Errorf("%s: %w", fieldPath, err)
		}
	}

	if err := expectDelim(dec, '}', path); err != nil {
		return nil, err
	}

	return st, nil
}

func readStructID(dec *json.Decoder, path string) (uint32, error) {
	var raw json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return 0, schemaError(path, "%v", err)
	}
	if kind(raw) == '{' {
		return 0, fmt.Errorf("%s: %w", path, errs.ErrReservedKeyCollision)
	}

	v, err := parseUint(raw, 32, path)
	return uint32(v), err //nolint: gosec
}

// readField reads a {"type": ..., "value": ...} wrapper in either key order.
func (r *reader) readField(dec *json.Decoder, path string) (tree.Value, error) {
	if err := expectDelim(dec, '{', path); err != nil {
		return nil, err
	}

	var (
		typeName  string
		typeSeen  bool
		raw       json.RawMessage
		valueSeen bool
	)
	for dec.More() {
		key, err := readKey(dec, path)
		if err != nil {
			return nil, err
		}

		switch key {
		case "type":
			if typeSeen {
				return nil, schemaError(path, "duplicate type")
			}
			typeSeen = true
			tok, err := dec.Token()
			if err != nil {
				return nil, schemaError(path, "%v", err)
			}
			s, ok := tok.(string)
			if !ok {
				return nil, schemaError(path, "type must be a string, got %v", tok)
			}
			typeName = s
		case "value":
			if valueSeen {
				return nil, schemaError(path, "duplicate value")
			}
			valueSeen = true
			if err := dec.Decode(&raw); err != nil {
				return nil, schemaError(path, "%v", err)
			}
		default:
			return nil, schemaError(path, "unexpected key %q in field", key)
		}
	}
	if err := expectDelim(dec, '}', path); err != nil {
		return nil, err
	}

	if !typeSeen {
		return nil, schemaError(path, "missing type")
	}
	t, ok := format.ParseFieldType(typeName)
	if !ok {
		return nil, schemaError(path, "unknown type %q", typeName)
	}
	if !valueSeen {
		return nil, schemaError(path, "missing value")
	}

	return r.parseValue(t, raw, path)
}

func (r *reader) parseValue(t format.FieldType, raw json.RawMessage, path string) (tree.Value, error) {
	switch t {
	case format.FieldByte:
		v, err := parseUint(raw, 8, path)
		return tree.Byte(v), err //nolint: gosec
	case format.FieldChar:
		v, err := parseInt(raw, 8, path)
		return tree.Char(v), err //nolint: gosec
	case format.FieldWord:
		v, err := parseUint(raw, 16, path)
		return tree.Word(v), err //nolint: gosec
	case format.FieldShort:
		v, err := parseInt(raw, 16, path)
		return tree.Short(v), err //nolint: gosec
	case format.FieldDword:
		v, err := parseUint(raw, 32, path)
		return tree.Dword(v), err //nolint: gosec
	case format.FieldInt:
		v, err := parseInt(raw, 32, path)
		return tree.Int(v), err //nolint: gosec
	case format.FieldDword64:
		v, err := parseUint(raw, 64, path)
		return tree.Dword64(v), err
	case format.FieldInt64:
		v, err := parseInt(raw, 64, path)
		return tree.Int64(v), err
	case format.FieldFloat:
		v, err := parseFloat(raw, 32, path)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			nan, err := parseNaN(raw, 32, path)
			return tree.Float(math.Float32frombits(uint32(nan))), err
		}

		return tree.Float(v), nil
	case format.FieldDouble:
		v, err := parseFloat(raw, 64, path)
		if err != nil {
			return nil, err
		}
		if math.IsNaN(v) {
			nan, err := parseNaN(raw, 64, path)
			return tree.Double(math.Float64frombits(nan)), err
		}

		return tree.Double(v), nil
	case format.FieldString:
		s, err := parseString(raw, path)
		return tree.String(s), err
	case format.FieldResRef:
		s, err := parseString(raw, path)
		if err != nil {
			return nil, err
		}
		if len(s) > encoding.MaxResRefLength {
			return nil, fmt.Errorf("%s: %w: %q has %d bytes", path, errs.ErrResRefTooLong, s, len(s))
		}

		return tree.ResRef(s), nil
	case format.FieldLocString:
		return parseLocString(raw, path)
	case format.FieldVoid:
		s, err := parseString(raw, path)
		if err != nil {
			return nil, err
		}
		b, err := base64.StdEncoding.DecodeString(s)
		if err != nil {
			return nil, schemaError(path, "void value is not base64: %v", err)
		}

		return tree.Void(b), nil
	case format.FieldStruct:
		if kind(raw) != '{' {
			return nil, schemaError(path, "struct value must be an object")
		}

		return r.readStruct(newDecoder(raw), path)
	default: // format.FieldList
		return r.parseList(raw, path)
	}
}

func (r *reader) parseList(raw json.RawMessage, path string) (tree.List, error) {
	if kind(raw) != '[' {
		return nil, schemaError(path, "list value must be an array")
	}

	dec := newDecoder(raw)
	if err := expectDelim(dec, '[', path); err != nil {
		return nil, err
	}

	list := tree.List{}
	for i := 0; dec.More(); i++ {
		child, err := r.readStruct(dec, fmt.Sprintf("%s[%d]", path, i))
		if err != nil {
			return nil, err
		}
		list = append(list, child)
	}

	if err := expectDelim(dec, ']', path); err != nil {
		return nil, err
	}

	return list, nil
}

// kind returns the first byte of a JSON value, which identifies its kind.
func kind(raw json.RawMessage) byte {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 {
		return 0
	}

	return raw[0]
}

func isNumber(raw json.RawMessage) bool {
	k := kind(raw)
	return k == '-' || (k >= '0' && k <= '9')
}

func parseUint(raw json.RawMessage, bits int, path string) (uint64, error) {
	if !isNumber(raw) {
		return 0, schemaError(path, "expected an unsigned integer, got %s", raw)
	}
	v, err := strconv.ParseUint(string(bytes.TrimSpace(raw)), 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(path, err)
		}

		return 0, schemaError(path, "expected an unsigned integer, got %s", raw)
	}

	return v, nil
}

func parseInt(raw json.RawMessage, bits int, path string) (int64, error) {
	if !isNumber(raw) {
		return 0, schemaError(path, "expected an integer, got %s", raw)
	}
	v, err := strconv.ParseInt(string(bytes.TrimSpace(raw)), 10, bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(path, err)
		}

		return 0, schemaError(path, "expected an integer, got %s", raw)
	}

	return v, nil
}

// parseFloat accepts a JSON number or one of the strings "NaN",
// "NaN:0x<hex>", "+Inf", "-Inf", "Inf" and "Infinity". A NaN result only
// flags the kind; parseNaN recovers its bits.
func parseFloat(raw json.RawMessage, bits int, path string) (float64, error) {
	if kind(raw) == '"' {
		s, err := parseString(raw, path)
		if err != nil {
			return 0, err
		}
		if strings.HasPrefix(s, nanPrefix) {
			return math.NaN(), nil
		}
		f, err := strconv.ParseFloat(s, bits)
		if err != nil || !(math.IsNaN(f) || math.IsInf(f, 0)) {
			return 0, schemaError(path, "float string must be NaN or Inf, got %q", s)
		}

		return f, nil
	}

	if !isNumber(raw) {
		return 0, schemaError(path, "expected a number, got %s", raw)
	}
	f, err := strconv.ParseFloat(string(bytes.TrimSpace(raw)), bits)
	if err != nil {
		if errors.Is(err, strconv.ErrRange) {
			return 0, rangeError(path, err)
		}

		return 0, schemaError(path, "expected a number, got %s", raw)
	}

	return f, nil
}

// parseNaN returns the bit pattern of a NaN float string. Plain "NaN" is
// the quiet NaN of the given width.
func parseNaN(raw json.RawMessage, bits int, path string) (uint64, error) {
	s, err := parseString(raw, path)
	if err != nil {
		return 0, err
	}
	hex, ok := strings.CutPrefix(s, nanPrefix)
	if !ok {
		return quietNaNBits(bits), nil
	}

	v, err := strconv.ParseUint(hex, 16, bits)
	if err != nil || !isNaNBits(v, bits) {
		return 0, schemaError(path, "invalid NaN bit pattern %q", s)
	}

	return v, nil
}

func parseString(raw json.RawMessage, path string) (string, error) {
	if kind(raw) != '"' {
		return "", schemaError(path, "expected a string, got %s", raw)
	}

	var s string
	if err := json.Unmarshal(raw, &s); err != nil {
		return "", schemaError(path, "%v", err)
	}

	return s, nil
}

func parseLocString(raw json.RawMessage, path string) (*tree.LocString, error) {
	if kind(raw) != '{' {
		return nil, schemaError(path, "locstring value must be an object")
	}

	var in jsonLocString
	dec := newDecoder(raw)
	dec.DisallowUnknownFields()
	if err := dec.Decode(&in); err != nil {
		return nil, schemaError(path, "%v", err)
	}

	ls := &tree.LocString{StrRef: math.MaxUint32}
	if in.StrRef != nil {
		ls.StrRef = *in.StrRef
	}
	for i, s := range in.Strings {
		if s.Gender > 1 {
			return nil, rangeError(fmt.Sprintf("%s.strings[%d]", path, i),
				fmt.Errorf("gender %d", s.Gender))
		}
		if s.Language > math.MaxUint32>>1 {
			return nil, rangeError(fmt.Sprintf("%s.strings[%d]", path, i),
				fmt.Errorf("language %d", s.Language))
		}
		ls.Substrings = append(ls.Substrings, tree.LocSubstring{Language: s.Language, Gender: s.Gender, Text: s.Text})
	}

	return ls, nil
}
