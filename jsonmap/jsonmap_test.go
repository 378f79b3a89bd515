package jsonmap

import (
	"math"
	"strings"
	"testing"

	"github.com/altpersona/nwn-gff-service/errs"
	"github.com/altpersona/nwn-gff-service/tree"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleTree() *tree.Struct {
	return tree.NewStruct(tree.RootStructID).
		Set("Test", tree.String("Hello World")).
		Set("Version", tree.Int(1)).
		Set("Char", tree.Char(-128)).
		Set("Word", tree.Word(65535)).
		Set("Short", tree.Short(-1)).
		Set("Byte", tree.Byte(0)).
		Set("Dword", tree.Dword(math.MaxUint32)).
		Set("Dword64", tree.Dword64(math.MaxUint64)).
		Set("Int64", tree.Int64(math.MinInt64)).
		Set("Float", tree.Float(0.1)).
		Set("Double", tree.Double(-2.5e-300)).
		Set("NaN", tree.Float(float32(math.NaN()))).
		Set("Inf", tree.Double(math.Inf(-1))).
		Set("Ref", tree.ResRef("nw_it_gold001")).
		Set("Name", &tree.LocString{
			StrRef: 42,
			Substrings: []tree.LocSubstring{
				{Language: 0, Text: "Sword"},
				{Language: 2, Gender: 1, Text: "Schwert"},
			},
		}).
		Set("Blob", tree.Void{0, 1, 2, 0xFF}).
		Set("Lock", tree.NewStruct(3).Set("DC", tree.Byte(20))).
		Set("Items", tree.List{tree.NewStruct(0), tree.NewStruct(1).Set("Tag", tree.String(""))}).
		Set("None", tree.List{})
}

func TestToJSON_HelloWorldIsTypeTagged(t *testing.T) {
	root := tree.NewStruct(tree.RootStructID).
		Set("Test", tree.String("Hello World")).
		Set("Version", tree.Int(1))

	out, err := ToJSON(root)
	require.NoError(t, err)
	assert.Equal(t,
		`{"__struct_id":4294967295,"Test":{"type":"string","value":"Hello World"},"Version":{"type":"int","value":1}}`,
		string(out))
}

func TestRoundTrip(t *testing.T) {
	root := sampleTree()

	out, err := ToJSON(root)
	require.NoError(t, err)

	back, err := FromJSON(out)
	require.NoError(t, err)
	require.True(t, root.Equal(back), "json: %s", out)
}

func TestRoundTrip_Indented(t *testing.T) {
	root := sampleTree()

	out, err := ToJSON(root, WithIndent("", "  "))
	require.NoError(t, err)
	assert.Contains(t, string(out), "\n  \"Test\": {")

	back, err := FromJSON(out)
	require.NoError(t, err)
	require.True(t, root.Equal(back))
}

func TestToJSON_Values(t *testing.T) {
	root := tree.NewStruct(0).
		Set("F", tree.Float(0.1)).
		Set("N", tree.Float(float32(math.NaN()))).
		Set("P", tree.Double(math.Inf(1))).
		Set("V", tree.Void("hi")).
		Set("L", &tree.LocString{StrRef: 1})

	out, err := ToJSON(root)
	require.NoError(t, err)

	s := string(out)
	assert.Contains(t, s, `"F":{"type":"float","value":0.1}`)
	assert.Contains(t, s, `"N":{"type":"float","value":"NaN"}`)
	assert.Contains(t, s, `"P":{"type":"double","value":"+Inf"}`)
	assert.Contains(t, s, `"V":{"type":"void","value":"aGk="}`)
	assert.Contains(t, s, `"L":{"type":"locstring","value":{"strref":1,"strings":[]}}`)
}

func TestJSON_NaNBitsRoundTrip(t *testing.T) {
	tests := []struct {
		name  string
		value tree.Value
		want  string
	}{
		{"double quiet", tree.Double(math.Float64frombits(0x7FF8000000000000)), `"NaN"`},
		{"double go nan", tree.Double(math.NaN()), `"NaN:0x7ff8000000000001"`},
		{"double negative", tree.Double(math.Float64frombits(0xFFF8000000000000)), `"NaN:0xfff8000000000000"`},
		{"float quiet", tree.Float(math.Float32frombits(0x7FC00000)), `"NaN"`},
		{"float payload", tree.Float(math.Float32frombits(0x7FC00123)), `"NaN:0x7fc00123"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			root := tree.NewStruct(0).Set("X", tt.value)

			out, err := ToJSON(root)
			require.NoError(t, err)
			assert.Contains(t, string(out), `"value":`+tt.want)

			back, err := FromJSON(out)
			require.NoError(t, err)
			assert.True(t, root.Equal(back), "bits changed: %s", out)
		})
	}
}

func TestToJSON_SortedFields(t *testing.T) {
	root := tree.NewStruct(0).Set("b", tree.Byte(1)).Set("A", tree.Byte(2))

	out, err := ToJSON(root, WithSortedFields(true))
	require.NoError(t, err)
	assert.Equal(t, `{"__struct_id":0,"A":{"type":"byte","value":2},"b":{"type":"byte","value":1}}`, string(out))
	assert.Equal(t, []string{"b", "A"}, root.Labels(), "input is not modified")
}

func TestToJSON_ReservedKeyCollision(t *testing.T) {
	root := tree.NewStruct(0).Set(DefaultStructIDKey, tree.Int(1))

	_, err := ToJSON(root)
	require.ErrorIs(t, err, errs.ErrReservedKeyCollision)
	require.ErrorIs(t, err, errs.ErrInvalidJSONSchema)

	out, err := ToJSON(root, WithStructIDKey("$id"))
	require.NoError(t, err)
	back, err := FromJSON(out, WithStructIDKey("$id"))
	require.NoError(t, err)
	require.True(t, root.Equal(back))
}

func TestFromJSON_PreservesKeyOrder(t *testing.T) {
	in := `{"Zeta":{"type":"byte","value":1},"__struct_id":7,"alpha":{"value":2,"type":"byte"}}`

	root, err := FromJSON([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, uint32(7), root.ID)
	assert.Equal(t, []string{"Zeta", "alpha"}, root.Labels())
}

func TestFromJSON_DefaultsAndAliases(t *testing.T) {
	in := `{
		"Child": {"type": "struct", "value": {}},
		"Name":  {"type": "cexolocstring", "value": {"strings": [{"language": 1, "gender": 0, "text": "x"}]}},
		"Desc":  {"type": "CExoString", "value": "d"},
		"NaN":   {"type": "float", "value": "NaN"}
	}`

	root, err := FromJSON([]byte(in))
	require.NoError(t, err)
	assert.Equal(t, uint32(0), root.ID)

	v, _ := root.Get("Child")
	assert.Equal(t, uint32(0), v.(*tree.Struct).ID)

	v, _ = root.Get("Name")
	ls := v.(*tree.LocString)
	assert.Equal(t, uint32(math.MaxUint32), ls.StrRef, "missing strref means none")
	assert.Equal(t, []tree.LocSubstring{{Language: 1, Text: "x"}}, ls.Substrings)

	v, _ = root.Get("Desc")
	assert.Equal(t, tree.String("d"), v)

	v, _ = root.Get("NaN")
	assert.Equal(t, uint32(0x7FC00000), math.Float32bits(float32(v.(tree.Float))))
}

func TestFromJSON_SchemaErrors(t *testing.T) {
	tests := []struct {
		name string
		in   string
	}{
		{"not json", `{`},
		{"not an object", `[]`},
		{"trailing data", `{} {}`},
		{"bare value", `{"Tag": "chest"}`},
		{"missing type", `{"Tag": {"value": "x"}}`},
		{"unknown type", `{"Tag": {"type": "text", "value": "x"}}`},
		{"missing value", `{"Tag": {"type": "string"}}`},
		{"extra key", `{"Tag": {"type": "string", "value": "x", "note": 1}}`},
		{"duplicate type", `{"Tag": {"type": "string", "type": "int", "value": 1}}`},
		{"duplicate field", `{"A": {"type": "int", "value": 1}, "A": {"type": "int", "value": 2}}`},
		{"duplicate id", `{"__struct_id": 1, "__struct_id": 2}`},
		{"id not a number", `{"__struct_id": "1"}`},
		{"string for int", `{"A": {"type": "int", "value": "1"}}`},
		{"fraction for int", `{"A": {"type": "int", "value": 1.5}}`},
		{"number for string", `{"A": {"type": "string", "value": 1}}`},
		{"negative dword", `{"A": {"type": "dword", "value": -1}}`},
		{"float string", `{"A": {"type": "float", "value": "1.5"}}`},
		{"nan bits not nan", `{"A": {"type": "double", "value": "NaN:0x3ff0000000000000"}}`},
		{"nan bits too wide", `{"A": {"type": "float", "value": "NaN:0x7ff8000000000000"}}`},
		{"nan bits not hex", `{"A": {"type": "float", "value": "NaN:0xzz"}}`},
		{"bad base64", `{"A": {"type": "void", "value": "!!"}}`},
		{"struct not object", `{"A": {"type": "struct", "value": []}}`},
		{"list not array", `{"A": {"type": "list", "value": {}}}`},
		{"list of non-objects", `{"A": {"type": "list", "value": [1]}}`},
		{"locstring unknown key", `{"A": {"type": "locstring", "value": {"strref": 1, "extra": 2}}}`},
		{"null value", `{"A": {"type": "int", "value": null}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := FromJSON([]byte(tt.in))
			require.ErrorIs(t, err, errs.ErrInvalidJSONSchema)
		})
	}
}

func TestFromJSON_RangeErrors(t *testing.T) {
	tests := []string{
		`{"A": {"type": "byte", "value": 256}}`,
		`{"A": {"type": "char", "value": -129}}`,
		`{"A": {"type": "short", "value": 32768}}`,
		`{"A": {"type": "dword64", "value": 18446744073709551616}}`,
		`{"A": {"type": "float", "value": 1e39}}`,
		`{"A": {"type": "locstring", "value": {"strings": [{"language": 0, "gender": 2, "text": ""}]}}}`,
		`{"A": {"type": "locstring", "value": {"strings": [{"language": 2147483648, "gender": 0, "text": ""}]}}}`,
	}

	for _, in := range tests {
		_, err := FromJSON([]byte(in))
		require.ErrorIs(t, err, errs.ErrInvalidJSONSchema, in)
		require.ErrorIs(t, err, errs.ErrValueOutOfRange, in)
	}
}

func TestFromJSON_ReservedKeyCollision(t *testing.T) {
	_, err := FromJSON([]byte(`{"__struct_id": {"type": "int", "value": 1}}`))
	require.ErrorIs(t, err, errs.ErrReservedKeyCollision)
}

func TestFromJSON_LabelAndResRefLimits(t *testing.T) {
	_, err := FromJSON([]byte(`{"A": {"type": "resref", "value": "` + strings.Repeat("r", 17) + `"}}`))
	require.ErrorIs(t, err, errs.ErrResRefTooLong)

	root, err := FromJSON([]byte(`{"` + strings.Repeat("L", 17) + `": {"type": "int", "value": 1}}`))
	require.NoError(t, err, "labels are checked by the encoder")
	assert.Equal(t, 1, root.Len())
}

func TestFromJSON_ErrorPath(t *testing.T) {
	in := `{"Items": {"type": "list", "value": [{}, {"Tag": {"type": "bogus", "value": 1}}]}}`

	_, err := FromJSON([]byte(in))
	require.ErrorIs(t, err, errs.ErrInvalidJSONSchema)
	assert.Contains(t, err.Error(), "$.Items[1].Tag")
}
