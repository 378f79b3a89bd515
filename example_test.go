package gff_test

import (
	"fmt"

	gff "github.com/altpersona/nwn-gff-service"
	"github.com/altpersona/nwn-gff-service/tree"
)

func Example() {
	root := tree.NewStruct(tree.RootStructID)
	root.Set("Tag", tree.String("guard_01"))
	root.Set("HitPoints", tree.Short(12))

	data, err := gff.Encode(gff.NewDocument(root))
	if err != nil {
		panic(err)
	}

	js, err := gff.GFFToJSON(data)
	if err != nil {
		panic(err)
	}
	fmt.Println(string(js))
	// Output:
	// {"__struct_id":4294967295,"Tag":{"type":"string","value":"guard_01"},"HitPoints":{"type":"short","value":12}}
}

func ExampleJSONToGFF() {
	js := []byte(`{"__struct_id":0,"Items":{"type":"list","value":[
		{"__struct_id":1,"Stack":{"type":"word","value":5}},
		{"__struct_id":1,"Stack":{"type":"word","value":9}}
	]}}`)

	data, err := gff.JSONToGFF(js)
	if err != nil {
		panic(err)
	}

	doc, err := gff.Decode(data)
	if err != nil {
		panic(err)
	}

	items, _ := doc.Root.Get("Items")
	for _, item := range items.(tree.List) {
		stack, _ := item.Get("Stack")
		fmt.Println(stack)
	}
	fmt.Println(doc.StructCount())
	// Output:
	// 5
	// 9
	// 3
}

func ExampleEmbedDatabase() {
	root := tree.NewStruct(tree.RootStructID)
	root.Set("Mod_Name", tree.String("Test Module"))

	data, _ := gff.Encode(gff.NewDocument(root))

	withDB, err := gff.EmbedDatabase(data, []byte("SQLite format 3\x00"))
	if err != nil {
		panic(err)
	}

	db, err := gff.ExtractDatabase(withDB)
	if err != nil {
		panic(err)
	}
	fmt.Printf("%q\n", db)
	// Output:
	// "SQLite format 3\x00"
}
