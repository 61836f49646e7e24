package protosift_test

import (
	"fmt"

	protosift "github.com/protosift/protosift"
	"github.com/protosift/protosift/inspect"
	"github.com/protosift/protosift/wire"
)

func ExampleInspector_Inspect() {
	var data []byte
	data = wire.AppendTag(data, 1, wire.WireVarint)
	data = wire.AppendVarint(data, 150)
	data = wire.AppendTag(data, 2, wire.WireChunk)
	data = wire.AppendVarint(data, 5)
	data = append(data, "hello"...)

	ins := protosift.New()
	ins.SetStyles(inspect.PlainStyles())

	out, err := ins.Inspect(data, "root")
	if err != nil {
		panic(err)
	}
	fmt.Println(out)
	// Output:
	// root:
	//     1 <varint> = 150
	//     2 <chunk> = "hello"
}

func ExampleInspector_Tokens() {
	var data []byte
	data = wire.AppendTag(data, 1, wire.WireChunk)
	data = wire.AppendVarint(data, 8)
	data = append(data, "POKECOIN"...)
	data = wire.AppendTag(data, 2, wire.WireChunk)
	data = wire.AppendVarint(data, 8)
	data = append(data, "STARDUST"...)

	tokens, err := protosift.New().Tokens(data)
	if err != nil {
		panic(err)
	}
	for _, token := range tokens {
		fmt.Printf("%s\n", token)
	}
	// Output:
	// POKECOIN
	// STARDUST
}
