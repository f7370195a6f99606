package main

import (
	"github.com/outofforest/proton"

	"github.com/greenstonesoft/greenstone-dds-sub002/wire"
)

//go:generate go run .
func main() {
	proton.Generate("../types.proton.go",
		proton.Message[wire.Hello](),
		proton.Message[wire.Header](),
		proton.Message[wire.Content](),
	)
}
