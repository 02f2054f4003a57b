//go:build !js

package main

import (
	"fmt"
	"os"
)

func main() {
	fmt.Fprintln(os.Stderr, "splatview is a WebAssembly application; build with GOOS=js GOARCH=wasm")
	os.Exit(1)
}
