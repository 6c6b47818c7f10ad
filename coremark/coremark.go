// Package coremark embeds the CoreMark 1.0 WebAssembly build the benchmark
// runs.
package coremark

import (
	_ "embed"
)

//go:generate go run ../internal/tools/download https://raw.githubusercontent.com/wasm3/wasm-coremark/main/coremark-minimal.wasm coremark-minimal.wasm

//go:embed coremark-minimal.wasm
var wasmModule []byte

const (
	// Version is the CoreMark release the module was built from.
	Version = "1.0"

	// EntryPoint is the export that runs the workload and returns the
	// score as an f32.
	EntryPoint = "run"
)

// Module returns the embedded binary. Callers must not modify it.
func Module() []byte {
	return wasmModule
}
