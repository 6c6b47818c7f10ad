// Package testwasm holds small hand-assembled modules that mimic the shape
// of the CoreMark binary, so engines can be exercised without running the
// real multi-second workload. The .wat files next to each binary in
// testdata/ are their source.
package testwasm

import (
	_ "embed"
)

// Clock imports env.clock_ms and exports run, which returns the clock
// reading converted to f32.
//
//go:embed testdata/clock.wasm
var Clock []byte

// NoEntry is Clock with its entry point exported as "main" instead of "run".
//
//go:embed testdata/noentry.wasm
var NoEntry []byte

// Trap exports a run function that hits unreachable.
//
//go:embed testdata/trap.wasm
var Trap []byte

// Memory declares a 512-page (32MB) minimum memory and returns 1 from run.
//
//go:embed testdata/memory.wasm
var Memory []byte

// Loop exports a run function that never returns.
//
//go:embed testdata/loop.wasm
var Loop []byte
