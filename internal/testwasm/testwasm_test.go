package testwasm

import (
	"bytes"
	"testing"
)

var wasmMagic = []byte{0x00, 'a', 's', 'm', 0x01, 0x00, 0x00, 0x00}

func TestModulesEmbedded(t *testing.T) {
	for name, bin := range map[string][]byte{
		"clock":   Clock,
		"noentry": NoEntry,
		"trap":    Trap,
		"memory":  Memory,
		"loop":    Loop,
	} {
		if !bytes.HasPrefix(bin, wasmMagic) {
			t.Errorf("%s: missing wasm header, got % x", name, bin)
		}
	}
}
