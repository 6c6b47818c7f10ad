package engine

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/caffeineduck/wasmbench/hostfunc"
)

var (
	ErrUnknownEngine = errors.New("unknown engine")
	ErrCompile       = errors.New("compile module")
	ErrLink          = errors.New("link module")
	ErrEntryPoint    = errors.New("entry point")
	ErrExecute       = errors.New("execute module")
	ErrClosed        = errors.New("engine closed")
)

// Engine loads a WebAssembly module and returns the f32 its entry point
// produces. Score matches trial.ScoreFunc.
type Engine interface {
	// Name is the identifier accepted by Open.
	Name() string

	// Score instantiates wasm with a fresh memory, calls the entry point
	// and returns its result.
	Score(ctx context.Context, wasm []byte) (float32, error)

	// Close releases compiled code and runtime state.
	Close(ctx context.Context) error
}

// Engine names accepted by Open.
const (
	NameWazero       = "wazero"
	NameWazeroInterp = "wazero-interp"
	NameWasmer       = "wasmer"
)

type descriptor struct {
	name string
	kind string
	open func(*hostfunc.Registry, ...Option) (Engine, error)
}

var engines = []descriptor{
	{NameWazero, "wazero, ahead-of-time compiler", openWazero(ModeCompiler)},
	{NameWazeroInterp, "wazero, interpreter", openWazero(ModeInterpreter)},
	{NameWasmer, "wasmer, JIT compiler (cgo)", openWasmer},
}

func openWazero(mode Mode) func(*hostfunc.Registry, ...Option) (Engine, error) {
	return func(r *hostfunc.Registry, opts ...Option) (Engine, error) {
		w, err := NewWazero(r, mode, opts...)
		if err != nil {
			return nil, err
		}
		return w, nil
	}
}

func openWasmer(r *hostfunc.Registry, opts ...Option) (Engine, error) {
	w, err := NewWasmer(r, opts...)
	if err != nil {
		return nil, err
	}
	return w, nil
}

// Names lists the engines Open understands, in a fixed order.
func Names() []string {
	names := make([]string, len(engines))
	for i, d := range engines {
		names[i] = d.name
	}
	return names
}

// Kind returns a short human description of the named engine.
func Kind(name string) (string, bool) {
	for _, d := range engines {
		if d.name == name {
			return d.kind, true
		}
	}
	return "", false
}

// Known reports whether Open accepts name.
func Known(name string) bool {
	_, ok := Kind(name)
	return ok
}

// Open creates the engine registered under name.
func Open(name string, registry *hostfunc.Registry, opts ...Option) (Engine, error) {
	for _, d := range engines {
		if d.name == name {
			return d.open(registry, opts...)
		}
	}
	return nil, fmt.Errorf("%w %q (expected one of %s)", ErrUnknownEngine, name, strings.Join(Names(), ", "))
}
