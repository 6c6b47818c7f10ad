package engine

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/caffeineduck/wasmbench/hostfunc"
	"github.com/wasmerio/wasmer-go/wasmer"
)

// Wasmer runs modules on the Wasmer runtime through its C API. Wasmer
// stores are not safe for concurrent use, so every Score call gets its own
// store and compiles the module into it.
//
// A running call cannot be interrupted: ctx is only checked between the
// compile, link and call steps.
type Wasmer struct {
	cfg      config
	engine   *wasmer.Engine
	registry *hostfunc.Registry
	mu       sync.RWMutex
	closed   bool
}

// NewWasmer creates a Wasmer engine with the default (Cranelift) compiler.
// A nil registry means hostfunc.NewDefaultRegistry.
func NewWasmer(registry *hostfunc.Registry, opts ...Option) (*Wasmer, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if registry == nil {
		registry = hostfunc.NewDefaultRegistry()
	}
	if cfg.diskCache || cfg.memoryLimitPages > 0 {
		cfg.logger.Debug("wasmer ignores disk cache and memory limit options")
	}

	return &Wasmer{
		cfg:      cfg,
		engine:   wasmer.NewEngine(),
		registry: registry,
	}, nil
}

// Name returns "wasmer".
func (w *Wasmer) Name() string {
	return NameWasmer
}

// Score compiles wasm into a fresh store, links the registry under env and
// calls the entry point.
func (w *Wasmer) Score(ctx context.Context, wasm []byte) (float32, error) {
	w.mu.RLock()
	closed := w.closed
	w.mu.RUnlock()
	if closed {
		return 0, ErrClosed
	}
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	store := wasmer.NewStore(w.engine)

	start := time.Now()
	module, err := wasmer.NewModule(store, wasm)
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	w.cfg.logger.Debug("module compiled",
		"engine", w.Name(),
		"bytes", len(wasm),
		"duration", time.Since(start))

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	instance, err := wasmer.NewInstance(module, w.importObject(ctx, store))
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrLink, err)
	}

	entry := w.cfg.entryPoint
	fn, err := instance.Exports.GetRawFunction(entry)
	if err != nil {
		return 0, fmt.Errorf("%w: function %q not exported: %w", ErrEntryPoint, entry, err)
	}
	if !isWasmerScoreSignature(fn.Type()) {
		return 0, fmt.Errorf("%w: %q does not have signature () -> f32", ErrEntryPoint, entry)
	}

	if err := ctx.Err(); err != nil {
		return 0, err
	}

	start = time.Now()
	result, err := fn.Call()
	if err != nil {
		return 0, fmt.Errorf("%w: %w", ErrExecute, err)
	}
	score, ok := result.(float32)
	if !ok {
		return 0, fmt.Errorf("%w: %q returned %T, want float32", ErrExecute, entry, result)
	}

	w.cfg.logger.Debug("call finished",
		"engine", w.Name(),
		"entry", entry,
		"score", score,
		"duration", time.Since(start))
	return score, nil
}

func (w *Wasmer) importObject(ctx context.Context, store *wasmer.Store) *wasmer.ImportObject {
	fnType := wasmer.NewFunctionType(wasmer.NewValueTypes(), wasmer.NewValueTypes(wasmer.I32))

	externs := make(map[string]wasmer.IntoExtern)
	for _, name := range w.registry.List() {
		fn, _ := w.registry.Get(name)
		externs[name] = wasmer.NewFunction(store, fnType, func(args []wasmer.Value) ([]wasmer.Value, error) {
			return []wasmer.Value{wasmer.NewI32(int32(fn(ctx)))}, nil
		})
	}

	imports := wasmer.NewImportObject()
	imports.Register(hostfunc.ImportModule, externs)
	return imports
}

// Close marks the engine closed so later Score calls fail with ErrClosed.
// It does not release the underlying *wasmer.Engine or any store: wasmer-go
// exposes no explicit release for them and frees the native memory from
// finalizers once they become unreachable.
func (w *Wasmer) Close(ctx context.Context) error {
	w.mu.Lock()
	w.closed = true
	w.mu.Unlock()
	return nil
}

func isWasmerScoreSignature(t *wasmer.FunctionType) bool {
	params, results := t.Params(), t.Results()
	return len(params) == 0 && len(results) == 1 && results[0].Kind() == wasmer.F32
}
