package engine

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/caffeineduck/wasmbench/hostfunc"
	"github.com/cespare/xxhash/v2"
	"github.com/tetratelabs/wazero"
	"github.com/tetratelabs/wazero/api"
)

// Mode selects how wazero executes guest code.
type Mode int

const (
	ModeCompiler Mode = iota
	ModeInterpreter
)

func (m Mode) String() string {
	if m == ModeInterpreter {
		return "interpreter"
	}
	return "compiler"
}

// Wazero runs modules on a single wazero runtime. Compiled modules are
// cached by content, so repeated trials only pay for instantiation.
type Wazero struct {
	mode     Mode
	cfg      config
	runtime  wazero.Runtime
	cache    wazero.CompilationCache
	compiled map[uint64]wazero.CompiledModule
	mu       sync.RWMutex
	closed   bool
}

// NewWazero creates a wazero engine whose env module is built from
// registry. A nil registry means hostfunc.NewDefaultRegistry.
func NewWazero(registry *hostfunc.Registry, mode Mode, opts ...Option) (*Wazero, error) {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}
	if registry == nil {
		registry = hostfunc.NewDefaultRegistry()
	}

	ctx := context.Background()

	var cache wazero.CompilationCache
	var err error

	if cfg.diskCache {
		cacheDir := cfg.cacheDir
		if cacheDir == "" {
			cacheDir = DefaultCacheDir()
		}
		cache, err = wazero.NewCompilationCacheWithDir(cacheDir)
		if err != nil {
			return nil, fmt.Errorf("create disk cache: %w", err)
		}
	}

	var rtConfig wazero.RuntimeConfig
	if mode == ModeInterpreter {
		rtConfig = wazero.NewRuntimeConfigInterpreter()
	} else {
		rtConfig = wazero.NewRuntimeConfigCompiler()
	}
	rtConfig = rtConfig.WithCloseOnContextDone(true)
	if cache != nil {
		rtConfig = rtConfig.WithCompilationCache(cache)
	}
	if cfg.memoryLimitPages > 0 {
		rtConfig = rtConfig.WithMemoryLimitPages(cfg.memoryLimitPages)
	}

	rt := wazero.NewRuntimeWithConfig(ctx, rtConfig)
	if err := instantiateHostModule(ctx, rt, registry); err != nil {
		if cache != nil {
			cache.Close(ctx)
		}
		rt.Close(ctx)
		return nil, err
	}

	return &Wazero{
		mode:     mode,
		cfg:      cfg,
		runtime:  rt,
		cache:    cache,
		compiled: make(map[uint64]wazero.CompiledModule),
	}, nil
}

func instantiateHostModule(ctx context.Context, rt wazero.Runtime, registry *hostfunc.Registry) error {
	builder := rt.NewHostModuleBuilder(hostfunc.ImportModule)
	for _, name := range registry.List() {
		fn, _ := registry.Get(name)
		builder.NewFunctionBuilder().
			WithFunc(func(ctx context.Context) uint32 { return fn(ctx) }).
			Export(name)
	}
	if _, err := builder.Instantiate(ctx); err != nil {
		return fmt.Errorf("%w: instantiate %s: %w", ErrLink, hostfunc.ImportModule, err)
	}
	return nil
}

// Name returns "wazero" or "wazero-interp".
func (w *Wazero) Name() string {
	if w.mode == ModeInterpreter {
		return NameWazeroInterp
	}
	return NameWazero
}

// Score compiles wasm (once per distinct binary), instantiates it and
// calls the entry point.
func (w *Wazero) Score(ctx context.Context, wasm []byte) (float32, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	compiled, err := w.getCompiled(ctx, wasm)
	if err != nil {
		return 0, err
	}

	entry := w.cfg.entryPoint
	def, ok := compiled.ExportedFunctions()[entry]
	if !ok {
		return 0, fmt.Errorf("%w: function %q not exported", ErrEntryPoint, entry)
	}
	if !isScoreSignature(def.ParamTypes(), def.ResultTypes()) {
		return 0, fmt.Errorf("%w: %q has signature %v -> %v, want () -> f32",
			ErrEntryPoint, entry, valueTypeNames(def.ParamTypes()), valueTypeNames(def.ResultTypes()))
	}

	moduleConfig := wazero.NewModuleConfig().
		WithName("").
		WithStartFunctions()

	mod, err := w.runtime.InstantiateModule(ctx, compiled, moduleConfig)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrLink, ctxErr)
		}
		return 0, fmt.Errorf("%w: %w", ErrLink, err)
	}
	defer mod.Close(ctx)

	start := time.Now()
	results, err := mod.ExportedFunction(entry).Call(ctx)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return 0, fmt.Errorf("%w: %w", ErrExecute, ctxErr)
		}
		return 0, fmt.Errorf("%w: %w", ErrExecute, err)
	}
	score := api.DecodeF32(results[0])

	w.cfg.logger.Debug("call finished",
		"engine", w.Name(),
		"entry", entry,
		"score", score,
		"duration", time.Since(start))
	return score, nil
}

// getCompiled returns a cached compiled module, compiling if necessary.
func (w *Wazero) getCompiled(ctx context.Context, wasm []byte) (wazero.CompiledModule, error) {
	key := xxhash.Sum64(wasm)

	w.mu.RLock()
	if w.closed {
		w.mu.RUnlock()
		return nil, ErrClosed
	}
	if compiled, ok := w.compiled[key]; ok {
		w.mu.RUnlock()
		return compiled, nil
	}
	w.mu.RUnlock()

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil, ErrClosed
	}
	if compiled, ok := w.compiled[key]; ok {
		return compiled, nil
	}

	start := time.Now()
	compiled, err := w.runtime.CompileModule(ctx, wasm)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrCompile, err)
	}
	w.cfg.logger.Debug("module compiled",
		"engine", w.Name(),
		"bytes", len(wasm),
		"duration", time.Since(start))

	w.compiled[key] = compiled
	return compiled, nil
}

// Close releases the runtime and the compilation cache.
func (w *Wazero) Close(ctx context.Context) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closed {
		return nil
	}
	w.closed = true

	var errs []error
	if err := w.runtime.Close(ctx); err != nil {
		errs = append(errs, err)
	}
	if w.cache != nil {
		if err := w.cache.Close(ctx); err != nil {
			errs = append(errs, err)
		}
	}

	if len(errs) > 0 {
		return errs[0]
	}
	return nil
}

func isScoreSignature(params, results []api.ValueType) bool {
	return len(params) == 0 && len(results) == 1 && results[0] == api.ValueTypeF32
}

func valueTypeNames(types []api.ValueType) []string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = api.ValueTypeName(t)
	}
	return names
}

// DefaultCacheDir is where WithDiskCache stores compiled code when no
// directory is given.
func DefaultCacheDir() string {
	if dir := os.Getenv("XDG_CACHE_HOME"); dir != "" {
		return filepath.Join(dir, "wasmbench")
	}
	if home, err := os.UserHomeDir(); err == nil {
		return filepath.Join(home, ".cache", "wasmbench")
	}
	return filepath.Join(os.TempDir(), "wasmbench-cache")
}
