package hostfunc

import (
	"context"
	"sort"
	"sync"
)

// ImportModule is the module name every registered function is linked under.
const ImportModule = "env"

// Func is a nullary host import returning an i32.
type Func func(ctx context.Context) uint32

// Registry maps import names to the host functions an engine links.
// It is safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	funcs map[string]Func
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{funcs: make(map[string]Func)}
}

// NewDefaultRegistry returns a registry holding the wall clock import the
// CoreMark module expects.
func NewDefaultRegistry() *Registry {
	r := NewRegistry()
	r.Register(ClockImport, SystemClock())
	return r
}

// Register adds fn under name, replacing any previous function.
func (r *Registry) Register(name string, fn Func) {
	r.mu.Lock()
	r.funcs[name] = fn
	r.mu.Unlock()
}

// Get returns the function registered under name.
func (r *Registry) Get(name string) (Func, bool) {
	r.mu.RLock()
	fn, ok := r.funcs[name]
	r.mu.RUnlock()
	return fn, ok
}

// List returns the registered names in lexical order so engines link
// imports deterministically.
func (r *Registry) List() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()
	names := make([]string, 0, len(r.funcs))
	for name := range r.funcs {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}
