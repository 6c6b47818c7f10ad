// Package hostfunc provides the host functions linked into benchmark
// modules.
//
// A guest module has no implicit access to the host. Every import it
// needs is resolved from a [Registry] that the caller hands to the engine
// explicitly, so two engines in the same process can run with different
// clocks.
//
// # Registry
//
//	registry := hostfunc.NewRegistry()
//	registry.Register(hostfunc.ClockImport, hostfunc.SystemClock())
//
// [NewDefaultRegistry] does exactly that. All functions are linked under
// the [ImportModule] namespace ("env") and have the signature () -> i32.
//
// # Clocks
//
// [ClockMillis] adapts any time source, which keeps tests deterministic:
//
//	frozen := time.UnixMilli(1234)
//	registry.Register(hostfunc.ClockImport, hostfunc.ClockMillis(func() time.Time {
//	    return frozen
//	}))
package hostfunc
