// Package engine runs a benchmark module on one of several WebAssembly
// engines and returns the score its entry point reports.
//
// # Engines
//
//   - "wazero": wazero with its ahead-of-time compiler
//   - "wazero-interp": wazero's interpreter
//   - "wasmer": Wasmer through wasmer-go (requires cgo)
//
// # Basic Usage
//
//	eng, err := engine.Open("wazero", hostfunc.NewDefaultRegistry())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer eng.Close(ctx)
//
//	score, err := eng.Score(ctx, coremark.Module())
//
// Every Score call links the functions of the registry under the "env"
// module, instantiates a fresh copy of the module and calls its "run"
// export, which must have the signature () -> f32. Failures wrap one of
// [ErrCompile], [ErrLink], [ErrEntryPoint] or [ErrExecute].
//
// Score has the shape of trial.ScoreFunc, so an engine plugs straight into
// the trial runner:
//
//	res, err := trial.Run(ctx, eng.Score, coremark.Module(), 5)
package engine
