// Package wasmbench runs the CoreMark 1.0 benchmark, compiled to
// WebAssembly, on several WebAssembly engines so their scores can be
// compared.
//
// # Overview
//
// The benchmark module imports one host function, env.clock_ms, and
// exports run, which returns the CoreMark score as an f32. The clock is
// supplied through a [hostfunc.Registry] handed to the engine; nothing is
// registered globally.
//
// # Basic Usage
//
//	eng, _ := engine.Open("wazero", hostfunc.NewDefaultRegistry())
//	defer eng.Close(ctx)
//
//	// One trial
//	score, _ := eng.Score(ctx, coremark.Module())
//
//	// Mean of five trials, two at a time
//	res, _ := trial.Run(ctx, eng.Score, coremark.Module(), 5,
//	    trial.WithParallelism(2))
//	fmt.Println(res.Mean)
//
// The wasmbench command wraps the same steps:
//
//	wasmbench wazero 5
//
// See the [engine], [trial], [hostfunc], [coremark] and [report] packages
// for details.
package wasmbench
