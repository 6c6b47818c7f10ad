// Package bench compares the engines against each other.
//
// Run with: go test -v -run=Test ./bench/
// Benchmarks: go test -bench=. -benchtime=3x ./bench/
//
// The Overhead benchmarks measure what a single trial costs on top of the
// workload (instantiate, link, call) using a tiny fixture module. The
// CoreMark benchmarks run the real workload and report its score as the
// "coremark" metric; expect each iteration to take several seconds.
package bench

import (
	"context"
	"fmt"
	"testing"

	"github.com/caffeineduck/wasmbench/coremark"
	"github.com/caffeineduck/wasmbench/engine"
	"github.com/caffeineduck/wasmbench/hostfunc"
	"github.com/caffeineduck/wasmbench/internal/testwasm"
	"github.com/caffeineduck/wasmbench/trial"
)

func open(tb testing.TB, name string) engine.Engine {
	tb.Helper()
	eng, err := engine.Open(name, hostfunc.NewDefaultRegistry())
	if err != nil {
		tb.Fatalf("open %s: %v", name, err)
	}
	tb.Cleanup(func() { eng.Close(context.Background()) })
	return eng
}

// --- Per-trial overhead: fixture module, engine reused ---

func benchmarkOverhead(b *testing.B, name string) {
	eng := open(b, name)
	ctx := context.Background()

	// First call compiles.
	if _, err := eng.Score(ctx, testwasm.Clock); err != nil {
		b.Fatal(err)
	}

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		if _, err := eng.Score(ctx, testwasm.Clock); err != nil {
			b.Fatal(err)
		}
	}
}

func BenchmarkOverhead_Wazero(b *testing.B)       { benchmarkOverhead(b, engine.NameWazero) }
func BenchmarkOverhead_WazeroInterp(b *testing.B) { benchmarkOverhead(b, engine.NameWazeroInterp) }
func BenchmarkOverhead_Wasmer(b *testing.B)       { benchmarkOverhead(b, engine.NameWasmer) }

// --- Cold start: new engine per iteration ---

func BenchmarkColdStart_Wazero(b *testing.B) {
	ctx := context.Background()
	for i := 0; i < b.N; i++ {
		eng, err := engine.Open(engine.NameWazero, hostfunc.NewDefaultRegistry())
		if err != nil {
			b.Fatal(err)
		}
		if _, err := eng.Score(ctx, testwasm.Clock); err != nil {
			b.Fatal(err)
		}
		eng.Close(ctx)
	}
}

// --- CoreMark ---

func benchmarkCoreMark(b *testing.B, name string) {
	if testing.Short() {
		b.Skip("CoreMark takes seconds per iteration")
	}
	eng := open(b, name)
	ctx := context.Background()

	var last float32
	for i := 0; i < b.N; i++ {
		score, err := eng.Score(ctx, coremark.Module())
		if err != nil {
			b.Fatal(err)
		}
		last = score
	}
	b.ReportMetric(float64(last), "coremark")
}

func BenchmarkCoreMark_Wazero(b *testing.B)       { benchmarkCoreMark(b, engine.NameWazero) }
func BenchmarkCoreMark_WazeroInterp(b *testing.B) { benchmarkCoreMark(b, engine.NameWazeroInterp) }
func BenchmarkCoreMark_Wasmer(b *testing.B)       { benchmarkCoreMark(b, engine.NameWasmer) }

// --- Summary ---

// TestCoreMarkSummary prints one score per engine.
func TestCoreMarkSummary(t *testing.T) {
	if testing.Short() {
		t.Skip("CoreMark takes seconds per engine")
	}

	fmt.Println()
	fmt.Println("CoreMark 1.0 (higher is better)")
	fmt.Println("--------------------------------")
	for _, name := range engine.Names() {
		eng := open(t, name)
		res, err := trial.Run(context.Background(), eng.Score, coremark.Module(), 1)
		if err != nil {
			t.Errorf("%s: %v", name, err)
			continue
		}
		fmt.Printf("%-15s %10.3f  (%v)\n", name, res.Mean, res.Duration)
		if res.Mean <= 0 {
			t.Errorf("%s: expected positive score, got %v", name, res.Mean)
		}
	}
}
