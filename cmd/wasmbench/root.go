package main

import (
	"context"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/caffeineduck/wasmbench/coremark"
	"github.com/caffeineduck/wasmbench/engine"
	"github.com/caffeineduck/wasmbench/hostfunc"
	"github.com/caffeineduck/wasmbench/internal/logging"
	"github.com/caffeineduck/wasmbench/report"
	"github.com/caffeineduck/wasmbench/trial"
	"github.com/spf13/cobra"
)

// openEngine is swapped out by tests.
var openEngine = engine.Open

func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "wasmbench <engine> [repeat]",
		Short: "Run CoreMark 1.0 on a choice of WebAssembly engines",
		Long: `wasmbench - Compare WebAssembly engines by running CoreMark 1.0 on them.

The embedded CoreMark module imports a single host function, env.clock_ms,
and exports run, which returns the CoreMark score. The score is printed
once all trials finish; with a repeat count above one the mean is printed.

Engines:
  wazero          wazero, ahead-of-time compiler
  wazero-interp   wazero, interpreter
  wasmer          wasmer, JIT compiler (cgo)`,
		Args:          cobra.ArbitraryArgs,
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          runBench,
	}

	cmd.Flags().IntP("parallel", "p", 1, "Number of trials to run at once")
	cmd.Flags().Duration("timeout", 0, "Abort the run after this long (0 = no limit)")
	cmd.Flags().StringP("format", "f", "text", "Output format: text, json, yaml")
	cmd.Flags().String("metrics-file", "", "Also write results to this Prometheus textfile")
	cmd.Flags().String("module", "", "Run this wasm file instead of the embedded CoreMark")
	cmd.Flags().Bool("no-cache", false, "Disable the wazero compilation cache")
	cmd.Flags().String("cache-dir", "", "Compilation cache directory (default: $XDG_CACHE_HOME/wasmbench)")
	cmd.Flags().String("memory", "", "Guest memory limit: 16mb, 64mb, 256mb, 1gb (wazero only)")
	cmd.Flags().BoolP("verbose", "v", false, "Log every trial")

	// Anything pflag cannot parse, such as a negative repeat count read as
	// the shorthand "-3", is a bad invocation: print usage like parseArgs.
	cmd.SetFlagErrorFunc(func(c *cobra.Command, err error) error {
		fmt.Fprintln(c.OutOrStdout(), usageLine())
		return nil
	})

	cmd.AddCommand(newEnginesCmd())
	return cmd
}

// Execute runs the CLI and exits non-zero if the benchmark failed.
func Execute() {
	cmd := newRootCmd()
	if err := cmd.Execute(); err != nil {
		logging.New(slog.LevelInfo, os.Stderr).Error("wasmbench failed", "error", err)
		os.Exit(1)
	}
}

func usageLine() string {
	return fmt.Sprintf("usage: wasmbench [%s: string] [repeat: int]", strings.Join(engine.Names(), "|"))
}

// parseArgs accepts "<engine>" or "<engine> <repeat>".
func parseArgs(args []string) (name string, repeat int, ok bool) {
	if len(args) < 1 || len(args) > 2 {
		return "", 0, false
	}
	name = args[0]
	if !engine.Known(name) {
		return "", 0, false
	}
	repeat = 1
	if len(args) == 2 {
		n, err := strconv.Atoi(args[1])
		if err != nil || n < 1 {
			return "", 0, false
		}
		repeat = n
	}
	return name, repeat, true
}

func parseMemoryLimit(s string) (uint32, error) {
	switch strings.ToLower(s) {
	case "", "default":
		return 0, nil
	case "16mb":
		return engine.MemoryLimit16MB, nil
	case "64mb":
		return engine.MemoryLimit64MB, nil
	case "256mb":
		return engine.MemoryLimit256MB, nil
	case "1gb":
		return engine.MemoryLimit1GB, nil
	default:
		return 0, fmt.Errorf("invalid memory limit %q (expected 16mb, 64mb, 256mb or 1gb)", s)
	}
}

// loadModule returns the embedded CoreMark binary or the file at path, and
// the benchmark label to report it under.
func loadModule(path string) ([]byte, string, error) {
	if path == "" {
		return coremark.Module(), "coremark-" + coremark.Version, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, "", err
	}
	return data, filepath.Base(path), nil
}

func runBench(cmd *cobra.Command, args []string) error {
	out := cmd.OutOrStdout()

	name, repeat, ok := parseArgs(args)
	if !ok {
		fmt.Fprintln(out, usageLine())
		return nil
	}

	parallel, _ := cmd.Flags().GetInt("parallel")
	timeout, _ := cmd.Flags().GetDuration("timeout")
	formatFlag, _ := cmd.Flags().GetString("format")
	metricsFile, _ := cmd.Flags().GetString("metrics-file")
	modulePath, _ := cmd.Flags().GetString("module")
	noCache, _ := cmd.Flags().GetBool("no-cache")
	cacheDir, _ := cmd.Flags().GetString("cache-dir")
	memoryLimit, _ := cmd.Flags().GetString("memory")
	verbose, _ := cmd.Flags().GetBool("verbose")

	format, err := report.ParseFormat(formatFlag)
	if err != nil {
		return err
	}
	pages, err := parseMemoryLimit(memoryLimit)
	if err != nil {
		return err
	}
	if parallel < 1 {
		parallel = 1
	}

	level := slog.LevelInfo
	if verbose {
		level = slog.LevelDebug
	}
	log := logging.New(level, cmd.ErrOrStderr())

	wasm, benchmark, err := loadModule(modulePath)
	if err != nil {
		return fmt.Errorf("load module: %w", err)
	}

	opts := []engine.Option{engine.WithLogger(log)}
	if !noCache {
		opts = append(opts, engine.WithDiskCache(cacheDir))
	}
	if pages > 0 {
		opts = append(opts, engine.WithMemoryLimit(pages))
	}

	ctx := cmd.Context()
	if ctx == nil {
		ctx = context.Background()
	}
	if timeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, timeout)
		defer cancel()
	}

	eng, err := openEngine(name, hostfunc.NewDefaultRegistry(), opts...)
	if err != nil {
		return fmt.Errorf("open %s: %w", name, err)
	}
	defer eng.Close(context.Background())

	if format == report.FormatText {
		if modulePath == "" {
			fmt.Fprintf(out, "Running Coremark %s using %s... [should take 12..20 seconds]\n", coremark.Version, name)
		} else {
			fmt.Fprintf(out, "Running %s using %s...\n", benchmark, name)
		}
	}
	log.Debug("benchmark started",
		"engine", name,
		"benchmark", benchmark,
		"repeat", repeat,
		"parallel", parallel)

	start := time.Now()
	res, err := trial.Run(ctx, eng.Score, wasm, repeat,
		trial.WithParallelism(parallel),
		trial.WithLogger(log))
	if err != nil {
		return fmt.Errorf("run %s on %s: %w", benchmark, name, err)
	}
	log.Debug("benchmark finished", "engine", name, "duration", time.Since(start))

	rep := report.Report{
		Engine:      name,
		Benchmark:   benchmark,
		Repeat:      repeat,
		Parallelism: parallel,
		Mean:        res.Mean,
		Scores:      res.Scores,
		Duration:    res.Duration,
	}
	if err := report.Write(out, rep, format); err != nil {
		return fmt.Errorf("write report: %w", err)
	}
	if metricsFile != "" {
		if err := report.WriteMetrics(metricsFile, rep); err != nil {
			return fmt.Errorf("write metrics: %w", err)
		}
	}
	return nil
}
