package engine

import (
	"log/slog"

	"github.com/caffeineduck/wasmbench/internal/logging"
)

// DefaultEntryPoint is the export CoreMark builds call to run the workload.
const DefaultEntryPoint = "run"

// Option configures an Engine at creation time.
type Option func(*config)

type config struct {
	entryPoint       string
	diskCache        bool
	cacheDir         string
	memoryLimitPages uint32 // 0 = engine default
	logger           *slog.Logger
}

func defaultConfig() config {
	return config{
		entryPoint: DefaultEntryPoint,
		logger:     logging.NewNop(),
	}
}

// WithEntryPoint sets the exported function to call. It must have the
// signature () -> f32.
func WithEntryPoint(name string) Option {
	return func(c *config) {
		if name != "" {
			c.entryPoint = name
		}
	}
}

// WithDiskCache enables a persistent compilation cache so repeated CLI runs
// skip compilation. Optionally provide a directory; otherwise
// XDG_CACHE_HOME/wasmbench or ~/.cache/wasmbench is used.
// Only wazero honors it.
//
//	engine.Open("wazero", registry, engine.WithDiskCache())
//	engine.Open("wazero", registry, engine.WithDiskCache("/tmp/cache"))
func WithDiskCache(dir ...string) Option {
	return func(c *config) {
		c.diskCache = true
		if len(dir) > 0 && dir[0] != "" {
			c.cacheDir = dir[0]
		}
	}
}

// WithMemoryLimit caps guest memory in 64KB pages. Only wazero honors it.
func WithMemoryLimit(pages uint32) Option {
	return func(c *config) {
		c.memoryLimitPages = pages
	}
}

// WithLogger sets the logger used for compile and call diagnostics.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Memory limit constants for convenience.
const (
	MemoryLimit16MB  uint32 = 256   // 16 MB
	MemoryLimit64MB  uint32 = 1024  // 64 MB
	MemoryLimit256MB uint32 = 4096  // 256 MB
	MemoryLimit1GB   uint32 = 16384 // 1 GB
)
