// Package trial runs a scoring function repeatedly and averages the result.
package trial

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/caffeineduck/wasmbench/internal/logging"
	"golang.org/x/sync/errgroup"
)

// ErrInvalidRepeat is returned when the repeat count is below one.
var ErrInvalidRepeat = errors.New("repeat count must be at least 1")

// ScoreFunc produces one score from input. Engine.Score satisfies it.
type ScoreFunc func(ctx context.Context, input []byte) (float32, error)

// Result holds the per-trial scores and their mean.
type Result struct {
	Mean     float32
	Scores   []float32 // indexed by trial, not completion order
	Duration time.Duration
}

// Option configures a run.
type Option func(*config)

type config struct {
	parallelism int
	logger      *slog.Logger
}

func defaultConfig() config {
	return config{
		parallelism: 1,
		logger:      logging.NewNop(),
	}
}

// WithParallelism runs up to n trials at once, each on its own goroutine.
// Values below one mean sequential.
func WithParallelism(n int) Option {
	return func(c *config) {
		if n < 1 {
			n = 1
		}
		c.parallelism = n
	}
}

// WithLogger logs each trial at debug level.
func WithLogger(l *slog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// Run calls fn repeat times with input and returns the mean score.
// The first failing trial aborts the run.
func Run(ctx context.Context, fn ScoreFunc, input []byte, repeat int, opts ...Option) (Result, error) {
	if repeat < 1 {
		return Result{}, fmt.Errorf("%w: got %d", ErrInvalidRepeat, repeat)
	}

	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	start := time.Now()
	scores := make([]float32, repeat)

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(cfg.parallelism)

	for i := 0; i < repeat; i++ {
		if gctx.Err() != nil {
			break
		}
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			trialStart := time.Now()
			score, err := fn(gctx, input)
			if err != nil {
				return fmt.Errorf("trial %d: %w", i+1, err)
			}
			scores[i] = score
			cfg.logger.Debug("trial finished",
				"trial", i+1,
				"score", score,
				"duration", time.Since(trialStart))
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return Result{}, err
	}
	if err := ctx.Err(); err != nil {
		return Result{}, err
	}

	return Result{
		Mean:     mean(scores),
		Scores:   scores,
		Duration: time.Since(start),
	}, nil
}

// mean sums in float64 so n copies of the same float32 average back to
// exactly that value.
func mean(scores []float32) float32 {
	var sum float64
	for _, s := range scores {
		sum += float64(s)
	}
	return float32(sum / float64(len(scores)))
}
