package assertion

import (
	"context"
	"log/slog"

	"golang.org/x/sync/errgroup"

	"github.com/roach88/flicker/internal/scenario"
)

// Executor runs the assertions of a scenario instance.
type Executor struct {
	workers int
	logger  *slog.Logger
}

// ExecutorOption configures an Executor.
type ExecutorOption func(*Executor)

// WithWorkers sets how many assertions may run concurrently.
// The default is 1: assertions run one after another.
func WithWorkers(n int) ExecutorOption {
	return func(x *Executor) {
		if n > 0 {
			x.workers = n
		}
	}
}

// WithLogger sets the executor's logger.
func WithLogger(logger *slog.Logger) ExecutorOption {
	return func(x *Executor) {
		if logger != nil {
			x.logger = logger
		}
	}
}

// NewExecutor creates an executor.
func NewExecutor(opts ...ExecutorOption) *Executor {
	x := &Executor{workers: 1, logger: slog.Default()}
	for _, opt := range opts {
		opt(x)
	}
	return x
}

// Run executes assertions against inst and returns their results in input
// order. It only fails when ctx is done.
func (x *Executor) Run(ctx context.Context, assertions []Assertion, inst *scenario.Instance) ([]Result, error) {
	results := make([]Result, len(assertions))

	g, gCtx := errgroup.WithContext(ctx)
	g.SetLimit(x.workers)
	for i, a := range assertions {
		g.Go(func() error {
			if err := gCtx.Err(); err != nil {
				return err
			}
			results[i] = Execute(gCtx, a, inst)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	passed := 0
	for _, r := range results {
		if r.Passed {
			passed++
		} else {
			x.logger.Debug("assertion failed",
				"scenario", inst.Type,
				"assertion", r.Name,
				"stability", r.Stability,
				"errors", len(r.Errors))
		}
	}
	x.logger.Info("assertions complete",
		"scenario", inst.Type,
		"total", len(results),
		"passed", passed,
		"failed", len(results)-passed)

	return results, nil
}
