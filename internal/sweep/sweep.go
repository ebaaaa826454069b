// Package sweep runs independent sandpile simulations concurrently, one per
// seed. Runs share nothing; each goroutine owns its grid, engine and RNG.
package sweep

import (
	"context"
	"fmt"
	"log/slog"
	"runtime"

	"golang.org/x/sync/errgroup"

	"sandpile/internal/core"
	"sandpile/internal/sims/sandpile"
)

// batch is how many steps run between cancellation checks.
const batch = 1024

// Options controls a sweep.
type Options struct {
	Steps   int
	Workers int
	// KeepHistory retains every record of every run in the results.
	KeepHistory bool
	Logger      *slog.Logger
}

// Result is the outcome of one seeded run.
type Result struct {
	Seed    int64
	Summary sandpile.Summary
	Grains  int
	History []sandpile.Record
}

// Run simulates base once per seed and returns results in seed order. The
// first failing run cancels the rest.
func Run(ctx context.Context, base sandpile.Config, seeds []int64, opts Options) ([]Result, error) {
	if opts.Steps < 0 {
		return nil, fmt.Errorf("%w: step count %d must not be negative", core.ErrConfig, opts.Steps)
	}
	if err := base.Validate(); err != nil {
		return nil, err
	}
	workers := opts.Workers
	if workers <= 0 {
		workers = runtime.NumCPU()
	}

	results := make([]Result, len(seeds))
	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(workers)
	for i, seed := range seeds {
		g.Go(func() error {
			res, err := runOne(ctx, base, seed, opts)
			if err != nil {
				return fmt.Errorf("seed %d: %w", seed, err)
			}
			results[i] = res
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return nil, err
	}
	return results, nil
}

func runOne(ctx context.Context, base sandpile.Config, seed int64, opts Options) (Result, error) {
	cfg := base
	cfg.Seed = seed
	var schedOpts []sandpile.SchedulerOption
	if opts.Logger != nil {
		schedOpts = append(schedOpts, sandpile.WithLogger(opts.Logger.With("seed", seed)))
	}
	sim, err := sandpile.NewSimulation(cfg, schedOpts...)
	if err != nil {
		return Result{}, err
	}
	for done := 0; done < opts.Steps; {
		if err := ctx.Err(); err != nil {
			return Result{}, err
		}
		n := min(batch, opts.Steps-done)
		if _, err := sim.Run(n); err != nil {
			return Result{}, err
		}
		done += n
	}
	res := Result{
		Seed:    seed,
		Summary: sim.Recorder.Summary(),
		Grains:  sim.Grid.Total(),
	}
	if opts.KeepHistory {
		res.History = sim.Recorder.History()
	}
	if opts.Logger != nil {
		opts.Logger.Info("run complete", "seed", seed, "steps", res.Summary.Steps, "largest", res.Summary.Largest)
	}
	return res, nil
}

// Seeds returns n consecutive seeds starting at first.
func Seeds(first int64, n int) []int64 {
	if n <= 0 {
		return nil
	}
	out := make([]int64, n)
	for i := range out {
		out[i] = first + int64(i)
	}
	return out
}
