package sandpile

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"

	"sandpile/internal/core"
	"sandpile/internal/logging"
)

// Picker chooses the cell that receives the next grain.
type Picker interface {
	Pick(w, h int) core.Cell
}

// Scheduler drives one perturbation per step and records the avalanches.
type Scheduler struct {
	grid     *core.Grid
	engine   *Engine
	picker   Picker
	recorder *Recorder
	log      *slog.Logger

	step int
	// err latches an invariant violation; the run cannot continue after one.
	err error
}

// SchedulerOption customizes a Scheduler.
type SchedulerOption func(*Scheduler)

// WithLogger routes scheduler diagnostics to l.
func WithLogger(l *slog.Logger) SchedulerOption {
	return func(s *Scheduler) {
		if l != nil {
			s.log = l
		}
	}
}

// NewScheduler wires a grid, its engine, a cell picker and an optional
// recorder into a stepping loop.
func NewScheduler(grid *core.Grid, engine *Engine, picker Picker, recorder *Recorder, opts ...SchedulerOption) (*Scheduler, error) {
	if grid == nil || engine == nil || picker == nil {
		return nil, fmt.Errorf("%w: scheduler needs a grid, an engine and a picker", core.ErrConfig)
	}
	if engine.grid != grid {
		return nil, fmt.Errorf("%w: engine resolves a different grid", core.ErrConfig)
	}
	s := &Scheduler{
		grid:     grid,
		engine:   engine,
		picker:   picker,
		recorder: recorder,
		log:      slog.New(slog.NewTextHandler(io.Discard, nil)),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Err returns the invariant violation that halted the run, if any.
func (s *Scheduler) Err() error { return s.err }

// Steps returns how many steps have completed.
func (s *Scheduler) Steps() int { return s.step }

// Step adds one grain to a randomly picked cell and resolves the avalanche.
func (s *Scheduler) Step() (Record, error) {
	if s.err != nil {
		return Record{}, fmt.Errorf("step %d: run halted: %w", s.step, s.err)
	}
	c := s.picker.Pick(s.grid.Width(), s.grid.Height())
	if s.log.Enabled(context.Background(), logging.LevelTrace) {
		s.log.Log(context.Background(), logging.LevelTrace, "grain", "step", s.step, "cell", c.String())
	}
	if err := s.grid.AddGrain(c); err != nil {
		return Record{}, fmt.Errorf("step %d: %w", s.step, err)
	}
	av, err := s.engine.Resolve(c)
	if err != nil {
		if errors.Is(err, core.ErrInvariant) {
			s.err = err
			s.log.Error("cascade aborted", "step", s.step, "cell", c.String(), "topples", av.Size, "err", err)
		}
		return Record{}, fmt.Errorf("step %d: %w", s.step, err)
	}
	rec := Record{Step: s.step, Size: av.Size, Cell: c, Area: av.Area, Lost: av.Lost}
	if av.Size > 0 {
		s.log.Debug("avalanche", "step", rec.Step, "cell", c.String(), "size", rec.Size, "area", rec.Area, "lost", rec.Lost)
	}
	if s.recorder != nil {
		s.recorder.Add(rec)
	}
	s.step++
	return rec, nil
}

// Run performs n sequential steps. On failure it returns the records that
// completed before the error.
func (s *Scheduler) Run(n int) ([]Record, error) {
	if n < 0 {
		return nil, fmt.Errorf("%w: step count %d must not be negative", core.ErrConfig, n)
	}
	records := make([]Record, 0, n)
	for i := 0; i < n; i++ {
		rec, err := s.Step()
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
	return records, nil
}
