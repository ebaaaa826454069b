package sandpile

import (
	"fmt"

	"sandpile/internal/core"
)

// Simulation bundles the pieces of one independent sandpile run. Nothing in
// it may be shared with another Simulation.
type Simulation struct {
	Config    Config
	Grid      *core.Grid
	Engine    *Engine
	Scheduler *Scheduler
	Recorder  *Recorder
}

// NewSimulation validates cfg and builds an empty grid with its own RNG.
func NewSimulation(cfg Config, opts ...SchedulerOption) (*Simulation, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	grid, err := core.NewGrid(cfg.Width, cfg.Height)
	if err != nil {
		return nil, err
	}
	engine, err := NewEngine(grid, cfg.Capacity, WithDiscipline(cfg.Queue), WithCascadeLimit(cfg.cascadeLimit()))
	if err != nil {
		return nil, err
	}
	recorder := NewRecorder(0)
	sched, err := NewScheduler(grid, engine, core.NewRNG(cfg.Seed), recorder, opts...)
	if err != nil {
		return nil, err
	}
	return &Simulation{
		Config:    cfg,
		Grid:      grid,
		Engine:    engine,
		Scheduler: sched,
		Recorder:  recorder,
	}, nil
}

// Run advances the simulation n steps.
func (s *Simulation) Run(n int) ([]Record, error) { return s.Scheduler.Run(n) }

// Sandpile adapts a Simulation to the core.Sim viewer contract.
type Sandpile struct {
	cfg     Config
	sim     *Simulation
	display []uint8
	err     error
}

// New returns a viewer-facing sandpile for cfg.
func New(cfg Config) (*Sandpile, error) {
	sim, err := NewSimulation(cfg)
	if err != nil {
		return nil, err
	}
	p := &Sandpile{cfg: cfg, sim: sim, display: make([]uint8, cfg.Width*cfg.Height)}
	p.rebuildDisplay()
	return p, nil
}

// Name returns the simulation identifier.
func (p *Sandpile) Name() string { return "sandpile" }

// Size reports the grid dimensions.
func (p *Sandpile) Size() core.Size { return p.sim.Grid.Size() }

// Cells exposes the display buffer: stable grain counts capped at the top
// palette level, with cells over capacity on the overflow level.
func (p *Sandpile) Cells() []uint8 { return p.display }

// Err returns the error that halted the simulation, if any.
func (p *Sandpile) Err() error { return p.err }

// Simulation exposes the underlying run.
func (p *Sandpile) Simulation() *Simulation { return p.sim }

// Reset empties the table and reseeds it with seed.
func (p *Sandpile) Reset(seed int64) {
	cfg := p.cfg
	cfg.Seed = seed
	sim, err := NewSimulation(cfg)
	if err != nil {
		p.err = fmt.Errorf("reset: %w", err)
		return
	}
	p.sim = sim
	p.err = nil
	p.rebuildDisplay()
}

// Step drops one grain. After a fatal error it does nothing.
func (p *Sandpile) Step() {
	if p.err != nil {
		return
	}
	if _, err := p.sim.Scheduler.Step(); err != nil {
		p.err = err
	}
	p.rebuildDisplay()
}

func init() {
	core.Register("sandpile", func(cfg map[string]string) (core.Sim, error) {
		c, err := FromMap(cfg)
		if err != nil {
			return nil, err
		}
		return New(c)
	})
}
