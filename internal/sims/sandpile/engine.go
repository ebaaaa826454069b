package sandpile

import (
	"fmt"

	"sandpile/internal/core"
)

// toppleLoss is the number of grains a toppling cell gives up, one per
// lattice direction whether or not the neighbor exists.
const toppleLoss = 4

// Avalanche summarizes the cascade triggered by one perturbation.
type Avalanche struct {
	// Size counts topple events.
	Size int
	// Area counts distinct cells that toppled at least once.
	Area int
	// Lost counts grains that fell off the grid edge.
	Lost int
}

// Engine resolves perturbations into stable grids.
type Engine struct {
	grid       *core.Grid
	capacity   int
	discipline Discipline
	limit      int

	queue   []core.Cell
	head    int
	queued  []bool
	toppled []bool
	touched []int
	nbuf    []core.Cell
}

// EngineOption customizes an Engine.
type EngineOption func(*Engine)

// WithDiscipline selects FIFO or LIFO resolution of pending topples.
func WithDiscipline(d Discipline) EngineOption {
	return func(e *Engine) { e.discipline = d }
}

// WithCascadeLimit bounds the number of topples one avalanche may take
// before it is treated as runaway. Non-positive values keep the default.
func WithCascadeLimit(n int) EngineOption {
	return func(e *Engine) {
		if n > 0 {
			e.limit = n
		}
	}
}

// NewEngine returns an engine that topples cells of grid holding more than
// capacity grains.
func NewEngine(grid *core.Grid, capacity int, opts ...EngineOption) (*Engine, error) {
	if grid == nil {
		return nil, fmt.Errorf("%w: engine needs a grid", core.ErrConfig)
	}
	if capacity < 0 {
		return nil, fmt.Errorf("%w: capacity %d must not be negative", core.ErrConfig, capacity)
	}
	area := grid.Area()
	e := &Engine{
		grid:       grid,
		capacity:   capacity,
		discipline: FIFO,
		limit:      defaultCascadeLimit(grid.Width(), grid.Height()),
		queued:     make([]bool, area),
		toppled:    make([]bool, area),
		nbuf:       make([]core.Cell, 0, 4),
	}
	for _, opt := range opts {
		opt(e)
	}
	if e.discipline != FIFO && e.discipline != LIFO {
		return nil, fmt.Errorf("%w: unknown queue discipline %q", core.ErrConfig, e.discipline)
	}
	return e, nil
}

// Capacity returns the largest stable grain count.
func (e *Engine) Capacity() int { return e.capacity }

// Discipline returns the queue discipline in use.
func (e *Engine) Discipline() Discipline { return e.discipline }

// Resolve topples c, if it is over capacity, and every cell the cascade
// pushes over capacity until the grid is stable again.
func (e *Engine) Resolve(c core.Cell) (Avalanche, error) {
	var av Avalanche
	grains, err := e.grid.GrainsAt(c)
	if err != nil {
		return av, err
	}
	e.reset()
	defer e.reset()

	if grains > e.capacity {
		e.push(c)
	}
	for e.pending() {
		cur := e.pop()
		idx := e.grid.Index(cur)
		e.queued[idx] = false

		left, err := e.grid.RemoveGrains(cur, toppleLoss)
		if err != nil {
			return av, err
		}
		if left < 0 {
			return av, &core.InvariantError{Cell: cur, Grains: left, Reason: "negative grains after topple"}
		}
		av.Size++
		if !e.toppled[idx] {
			e.toppled[idx] = true
			e.touched = append(e.touched, idx)
			av.Area++
		}
		if av.Size > e.limit {
			return av, &core.InvariantError{
				Cell:   cur,
				Grains: left,
				Reason: fmt.Sprintf("cascade exceeded %d topples", e.limit),
			}
		}

		e.nbuf, err = e.grid.AppendNeighbors(e.nbuf[:0], cur)
		if err != nil {
			return av, err
		}
		av.Lost += toppleLoss - len(e.nbuf)
		for _, n := range e.nbuf {
			if err := e.grid.AddGrain(n); err != nil {
				return av, err
			}
			e.enqueueIfUnstable(n)
		}
		// A cell fed while it waited can still be over capacity.
		if left > e.capacity {
			e.push(cur)
		}
	}
	return av, nil
}

func (e *Engine) enqueueIfUnstable(c core.Cell) {
	idx := e.grid.Index(c)
	if e.queued[idx] {
		return
	}
	grains, _ := e.grid.GrainsAt(c)
	if grains > e.capacity {
		e.push(c)
	}
}

func (e *Engine) push(c core.Cell) {
	e.queued[e.grid.Index(c)] = true
	e.queue = append(e.queue, c)
}

func (e *Engine) pending() bool { return e.head < len(e.queue) }

func (e *Engine) pop() core.Cell {
	if e.discipline == LIFO {
		last := len(e.queue) - 1
		c := e.queue[last]
		e.queue = e.queue[:last]
		return c
	}
	c := e.queue[e.head]
	e.head++
	if e.head == len(e.queue) {
		e.queue = e.queue[:0]
		e.head = 0
	}
	return c
}

// reset clears per-cascade bookkeeping. Only touched entries are visited so
// small avalanches on large grids stay cheap.
func (e *Engine) reset() {
	for _, c := range e.queue[e.head:] {
		e.queued[e.grid.Index(c)] = false
	}
	e.queue = e.queue[:0]
	e.head = 0
	for _, idx := range e.touched {
		e.toppled[idx] = false
	}
	e.touched = e.touched[:0]
}
