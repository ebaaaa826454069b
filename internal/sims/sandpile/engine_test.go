package sandpile

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"sandpile/internal/core"
)

// fixedPicker hands out cells from a script, cycling when it runs out.
type fixedPicker struct {
	cells []core.Cell
	i     int
}

func (p *fixedPicker) Pick(w, h int) core.Cell {
	c := p.cells[p.i%len(p.cells)]
	p.i++
	return c
}

func newGrid(t *testing.T, w, h int) *core.Grid {
	t.Helper()
	g, err := core.NewGrid(w, h)
	require.NoError(t, err)
	return g
}

func fill(t *testing.T, g *core.Grid, c core.Cell, n int) {
	t.Helper()
	for i := 0; i < n; i++ {
		require.NoError(t, g.AddGrain(c))
	}
}

func grains(t *testing.T, g *core.Grid, c core.Cell) int {
	t.Helper()
	n, err := g.GrainsAt(c)
	require.NoError(t, err)
	return n
}

func TestCenterTopplesOnFourthGrain(t *testing.T) {
	g := newGrid(t, 3, 3)
	engine, err := NewEngine(g, 3)
	require.NoError(t, err)
	center := core.Cell{Row: 1, Col: 1}
	sched, err := NewScheduler(g, engine, &fixedPicker{cells: []core.Cell{center}}, nil)
	require.NoError(t, err)

	records, err := sched.Run(4)
	require.NoError(t, err)

	sizes := make([]int, len(records))
	for i, rec := range records {
		sizes[i] = rec.Size
		assert.Equal(t, i, rec.Step)
		assert.Equal(t, center, rec.Cell)
	}
	assert.Equal(t, []int{0, 0, 0, 1}, sizes)
	assert.Equal(t, []int{
		0, 1, 0,
		1, 0, 1,
		0, 1, 0,
	}, g.Snapshot())
	assert.Zero(t, records[3].Lost)
	assert.Equal(t, 1, records[3].Area)
}

func TestSingleCellLosesEverythingToBoundary(t *testing.T) {
	g := newGrid(t, 1, 1)
	engine, err := NewEngine(g, 3)
	require.NoError(t, err)
	sched, err := NewScheduler(g, engine, core.NewRNG(5), nil)
	require.NoError(t, err)

	records, err := sched.Run(4)
	require.NoError(t, err)
	assert.Equal(t, 1, records[3].Size)
	assert.Equal(t, 4, records[3].Lost)
	assert.Zero(t, g.Total())

	records, err = sched.Run(400)
	require.NoError(t, err)
	for _, rec := range records {
		require.LessOrEqual(t, rec.Size, 1)
		require.GreaterOrEqual(t, grains(t, g, core.Cell{}), 0)
	}
	assert.Equal(t, 404%4, g.Total())
}

func TestResolveStableCellDoesNothing(t *testing.T) {
	g := newGrid(t, 4, 4)
	c := core.Cell{Row: 2, Col: 3}
	fill(t, g, c, 3)
	engine, err := NewEngine(g, 3)
	require.NoError(t, err)

	av, err := engine.Resolve(c)
	require.NoError(t, err)
	assert.Equal(t, Avalanche{}, av)
	assert.Equal(t, 3, g.Total())
}

func TestResolveOutOfBounds(t *testing.T) {
	g := newGrid(t, 2, 2)
	engine, err := NewEngine(g, 3)
	require.NoError(t, err)
	_, err = engine.Resolve(core.Cell{Row: 2, Col: 0})
	assert.ErrorIs(t, err, core.ErrOutOfBounds)
}

func TestNewEngineValidation(t *testing.T) {
	g := newGrid(t, 2, 2)

	_, err := NewEngine(nil, 3)
	assert.ErrorIs(t, err, core.ErrConfig)
	_, err = NewEngine(g, -1)
	assert.ErrorIs(t, err, core.ErrConfig)
	_, err = NewEngine(g, 3, WithDiscipline("random"))
	assert.ErrorIs(t, err, core.ErrConfig)

	engine, err := NewEngine(g, 0, WithDiscipline(LIFO))
	require.NoError(t, err)
	assert.Equal(t, LIFO, engine.Discipline())
	assert.Equal(t, 0, engine.Capacity())
}

func TestNegativeGrainsAbortTheRun(t *testing.T) {
	g := newGrid(t, 1, 1)
	engine, err := NewEngine(g, 2)
	require.NoError(t, err)
	sched, err := NewScheduler(g, engine, &fixedPicker{cells: []core.Cell{{}}}, nil)
	require.NoError(t, err)

	records, err := sched.Run(10)
	require.ErrorIs(t, err, core.ErrInvariant)
	assert.Len(t, records, 2)

	var inv *core.InvariantError
	require.True(t, errors.As(err, &inv))
	assert.Equal(t, core.Cell{}, inv.Cell)
	assert.Equal(t, -1, inv.Grains)
}

func TestCascadeLimitAbortsRunaway(t *testing.T) {
	g := newGrid(t, 3, 3)
	center := core.Cell{Row: 1, Col: 1}
	fill(t, g, center, 4)
	fill(t, g, core.Cell{Row: 0, Col: 1}, 3)

	engine, err := NewEngine(g, 3, WithCascadeLimit(1))
	require.NoError(t, err)
	_, err = engine.Resolve(center)
	assert.ErrorIs(t, err, core.ErrInvariant)

	// The engine must be reusable once the caller has seen the error.
	g2 := newGrid(t, 3, 3)
	fill(t, g2, center, 4)
	fill(t, g2, core.Cell{Row: 0, Col: 1}, 3)
	engine2, err := NewEngine(g2, 3)
	require.NoError(t, err)
	av, err := engine2.Resolve(center)
	require.NoError(t, err)
	assert.Equal(t, 2, av.Size)
	assert.Equal(t, 2, av.Area)
	assert.Equal(t, 1, av.Lost, "only the top edge cell spills off the grid")
}

func TestSaturatedGridTopplesCellsRepeatedly(t *testing.T) {
	for _, d := range []Discipline{FIFO, LIFO} {
		t.Run(string(d), func(t *testing.T) {
			g := newGrid(t, 5, 5)
			for idx := 0; idx < g.Area(); idx++ {
				fill(t, g, g.CellAt(idx), 3)
			}
			engine, err := NewEngine(g, 3, WithDiscipline(d))
			require.NoError(t, err)

			center := core.Cell{Row: 2, Col: 2}
			before := g.Total()
			require.NoError(t, g.AddGrain(center))
			av, err := engine.Resolve(center)
			require.NoError(t, err)

			assert.Greater(t, av.Size, av.Area, "some cells must topple more than once")
			assert.Equal(t, g.Area(), av.Area)
			assert.Equal(t, before+1-av.Lost, g.Total())
			assertStable(t, g, 3)
		})
	}
}

func TestAbelianOrderIndependence(t *testing.T) {
	const w, h, capacity = 12, 9, 3

	fifoGrid := newGrid(t, w, h)
	rng := core.NewRNG(2024)
	for idx := 0; idx < fifoGrid.Area(); idx++ {
		fill(t, fifoGrid, fifoGrid.CellAt(idx), rng.IntN(capacity+1))
	}
	lifoGrid := fifoGrid.Clone()

	fifo, err := NewEngine(fifoGrid, capacity, WithDiscipline(FIFO))
	require.NoError(t, err)
	lifo, err := NewEngine(lifoGrid, capacity, WithDiscipline(LIFO))
	require.NoError(t, err)

	picks := core.NewRNG(77)
	sawAvalanche := false
	for step := 0; step < 3000; step++ {
		c := picks.Pick(w, h)
		require.NoError(t, fifoGrid.AddGrain(c))
		require.NoError(t, lifoGrid.AddGrain(c))

		a, err := fifo.Resolve(c)
		require.NoError(t, err)
		b, err := lifo.Resolve(c)
		require.NoError(t, err)

		require.Equal(t, a, b, "step %d at %s", step, c)
		require.True(t, fifoGrid.Equal(lifoGrid), "grids diverged at step %d", step)
		if a.Size > 1 {
			sawAvalanche = true
		}
	}
	assert.True(t, sawAvalanche, "expected at least one multi-topple avalanche")
}

func TestConservationWithBoundaryLoss(t *testing.T) {
	g := newGrid(t, 8, 6)
	engine, err := NewEngine(g, 3)
	require.NoError(t, err)
	sched, err := NewScheduler(g, engine, core.NewRNG(11), nil)
	require.NoError(t, err)

	for i := 0; i < 2000; i++ {
		before := g.Total()
		rec, err := sched.Step()
		require.NoError(t, err)
		require.GreaterOrEqual(t, rec.Lost, 0)
		require.Equal(t, before+1-rec.Lost, g.Total(), "step %d", i)
		if rec.Size == 0 {
			require.Zero(t, rec.Lost)
		}
	}
}

func assertStable(t *testing.T, g *core.Grid, capacity int) {
	t.Helper()
	for idx, n := range g.Snapshot() {
		if n < 0 || n > capacity {
			t.Fatalf("cell %s holds %d grains, want 0..%d", g.CellAt(idx), n, capacity)
		}
	}
}
