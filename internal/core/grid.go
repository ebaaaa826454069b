package core

import "fmt"

// Cell addresses a single lattice site by row and column.
type Cell struct {
	Row, Col int
}

func (c Cell) String() string { return fmt.Sprintf("(%d,%d)", c.Row, c.Col) }

// Grid stores per-cell grain counts for a non-toroidal lattice in row-major
// order. Neighbors follow the von Neumann rule: up, down, left, right.
type Grid struct {
	w, h int
	data []int
}

// NewGrid allocates an empty grid with the given dimensions.
func NewGrid(w, h int) (*Grid, error) {
	if w <= 0 || h <= 0 {
		return nil, fmt.Errorf("%w: grid dimensions %dx%d must be positive", ErrConfig, w, h)
	}
	return &Grid{w: w, h: h, data: make([]int, w*h)}, nil
}

// Width returns the number of columns.
func (g *Grid) Width() int { return g.w }

// Height returns the number of rows.
func (g *Grid) Height() int { return g.h }

// Size reports the grid dimensions.
func (g *Grid) Size() Size { return Size{W: g.w, H: g.h} }

// Area returns the number of cells.
func (g *Grid) Area() int { return len(g.data) }

// InBounds reports whether c lies on the grid.
func (g *Grid) InBounds(c Cell) bool {
	return c.Row >= 0 && c.Row < g.h && c.Col >= 0 && c.Col < g.w
}

// Index returns the linear slice index for c. The caller must ensure c is in
// bounds.
func (g *Grid) Index(c Cell) int { return c.Row*g.w + c.Col }

// CellAt converts a linear index back to a cell.
func (g *Grid) CellAt(idx int) Cell { return Cell{Row: idx / g.w, Col: idx % g.w} }

func (g *Grid) check(c Cell) error {
	if !g.InBounds(c) {
		return fmt.Errorf("%w: cell %s outside %dx%d grid", ErrOutOfBounds, c, g.w, g.h)
	}
	return nil
}

// AddGrain drops a single grain onto c.
func (g *Grid) AddGrain(c Cell) error {
	if err := g.check(c); err != nil {
		return err
	}
	g.data[g.Index(c)]++
	return nil
}

// RemoveGrains takes n grains from c and returns what is left. The result
// may be negative; callers decide whether that is acceptable.
func (g *Grid) RemoveGrains(c Cell, n int) (int, error) {
	if err := g.check(c); err != nil {
		return 0, err
	}
	idx := g.Index(c)
	g.data[idx] -= n
	return g.data[idx], nil
}

// GrainsAt returns the grain count stored at c.
func (g *Grid) GrainsAt(c Cell) (int, error) {
	if err := g.check(c); err != nil {
		return 0, err
	}
	return g.data[g.Index(c)], nil
}

// Neighbors returns the in-bounds orthogonal neighbors of c.
func (g *Grid) Neighbors(c Cell) ([]Cell, error) {
	return g.AppendNeighbors(nil, c)
}

// AppendNeighbors appends the in-bounds neighbors of c to dst in the fixed
// order up, down, left, right.
func (g *Grid) AppendNeighbors(dst []Cell, c Cell) ([]Cell, error) {
	if err := g.check(c); err != nil {
		return dst, err
	}
	if c.Row > 0 {
		dst = append(dst, Cell{Row: c.Row - 1, Col: c.Col})
	}
	if c.Row < g.h-1 {
		dst = append(dst, Cell{Row: c.Row + 1, Col: c.Col})
	}
	if c.Col > 0 {
		dst = append(dst, Cell{Row: c.Row, Col: c.Col - 1})
	}
	if c.Col < g.w-1 {
		dst = append(dst, Cell{Row: c.Row, Col: c.Col + 1})
	}
	return dst, nil
}

// Total returns the number of grains on the grid.
func (g *Grid) Total() int {
	total := 0
	for _, v := range g.data {
		total += v
	}
	return total
}

// Snapshot copies the grain counts in row-major order.
func (g *Grid) Snapshot() []int {
	return append([]int(nil), g.data...)
}

// Clone returns an independent copy of the grid.
func (g *Grid) Clone() *Grid {
	return &Grid{w: g.w, h: g.h, data: g.Snapshot()}
}

// Equal reports whether both grids have the same shape and contents.
func (g *Grid) Equal(other *Grid) bool {
	if other == nil || g.w != other.w || g.h != other.h {
		return false
	}
	for i, v := range g.data {
		if other.data[i] != v {
			return false
		}
	}
	return true
}

// Clear empties every cell.
func (g *Grid) Clear() {
	for i := range g.data {
		g.data[i] = 0
	}
}
