package core

import (
	"errors"
	"fmt"
)

var (
	// ErrConfig marks invalid construction parameters.
	ErrConfig = errors.New("invalid configuration")
	// ErrOutOfBounds marks a coordinate outside the grid.
	ErrOutOfBounds = errors.New("cell out of bounds")
	// ErrInvariant marks a broken simulation invariant. Runs that hit it
	// must stop.
	ErrInvariant = errors.New("invariant violation")
)

// InvariantError describes the cell whose state broke an invariant.
type InvariantError struct {
	Cell   Cell
	Grains int
	Reason string
}

func (e *InvariantError) Error() string {
	return fmt.Sprintf("%v: %s at %s (grains=%d)", ErrInvariant, e.Reason, e.Cell, e.Grains)
}

func (e *InvariantError) Unwrap() error { return ErrInvariant }
