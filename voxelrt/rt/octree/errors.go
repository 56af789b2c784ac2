package octree

import (
	"errors"
	"fmt"
)

var (
	ErrOutOfRange   = errors.New("coordinate out of range")
	ErrInvalidDepth = errors.New("invalid octree depth")
	ErrValueTooWide = errors.New("value wider than 24 bits")
)

// CoordinateError reports a sample that lies outside the [0, 2^D) grid.
type CoordinateError struct {
	X, Y, Z    int
	Resolution int
}

func (e *CoordinateError) Error() string {
	return fmt.Sprintf("coordinate (%d, %d, %d) outside [0, %d)", e.X, e.Y, e.Z, e.Resolution)
}

func (e *CoordinateError) Unwrap() error {
	return ErrOutOfRange
}
