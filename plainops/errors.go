package plainops

import "fmt"

// ShapeError signals a non-square matrix or a dimension mismatch.
type ShapeError struct {
	Rows, Cols int
}

func (e *ShapeError) Error() string {
	return fmt.Sprintf("matrix is %dx%d, expected square", e.Rows, e.Cols)
}

// IndexError signals a diagonal offset outside [0,N). It is an internal
// consistency check and should not occur during normal operation.
type IndexError struct {
	Offset, N int
}

func (e *IndexError) Error() string {
	return fmt.Sprintf("diagonal offset %d out of bounds for dimension %d", e.Offset, e.N)
}

// CapacityError signals that a d x d matrix does not fit the slot budget:
// d^2 must not exceed half the slot count, so that the duplicated
// permutation matrices still fit.
type CapacityError struct {
	Dim, Slots int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("matrix with %d entries exceeds half the slot capacity (%d slots)", e.Dim, e.Slots)
}
