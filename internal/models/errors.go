package models

import (
	"fmt"
)

// InsufficientPointsError is returned when fewer than two points are given
// to a pairwise computation.
type InsufficientPointsError struct {
	N int
}

func (e *InsufficientPointsError) Error() string {
	return fmt.Sprintf("insufficient points: need at least 2, got %d", e.N)
}

// IncompatibleShapeError is returned when the mask does not match the
// coordinate space of the points or markers.
type IncompatibleShapeError struct {
	// MaskShape is the shape of the mask volume, nil when the mask is missing
	MaskShape []int

	// Dims is the dimensionality of the offending input
	Dims int

	// Reason describes the mismatch
	Reason string
}

func (e *IncompatibleShapeError) Error() string {
	return fmt.Sprintf("incompatible shape: mask %v vs %dD input: %s", e.MaskShape, e.Dims, e.Reason)
}
