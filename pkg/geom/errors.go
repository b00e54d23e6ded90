package geom

import "errors"

var (
	// ErrNonFinite is returned when an input coordinate is NaN or infinite.
	ErrNonFinite = errors.New("geom: non-finite input")

	// ErrDegenerate is returned when a direction vector has no usable magnitude.
	ErrDegenerate = errors.New("geom: degenerate direction")
)
