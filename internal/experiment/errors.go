package experiment

import "errors"

var (
	// ErrInvalidConfig is returned when an experiment configuration is out of
	// range.
	ErrInvalidConfig = errors.New("invalid experiment configuration")
	// ErrInfeasiblePacking is returned when a packer's output fails
	// validation. This indicates a bug in the packer, not bad input.
	ErrInfeasiblePacking = errors.New("packer produced an infeasible packing")
)
