package binpack

import "errors"

var (
	// ErrInvalidSize is returned when an item size lies outside [0, 1].
	ErrInvalidSize = errors.New("item sizes must lie within [0, 1]")
	// ErrInvalidPacking is returned when a packing's shape does not match the
	// item sequence it is checked against.
	ErrInvalidPacking = errors.New("packing does not match the item sequence")
	// ErrUnknownAlgorithm is returned when no packer carries the requested name.
	ErrUnknownAlgorithm = errors.New("unknown packing algorithm")
)
