package distribution

import "errors"

var (
	// ErrUnknownDistribution is returned when a spec names an unsupported kind.
	ErrUnknownDistribution = errors.New("unknown distribution kind")
	// ErrInvalidParameter is returned when a spec's parameters are out of range
	// for its kind.
	ErrInvalidParameter = errors.New("invalid distribution parameter")
)
