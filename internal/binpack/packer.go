// Package binpack implements approximate one-dimensional bin packing: the
// NEXT-FIT, FIRST-FIT, and FIRST-FIT-DECREASING heuristics over unit-capacity
// bins, plus a validator that certifies a packing is feasible.
package binpack

import "fmt"

// Packer assigns a sequence of item sizes to unit-capacity bins.
//
// Implementations are pure: every call allocates fresh bins, carries no state
// between calls, and never mutates the input slice. Item order is significant
// to the heuristics, and the returned packing always identifies items by
// their position in the input.
type Packer interface {
	Pack(sizes []float64) (Packing, error)
	Name() string
}

// All returns the implemented heuristics in canonical order: next-fit,
// first-fit, first-fit-decreasing.
func All() []Packer {
	return []Packer{NewNextFit(), NewFirstFit(), NewFirstFitDecreasing()}
}

// ByName resolves a heuristic by its canonical name.
func ByName(name string) (Packer, error) {
	for _, p := range All() {
		if p.Name() == name {
			return p, nil
		}
	}
	return nil, fmt.Errorf("%q: %w", name, ErrUnknownAlgorithm)
}
