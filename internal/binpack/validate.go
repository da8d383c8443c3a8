package binpack

import "fmt"

// Verdict classifies the outcome of validating a packing.
type Verdict int

const (
	// Feasible means every item is assigned to exactly one bin and no bin's
	// contents sum above capacity.
	Feasible Verdict = iota
	// CapacityExceeded means some bin's assigned sizes sum above capacity.
	CapacityExceeded
	// ItemUnassigned means some item appears in no bin.
	ItemUnassigned
	// ItemDuplicated means some item appears more than once, whether across
	// bins or repeatedly within one.
	ItemDuplicated
)

// IsFeasible reports whether the verdict certifies a feasible packing.
func (v Verdict) IsFeasible() bool { return v == Feasible }

func (v Verdict) String() string {
	switch v {
	case Feasible:
		return "feasible"
	case CapacityExceeded:
		return "capacity-exceeded"
	case ItemUnassigned:
		return "item-unassigned"
	case ItemDuplicated:
		return "item-duplicated"
	default:
		return fmt.Sprintf("verdict(%d)", int(v))
	}
}

// Validate certifies that packing is a feasible assignment of the given item
// sizes: bins are checked in order against capacity (first overflow wins),
// then every item must be counted in exactly one bin.
//
// Sizes outside [0, 1] fail fast with ErrInvalidSize before any validation.
// A packing whose item count or indices do not match sizes is rejected with
// ErrInvalidPacking. Both are input errors; an infeasible packing is a
// normal Verdict, not an error. Validate is a pure function of its inputs.
func Validate(sizes []float64, p Packing) (Verdict, error) {
	if err := checkSizes(sizes); err != nil {
		return Feasible, err
	}
	if p.NumItems != len(sizes) {
		return Feasible, fmt.Errorf("packing covers %d items, want %d: %w", p.NumItems, len(sizes), ErrInvalidPacking)
	}

	counts := make([]int, len(sizes))
	for b, bin := range p.Bins {
		var sum float64
		for _, idx := range bin.Items {
			if idx < 0 || idx >= len(sizes) {
				return Feasible, fmt.Errorf("bin %d references item %d of %d: %w", b, idx, len(sizes), ErrInvalidPacking)
			}
			sum += sizes[idx]
			counts[idx]++
		}
		if sum > Capacity {
			return CapacityExceeded, nil
		}
	}

	for _, c := range counts {
		if c == 0 {
			return ItemUnassigned, nil
		}
		if c > 1 {
			return ItemDuplicated, nil
		}
	}
	return Feasible, nil
}
