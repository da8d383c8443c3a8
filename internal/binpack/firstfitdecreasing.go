package binpack

import "sort"

type firstFitDecreasing struct{}

// NewFirstFitDecreasing creates the FIRST-FIT-DECREASING packer: items are
// sorted by size descending, packed with FIRST-FIT, and the result is mapped
// back so every reported index refers to the original input order. Ties
// between equal sizes keep their input order, making the output
// deterministic.
func NewFirstFitDecreasing() Packer {
	return firstFitDecreasing{}
}

func (firstFitDecreasing) Name() string { return "first-fit-decreasing" }

func (firstFitDecreasing) Pack(sizes []float64) (Packing, error) {
	if err := checkSizes(sizes); err != nil {
		return Packing{}, err
	}

	perm := make([]int, len(sizes))
	for i := range perm {
		perm[i] = i
	}
	sort.Slice(perm, func(a, b int) bool {
		if sizes[perm[a]] != sizes[perm[b]] {
			return sizes[perm[a]] > sizes[perm[b]]
		}
		return perm[a] < perm[b]
	})

	sorted := make([]float64, len(sizes))
	for j, idx := range perm {
		sorted[j] = sizes[idx]
	}

	packing := packFirstFit(sorted)

	// packFirstFit indexed items by their sorted position; undo the
	// permutation so the packing is expressed in original input order.
	for b := range packing.Bins {
		items := packing.Bins[b].Items
		for k, j := range items {
			items[k] = perm[j]
		}
	}
	return packing, nil
}
