package binpack

type firstFit struct{}

// NewFirstFit creates the FIRST-FIT packer. It keeps every bin open and
// scans them first to last, placing each item into the first bin whose free
// space strictly exceeds the item's size. An exact-fit item therefore opens
// a new bin, unlike NEXT-FIT where equality still fits; both conventions are
// pinned by tests.
func NewFirstFit() Packer {
	return firstFit{}
}

func (firstFit) Name() string { return "first-fit" }

func (firstFit) Pack(sizes []float64) (Packing, error) {
	if err := checkSizes(sizes); err != nil {
		return Packing{}, err
	}
	return packFirstFit(sizes), nil
}

// packFirstFit runs the FIRST-FIT scan over already-checked sizes. The bin
// list starts with one empty bin and only ever grows; no bin is closed or
// merged.
func packFirstFit(sizes []float64) Packing {
	bins := []Bin{{Free: Capacity}}
	for i, s := range sizes {
		placed := false
		for b := range bins {
			if s < bins[b].Free {
				bins[b].Items = append(bins[b].Items, i)
				bins[b].Free -= s
				placed = true
				break
			}
		}
		if !placed {
			bins = append(bins, Bin{Items: []int{i}, Free: Capacity - s})
		}
	}
	return Packing{Bins: bins, NumItems: len(sizes)}
}
