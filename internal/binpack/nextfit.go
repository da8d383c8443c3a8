package binpack

type nextFit struct{}

// NewNextFit creates the NEXT-FIT packer: a single pass that keeps exactly
// one bin open. An item larger than the open bin's free space closes it for
// good and opens a fresh bin; closed bins are never revisited. An item whose
// size equals the free space exactly still fits.
func NewNextFit() Packer {
	return nextFit{}
}

func (nextFit) Name() string { return "next-fit" }

func (nextFit) Pack(sizes []float64) (Packing, error) {
	if err := checkSizes(sizes); err != nil {
		return Packing{}, err
	}

	open := Bin{Free: Capacity}
	var bins []Bin
	for i, s := range sizes {
		if s > open.Free {
			bins = append(bins, open)
			open = Bin{Free: Capacity}
		}
		open.Items = append(open.Items, i)
		open.Free -= s
	}
	// The open bin always ships, so an empty input yields one empty bin.
	bins = append(bins, open)

	return Packing{Bins: bins, NumItems: len(sizes)}, nil
}
