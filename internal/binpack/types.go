package binpack

import "fmt"

// Capacity is the fixed capacity of every bin.
const Capacity = 1.0

// Bin is a unit-capacity container holding item indices in placement order.
// Free is the derived remaining capacity: Capacity minus the sizes of the
// items placed so far.
type Bin struct {
	Items []int
	Free  float64
}

// Packing is an ordered sequence of bins covering an item sequence. It is
// produced fresh by every Packer call and holds no reference to the input
// sizes; items are identified by their index in the original sequence.
type Packing struct {
	Bins     []Bin
	NumItems int
}

// BinCount returns the number of bins in the packing.
func (p Packing) BinCount() int {
	return len(p.Bins)
}

// BinOf returns the inverse index: for every item, the position of the bin
// it is assigned to, or -1 when the item appears in no bin. When an item
// appears more than once the last assignment wins; use Validate to detect
// that case.
func (p Packing) BinOf() []int {
	inverse := make([]int, p.NumItems)
	for i := range inverse {
		inverse[i] = -1
	}
	for b, bin := range p.Bins {
		for _, idx := range bin.Items {
			if idx >= 0 && idx < len(inverse) {
				inverse[idx] = b
			}
		}
	}
	return inverse
}

// MembershipVectors renders each bin as a 0/1 vector over item indices,
// the dense representation consumed by reporting callers. Entries count
// assignments, so a malformed packing that places an item twice in one bin
// yields an entry of 2.
func (p Packing) MembershipVectors() [][]int {
	vectors := make([][]int, len(p.Bins))
	for b, bin := range p.Bins {
		row := make([]int, p.NumItems)
		for _, idx := range bin.Items {
			if idx >= 0 && idx < len(row) {
				row[idx]++
			}
		}
		vectors[b] = row
	}
	return vectors
}

// NewPackingFromMembership builds a Packing from per-bin 0/1 membership
// vectors over the given item sizes. Vector entries greater than one are
// kept as repeated assignments so Validate can flag them. The vectors must
// all have one entry per item; negative entries are rejected.
func NewPackingFromMembership(sizes []float64, vectors [][]int) (Packing, error) {
	n := len(sizes)
	bins := make([]Bin, len(vectors))
	for b, vector := range vectors {
		if len(vector) != n {
			return Packing{}, fmt.Errorf("bin %d has %d entries for %d items: %w", b, len(vector), n, ErrInvalidPacking)
		}
		bin := Bin{Free: Capacity}
		for idx, count := range vector {
			if count < 0 {
				return Packing{}, fmt.Errorf("bin %d has negative membership for item %d: %w", b, idx, ErrInvalidPacking)
			}
			for k := 0; k < count; k++ {
				bin.Items = append(bin.Items, idx)
				bin.Free -= sizes[idx]
			}
		}
		bins[b] = bin
	}
	return Packing{Bins: bins, NumItems: n}, nil
}

// checkSizes rejects any size outside [0, 1]; the negated comparison also
// catches NaN.
func checkSizes(sizes []float64) error {
	for i, s := range sizes {
		if !(s >= 0 && s <= Capacity) {
			return fmt.Errorf("item %d has size %g: %w", i, s, ErrInvalidSize)
		}
	}
	return nil
}
