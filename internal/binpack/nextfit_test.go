package binpack

import "testing"

func TestNextFitPack(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name  string
		sizes []float64
		want  [][]int
	}{
		{
			name:  "MixedSixItems",
			sizes: []float64{0.09, 0.69, 0.79, 0.29, 0.89, 0.19},
			want:  [][]int{{0, 1}, {2}, {3}, {4}, {5}},
		},
		{
			name:  "ExactFitSharesBin",
			sizes: []float64{0.5, 0.5},
			want:  [][]int{{0, 1}},
		},
		{
			name:  "FullSizedItemFillsFirstBin",
			sizes: []float64{1.0},
			want:  [][]int{{0}},
		},
		{
			name:  "EmptyInputKeepsOpenBin",
			sizes: nil,
			want:  [][]int{{}},
		},
		{
			name:  "ZeroSizedItemsShareOneBin",
			sizes: []float64{0, 0, 0},
			want:  [][]int{{0, 1, 2}},
		},
		{
			name:  "DescendingRun",
			sizes: []float64{0.6, 0.5, 0.4, 0.3},
			want:  [][]int{{0}, {1, 2}, {3}},
		},
	}

	for _, tc := range tests {
		tc := tc
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			packing, err := NewNextFit().Pack(tc.sizes)
			if err != nil {
				t.Fatalf("unexpected error: %v", err)
			}
			assertBins(t, packing, tc.want)
			assertFeasible(t, tc.sizes, packing)
		})
	}
}

func TestNextFitName(t *testing.T) {
	t.Parallel()

	if got := NewNextFit().Name(); got != "next-fit" {
		t.Fatalf("expected name %q, got %q", "next-fit", got)
	}
}

func TestNextFitClosesBinsForGood(t *testing.T) {
	t.Parallel()

	// 0.7 closes the first bin even though 0.2 would still fit there.
	packing, err := NewNextFit().Pack([]float64{0.6, 0.7, 0.2})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	assertBins(t, packing, [][]int{{0}, {1, 2}})
}
