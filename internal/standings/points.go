package standings

import "sort"

// DNFRank is the sentinel rank carried by DNF/DQ results. It is far past
// the scoring window so Points maps it to zero.
const DNFRank = 999

// Points converts a category rank to series points on the fixed
// 10/9/8/7/6/5/4/3/2/1 scale. Ranks beyond tenth score nothing.
func Points(rank int) int {
	if rank < 1 || rank > 10 {
		return 0
	}
	return 11 - rank
}

// qualifyingRaces is the best-N cutoff: half the series' total race count,
// rounded up. Races still in planned status count toward the total.
func qualifyingRaces(totalRaces int) int {
	return (totalRaces + 1) / 2
}

// bestQ sums the Q highest per-race point totals.
func bestQ(points []int, q int) int {
	if q <= 0 || len(points) == 0 {
		return 0
	}
	sorted := make([]int, len(points))
	copy(sorted, points)
	sort.Sort(sort.Reverse(sort.IntSlice(sorted)))
	if q > len(sorted) {
		q = len(sorted)
	}
	total := 0
	for _, p := range sorted[:q] {
		total += p
	}
	return total
}
