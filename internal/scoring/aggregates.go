package scoring

import (
	"sort"

	"athens-property-lab/internal/domain"
)

// Aggregates holds per-neighborhood price baselines for one batch.
// Computed once over the authenticated set and read-only afterwards,
// so scoring across listings can run in parallel without locks.
type Aggregates struct {
	sums   map[string]float64 // neighborhood -> sum of €/sqm ratios
	counts map[string]int64
}

// ComputeAggregates computes per-neighborhood average €/sqm over the
// given authenticated listings. Listings without a usable ratio
// (non-positive size) contribute nothing.
func ComputeAggregates(listings []*domain.Listing) *Aggregates {
	a := &Aggregates{
		sums:   make(map[string]float64),
		counts: make(map[string]int64),
	}
	for _, l := range listings {
		ratio := l.PricePerSqm()
		if ratio <= 0 {
			continue
		}
		a.sums[l.Neighborhood] += ratio
		a.counts[l.Neighborhood]++
	}
	return a
}

// Baseline returns the average €/sqm of the listing's neighborhood,
// excluding the listing's own contribution. Returns ok=false when the
// neighborhood has no other comparables; callers treat that as a
// neutral signal rather than an error.
func (a *Aggregates) Baseline(l *domain.Listing) (float64, bool) {
	count := a.counts[l.Neighborhood]
	sum := a.sums[l.Neighborhood]

	ratio := l.PricePerSqm()
	if ratio > 0 {
		// The listing is part of the batch; remove its own ratio.
		sum -= ratio
		count--
	}

	if count <= 0 {
		return 0, false
	}
	return sum / float64(count), true
}

// Average returns the plain per-neighborhood average and listing count,
// including every contribution. Used for market snapshots.
func (a *Aggregates) Average(neighborhood string) (float64, int64) {
	count := a.counts[neighborhood]
	if count == 0 {
		return 0, 0
	}
	return a.sums[neighborhood] / float64(count), count
}

// Neighborhoods returns every neighborhood with at least one
// contribution, sorted for deterministic iteration.
func (a *Aggregates) Neighborhoods() []string {
	result := make([]string, 0, len(a.counts))
	for n := range a.counts {
		result = append(result, n)
	}
	sort.Strings(result)
	return result
}
