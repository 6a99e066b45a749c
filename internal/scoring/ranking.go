package scoring

import (
	"sort"

	"athens-property-lab/internal/domain"
)

// Rank orders opportunities by (value_score DESC, roi_estimate DESC,
// listing_id ASC). The listing_id tiebreak makes the order total, so
// repeated runs over the same batch produce identical rankings.
func Rank(opportunities []*domain.Opportunity) {
	sort.Slice(opportunities, func(i, j int) bool {
		return compareOpportunities(opportunities[i], opportunities[j]) < 0
	})
}

// compareOpportunities returns:
//   - negative if a ranks before b
//   - zero if equal
//   - positive if a ranks after b
func compareOpportunities(a, b *domain.Opportunity) int {
	if a.ValueScore != b.ValueScore {
		if a.ValueScore > b.ValueScore {
			return -1
		}
		return 1
	}
	if a.ROIEstimate != b.ROIEstimate {
		if a.ROIEstimate > b.ROIEstimate {
			return -1
		}
		return 1
	}
	if a.ListingID != b.ListingID {
		if a.ListingID < b.ListingID {
			return -1
		}
		return 1
	}
	return 0
}
