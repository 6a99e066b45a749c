package validation

import "athens-property-lab/internal/domain"

// Check names, stable identifiers used in audit logs and reasons.
const (
	CheckURL          = "url-shape"
	CheckPrice        = "price-bounds"
	CheckSize         = "size-bounds"
	CheckEnergy       = "energy-class"
	CheckNeighborhood = "neighborhood-allowlist"
	CheckPriceRatio   = "price-per-sqm-band"
)

// CheckResult represents pass/fail for one authenticity check.
type CheckResult struct {
	Name      string
	Threshold string
	Actual    string
	Pass      bool

	// Hard checks reject the listing on failure; soft checks only
	// reduce confidence.
	Hard bool

	// Reason is populated when the check fails.
	Reason string
}

// Result is the outcome of validating one listing.
type Result struct {
	ListingID  string
	Authentic  bool
	Confidence float64 // 0-100
	Checks     []CheckResult
}

// RejectionReasons returns the reasons of all failed checks, hard and soft,
// in check order. Empty for a fully clean listing.
func (r *Result) RejectionReasons() []string {
	var reasons []string
	for _, c := range r.Checks {
		if !c.Pass {
			reasons = append(reasons, c.Reason)
		}
	}
	return reasons
}

// Record converts the result into its persisted form.
func (r *Result) Record(validatedAt int64) *domain.ValidationRecord {
	return &domain.ValidationRecord{
		ListingID:        r.ListingID,
		Authentic:        r.Authentic,
		Confidence:       r.Confidence,
		RejectionReasons: r.RejectionReasons(),
		ValidatedAt:      validatedAt,
	}
}
