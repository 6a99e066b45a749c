package domain

// Category buckets an opportunity by value score.
type Category string

const (
	CategoryExceptional   Category = "exceptional"
	CategoryHighPotential Category = "high-potential"
	CategoryModerate      Category = "moderate"
	CategoryConservative  Category = "conservative"
)

// Opportunity is a scored, authenticated listing.
// Corresponds to opportunities table in PostgreSQL.
type Opportunity struct {
	ListingID   string  // PRIMARY KEY, references listings
	ValueScore  float64 // 0-100, higher is better
	ROIEstimate float64 // heuristic percentage
	Category    Category
	ScoredAt    int64 // Unix timestamp in milliseconds

	// Component breakdown, kept for auditability of the composite score.
	DiscountPoints float64
	EnergyPoints   float64
	SizePoints     float64
	LocationPoints float64
}
