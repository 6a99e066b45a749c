package domain

// ValidationRecord is the persisted outcome of authenticity validation
// for one listing. Corresponds to validation_records table in PostgreSQL.
type ValidationRecord struct {
	ListingID        string // PRIMARY KEY, references listings
	Authentic        bool
	Confidence       float64  // 0-100
	RejectionReasons []string // empty for fully clean listings
	ValidatedAt      int64    // Unix timestamp in milliseconds
}
