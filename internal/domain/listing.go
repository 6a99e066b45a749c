package domain

// RawListing holds unprocessed listing data exactly as a source produced it.
// Numeric fields arrive as display strings ("€95,000", "91 τ.μ.") and are
// parsed during normalization.
type RawListing struct {
	URL          string
	Price        string
	Size         string
	EnergyClass  string
	Neighborhood string
	Rooms        string
	Floor        string
	Source       Source
	CollectedAt  int64 // Unix timestamp in milliseconds
}

// Listing represents one normalized real-estate listing.
// Corresponds to listings table in PostgreSQL.
type Listing struct {
	ListingID    string // PRIMARY KEY, deterministic hash
	URL          string
	Price        float64 // EUR
	SizeSqm      float64
	EnergyClass  EnergyClass
	Neighborhood string
	Rooms        *int // nullable
	Floor        *int // nullable
	Source       Source
	CollectedAt  int64 // Unix timestamp in milliseconds
	CreatedAt    int64 // record creation timestamp (ms)
}

// PricePerSqm returns the derived price/size ratio, or 0 if size is not positive.
func (l *Listing) PricePerSqm() float64 {
	if l.SizeSqm <= 0 {
		return 0
	}
	return l.Price / l.SizeSqm
}
