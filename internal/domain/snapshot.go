package domain

// MarketSnapshot captures one neighborhood's aggregate state for one batch.
// Corresponds to market_snapshots table in ClickHouse.
type MarketSnapshot struct {
	BatchID        string  // batch identifier shared by all rows of a run
	Neighborhood   string
	AvgPricePerSqm float64 // over authenticated listings in the batch
	ListingCount   int64   // authenticated listings contributing to the average
	SnapshotAt     int64   // Unix timestamp in milliseconds
}
