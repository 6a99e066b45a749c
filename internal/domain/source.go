package domain

// Source identifies where a listing was collected from.
type Source string

const (
	// SourceFile marks listings loaded from a pre-existing JSON dataset.
	SourceFile Source = "FILE"
	// SourceFeed marks listings received from a live WebSocket feed.
	SourceFeed Source = "FEED"
	// SourceScrape marks listings extracted from scraped HTML pages.
	SourceScrape Source = "SCRAPE"
)
