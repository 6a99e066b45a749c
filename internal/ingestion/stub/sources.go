package stub

import (
	"context"

	"athens-property-lab/internal/domain"
)

// StubListingSource returns fixed in-memory raw listings for testing.
// Implements ingestion.ListingSource.
type StubListingSource struct {
	name string
	raws []*domain.RawListing
	err  error
}

// NewStubListingSource creates a stub source with the given records.
func NewStubListingSource(name string, raws []*domain.RawListing) *StubListingSource {
	return &StubListingSource{name: name, raws: raws}
}

// NewFailingListingSource creates a stub source whose Fetch always fails.
func NewFailingListingSource(name string, err error) *StubListingSource {
	return &StubListingSource{name: name, err: err}
}

func (s *StubListingSource) Name() string {
	return s.name
}

// Fetch returns copies to prevent mutation.
func (s *StubListingSource) Fetch(_ context.Context) ([]*domain.RawListing, error) {
	if s.err != nil {
		return nil, s.err
	}
	result := make([]*domain.RawListing, 0, len(s.raws))
	for _, raw := range s.raws {
		copy := *raw
		result = append(result, &copy)
	}
	return result, nil
}
