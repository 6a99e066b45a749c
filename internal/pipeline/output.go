package pipeline

import (
	"encoding/json"
	"fmt"
	"io"
	"sort"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/validation"
)

// OutputRecord is the external JSON shape for one processed listing:
// the input fields plus the validation verdict, and scoring fields
// only when the listing is authentic.
type OutputRecord struct {
	ListingID    string   `json:"listing_id"`
	URL          string   `json:"url"`
	Price        float64  `json:"price"`
	SizeSqm      float64  `json:"sqm"`
	EnergyClass  string   `json:"energy_class,omitempty"`
	Neighborhood string   `json:"neighborhood,omitempty"`
	Rooms        *int     `json:"rooms,omitempty"`
	Floor        *int     `json:"floor,omitempty"`
	Source       string   `json:"source"`

	IsAuthentic      bool     `json:"is_authentic"`
	ConfidenceScore  float64  `json:"confidence_score"`
	RejectionReasons []string `json:"rejection_reasons,omitempty"`

	ValueScore  *float64 `json:"value_score,omitempty"`
	ROIEstimate *float64 `json:"roi_estimate,omitempty"`
	Category    string   `json:"category,omitempty"`
}

// OutputRecords flattens a run result into output records, ranked
// opportunities first, rejected listings after in ID order.
func OutputRecords(result *Result) []*OutputRecord {
	records := make([]*OutputRecord, 0, len(result.Listings))

	emitted := make(map[string]struct{}, len(result.Opportunities))
	for _, o := range result.Opportunities {
		l := result.Listings[o.ListingID]
		vr := result.Validations[o.ListingID]
		if l == nil || vr == nil {
			continue
		}
		rec := newOutputRecord(l, vr)
		value, roi := o.ValueScore, o.ROIEstimate
		rec.ValueScore = &value
		rec.ROIEstimate = &roi
		rec.Category = string(o.Category)
		records = append(records, rec)
		emitted[o.ListingID] = struct{}{}
	}

	for _, id := range sortedListingIDs(result.Listings) {
		if _, done := emitted[id]; done {
			continue
		}
		vr := result.Validations[id]
		if vr == nil {
			continue
		}
		records = append(records, newOutputRecord(result.Listings[id], vr))
	}

	return records
}

// WriteJSON writes the run result as a JSON array of output records.
func WriteJSON(w io.Writer, result *Result) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(OutputRecords(result)); err != nil {
		return fmt.Errorf("encode output: %w", err)
	}
	return nil
}

func newOutputRecord(l *domain.Listing, vr *validation.Result) *OutputRecord {
	return &OutputRecord{
		ListingID:        l.ListingID,
		URL:              l.URL,
		Price:            l.Price,
		SizeSqm:          l.SizeSqm,
		EnergyClass:      string(l.EnergyClass),
		Neighborhood:     l.Neighborhood,
		Rooms:            l.Rooms,
		Floor:            l.Floor,
		Source:           string(l.Source),
		IsAuthentic:      vr.Authentic,
		ConfidenceScore:  vr.Confidence,
		RejectionReasons: vr.RejectionReasons(),
	}
}

func sortedListingIDs(listings map[string]*domain.Listing) []string {
	ids := make([]string, 0, len(listings))
	for id := range listings {
		ids = append(ids, id)
	}
	sort.Strings(ids)
	return ids
}
