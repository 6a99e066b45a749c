package pipeline_test

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"log"
	"strings"
	"testing"
	"time"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/ingestion"
	"athens-property-lab/internal/ingestion/stub"
	"athens-property-lab/internal/pipeline"
	"athens-property-lab/internal/storage/memory"
)

type stores struct {
	listings      *memory.ListingStore
	validations   *memory.ValidationStore
	opportunities *memory.OpportunityStore
	snapshots     *memory.MarketSnapshotStore
}

func newPipeline(t *testing.T, raws []*domain.RawListing) (*pipeline.Pipeline, *stores) {
	t.Helper()
	s := &stores{
		listings:      memory.NewListingStore(),
		validations:   memory.NewValidationStore(),
		opportunities: memory.NewOpportunityStore(),
		snapshots:     memory.NewMarketSnapshotStore(),
	}
	p, err := pipeline.New(pipeline.Options{
		Market:           config.DefaultMarket(),
		Sources:          []ingestion.ListingSource{stub.NewStubListingSource("stub", raws)},
		ListingStore:     s.listings,
		ValidationStore:  s.validations,
		OpportunityStore: s.opportunities,
		SnapshotStore:    s.snapshots,
		Logger:           log.New(io.Discard, "", 0),
	})
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	p.WithClock(func() time.Time { return time.UnixMilli(1704067200000).UTC() })
	return p, s
}

func rawAt(url, neighborhood, price, size string) *domain.RawListing {
	return &domain.RawListing{
		URL:          url,
		Price:        price,
		Size:         size,
		Neighborhood: neighborhood,
		EnergyClass:  "C",
		Source:       domain.SourceFile,
	}
}

func batch() []*domain.RawListing {
	return []*domain.RawListing{
		rawAt("https://www.spitogatos.gr/property/1", "Exarchia", "95000", "91"),
		rawAt("https://www.spitogatos.gr/property/2", "Exarchia", "120000", "100"),
		rawAt("https://www.spitogatos.gr/property/3", "Exarchia", "60000", "50"),
		// Fake listing: off-domain URL, must be rejected.
		rawAt("https://scam.example.com/property/4", "Exarchia", "95000", "91"),
		// Unparsable price, dropped during normalization.
		rawAt("https://www.spitogatos.gr/property/5", "Exarchia", "call us", "91"),
	}
}

func TestRun_FullBatch(t *testing.T) {
	p, s := newPipeline(t, batch())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Ingestion.Inserted != 4 {
		t.Errorf("Expected 4 inserted listings, got %d", result.Ingestion.Inserted)
	}
	if result.Ingestion.Dropped.Total != 1 {
		t.Errorf("Expected 1 normalization drop, got %d", result.Ingestion.Dropped.Total)
	}
	if result.Validated != 4 {
		t.Errorf("Expected 4 validated, got %d", result.Validated)
	}
	if result.Authentic != 3 || result.Rejected != 1 {
		t.Errorf("Expected 3 authentic / 1 rejected, got %d / %d", result.Authentic, result.Rejected)
	}
	if result.Scored != 3 || len(result.Opportunities) != 3 {
		t.Errorf("Expected 3 scored opportunities, got %d", result.Scored)
	}

	// Persisted validation records cover every listing.
	ctx := context.Background()
	authentic, err := s.validations.GetAuthentic(ctx)
	if err != nil {
		t.Fatalf("GetAuthentic failed: %v", err)
	}
	if len(authentic) != 3 {
		t.Errorf("Expected 3 persisted authentic records, got %d", len(authentic))
	}

	ranked, err := s.opportunities.GetRanked(ctx)
	if err != nil {
		t.Fatalf("GetRanked failed: %v", err)
	}
	if len(ranked) != 3 {
		t.Errorf("Expected 3 persisted opportunities, got %d", len(ranked))
	}

	snapshots, err := s.snapshots.GetByNeighborhood(ctx, "Exarchia")
	if err != nil {
		t.Fatalf("GetByNeighborhood failed: %v", err)
	}
	if len(snapshots) != 1 {
		t.Fatalf("Expected 1 market snapshot, got %d", len(snapshots))
	}
	if snapshots[0].ListingCount != 3 {
		t.Errorf("Snapshot must cover only the 3 authentic listings, got %d", snapshots[0].ListingCount)
	}
}

func TestRun_RejectedListingsAreNotScored(t *testing.T) {
	p, _ := newPipeline(t, batch())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for _, o := range result.Opportunities {
		vr := result.Validations[o.ListingID]
		if vr == nil || !vr.Authentic {
			t.Errorf("Opportunity %s exists for a non-authentic listing", o.ListingID)
		}
	}
}

func TestRun_OpportunitiesRanked(t *testing.T) {
	p, _ := newPipeline(t, batch())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	for i := 1; i < len(result.Opportunities); i++ {
		prev, cur := result.Opportunities[i-1], result.Opportunities[i]
		if prev.ValueScore < cur.ValueScore {
			t.Errorf("Opportunities not ranked by value desc at %d", i)
		}
	}
}

func TestRun_Rerunnable(t *testing.T) {
	p, _ := newPipeline(t, batch())
	ctx := context.Background()

	first, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("First run failed: %v", err)
	}
	second, err := p.Run(ctx)
	if err != nil {
		t.Fatalf("Second run must tolerate existing records: %v", err)
	}

	if len(first.Opportunities) != len(second.Opportunities) {
		t.Fatalf("Rerun changed opportunity count: %d vs %d",
			len(first.Opportunities), len(second.Opportunities))
	}
	for i := range first.Opportunities {
		if first.Opportunities[i].ListingID != second.Opportunities[i].ListingID {
			t.Errorf("Rerun changed ranking at position %d", i)
		}
	}
}

func TestOutputRecords(t *testing.T) {
	p, _ := newPipeline(t, batch())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	records := pipeline.OutputRecords(result)
	if len(records) != 4 {
		t.Fatalf("Expected 4 output records, got %d", len(records))
	}

	var authentic, rejected int
	for _, rec := range records {
		if rec.IsAuthentic {
			authentic++
			if rec.ValueScore == nil || rec.ROIEstimate == nil || rec.Category == "" {
				t.Errorf("Authentic record %s is missing scoring fields", rec.ListingID)
			}
		} else {
			rejected++
			if rec.ValueScore != nil || rec.ROIEstimate != nil || rec.Category != "" {
				t.Errorf("Rejected record %s must not carry scoring fields", rec.ListingID)
			}
			if len(rec.RejectionReasons) == 0 {
				t.Errorf("Rejected record %s is missing rejection reasons", rec.ListingID)
			}
		}
	}
	if authentic != 3 || rejected != 1 {
		t.Errorf("Expected 3 authentic / 1 rejected records, got %d / %d", authentic, rejected)
	}

	// Ranked opportunities come first.
	if !records[0].IsAuthentic {
		t.Error("Output must lead with ranked opportunities")
	}
}

func TestRun_EmptyURLListingIsRejectedNotDropped(t *testing.T) {
	raws := []*domain.RawListing{
		rawAt("", "Exarchia", "65000", "30"),
		rawAt("https://www.spitogatos.gr/property/1", "Exarchia", "95000", "91"),
	}
	p, _ := newPipeline(t, raws)

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	if result.Ingestion.Dropped.Total != 0 {
		t.Errorf("Empty URL must not be a normalization drop, got %+v", result.Ingestion.Dropped.ByReason)
	}
	if result.Validated != 2 {
		t.Fatalf("Expected 2 validated, got %d", result.Validated)
	}
	if result.Rejected != 1 {
		t.Fatalf("Expected the empty-URL listing rejected, got %d rejected", result.Rejected)
	}

	records := pipeline.OutputRecords(result)
	if len(records) != 2 {
		t.Fatalf("Expected 2 output records, got %d", len(records))
	}

	var found bool
	for _, rec := range records {
		if rec.URL != "" {
			continue
		}
		found = true
		if rec.IsAuthentic {
			t.Error("Empty-URL record must carry is_authentic=false")
		}
		urlReason := false
		for _, reason := range rec.RejectionReasons {
			if strings.Contains(reason, "url") {
				urlReason = true
			}
		}
		if !urlReason {
			t.Errorf("Expected a URL-related rejection reason, got %v", rec.RejectionReasons)
		}
	}
	if !found {
		t.Error("Empty-URL listing is missing from the output entirely")
	}
}

func TestWriteJSON(t *testing.T) {
	p, _ := newPipeline(t, batch())

	result, err := p.Run(context.Background())
	if err != nil {
		t.Fatalf("Run failed: %v", err)
	}

	var buf bytes.Buffer
	if err := pipeline.WriteJSON(&buf, result); err != nil {
		t.Fatalf("WriteJSON failed: %v", err)
	}

	var decoded []map[string]interface{}
	if err := json.Unmarshal(buf.Bytes(), &decoded); err != nil {
		t.Fatalf("Output is not valid JSON: %v", err)
	}
	if len(decoded) != 4 {
		t.Errorf("Expected 4 JSON records, got %d", len(decoded))
	}
	for _, rec := range decoded {
		if _, ok := rec["is_authentic"]; !ok {
			t.Error("Every record must carry is_authentic")
		}
		if _, ok := rec["confidence_score"]; !ok {
			t.Error("Every record must carry confidence_score")
		}
	}
}
