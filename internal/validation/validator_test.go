package validation

import (
	"io"
	"log"
	"strings"
	"testing"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/domain"
)

func newTestValidator(t *testing.T) *Validator {
	t.Helper()
	v, err := NewValidator(config.DefaultMarket(), log.New(io.Discard, "", 0))
	if err != nil {
		t.Fatalf("NewValidator failed: %v", err)
	}
	return v
}

func cleanListing() *domain.Listing {
	return &domain.Listing{
		ListingID:    "listing-1",
		URL:          "https://www.spitogatos.gr/property/1",
		Price:        95000,
		SizeSqm:      91,
		EnergyClass:  domain.EnergyD,
		Neighborhood: "Exarchia",
		Source:       domain.SourceFile,
	}
}

func TestValidate_Authentic(t *testing.T) {
	v := newTestValidator(t)

	result := v.Validate(cleanListing())

	if !result.Authentic {
		t.Fatalf("Expected authentic, got rejected: %v", result.RejectionReasons())
	}
	if result.Confidence != 100 {
		t.Errorf("Expected confidence 100, got %v", result.Confidence)
	}
	if len(result.Checks) != 6 {
		t.Errorf("Expected 6 checks, got %d", len(result.Checks))
	}
	if len(result.RejectionReasons()) != 0 {
		t.Errorf("Expected no rejection reasons, got %v", result.RejectionReasons())
	}
}

func TestValidate_EmptyURL(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.URL = ""

	result := v.Validate(l)

	if result.Authentic {
		t.Error("Expected rejection for empty URL")
	}

	found := false
	for _, reason := range result.RejectionReasons() {
		if strings.Contains(reason, "url") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a URL-related rejection reason, got %v", result.RejectionReasons())
	}
}

func TestValidate_WrongDomainURL(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.URL = "https://example.com/property/1"

	result := v.Validate(l)
	if result.Authentic {
		t.Error("Expected rejection for off-site URL")
	}
}

func TestValidate_PriceBelowMinimum(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.Price = 50

	result := v.Validate(l)

	if result.Authentic {
		t.Error("Expected rejection for implausible price")
	}

	found := false
	for _, reason := range result.RejectionReasons() {
		if strings.Contains(reason, "price") {
			found = true
		}
	}
	if !found {
		t.Errorf("Expected a price-related rejection reason, got %v", result.RejectionReasons())
	}
	if result.Confidence < 0 {
		t.Errorf("Confidence must never go negative, got %v", result.Confidence)
	}
}

func TestValidate_SizeOutOfBounds(t *testing.T) {
	v := newTestValidator(t)

	for _, size := range []float64{5, 2000} {
		l := cleanListing()
		l.SizeSqm = size

		result := v.Validate(l)
		if result.Authentic {
			t.Errorf("Expected rejection for size %.0f sqm", size)
		}
	}
}

func TestValidate_UnrecognizedEnergyClass(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.EnergyClass = domain.EnergyClass("Z")

	result := v.Validate(l)
	if result.Authentic {
		t.Error("Expected rejection for unrecognized energy class")
	}
}

func TestValidate_MissingEnergyClassAllowed(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.EnergyClass = domain.EnergyUnknown

	result := v.Validate(l)
	if !result.Authentic {
		t.Errorf("Missing energy class should not reject: %v", result.RejectionReasons())
	}
}

func TestValidate_UnknownNeighborhoodIsSoft(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.Neighborhood = "Atlantis"

	result := v.Validate(l)

	if !result.Authentic {
		t.Errorf("Unknown neighborhood must be a soft warning, got rejection: %v", result.RejectionReasons())
	}
	if result.Confidence >= 100 {
		t.Errorf("Soft failure should reduce confidence, got %v", result.Confidence)
	}
	if len(result.RejectionReasons()) == 0 {
		t.Error("Soft failure should still be reported in reasons")
	}
}

func TestValidate_PriceRatioIsSoft(t *testing.T) {
	v := newTestValidator(t)

	// 40000 EUR at 1000 sqm is 40 €/sqm, far below the market band,
	// but both price and size are individually plausible.
	l := cleanListing()
	l.Price = 40000
	l.SizeSqm = 1000

	result := v.Validate(l)

	if !result.Authentic {
		t.Errorf("Odd price/sqm ratio must be a soft warning, got rejection: %v", result.RejectionReasons())
	}
	if result.Confidence >= 100 {
		t.Errorf("Soft failure should reduce confidence, got %v", result.Confidence)
	}
}

func TestValidate_AllChecksReported(t *testing.T) {
	v := newTestValidator(t)

	// Everything wrong at once: checks must not short-circuit.
	l := &domain.Listing{
		ListingID:    "listing-bad",
		URL:          "",
		Price:        1,
		SizeSqm:      1,
		EnergyClass:  domain.EnergyClass("Z"),
		Neighborhood: "Atlantis",
	}

	result := v.Validate(l)

	if result.Authentic {
		t.Fatal("Expected rejection")
	}
	if len(result.Checks) != 6 {
		t.Fatalf("Expected all 6 checks evaluated, got %d", len(result.Checks))
	}
	// URL, price, size, energy, neighborhood and ratio all fail.
	if len(result.RejectionReasons()) != 6 {
		t.Errorf("Expected 6 reasons, got %d: %v", len(result.RejectionReasons()), result.RejectionReasons())
	}
	if result.Confidence != 0 {
		t.Errorf("Expected confidence 0, got %v", result.Confidence)
	}
}

func TestValidate_ConfidenceWithinRange(t *testing.T) {
	v := newTestValidator(t)

	listings := []*domain.Listing{
		cleanListing(),
		{ListingID: "a", URL: "", Price: -5, SizeSqm: 0},
		{ListingID: "b", URL: "https://www.spitogatos.gr/property/2", Price: 1e9, SizeSqm: 50, Neighborhood: "Koukaki"},
	}

	for _, l := range listings {
		result := v.Validate(l)
		if result.Confidence < 0 || result.Confidence > 100 {
			t.Errorf("Confidence out of [0,100] for %s: %v", l.ListingID, result.Confidence)
		}
	}
}

func TestValidate_Deterministic(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	first := v.Validate(l)
	second := v.Validate(l)

	if first.Authentic != second.Authentic || first.Confidence != second.Confidence {
		t.Error("Validation must be deterministic for the same listing")
	}
}

func TestNewValidator_BadPattern(t *testing.T) {
	cfg := config.DefaultMarket()
	cfg.ListingURLPattern = "["

	if _, err := NewValidator(cfg, nil); err == nil {
		t.Error("Expected error for invalid URL pattern")
	}
}

func TestResult_Record(t *testing.T) {
	v := newTestValidator(t)

	l := cleanListing()
	l.Price = 50
	result := v.Validate(l)

	record := result.Record(1704067200000)
	if record.ListingID != l.ListingID {
		t.Errorf("ListingID mismatch: %s", record.ListingID)
	}
	if record.Authentic {
		t.Error("Record should carry the rejection")
	}
	if len(record.RejectionReasons) == 0 {
		t.Error("Record should carry rejection reasons")
	}
	if record.ValidatedAt != 1704067200000 {
		t.Errorf("ValidatedAt mismatch: %d", record.ValidatedAt)
	}
}
