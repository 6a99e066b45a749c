package ingestion

import (
	"fmt"
	"log"
	"regexp"
	"strconv"
	"strings"
	"unicode"

	"athens-property-lab/internal/domain"
	"athens-property-lab/internal/idhash"
)

// Drop reasons, used as stat keys and in logs.
const (
	DropUnparsablePrice  = "unparsable-price"
	DropUnparsableSize   = "unparsable-size"
	DropDuplicateInBatch = "duplicate-in-batch"
)

// numberRegexp captures a numeric value with optional separators.
var numberRegexp = regexp.MustCompile(`\d+(?:[.,]\d+)*`)

// greekEnergyReplacer maps Greek capital homoglyphs on scraped
// certificates to their Latin equivalents.
var greekEnergyReplacer = strings.NewReplacer("Α", "A", "Β", "B", "Ε", "E", "Ζ", "Z")

// DropStats counts records removed during normalization.
type DropStats struct {
	Total    int
	ByReason map[string]int
}

// NewDropStats creates empty drop stats.
func NewDropStats() *DropStats {
	return &DropStats{ByReason: make(map[string]int)}
}

func (s *DropStats) record(reason string) {
	s.Total++
	s.ByReason[reason]++
}

// Normalizer converts raw, loosely-typed listings into typed Listings.
// A record missing a mandatory field is dropped and counted, never
// escalated: normalization always yields a best-effort partial set.
type Normalizer struct {
	logger *log.Logger
}

// NewNormalizer creates a Normalizer with the given logger.
func NewNormalizer(logger *log.Logger) *Normalizer {
	if logger == nil {
		logger = log.Default()
	}
	return &Normalizer{logger: logger}
}

// NormalizeAll processes raw listings in input order, deduplicating by
// URL within the batch.
func (n *Normalizer) NormalizeAll(raws []*domain.RawListing) ([]*domain.Listing, *DropStats) {
	stats := NewDropStats()
	seen := make(map[string]struct{})
	result := make([]*domain.Listing, 0, len(raws))

	for _, raw := range raws {
		l, reason := n.normalize(raw)
		if reason != "" {
			stats.record(reason)
			n.logger.Printf("[normalize] dropping record url=%q: %s", raw.URL, reason)
			continue
		}
		if l.URL != "" {
			if _, dup := seen[l.URL]; dup {
				stats.record(DropDuplicateInBatch)
				n.logger.Printf("[normalize] duplicate url skipped: %s", l.URL)
				continue
			}
			seen[l.URL] = struct{}{}
		}
		result = append(result, l)
	}

	n.logger.Printf("[normalize] %d -> %d listings (dropped %d)", len(raws), len(result), stats.Total)
	return result, stats
}

// normalize converts one raw record. Only price and size are mandatory
// here; a missing or malformed URL passes through so the authenticity
// checks can reject it with a reason instead of it vanishing silently.
func (n *Normalizer) normalize(raw *domain.RawListing) (*domain.Listing, string) {
	url := strings.TrimSpace(raw.URL)

	price, err := parseAmount(raw.Price)
	if err != nil || price <= 0 {
		return nil, DropUnparsablePrice
	}

	size, err := parseAmount(raw.Size)
	if err != nil || size <= 0 {
		return nil, DropUnparsableSize
	}

	return &domain.Listing{
		ListingID:    idhash.ComputeListingID(url, raw.Source),
		URL:          url,
		Price:        price,
		SizeSqm:      size,
		EnergyClass:  normalizeEnergyClass(raw.EnergyClass),
		Neighborhood: normalizeText(raw.Neighborhood),
		Rooms:        parseOptionalInt(raw.Rooms),
		Floor:        parseOptionalInt(raw.Floor),
		Source:       raw.Source,
		CollectedAt:  raw.CollectedAt,
	}, ""
}

// parseAmount extracts a numeric value from a display string such as
// "€95,000", "95.000 €" or "91 τ.μ.". Separator interpretation follows
// the usual convention: a trailing group of one or two digits after the
// last separator is a decimal fraction, everything else is grouping.
func parseAmount(raw string) (float64, error) {
	match := numberRegexp.FindString(raw)
	if match == "" {
		return 0, fmt.Errorf("no numeric value in %q", raw)
	}

	lastSep := strings.LastIndexAny(match, ".,")
	if lastSep == -1 {
		return strconv.ParseFloat(match, 64)
	}

	intPart := match[:lastSep]
	fracPart := match[lastSep+1:]

	// Three-digit groups after the final separator are thousands
	// ("95.000"), shorter tails are decimals ("1200,50").
	decimal := len(fracPart) <= 2

	cleaned := strings.Map(func(r rune) rune {
		if r == '.' || r == ',' {
			return -1
		}
		return r
	}, intPart)

	if decimal {
		return strconv.ParseFloat(cleaned+"."+fracPart, 64)
	}
	return strconv.ParseFloat(cleaned+fracPart, 64)
}

// parseOptionalInt parses optional integer fields (rooms, floor).
// Unparsable values become nil rather than a drop: these fields are
// not mandatory.
func parseOptionalInt(raw string) *int {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil
	}
	// Tolerate decorated values like "3 rooms" or "2ος".
	digits := strings.TrimFunc(raw, func(r rune) bool {
		return !unicode.IsDigit(r) && r != '-'
	})
	v, err := strconv.Atoi(digits)
	if err != nil {
		return nil
	}
	return &v
}

// normalizeEnergyClass uppercases, strips whitespace and maps Greek
// capital letters. Unrecognized labels are preserved as-is so the
// validator can reject them explicitly.
func normalizeEnergyClass(raw string) domain.EnergyClass {
	s := strings.ToUpper(strings.TrimSpace(raw))
	s = greekEnergyReplacer.Replace(s)
	return domain.EnergyClass(s)
}

// normalizeText strips leading/trailing whitespace and collapses
// internal whitespace.
func normalizeText(s string) string {
	return strings.Join(strings.Fields(s), " ")
}
