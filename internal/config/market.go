package config

import (
	"fmt"
	"os"

	"gopkg.in/yaml.v3"

	"athens-property-lab/internal/domain"
)

// Neighborhood is one allowlisted area of the target city.
type Neighborhood struct {
	Name    string `yaml:"name"`
	Premium bool   `yaml:"premium"`
}

// CheckWeights are confidence points contributed by each passed
// authenticity check. They should sum to 100.
type CheckWeights struct {
	URL          float64 `yaml:"url"`
	Price        float64 `yaml:"price"`
	Size         float64 `yaml:"size"`
	Energy       float64 `yaml:"energy"`
	Neighborhood float64 `yaml:"neighborhood"`
	PriceRatio   float64 `yaml:"price_ratio"`
}

// ScoringWeights control the value-score components and the ROI band.
type ScoringWeights struct {
	// MaxDiscountPoints is awarded at a discount of DiscountFullScale (or
	// deeper) to the neighborhood average; negative discounts subtract
	// proportionally down to -MaxDiscountPoints.
	MaxDiscountPoints float64 `yaml:"max_discount_points"`
	DiscountFullScale float64 `yaml:"discount_full_scale"`

	// EnergyPoints maps certificate labels to points. Unknown class scores 0.
	EnergyPoints map[domain.EnergyClass]float64 `yaml:"energy_points"`

	// Size sweet spot: listings inside [SweetSpotMinSqm, SweetSpotMaxSqm]
	// earn SizePoints, all others earn nothing.
	SweetSpotMinSqm float64 `yaml:"sweet_spot_min_sqm"`
	SweetSpotMaxSqm float64 `yaml:"sweet_spot_max_sqm"`
	SizePoints      float64 `yaml:"size_points"`

	// PremiumLocationPoints is a flat bonus for premium neighborhoods.
	PremiumLocationPoints float64 `yaml:"premium_location_points"`

	// ROI estimate band, in percent.
	ROIMinPct float64 `yaml:"roi_min_pct"`
	ROIMaxPct float64 `yaml:"roi_max_pct"`
}

// CategoryThresholds are inclusive lower bounds on value score.
type CategoryThresholds struct {
	Exceptional   float64 `yaml:"exceptional"`
	HighPotential float64 `yaml:"high_potential"`
	Moderate      float64 `yaml:"moderate"`
}

// Market is the immutable configuration consumed by the validator and
// scorer. It is loaded once at startup and passed by value into
// constructors; nothing mutates it at runtime.
type Market struct {
	// Plausibility bounds for hard validation checks.
	MinPriceEUR float64 `yaml:"min_price_eur"`
	MaxPriceEUR float64 `yaml:"max_price_eur"`
	MinSizeSqm  float64 `yaml:"min_size_sqm"`
	MaxSizeSqm  float64 `yaml:"max_size_sqm"`

	// Market-wide €/sqm band for the price-per-area sanity check.
	MinPricePerSqm float64 `yaml:"min_price_per_sqm"`
	MaxPricePerSqm float64 `yaml:"max_price_per_sqm"`

	// ListingURLPattern is the expected listing-URL shape, as a Go regexp.
	ListingURLPattern string `yaml:"listing_url_pattern"`

	Neighborhoods []Neighborhood     `yaml:"neighborhoods"`
	Weights       CheckWeights       `yaml:"check_weights"`
	Scoring       ScoringWeights     `yaml:"scoring"`
	Categories    CategoryThresholds `yaml:"categories"`
}

// DefaultMarket returns the Athens-market defaults. All point values and
// thresholds are illustrative defaults, not fixed business rules; deployments
// override them via a YAML file.
func DefaultMarket() Market {
	return Market{
		MinPriceEUR: 30000,
		MaxPriceEUR: 20000000,
		MinSizeSqm:  15,
		MaxSizeSqm:  1000,

		MinPricePerSqm: 300,
		MaxPricePerSqm: 25000,

		ListingURLPattern: `^https://([a-z0-9-]+\.)*spitogatos\.gr/.+`,

		Neighborhoods: []Neighborhood{
			{Name: "Kolonaki", Premium: true},
			{Name: "Plaka", Premium: true},
			{Name: "Glyfada", Premium: true},
			{Name: "Kifisia", Premium: true},
			{Name: "Voula", Premium: true},
			{Name: "Exarchia"},
			{Name: "Koukaki"},
			{Name: "Pangrati"},
			{Name: "Kypseli"},
			{Name: "Ampelokipoi"},
			{Name: "Petralona"},
			{Name: "Nea Smyrni"},
			{Name: "Zografou"},
			{Name: "Ilisia"},
			{Name: "Patisia"},
		},

		Weights: CheckWeights{
			URL:          20,
			Price:        20,
			Size:         20,
			Energy:       15,
			Neighborhood: 10,
			PriceRatio:   15,
		},

		Scoring: ScoringWeights{
			MaxDiscountPoints: 30,
			DiscountFullScale: 0.15,
			EnergyPoints: map[domain.EnergyClass]float64{
				domain.EnergyAPlus: 25,
				domain.EnergyA:     22,
				domain.EnergyBPlus: 19,
				domain.EnergyB:     17,
				domain.EnergyCPlus: 14,
				domain.EnergyC:     12,
				domain.EnergyD:     10,
				domain.EnergyE:     7,
				domain.EnergyF:     4,
				domain.EnergyG:     0,
			},
			SweetSpotMinSqm:       50,
			SweetSpotMaxSqm:       150,
			SizePoints:            25,
			PremiumLocationPoints: 20,
			ROIMinPct:             8,
			ROIMaxPct:             40,
		},

		Categories: CategoryThresholds{
			Exceptional:   80,
			HighPotential: 60,
			Moderate:      40,
		},
	}
}

// LoadMarket reads a YAML market configuration from path, layered over the
// defaults. A missing path ("" or nonexistent file) returns the defaults.
func LoadMarket(path string) (Market, error) {
	m := DefaultMarket()
	if path == "" {
		return m, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return m, nil
		}
		return m, fmt.Errorf("read market config: %w", err)
	}

	if err := yaml.Unmarshal(data, &m); err != nil {
		return m, fmt.Errorf("parse market config: %w", err)
	}

	if err := m.validate(); err != nil {
		return m, fmt.Errorf("invalid market config: %w", err)
	}
	return m, nil
}

func (m Market) validate() error {
	if m.MinPriceEUR <= 0 || m.MaxPriceEUR <= m.MinPriceEUR {
		return fmt.Errorf("price bounds must satisfy 0 < min < max, got [%v, %v]", m.MinPriceEUR, m.MaxPriceEUR)
	}
	if m.MinSizeSqm <= 0 || m.MaxSizeSqm <= m.MinSizeSqm {
		return fmt.Errorf("size bounds must satisfy 0 < min < max, got [%v, %v]", m.MinSizeSqm, m.MaxSizeSqm)
	}
	if m.MinPricePerSqm <= 0 || m.MaxPricePerSqm <= m.MinPricePerSqm {
		return fmt.Errorf("price/sqm band must satisfy 0 < min < max, got [%v, %v]", m.MinPricePerSqm, m.MaxPricePerSqm)
	}
	if m.ListingURLPattern == "" {
		return fmt.Errorf("listing_url_pattern must not be empty")
	}
	if len(m.Neighborhoods) == 0 {
		return fmt.Errorf("at least one neighborhood must be allowlisted")
	}
	if m.Scoring.DiscountFullScale <= 0 {
		return fmt.Errorf("discount_full_scale must be positive, got %v", m.Scoring.DiscountFullScale)
	}
	if m.Scoring.ROIMaxPct < m.Scoring.ROIMinPct {
		return fmt.Errorf("roi band must satisfy min <= max, got [%v, %v]", m.Scoring.ROIMinPct, m.Scoring.ROIMaxPct)
	}
	return nil
}

// NeighborhoodSet indexes the allowlist for lookup. Premium membership is
// the value; presence in the map means allowlisted.
func (m Market) NeighborhoodSet() map[string]bool {
	set := make(map[string]bool, len(m.Neighborhoods))
	for _, n := range m.Neighborhoods {
		set[n.Name] = n.Premium
	}
	return set
}
