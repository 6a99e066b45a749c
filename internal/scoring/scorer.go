package scoring

import (
	"athens-property-lab/internal/config"
	"athens-property-lab/internal/domain"
)

// Scorer computes value scores and ROI estimates for authenticated
// listings. It is a pure function of the listing, the batch aggregates
// and the immutable market configuration.
type Scorer struct {
	cfg       config.Market
	premium   map[string]bool
	maxEnergy float64
}

// NewScorer creates a scorer for the given market configuration.
func NewScorer(cfg config.Market) *Scorer {
	premium := make(map[string]bool)
	for _, n := range cfg.Neighborhoods {
		if n.Premium {
			premium[n.Name] = true
		}
	}

	maxEnergy := 0.0
	for _, pts := range cfg.Scoring.EnergyPoints {
		if pts > maxEnergy {
			maxEnergy = pts
		}
	}

	return &Scorer{cfg: cfg, premium: premium, maxEnergy: maxEnergy}
}

// Score computes the opportunity for one authenticated listing.
func (s *Scorer) Score(l *domain.Listing, agg *Aggregates, scoredAt int64) *domain.Opportunity {
	discountPts := s.discountPoints(l, agg)
	energyPts := s.cfg.Scoring.EnergyPoints[l.EnergyClass]
	sizePts := s.sizePoints(l)
	locationPts := s.locationPoints(l)

	value := discountPts + energyPts + sizePts + locationPts
	if value > 100 {
		value = 100
	}
	if value < 0 {
		value = 0
	}

	return &domain.Opportunity{
		ListingID:      l.ListingID,
		ValueScore:     value,
		ROIEstimate:    s.roiEstimate(discountPts, energyPts),
		Category:       s.category(value),
		ScoredAt:       scoredAt,
		DiscountPoints: discountPts,
		EnergyPoints:   energyPts,
		SizePoints:     sizePts,
		LocationPoints: locationPts,
	}
}

// discountPoints converts the price gap to the neighborhood baseline
// into points. A listing at DiscountFullScale below the average earns
// the full MaxDiscountPoints; one priced above the average loses
// points symmetrically. A listing with no comparables gets a neutral 0.
func (s *Scorer) discountPoints(l *domain.Listing, agg *Aggregates) float64 {
	baseline, ok := agg.Baseline(l)
	if !ok || baseline <= 0 {
		return 0
	}

	discount := (baseline - l.PricePerSqm()) / baseline
	if discount > 1 {
		discount = 1
	}
	if discount < -1 {
		discount = -1
	}

	scaled := discount / s.cfg.Scoring.DiscountFullScale
	if scaled > 1 {
		scaled = 1
	}
	if scaled < -1 {
		scaled = -1
	}

	return scaled * s.cfg.Scoring.MaxDiscountPoints
}

func (s *Scorer) sizePoints(l *domain.Listing) float64 {
	if l.SizeSqm >= s.cfg.Scoring.SweetSpotMinSqm && l.SizeSqm <= s.cfg.Scoring.SweetSpotMaxSqm {
		return s.cfg.Scoring.SizePoints
	}
	return 0
}

func (s *Scorer) locationPoints(l *domain.Listing) float64 {
	if s.premium[l.Neighborhood] {
		return s.cfg.Scoring.PremiumLocationPoints
	}
	return 0
}

// roiEstimate maps the discount and energy signals into the configured
// ROI band. The estimate is a heuristic projection, not a modeled
// forecast; it exists to rank and bucket, not to predict.
func (s *Scorer) roiEstimate(discountPts, energyPts float64) float64 {
	signalMax := s.cfg.Scoring.MaxDiscountPoints + s.maxEnergy
	if signalMax <= 0 {
		return s.cfg.Scoring.ROIMinPct
	}

	if discountPts < 0 {
		discountPts = 0
	}
	signal := (discountPts + energyPts) / signalMax
	if signal > 1 {
		signal = 1
	}

	return s.cfg.Scoring.ROIMinPct + signal*(s.cfg.Scoring.ROIMaxPct-s.cfg.Scoring.ROIMinPct)
}

func (s *Scorer) category(value float64) domain.Category {
	switch {
	case value >= s.cfg.Categories.Exceptional:
		return domain.CategoryExceptional
	case value >= s.cfg.Categories.HighPotential:
		return domain.CategoryHighPotential
	case value >= s.cfg.Categories.Moderate:
		return domain.CategoryModerate
	default:
		return domain.CategoryConservative
	}
}
