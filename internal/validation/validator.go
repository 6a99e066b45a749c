package validation

import (
	"fmt"
	"log"
	"regexp"

	"athens-property-lab/internal/config"
	"athens-property-lab/internal/domain"
)

// Validator decides whether a listing represents a plausible, real
// property. It applies six independent checks; all are evaluated
// unconditionally so a result reports every failure at once.
type Validator struct {
	cfg           config.Market
	urlPattern    *regexp.Regexp
	neighborhoods map[string]bool
	logger        *log.Logger
}

// NewValidator creates a validator for the given market configuration.
func NewValidator(cfg config.Market, logger *log.Logger) (*Validator, error) {
	pattern, err := regexp.Compile(cfg.ListingURLPattern)
	if err != nil {
		return nil, fmt.Errorf("compile listing url pattern: %w", err)
	}
	if logger == nil {
		logger = log.Default()
	}
	return &Validator{
		cfg:           cfg,
		urlPattern:    pattern,
		neighborhoods: cfg.NeighborhoodSet(),
		logger:        logger,
	}, nil
}

// Validate evaluates all six checks against a listing. Deterministic:
// the same listing always yields the same result.
//
// The listing is authentic iff every hard check passes. Soft check
// failures (unknown neighborhood, odd €/sqm ratio) reduce confidence
// but never reject on their own.
func (v *Validator) Validate(l *domain.Listing) *Result {
	checks := []CheckResult{
		v.checkURL(l),
		v.checkPrice(l),
		v.checkSize(l),
		v.checkEnergy(l),
		v.checkNeighborhood(l),
		v.checkPriceRatio(l),
	}

	authentic := true
	for _, c := range checks {
		if c.Hard && !c.Pass {
			authentic = false
		}
	}

	confidence := 0.0
	weights := []float64{
		v.cfg.Weights.URL,
		v.cfg.Weights.Price,
		v.cfg.Weights.Size,
		v.cfg.Weights.Energy,
		v.cfg.Weights.Neighborhood,
		v.cfg.Weights.PriceRatio,
	}
	for i, c := range checks {
		if c.Pass {
			confidence += weights[i]
		}
	}
	if confidence > 100 {
		confidence = 100
	}
	if confidence < 0 {
		confidence = 0
	}

	result := &Result{
		ListingID:  l.ListingID,
		Authentic:  authentic,
		Confidence: confidence,
		Checks:     checks,
	}

	if authentic {
		v.logger.Printf("[validate] %s: authentic confidence=%.0f", l.ListingID, confidence)
	} else {
		v.logger.Printf("[validate] %s: rejected confidence=%.0f reasons=%v", l.ListingID, confidence, result.RejectionReasons())
	}

	return result
}

func (v *Validator) checkURL(l *domain.Listing) CheckResult {
	c := CheckResult{
		Name:      CheckURL,
		Threshold: v.cfg.ListingURLPattern,
		Actual:    l.URL,
		Hard:      true,
	}
	if l.URL == "" {
		c.Reason = "url is empty"
		return c
	}
	if !v.urlPattern.MatchString(l.URL) {
		c.Reason = fmt.Sprintf("url %q does not match the listing url shape", l.URL)
		return c
	}
	c.Pass = true
	return c
}

func (v *Validator) checkPrice(l *domain.Listing) CheckResult {
	c := CheckResult{
		Name:      CheckPrice,
		Threshold: fmt.Sprintf("[%.0f, %.0f]", v.cfg.MinPriceEUR, v.cfg.MaxPriceEUR),
		Actual:    fmt.Sprintf("%.0f", l.Price),
		Hard:      true,
	}
	if l.Price < v.cfg.MinPriceEUR || l.Price > v.cfg.MaxPriceEUR {
		c.Reason = fmt.Sprintf("price %.0f outside plausible bounds [%.0f, %.0f]",
			l.Price, v.cfg.MinPriceEUR, v.cfg.MaxPriceEUR)
		return c
	}
	c.Pass = true
	return c
}

func (v *Validator) checkSize(l *domain.Listing) CheckResult {
	c := CheckResult{
		Name:      CheckSize,
		Threshold: fmt.Sprintf("[%.0f, %.0f]", v.cfg.MinSizeSqm, v.cfg.MaxSizeSqm),
		Actual:    fmt.Sprintf("%.1f", l.SizeSqm),
		Hard:      true,
	}
	if l.SizeSqm < v.cfg.MinSizeSqm || l.SizeSqm > v.cfg.MaxSizeSqm {
		c.Reason = fmt.Sprintf("size %.1f sqm outside plausible bounds [%.0f, %.0f]",
			l.SizeSqm, v.cfg.MinSizeSqm, v.cfg.MaxSizeSqm)
		return c
	}
	c.Pass = true
	return c
}

func (v *Validator) checkEnergy(l *domain.Listing) CheckResult {
	c := CheckResult{
		Name:      CheckEnergy,
		Threshold: "recognized label or unset",
		Actual:    string(l.EnergyClass),
		Hard:      true,
	}
	if l.EnergyClass != domain.EnergyUnknown && !l.EnergyClass.Valid() {
		c.Reason = fmt.Sprintf("energy class %q is not a recognized label", l.EnergyClass)
		return c
	}
	c.Pass = true
	return c
}

func (v *Validator) checkNeighborhood(l *domain.Listing) CheckResult {
	c := CheckResult{
		Name:      CheckNeighborhood,
		Threshold: "allowlisted area",
		Actual:    l.Neighborhood,
	}
	if _, known := v.neighborhoods[l.Neighborhood]; !known {
		c.Reason = fmt.Sprintf("neighborhood %q not in the known-area allowlist", l.Neighborhood)
		return c
	}
	c.Pass = true
	return c
}

func (v *Validator) checkPriceRatio(l *domain.Listing) CheckResult {
	ratio := l.PricePerSqm()
	c := CheckResult{
		Name:      CheckPriceRatio,
		Threshold: fmt.Sprintf("[%.0f, %.0f] €/sqm", v.cfg.MinPricePerSqm, v.cfg.MaxPricePerSqm),
		Actual:    fmt.Sprintf("%.0f €/sqm", ratio),
	}
	if ratio < v.cfg.MinPricePerSqm || ratio > v.cfg.MaxPricePerSqm {
		c.Reason = fmt.Sprintf("price/size ratio %.0f €/sqm outside market band [%.0f, %.0f]",
			ratio, v.cfg.MinPricePerSqm, v.cfg.MaxPricePerSqm)
		return c
	}
	c.Pass = true
	return c
}
