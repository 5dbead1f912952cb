package valuation

import (
	"errors"
	"math"
)

// ErrCannotCompute signals that the inputs cannot produce a meaningful
// estimate. It is distinct from a valid zero-priced result: the caller must
// never show a zero-based range for a broken area.
var ErrCannotCompute = errors.New("cannot compute a valuation: area must be a positive number")

// CalculateEstimate turns property attributes and a pricing configuration
// into a price band. Pure and deterministic: identical inputs always yield
// identical output.
func CalculateEstimate(attrs PropertyAttributes, cfg PricingConfig) (Estimate, error) {
	if math.IsNaN(attrs.AreaM2) || math.IsInf(attrs.AreaM2, 0) || attrs.AreaM2 <= 0 {
		return Estimate{}, ErrCannotCompute
	}

	// The linear model is calibrated for ordinary flats; areas outside the
	// supported domain are clamped to the nearest boundary instead of
	// extrapolating.
	area := clamp(attrs.AreaM2, cfg.MinAreaM2, cfg.MaxAreaM2)

	base := resolveBasePrice(attrs, cfg)
	multiplier := computeMultiplier(attrs, cfg)

	central := area * base * multiplier

	minPrice := int64(math.Round(central * cfg.Range.Low))
	midPrice := int64(math.Round(central))
	maxPrice := int64(math.Round(central * cfg.Range.High))

	return Estimate{MinPrice: minPrice, MidPrice: midPrice, MaxPrice: maxPrice}, nil
}

// resolveBasePrice terminates in a single positive €/m²: the zone table,
// then the visitor-supplied manual price for the manual zone, then the
// default zone, with the configured floor applied last.
func resolveBasePrice(attrs PropertyAttributes, cfg PricingConfig) float64 {
	price, ok := cfg.ZonePrices[attrs.Zone]
	if attrs.Zone == cfg.ManualZone && attrs.ManualPricePerM2 > 0 {
		price = attrs.ManualPricePerM2
		ok = true
	}
	if !ok || price <= 0 {
		price = cfg.ZonePrices[cfg.DefaultZone]
	}
	if price < cfg.MinPricePerM2 {
		price = cfg.MinPricePerM2
	}
	return price
}

// computeMultiplier starts at 1.0 and applies the condition factor, the
// capped room-count corrections, and one factor per present amenity.
// A key missing from the configuration contributes 1.0, never an error.
func computeMultiplier(attrs PropertyAttributes, cfg PricingConfig) float64 {
	multiplier := 1.0

	if factor, ok := cfg.ConditionFactors[attrs.Condition]; ok && factor > 0 {
		multiplier *= factor
	}

	multiplier *= 1 + countAdjustment(attrs.Bedrooms, cfg.Bedrooms)
	multiplier *= 1 + countAdjustment(attrs.Bathrooms, cfg.Bathrooms)

	// Fixed application order keeps the float result reproducible.
	amenities := []struct {
		key     string
		present bool
	}{
		{AmenityElevator, attrs.Elevator},
		{AmenityExterior, attrs.Exterior},
		{AmenityTerrace, attrs.Terrace},
		{AmenityGarage, attrs.Garage},
	}
	for _, amenity := range amenities {
		if !amenity.present {
			continue
		}
		if factor, ok := cfg.AmenityFactors[amenity.key]; ok && factor > 0 {
			multiplier *= factor
		}
	}

	return multiplier
}

// countAdjustment returns the bounded correction for a count deviating from
// its reference, so outlier inputs cannot dominate the estimate.
func countAdjustment(count int, adj Adjustment) float64 {
	return clamp(float64(count-adj.Reference)*adj.Step, -adj.Cap, adj.Cap)
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}
