package valuation

// DefaultPricingConfig returns the embedded pricing table used whenever the
// remote configuration endpoint is absent, slow, or broken. Figures are the
// agency's reference €/m² per zone in the south Madrid metro area.
func DefaultPricingConfig() PricingConfig {
	return PricingConfig{
		ZonePrices: map[string]float64{
			"alcorcon":    2600,
			"mostoles":    2500,
			"leganes":     2700,
			"getafe":      2900,
			"fuenlabrada": 2400,
			"sur":         2600,
			"otro":        2600,
		},
		DefaultZone:   "sur",
		ManualZone:    "otro",
		MinPricePerM2: 500,
		MinAreaM2:     20,
		MaxAreaM2:     400,
		ConditionFactors: map[Condition]float64{
			ConditionToReform:  0.88,
			ConditionAverage:   1.0,
			ConditionRenovated: 1.08,
			ConditionNewBuild:  1.12,
		},
		Bedrooms:  Adjustment{Reference: 3, Step: 0.01, Cap: 0.03},
		Bathrooms: Adjustment{Reference: 1, Step: 0.015, Cap: 0.03},
		AmenityFactors: map[string]float64{
			AmenityElevator: 1.02,
			AmenityExterior: 1.02,
			AmenityTerrace:  1.015,
			AmenityGarage:   1.03,
		},
		Range: RangePolicy{Low: 0.93, High: 1.07},
	}
}

// MergeConfig overlays a remote configuration over the defaults,
// field by field, so a partial remote payload still yields a complete
// table. Nonsense values (non-positive prices, an inverted range) are
// rejected in favor of the default for that field.
func MergeConfig(remote PricingConfig) PricingConfig {
	merged := DefaultPricingConfig()

	if len(remote.ZonePrices) > 0 {
		for zone, price := range remote.ZonePrices {
			if price > 0 {
				merged.ZonePrices[zone] = price
			}
		}
	}
	if remote.DefaultZone != "" {
		if _, ok := merged.ZonePrices[remote.DefaultZone]; ok {
			merged.DefaultZone = remote.DefaultZone
		}
	}
	if remote.ManualZone != "" {
		merged.ManualZone = remote.ManualZone
	}
	if remote.MinPricePerM2 > 0 {
		merged.MinPricePerM2 = remote.MinPricePerM2
	}
	if remote.MinAreaM2 > 0 && remote.MaxAreaM2 > remote.MinAreaM2 {
		merged.MinAreaM2 = remote.MinAreaM2
		merged.MaxAreaM2 = remote.MaxAreaM2
	}
	if len(remote.ConditionFactors) > 0 {
		for condition, factor := range remote.ConditionFactors {
			if factor > 0 {
				merged.ConditionFactors[condition] = factor
			}
		}
	}
	if remote.Bedrooms.Step > 0 && remote.Bedrooms.Cap > 0 {
		merged.Bedrooms = remote.Bedrooms
	}
	if remote.Bathrooms.Step > 0 && remote.Bathrooms.Cap > 0 {
		merged.Bathrooms = remote.Bathrooms
	}
	if len(remote.AmenityFactors) > 0 {
		for amenity, factor := range remote.AmenityFactors {
			if factor > 0 {
				merged.AmenityFactors[amenity] = factor
			}
		}
	}
	if remote.Range.Low > 0 && remote.Range.Low <= 1 && remote.Range.High >= 1 {
		merged.Range = remote.Range
	}

	return merged
}
