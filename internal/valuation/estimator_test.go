package valuation

import (
	"math"
	"testing"
)

func baseAttrs() PropertyAttributes {
	return PropertyAttributes{
		Zone:      "alcorcon",
		AreaM2:    80,
		Bedrooms:  3,
		Bathrooms: 1,
		Condition: ConditionAverage,
	}
}

func TestCalculateEstimate_AverageFlatNoAmenities(t *testing.T) {
	estimate, err := CalculateEstimate(baseAttrs(), DefaultPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 80 m2 x 2600 eur/m2, multiplier 1.0
	if estimate.MidPrice != 208000 {
		t.Fatalf("expected central 208000, got %d", estimate.MidPrice)
	}
	if estimate.MinPrice != 193440 {
		t.Fatalf("expected min 193440, got %d", estimate.MinPrice)
	}
	if estimate.MaxPrice != 222560 {
		t.Fatalf("expected max 222560, got %d", estimate.MaxPrice)
	}
}

func TestCalculateEstimate_RenovatedWithGarage(t *testing.T) {
	attrs := baseAttrs()
	attrs.Condition = ConditionRenovated
	attrs.Garage = true

	estimate, err := CalculateEstimate(attrs, DefaultPricingConfig())
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// multiplier 1.08 x 1.03 = 1.1124 -> 80 x 2600 x 1.1124 = 231379.2
	if estimate.MidPrice != 231379 {
		t.Fatalf("expected central 231379, got %d", estimate.MidPrice)
	}
}

func TestCalculateEstimate_InvalidArea(t *testing.T) {
	for _, area := range []float64{0, -50, math.NaN(), math.Inf(1)} {
		attrs := baseAttrs()
		attrs.AreaM2 = area

		if _, err := CalculateEstimate(attrs, DefaultPricingConfig()); err != ErrCannotCompute {
			t.Fatalf("area %v: expected ErrCannotCompute, got %v", area, err)
		}
	}
}

func TestCalculateEstimate_ClampsToBoundaryResult(t *testing.T) {
	cfg := DefaultPricingConfig()

	oversized := baseAttrs()
	oversized.AreaM2 = 1200
	atBoundary := baseAttrs()
	atBoundary.AreaM2 = cfg.MaxAreaM2

	got, err := CalculateEstimate(oversized, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := CalculateEstimate(atBoundary, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("oversized area should equal boundary result: got %+v, want %+v", got, want)
	}

	tiny := baseAttrs()
	tiny.AreaM2 = 5
	atMin := baseAttrs()
	atMin.AreaM2 = cfg.MinAreaM2

	got, err = CalculateEstimate(tiny, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err = CalculateEstimate(atMin, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("tiny area should equal boundary result: got %+v, want %+v", got, want)
	}
}

func TestCalculateEstimate_OrderingInvariant(t *testing.T) {
	cfg := DefaultPricingConfig()

	cases := []PropertyAttributes{
		baseAttrs(),
		{Zone: "getafe", AreaM2: 400, Bedrooms: 10, Bathrooms: 6, Condition: ConditionNewBuild, Elevator: true, Exterior: true, Terrace: true, Garage: true},
		{Zone: "fuenlabrada", AreaM2: 20, Bedrooms: 0, Bathrooms: 0, Condition: ConditionToReform},
		{Zone: "unknown-zone", AreaM2: 95, Bedrooms: 2, Bathrooms: 2, Condition: ConditionRenovated},
		{Zone: "otro", AreaM2: 120, Bedrooms: 4, Bathrooms: 2, ManualPricePerM2: 1800},
	}

	for _, attrs := range cases {
		estimate, err := CalculateEstimate(attrs, cfg)
		if err != nil {
			t.Fatalf("zone %q: unexpected error: %v", attrs.Zone, err)
		}
		if estimate.MinPrice < 0 || estimate.MidPrice < 0 || estimate.MaxPrice < 0 {
			t.Fatalf("zone %q: negative price in %+v", attrs.Zone, estimate)
		}
		if estimate.MinPrice > estimate.MidPrice || estimate.MidPrice > estimate.MaxPrice {
			t.Fatalf("zone %q: ordering violated in %+v", attrs.Zone, estimate)
		}
	}
}

func TestCalculateEstimate_Deterministic(t *testing.T) {
	attrs := PropertyAttributes{
		Zone: "leganes", AreaM2: 77.5, Bedrooms: 2, Bathrooms: 2,
		Condition: ConditionRenovated, Elevator: true, Terrace: true,
	}
	cfg := DefaultPricingConfig()

	first, err := CalculateEstimate(attrs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	for i := 0; i < 50; i++ {
		again, err := CalculateEstimate(attrs, cfg)
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if again != first {
			t.Fatalf("run %d differs: %+v vs %+v", i, again, first)
		}
	}
}

func TestCalculateEstimate_UnknownZoneFallsBackToDefault(t *testing.T) {
	cfg := DefaultPricingConfig()

	unknown := baseAttrs()
	unknown.Zone = "villaverde"
	viaDefault := baseAttrs()
	viaDefault.Zone = cfg.DefaultZone

	got, err := CalculateEstimate(unknown, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	want, err := CalculateEstimate(viaDefault, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if got != want {
		t.Fatalf("unknown zone should price as default zone: got %+v, want %+v", got, want)
	}
}

func TestCalculateEstimate_ManualZonePriceFloor(t *testing.T) {
	cfg := DefaultPricingConfig()

	attrs := baseAttrs()
	attrs.Zone = cfg.ManualZone
	attrs.ManualPricePerM2 = 100 // below the 500 floor

	estimate, err := CalculateEstimate(attrs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	// 80 m2 x 500 floor
	if estimate.MidPrice != 40000 {
		t.Fatalf("expected floor-priced central 40000, got %d", estimate.MidPrice)
	}
}

func TestCalculateEstimate_MissingFactorKeysDefaultToOne(t *testing.T) {
	cfg := DefaultPricingConfig()
	cfg.ConditionFactors = map[Condition]float64{}
	cfg.AmenityFactors = map[string]float64{}

	attrs := baseAttrs()
	attrs.Condition = ConditionRenovated
	attrs.Elevator = true
	attrs.Garage = true

	estimate, err := CalculateEstimate(attrs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if estimate.MidPrice != 208000 {
		t.Fatalf("missing factors should contribute 1.0, got central %d", estimate.MidPrice)
	}
}

func TestCalculateEstimate_RoomAdjustmentsAreCapped(t *testing.T) {
	cfg := DefaultPricingConfig()

	attrs := baseAttrs()
	attrs.Bedrooms = 10 // deviation 7 x 0.01 would be 0.07, capped at 0.03
	attrs.Bathrooms = 6 // deviation 5 x 0.015 capped at 0.03

	estimate, err := CalculateEstimate(attrs, cfg)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	// 80 x 2600 x 1.03 x 1.03 = 220667.2
	if estimate.MidPrice != 220667 {
		t.Fatalf("expected capped central 220663, got %d", estimate.MidPrice)
	}
}
