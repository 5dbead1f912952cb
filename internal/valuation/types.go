package valuation

// Condition is the coarse renovation state of a property. Values match the
// keys the Spanish-language frontend submits.
type Condition string

const (
	ConditionToReform  Condition = "reformar"
	ConditionAverage   Condition = "normal"
	ConditionRenovated Condition = "reformado"
	ConditionNewBuild  Condition = "obra_nueva"
)

// PropertyAttributes is the structured input of the estimator. It doubles as
// the request body for the estimate endpoint.
type PropertyAttributes struct {
	Zone             string    `json:"zone" binding:"required,max=40"`
	AreaM2           float64   `json:"areaM2" binding:"required"`
	Bedrooms         int       `json:"bedrooms" binding:"min=0,max=10"`
	Bathrooms        int       `json:"bathrooms" binding:"min=0,max=6"`
	Condition        Condition `json:"condition" binding:"omitempty,oneof=reformar normal reformado obra_nueva"`
	Elevator         bool      `json:"elevator"`
	Exterior         bool      `json:"exterior"`
	Terrace          bool      `json:"terrace"`
	Garage           bool      `json:"garage"`
	// ManualPricePerM2 applies only to the manual zone, where the visitor
	// supplies their own price-per-m² reference.
	ManualPricePerM2 float64   `json:"manualPricePerM2,omitempty"`
}

// Adjustment describes a bounded linear correction for a room count that
// deviates from a reference count.
type Adjustment struct {
	Reference int     `json:"reference"`
	Step      float64 `json:"step"`
	Cap       float64 `json:"cap"`
}

// RangePolicy turns the central estimate into a price band.
type RangePolicy struct {
	Low  float64 `json:"low"`
	High float64 `json:"high"`
}

// PricingConfig holds every constant the estimator consumes. It is either
// the embedded default table or a remote snapshot merged over it.
type PricingConfig struct {
	ZonePrices       map[string]float64    `json:"zonePrices"`
	DefaultZone      string                `json:"defaultZone"`
	ManualZone       string                `json:"manualZone"`
	MinPricePerM2    float64               `json:"minPricePerM2"`
	MinAreaM2        float64               `json:"minAreaM2"`
	MaxAreaM2        float64               `json:"maxAreaM2"`
	ConditionFactors map[Condition]float64 `json:"conditionFactors"`
	Bedrooms         Adjustment            `json:"bedrooms"`
	Bathrooms        Adjustment            `json:"bathrooms"`
	AmenityFactors   map[string]float64    `json:"amenityFactors"`
	Range            RangePolicy           `json:"range"`
}

// Amenity keys in PricingConfig.AmenityFactors.
const (
	AmenityElevator = "elevator"
	AmenityExterior = "exterior"
	AmenityTerrace  = "terrace"
	AmenityGarage   = "garage"
)

// Estimate is the computed price band in whole euros.
type Estimate struct {
	MinPrice int64 `json:"minPrice"`
	MidPrice int64 `json:"midPrice"`
	MaxPrice int64 `json:"maxPrice"`
}

// ConfigSource reports which configuration produced an estimate, so the
// frontend can disclose when the remote table was unreachable.
type ConfigSource string

const (
	SourceRemote   ConfigSource = "remote"
	SourceFallback ConfigSource = "fallback"
)

// ConfigResponse is the payload of the config endpoint.
type ConfigResponse struct {
	Config PricingConfig `json:"config"`
	Source ConfigSource  `json:"source"`
}

// EstimateResponse is the payload of the estimate endpoint.
type EstimateResponse struct {
	Estimate     Estimate     `json:"estimate"`
	ConfigSource ConfigSource `json:"configSource"`
}
