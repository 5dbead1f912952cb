package geocode

import (
	"fmt"
	"strconv"
	"strings"
)

// LookupRequest represents the query parameters from the frontend.
// lat/lon optionally carry an approximate caller location used to bias
// the ranking toward nearby results.
type LookupRequest struct {
	Query string   `form:"q"`
	Lat   *float64 `form:"lat"`
	Lon   *float64 `form:"lon"`
}

// LookupResponse wraps the candidate list so the payload shape can grow
// without breaking the frontend.
type LookupResponse struct {
	Results []AddressCandidate `json:"results"`
}

// AddressComponents holds the structured address fields of a candidate.
type AddressComponents struct {
	Road         string `json:"road,omitempty"`
	HouseNumber  string `json:"house_number,omitempty"`
	City         string `json:"city,omitempty"`
	Town         string `json:"town,omitempty"`
	Village      string `json:"village,omitempty"`
	Municipality string `json:"municipality,omitempty"`
	Suburb       string `json:"suburb,omitempty"`
	State        string `json:"state,omitempty"`
	Postcode     string `json:"postcode,omitempty"`
	Country      string `json:"country,omitempty"`
	CountryCode  string `json:"country_code,omitempty"`
}

// Locality resolves the city through the town/village/municipality alias chain.
func (a AddressComponents) Locality() string {
	if a.City != "" {
		return a.City
	}
	if a.Town != "" {
		return a.Town
	}
	if a.Village != "" {
		return a.Village
	}
	if a.Municipality != "" {
		return a.Municipality
	}
	return a.Suburb
}

// AddressCandidate is one normalized geocoding result returned to the frontend.
type AddressCandidate struct {
	PlaceID     int64             `json:"place_id"`
	DisplayName string            `json:"display_name"`
	Lat         float64           `json:"lat"`
	Lon         float64           `json:"lon"`
	Address     AddressComponents `json:"address"`
	Type        string            `json:"type"`
}

// nominatimResult mirrors the relevant parts of the OSM search payload.
// Coordinates arrive as strings and are parsed before use.
type nominatimResult struct {
	PlaceID     int64             `json:"place_id"`
	DisplayName string            `json:"display_name"`
	Lat         string            `json:"lat"`
	Lon         string            `json:"lon"`
	Address     AddressComponents `json:"address"`
	Type        string            `json:"type"`
}

// BiasPolicy is a bounding box used to rank (or, when strict, filter)
// candidates. Coordinates are decimal degrees.
type BiasPolicy struct {
	West   float64
	North  float64
	East   float64
	South  float64
	Strict bool
}

// Contains reports whether the coordinate falls inside the box.
func (b BiasPolicy) Contains(lat, lon float64) bool {
	return lon >= b.West && lon <= b.East && lat >= b.South && lat <= b.North
}

// Viewbox renders the box in the provider's west,north,east,south format.
func (b BiasPolicy) Viewbox() string {
	return fmt.Sprintf("%.2f,%.2f,%.2f,%.2f", b.West, b.North, b.East, b.South)
}

// ParseViewbox parses a "west,north,east,south" string into a BiasPolicy.
func ParseViewbox(value string, strict bool) (BiasPolicy, error) {
	parts := strings.Split(value, ",")
	if len(parts) != 4 {
		return BiasPolicy{}, fmt.Errorf("viewbox must have 4 comma-separated values, got %q", value)
	}

	coords := make([]float64, 4)
	for i, part := range parts {
		f, err := strconv.ParseFloat(strings.TrimSpace(part), 64)
		if err != nil {
			return BiasPolicy{}, fmt.Errorf("viewbox component %d: %w", i, err)
		}
		coords[i] = f
	}

	return BiasPolicy{West: coords[0], North: coords[1], East: coords[2], South: coords[3], Strict: strict}, nil
}

// BiasAround builds a box centered on a caller-supplied coordinate,
// expanded by a fixed margin in degrees.
func BiasAround(lat, lon, margin float64, strict bool) BiasPolicy {
	return BiasPolicy{
		West:   lon - margin,
		North:  lat + margin,
		East:   lon + margin,
		South:  lat - margin,
		Strict: strict,
	}
}
