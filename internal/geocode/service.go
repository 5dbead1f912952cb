package geocode

import (
	"context"
	"encoding/json"
	"fmt"
	"math"
	"net/http"
	"net/url"
	"sort"
	"strconv"
	"strings"
	"time"
	"unicode/utf8"

	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"

	"golang.org/x/time/rate"
)

// nearBiasMargin expands a caller-supplied coordinate into a bounding box,
// in decimal degrees.
const nearBiasMargin = 0.35

// Service proxies free-text address queries to the external geocoding
// provider, shielding it behind a cache, a courtesy rate limit, and the
// mandatory identification header. Lookups never fail toward the caller:
// any upstream problem degrades to an empty result set.
type Service struct {
	client      *http.Client
	cache       Cache
	log         *logger.Logger
	limiter     *rate.Limiter
	baseURL     string
	userAgent   string
	language    string
	countries   []string
	limit       int
	minQueryLen int
	defaultBias BiasPolicy
}

// NewService creates the geocoding proxy. The default bias box comes from
// configuration; an invalid viewbox falls back to no bias at all rather
// than refusing to start.
func NewService(cfg config.GeocodeConfig, cache Cache, log *logger.Logger) *Service {
	bias, err := ParseViewbox(cfg.GetGeocodeViewbox(), cfg.GetGeocodeStrict())
	if err != nil {
		log.Warn("invalid geocode viewbox, bias disabled", "viewbox", cfg.GetGeocodeViewbox(), "error", err)
		bias = BiasPolicy{}
	}

	countries := make([]string, 0, len(cfg.GetGeocodeCountries()))
	for _, cc := range cfg.GetGeocodeCountries() {
		countries = append(countries, strings.ToLower(cc))
	}

	return &Service{
		client:      &http.Client{Timeout: 5 * time.Second},
		cache:       cache,
		log:         log,
		// Nominatim's usage policy allows one request per second.
		limiter:     rate.NewLimiter(rate.Limit(1), 2),
		baseURL:     cfg.GetGeocodeBaseURL(),
		userAgent:   cfg.GetGeocodeUserAgent(),
		language:    cfg.GetGeocodeLanguage(),
		countries:   countries,
		limit:       cfg.GetGeocodeLimit(),
		minQueryLen: cfg.GetGeocodeMinQueryLen(),
		defaultBias: bias,
	}
}

// Search resolves a free-text query into a ranked, country-filtered list of
// candidates. Queries below the minimum length return an empty list without
// touching the provider. When the request carries a caller coordinate the
// bias box is rebuilt around it.
func (s *Service) Search(ctx context.Context, req LookupRequest) []AddressCandidate {
	trimmed := strings.TrimSpace(req.Query)
	if utf8.RuneCountInString(trimmed) < s.minQueryLen {
		return []AddressCandidate{}
	}

	bias := s.defaultBias
	if req.Lat != nil && req.Lon != nil && validCoordinate(*req.Lat, *req.Lon) {
		bias = BiasAround(*req.Lat, *req.Lon, nearBiasMargin, s.defaultBias.Strict)
	}

	key := cacheKey(trimmed, bias)
	if cached, ok := s.cache.Get(ctx, key); ok {
		return cached
	}

	raw, err := s.fetch(ctx, trimmed, bias)
	if err != nil {
		s.log.UpstreamError("nominatim", "search", err)
		return []AddressCandidate{}
	}

	results := s.normalize(raw, bias)
	s.cache.Set(ctx, key, results)
	return results
}

func (s *Service) fetch(ctx context.Context, query string, bias BiasPolicy) ([]nominatimResult, error) {
	if err := s.limiter.Wait(ctx); err != nil {
		return nil, err
	}

	params := url.Values{}
	params.Set("q", query)
	params.Set("format", "jsonv2")
	params.Set("addressdetails", "1")
	params.Set("dedupe", "1")
	params.Set("limit", strconv.Itoa(s.limit))
	params.Set("accept-language", s.language)
	params.Set("countrycodes", strings.Join(s.countries, ","))
	if bias != (BiasPolicy{}) {
		params.Set("viewbox", bias.Viewbox())
		if bias.Strict {
			params.Set("bounded", "1")
		} else {
			params.Set("bounded", "0")
		}
	}

	reqURL := fmt.Sprintf("%s?%s", s.baseURL, params.Encode())

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("User-Agent", s.userAgent)

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("upstream api error: %d", resp.StatusCode)
	}

	var raw []nominatimResult
	if err := json.NewDecoder(resp.Body).Decode(&raw); err != nil {
		return nil, err
	}
	return raw, nil
}

// normalize applies the country allowlist (a defensive double-check, the
// provider was already asked to filter), drops broken coordinates and
// duplicate place IDs, re-ranks by the bias box, and caps the list.
func (s *Service) normalize(raw []nominatimResult, bias BiasPolicy) []AddressCandidate {
	results := make([]AddressCandidate, 0, len(raw))
	seen := make(map[int64]struct{}, len(raw))

	for _, item := range raw {
		if !s.countryAllowed(item.Address.CountryCode) {
			continue
		}
		if _, dup := seen[item.PlaceID]; dup {
			continue
		}

		lat, errLat := strconv.ParseFloat(item.Lat, 64)
		lon, errLon := strconv.ParseFloat(item.Lon, 64)
		if errLat != nil || errLon != nil || !validCoordinate(lat, lon) {
			continue
		}

		if bias.Strict && bias != (BiasPolicy{}) && !bias.Contains(lat, lon) {
			continue
		}

		seen[item.PlaceID] = struct{}{}
		results = append(results, AddressCandidate{
			PlaceID:     item.PlaceID,
			DisplayName: item.DisplayName,
			Lat:         lat,
			Lon:         lon,
			Address:     item.Address,
			Type:        item.Type,
		})
	}

	if !bias.Strict && bias != (BiasPolicy{}) {
		// Soft bias: in-box candidates sort first, provider order preserved
		// within each group.
		sort.SliceStable(results, func(i, j int) bool {
			inI := bias.Contains(results[i].Lat, results[i].Lon)
			inJ := bias.Contains(results[j].Lat, results[j].Lon)
			return inI && !inJ
		})
	}

	if len(results) > s.limit {
		results = results[:s.limit]
	}
	return results
}

func (s *Service) countryAllowed(code string) bool {
	lowered := strings.ToLower(code)
	for _, cc := range s.countries {
		if lowered == cc {
			return true
		}
	}
	return false
}

func validCoordinate(lat, lon float64) bool {
	if math.IsNaN(lat) || math.IsInf(lat, 0) || math.IsNaN(lon) || math.IsInf(lon, 0) {
		return false
	}
	return lat >= -90 && lat <= 90 && lon >= -180 && lon <= 180
}

// cacheKey folds the query and the active bias so the same text with a
// different bias box does not collide.
func cacheKey(query string, bias BiasPolicy) string {
	return strings.ToLower(query) + "|" + bias.Viewbox() + "|" + strconv.FormatBool(bias.Strict)
}
