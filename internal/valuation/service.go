package valuation

import (
	"context"
)

// Service combines the configuration provider with the pure estimator.
type Service struct {
	provider *Provider
}

func NewService(provider *Provider) *Service {
	return &Service{provider: provider}
}

// Estimate computes a price band for the given attributes using the active
// configuration snapshot, and reports which snapshot was used.
func (s *Service) Estimate(ctx context.Context, attrs PropertyAttributes) (Estimate, ConfigSource, error) {
	cfg, source := s.provider.Current(ctx)
	estimate, err := CalculateEstimate(attrs, cfg)
	if err != nil {
		return Estimate{}, source, err
	}
	return estimate, source, nil
}

// Config returns the active configuration snapshot and its source.
func (s *Service) Config(ctx context.Context) (PricingConfig, ConfigSource) {
	return s.provider.Current(ctx)
}
