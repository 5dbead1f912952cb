package valuation

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
)

// Provider serves the active pricing configuration. It fetches the remote
// table from the agency backend and caches the snapshot for a TTL; any
// failure degrades to the embedded defaults. Within one TTL window every
// estimate sees the same immutable snapshot.
type Provider struct {
	client *http.Client
	url    string
	ttl    time.Duration
	log    *logger.Logger

	mu         sync.Mutex
	snapshot   PricingConfig
	source     ConfigSource
	fetchedAt  time.Time
	refreshing bool
}

// NewProvider creates the configuration provider. An empty remote URL means
// the defaults are authoritative and no network call is ever made.
func NewProvider(cfg config.ValuationConfig, log *logger.Logger) *Provider {
	return &Provider{
		client: &http.Client{Timeout: cfg.GetValuationConfigTimeout()},
		url:    cfg.GetValuationConfigURL(),
		ttl:    cfg.GetValuationConfigTTL(),
		log:    log,
	}
}

// Current returns the active pricing configuration and where it came from.
// The mutex is never held across the network call: when the snapshot is
// stale, exactly one caller refreshes it while concurrent callers keep
// serving the previous snapshot (or the defaults on a cold start).
func (p *Provider) Current(ctx context.Context) (PricingConfig, ConfigSource) {
	if p.url == "" {
		return DefaultPricingConfig(), SourceFallback
	}

	p.mu.Lock()
	if !p.fetchedAt.IsZero() && time.Since(p.fetchedAt) < p.ttl {
		snapshot, source := p.snapshot, p.source
		p.mu.Unlock()
		return snapshot, source
	}
	if p.refreshing {
		if !p.fetchedAt.IsZero() {
			snapshot, source := p.snapshot, p.source
			p.mu.Unlock()
			return snapshot, source
		}
		p.mu.Unlock()
		return DefaultPricingConfig(), SourceFallback
	}
	p.refreshing = true
	p.mu.Unlock()

	remote, err := p.fetch(ctx)

	p.mu.Lock()
	defer p.mu.Unlock()
	p.refreshing = false
	if err != nil {
		p.log.UpstreamError("valuation-config", "fetch", err)
		p.snapshot = DefaultPricingConfig()
		p.source = SourceFallback
	} else {
		p.snapshot = MergeConfig(remote)
		p.source = SourceRemote
	}
	// A failed fetch is cached too, so a dead backend is not hammered on
	// every estimate.
	p.fetchedAt = time.Now()

	return p.snapshot, p.source
}

func (p *Provider) fetch(ctx context.Context) (PricingConfig, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, p.url, nil)
	if err != nil {
		return PricingConfig{}, err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := p.client.Do(req)
	if err != nil {
		return PricingConfig{}, err
	}
	defer func() {
		_ = resp.Body.Close()
	}()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return PricingConfig{}, fmt.Errorf("config endpoint returned %d", resp.StatusCode)
	}

	var remote PricingConfig
	if err := json.NewDecoder(resp.Body).Decode(&remote); err != nil {
		return PricingConfig{}, err
	}
	return remote, nil
}
