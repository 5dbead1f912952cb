package valuation

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"

	"github.com/gin-gonic/gin"
)

func newTestRouter(t *testing.T) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)

	cfg := &config.Config{
		ValuationConfigTimeout: time.Second,
		ValuationConfigTTL:     time.Minute,
	}
	module := NewModule(cfg, logger.New("test"))

	engine := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine
}

func TestPostEstimate_Success(t *testing.T) {
	engine := newTestRouter(t)

	body := `{"zone":"alcorcon","areaM2":80,"bedrooms":3,"bathrooms":1,"condition":"normal"}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/valuation/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp EstimateResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Estimate.MidPrice != 208000 {
		t.Fatalf("expected central 208000, got %d", resp.Estimate.MidPrice)
	}
	if resp.ConfigSource != SourceFallback {
		t.Fatalf("expected fallback config source, got %q", resp.ConfigSource)
	}
}

func TestPostEstimate_NegativeAreaCannotCompute(t *testing.T) {
	engine := newTestRouter(t)

	body := `{"zone":"alcorcon","areaM2":-80}`
	req := httptest.NewRequest(http.MethodPost, "/api/v1/valuation/estimate", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for negative area, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "cannot compute") {
		t.Fatalf("expected cannot-compute message, got %s", rec.Body.String())
	}
}

func TestPostEstimate_MissingZoneRejected(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodPost, "/api/v1/valuation/estimate", strings.NewReader(`{"areaM2":80}`))
	req.Header.Set("Content-Type", "application/json")
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for missing zone, got %d", rec.Code)
	}
}

func TestGetConfig_ReportsSource(t *testing.T) {
	engine := newTestRouter(t)

	req := httptest.NewRequest(http.MethodGet, "/api/v1/valuation/config", nil)
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp ConfigResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid response JSON: %v", err)
	}
	if resp.Source != SourceFallback {
		t.Fatalf("expected fallback source, got %q", resp.Source)
	}
	if resp.Config.ZonePrices["mostoles"] != 2500 {
		t.Fatalf("expected default mostoles price, got %v", resp.Config.ZonePrices["mostoles"])
	}
}
