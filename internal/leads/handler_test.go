package leads

import (
	"encoding/json"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync/atomic"
	"testing"
	"time"

	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/internal/valuation"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
	"vivenda_backend/platform/validator"

	"github.com/gin-gonic/gin"
)

const validLeadBody = `{
	"source": "valorador",
	"contact": {"name": "Ana García", "phone": "612 345 678", "email": "ana@example.com"},
	"property": {"zone": "alcorcon", "areaM2": 80, "bedrooms": 3, "bathrooms": 1, "condition": "normal"},
	"address": {"label": "Calle Mayor 1", "fullAddress": "Calle Mayor 1, Alcorcón", "city": "Alcorcón", "postcode": "28921", "lat": 40.34, "lon": -3.82},
	"valuation": {"minPrice": 1, "midPrice": 1, "maxPrice": 1},
	"message": "Quiero <b>vender</b>"
}`

func newLeadsRouter(t *testing.T, webhookURL, secret string) *gin.Engine {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if err := validator.RegisterBindingRules(); err != nil {
		t.Fatalf("register binding rules: %v", err)
	}

	cfg := &config.Config{
		LeadsWebhookURL:        webhookURL,
		LeadsWebhookSecret:     secret,
		LeadsWebhookTimeout:    2 * time.Second,
		ValuationConfigTimeout: time.Second,
		ValuationConfigTTL:     time.Minute,
	}
	log := logger.New("test")
	valuer := valuation.NewModule(cfg, log).Service()
	module := NewModule(cfg, valuer, log)

	engine := gin.New()
	module.RegisterRoutes(&apphttp.RouterContext{Engine: engine, V1: engine.Group("/api/v1")})
	return engine
}

func postLead(engine *gin.Engine, body string, headers map[string]string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, "/api/v1/leads", strings.NewReader(body))
	req.Header.Set("Content-Type", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}
	rec := httptest.NewRecorder()
	engine.ServeHTTP(rec, req)
	return rec
}

func TestSubmit_MissingPropertyRejectedBeforeRelay(t *testing.T) {
	var calls atomic.Int64
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls.Add(1)
	}))
	defer webhook.Close()

	engine := newLeadsRouter(t, webhook.URL, "shh")

	body := `{"source":"valorador","contact":{"name":"Ana García","phone":"612345678"}}`
	rec := postLead(engine, body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400, got %d: %s", rec.Code, rec.Body.String())
	}
	if calls.Load() != 0 {
		t.Fatalf("webhook must not be called for an invalid payload, got %d calls", calls.Load())
	}
}

func TestSubmit_MalformedJSONRejected(t *testing.T) {
	engine := newLeadsRouter(t, "http://unused.invalid", "shh")

	rec := postLead(engine, `{"source": `, nil)
	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for malformed JSON, got %d", rec.Code)
	}
}

func TestSubmit_InvalidPostcodeRejected(t *testing.T) {
	engine := newLeadsRouter(t, "http://unused.invalid", "shh")

	body := `{
		"source": "valorador",
		"contact": {"name": "Ana García", "phone": "612345678"},
		"property": {"zone": "alcorcon", "areaM2": 80},
		"address": {"label": "x", "postcode": "99999"}
	}`
	rec := postLead(engine, body, nil)

	if rec.Code != http.StatusBadRequest {
		t.Fatalf("expected 400 for an impossible postcode, got %d: %s", rec.Code, rec.Body.String())
	}
}

func TestSubmit_UnconfiguredDeliveryFailsLoudly(t *testing.T) {
	engine := newLeadsRouter(t, "", "")

	rec := postLead(engine, validLeadBody, nil)

	if rec.Code != http.StatusInternalServerError {
		t.Fatalf("expected 500 when the webhook is not configured, got %d", rec.Code)
	}
	if !strings.Contains(rec.Body.String(), "lead delivery is not configured") {
		t.Fatalf("unexpected body: %s", rec.Body.String())
	}
}

func TestSubmit_UnreachableWebhookIs502WithDetails(t *testing.T) {
	dead := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	dead.Close()

	engine := newLeadsRouter(t, dead.URL, "shh")

	rec := postLead(engine, validLeadBody, nil)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("expected 502, got %d: %s", rec.Code, rec.Body.String())
	}

	var resp struct {
		Error   string `json:"error"`
		Details string `json:"details"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid error body: %v", err)
	}
	if resp.Error != "could not deliver the lead" {
		t.Fatalf("unexpected error message: %q", resp.Error)
	}
	if resp.Details == "" {
		t.Fatal("expected a details field describing the relay failure")
	}
	if strings.Contains(resp.Details, "shh") {
		t.Fatal("the shared secret must never leak into the error details")
	}
}

func TestSubmit_EnrichesAndForwardsLead(t *testing.T) {
	var (
		gotSecret      string
		gotContentType string
		gotLead        RelayedLead
	)
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotSecret = r.Header.Get("X-Webhook-Secret")
		gotContentType = r.Header.Get("Content-Type")
		data, _ := io.ReadAll(r.Body)
		if err := json.Unmarshal(data, &gotLead); err != nil {
			t.Errorf("webhook received invalid JSON: %v", err)
		}
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusCreated)
		_, _ = w.Write([]byte(`{"crmId":"L-42"}`))
	}))
	defer webhook.Close()

	engine := newLeadsRouter(t, webhook.URL, "shh")

	rec := postLead(engine, validLeadBody, map[string]string{
		"User-Agent": "Mozilla/5.0 (test)",
		"Referer":    "https://vivenda.es/valorador?utm_source=google&utm_campaign=verano&gclid=abc123",
	})

	if rec.Code != http.StatusCreated {
		t.Fatalf("expected the webhook status to pass through, got %d: %s", rec.Code, rec.Body.String())
	}
	if rec.Body.String() != `{"crmId":"L-42"}` {
		t.Fatalf("expected the webhook body to pass through, got %s", rec.Body.String())
	}

	if gotSecret != "shh" {
		t.Fatalf("expected shared secret header, got %q", gotSecret)
	}
	if gotContentType != "application/json" {
		t.Fatalf("expected JSON content type, got %q", gotContentType)
	}

	if gotLead.ID == "" {
		t.Fatal("expected a generated lead id")
	}
	if gotLead.Contact.Phone != "+34612345678" {
		t.Fatalf("expected normalized phone, got %q", gotLead.Contact.Phone)
	}
	if gotLead.Valuation == nil || gotLead.Valuation.MidPrice != 208000 {
		t.Fatalf("expected a server-side recomputed valuation, got %+v", gotLead.Valuation)
	}
	if gotLead.ValuationSource != valuation.SourceFallback {
		t.Fatalf("expected fallback valuation source, got %q", gotLead.ValuationSource)
	}
	if gotLead.Attribution == nil || gotLead.Attribution.UTMSource != "google" ||
		gotLead.Attribution.UTMCampaign != "verano" || gotLead.Attribution.GclID != "abc123" {
		t.Fatalf("unexpected attribution: %+v", gotLead.Attribution)
	}
	if gotLead.Address == nil || gotLead.Address.Postcode != "28921" {
		t.Fatalf("expected the selected address to pass through, got %+v", gotLead.Address)
	}
	if gotLead.Message != "Quiero vender" {
		t.Fatalf("expected sanitized message, got %q", gotLead.Message)
	}
	if gotLead.UserAgent != "Mozilla/5.0 (test)" {
		t.Fatalf("expected the caller user agent, got %q", gotLead.UserAgent)
	}
	if gotLead.IP == "" {
		t.Fatal("expected the caller ip to be recorded")
	}
	if _, err := time.Parse(time.RFC3339, gotLead.ReceivedAt); err != nil {
		t.Fatalf("receivedAt is not RFC3339: %q", gotLead.ReceivedAt)
	}
}

func TestSubmit_NonJSONWebhookReplyIsWrapped(t *testing.T) {
	webhook := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("queued"))
	}))
	defer webhook.Close()

	engine := newLeadsRouter(t, webhook.URL, "shh")

	rec := postLead(engine, validLeadBody, nil)

	if rec.Code != http.StatusOK {
		t.Fatalf("expected 200, got %d", rec.Code)
	}

	var resp struct {
		OK     bool `json:"ok"`
		Status int  `json:"status"`
	}
	if err := json.Unmarshal(rec.Body.Bytes(), &resp); err != nil {
		t.Fatalf("invalid body: %v", err)
	}
	if !resp.OK || resp.Status != http.StatusOK {
		t.Fatalf("unexpected wrapped reply: %+v", resp)
	}
}
