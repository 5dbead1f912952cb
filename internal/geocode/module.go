package geocode

import (
	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
)

// Module wires the geocoding lookup HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.GeocodeConfig, cache Cache, log *logger.Logger) *Module {
	svc := NewService(cfg, cache, log)
	h := NewHandler(svc)
	return &Module{handler: h}
}

func (m *Module) Name() string {
	return "geocode"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/geocode")
	group.Use(ctx.LookupRateLimiter.RateLimit())
	group.GET("", m.handler.Lookup)
}

var _ apphttp.Module = (*Module)(nil)
