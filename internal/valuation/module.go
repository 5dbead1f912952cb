package valuation

import (
	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
)

// Module wires the valuation HTTP routes and owns the config provider.
type Module struct {
	svc     *Service
	handler *Handler
}

func NewModule(cfg config.ValuationConfig, log *logger.Logger) *Module {
	provider := NewProvider(cfg, log)
	svc := NewService(provider)
	return &Module{svc: svc, handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "valuation"
}

// Service exposes the estimator to other modules (the lead relay recomputes
// valuations server-side before forwarding).
func (m *Module) Service() *Service {
	return m.svc
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	group := ctx.V1.Group("/valuation")
	group.GET("/config", m.handler.GetConfig)
	group.POST("/estimate", m.handler.PostEstimate)
}

var _ apphttp.Module = (*Module)(nil)
