package leads

import (
	apphttp "vivenda_backend/internal/http"
	"vivenda_backend/platform/config"
	"vivenda_backend/platform/logger"
)

// Module wires the lead submission HTTP routes.
type Module struct {
	handler *Handler
}

func NewModule(cfg config.LeadsConfig, valuer Valuer, log *logger.Logger) *Module {
	relay := NewWebhookClient(cfg, log)
	svc := NewService(relay, valuer, log)
	return &Module{handler: NewHandler(svc)}
}

func (m *Module) Name() string {
	return "leads"
}

func (m *Module) RegisterRoutes(ctx *apphttp.RouterContext) {
	ctx.V1.POST("/leads", m.handler.Submit)
}

var _ apphttp.Module = (*Module)(nil)
