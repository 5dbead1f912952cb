package valuation

import (
	"errors"
	"net/http"

	"vivenda_backend/platform/apperr"
	"vivenda_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the valuation endpoints.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// GetConfig handles GET /api/v1/valuation/config.
// The source field tells the frontend whether the remote table or the
// embedded fallback produced the figures.
func (h *Handler) GetConfig(c *gin.Context) {
	cfg, source := h.svc.Config(c.Request.Context())
	httpkit.OK(c, ConfigResponse{Config: cfg, Source: source})
}

// PostEstimate handles POST /api/v1/valuation/estimate.
func (h *Handler) PostEstimate(c *gin.Context) {
	var attrs PropertyAttributes
	if err := c.ShouldBindJSON(&attrs); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid property attributes", err.Error())
		return
	}

	estimate, source, err := h.svc.Estimate(c.Request.Context(), attrs)
	if err != nil {
		if errors.Is(err, ErrCannotCompute) {
			err = apperr.Validation(err.Error())
		} else {
			err = apperr.Internal("estimate failed")
		}
		httpkit.HandleError(c, err)
		return
	}

	httpkit.OK(c, EstimateResponse{Estimate: estimate, ConfigSource: source})
}
