package geocode

import (
	"vivenda_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the geocoding lookup endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Lookup handles GET /api/v1/geocode?q=...&lat=..&lon=..
//
// The frontend issues a lookup per keystroke and aborts superseded requests;
// cancellation propagates through the request context and stops the upstream
// call. Short queries and upstream failures both yield an empty result list,
// so the dropdown treats "nothing found" and "provider down" identically.
func (h *Handler) Lookup(c *gin.Context) {
	var req LookupRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		httpkit.OK(c, LookupResponse{Results: []AddressCandidate{}})
		return
	}

	results := h.svc.Search(c.Request.Context(), req)
	httpkit.OK(c, LookupResponse{Results: results})
}
