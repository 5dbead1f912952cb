package leads

import (
	"encoding/json"
	"net/http"

	"vivenda_backend/platform/httpkit"

	"github.com/gin-gonic/gin"
)

// Handler exposes the public lead submission endpoint.
type Handler struct {
	svc *Service
}

func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Submit handles POST /api/v1/leads.
//
// Malformed JSON and missing required sub-objects are rejected with 400
// before the webhook is touched. Relay failures surface as 502 with a
// details field: the visitor genuinely needs to know their data may not
// have arrived. When the webhook replies, its status and JSON body are
// passed through unchanged.
func (h *Handler) Submit(c *gin.Context) {
	var req SubmitLeadRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httpkit.Error(c, http.StatusBadRequest, "invalid lead payload", err.Error())
		return
	}

	meta := RequestMeta{
		UserAgent: c.Request.UserAgent(),
		Referer:   c.GetHeader("Referer"),
		ClientIP:  c.ClientIP(),
	}

	result, err := h.svc.Submit(c.Request.Context(), req, meta)
	if httpkit.HandleError(c, err) {
		return
	}

	if len(result.Body) > 0 && json.Valid(result.Body) {
		c.Data(result.Status, "application/json", result.Body)
		return
	}
	c.JSON(result.Status, gin.H{"ok": result.Status < http.StatusMultipleChoices, "status": result.Status})
}
