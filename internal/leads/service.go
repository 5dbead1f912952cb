package leads

import (
	"context"
	"time"

	"vivenda_backend/internal/valuation"
	"vivenda_backend/platform/apperr"
	"vivenda_backend/platform/logger"
	"vivenda_backend/platform/phone"
	"vivenda_backend/platform/sanitize"

	"github.com/google/uuid"
)

// Valuer recomputes a price band for the submitted property so the relayed
// figures are ours, not whatever the browser sent.
type Valuer interface {
	Estimate(ctx context.Context, attrs valuation.PropertyAttributes) (valuation.Estimate, valuation.ConfigSource, error)
}

// Service assembles the relayed lead and forwards it to the CRM webhook.
type Service struct {
	relay  *WebhookClient
	valuer Valuer
	log    *logger.Logger
	now    func() time.Time
}

func NewService(relay *WebhookClient, valuer Valuer, log *logger.Logger) *Service {
	return &Service{relay: relay, valuer: valuer, log: log, now: time.Now}
}

// Submit validates delivery configuration, enriches the request into the
// outbound payload, and relays it. The lead is never stored locally.
func (s *Service) Submit(ctx context.Context, req SubmitLeadRequest, meta RequestMeta) (*RelayResult, error) {
	if !s.relay.IsConfigured() {
		// Checked before any network call so a misconfigured deployment
		// fails loudly instead of dropping leads.
		return nil, apperr.Misconfigured("lead delivery is not configured")
	}

	lead := s.buildLead(ctx, req, meta)

	result, err := s.relay.Forward(ctx, lead)
	if err != nil {
		s.log.UpstreamError("crm-webhook", "forward", err)
		return nil, apperr.Wrap(apperr.KindUpstream, "could not deliver the lead", err).
			WithDetails(err.Error())
	}

	s.log.Info("lead relayed", "lead_id", lead.ID, "source", lead.Source, "status", result.Status)
	return result, nil
}

func (s *Service) buildLead(ctx context.Context, req SubmitLeadRequest, meta RequestMeta) RelayedLead {
	contact := *req.Contact
	contact.Name = sanitize.Text(contact.Name)
	contact.Phone = phone.NormalizeE164(contact.Phone)

	lead := RelayedLead{
		ID:          uuid.NewString(),
		Source:      req.Source,
		Contact:     contact,
		Property:    req.Property,
		Valuation:   req.Valuation,
		Address:     req.Address,
		Message:     sanitize.Text(req.Message),
		Attribution: ParseAttribution(meta.Referer),
		ReceivedAt:  s.now().UTC().Format(time.RFC3339),
		UserAgent:   meta.UserAgent,
		Referer:     meta.Referer,
		IP:          meta.ClientIP,
	}

	// Client-side figures are advisory; recompute with our own table when
	// the attributes allow it.
	if req.Property != nil {
		if estimate, source, err := s.valuer.Estimate(ctx, *req.Property); err == nil {
			lead.Valuation = &estimate
			lead.ValuationSource = source
		}
	}

	return lead
}
