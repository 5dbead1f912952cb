package leads

import (
	"vivenda_backend/internal/valuation"
)

// Contact holds the visitor's contact fields.
type Contact struct {
	Name  string `json:"name" binding:"required,min=2,max=120"`
	Phone string `json:"phone" binding:"required,min=5,max=20"`
	Email string `json:"email" binding:"omitempty,email"`
}

// SelectedAddress is the geocoded address the visitor picked from the
// autocomplete dropdown, if any.
type SelectedAddress struct {
	Label       string  `json:"label" binding:"max=200"`
	FullAddress string  `json:"fullAddress" binding:"max=400"`
	City        string  `json:"city" binding:"max=120"`
	Postcode    string  `json:"postcode" binding:"omitempty,es_postcode"`
	Lat         float64 `json:"lat" binding:"omitempty,gte=-90,lte=90"`
	Lon         float64 `json:"lon" binding:"omitempty,gte=-180,lte=180"`
}

// SubmitLeadRequest is the body of the public lead endpoint. Contact and
// property are required sub-objects; a payload missing either is rejected
// before anything is relayed.
type SubmitLeadRequest struct {
	Source    string                        `json:"source" binding:"required,max=60"`
	Contact   *Contact                      `json:"contact" binding:"required"`
	Property  *valuation.PropertyAttributes `json:"property" binding:"required"`
	Valuation *valuation.Estimate           `json:"valuation"`
	Address   *SelectedAddress              `json:"address"`
	Message   string                        `json:"message" binding:"max=2000"`
}

// Attribution carries campaign tags extracted from the referring URL.
type Attribution struct {
	UTMSource   string `json:"utmSource,omitempty"`
	UTMMedium   string `json:"utmMedium,omitempty"`
	UTMCampaign string `json:"utmCampaign,omitempty"`
	UTMTerm     string `json:"utmTerm,omitempty"`
	UTMContent  string `json:"utmContent,omitempty"`
	GclID       string `json:"gclid,omitempty"`
	FbclID      string `json:"fbclid,omitempty"`
}

// RequestMeta is what the HTTP layer knows about the submission besides the
// body.
type RequestMeta struct {
	UserAgent string
	Referer   string
	ClientIP  string
}

// RelayedLead is the payload forwarded to the CRM webhook. The lead exists
// only for the duration of the request; nothing is persisted here.
type RelayedLead struct {
	ID              string                        `json:"id"`
	Source          string                        `json:"source"`
	Contact         Contact                       `json:"contact"`
	Property        *valuation.PropertyAttributes `json:"property"`
	Valuation       *valuation.Estimate           `json:"valuation,omitempty"`
	ValuationSource valuation.ConfigSource        `json:"valuationSource,omitempty"`
	Address         *SelectedAddress              `json:"address,omitempty"`
	Message         string                        `json:"message,omitempty"`
	Attribution     *Attribution                  `json:"attribution,omitempty"`
	ReceivedAt      string                        `json:"receivedAt"`
	UserAgent       string                        `json:"userAgent,omitempty"`
	Referer         string                        `json:"referer,omitempty"`
	IP              string                        `json:"ip,omitempty"`
}
