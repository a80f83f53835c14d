package server

import (
	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

// DraftRequest carries a draft and optional provider credentials. Empty
// credential fields fall back to the server configuration.
type DraftRequest struct {
	Draft       *model.DraftInput  `json:"draft"`
	Credentials *model.Credentials `json:"credentials,omitempty"`
}

// TotalsResponse is the response for the totals endpoint
type TotalsResponse struct {
	Draft     *model.InvoiceDraft `json:"draft"`
	Formatted FormattedTotals     `json:"formatted"`
}

// FormattedTotals holds display strings rounded to cents
type FormattedTotals struct {
	Subtotal string `json:"subtotal"`
	VAT      string `json:"iva"`
	Total    string `json:"total"`
}

// SerializeResponse is the response for the serialize endpoint
type SerializeResponse struct {
	Payload    *tusfacturas.Payload         `json:"payload"`
	Defaults   []tusfacturas.MappingDefault `json:"defaults,omitempty"`
	Warnings   []string                     `json:"warnings,omitempty"`
	Validation tusfacturas.ValidationResult `json:"validation"`
}

// SubmitResponse is the response for the submit endpoint
type SubmitResponse struct {
	Result     *tusfacturas.Response         `json:"result,omitempty"`
	Validation *tusfacturas.ValidationResult `json:"validation,omitempty"`
	Warnings   []string                      `json:"warnings,omitempty"`
	Error      string                        `json:"error,omitempty"`
}

// ErrorResponse is the standard error response
type ErrorResponse struct {
	Error    string   `json:"error"`
	Details  string   `json:"details,omitempty"`
	Warnings []string `json:"warnings,omitempty"`
}
