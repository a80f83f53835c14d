// Package invoicelib provides a public API for building AFIP invoice drafts
// and sending them through TusFacturasApp.
//
// Example usage:
//
//	proc := invoicelib.NewProcessor(invoicelib.Options{
//	    Credentials: invoicelib.Credentials{UserToken: token, APIKey: key},
//	})
//	result, err := proc.Process(ctx, reader)
//	if err != nil {
//	    log.Fatal(err)
//	}
//	fmt.Println(result.Draft.GrandTotal, result.Validation.Valid)
package invoicelib

import (
	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

// Re-export core types for public API
type (
	InvoiceDraft = model.InvoiceDraft
	LineItem     = model.LineItem
	ItemChanges  = model.ItemChanges
	Client       = model.Client
	Product      = model.Product
	Credentials  = model.Credentials
	DraftInput   = model.DraftInput
	ItemInput    = model.ItemInput
	DocumentType = model.DocumentType
)

// Re-export document types
const (
	DocumentTypeA          = model.DocumentTypeA
	DocumentTypeB          = model.DocumentTypeB
	DocumentTypeC          = model.DocumentTypeC
	DocumentTypeCreditNote = model.DocumentTypeCreditNote
)

// Re-export provider payload types
type (
	Payload          = tusfacturas.Payload
	ValidationResult = tusfacturas.ValidationResult
	MappingDefault   = tusfacturas.MappingDefault
	Response         = tusfacturas.Response
)

// Re-export error types
type (
	OutOfRangeError = model.OutOfRangeError
	ValidationError = model.ValidationError
	InputError      = model.InputError
	SubmitError     = tusfacturas.SubmitError
	ProviderError   = tusfacturas.ProviderError
)

// ErrOutOfRange matches every OutOfRangeError
var ErrOutOfRange = model.ErrOutOfRange

// NewDraft returns an empty draft
func NewDraft() *InvoiceDraft {
	return model.NewDraft()
}
