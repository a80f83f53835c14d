// Package tusfacturas maps invoice drafts to the TusFacturasApp e-billing API.
//
// The payload mirrors the provider's JSON field names. Serialize builds it from a
// draft, Validate checks it before anything is sent, and Client submits it.
package tusfacturas

import (
	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// Payload is the request body of a new comprobante
type Payload struct {
	UserToken string    `json:"usertoken"`
	APIKey    string    `json:"apikey"`
	Client    *Customer `json:"cliente"`
	Document  *Document `json:"comprobante"`
}

// Customer is the "cliente" block
type Customer struct {
	DocumentType   string `json:"documento_tipo"`
	DocumentNumber string `json:"documento_nro"`
	LegalName      string `json:"razon_social"`
	Email          string `json:"email"`
	Address        string `json:"domicilio"`
	Province       string `json:"provincia"` // AFIP province code
}

// Document is the "comprobante" block
type Document struct {
	TypeCode    string    `json:"tipo_cbte"`
	PointOfSale string    `json:"pto_vta"`
	Products    []Product `json:"productos"`
}

// Product is one entry of "productos"
type Product struct {
	Code        string `json:"codigo"`
	Description string `json:"descripcion"`
	Quantity    Number `json:"cantidad"` // whole units
	UnitPrice   Number `json:"precio_unitario"`
	VATRate     Number `json:"iva"`
}

// Number is a decimal written as a bare JSON number, as the provider expects
type Number struct {
	decimal.Decimal
}

// NewNumber wraps d
func NewNumber(d decimal.Decimal) Number {
	return Number{Decimal: d}
}

// MarshalJSON writes the value unquoted
func (n Number) MarshalJSON() ([]byte, error) {
	return []byte(n.Decimal.String()), nil
}

// UnmarshalJSON accepts quoted and unquoted numbers
func (n *Number) UnmarshalJSON(data []byte) error {
	return n.Decimal.UnmarshalJSON(data)
}

// JSONSchema describes Number as a plain number
func (Number) JSONSchema() *jsonschema.Schema {
	return &jsonschema.Schema{Type: "number"}
}
