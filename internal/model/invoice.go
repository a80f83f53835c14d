package model

import (
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/facturador/internal/decimal"
)

// DocumentType represents AFIP comprobante class
type DocumentType string

const (
	DocumentTypeA          DocumentType = "A"
	DocumentTypeB          DocumentType = "B"
	DocumentTypeC          DocumentType = "C"
	DocumentTypeCreditNote DocumentType = "NC"
)

// ClientDocumentType represents the client's identity document
type ClientDocumentType string

const (
	ClientDocumentCUIT ClientDocumentType = "CUIT"
	ClientDocumentDNI  ClientDocumentType = "DNI"
	ClientDocumentCUIL ClientDocumentType = "CUIL"
)

// InvoiceStatus represents draft lifecycle
type InvoiceStatus string

const (
	InvoiceStatusDraft     InvoiceStatus = "draft"
	InvoiceStatusIssued    InvoiceStatus = "issued"
	InvoiceStatusCancelled InvoiceStatus = "cancelled"
)

// Valid Argentina IVA rates (percent)
var (
	VATRate0   = decimal.Zero
	VATRate105 = dec.MustFromString("10.5")
	VATRate21  = decimal.NewFromInt(21)
	VATRate27  = decimal.NewFromInt(27)
)

// DefaultVATRate is applied to items added from the product catalog
var DefaultVATRate = VATRate21

// VATRates lists the accepted IVA rates
func VATRates() []decimal.Decimal {
	return []decimal.Decimal{VATRate0, VATRate105, VATRate21, VATRate27}
}

// IsValidVATRate reports whether rate is one of the accepted IVA rates
func IsValidVATRate(rate decimal.Decimal) bool {
	for _, r := range VATRates() {
		if r.Equal(rate) {
			return true
		}
	}
	return false
}

// Client is the invoice recipient
type Client struct {
	ID             string             `json:"id"`
	DocumentType   ClientDocumentType `json:"document_type"`
	DocumentNumber string             `json:"document_number"`
	BusinessName   string             `json:"business_name"`
	Email          string             `json:"email" validate:"omitempty,email"`
	Address        string             `json:"address"`
	Province       string             `json:"province"` // "Córdoba", "Santa Fe", ...
	Phone          string             `json:"phone,omitempty"`
}

// Product is a catalog entry that line items are created from
type Product struct {
	ID          string          `json:"id"`
	Code        string          `json:"code"`
	Name        string          `json:"name"`
	Description string          `json:"description,omitempty"`
	Price       decimal.Decimal `json:"price"`
	Stock       int             `json:"stock"`
	MinStock    int             `json:"min_stock"`
}

// Credentials authenticate against the e-billing provider.
// Owned by the caller and passed explicitly.
type Credentials struct {
	UserToken string `json:"usertoken"`
	APIKey    string `json:"apikey"`
}

// LineItem represents invoice line item
type LineItem struct {
	ProductRef  string          `json:"product_id"`
	Code        string          `json:"code"`
	Description string          `json:"description"`
	Quantity    int             `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
	VATRate     decimal.Decimal `json:"vat_rate"` // percent: 0, 10.5, 21, 27
	Discount    decimal.Decimal `json:"discount"` // absolute amount, not percent

	// Calculated
	Total decimal.Decimal `json:"total"` // UnitPrice * Quantity - Discount
}

// InvoiceDraft is an invoice being edited before submission
type InvoiceDraft struct {
	ID       string        `json:"id"`
	Type     DocumentType  `json:"type"`
	Status   InvoiceStatus `json:"status"`
	ClientID string        `json:"client_id,omitempty"`
	Client   *Client       `json:"client,omitempty"`

	Items []LineItem `json:"items"`

	// Calculated
	Subtotal   decimal.Decimal `json:"subtotal"`
	VATTotal   decimal.Decimal `json:"iva"`
	GrandTotal decimal.Decimal `json:"total"`

	PaymentMethod string          `json:"payment_method"`
	Currency      string          `json:"currency"`
	ExchangeRate  decimal.Decimal `json:"exchange_rate"`
	PointOfSale   string          `json:"point_of_sale"`
	Notes         string          `json:"notes,omitempty"`
}
