package model

import (
	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/facturador/internal/decimal"
)

// Draft defaults, as the invoice form starts out
const (
	DefaultPaymentMethod = "transfer"
	DefaultCurrency      = "ARS"
	DefaultPointOfSale   = "0001"
)

// NewDraft creates an empty Factura A draft
func NewDraft() *InvoiceDraft {
	return &InvoiceDraft{
		ID:            uuid.NewString(),
		Type:          DocumentTypeA,
		Status:        InvoiceStatusDraft,
		Items:         []LineItem{},
		Subtotal:      decimal.Zero,
		VATTotal:      decimal.Zero,
		GrandTotal:    decimal.Zero,
		PaymentMethod: DefaultPaymentMethod,
		Currency:      DefaultCurrency,
		ExchangeRate:  dec.FromInt(1),
		PointOfSale:   DefaultPointOfSale,
	}
}

// NewLineItem builds a candidate line from a catalog product at the default IVA rate
func NewLineItem(p Product, quantity int, discount decimal.Decimal) LineItem {
	item := LineItem{
		ProductRef:  p.ID,
		Code:        p.Code,
		Description: p.Name,
		Quantity:    quantity,
		UnitPrice:   p.Price,
		VATRate:     DefaultVATRate,
		Discount:    discount,
	}
	item.Calculate()
	return item
}

// ItemChanges holds optional field edits for UpdateItem.
// Nil fields are left as they are.
type ItemChanges struct {
	Code        *string          `json:"code,omitempty"`
	Description *string          `json:"description,omitempty"`
	Quantity    *int             `json:"quantity,omitempty"`
	UnitPrice   *decimal.Decimal `json:"unit_price,omitempty"`
	VATRate     *decimal.Decimal `json:"vat_rate,omitempty"`
	Discount    *decimal.Decimal `json:"discount,omitempty"`
}

// Calculate computes the line total: UnitPrice * Quantity - Discount
func (li *LineItem) Calculate() {
	li.Total = dec.LineTotal(li.UnitPrice, li.Quantity, li.Discount)
}

// VATAmount returns Total * VATRate/100
func (li *LineItem) VATAmount() decimal.Decimal {
	return dec.Percent(li.Total, li.VATRate)
}

// Validate checks the field rules of a line
func (li *LineItem) Validate() error {
	if li.Quantity <= 0 {
		return NewValidationError("quantity", li.Quantity, "gt=0", "quantity must be greater than 0")
	}
	if !dec.IsNonNegative(li.UnitPrice) {
		return NewValidationError("unit_price", li.UnitPrice.String(), "gte=0", "unit price cannot be negative")
	}
	if !dec.IsNonNegative(li.Discount) {
		return NewValidationError("discount", li.Discount.String(), "gte=0", "discount cannot be negative")
	}
	if !IsValidVATRate(li.VATRate) {
		return NewValidationError("vat_rate", li.VATRate.String(), "vatrate", "IVA rate must be one of 0, 10.5, 21, 27")
	}
	return nil
}

// SetClient attaches the recipient
func (d *InvoiceDraft) SetClient(c *Client) {
	d.Client = c
	if c != nil {
		d.ClientID = c.ID
	} else {
		d.ClientID = ""
	}
}

// AddOrMergeItem appends candidate, or adds its quantity to the line with the
// same product reference. A merged line keeps its own unit price and discount.
// Lines without a product reference are never merged.
func (d *InvoiceDraft) AddOrMergeItem(candidate LineItem) error {
	if err := candidate.Validate(); err != nil {
		return err
	}

	if idx := d.indexOf(candidate.ProductRef); idx >= 0 {
		d.Items[idx].Quantity += candidate.Quantity
		d.Items[idx].Calculate()
	} else {
		candidate.Calculate()
		d.Items = append(d.Items, candidate)
	}

	d.RecomputeTotals()
	return nil
}

// UpdateItem applies changes to the line at index and recomputes its total
func (d *InvoiceDraft) UpdateItem(index int, changes ItemChanges) error {
	if index < 0 || index >= len(d.Items) {
		return NewOutOfRangeError("update item", index, len(d.Items))
	}

	item := d.Items[index]
	if changes.Code != nil {
		item.Code = *changes.Code
	}
	if changes.Description != nil {
		item.Description = *changes.Description
	}
	if changes.Quantity != nil {
		item.Quantity = *changes.Quantity
	}
	if changes.UnitPrice != nil {
		item.UnitPrice = *changes.UnitPrice
	}
	if changes.VATRate != nil {
		item.VATRate = *changes.VATRate
	}
	if changes.Discount != nil {
		item.Discount = *changes.Discount
	}

	if err := item.Validate(); err != nil {
		return err
	}

	item.Calculate()
	d.Items[index] = item

	d.RecomputeTotals()
	return nil
}

// RemoveItem removes the line at index. Items is replaced by a new slice,
// so slices of the previous Items keep their contents.
func (d *InvoiceDraft) RemoveItem(index int) error {
	if index < 0 || index >= len(d.Items) {
		return NewOutOfRangeError("remove item", index, len(d.Items))
	}

	items := make([]LineItem, 0, len(d.Items)-1)
	items = append(items, d.Items[:index]...)
	d.Items = append(items, d.Items[index+1:]...)

	d.RecomputeTotals()
	return nil
}

// RecomputeTotals derives Subtotal, VATTotal and GrandTotal from the current lines.
// Calling it again without a mutation in between yields the same values.
func (d *InvoiceDraft) RecomputeTotals() {
	subtotal := decimal.Zero
	vat := decimal.Zero

	for i := range d.Items {
		subtotal = subtotal.Add(d.Items[i].Total)
		vat = vat.Add(d.Items[i].VATAmount())
	}

	d.Subtotal = subtotal
	d.VATTotal = vat
	d.GrandTotal = subtotal.Add(vat)
}

func (d *InvoiceDraft) indexOf(productRef string) int {
	if productRef == "" {
		return -1
	}
	for i := range d.Items {
		if d.Items[i].ProductRef == productRef {
			return i
		}
	}
	return -1
}
