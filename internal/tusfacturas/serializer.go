package tusfacturas

import (
	"fmt"

	dec "github.com/rezonia/facturador/internal/decimal"
	"github.com/rezonia/facturador/internal/model"
)

// Payload fields that can fall back to a default code
const (
	FieldDocumentType = "tipo_cbte"
	FieldProvince     = "provincia"
)

// MappingDefault records a lookup that had no match and used its fallback
type MappingDefault struct {
	Field string `json:"field"`
	Input string `json:"input"`
	Value string `json:"value"`
}

func (m MappingDefault) String() string {
	return fmt.Sprintf("%s: no mapping for %q, defaulted to %q", m.Field, m.Input, m.Value)
}

// Serialization is the result of Serialize
type Serialization struct {
	Payload  *Payload         `json:"payload"`
	Defaults []MappingDefault `json:"defaults,omitempty"`
}

// Warnings renders the defaults as messages
func (s *Serialization) Warnings() []string {
	warnings := make([]string, 0, len(s.Defaults))
	for _, m := range s.Defaults {
		warnings = append(warnings, m.String())
	}
	return warnings
}

// Serialize projects a draft and credentials onto the provider's payload.
//
// Known limitations carried over from the existing integration:
//   - pto_vta is always "0001", the draft's point of sale is ignored
//   - discounts are not sent; cantidad*precio_unitario will not match a discounted line total
func Serialize(draft *model.InvoiceDraft, creds model.Credentials) *Serialization {
	s := &Serialization{
		Payload: &Payload{
			UserToken: creds.UserToken,
			APIKey:    creds.APIKey,
		},
	}
	if draft == nil {
		return s
	}

	if draft.Client != nil {
		s.Payload.Client = s.serializeClient(draft.Client)
	}

	typeCode := DocumentTypeCode(draft.Type)
	if typeCode.Defaulted {
		s.Defaults = append(s.Defaults, MappingDefault{
			Field: FieldDocumentType,
			Input: string(draft.Type),
			Value: typeCode.Value,
		})
	}

	products := make([]Product, 0, len(draft.Items))
	for _, item := range draft.Items {
		products = append(products, Product{
			Code:        item.Code,
			Description: item.Description,
			Quantity:    NewNumber(dec.FromInt(int64(item.Quantity))),
			UnitPrice:   NewNumber(item.UnitPrice),
			VATRate:     NewNumber(item.VATRate),
		})
	}

	s.Payload.Document = &Document{
		TypeCode:    typeCode.Value,
		PointOfSale: FixedPointOfSale,
		Products:    products,
	}

	return s
}

func (s *Serialization) serializeClient(c *model.Client) *Customer {
	docType, _ := ClientDocumentType(c.DocumentType)

	province := ProvinceCode(c.Province)
	if province.Defaulted {
		s.Defaults = append(s.Defaults, MappingDefault{
			Field: FieldProvince,
			Input: c.Province,
			Value: province.Value,
		})
	}

	return &Customer{
		DocumentType:   docType,
		DocumentNumber: c.DocumentNumber,
		LegalName:      c.BusinessName,
		Email:          c.Email,
		Address:        c.Address,
		Province:       province.Value,
	}
}
