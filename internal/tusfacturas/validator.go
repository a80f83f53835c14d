package tusfacturas

import (
	"fmt"

	dec "github.com/rezonia/facturador/internal/decimal"
)

// ValidationResult holds every problem found in a payload
type ValidationResult struct {
	Valid  bool     `json:"valid"`
	Errors []string `json:"errors"`
}

func (r *ValidationResult) addError(msg string) {
	r.Errors = append(r.Errors, msg)
}

func (r *ValidationResult) require(value, field string) {
	if value == "" {
		r.addError(field + " es requerido")
	}
}

// Validate checks the payload before submission. Every check runs; nothing
// short-circuits, so the caller gets the full list at once.
func Validate(p *Payload) ValidationResult {
	result := ValidationResult{Errors: []string{}}
	if p == nil {
		p = &Payload{}
	}

	result.require(p.UserToken, "usertoken")
	result.require(p.APIKey, "apikey")

	if p.Client == nil {
		result.addError("cliente es requerido")
	} else {
		result.require(p.Client.DocumentType, "documento_tipo")
		result.require(p.Client.DocumentNumber, "documento_nro")
		result.require(p.Client.LegalName, "razon_social")
		result.require(p.Client.Email, "email")
		result.require(p.Client.Address, "domicilio")
		result.require(p.Client.Province, "provincia")
	}

	if p.Document == nil {
		result.addError("comprobante es requerido")
	} else {
		result.require(p.Document.TypeCode, "tipo_cbte")
		result.require(p.Document.PointOfSale, "pto_vta")

		if len(p.Document.Products) == 0 {
			result.addError("productos es requerido y no puede estar vacío")
		}
		for i, prod := range p.Document.Products {
			n := i + 1
			if prod.Code == "" {
				result.addError(fmt.Sprintf("producto %d: codigo es requerido", n))
			}
			if prod.Description == "" {
				result.addError(fmt.Sprintf("producto %d: descripcion es requerido", n))
			}
			if !dec.IsPositive(prod.Quantity.Decimal) {
				result.addError(fmt.Sprintf("producto %d: cantidad debe ser mayor a 0", n))
			} else if !prod.Quantity.IsInteger() {
				result.addError(fmt.Sprintf("producto %d: cantidad debe ser un número entero", n))
			}
			if !dec.IsPositive(prod.UnitPrice.Decimal) {
				result.addError(fmt.Sprintf("producto %d: precio_unitario debe ser mayor a 0", n))
			}
			if !dec.IsNonNegative(prod.VATRate.Decimal) {
				result.addError(fmt.Sprintf("producto %d: iva no puede ser negativo", n))
			}
		}
	}

	result.Valid = len(result.Errors) == 0
	return result
}
