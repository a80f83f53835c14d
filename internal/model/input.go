package model

import (
	"errors"
	"fmt"
	"reflect"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/shopspring/decimal"

	dec "github.com/rezonia/facturador/internal/decimal"
)

// DraftInput is the wire form of an invoice draft sent by the frontend or read from a file
type DraftInput struct {
	Type          DocumentType     `json:"type"`
	Client        *Client          `json:"client" validate:"omitempty"`
	Items         []ItemInput      `json:"items" validate:"dive"`
	PaymentMethod string           `json:"payment_method"`
	Currency      string           `json:"currency" validate:"omitempty,len=3"`
	ExchangeRate  *decimal.Decimal `json:"exchange_rate" validate:"omitempty,gt=0"`
	PointOfSale   string           `json:"point_of_sale" validate:"omitempty,numeric,max=5"`
	Notes         string           `json:"notes"`
}

// ItemInput is one line of a DraftInput
type ItemInput struct {
	ProductRef  string           `json:"product_id"`
	Code        string           `json:"code"`
	Description string           `json:"description"`
	Quantity    int              `json:"quantity" validate:"gt=0"`
	UnitPrice   decimal.Decimal  `json:"unit_price" validate:"gte=0"`
	VATRate     *decimal.Decimal `json:"vat_rate" validate:"omitempty,vatrate"`
	Discount    decimal.Decimal  `json:"discount" validate:"gte=0"`
}

var validate = newValidator()

func newValidator() *validator.Validate {
	v := validator.New()

	// Report json names, e.g. items[0].quantity
	v.RegisterTagNameFunc(func(f reflect.StructField) string {
		name := strings.SplitN(f.Tag.Get("json"), ",", 2)[0]
		if name == "-" {
			return ""
		}
		return name
	})

	// Compare decimals as floats; amounts here are far from float precision limits
	v.RegisterCustomTypeFunc(func(field reflect.Value) interface{} {
		if d, ok := field.Interface().(decimal.Decimal); ok {
			f, _ := d.Float64()
			return f
		}
		return nil
	}, decimal.Decimal{})

	err := v.RegisterValidation("vatrate", func(fl validator.FieldLevel) bool {
		return IsValidVATRate(dec.FromFloat(fl.Field().Float()))
	})
	if err != nil {
		panic(fmt.Sprintf("register vatrate validation: %v", err))
	}

	return v
}

// Validate checks the input against its field rules
func (in *DraftInput) Validate() error {
	err := validate.Struct(in)
	if err == nil {
		return nil
	}

	var verrs validator.ValidationErrors
	if !errors.As(err, &verrs) {
		return NewInputError("cannot validate", err)
	}

	msgs := make([]string, 0, len(verrs))
	for _, fe := range verrs {
		field := strings.TrimPrefix(fe.Namespace(), "DraftInput.")
		if fe.Param() != "" {
			msgs = append(msgs, fmt.Sprintf("%s failed %s=%s", field, fe.Tag(), fe.Param()))
		} else {
			msgs = append(msgs, fmt.Sprintf("%s failed %s", field, fe.Tag()))
		}
	}
	return NewInputError(strings.Join(msgs, "; "), err)
}

// ToDraft validates the input and builds a draft through the aggregator,
// so repeated products are merged exactly as they are in the editor.
func (in *DraftInput) ToDraft() (*InvoiceDraft, error) {
	if err := in.Validate(); err != nil {
		return nil, err
	}

	d := NewDraft()
	if in.Type != "" {
		d.Type = in.Type
	}
	d.SetClient(in.Client)
	if in.PaymentMethod != "" {
		d.PaymentMethod = in.PaymentMethod
	}
	if in.Currency != "" {
		d.Currency = strings.ToUpper(in.Currency)
	}
	if in.ExchangeRate != nil {
		d.ExchangeRate = *in.ExchangeRate
	}
	if in.PointOfSale != "" {
		d.PointOfSale = in.PointOfSale
	}
	d.Notes = in.Notes

	for i, it := range in.Items {
		rate := DefaultVATRate
		if it.VATRate != nil {
			rate = *it.VATRate
		}
		item := LineItem{
			ProductRef:  it.ProductRef,
			Code:        it.Code,
			Description: it.Description,
			Quantity:    it.Quantity,
			UnitPrice:   it.UnitPrice,
			VATRate:     rate,
			Discount:    it.Discount,
		}
		if err := d.AddOrMergeItem(item); err != nil {
			return nil, NewInputError(fmt.Sprintf("items[%d]", i), err)
		}
	}

	return d, nil
}
