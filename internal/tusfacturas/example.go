package tusfacturas

import (
	"encoding/json"

	"github.com/invopop/jsonschema"
	"github.com/shopspring/decimal"
)

// Example returns a complete, valid sample payload
func Example() *Payload {
	return &Payload{
		UserToken: "xxxxx",
		APIKey:    "xxxxx",
		Client: &Customer{
			DocumentType:   "CUIT",
			DocumentNumber: "30712293841",
			LegalName:      "Ejemplo SRL",
			Email:          "cliente@ejemplo.com",
			Address:        "Av. Siempre Viva 742",
			Province:       "2",
		},
		Document: &Document{
			TypeCode:    "1",
			PointOfSale: FixedPointOfSale,
			Products: []Product{
				{
					Code:        "PRD001",
					Description: "Producto de ejemplo",
					Quantity:    NewNumber(decimal.NewFromInt(2)),
					UnitPrice:   NewNumber(decimal.NewFromInt(100)),
					VATRate:     NewNumber(decimal.NewFromInt(21)),
				},
			},
		},
	}
}

// Format pretty-prints a payload as indented JSON
func Format(p *Payload) (string, error) {
	data, err := json.MarshalIndent(p, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

// Schema returns the JSON schema of Payload
func Schema() *jsonschema.Schema {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	return reflector.Reflect(&Payload{})
}
