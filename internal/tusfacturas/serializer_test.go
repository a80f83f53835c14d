package tusfacturas_test

import (
	"encoding/json"
	"strconv"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

var testCreds = model.Credentials{UserToken: "token-123", APIKey: "key-456"}

func newDraft(t *testing.T, docType model.DocumentType, client *model.Client) *model.InvoiceDraft {
	t.Helper()

	draft := model.NewDraft()
	draft.Type = docType
	draft.SetClient(client)

	require.NoError(t, draft.AddOrMergeItem(model.LineItem{
		ProductRef: "p1", Code: "P1", Description: "Producto 1",
		Quantity: 2, UnitPrice: decimal.NewFromInt(50), VATRate: decimal.NewFromInt(21),
	}))
	require.NoError(t, draft.AddOrMergeItem(model.LineItem{
		ProductRef: "p2", Code: "P2", Description: "Producto 2",
		Quantity: 1, UnitPrice: decimal.NewFromInt(100), VATRate: decimal.RequireFromString("10.5"),
		Discount: decimal.NewFromInt(10),
	}))
	return draft
}

func testClient(province string) *model.Client {
	return &model.Client{
		ID:             "c-1",
		DocumentType:   model.ClientDocumentDNI,
		DocumentNumber: "30111222",
		BusinessName:   "Juan Pérez",
		Email:          "juan@example.com",
		Address:        "San Martín 123",
		Province:       province,
	}
}

func TestSerialize_MappingFidelity(t *testing.T) {
	draft := newDraft(t, model.DocumentTypeB, testClient("Córdoba"))

	s := tusfacturas.Serialize(draft, testCreds)
	p := s.Payload

	assert.Equal(t, "token-123", p.UserToken)
	assert.Equal(t, "key-456", p.APIKey)

	require.NotNil(t, p.Client)
	assert.Equal(t, "DNI", p.Client.DocumentType)
	assert.Equal(t, "30111222", p.Client.DocumentNumber)
	assert.Equal(t, "Juan Pérez", p.Client.LegalName)
	assert.Equal(t, "juan@example.com", p.Client.Email)
	assert.Equal(t, "San Martín 123", p.Client.Address)
	assert.Equal(t, "6", p.Client.Province)

	require.NotNil(t, p.Document)
	assert.Equal(t, "6", p.Document.TypeCode)
	assert.Equal(t, "0001", p.Document.PointOfSale)

	require.Len(t, p.Document.Products, 2)
	assert.Equal(t, "P1", p.Document.Products[0].Code)
	assert.Equal(t, "Producto 1", p.Document.Products[0].Description)
	assert.Equal(t, "2", p.Document.Products[0].Quantity.String())
	assert.True(t, p.Document.Products[0].UnitPrice.Equal(decimal.NewFromInt(50)))
	assert.True(t, p.Document.Products[1].VATRate.Equal(decimal.RequireFromString("10.5")))

	assert.Empty(t, s.Defaults)
	assert.Empty(t, s.Warnings())
}

func TestSerialize_DocumentTypeCodes(t *testing.T) {
	tests := []struct {
		docType   model.DocumentType
		code      string
		defaulted bool
	}{
		{model.DocumentTypeA, "1", false},
		{model.DocumentTypeB, "6", false},
		{model.DocumentTypeC, "11", false},
		{model.DocumentTypeCreditNote, "3", false},
		{"X", "1", true},
		{"", "1", true},
	}

	for _, tt := range tests {
		t.Run(string(tt.docType), func(t *testing.T) {
			draft := newDraft(t, tt.docType, testClient("Salta"))
			s := tusfacturas.Serialize(draft, testCreds)

			assert.Equal(t, tt.code, s.Payload.Document.TypeCode)
			if tt.defaulted {
				require.Len(t, s.Defaults, 1)
				assert.Equal(t, tusfacturas.FieldDocumentType, s.Defaults[0].Field)
				assert.Equal(t, string(tt.docType), s.Defaults[0].Input)
			} else {
				assert.Empty(t, s.Defaults)
			}
		})
	}
}

func TestSerialize_UnknownProvinceDefaults(t *testing.T) {
	draft := newDraft(t, model.DocumentTypeA, testClient("Atlantis"))

	s := tusfacturas.Serialize(draft, testCreds)

	assert.Equal(t, "1", s.Payload.Client.Province)
	require.Len(t, s.Defaults, 1)
	assert.Equal(t, tusfacturas.MappingDefault{Field: "provincia", Input: "Atlantis", Value: "1"}, s.Defaults[0])
	assert.Contains(t, s.Warnings()[0], "Atlantis")

	// Not an error
	assert.True(t, tusfacturas.Validate(s.Payload).Valid)
}

func TestSerialize_UnknownClientDocumentTypeIsRejected(t *testing.T) {
	client := testClient("Mendoza")
	client.DocumentType = "PASAPORTE"
	draft := newDraft(t, model.DocumentTypeA, client)

	s := tusfacturas.Serialize(draft, testCreds)
	assert.Empty(t, s.Payload.Client.DocumentType)
	assert.Empty(t, s.Defaults)

	result := tusfacturas.Validate(s.Payload)
	assert.False(t, result.Valid)
	assert.Equal(t, []string{"documento_tipo es requerido"}, result.Errors)
}

func TestSerialize_IgnoresPointOfSaleAndDiscount(t *testing.T) {
	draft := newDraft(t, model.DocumentTypeA, testClient("Santa Fe"))
	draft.PointOfSale = "0007"

	p := tusfacturas.Serialize(draft, testCreds).Payload

	assert.Equal(t, "0001", p.Document.PointOfSale)

	// Line 2 is 100 - 10 = 90 internally; the provider sees 1 x 100
	second := p.Document.Products[1]
	gross := second.UnitPrice.Mul(second.Quantity.Decimal)
	assert.True(t, gross.Equal(decimal.NewFromInt(100)))
	assert.False(t, gross.Equal(draft.Items[1].Total))
}

func TestSerialize_NoClient(t *testing.T) {
	draft := newDraft(t, model.DocumentTypeA, nil)

	p := tusfacturas.Serialize(draft, testCreds).Payload
	assert.Nil(t, p.Client)

	result := tusfacturas.Validate(p)
	assert.Equal(t, []string{"cliente es requerido"}, result.Errors)
}

func TestSerialize_NilDraft(t *testing.T) {
	p := tusfacturas.Serialize(nil, testCreds).Payload
	assert.Nil(t, p.Client)
	assert.Nil(t, p.Document)
}

func TestPayload_JSONFieldNames(t *testing.T) {
	draft := newDraft(t, model.DocumentTypeC, testClient("Tucumán"))
	p := tusfacturas.Serialize(draft, testCreds).Payload

	data, err := json.Marshal(p)
	require.NoError(t, err)

	var raw map[string]interface{}
	require.NoError(t, json.Unmarshal(data, &raw))

	assert.Equal(t, "token-123", raw["usertoken"])
	assert.Equal(t, "key-456", raw["apikey"])

	cliente := raw["cliente"].(map[string]interface{})
	for _, key := range []string{"documento_tipo", "documento_nro", "razon_social", "email", "domicilio", "provincia"} {
		assert.Contains(t, cliente, key)
	}
	assert.Equal(t, "24", cliente["provincia"])

	comprobante := raw["comprobante"].(map[string]interface{})
	assert.Equal(t, "11", comprobante["tipo_cbte"])
	assert.Equal(t, "0001", comprobante["pto_vta"])

	productos := comprobante["productos"].([]interface{})
	require.Len(t, productos, 2)
	producto := productos[1].(map[string]interface{})
	assert.Equal(t, "P2", producto["codigo"])
	assert.Equal(t, "Producto 2", producto["descripcion"])
	assert.Equal(t, 1.0, producto["cantidad"])
	// Numbers, not strings
	assert.Equal(t, 100.0, producto["precio_unitario"])
	assert.Equal(t, 10.5, producto["iva"])
}

func TestPayload_UnmarshalAcceptsQuotedNumbers(t *testing.T) {
	body := `{"codigo":"A","descripcion":"B","cantidad":1,"precio_unitario":"12.50","iva":21}`

	var prod tusfacturas.Product
	require.NoError(t, json.Unmarshal([]byte(body), &prod))
	assert.True(t, prod.UnitPrice.Equal(decimal.RequireFromString("12.5")))
	assert.True(t, prod.VATRate.Equal(decimal.NewFromInt(21)))
}

func TestLookups(t *testing.T) {
	names := tusfacturas.ProvinceNames()
	require.Len(t, names, 24)
	assert.Equal(t, "Buenos Aires", names[0])
	assert.Equal(t, "Tucumán", names[23])

	for i, name := range names {
		m := tusfacturas.ProvinceCode(name)
		assert.False(t, m.Defaulted, name)
		assert.Equal(t, i+1, mustAtoi(t, m.Value), name)
	}

	assert.Equal(t, tusfacturas.Mapped{Value: "2"}, tusfacturas.ProvinceCode("  Ciudad Autónoma de Buenos Aires "))

	for _, docType := range []model.ClientDocumentType{"CUIT", "DNI", "CUIL"} {
		v, ok := tusfacturas.ClientDocumentType(docType)
		assert.True(t, ok)
		assert.Equal(t, string(docType), v)
	}
	_, ok := tusfacturas.ClientDocumentType("LE")
	assert.False(t, ok)
}

func mustAtoi(t *testing.T, s string) int {
	t.Helper()
	n, err := strconv.Atoi(s)
	require.NoError(t, err)
	return n
}
