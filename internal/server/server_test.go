package server_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/render"
	"github.com/rezonia/facturador/internal/server"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

const draftJSON = `{
	"type": "B",
	"client": {
		"document_type": "CUIT",
		"document_number": "30712293841",
		"business_name": "Ejemplo SRL",
		"email": "cliente@ejemplo.com",
		"address": "Av. Siempre Viva 742",
		"province": "Córdoba"
	},
	"items": [
		{"product_id": "p1", "code": "P1", "description": "Producto 1", "quantity": 2, "unit_price": "50", "vat_rate": "21"},
		{"product_id": "p2", "code": "P2", "description": "Producto 2", "quantity": 1, "unit_price": "100", "vat_rate": "10.5", "discount": "10"}
	]
}`

func newTestServer() *server.Server {
	return newTestServerWithProvider("")
}

func newTestServerWithProvider(baseURL string) *server.Server {
	config := &server.Config{
		Address:            ":8080",
		Debug:              true,
		Credentials:        model.Credentials{UserToken: "cfg-token", APIKey: "cfg-key"},
		TusFacturasBaseURL: baseURL,
	}
	return server.NewServer(config)
}

func do(t *testing.T, h http.Handler, method, path, body string) *httptest.ResponseRecorder {
	t.Helper()

	var req *http.Request
	if body == "" {
		req = httptest.NewRequest(method, path, nil)
	} else {
		req = httptest.NewRequest(method, path, bytes.NewReader([]byte(body)))
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodGet, "/health", "")

	assert.Equal(t, http.StatusOK, w.Code)

	var response map[string]interface{}
	err := json.Unmarshal(w.Body.Bytes(), &response)
	require.NoError(t, err)

	assert.Equal(t, "ok", response["status"])
	assert.NotEmpty(t, response["time"])
}

func TestTotalsEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/invoices/totals", draftJSON)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.TotalsResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.NotNil(t, response.Draft)
	assert.True(t, response.Draft.Subtotal.Equal(decimal.NewFromInt(190)))
	assert.True(t, response.Draft.VATTotal.Equal(decimal.RequireFromString("30.45")))
	assert.True(t, response.Draft.GrandTotal.Equal(decimal.RequireFromString("220.45")))
	assert.Equal(t, "$ 220,45", response.Formatted.Total)
}

func TestTotalsEndpoint_Errors(t *testing.T) {
	srv := newTestServer()

	tests := []struct {
		name string
		body string
		code int
	}{
		{"empty body", "", http.StatusBadRequest},
		{"invalid json", "{", http.StatusBadRequest},
		{"zero quantity", `{"items":[{"product_id":"p","quantity":0,"unit_price":"1"}]}`, http.StatusUnprocessableEntity},
		{"bad vat rate", `{"items":[{"product_id":"p","quantity":1,"unit_price":"1","vat_rate":"19"}]}`, http.StatusUnprocessableEntity},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := do(t, srv.Handler(), http.MethodPost, "/api/v1/invoices/totals", tt.body)
			assert.Equal(t, tt.code, w.Code)

			var response server.ErrorResponse
			require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
			assert.NotEmpty(t, response.Error)
		})
	}
}

func TestPreviewEndpoint(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/invoices/preview.pdf", draftJSON)

	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.NoError(t, render.Validate(w.Body.Bytes()))
}

func TestSerializeEndpoint(t *testing.T) {
	srv := newTestServer()

	body := `{"draft": ` + draftJSON + `, "credentials": {"usertoken": "req-token"}}`
	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/serialize", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.SerializeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	require.NotNil(t, response.Payload)
	assert.Equal(t, "req-token", response.Payload.UserToken)
	assert.Equal(t, "cfg-key", response.Payload.APIKey)
	assert.Equal(t, "6", response.Payload.Document.TypeCode)
	assert.Equal(t, "6", response.Payload.Client.Province)
	assert.Len(t, response.Payload.Document.Products, 2)
	assert.Empty(t, response.Warnings)
	assert.True(t, response.Validation.Valid)
}

func TestSerializeEndpoint_DefaultsAreWarnedAndCounted(t *testing.T) {
	srv := newTestServer()

	body := `{"draft": {"type": "X", "client": {"document_type": "DNI", "document_number": "1", "business_name": "a",
		"email": "a@b.com", "address": "c", "province": "Atlantis"},
		"items": [{"product_id": "p", "code": "P", "description": "d", "quantity": 1, "unit_price": "1"}]}}`
	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/serialize", body)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.SerializeResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.Len(t, response.Defaults, 2)
	assert.Len(t, response.Warnings, 2)
	assert.True(t, response.Validation.Valid)

	metrics := do(t, srv.Handler(), http.MethodGet, "/metrics", "")
	require.Equal(t, http.StatusOK, metrics.Code)
	assert.Contains(t, metrics.Body.String(), `facturador_mapping_defaults_total{field="provincia"} 1`)
	assert.Contains(t, metrics.Body.String(), `facturador_mapping_defaults_total{field="tipo_cbte"} 1`)
}

func TestSerializeEndpoint_MissingDraft(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/serialize", `{}`)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestValidateEndpoint(t *testing.T) {
	srv := newTestServer()

	p := tusfacturas.Example()
	p.APIKey = ""
	p.Document.Products[0].Quantity = tusfacturas.NewNumber(decimal.Zero)
	data, err := json.Marshal(p)
	require.NoError(t, err)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/validate", string(data))

	assert.Equal(t, http.StatusOK, w.Code)

	var response tusfacturas.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))

	assert.False(t, response.Valid)
	assert.Equal(t, []string{"apikey es requerido", "producto 1: cantidad debe ser mayor a 0"}, response.Errors)
}

func TestValidateEndpoint_FractionalQuantity(t *testing.T) {
	srv := newTestServer()

	data, err := json.Marshal(tusfacturas.Example())
	require.NoError(t, err)
	body := bytes.Replace(data, []byte(`"cantidad":2`), []byte(`"cantidad":1.5`), 1)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/validate", string(body))
	require.Equal(t, http.StatusOK, w.Code)

	var response tusfacturas.ValidationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.False(t, response.Valid)
	assert.Equal(t, []string{"producto 1: cantidad debe ser un número entero"}, response.Errors)
}

func TestExampleAndSchemaEndpoints(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/tusfacturas/example", "")
	require.Equal(t, http.StatusOK, w.Code)

	var p tusfacturas.Payload
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &p))
	assert.True(t, tusfacturas.Validate(&p).Valid)

	w = do(t, srv.Handler(), http.MethodGet, "/api/v1/tusfacturas/schema", "")
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "precio_unitario")
}

func TestSubmitEndpoint(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		var p tusfacturas.Payload
		if err := json.NewDecoder(r.Body).Decode(&p); err != nil || p.UserToken != "cfg-token" {
			http.Error(w, "bad request", http.StatusBadRequest)
			return
		}
		_, _ = w.Write([]byte(`{"error":"N","cae":"74123456789012","vencimiento_cae":"20241231"}`))
	}))
	defer provider.Close()

	srv := newTestServerWithProvider(provider.URL)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/submit", `{"draft": `+draftJSON+`}`)

	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var response server.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Result)
	assert.Equal(t, "74123456789012", response.Result.CAE)
	assert.Empty(t, response.Error)
}

func TestSubmitEndpoint_InvalidPayload(t *testing.T) {
	srv := newTestServerWithProvider("http://127.0.0.1:1")

	// No client: the payload fails local validation and is never sent
	body := `{"draft": {"items": [{"product_id": "p", "code": "P", "description": "d", "quantity": 1, "unit_price": "1"}]}}`
	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/submit", body)

	require.Equal(t, http.StatusUnprocessableEntity, w.Code)

	var response server.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	require.NotNil(t, response.Validation)
	assert.Equal(t, []string{"cliente es requerido"}, response.Validation.Errors)
}

func TestSubmitEndpoint_ProviderRejects(t *testing.T) {
	provider := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"error":"S","errores":["CUIT no habilitado"]}`))
	}))
	defer provider.Close()

	srv := newTestServerWithProvider(provider.URL)

	w := do(t, srv.Handler(), http.MethodPost, "/api/v1/tusfacturas/submit", `{"draft": `+draftJSON+`}`)

	assert.Equal(t, http.StatusBadGateway, w.Code)

	var response server.SubmitResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &response))
	assert.Contains(t, response.Error, "CUIT no habilitado")
	require.NotNil(t, response.Result)
	assert.True(t, response.Result.Rejected())
}

func TestCORS(t *testing.T) {
	srv := newTestServer()

	req := httptest.NewRequest(http.MethodGet, "/health", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	w := httptest.NewRecorder()

	srv.Handler().ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestUnknownRoute(t *testing.T) {
	srv := newTestServer()

	w := do(t, srv.Handler(), http.MethodGet, "/api/v1/nope", "")
	assert.Equal(t, http.StatusNotFound, w.Code)
}

// Benchmark tests

func BenchmarkTotals(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodPost, "/api/v1/invoices/totals", bytes.NewReader([]byte(draftJSON)))
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}

func BenchmarkHealth(b *testing.B) {
	srv := newTestServer()

	b.ResetTimer()
	for i := 0; i < b.N; i++ {
		req := httptest.NewRequest(http.MethodGet, "/health", nil)
		w := httptest.NewRecorder()
		srv.Handler().ServeHTTP(w, req)
	}
}
