package tusfacturas

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"
)

const (
	DefaultBaseURL = "https://www.tusfacturas.app/app/api/v2"
	DefaultTimeout = 30 * time.Second

	newInvoicePath = "/facturacion/nuevo"
)

// Response is the provider's answer to a new comprobante
type Response struct {
	Error         string   `json:"error"` // "S" when rejected, "N" otherwise
	Errors        []string `json:"errores,omitempty"`
	CAE           string   `json:"cae,omitempty"`
	CAEExpiration string   `json:"vencimiento_cae,omitempty"`
	Number        string   `json:"comprobante_nro,omitempty"`
}

// Rejected reports whether the provider refused the comprobante
func (r *Response) Rejected() bool {
	return strings.EqualFold(r.Error, "S")
}

// SubmitError is returned when the payload fails local validation; nothing is sent
type SubmitError struct {
	Validation ValidationResult
}

func (e *SubmitError) Error() string {
	return fmt.Sprintf("payload is invalid: %s", strings.Join(e.Validation.Errors, ", "))
}

// ProviderError is returned when the provider rejects the comprobante
type ProviderError struct {
	StatusCode int
	Errors     []string
}

func (e *ProviderError) Error() string {
	if len(e.Errors) == 0 {
		return fmt.Sprintf("tusfacturas rejected the request (status %d)", e.StatusCode)
	}
	return fmt.Sprintf("tusfacturas rejected the request (status %d): %s", e.StatusCode, strings.Join(e.Errors, "; "))
}

// Client submits payloads to the TusFacturasApp API
type Client struct {
	baseURL    string
	httpClient *http.Client
}

// ClientOption configures the client
type ClientOption func(*clientConfig)

type clientConfig struct {
	baseURL    string
	timeout    time.Duration
	httpClient *http.Client
}

// WithBaseURL sets a custom base URL
func WithBaseURL(url string) ClientOption {
	return func(cfg *clientConfig) {
		cfg.baseURL = url
	}
}

// WithTimeout sets custom HTTP timeout
func WithTimeout(timeout time.Duration) ClientOption {
	return func(cfg *clientConfig) {
		cfg.timeout = timeout
	}
}

// WithHTTPClient replaces the HTTP client; its timeout wins over WithTimeout
func WithHTTPClient(c *http.Client) ClientOption {
	return func(cfg *clientConfig) {
		cfg.httpClient = c
	}
}

// NewClient creates a new TusFacturasApp client
func NewClient(opts ...ClientOption) *Client {
	cfg := &clientConfig{
		baseURL: DefaultBaseURL,
		timeout: DefaultTimeout,
	}

	for _, opt := range opts {
		opt(cfg)
	}

	httpClient := cfg.httpClient
	if httpClient == nil {
		httpClient = &http.Client{Timeout: cfg.timeout}
	}

	return &Client{
		baseURL:    strings.TrimSuffix(cfg.baseURL, "/"),
		httpClient: httpClient,
	}
}

// Submit validates the payload and posts it as a new comprobante
func (c *Client) Submit(ctx context.Context, p *Payload) (*Response, error) {
	if validation := Validate(p); !validation.Valid {
		return nil, &SubmitError{Validation: validation}
	}

	body, err := json.Marshal(p)
	if err != nil {
		return nil, fmt.Errorf("failed to encode payload: %w", err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, c.baseURL+newInvoicePath, bytes.NewReader(body))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Accept", "application/json")
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("request failed: %w", err)
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("failed to read response: %w", err)
	}

	if resp.StatusCode != http.StatusOK {
		return nil, &ProviderError{
			StatusCode: resp.StatusCode,
			Errors:     []string{strings.TrimSpace(string(data))},
		}
	}

	var out Response
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("failed to parse response: %w", err)
	}

	if out.Rejected() {
		return &out, &ProviderError{StatusCode: resp.StatusCode, Errors: out.Errors}
	}

	return &out, nil
}
