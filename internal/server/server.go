package server

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/cors"

	dec "github.com/rezonia/facturador/internal/decimal"
	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/render"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

// Config holds server configuration
type Config struct {
	Address      string
	ReadTimeout  time.Duration
	WriteTimeout time.Duration
	Debug        bool

	CorsAllowedOrigins []string
	CorsAllowedMethods []string
	CorsAllowedHeaders []string

	// Credentials used when a request does not carry its own
	Credentials        model.Credentials
	TusFacturasBaseURL string
	TusFacturasTimeout time.Duration
}

// Server represents the HTTP API server
type Server struct {
	config  *Config
	router  *gin.Engine
	handler http.Handler
	client  *tusfacturas.Client
	metrics *metrics
}

// NewServer creates a new API server
func NewServer(config *Config) *Server {
	if !config.Debug {
		gin.SetMode(gin.ReleaseMode)
	}

	m := newMetrics()

	router := gin.New()
	router.Use(gin.Recovery())
	if config.Debug {
		router.Use(gin.Logger())
	}
	router.Use(m.middleware())

	var clientOpts []tusfacturas.ClientOption
	if config.TusFacturasBaseURL != "" {
		clientOpts = append(clientOpts, tusfacturas.WithBaseURL(config.TusFacturasBaseURL))
	}
	if config.TusFacturasTimeout > 0 {
		clientOpts = append(clientOpts, tusfacturas.WithTimeout(config.TusFacturasTimeout))
	}

	s := &Server{
		config:  config,
		router:  router,
		client:  tusfacturas.NewClient(clientOpts...),
		metrics: m,
	}

	s.handler = newCORS(config).Handler(router)
	s.setupRoutes()
	return s
}

func newCORS(config *Config) *cors.Cors {
	opts := cors.Options{
		AllowedOrigins: config.CorsAllowedOrigins,
		AllowedMethods: config.CorsAllowedMethods,
		AllowedHeaders: config.CorsAllowedHeaders,
		MaxAge:         300,
	}
	if len(opts.AllowedMethods) == 0 {
		opts.AllowedMethods = []string{http.MethodGet, http.MethodPost, http.MethodOptions}
	}
	return cors.New(opts)
}

func (s *Server) setupRoutes() {
	// Health check
	s.router.GET("/health", s.handleHealth)
	s.router.GET("/metrics", gin.WrapH(promhttp.HandlerFor(s.metrics.registry, promhttp.HandlerOpts{})))

	// API v1
	v1 := s.router.Group("/api/v1")
	{
		invoices := v1.Group("/invoices")
		invoices.POST("/totals", s.handleTotals)
		invoices.POST("/preview.pdf", s.handlePreview)

		tf := v1.Group("/tusfacturas")
		tf.POST("/serialize", s.handleSerialize)
		tf.POST("/validate", s.handleValidate)
		tf.POST("/submit", s.handleSubmit)
		tf.GET("/example", s.handleExample)
		tf.GET("/schema", s.handleSchema)
	}
}

// Run starts the HTTP server
func (s *Server) Run() error {
	srv := &http.Server{
		Addr:         s.config.Address,
		Handler:      s.handler,
		ReadTimeout:  s.config.ReadTimeout,
		WriteTimeout: s.config.WriteTimeout,
	}
	return srv.ListenAndServe()
}

// Handler returns the http.Handler for use with custom servers
func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) handleHealth(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"time":   time.Now().UTC().Format(time.RFC3339),
	})
}

func (s *Server) handleTotals(c *gin.Context) {
	var in model.DraftInput
	if !readJSON(c, &in) {
		return
	}

	draft, ok := buildDraft(c, &in)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, TotalsResponse{
		Draft: draft,
		Formatted: FormattedTotals{
			Subtotal: dec.FormatARS(draft.Subtotal),
			VAT:      dec.FormatARS(draft.VATTotal),
			Total:    dec.FormatARS(draft.GrandTotal),
		},
	})
}

func (s *Server) handlePreview(c *gin.Context) {
	var in model.DraftInput
	if !readJSON(c, &in) {
		return
	}

	draft, ok := buildDraft(c, &in)
	if !ok {
		return
	}

	data, err := render.RenderDraftBytes(draft)
	if err != nil {
		c.JSON(http.StatusInternalServerError, ErrorResponse{Error: "failed to render preview", Details: err.Error()})
		return
	}

	c.Header("Content-Disposition", `inline; filename="`+draft.ID+`.pdf"`)
	c.Data(http.StatusOK, "application/pdf", data)
}

func (s *Server) handleSerialize(c *gin.Context) {
	serialization, ok := s.serializeRequest(c)
	if !ok {
		return
	}

	c.JSON(http.StatusOK, SerializeResponse{
		Payload:    serialization.Payload,
		Defaults:   serialization.Defaults,
		Warnings:   serialization.Warnings(),
		Validation: tusfacturas.Validate(serialization.Payload),
	})
}

func (s *Server) handleValidate(c *gin.Context) {
	var payload tusfacturas.Payload
	if !readJSON(c, &payload) {
		return
	}

	c.JSON(http.StatusOK, tusfacturas.Validate(&payload))
}

func (s *Server) handleSubmit(c *gin.Context) {
	serialization, ok := s.serializeRequest(c)
	if !ok {
		return
	}
	warnings := serialization.Warnings()

	ctx, cancel := context.WithTimeout(c.Request.Context(), 60*time.Second)
	defer cancel()

	result, err := s.client.Submit(ctx, serialization.Payload)
	if err != nil {
		var submitErr *tusfacturas.SubmitError
		var providerErr *tusfacturas.ProviderError

		switch {
		case errors.As(err, &submitErr):
			s.metrics.submissions.WithLabelValues("invalid").Inc()
			c.JSON(http.StatusUnprocessableEntity, SubmitResponse{
				Validation: &submitErr.Validation,
				Warnings:   warnings,
				Error:      err.Error(),
			})
		case errors.As(err, &providerErr):
			s.metrics.submissions.WithLabelValues("rejected").Inc()
			c.JSON(http.StatusBadGateway, SubmitResponse{
				Result:   result,
				Warnings: warnings,
				Error:    err.Error(),
			})
		default:
			s.metrics.submissions.WithLabelValues("error").Inc()
			c.JSON(http.StatusBadGateway, SubmitResponse{
				Warnings: warnings,
				Error:    err.Error(),
			})
		}
		return
	}

	s.metrics.submissions.WithLabelValues("accepted").Inc()
	c.JSON(http.StatusOK, SubmitResponse{
		Result:   result,
		Warnings: warnings,
	})
}

func (s *Server) handleExample(c *gin.Context) {
	c.JSON(http.StatusOK, tusfacturas.Example())
}

func (s *Server) handleSchema(c *gin.Context) {
	c.JSON(http.StatusOK, tusfacturas.Schema())
}

// Helper functions

// serializeRequest decodes a DraftRequest, builds the draft and serializes it.
// It writes the error response itself and reports whether to continue.
func (s *Server) serializeRequest(c *gin.Context) (*tusfacturas.Serialization, bool) {
	var req DraftRequest
	if !readJSON(c, &req) {
		return nil, false
	}
	if req.Draft == nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "draft is required"})
		return nil, false
	}

	draft, ok := buildDraft(c, req.Draft)
	if !ok {
		return nil, false
	}

	serialization := tusfacturas.Serialize(draft, s.credentials(req.Credentials))
	s.metrics.observeDefaults(serialization.Defaults)
	return serialization, true
}

func (s *Server) credentials(override *model.Credentials) model.Credentials {
	creds := s.config.Credentials
	if override == nil {
		return creds
	}
	if override.UserToken != "" {
		creds.UserToken = override.UserToken
	}
	if override.APIKey != "" {
		creds.APIKey = override.APIKey
	}
	return creds
}

func readJSON(c *gin.Context, v interface{}) bool {
	body, err := c.GetRawData()
	if err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "failed to read request body"})
		return false
	}

	if len(body) == 0 {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "empty request body"})
		return false
	}

	if err := json.Unmarshal(body, v); err != nil {
		c.JSON(http.StatusBadRequest, ErrorResponse{Error: "invalid JSON", Details: err.Error()})
		return false
	}
	return true
}

func buildDraft(c *gin.Context, in *model.DraftInput) (*model.InvoiceDraft, bool) {
	draft, err := in.ToDraft()
	if err != nil {
		c.JSON(http.StatusUnprocessableEntity, ErrorResponse{Error: "invalid draft", Details: err.Error()})
		return nil, false
	}
	return draft, true
}
