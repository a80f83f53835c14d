package cmd

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/server"
)

var (
	serverAddr   string
	serverDebug  bool
	readTimeout  time.Duration
	writeTimeout time.Duration
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the HTTP API server",
	Long: `Start an HTTP API server for the invoicing frontend.

The API provides endpoints for:
  - POST /api/v1/invoices/totals          - Recompute draft totals
  - POST /api/v1/invoices/preview.pdf     - Render a PDF preview
  - POST /api/v1/tusfacturas/serialize    - Build the provider payload
  - POST /api/v1/tusfacturas/validate     - Validate a payload
  - POST /api/v1/tusfacturas/submit       - Submit a draft
  - GET  /api/v1/tusfacturas/example      - Sample payload
  - GET  /api/v1/tusfacturas/schema       - Payload JSON schema
  - GET  /health                          - Health check
  - GET  /metrics                         - Prometheus metrics

Examples:
  # Start server with settings from the config file and environment
  facturador serve --config facturador.yaml

  # Start on custom port in debug mode
  facturador serve --address :9090 --debug`,
	RunE: runServe,
}

func init() {
	rootCmd.AddCommand(serveCmd)

	serveCmd.Flags().StringVar(&serverAddr, "address", "", "Server listen address (default from config, 0.0.0.0:8080)")
	serveCmd.Flags().BoolVar(&serverDebug, "debug", false, "Enable debug mode")
	serveCmd.Flags().DurationVar(&readTimeout, "read-timeout", 30*time.Second, "HTTP read timeout")
	serveCmd.Flags().DurationVar(&writeTimeout, "write-timeout", 2*time.Minute, "HTTP write timeout")
}

func runServe(cmd *cobra.Command, args []string) error {
	addr := serverAddr
	if addr == "" {
		addr = cfg.Addr()
	}

	config := &server.Config{
		Address:            addr,
		ReadTimeout:        readTimeout,
		WriteTimeout:       writeTimeout,
		Debug:              serverDebug || cfg.Server.Debug,
		CorsAllowedOrigins: cfg.Server.CorsAllowedOrigins,
		CorsAllowedMethods: cfg.Server.CorsAllowedMethods,
		CorsAllowedHeaders: cfg.Server.CorsAllowedHeaders,
		Credentials:        credentials(),
		TusFacturasBaseURL: cfg.TusFacturas.BaseURL,
		TusFacturasTimeout: cfg.TusFacturas.Timeout,
	}

	srv := server.NewServer(config)

	// Handle graceful shutdown
	go func() {
		sigCh := make(chan os.Signal, 1)
		signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
		<-sigCh
		fmt.Println("\nShutting down server...")
		os.Exit(0)
	}()

	fmt.Printf("Starting server on %s\n", addr)
	if config.Credentials.UserToken != "" && config.Credentials.APIKey != "" {
		fmt.Println("Default TusFacturasApp credentials loaded")
	} else {
		fmt.Println("No default TusFacturasApp credentials (requests must carry their own)")
	}

	return srv.Run()
}
