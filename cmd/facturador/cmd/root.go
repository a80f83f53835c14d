package cmd

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/config"
	"github.com/rezonia/facturador/internal/model"
	"github.com/rezonia/facturador/internal/tusfacturas"
)

var (
	version = "1.0.0"

	// Global flags
	verbose        bool
	outputFormat   string
	configPath     string
	userToken      string
	apiKey         string
	tusfacturasURL string

	cfg *config.Config
)

var rootCmd = &cobra.Command{
	Use:   "facturador",
	Short: "Build, check and submit AFIP invoices through TusFacturasApp",
	Long: `Facturador computes invoice totals and turns invoice drafts into
TusFacturasApp (AFIP) payloads.

Drafts are JSON files with a type (A, B, C, NC), a client and items.
Repeated products are merged into one line.

Examples:
  # Show totals of a draft
  facturador totals draft.json

  # Build the provider payload and check it
  facturador serialize draft.json --usertoken <token> --apikey <key>
  facturador validate payload.json

  # Submit to TusFacturasApp
  facturador submit draft.json

  # Render a PDF preview
  facturador render draft.json -o preview.pdf`,
	Version:           version,
	SilenceUsage:      true,
	PersistentPreRunE: loadConfig,
}

func Execute() error {
	return rootCmd.Execute()
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable verbose output")
	rootCmd.PersistentFlags().StringVarP(&outputFormat, "format", "f", "json", "Output format (json, table)")
	rootCmd.PersistentFlags().StringVarP(&configPath, "config", "c", "", "Config file (YAML)")
	rootCmd.PersistentFlags().StringVar(&userToken, "usertoken", "", "TusFacturasApp user token (env: FACTURADOR_TUSFACTURAS_USERTOKEN)")
	rootCmd.PersistentFlags().StringVar(&apiKey, "apikey", "", "TusFacturasApp API key (env: FACTURADOR_TUSFACTURAS_APIKEY)")
	rootCmd.PersistentFlags().StringVar(&tusfacturasURL, "tusfacturas-url", "", "TusFacturasApp API base URL (env: FACTURADOR_TUSFACTURAS_BASE_URL)")
}

// loadConfig reads file and environment settings; flags win over both
func loadConfig(cmd *cobra.Command, args []string) error {
	loaded, err := config.Load(configPath)
	if err != nil {
		return err
	}

	if userToken != "" {
		loaded.TusFacturas.UserToken = userToken
	}
	if apiKey != "" {
		loaded.TusFacturas.APIKey = apiKey
	}
	if tusfacturasURL != "" {
		loaded.TusFacturas.BaseURL = tusfacturasURL
	}

	cfg = loaded
	printVerbose("Using TusFacturasApp at %s\n", cfg.TusFacturas.BaseURL)
	return nil
}

func credentials() model.Credentials {
	return model.Credentials{
		UserToken: cfg.TusFacturas.UserToken,
		APIKey:    cfg.TusFacturas.APIKey,
	}
}

func newClient() *tusfacturas.Client {
	return tusfacturas.NewClient(
		tusfacturas.WithBaseURL(cfg.TusFacturas.BaseURL),
		tusfacturas.WithTimeout(cfg.TusFacturas.Timeout),
	)
}

func printVerbose(format string, args ...interface{}) {
	if verbose {
		fmt.Fprintf(os.Stderr, format, args...)
	}
}

func printWarnings(w io.Writer, warnings []string) {
	for _, warning := range warnings {
		fmt.Fprintf(w, "⚠ %s\n", warning)
	}
}
