package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/tusfacturas"
)

var validateDrafts bool

var validateCmd = &cobra.Command{
	Use:   "validate [files...]",
	Short: "Validate TusFacturasApp payload files",
	Long: `Check payloads before they are submitted.

Checks performed:
  - Credentials present (usertoken, apikey)
  - Client block complete (documento_tipo, documento_nro, razon_social, ...)
  - Document block complete (tipo_cbte, pto_vta, productos)
  - Every product has codigo, descripcion, cantidad > 0, precio_unitario > 0, iva >= 0

All checks run; every problem is listed.

Examples:
  facturador validate payload.json
  facturador validate --drafts drafts/`,
	Args: cobra.MinimumNArgs(1),
	RunE: runValidate,
}

func init() {
	rootCmd.AddCommand(validateCmd)

	validateCmd.Flags().BoolVar(&validateDrafts, "drafts", false, "Inputs are drafts; serialize them before validating")
}

// ValidationResult holds the result of validating a single file
type ValidationResult struct {
	File     string   `json:"file"`
	Valid    bool     `json:"valid"`
	Errors   []string `json:"errors"`
	Warnings []string `json:"warnings,omitempty"`
}

func runValidate(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found to validate")
	}

	results := make([]*ValidationResult, 0, len(files))
	allValid := true

	for _, file := range files {
		result := validateFile(file)
		results = append(results, result)

		if !result.Valid {
			allValid = false
		}
	}

	out := cmd.OutOrStdout()
	if outputFormat == "json" {
		if err := writeJSON(out, results); err != nil {
			return err
		}
	} else {
		for _, r := range results {
			if r.Valid {
				fmt.Fprintf(out, "✓ %s: VALID\n", r.File)
			} else {
				fmt.Fprintf(out, "✗ %s: INVALID\n", r.File)
				for _, e := range r.Errors {
					fmt.Fprintf(out, "  - %s\n", e)
				}
			}
			printWarnings(out, r.Warnings)
		}
	}

	if !allValid {
		return fmt.Errorf("validation failed for some files")
	}

	return nil
}

func validateFile(path string) *ValidationResult {
	result := &ValidationResult{File: path}

	var payload *tusfacturas.Payload
	if validateDrafts {
		draft, err := readDraft(path)
		if err != nil {
			result.Errors = []string{err.Error()}
			return result
		}
		serialization := tusfacturas.Serialize(draft, credentials())
		payload = serialization.Payload
		result.Warnings = serialization.Warnings()
	} else {
		p, err := readPayload(path)
		if err != nil {
			result.Errors = []string{err.Error()}
			return result
		}
		payload = p
	}

	validation := tusfacturas.Validate(payload)
	result.Valid = validation.Valid
	result.Errors = validation.Errors
	return result
}
