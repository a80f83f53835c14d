package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/tusfacturas"
)

var (
	serializeOutput string
	serializeCheck  bool
)

var serializeCmd = &cobra.Command{
	Use:   "serialize <draft.json>",
	Short: "Build the TusFacturasApp payload of a draft",
	Long: `Map a draft to the TusFacturasApp "nuevo comprobante" payload.

Document types map A=1, B=6, C=11, NC=3. Provinces map to their AFIP code.
Unknown values fall back to code 1 and are reported as warnings on stderr.
The point of sale is always 0001 and discounts are not sent.

Credentials come from --usertoken/--apikey, the config file or the
FACTURADOR_TUSFACTURAS_* environment variables.

Examples:
  facturador serialize draft.json
  facturador serialize draft.json -o payload.json --check`,
	Args: cobra.ExactArgs(1),
	RunE: runSerialize,
}

func init() {
	rootCmd.AddCommand(serializeCmd)

	serializeCmd.Flags().StringVarP(&serializeOutput, "output", "o", "", "Output file (default: stdout)")
	serializeCmd.Flags().BoolVar(&serializeCheck, "check", false, "Fail when the payload does not pass validation")
}

func runSerialize(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(args[0])
	if err != nil {
		return err
	}

	serialization := tusfacturas.Serialize(draft, credentials())
	printWarnings(cmd.ErrOrStderr(), serialization.Warnings())

	out, err := tusfacturas.Format(serialization.Payload)
	if err != nil {
		return fmt.Errorf("failed to format payload: %w", err)
	}

	w, closeFn, err := openOutput(cmd.OutOrStdout(), serializeOutput)
	if err != nil {
		return err
	}
	defer closeFn()

	if _, err := fmt.Fprintln(w, out); err != nil {
		return err
	}

	result := tusfacturas.Validate(serialization.Payload)
	if !result.Valid {
		for _, e := range result.Errors {
			printVerbose("  - %s\n", e)
		}
		if serializeCheck {
			return fmt.Errorf("payload is invalid: %d errors", len(result.Errors))
		}
	}

	return nil
}
