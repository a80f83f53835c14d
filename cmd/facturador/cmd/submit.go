package cmd

import (
	"context"
	"errors"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/tusfacturas"
)

var submitDryRun bool

var submitCmd = &cobra.Command{
	Use:   "submit <draft.json>",
	Short: "Submit a draft to TusFacturasApp",
	Long: `Serialize a draft, validate the payload and send it to TusFacturasApp.

Nothing is sent when validation fails. On success the CAE and its
expiration date are printed.

Examples:
  facturador submit draft.json --usertoken <token> --apikey <key>
  facturador submit draft.json --dry-run`,
	Args: cobra.ExactArgs(1),
	RunE: runSubmit,
}

func init() {
	rootCmd.AddCommand(submitCmd)

	submitCmd.Flags().BoolVar(&submitDryRun, "dry-run", false, "Validate only, do not send")
}

func runSubmit(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(args[0])
	if err != nil {
		return err
	}

	serialization := tusfacturas.Serialize(draft, credentials())
	printWarnings(cmd.ErrOrStderr(), serialization.Warnings())

	out := cmd.OutOrStdout()
	if submitDryRun {
		result := tusfacturas.Validate(serialization.Payload)
		if err := writeJSON(out, result); err != nil {
			return err
		}
		if !result.Valid {
			return fmt.Errorf("payload is invalid")
		}
		return nil
	}

	ctx, cancel := context.WithTimeout(context.Background(), cfg.TusFacturas.Timeout)
	defer cancel()

	printVerbose("Submitting %s (%d products)\n", args[0], len(serialization.Payload.Document.Products))

	resp, err := newClient().Submit(ctx, serialization.Payload)
	if err != nil {
		var submitErr *tusfacturas.SubmitError
		if errors.As(err, &submitErr) {
			_ = writeJSON(out, submitErr.Validation)
		} else if resp != nil {
			_ = writeJSON(out, resp)
		}
		return err
	}

	if outputFormat == "table" {
		fmt.Fprintf(out, "CAE:         %s\n", resp.CAE)
		fmt.Fprintf(out, "Vencimiento: %s\n", resp.CAEExpiration)
		fmt.Fprintf(out, "Comprobante: %s\n", resp.Number)
		return nil
	}
	return writeJSON(out, resp)
}
