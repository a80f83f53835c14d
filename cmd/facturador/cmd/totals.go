package cmd

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"

	dec "github.com/rezonia/facturador/internal/decimal"
	"github.com/rezonia/facturador/internal/model"
)

var totalsOutput string

var totalsCmd = &cobra.Command{
	Use:   "totals [files...]",
	Short: "Compute invoice totals of draft files",
	Long: `Build each draft through the line-item aggregator and print its totals.

Line total = unit price * quantity - discount
Subtotal   = sum of line totals
IVA        = sum of line total * rate / 100
Total      = subtotal + IVA

Examples:
  facturador totals draft.json
  facturador totals drafts/ -f table`,
	Args: cobra.MinimumNArgs(1),
	RunE: runTotals,
}

func init() {
	rootCmd.AddCommand(totalsCmd)

	totalsCmd.Flags().StringVarP(&totalsOutput, "output", "o", "", "Output file (default: stdout)")
}

// TotalsResult holds the totals of a single draft file
type TotalsResult struct {
	File  string              `json:"file"`
	Draft *model.InvoiceDraft `json:"draft,omitempty"`
	Error string              `json:"error,omitempty"`
}

func runTotals(cmd *cobra.Command, args []string) error {
	files, err := collectFiles(args)
	if err != nil {
		return err
	}

	if len(files) == 0 {
		return fmt.Errorf("no files found")
	}

	printVerbose("Found %d drafts\n", len(files))

	results := make([]*TotalsResult, 0, len(files))
	failed := false
	for _, file := range files {
		result := &TotalsResult{File: file}

		draft, err := readDraft(file)
		if err != nil {
			result.Error = err.Error()
			failed = true
			printVerbose("  Error: %s\n", result.Error)
		} else {
			result.Draft = draft
			printVerbose("%s: %d items\n", file, len(draft.Items))
		}
		results = append(results, result)
	}

	w, closeFn, err := openOutput(cmd.OutOrStdout(), totalsOutput)
	if err != nil {
		return err
	}
	defer closeFn()

	switch outputFormat {
	case "json":
		err = writeJSON(w, results)
	case "table":
		err = totalsTable(w, results)
	default:
		err = fmt.Errorf("unsupported output format: %s", outputFormat)
	}
	if err != nil {
		return err
	}

	if failed {
		return fmt.Errorf("some drafts could not be read")
	}
	return nil
}

func totalsTable(w io.Writer, results []*TotalsResult) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "FILE\tTYPE\tITEMS\tSUBTOTAL\tIVA\tTOTAL")
	fmt.Fprintln(tw, "----\t----\t-----\t--------\t---\t-----")

	for _, r := range results {
		if r.Error != "" {
			fmt.Fprintf(tw, "%s\tERROR: %s\t\t\t\t\n", r.File, r.Error)
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\t%s\t%s\t%s\n",
			r.File,
			r.Draft.Type,
			len(r.Draft.Items),
			dec.FormatARS(r.Draft.Subtotal),
			dec.FormatARS(r.Draft.VATTotal),
			dec.FormatARS(r.Draft.GrandTotal),
		)
	}

	return tw.Flush()
}
