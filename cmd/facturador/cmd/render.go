package cmd

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/render"
)

var (
	renderOutput string
	renderCheck  bool
)

var renderCmd = &cobra.Command{
	Use:   "render <draft.json>",
	Short: "Render a PDF preview of a draft",
	Long: `Render an A4 preview of a draft: header, client, items and totals.

Examples:
  facturador render draft.json
  facturador render draft.json -o preview.pdf`,
	Args: cobra.ExactArgs(1),
	RunE: runRender,
}

func init() {
	rootCmd.AddCommand(renderCmd)

	renderCmd.Flags().StringVarP(&renderOutput, "output", "o", "", "Output file (default: <draft>.pdf)")
	renderCmd.Flags().BoolVar(&renderCheck, "check", true, "Validate the generated PDF")
}

func runRender(cmd *cobra.Command, args []string) error {
	draft, err := readDraft(args[0])
	if err != nil {
		return err
	}

	data, err := render.RenderDraftBytes(draft)
	if err != nil {
		return err
	}

	if renderCheck {
		if err := render.Validate(data); err != nil {
			return err
		}
		printVerbose("PDF validated\n")
	}

	output := renderOutput
	if output == "" {
		output = strings.TrimSuffix(args[0], filepath.Ext(args[0])) + ".pdf"
	}

	if err := os.WriteFile(output, data, 0o644); err != nil {
		return fmt.Errorf("failed to write %s: %w", output, err)
	}

	fmt.Fprintf(cmd.OutOrStdout(), "Preview written to %s\n", output)
	return nil
}
