package cmd

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rezonia/facturador/internal/tusfacturas"
)

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a sample TusFacturasApp payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		out, err := tusfacturas.Format(tusfacturas.Example())
		if err != nil {
			return err
		}
		_, err = fmt.Fprintln(cmd.OutOrStdout(), out)
		return err
	},
}

var schemaCmd = &cobra.Command{
	Use:   "schema",
	Short: "Print the JSON schema of the TusFacturasApp payload",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		return writeJSON(cmd.OutOrStdout(), tusfacturas.Schema())
	},
}

func init() {
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(schemaCmd)
}
