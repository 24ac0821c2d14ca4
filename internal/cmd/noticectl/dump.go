package noticectl

import (
	"encoding/json"

	"github.com/spf13/cobra"
)

// DumpCmd prints the stored document as JSON.
var DumpCmd = &cobra.Command{
	Use:   "dump",
	Short: "Print the stored document",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		enc := json.NewEncoder(cmd.OutOrStdout())
		enc.SetIndent("", "  ")
		return enc.Encode(a.Store.Read(cmd.Context()))
	},
}
