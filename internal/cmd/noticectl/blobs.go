package noticectl

import (
	"errors"
	"fmt"

	"github.com/spf13/cobra"
)

// BlobsCmd groups blob storage maintenance.
var BlobsCmd = &cobra.Command{
	Use:   "blobs",
	Short: "Maintain notice payload storage",
}

// SweepCmd removes blobs no notice references.
var SweepCmd = &cobra.Command{
	Use:   "sweep",
	Short: "Delete unreferenced blobs",
	Args:  cobra.NoArgs,
	RunE: func(cmd *cobra.Command, _ []string) error {
		a, err := openApp(cmd.Context())
		if err != nil {
			return err
		}
		defer a.Close() //nolint:errcheck

		if a.Blobs == nil {
			return errors.New("blob storage is disabled; set BLOBS_ENABLED=true")
		}
		removed, err := a.Blobs.Sweep(cmd.Context())
		for _, key := range removed {
			fmt.Fprintln(cmd.OutOrStdout(), key)
		}
		if err != nil {
			return err
		}
		fmt.Fprintf(cmd.OutOrStdout(), "removed %d blobs\n", len(removed))
		return nil
	},
}

func init() {
	BlobsCmd.AddCommand(SweepCmd)
}
