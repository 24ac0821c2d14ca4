package noticectl

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

// ExportCmd writes the student login log to a file.
var ExportCmd = &cobra.Command{
	Use:   "export",
	Short: "Export the student login log as CSV or PDF",
	Args:  cobra.NoArgs,
	RunE:  exportExec,
}

func init() {
	ExportCmd.Flags().StringP("format", "f", "csv", "csv or pdf")
	ExportCmd.Flags().StringP("output", "o", "", "output path (defaults to the generated file name)")
}

func exportExec(cmd *cobra.Command, _ []string) error {
	format, _ := cmd.Flags().GetString("format")
	output, _ := cmd.Flags().GetString("output")

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	file, err := a.Exports.ExportStudents(cmd.Context(), format)
	if err != nil {
		return err
	}
	if output == "" {
		output = file.Filename
	}
	if err := os.WriteFile(output, file.Body, 0o644); err != nil {
		return fmt.Errorf("write export: %w", err)
	}
	fmt.Fprintf(cmd.OutOrStdout(), "wrote %s (%d bytes)\n", output, len(file.Body))
	return nil
}
