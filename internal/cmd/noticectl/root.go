package noticectl

import (
	"context"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/app"
	"github.com/noah-isme/campus-notice-api/pkg/config"
	"github.com/noah-isme/campus-notice-api/pkg/logger"
)

// RootCmd is the admin tool for the notice board backends.
var RootCmd = &cobra.Command{
	Use:           "noticectl",
	Short:         "Administer the campus notice board store",
	Long:          "noticectl imports legacy data.json files, dumps the stored document, exports the student login log and sweeps orphaned blobs. It reads the same .env and environment as the server.",
	SilenceUsage:  true,
	SilenceErrors: true,
}

func init() {
	RootCmd.AddCommand(ImportCmd)
	RootCmd.AddCommand(DumpCmd)
	RootCmd.AddCommand(ExportCmd)
	RootCmd.AddCommand(BlobsCmd)
}

// openApp wires the configured backends. The caller must Close the result.
func openApp(ctx context.Context) (*app.App, error) {
	cfg, err := config.Load()
	if err != nil {
		return nil, err
	}
	logr, err := logger.New(cfg)
	if err != nil {
		logr = zap.NewNop()
	}
	return app.New(ctx, cfg, logr)
}
