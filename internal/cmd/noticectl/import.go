package noticectl

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"sort"

	"github.com/spf13/cobra"

	"github.com/noah-isme/campus-notice-api/internal/app"
	"github.com/noah-isme/campus-notice-api/internal/models"
)

// ImportCmd loads a legacy data.json into the configured store.
var ImportCmd = &cobra.Command{
	Use:   "import <data.json>",
	Short: "Import a legacy data.json document",
	Long:  "Merges notices and student logins from a legacy data.json into the configured store, skipping ids that already exist. With --replace the stored document is overwritten instead.",
	Args:  cobra.ExactArgs(1),
	RunE:  importExec,
}

func init() {
	ImportCmd.Flags().Bool("replace", false, "overwrite the stored document instead of merging")
}

type importStats struct {
	Notices     int
	Students    int
	Skipped     int
	Externalize int
}

func importExec(cmd *cobra.Command, args []string) error {
	replace, _ := cmd.Flags().GetBool("replace")

	raw, err := os.ReadFile(args[0])
	if err != nil {
		return fmt.Errorf("read legacy document: %w", err)
	}
	legacy := models.NewDocument()
	if err := json.Unmarshal(raw, &legacy); err != nil {
		return fmt.Errorf("decode legacy document: %w", err)
	}
	legacy.Normalize()

	a, err := openApp(cmd.Context())
	if err != nil {
		return err
	}
	defer a.Close() //nolint:errcheck

	stats, err := importDocument(cmd.Context(), a, legacy, replace)
	if err != nil {
		return err
	}
	fmt.Fprintf(cmd.OutOrStdout(), "imported %d notices and %d student logins into %s (%d skipped, %d payloads moved to blob storage)\n",
		stats.Notices, stats.Students, a.Store.Location(), stats.Skipped, stats.Externalize)
	return nil
}

func importDocument(ctx context.Context, a *app.App, legacy models.Document, replace bool) (importStats, error) {
	var stats importStats

	incoming := legacy.Clone()
	if a.Blobs != nil {
		for i, n := range incoming.Notices {
			if n.BlobKey != "" {
				continue
			}
			key, mimeType, err := a.Blobs.Externalize(ctx, n.Data, n.Type)
			if err != nil {
				return stats, fmt.Errorf("externalize notice %d: %w", n.ID, err)
			}
			if key == "" {
				continue
			}
			incoming.Notices[i].BlobKey = key
			incoming.Notices[i].Data = ""
			if n.Type == "" {
				incoming.Notices[i].Type = mimeType
			}
			stats.Externalize++
		}
	}

	err := a.Store.Update(ctx, func(doc *models.Document) error {
		if replace {
			*doc = incoming
			stats.Notices = len(incoming.Notices)
			stats.Students = len(incoming.Students)
			return nil
		}

		seenNotices := make(map[int64]struct{}, len(doc.Notices))
		for _, n := range doc.Notices {
			seenNotices[n.ID] = struct{}{}
		}
		for _, n := range incoming.Notices {
			if _, ok := seenNotices[n.ID]; ok {
				stats.Skipped++
				continue
			}
			doc.Notices = append(doc.Notices, n)
			stats.Notices++
		}

		seenStudents := make(map[int64]struct{}, len(doc.Students))
		for _, s := range doc.Students {
			seenStudents[s.ID] = struct{}{}
		}
		for _, s := range incoming.Students {
			if _, ok := seenStudents[s.ID]; ok {
				stats.Skipped++
				continue
			}
			doc.Students = append(doc.Students, s)
			stats.Students++
		}

		sort.SliceStable(doc.Notices, func(i, j int) bool { return doc.Notices[i].ID > doc.Notices[j].ID })
		sort.SliceStable(doc.Students, func(i, j int) bool { return doc.Students[i].ID < doc.Students[j].ID })
		return nil
	})
	return stats, err
}
