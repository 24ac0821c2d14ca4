package noticectl

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-notice-api/internal/app"
	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/models"
	"github.com/noah-isme/campus-notice-api/pkg/config"
)

func newImportApp(t *testing.T, blobs bool) *app.App {
	t.Helper()
	cfg := config.Default()
	dir := t.TempDir()
	cfg.Store.DataFile = filepath.Join(dir, "data.json")
	cfg.Blobs.Enabled = blobs
	cfg.Blobs.StorageDir = filepath.Join(dir, "blobs")
	a, err := app.New(context.Background(), cfg, nil)
	require.NoError(t, err)
	t.Cleanup(func() { _ = a.Close() })
	return a
}

func legacyDocument() models.Document {
	return models.Document{
		Notices: []models.Notice{
			{ID: 1704067200000, Title: "Exam Schedule", Dept: "CSE", Data: "data:application/pdf;base64,JVBERi0xLjQ=", Type: "application/pdf", Date: "01 Jan 2024"},
			{ID: 1703980800000, Title: "Holiday", Dept: "ALL", Data: "https://cdn.example.edu/holiday.png", Type: "image/png", Date: "31 Dec 2023"},
		},
		Students: []models.StudentLogin{
			{ID: 1703980900000, Name: "Asha", Dept: "CSE", LoginTime: "2023-12-31T00:01:40.000Z"},
		},
	}
}

func TestImportMergesAndSkipsExistingIDs(t *testing.T) {
	a := newImportApp(t, false)
	ctx := context.Background()
	require.NoError(t, a.Store.Write(ctx, models.Document{
		Notices: []models.Notice{{ID: 1704153600000, Title: "Newer"}, {ID: 1704067200000, Title: "Exam Schedule (kept)"}},
	}))

	stats, err := importDocument(ctx, a, legacyDocument(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Notices)
	assert.Equal(t, 1, stats.Students)
	assert.Equal(t, 1, stats.Skipped)

	doc := a.Store.Read(ctx)
	require.Len(t, doc.Notices, 3)
	assert.Equal(t, "Newer", doc.Notices[0].Title)
	assert.Equal(t, "Exam Schedule (kept)", doc.Notices[1].Title)
	assert.Equal(t, "Holiday", doc.Notices[2].Title)
	require.Len(t, doc.Students, 1)
}

func TestImportReplace(t *testing.T) {
	a := newImportApp(t, false)
	ctx := context.Background()
	require.NoError(t, a.Store.Write(ctx, models.Document{Notices: []models.Notice{{ID: 5, Title: "Gone"}}}))

	stats, err := importDocument(ctx, a, legacyDocument(), true)
	require.NoError(t, err)
	assert.Equal(t, 2, stats.Notices)
	assert.Equal(t, legacyDocument().Notices, a.Store.Read(ctx).Notices)
}

func TestImportExternalizesDataURIs(t *testing.T) {
	a := newImportApp(t, true)
	ctx := context.Background()

	stats, err := importDocument(ctx, a, legacyDocument(), false)
	require.NoError(t, err)
	assert.Equal(t, 1, stats.Externalize)

	doc := a.Store.Read(ctx)
	require.Len(t, doc.Notices, 2)
	assert.NotEmpty(t, doc.Notices[0].BlobKey)
	assert.Empty(t, doc.Notices[0].Data)
	assert.Empty(t, doc.Notices[1].BlobKey)
	assert.Equal(t, "https://cdn.example.edu/holiday.png", doc.Notices[1].Data)

	notices, err := a.Notices.List(ctx, dto.NoticeFilter{})
	require.NoError(t, err)
	assert.Equal(t, "data:application/pdf;base64,JVBERi0xLjQ=", notices[0].Data)
}

func TestImportCommandReadsLegacyFile(t *testing.T) {
	dir := t.TempDir()
	legacy := filepath.Join(dir, "legacy.json")
	require.NoError(t, os.WriteFile(legacy, []byte(`{"notices":[{"id":1,"title":"Old","dept":"ALL","data":"x","type":"text/plain","date":"01 Jan 2020"}]}`), 0o644))
	t.Setenv("DATA_FILE", filepath.Join(dir, "data.json"))
	t.Setenv("ENABLE_METRICS", "false")

	out := &bytes.Buffer{}
	RootCmd.SetOut(out)
	RootCmd.SetArgs([]string{"import", legacy})
	require.NoError(t, RootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), "imported 1 notices and 0 student logins")

	out.Reset()
	RootCmd.SetArgs([]string{"dump"})
	require.NoError(t, RootCmd.ExecuteContext(context.Background()))
	assert.Contains(t, out.String(), `"title": "Old"`)
	assert.Contains(t, out.String(), `"students": []`)
}
