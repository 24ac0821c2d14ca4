package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"net/url"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"

	"github.com/noah-isme/campus-notice-api/internal/repository"
	"github.com/noah-isme/campus-notice-api/internal/service"
	"github.com/noah-isme/campus-notice-api/pkg/storage"
)

type readOnlyPersister struct{}

func (readOnlyPersister) Load(context.Context) ([]byte, error) {
	return nil, repository.ErrDocumentNotFound
}

func (readOnlyPersister) Save(context.Context, []byte) error {
	return errors.New("open /var/task/data.json: read-only file system")
}

func (readOnlyPersister) Location() string { return "/var/task/data.json" }

type testServer struct {
	router *gin.Engine
	store  *repository.DocumentStore
}

// newTestServer wires the handlers over a fresh store. Passing objects turns on blob mode.
func newTestServer(t *testing.T, persister repository.DocumentPersister, objects *storage.LocalStorage) *testServer {
	t.Helper()
	gin.SetMode(gin.TestMode)
	if persister == nil {
		persister = repository.NewFilePersister(filepath.Join(t.TempDir(), "data.json"))
	}
	store := repository.NewDocumentStore(persister, repository.DocumentStoreOptions{SerializeWrites: true})

	var blobs *service.BlobService
	if objects != nil {
		blobs = service.NewBlobService(objects, store, service.BlobServiceConfig{RetryDelay: 10 * time.Millisecond}, nil, nil)
		blobs.Start(context.Background())
		t.Cleanup(blobs.Stop)
	}

	var notices *service.NoticeService
	if blobs != nil {
		notices = service.NewNoticeService(store, blobs, nil, nil, nil)
	} else {
		notices = service.NewNoticeService(store, nil, nil, nil, nil)
	}
	students := service.NewStudentService(store, nil, nil, nil)
	noticeHandler := NewNoticeHandler(notices)
	studentHandler := NewStudentHandler(students, service.NewExportService(students, nil))
	health := NewMetricsHandler(service.NewMetricsService(), store)

	r := gin.New()
	r.GET("/", health.Root)
	r.GET("/ready", health.Ready)
	r.GET("/metrics", health.Prometheus)
	r.GET("/api/notices", noticeHandler.List)
	r.POST("/api/notices", noticeHandler.Create)
	r.DELETE("/api/notices/:id", noticeHandler.Delete)
	r.POST("/api/students", studentHandler.Create)
	r.GET("/api/students", studentHandler.List)
	r.GET("/api/students/export", studentHandler.Export)
	if blobs != nil {
		r.GET("/api/blobs/:key", NewBlobHandler(blobs).Get)
	}
	return &testServer{router: r, store: store}
}

func (s *testServer) do(method, path string, body interface{}) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	switch v := body.(type) {
	case nil:
	case string:
		buf.WriteString(v)
	default:
		_ = json.NewEncoder(&buf).Encode(v)
	}
	req := httptest.NewRequest(method, path, &buf)
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *testServer) postForm(path string, values url.Values) *httptest.ResponseRecorder {
	req := httptest.NewRequest(http.MethodPost, path, strings.NewReader(values.Encode()))
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func decode(t *testing.T, w *httptest.ResponseRecorder, out interface{}) {
	t.Helper()
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), out), w.Body.String())
}
