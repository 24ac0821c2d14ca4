package service

import (
	"context"
	"encoding/base64"
	"encoding/hex"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/gabriel-vasile/mimetype"
	"go.uber.org/zap"
	"golang.org/x/crypto/blake2b"

	"github.com/noah-isme/campus-notice-api/internal/models"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
	"github.com/noah-isme/campus-notice-api/pkg/jobs"
	"github.com/noah-isme/campus-notice-api/pkg/storage"
)

const blobReleaseJob = "blob.release"

type blobStorage interface {
	Put(ctx context.Context, key string, data []byte) error
	Get(ctx context.Context, key string) ([]byte, error)
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context) ([]string, error)
}

// documentViewer runs fn under the store's writer lock.
type documentViewer interface {
	View(ctx context.Context, fn func(doc models.Document) error) error
}

// BlobServiceConfig tunes the garbage collection queue.
type BlobServiceConfig struct {
	Workers    int
	RetryDelay time.Duration
}

// Blob is a stored payload ready to be served.
type Blob struct {
	Key      string
	MimeType string
	Data     []byte
}

// BlobService keeps notice payloads in content-addressed storage, keyed by the
// blake2b-256 digest of the decoded bytes, and collects unreferenced blobs.
type BlobService struct {
	storage   blobStorage
	documents documentViewer
	queue     *jobs.Queue
	metrics   *MetricsService
	logger    *zap.Logger
}

// NewBlobService constructs the service and its release queue. Call Start before serving.
func NewBlobService(store blobStorage, documents documentViewer, cfg BlobServiceConfig, metrics *MetricsService, logger *zap.Logger) *BlobService {
	if logger == nil {
		logger = zap.NewNop()
	}
	s := &BlobService{storage: store, documents: documents, metrics: metrics, logger: logger}
	s.queue = jobs.NewQueue("blob-gc", s.handleJob, jobs.QueueConfig{
		Workers:    cfg.Workers,
		RetryDelay: cfg.RetryDelay,
		Logger:     logger,
	})
	return s
}

// Start launches the release workers.
func (s *BlobService) Start(ctx context.Context) {
	s.queue.Start(ctx)
}

// Stop halts the release workers.
func (s *BlobService) Stop() {
	s.queue.Stop()
}

// Flush waits for pending releases.
func (s *BlobService) Flush(ctx context.Context) error {
	return s.queue.Flush(ctx)
}

// Externalize stores a base64 data URI payload and returns its key and MIME type.
// Payloads that are not base64 data URIs return an empty key and stay inline.
func (s *BlobService) Externalize(ctx context.Context, payload, declaredType string) (string, string, error) {
	mediaType, raw, ok, err := decodeDataURI(payload)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "invalid file data")
	}
	if !ok {
		return "", "", nil
	}

	sum := blake2b.Sum256(raw)
	key := hex.EncodeToString(sum[:])

	mimeType := declaredType
	if mimeType == "" {
		mimeType = mediaType
	}
	if mimeType == "" {
		mimeType = mimetype.Detect(raw).String()
	}

	err = s.storage.Put(ctx, key, raw)
	s.metrics.RecordBlobOperation("put", err)
	if err != nil {
		return "", "", appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error saving notice")
	}
	s.logger.Debug("notice payload stored", zap.String("blob", key), zap.Int("bytes", len(raw)), zap.String("mime", mimeType))
	return key, mimeType, nil
}

// Hydrate rebuilds the data URI for a stored payload.
func (s *BlobService) Hydrate(ctx context.Context, key, mimeType string) (string, error) {
	blob, err := s.Open(ctx, key)
	if err != nil {
		return "", err
	}
	if mimeType == "" {
		mimeType = blob.MimeType
	}
	return "data:" + mimeType + ";base64," + base64.StdEncoding.EncodeToString(blob.Data), nil
}

// Open loads a payload and sniffs its MIME type.
func (s *BlobService) Open(ctx context.Context, key string) (*Blob, error) {
	data, err := s.storage.Get(ctx, key)
	s.metrics.RecordBlobOperation("get", err)
	if err != nil {
		if errors.Is(err, storage.ErrObjectNotFound) {
			return nil, appErrors.Clone(appErrors.ErrNotFound, "blob not found")
		}
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to load blob")
	}
	return &Blob{Key: key, MimeType: mimetype.Detect(data).String(), Data: data}, nil
}

// Release schedules deletion of key once no notice references it.
func (s *BlobService) Release(key string) {
	if key == "" {
		return
	}
	if err := s.queue.Enqueue(jobs.Job{ID: key, Type: blobReleaseJob, Payload: key}); err != nil {
		s.logger.Warn("blob release queue unavailable, collecting inline", zap.String("blob", key), zap.Error(err))
		if err := s.collect(context.Background(), key); err != nil {
			s.logger.Error("blob release failed", zap.String("blob", key), zap.Error(err))
		}
	}
}

// Sweep deletes every stored blob no notice references and returns the removed keys.
func (s *BlobService) Sweep(ctx context.Context) ([]string, error) {
	keys, err := s.storage.Keys(ctx)
	if err != nil {
		return nil, fmt.Errorf("list blobs: %w", err)
	}
	removed := make([]string, 0)
	err = s.documents.View(ctx, func(doc models.Document) error {
		referenced := referencedKeys(doc)
		for _, key := range keys {
			if _, ok := referenced[key]; ok {
				continue
			}
			err := s.storage.Delete(ctx, key)
			s.metrics.RecordBlobOperation("delete", err)
			if err != nil {
				return fmt.Errorf("delete blob %s: %w", key, err)
			}
			removed = append(removed, key)
		}
		return nil
	})
	return removed, err
}

func (s *BlobService) handleJob(ctx context.Context, job jobs.Job) error {
	key, ok := job.Payload.(string)
	if !ok || job.Type != blobReleaseJob {
		return nil
	}
	return s.collect(ctx, key)
}

// collect deletes key unless a notice references it. Creates store their
// payload under the same lock, so a concurrent create of identical content
// either keeps the blob alive or puts it back.
func (s *BlobService) collect(ctx context.Context, key string) error {
	released := false
	err := s.documents.View(ctx, func(doc models.Document) error {
		if _, ok := referencedKeys(doc)[key]; ok {
			return nil
		}
		err := s.storage.Delete(ctx, key)
		s.metrics.RecordBlobOperation("delete", err)
		released = err == nil
		return err
	})
	if released {
		s.logger.Info("notice payload released", zap.String("blob", key))
	}
	return err
}

func referencedKeys(doc models.Document) map[string]struct{} {
	refs := make(map[string]struct{}, len(doc.Notices))
	for _, n := range doc.Notices {
		if n.BlobKey != "" {
			refs[n.BlobKey] = struct{}{}
		}
	}
	return refs
}

// decodeDataURI parses "data:[<mediatype>][;base64],<payload>". ok is false for
// anything that is not a base64 data URI.
func decodeDataURI(payload string) (mediaType string, raw []byte, ok bool, err error) {
	if !strings.HasPrefix(payload, "data:") {
		return "", nil, false, nil
	}
	header, body, found := strings.Cut(payload[len("data:"):], ",")
	if !found {
		return "", nil, false, errors.New("data URI missing payload separator")
	}
	params := strings.Split(header, ";")
	if params[len(params)-1] != "base64" {
		return "", nil, false, nil
	}
	raw, err = base64.StdEncoding.DecodeString(body)
	if err != nil {
		return "", nil, false, fmt.Errorf("decode base64 payload: %w", err)
	}
	return params[0], raw, true, nil
}
