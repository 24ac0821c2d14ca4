package service

import (
	"context"
	"strings"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/models"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
)

type noticeBlobs interface {
	Externalize(ctx context.Context, payload, declaredType string) (key, mimeType string, err error)
	Hydrate(ctx context.Context, key, mimeType string) (string, error)
	Release(key string)
}

// NoticeService handles notice publishing workflows.
type NoticeService struct {
	store     documentStore
	blobs     noticeBlobs
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewNoticeService constructs the service. blobs may be nil to keep payloads inline.
func NewNoticeService(store documentStore, blobs noticeBlobs, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *NoticeService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &NoticeService{store: store, blobs: blobs, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

// List returns notices newest first, optionally narrowed to a department and ALL.
func (s *NoticeService) List(ctx context.Context, filter dto.NoticeFilter) ([]models.Notice, error) {
	doc := s.store.Read(ctx)
	dept := strings.TrimSpace(filter.Dept)

	notices := make([]models.Notice, 0, len(doc.Notices))
	for _, n := range doc.Notices {
		if dept != "" && !n.VisibleTo(dept) {
			continue
		}
		notices = append(notices, s.present(ctx, n))
	}
	return notices, nil
}

// Create validates and prepends a new notice.
func (s *NoticeService) Create(ctx context.Context, req dto.CreateNoticeRequest) (*models.Notice, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Title and file data are required")
	}

	now := s.now()
	notice := models.Notice{
		Title: req.Title,
		Dept:  req.Dept,
		Data:  req.Data,
		Type:  req.Type,
		Date:  req.Date,
	}
	if notice.Date == "" {
		notice.Date = now.Format(displayDateLayout)
	}

	var blobErr error
	err := s.store.Update(ctx, func(doc *models.Document) error {
		// Blob GC checks references under the same writer lock.
		if s.blobs != nil {
			key, mimeType, err := s.blobs.Externalize(ctx, req.Data, req.Type)
			if err != nil {
				blobErr = err
				return err
			}
			if key != "" {
				notice.BlobKey = key
				notice.Data = ""
				if notice.Type == "" {
					notice.Type = mimeType
				}
			}
		}
		notice.ID = nextID(now, doc.MaxNoticeID())
		doc.Notices = append([]models.Notice{notice}, doc.Notices...)
		return nil
	})
	if blobErr != nil {
		return nil, blobErr
	}
	if err != nil {
		if notice.BlobKey != "" {
			s.blobs.Release(notice.BlobKey)
		}
		return nil, s.internal(err, "Error saving notice")
	}
	s.metrics.NoticeCreated()
	s.logger.Info("notice published", zap.Int64("id", notice.ID), zap.String("dept", notice.Dept), zap.Bool("blob", notice.BlobKey != ""))

	created := notice
	created.Data = req.Data
	created.BlobKey = ""
	return &created, nil
}

// Delete removes the notice with id. Missing ids are not an error.
func (s *NoticeService) Delete(ctx context.Context, id int64) error {
	var released string
	removed := false
	err := s.store.Update(ctx, func(doc *models.Document) error {
		kept := make([]models.Notice, 0, len(doc.Notices))
		for _, n := range doc.Notices {
			if n.ID == id {
				removed = true
				released = n.BlobKey
				continue
			}
			kept = append(kept, n)
		}
		doc.Notices = kept
		if released != "" {
			for _, n := range kept {
				if n.BlobKey == released {
					released = ""
					break
				}
			}
		}
		return nil
	})
	if err != nil {
		return s.internal(err, "Error deleting notice")
	}
	if removed {
		s.metrics.NoticeDeleted()
		s.logger.Info("notice deleted", zap.Int64("id", id))
	}
	if released != "" && s.blobs != nil {
		s.blobs.Release(released)
	}
	return nil
}

func (s *NoticeService) present(ctx context.Context, n models.Notice) models.Notice {
	if n.BlobKey == "" || s.blobs == nil {
		n.BlobKey = ""
		return n
	}
	data, err := s.blobs.Hydrate(ctx, n.BlobKey, n.Type)
	if err != nil {
		s.logger.Warn("notice payload unavailable", zap.Int64("id", n.ID), zap.String("blob", n.BlobKey), zap.Error(err))
	} else {
		n.Data = data
	}
	n.BlobKey = ""
	return n
}

func (s *NoticeService) internal(err error, message string) error {
	wrapped := appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, message)
	return appErrors.WithDetail(wrapped, s.store.Location())
}
