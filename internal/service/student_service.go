package service

import (
	"context"
	"time"

	"github.com/go-playground/validator/v10"
	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/models"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
)

// StudentService records and lists student logins.
type StudentService struct {
	store     documentStore
	validator *validator.Validate
	metrics   *MetricsService
	logger    *zap.Logger
	now       func() time.Time
}

// NewStudentService constructs StudentService.
func NewStudentService(store documentStore, validate *validator.Validate, metrics *MetricsService, logger *zap.Logger) *StudentService {
	if validate == nil {
		validate = validator.New()
	}
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StudentService{store: store, validator: validate, metrics: metrics, logger: logger, now: time.Now}
}

// Create appends a login record.
func (s *StudentService) Create(ctx context.Context, req dto.CreateStudentLoginRequest) (*models.StudentLogin, error) {
	if err := s.validator.Struct(req); err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrValidation.Code, appErrors.ErrValidation.Status, "Name and Dept are required")
	}

	now := s.now()
	login := models.StudentLogin{
		Name:      req.Name,
		Dept:      req.Dept,
		LoginTime: now.UTC().Format(loginTimeLayout),
	}
	err := s.store.Update(ctx, func(doc *models.Document) error {
		login.ID = nextID(now, doc.MaxStudentID())
		doc.Students = append(doc.Students, login)
		return nil
	})
	if err != nil {
		wrapped := appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error saving student data")
		return nil, appErrors.WithDetail(wrapped, s.store.Location())
	}
	s.metrics.StudentLoggedIn()
	s.logger.Info("student login recorded", zap.Int64("id", login.ID), zap.String("dept", login.Dept))
	return &login, nil
}

// List returns every login oldest first.
func (s *StudentService) List(ctx context.Context) ([]models.StudentLogin, error) {
	return s.store.Read(ctx).Students, nil
}

// ListLatest returns every login newest first.
func (s *StudentService) ListLatest(ctx context.Context) ([]models.StudentLogin, error) {
	students, err := s.List(ctx)
	if err != nil {
		return nil, err
	}
	for i, j := 0, len(students)-1; i < j; i, j = i+1, j-1 {
		students[i], students[j] = students[j], students[i]
	}
	return students, nil
}
