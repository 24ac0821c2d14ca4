package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	"go.uber.org/zap"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/models"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
	"github.com/noah-isme/campus-notice-api/pkg/export"
)

type studentLister interface {
	ListLatest(ctx context.Context) ([]models.StudentLogin, error)
}

type datasetRenderer interface {
	Render(data export.Dataset, title string) ([]byte, error)
	ContentType() string
}

var studentExportHeaders = []string{"ID", "Name", "Dept", "Login Time"}

// ExportService renders the student login log for admins.
type ExportService struct {
	students  studentLister
	renderers map[dto.ExportFormat]datasetRenderer
	logger    *zap.Logger
	now       func() time.Time
}

// NewExportService wires the CSV and PDF renderers.
func NewExportService(students studentLister, logger *zap.Logger) *ExportService {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ExportService{
		students: students,
		renderers: map[dto.ExportFormat]datasetRenderer{
			dto.ExportFormatCSV: export.NewCSVExporter(),
			dto.ExportFormatPDF: export.NewPDFExporter(),
		},
		logger: logger,
		now:    time.Now,
	}
}

// ExportStudents renders every login newest first.
func (s *ExportService) ExportStudents(ctx context.Context, format string) (*dto.ExportFile, error) {
	f := dto.ExportFormat(strings.ToLower(strings.TrimSpace(format)))
	if f == "" {
		f = dto.ExportFormatCSV
	}
	renderer, ok := s.renderers[f]
	if !ok {
		return nil, appErrors.Clone(appErrors.ErrValidation, "format must be csv or pdf")
	}

	students, err := s.students.ListLatest(ctx)
	if err != nil {
		return nil, err
	}
	data := export.Dataset{Headers: studentExportHeaders, Rows: make([]map[string]string, 0, len(students))}
	for _, st := range students {
		data.Rows = append(data.Rows, map[string]string{
			"ID":         fmt.Sprintf("%d", st.ID),
			"Name":       st.Name,
			"Dept":       st.Dept,
			"Login Time": st.LoginTime,
		})
	}

	body, err := renderer.Render(data, "Student login log")
	if err != nil {
		return nil, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "failed to render export")
	}
	s.logger.Info("student log exported", zap.String("format", string(f)), zap.Int("rows", len(students)))
	return &dto.ExportFile{
		Filename:    fmt.Sprintf("student-logins-%s.%s", s.now().UTC().Format("20060102-150405"), f),
		ContentType: renderer.ContentType(),
		Body:        body,
	}, nil
}
