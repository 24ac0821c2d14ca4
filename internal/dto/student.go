package dto

// CreateStudentLoginRequest is the student sign-in payload.
type CreateStudentLoginRequest struct {
	Name string `json:"name" form:"name" validate:"required"`
	Dept string `json:"dept" form:"dept" validate:"required"`
}

// ExportFormat selects the student log export encoding.
type ExportFormat string

const (
	ExportFormatCSV ExportFormat = "csv"
	ExportFormatPDF ExportFormat = "pdf"
)

// ExportFile is a rendered export ready to be served as an attachment.
type ExportFile struct {
	Filename    string
	ContentType string
	Body        []byte
}
