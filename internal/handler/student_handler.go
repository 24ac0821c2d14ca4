package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/service"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
	"github.com/noah-isme/campus-notice-api/pkg/response"
)

// StudentHandler exposes student login endpoints.
type StudentHandler struct {
	students *service.StudentService
	exports  *service.ExportService
}

// NewStudentHandler constructs StudentHandler.
func NewStudentHandler(students *service.StudentService, exports *service.ExportService) *StudentHandler {
	return &StudentHandler{students: students, exports: exports}
}

// Create godoc
// @Summary Record student login
// @Tags Students
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.CreateStudentLoginRequest true "Login payload"
// @Success 201 {object} models.StudentLogin
// @Failure 400 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/students [post]
func (h *StudentHandler) Create(c *gin.Context) {
	var req dto.CreateStudentLoginRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	login, err := h.students.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, login)
}

// List godoc
// @Summary List student logins
// @Description Oldest first.
// @Tags Students
// @Produce json
// @Success 200 {array} models.StudentLogin
// @Failure 500 {object} errors.Error
// @Router /api/students [get]
func (h *StudentHandler) List(c *gin.Context) {
	students, err := h.students.List(c.Request.Context())
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error reading students"))
		return
	}
	response.JSON(c, http.StatusOK, students)
}

// Export godoc
// @Summary Download the student login log
// @Tags Students
// @Produce text/csv
// @Produce application/pdf
// @Param format query string false "csv or pdf" Enums(csv, pdf)
// @Success 200 {file} file
// @Failure 400 {object} errors.Error
// @Router /api/students/export [get]
func (h *StudentHandler) Export(c *gin.Context) {
	file, err := h.exports.ExportStudents(c.Request.Context(), c.Query("format"))
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Attachment(c, file.Filename, file.ContentType, file.Body)
}
