package handler

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-notice-api/internal/dto"
	"github.com/noah-isme/campus-notice-api/internal/service"
	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
	"github.com/noah-isme/campus-notice-api/pkg/response"
)

// NoticeHandler exposes the notice board endpoints.
type NoticeHandler struct {
	notices *service.NoticeService
}

// NewNoticeHandler constructs NoticeHandler.
func NewNoticeHandler(notices *service.NoticeService) *NoticeHandler {
	return &NoticeHandler{notices: notices}
}

// List godoc
// @Summary List notices
// @Description Returns notices newest first. dept narrows the list to that department and ALL.
// @Tags Notices
// @Produce json
// @Param dept query string false "Department"
// @Success 200 {array} models.Notice
// @Failure 500 {object} errors.Error
// @Router /api/notices [get]
func (h *NoticeHandler) List(c *gin.Context) {
	var filter dto.NoticeFilter
	if err := c.ShouldBindQuery(&filter); err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "invalid query parameters"))
		return
	}
	notices, err := h.notices.List(c.Request.Context(), filter)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrInternal.Code, appErrors.ErrInternal.Status, "Error reading notices"))
		return
	}
	response.JSON(c, http.StatusOK, notices)
}

// Create godoc
// @Summary Publish notice
// @Tags Notices
// @Accept json,x-www-form-urlencoded
// @Produce json
// @Param payload body dto.CreateNoticeRequest true "Notice payload"
// @Success 201 {object} models.Notice
// @Failure 400 {object} errors.Error
// @Failure 413 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/notices [post]
func (h *NoticeHandler) Create(c *gin.Context) {
	var req dto.CreateNoticeRequest
	if err := c.ShouldBind(&req); err != nil {
		response.Error(c, bindError(err))
		return
	}
	notice, err := h.notices.Create(c.Request.Context(), req)
	if err != nil {
		response.Error(c, err)
		return
	}
	response.Created(c, notice)
}

// Delete godoc
// @Summary Delete notice
// @Description Deleting an unknown id still succeeds.
// @Tags Notices
// @Produce json
// @Param id path int true "Notice ID"
// @Success 200 {object} response.Message
// @Failure 400 {object} errors.Error
// @Failure 500 {object} errors.Error
// @Router /api/notices/{id} [delete]
func (h *NoticeHandler) Delete(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil {
		response.Error(c, appErrors.Wrap(err, appErrors.ErrValidation.Code, http.StatusBadRequest, "notice id must be an integer"))
		return
	}
	if err := h.notices.Delete(c.Request.Context(), id); err != nil {
		response.Error(c, err)
		return
	}
	response.OK(c, "Notice deleted successfully")
}
