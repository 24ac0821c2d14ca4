package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-notice-api/internal/service"
	"github.com/noah-isme/campus-notice-api/pkg/response"
)

// BlobHandler serves stored notice payloads.
type BlobHandler struct {
	blobs *service.BlobService
}

// NewBlobHandler constructs BlobHandler.
func NewBlobHandler(blobs *service.BlobService) *BlobHandler {
	return &BlobHandler{blobs: blobs}
}

// Get godoc
// @Summary Download a notice payload
// @Description Content-addressed, so responses are cacheable forever.
// @Tags Blobs
// @Produce octet-stream
// @Param key path string true "blake2b-256 hex key"
// @Success 200 {file} file
// @Failure 404 {object} errors.Error
// @Router /api/blobs/{key} [get]
func (h *BlobHandler) Get(c *gin.Context) {
	blob, err := h.blobs.Open(c.Request.Context(), c.Param("key"))
	if err != nil {
		response.Error(c, err)
		return
	}
	c.Header("Cache-Control", "public, max-age=31536000, immutable")
	c.Header("ETag", `"`+blob.Key+`"`)
	if c.GetHeader("If-None-Match") == `"`+blob.Key+`"` {
		c.Status(http.StatusNotModified)
		return
	}
	c.Data(http.StatusOK, blob.MimeType, blob.Data)
}
