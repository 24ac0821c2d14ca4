package response

import (
	"net/http"

	"github.com/gin-gonic/gin"

	appErrors "github.com/noah-isme/campus-notice-api/pkg/errors"
)

// Message is the body returned by confirmation and health endpoints.
type Message struct {
	Message string `json:"message"`
	Status  string `json:"status,omitempty"`
}

// JSON sends the payload as-is; the board client consumes bare arrays and objects.
func JSON(c *gin.Context, status int, data interface{}) {
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.JSON(status, data)
}

// Created responds with HTTP 201 Created.
func Created(c *gin.Context, data interface{}) {
	JSON(c, http.StatusCreated, data)
}

// OK responds with a confirmation message.
func OK(c *gin.Context, message string) {
	JSON(c, http.StatusOK, Message{Message: message})
}

// Error sends an error response converting the error to the common structure.
// Diagnostic detail is dropped in release mode.
func Error(c *gin.Context, err error) {
	appErr := appErrors.FromError(err)
	if appErr.Status >= http.StatusInternalServerError {
		_ = c.Error(err)
	}
	body := *appErr
	if gin.Mode() == gin.ReleaseMode {
		body.Detail = ""
	}
	c.Header("Cache-Control", "no-store")
	c.Header("Pragma", "no-cache")
	c.AbortWithStatusJSON(body.Status, body)
}

// Attachment streams a downloadable file.
func Attachment(c *gin.Context, filename, contentType string, body []byte) {
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, contentType, body)
}
