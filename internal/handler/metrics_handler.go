package handler

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/noah-isme/campus-notice-api/internal/service"
	"github.com/noah-isme/campus-notice-api/pkg/response"
)

type storeHealth interface {
	Degraded() bool
	Location() string
}

// MetricsHandler exposes observability endpoints.
type MetricsHandler struct {
	metrics *service.MetricsService
	store   storeHealth
}

// NewMetricsHandler constructs a metrics handler.
func NewMetricsHandler(metrics *service.MetricsService, store storeHealth) *MetricsHandler {
	return &MetricsHandler{metrics: metrics, store: store}
}

// Prometheus serves the Prometheus metrics endpoint.
func (h *MetricsHandler) Prometheus(c *gin.Context) {
	if h.metrics == nil {
		c.Status(http.StatusServiceUnavailable)
		return
	}
	h.metrics.Handler().ServeHTTP(c.Writer, c.Request)
}

// Root godoc
// @Summary Liveness banner
// @Tags Health
// @Produce json
// @Success 200 {object} response.Message
// @Router / [get]
func (h *MetricsHandler) Root(c *gin.Context) {
	response.JSON(c, http.StatusOK, response.Message{Message: "Backend is running", Status: "OK"})
}

// Health responds with a generic OK payload for liveness probes.
func (h *MetricsHandler) Health(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"status": "ok"})
}

// Ready reports whether the last persist succeeded. A degraded store still
// serves from memory, so the probe answers 200 either way.
func (h *MetricsHandler) Ready(c *gin.Context) {
	if h.store == nil {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
		return
	}
	status := "ok"
	if h.store.Degraded() {
		status = "degraded"
	}
	c.JSON(http.StatusOK, gin.H{"status": status, "store": h.store.Location()})
}
