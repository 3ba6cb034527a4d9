package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	"github.com/railtix/railtix/internal/application/service"
)

// HealthHandler serves liveness and readiness probes.
type HealthHandler struct {
	bookingService service.BookingAppService
	startedAt      time.Time
}

// NewHealthHandler creates a health handler.
func NewHealthHandler(svc service.BookingAppService) *HealthHandler {
	return &HealthHandler{
		bookingService: svc,
		startedAt:      time.Now(),
	}
}

// Liveness handles GET /health/live.
func (h *HealthHandler) Liveness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status": "ok",
		"uptime": time.Since(h.startedAt).String(),
	})
}

// Readiness handles GET /health/ready. The service is ready as soon as the
// ledger is wired; a sold-out pool is still a healthy service.
func (h *HealthHandler) Readiness(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":    "ready",
		"available": h.bookingService.Available(),
	})
}
