// Package handlers provides the HTTP handlers for the booking API.
package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/railtix/railtix/internal/application/service"
	"github.com/railtix/railtix/internal/domain/models"
	"github.com/railtix/railtix/pkg/errors"
	"github.com/railtix/railtix/pkg/logger"
)

// BookingHandler serves the booking endpoints.
type BookingHandler struct {
	bookingService service.BookingAppService
	logger         logger.Logger
}

// NewBookingHandler creates a booking handler.
func NewBookingHandler(svc service.BookingAppService, log logger.Logger) *BookingHandler {
	return &BookingHandler{
		bookingService: svc,
		logger:         log.WithComponent("booking_handler"),
	}
}

type bookingRequest struct {
	UserID    string `json:"user_id" binding:"required"`
	DeviceID  string `json:"device_id"`
	IPAddress string `json:"ip_address"`
	Quantity  int    `json:"quantity" binding:"required"`
}

// CreateBooking handles POST /api/v1/bookings. Device and IP default to the
// request peer when the caller does not supply them.
func (h *BookingHandler) CreateBooking(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		sendError(c, errors.ErrInvalidInput("invalid request body: "+err.Error()))
		return
	}

	identity := models.ClientIdentity{
		UserID:    req.UserID,
		DeviceID:  req.DeviceID,
		IPAddress: req.IPAddress,
	}
	if identity.IPAddress == "" {
		identity.IPAddress = c.ClientIP()
	}
	if identity.DeviceID == "" {
		// No device fingerprinting on the wire; fall back to the peer address
		// so the fraud heuristic still has a stable string to track.
		identity.DeviceID = c.ClientIP()
	}

	result, err := h.bookingService.Book(c.Request.Context(), &models.BookingRequest{
		Identity: identity,
		Quantity: req.Quantity,
	})
	if err != nil {
		sendError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// GetInventory handles GET /api/v1/inventory.
func (h *BookingHandler) GetInventory(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"total":     h.bookingService.Total(),
		"available": h.bookingService.Available(),
	})
}

// GetUserTotal handles GET /api/v1/users/:user_id/total.
func (h *BookingHandler) GetUserTotal(c *gin.Context) {
	userID := c.Param("user_id")
	if userID == "" {
		sendError(c, errors.ErrInvalidInput("user_id is required"))
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"user_id": userID,
		"total":   h.bookingService.UserTotal(userID),
	})
}

// sendError writes the error envelope with the status the taxonomy assigns.
func sendError(c *gin.Context, err error) {
	c.JSON(errors.HTTPStatusOf(err), errors.ToErrorResponse(err))
}
