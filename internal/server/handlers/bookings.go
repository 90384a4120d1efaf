package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/service/bookings"
)

// BookingHandler exposes the appointment operations. Create is public (the
// site's booking form posts here); everything else sits behind the admin
// session.
type BookingHandler struct {
	svc    *bookings.Service
	logger *zap.Logger
}

// NewBookingHandler constructs the HTTP handler adapter.
func NewBookingHandler(svc *bookings.Service, logger *zap.Logger) *BookingHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &BookingHandler{svc: svc, logger: logger}
}

type bookingRequest struct {
	Name     string `json:"name" binding:"required"`
	Phone    string `json:"phone" binding:"required"`
	CarModel string `json:"carModel"`
	Service  string `json:"service"`
	Date     string `json:"date" binding:"required"`
	Time     string `json:"time" binding:"required"`
	Notes    string `json:"notes"`
}

type bookingPatchRequest struct {
	Name     *string `json:"name"`
	Phone    *string `json:"phone"`
	CarModel *string `json:"carModel"`
	Service  *string `json:"service"`
	Date     *string `json:"date"`
	Time     *string `json:"time"`
	Notes    *string `json:"notes"`
}

type bookingStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// List returns all bookings, newest first.
func (h *BookingHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading bookings", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create registers an appointment from the public booking form.
func (h *BookingHandler) Create(c *gin.Context) {
	var req bookingRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	b, err := h.svc.Create(c.Request.Context(), bookings.Input{
		Name:     req.Name,
		Phone:    req.Phone,
		CarModel: req.CarModel,
		Service:  req.Service,
		Date:     req.Date,
		Time:     req.Time,
		Notes:    req.Notes,
	})
	if err != nil {
		h.logger.Warn("failed creating booking", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, b)
}

// UpdateStatus drives the booking workflow.
func (h *BookingHandler) UpdateStatus(c *gin.Context) {
	var req bookingStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	b, err := h.svc.UpdateStatus(c.Request.Context(), c.Param("id"), req.Status)
	if err != nil {
		h.logger.Warn("failed updating booking status", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Update applies a partial edit to one booking.
func (h *BookingHandler) Update(c *gin.Context) {
	var req bookingPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	b, err := h.svc.Update(c.Request.Context(), c.Param("id"), bookings.Patch{
		Name:     req.Name,
		Phone:    req.Phone,
		CarModel: req.CarModel,
		Service:  req.Service,
		Date:     req.Date,
		Time:     req.Time,
		Notes:    req.Notes,
	})
	if err != nil {
		h.logger.Warn("failed updating booking", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, b)
}

// Delete removes one booking.
func (h *BookingHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting booking", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ClearAll wipes every booking and suppresses the sample data.
func (h *BookingHandler) ClearAll(c *gin.Context) {
	if err := h.svc.ClearAll(c.Request.Context()); err != nil {
		h.logger.Error("failed clearing bookings", zap.Error(err))
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// ExportCSV streams the booking list as a CSV download.
func (h *BookingHandler) ExportCSV(c *gin.Context) {
	c.Header("Content-Type", "text/csv; charset=utf-8")
	c.Header("Content-Disposition", `attachment; filename="bookings.csv"`)

	if err := h.svc.ExportCSV(c.Request.Context(), c.Writer); err != nil {
		h.logger.Error("failed exporting bookings", zap.Error(err))
		respondError(c, err)
	}
}
