package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/maximahome/garage/internal/service/admissions"
	"github.com/maximahome/garage/internal/service/bookings"
	"github.com/maximahome/garage/internal/service/invoices"
	"github.com/maximahome/garage/internal/store"
)

// respondError maps service errors onto HTTP statuses. Validation and
// not-found errors carry the Persian messages the panels show directly.
func respondError(c *gin.Context, err error) {
	switch {
	case errors.Is(err, admissions.ErrInvalidPhone),
		errors.Is(err, admissions.ErrInvalidDate),
		errors.Is(err, bookings.ErrInvalidPhone),
		errors.Is(err, bookings.ErrUnknownStatus),
		errors.Is(err, invoices.ErrUnknownStatus):
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
	case errors.Is(err, admissions.ErrNotFound),
		errors.Is(err, bookings.ErrNotFound),
		errors.Is(err, invoices.ErrNotFound):
		c.JSON(http.StatusNotFound, gin.H{"error": err.Error()})
	case errors.Is(err, store.ErrUnavailable):
		c.JSON(http.StatusServiceUnavailable, gin.H{"error": "خطا در اتصال به سرور. لطفاً اتصال اینترنت خود را بررسی کنید"})
	default:
		c.JSON(http.StatusInternalServerError, gin.H{"error": "خطای داخلی سرور"})
	}
}
