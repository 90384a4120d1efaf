package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/service/invoices"
)

// InvoiceHandler exposes the billing operations.
type InvoiceHandler struct {
	svc    *invoices.Service
	logger *zap.Logger
}

// NewInvoiceHandler constructs the HTTP handler adapter.
func NewInvoiceHandler(svc *invoices.Service, logger *zap.Logger) *InvoiceHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &InvoiceHandler{svc: svc, logger: logger}
}

type invoicePatchRequest struct {
	Parts  *[]models.Part `json:"parts"`
	Status *string        `json:"status"`
}

// List returns the invoice working set, newest first.
func (h *InvoiceHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading invoices", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Update edits an invoice's parts and payment status; totals are recomputed
// server-side.
func (h *InvoiceHandler) Update(c *gin.Context) {
	var req invoicePatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	inv, err := h.svc.UpdatePaymentAndParts(c.Request.Context(), c.Param("id"), invoices.PaymentPatch{
		Parts:  req.Parts,
		Status: req.Status,
	})
	if err != nil {
		h.logger.Warn("failed updating invoice", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, inv)
}

// Delete removes one invoice.
func (h *InvoiceHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting invoice", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
