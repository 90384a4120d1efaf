package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/service/admissions"
	"github.com/maximahome/garage/internal/service/invoices"
)

// AdmissionHandler exposes the vehicle intake operations.
type AdmissionHandler struct {
	svc      *admissions.Service
	invoices *invoices.Service
	logger   *zap.Logger
}

// NewAdmissionHandler constructs the HTTP handler adapter.
func NewAdmissionHandler(svc *admissions.Service, inv *invoices.Service, logger *zap.Logger) *AdmissionHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AdmissionHandler{svc: svc, invoices: inv, logger: logger}
}

type admissionRequest struct {
	Customer models.Customer    `json:"customer"`
	Vehicle  models.Vehicle     `json:"vehicle"`
	Service  models.ServiceInfo `json:"service"`
	Parts    []models.Part      `json:"parts"`
	Status   string             `json:"status"`
}

type admissionPatchRequest struct {
	Customer *models.Customer    `json:"customer"`
	Vehicle  *models.Vehicle     `json:"vehicle"`
	Service  *models.ServiceInfo `json:"service"`
	Parts    *[]models.Part      `json:"parts"`
	Status   *string             `json:"status"`
}

// List returns the admission working set, newest first.
func (h *AdmissionHandler) List(c *gin.Context) {
	items, err := h.svc.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading admissions", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, items)
}

// Create registers a new admission from the intake form.
func (h *AdmissionHandler) Create(c *gin.Context) {
	var req admissionRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	adm, err := h.svc.Create(c.Request.Context(), admissions.Input{
		Customer: req.Customer,
		Vehicle:  req.Vehicle,
		Service:  req.Service,
		Parts:    req.Parts,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Warn("failed creating admission", zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusCreated, adm)
}

// Update applies a partial edit to one admission.
func (h *AdmissionHandler) Update(c *gin.Context) {
	var req admissionPatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	adm, err := h.svc.Update(c.Request.Context(), c.Param("id"), admissions.Patch{
		Customer: req.Customer,
		Vehicle:  req.Vehicle,
		Service:  req.Service,
		Parts:    req.Parts,
		Status:   req.Status,
	})
	if err != nil {
		h.logger.Warn("failed updating admission", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}

	c.JSON(http.StatusOK, adm)
}

// Delete removes one admission. The panel confirms with the user first.
func (h *AdmissionHandler) Delete(c *gin.Context) {
	if err := h.svc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		h.logger.Error("failed deleting admission", zap.String("id", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

// GenerateInvoice creates a billing document from one admission.
func (h *AdmissionHandler) GenerateInvoice(c *gin.Context) {
	inv, err := h.invoices.GenerateFromAdmission(c.Request.Context(), c.Param("id"))
	if err != nil {
		h.logger.Warn("failed generating invoice", zap.String("admission", c.Param("id")), zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}
