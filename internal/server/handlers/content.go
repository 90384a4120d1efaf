package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/service/content"
)

// ContentHandler exposes the site content singleton. Read is public (the
// site applies it on load); save requires the admin session.
type ContentHandler struct {
	svc    *content.Service
	logger *zap.Logger
}

// NewContentHandler constructs the HTTP handler adapter.
func NewContentHandler(svc *content.Service, logger *zap.Logger) *ContentHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &ContentHandler{svc: svc, logger: logger}
}

// Get returns the content blob with defaults filled in.
func (h *ContentHandler) Get(c *gin.Context) {
	doc, err := h.svc.Load(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading site content", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, doc)
}

// Save replaces the content blob.
func (h *ContentHandler) Save(c *gin.Context) {
	var doc models.SiteContent
	if err := c.ShouldBindJSON(&doc); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "درخواست نامعتبر است"})
		return
	}

	if err := h.svc.Save(c.Request.Context(), doc); err != nil {
		h.logger.Error("failed saving site content", zap.Error(err))
		respondError(c, err)
		return
	}

	c.Status(http.StatusNoContent)
}
