package router

import (
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/server/handlers"
)

// Handlers groups everything the router wires.
type Handlers struct {
	Auth       *handlers.AuthHandler
	Admissions *handlers.AdmissionHandler
	Invoices   *handlers.InvoiceHandler
	Bookings   *handlers.BookingHandler
	Content    *handlers.ContentHandler
	Stats      *handlers.StatsHandler
}

// New wires the Gin engine with required routes and middlewares. The public
// surface is the booking form and the site content read; everything else is
// back-office and sits behind the session token.
func New(h Handlers, logger *zap.Logger) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(zapLoggerMiddleware(logger))

	r.GET("/healthz", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	api.POST("/login", h.Auth.Login)
	api.POST("/bookings", h.Bookings.Create)
	api.GET("/content", h.Content.Get)

	admin := api.Group("", h.Auth.Middleware())
	{
		admin.GET("/admissions", h.Admissions.List)
		admin.POST("/admissions", h.Admissions.Create)
		admin.PUT("/admissions/:id", h.Admissions.Update)
		admin.DELETE("/admissions/:id", h.Admissions.Delete)
		admin.POST("/admissions/:id/invoice", h.Admissions.GenerateInvoice)

		admin.GET("/invoices", h.Invoices.List)
		admin.PUT("/invoices/:id", h.Invoices.Update)
		admin.DELETE("/invoices/:id", h.Invoices.Delete)

		admin.GET("/bookings", h.Bookings.List)
		admin.PUT("/bookings/:id", h.Bookings.Update)
		admin.PUT("/bookings/:id/status", h.Bookings.UpdateStatus)
		admin.DELETE("/bookings/:id", h.Bookings.Delete)
		admin.DELETE("/bookings", h.Bookings.ClearAll)
		admin.GET("/bookings/export", h.Bookings.ExportCSV)

		admin.PUT("/content", h.Content.Save)

		admin.GET("/stats", h.Stats.Overview)
		admin.GET("/stats/report", h.Stats.DailyReport)
		admin.GET("/stats/report.pdf", h.Stats.PDF)
	}

	if logger != nil {
		logger.Info("router initialized")
	}

	return r
}

func zapLoggerMiddleware(logger *zap.Logger) gin.HandlerFunc {
	if logger == nil {
		logger = zap.NewNop()
	}

	return func(c *gin.Context) {
		start := time.Now()
		c.Next()

		logger.Info("request completed",
			zap.String("method", c.Request.Method),
			zap.String("path", c.Request.URL.Path),
			zap.Int("status", c.Writer.Status()),
			zap.Duration("duration", time.Since(start)),
			zap.String("client_ip", c.ClientIP()))
	}
}
