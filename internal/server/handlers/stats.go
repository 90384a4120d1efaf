package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/service/admissions"
	"github.com/maximahome/garage/internal/service/invoices"
	"github.com/maximahome/garage/internal/service/reporting"
	"github.com/maximahome/garage/internal/service/stats"
)

// StatsHandler serves the dashboard views and the statistics PDF.
type StatsHandler struct {
	admissions *admissions.Service
	invoices   *invoices.Service
	reporting  *reporting.Service
	logger     *zap.Logger
	now        func() time.Time
}

// NewStatsHandler constructs the HTTP handler adapter.
func NewStatsHandler(adm *admissions.Service, inv *invoices.Service, rep *reporting.Service, logger *zap.Logger) *StatsHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &StatsHandler{
		admissions: adm,
		invoices:   inv,
		reporting:  rep,
		logger:     logger,
		now:        time.Now,
	}
}

type overviewResponse struct {
	Period           stats.Period        `json:"period"`
	Today            stats.TodayStats    `json:"today"`
	TotalRevenue     int64               `json:"totalRevenue"`
	AverageRevenue   int64               `json:"averageRevenue"`
	TotalAdmissions  int                 `json:"totalAdmissions"`
	BestDay          *stats.DayRevenue   `json:"bestDay"`
	Comparison       stats.Comparison    `json:"comparison"`
	ServiceBreakdown map[string]int      `json:"serviceBreakdown"`
	Last7Days        []stats.SeriesPoint `json:"last7Days"`
	Last12Months     []stats.SeriesPoint `json:"last12Months"`
}

// Overview recomputes every derived view for the requested period.
func (h *StatsHandler) Overview(c *gin.Context) {
	period := stats.Period(c.DefaultQuery("period", string(stats.PeriodDaily)))
	if !stats.ValidPeriod(period) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "بازه زمانی نامعتبر است"})
		return
	}

	admissionList, err := h.admissions.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading admissions for stats", zap.Error(err))
		respondError(c, err)
		return
	}
	invoiceList, err := h.invoices.List(c.Request.Context())
	if err != nil {
		h.logger.Error("failed loading invoices for stats", zap.Error(err))
		respondError(c, err)
		return
	}

	now := h.now()
	start, end := stats.PeriodRange(period, now)
	prevStart, prevEnd := stats.PreviousPeriodRange(period, now)

	currentInvoices := stats.FilterInvoices(invoiceList, start, end)
	previousInvoices := stats.FilterInvoices(invoiceList, prevStart, prevEnd)
	currentAdmissions := stats.FilterAdmissions(admissionList, start, end)

	var totalRevenue int64
	for _, inv := range currentInvoices {
		totalRevenue += stats.InvoiceRevenue(inv)
	}
	var avgRevenue int64
	if len(currentInvoices) > 0 {
		avgRevenue = totalRevenue / int64(len(currentInvoices))
	}

	c.JSON(http.StatusOK, overviewResponse{
		Period:           period,
		Today:            stats.ForToday(admissionList, invoiceList, now),
		TotalRevenue:     totalRevenue,
		AverageRevenue:   avgRevenue,
		TotalAdmissions:  len(currentAdmissions),
		BestDay:          stats.BestRevenueDay(currentInvoices),
		Comparison:       stats.ComparePeriods(currentInvoices, previousInvoices),
		ServiceBreakdown: stats.ServiceTypeBreakdown(currentAdmissions),
		Last7Days:        stats.Last7Days(admissionList, now),
		Last12Months:     stats.Last12Months(invoiceList, now),
	})
}

// PDF streams the fixed-layout statistics document.
func (h *StatsHandler) PDF(c *gin.Context) {
	raw, err := h.reporting.StatsPDF(c.Request.Context(), h.now())
	if err != nil {
		h.logger.Error("failed rendering stats pdf", zap.Error(err))
		respondError(c, err)
		return
	}

	c.Header("Content-Disposition", `attachment; filename="statistics.pdf"`)
	c.Data(http.StatusOK, "application/pdf", raw)
}

// DailyReport returns today's summary as JSON, the same row the scheduler
// appends to the reporting spreadsheet.
func (h *StatsHandler) DailyReport(c *gin.Context) {
	report, err := h.reporting.BuildDailyReport(c.Request.Context(), h.now())
	if err != nil {
		h.logger.Error("failed building daily report", zap.Error(err))
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}
