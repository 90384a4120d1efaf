// Package reporting assembles the daily operational summary, pushes it to
// the reporting spreadsheet, and renders the statistics PDF handed out from
// the dashboard.
package reporting

import (
	"bytes"
	"context"
	"fmt"
	"time"

	"github.com/jung-kurt/gofpdf"
	"go.uber.org/zap"

	"github.com/maximahome/garage/internal/domain/models"
	"github.com/maximahome/garage/internal/repository/sheets"
	"github.com/maximahome/garage/internal/service/admissions"
	"github.com/maximahome/garage/internal/service/bookings"
	"github.com/maximahome/garage/internal/service/invoices"
	"github.com/maximahome/garage/internal/service/stats"
)

const reportRange = "Reports!A:F"

// Service builds daily reports from the entity working sets.
type Service struct {
	admissions *admissions.Service
	invoices   *invoices.Service
	bookings   *bookings.Service
	sheets     sheets.Repository
	logger     *zap.Logger
}

// NewService wires the reporting service. sheetsRepo may be nil when the
// spreadsheet sink is not configured; reports are then only served over HTTP.
func NewService(adm *admissions.Service, inv *invoices.Service, bk *bookings.Service, sheetsRepo sheets.Repository, logger *zap.Logger) *Service {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Service{
		admissions: adm,
		invoices:   inv,
		bookings:   bk,
		sheets:     sheetsRepo,
		logger:     logger,
	}
}

// BuildDailyReport summarizes today's activity from the working sets.
func (s *Service) BuildDailyReport(ctx context.Context, now time.Time) (models.DailyReport, error) {
	admissionList, err := s.admissions.List(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}
	invoiceList, err := s.invoices.List(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}
	bookingList, err := s.bookings.List(ctx)
	if err != nil {
		return models.DailyReport{}, err
	}

	today := stats.ForToday(admissionList, invoiceList, now)

	open := 0
	for _, b := range bookingList {
		if b.Status == models.BookingStatusPending || b.Status == models.BookingStatusConfirmed {
			open++
		}
	}

	return models.DailyReport{
		Date:         now,
		Admissions:   today.Admissions,
		Invoices:     today.Invoices,
		Revenue:      today.Revenue,
		OpenBookings: open,
		CreatedAt:    time.Now(),
	}, nil
}

// AppendDailyReport builds today's report and appends it as one spreadsheet
// row. Called by the scheduler at end of day.
func (s *Service) AppendDailyReport(ctx context.Context, now time.Time) error {
	report, err := s.BuildDailyReport(ctx, now)
	if err != nil {
		return fmt.Errorf("build daily report: %w", err)
	}

	if s.sheets == nil {
		s.logger.Debug("sheets sink not configured, skipping report append")
		return nil
	}

	row := []interface{}{
		report.Date.Format("2006-01-02"),
		report.Admissions,
		report.Invoices,
		report.Revenue,
		report.OpenBookings,
		report.CreatedAt.Format(time.RFC3339),
	}
	if err := s.sheets.AppendRow(ctx, reportRange, row); err != nil {
		return fmt.Errorf("append daily report: %w", err)
	}

	s.logger.Info("daily report appended",
		zap.Int("admissions", report.Admissions),
		zap.Int64("revenue", report.Revenue))
	return nil
}

// StatsPDF renders the fixed-layout statistics document: a title, the report
// date, and a handful of summary lines. The built-in PDF fonts carry no
// Persian glyphs, so the document uses Latin labels.
func (s *Service) StatsPDF(ctx context.Context, now time.Time) ([]byte, error) {
	report, err := s.BuildDailyReport(ctx, now)
	if err != nil {
		return nil, err
	}

	invoiceList, err := s.invoices.List(ctx)
	if err != nil {
		return nil, err
	}
	best := stats.BestRevenueDay(invoiceList)

	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.CellFormat(0, 12, "Maxima Auto Service - Statistics Report", "", 1, "C", false, 0, "")

	pdf.SetFont("Helvetica", "", 11)
	pdf.CellFormat(0, 8, now.Format("2006-01-02 15:04"), "", 1, "C", false, 0, "")
	pdf.Ln(6)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("Admissions today: %d", report.Admissions),
		fmt.Sprintf("Invoices today: %d", report.Invoices),
		fmt.Sprintf("Revenue today: %d Toman", report.Revenue),
		fmt.Sprintf("Open bookings: %d", report.OpenBookings),
	}
	if best != nil {
		lines = append(lines, fmt.Sprintf("Best revenue day: %s (%d Toman)", best.Day, best.Revenue))
	}
	for _, line := range lines {
		pdf.CellFormat(0, 9, line, "", 1, "L", false, 0, "")
	}

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, fmt.Errorf("render stats pdf: %w", err)
	}
	return buf.Bytes(), nil
}
