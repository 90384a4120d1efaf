// Package stats computes the dashboard views from the in-memory working
// sets. Every function here is a pure transform re-run on each mutation;
// nothing is cached or incrementally maintained, which is fine at the data
// volume of a single shop.
package stats

import (
	"time"

	"github.com/maximahome/garage/internal/domain/models"
)

// UnspecifiedServiceType groups admissions whose service type was left blank.
const UnspecifiedServiceType = "نامشخص"

// Period selects the dashboard time filter.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
	PeriodYearly  Period = "yearly"
)

// ValidPeriod reports whether p is a known time filter.
func ValidPeriod(p Period) bool {
	switch p {
	case PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly:
		return true
	}
	return false
}

// InvoiceRevenue resolves an invoice's revenue: the stored grand total when
// present, otherwise labor plus the parts subtotal (computed from the parts
// list when one exists, else the stored subtotal).
func InvoiceRevenue(inv models.Invoice) int64 {
	return revenue(inv.Totals, inv.Service.ActualCost, inv.Parts)
}

// AdmissionRevenue mirrors InvoiceRevenue for admissions.
func AdmissionRevenue(a models.Admission) int64 {
	return revenue(a.Totals, a.Service.ActualCost, a.Parts)
}

func revenue(totals *models.Totals, labor int64, parts []models.Part) int64 {
	if totals != nil && totals.GrandTotal > 0 {
		return totals.GrandTotal
	}
	if len(parts) > 0 {
		return labor + models.PartsSubtotal(parts)
	}
	if totals != nil {
		return labor + totals.PartsSubtotal
	}
	return labor
}

// TodayStats is the dashboard header summary.
type TodayStats struct {
	Admissions int   `json:"admissions"`
	Invoices   int   `json:"invoices"`
	Revenue    int64 `json:"revenue"`
}

// ForToday counts today's admissions and invoices and sums today's invoice
// revenue, where "today" is now's local calendar day.
func ForToday(admissions []models.Admission, invoices []models.Invoice, now time.Time) TodayStats {
	day := now.Format("2006-01-02")

	var out TodayStats
	for _, a := range admissions {
		if localDay(a.Date, now.Location()) == day {
			out.Admissions++
		}
	}
	for _, inv := range invoices {
		if localDay(inv.Date, now.Location()) == day {
			out.Invoices++
			out.Revenue += InvoiceRevenue(inv)
		}
	}
	return out
}

// SeriesPoint is one bucket of a fixed-length time series.
type SeriesPoint struct {
	Label string `json:"label"`
	Count int    `json:"count"`
	Total int64  `json:"total"`
}

// Last7Days buckets admissions per calendar day, oldest bucket first, ending
// at now's day. Matching is by exact yyyy-mm-dd string.
func Last7Days(admissions []models.Admission, now time.Time) []SeriesPoint {
	points := make([]SeriesPoint, 0, 7)
	for i := 6; i >= 0; i-- {
		day := now.AddDate(0, 0, -i).Format("2006-01-02")
		p := SeriesPoint{Label: day}
		for _, a := range admissions {
			if localDay(a.Date, now.Location()) == day {
				p.Count++
				p.Total += AdmissionRevenue(a)
			}
		}
		points = append(points, p)
	}
	return points
}

// Last12Months buckets invoice revenue per calendar month, oldest first,
// ending at now's month. Matching is by exact yyyy-mm string.
func Last12Months(invoices []models.Invoice, now time.Time) []SeriesPoint {
	points := make([]SeriesPoint, 0, 12)
	anchor := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
	for i := 11; i >= 0; i-- {
		month := anchor.AddDate(0, -i, 0).Format("2006-01")
		p := SeriesPoint{Label: month}
		for _, inv := range invoices {
			if localMonth(inv.Date, now.Location()) == month {
				p.Count++
				p.Total += InvoiceRevenue(inv)
			}
		}
		points = append(points, p)
	}
	return points
}

// ServiceTypeBreakdown counts admissions per service type; blank types are
// grouped under UnspecifiedServiceType.
func ServiceTypeBreakdown(admissions []models.Admission) map[string]int {
	out := make(map[string]int)
	for _, a := range admissions {
		t := a.Service.Type
		if t == "" {
			t = UnspecifiedServiceType
		}
		out[t]++
	}
	return out
}

// DayRevenue names a calendar day and its summed invoice revenue.
type DayRevenue struct {
	Day     string `json:"day"`
	Revenue int64  `json:"revenue"`
}

// BestRevenueDay returns the calendar day with the highest summed revenue,
// or nil when there are no invoices.
func BestRevenueDay(invoices []models.Invoice) *DayRevenue {
	if len(invoices) == 0 {
		return nil
	}

	byDay := make(map[string]int64)
	for _, inv := range invoices {
		byDay[localDay(inv.Date, time.Local)] += InvoiceRevenue(inv)
	}

	var best *DayRevenue
	for day, rev := range byDay {
		if best == nil || rev > best.Revenue || (rev == best.Revenue && day < best.Day) {
			best = &DayRevenue{Day: day, Revenue: rev}
		}
	}
	return best
}

// Comparison is the percentage delta between two pre-filtered periods.
type Comparison struct {
	RevenueChangePct float64 `json:"revenueChangePct"`
	CountChangePct   float64 `json:"countChangePct"`
}

// ComparePeriods compares the current period's invoices against the previous
// period's. When the previous period had zero revenue or zero invoices the
// corresponding delta reports 0 rather than dividing by zero.
func ComparePeriods(current, previous []models.Invoice) Comparison {
	var currentRevenue, previousRevenue int64
	for _, inv := range current {
		currentRevenue += InvoiceRevenue(inv)
	}
	for _, inv := range previous {
		previousRevenue += InvoiceRevenue(inv)
	}

	var out Comparison
	if previousRevenue > 0 {
		out.RevenueChangePct = float64(currentRevenue-previousRevenue) / float64(previousRevenue) * 100
	}
	if len(previous) > 0 {
		out.CountChangePct = float64(len(current)-len(previous)) / float64(len(previous)) * 100
	}
	return out
}

// PeriodRange resolves the half-open [start, end) window for a filter
// anchored at now. Weeks start on the Sunday of now's week.
func PeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	switch p {
	case PeriodWeekly:
		start := startOfDay(now).AddDate(0, 0, -int(now.Weekday()))
		return start, start.AddDate(0, 0, 7)
	case PeriodMonthly:
		start := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(0, 1, 0)
	case PeriodYearly:
		start := time.Date(now.Year(), 1, 1, 0, 0, 0, 0, now.Location())
		return start, start.AddDate(1, 0, 0)
	default:
		start := startOfDay(now)
		return start, start.AddDate(0, 0, 1)
	}
}

// PreviousPeriodRange resolves the window immediately before PeriodRange.
func PreviousPeriodRange(p Period, now time.Time) (time.Time, time.Time) {
	start, _ := PeriodRange(p, now)
	switch p {
	case PeriodWeekly:
		return start.AddDate(0, 0, -7), start
	case PeriodMonthly:
		return start.AddDate(0, -1, 0), start
	case PeriodYearly:
		return start.AddDate(-1, 0, 0), start
	default:
		return start.AddDate(0, 0, -1), start
	}
}

// FilterInvoices keeps invoices whose timestamp falls inside [start, end).
func FilterInvoices(invoices []models.Invoice, start, end time.Time) []models.Invoice {
	out := make([]models.Invoice, 0, len(invoices))
	for _, inv := range invoices {
		ts, ok := parseTimestamp(inv.Date, start.Location())
		if !ok {
			continue
		}
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, inv)
		}
	}
	return out
}

// FilterAdmissions keeps admissions whose timestamp falls inside [start, end).
func FilterAdmissions(admissions []models.Admission, start, end time.Time) []models.Admission {
	out := make([]models.Admission, 0, len(admissions))
	for _, a := range admissions {
		ts, ok := parseTimestamp(a.Date, start.Location())
		if !ok {
			continue
		}
		if !ts.Before(start) && ts.Before(end) {
			out = append(out, a)
		}
	}
	return out
}

func startOfDay(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

func parseTimestamp(iso string, loc *time.Location) (time.Time, bool) {
	ts, err := time.Parse(time.RFC3339, iso)
	if err != nil {
		return time.Time{}, false
	}
	return ts.In(loc), true
}

func localDay(iso string, loc *time.Location) string {
	ts, ok := parseTimestamp(iso, loc)
	if !ok {
		return ""
	}
	return ts.Format("2006-01-02")
}

func localMonth(iso string, loc *time.Location) string {
	ts, ok := parseTimestamp(iso, loc)
	if !ok {
		return ""
	}
	return ts.Format("2006-01")
}
