package stats

import (
	"testing"
	"time"

	"github.com/maximahome/garage/internal/domain/models"
)

func invoiceOn(date string, revenue int64) models.Invoice {
	return models.Invoice{
		Date:   date,
		Totals: &models.Totals{GrandTotal: revenue},
	}
}

func admissionOn(date, serviceType string, labor int64) models.Admission {
	return models.Admission{
		Date:    date,
		Service: models.ServiceInfo{Type: serviceType, ActualCost: labor},
	}
}

func TestInvoiceRevenueFallbackChain(t *testing.T) {
	tests := []struct {
		name string
		inv  models.Invoice
		want int64
	}{
		{
			name: "stored grand total wins",
			inv: models.Invoice{
				Service: models.ServiceInfo{ActualCost: 1},
				Totals:  &models.Totals{GrandTotal: 900},
			},
			want: 900,
		},
		{
			name: "labor plus computed parts subtotal",
			inv: models.Invoice{
				Service: models.ServiceInfo{ActualCost: 100},
				Parts:   []models.Part{{Quantity: 2, UnitPrice: 50}},
			},
			want: 200,
		},
		{
			name: "labor plus stored subtotal when parts are gone",
			inv: models.Invoice{
				Service: models.ServiceInfo{ActualCost: 100},
				Totals:  &models.Totals{PartsSubtotal: 30},
			},
			want: 130,
		},
		{
			name: "labor only",
			inv: models.Invoice{
				Service: models.ServiceInfo{ActualCost: 100},
			},
			want: 100,
		},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			if got := InvoiceRevenue(tc.inv); got != tc.want {
				t.Errorf("InvoiceRevenue = %d, want %d", got, tc.want)
			}
		})
	}
}

func TestForToday(t *testing.T) {
	now := time.Date(2025, 3, 15, 18, 0, 0, 0, time.UTC)

	admissions := []models.Admission{
		admissionOn("2025-03-15T08:00:00Z", "", 0),
		admissionOn("2025-03-15T12:00:00Z", "", 0),
		admissionOn("2025-03-14T08:00:00Z", "", 0),
	}
	invoices := []models.Invoice{
		invoiceOn("2025-03-15T09:00:00Z", 100000),
		invoiceOn("2025-03-10T09:00:00Z", 999999),
	}

	got := ForToday(admissions, invoices, now)
	if got.Admissions != 2 {
		t.Errorf("Admissions = %d, want 2", got.Admissions)
	}
	if got.Invoices != 1 {
		t.Errorf("Invoices = %d, want 1", got.Invoices)
	}
	if got.Revenue != 100000 {
		t.Errorf("Revenue = %d, want 100000", got.Revenue)
	}
}

func TestLast7DaysBuckets(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	admissions := []models.Admission{
		admissionOn("2025-03-15T08:00:00Z", "", 100),
		admissionOn("2025-03-13T08:00:00Z", "", 200),
		admissionOn("2025-03-01T08:00:00Z", "", 999),
	}

	points := Last7Days(admissions, now)
	if len(points) != 7 {
		t.Fatalf("expected 7 buckets, got %d", len(points))
	}
	if points[0].Label != "2025-03-09" || points[6].Label != "2025-03-15" {
		t.Errorf("bucket range [%s..%s], want [2025-03-09..2025-03-15]", points[0].Label, points[6].Label)
	}
	if points[6].Count != 1 || points[6].Total != 100 {
		t.Errorf("today's bucket = %+v", points[6])
	}
	if points[4].Count != 1 || points[4].Total != 200 {
		t.Errorf("2025-03-13 bucket = %+v", points[4])
	}
}

func TestLast12MonthsBuckets(t *testing.T) {
	now := time.Date(2025, 3, 15, 12, 0, 0, 0, time.UTC)
	invoices := []models.Invoice{
		invoiceOn("2025-03-01T09:00:00Z", 100),
		invoiceOn("2025-03-20T09:00:00Z", 50),
		invoiceOn("2024-04-10T09:00:00Z", 70),
		invoiceOn("2024-03-10T09:00:00Z", 999),
	}

	points := Last12Months(invoices, now)
	if len(points) != 12 {
		t.Fatalf("expected 12 buckets, got %d", len(points))
	}
	if points[0].Label != "2024-04" || points[11].Label != "2025-03" {
		t.Errorf("bucket range [%s..%s], want [2024-04..2025-03]", points[0].Label, points[11].Label)
	}
	if points[11].Count != 2 || points[11].Total != 150 {
		t.Errorf("current month bucket = %+v", points[11])
	}
	if points[0].Total != 70 {
		t.Errorf("oldest bucket total = %d, want 70", points[0].Total)
	}
}

func TestServiceTypeBreakdownGroupsBlank(t *testing.T) {
	admissions := []models.Admission{
		admissionOn("2025-03-15T08:00:00Z", "تعویض روغن", 0),
		admissionOn("2025-03-15T09:00:00Z", "تعویض روغن", 0),
		admissionOn("2025-03-15T10:00:00Z", "", 0),
	}

	got := ServiceTypeBreakdown(admissions)
	if got["تعویض روغن"] != 2 {
		t.Errorf("named type count = %d, want 2", got["تعویض روغن"])
	}
	if got[UnspecifiedServiceType] != 1 {
		t.Errorf("unspecified count = %d, want 1", got[UnspecifiedServiceType])
	}
}

func TestBestRevenueDay(t *testing.T) {
	if got := BestRevenueDay(nil); got != nil {
		t.Fatalf("expected nil for no invoices, got %+v", got)
	}

	invoices := []models.Invoice{
		invoiceOn("2025-03-15T11:00:00Z", 100),
		invoiceOn("2025-03-15T13:00:00Z", 200),
		invoiceOn("2025-03-14T12:00:00Z", 250),
	}
	got := BestRevenueDay(invoices)
	if got == nil {
		t.Fatal("expected a best day")
	}
	if got.Day != "2025-03-15" || got.Revenue != 300 {
		t.Errorf("best day = %+v, want 2025-03-15 with 300", got)
	}
}

func TestComparePeriodsZeroPrevious(t *testing.T) {
	current := []models.Invoice{invoiceOn("2025-03-15T09:00:00Z", 500)}

	got := ComparePeriods(current, nil)
	if got.RevenueChangePct != 0 || got.CountChangePct != 0 {
		t.Errorf("zero previous period must report 0 deltas, got %+v", got)
	}
}

func TestComparePeriods(t *testing.T) {
	current := []models.Invoice{
		invoiceOn("2025-03-15T09:00:00Z", 300),
	}
	previous := []models.Invoice{
		invoiceOn("2025-03-08T09:00:00Z", 100),
		invoiceOn("2025-03-09T09:00:00Z", 100),
	}

	got := ComparePeriods(current, previous)
	if got.RevenueChangePct != 50 {
		t.Errorf("RevenueChangePct = %v, want 50", got.RevenueChangePct)
	}
	if got.CountChangePct != -50 {
		t.Errorf("CountChangePct = %v, want -50", got.CountChangePct)
	}
}

func TestPeriodRangeWeeklyStartsSunday(t *testing.T) {
	// 2025-03-15 is a Saturday.
	now := time.Date(2025, 3, 15, 13, 0, 0, 0, time.UTC)

	start, end := PeriodRange(PeriodWeekly, now)
	if start.Weekday() != time.Sunday {
		t.Errorf("week starts on %s, want Sunday", start.Weekday())
	}
	if !start.Equal(time.Date(2025, 3, 9, 0, 0, 0, 0, time.UTC)) {
		t.Errorf("start = %s", start)
	}
	if !end.Equal(start.AddDate(0, 0, 7)) {
		t.Errorf("end = %s, want start+7d", end)
	}
}

func TestPreviousPeriodRangeAbutsCurrent(t *testing.T) {
	now := time.Date(2025, 3, 15, 13, 0, 0, 0, time.UTC)

	for _, p := range []Period{PeriodDaily, PeriodWeekly, PeriodMonthly, PeriodYearly} {
		start, _ := PeriodRange(p, now)
		_, prevEnd := PreviousPeriodRange(p, now)
		if !prevEnd.Equal(start) {
			t.Errorf("%s: previous period end %s != current start %s", p, prevEnd, start)
		}
	}
}

func TestFilterInvoicesHalfOpen(t *testing.T) {
	start := time.Date(2025, 3, 15, 0, 0, 0, 0, time.UTC)
	end := start.AddDate(0, 0, 1)

	// Inclusive start, inside, exclusive end, before the window, and one
	// unparseable timestamp that must be skipped.
	invoices := []models.Invoice{
		invoiceOn("2025-03-15T00:00:00Z", 1),
		invoiceOn("2025-03-15T23:59:59Z", 2),
		invoiceOn("2025-03-16T00:00:00Z", 3),
		invoiceOn("2025-03-14T23:59:59Z", 4),
		{Date: "not-a-timestamp"},
	}

	got := FilterInvoices(invoices, start, end)
	if len(got) != 2 {
		t.Fatalf("expected 2 invoices inside the window, got %d", len(got))
	}
}
