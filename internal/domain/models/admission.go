package models

// Admission statuses used by the intake panel. The set is intentionally open:
// the UI may introduce new workflow tags without a schema change, so Status
// stays a plain string and these constants only name the values the panels
// are known to write.
const (
	AdmissionStatusRegistered = "ثبت شده"
	AdmissionStatusDraft      = "پیش‌نویس"
	AdmissionStatusPending    = "در انتظار"
	AdmissionStatusCompleted  = "تکمیل شده"
)

// Customer identifies the vehicle owner.
type Customer struct {
	Name  string `bson:"name" json:"name"`
	Phone string `bson:"phone" json:"phone"`
}

// Vehicle describes the car dropped off for service.
type Vehicle struct {
	Type  string `bson:"type" json:"type"`
	Model string `bson:"model" json:"model"`
	Plate string `bson:"plate" json:"plate"`
}

// ServiceInfo captures the requested work. AdmissionDate is a Persian
// calendar date in jYYYY/jMM/jDD form and AdmissionTime is HH:MM; both are
// kept as strings exactly as the panels submit them.
type ServiceInfo struct {
	Type          string `bson:"type" json:"type"`
	ActualCost    int64  `bson:"actualCost" json:"actualCost"`
	AdmissionDate string `bson:"admissionDate" json:"admissionDate"`
	AdmissionTime string `bson:"admissionTime" json:"admissionTime"`
	Description   string `bson:"description" json:"description"`
}

// Part is a single spare-part line item.
type Part struct {
	Name      string `bson:"name" json:"name"`
	Quantity  int64  `bson:"quantity" json:"quantity"`
	UnitPrice int64  `bson:"unitPrice" json:"unitPrice"`
}

// Totals holds the derived cost summary. A nil *Totals on an entity means the
// summary was never computed (legacy records without parts).
type Totals struct {
	PartsSubtotal int64 `bson:"partsSubtotal" json:"partsSubtotal"`
	LaborCost     int64 `bson:"laborCost" json:"laborCost"`
	GrandTotal    int64 `bson:"grandTotal" json:"grandTotal"`
}

// Admission is a vehicle intake record opened when a customer drops off a
// vehicle. Date is an ISO-8601 timestamp and doubles as the sort key in both
// backing stores.
type Admission struct {
	ID            string      `bson:"_id,omitempty" json:"id"`
	Customer      Customer    `bson:"customer" json:"customer"`
	Vehicle       Vehicle     `bson:"vehicle" json:"vehicle"`
	Service       ServiceInfo `bson:"service" json:"service"`
	Parts         []Part      `bson:"parts,omitempty" json:"parts,omitempty"`
	Totals        *Totals     `bson:"totals,omitempty" json:"totals,omitempty"`
	Status        string      `bson:"status" json:"status"`
	ReceiptNumber string      `bson:"receiptNumber" json:"receiptNumber"`
	Date          string      `bson:"date" json:"date"`
}

// PartsSubtotal sums quantity * unitPrice over the given parts.
func PartsSubtotal(parts []Part) int64 {
	var sum int64
	for _, p := range parts {
		sum += p.Quantity * p.UnitPrice
	}
	return sum
}

// RecomputeTotals derives the cost summary from the parts list and labor
// cost. Callers must persist the result whenever parts change; stored totals
// are never allowed to disagree with this computation.
func RecomputeTotals(parts []Part, laborCost int64) Totals {
	subtotal := PartsSubtotal(parts)
	return Totals{
		PartsSubtotal: subtotal,
		LaborCost:     laborCost,
		GrandTotal:    laborCost + subtotal,
	}
}

// NormalizeParts applies the form defaults: quantity floors at 1 and negative
// unit prices are treated as zero.
func NormalizeParts(parts []Part) []Part {
	out := make([]Part, len(parts))
	for i, p := range parts {
		if p.Quantity < 1 {
			p.Quantity = 1
		}
		if p.UnitPrice < 0 {
			p.UnitPrice = 0
		}
		out[i] = p
	}
	return out
}
