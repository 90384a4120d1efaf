package models

// Invoice payment statuses. Unlike admission statuses this is a closed set.
const (
	InvoiceStatusUnpaid     = "پرداخت نشده"
	InvoiceStatusPaidCash   = "پرداخت نقدی"
	InvoiceStatusPaidCard   = "پرداخت کارتی"
	InvoiceStatusPaidCheque = "پرداخت چکی"
	InvoiceStatusPaid       = "پرداخت شده"
)

var invoiceStatuses = map[string]bool{
	InvoiceStatusUnpaid:     true,
	InvoiceStatusPaidCash:   true,
	InvoiceStatusPaidCard:   true,
	InvoiceStatusPaidCheque: true,
	InvoiceStatusPaid:       true,
}

// ValidInvoiceStatus reports whether s belongs to the closed payment set.
func ValidInvoiceStatus(s string) bool {
	return invoiceStatuses[s]
}

// PaymentStatus reports whether an admission status tag already carries a
// payment meaning, in which case a generated invoice inherits it.
func PaymentStatus(admissionStatus string) (string, bool) {
	if invoiceStatuses[admissionStatus] {
		return admissionStatus, true
	}
	return "", false
}

// Invoice is a billing document generated from an admission. The copied
// fields are snapshots: editing an invoice never touches the originating
// admission and vice versa.
type Invoice struct {
	ID            string      `bson:"_id,omitempty" json:"id"`
	InvoiceNumber string      `bson:"invoiceNumber" json:"invoiceNumber"`
	Customer      Customer    `bson:"customer" json:"customer"`
	Vehicle       Vehicle     `bson:"vehicle" json:"vehicle"`
	Service       ServiceInfo `bson:"service" json:"service"`
	Parts         []Part      `bson:"parts,omitempty" json:"parts,omitempty"`
	Totals        *Totals     `bson:"totals,omitempty" json:"totals,omitempty"`
	Status        string      `bson:"status" json:"status"`
	Date          string      `bson:"date" json:"date"`
}
