package models

import (
	"fmt"
	"math/rand"
	"strings"
	"time"
)

// NewReceiptNumber builds an admission receipt number: "MH", two-digit year,
// month, day, and a three-digit random suffix. Uniqueness is not guaranteed
// by construction; callers check new numbers against the working set.
func NewReceiptNumber(now time.Time) string {
	return serialNumber("MH", now)
}

// NewInvoiceNumber builds an invoice number with the "INV" prefix and the
// same date-plus-random layout as receipt numbers.
func NewInvoiceNumber(now time.Time) string {
	return serialNumber("INV", now)
}

// NewDraftReceiptNumber marks an admission saved mid-form. Drafts get a
// placeholder receipt so the real MH number is only burned on final submit.
func NewDraftReceiptNumber(now time.Time) string {
	return fmt.Sprintf("DRAFT_%d", now.UnixMilli())
}

// IsDraftReceipt reports whether a receipt number is a draft placeholder.
func IsDraftReceipt(receipt string) bool {
	return strings.HasPrefix(receipt, "DRAFT_")
}

func serialNumber(prefix string, now time.Time) string {
	return fmt.Sprintf("%s%02d%02d%02d%03d",
		prefix,
		now.Year()%100,
		int(now.Month()),
		now.Day(),
		rand.Intn(1000))
}
