package models

import "time"

// DailyReport is the end-of-day summary appended to the reporting spreadsheet.
type DailyReport struct {
	Date         time.Time `bson:"date" json:"date"`
	Admissions   int       `bson:"admissions" json:"admissions"`
	Invoices     int       `bson:"invoices" json:"invoices"`
	Revenue      int64     `bson:"revenue" json:"revenue"`
	OpenBookings int       `bson:"open_bookings" json:"openBookings"`
	CreatedAt    time.Time `bson:"created_at" json:"createdAt"`
}
