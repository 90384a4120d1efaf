package models

// Booking workflow statuses.
const (
	BookingStatusPending   = "pending"
	BookingStatusConfirmed = "confirmed"
	BookingStatusCompleted = "completed"
	BookingStatusCancelled = "cancelled"
)

// BookingStatusLabel maps a workflow status to the Persian label shown on the
// admin panel and written into CSV exports.
func BookingStatusLabel(status string) string {
	switch status {
	case BookingStatusPending:
		return "در انتظار"
	case BookingStatusConfirmed:
		return "تأیید شده"
	case BookingStatusCompleted:
		return "تکمیل شده"
	case BookingStatusCancelled:
		return "لغو شده"
	}
	return status
}

// ValidBookingStatus reports whether s is a known workflow status.
func ValidBookingStatus(s string) bool {
	switch s {
	case BookingStatusPending, BookingStatusConfirmed, BookingStatusCompleted, BookingStatusCancelled:
		return true
	}
	return false
}

// Booking is a shop appointment made from the public site. Date is a
// yyyy-mm-dd calendar day and Time is HH:MM.
type Booking struct {
	ID        string `bson:"_id,omitempty" json:"id"`
	Name      string `bson:"name" json:"name"`
	Phone     string `bson:"phone" json:"phone"`
	CarModel  string `bson:"carModel" json:"carModel"`
	Service   string `bson:"service" json:"service"`
	Date      string `bson:"date" json:"date"`
	Time      string `bson:"time" json:"time"`
	Status    string `bson:"status" json:"status"`
	Notes     string `bson:"notes" json:"notes"`
	CreatedAt string `bson:"createdAt" json:"createdAt"`
}
