package notification

import "time"

// ===============================
// Notification intents
// ===============================

// An Intent describes an event to deliver to one party. The engine only
// emits intents; transport (email/SMS) lives behind the Sender adapters.

type Type string

const (
	TypeNewBooking         Type = "new_booking"
	TypeBookingConfirmed   Type = "booking_confirmed"
	TypeBookingCancelled   Type = "booking_cancelled"
	TypeBookingRescheduled Type = "booking_rescheduled"
	TypeBookingCompleted   Type = "booking_completed"
	TypeNewReview          Type = "new_review"
)

type Recipient string

const (
	RecipientBusiness Recipient = "business"
	RecipientCustomer Recipient = "customer"
)

type Intent struct {
	Type      Type
	Recipient Recipient

	BusinessID uint
	BookingID  *uint

	ClientName  string
	ClientEmail string
	ClientPhone string

	// Populated per type.
	CancelledBy string     // booking_cancelled
	NewStart    *time.Time // booking_rescheduled
	ReviewLink  string     // booking_completed
	Rating      int        // new_review
	Comment     string     // new_review
}
