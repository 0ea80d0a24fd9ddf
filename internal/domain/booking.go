package domain

import "time"

type BookingStatus string

const (
	BookingPendingPayment BookingStatus = "pending_payment"
	BookingConfirmed      BookingStatus = "confirmed"
	BookingCancelled      BookingStatus = "cancelled"
	BookingExpired        BookingStatus = "expired"
)

type PaymentStatus string

const (
	PaymentNone     PaymentStatus = "none"
	PaymentPending  PaymentStatus = "pending"
	PaymentPaid     PaymentStatus = "paid"
	PaymentRefunded PaymentStatus = "refunded"
)

// Cancellable reports whether the booking may still be cancelled by
// the client or the provider.
func (s BookingStatus) Cancellable() bool {
	return s == BookingPendingPayment || s == BookingConfirmed
}

// Booking binds one client to one service over a contiguous run of
// slots. Date/StartTime/EndTime are denormalized from the slot run so
// cancelled bookings keep their schedule for audit.
type Booking struct {
	ID              int64         `json:"id"`
	ServiceID       int64         `json:"service_id"`
	ClientTgID      int64         `json:"client_tg_id"`
	ClientUsername  string        `json:"client_username,omitempty"`
	ClientFirstName string        `json:"client_first_name"`
	Date            string        `json:"date"`
	StartTime       string        `json:"start_time"`
	EndTime         string        `json:"end_time"`
	WithAddon       bool          `json:"with_addon"`
	TotalPrice      int64         `json:"total_price"`
	Status          BookingStatus `json:"status"`
	PaymentStatus   PaymentStatus `json:"payment_status"`
	PaymentID       string        `json:"payment_id,omitempty"`
	PaymentURL      string        `json:"payment_url,omitempty"`
	PrepaidAmount   int64         `json:"prepaid_amount"`
	CreatedAt       time.Time     `json:"created_at"`
	CancelledAt     *time.Time    `json:"cancelled_at,omitempty"`
}

// BookingDetail is a booking joined with its service for listings.
type BookingDetail struct {
	Booking
	ServiceName  string `json:"service_name"`
	ServicePrice int64  `json:"service_price"`
}
