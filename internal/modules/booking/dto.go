package booking

import "lashstudio/internal/domain"

type CreateBookingRequest struct {
	ServiceID int64  `json:"service_id" binding:"required"`
	Date      string `json:"date" binding:"required"`
	StartTime string `json:"start_time" binding:"required"`
	WithAddon bool   `json:"with_addon"`
}

type CreateBookingResponse struct {
	Booking    *domain.Booking `json:"booking"`
	PaymentURL string          `json:"payment_url,omitempty"`
}

type StatusResponse struct {
	Status        domain.BookingStatus `json:"status"`
	PaymentStatus domain.PaymentStatus `json:"payment_status"`
}

type CancelResponse struct {
	Refund   RefundDecision `json:"refund"`
	Refunded bool           `json:"refunded"`
}

type ListQuery struct {
	Date string `form:"date"`
	From string `form:"from"`
	To   string `form:"to"`
}
