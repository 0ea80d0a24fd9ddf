package booking

import (
	"context"
	"time"

	"lashstudio/internal/domain"
)

type BookingRepository interface {
	Reserve(ctx context.Context, b *domain.Booking, neededMin int, afterInsert func(b *domain.Booking) error) error
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	Cancel(ctx context.Context, id int64, at time.Time) (bool, error)
	MarkRefunded(ctx context.Context, id int64) error
	ListUpcomingByClient(ctx context.Context, clientTgID int64, fromDate string) ([]domain.BookingDetail, error)
	ListConfirmedByDate(ctx context.Context, date string) ([]domain.BookingDetail, error)
	ListConfirmedBetween(ctx context.Context, from, to string) ([]domain.BookingDetail, error)
	ListConfirmedFrom(ctx context.Context, fromDate string) ([]domain.BookingDetail, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
	GetActiveAddon(ctx context.Context) (*domain.Service, error)
}

// PaymentGateway creates payment intents and refunds against the
// external provider. Enabled is false when no gateway is configured,
// in which case bookings confirm without prepayment.
type PaymentGateway interface {
	Enabled() bool
	CreatePayment(ctx context.Context, bookingID int64, amount int64, description string) (paymentID, confirmationURL string, err error)
	CreateRefund(ctx context.Context, paymentID string, amount int64) error
}

// NotificationSender is best-effort; implementations must not return
// errors into the booking flow.
type NotificationSender interface {
	NotifyBookingCreated(ctx context.Context, b *domain.Booking, serviceName string)
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking, serviceName string)
	NotifyBookingCancelledByClient(ctx context.Context, b *domain.Booking, serviceName string)
	NotifyClientCancelledByProvider(ctx context.Context, b *domain.Booking)
}
