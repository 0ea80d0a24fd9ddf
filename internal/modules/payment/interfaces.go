package payment

import (
	"context"
	"time"

	"lashstudio/internal/domain"
)

type BookingRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Booking, error)
	ConfirmPaid(ctx context.Context, id int64, prepaid int64) (bool, error)
	Expire(ctx context.Context, id int64) (bool, error)
	ListPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error)
}

type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}

type NotificationSender interface {
	NotifyBookingConfirmed(ctx context.Context, b *domain.Booking, serviceName string)
}
