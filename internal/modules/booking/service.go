package booking

import (
	"context"
	"errors"
	"fmt"
	"log"
	"time"

	"lashstudio/internal/domain"
	"lashstudio/internal/repository"
	"lashstudio/internal/timegrid"

	"gorm.io/gorm"
)

// Price in minor units charged for the add-on when no addon service
// row is configured.
const fallbackAddonPrice = 50000

type Service struct {
	bookings BookingRepository
	services ServiceRepository
	gateway  PaymentGateway
	notifs   NotificationSender

	refundLeadTime time.Duration
	now            func() time.Time
}

func NewService(bookings BookingRepository, services ServiceRepository, gateway PaymentGateway, notifs NotificationSender, refundLeadTime time.Duration) *Service {
	return &Service{
		bookings:       bookings,
		services:       services,
		gateway:        gateway,
		notifs:         notifs,
		refundLeadTime: refundLeadTime,
		now:            time.Now,
	}
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// Create reserves the slot run and persists the booking atomically.
// With a payment gateway configured the booking lands in
// pending_payment and carries a confirmation URL; otherwise it is
// confirmed immediately. The intent is created inside the reservation
// transaction, so a gateway failure releases the slots.
func (s *Service) Create(ctx context.Context, user domain.TelegramUser, req CreateBookingRequest) (*CreateBookingResponse, error) {
	if !timegrid.IsValidDate(req.Date) || !timegrid.IsValidTime(req.StartTime) {
		return nil, ErrValidation
	}

	svc, err := s.services.GetByID(ctx, req.ServiceID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrServiceNotFound
		}
		return nil, err
	}
	if !svc.IsActive {
		return nil, ErrServiceInactive
	}
	if svc.Class != domain.ServiceMain {
		// add-ons attach to a main booking, never book on their own
		return nil, ErrValidation
	}

	total := svc.Price
	if req.WithAddon {
		addon, err := s.services.GetActiveAddon(ctx)
		if err != nil {
			return nil, err
		}
		if addon != nil {
			total += addon.Price
		} else {
			total += fallbackAddonPrice
		}
	}

	b := &domain.Booking{
		ServiceID:       svc.ID,
		ClientTgID:      user.ID,
		ClientUsername:  user.Username,
		ClientFirstName: user.FirstName,
		Date:            req.Date,
		StartTime:       req.StartTime,
		EndTime:         timegrid.AddMinutes(req.StartTime, int(svc.DurationMin)),
		WithAddon:       req.WithAddon,
		TotalPrice:      total,
		Status:          domain.BookingConfirmed,
		PaymentStatus:   domain.PaymentNone,
		CreatedAt:       s.now().UTC(),
	}

	var afterInsert func(b *domain.Booking) error
	if s.gateway.Enabled() {
		b.Status = domain.BookingPendingPayment
		b.PaymentStatus = domain.PaymentPending
		afterInsert = func(b *domain.Booking) error {
			desc := fmt.Sprintf("Booking #%d: %s on %s at %s", b.ID, svc.Name, b.Date, b.StartTime)
			paymentID, confirmURL, err := s.gateway.CreatePayment(ctx, b.ID, b.TotalPrice, desc)
			if err != nil {
				return fmt.Errorf("%w: %v", ErrGateway, err)
			}
			b.PaymentID = paymentID
			b.PaymentURL = confirmURL
			b.PrepaidAmount = b.TotalPrice
			return nil
		}
	}

	// EndTime above is provisional; Reserve finalizes it from the
	// claimed slot run, which may overshoot the service duration when
	// slots are larger than needed.
	if err := s.bookings.Reserve(ctx, b, int(svc.DurationMin), afterInsert); err != nil {
		if errors.Is(err, repository.ErrSlotsUnavailable) {
			return nil, ErrSlotUnavailable
		}
		return nil, err
	}

	if s.notifs != nil {
		if b.Status == domain.BookingPendingPayment {
			s.notifs.NotifyBookingCreated(ctx, b, svc.Name)
		} else {
			s.notifs.NotifyBookingConfirmed(ctx, b, svc.Name)
		}
	}

	return &CreateBookingResponse{Booking: b, PaymentURL: b.PaymentURL}, nil
}

// Status serves the client's payment-completion polling. Only the
// owning client (or the provider) may look.
func (s *Service) Status(ctx context.Context, user domain.TelegramUser, isAdmin bool, id int64) (*StatusResponse, error) {
	b, err := s.getOwned(ctx, user, isAdmin, id)
	if err != nil {
		return nil, err
	}
	return &StatusResponse{Status: b.Status, PaymentStatus: b.PaymentStatus}, nil
}

// CancelByClient cancels the client's own booking, releases the
// slots, and refunds the prepayment when the lead time allows it.
func (s *Service) CancelByClient(ctx context.Context, user domain.TelegramUser, id int64) (*CancelResponse, error) {
	b, err := s.getOwned(ctx, user, false, id)
	if err != nil {
		return nil, err
	}
	return s.cancel(ctx, b, InitiatorClient)
}

// CancelByProvider cancels any cancellable booking with an
// unconditional refund and notifies the client.
func (s *Service) CancelByProvider(ctx context.Context, id int64) (*CancelResponse, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return s.cancel(ctx, b, InitiatorProvider)
}

func (s *Service) cancel(ctx context.Context, b *domain.Booking, initiator Initiator) (*CancelResponse, error) {
	if !b.Status.Cancellable() {
		return nil, ErrInvalidState
	}

	now := s.now().UTC()
	changed, err := s.bookings.Cancel(ctx, b.ID, now)
	if err != nil {
		return nil, err
	}
	if !changed {
		// raced with another cancellation or the expiry sweep
		return nil, ErrInvalidState
	}

	// re-read after the guarded update: a payment webhook landing
	// between the snapshot and the cancel must still be refunded
	if fresh, err := s.bookings.GetByID(ctx, b.ID); err == nil {
		b = fresh
	} else {
		log.Printf("level=error msg=failed to reload booking after cancel booking_id=%d err=%v", b.ID, err)
	}

	decision := EvaluateRefund(initiator, s.leadTime(b, now), s.refundLeadTime)

	refunded := false
	if decision.Full && b.PaymentStatus == domain.PaymentPaid && b.PaymentID != "" && s.gateway.Enabled() {
		if err := s.gateway.CreateRefund(ctx, b.PaymentID, b.PrepaidAmount); err != nil {
			// slots are already released; the refund is retried by hand
			log.Printf("level=error msg=refund failed booking_id=%d payment_id=%s err=%v", b.ID, b.PaymentID, err)
		} else {
			refunded = true
			if err := s.bookings.MarkRefunded(ctx, b.ID); err != nil {
				log.Printf("level=error msg=failed to record refund booking_id=%d err=%v", b.ID, err)
			}
		}
	}

	if s.notifs != nil {
		svcName := ""
		if svc, err := s.services.GetByID(ctx, b.ServiceID); err == nil {
			svcName = svc.Name
		}
		if initiator == InitiatorProvider {
			s.notifs.NotifyClientCancelledByProvider(ctx, b)
		} else {
			s.notifs.NotifyBookingCancelledByClient(ctx, b, svcName)
		}
	}

	return &CancelResponse{Refund: decision, Refunded: refunded}, nil
}

// leadTime is the time remaining until the appointment starts.
func (s *Service) leadTime(b *domain.Booking, now time.Time) time.Duration {
	start, err := time.Parse("2006-01-02 15:04", b.Date+" "+b.StartTime)
	if err != nil {
		return 0
	}
	return start.Sub(now)
}

// MyBookings returns the client's upcoming confirmed bookings.
func (s *Service) MyBookings(ctx context.Context, user domain.TelegramUser) ([]domain.BookingDetail, error) {
	return s.bookings.ListUpcomingByClient(ctx, user.ID, s.today())
}

// List serves the provider's booking views: a single date, a date
// range, or everything upcoming.
func (s *Service) List(ctx context.Context, q ListQuery) ([]domain.BookingDetail, error) {
	switch {
	case q.Date != "":
		if !timegrid.IsValidDate(q.Date) {
			return nil, ErrValidation
		}
		return s.bookings.ListConfirmedByDate(ctx, q.Date)
	case q.From != "" && q.To != "":
		if !timegrid.IsValidDate(q.From) || !timegrid.IsValidDate(q.To) {
			return nil, ErrValidation
		}
		return s.bookings.ListConfirmedBetween(ctx, q.From, q.To)
	default:
		return s.bookings.ListConfirmedFrom(ctx, s.today())
	}
}

func (s *Service) getOwned(ctx context.Context, user domain.TelegramUser, isAdmin bool, id int64) (*domain.Booking, error) {
	b, err := s.bookings.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	if !isAdmin && b.ClientTgID != user.ID {
		return nil, ErrForbidden
	}
	return b, nil
}
