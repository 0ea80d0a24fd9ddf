package payment

import (
	"context"
	"errors"
	"log"
	"strconv"
	"strings"
	"time"

	"gorm.io/gorm"
)

const (
	EventSucceeded = "payment.succeeded"
	EventCanceled  = "payment.canceled"
)

var ErrBadNotification = errors.New("malformed payment notification")

// Service reconciles the payment provider's view of a payment with
// the booking lifecycle. Every path is idempotent: replayed webhooks
// and webhook/sweep races converge on the same final state.
type Service struct {
	bookings       BookingRepository
	services       ServiceRepository
	notifications  NotificationSender
	pendingTimeout time.Duration

	now func() time.Time
}

func NewService(bookings BookingRepository, services ServiceRepository, notifications NotificationSender, pendingTimeout time.Duration) *Service {
	return &Service{
		bookings:       bookings,
		services:       services,
		notifications:  notifications,
		pendingTimeout: pendingTimeout,
		now:            time.Now,
	}
}

// HandleWebhook applies one provider notification. Unknown events and
// already-settled bookings are acknowledged without effect so the
// provider stops retrying.
func (s *Service) HandleWebhook(ctx context.Context, n WebhookNotification) error {
	if n.Event != EventSucceeded && n.Event != EventCanceled {
		log.Printf("level=info msg=webhook ignored event=%s", n.Event)
		return nil
	}

	bookingID, err := strconv.ParseInt(n.Object.Metadata.BookingID, 10, 64)
	if err != nil {
		return ErrBadNotification
	}

	b, err := s.bookings.GetByID(ctx, bookingID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			// Acknowledge; a booking we never knew cannot be reconciled.
			log.Printf("level=warn msg=webhook for unknown booking booking_id=%d", bookingID)
			return nil
		}
		return err
	}
	if b.PaymentID != "" && b.PaymentID != n.Object.ID {
		log.Printf("level=warn msg=webhook payment id mismatch booking_id=%d got=%s want=%s", bookingID, n.Object.ID, b.PaymentID)
		return nil
	}

	switch n.Event {
	case EventSucceeded:
		prepaid := parseAmount(n.Object.Amount.Value)
		changed, err := s.bookings.ConfirmPaid(ctx, bookingID, prepaid)
		if err != nil {
			return err
		}
		if changed {
			serviceName := ""
			if svc, err := s.services.GetByID(ctx, b.ServiceID); err == nil {
				serviceName = svc.Name
			}
			s.notifications.NotifyBookingConfirmed(ctx, b, serviceName)
			log.Printf("level=info msg=booking confirmed by webhook booking_id=%d prepaid=%d", bookingID, prepaid)
		}
	case EventCanceled:
		changed, err := s.bookings.Expire(ctx, bookingID)
		if err != nil {
			return err
		}
		if changed {
			log.Printf("level=info msg=booking expired by canceled payment booking_id=%d", bookingID)
		}
	}
	return nil
}

// SweepExpired expires every pending-payment booking older than the
// pending timeout and frees its slots. Returns the number expired.
func (s *Service) SweepExpired(ctx context.Context) (int, error) {
	cutoff := s.now().Add(-s.pendingTimeout)
	stale, err := s.bookings.ListPendingBefore(ctx, cutoff)
	if err != nil {
		return 0, err
	}

	expired := 0
	for _, b := range stale {
		changed, err := s.bookings.Expire(ctx, b.ID)
		if err != nil {
			log.Printf("level=error msg=sweep expire failed booking_id=%d err=%v", b.ID, err)
			continue
		}
		if changed {
			expired++
			log.Printf("level=info msg=booking expired by sweep booking_id=%d", b.ID)
		}
	}
	return expired, nil
}

// parseAmount converts the provider's "123.45" form to minor units.
// A malformed value parses to 0 rather than failing the confirmation.
func parseAmount(value string) int64 {
	whole, frac, _ := strings.Cut(value, ".")
	units, err := strconv.ParseInt(whole, 10, 64)
	if err != nil {
		return 0
	}
	minor := units * 100
	if frac != "" {
		if len(frac) > 2 {
			frac = frac[:2]
		}
		for len(frac) < 2 {
			frac += "0"
		}
		if cents, err := strconv.ParseInt(frac, 10, 64); err == nil {
			minor += cents
		}
	}
	return minor
}
