package repository

import (
	"context"
	"errors"
	"time"

	"lashstudio/internal/domain"
	"lashstudio/internal/timegrid"

	"github.com/jackc/pgx/v5/pgconn"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type BookingRepository struct {
	db *gorm.DB
}

func NewBookingRepository(db *gorm.DB) *BookingRepository {
	return &BookingRepository{db: db}
}

type bookingModel struct {
	ID              int64      `gorm:"column:id;primaryKey"`
	ServiceID       int64      `gorm:"column:service_id;index:idx_bookings_service_id"`
	ClientTgID      int64      `gorm:"column:client_tg_id;index:idx_bookings_client_tg_id"`
	ClientUsername  *string    `gorm:"column:client_username"`
	ClientFirstName string     `gorm:"column:client_first_name"`
	Date            string     `gorm:"column:date;index:idx_bookings_date"`
	StartTime       string     `gorm:"column:start_time"`
	EndTime         string     `gorm:"column:end_time"`
	WithAddon       bool       `gorm:"column:with_addon;default:false"`
	TotalPrice      int64      `gorm:"column:total_price"`
	Status          string     `gorm:"column:status;index:idx_bookings_status"`
	PaymentStatus   string     `gorm:"column:payment_status;default:none"`
	PaymentID       *string    `gorm:"column:payment_id"`
	PaymentURL      *string    `gorm:"column:payment_url"`
	PrepaidAmount   int64      `gorm:"column:prepaid_amount;default:0"`
	CreatedAt       time.Time  `gorm:"column:created_at"`
	CancelledAt     *time.Time `gorm:"column:cancelled_at"`
}

func (bookingModel) TableName() string { return "bookings" }

func toDomainBooking(m bookingModel) *domain.Booking {
	b := &domain.Booking{
		ID:              m.ID,
		ServiceID:       m.ServiceID,
		ClientTgID:      m.ClientTgID,
		ClientFirstName: m.ClientFirstName,
		Date:            m.Date,
		StartTime:       m.StartTime,
		EndTime:         m.EndTime,
		WithAddon:       m.WithAddon,
		TotalPrice:      m.TotalPrice,
		Status:          domain.BookingStatus(m.Status),
		PaymentStatus:   domain.PaymentStatus(m.PaymentStatus),
		PrepaidAmount:   m.PrepaidAmount,
		CreatedAt:       m.CreatedAt,
		CancelledAt:     m.CancelledAt,
	}
	if m.ClientUsername != nil {
		b.ClientUsername = *m.ClientUsername
	}
	if m.PaymentID != nil {
		b.PaymentID = *m.PaymentID
	}
	if m.PaymentURL != nil {
		b.PaymentURL = *m.PaymentURL
	}
	return b
}

func toBookingModel(b *domain.Booking) bookingModel {
	m := bookingModel{
		ID:              b.ID,
		ServiceID:       b.ServiceID,
		ClientTgID:      b.ClientTgID,
		ClientFirstName: b.ClientFirstName,
		Date:            b.Date,
		StartTime:       b.StartTime,
		EndTime:         b.EndTime,
		WithAddon:       b.WithAddon,
		TotalPrice:      b.TotalPrice,
		Status:          string(b.Status),
		PaymentStatus:   string(b.PaymentStatus),
		PrepaidAmount:   b.PrepaidAmount,
		CreatedAt:       b.CreatedAt,
		CancelledAt:     b.CancelledAt,
	}
	if b.ClientUsername != "" {
		v := b.ClientUsername
		m.ClientUsername = &v
	}
	if b.PaymentID != "" {
		v := b.PaymentID
		m.PaymentID = &v
	}
	if b.PaymentURL != "" {
		v := b.PaymentURL
		m.PaymentURL = &v
	}
	return m
}

// Reserve atomically claims the contiguous free slot run starting at
// b.StartTime on b.Date whose cumulative duration covers neededMin
// minutes, inserts the booking row, and sets b.EndTime to the run's
// end. The slot rows are locked for the duration of the transaction,
// so two concurrent reservations of overlapping runs are
// total-ordered: one commits, the other gets ErrSlotsUnavailable.
//
// afterInsert, when non-nil, runs inside the same transaction once
// the booking id is known (payment-intent creation). Any error it
// returns rolls everything back, slots included.
func (r *BookingRepository) Reserve(ctx context.Context, b *domain.Booking, neededMin int, afterInsert func(b *domain.Booking) error) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var candidates []slotModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			Where("date = ? AND start_time >= ?", b.Date, b.StartTime).
			Order("start_time ASC").
			Find(&candidates).Error; err != nil {
			return err
		}

		if len(candidates) == 0 || candidates[0].StartTime != b.StartTime {
			return ErrSlotsUnavailable
		}
		var slots []slotModel
		covered := 0
		for i, s := range candidates {
			if s.IsBooked {
				return ErrSlotsUnavailable
			}
			if i > 0 && candidates[i-1].EndTime != s.StartTime {
				return ErrSlotsUnavailable
			}
			slots = append(slots, s)
			covered += timegrid.RangeMinutes(s.StartTime, s.EndTime)
			if covered >= neededMin {
				break
			}
		}
		if covered < neededMin {
			return ErrSlotsUnavailable
		}
		b.EndTime = slots[len(slots)-1].EndTime

		m := toBookingModel(b)
		if err := tx.Create(&m).Error; err != nil {
			var pgErr *pgconn.PgError
			if errors.As(err, &pgErr) && pgErr.Code == "23505" {
				return ErrSlotsUnavailable
			}
			return err
		}

		ids := make([]int64, 0, len(slots))
		for _, s := range slots {
			ids = append(ids, s.ID)
		}
		res := tx.Model(&slotModel{}).
			Where("id IN ? AND is_booked = ?", ids, false).
			Updates(map[string]interface{}{"is_booked": true, "booking_id": m.ID})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected != int64(len(ids)) {
			// lost a race the lock did not cover (e.g. sqlite)
			return ErrSlotsUnavailable
		}

		*b = *toDomainBooking(m)

		if afterInsert != nil {
			if err := afterInsert(b); err != nil {
				return err
			}
			if err := tx.Model(&bookingModel{}).Where("id = ?", b.ID).
				Updates(map[string]interface{}{
					"status":         string(b.Status),
					"payment_status": string(b.PaymentStatus),
					"payment_id":     b.PaymentID,
					"payment_url":    b.PaymentURL,
					"prepaid_amount": b.PrepaidAmount,
				}).Error; err != nil {
				return err
			}
		}
		return nil
	})
}

func (r *BookingRepository) GetByID(ctx context.Context, id int64) (*domain.Booking, error) {
	var m bookingModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainBooking(m), nil
}

// Cancel moves a cancellable booking to cancelled and releases its
// slots. Returns false when the booking was no longer cancellable
// (already terminal), so racing cancellations stay no-ops.
func (r *BookingRepository) Cancel(ctx context.Context, id int64, at time.Time) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status IN ?", id, []string{
				string(domain.BookingPendingPayment),
				string(domain.BookingConfirmed),
			}).
			Updates(map[string]interface{}{
				"status":       string(domain.BookingCancelled),
				"cancelled_at": at,
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return freeSlots(tx, id)
	})
	return changed, err
}

// Expire moves a pending_payment booking to expired and releases its
// slots. A booking in any other state is left alone.
func (r *BookingRepository) Expire(ctx context.Context, id int64) (bool, error) {
	changed := false
	err := r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		res := tx.Model(&bookingModel{}).
			Where("id = ? AND status = ?", id, string(domain.BookingPendingPayment)).
			Updates(map[string]interface{}{
				"status":         string(domain.BookingExpired),
				"payment_status": string(domain.PaymentNone),
			})
		if res.Error != nil {
			return res.Error
		}
		if res.RowsAffected == 0 {
			return nil
		}
		changed = true
		return freeSlots(tx, id)
	})
	return changed, err
}

// ConfirmPaid moves a pending_payment booking to confirmed/paid.
// Returns false when the booking was not pending, making duplicate
// webhook deliveries no-ops.
func (r *BookingRepository) ConfirmPaid(ctx context.Context, id int64, prepaid int64) (bool, error) {
	res := r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ? AND status = ?", id, string(domain.BookingPendingPayment)).
		Updates(map[string]interface{}{
			"status":         string(domain.BookingConfirmed),
			"payment_status": string(domain.PaymentPaid),
			"prepaid_amount": prepaid,
		})
	if res.Error != nil {
		return false, res.Error
	}
	return res.RowsAffected > 0, nil
}

// MarkRefunded records a completed refund on a cancelled booking.
func (r *BookingRepository) MarkRefunded(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Model(&bookingModel{}).
		Where("id = ?", id).
		Update("payment_status", string(domain.PaymentRefunded)).Error
}

// ListPendingBefore returns pending_payment bookings created before
// the cutoff, for the expiry sweep.
func (r *BookingRepository) ListPendingBefore(ctx context.Context, cutoff time.Time) ([]domain.Booking, error) {
	var ms []bookingModel
	tx := r.db.WithContext(ctx).
		Where("status = ? AND created_at < ?", string(domain.BookingPendingPayment), cutoff).
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	out := make([]domain.Booking, 0, len(ms))
	for _, m := range ms {
		out = append(out, *toDomainBooking(m))
	}
	return out, nil
}

type detailRow struct {
	bookingModel
	ServiceName  string `gorm:"column:service_name"`
	ServicePrice int64  `gorm:"column:service_price"`
}

func toDetails(rows []detailRow) []domain.BookingDetail {
	out := make([]domain.BookingDetail, 0, len(rows))
	for _, row := range rows {
		out = append(out, domain.BookingDetail{
			Booking:      *toDomainBooking(row.bookingModel),
			ServiceName:  row.ServiceName,
			ServicePrice: row.ServicePrice,
		})
	}
	return out
}

func (r *BookingRepository) detailQuery(ctx context.Context) *gorm.DB {
	return r.db.WithContext(ctx).
		Model(&bookingModel{}).
		Select("bookings.*, services.name AS service_name, services.price AS service_price").
		Joins("JOIN services ON services.id = bookings.service_id")
}

// ListUpcomingByClient returns the client's confirmed bookings from
// fromDate on, soonest first.
func (r *BookingRepository) ListUpcomingByClient(ctx context.Context, clientTgID int64, fromDate string) ([]domain.BookingDetail, error) {
	var rows []detailRow
	tx := r.detailQuery(ctx).
		Where("bookings.client_tg_id = ? AND bookings.status = ? AND bookings.date >= ?",
			clientTgID, string(domain.BookingConfirmed), fromDate).
		Order("bookings.date ASC, bookings.start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDetails(rows), nil
}

// ListConfirmedByDate returns the day's confirmed bookings in start
// order, for the provider's schedule views.
func (r *BookingRepository) ListConfirmedByDate(ctx context.Context, date string) ([]domain.BookingDetail, error) {
	var rows []detailRow
	tx := r.detailQuery(ctx).
		Where("bookings.date = ? AND bookings.status = ?", date, string(domain.BookingConfirmed)).
		Order("bookings.start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDetails(rows), nil
}

// ListConfirmedBetween returns confirmed bookings in [from, to].
func (r *BookingRepository) ListConfirmedBetween(ctx context.Context, from, to string) ([]domain.BookingDetail, error) {
	var rows []detailRow
	tx := r.detailQuery(ctx).
		Where("bookings.date BETWEEN ? AND ? AND bookings.status = ?", from, to, string(domain.BookingConfirmed)).
		Order("bookings.date ASC, bookings.start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDetails(rows), nil
}

// ListConfirmedFrom returns confirmed bookings from fromDate on.
func (r *BookingRepository) ListConfirmedFrom(ctx context.Context, fromDate string) ([]domain.BookingDetail, error) {
	var rows []detailRow
	tx := r.detailQuery(ctx).
		Where("bookings.date >= ? AND bookings.status = ?", fromDate, string(domain.BookingConfirmed)).
		Order("bookings.date ASC, bookings.start_time ASC").
		Find(&rows)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDetails(rows), nil
}

func freeSlots(tx *gorm.DB, bookingID int64) error {
	return tx.Model(&slotModel{}).
		Where("booking_id = ?", bookingID).
		Updates(map[string]interface{}{"is_booked": false, "booking_id": nil}).Error
}
