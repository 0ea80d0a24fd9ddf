package repository

import (
	"context"

	"lashstudio/internal/domain"
	"lashstudio/internal/timegrid"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

type SlotRepository struct {
	db *gorm.DB
}

func NewSlotRepository(db *gorm.DB) *SlotRepository {
	return &SlotRepository{db: db}
}

type slotModel struct {
	ID        int64  `gorm:"column:id;primaryKey"`
	Date      string `gorm:"column:date;index:idx_slots_date;uniqueIndex:idx_slots_date_start"`
	StartTime string `gorm:"column:start_time;uniqueIndex:idx_slots_date_start"`
	EndTime   string `gorm:"column:end_time"`
	IsBooked  bool   `gorm:"column:is_booked;default:false;index:idx_slots_date_booked"`
	BookingID *int64 `gorm:"column:booking_id;index:idx_slots_booking_id"`
}

func (slotModel) TableName() string { return "slots" }

func toDomainSlot(m slotModel) domain.Slot {
	return domain.Slot{
		ID:        m.ID,
		Date:      m.Date,
		StartTime: m.StartTime,
		EndTime:   m.EndTime,
		IsBooked:  m.IsBooked,
		BookingID: m.BookingID,
	}
}

func toDomainSlots(ms []slotModel) []domain.Slot {
	out := make([]domain.Slot, 0, len(ms))
	for _, m := range ms {
		out = append(out, toDomainSlot(m))
	}
	return out
}

// ListByDate returns the date's slots ordered by start time.
func (r *SlotRepository) ListByDate(ctx context.Context, date string) ([]domain.Slot, error) {
	var ms []slotModel
	tx := r.db.WithContext(ctx).
		Where("date = ?", date).
		Order("start_time ASC").
		Find(&ms)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return toDomainSlots(ms), nil
}

// ListFreeDates returns distinct dates >= fromDate that still have at
// least one unoccupied slot.
func (r *SlotRepository) ListFreeDates(ctx context.Context, fromDate string) ([]string, error) {
	var dates []string
	tx := r.db.WithContext(ctx).
		Model(&slotModel{}).
		Distinct("date").
		Where("is_booked = ? AND date >= ?", false, fromDate).
		Order("date ASC").
		Pluck("date", &dates)
	if tx.Error != nil {
		return nil, tx.Error
	}
	return dates, nil
}

func (r *SlotRepository) GetByID(ctx context.Context, id int64) (*domain.Slot, error) {
	var m slotModel
	tx := r.db.WithContext(ctx).First(&m, id)
	if tx.Error != nil {
		return nil, tx.Error
	}
	s := toDomainSlot(m)
	return &s, nil
}

// CreateRanges inserts slots for the given ranges, skipping any
// (date, start_time) that already exists. The layer deliberately does
// not reject overlapping ranges; the per-start uniqueness covers the
// only overlap the admin surfaces can produce.
func (r *SlotRepository) CreateRanges(ctx context.Context, date string, ranges []timegrid.Range) error {
	if len(ranges) == 0 {
		return nil
	}
	ms := make([]slotModel, 0, len(ranges))
	for _, rg := range ranges {
		ms = append(ms, slotModel{Date: date, StartTime: rg.Start, EndTime: rg.End})
	}
	tx := r.db.WithContext(ctx).
		Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "date"}, {Name: "start_time"}},
			DoNothing: true,
		}).
		Create(&ms)
	return tx.Error
}

// Delete removes an unoccupied slot. Returns ErrSlotOccupied when the
// slot is booked and gorm.ErrRecordNotFound when it does not exist.
func (r *SlotRepository) Delete(ctx context.Context, id int64) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var m slotModel
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).First(&m, id).Error; err != nil {
			return err
		}
		if m.IsBooked {
			return ErrSlotOccupied
		}
		return tx.Delete(&slotModel{}, id).Error
	})
}
