package schedule

import (
	"context"
	"errors"

	"lashstudio/internal/domain"
	"lashstudio/internal/repository"
	"lashstudio/internal/timegrid"

	"gorm.io/gorm"
)

type Service struct {
	slots SlotRepository
}

func NewService(slots SlotRepository) *Service {
	return &Service{slots: slots}
}

func (s *Service) ListByDate(ctx context.Context, date string) ([]domain.Slot, error) {
	if !timegrid.IsValidDate(date) {
		return nil, ErrValidation
	}
	return s.slots.ListByDate(ctx, date)
}

// CreateSlots opens slots on a date, either from an explicit list of
// ranges or from a named template. Already-existing starts are
// skipped, so the call is safe to repeat.
func (s *Service) CreateSlots(ctx context.Context, req CreateSlotsRequest) ([]domain.Slot, error) {
	if !timegrid.IsValidDate(req.Date) {
		return nil, ErrValidation
	}

	ranges := req.Slots
	if req.Template != "" {
		tpl, ok := timegrid.Templates[req.Template]
		if !ok {
			return nil, ErrValidation
		}
		ranges = tpl
	}
	if len(ranges) == 0 {
		return nil, ErrValidation
	}
	for _, rg := range ranges {
		if !timegrid.IsValidTimeRange(rg.Start, rg.End) {
			return nil, ErrValidation
		}
	}

	if err := s.slots.CreateRanges(ctx, req.Date, ranges); err != nil {
		return nil, err
	}
	return s.slots.ListByDate(ctx, req.Date)
}

// OpenDay opens the standard working hours on a date. Defaults to
// 12:00..20:00 when bounds are not given.
func (s *Service) OpenDay(ctx context.Context, req OpenDayRequest) (*OpenDayResponse, error) {
	if !timegrid.IsValidDate(req.Date) {
		return nil, ErrValidation
	}

	from := timegrid.DefaultOpenFrom
	to := timegrid.DefaultOpenTo
	if req.FromHour != nil {
		from = *req.FromHour
	}
	if req.ToHour != nil {
		to = *req.ToHour
	}

	ranges := timegrid.HourRange(from, to)
	if ranges == nil {
		return nil, ErrValidation
	}

	before, err := s.slots.ListByDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}
	if err := s.slots.CreateRanges(ctx, req.Date, ranges); err != nil {
		return nil, err
	}
	after, err := s.slots.ListByDate(ctx, req.Date)
	if err != nil {
		return nil, err
	}

	return &OpenDayResponse{Date: req.Date, Created: len(after) - len(before)}, nil
}

func (s *Service) Delete(ctx context.Context, id int64) error {
	err := s.slots.Delete(ctx, id)
	switch {
	case err == nil:
		return nil
	case errors.Is(err, gorm.ErrRecordNotFound):
		return ErrNotFound
	case errors.Is(err, repository.ErrSlotOccupied):
		return ErrSlotOccupied
	default:
		return err
	}
}
