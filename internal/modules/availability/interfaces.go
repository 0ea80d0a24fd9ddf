package availability

import (
	"context"

	"lashstudio/internal/domain"
)

// SlotRepository is the slice of the slot store the engine reads.
type SlotRepository interface {
	ListByDate(ctx context.Context, date string) ([]domain.Slot, error)
	ListFreeDates(ctx context.Context, fromDate string) ([]string, error)
}

// ServiceRepository resolves the service whose duration drives the
// run length.
type ServiceRepository interface {
	GetByID(ctx context.Context, id int64) (*domain.Service, error)
}
