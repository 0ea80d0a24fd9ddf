package schedule

import (
	"context"

	"lashstudio/internal/domain"
	"lashstudio/internal/timegrid"
)

type SlotRepository interface {
	ListByDate(ctx context.Context, date string) ([]domain.Slot, error)
	CreateRanges(ctx context.Context, date string, ranges []timegrid.Range) error
	Delete(ctx context.Context, id int64) error
}
