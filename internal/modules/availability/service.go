package availability

import (
	"context"
	"fmt"
	"time"

	"lashstudio/internal/domain"
	"lashstudio/internal/timegrid"
)

const (
	ModeFree  = "free"
	ModeTight = "tight"
)

type TimesResponse struct {
	Mode  string           `json:"mode"`
	Times []timegrid.Range `json:"times"`
}

type CalendarDay struct {
	Date     string `json:"date"`
	Total    int    `json:"total"`
	Free     int    `json:"free"`
	Bookable bool   `json:"bookable"`
}

type Service struct {
	slots           SlotRepository
	services        ServiceRepository
	tightWindowDays int
	now             func() time.Time
}

func NewService(slots SlotRepository, services ServiceRepository, tightWindowDays int) *Service {
	return &Service{
		slots:           slots,
		services:        services,
		tightWindowDays: tightWindowDays,
		now:             time.Now,
	}
}

func (s *Service) today() string {
	return s.now().UTC().Format("2006-01-02")
}

// AvailableTimes returns the candidate start blocks for a service on
// a date. Near-term dates (within the tight window) are biased toward
// blocks adjacent to existing bookings so the schedule stays packed;
// when that filter leaves nothing, all candidates are returned rather
// than an artificially empty day.
func (s *Service) AvailableTimes(ctx context.Context, date string, serviceID int64) (*TimesResponse, error) {
	svc, err := s.lookupBookable(ctx, serviceID)
	if err != nil {
		return nil, err
	}
	if svc == nil {
		return &TimesResponse{Mode: ModeFree, Times: []timegrid.Range{}}, nil
	}

	slots, err := s.slots.ListByDate(ctx, date)
	if err != nil {
		return nil, err
	}

	blocks := candidateBlocks(slots, int(svc.DurationMin))

	tight := daysBetween(s.today(), date) <= s.tightWindowDays
	mode := ModeFree
	if tight {
		mode = ModeTight
		if filtered := adjacentToBooked(blocks, slots); len(filtered) > 0 {
			blocks = filtered
		}
	}

	if blocks == nil {
		blocks = []timegrid.Range{}
	}
	return &TimesResponse{Mode: mode, Times: blocks}, nil
}

// AvailableDates lists dates from today on with at least one
// candidate run for the service. Without a service filter, any date
// with a free slot qualifies.
func (s *Service) AvailableDates(ctx context.Context, serviceID *int64) ([]string, error) {
	neededMin := 1
	if serviceID != nil {
		svc, err := s.lookupBookable(ctx, *serviceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			return []string{}, nil
		}
		neededMin = int(svc.DurationMin)
	}

	dates, err := s.slots.ListFreeDates(ctx, s.today())
	if err != nil {
		return nil, err
	}

	valid := make([]string, 0, len(dates))
	for _, date := range dates {
		slots, err := s.slots.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}
		if hasRun(slots, neededMin) {
			valid = append(valid, date)
		}
	}
	return valid, nil
}

// Calendar returns per-day slot counts for a month, with a bookable
// flag so the client can grey out days without a detail fetch.
func (s *Service) Calendar(ctx context.Context, year, month int, serviceID *int64) ([]CalendarDay, error) {
	neededMin := 1
	svcMissing := false
	if serviceID != nil {
		svc, err := s.lookupBookable(ctx, *serviceID)
		if err != nil {
			return nil, err
		}
		if svc == nil {
			// keep the counts but mark nothing bookable, matching
			// AvailableTimes/AvailableDates for an unknown service
			svcMissing = true
		} else {
			neededMin = int(svc.DurationMin)
		}
	}

	first := time.Date(year, time.Month(month), 1, 0, 0, 0, 0, time.UTC)
	daysInMonth := first.AddDate(0, 1, -1).Day()
	today := s.today()

	days := make([]CalendarDay, 0, daysInMonth)
	for day := 1; day <= daysInMonth; day++ {
		date := fmt.Sprintf("%04d-%02d-%02d", year, month, day)
		if date < today {
			continue
		}

		slots, err := s.slots.ListByDate(ctx, date)
		if err != nil {
			return nil, err
		}

		free := 0
		for _, sl := range slots {
			if !sl.IsBooked {
				free++
			}
		}

		bookable := false
		if len(slots) > 0 && !svcMissing {
			if serviceID != nil {
				bookable = hasRun(slots, neededMin)
			} else {
				bookable = free > 0
			}
		}

		days = append(days, CalendarDay{Date: date, Total: len(slots), Free: free, Bookable: bookable})
	}
	return days, nil
}

// lookupBookable resolves an active main service; nil when the id
// does not name one.
func (s *Service) lookupBookable(ctx context.Context, id int64) (*domain.Service, error) {
	svc, err := s.services.GetByID(ctx, id)
	if err != nil {
		if isNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	if !svc.IsActive || svc.Class != domain.ServiceMain {
		return nil, nil
	}
	return svc, nil
}
