package domain

type ServiceClass string

const (
	ServiceMain  ServiceClass = "main"
	ServiceAddon ServiceClass = "addon"
)

// Service is a bookable offering. Price is in minor currency units.
// Addon services are never booked directly; they attach to a main
// service's booking.
type Service struct {
	ID          int64        `json:"id"`
	Name        string       `json:"name"`
	Description string       `json:"description"`
	Price       int64        `json:"price"`
	DurationMin int64        `json:"duration_min"`
	IsActive    bool         `json:"is_active"`
	SortOrder   int64        `json:"sort_order"`
	Class       ServiceClass `json:"service_type"`
}
