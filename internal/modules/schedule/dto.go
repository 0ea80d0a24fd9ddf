package schedule

import "lashstudio/internal/timegrid"

type CreateSlotsRequest struct {
	Date     string           `json:"date" binding:"required"`
	Slots    []timegrid.Range `json:"slots"`
	Template string           `json:"template"`
}

type OpenDayRequest struct {
	Date     string `json:"date" binding:"required"`
	FromHour *int   `json:"from_hour"`
	ToHour   *int   `json:"to_hour"`
}

type OpenDayResponse struct {
	Date    string `json:"date"`
	Created int    `json:"created"`
}

type ListQuery struct {
	Date string `form:"date" binding:"required"`
}
