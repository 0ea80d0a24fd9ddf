package domain

// Slot is one hour of provider time on a calendar date. Date is
// YYYY-MM-DD, times are zero-padded HH:MM. Slots for a date are
// non-overlapping and ordered by StartTime; BookingID is set while
// the slot is occupied.
type Slot struct {
	ID        int64  `json:"id"`
	Date      string `json:"date"`
	StartTime string `json:"start_time"`
	EndTime   string `json:"end_time"`
	IsBooked  bool   `json:"is_booked"`
	BookingID *int64 `json:"booking_id,omitempty"`
}
