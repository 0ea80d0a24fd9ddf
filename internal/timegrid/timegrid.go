package timegrid

import (
	"fmt"
	"regexp"
)

var (
	dateRe = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	timeRe = regexp.MustCompile(`^\d{2}:\d{2}$`)
)

// IsValidDate checks the YYYY-MM-DD shape only. Semantic range checks
// (month 13, day 32) belong to whoever parses the date into a real
// calendar value.
func IsValidDate(s string) bool {
	return dateRe.MatchString(s)
}

// IsValidTime checks the HH:MM shape only; an hour of 25 is
// well-formed here.
func IsValidTime(s string) bool {
	return timeRe.MatchString(s)
}

// IsValidTimeRange reports whether start and end are well-formed and
// start < end. Lexicographic comparison is exact because the format
// is fixed-width zero-padded.
func IsValidTimeRange(start, end string) bool {
	return IsValidTime(start) && IsValidTime(end) && start < end
}

// AddMinutes adds minutes to an HH:MM time, capping the result at the
// 24:00 day boundary.
func AddMinutes(t string, minutes int) string {
	total, ok := parseMinutes(t)
	if !ok {
		return t
	}
	total += minutes
	if total > 24*60 {
		total = 24 * 60
	}
	return fmt.Sprintf("%02d:%02d", total/60, total%60)
}

// RangeMinutes returns the length of [start, end) in minutes. A
// malformed or inverted range counts as zero.
func RangeMinutes(start, end string) int {
	s, okS := parseMinutes(start)
	e, okE := parseMinutes(end)
	if !okS || !okE || e < s {
		return 0
	}
	return e - s
}

func parseMinutes(t string) (int, bool) {
	var hour, min int
	if _, err := fmt.Sscanf(t, "%d:%d", &hour, &min); err != nil {
		return 0, false
	}
	return hour*60 + min, true
}

// Range is a (start, end) pair in HH:MM.
type Range struct {
	Start string `json:"start_time"`
	End   string `json:"end_time"`
}

// HourRange decomposes [from, to) hours into one-hour ranges.
// Returns nil when the bounds are out of order or out of the day.
func HourRange(from, to int) []Range {
	if from < 0 || to > 24 || from >= to {
		return nil
	}
	out := make([]Range, 0, to-from)
	for h := from; h < to; h++ {
		out = append(out, Range{
			Start: fmt.Sprintf("%02d:00", h),
			End:   fmt.Sprintf("%02d:00", h+1),
		})
	}
	return out
}

// Slot templates the provider can open a day with.
var Templates = map[string][]Range{
	"full_day": HourRange(12, 20),
	"morning":  HourRange(9, 13),
	"evening":  HourRange(16, 21),
}

// Default open-day hours, matching the full_day template.
const (
	DefaultOpenFrom = 12
	DefaultOpenTo   = 20
)
