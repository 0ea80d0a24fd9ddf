package timegrid

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2026-09-01"))
	assert.True(t, IsValidDate("2026-13-40")) // shape only, not semantics
	assert.False(t, IsValidDate("2026-9-1"))
	assert.False(t, IsValidDate("01-09-2026"))
	assert.False(t, IsValidDate(""))
	assert.False(t, IsValidDate("2026-09-01T00:00"))
}

func TestIsValidTime(t *testing.T) {
	assert.True(t, IsValidTime("09:00"))
	assert.True(t, IsValidTime("25:00")) // well-formed, semantically bogus
	assert.False(t, IsValidTime("9:00"))
	assert.False(t, IsValidTime("09:0"))
	assert.False(t, IsValidTime("0900"))
	assert.False(t, IsValidTime(""))
}

func TestIsValidTimeRange(t *testing.T) {
	assert.True(t, IsValidTimeRange("09:00", "10:00"))
	assert.True(t, IsValidTimeRange("09:59", "10:00"))
	assert.False(t, IsValidTimeRange("10:00", "10:00"))
	assert.False(t, IsValidTimeRange("11:00", "10:00"))
	assert.False(t, IsValidTimeRange("bad", "10:00"))
	assert.False(t, IsValidTimeRange("09:00", "bad"))
}

func TestAddMinutes(t *testing.T) {
	assert.Equal(t, "11:00", AddMinutes("09:00", 120))
	assert.Equal(t, "09:20", AddMinutes("09:00", 20))
	assert.Equal(t, "10:30", AddMinutes("09:45", 45))
	// the last slot of the day may end exactly at midnight
	assert.Equal(t, "24:00", AddMinutes("23:00", 60))
	// never crosses the day boundary
	assert.Equal(t, "24:00", AddMinutes("23:00", 90))
	assert.Equal(t, "bad", AddMinutes("bad", 60))
}

func TestRangeMinutes(t *testing.T) {
	assert.Equal(t, 60, RangeMinutes("09:00", "10:00"))
	assert.Equal(t, 120, RangeMinutes("09:00", "11:00"))
	assert.Equal(t, 20, RangeMinutes("09:40", "10:00"))
	assert.Equal(t, 60, RangeMinutes("23:00", "24:00"))
	assert.Equal(t, 0, RangeMinutes("10:00", "10:00"))
	assert.Equal(t, 0, RangeMinutes("11:00", "10:00"))
	assert.Equal(t, 0, RangeMinutes("bad", "10:00"))
}

func TestHourRange(t *testing.T) {
	r := HourRange(12, 14)
	assert.Equal(t, []Range{{Start: "12:00", End: "13:00"}, {Start: "13:00", End: "14:00"}}, r)

	assert.Nil(t, HourRange(14, 12))
	assert.Nil(t, HourRange(10, 10))
	assert.Nil(t, HourRange(-1, 5))
	assert.Nil(t, HourRange(20, 25))
}

func TestTemplatesAreContiguous(t *testing.T) {
	for name, ranges := range Templates {
		assert.NotEmpty(t, ranges, name)
		for i, r := range ranges {
			assert.True(t, IsValidTimeRange(r.Start, r.End), name)
			if i > 0 {
				assert.Equal(t, ranges[i-1].End, r.Start, name)
			}
		}
	}
}
