package availability

import (
	"time"

	"lashstudio/internal/domain"
	"lashstudio/internal/timegrid"
)

// candidateBlocks scans slots (sorted by start time) for every run of
// adjacent free slots whose cumulative duration covers neededMin
// minutes. Adjacency means one slot's end equals the next slot's
// start. Each qualifying run yields one block spanning the slots that
// reach coverage, so slots of any size count by their actual length.
func candidateBlocks(slots []domain.Slot, neededMin int) []timegrid.Range {
	var blocks []timegrid.Range
	for i := range slots {
		if slots[i].IsBooked {
			continue
		}
		covered := 0
		for j := i; j < len(slots); j++ {
			if slots[j].IsBooked {
				break
			}
			if j > i && slots[j-1].EndTime != slots[j].StartTime {
				break
			}
			covered += timegrid.RangeMinutes(slots[j].StartTime, slots[j].EndTime)
			if covered >= neededMin {
				blocks = append(blocks, timegrid.Range{
					Start: slots[i].StartTime,
					End:   slots[j].EndTime,
				})
				break
			}
		}
	}
	return blocks
}

// hasRun reports whether any adjacent free run covers neededMin
// minutes.
func hasRun(slots []domain.Slot, neededMin int) bool {
	return len(candidateBlocks(slots, neededMin)) > 0
}

// adjacentToBooked keeps only blocks packed against an occupied slot:
// the block starts right where a booked slot ends, or ends right
// where one starts. Day edges do not count.
func adjacentToBooked(blocks []timegrid.Range, slots []domain.Slot) []timegrid.Range {
	var out []timegrid.Range
	for _, b := range blocks {
		for _, s := range slots {
			if !s.IsBooked {
				continue
			}
			if b.Start == s.EndTime || b.End == s.StartTime {
				out = append(out, b)
				break
			}
		}
	}
	return out
}

// daysBetween returns whole days from one YYYY-MM-DD date to another.
// Unparseable input counts as far in the future, which keeps the
// engine in free mode.
func daysBetween(from, to string) int {
	f, err1 := time.Parse("2006-01-02", from)
	t, err2 := time.Parse("2006-01-02", to)
	if err1 != nil || err2 != nil {
		return 999
	}
	return int(t.Sub(f).Hours() / 24)
}
