package adherence

import (
	"time"

	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// Occurrence is a single expected instance of a schedule on one calendar
// day. At is the nominal timestamp (day combined with the schedule's
// time-of-day).
type Occurrence struct {
	ScheduleID uint
	Day        time.Time
	At         time.Time
}

// forEachOccurrence walks the days of w in order and yields one occurrence
// for every day the schedule is active. The walk stops early when fn
// returns false. It holds no state between calls, so a schedule can be
// re-expanded any number of times.
func forEachOccurrence(s Schedule, w Window, fn func(Occurrence) bool) {
	if !s.Active {
		return
	}
	end := utils.DateOnly(w.End)
	for day := utils.DateOnly(w.Start); !day.After(end); day = day.AddDate(0, 0, 1) {
		if !s.ActiveOn(day) {
			continue
		}
		o := Occurrence{
			ScheduleID: s.ID,
			Day:        day,
			At:         utils.CombineDateTime(day, s.TimeOfDay),
		}
		if !fn(o) {
			return
		}
	}
}

// Expand materializes the ordered occurrence sequence of s over w.
func Expand(s Schedule, w Window) []Occurrence {
	var occs []Occurrence
	forEachOccurrence(s, w, func(o Occurrence) bool {
		occs = append(occs, o)
		return true
	})
	return occs
}
