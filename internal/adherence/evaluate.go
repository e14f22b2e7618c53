package adherence

import (
	"math"
	"time"

	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// Tally is an adherence count over a set of expected occurrences.
type Tally struct {
	Scheduled int `json:"scheduled"`
	Completed int `json:"completed"`
}

// Percent returns the adherence percentage rounded to two decimals.
// An empty tally is 0, never a division by zero.
func (t Tally) Percent() float64 {
	if t.Scheduled == 0 {
		return 0
	}
	return round2(float64(t.Completed) / float64(t.Scheduled) * 100)
}

// Add returns the element-wise sum of two tallies.
func (t Tally) Add(o Tally) Tally {
	return Tally{Scheduled: t.Scheduled + o.Scheduled, Completed: t.Completed + o.Completed}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// occKey identifies one expected occurrence: a schedule on a calendar day.
type occKey struct {
	scheduleID uint
	day        string
}

func keyFor(scheduleID uint, day time.Time) occKey {
	return occKey{scheduleID: scheduleID, day: day.Format(utils.DateLayout)}
}

// fulfillment maps occurrences to whether a qualifying log exists. With
// more than one matching log an occurrence qualifies if any log does.
type fulfillment map[occKey]bool

// doseFulfillment indexes medication logs. A dose only qualifies when
// TakenAt is set; a log row without it is an unconfirmed entry and still
// counts as missed.
func doseFulfillment(logs []DoseLog) fulfillment {
	idx := make(fulfillment, len(logs))
	for _, l := range logs {
		k := keyFor(l.ScheduleID, l.ScheduledDate)
		idx[k] = idx[k] || l.TakenAt != nil
	}
	return idx
}

// bpFulfillment indexes BP logs by the calendar day of CheckedAt. Presence
// of any reading fulfills the check.
func bpFulfillment(logs []BPLog) fulfillment {
	idx := make(fulfillment, len(logs))
	for _, l := range logs {
		idx[keyFor(l.ScheduleID, l.CheckedAt)] = true
	}
	return idx
}

func sugarFulfillment(logs []SugarLog) fulfillment {
	idx := make(fulfillment, len(logs))
	for _, l := range logs {
		idx[keyFor(l.ScheduleID, l.CheckedAt)] = true
	}
	return idx
}

// evaluate classifies every occurrence of the given schedules over w as
// completed or missed against the fulfillment index. The same rule backs
// both alert generation and report aggregation so their counts always
// agree for identical input.
func evaluate(schedules []Schedule, idx fulfillment, w Window) Tally {
	var t Tally
	for _, s := range schedules {
		forEachOccurrence(s, w, func(o Occurrence) bool {
			t.Scheduled++
			if idx[keyFor(o.ScheduleID, o.Day)] {
				t.Completed++
			}
			return true
		})
	}
	return t
}

// EvaluateMedication tallies medication adherence over the window.
func EvaluateMedication(schedules []Schedule, logs []DoseLog, w Window) Tally {
	return evaluate(schedules, doseFulfillment(logs), w)
}

// EvaluateBP tallies blood pressure check adherence over the window.
func EvaluateBP(schedules []Schedule, logs []BPLog, w Window) Tally {
	return evaluate(schedules, bpFulfillment(logs), w)
}

// EvaluateSugar tallies sugar check adherence over the window.
func EvaluateSugar(schedules []Schedule, logs []SugarLog, w Window) Tally {
	return evaluate(schedules, sugarFulfillment(logs), w)
}
