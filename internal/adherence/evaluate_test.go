package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestPercentIsZeroWhenNothingScheduled(t *testing.T) {
	assert.Equal(t, float64(0), Tally{}.Percent())
	assert.Equal(t, float64(0), Tally{Scheduled: 0, Completed: 0}.Percent())
}

func TestPercentStaysWithinBounds(t *testing.T) {
	cases := []Tally{
		{Scheduled: 1, Completed: 0},
		{Scheduled: 1, Completed: 1},
		{Scheduled: 3, Completed: 1},
		{Scheduled: 7, Completed: 4},
		{Scheduled: 100, Completed: 99},
	}
	for _, c := range cases {
		p := c.Percent()
		assert.GreaterOrEqual(t, p, float64(0))
		assert.LessOrEqual(t, p, float64(100))
	}
}

func TestWeeklyMedicationAdherence(t *testing.T) {
	s := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}

	taken := time.Date(2024, time.January, 1, 8, 5, 0, 0, time.UTC)
	var logs []DoseLog
	for _, d := range []int{1, 3, 4, 6} {
		at := taken.AddDate(0, 0, d-1)
		logs = append(logs, DoseLog{ScheduleID: 1, ScheduledDate: date(2024, time.January, d), TakenAt: &at})
	}

	tally := EvaluateMedication([]Schedule{s}, logs, w)
	assert.Equal(t, 7, tally.Scheduled)
	assert.Equal(t, 4, tally.Completed)
	assert.Equal(t, 57.14, tally.Percent())
}

func TestUnconfirmedDoseCountsAsMissed(t *testing.T) {
	s := Schedule{ID: 1, TimeOfDay: "08:00", StartDate: date(2024, time.January, 1), Active: true}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	logs := []DoseLog{{ScheduleID: 1, ScheduledDate: date(2024, time.January, 1), TakenAt: nil}}

	tally := EvaluateMedication([]Schedule{s}, logs, w)
	assert.Equal(t, Tally{Scheduled: 1, Completed: 0}, tally)
}

func TestAnyQualifyingDuplicateLogCounts(t *testing.T) {
	s := Schedule{ID: 1, TimeOfDay: "08:00", StartDate: date(2024, time.January, 1), Active: true}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	at := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	logs := []DoseLog{
		{ScheduleID: 1, ScheduledDate: date(2024, time.January, 1), TakenAt: nil},
		{ScheduleID: 1, ScheduledDate: date(2024, time.January, 1), TakenAt: &at},
	}

	tally := EvaluateMedication([]Schedule{s}, logs, w)
	assert.Equal(t, Tally{Scheduled: 1, Completed: 1}, tally)
}

func TestBPCheckFulfilledByAnyReading(t *testing.T) {
	s := Schedule{ID: 9, TimeOfDay: "08:00", StartDate: date(2024, time.January, 1), Active: true}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 2)}

	logs := []BPLog{{
		ScheduleID: 9,
		Systolic:   120,
		Diastolic:  80,
		CheckedAt:  time.Date(2024, time.January, 1, 17, 45, 0, 0, time.UTC),
	}}

	tally := EvaluateBP([]Schedule{s}, logs, w)
	assert.Equal(t, Tally{Scheduled: 2, Completed: 1}, tally)
}
