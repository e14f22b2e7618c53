package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBuildSummaryTotalsAndDailySeries(t *testing.T) {
	med := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	bp := Schedule{
		ID:        2,
		Category:  CategoryBloodPressure,
		TimeOfDay: "09:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}

	taken := time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Medication: []Schedule{med},
		BP:         []Schedule{bp},
		DoseLogs: []DoseLog{
			{ScheduleID: 1, ScheduledDate: date(2024, time.January, 1), TakenAt: &taken},
		},
		BPLogs: []BPLog{
			{ScheduleID: 2, Systolic: 120, Diastolic: 80, CheckedAt: time.Date(2024, time.January, 2, 9, 5, 0, 0, time.UTC)},
		},
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 2)}

	summary := BuildSummary(snap, w)

	assert.Equal(t, 4, summary.TotalScheduled)
	assert.Equal(t, 2, summary.TotalCompleted)
	assert.Equal(t, float64(50), summary.Percent)
	assert.Equal(t, Tally{Scheduled: 2, Completed: 1}, summary.Breakdown.Medication)
	assert.Equal(t, Tally{Scheduled: 2, Completed: 1}, summary.Breakdown.BloodPressure)
	assert.Equal(t, Tally{Scheduled: 0, Completed: 0}, summary.Breakdown.Sugar)

	require.Len(t, summary.Daily, 2)
	assert.Equal(t, "2024-01-01", summary.Daily[0].Date)
	assert.Equal(t, 2, summary.Daily[0].Scheduled)
	assert.Equal(t, 1, summary.Daily[0].Completed)
	assert.Equal(t, float64(50), summary.Daily[0].Percent)
	assert.Equal(t, "2024-01-02", summary.Daily[1].Date)
	assert.Equal(t, 1, summary.Daily[1].Completed)
}

func TestBuildSummaryDailyTotalsMatchWindowTotals(t *testing.T) {
	med := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 3),
		EndDate:   datePtr(2024, time.January, 5),
		Active:    true,
	}
	taken := time.Date(2024, time.January, 4, 8, 0, 0, 0, time.UTC)
	snap := Snapshot{
		Medication: []Schedule{med},
		DoseLogs: []DoseLog{
			{ScheduleID: 1, ScheduledDate: date(2024, time.January, 4), TakenAt: &taken},
		},
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 7)}

	summary := BuildSummary(snap, w)

	var scheduled, completed int
	for _, d := range summary.Daily {
		scheduled += d.Scheduled
		completed += d.Completed
	}
	assert.Equal(t, summary.TotalScheduled, scheduled)
	assert.Equal(t, summary.TotalCompleted, completed)
}

func TestBuildSummaryEmptySnapshot(t *testing.T) {
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}
	summary := BuildSummary(Snapshot{}, w)

	assert.Equal(t, 0, summary.TotalScheduled)
	assert.Equal(t, float64(0), summary.Percent)
	require.Len(t, summary.Daily, 1)
	assert.Equal(t, float64(0), summary.Daily[0].Percent)
}
