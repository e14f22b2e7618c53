package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSortAlertsEmergencyFirstThenRecency(t *testing.T) {
	alerts := []Alert{
		{Tag: TagEmergency, Heading: "A", Date: "01/02/24", Time: "10:00"},
		{Tag: TagReminder, Heading: "B", Date: "01/03/24", Time: "09:00"},
		{Tag: TagEmergency, Heading: "C", Date: "01/01/24", Time: "08:00"},
	}

	sortAlerts(alerts)

	require.Len(t, alerts, 3)
	assert.Equal(t, "A", alerts[0].Heading)
	assert.Equal(t, "C", alerts[1].Heading)
	assert.Equal(t, "B", alerts[2].Heading)
}

func TestSortAlertsUnparsableEntriesLast(t *testing.T) {
	alerts := []Alert{
		{Tag: TagReminder, Heading: "bad", Date: "not-a-date", Time: "??"},
		{Tag: TagReminder, Heading: "good", Date: "01/05/24", Time: "08:00"},
	}

	sortAlerts(alerts)

	assert.Equal(t, "good", alerts[0].Heading)
	assert.Equal(t, "bad", alerts[1].Heading)
}

func TestMissedDoseWordingTodayVsPast(t *testing.T) {
	s := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
		Medicine:  "Metformin 500mg",
		Dosage:    "1 tablet",
	}
	snap := Snapshot{Medication: []Schedule{s}}
	now := time.Date(2024, time.January, 2, 12, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 2)}

	alerts := GenerateAlerts(snap, w, now)
	require.Len(t, alerts, 2)

	// Sorted most recent first: today's alert leads.
	today, yesterday := alerts[0], alerts[1]
	assert.Equal(t, "01/02/24", today.Date)
	assert.Contains(t, today.Description, "within 2 hours")
	assert.Contains(t, today.Description, "1 tablet Metformin 500mg")
	assert.Equal(t, "01/01/24", yesterday.Date)
	assert.NotContains(t, yesterday.Description, "within 2 hours")
}

func TestFutureOccurrencesAreNotMissed(t *testing.T) {
	s := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "20:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
		Medicine:  "Amlodipine",
	}
	snap := Snapshot{Medication: []Schedule{s}}
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	assert.Empty(t, GenerateAlerts(snap, w, now))
}

func TestConfirmedDoseSuppressesReminder(t *testing.T) {
	s := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
		Medicine:  "Metformin",
	}
	at := time.Date(2024, time.January, 1, 8, 10, 0, 0, time.UTC)
	snap := Snapshot{
		Medication: []Schedule{s},
		DoseLogs:   []DoseLog{{ScheduleID: 1, ScheduledDate: date(2024, time.January, 1), TakenAt: &at}},
	}
	now := time.Date(2024, time.January, 1, 12, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	assert.Empty(t, GenerateAlerts(snap, w, now))
}

// Schedule a BP check at 08:00 over 01/01-01/03 with systolic max 140. The
// reading on 01/01 is high, 01/02 and 01/03 have no reading and their
// occurrence times are already past.
func TestAlertScenarioMixedEmergencyAndReminders(t *testing.T) {
	s := Schedule{
		ID:        7,
		Category:  CategoryBloodPressure,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		EndDate:   datePtr(2024, time.January, 3),
		Active:    true,
	}
	snap := Snapshot{
		Thresholds: Thresholds{BPSystolicMax: intPtr(140)},
		BP:         []Schedule{s},
		BPLogs: []BPLog{{
			ScheduleID: 7,
			Systolic:   150,
			Diastolic:  80,
			CheckedAt:  time.Date(2024, time.January, 1, 8, 15, 0, 0, time.UTC),
		}},
	}
	now := time.Date(2024, time.January, 3, 9, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 3)}

	alerts := GenerateAlerts(snap, w, now)
	require.Len(t, alerts, 3)

	assert.Equal(t, TagEmergency, alerts[0].Tag)
	assert.Equal(t, "Emergency Alert: High BP Detected", alerts[0].Heading)
	assert.Equal(t, "01/01/24", alerts[0].Date)
	assert.Contains(t, alerts[0].Description, "150/80")

	assert.Equal(t, TagReminder, alerts[1].Tag)
	assert.Equal(t, "01/03/24", alerts[1].Date)
	assert.Equal(t, TagReminder, alerts[2].Tag)
	assert.Equal(t, "01/02/24", alerts[2].Date)
}

func TestSugarAlertsUseTypeSpecificWording(t *testing.T) {
	s := Schedule{
		ID:        3,
		Category:  CategorySugar,
		TimeOfDay: "07:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	snap := Snapshot{
		Thresholds: Thresholds{SugarFastingMax: floatPtr(100)},
		Sugar:      []Schedule{s},
		SugarLogs: []SugarLog{{
			ScheduleID: 3,
			Value:      160,
			Type:       SugarFasting,
			CheckedAt:  time.Date(2024, time.January, 1, 7, 5, 0, 0, time.UTC),
		}},
	}
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	alerts := GenerateAlerts(snap, w, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Emergency Alert: High Fasting Sugar Detected", alerts[0].Heading)
	assert.Contains(t, alerts[0].Description, "Fasting sugar reading: 160")
}

func TestMissedCheckReminderWording(t *testing.T) {
	s := Schedule{
		ID:        3,
		Category:  CategorySugar,
		TimeOfDay: "07:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	snap := Snapshot{Sugar: []Schedule{s}}
	now := time.Date(2024, time.January, 1, 9, 0, 0, 0, time.UTC)
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 1)}

	alerts := GenerateAlerts(snap, w, now)
	require.Len(t, alerts, 1)
	assert.Equal(t, "Sugar Reminder: Missed Sugar Check", alerts[0].Heading)
	assert.Contains(t, alerts[0].Description, "07:00 AM")
	assert.Equal(t, "07:00", alerts[0].Time)
}
