package adherence

import (
	"time"

	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// Breakdown holds per-category adherence tallies.
type Breakdown struct {
	Medication    Tally `json:"medication"`
	BloodPressure Tally `json:"blood_pressure"`
	Sugar         Tally `json:"sugar"`
}

// DayAdherence is one point of the per-day adherence series.
type DayAdherence struct {
	Date      string  `json:"date"`
	Scheduled int     `json:"scheduled"`
	Completed int     `json:"completed"`
	Percent   float64 `json:"adherence_percent"`
}

// Summary is the whole-window adherence result handed to the report
// endpoints and the PDF renderer.
type Summary struct {
	Start          time.Time
	End            time.Time
	TotalScheduled int
	TotalCompleted int
	Percent        float64
	Breakdown      Breakdown
	Daily          []DayAdherence
}

// BuildSummary computes whole-window totals per category plus the per-day
// adherence series. Each day of the series is evaluated with the same
// classification rule as the totals (and as alert generation), so the two
// can never disagree for the same snapshot.
func BuildSummary(snap Snapshot, w Window) Summary {
	doses := doseFulfillment(snap.DoseLogs)
	bp := bpFulfillment(snap.BPLogs)
	sugar := sugarFulfillment(snap.SugarLogs)

	breakdown := Breakdown{
		Medication:    evaluate(snap.Medication, doses, w),
		BloodPressure: evaluate(snap.BP, bp, w),
		Sugar:         evaluate(snap.Sugar, sugar, w),
	}
	total := breakdown.Medication.Add(breakdown.BloodPressure).Add(breakdown.Sugar)

	var daily []DayAdherence
	end := utils.DateOnly(w.End)
	for day := utils.DateOnly(w.Start); !day.After(end); day = day.AddDate(0, 0, 1) {
		dayWindow := Window{Start: day, End: day}
		t := evaluate(snap.Medication, doses, dayWindow).
			Add(evaluate(snap.BP, bp, dayWindow)).
			Add(evaluate(snap.Sugar, sugar, dayWindow))
		daily = append(daily, DayAdherence{
			Date:      day.Format(utils.DateLayout),
			Scheduled: t.Scheduled,
			Completed: t.Completed,
			Percent:   t.Percent(),
		})
	}

	return Summary{
		Start:          w.Start,
		End:            w.End,
		TotalScheduled: total.Scheduled,
		TotalCompleted: total.Completed,
		Percent:        total.Percent(),
		Breakdown:      breakdown,
		Daily:          daily,
	}
}
