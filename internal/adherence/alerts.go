package adherence

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/healthmateapp/healthmate-server/internal/utils"
)

const (
	alertDateLayout = "01/02/06"
	alertTimeLayout = "15:04"
	clockLayout     = "03:04 PM"
)

// GenerateAlerts walks every schedule in the snapshot over the window and
// produces the ranked alert timeline: missed-dose and missed-check
// reminders for past occurrences without a qualifying log, and emergency
// alerts for out-of-range vital readings. The list is recomputed fresh on
// every call; nothing is deduplicated against earlier requests.
func GenerateAlerts(snap Snapshot, w Window, now time.Time) []Alert {
	today := utils.DateOnly(now)
	var alerts []Alert

	doses := doseFulfillment(snap.DoseLogs)
	for _, s := range snap.Medication {
		forEachOccurrence(s, w, func(o Occurrence) bool {
			if !o.At.Before(now) {
				return true
			}
			if !doses[keyFor(o.ScheduleID, o.Day)] {
				alerts = append(alerts, missedDoseAlert(s, o, today))
			}
			return true
		})
	}

	bpByOcc := firstBPLogPerDay(snap.BPLogs)
	for _, s := range snap.BP {
		forEachOccurrence(s, w, func(o Occurrence) bool {
			if !o.At.Before(now) {
				return true
			}
			log, ok := bpByOcc[keyFor(o.ScheduleID, o.Day)]
			if !ok {
				alerts = append(alerts, missedCheckAlert("BP Reminder: Missed BP Check", "blood pressure", o))
				return true
			}
			if a, emergency := bpEmergencyAlert(log, snap.Thresholds); emergency {
				alerts = append(alerts, a)
			}
			return true
		})
	}

	sugarByOcc := firstSugarLogPerDay(snap.SugarLogs)
	for _, s := range snap.Sugar {
		forEachOccurrence(s, w, func(o Occurrence) bool {
			if !o.At.Before(now) {
				return true
			}
			log, ok := sugarByOcc[keyFor(o.ScheduleID, o.Day)]
			if !ok {
				alerts = append(alerts, missedCheckAlert("Sugar Reminder: Missed Sugar Check", "sugar", o))
				return true
			}
			if a, emergency := sugarEmergencyAlert(log, snap.Thresholds); emergency {
				alerts = append(alerts, a)
			}
			return true
		})
	}

	sortAlerts(alerts)
	return alerts
}

// firstBPLogPerDay keeps the first reading logged per schedule per day; it
// is the one classified when several readings share a day.
func firstBPLogPerDay(logs []BPLog) map[occKey]BPLog {
	byOcc := make(map[occKey]BPLog, len(logs))
	for _, l := range logs {
		k := keyFor(l.ScheduleID, l.CheckedAt)
		if _, ok := byOcc[k]; !ok {
			byOcc[k] = l
		}
	}
	return byOcc
}

func firstSugarLogPerDay(logs []SugarLog) map[occKey]SugarLog {
	byOcc := make(map[occKey]SugarLog, len(logs))
	for _, l := range logs {
		k := keyFor(l.ScheduleID, l.CheckedAt)
		if _, ok := byOcc[k]; !ok {
			byOcc[k] = l
		}
	}
	return byOcc
}

func missedDoseAlert(s Schedule, o Occurrence, today time.Time) Alert {
	label := strings.TrimSpace(s.Dosage + " " + s.Medicine)
	desc := fmt.Sprintf("You missed your %s dose scheduled at %s on %s.",
		label, o.At.Format(clockLayout), o.Day.Format(alertDateLayout))
	if o.Day.Equal(today) {
		desc += " Please take it now if within 2 hours."
	}
	return Alert{
		Tag:         TagReminder,
		Heading:     "Medicine Reminder: Missed Dose Alert",
		Description: desc,
		Date:        o.Day.Format(alertDateLayout),
		Time:        o.At.Format(alertTimeLayout),
	}
}

func missedCheckAlert(heading, what string, o Occurrence) Alert {
	return Alert{
		Tag:     TagReminder,
		Heading: heading,
		Description: fmt.Sprintf("You missed your %s check scheduled at %s on %s. Please check as soon as possible.",
			what, o.At.Format(clockLayout), o.Day.Format(alertDateLayout)),
		Date: o.Day.Format(alertDateLayout),
		Time: o.At.Format(alertTimeLayout),
	}
}

func bpEmergencyAlert(log BPLog, t Thresholds) (Alert, bool) {
	var heading, condition string
	switch ClassifyBP(log, t) {
	case VitalHighLow:
		heading = "Emergency Alert: High and Low BP Detected"
		condition = "Systolic or diastolic is both above and below safe range. Seek immediate medical attention."
	case VitalHigh:
		heading = "Emergency Alert: High BP Detected"
		condition = "High blood pressure detected. Immediate attention advised."
	case VitalLow:
		heading = "Emergency Alert: Low BP Detected"
		condition = "Low blood pressure detected. Immediate attention advised."
	default:
		return Alert{}, false
	}

	return Alert{
		Tag:     TagEmergency,
		Heading: heading,
		Description: fmt.Sprintf("BP Reading: %d/%d detected at %s. %s",
			log.Systolic, log.Diastolic, log.CheckedAt.Format(clockLayout), condition),
		Date: log.CheckedAt.Format(alertDateLayout),
		Time: log.CheckedAt.Format(alertTimeLayout),
	}, true
}

func sugarEmergencyAlert(log SugarLog, t Thresholds) (Alert, bool) {
	kind := "Random"
	if log.Type == SugarFasting {
		kind = "Fasting"
	}

	var direction string
	switch ClassifySugar(log, t) {
	case VitalHigh, VitalHighLow:
		direction = "High"
	case VitalLow:
		direction = "Low"
	default:
		return Alert{}, false
	}

	value := strconv.FormatFloat(log.Value, 'f', -1, 64)
	return Alert{
		Tag:     TagEmergency,
		Heading: fmt.Sprintf("Emergency Alert: %s %s Sugar Detected", direction, kind),
		Description: fmt.Sprintf("%s sugar reading: %s detected at %s on %s. %s %s sugar detected. Immediate attention advised.",
			kind, value, log.CheckedAt.Format(clockLayout), log.CheckedAt.Format(alertDateLayout),
			direction, strings.ToLower(kind)),
		Date: log.CheckedAt.Format(alertDateLayout),
		Time: log.CheckedAt.Format(alertTimeLayout),
	}, true
}

// sortAlerts orders emergencies before reminders and, within a tag, most
// recent event first. Entries whose date/time fail to parse sort last.
// The sort is stable so equal keys keep generation order.
func sortAlerts(alerts []Alert) {
	sort.SliceStable(alerts, func(i, j int) bool {
		pi, pj := tagPriority(alerts[i].Tag), tagPriority(alerts[j].Tag)
		if pi != pj {
			return pi < pj
		}
		ti, iok := parseAlertTime(alerts[i])
		tj, jok := parseAlertTime(alerts[j])
		if !iok {
			return false
		}
		if !jok {
			return true
		}
		return ti.After(tj)
	})
}

func tagPriority(t Tag) int {
	if t == TagEmergency {
		return 0
	}
	return 1
}

func parseAlertTime(a Alert) (time.Time, bool) {
	t, err := time.Parse(alertDateLayout+" "+alertTimeLayout, a.Date+" "+a.Time)
	if err != nil {
		return time.Time{}, false
	}
	return t, true
}
