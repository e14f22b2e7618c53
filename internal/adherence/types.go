// Package adherence implements the alerting and adherence rules engine:
// expanding schedules into expected occurrences, matching occurrences to
// logged events, classifying vital readings against per-user thresholds,
// and assembling the ranked alert timeline and report summaries consumed
// by the HTTP layer.
//
// Everything in this package is purely functional: inputs are flat value
// objects loaded once by the caller, outputs are derived per call and
// never persisted.
package adherence

import (
	"time"

	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// Category identifies which kind of schedule an occurrence belongs to.
type Category string

const (
	CategoryMedication    Category = "medication"
	CategoryBloodPressure Category = "blood_pressure"
	CategorySugar         Category = "sugar"
)

// Tag is the alert severity class.
type Tag string

const (
	TagReminder  Tag = "REMINDER"
	TagEmergency Tag = "EMERGENCY"
)

// SugarType selects which threshold pair applies to a sugar reading.
type SugarType string

const (
	SugarFasting SugarType = "fasting"
	SugarRandom  SugarType = "random"
)

// Schedule is a flat view of a recurring dose or vitals check. Medication
// schedules carry the medicine display name and dosage instruction for
// alert wording; BP/sugar schedules leave them empty.
type Schedule struct {
	ID        uint
	Category  Category
	TimeOfDay string // "HH:MM"
	StartDate time.Time
	EndDate   *time.Time
	Active    bool
	Medicine  string
	Dosage    string
}

// ActiveOn reports whether the schedule is active on the given calendar day.
func (s Schedule) ActiveOn(day time.Time) bool {
	if !s.Active {
		return false
	}
	day = utils.DateOnly(day)
	if s.StartDate.After(day) {
		return false
	}
	return s.EndDate == nil || !s.EndDate.Before(day)
}

// DoseLog records a medication dose. TakenAt is nil when the user logged
// the entry without confirming they took the dose.
type DoseLog struct {
	ScheduleID    uint
	ScheduledDate time.Time
	TakenAt       *time.Time
}

// BPLog records a blood pressure reading.
type BPLog struct {
	ScheduleID uint
	Systolic   int
	Diastolic  int
	Pulse      int
	CheckedAt  time.Time
}

// SugarLog records a blood sugar reading.
type SugarLog struct {
	ScheduleID uint
	Value      float64
	Type       SugarType
	CheckedAt  time.Time
}

// Thresholds are the user's safe-range bounds. A nil bound means no limit
// on that side.
type Thresholds struct {
	BPSystolicMin   *int
	BPSystolicMax   *int
	BPDiastolicMin  *int
	BPDiastolicMax  *int
	SugarFastingMin *float64
	SugarFastingMax *float64
	SugarRandomMin  *float64
	SugarRandomMax  *float64
}

// Snapshot is the complete, flat input set for one alert or report
// computation: the user's thresholds plus every active schedule and every
// log in the window, loaded up front by the store layer.
type Snapshot struct {
	Thresholds Thresholds
	Medication []Schedule
	BP         []Schedule
	Sugar      []Schedule
	DoseLogs   []DoseLog
	BPLogs     []BPLog
	SugarLogs  []SugarLog
}

// Alert is one entry in the derived alert timeline. Date is "MM/DD/YY" and
// Time is "HH:MM" (24h); both round-trip with the sort in sortAlerts.
type Alert struct {
	Tag         Tag    `json:"tag"`
	Heading     string `json:"heading"`
	Description string `json:"description"`
	Date        string `json:"date"`
	Time        string `json:"time"`
}

// Window is an inclusive calendar date range.
type Window struct {
	Start time.Time
	End   time.Time
}
