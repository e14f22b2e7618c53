package domain

import (
	"time"
)

// User is the flat profile view handed to handlers and the core; it never
// exposes credential or token fields.
type User struct {
	ID              uint       `json:"id"`
	Email           string     `json:"email"`
	Name            string     `json:"name"`
	AttendantEmails []string   `json:"attendant_emails"`
	EmailVerified   bool       `json:"email_verified"`
	CreatedAt       time.Time  `json:"created_at"`
	Thresholds      Thresholds `json:"thresholds"`
}

// Thresholds are the user's configured safe ranges. A nil bound means no
// limit on that side.
type Thresholds struct {
	BPSystolicMin   *int     `json:"bp_systolic_min"`
	BPSystolicMax   *int     `json:"bp_systolic_max"`
	BPDiastolicMin  *int     `json:"bp_diastolic_min"`
	BPDiastolicMax  *int     `json:"bp_diastolic_max"`
	SugarFastingMin *float64 `json:"sugar_fasting_min"`
	SugarFastingMax *float64 `json:"sugar_fasting_max"`
	SugarRandomMin  *float64 `json:"sugar_random_min"`
	SugarRandomMax  *float64 `json:"sugar_random_max"`
}

// ProfileUpdate carries an explicit optional field per mutable profile
// attribute; nil leaves the stored value unchanged.
type ProfileUpdate struct {
	Name            *string   `json:"name"`
	AttendantEmails *[]string `json:"attendant_emails"`

	BPSystolicMin  *int `json:"bp_systolic_min"`
	BPSystolicMax  *int `json:"bp_systolic_max"`
	BPDiastolicMin *int `json:"bp_diastolic_min"`
	BPDiastolicMax *int `json:"bp_diastolic_max"`

	SugarFastingMin *float64 `json:"sugar_fasting_min"`
	SugarFastingMax *float64 `json:"sugar_fasting_max"`
	SugarRandomMin  *float64 `json:"sugar_random_min"`
	SugarRandomMax  *float64 `json:"sugar_random_max"`
}

// MedicationInput creates a medication for a medicine (found or created by
// name+strength) with a schedule window derived from duration.
type MedicationInput struct {
	MedicineName     string    `json:"medicine_name" binding:"required"`
	MedicineStrength string    `json:"medicine_strength" binding:"required"`
	Purpose          string    `json:"purpose"`
	DurationDays     int       `json:"duration_days" binding:"required,gt=0"`
	StartDate        time.Time `json:"start_date"`
}

// MedicationUpdate mutates a medication's window or active flag.
type MedicationUpdate struct {
	Purpose      *string    `json:"purpose"`
	DurationDays *int       `json:"duration_days"`
	StartDate    *time.Time `json:"start_date"`
	IsActive     *bool      `json:"is_active"`
}

// MedicationScheduleInput adds a time-of-day slot to a medication.
type MedicationScheduleInput struct {
	Time              string `json:"time" binding:"required"` // "HH:MM"
	DosageInstruction string `json:"dosage_instruction"`
}

// MedicationScheduleUpdate mutates a schedule slot.
type MedicationScheduleUpdate struct {
	Time              *string `json:"time"`
	DosageInstruction *string `json:"dosage_instruction"`
	IsActive          *bool   `json:"is_active"`
}

// DoseLogInput records a dose against a schedule and date.
type DoseLogInput struct {
	ScheduleID    uint       `json:"schedule_id" binding:"required"`
	ScheduledDate time.Time  `json:"scheduled_date" binding:"required"`
	TakenAt       *time.Time `json:"taken_at"`
	Notes         string     `json:"notes"`
}

// CheckScheduleInput creates a BP or sugar check schedule.
type CheckScheduleInput struct {
	Time      string     `json:"time" binding:"required"` // "HH:MM"
	StartDate time.Time  `json:"start_date" binding:"required"`
	EndDate   *time.Time `json:"end_date"`
}

// CheckScheduleUpdate mutates a BP or sugar check schedule.
type CheckScheduleUpdate struct {
	Time      *string    `json:"time"`
	StartDate *time.Time `json:"start_date"`
	EndDate   *time.Time `json:"end_date"`
	IsActive  *bool      `json:"is_active"`
}

// BPLogInput records a blood pressure reading. ScheduleID zero attaches
// the log to the schedule active on the reading's date.
type BPLogInput struct {
	ScheduleID uint       `json:"schedule_id"`
	Systolic   int        `json:"systolic" binding:"required,gt=0,lt=300"`
	Diastolic  int        `json:"diastolic" binding:"required,gt=0,lt=200"`
	Pulse      int        `json:"pulse"`
	Notes      string     `json:"notes"`
	CheckedAt  *time.Time `json:"checked_at"`
}

// SugarLogInput records a blood sugar reading.
type SugarLogInput struct {
	ScheduleID uint       `json:"schedule_id"`
	Value      float64    `json:"value" binding:"required,gt=0,lt=1000"`
	Type       string     `json:"type" binding:"required,oneof=fasting random"`
	Notes      string     `json:"notes"`
	CheckedAt  *time.Time `json:"checked_at"`
}
