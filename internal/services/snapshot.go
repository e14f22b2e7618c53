package services

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/database"
	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// loadSnapshot assembles the flat rules-engine input for one user and
// window: thresholds, every schedule, and every log whose date falls in
// the window. The engine itself decides which schedules apply to which
// days; the loader only flattens rows.
func loadSnapshot(ctx context.Context, db *gorm.DB, userID uint, w adherence.Window) (adherence.Snapshot, error) {
	var user database.User
	if err := db.WithContext(ctx).First(&user, userID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return adherence.Snapshot{}, apperrors.ErrUserNotFound
		}
		return adherence.Snapshot{}, fmt.Errorf("failed to get user: %w", err)
	}

	snap := adherence.Snapshot{
		Thresholds: adherence.Thresholds{
			BPSystolicMin:   user.BPSystolicMin,
			BPSystolicMax:   user.BPSystolicMax,
			BPDiastolicMin:  user.BPDiastolicMin,
			BPDiastolicMax:  user.BPDiastolicMax,
			SugarFastingMin: user.SugarFastingMin,
			SugarFastingMax: user.SugarFastingMax,
			SugarRandomMin:  user.SugarRandomMin,
			SugarRandomMax:  user.SugarRandomMax,
		},
	}

	from := utils.DateOnly(w.Start)
	toExclusive := utils.DateOnly(w.End).AddDate(0, 0, 1)

	var medSchedules []database.MedicationSchedule
	if err := db.WithContext(ctx).
		Preload("Medication").
		Preload("Medication.Medicine").
		Joins("JOIN medications ON medications.id = medication_schedules.medication_id").
		Where("medications.user_id = ?", userID).
		Find(&medSchedules).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load medication schedules: %w", err)
	}
	for _, ms := range medSchedules {
		med := ms.Medication
		snap.Medication = append(snap.Medication, adherence.Schedule{
			ID:        ms.ID,
			Category:  adherence.CategoryMedication,
			TimeOfDay: ms.Time,
			StartDate: utils.DateOnly(med.StartDate),
			EndDate:   med.EndDate,
			Active:    ms.IsActive && med.IsActive,
			Medicine:  strings.TrimSpace(med.Medicine.Name + " " + med.Medicine.Strength),
			Dosage:    ms.DosageInstruction,
		})
	}

	var bpSchedules []database.BloodPressureSchedule
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&bpSchedules).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load BP schedules: %w", err)
	}
	for _, bs := range bpSchedules {
		snap.BP = append(snap.BP, adherence.Schedule{
			ID:        bs.ID,
			Category:  adherence.CategoryBloodPressure,
			TimeOfDay: bs.Time,
			StartDate: utils.DateOnly(bs.StartDate),
			EndDate:   bs.EndDate,
			Active:    bs.IsActive,
		})
	}

	var sugarSchedules []database.SugarSchedule
	if err := db.WithContext(ctx).
		Where("user_id = ?", userID).
		Find(&sugarSchedules).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load sugar schedules: %w", err)
	}
	for _, ss := range sugarSchedules {
		snap.Sugar = append(snap.Sugar, adherence.Schedule{
			ID:        ss.ID,
			Category:  adherence.CategorySugar,
			TimeOfDay: ss.Time,
			StartDate: utils.DateOnly(ss.StartDate),
			EndDate:   ss.EndDate,
			Active:    ss.IsActive,
		})
	}

	var doseLogs []database.MedicationLog
	if err := db.WithContext(ctx).
		Joins("JOIN medication_schedules ON medication_schedules.id = medication_logs.medication_schedule_id").
		Joins("JOIN medications ON medications.id = medication_schedules.medication_id").
		Where("medications.user_id = ? AND medication_logs.scheduled_date >= ? AND medication_logs.scheduled_date < ?",
			userID, from, toExclusive).
		Find(&doseLogs).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load dose logs: %w", err)
	}
	for _, l := range doseLogs {
		snap.DoseLogs = append(snap.DoseLogs, adherence.DoseLog{
			ScheduleID:    l.MedicationScheduleID,
			ScheduledDate: l.ScheduledDate,
			TakenAt:       l.TakenAt,
		})
	}

	var bpLogs []database.BloodPressureLog
	if err := db.WithContext(ctx).
		Joins("JOIN blood_pressure_schedules ON blood_pressure_schedules.id = blood_pressure_logs.schedule_id").
		Where("blood_pressure_schedules.user_id = ? AND blood_pressure_logs.checked_at >= ? AND blood_pressure_logs.checked_at < ?",
			userID, from, toExclusive).
		Order("blood_pressure_logs.checked_at ASC").
		Find(&bpLogs).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load BP logs: %w", err)
	}
	for _, l := range bpLogs {
		snap.BPLogs = append(snap.BPLogs, adherence.BPLog{
			ScheduleID: l.ScheduleID,
			Systolic:   l.Systolic,
			Diastolic:  l.Diastolic,
			Pulse:      l.Pulse,
			CheckedAt:  l.CheckedAt,
		})
	}

	var sugarLogs []database.SugarLog
	if err := db.WithContext(ctx).
		Joins("JOIN sugar_schedules ON sugar_schedules.id = sugar_logs.schedule_id").
		Where("sugar_schedules.user_id = ? AND sugar_logs.checked_at >= ? AND sugar_logs.checked_at < ?",
			userID, from, toExclusive).
		Order("sugar_logs.checked_at ASC").
		Find(&sugarLogs).Error; err != nil {
		return adherence.Snapshot{}, fmt.Errorf("failed to load sugar logs: %w", err)
	}
	for _, l := range sugarLogs {
		snap.SugarLogs = append(snap.SugarLogs, adherence.SugarLog{
			ScheduleID: l.ScheduleID,
			Value:      l.Value,
			Type:       adherence.SugarType(l.Type),
			CheckedAt:  l.CheckedAt,
		})
	}

	return snap, nil
}
