package services

import (
	"context"
	"errors"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/database"
	"github.com/healthmateapp/healthmate-server/internal/domain"
	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

type MedicationService struct {
	db *gorm.DB
}

func NewMedicationService(db *gorm.DB) *MedicationService {
	return &MedicationService{db: db}
}

// AddMedication finds or creates the medicine by name and strength, then
// creates the medication with an end date derived from the duration. The
// end date is inclusive: a 7-day course starting Monday ends Sunday.
func (s *MedicationService) AddMedication(ctx context.Context, userID uint, input domain.MedicationInput) (*database.Medication, error) {
	medicine := database.Medicine{
		Name:     input.MedicineName,
		Strength: input.MedicineStrength,
	}
	if err := s.db.WithContext(ctx).
		Where(database.Medicine{Name: input.MedicineName, Strength: input.MedicineStrength}).
		FirstOrCreate(&medicine).Error; err != nil {
		return nil, fmt.Errorf("failed to find or create medicine: %w", err)
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&database.Medication{}).
		Where("user_id = ? AND medicine_id = ?", userID, medicine.ID).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check existing medication: %w", err)
	}
	if count > 0 {
		return nil, apperrors.NewConflictError("This medicine is already registered")
	}

	start := input.StartDate
	if start.IsZero() {
		start = time.Now()
	}
	start = utils.DateOnly(start)
	end := start.AddDate(0, 0, input.DurationDays-1)

	medication := database.Medication{
		UserID:       userID,
		MedicineID:   medicine.ID,
		Purpose:      input.Purpose,
		DurationDays: input.DurationDays,
		StartDate:    start,
		EndDate:      &end,
		IsActive:     true,
	}
	if err := s.db.WithContext(ctx).Create(&medication).Error; err != nil {
		return nil, fmt.Errorf("failed to create medication: %w", err)
	}
	medication.Medicine = medicine
	return &medication, nil
}

func (s *MedicationService) ListMedications(ctx context.Context, userID uint) ([]database.Medication, error) {
	var medications []database.Medication
	if err := s.db.WithContext(ctx).
		Preload("Medicine").
		Where("user_id = ?", userID).
		Order("created_at DESC").
		Find(&medications).Error; err != nil {
		return nil, fmt.Errorf("failed to list medications: %w", err)
	}
	return medications, nil
}

func (s *MedicationService) getMedication(ctx context.Context, userID, medicationID uint) (*database.Medication, error) {
	var medication database.Medication
	err := s.db.WithContext(ctx).
		Preload("Medicine").
		Where("id = ? AND user_id = ?", medicationID, userID).
		First(&medication).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.NewNotFoundError("Medication not found")
		}
		return nil, fmt.Errorf("failed to get medication: %w", err)
	}
	return &medication, nil
}

// UpdateMedication applies only the explicitly provided fields. Changing
// start date or duration recomputes the inclusive end date.
func (s *MedicationService) UpdateMedication(ctx context.Context, userID, medicationID uint, update domain.MedicationUpdate) (*database.Medication, error) {
	medication, err := s.getMedication(ctx, userID, medicationID)
	if err != nil {
		return nil, err
	}

	if update.Purpose != nil {
		medication.Purpose = *update.Purpose
	}
	if update.StartDate != nil {
		medication.StartDate = utils.DateOnly(*update.StartDate)
	}
	if update.DurationDays != nil {
		if *update.DurationDays <= 0 {
			return nil, apperrors.NewValidationError("Duration must be positive")
		}
		medication.DurationDays = *update.DurationDays
	}
	if update.StartDate != nil || update.DurationDays != nil {
		end := medication.StartDate.AddDate(0, 0, medication.DurationDays-1)
		medication.EndDate = &end
	}
	if update.IsActive != nil {
		medication.IsActive = *update.IsActive
	}

	if err := s.db.WithContext(ctx).Save(medication).Error; err != nil {
		return nil, fmt.Errorf("failed to update medication: %w", err)
	}
	return medication, nil
}

// DeleteMedication soft-deletes the medication and its schedules and logs.
func (s *MedicationService) DeleteMedication(ctx context.Context, userID, medicationID uint) error {
	medication, err := s.getMedication(ctx, userID, medicationID)
	if err != nil {
		return err
	}

	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var scheduleIDs []uint
		if err := tx.Model(&database.MedicationSchedule{}).
			Where("medication_id = ?", medication.ID).
			Pluck("id", &scheduleIDs).Error; err != nil {
			return fmt.Errorf("failed to list schedules: %w", err)
		}
		if len(scheduleIDs) > 0 {
			if err := tx.Where("medication_schedule_id IN ?", scheduleIDs).
				Delete(&database.MedicationLog{}).Error; err != nil {
				return fmt.Errorf("failed to delete logs: %w", err)
			}
			if err := tx.Where("medication_id = ?", medication.ID).
				Delete(&database.MedicationSchedule{}).Error; err != nil {
				return fmt.Errorf("failed to delete schedules: %w", err)
			}
		}
		if err := tx.Delete(medication).Error; err != nil {
			return fmt.Errorf("failed to delete medication: %w", err)
		}
		return nil
	})
}

// AddSchedule attaches a time-of-day slot to one of the user's medications.
// The (medication, time) pair is unique.
func (s *MedicationService) AddSchedule(ctx context.Context, userID, medicationID uint, input domain.MedicationScheduleInput) (*database.MedicationSchedule, error) {
	if _, err := utils.ParseTimeOfDay(input.Time); err != nil {
		return nil, apperrors.NewValidationError("Time must be in HH:MM format")
	}
	medication, err := s.getMedication(ctx, userID, medicationID)
	if err != nil {
		return nil, err
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&database.MedicationSchedule{}).
		Where("medication_id = ? AND time = ?", medication.ID, input.Time).
		Count(&count).Error; err != nil {
		return nil, fmt.Errorf("failed to check schedule: %w", err)
	}
	if count > 0 {
		return nil, apperrors.NewConflictError("A schedule already exists at this time")
	}

	schedule := database.MedicationSchedule{
		MedicationID:      medication.ID,
		Time:              input.Time,
		DosageInstruction: input.DosageInstruction,
		IsActive:          true,
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to create schedule: %w", err)
	}
	return &schedule, nil
}

func (s *MedicationService) getSchedule(ctx context.Context, userID, scheduleID uint) (*database.MedicationSchedule, error) {
	var schedule database.MedicationSchedule
	err := s.db.WithContext(ctx).
		Preload("Medication").
		Preload("Medication.Medicine").
		Joins("JOIN medications ON medications.id = medication_schedules.medication_id").
		Where("medication_schedules.id = ? AND medications.user_id = ?", scheduleID, userID).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get schedule: %w", err)
	}
	return &schedule, nil
}

func (s *MedicationService) UpdateSchedule(ctx context.Context, userID, scheduleID uint, update domain.MedicationScheduleUpdate) (*database.MedicationSchedule, error) {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}

	if update.Time != nil {
		if _, err := utils.ParseTimeOfDay(*update.Time); err != nil {
			return nil, apperrors.NewValidationError("Time must be in HH:MM format")
		}
		schedule.Time = *update.Time
	}
	if update.DosageInstruction != nil {
		schedule.DosageInstruction = *update.DosageInstruction
	}
	if update.IsActive != nil {
		schedule.IsActive = *update.IsActive
	}

	if err := s.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to update schedule: %w", err)
	}
	return schedule, nil
}

func (s *MedicationService) DeleteSchedule(ctx context.Context, userID, scheduleID uint) error {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return err
	}
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("medication_schedule_id = ?", schedule.ID).
			Delete(&database.MedicationLog{}).Error; err != nil {
			return fmt.Errorf("failed to delete logs: %w", err)
		}
		if err := tx.Delete(schedule).Error; err != nil {
			return fmt.Errorf("failed to delete schedule: %w", err)
		}
		return nil
	})
}

// LogDose records a dose against a schedule and date. One log per
// (schedule, date); re-logging the same occurrence updates it in place.
func (s *MedicationService) LogDose(ctx context.Context, userID uint, input domain.DoseLogInput) (*database.MedicationLog, error) {
	schedule, err := s.getSchedule(ctx, userID, input.ScheduleID)
	if err != nil {
		return nil, err
	}

	day := utils.DateOnly(input.ScheduledDate)

	var log database.MedicationLog
	err = s.db.WithContext(ctx).
		Where("medication_schedule_id = ? AND scheduled_date = ?", schedule.ID, day).
		First(&log).Error
	switch {
	case err == nil:
		log.TakenAt = input.TakenAt
		log.Notes = input.Notes
		if err := s.db.WithContext(ctx).Save(&log).Error; err != nil {
			return nil, fmt.Errorf("failed to update dose log: %w", err)
		}
	case errors.Is(err, gorm.ErrRecordNotFound):
		log = database.MedicationLog{
			MedicationScheduleID: schedule.ID,
			ScheduledDate:        day,
			TakenAt:              input.TakenAt,
			Notes:                input.Notes,
		}
		if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
			return nil, fmt.Errorf("failed to create dose log: %w", err)
		}
	default:
		return nil, fmt.Errorf("failed to get dose log: %w", err)
	}
	return &log, nil
}

// ListDoseLogs returns the user's dose logs in the inclusive date range.
func (s *MedicationService) ListDoseLogs(ctx context.Context, userID uint, from, to time.Time) ([]database.MedicationLog, error) {
	var logs []database.MedicationLog
	err := s.db.WithContext(ctx).
		Joins("JOIN medication_schedules ON medication_schedules.id = medication_logs.medication_schedule_id").
		Joins("JOIN medications ON medications.id = medication_schedules.medication_id").
		Where("medications.user_id = ? AND medication_logs.scheduled_date BETWEEN ? AND ?",
			userID, utils.DateOnly(from), utils.DateOnly(to)).
		Order("medication_logs.scheduled_date DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list dose logs: %w", err)
	}
	return logs, nil
}
