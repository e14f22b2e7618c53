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

type BloodPressureService struct {
	db *gorm.DB
}

func NewBloodPressureService(db *gorm.DB) *BloodPressureService {
	return &BloodPressureService{db: db}
}

func (s *BloodPressureService) AddSchedule(ctx context.Context, userID uint, input domain.CheckScheduleInput) (*database.BloodPressureSchedule, error) {
	if _, err := utils.ParseTimeOfDay(input.Time); err != nil {
		return nil, apperrors.NewValidationError("Time must be in HH:MM format")
	}
	schedule := database.BloodPressureSchedule{
		UserID:    userID,
		Time:      input.Time,
		StartDate: utils.DateOnly(input.StartDate),
		IsActive:  true,
	}
	if input.EndDate != nil {
		end := utils.DateOnly(*input.EndDate)
		if end.Before(schedule.StartDate) {
			return nil, apperrors.NewValidationError("End date must not precede start date")
		}
		schedule.EndDate = &end
	}
	if err := s.db.WithContext(ctx).Create(&schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to create BP schedule: %w", err)
	}
	return &schedule, nil
}

func (s *BloodPressureService) ListSchedules(ctx context.Context, userID uint) ([]database.BloodPressureSchedule, error) {
	var schedules []database.BloodPressureSchedule
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list BP schedules: %w", err)
	}
	return schedules, nil
}

func (s *BloodPressureService) getSchedule(ctx context.Context, userID, scheduleID uint) (*database.BloodPressureSchedule, error) {
	var schedule database.BloodPressureSchedule
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", scheduleID, userID).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get BP schedule: %w", err)
	}
	return &schedule, nil
}

func (s *BloodPressureService) UpdateSchedule(ctx context.Context, userID, scheduleID uint, update domain.CheckScheduleUpdate) (*database.BloodPressureSchedule, error) {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := applyCheckScheduleUpdate(&schedule.Time, &schedule.StartDate, &schedule.EndDate, &schedule.IsActive, update); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to update BP schedule: %w", err)
	}
	return schedule, nil
}

func (s *BloodPressureService) DeleteSchedule(ctx context.Context, userID, scheduleID uint) error {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(schedule).Error; err != nil {
		return fmt.Errorf("failed to delete BP schedule: %w", err)
	}
	return nil
}

// AddLog records a reading. With a zero schedule ID the log attaches to
// the user's schedule active on the reading's date.
func (s *BloodPressureService) AddLog(ctx context.Context, userID uint, input domain.BPLogInput) (*database.BloodPressureLog, error) {
	checkedAt := time.Now()
	if input.CheckedAt != nil {
		checkedAt = *input.CheckedAt
	}

	var schedule *database.BloodPressureSchedule
	var err error
	if input.ScheduleID != 0 {
		schedule, err = s.getSchedule(ctx, userID, input.ScheduleID)
	} else {
		schedule, err = s.activeScheduleOn(ctx, userID, checkedAt)
	}
	if err != nil {
		return nil, err
	}

	log := database.BloodPressureLog{
		ScheduleID: schedule.ID,
		Systolic:   input.Systolic,
		Diastolic:  input.Diastolic,
		Pulse:      input.Pulse,
		Notes:      input.Notes,
		CheckedAt:  checkedAt,
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to create BP log: %w", err)
	}
	return &log, nil
}

func (s *BloodPressureService) activeScheduleOn(ctx context.Context, userID uint, day time.Time) (*database.BloodPressureSchedule, error) {
	day = utils.DateOnly(day)
	var schedule database.BloodPressureSchedule
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			userID, true, day, day).
		Order("time ASC").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to find active BP schedule: %w", err)
	}
	return &schedule, nil
}

// ListLogs returns the user's readings in the inclusive date range, most
// recent first.
func (s *BloodPressureService) ListLogs(ctx context.Context, userID uint, from, to time.Time) ([]database.BloodPressureLog, error) {
	var logs []database.BloodPressureLog
	err := s.db.WithContext(ctx).
		Joins("JOIN blood_pressure_schedules ON blood_pressure_schedules.id = blood_pressure_logs.schedule_id").
		Where("blood_pressure_schedules.user_id = ? AND blood_pressure_logs.checked_at >= ? AND blood_pressure_logs.checked_at < ?",
			userID, utils.DateOnly(from), utils.DateOnly(to).AddDate(0, 0, 1)).
		Order("blood_pressure_logs.checked_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list BP logs: %w", err)
	}
	return logs, nil
}

// applyCheckScheduleUpdate mutates a BP or sugar check schedule in place,
// validating the window stays consistent.
func applyCheckScheduleUpdate(timeOfDay *string, startDate *time.Time, endDate **time.Time, isActive *bool, update domain.CheckScheduleUpdate) error {
	if update.Time != nil {
		if _, err := utils.ParseTimeOfDay(*update.Time); err != nil {
			return apperrors.NewValidationError("Time must be in HH:MM format")
		}
		*timeOfDay = *update.Time
	}
	if update.StartDate != nil {
		*startDate = utils.DateOnly(*update.StartDate)
	}
	if update.EndDate != nil {
		end := utils.DateOnly(*update.EndDate)
		*endDate = &end
	}
	if *endDate != nil && (*endDate).Before(*startDate) {
		return apperrors.NewValidationError("End date must not precede start date")
	}
	if update.IsActive != nil {
		*isActive = *update.IsActive
	}
	return nil
}
