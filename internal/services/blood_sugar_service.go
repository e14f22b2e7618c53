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

type BloodSugarService struct {
	db *gorm.DB
}

func NewBloodSugarService(db *gorm.DB) *BloodSugarService {
	return &BloodSugarService{db: db}
}

func (s *BloodSugarService) AddSchedule(ctx context.Context, userID uint, input domain.CheckScheduleInput) (*database.SugarSchedule, error) {
	if _, err := utils.ParseTimeOfDay(input.Time); err != nil {
		return nil, apperrors.NewValidationError("Time must be in HH:MM format")
	}
	schedule := database.SugarSchedule{
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
		return nil, fmt.Errorf("failed to create sugar schedule: %w", err)
	}
	return &schedule, nil
}

func (s *BloodSugarService) ListSchedules(ctx context.Context, userID uint) ([]database.SugarSchedule, error) {
	var schedules []database.SugarSchedule
	if err := s.db.WithContext(ctx).
		Where("user_id = ?", userID).
		Order("time ASC").
		Find(&schedules).Error; err != nil {
		return nil, fmt.Errorf("failed to list sugar schedules: %w", err)
	}
	return schedules, nil
}

func (s *BloodSugarService) getSchedule(ctx context.Context, userID, scheduleID uint) (*database.SugarSchedule, error) {
	var schedule database.SugarSchedule
	err := s.db.WithContext(ctx).
		Where("id = ? AND user_id = ?", scheduleID, userID).
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to get sugar schedule: %w", err)
	}
	return &schedule, nil
}

func (s *BloodSugarService) UpdateSchedule(ctx context.Context, userID, scheduleID uint, update domain.CheckScheduleUpdate) (*database.SugarSchedule, error) {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return nil, err
	}
	if err := applyCheckScheduleUpdate(&schedule.Time, &schedule.StartDate, &schedule.EndDate, &schedule.IsActive, update); err != nil {
		return nil, err
	}
	if err := s.db.WithContext(ctx).Save(schedule).Error; err != nil {
		return nil, fmt.Errorf("failed to update sugar schedule: %w", err)
	}
	return schedule, nil
}

func (s *BloodSugarService) DeleteSchedule(ctx context.Context, userID, scheduleID uint) error {
	schedule, err := s.getSchedule(ctx, userID, scheduleID)
	if err != nil {
		return err
	}
	if err := s.db.WithContext(ctx).Delete(schedule).Error; err != nil {
		return fmt.Errorf("failed to delete sugar schedule: %w", err)
	}
	return nil
}

// AddLog records a reading. With a zero schedule ID the log attaches to
// the user's schedule active on the reading's date.
func (s *BloodSugarService) AddLog(ctx context.Context, userID uint, input domain.SugarLogInput) (*database.SugarLog, error) {
	checkedAt := time.Now()
	if input.CheckedAt != nil {
		checkedAt = *input.CheckedAt
	}

	var schedule *database.SugarSchedule
	var err error
	if input.ScheduleID != 0 {
		schedule, err = s.getSchedule(ctx, userID, input.ScheduleID)
	} else {
		schedule, err = s.activeScheduleOn(ctx, userID, checkedAt)
	}
	if err != nil {
		return nil, err
	}

	log := database.SugarLog{
		ScheduleID: schedule.ID,
		Value:      input.Value,
		Type:       input.Type,
		Notes:      input.Notes,
		CheckedAt:  checkedAt,
	}
	if err := s.db.WithContext(ctx).Create(&log).Error; err != nil {
		return nil, fmt.Errorf("failed to create sugar log: %w", err)
	}
	return &log, nil
}

func (s *BloodSugarService) activeScheduleOn(ctx context.Context, userID uint, day time.Time) (*database.SugarSchedule, error) {
	day = utils.DateOnly(day)
	var schedule database.SugarSchedule
	err := s.db.WithContext(ctx).
		Where("user_id = ? AND is_active = ? AND start_date <= ? AND (end_date IS NULL OR end_date >= ?)",
			userID, true, day, day).
		Order("time ASC").
		First(&schedule).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.ErrScheduleNotFound
		}
		return nil, fmt.Errorf("failed to find active sugar schedule: %w", err)
	}
	return &schedule, nil
}

// ListLogs returns the user's readings in the inclusive date range, most
// recent first.
func (s *BloodSugarService) ListLogs(ctx context.Context, userID uint, from, to time.Time) ([]database.SugarLog, error) {
	var logs []database.SugarLog
	err := s.db.WithContext(ctx).
		Joins("JOIN sugar_schedules ON sugar_schedules.id = sugar_logs.schedule_id").
		Where("sugar_schedules.user_id = ? AND sugar_logs.checked_at >= ? AND sugar_logs.checked_at < ?",
			userID, utils.DateOnly(from), utils.DateOnly(to).AddDate(0, 0, 1)).
		Order("sugar_logs.checked_at DESC").
		Find(&logs).Error
	if err != nil {
		return nil, fmt.Errorf("failed to list sugar logs: %w", err)
	}
	return logs, nil
}
