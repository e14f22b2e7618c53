package services

import (
	"context"
	"fmt"
	"time"

	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// AlertService derives the alert timeline on demand. Alerts are never
// persisted; every request recomputes them from schedules and logs.
type AlertService struct {
	db *gorm.DB
}

func NewAlertService(db *gorm.DB) *AlertService {
	return &AlertService{db: db}
}

// Generate computes the ranked alert list for the window that begins at
// start and spans the period.
func (s *AlertService) Generate(ctx context.Context, userID uint, period adherence.Period, start time.Time) ([]adherence.Alert, error) {
	w, err := adherence.AlertWindow(period, start)
	if err != nil {
		return nil, err
	}

	snap, err := loadSnapshot(ctx, s.db, userID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}

	alerts := adherence.GenerateAlerts(snap, w, time.Now())
	if alerts == nil {
		alerts = []adherence.Alert{}
	}
	return alerts, nil
}

// Emergencies filters the generated alerts down to emergency entries,
// used by scheduled jobs that notify attendants.
func (s *AlertService) Emergencies(ctx context.Context, userID uint, period adherence.Period, start time.Time) ([]adherence.Alert, error) {
	alerts, err := s.Generate(ctx, userID, period, utils.DateOnly(start))
	if err != nil {
		return nil, err
	}
	var emergencies []adherence.Alert
	for _, a := range alerts {
		if a.Tag == adherence.TagEmergency {
			emergencies = append(emergencies, a)
		}
	}
	return emergencies, nil
}
