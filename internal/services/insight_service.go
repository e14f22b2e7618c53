package services

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
	"time"

	"gorm.io/gorm"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/database"
	"github.com/healthmateapp/healthmate-server/internal/logger"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

const insightVersion = "1.0"

// dangerousPhrases are never allowed into a stored insight; generated
// text containing one is replaced with a neutral fallback summary.
var dangerousPhrases = []string{
	"stop taking",
	"discontinue",
	"skip your",
	"double your dose",
	"increase your dose",
	"decrease your dose",
	"no need to see a doctor",
}

// InsightService generates and stores per-period AI summaries of a
// user's adherence and vitals. One insight per (user, period, start).
type InsightService struct {
	db *gorm.DB
	ai *AIService
}

func NewInsightService(db *gorm.DB, ai *AIService) *InsightService {
	return &InsightService{db: db, ai: ai}
}

// Generate creates the insight for the period starting at start, or
// returns the stored one if it already exists.
func (s *InsightService) Generate(ctx context.Context, userID uint, period adherence.Period, start time.Time) (*database.Insight, error) {
	w, err := adherence.AlertWindow(period, utils.DateOnly(start))
	if err != nil {
		return nil, err
	}

	var existing database.Insight
	err = s.db.WithContext(ctx).
		Where("user_id = ? AND period = ? AND start_date = ?", userID, string(period), w.Start).
		First(&existing).Error
	if err == nil {
		return &existing, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, fmt.Errorf("failed to check existing insight: %w", err)
	}

	snap, err := loadSnapshot(ctx, s.db, userID, w)
	if err != nil {
		return nil, fmt.Errorf("failed to load snapshot: %w", err)
	}
	summary := adherence.BuildSummary(snap, w)
	alerts := adherence.GenerateAlerts(snap, w, time.Now())

	title, text, jsonData := s.generateText(ctx, period, summary, alerts)

	insight := database.Insight{
		UserID:      userID,
		Period:      string(period),
		StartDate:   w.Start,
		EndDate:     w.End,
		Title:       title,
		Summary:     text,
		JSONData:    jsonData,
		Version:     insightVersion,
		GeneratedAt: time.Now(),
	}
	if err := s.db.WithContext(ctx).Create(&insight).Error; err != nil {
		return nil, fmt.Errorf("failed to store insight: %w", err)
	}
	return &insight, nil
}

// List returns the user's stored insights for a period, newest first.
func (s *InsightService) List(ctx context.Context, userID uint, period adherence.Period, limit int) ([]database.Insight, error) {
	if limit <= 0 || limit > 50 {
		limit = 10
	}
	var insights []database.Insight
	if err := s.db.WithContext(ctx).
		Where("user_id = ? AND period = ?", userID, string(period)).
		Order("start_date DESC").
		Limit(limit).
		Find(&insights).Error; err != nil {
		return nil, fmt.Errorf("failed to list insights: %w", err)
	}
	return insights, nil
}

func (s *InsightService) generateText(ctx context.Context, period adherence.Period, summary adherence.Summary, alerts []adherence.Alert) (title, text, jsonData string) {
	emergencies := 0
	missed := 0
	for _, a := range alerts {
		if a.Tag == adherence.TagEmergency {
			emergencies++
		} else {
			missed++
		}
	}

	stats := map[string]interface{}{
		"adherence_percent":  summary.Percent,
		"total_scheduled":    summary.TotalScheduled,
		"total_completed":    summary.TotalCompleted,
		"medication_percent": summary.Breakdown.Medication.Percent(),
		"bp_percent":         summary.Breakdown.BloodPressure.Percent(),
		"sugar_percent":      summary.Breakdown.Sugar.Percent(),
		"emergency_alerts":   emergencies,
		"missed_occurrences": missed,
	}
	statsJSON, _ := json.Marshal(stats)

	fallbackTitle := fmt.Sprintf("Your %s health summary", period)
	fallbackText := fmt.Sprintf(
		"You completed %d of %d scheduled items (%.2f%%). There were %d emergency readings and %d missed occurrences in this period.",
		summary.TotalCompleted, summary.TotalScheduled, summary.Percent, emergencies, missed)

	prompt := fmt.Sprintf(`You are a supportive health companion summarizing a patient's %s period from %s to %s.

Data:
- Overall adherence: %.2f%% (%d of %d scheduled)
- Medication adherence: %.2f%%
- Blood pressure check adherence: %.2f%%
- Blood sugar check adherence: %.2f%%
- Emergency (out-of-range) readings: %d
- Missed doses or checks: %d

REQUIREMENTS:
- Be encouraging and factual
- NEVER give medical advice, dosage changes, or tell the patient to stop or skip medication
- Recommend consulting a doctor for any concerning readings
- Respond in exactly this format:
Title: <one short title>
Summary: <two to four sentences>`,
		period, summary.Start.Format("Jan 2, 2006"), summary.End.Format("Jan 2, 2006"),
		summary.Percent, summary.TotalCompleted, summary.TotalScheduled,
		summary.Breakdown.Medication.Percent(),
		summary.Breakdown.BloodPressure.Percent(),
		summary.Breakdown.Sugar.Percent(),
		emergencies, missed)

	raw, err := s.ai.GenerateText(ctx, prompt)
	if err != nil {
		logger.Errorf("Insight generation failed, using fallback summary: %v", err)
		return fallbackTitle, fallbackText, string(statsJSON)
	}

	title, text = parseInsightResponse(raw)
	if title == "" || text == "" || containsDangerousPhrase(title+" "+text) {
		logger.Warn("Generated insight rejected, using fallback summary")
		return fallbackTitle, fallbackText, string(statsJSON)
	}
	return title, text, string(statsJSON)
}

// parseInsightResponse extracts the "Title:" and "Summary:" lines from
// the model output, tolerating code fences and extra whitespace.
func parseInsightResponse(raw string) (title, summary string) {
	raw = strings.ReplaceAll(raw, "```", "")
	for _, line := range strings.Split(raw, "\n") {
		line = strings.TrimSpace(line)
		switch {
		case strings.HasPrefix(line, "Title:"):
			title = strings.TrimSpace(strings.TrimPrefix(line, "Title:"))
		case strings.HasPrefix(line, "Summary:"):
			summary = strings.TrimSpace(strings.TrimPrefix(line, "Summary:"))
		case summary != "" && line != "":
			summary += " " + line
		}
	}
	return title, summary
}

func containsDangerousPhrase(text string) bool {
	lower := strings.ToLower(text)
	for _, phrase := range dangerousPhrases {
		if strings.Contains(lower, phrase) {
			return true
		}
	}
	return false
}
