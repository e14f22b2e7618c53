// Package scheduler runs the periodic background jobs: generating
// per-period insights after each period closes and notifying attendants
// about emergency readings.
package scheduler

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/robfig/cron/v3"

	"github.com/healthmateapp/healthmate-server/internal/adherence"
	"github.com/healthmateapp/healthmate-server/internal/logger"
	"github.com/healthmateapp/healthmate-server/internal/services"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

const jobTimeout = 10 * time.Minute

type Scheduler struct {
	cron     *cron.Cron
	users    *services.UserService
	insights *services.InsightService
	alerts   *services.AlertService
	email    *services.EmailService
}

func New(users *services.UserService, insights *services.InsightService, alerts *services.AlertService, email *services.EmailService) *Scheduler {
	return &Scheduler{
		cron:     cron.New(),
		users:    users,
		insights: insights,
		alerts:   alerts,
		email:    email,
	}
}

// Start registers the jobs and begins running them. Each period's jobs
// run shortly after the period closes so they summarize complete data.
func (s *Scheduler) Start() error {
	jobs := []struct {
		spec string
		name string
		run  func()
	}{
		{"0 0 * * *", "daily insights", s.runDaily},
		{"0 1 * * 1", "weekly insights", s.runWeekly},
		{"0 2 1 * *", "monthly insights", s.runMonthly},
	}
	for _, j := range jobs {
		if _, err := s.cron.AddFunc(j.spec, j.run); err != nil {
			return fmt.Errorf("failed to schedule %s job: %w", j.name, err)
		}
	}
	s.cron.Start()
	logger.Info("Background scheduler started")
	return nil
}

// Stop halts the scheduler and waits for running jobs to finish.
func (s *Scheduler) Stop() {
	ctx := s.cron.Stop()
	<-ctx.Done()
}

func (s *Scheduler) runDaily() {
	yesterday := utils.DateOnly(time.Now()).AddDate(0, 0, -1)
	s.generateForAllUsers(adherence.PeriodDaily, yesterday)
	s.notifyAttendants(yesterday)
}

func (s *Scheduler) runWeekly() {
	// The previous week's span starting on its Monday.
	today := utils.DateOnly(time.Now())
	lastMonday := today.AddDate(0, 0, -7)
	s.generateForAllUsers(adherence.PeriodWeekly, lastMonday)
}

func (s *Scheduler) runMonthly() {
	today := utils.DateOnly(time.Now())
	firstOfPrevMonth := time.Date(today.Year(), today.Month(), 1, 0, 0, 0, 0, today.Location()).AddDate(0, -1, 0)
	s.generateForAllUsers(adherence.PeriodMonthly, firstOfPrevMonth)
}

func (s *Scheduler) generateForAllUsers(period adherence.Period, start time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	userIDs, err := s.users.ListUserIDs(ctx)
	if err != nil {
		logger.Errorf("Insight job failed to list users: %v", err)
		return
	}

	generated := 0
	for _, userID := range userIDs {
		if _, err := s.insights.Generate(ctx, userID, period, start); err != nil {
			logger.Errorf("Failed to generate %s insight for user %d: %v", period, userID, err)
			continue
		}
		generated++
	}
	logger.Infof("Generated %s insights for %d of %d users", period, generated, len(userIDs))
}

// notifyAttendants emails each user's attendants when the previous day
// had emergency readings.
func (s *Scheduler) notifyAttendants(day time.Time) {
	ctx, cancel := context.WithTimeout(context.Background(), jobTimeout)
	defer cancel()

	userIDs, err := s.users.ListUserIDs(ctx)
	if err != nil {
		logger.Errorf("Attendant notification job failed to list users: %v", err)
		return
	}

	for _, userID := range userIDs {
		user, err := s.users.GetByID(ctx, userID)
		if err != nil || len(user.AttendantEmails) == 0 {
			continue
		}

		emergencies, err := s.alerts.Emergencies(ctx, userID, adherence.PeriodDaily, day)
		if err != nil {
			logger.Errorf("Failed to compute emergencies for user %d: %v", userID, err)
			continue
		}
		if len(emergencies) == 0 {
			continue
		}

		var sb strings.Builder
		sb.WriteString(fmt.Sprintf("<p>%s had %d emergency reading(s) on %s:</p><ul>",
			user.Name, len(emergencies), day.Format("Jan 2, 2006")))
		for _, a := range emergencies {
			sb.WriteString(fmt.Sprintf("<li><b>%s</b>: %s</li>", a.Heading, a.Description))
		}
		sb.WriteString("</ul><p>Please check on them.</p>")

		subject := fmt.Sprintf("HealthMate emergency alert for %s", user.Name)
		if err := s.email.Send(user.AttendantEmails, subject, sb.String()); err != nil {
			logger.Errorf("Failed to email attendants of user %d: %v", userID, err)
		}
	}
}
