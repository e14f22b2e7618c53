package adherence

import (
	"strings"
	"time"

	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
	"github.com/healthmateapp/healthmate-server/internal/utils"
)

// Period is the alert/report horizon.
type Period string

const (
	PeriodDaily   Period = "daily"
	PeriodWeekly  Period = "weekly"
	PeriodMonthly Period = "monthly"
)

// ParsePeriod parses a period query value. Empty defaults to daily; an
// unknown value is a recoverable validation failure, never a panic.
func ParsePeriod(s string) (Period, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "daily":
		return PeriodDaily, nil
	case "weekly":
		return PeriodWeekly, nil
	case "monthly":
		return PeriodMonthly, nil
	default:
		return "", apperrors.ErrUnknownPeriod
	}
}

// AlertWindow resolves the window for an alert request beginning at start:
// daily is that single day, weekly the 7-day span from start, monthly the
// calendar month containing start from that day.
func AlertWindow(period Period, start time.Time) (Window, error) {
	start = utils.DateOnly(start)
	switch period {
	case PeriodDaily:
		return Window{Start: start, End: start}, nil
	case PeriodWeekly:
		return Window{Start: start, End: start.AddDate(0, 0, 6)}, nil
	case PeriodMonthly:
		return Window{Start: start, End: utils.EndOfMonth(start)}, nil
	default:
		return Window{}, apperrors.ErrUnknownPeriod
	}
}

// ReportWindow resolves the window for a report request. With no explicit
// start the window is a rolling span ending today (daily = today only,
// weekly = last 7 days, monthly = last 30 days). With an explicit start it
// matches AlertWindow but never extends past today.
func ReportWindow(period Period, start *time.Time, today time.Time) (Window, error) {
	today = utils.DateOnly(today)

	if start == nil {
		switch period {
		case PeriodDaily:
			return Window{Start: today, End: today}, nil
		case PeriodWeekly:
			return Window{Start: today.AddDate(0, 0, -6), End: today}, nil
		case PeriodMonthly:
			return Window{Start: today.AddDate(0, 0, -29), End: today}, nil
		default:
			return Window{}, apperrors.ErrUnknownPeriod
		}
	}

	w, err := AlertWindow(period, *start)
	if err != nil {
		return Window{}, err
	}
	if w.End.After(today) {
		w.End = today
	}
	return w, nil
}
