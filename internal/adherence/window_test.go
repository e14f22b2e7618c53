package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/healthmateapp/healthmate-server/internal/errors"
)

func TestParsePeriod(t *testing.T) {
	tests := []struct {
		in      string
		want    Period
		wantErr bool
	}{
		{"daily", PeriodDaily, false},
		{"weekly", PeriodWeekly, false},
		{"MONTHLY", PeriodMonthly, false},
		{"", PeriodDaily, false},
		{"yearly", "", true},
	}
	for _, tt := range tests {
		got, err := ParsePeriod(tt.in)
		if tt.wantErr {
			assert.ErrorIs(t, err, apperrors.ErrUnknownPeriod)
			continue
		}
		require.NoError(t, err)
		assert.Equal(t, tt.want, got)
	}
}

func TestAlertWindow(t *testing.T) {
	start := date(2024, time.January, 15)

	w, err := AlertWindow(PeriodDaily, start)
	require.NoError(t, err)
	assert.Equal(t, Window{Start: start, End: start}, w)

	w, err = AlertWindow(PeriodWeekly, start)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 21), w.End)

	w, err = AlertWindow(PeriodMonthly, start)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.January, 31), w.End)

	// December rolls over the year boundary.
	w, err = AlertWindow(PeriodMonthly, date(2024, time.December, 10))
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.December, 31), w.End)

	_, err = AlertWindow(Period("hourly"), start)
	assert.ErrorIs(t, err, apperrors.ErrUnknownPeriod)
}

func TestReportWindowDefaultsEndToday(t *testing.T) {
	today := date(2024, time.June, 15)

	w, err := ReportWindow(PeriodDaily, nil, today)
	require.NoError(t, err)
	assert.Equal(t, Window{Start: today, End: today}, w)

	w, err = ReportWindow(PeriodWeekly, nil, today)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.June, 9), w.Start)
	assert.Equal(t, today, w.End)

	w, err = ReportWindow(PeriodMonthly, nil, today)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.May, 17), w.Start)
	assert.Equal(t, today, w.End)
}

func TestReportWindowExplicitStartClampsToToday(t *testing.T) {
	today := date(2024, time.June, 15)
	start := date(2024, time.June, 12)

	w, err := ReportWindow(PeriodWeekly, &start, today)
	require.NoError(t, err)
	assert.Equal(t, start, w.Start)
	assert.Equal(t, today, w.End)

	monthStart := date(2024, time.June, 1)
	w, err = ReportWindow(PeriodMonthly, &monthStart, today)
	require.NoError(t, err)
	assert.Equal(t, today, w.End)

	past := date(2024, time.May, 1)
	w, err = ReportWindow(PeriodMonthly, &past, today)
	require.NoError(t, err)
	assert.Equal(t, date(2024, time.May, 31), w.End)
}

func TestReportWindowUnknownPeriod(t *testing.T) {
	_, err := ReportWindow(Period("fortnightly"), nil, date(2024, time.June, 15))
	assert.ErrorIs(t, err, apperrors.ErrUnknownPeriod)
}
