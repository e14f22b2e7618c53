package utils

import "time"

// TimeOfDayLayout is the wire format for schedule times, e.g. "08:30".
const TimeOfDayLayout = "15:04"

// DateLayout is the wire format for calendar dates, e.g. "2025-06-18".
const DateLayout = "2006-01-02"

// ParseTimeOfDay validates an "HH:MM" time-of-day string.
func ParseTimeOfDay(s string) (time.Time, error) {
	return time.Parse(TimeOfDayLayout, s)
}

// TimeToMinutes converts an "HH:MM" string to minutes since midnight.
func TimeToMinutes(timeStr string) int {
	t, _ := time.Parse(TimeOfDayLayout, timeStr)
	return t.Hour()*60 + t.Minute()
}

// CombineDateTime combines a calendar day with an "HH:MM" time-of-day
// into a single timestamp in the day's location.
func CombineDateTime(day time.Time, timeOfDay string) time.Time {
	t, err := time.Parse(TimeOfDayLayout, timeOfDay)
	if err != nil {
		return DateOnly(day)
	}
	return time.Date(day.Year(), day.Month(), day.Day(), t.Hour(), t.Minute(), 0, 0, day.Location())
}

// DateOnly truncates a timestamp to midnight of the same calendar day.
func DateOnly(t time.Time) time.Time {
	return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, t.Location())
}

// SameDay reports whether two timestamps fall on the same calendar day.
func SameDay(a, b time.Time) bool {
	ay, am, ad := a.Date()
	by, bm, bd := b.Date()
	return ay == by && am == bm && ad == bd
}

// EndOfMonth returns the last day of the month containing d.
func EndOfMonth(d time.Time) time.Time {
	firstOfNext := time.Date(d.Year(), d.Month(), 1, 0, 0, 0, 0, d.Location()).AddDate(0, 1, 0)
	return firstOfNext.AddDate(0, 0, -1)
}
