package adherence

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func date(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func datePtr(y int, m time.Month, d int) *time.Time {
	t := date(y, m, d)
	return &t
}

func TestExpandCoversEveryActiveDay(t *testing.T) {
	s := Schedule{
		ID:        1,
		Category:  CategoryMedication,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 10)}

	occs := Expand(s, w)
	require.Len(t, occs, 10)
	assert.Equal(t, date(2024, time.January, 1), occs[0].Day)
	assert.Equal(t, date(2024, time.January, 10), occs[9].Day)
	assert.Equal(t, time.Date(2024, time.January, 1, 8, 0, 0, 0, time.UTC), occs[0].At)
}

func TestExpandClipsToScheduleDates(t *testing.T) {
	s := Schedule{
		ID:        2,
		TimeOfDay: "21:30",
		StartDate: date(2024, time.March, 5),
		EndDate:   datePtr(2024, time.March, 7),
		Active:    true,
	}
	w := Window{Start: date(2024, time.March, 1), End: date(2024, time.March, 31)}

	occs := Expand(s, w)
	require.Len(t, occs, 3)
	assert.Equal(t, date(2024, time.March, 5), occs[0].Day)
	assert.Equal(t, date(2024, time.March, 7), occs[2].Day)
}

func TestExpandInactiveScheduleIsEmpty(t *testing.T) {
	s := Schedule{
		ID:        3,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.January, 1),
		Active:    false,
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}

	assert.Empty(t, Expand(s, w))
}

func TestExpandScheduleOutsideWindowIsEmpty(t *testing.T) {
	s := Schedule{
		ID:        4,
		TimeOfDay: "08:00",
		StartDate: date(2024, time.June, 1),
		Active:    true,
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 31)}

	assert.Empty(t, Expand(s, w))
}

func TestExpandIsRestartable(t *testing.T) {
	s := Schedule{
		ID:        5,
		TimeOfDay: "12:00",
		StartDate: date(2024, time.January, 1),
		Active:    true,
	}
	w := Window{Start: date(2024, time.January, 1), End: date(2024, time.January, 3)}

	first := Expand(s, w)
	second := Expand(s, w)
	assert.Equal(t, first, second)
}
