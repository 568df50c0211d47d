package core

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func day(y int, m time.Month, d int) time.Time {
	return time.Date(y, m, d, 0, 0, 0, 0, time.UTC)
}

func TestDateRangeSingleDayIsInclusive(t *testing.T) {
	r, err := NewDateRange(day(2023, 10, 3), day(2023, 10, 3), "Tag der Deutschen Einheit")
	require.NoError(t, err)

	assert.True(t, r.Contains(day(2023, 10, 3)))
	assert.True(t, r.Contains(day(2023, 10, 3).Add(23*time.Hour+59*time.Minute)))
	assert.False(t, r.Contains(day(2023, 10, 2).Add(23*time.Hour)))
	assert.False(t, r.Contains(day(2023, 10, 4)))
	assert.Equal(t, 1, r.Days())
}

func TestDateRangeRejectsReversedBounds(t *testing.T) {
	_, err := NewDateRange(day(2023, 10, 4), day(2023, 10, 3), "reversed")
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}

func TestIntervalHalfOpen(t *testing.T) {
	iv, err := ParseInterval("2020-01-01", "2021-01-01")
	require.NoError(t, err)

	assert.True(t, iv.Contains(day(2020, 1, 1)))
	assert.True(t, iv.Contains(day(2020, 12, 31).Add(23*time.Hour)))
	assert.False(t, iv.Contains(day(2021, 1, 1)))
}

func TestParseIntervalMalformed(t *testing.T) {
	_, err := ParseInterval("2021-01-01", "2020-01-01")
	assert.True(t, errors.Is(err, ErrInvalidInterval))

	_, err = ParseInterval("01.01.2020", "2021-01-01")
	assert.True(t, errors.Is(err, ErrInvalidInterval))
}

func TestMonthlyDates(t *testing.T) {
	dates := MonthlyDates(day(2020, 1, 1), day(2020, 4, 1))
	require.Len(t, dates, 4)
	assert.Equal(t, day(2020, 4, 1), dates[3])

	assert.Empty(t, MonthlyDates(day(2020, 5, 1), day(2020, 4, 1)))
}
