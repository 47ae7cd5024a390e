package dates

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFormatRoundTrip(t *testing.T) {
	for _, date := range []string{"2026-01-01", "2026-02-28", "2028-02-29", "2026-12-31"} {
		parsed, err := Parse(date)
		require.NoError(t, err)
		assert.Equal(t, date, Format(parsed))
	}
}

func TestParseRejectsMalformedDates(t *testing.T) {
	for _, date := range []string{"", "2026-1-2", "01/02/2026", "2026-13-01", "2026-02-30"} {
		_, err := Parse(date)
		assert.Error(t, err, date)
	}
}

func TestWeekdayOf(t *testing.T) {
	day, err := WeekdayOf("2026-01-12")
	require.NoError(t, err)
	assert.Equal(t, Monday, day)

	day, err = WeekdayOf("2026-01-18")
	require.NoError(t, err)
	assert.Equal(t, Sunday, day)
}

func TestIterateDaysInclusive(t *testing.T) {
	days, err := IterateDays("2026-01-30", "2026-02-02")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-30", "2026-01-31", "2026-02-01", "2026-02-02"}, days)
}

func TestIterateDaysSingleDay(t *testing.T) {
	days, err := IterateDays("2026-01-15", "2026-01-15")
	require.NoError(t, err)
	assert.Equal(t, []string{"2026-01-15"}, days)
}

func TestIterateDaysEmptyWhenReversed(t *testing.T) {
	days, err := IterateDays("2026-01-16", "2026-01-15")
	require.NoError(t, err)
	assert.Empty(t, days)
}

func TestWithinInclusive(t *testing.T) {
	assert.True(t, WithinInclusive("2026-01-15", "2026-01-15", "2026-01-20"))
	assert.True(t, WithinInclusive("2026-01-20", "2026-01-15", "2026-01-20"))
	assert.True(t, WithinInclusive("2026-01-17", "2026-01-15", "2026-01-20"))
	assert.False(t, WithinInclusive("2026-01-14", "2026-01-15", "2026-01-20"))
	assert.False(t, WithinInclusive("2026-01-21", "2026-01-15", "2026-01-20"))
}

func TestWeekdayValid(t *testing.T) {
	assert.True(t, Wednesday.Valid())
	assert.False(t, Weekday("Wed").Valid())
	assert.False(t, Weekday("").Valid())
}
