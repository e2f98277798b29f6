package extract

import (
	"errors"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestResolveDateTime_Unambiguous(t *testing.T) {
	// Day 25 cannot be a month, so day-first is the only valid reading.
	ts, err := ResolveDateTime("Date: 25-04-2025\nTime: 10:30 AM", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 25, 10, 30, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_ISODate(t *testing.T) {
	ts, err := ResolveDateTime("DATE 2025-04-03\nTIME 09:00", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 3, 9, 0, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_NamedMonth(t *testing.T) {
	ts, err := ResolveDateTime("Date: 3 April 2025\nTime: 14:45", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 3, 14, 45, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_AbbreviatedMonth(t *testing.T) {
	ts, err := ResolveDateTime("Date: 03-Apr-2025\nTime: 9.15 am", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 3, 9, 15, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_AgreeingInterpretations(t *testing.T) {
	// 7/7 reads the same either way.
	ts, err := ResolveDateTime("Date: 07/07/2025\nTime: 12:00", nil)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 7, 7, 12, 0, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_AmbiguousWithoutReference(t *testing.T) {
	_, err := ResolveDateTime("Date: 03-04-2025\nTime: 10:00", nil)
	require.Error(t, err)

	var ambig *AmbiguousDateError
	require.ErrorAs(t, err, &ambig)
	assert.Equal(t, time.Date(2025, 4, 3, 0, 0, 0, 0, time.UTC), ambig.DayFirst)
	assert.Equal(t, time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), ambig.MonthFirst)
}

func TestResolveDateTime_AmbiguousResolvedByReference(t *testing.T) {
	ref := time.Date(2025, 4, 3, 8, 55, 0, 0, time.UTC)
	ts, err := ResolveDateTime("Date: 03-04-2025\nTime: 10:00", &ref)
	require.NoError(t, err)
	assert.Equal(t, time.Date(2025, 4, 3, 10, 0, 0, 0, time.UTC), ts)
}

func TestResolveDateTime_ReferenceMatchesNeither(t *testing.T) {
	// A reference that disagrees with both readings must not settle the tie.
	ref := time.Date(2025, 12, 25, 0, 0, 0, 0, time.UTC)
	_, err := ResolveDateTime("Date: 03-04-2025\nTime: 10:00", &ref)

	var ambig *AmbiguousDateError
	require.ErrorAs(t, err, &ambig)
}

func TestResolveDateTime_MissingDateLine(t *testing.T) {
	_, err := ResolveDateTime("Time: 10:00\nUSD/INR 83.10", nil)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "date", missing.Field)
}

func TestResolveDateTime_MissingTimeLine(t *testing.T) {
	_, err := ResolveDateTime("Date: 25-04-2025", nil)

	var missing *MissingFieldError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "time", missing.Field)
}

func TestResolveDateTime_TwelveHourClock(t *testing.T) {
	cases := []struct {
		line string
		hour int
		min  int
	}{
		{"Time: 1:30 PM", 13, 30},
		{"Time: 12:00 PM", 12, 0},
		{"Time: 12:15 AM", 0, 15},
		{"Time: 9:05 A.M.", 9, 5},
		{"Time: 23:59", 23, 59},
	}
	for _, tc := range cases {
		ts, err := ResolveDateTime("Date: 25-04-2025\n"+tc.line, nil)
		require.NoError(t, err, tc.line)
		assert.Equal(t, tc.hour, ts.Hour(), tc.line)
		assert.Equal(t, tc.min, ts.Minute(), tc.line)
	}
}

func TestResolveDateTime_UnparseableTime(t *testing.T) {
	_, err := ResolveDateTime("Date: 25-04-2025\nTime: morning", nil)

	var tpe *TimeParseError
	require.ErrorAs(t, err, &tpe)
}

func TestResolveDateTime_TwoDigitYear(t *testing.T) {
	ts, err := ResolveDateTime("Date: 25-04-25\nTime: 10:00", nil)
	require.NoError(t, err)
	assert.Equal(t, 2025, ts.Year())
}

func TestParseDate_NoDateInLine(t *testing.T) {
	_, err := parseDate("Date: to be announced", nil)
	require.Error(t, err)
	assert.False(t, errors.As(err, new(*AmbiguousDateError)))
}

func TestCalendarDate_RejectsOverflow(t *testing.T) {
	_, ok := calendarDate(2025, 2, 30)
	assert.False(t, ok)

	_, ok = calendarDate(2025, 13, 1)
	assert.False(t, ok)

	d, ok := calendarDate(2024, 2, 29)
	require.True(t, ok)
	assert.Equal(t, time.Date(2024, 2, 29, 0, 0, 0, 0, time.UTC), d)
}
