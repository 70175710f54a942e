package shift

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func mustTimeOfDay(t *testing.T, s string) TimeOfDay {
	tod, err := ParseTimeOfDay(s)
	assert.NoError(t, err)
	return tod
}

func TestParseTimeOfDay(t *testing.T) {
	tod, err := ParseTimeOfDay("22:30")
	assert.NoError(t, err)
	assert.Equal(t, TimeOfDay{Hour: 22, Minute: 30}, tod)

	_, err = ParseTimeOfDay("24:00")
	assert.Error(t, err)

	_, err = ParseTimeOfDay("9am")
	assert.Error(t, err)
}

func TestResolveWindow_DayShift(t *testing.T) {
	start := mustTimeOfDay(t, "09:00")
	end := mustTimeOfDay(t, "17:00")
	anchor := time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC)

	startAt, endAt := ResolveWindow(start, end, anchor, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 9, 0, 0, 0, time.UTC), startAt)
	assert.Equal(t, time.Date(2025, 3, 10, 17, 0, 0, 0, time.UTC), endAt)
	assert.Equal(t, 8*time.Hour, endAt.Sub(startAt))
}

func TestResolveWindow_OvernightShiftEndsNextDay(t *testing.T) {
	start := mustTimeOfDay(t, "22:00")
	end := mustTimeOfDay(t, "06:00")
	anchor := time.Date(2025, 3, 10, 22, 15, 0, 0, time.UTC)

	startAt, endAt := ResolveWindow(start, end, anchor, time.UTC)

	assert.Equal(t, time.Date(2025, 3, 10, 22, 0, 0, 0, time.UTC), startAt)
	assert.Equal(t, time.Date(2025, 3, 11, 6, 0, 0, 0, time.UTC), endAt)
	assert.Equal(t, 8*time.Hour, endAt.Sub(startAt))
}

func TestResolveWindow_EqualBoundariesRollForwardOnce(t *testing.T) {
	start := mustTimeOfDay(t, "08:00")
	end := mustTimeOfDay(t, "08:00")
	anchor := time.Date(2025, 3, 10, 8, 0, 0, 0, time.UTC)

	startAt, endAt := ResolveWindow(start, end, anchor, time.UTC)
	assert.Equal(t, 24*time.Hour, endAt.Sub(startAt))
}

func TestResolveWindow_AnchorsOnLocalDateOfCheckin(t *testing.T) {
	loc, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	start := mustTimeOfDay(t, "22:00")
	end := mustTimeOfDay(t, "06:00")

	// 2025-03-10 20:00 UTC is already 2025-03-11 01:30 in Kolkata, so the
	// window must anchor on March 11 local, not March 10 UTC.
	anchor := time.Date(2025, 3, 10, 20, 0, 0, 0, time.UTC)

	startAt, endAt := ResolveWindow(start, end, anchor, loc)

	assert.Equal(t, time.Date(2025, 3, 11, 22, 0, 0, 0, loc), startAt)
	assert.Equal(t, time.Date(2025, 3, 12, 6, 0, 0, 0, loc), endAt)
}

func TestResolveWindow_OvernightCheckinAfterMidnight(t *testing.T) {
	// A guard checking in at 00:30 anchors the window on that calendar
	// date: the shift ran from 22:00 the previous evening by schedule,
	// but the session belongs to the night starting on its check-in date.
	start := mustTimeOfDay(t, "22:00")
	end := mustTimeOfDay(t, "06:00")
	anchor := time.Date(2025, 3, 11, 0, 30, 0, 0, time.UTC)

	_, endAt := ResolveWindow(start, end, anchor, time.UTC)
	assert.Equal(t, time.Date(2025, 3, 12, 6, 0, 0, 0, time.UTC), endAt)
}
