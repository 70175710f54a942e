package shift

import (
	"fmt"
	"time"
)

// TimeOfDay is a wall-clock time with no date attached, the form shift
// boundaries are stored in ("22:00").
type TimeOfDay struct {
	Hour   int
	Minute int
}

func ParseTimeOfDay(s string) (TimeOfDay, error) {
	t, err := time.Parse("15:04", s)
	if err != nil {
		return TimeOfDay{}, fmt.Errorf("invalid time of day %q: %w", s, err)
	}
	return TimeOfDay{Hour: t.Hour(), Minute: t.Minute()}, nil
}

func (t TimeOfDay) String() string {
	return fmt.Sprintf("%02d:%02d", t.Hour, t.Minute)
}

// ResolveWindow turns wall-clock shift boundaries into concrete instants
// for the shift occurring on the calendar date of anchor, interpreted in
// loc. When the end is not after the start the shift spans midnight and
// the end moves exactly one calendar day forward. Shifts longer than 24h
// are not representable.
//
// Callers anchor on the guard-local date of the session's check-in, which
// pins an overnight shift to the night it began.
func ResolveWindow(start, end TimeOfDay, anchor time.Time, loc *time.Location) (time.Time, time.Time) {
	local := anchor.In(loc)
	y, m, d := local.Date()

	startAt := time.Date(y, m, d, start.Hour, start.Minute, 0, 0, loc)
	endAt := time.Date(y, m, d, end.Hour, end.Minute, 0, 0, loc)

	if !endAt.After(startAt) {
		endAt = endAt.AddDate(0, 0, 1)
	}

	return startAt, endAt
}
