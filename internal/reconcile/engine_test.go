package reconcile

import (
	"context"
	"errors"
	"fmt"
	"testing"
	"time"

	"fieldwatch/internal/attendance"
	"fieldwatch/internal/shared/apperror"

	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

type fakeSessionStore struct {
	sessions []OpenSession
	fetchErr error
	closes   []Closure
	closeFn  func(c Closure) (CloseResult, error)
}

func (f *fakeSessionStore) FetchOpenSessions(ctx context.Context) ([]OpenSession, error) {
	if f.fetchErr != nil {
		return nil, f.fetchErr
	}
	return f.sessions, nil
}

func (f *fakeSessionStore) Close(ctx context.Context, c Closure) (CloseResult, error) {
	f.closes = append(f.closes, c)
	if f.closeFn != nil {
		return f.closeFn(c)
	}
	// Default behavior mirrors the real store: the session disappears
	// from the open set once closed.
	for i, s := range f.sessions {
		if s.ID == c.Session.ID {
			f.sessions = append(f.sessions[:i], f.sessions[i+1:]...)
			return CloseOK, nil
		}
	}
	return CloseConflict, nil
}

type fakeLocationStore struct {
	samples map[string]*LocationSample
	err     error
}

func (f *fakeLocationStore) LatestSampleForGuard(ctx context.Context, orgID, guardID string) (*LocationSample, error) {
	if f.err != nil {
		return nil, f.err
	}
	return f.samples[guardID], nil
}

func newEngine(sessions *fakeSessionStore, locations *fakeLocationStore, now time.Time) *Engine {
	e := NewEngine(sessions, locations, zap.NewNop())
	e.now = func() time.Time { return now }
	return e
}

func dayShiftSession(id string) OpenSession {
	return OpenSession{
		ID:             id,
		OrganizationID: "org-1",
		GuardID:        "guard-" + id,
		CheckinTime:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Timezone:       "UTC",
		Shift:          &ShiftSpec{Start: "09:00", End: "17:00"},
	}
}

func TestRun_ShiftEndClosureBackdated(t *testing.T) {
	session := dayShiftSession("s1")
	// Far outside a geofence too; the shift-end rule must still win and
	// the geofence rule must not fire for the same session.
	session.Geofence = &Geofence{Latitude: 0, Longitude: 0, RadiusMeters: 200}

	store := &fakeSessionStore{sessions: []OpenSession{session}}
	locations := &fakeLocationStore{samples: map[string]*LocationSample{
		session.GuardID: {Latitude: 1, Longitude: 1, RecordedAt: time.Date(2026, 3, 10, 17, 30, 0, 0, time.UTC)},
	}}

	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)
	engine := newEngine(store, locations, now)

	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Equal(t, 0, summary.GeofenceClosures)
	assert.Len(t, store.closes, 1)
	assert.Equal(t, attendance.MethodAutoShiftEnd, store.closes[0].Method)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), store.closes[0].At)
}

func TestRun_ShiftStillRunningLeftOpen(t *testing.T) {
	store := &fakeSessionStore{sessions: []OpenSession{dayShiftSession("s1")}}
	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 10, 16, 59, 0, 0, time.UTC))

	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Empty(t, store.closes)
}

func TestRun_OvernightShiftClosesNextMorning(t *testing.T) {
	session := OpenSession{
		ID:          "s-night",
		GuardID:     "guard-night",
		CheckinTime: time.Date(2026, 3, 10, 22, 30, 0, 0, time.UTC),
		Timezone:    "UTC",
		Shift:       &ShiftSpec{Start: "22:00", End: "06:00"},
	}
	store := &fakeSessionStore{sessions: []OpenSession{session}}

	// 05:00 the next morning: still inside the window.
	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 11, 5, 0, 0, 0, time.UTC))
	summary, err := engine.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 0, summary.ShiftEndClosures)

	// 06:30: past the boundary, close backdated to 06:00 on the 11th.
	engine = newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 11, 6, 30, 0, 0, time.UTC))
	summary, err = engine.Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Equal(t, time.Date(2026, 3, 11, 6, 0, 0, 0, time.UTC), store.closes[0].At)
}

func TestRun_ShiftWindowAnchoredToLocalDate(t *testing.T) {
	kolkata, err := time.LoadLocation("Asia/Kolkata")
	assert.NoError(t, err)

	// 20:30 UTC on March 10 is 02:00 March 11 in Kolkata, so the shift
	// window anchors to the 11th in local time.
	session := OpenSession{
		ID:          "s-tz",
		GuardID:     "guard-tz",
		CheckinTime: time.Date(2026, 3, 10, 20, 30, 0, 0, time.UTC),
		Timezone:    "Asia/Kolkata",
		Shift:       &ShiftSpec{Start: "01:00", End: "09:00"},
	}
	store := &fakeSessionStore{sessions: []OpenSession{session}}

	// 09:30 local on March 11 = 04:00 UTC.
	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 11, 4, 0, 0, 0, time.UTC))
	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Equal(t, time.Date(2026, 3, 11, 9, 0, 0, 0, kolkata).UTC(), store.closes[0].At)
}

func TestRun_GeofenceClosesShiftlessSession(t *testing.T) {
	session := OpenSession{
		ID:          "s-geo",
		GuardID:     "guard-geo",
		CheckinTime: time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
		Timezone:    "UTC",
		Geofence:    &Geofence{Latitude: 0, Longitude: 0, RadiusMeters: 200},
	}
	store := &fakeSessionStore{sessions: []OpenSession{session}}
	locations := &fakeLocationStore{samples: map[string]*LocationSample{
		// ~500m east of the post.
		"guard-geo": {Latitude: 0, Longitude: 0.0045, RecordedAt: time.Date(2026, 3, 10, 11, 0, 0, 0, time.UTC)},
	}}

	now := time.Date(2026, 3, 10, 11, 5, 0, 0, time.UTC)
	engine := newEngine(store, locations, now)

	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.GeofenceClosures)
	assert.Len(t, store.closes, 1)
	assert.Equal(t, attendance.MethodAutoGeofence, store.closes[0].Method)
	assert.Equal(t, now, store.closes[0].At)
	assert.InDelta(t, 500, store.closes[0].DistanceMeters, 10)
	assert.Equal(t, 200.0, store.closes[0].RadiusMeters)
}

func TestRun_InsideGeofenceLeftOpen(t *testing.T) {
	session := OpenSession{
		ID:       "s-in",
		GuardID:  "guard-in",
		Timezone: "UTC",
		Geofence: &Geofence{Latitude: 0, Longitude: 0, RadiusMeters: 200},
	}
	store := &fakeSessionStore{sessions: []OpenSession{session}}
	locations := &fakeLocationStore{samples: map[string]*LocationSample{
		// ~111m away, inside the 200m radius.
		"guard-in": {Latitude: 0.001, Longitude: 0},
	}}

	summary, err := newEngine(store, locations, time.Now().UTC()).Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 1}, summary)
	assert.Empty(t, store.closes)
}

func TestRun_NoGeofenceOrNoSamplesLeftOpen(t *testing.T) {
	noGeofence := OpenSession{ID: "s-a", GuardID: "guard-a", Timezone: "UTC"}
	noSamples := OpenSession{
		ID:       "s-b",
		GuardID:  "guard-b",
		Timezone: "UTC",
		Geofence: &Geofence{Latitude: 0, Longitude: 0, RadiusMeters: 200},
	}
	store := &fakeSessionStore{sessions: []OpenSession{noGeofence, noSamples}}
	locations := &fakeLocationStore{samples: map[string]*LocationSample{}}

	summary, err := newEngine(store, locations, time.Now().UTC()).Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, Summary{Skipped: 2}, summary)
	assert.Empty(t, store.closes)
}

func TestRun_ConflictIsSuccessNoOp(t *testing.T) {
	session := dayShiftSession("s-race")
	session.Geofence = &Geofence{Latitude: 0, Longitude: 0, RadiusMeters: 200}

	store := &fakeSessionStore{
		sessions: []OpenSession{session},
		closeFn: func(c Closure) (CloseResult, error) {
			return CloseConflict, nil
		},
	}
	locations := &fakeLocationStore{samples: map[string]*LocationSample{
		session.GuardID: {Latitude: 1, Longitude: 1},
	}}

	engine := newEngine(store, locations, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))
	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Conflicts)
	assert.Equal(t, 0, summary.Failures)
	// The losing shift-end close still claims the session for this
	// sweep; the geofence rule must not also fire.
	assert.Len(t, store.closes, 1)
}

func TestRun_SecondSweepIsNoOp(t *testing.T) {
	store := &fakeSessionStore{sessions: []OpenSession{dayShiftSession("s1"), dayShiftSession("s2")}}
	now := time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC)

	first, err := newEngine(store, &fakeLocationStore{}, now).Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, 2, first.ShiftEndClosures)

	second, err := newEngine(store, &fakeLocationStore{}, now.Add(time.Minute)).Run(context.Background())
	assert.NoError(t, err)
	assert.Equal(t, Summary{}, second)
	assert.Len(t, store.closes, 2)
}

func TestRun_MalformedShiftCountedAsFailure(t *testing.T) {
	broken := dayShiftSession("s-bad")
	broken.Shift = &ShiftSpec{Start: "25:99", End: "17:00"}
	healthy := dayShiftSession("s-ok")

	store := &fakeSessionStore{sessions: []OpenSession{broken, healthy}}
	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))

	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Len(t, store.closes, 1)
	assert.Equal(t, "s-ok", store.closes[0].Session.ID)
}

func TestRun_PerSessionFailureIsolation(t *testing.T) {
	store := &fakeSessionStore{
		sessions: []OpenSession{dayShiftSession("s1"), dayShiftSession("s2")},
	}
	store.closeFn = func(c Closure) (CloseResult, error) {
		if c.Session.ID == "s1" {
			return CloseConflict, errors.New("deadlock detected")
		}
		return CloseOK, nil
	}

	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))
	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.Failures)
	assert.Equal(t, 1, summary.ShiftEndClosures)
}

func TestRun_StoreOutageAbortsSweep(t *testing.T) {
	store := &fakeSessionStore{
		sessions: []OpenSession{dayShiftSession("s1"), dayShiftSession("s2"), dayShiftSession("s3")},
	}
	calls := 0
	store.closeFn = func(c Closure) (CloseResult, error) {
		calls++
		if calls == 2 {
			return CloseConflict, fmt.Errorf("%w: connection refused", apperror.ErrStoreUnavailable)
		}
		return CloseOK, nil
	}

	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))
	summary, err := engine.Run(context.Background())

	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	// The first close landed before the outage; the third was never tried.
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Equal(t, 2, calls)
}

func TestRun_FetchFailureReturnsError(t *testing.T) {
	store := &fakeSessionStore{fetchErr: fmt.Errorf("%w: dial tcp", apperror.ErrStoreUnavailable)}
	engine := newEngine(store, &fakeLocationStore{}, time.Now().UTC())

	summary, err := engine.Run(context.Background())

	assert.ErrorIs(t, err, apperror.ErrStoreUnavailable)
	assert.Equal(t, Summary{}, summary)
}

func TestRun_UnknownTimezoneFallsBackToUTC(t *testing.T) {
	session := dayShiftSession("s-tz-bad")
	session.Timezone = "Mars/Olympus"

	store := &fakeSessionStore{sessions: []OpenSession{session}}
	engine := newEngine(store, &fakeLocationStore{}, time.Date(2026, 3, 10, 18, 0, 0, 0, time.UTC))

	summary, err := engine.Run(context.Background())

	assert.NoError(t, err)
	assert.Equal(t, 1, summary.ShiftEndClosures)
	assert.Equal(t, time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC), store.closes[0].At)
}
