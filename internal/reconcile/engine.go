package reconcile

import (
	"context"
	"errors"
	"time"

	"fieldwatch/internal/attendance"
	"fieldwatch/internal/geo"
	"fieldwatch/internal/shared/apperror"
	"fieldwatch/internal/shift"

	"go.uber.org/zap"
)

// Engine is the attendance reconciliation sweeper. Each Run closes open
// sessions whose shift has ended (backdated to the shift boundary) and
// sessions whose guard has wandered outside the geofence (closed at
// sweep time). A session is closed by at most one rule per sweep, and
// re-running a sweep over already-closed sessions changes nothing.
type Engine struct {
	sessions  SessionStore
	locations LocationStore
	logger    *zap.Logger
	now       func() time.Time
}

func NewEngine(sessions SessionStore, locations LocationStore, logger ...*zap.Logger) *Engine {
	l := zap.L().Named("reconcile.engine")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reconcile.engine")
	}
	return &Engine{
		sessions:  sessions,
		locations: locations,
		logger:    l,
		now:       time.Now,
	}
}

// Run performs one sweep. Per-session errors are counted and skipped;
// a storage outage aborts the sweep and returns the partial summary.
func (e *Engine) Run(ctx context.Context) (Summary, error) {
	var summary Summary
	now := e.now().UTC()

	sessions, err := e.sessions.FetchOpenSessions(ctx)
	if err != nil {
		return summary, err
	}

	e.logger.Debug("sweep started",
		zap.Int("open_sessions", len(sessions)),
		zap.Time("now", now),
	)

	// Timezone lookups repeat heavily within one org; cache per sweep.
	locations := map[string]*time.Location{}

	for _, session := range sessions {
		closed, err := e.applyShiftEnd(ctx, session, now, locations, &summary)
		if err != nil {
			if e.abortSweep(err) {
				return summary, err
			}
			summary.Failures++
			e.logger.Error("shift-end rule failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}
		if closed {
			continue
		}

		closed, err = e.applyGeofence(ctx, session, now, &summary)
		if err != nil {
			if e.abortSweep(err) {
				return summary, err
			}
			summary.Failures++
			e.logger.Error("geofence rule failed",
				zap.String("session_id", session.ID),
				zap.Error(err),
			)
			continue
		}
		if !closed {
			summary.Skipped++
		}
	}

	e.logger.Info("sweep finished",
		zap.Int("shift_end_closures", summary.ShiftEndClosures),
		zap.Int("geofence_closures", summary.GeofenceClosures),
		zap.Int("conflicts", summary.Conflicts),
		zap.Int("failures", summary.Failures),
		zap.Int("skipped", summary.Skipped),
	)

	return summary, nil
}

// applyShiftEnd closes the session at its shift boundary when that
// boundary has passed. Returns true when this rule handled the session,
// conflict included, so the geofence rule must not run.
func (e *Engine) applyShiftEnd(
	ctx context.Context,
	session OpenSession,
	now time.Time,
	locCache map[string]*time.Location,
	summary *Summary,
) (bool, error) {
	if session.Shift == nil {
		return false, nil
	}

	start, err := shift.ParseTimeOfDay(session.Shift.Start)
	if err != nil {
		return false, err
	}
	end, err := shift.ParseTimeOfDay(session.Shift.End)
	if err != nil {
		return false, err
	}

	loc := e.timezone(session.Timezone, locCache)

	// The window is anchored to the guard-local date of check-in, which
	// keeps an overnight shift attached to the night it started.
	_, endAt := shift.ResolveWindow(start, end, session.CheckinTime, loc)
	if now.Before(endAt) {
		return false, nil
	}

	result, err := e.sessions.Close(ctx, Closure{
		Session: session,
		At:      endAt.UTC(),
		Method:  attendance.MethodAutoShiftEnd,
	})
	if err != nil {
		return false, err
	}

	if result == CloseConflict {
		summary.Conflicts++
		e.logger.Debug("shift-end close lost the race",
			zap.String("session_id", session.ID),
		)
		return true, nil
	}

	summary.ShiftEndClosures++
	e.logger.Info("session auto-closed at shift end",
		zap.String("session_id", session.ID),
		zap.String("guard_id", session.GuardID),
		zap.Time("closed_at", endAt.UTC()),
	)
	return true, nil
}

// applyGeofence closes the session at sweep time when the guard's most
// recent sample is outside the post radius. Sessions without a geofence
// or without any sample are left alone. Returns true when this rule
// handled the session, conflict included.
func (e *Engine) applyGeofence(
	ctx context.Context,
	session OpenSession,
	now time.Time,
	summary *Summary,
) (bool, error) {
	if session.Geofence == nil {
		return false, nil
	}

	sample, err := e.locations.LatestSampleForGuard(ctx, session.OrganizationID, session.GuardID)
	if err != nil {
		return false, err
	}
	if sample == nil {
		return false, nil
	}

	site := geo.Point{Latitude: session.Geofence.Latitude, Longitude: session.Geofence.Longitude}
	pos := geo.Point{Latitude: sample.Latitude, Longitude: sample.Longitude}
	distance := geo.DistanceMeters(site, pos)

	if distance <= session.Geofence.RadiusMeters {
		return false, nil
	}

	result, err := e.sessions.Close(ctx, Closure{
		Session:        session,
		At:             now,
		Method:         attendance.MethodAutoGeofence,
		DistanceMeters: distance,
		RadiusMeters:   session.Geofence.RadiusMeters,
	})
	if err != nil {
		return false, err
	}

	if result == CloseConflict {
		summary.Conflicts++
		e.logger.Debug("geofence close lost the race",
			zap.String("session_id", session.ID),
		)
		return true, nil
	}

	summary.GeofenceClosures++
	e.logger.Info("session auto-closed outside geofence",
		zap.String("session_id", session.ID),
		zap.String("guard_id", session.GuardID),
		zap.Float64("distance_m", distance),
		zap.Float64("radius_m", session.Geofence.RadiusMeters),
	)
	return true, nil
}

func (e *Engine) timezone(name string, cache map[string]*time.Location) *time.Location {
	if loc, ok := cache[name]; ok {
		return loc
	}
	loc, err := time.LoadLocation(name)
	if err != nil || name == "" {
		loc = time.UTC
	}
	cache[name] = loc
	return loc
}

func (e *Engine) abortSweep(err error) bool {
	return errors.Is(err, apperror.ErrStoreUnavailable)
}
