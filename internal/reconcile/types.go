package reconcile

import (
	"context"
	"time"
)

// ShiftSpec is the raw shift window as stored, still unparsed. The
// engine parses it itself so malformed rows surface as per-session
// failures instead of being filtered out silently.
type ShiftSpec struct {
	Start string
	End   string
}

// Geofence is a guard's post: a circle around the site coordinates.
type Geofence struct {
	Latitude     float64
	Longitude    float64
	RadiusMeters float64
}

// OpenSession is everything a sweep needs to know about one open
// attendance session, denormalized so rule evaluation touches no other
// store.
type OpenSession struct {
	ID             string
	OrganizationID string
	GuardID        string
	CheckinTime    time.Time
	Timezone       string
	Shift          *ShiftSpec
	Geofence       *Geofence
}

// LocationSample is a guard's most recent GPS ping.
type LocationSample struct {
	Latitude   float64
	Longitude  float64
	RecordedAt time.Time
}

type CloseResult int

const (
	CloseOK CloseResult = iota
	// CloseConflict means someone else closed the session first. The
	// sweep treats it as success with nothing to do.
	CloseConflict
)

// Closure describes one auto-checkout for the store to persist: the
// session close plus the outbox event, atomically.
type Closure struct {
	Session        OpenSession
	At             time.Time
	Method         string
	DistanceMeters float64
	RadiusMeters   float64
}

type SessionStore interface {
	FetchOpenSessions(ctx context.Context) ([]OpenSession, error)
	Close(ctx context.Context, c Closure) (CloseResult, error)
}

type LocationStore interface {
	// LatestSampleForGuard returns (nil, nil) when the guard has never
	// reported a position.
	LatestSampleForGuard(ctx context.Context, orgID, guardID string) (*LocationSample, error)
}

// LeaderLock serializes sweeps across replicas.
type LeaderLock interface {
	Acquire(ctx context.Context) (bool, error)
	Release(ctx context.Context) error
}

// Summary is what one sweep did. Conflicts and Failures are per-session
// outcomes; a sweep aborted by a store outage returns the partial
// summary alongside the error.
type Summary struct {
	ShiftEndClosures int
	GeofenceClosures int
	Conflicts        int
	Failures         int
	Skipped          int
}
