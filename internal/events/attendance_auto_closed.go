package events

import "time"

const AttendanceAutoClosedTopic = "attendance.session.auto_closed.v1"

// AttendanceAutoClosedEvent is emitted through the outbox whenever the
// reconciliation sweeper closes a session. Method distinguishes
// shift-end from geofence closures; the distance fields are only set
// for the latter.
type AttendanceAutoClosedEvent struct {
	EventType      string    `json:"event_type"`
	RequestID      string    `json:"request_id,omitempty"`
	SessionID      string    `json:"session_id"`
	GuardID        string    `json:"guard_id"`
	OrganizationID string    `json:"organization_id"`
	Method         string    `json:"method"`
	ClosedAt       time.Time `json:"closed_at"`
	DistanceMeters float64   `json:"distance_meters,omitempty"`
	RadiusMeters   float64   `json:"radius_meters,omitempty"`
	OccurredAt     time.Time `json:"occurred_at"`
}
