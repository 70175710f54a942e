package reconcile

import (
	"context"
	"database/sql"
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"time"

	"fieldwatch/internal/attendance"
	"fieldwatch/internal/events"
	"fieldwatch/internal/messaging/kafka"
	"fieldwatch/internal/shared/apperror"
	"fieldwatch/internal/shared/contextutil"
	"fieldwatch/internal/tracking"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// Store backs the engine with the attendance tables. Closing a session
// and queueing its outbox event happen in one transaction, so a crash
// between the two cannot lose the event.
type Store struct {
	db             *sql.DB
	gdb            *gorm.DB
	attendanceRepo attendance.Repository
	trackingRepo   tracking.Repository
	outbox         kafka.OutboxRepository
	logger         *zap.Logger
}

func NewStore(
	db *sql.DB,
	gdb *gorm.DB,
	attendanceRepo attendance.Repository,
	trackingRepo tracking.Repository,
	outbox kafka.OutboxRepository,
	logger ...*zap.Logger,
) *Store {
	l := zap.L().Named("reconcile.store")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("reconcile.store")
	}
	return &Store{
		db:             db,
		gdb:            gdb,
		attendanceRepo: attendanceRepo,
		trackingRepo:   trackingRepo,
		outbox:         outbox,
		logger:         l,
	}
}

type openSessionRow struct {
	ID             string     `gorm:"column:id"`
	OrganizationID string     `gorm:"column:organization_id"`
	GuardID        string     `gorm:"column:guard_id"`
	CheckinTime    time.Time  `gorm:"column:checkin_time"`
	Timezone       string     `gorm:"column:timezone"`
	ShiftStart     *string    `gorm:"column:shift_start"`
	ShiftEnd       *string    `gorm:"column:shift_end"`
	SiteLatitude   *float64   `gorm:"column:site_latitude"`
	SiteLongitude  *float64   `gorm:"column:site_longitude"`
	GeofenceRadius *float64   `gorm:"column:geofence_radius_m"`
}

func (s *Store) FetchOpenSessions(ctx context.Context) ([]OpenSession, error) {
	var rows []openSessionRow
	err := s.gdb.WithContext(ctx).Raw(`
		SELECT
			a.id::text,
			a.organization_id::text,
			a.guard_id::text,
			a.checkin_time,
			o.timezone,
			sh.start_time AS shift_start,
			sh.end_time AS shift_end,
			g.site_latitude,
			g.site_longitude,
			g.geofence_radius_m
		FROM attendance_sessions a
		JOIN organizations o ON o.id = a.organization_id
		JOIN guards g ON g.id = a.guard_id
		LEFT JOIN shifts sh ON sh.id = a.shift_id AND sh.deleted_at IS NULL
		WHERE a.checkout_time IS NULL AND a.deleted_at IS NULL
		ORDER BY a.checkin_time ASC
	`).Scan(&rows).Error
	if err != nil {
		return nil, mapStoreError(err)
	}

	sessions := make([]OpenSession, 0, len(rows))
	for _, row := range rows {
		session := OpenSession{
			ID:             row.ID,
			OrganizationID: row.OrganizationID,
			GuardID:        row.GuardID,
			CheckinTime:    row.CheckinTime,
			Timezone:       row.Timezone,
		}
		if row.ShiftStart != nil && row.ShiftEnd != nil {
			session.Shift = &ShiftSpec{Start: *row.ShiftStart, End: *row.ShiftEnd}
		}
		if row.SiteLatitude != nil && row.SiteLongitude != nil &&
			row.GeofenceRadius != nil && *row.GeofenceRadius > 0 {
			session.Geofence = &Geofence{
				Latitude:     *row.SiteLatitude,
				Longitude:    *row.SiteLongitude,
				RadiusMeters: *row.GeofenceRadius,
			}
		}
		sessions = append(sessions, session)
	}

	return sessions, nil
}

func (s *Store) Close(ctx context.Context, c Closure) (CloseResult, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return CloseConflict, mapStoreError(err)
	}
	defer tx.Rollback()

	affected, err := s.attendanceRepo.WithTx(tx).CloseSession(ctx, c.Session.ID, c.At, c.Method, nil, nil)
	if err != nil {
		return CloseConflict, mapStoreError(err)
	}
	if affected == 0 {
		return CloseConflict, nil
	}

	// Sweeps have no inbound request, so mint a correlation id unless
	// the context already carries one.
	rid := contextutil.GetRequestID(ctx)
	if rid == "" {
		rid = uuid.NewString()
	}

	event := events.AttendanceAutoClosedEvent{
		EventType:      "attendance_auto_closed",
		RequestID:      rid,
		SessionID:      c.Session.ID,
		GuardID:        c.Session.GuardID,
		OrganizationID: c.Session.OrganizationID,
		Method:         c.Method,
		ClosedAt:       c.At,
		DistanceMeters: c.DistanceMeters,
		RadiusMeters:   c.RadiusMeters,
		OccurredAt:     time.Now().UTC(),
	}
	payload, err := json.Marshal(event)
	if err != nil {
		return CloseConflict, err
	}

	if err := s.outbox.WithTx(tx).Create(ctx, kafka.OutboxEvent{
		ID:            uuid.NewString(),
		RequestID:     rid,
		AggregateType: "attendance_session",
		AggregateID:   c.Session.ID,
		EventType:     event.EventType,
		Topic:         events.AttendanceAutoClosedTopic,
		Payload:       payload,
		Status:        kafka.OutboxStatusPending,
	}); err != nil {
		return CloseConflict, mapStoreError(err)
	}

	if err := tx.Commit(); err != nil {
		return CloseConflict, mapStoreError(err)
	}

	return CloseOK, nil
}

func (s *Store) LatestSampleForGuard(ctx context.Context, orgID, guardID string) (*LocationSample, error) {
	log, err := s.trackingRepo.LatestByGuard(ctx, orgID, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, mapStoreError(err)
	}
	return &LocationSample{
		Latitude:   log.Latitude,
		Longitude:  log.Longitude,
		RecordedAt: log.RecordedAt,
	}, nil
}

// mapStoreError tags connectivity-level failures so the engine can
// abort the sweep instead of burning through every session against a
// dead database.
func mapStoreError(err error) error {
	if err == nil {
		return nil
	}

	var netErr net.Error
	if errors.Is(err, driver.ErrBadConn) ||
		errors.Is(err, sql.ErrConnDone) ||
		errors.Is(err, context.DeadlineExceeded) ||
		errors.As(err, &netErr) {
		return fmt.Errorf("%w: %v", apperror.ErrStoreUnavailable, err)
	}

	return err
}
