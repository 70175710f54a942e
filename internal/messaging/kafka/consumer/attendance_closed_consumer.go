package consumer

import (
	"context"
	"encoding/json"
	"errors"
	"strings"

	"fieldwatch/internal/alert"
	"fieldwatch/internal/attendance"
	"fieldwatch/internal/events"

	"github.com/jackc/pgx/v5/pgconn"
	kafkago "github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// ConsumeAttendanceAutoClosed turns geofence auto-closures into alerts
// for the ops dashboard. Shift-end closures are the normal case and are
// acknowledged without side effects.
func ConsumeAttendanceAutoClosed(
	ctx context.Context,
	reader *kafkago.Reader,
	alertService alert.Service,
	logger *zap.Logger,
) {
	log := logger.Named("kafka.consumer.attendance_auto_closed")
	log.Info("attendance auto-closed consumer started")

	for {
		msg, err := reader.FetchMessage(ctx)
		if err != nil {
			if ctx.Err() != nil {
				log.Info("attendance auto-closed consumer stopped")
				return
			}
			log.Error("fetch attendance auto-closed message failed", zap.Error(err))
			continue
		}

		var event events.AttendanceAutoClosedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			log.Error("decode attendance auto-closed event failed", zap.Error(err))
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		if event.Method != attendance.MethodAutoGeofence {
			_ = reader.CommitMessages(ctx, msg)
			continue
		}

		err = alertService.RaiseGeofenceBreach(
			ctx,
			event.OrganizationID,
			event.GuardID,
			event.SessionID,
			event.DistanceMeters,
			event.RadiusMeters,
		)
		if err != nil {
			if isDuplicateSessionAlert(err) {
				log.Warn("geofence alert already exists for session, skipping",
					zap.String("session_id", event.SessionID),
				)
				_ = reader.CommitMessages(ctx, msg)
				continue
			}

			log.Error("raise geofence breach alert failed",
				zap.String("session_id", event.SessionID),
				zap.String("guard_id", event.GuardID),
				zap.Error(err),
			)
			continue
		}

		if err := reader.CommitMessages(ctx, msg); err != nil {
			log.Error("commit attendance auto-closed message failed", zap.Error(err))
			continue
		}

		log.Info("geofence breach alert raised from auto-close event",
			zap.String("session_id", event.SessionID),
			zap.String("guard_id", event.GuardID),
		)
	}
}

func isDuplicateSessionAlert(err error) bool {
	var pgErr *pgconn.PgError
	if errors.As(err, &pgErr) {
		return pgErr.Code == "23505" && pgErr.ConstraintName == "uq_alert_session_type"
	}

	errMsg := strings.ToLower(err.Error())
	return strings.Contains(errMsg, "duplicate key value") && strings.Contains(errMsg, "uq_alert_session_type")
}
