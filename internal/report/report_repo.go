package report

import (
	"context"
	"time"

	"gorm.io/gorm"
)

type DashboardCounts struct {
	TotalGuards      int64
	ActiveGuards     int64
	OpenSessions     int64
	SessionsToday    int64
	AutoClosuresToday int64
	UnresolvedAlerts int64
	CriticalAlerts   int64
}

type Repository interface {
	DashboardCounts(ctx context.Context, orgID string, since time.Time) (DashboardCounts, error)
	ClosuresByMethod(ctx context.Context, orgID string, since time.Time) (map[string]int64, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) DashboardCounts(ctx context.Context, orgID string, since time.Time) (DashboardCounts, error) {
	var counts DashboardCounts

	err := r.db.WithContext(ctx).Raw(`
		SELECT
			(SELECT COUNT(*) FROM guards WHERE organization_id = @org AND deleted_at IS NULL) AS total_guards,
			(SELECT COUNT(*) FROM guards WHERE organization_id = @org AND is_active AND deleted_at IS NULL) AS active_guards,
			(SELECT COUNT(*) FROM attendance_sessions WHERE organization_id = @org AND checkout_time IS NULL AND deleted_at IS NULL) AS open_sessions,
			(SELECT COUNT(*) FROM attendance_sessions WHERE organization_id = @org AND checkin_time >= @since AND deleted_at IS NULL) AS sessions_today,
			(SELECT COUNT(*) FROM attendance_sessions WHERE organization_id = @org AND checkout_time >= @since AND checkout_method IN ('auto_shift_end', 'auto_geofence') AND deleted_at IS NULL) AS auto_closures_today,
			(SELECT COUNT(*) FROM alerts WHERE organization_id = @org AND NOT is_resolved AND deleted_at IS NULL) AS unresolved_alerts,
			(SELECT COUNT(*) FROM alerts WHERE organization_id = @org AND NOT is_resolved AND severity = 'critical' AND deleted_at IS NULL) AS critical_alerts
	`, map[string]interface{}{"org": orgID, "since": since}).Scan(&counts).Error

	return counts, err
}

func (r *repository) ClosuresByMethod(ctx context.Context, orgID string, since time.Time) (map[string]int64, error) {
	var rows []struct {
		CheckoutMethod string
		Count          int64
	}
	err := r.db.WithContext(ctx).Raw(`
		SELECT checkout_method, COUNT(*) AS count
		FROM attendance_sessions
		WHERE organization_id = ? AND checkout_time >= ? AND deleted_at IS NULL
		GROUP BY checkout_method
	`, orgID, since).Scan(&rows).Error
	if err != nil {
		return nil, err
	}

	out := make(map[string]int64, len(rows))
	for _, row := range rows {
		out[row.CheckoutMethod] = row.Count
	}
	return out, nil
}
