package tracking

import (
	"context"
	"time"

	"fieldwatch/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	Create(ctx context.Context, log *LocationLog) error
	LatestByGuard(ctx context.Context, orgID, guardID string) (*LocationLog, error)
	LiveByOrg(ctx context.Context, orgID string, since time.Time) ([]LocationLog, error)
	TrackByGuard(ctx context.Context, orgID, guardID string, since time.Time) ([]LocationLog, error)
}

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) Create(ctx context.Context, log *LocationLog) error {
	return r.db.WithContext(ctx).Create(log).Error
}

func (r *repository) LatestByGuard(ctx context.Context, orgID, guardID string) (*LocationLog, error) {
	var log LocationLog
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("guard_id = ?", guardID).
		Order("recorded_at DESC").
		First(&log).Error
	if err != nil {
		return nil, err
	}
	return &log, nil
}

// LiveByOrg returns each guard's most recent sample within the window.
func (r *repository) LiveByOrg(ctx context.Context, orgID string, since time.Time) ([]LocationLog, error) {
	var rows []LocationLog
	err := r.db.WithContext(ctx).
		Raw(`
			SELECT DISTINCT ON (guard_id) *
			FROM location_logs
			WHERE organization_id = ? AND recorded_at >= ?
			ORDER BY guard_id, recorded_at DESC
		`, orgID, since).
		Scan(&rows).Error
	return rows, err
}

func (r *repository) TrackByGuard(ctx context.Context, orgID, guardID string, since time.Time) ([]LocationLog, error) {
	var rows []LocationLog
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("guard_id = ? AND recorded_at >= ?", guardID, since).
		Order("recorded_at ASC").
		Find(&rows).Error
	return rows, err
}
