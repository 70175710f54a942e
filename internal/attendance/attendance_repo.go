package attendance

import (
	"context"
	"database/sql"
	"time"

	"fieldwatch/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	GuardID string
	From    *time.Time
	To      *time.Time
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Session) error
	FindActiveByGuard(ctx context.Context, orgID, guardID string) (*Session, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*Session, error)
	FindAllByOrg(ctx context.Context, orgID string, filter ListFilter) ([]Session, error)
	// CloseSession stamps checkout fields on an open session. The
	// checkout_time IS NULL guard makes concurrent closes race-safe:
	// whoever loses sees zero rows affected.
	CloseSession(ctx context.Context, id string, at time.Time, method string, lat, lng *float64) (int64, error)
	Update(ctx context.Context, s *Session) error
}

type repository struct {
	db *gorm.DB
	tx *sql.Tx
}

func NewRepository(db *gorm.DB) Repository {
	return &repository{db: db}
}

func (r *repository) WithTx(tx *sql.Tx) Repository {
	return &repository{db: r.db, tx: tx}
}

func (r *repository) Create(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindActiveByGuard(ctx context.Context, orgID, guardID string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Shift").
		Where("guard_id = ? AND checkout_time IS NULL", guardID).
		Order("checkin_time DESC").
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*Session, error) {
	var s Session
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Guard").
		Preload("Shift").
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string, filter ListFilter) ([]Session, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Guard").
		Preload("Shift")

	if filter.GuardID != "" {
		q = q.Where("guard_id = ?", filter.GuardID)
	}
	if filter.From != nil {
		q = q.Where("checkin_time >= ?", *filter.From)
	}
	if filter.To != nil {
		q = q.Where("checkin_time < ?", *filter.To)
	}

	var rows []Session
	err := q.Order("checkin_time DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) CloseSession(ctx context.Context, id string, at time.Time, method string, lat, lng *float64) (int64, error) {
	// The close must land on the caller's transaction when one is open:
	// the reconcile store pairs it with an outbox insert that has to
	// commit or roll back together with the checkout.
	if r.tx != nil {
		res, err := r.tx.ExecContext(ctx, `
			UPDATE attendance_sessions
			SET checkout_time = $1,
			    checkout_method = $2,
			    checkout_latitude = COALESCE($3, checkout_latitude),
			    checkout_longitude = COALESCE($4, checkout_longitude),
			    updated_at = $5
			WHERE id = $6 AND checkout_time IS NULL
		`, at, method, lat, lng, time.Now().UTC(), id)
		if err != nil {
			return 0, err
		}
		return res.RowsAffected()
	}

	updates := map[string]interface{}{
		"checkout_time":   at,
		"checkout_method": method,
		"updated_at":      time.Now().UTC(),
	}
	if lat != nil {
		updates["checkout_latitude"] = *lat
	}
	if lng != nil {
		updates["checkout_longitude"] = *lng
	}

	res := r.db.WithContext(ctx).
		Model(&Session{}).
		Where("id = ? AND checkout_time IS NULL", id).
		Updates(updates)
	return res.RowsAffected, res.Error
}

func (r *repository) Update(ctx context.Context, s *Session) error {
	return r.db.WithContext(ctx).Save(s).Error
}
