package alert

import (
	"context"
	"database/sql"

	"fieldwatch/internal/tenant"

	"gorm.io/gorm"
)

type ListFilter struct {
	GuardID    string
	Type       string
	Unresolved bool
}

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, a *Alert) error
	FindAllByOrg(ctx context.Context, orgID string, filter ListFilter) ([]Alert, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*Alert, error)
	Update(ctx context.Context, a *Alert) error
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

func (r *repository) Create(ctx context.Context, a *Alert) error {
	return r.db.WithContext(ctx).Create(a).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string, filter ListFilter) ([]Alert, error) {
	q := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Guard")

	if filter.GuardID != "" {
		q = q.Where("guard_id = ?", filter.GuardID)
	}
	if filter.Type != "" {
		q = q.Where("type = ?", filter.Type)
	}
	if filter.Unresolved {
		q = q.Where("is_resolved = ?", false)
	}

	var rows []Alert
	err := q.Order("created_at DESC").Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*Alert, error) {
	var a Alert
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Guard").
		Where("id = ?", id).
		First(&a).Error
	if err != nil {
		return nil, err
	}
	return &a, nil
}

func (r *repository) Update(ctx context.Context, a *Alert) error {
	return r.db.WithContext(ctx).Save(a).Error
}
