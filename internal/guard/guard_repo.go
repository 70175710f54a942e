package guard

import (
	"context"
	"database/sql"

	"fieldwatch/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, g *Guard) error
	FindAllByOrg(ctx context.Context, orgID string) ([]Guard, error)
	FindOptionsByOrg(ctx context.Context, orgID string) ([]Guard, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*Guard, error)
	ShiftExists(ctx context.Context, orgID, shiftID string) (bool, error)
	Update(ctx context.Context, g *Guard) error
	Delete(ctx context.Context, orgID, id string) error
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

func (r *repository) Create(ctx context.Context, g *Guard) error {
	return r.db.WithContext(ctx).Create(g).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]Guard, error) {
	var rows []Guard
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Shift").
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindOptionsByOrg(ctx context.Context, orgID string) ([]Guard, error) {
	var rows []Guard
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Select("id", "organization_id", "code", "full_name", "is_active").
		Where("is_active = ?", true).
		Order("code ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*Guard, error) {
	var g Guard
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Preload("Shift").
		Where("id = ?", id).
		First(&g).Error
	if err != nil {
		return nil, err
	}
	return &g, nil
}

func (r *repository) ShiftExists(ctx context.Context, orgID, shiftID string) (bool, error) {
	var count int64
	err := r.db.WithContext(ctx).
		Table("shifts").
		Where("organization_id = ? AND id = ? AND deleted_at IS NULL", orgID, shiftID).
		Count(&count).Error
	return count > 0, err
}

func (r *repository) Update(ctx context.Context, g *Guard) error {
	return r.db.WithContext(ctx).Save(g).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		Delete(&Guard{}).Error
}
