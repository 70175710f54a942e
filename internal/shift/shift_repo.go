package shift

import (
	"context"
	"database/sql"

	"fieldwatch/internal/tenant"

	"gorm.io/gorm"
)

type Repository interface {
	WithTx(tx *sql.Tx) Repository
	Create(ctx context.Context, s *Shift) error
	FindAllByOrg(ctx context.Context, orgID string) ([]Shift, error)
	FindByIDAndOrg(ctx context.Context, orgID, id string) (*Shift, error)
	Update(ctx context.Context, s *Shift) error
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

func (r *repository) Create(ctx context.Context, s *Shift) error {
	return r.db.WithContext(ctx).Create(s).Error
}

func (r *repository) FindAllByOrg(ctx context.Context, orgID string) ([]Shift, error) {
	var rows []Shift
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Order("start_time ASC").
		Find(&rows).Error
	return rows, err
}

func (r *repository) FindByIDAndOrg(ctx context.Context, orgID, id string) (*Shift, error) {
	var s Shift
	err := r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		First(&s).Error
	if err != nil {
		return nil, err
	}
	return &s, nil
}

func (r *repository) Update(ctx context.Context, s *Shift) error {
	return r.db.WithContext(ctx).Save(s).Error
}

func (r *repository) Delete(ctx context.Context, orgID, id string) error {
	return r.db.WithContext(ctx).
		Scopes(tenant.Scope(orgID)).
		Where("id = ?", id).
		Delete(&Shift{}).Error
}
