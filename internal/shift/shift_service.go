package shift

import (
	"context"
	"database/sql"
	"errors"
	"time"

	shifterrors "fieldwatch/internal/shift/errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, orgID string, req CreateShiftRequest) (ShiftResponse, error)
	GetAll(ctx context.Context, orgID string) ([]ShiftResponse, error)
	GetByID(ctx context.Context, orgID, id string) (ShiftResponse, error)
	Update(ctx context.Context, orgID, id string, req UpdateShiftRequest) (ShiftResponse, error)
	Delete(ctx context.Context, orgID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func (s *service) Create(ctx context.Context, orgID string, req CreateShiftRequest) (ShiftResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidOrgID
	}
	if err := validateTimes(req.StartTime, req.EndTime); err != nil {
		return ShiftResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &Shift{
		ID:             uuid.New(),
		OrganizationID: orgUUID,
		Name:           req.Name,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}
	if err := qtx.Create(ctx, row); err != nil {
		return ShiftResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ShiftResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]ShiftResponse, error) {
	rows, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	res := make([]ShiftResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (ShiftResponse, error) {
	if _, err := uuid.Parse(id); err != nil {
		return ShiftResponse{}, shifterrors.ErrInvalidShiftID
	}
	row, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateShiftRequest) (ShiftResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return ShiftResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return ShiftResponse{}, shifterrors.ErrShiftNotFound
		}
		return ShiftResponse{}, err
	}

	if req.Name != "" {
		row.Name = req.Name
	}
	if req.StartTime != "" {
		row.StartTime = req.StartTime
	}
	if req.EndTime != "" {
		row.EndTime = req.EndTime
	}
	if err := validateTimes(row.StartTime, row.EndTime); err != nil {
		return ShiftResponse{}, err
	}
	row.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, row); err != nil {
		return ShiftResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return ShiftResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return shifterrors.ErrInvalidShiftID
	}
	return s.repo.Delete(ctx, orgID, id)
}

func validateTimes(start, end string) error {
	if _, err := ParseTimeOfDay(start); err != nil {
		return shifterrors.ErrInvalidTimeOfDay
	}
	if _, err := ParseTimeOfDay(end); err != nil {
		return shifterrors.ErrInvalidTimeOfDay
	}
	return nil
}

func mapToResponse(s Shift) ShiftResponse {
	start, _ := ParseTimeOfDay(s.StartTime)
	end, _ := ParseTimeOfDay(s.EndTime)
	overnight := end.Hour < start.Hour || (end.Hour == start.Hour && end.Minute <= start.Minute)

	return ShiftResponse{
		ID:             s.ID.String(),
		OrganizationID: s.OrganizationID.String(),
		Name:           s.Name,
		StartTime:      s.StartTime,
		EndTime:        s.EndTime,
		Overnight:      overnight,
	}
}
