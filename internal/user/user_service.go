package user

import (
	"context"
	"database/sql"
	"errors"
	"time"

	"fieldwatch/internal/rbac"
	usererrors "fieldwatch/internal/user/errors"

	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, orgID string, req CreateUserRequest) (UserResponse, error)
	GetAll(ctx context.Context, orgID string) ([]UserResponse, error)
	GetByID(ctx context.Context, orgID, id string) (UserResponse, error)
	Update(ctx context.Context, orgID, id string, req UpdateUserRequest) (UserResponse, error)
	Delete(ctx context.Context, orgID, id string) error
}

type service struct {
	db   *sql.DB
	repo Repository
}

func NewService(db *sql.DB, repo Repository) Service {
	return &service{db: db, repo: repo}
}

func validRole(role string) bool {
	switch role {
	case rbac.RoleAdmin, rbac.RoleManager, rbac.RoleGuard:
		return true
	default:
		return false
	}
}

func (s *service) Create(ctx context.Context, orgID string, req CreateUserRequest) (UserResponse, error) {
	orgUUID, err := uuid.Parse(orgID)
	if err != nil {
		return UserResponse{}, usererrors.ErrInvalidUserID
	}
	if !validRole(req.Role) {
		return UserResponse{}, usererrors.ErrInvalidRole
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return UserResponse{}, err
	}

	var guardUUID *uuid.UUID
	if req.GuardID != nil {
		id, err := uuid.Parse(*req.GuardID)
		if err != nil {
			return UserResponse{}, usererrors.ErrInvalidUserID
		}
		guardUUID = &id
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row := &User{
		ID:             uuid.New(),
		OrganizationID: orgUUID,
		GuardID:        guardUUID,
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           req.Role,
		Phone:          req.Phone,
		IsActive:       true,
	}
	if err := qtx.Create(ctx, row); err != nil {
		return UserResponse{}, usererrors.ErrEmailAlreadyRegistered
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]UserResponse, error) {
	rows, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	res := make([]UserResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res, nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (UserResponse, error) {
	row, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateUserRequest) (UserResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return UserResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	row, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return UserResponse{}, usererrors.ErrUserNotFound
		}
		return UserResponse{}, err
	}

	if req.Username != "" {
		row.Username = req.Username
	}
	if req.Role != "" {
		if !validRole(req.Role) {
			return UserResponse{}, usererrors.ErrInvalidRole
		}
		row.Role = req.Role
	}
	if req.Phone != nil {
		row.Phone = req.Phone
	}
	if req.IsActive != nil {
		row.IsActive = *req.IsActive
	}
	row.UpdatedAt = time.Now().UTC()

	if err := qtx.Update(ctx, row); err != nil {
		return UserResponse{}, err
	}
	if err := tx.Commit(); err != nil {
		return UserResponse{}, err
	}
	return mapToResponse(*row), nil
}

func (s *service) Delete(ctx context.Context, orgID, id string) error {
	if _, err := uuid.Parse(id); err != nil {
		return usererrors.ErrInvalidUserID
	}
	return s.repo.Delete(ctx, orgID, id)
}

func mapToResponse(u User) UserResponse {
	resp := UserResponse{
		ID:             u.ID.String(),
		OrganizationID: u.OrganizationID.String(),
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
		Phone:          u.Phone,
		IsActive:       u.IsActive,
	}
	if u.GuardID != nil {
		v := u.GuardID.String()
		resp.GuardID = &v
	}
	return resp
}
