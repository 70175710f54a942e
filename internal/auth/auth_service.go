package auth

import (
	"context"
	"database/sql"
	"os"
	"time"

	autherrors "fieldwatch/internal/auth/errors"
	"fieldwatch/internal/organization"
	"fieldwatch/internal/rbac"
	"fieldwatch/internal/user"

	"github.com/golang-jwt/jwt/v5"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
)

const (
	accessTokenTTL  = 15 * time.Minute
	refreshTokenTTL = 7 * 24 * time.Hour
)

type Service interface {
	Login(ctx context.Context, email, password string) (accessToken, refreshToken string, resp AuthResponse, err error)
	RefreshToken(ctx context.Context, refreshToken string) (newAccessToken, newRefreshToken string, resp AuthResponse, err error)
	GetMe(ctx context.Context, userID string) (*AuthResponse, error)
	Register(ctx context.Context, req RegisterRequest) (AuthResponse, error)
}

type service struct {
	db       *sql.DB
	userRepo user.Repository
	orgRepo  organization.Repository
}

func NewService(db *sql.DB, userRepo user.Repository, orgRepo organization.Repository) Service {
	return &service{db: db, userRepo: userRepo, orgRepo: orgRepo}
}

func (s *service) Login(ctx context.Context, email, password string) (string, string, AuthResponse, error) {
	u, err := s.userRepo.FindByEmail(ctx, email)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if err := bcrypt.CompareHashAndPassword([]byte(u.Password), []byte(password)); err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidCredentials
	}

	if !u.IsActive {
		return "", "", AuthResponse{}, autherrors.ErrForbidden
	}

	accessToken, err := generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	refreshToken, err := generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return accessToken, refreshToken, mapToResponse(*u), nil
}

func (s *service) RefreshToken(ctx context.Context, refreshToken string) (string, string, AuthResponse, error) {
	token, err := jwt.Parse(refreshToken, func(token *jwt.Token) (interface{}, error) {
		if _, ok := token.Method.(*jwt.SigningMethodHMAC); !ok {
			return nil, autherrors.ErrInvalidToken
		}
		return []byte(os.Getenv("JWT_SECRET")), nil
	})

	if err != nil || !token.Valid {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	claims, ok := token.Claims.(jwt.MapClaims)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userIDStr, ok := claims["user_id"].(string)
	if !ok {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	userID, err := uuid.Parse(userIDStr)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidToken
	}

	u, err := s.userRepo.FindByID(ctx, userID)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrInvalidRefreshToken
	}

	newAccessToken, err := generateToken(u, accessTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}
	newRefreshToken, err := generateToken(u, refreshTokenTTL)
	if err != nil {
		return "", "", AuthResponse{}, autherrors.ErrTokenGenerationFailed
	}

	return newAccessToken, newRefreshToken, mapToResponse(*u), nil
}

func (s *service) GetMe(ctx context.Context, userID string) (*AuthResponse, error) {
	id, err := uuid.Parse(userID)
	if err != nil {
		return nil, autherrors.ErrInvalidToken
	}

	u, err := s.userRepo.FindByID(ctx, id)
	if err != nil {
		return nil, autherrors.ErrInvalidCredentials
	}

	resp := mapToResponse(*u)
	return &resp, nil
}

// Register bootstraps a new tenant: the organization and its first admin
// user are created in one transaction.
func (s *service) Register(ctx context.Context, req RegisterRequest) (AuthResponse, error) {
	hashed, err := bcrypt.GenerateFromPassword([]byte(req.Password), bcrypt.DefaultCost)
	if err != nil {
		return AuthResponse{}, err
	}

	timezone := req.Timezone
	if timezone == "" {
		timezone = "UTC"
	}
	if _, err := time.LoadLocation(timezone); err != nil {
		return AuthResponse{}, autherrors.ErrForbidden
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return AuthResponse{}, err
	}
	defer tx.Rollback()

	org := &organization.Organization{
		ID:       uuid.New(),
		Name:     req.OrganizationName,
		Plan:     "basic",
		Timezone: timezone,
	}
	if err := s.orgRepo.WithTx(tx).Create(ctx, org); err != nil {
		return AuthResponse{}, err
	}

	admin := &user.User{
		ID:             uuid.New(),
		OrganizationID: org.ID,
		Username:       req.Username,
		Email:          req.Email,
		Password:       string(hashed),
		Role:           rbac.RoleAdmin,
		IsActive:       true,
	}
	if err := s.userRepo.WithTx(tx).Create(ctx, admin); err != nil {
		return AuthResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		return AuthResponse{}, err
	}

	return mapToResponse(*admin), nil
}

func generateToken(u *user.User, expiry time.Duration) (string, error) {
	claims := jwt.MapClaims{
		"user_id": u.ID.String(),
		"org_id":  u.OrganizationID.String(),
		"role":    u.Role,
		"exp":     time.Now().Add(expiry).Unix(),
	}
	if u.GuardID != nil {
		claims["guard_id"] = u.GuardID.String()
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	return token.SignedString([]byte(os.Getenv("JWT_SECRET")))
}

func mapToResponse(u user.User) AuthResponse {
	resp := AuthResponse{
		ID:             u.ID.String(),
		OrganizationID: u.OrganizationID.String(),
		Username:       u.Username,
		Email:          u.Email,
		Role:           u.Role,
	}
	if u.GuardID != nil {
		resp.GuardID = u.GuardID.String()
	}
	return resp
}
