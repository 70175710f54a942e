package alert

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"

	alerterrors "fieldwatch/internal/alert/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	Create(ctx context.Context, orgID string, req CreateAlertRequest) (AlertResponse, error)
	GetAll(ctx context.Context, orgID string, filter ListFilter) ([]AlertResponse, error)
	Resolve(ctx context.Context, orgID, id, resolvedBy string) (AlertResponse, error)
	// RaiseGeofenceBreach files the alert produced when the sweeper
	// auto-closes a session outside its geofence. Keyed on the session
	// so redelivered events collapse into one alert.
	RaiseGeofenceBreach(ctx context.Context, orgID, guardID, sessionID string, distanceMeters, radiusMeters float64) error
}

type service struct {
	db     *sql.DB
	repo   Repository
	logger *zap.Logger
}

func NewService(db *sql.DB, repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("alert.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("alert.service")
	}
	return &service{db: db, repo: repo, logger: l}
}

func (s *service) Create(ctx context.Context, orgID string, req CreateAlertRequest) (AlertResponse, error) {
	if !validType(req.Type) {
		return AlertResponse{}, alerterrors.ErrInvalidAlertType
	}
	severity := req.Severity
	if severity == "" {
		severity = defaultSeverity(req.Type)
	}
	if !validSeverity(severity) {
		return AlertResponse{}, alerterrors.ErrInvalidSeverity
	}

	a := &Alert{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(orgID),
		GuardID:        uuid.MustParse(req.GuardID),
		Type:           req.Type,
		Severity:       severity,
		Message:        req.Message,
	}

	if err := s.repo.Create(ctx, a); err != nil {
		s.logger.Error("create alert failed", zap.Error(err))
		return AlertResponse{}, err
	}

	s.logger.Info("alert created",
		zap.String("alert_id", a.ID.String()),
		zap.String("type", a.Type),
		zap.String("severity", a.Severity),
	)

	return mapToResponse(*a), nil
}

func (s *service) GetAll(ctx context.Context, orgID string, filter ListFilter) ([]AlertResponse, error) {
	rows, err := s.repo.FindAllByOrg(ctx, orgID, filter)
	if err != nil {
		s.logger.Error("list alerts failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Resolve(ctx context.Context, orgID, id, resolvedBy string) (AlertResponse, error) {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("resolve alert begin tx failed", zap.Error(err))
		return AlertResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	a, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return AlertResponse{}, alerterrors.ErrAlertNotFound
		}
		s.logger.Error("resolve alert lookup failed", zap.Error(err))
		return AlertResponse{}, err
	}
	if a.IsResolved {
		return AlertResponse{}, alerterrors.ErrAlertAlreadyResolved
	}

	now := time.Now().UTC()
	a.IsResolved = true
	a.ResolvedAt = &now
	if resolver, err := uuid.Parse(resolvedBy); err == nil {
		a.ResolvedBy = &resolver
	}

	if err := qtx.Update(ctx, a); err != nil {
		s.logger.Error("resolve alert persist failed", zap.Error(err))
		return AlertResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("resolve alert commit failed", zap.Error(err))
		return AlertResponse{}, err
	}

	s.logger.Info("alert resolved", zap.String("alert_id", id))

	return mapToResponse(*a), nil
}

func (s *service) RaiseGeofenceBreach(ctx context.Context, orgID, guardID, sessionID string, distanceMeters, radiusMeters float64) error {
	sid, err := uuid.Parse(sessionID)
	if err != nil {
		return alerterrors.ErrAlertNotFound
	}

	a := &Alert{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(orgID),
		GuardID:        uuid.MustParse(guardID),
		SessionID:      &sid,
		Type:           TypeGeofence,
		Severity:       SeverityHigh,
		Message: fmt.Sprintf(
			"Guard was %.0fm from post (radius %.0fm) when the session was auto-closed",
			distanceMeters, radiusMeters,
		),
	}

	if err := s.repo.Create(ctx, a); err != nil {
		return err
	}

	s.logger.Info("geofence breach alert raised",
		zap.String("alert_id", a.ID.String()),
		zap.String("session_id", sessionID),
	)
	return nil
}

func defaultSeverity(alertType string) string {
	switch alertType {
	case TypePanic:
		return SeverityCritical
	case TypeGeofence:
		return SeverityHigh
	case TypeOffline:
		return SeverityMedium
	default:
		return SeverityLow
	}
}

func mapToResponse(a Alert) AlertResponse {
	resp := AlertResponse{
		ID:             a.ID.String(),
		OrganizationID: a.OrganizationID.String(),
		GuardID:        a.GuardID.String(),
		Type:           a.Type,
		Severity:       a.Severity,
		Message:        a.Message,
		IsResolved:     a.IsResolved,
		CreatedAt:      a.CreatedAt.UTC().Format(time.RFC3339),
	}
	if a.Guard != nil {
		resp.GuardCode = a.Guard.Code
		resp.GuardName = a.Guard.FullName
	}
	if a.SessionID != nil {
		resp.SessionID = a.SessionID.String()
	}
	if a.ResolvedAt != nil {
		resp.ResolvedAt = a.ResolvedAt.UTC().Format(time.RFC3339)
	}
	return resp
}

func mapToListResponse(rows []Alert) []AlertResponse {
	res := make([]AlertResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
