package tracking

import (
	"context"
	"errors"
	"time"

	"fieldwatch/internal/geo"
	trackingerrors "fieldwatch/internal/tracking/errors"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

// liveWindow bounds how old a sample may be and still count as "live"
// on the operations map.
const liveWindow = 30 * time.Minute

type Service interface {
	Ingest(ctx context.Context, orgID, guardID string, req IngestLocationRequest) (LocationResponse, error)
	Latest(ctx context.Context, orgID, guardID string) (LocationResponse, error)
	Live(ctx context.Context, orgID string) ([]LocationResponse, error)
	Track(ctx context.Context, orgID, guardID string, hours int) ([]LocationResponse, error)
}

type service struct {
	repo   Repository
	logger *zap.Logger
	now    func() time.Time
}

func NewService(repo Repository, logger ...*zap.Logger) Service {
	l := zap.L().Named("tracking.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("tracking.service")
	}
	return &service{repo: repo, logger: l, now: time.Now}
}

func (s *service) Ingest(ctx context.Context, orgID, guardID string, req IngestLocationRequest) (LocationResponse, error) {
	if guardID == "" {
		return LocationResponse{}, trackingerrors.ErrGuardNotResolved
	}

	point := geo.Point{Latitude: req.Latitude, Longitude: req.Longitude}
	if err := point.Validate(); err != nil {
		return LocationResponse{}, trackingerrors.ErrInvalidCoordinates
	}

	recordedAt := s.now().UTC()
	if req.RecordedAt != "" {
		parsed, err := time.Parse(time.RFC3339, req.RecordedAt)
		if err == nil && !parsed.After(recordedAt) {
			recordedAt = parsed.UTC()
		}
	}

	log := &LocationLog{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(orgID),
		GuardID:        uuid.MustParse(guardID),
		Latitude:       req.Latitude,
		Longitude:      req.Longitude,
		AccuracyMeters: req.AccuracyMeters,
		BatteryPercent: req.BatteryPercent,
		RecordedAt:     recordedAt,
	}

	if err := s.repo.Create(ctx, log); err != nil {
		s.logger.Error("ingest location failed",
			zap.String("guard_id", guardID),
			zap.Error(err),
		)
		return LocationResponse{}, err
	}

	return mapToResponse(*log), nil
}

func (s *service) Latest(ctx context.Context, orgID, guardID string) (LocationResponse, error) {
	log, err := s.repo.LatestByGuard(ctx, orgID, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return LocationResponse{}, trackingerrors.ErrLocationNotFound
		}
		s.logger.Error("latest location failed", zap.String("guard_id", guardID), zap.Error(err))
		return LocationResponse{}, err
	}
	return mapToResponse(*log), nil
}

func (s *service) Live(ctx context.Context, orgID string) ([]LocationResponse, error) {
	since := s.now().UTC().Add(-liveWindow)
	rows, err := s.repo.LiveByOrg(ctx, orgID, since)
	if err != nil {
		s.logger.Error("live locations failed", zap.String("org_id", orgID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) Track(ctx context.Context, orgID, guardID string, hours int) ([]LocationResponse, error) {
	if hours <= 0 || hours > 168 {
		hours = 8
	}
	since := s.now().UTC().Add(-time.Duration(hours) * time.Hour)
	rows, err := s.repo.TrackByGuard(ctx, orgID, guardID, since)
	if err != nil {
		s.logger.Error("guard track failed", zap.String("guard_id", guardID), zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func mapToResponse(log LocationLog) LocationResponse {
	return LocationResponse{
		ID:             log.ID.String(),
		GuardID:        log.GuardID.String(),
		Latitude:       log.Latitude,
		Longitude:      log.Longitude,
		AccuracyMeters: log.AccuracyMeters,
		BatteryPercent: log.BatteryPercent,
		RecordedAt:     log.RecordedAt.UTC().Format(time.RFC3339),
	}
}

func mapToListResponse(rows []LocationLog) []LocationResponse {
	res := make([]LocationResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
