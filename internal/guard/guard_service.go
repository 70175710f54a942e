package guard

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"fieldwatch/internal/geo"
	guarderrors "fieldwatch/internal/guard/errors"
	"fieldwatch/internal/shared/contextutil"
	"fieldwatch/internal/shared/counter"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"go.uber.org/zap"
	"golang.org/x/sync/singleflight"
)

const GuardOptionsKeyPrefix = "guards:options:"

func GetGuardOptionsKey(orgID string) string {
	return GuardOptionsKeyPrefix + orgID
}

type Service interface {
	Create(ctx context.Context, orgID string, req CreateGuardRequest) (GuardResponse, error)
	GetAll(ctx context.Context, orgID string) ([]GuardResponse, error)
	GetOptions(ctx context.Context, orgID string) ([]GuardResponse, error)
	GetByID(ctx context.Context, orgID, id string) (GuardResponse, error)
	Update(ctx context.Context, orgID, id string, req UpdateGuardRequest) (GuardResponse, error)
	Delete(ctx context.Context, orgID, id string) error
}

type service struct {
	db      *sql.DB
	repo    Repository
	counter counter.Repository
	rdb     *redis.Client
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewService(db *sql.DB, repo Repository, counter counter.Repository, rdb *redis.Client, logger ...*zap.Logger) Service {
	l := zap.L().Named("guard.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("guard.service")
	}
	return &service{
		db:      db,
		repo:    repo,
		counter: counter,
		rdb:     rdb,
		sf:      &singleflight.Group{},
		logger:  l,
	}
}

func (s *service) Create(ctx context.Context, orgID string, req CreateGuardRequest) (GuardResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	s.logger.Debug("create guard requested",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("phone", req.Phone),
	)

	if err := validateGeofence(req.Geofence); err != nil {
		return GuardResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("create guard begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return GuardResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	var shiftID *uuid.UUID
	if req.ShiftID != "" {
		id, ok, err := s.resolveShift(ctx, qtx, orgID, req.ShiftID)
		if err != nil {
			return GuardResponse{}, err
		}
		if !ok {
			return GuardResponse{}, guarderrors.ErrShiftNotFound
		}
		shiftID = &id
	}

	if req.Code == "" {
		nextVal, err := s.counter.GetNextValue(ctx, orgID, counter.TypeGuardCode)
		if err != nil {
			s.logger.Error("create guard generate code failed", zap.Error(err))
			return GuardResponse{}, err
		}
		req.Code = fmt.Sprintf("G-%04d", nextVal)
	}

	g := &Guard{
		ID:             uuid.New(),
		OrganizationID: uuid.MustParse(orgID),
		Code:           req.Code,
		FullName:       req.FullName,
		Phone:          req.Phone,
		AssignedRoute:  req.AssignedRoute,
		ShiftID:        shiftID,
		WeekendDays:    req.WeekendDays,
		IsActive:       true,
	}
	applyGeofence(g, req.Geofence)

	if err := qtx.Create(ctx, g); err != nil {
		s.logger.Error("create guard persist failed", zap.Error(err))
		return GuardResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("create guard commit failed", zap.String("request_id", rid), zap.Error(err))
		return GuardResponse{}, err
	}

	s.invalidateOptionsCache(ctx, orgID)

	s.logger.Info("create guard success",
		zap.String("request_id", rid),
		zap.String("guard_id", g.ID.String()),
		zap.String("code", g.Code),
	)

	return mapToResponse(*g), nil
}

func (s *service) GetAll(ctx context.Context, orgID string) ([]GuardResponse, error) {
	s.logger.Debug("get all guards requested", zap.String("org_id", orgID))
	guards, err := s.repo.FindAllByOrg(ctx, orgID)
	if err != nil {
		s.logger.Error("get all guards failed", zap.Error(err))
		return nil, mapRepositoryError(err)
	}

	return mapToListResponse(guards), nil
}

func (s *service) GetOptions(ctx context.Context, orgID string) ([]GuardResponse, error) {
	cacheKey := GetGuardOptionsKey(orgID)

	if s.rdb != nil {
		if cached, err := s.rdb.Get(ctx, cacheKey).Result(); err == nil {
			var resp []GuardResponse
			if json.Unmarshal([]byte(cached), &resp) == nil {
				return resp, nil
			}
		}
	}

	v, err, _ := s.sf.Do(cacheKey, func() (interface{}, error) {
		guards, err := s.repo.FindOptionsByOrg(ctx, orgID)
		if err != nil {
			return nil, mapRepositoryError(err)
		}

		resp := mapToListResponse(guards)

		if s.rdb != nil {
			if jsonData, err := json.Marshal(resp); err == nil {
				s.rdb.Set(ctx, cacheKey, jsonData, 1*time.Hour)
			}
		}

		return resp, nil
	})

	if err != nil {
		return nil, err
	}

	return v.([]GuardResponse), nil
}

func (s *service) GetByID(ctx context.Context, orgID, id string) (GuardResponse, error) {
	s.logger.Debug("get guard by id requested",
		zap.String("org_id", orgID),
		zap.String("guard_id", id),
	)
	g, err := s.repo.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		s.logger.Error("get guard by id failed", zap.Error(err))
		return GuardResponse{}, mapRepositoryError(err)
	}

	return mapToResponse(*g), nil
}

func (s *service) Update(ctx context.Context, orgID, id string, req UpdateGuardRequest) (GuardResponse, error) {
	s.logger.Debug("update guard requested",
		zap.String("org_id", orgID),
		zap.String("guard_id", id),
	)

	if err := validateGeofence(req.Geofence); err != nil {
		return GuardResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("update guard begin tx failed", zap.Error(err))
		return GuardResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	g, err := qtx.FindByIDAndOrg(ctx, orgID, id)
	if err != nil {
		s.logger.Error("update guard fetch existing failed", zap.Error(err))
		return GuardResponse{}, mapRepositoryError(err)
	}

	g.FullName = req.FullName
	g.Phone = req.Phone
	g.AssignedRoute = req.AssignedRoute
	g.WeekendDays = req.WeekendDays
	if req.IsActive != nil {
		g.IsActive = *req.IsActive
	}

	g.ShiftID = nil
	g.Shift = nil
	if req.ShiftID != "" {
		sid, ok, err := s.resolveShift(ctx, qtx, orgID, req.ShiftID)
		if err != nil {
			return GuardResponse{}, err
		}
		if !ok {
			return GuardResponse{}, guarderrors.ErrShiftNotFound
		}
		g.ShiftID = &sid
	}

	g.SiteLatitude = nil
	g.SiteLongitude = nil
	g.GeofenceRadius = nil
	applyGeofence(g, req.Geofence)

	if err := qtx.Update(ctx, g); err != nil {
		s.logger.Error("update guard persist failed", zap.Error(err))
		return GuardResponse{}, mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("update guard commit failed", zap.Error(err))
		return GuardResponse{}, err
	}

	s.invalidateOptionsCache(ctx, orgID)

	s.logger.Info("update guard success", zap.String("guard_id", id))

	return mapToResponse(*g), nil
}

func (s *service) Delete(ctx context.Context, orgID, id string) error {
	s.logger.Debug("delete guard requested",
		zap.String("org_id", orgID),
		zap.String("guard_id", id),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("delete guard begin tx failed", zap.Error(err))
		return err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	if err := qtx.Delete(ctx, orgID, id); err != nil {
		s.logger.Error("delete guard failed", zap.Error(err))
		return mapRepositoryError(err)
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("delete guard commit failed", zap.Error(err))
		return err
	}

	s.invalidateOptionsCache(ctx, orgID)

	s.logger.Info("delete guard success", zap.String("guard_id", id))
	return nil
}

func (s *service) resolveShift(ctx context.Context, repo Repository, orgID, shiftID string) (uuid.UUID, bool, error) {
	id, err := uuid.Parse(shiftID)
	if err != nil {
		return uuid.Nil, false, guarderrors.ErrShiftNotFound
	}
	ok, err := repo.ShiftExists(ctx, orgID, shiftID)
	if err != nil {
		s.logger.Error("resolve shift failed", zap.Error(err))
		return uuid.Nil, false, err
	}
	return id, ok, nil
}

func (s *service) invalidateOptionsCache(ctx context.Context, orgID string) {
	if s.rdb == nil {
		return
	}
	cacheKey := GetGuardOptionsKey(orgID)
	if err := s.rdb.Del(ctx, cacheKey).Err(); err != nil {
		s.logger.Error("failed to invalidate guard options cache",
			zap.Error(err),
			zap.String("key", cacheKey),
		)
	}
}

func validateGeofence(req *GeofenceRequest) error {
	if req == nil {
		return nil
	}
	site := geo.Point{Latitude: req.SiteLatitude, Longitude: req.SiteLongitude}
	if err := site.Validate(); err != nil {
		return guarderrors.ErrInvalidGeofence
	}
	if req.RadiusMeters <= 0 {
		return guarderrors.ErrInvalidGeofence
	}
	return nil
}

func applyGeofence(g *Guard, req *GeofenceRequest) {
	if req == nil {
		return
	}
	lat, lng, radius := req.SiteLatitude, req.SiteLongitude, req.RadiusMeters
	g.SiteLatitude = &lat
	g.SiteLongitude = &lng
	g.GeofenceRadius = &radius
}

func mapToResponse(g Guard) GuardResponse {
	resp := GuardResponse{
		ID:             g.ID.String(),
		OrganizationID: g.OrganizationID.String(),
		Code:           g.Code,
		FullName:       g.FullName,
		Phone:          g.Phone,
		AssignedRoute:  g.AssignedRoute,
		WeekendDays:    g.WeekendDays,
		IsActive:       g.IsActive,
	}
	if g.ShiftID != nil {
		resp.ShiftID = g.ShiftID.String()
	}
	if g.Shift != nil {
		resp.Shift = &GuardShiftResponse{
			ID:        g.Shift.ID.String(),
			Name:      g.Shift.Name,
			StartTime: g.Shift.StartTime,
			EndTime:   g.Shift.EndTime,
		}
	}
	if g.HasGeofence() {
		resp.Geofence = &GeofenceResponse{
			SiteLatitude:  *g.SiteLatitude,
			SiteLongitude: *g.SiteLongitude,
			RadiusMeters:  *g.GeofenceRadius,
		}
	}
	return resp
}

func mapToListResponse(guards []Guard) []GuardResponse {
	res := make([]GuardResponse, len(guards))
	for i, g := range guards {
		res[i] = mapToResponse(g)
	}
	return res
}
