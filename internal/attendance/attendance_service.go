package attendance

import (
	"bytes"
	"context"
	"database/sql"
	"encoding/csv"
	"errors"
	"time"

	attendanceerrors "fieldwatch/internal/attendance/errors"
	"fieldwatch/internal/geo"
	"fieldwatch/internal/guard"
	"fieldwatch/internal/organization"
	"fieldwatch/internal/shared/contextutil"
	"fieldwatch/internal/shift"
	shifterrors "fieldwatch/internal/shift/errors"
	"fieldwatch/internal/tracking"

	"github.com/google/uuid"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type Service interface {
	CheckIn(ctx context.Context, orgID, guardID string, req CheckInRequest) (SessionResponse, error)
	CheckOut(ctx context.Context, orgID, guardID string, req CheckOutRequest) (SessionResponse, error)
	ForceCheckOut(ctx context.Context, orgID, sessionID string, req ForceCheckOutRequest) (SessionResponse, error)
	Active(ctx context.Context, orgID, guardID string) (SessionResponse, error)
	GetAll(ctx context.Context, orgID, actorGuardID string, canReadAll bool, filter ListFilter) ([]SessionResponse, error)
	ExportCSV(ctx context.Context, orgID string, filter ListFilter) ([]byte, error)
}

type service struct {
	db           *sql.DB
	repo         Repository
	guardRepo    guard.Repository
	shiftRepo    shift.Repository
	orgRepo      organization.Repository
	trackingRepo tracking.Repository
	logger       *zap.Logger
	now          func() time.Time
}

func NewService(
	db *sql.DB,
	repo Repository,
	guardRepo guard.Repository,
	shiftRepo shift.Repository,
	orgRepo organization.Repository,
	trackingRepo tracking.Repository,
	logger ...*zap.Logger,
) Service {
	l := zap.L().Named("attendance.service")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("attendance.service")
	}
	return &service{
		db:           db,
		repo:         repo,
		guardRepo:    guardRepo,
		shiftRepo:    shiftRepo,
		orgRepo:      orgRepo,
		trackingRepo: trackingRepo,
		logger:       l,
		now:          time.Now,
	}
}

func (s *service) CheckIn(ctx context.Context, orgID, guardID string, req CheckInRequest) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if guardID == "" {
		return SessionResponse{}, attendanceerrors.ErrGuardNotResolved
	}
	if err := validateCoords(req.Latitude, req.Longitude); err != nil {
		return SessionResponse{}, err
	}

	s.logger.Debug("check-in requested",
		zap.String("request_id", rid),
		zap.String("org_id", orgID),
		zap.String("guard_id", guardID),
	)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-in begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	existing, err := qtx.FindActiveByGuard(ctx, orgID, guardID)
	if err != nil && !errors.Is(err, gorm.ErrRecordNotFound) {
		s.logger.Error("check-in active lookup failed", zap.Error(err))
		return SessionResponse{}, err
	}
	if existing != nil {
		return SessionResponse{}, attendanceerrors.ErrAlreadyCheckedIn
	}

	now := s.now().UTC()
	shiftID, err := s.resolveShiftForCheckIn(ctx, orgID, guardID, req.ShiftID, now)
	if err != nil {
		return SessionResponse{}, err
	}

	session := &Session{
		ID:               uuid.New(),
		OrganizationID:   uuid.MustParse(orgID),
		GuardID:          uuid.MustParse(guardID),
		ShiftID:          shiftID,
		CheckinTime:      now,
		CheckinLatitude:  req.Latitude,
		CheckinLongitude: req.Longitude,
		Notes:            req.Notes,
	}

	if err := qtx.Create(ctx, session); err != nil {
		s.logger.Error("check-in persist failed", zap.Error(err))
		return SessionResponse{}, err
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-in commit failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}

	// The check-in position doubles as the first tracking sample so the
	// live map shows the guard immediately. Losing it is not fatal.
	if req.Latitude != nil && req.Longitude != nil && s.trackingRepo != nil {
		log := &tracking.LocationLog{
			ID:             uuid.New(),
			OrganizationID: session.OrganizationID,
			GuardID:        session.GuardID,
			Latitude:       *req.Latitude,
			Longitude:      *req.Longitude,
			RecordedAt:     now,
		}
		if err := s.trackingRepo.Create(ctx, log); err != nil {
			s.logger.Warn("check-in location sample write failed",
				zap.String("session_id", session.ID.String()),
				zap.Error(err),
			)
		}
	}

	s.logger.Info("check-in success",
		zap.String("request_id", rid),
		zap.String("session_id", session.ID.String()),
		zap.String("guard_id", guardID),
	)

	return mapToResponse(*session), nil
}

// resolveShiftForCheckIn picks the session's shift: an explicit request
// wins, then the guard's assigned shift, then any org shift whose window
// contains the check-in instant. A session may legitimately end up with
// no shift at all.
func (s *service) resolveShiftForCheckIn(ctx context.Context, orgID, guardID, requestedShiftID string, now time.Time) (*uuid.UUID, error) {
	if requestedShiftID != "" {
		sh, err := s.shiftRepo.FindByIDAndOrg(ctx, orgID, requestedShiftID)
		if err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return nil, shifterrors.ErrShiftNotFound
			}
			return nil, err
		}
		return &sh.ID, nil
	}

	g, err := s.guardRepo.FindByIDAndOrg(ctx, orgID, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, attendanceerrors.ErrGuardNotResolved
		}
		return nil, err
	}
	if g.ShiftID != nil {
		return g.ShiftID, nil
	}

	org, err := s.orgRepo.FindByID(ctx, orgID)
	if err != nil {
		return nil, err
	}
	loc := org.Location()

	shifts, err := s.shiftRepo.FindAllByOrg(ctx, orgID)
	if err != nil {
		return nil, err
	}
	for _, sh := range shifts {
		start, err := shift.ParseTimeOfDay(sh.StartTime)
		if err != nil {
			continue
		}
		end, err := shift.ParseTimeOfDay(sh.EndTime)
		if err != nil {
			continue
		}
		// An overnight shift already in progress is anchored to the
		// previous local day, so probe both anchors.
		for _, anchor := range []time.Time{now, now.AddDate(0, 0, -1)} {
			startAt, endAt := shift.ResolveWindow(start, end, anchor, loc)
			if !now.Before(startAt) && now.Before(endAt) {
				id := sh.ID
				return &id, nil
			}
		}
	}

	return nil, nil
}

func (s *service) CheckOut(ctx context.Context, orgID, guardID string, req CheckOutRequest) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)
	if guardID == "" {
		return SessionResponse{}, attendanceerrors.ErrGuardNotResolved
	}
	if err := validateCoords(req.Latitude, req.Longitude); err != nil {
		return SessionResponse{}, err
	}

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("check-out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	session, err := qtx.FindActiveByGuard(ctx, orgID, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrNoOpenSession
		}
		s.logger.Error("check-out active lookup failed", zap.Error(err))
		return SessionResponse{}, err
	}

	now := s.now().UTC()
	affected, err := qtx.CloseSession(ctx, session.ID.String(), now, MethodManual, req.Latitude, req.Longitude)
	if err != nil {
		s.logger.Error("check-out close failed", zap.Error(err))
		return SessionResponse{}, err
	}
	if affected == 0 {
		// The sweeper or another request closed it first.
		return SessionResponse{}, attendanceerrors.ErrSessionAlreadyClosed
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("check-out commit failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}

	session.CheckoutTime = &now
	session.CheckoutMethod = MethodManual
	session.CheckoutLatitude = req.Latitude
	session.CheckoutLongitude = req.Longitude

	s.logger.Info("check-out success",
		zap.String("request_id", rid),
		zap.String("session_id", session.ID.String()),
	)

	return mapToResponse(*session), nil
}

func (s *service) ForceCheckOut(ctx context.Context, orgID, sessionID string, req ForceCheckOutRequest) (SessionResponse, error) {
	rid := contextutil.GetRequestID(ctx)

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		s.logger.Error("force check-out begin tx failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}
	defer tx.Rollback()

	qtx := s.repo.WithTx(tx)

	session, err := qtx.FindByIDAndOrg(ctx, orgID, sessionID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrSessionNotFound
		}
		s.logger.Error("force check-out lookup failed", zap.Error(err))
		return SessionResponse{}, err
	}
	if !session.IsOpen() {
		return SessionResponse{}, attendanceerrors.ErrSessionAlreadyClosed
	}

	now := s.now().UTC()
	affected, err := qtx.CloseSession(ctx, session.ID.String(), now, MethodAdminForced, nil, nil)
	if err != nil {
		s.logger.Error("force check-out close failed", zap.Error(err))
		return SessionResponse{}, err
	}
	if affected == 0 {
		return SessionResponse{}, attendanceerrors.ErrSessionAlreadyClosed
	}

	if req.Notes != nil {
		session.Notes = req.Notes
		if err := qtx.Update(ctx, session); err != nil {
			s.logger.Error("force check-out notes update failed", zap.Error(err))
			return SessionResponse{}, err
		}
	}

	if err := tx.Commit(); err != nil {
		s.logger.Error("force check-out commit failed", zap.String("request_id", rid), zap.Error(err))
		return SessionResponse{}, err
	}

	session.CheckoutTime = &now
	session.CheckoutMethod = MethodAdminForced

	s.logger.Info("force check-out success",
		zap.String("request_id", rid),
		zap.String("session_id", sessionID),
	)

	return mapToResponse(*session), nil
}

func (s *service) Active(ctx context.Context, orgID, guardID string) (SessionResponse, error) {
	if guardID == "" {
		return SessionResponse{}, attendanceerrors.ErrGuardNotResolved
	}

	session, err := s.repo.FindActiveByGuard(ctx, orgID, guardID)
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return SessionResponse{}, attendanceerrors.ErrNoOpenSession
		}
		s.logger.Error("active session lookup failed", zap.Error(err))
		return SessionResponse{}, err
	}
	return mapToResponse(*session), nil
}

func (s *service) GetAll(ctx context.Context, orgID, actorGuardID string, canReadAll bool, filter ListFilter) ([]SessionResponse, error) {
	if !canReadAll {
		if actorGuardID == "" {
			return nil, attendanceerrors.ErrGuardNotResolved
		}
		filter.GuardID = actorGuardID
	}

	rows, err := s.repo.FindAllByOrg(ctx, orgID, filter)
	if err != nil {
		s.logger.Error("list sessions failed", zap.Error(err))
		return nil, err
	}
	return mapToListResponse(rows), nil
}

func (s *service) ExportCSV(ctx context.Context, orgID string, filter ListFilter) ([]byte, error) {
	rows, err := s.repo.FindAllByOrg(ctx, orgID, filter)
	if err != nil {
		s.logger.Error("export sessions failed", zap.Error(err))
		return nil, err
	}

	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	header := []string{"guard_code", "guard_name", "shift", "checkin_time", "checkout_time", "checkout_method"}
	if err := w.Write(header); err != nil {
		return nil, err
	}

	for _, row := range rows {
		record := make([]string, len(header))
		if row.Guard != nil {
			record[0] = row.Guard.Code
			record[1] = row.Guard.FullName
		}
		if row.Shift != nil {
			record[2] = row.Shift.Name
		}
		record[3] = row.CheckinTime.UTC().Format(time.RFC3339)
		if row.CheckoutTime != nil {
			record[4] = row.CheckoutTime.UTC().Format(time.RFC3339)
			record[5] = row.CheckoutMethod
		}
		if err := w.Write(record); err != nil {
			return nil, err
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func validateCoords(lat, lng *float64) error {
	if lat == nil && lng == nil {
		return nil
	}
	if lat == nil || lng == nil {
		return attendanceerrors.ErrInvalidCoordinates
	}
	point := geo.Point{Latitude: *lat, Longitude: *lng}
	if err := point.Validate(); err != nil {
		return attendanceerrors.ErrInvalidCoordinates
	}
	return nil
}

func mapToResponse(s Session) SessionResponse {
	resp := SessionResponse{
		ID:               s.ID.String(),
		OrganizationID:   s.OrganizationID.String(),
		GuardID:          s.GuardID.String(),
		CheckinTime:      s.CheckinTime.UTC().Format(time.RFC3339),
		CheckinLatitude:  s.CheckinLatitude,
		CheckinLongitude: s.CheckinLongitude,
		CheckoutMethod:   s.CheckoutMethod,
		Notes:            s.Notes,
	}
	if s.Guard != nil {
		resp.GuardCode = s.Guard.Code
		resp.GuardName = s.Guard.FullName
	}
	if s.Shift != nil {
		resp.Shift = &SessionShiftResponse{
			ID:        s.Shift.ID.String(),
			Name:      s.Shift.Name,
			StartTime: s.Shift.StartTime,
			EndTime:   s.Shift.EndTime,
		}
	}
	if s.CheckoutTime != nil {
		v := s.CheckoutTime.UTC().Format(time.RFC3339)
		resp.CheckoutTime = &v
		resp.CheckoutLatitude = s.CheckoutLatitude
		resp.CheckoutLongitude = s.CheckoutLongitude
	}
	return resp
}

func mapToListResponse(rows []Session) []SessionResponse {
	res := make([]SessionResponse, len(rows))
	for i, row := range rows {
		res[i] = mapToResponse(row)
	}
	return res
}
