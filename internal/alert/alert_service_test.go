package alert_test

import (
	"context"
	"database/sql"
	"testing"
	"time"

	"fieldwatch/internal/alert"
	alerterrors "fieldwatch/internal/alert/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
)

type fakeRepo struct {
	createFn   func(ctx context.Context, a *alert.Alert) error
	findAllFn  func(ctx context.Context, orgID string, filter alert.ListFilter) ([]alert.Alert, error)
	findByIDFn func(ctx context.Context, orgID, id string) (*alert.Alert, error)
	updateFn   func(ctx context.Context, a *alert.Alert) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) alert.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, a *alert.Alert) error {
	return f.createFn(ctx, a)
}
func (f *fakeRepo) FindAllByOrg(ctx context.Context, orgID string, filter alert.ListFilter) ([]alert.Alert, error) {
	return f.findAllFn(ctx, orgID, filter)
}
func (f *fakeRepo) FindByIDAndOrg(ctx context.Context, orgID, id string) (*alert.Alert, error) {
	return f.findByIDFn(ctx, orgID, id)
}
func (f *fakeRepo) Update(ctx context.Context, a *alert.Alert) error {
	return f.updateFn(ctx, a)
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	guardID := uuid.New().String()

	t.Run("panic defaults to critical severity", func(t *testing.T) {
		var created *alert.Alert
		repo := &fakeRepo{
			createFn: func(ctx context.Context, a *alert.Alert) error {
				created = a
				return nil
			},
		}

		service := alert.NewService(nil, repo)
		resp, err := service.Create(ctx, orgID, alert.CreateAlertRequest{
			GuardID: guardID,
			Type:    alert.TypePanic,
			Message: "panic button pressed",
		})

		assert.NoError(t, err)
		assert.Equal(t, alert.SeverityCritical, resp.Severity)
		assert.Equal(t, alert.TypePanic, created.Type)
	})

	t.Run("unknown type rejected", func(t *testing.T) {
		service := alert.NewService(nil, &fakeRepo{})
		_, err := service.Create(ctx, orgID, alert.CreateAlertRequest{
			GuardID: guardID,
			Type:    "tsunami",
			Message: "??",
		})
		assert.Equal(t, alerterrors.ErrInvalidAlertType, err)
	})

	t.Run("explicit severity kept", func(t *testing.T) {
		repo := &fakeRepo{
			createFn: func(ctx context.Context, a *alert.Alert) error { return nil },
		}
		service := alert.NewService(nil, repo)
		resp, err := service.Create(ctx, orgID, alert.CreateAlertRequest{
			GuardID:  guardID,
			Type:     alert.TypeBatteryLow,
			Severity: alert.SeverityMedium,
			Message:  "battery at 10%",
		})
		assert.NoError(t, err)
		assert.Equal(t, alert.SeverityMedium, resp.Severity)
	})
}

func TestService_Resolve(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	alertID := uuid.New()
	userID := uuid.New().String()

	t.Run("marks resolved", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectCommit()

		var updated *alert.Alert
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, orgID, id string) (*alert.Alert, error) {
				return &alert.Alert{
					ID:             alertID,
					OrganizationID: uuid.MustParse(orgID),
					GuardID:        uuid.New(),
					Type:           alert.TypeGeofence,
					Severity:       alert.SeverityHigh,
				}, nil
			},
			updateFn: func(ctx context.Context, a *alert.Alert) error {
				updated = a
				return nil
			},
		}

		service := alert.NewService(db, repo)
		resp, err := service.Resolve(ctx, orgID, alertID.String(), userID)

		assert.NoError(t, err)
		assert.True(t, resp.IsResolved)
		assert.NotNil(t, updated.ResolvedAt)
		assert.Equal(t, userID, updated.ResolvedBy.String())
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("double resolve rejected", func(t *testing.T) {
		db, mock, err := sqlmock.New()
		assert.NoError(t, err)
		defer db.Close()
		mock.ExpectBegin()
		mock.ExpectRollback()

		resolvedAt := time.Now().UTC()
		repo := &fakeRepo{
			findByIDFn: func(ctx context.Context, orgID, id string) (*alert.Alert, error) {
				return &alert.Alert{
					ID:         alertID,
					IsResolved: true,
					ResolvedAt: &resolvedAt,
				}, nil
			},
		}

		service := alert.NewService(db, repo)
		_, err = service.Resolve(ctx, orgID, alertID.String(), userID)
		assert.Equal(t, alerterrors.ErrAlertAlreadyResolved, err)
	})
}

func TestService_RaiseGeofenceBreach(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	guardID := uuid.New().String()
	sessionID := uuid.New().String()

	var created *alert.Alert
	repo := &fakeRepo{
		createFn: func(ctx context.Context, a *alert.Alert) error {
			created = a
			return nil
		},
	}

	service := alert.NewService(nil, repo)
	err := service.RaiseGeofenceBreach(ctx, orgID, guardID, sessionID, 512, 200)

	assert.NoError(t, err)
	assert.Equal(t, alert.TypeGeofence, created.Type)
	assert.Equal(t, alert.SeverityHigh, created.Severity)
	assert.Equal(t, sessionID, created.SessionID.String())
	assert.Contains(t, created.Message, "512m")
	assert.Contains(t, created.Message, "200m")
}
