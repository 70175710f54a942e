package tracking_test

import (
	"context"
	"testing"
	"time"

	"fieldwatch/internal/tracking"
	trackingerrors "fieldwatch/internal/tracking/errors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn  func(ctx context.Context, log *tracking.LocationLog) error
	latestFn  func(ctx context.Context, orgID, guardID string) (*tracking.LocationLog, error)
	liveFn    func(ctx context.Context, orgID string, since time.Time) ([]tracking.LocationLog, error)
	trackByFn func(ctx context.Context, orgID, guardID string, since time.Time) ([]tracking.LocationLog, error)
}

func (f *fakeRepo) Create(ctx context.Context, log *tracking.LocationLog) error {
	return f.createFn(ctx, log)
}
func (f *fakeRepo) LatestByGuard(ctx context.Context, orgID, guardID string) (*tracking.LocationLog, error) {
	return f.latestFn(ctx, orgID, guardID)
}
func (f *fakeRepo) LiveByOrg(ctx context.Context, orgID string, since time.Time) ([]tracking.LocationLog, error) {
	return f.liveFn(ctx, orgID, since)
}
func (f *fakeRepo) TrackByGuard(ctx context.Context, orgID, guardID string, since time.Time) ([]tracking.LocationLog, error) {
	return f.trackByFn(ctx, orgID, guardID, since)
}

func TestService_Ingest(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	guardID := uuid.New().String()

	t.Run("records sample", func(t *testing.T) {
		var saved *tracking.LocationLog
		repo := &fakeRepo{
			createFn: func(ctx context.Context, log *tracking.LocationLog) error {
				saved = log
				return nil
			},
		}
		service := tracking.NewService(repo)

		resp, err := service.Ingest(ctx, orgID, guardID, tracking.IngestLocationRequest{
			Latitude:  12.9716,
			Longitude: 77.5946,
		})

		assert.NoError(t, err)
		assert.Equal(t, guardID, resp.GuardID)
		assert.Equal(t, 12.9716, saved.Latitude)
		assert.WithinDuration(t, time.Now().UTC(), saved.RecordedAt, 2*time.Second)
	})

	t.Run("client timestamp honored when in the past", func(t *testing.T) {
		var saved *tracking.LocationLog
		repo := &fakeRepo{
			createFn: func(ctx context.Context, log *tracking.LocationLog) error {
				saved = log
				return nil
			},
		}
		service := tracking.NewService(repo)

		recorded := time.Now().UTC().Add(-5 * time.Minute).Truncate(time.Second)
		_, err := service.Ingest(ctx, orgID, guardID, tracking.IngestLocationRequest{
			Latitude:   12.9716,
			Longitude:  77.5946,
			RecordedAt: recorded.Format(time.RFC3339),
		})

		assert.NoError(t, err)
		assert.Equal(t, recorded, saved.RecordedAt)
	})

	t.Run("future client timestamp ignored", func(t *testing.T) {
		var saved *tracking.LocationLog
		repo := &fakeRepo{
			createFn: func(ctx context.Context, log *tracking.LocationLog) error {
				saved = log
				return nil
			},
		}
		service := tracking.NewService(repo)

		_, err := service.Ingest(ctx, orgID, guardID, tracking.IngestLocationRequest{
			Latitude:   12.9716,
			Longitude:  77.5946,
			RecordedAt: time.Now().UTC().Add(1 * time.Hour).Format(time.RFC3339),
		})

		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC(), saved.RecordedAt, 2*time.Second)
	})

	t.Run("rejects invalid coordinates", func(t *testing.T) {
		service := tracking.NewService(&fakeRepo{})
		_, err := service.Ingest(ctx, orgID, guardID, tracking.IngestLocationRequest{
			Latitude:  12.9716,
			Longitude: 181.0,
		})
		assert.Equal(t, trackingerrors.ErrInvalidCoordinates, err)
	})

	t.Run("rejects missing guard", func(t *testing.T) {
		service := tracking.NewService(&fakeRepo{})
		_, err := service.Ingest(ctx, orgID, "", tracking.IngestLocationRequest{
			Latitude:  12.9716,
			Longitude: 77.5946,
		})
		assert.Equal(t, trackingerrors.ErrGuardNotResolved, err)
	})
}

func TestService_Latest(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	guardID := uuid.New().String()

	t.Run("no samples maps to not found", func(t *testing.T) {
		repo := &fakeRepo{
			latestFn: func(ctx context.Context, orgID, guardID string) (*tracking.LocationLog, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := tracking.NewService(repo)

		_, err := service.Latest(ctx, orgID, guardID)
		assert.Equal(t, trackingerrors.ErrLocationNotFound, err)
	})
}

func TestService_Track(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.New().String()
	guardID := uuid.New().String()

	t.Run("clamps absurd hours to default", func(t *testing.T) {
		var gotSince time.Time
		repo := &fakeRepo{
			trackByFn: func(ctx context.Context, orgID, guardID string, since time.Time) ([]tracking.LocationLog, error) {
				gotSince = since
				return nil, nil
			},
		}
		service := tracking.NewService(repo)

		_, err := service.Track(ctx, orgID, guardID, 9000)
		assert.NoError(t, err)
		assert.WithinDuration(t, time.Now().UTC().Add(-8*time.Hour), gotSince, 2*time.Second)
	})
}
