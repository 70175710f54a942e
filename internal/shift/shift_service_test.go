package shift_test

import (
	"context"
	"database/sql"
	"testing"

	"fieldwatch/internal/shift"
	shifterrors "fieldwatch/internal/shift/errors"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

type fakeRepo struct {
	createFn  func(ctx context.Context, s *shift.Shift) error
	findByID  func(ctx context.Context, orgID, id string) (*shift.Shift, error)
	findAllFn func(ctx context.Context, orgID string) ([]shift.Shift, error)
	updateFn  func(ctx context.Context, s *shift.Shift) error
	deleteFn  func(ctx context.Context, orgID, id string) error
}

func (f *fakeRepo) WithTx(tx *sql.Tx) shift.Repository { return f }
func (f *fakeRepo) Create(ctx context.Context, s *shift.Shift) error {
	return f.createFn(ctx, s)
}
func (f *fakeRepo) FindAllByOrg(ctx context.Context, orgID string) ([]shift.Shift, error) {
	return f.findAllFn(ctx, orgID)
}
func (f *fakeRepo) FindByIDAndOrg(ctx context.Context, orgID, id string) (*shift.Shift, error) {
	return f.findByID(ctx, orgID, id)
}
func (f *fakeRepo) Update(ctx context.Context, s *shift.Shift) error {
	return f.updateFn(ctx, s)
}
func (f *fakeRepo) Delete(ctx context.Context, orgID, id string) error {
	return f.deleteFn(ctx, orgID, id)
}

func newTxDB(t *testing.T) (*sql.DB, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db, mock
}

func TestService_Create(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()

	t.Run("creates a day shift", func(t *testing.T) {
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		var saved *shift.Shift
		repo := &fakeRepo{
			createFn: func(ctx context.Context, s *shift.Shift) error {
				saved = s
				return nil
			},
		}
		service := shift.NewService(db, repo)

		resp, err := service.Create(ctx, orgID, shift.CreateShiftRequest{
			Name:      "Day",
			StartTime: "09:00",
			EndTime:   "17:00",
		})

		assert.NoError(t, err)
		assert.NotNil(t, saved)
		assert.Equal(t, "09:00", resp.StartTime)
		assert.False(t, resp.Overnight)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("flags an overnight shift", func(t *testing.T) {
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		repo := &fakeRepo{
			createFn: func(ctx context.Context, s *shift.Shift) error { return nil },
		}
		service := shift.NewService(db, repo)

		resp, err := service.Create(ctx, orgID, shift.CreateShiftRequest{
			Name:      "Night",
			StartTime: "22:00",
			EndTime:   "06:00",
		})

		assert.NoError(t, err)
		assert.True(t, resp.Overnight)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rejects malformed times", func(t *testing.T) {
		db, _ := newTxDB(t)
		service := shift.NewService(db, &fakeRepo{})

		_, err := service.Create(ctx, orgID, shift.CreateShiftRequest{
			Name:      "Broken",
			StartTime: "25:99",
			EndTime:   "17:00",
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidTimeOfDay)
	})

	t.Run("rejects a malformed org id", func(t *testing.T) {
		db, _ := newTxDB(t)
		service := shift.NewService(db, &fakeRepo{})

		_, err := service.Create(ctx, "not-a-uuid", shift.CreateShiftRequest{
			Name:      "Day",
			StartTime: "09:00",
			EndTime:   "17:00",
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidOrgID)
	})
}

func TestService_Update(t *testing.T) {
	ctx := context.Background()
	orgID := uuid.NewString()
	shiftID := uuid.New()

	existing := func() *shift.Shift {
		return &shift.Shift{
			ID:             shiftID,
			OrganizationID: uuid.MustParse(orgID),
			Name:           "Day",
			StartTime:      "09:00",
			EndTime:        "17:00",
		}
	}

	t.Run("partial update keeps untouched fields", func(t *testing.T) {
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectCommit()

		var saved *shift.Shift
		repo := &fakeRepo{
			findByID: func(ctx context.Context, orgID, id string) (*shift.Shift, error) {
				return existing(), nil
			},
			updateFn: func(ctx context.Context, s *shift.Shift) error {
				saved = s
				return nil
			},
		}
		service := shift.NewService(db, repo)

		resp, err := service.Update(ctx, orgID, shiftID.String(), shift.UpdateShiftRequest{
			EndTime: "18:00",
		})

		assert.NoError(t, err)
		assert.Equal(t, "09:00", saved.StartTime)
		assert.Equal(t, "18:00", saved.EndTime)
		assert.Equal(t, "Day", resp.Name)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("rolls back when the new time is malformed", func(t *testing.T) {
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeRepo{
			findByID: func(ctx context.Context, orgID, id string) (*shift.Shift, error) {
				return existing(), nil
			},
		}
		service := shift.NewService(db, repo)

		_, err := service.Update(ctx, orgID, shiftID.String(), shift.UpdateShiftRequest{
			EndTime: "99:00",
		})

		assert.ErrorIs(t, err, shifterrors.ErrInvalidTimeOfDay)
		assert.NoError(t, mock.ExpectationsWereMet())
	})

	t.Run("maps missing row to not found", func(t *testing.T) {
		db, mock := newTxDB(t)
		mock.ExpectBegin()
		mock.ExpectRollback()

		repo := &fakeRepo{
			findByID: func(ctx context.Context, orgID, id string) (*shift.Shift, error) {
				return nil, gorm.ErrRecordNotFound
			},
		}
		service := shift.NewService(db, repo)

		_, err := service.Update(ctx, orgID, shiftID.String(), shift.UpdateShiftRequest{Name: "X"})

		assert.ErrorIs(t, err, shifterrors.ErrShiftNotFound)
		assert.NoError(t, mock.ExpectationsWereMet())
	})
}

func TestService_Delete(t *testing.T) {
	db, _ := newTxDB(t)

	t.Run("rejects a malformed id", func(t *testing.T) {
		service := shift.NewService(db, &fakeRepo{})
		err := service.Delete(context.Background(), uuid.NewString(), "nope")
		assert.ErrorIs(t, err, shifterrors.ErrInvalidShiftID)
	})

	t.Run("delegates to the repository", func(t *testing.T) {
		called := false
		repo := &fakeRepo{
			deleteFn: func(ctx context.Context, orgID, id string) error {
				called = true
				return nil
			},
		}
		service := shift.NewService(db, repo)
		err := service.Delete(context.Background(), uuid.NewString(), uuid.NewString())
		assert.NoError(t, err)
		assert.True(t, called)
	})
}
