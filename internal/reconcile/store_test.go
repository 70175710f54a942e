package reconcile

import (
	"context"
	"database/sql/driver"
	"errors"
	"testing"
	"time"

	"fieldwatch/internal/attendance"
	"fieldwatch/internal/messaging/kafka"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"go.uber.org/zap"
)

func newCloseStore(t *testing.T) (*Store, sqlmock.Sqlmock) {
	t.Helper()
	db, mock, err := sqlmock.New()
	assert.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	store := NewStore(
		db,
		nil,
		attendance.NewRepository(nil),
		nil,
		kafka.NewOutboxRepository(db),
		zap.NewNop(),
	)
	return store, mock
}

func closureFixture() Closure {
	return Closure{
		Session: OpenSession{
			ID:             "3f3c2a10-0000-0000-0000-000000000001",
			OrganizationID: "3f3c2a10-0000-0000-0000-0000000000aa",
			GuardID:        "3f3c2a10-0000-0000-0000-0000000000bb",
			CheckinTime:    time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC),
			Timezone:       "UTC",
		},
		At:     time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC),
		Method: attendance.MethodAutoShiftEnd,
	}
}

func TestStore_CloseCommitsSessionAndOutboxTogether(t *testing.T) {
	store, mock := newCloseStore(t)
	c := closureFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE attendance_sessions").
		WithArgs(c.At, c.Method, nil, nil, sqlmock.AnyArg(), c.Session.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WithArgs(
			sqlmock.AnyArg(),          // id
			requestIDMatcher{},        // correlation id minted per closure
			"attendance_session",
			c.Session.ID,
			"attendance_auto_closed",
			"attendance.session.auto_closed.v1",
			sqlmock.AnyArg(), // payload
			kafka.OutboxStatusPending,
		).
		WillReturnResult(sqlmock.NewResult(1, 1))
	mock.ExpectCommit()

	result, err := store.Close(context.Background(), c)

	assert.NoError(t, err)
	assert.Equal(t, CloseOK, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestStore_CloseConflictSkipsOutbox(t *testing.T) {
	store, mock := newCloseStore(t)
	c := closureFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE attendance_sessions").
		WithArgs(c.At, c.Method, nil, nil, sqlmock.AnyArg(), c.Session.ID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	mock.ExpectRollback()

	result, err := store.Close(context.Background(), c)

	assert.NoError(t, err)
	assert.Equal(t, CloseConflict, result)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// A failed outbox insert must take the session close down with it.
// Otherwise the session ends up closed with no event queued and the
// consumer never raises the breach alert.
func TestStore_CloseRollsBackSessionWhenOutboxFails(t *testing.T) {
	store, mock := newCloseStore(t)
	c := closureFixture()

	mock.ExpectBegin()
	mock.ExpectExec("UPDATE attendance_sessions").
		WithArgs(c.At, c.Method, nil, nil, sqlmock.AnyArg(), c.Session.ID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectExec("INSERT INTO outbox_events").
		WillReturnError(errors.New("relation outbox_events does not exist"))
	mock.ExpectRollback()

	_, err := store.Close(context.Background(), c)

	assert.Error(t, err)
	assert.NoError(t, mock.ExpectationsWereMet())
}

// Matches any non-empty string argument.
type requestIDMatcher struct{}

func (requestIDMatcher) Match(v driver.Value) bool {
	s, ok := v.(string)
	return ok && s != ""
}
