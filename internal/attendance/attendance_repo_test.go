package attendance_test

import (
	"context"
	"testing"
	"time"

	"fieldwatch/internal/attendance"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
)

// CloseSession inside a transaction must execute on that transaction's
// connection, not on the shared pool, or the reconcile store's paired
// outbox insert could commit without the close (or vice versa).
func TestRepository_CloseSessionHonorsTx(t *testing.T) {
	poolDB, poolMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer poolDB.Close()

	gdb, err := gorm.Open(postgres.New(postgres.Config{Conn: poolDB}), &gorm.Config{})
	assert.NoError(t, err)

	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	sessionID := uuid.NewString()
	at := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	txMock.ExpectBegin()
	txMock.ExpectExec("UPDATE attendance_sessions").
		WithArgs(at, attendance.MethodAutoShiftEnd, nil, nil, sqlmock.AnyArg(), sessionID).
		WillReturnResult(sqlmock.NewResult(0, 1))
	txMock.ExpectCommit()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := attendance.NewRepository(gdb).WithTx(tx)
	affected, err := repo.CloseSession(context.Background(), sessionID, at, attendance.MethodAutoShiftEnd, nil, nil)

	assert.NoError(t, err)
	assert.EqualValues(t, 1, affected)
	assert.NoError(t, tx.Commit())

	assert.NoError(t, txMock.ExpectationsWereMet())
	// The gorm pool must never see the update.
	assert.NoError(t, poolMock.ExpectationsWereMet())
}

func TestRepository_CloseSessionTxReportsLostRace(t *testing.T) {
	txDB, txMock, err := sqlmock.New()
	assert.NoError(t, err)
	defer txDB.Close()

	sessionID := uuid.NewString()
	at := time.Date(2026, 3, 10, 17, 0, 0, 0, time.UTC)

	txMock.ExpectBegin()
	txMock.ExpectExec("UPDATE attendance_sessions").
		WithArgs(at, attendance.MethodManual, nil, nil, sqlmock.AnyArg(), sessionID).
		WillReturnResult(sqlmock.NewResult(0, 0))
	txMock.ExpectRollback()

	tx, err := txDB.Begin()
	assert.NoError(t, err)

	repo := attendance.NewRepository(nil).WithTx(tx)
	affected, err := repo.CloseSession(context.Background(), sessionID, at, attendance.MethodManual, nil, nil)

	assert.NoError(t, err)
	assert.EqualValues(t, 0, affected)
	assert.NoError(t, tx.Rollback())
	assert.NoError(t, txMock.ExpectationsWereMet())
}
