package services

import (
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestCleanupService(t *testing.T) (*SessionCleanupService, sqlmock.Sqlmock) {
	db, mock := newMockDB(t)
	return &SessionCleanupService{
		db:          db,
		idleTimeout: time.Hour,
		spec:        "@every 10m",
	}, mock
}

func TestSweepInvalidatesStaleSessions(t *testing.T) {
	svc, mock := newTestCleanupService(t)

	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 3))

	affected, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(3), affected)
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSweepNoStaleSessions(t *testing.T) {
	svc, mock := newTestCleanupService(t)

	mock.ExpectExec(`UPDATE "sessions" SET`).
		WillReturnResult(sqlmock.NewResult(0, 0))

	affected, err := svc.Sweep()
	require.NoError(t, err)
	assert.Equal(t, int64(0), affected)
}
