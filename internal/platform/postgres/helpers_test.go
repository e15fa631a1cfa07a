package postgres_test

import (
	"database/sql"
	"io"
	"log/slog"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/require"
)

// newMock returns a sqlmock database and a discarding logger.
// Expectations are verified on cleanup.
func newMock(t *testing.T) (*sql.DB, sqlmock.Sqlmock, *slog.Logger) {
	t.Helper()

	db, mock, err := sqlmock.New()
	require.NoError(t, err)

	t.Cleanup(func() {
		require.NoError(t, mock.ExpectationsWereMet())
		_ = db.Close()
	})

	return db, mock, slog.New(slog.NewTextHandler(io.Discard, nil))
}
