package data

import (
	"context"
	"io"
	"log/slog"
	"path/filepath"
	"testing"

	"mada_server_go/models"

	"github.com/jmoiron/sqlx"
	"github.com/stretchr/testify/require"
)

func testLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

func openTestDB(t *testing.T) *sqlx.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "test.db"), testLogger())
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })
	return db
}

func createTestUser(t *testing.T, db *sqlx.DB, authID, email string) *models.User {
	t.Helper()
	user := &models.User{
		AuthID:       authID,
		Nickname:     authID,
		Email:        email,
		PasswordHash: "hash",
		Provider:     "local",
		Role:         models.RoleUser,
	}
	require.NoError(t, NewUsers(db).Create(context.Background(), user))
	return user
}

func mustDate(t *testing.T, s string) models.Date {
	t.Helper()
	d, err := models.ParseDate(s)
	require.NoError(t, err)
	return d
}
