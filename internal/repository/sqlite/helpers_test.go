package sqlite

import (
	"context"
	"database/sql"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"

	"testcase-generator/internal/domain"
)

func openTestDB(t *testing.T) *sql.DB {
	t.Helper()
	db, err := Open(filepath.Join(t.TempDir(), "nested", "test.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	require.NoError(t, NewUserRepository(db).Init(ctx))
	require.NoError(t, NewTestCaseRepository(db).Init(ctx))
	return db
}

func seedUser(t *testing.T, db *sql.DB, email string) *domain.User {
	t.Helper()
	user := &domain.User{
		ID:           uuid.NewString(),
		Username:     "user-" + email,
		Email:        email,
		PasswordHash: "hash",
	}
	require.NoError(t, NewUserRepository(db).Create(context.Background(), user))
	return user
}
