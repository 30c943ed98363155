package service

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
	"golang.org/x/crypto/bcrypt"

	"testcase-generator/internal/repository"
	"testcase-generator/internal/repository/sqlite"
)

type testRepos struct {
	users repository.UserRepository
	cases repository.TestCaseRepository
}

func newTestRepos(t *testing.T) testRepos {
	t.Helper()
	db, err := sqlite.Open(filepath.Join(t.TempDir(), "service.db"))
	require.NoError(t, err)
	t.Cleanup(func() { db.Close() })

	ctx := context.Background()
	repos := testRepos{
		users: sqlite.NewUserRepository(db),
		cases: sqlite.NewTestCaseRepository(db),
	}
	require.NoError(t, repos.users.Init(ctx))
	require.NoError(t, repos.cases.Init(ctx))
	return repos
}

func newFastUserService(users repository.UserRepository) *userService {
	return &userService{users: users, cost: bcrypt.MinCost}
}
