package adapters

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_backend/internal/feature/identity/usecase"
)

func openTestBolt(t *testing.T) *userBolt {
	t.Helper()

	repo, err := OpenUserBolt(filepath.Join(t.TempDir(), "users.db"))
	require.NoError(t, err, "failed to open bolt file")
	t.Cleanup(func() { _ = repo.Close() })
	return repo
}

func TestUserBolt(t *testing.T) {
	t.Parallel()

	testUserRepository(t, func(t *testing.T) usecase.UserRepository {
		return openTestBolt(t)
	})
}

func TestUserBolt_PersistsAcrossReopen(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	path := filepath.Join(t.TempDir(), "users.db")

	repo, err := OpenUserBolt(path)
	require.NoError(t, err)
	u := buildEmailUser(t, "john@doe.com", "pw")
	require.NoError(t, repo.Create(ctx, u))
	require.NoError(t, repo.Close())

	reopened, err := OpenUserBolt(path)
	require.NoError(t, err)
	defer reopened.Close()

	got, err := reopened.FindByLogin(ctx, "john@doe.com")
	require.NoError(t, err)
	assert.Equal(t, u.State(), got.State())
	assert.NoError(t, reopened.Ping(ctx))
}

func TestOpenUserBolt_BadPath(t *testing.T) {
	t.Parallel()

	dir := t.TempDir()
	blocker := filepath.Join(dir, "file")
	require.NoError(t, os.WriteFile(blocker, []byte("x"), 0o600))

	_, err := OpenUserBolt(filepath.Join(blocker, "users.db"))
	assert.Error(t, err)
}
