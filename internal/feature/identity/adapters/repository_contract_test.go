package adapters

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

var testTime = time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)

func testEngine() *entity.CredentialEngine {
	e := entity.NewCredentialEngine(nil)
	e.Now = func() time.Time { return testTime }
	return e
}

func buildEmailUser(t *testing.T, email, password string) *entity.User {
	t.Helper()
	u, err := testEngine().Build(entity.Request{
		Method:    entity.ViaEmail,
		FirstName: "John",
		LastName:  "Doe",
		Email:     email,
		Password:  password,
	})
	require.NoError(t, err)
	return u
}

func buildPhoneUser(t *testing.T, phone string) *entity.User {
	t.Helper()
	u, err := testEngine().Build(entity.Request{Method: entity.ViaPhone, FirstName: "Ann", Phone: phone})
	require.NoError(t, err)
	return u
}

// testUserRepository runs the behaviour every UserRepository must share.
func testUserRepository(t *testing.T, newRepo func(t *testing.T) usecase.UserRepository) {
	t.Helper()
	ctx := context.Background()

	t.Run("create then find", func(t *testing.T) {
		repo := newRepo(t)
		u := buildEmailUser(t, "john@doe.com", "pw")
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.FindByLogin(ctx, "john@doe.com")
		require.NoError(t, err)
		assert.Equal(t, u.State(), got.State())
		assert.True(t, got.CheckPassword("pw"))
	})

	t.Run("phone user round trip", func(t *testing.T) {
		repo := newRepo(t)
		u := buildPhoneUser(t, "+79179711111")
		require.NoError(t, repo.Create(ctx, u))

		got, err := repo.FindByLogin(ctx, "+79179711111")
		require.NoError(t, err)
		assert.Equal(t, u.State(), got.State())
		assert.True(t, got.CheckPassword(u.AccessCode()))
	})

	t.Run("duplicate login", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, buildEmailUser(t, "john@doe.com", "one")))

		err := repo.Create(ctx, buildEmailUser(t, "john@doe.com", "two"))
		assert.ErrorIs(t, err, usecase.ErrLoginAlreadyExists)

		got, err := repo.FindByLogin(ctx, "john@doe.com")
		require.NoError(t, err)
		assert.True(t, got.CheckPassword("one"))
	})

	t.Run("not found", func(t *testing.T) {
		repo := newRepo(t)
		_, err := repo.FindByLogin(ctx, "ghost@doe.com")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	t.Run("update", func(t *testing.T) {
		repo := newRepo(t)
		u := buildEmailUser(t, "john@doe.com", "old")
		require.NoError(t, repo.Create(ctx, u))

		require.NoError(t, u.ChangePassword("old", "new", time.Now().UTC()))
		require.NoError(t, repo.Update(ctx, u))

		got, err := repo.FindByLogin(ctx, "john@doe.com")
		require.NoError(t, err)
		assert.True(t, got.CheckPassword("new"))
		assert.False(t, got.CheckPassword("old"))
		assert.Equal(t, u.Salt(), got.Salt())
	})

	t.Run("update unknown", func(t *testing.T) {
		repo := newRepo(t)
		err := repo.Update(ctx, buildEmailUser(t, "ghost@doe.com", "pw"))
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
	})

	t.Run("stored user is isolated from caller", func(t *testing.T) {
		repo := newRepo(t)
		u := buildEmailUser(t, "john@doe.com", "old")
		require.NoError(t, repo.Create(ctx, u))
		require.NoError(t, u.ChangePassword("old", "new", time.Now().UTC()))

		got, err := repo.FindByLogin(ctx, "john@doe.com")
		require.NoError(t, err)
		assert.True(t, got.CheckPassword("old"), "mutation without Update must not leak into the store")
	})

	t.Run("delete all", func(t *testing.T) {
		repo := newRepo(t)
		require.NoError(t, repo.Create(ctx, buildEmailUser(t, "a@doe.com", "pw")))
		require.NoError(t, repo.Create(ctx, buildPhoneUser(t, "+79179711111")))

		require.NoError(t, repo.DeleteAll(ctx))
		_, err := repo.FindByLogin(ctx, "a@doe.com")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)
		_, err = repo.FindByLogin(ctx, "+79179711111")
		assert.ErrorIs(t, err, usecase.ErrUserNotFound)

		assert.NoError(t, repo.Create(ctx, buildEmailUser(t, "a@doe.com", "pw")))
	})
}
