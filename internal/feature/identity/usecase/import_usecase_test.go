package usecase

import (
	"context"
	"errors"
	"strings"
	"testing"
	"testing/iotest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_backend/internal/feature/identity/domain"
	"identity_backend/internal/feature/identity/domain/entity"
)

func TestRegistry_Import(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	courier := &recordingCourier{}
	r := newTestRegistry(newMapRepository(), courier)

	salt := "0011"
	hash := entity.Hash(salt, "secret")
	u, err := r.Import(ctx, "John Doe;John@Doe.com;"+salt+":"+hash+";")
	require.NoError(t, err)
	assert.Equal(t, "john@doe.com", u.Login())
	assert.Equal(t, map[string]string{entity.MetaSource: entity.SourceCSV}, u.Meta())

	_, err = r.Login(ctx, "john@doe.com", "secret")
	assert.NoError(t, err)

	phoneUser, err := r.Import(ctx, "Ann;;;+7 (917) 971-11-11")
	require.NoError(t, err)
	assert.Equal(t, phoneUser.AccessCode(), courier.last("+79179711111"))

	_, err = r.Import(ctx, "Jane;john@doe.com;"+salt+":"+hash+";")
	assert.ErrorIs(t, err, domain.ErrConflict)
}

func TestRegistry_Import_PhoneWithCredential(t *testing.T) {
	t.Parallel()

	ctx := context.Background()
	courier := &recordingCourier{}
	r := newTestRegistry(newMapRepository(), courier)

	salt := "00ff"
	hash := entity.Hash(salt, "secret")
	u, err := r.Import(ctx, "Ann Smith;;"+salt+":"+hash+";+7 (917) 971-11-11")
	require.NoError(t, err)

	assert.Equal(t, salt, u.Salt())
	require.NotEmpty(t, u.AccessCode())
	assert.Equal(t, u.AccessCode(), courier.last("+79179711111"))

	_, err = r.Login(ctx, "+79179711111", u.AccessCode())
	assert.NoError(t, err)
	_, err = r.Login(ctx, "+79179711111", "secret")
	assert.ErrorIs(t, err, domain.ErrNotAuthenticated)
}

func TestRegistry_ImportAll(t *testing.T) {
	t.Parallel()

	hash := entity.Hash("s", "pw")
	src := strings.Join([]string{
		"# exported users",
		"John Doe;john@doe.com;s:" + hash + ";",
		"",
		"Ann;;;+79179711111",
		"broken record",
		"Jane;john@doe.com;s:" + hash + ";",
	}, "\n")

	r := newTestRegistry(newMapRepository(), nil)
	report, err := r.ImportAll(context.Background(), strings.NewReader(src))
	require.NoError(t, err)
	assert.Equal(t, ImportReport{Imported: 2, Failed: 2}, report)
}

func TestRegistry_ImportAll_Errors(t *testing.T) {
	t.Parallel()

	t.Run("read failure", func(t *testing.T) {
		t.Parallel()
		r := newTestRegistry(newMapRepository(), nil)
		_, err := r.ImportAll(context.Background(), iotest.ErrReader(errors.New("boom")))
		require.Error(t, err)
		assert.Contains(t, err.Error(), "boom")
	})

	t.Run("canceled context", func(t *testing.T) {
		t.Parallel()
		ctx, cancel := context.WithCancel(context.Background())
		cancel()
		r := newTestRegistry(newMapRepository(), nil)
		report, err := r.ImportAll(ctx, strings.NewReader("Ann;;;+79179711111\n"))
		assert.ErrorIs(t, err, context.Canceled)
		assert.Zero(t, report.Imported)
	})
}
