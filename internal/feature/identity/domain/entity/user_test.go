package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"identity_backend/internal/feature/identity/domain"
)

func TestParseFullName(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name      string
		input     string
		wantFirst string
		wantLast  string
		wantErr   bool
	}{
		{name: "first and last", input: "John Doe", wantFirst: "John", wantLast: "Doe"},
		{name: "first only", input: "John", wantFirst: "John"},
		{name: "extra whitespace", input: "  John \t Doe ", wantFirst: "John", wantLast: "Doe"},
		{name: "three parts", input: "John Ronald Doe", wantErr: true},
		{name: "blank", input: "   ", wantErr: true},
		{name: "empty", input: "", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			first, last, err := ParseFullName(tt.input)
			if tt.wantErr {
				assert.ErrorIs(t, err, domain.ErrValidation)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantFirst, first)
			assert.Equal(t, tt.wantLast, last)
		})
	}
}

func TestNormalizePhone(t *testing.T) {
	t.Parallel()

	assert.Equal(t, "+79179711111", NormalizePhone("+7 (917) 971-11-11"))
	assert.Equal(t, "+7", NormalizePhone("+7 (XXX)"))
	assert.Equal(t, "", NormalizePhone("abc"))
	assert.NoError(t, ValidatePhone("+79179711111"))
	assert.ErrorIs(t, ValidatePhone("79179711111"), domain.ErrValidation)
}

func TestUser_NameDerivations(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name         string
		first, last  string
		wantFull     string
		wantInitials string
	}{
		{name: "two parts", first: "john", last: "doe", wantFull: "John doe", wantInitials: "J D"},
		{name: "one part", first: "ann", wantFull: "Ann", wantInitials: "A"},
		{name: "non ascii", first: "ölga", last: "ivanova", wantFull: "Ölga ivanova", wantInitials: "Ö I"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()
			u := FromState(State{FirstName: tt.first, LastName: tt.last})
			assert.Equal(t, tt.wantFull, u.FullName())
			assert.Equal(t, tt.wantInitials, u.Initials())
		})
	}
}

func TestUser_Profile(t *testing.T) {
	t.Parallel()

	e := newTestEngine(nil)
	u, err := e.Build(Request{Method: ViaEmail, FirstName: "Ann", LastName: "Smith", Email: "A@B.com", Password: "pw"})
	require.NoError(t, err)

	want := "firstName: Ann\n" +
		"lastName: Smith\n" +
		"login: a@b.com\n" +
		"fullName: Ann Smith\n" +
		"initials: A S\n" +
		"email: a@b.com\n" +
		"phone: \n" +
		"meta: auth=password"
	assert.Equal(t, want, u.Profile())
}

func TestUser_ChangePassword(t *testing.T) {
	t.Parallel()

	later := fixedNow.Add(time.Hour)
	newUser := func(t *testing.T) *User {
		t.Helper()
		u, err := newTestEngine(nil).Build(Request{Method: ViaEmail, FirstName: "Ann", Email: "a@b.com", Password: "old"})
		require.NoError(t, err)
		return u
	}

	t.Run("success", func(t *testing.T) {
		t.Parallel()
		u := newUser(t)
		salt := u.Salt()
		require.NoError(t, u.ChangePassword("old", "new", later))
		assert.True(t, u.CheckPassword("new"))
		assert.False(t, u.CheckPassword("old"))
		assert.Equal(t, salt, u.Salt(), "salt must never change")
		assert.Equal(t, later, u.UpdatedAt())
		assert.Equal(t, fixedNow, u.CreatedAt())
	})

	t.Run("engine stamps its own clock", func(t *testing.T) {
		t.Parallel()
		e := newTestEngine(nil)
		u, err := e.Build(Request{Method: ViaEmail, FirstName: "Ann", Email: "a@b.com", Password: "old"})
		require.NoError(t, err)
		e.Now = func() time.Time { return later }
		require.NoError(t, e.ChangePassword(u, "old", "new"))
		assert.Equal(t, later, u.UpdatedAt())
		assert.True(t, u.CheckPassword("new"))
	})

	t.Run("wrong old password leaves state unchanged", func(t *testing.T) {
		t.Parallel()
		u := newUser(t)
		before := u.State()
		err := u.ChangePassword("wrong", "new", later)
		assert.ErrorIs(t, err, domain.ErrCredentialMismatch)
		assert.Equal(t, before, u.State())
		assert.True(t, u.CheckPassword("old"))
	})

	t.Run("blank new password", func(t *testing.T) {
		t.Parallel()
		u := newUser(t)
		err := u.ChangePassword("old", "", later)
		assert.ErrorIs(t, err, domain.ErrValidation)
		assert.True(t, u.CheckPassword("old"))
	})
}

func TestUser_CheckPassword_NoCredential(t *testing.T) {
	t.Parallel()

	u := FromState(State{FirstName: "Ann", Salt: "s"})
	assert.False(t, u.CheckPassword(""))
	assert.False(t, u.CheckPassword("anything"))
}

func TestUser_StateRoundTripAndClone(t *testing.T) {
	t.Parallel()

	u, err := newTestEngine(nil).Build(Request{Method: ViaPhone, FirstName: "Ann", Phone: "+79179711111"})
	require.NoError(t, err)

	restored := FromState(u.State())
	assert.Equal(t, u.State(), restored.State())

	c := u.Clone()
	c.meta["extra"] = "x"
	assert.NotContains(t, u.Meta(), "extra")

	m := u.Meta()
	m[MetaAuth] = "changed"
	assert.Equal(t, AuthSMS, u.Meta()[MetaAuth])
}
