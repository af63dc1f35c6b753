// Package entity defines the domain entities for the identity feature.
package entity

import (
	"crypto/subtle"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"
	"unicode"
	"unicode/utf8"

	"identity_backend/internal/feature/identity/domain"
)

// Provenance keys and values stored in User.Meta.
const (
	MetaAuth     = "auth"
	MetaSource   = "src"
	AuthPassword = "password"
	AuthSMS      = "sms"
	SourceCSV    = "csv"
)

// User represents one identity. Fields are only set by the construction
// pipeline in CredentialEngine.Build or restored from storage via FromState;
// afterwards the credential changes only through ChangePassword and access
// code issuance.
type User struct {
	id           string
	firstName    string
	lastName     string
	email        string
	login        string
	phone        string
	salt         string
	passwordHash string
	accessCode   string
	meta         map[string]string
	createdAt    time.Time
	updatedAt    time.Time
}

// ID is the storage identity of the user (a UUID).
func (u *User) ID() string { return u.id }

// FirstName is the required given name.
func (u *User) FirstName() string { return u.firstName }

// LastName is the optional family name. It is empty when absent.
func (u *User) LastName() string { return u.lastName }

// Email is the trimmed, lower-cased email address, or empty.
func (u *User) Email() string { return u.email }

// Login is the unique lookup key: the email if present, otherwise the phone.
// It never changes after construction.
func (u *User) Login() string { return u.login }

// Phone is the phone number reduced to '+' and digits, or empty.
func (u *User) Phone() string { return u.phone }

// Salt is the hex-encoded salt. It is generated once and never changes.
func (u *User) Salt() string { return u.salt }

// PasswordHash is the digest of the salt and the current credential.
// This never holds a plaintext password.
func (u *User) PasswordHash() string { return u.passwordHash }

// CreatedAt is the timestamp when the user was constructed.
func (u *User) CreatedAt() time.Time { return u.createdAt }

// UpdatedAt is the timestamp of the last credential change.
func (u *User) UpdatedAt() time.Time { return u.updatedAt }

// AccessCode returns the last issued one-time code. It exists for tests and
// local debugging; production callers receive codes through a Courier.
func (u *User) AccessCode() string { return u.accessCode }

// Meta returns a copy of the provenance tags.
func (u *User) Meta() map[string]string { return maps.Clone(u.meta) }

// FullName joins the name parts and upper-cases the first letter.
func (u *User) FullName() string {
	full := strings.Join(u.nameParts(), " ")
	r, size := utf8.DecodeRuneInString(full)
	if size == 0 {
		return full
	}
	return string(unicode.ToUpper(r)) + full[size:]
}

// Initials returns the upper-cased first letter of each name part.
func (u *User) Initials() string {
	parts := u.nameParts()
	initials := make([]string, 0, len(parts))
	for _, p := range parts {
		r, _ := utf8.DecodeRuneInString(p)
		initials = append(initials, string(unicode.ToUpper(r)))
	}
	return strings.Join(initials, " ")
}

func (u *User) nameParts() []string {
	if u.lastName == "" {
		return []string{u.firstName}
	}
	return []string{u.firstName, u.lastName}
}

// Profile renders the multi-line summary returned on successful login.
func (u *User) Profile() string {
	var b strings.Builder
	fmt.Fprintf(&b, "firstName: %s\n", u.firstName)
	fmt.Fprintf(&b, "lastName: %s\n", u.lastName)
	fmt.Fprintf(&b, "login: %s\n", u.login)
	fmt.Fprintf(&b, "fullName: %s\n", u.FullName())
	fmt.Fprintf(&b, "initials: %s\n", u.Initials())
	fmt.Fprintf(&b, "email: %s\n", u.email)
	fmt.Fprintf(&b, "phone: %s\n", u.phone)
	fmt.Fprintf(&b, "meta: %s", u.metaString())
	return b.String()
}

func (u *User) metaString() string {
	pairs := make([]string, 0, len(u.meta))
	for _, k := range slices.Sorted(maps.Keys(u.meta)) {
		pairs = append(pairs, k+"="+u.meta[k])
	}
	return strings.Join(pairs, ", ")
}

// CheckPassword reports whether candidate hashes to the stored credential.
func (u *User) CheckPassword(candidate string) bool {
	if u.passwordHash == "" {
		return false
	}
	computed := Hash(u.salt, candidate)
	return subtle.ConstantTimeCompare([]byte(computed), []byte(u.passwordHash)) == 1
}

// ChangePassword replaces the credential if oldPassword matches and stamps
// updatedAt with now. On mismatch the user is left untouched.
func (u *User) ChangePassword(oldPassword, newPassword string, now time.Time) error {
	if !u.CheckPassword(oldPassword) {
		return domain.ErrCredentialMismatch
	}
	if newPassword == "" {
		return domain.Validationf("new password must not be blank")
	}
	u.setCredential(newPassword, now)
	return nil
}

func (u *User) setCredential(secret string, now time.Time) {
	u.passwordHash = Hash(u.salt, secret)
	u.updatedAt = now
}

// Clone returns an independent copy of the user.
func (u *User) Clone() *User {
	c := *u
	c.meta = maps.Clone(u.meta)
	return &c
}

// State is the flat, persistable form of a User.
type State struct {
	ID           string            `json:"id"`
	FirstName    string            `json:"first_name"`
	LastName     string            `json:"last_name,omitempty"`
	Email        string            `json:"email,omitempty"`
	Login        string            `json:"login"`
	Phone        string            `json:"phone,omitempty"`
	Salt         string            `json:"salt"`
	PasswordHash string            `json:"password_hash"`
	AccessCode   string            `json:"access_code,omitempty"`
	Meta         map[string]string `json:"meta,omitempty"`
	CreatedAt    time.Time         `json:"created_at"`
	UpdatedAt    time.Time         `json:"updated_at"`
}

// State exports the user for storage adapters.
func (u *User) State() State {
	return State{
		ID:           u.id,
		FirstName:    u.firstName,
		LastName:     u.lastName,
		Email:        u.email,
		Login:        u.login,
		Phone:        u.phone,
		Salt:         u.salt,
		PasswordHash: u.passwordHash,
		AccessCode:   u.accessCode,
		Meta:         maps.Clone(u.meta),
		CreatedAt:    u.createdAt,
		UpdatedAt:    u.updatedAt,
	}
}

// FromState rebuilds a user previously exported with State. Stored data is
// trusted and not re-validated.
func FromState(s State) *User {
	return &User{
		id:           s.ID,
		firstName:    s.FirstName,
		lastName:     s.LastName,
		email:        s.Email,
		login:        s.Login,
		phone:        s.Phone,
		salt:         s.Salt,
		passwordHash: s.PasswordHash,
		accessCode:   s.AccessCode,
		meta:         maps.Clone(s.Meta),
		createdAt:    s.CreatedAt,
		updatedAt:    s.UpdatedAt,
	}
}
