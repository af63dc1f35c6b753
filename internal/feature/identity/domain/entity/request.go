package entity

import (
	"fmt"
	"strings"

	"identity_backend/internal/feature/identity/domain"
)

// Method selects a construction path.
type Method int

const (
	ViaEmail   Method = iota + 1 // email and password
	ViaPhone                     // phone, authenticated by access codes
	ViaRestore                   // bulk import record
)

func (m Method) String() string {
	switch m {
	case ViaEmail:
		return "email"
	case ViaPhone:
		return "phone"
	case ViaRestore:
		return "restore"
	default:
		return fmt.Sprintf("Method(%d)", int(m))
	}
}

// Request carries the inputs of every construction path. Fields that a
// method does not use are ignored.
type Request struct {
	Method    Method
	FirstName string
	LastName  string
	Email     string
	Password  string
	Phone     string

	// Salt and PasswordHash are only read by ViaRestore.
	Salt         string
	PasswordHash string
}

// Build validates req and constructs a new user from it. It is the only way
// to create a User outside of storage restoration.
func (e *CredentialEngine) Build(req Request) (*User, error) {
	firstName := strings.TrimSpace(req.FirstName)
	if firstName == "" {
		return nil, domain.Validationf("first name must not be blank")
	}

	now := e.now()
	u := &User{
		id:        e.newID(),
		firstName: firstName,
		lastName:  strings.TrimSpace(req.LastName),
		meta:      map[string]string{},
		createdAt: now,
		updatedAt: now,
	}

	var err error
	switch req.Method {
	case ViaEmail:
		err = e.buildWithEmail(u, req)
	case ViaPhone:
		err = e.buildWithPhone(u, req)
	case ViaRestore:
		err = e.restore(u, req)
	default:
		err = domain.Validationf("unknown construction method %s", req.Method)
	}
	if err != nil {
		return nil, err
	}
	return u, nil
}

func (e *CredentialEngine) buildWithEmail(u *User, req Request) error {
	email := NormalizeEmail(req.Email)
	if email == "" {
		return domain.Validationf("email must not be blank")
	}
	if req.Password == "" {
		return domain.Validationf("password must not be blank")
	}
	salt, err := e.newSalt()
	if err != nil {
		return err
	}
	u.email = email
	u.login = email
	u.salt = salt
	u.meta[MetaAuth] = AuthPassword
	u.setCredential(req.Password, u.createdAt)
	return nil
}

func (e *CredentialEngine) buildWithPhone(u *User, req Request) error {
	if strings.TrimSpace(req.Phone) == "" {
		return domain.Validationf("phone must not be blank")
	}
	phone := NormalizePhone(req.Phone)
	if err := ValidatePhone(phone); err != nil {
		return err
	}
	salt, err := e.newSalt()
	if err != nil {
		return err
	}
	u.phone = phone
	u.login = phone
	u.salt = salt
	u.meta[MetaAuth] = AuthSMS
	_, err = e.IssueAccessCode(u)
	return err
}

// restore adopts an imported salt and hash as is. When the record carries a
// phone, a fresh access code is issued over whatever hash was imported.
func (e *CredentialEngine) restore(u *User, req Request) error {
	email := NormalizeEmail(req.Email)
	phone := NormalizePhone(req.Phone)
	if email == "" && phone == "" {
		return domain.Validationf("email or phone must not be blank")
	}
	hasCredential := req.Salt != "" && req.PasswordHash != ""
	if !hasCredential && phone == "" {
		return domain.Validationf("record must carry a salt:hash pair or a phone")
	}

	u.email = email
	u.phone = phone
	u.login = email
	if u.login == "" {
		u.login = phone
	}
	u.meta[MetaSource] = SourceCSV

	u.salt = req.Salt
	if u.salt == "" {
		salt, err := e.newSalt()
		if err != nil {
			return err
		}
		u.salt = salt
	}
	if hasCredential {
		u.passwordHash = req.PasswordHash
	}
	if phone == "" {
		return nil
	}
	_, err := e.IssueAccessCode(u)
	return err
}
