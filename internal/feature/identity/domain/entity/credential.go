package entity

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"
	"io"
	"time"

	"github.com/google/uuid"
	"golang.org/x/crypto/blake2b"

	"identity_backend/internal/feature/identity/domain"
)

const (
	saltBytes = 16
	hashBytes = 16

	accessCodeAlphabet = "ABCDEFGHIJKLMNOPQRSTUVWXYZabcdefghijklmnopqrstuvwxyz0123456789"
	accessCodeLength   = 6

	// Bytes at or above this bound are discarded so that every alphabet
	// symbol is drawn with the same probability.
	accessCodeByteBound = 256 - 256%len(accessCodeAlphabet)
)

// Courier delivers an issued access code out of band.
type Courier interface {
	Deliver(ctx context.Context, destination, code string) error
}

// Hash digests salt followed by input with BLAKE2b and returns 32 lowercase
// hex characters.
func Hash(salt, input string) string {
	h, err := blake2b.New(hashBytes, nil)
	if err != nil {
		// only fails for invalid sizes or keys
		panic(fmt.Sprintf("blake2b: %v", err))
	}
	h.Write([]byte(salt))
	h.Write([]byte(input))
	return hex.EncodeToString(h.Sum(nil))
}

// CredentialEngine builds users and manages their credentials. Zero-valued
// fields fall back to crypto/rand, time.Now, uuid.NewString and no delivery.
type CredentialEngine struct {
	Rand    io.Reader
	Courier Courier
	Now     func() time.Time
	NewID   func() string
}

// NewCredentialEngine returns an engine that delivers codes through courier.
func NewCredentialEngine(courier Courier) *CredentialEngine {
	return &CredentialEngine{
		Rand:    rand.Reader,
		Courier: courier,
		Now:     func() time.Time { return time.Now().UTC() },
		NewID:   uuid.NewString,
	}
}

func (e *CredentialEngine) random() io.Reader {
	if e.Rand == nil {
		return rand.Reader
	}
	return e.Rand
}

func (e *CredentialEngine) now() time.Time {
	if e.Now == nil {
		return time.Now().UTC()
	}
	return e.Now()
}

func (e *CredentialEngine) newID() string {
	if e.NewID == nil {
		return uuid.NewString()
	}
	return e.NewID()
}

func (e *CredentialEngine) newSalt() (string, error) {
	b := make([]byte, saltBytes)
	if _, err := io.ReadFull(e.random(), b); err != nil {
		return "", fmt.Errorf("generate salt: %w", err)
	}
	return hex.EncodeToString(b), nil
}

func (e *CredentialEngine) newAccessCode() (string, error) {
	code := make([]byte, 0, accessCodeLength)
	buf := make([]byte, accessCodeLength*2)
	for len(code) < accessCodeLength {
		if _, err := io.ReadFull(e.random(), buf); err != nil {
			return "", fmt.Errorf("generate access code: %w", err)
		}
		for _, b := range buf {
			if int(b) >= accessCodeByteBound {
				continue
			}
			code = append(code, accessCodeAlphabet[int(b)%len(accessCodeAlphabet)])
			if len(code) == accessCodeLength {
				break
			}
		}
	}
	return string(code), nil
}

// IssueAccessCode generates a fresh one-time code and makes it the user's
// credential. Any previous code or password stops working.
func (e *CredentialEngine) IssueAccessCode(u *User) (string, error) {
	if u.phone == "" {
		return "", domain.Validationf("user %q has no phone to receive an access code", u.login)
	}
	code, err := e.newAccessCode()
	if err != nil {
		return "", err
	}
	u.accessCode = code
	u.setCredential(code, e.now())
	return code, nil
}

// Deliver hands a code to the courier. It is a no-op without a courier.
func (e *CredentialEngine) Deliver(ctx context.Context, u *User, code string) error {
	if e.Courier == nil {
		return nil
	}
	if err := e.Courier.Deliver(ctx, u.phone, code); err != nil {
		return fmt.Errorf("deliver access code to %s: %w", u.phone, err)
	}
	return nil
}

// ChangePassword changes the password of u using the engine's clock.
func (e *CredentialEngine) ChangePassword(u *User, oldPassword, newPassword string) error {
	return u.ChangePassword(oldPassword, newPassword, e.now())
}

// RenewAccessCode issues a new code and then delivers it. The hash is
// committed before delivery is attempted.
func (e *CredentialEngine) RenewAccessCode(ctx context.Context, u *User) error {
	code, err := e.IssueAccessCode(u)
	if err != nil {
		return err
	}
	return e.Deliver(ctx, u, code)
}
