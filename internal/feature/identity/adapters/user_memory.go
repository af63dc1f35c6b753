package adapters

import (
	"context"
	"sync"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

// userMemory is an in-process UserRepository keyed by login.
// It stores copies so callers cannot mutate stored state.
type userMemory struct {
	mu    sync.RWMutex
	users map[string]*entity.User
}

var _ usecase.UserRepository = (*userMemory)(nil)

// NewUserMemory returns an empty in-memory repository.
func NewUserMemory() *userMemory {
	return &userMemory{users: make(map[string]*entity.User)}
}

func (r *userMemory) Create(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.users[u.Login()]; exists {
		return usecase.ErrLoginAlreadyExists
	}
	r.users[u.Login()] = u.Clone()
	return nil
}

func (r *userMemory) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[login]
	if !ok {
		return nil, usecase.ErrUserNotFound
	}
	return u.Clone(), nil
}

func (r *userMemory) Update(_ context.Context, u *entity.User) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.users[u.Login()]; !ok {
		return usecase.ErrUserNotFound
	}
	r.users[u.Login()] = u.Clone()
	return nil
}

func (r *userMemory) DeleteAll(_ context.Context) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	clear(r.users)
	return nil
}

// Ping always succeeds.
func (r *userMemory) Ping(context.Context) error { return nil }
