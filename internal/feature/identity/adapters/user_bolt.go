package adapters

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"go.etcd.io/bbolt"

	"identity_backend/internal/feature/identity/domain/entity"
	"identity_backend/internal/feature/identity/usecase"
)

var usersBucket = []byte("users")

// userBolt is a UserRepository backed by an embedded bbolt file.
// Each user is stored as JSON under its login in the users bucket.
type userBolt struct {
	db *bbolt.DB
}

var _ usecase.UserRepository = (*userBolt)(nil)

// OpenUserBolt opens (or creates) the bbolt file at path and ensures the
// users bucket exists.
func OpenUserBolt(path string) (*userBolt, error) {
	db, err := bbolt.Open(path, 0o600, &bbolt.Options{Timeout: time.Second})
	if err != nil {
		return nil, fmt.Errorf("open bolt %s: %w", path, err)
	}
	err = db.Update(func(tx *bbolt.Tx) error {
		_, err := tx.CreateBucketIfNotExists(usersBucket)
		return err
	})
	if err != nil {
		_ = db.Close()
		return nil, fmt.Errorf("create users bucket: %w", err)
	}
	return &userBolt{db: db}, nil
}

// Close releases the file lock.
func (r *userBolt) Close() error {
	return r.db.Close()
}

func (r *userBolt) Create(_ context.Context, u *entity.User) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(usersBucket)
		key := []byte(u.Login())
		if b.Get(key) != nil {
			return usecase.ErrLoginAlreadyExists
		}
		return put(b, key, u)
	})
}

func (r *userBolt) FindByLogin(_ context.Context, login string) (*entity.User, error) {
	var state entity.State
	err := r.db.View(func(tx *bbolt.Tx) error {
		data := tx.Bucket(usersBucket).Get([]byte(login))
		if data == nil {
			return usecase.ErrUserNotFound
		}
		return json.Unmarshal(data, &state)
	})
	if err != nil {
		if errors.Is(err, usecase.ErrUserNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("read user %q: %w", login, err)
	}
	return entity.FromState(state), nil
}

func (r *userBolt) Update(_ context.Context, u *entity.User) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		b := tx.Bucket(usersBucket)
		key := []byte(u.Login())
		if b.Get(key) == nil {
			return usecase.ErrUserNotFound
		}
		return put(b, key, u)
	})
}

func (r *userBolt) DeleteAll(_ context.Context) error {
	return r.db.Update(func(tx *bbolt.Tx) error {
		if err := tx.DeleteBucket(usersBucket); err != nil {
			return err
		}
		_, err := tx.CreateBucket(usersBucket)
		return err
	})
}

// Ping checks that the file can still be read.
func (r *userBolt) Ping(context.Context) error {
	return r.db.View(func(tx *bbolt.Tx) error {
		if tx.Bucket(usersBucket) == nil {
			return errors.New("users bucket missing")
		}
		return nil
	})
}

func put(b *bbolt.Bucket, key []byte, u *entity.User) error {
	data, err := json.Marshal(u.State())
	if err != nil {
		return fmt.Errorf("encode user: %w", err)
	}
	return b.Put(key, data)
}
