// Package usecase implements the business logic for the identity feature.
package usecase

import "errors"

var (
	// ErrUserNotFound is returned by a UserRepository when no user has the given login.
	ErrUserNotFound = errors.New("user not found")

	// ErrLoginAlreadyExists is returned by a UserRepository when the login is already taken.
	ErrLoginAlreadyExists = errors.New("login already exists")
)
