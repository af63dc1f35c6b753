package dto

import "identity_backend/internal/feature/identity/domain/entity"

// ErrorResponse is the body of every error response.
type ErrorResponse struct {
	Error string `json:"error"`
}

// MessageResponse is a plain acknowledgement.
type MessageResponse struct {
	Message string `json:"message"`
}

// ProfileRes is returned on successful login.
type ProfileRes struct {
	Profile string `json:"profile"`
}

// UserRes is the public view of a registered user. Credentials are never included.
type UserRes struct {
	ID       string            `json:"id"`
	Login    string            `json:"login"`
	FullName string            `json:"full_name"`
	Initials string            `json:"initials"`
	Email    string            `json:"email,omitempty"`
	Phone    string            `json:"phone,omitempty"`
	Meta     map[string]string `json:"meta,omitempty"`
}

// NewUserRes builds the public view of u.
func NewUserRes(u *entity.User) UserRes {
	return UserRes{
		ID:       u.ID(),
		Login:    u.Login(),
		FullName: u.FullName(),
		Initials: u.Initials(),
		Email:    u.Email(),
		Phone:    u.Phone(),
		Meta:     u.Meta(),
	}
}
