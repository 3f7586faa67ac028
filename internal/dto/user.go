package dto

import (
	"strings"
	"time"

	dom "github.com/mpaternostro/basic-crud/internal/domain"
)

// Minimum lengths match the original deployment's account rules.
const (
	minUsernameLen        = 5
	minPasswordLen        = 5
	minUpdatedPasswordLen = 8
)

// LoginRequest is the JSON body for POST /auth/login.
type LoginRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required"`
}

// CreateUserInput backs both POST /auth/register and the createUser mutation.
type CreateUserInput struct {
	Username string `json:"username"`
	Password string `json:"password"`
}

// Validate trims the username (never the password) and checks both fields.
func (in *CreateUserInput) Validate() error {
	in.Username = strings.TrimSpace(in.Username)
	var errs FieldErrors
	errs = requireMin(errs, "username", in.Username, minUsernameLen)
	errs = requireMin(errs, "password", in.Password, minPasswordLen)
	return errs.OrNil()
}

// UpdateUserInput is the updateUser mutation input. Username and Password are
// optional; CurrentPassword must re-verify before the mutation can run.
type UpdateUserInput struct {
	ID              string  `json:"id"`
	CurrentPassword string  `json:"currentPassword"`
	Username        *string `json:"username"`
	Password        *string `json:"password"`
}

func (in *UpdateUserInput) Validate() error {
	in.ID = strings.TrimSpace(in.ID)
	var errs FieldErrors
	errs = requireMin(errs, "id", in.ID, 1)
	errs = requireMin(errs, "currentPassword", in.CurrentPassword, minUpdatedPasswordLen)
	if in.Username != nil {
		*in.Username = strings.TrimSpace(*in.Username)
		errs = requireMin(errs, "username", *in.Username, minUsernameLen)
	}
	if in.Password != nil {
		errs = requireMin(errs, "password", *in.Password, minUpdatedPasswordLen)
	}
	return errs.OrNil()
}

// RemoveUserInput is the removeUser mutation input.
type RemoveUserInput struct {
	ID              string `json:"id"`
	CurrentPassword string `json:"currentPassword"`
}

func (in *RemoveUserInput) Validate() error {
	in.ID = strings.TrimSpace(in.ID)
	var errs FieldErrors
	errs = requireMin(errs, "id", in.ID, 1)
	errs = requireMin(errs, "currentPassword", in.CurrentPassword, minUpdatedPasswordLen)
	return errs.OrNil()
}

// UserResponse is the client-facing view of a user. Password and refresh
// token hashes are deliberately absent.
type UserResponse struct {
	ID        string    `json:"id"`
	Username  string    `json:"username"`
	CreatedAt time.Time `json:"createdAt"`
	UpdatedAt time.Time `json:"updatedAt"`
}

func NewUserResponse(u dom.User) UserResponse {
	return UserResponse{
		ID:        u.ID,
		Username:  u.Username,
		CreatedAt: u.CreatedAt,
		UpdatedAt: u.UpdatedAt,
	}
}
