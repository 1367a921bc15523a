package dto

import "github.com/google/uuid"

type RegisterRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type LoginRequest struct {
	Email    string `json:"email" validate:"required,email"`
	Password string `json:"password" validate:"required"`
}

type ResetPasswordRequest struct {
	Email string `json:"email" validate:"required,email"`
}

type ConfirmResetPasswordRequest struct {
	Token    string `json:"token" validate:"required"`
	Password string `json:"password" validate:"required,min=8,max=72"`
}

type UserDTO struct {
	Id    uuid.UUID `json:"id"`
	Email string    `json:"email"`
}

type AuthUserResponse struct {
	User UserDTO `json:"user"`
}

type RegisterResponse struct {
	Message string  `json:"message"`
	User    UserDTO `json:"user"`
}

// LoginResult carries the signed tokens to the controller, which turns them
// into cookies. Tokens are also returned in the body for non-browser clients.
type LoginResult struct {
	User         UserDTO `json:"user"`
	AccessToken  string  `json:"access_token"`
	RefreshToken string  `json:"refresh_token"`
}

type SessionResponse struct {
	User  *UserDTO `json:"user"`
	Error string   `json:"error,omitempty"`
}

type MessageResponse struct {
	Message string `json:"message"`
}
