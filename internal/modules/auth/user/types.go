package user

import (
	"errors"
	"time"
)

type CreateUserDTO struct {
	Email string `json:"email" binding:"required"`
}

// emailInput is validated after normalization so surrounding spaces and
// letter case never decide whether an address is accepted.
type emailInput struct {
	Email string `binding:"required,email,max=120"`
}

type userResponse struct {
	ID        string    `json:"id"`
	Email     string    `json:"email"`
	CreatedAt time.Time `json:"created_at"`
}

type createResponse struct {
	Success bool          `json:"success"`
	User    *userResponse `json:"user"`
	Token   string        `json:"token"`
}

var (
	errUserNotFound = errors.New("user not found")
	errEmailTaken   = errors.New("email already registered")
)
