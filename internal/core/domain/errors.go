package domain

import "errors"

var (
	ErrValidation         = errors.New("validation failed")
	ErrUserNotFound       = errors.New("user not found")
	ErrTaskNotFound       = errors.New("task not found")
	ErrUsernameTaken      = errors.New("username already taken")
	ErrInvalidCredentials = errors.New("invalid username or password")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrTokenExpired       = errors.New("token expired")
	ErrTokenInvalid       = errors.New("token invalid")
	ErrDeleteMismatch     = errors.New("task was not removed")
	ErrHashing            = errors.New("password hashing failed")
	ErrSigning            = errors.New("token signing failed")
	ErrPersistence        = errors.New("persistence failure")
	ErrInternal           = errors.New("internal server error")
)
