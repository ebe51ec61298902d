package services

import "errors"

var (
	// ErrInvalidInput means a required field is missing or not allowed
	ErrInvalidInput = errors.New("invalid input")
	// ErrUserExists means the email is already registered
	ErrUserExists = errors.New("user already exists")
	// ErrInvalidCredentials means the email or password did not match
	ErrInvalidCredentials = errors.New("invalid credentials")
	// ErrSessionNotFound means the token is invalid, expired or logged out
	ErrSessionNotFound = errors.New("session not found")
)
