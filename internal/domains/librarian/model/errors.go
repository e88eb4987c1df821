package model

import "errors"

var (
	ErrLibrarianNotFound = errors.New("librarian not found")

	ErrEmailAlreadyRegistered = errors.New("email already registered")

	// ErrInvalidCredentials is returned for both unknown emails and wrong passwords
	ErrInvalidCredentials = errors.New("incorrect email or password")

	ErrInactiveLibrarian = errors.New("inactive librarian")

	ErrTokenRevoked = errors.New("token revoked")
)
