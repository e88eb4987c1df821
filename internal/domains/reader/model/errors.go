package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrReaderNotFound = errors.New("reader not found")

	// ErrEmailAlreadyExists is returned when another reader already uses the email
	ErrEmailAlreadyExists = errors.New("email already registered")

	// ErrReaderHasLoans is returned when deleting a reader that loans still reference
	ErrReaderHasLoans = errors.New("reader has loans and cannot be deleted")

	ErrInvalidPhone = errors.New("invalid phone number")

	ErrEmptyUpdate = errors.New("no fields to update")
)

func NewReaderNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrReaderNotFound, id)
}

func NewEmailAlreadyExistsError(email string) error {
	return fmt.Errorf("%w: email=%s", ErrEmailAlreadyExists, email)
}

func NewInvalidPhoneError(phone string, cause error) error {
	return fmt.Errorf("%w: %q: %v", ErrInvalidPhone, phone, cause)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrReaderNotFound)
}
