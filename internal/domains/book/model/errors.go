package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound = errors.New("book not found")

	// ErrISBNAlreadyExists is returned when another book already carries the ISBN
	ErrISBNAlreadyExists = errors.New("isbn already exists")

	// ErrBookHasLoans is returned when deleting a book that loans still reference
	ErrBookHasLoans = errors.New("book has loans and cannot be deleted")

	ErrNegativeCopies = errors.New("copies cannot be negative")

	ErrEmptyUpdate = errors.New("no fields to update")
)

func NewBookNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrBookNotFound, id)
}

func NewISBNAlreadyExistsError(isbn string) error {
	return fmt.Errorf("%w: isbn=%s", ErrISBNAlreadyExists, isbn)
}

func IsNotFoundError(err error) bool {
	return errors.Is(err, ErrBookNotFound)
}

func IsConflictError(err error) bool {
	return errors.Is(err, ErrISBNAlreadyExists) || errors.Is(err, ErrBookHasLoans) || errors.Is(err, ErrNegativeCopies)
}
