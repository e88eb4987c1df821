package model

import (
	"errors"
	"fmt"

	"github.com/google/uuid"
)

var (
	ErrBookNotFound   = errors.New("book not found")
	ErrReaderNotFound = errors.New("reader not found")

	ErrNoCopiesAvailable = errors.New("no copies available")
	ErrAlreadyOnLoan     = errors.New("book already on loan to this reader")
	ErrLoanLimitExceeded = errors.New("loan limit exceeded")
	ErrNoActiveLoan      = errors.New("no active loan found")

	// ErrReturnBeforeLoan is returned when a return date precedes the loan date
	ErrReturnBeforeLoan = errors.New("return date is before loan date")

	// ErrConstraintViolation is returned when the database rejects a write on a check constraint
	ErrConstraintViolation = errors.New("request conflicts with current state")
)

func NewBookNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrBookNotFound, id)
}

func NewReaderNotFoundError(id uuid.UUID) error {
	return fmt.Errorf("%w: id=%s", ErrReaderNotFound, id)
}

func NewLoanLimitExceededError(active int) error {
	return fmt.Errorf("%w: %d of %d active", ErrLoanLimitExceeded, active, MaxActiveLoansPerReader)
}
