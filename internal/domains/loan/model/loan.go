package model

import (
	"time"

	"github.com/google/uuid"
)

// MaxActiveLoansPerReader is the number of loans a reader may hold open at once.
const MaxActiveLoansPerReader = 3

// Loan links one copy of a book to a reader. ReturnDate is nil while the loan is active.
type Loan struct {
	ID         uuid.UUID  `json:"id"`
	BookID     uuid.UUID  `json:"book_id"`
	ReaderID   uuid.UUID  `json:"reader_id"`
	LoanDate   time.Time  `json:"loan_date"`
	ReturnDate *time.Time `json:"return_date"`
	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
}

func (l Loan) IsActive() bool {
	return l.ReturnDate == nil
}

type Status string

const (
	StatusActive Status = "active"
	StatusClosed Status = "closed"
	StatusAll    Status = "all"
)

// LoanFilter narrows the loan history. Nil ids match every book or reader.
type LoanFilter struct {
	ReaderID *uuid.UUID
	BookID   *uuid.UUID
	Status   Status
	Limit    int
	Offset   int
}
