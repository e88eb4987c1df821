package repository

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

// RepositoryInterface is the loan ledger.
type RepositoryInterface interface {
	// RunInTx runs fn in one transaction. fn may be called again when the
	// transaction hits a serialization failure or deadlock.
	RunInTx(ctx context.Context, fn func(tx TxRepository) error) error

	ReaderExists(ctx context.Context, readerID uuid.UUID) (bool, error)
	ListActiveByReader(ctx context.Context, readerID uuid.UUID) ([]model.Loan, error)
	List(ctx context.Context, filter model.LoanFilter) ([]model.Loan, int, error)
}

// TxRepository is the set of ledger operations available inside RunInTx.
// Lock methods hold their row lock until the transaction ends.
type TxRepository interface {
	// LockBook locks the book row and returns its current copies.
	LockBook(ctx context.Context, bookID uuid.UUID) (int, error)
	LockReader(ctx context.Context, readerID uuid.UUID) error

	HasActiveLoan(ctx context.Context, bookID, readerID uuid.UUID) (bool, error)
	CountActiveByReader(ctx context.Context, readerID uuid.UUID) (int, error)
	Insert(ctx context.Context, loan *model.Loan) error
	AdjustCopies(ctx context.Context, bookID uuid.UUID, delta int) error

	// FindActiveForUpdate locks the oldest active loan of the pair.
	FindActiveForUpdate(ctx context.Context, bookID, readerID uuid.UUID) (*model.Loan, error)
	MarkReturned(ctx context.Context, loanID uuid.UUID, returnDate time.Time) (*model.Loan, error)
}
