package service

import (
	"context"
	"time"

	"github.com/google/uuid"

	"library-backend/internal/domains/loan/model"
)

type ServiceInterface interface {
	CreateLoan(ctx context.Context, bookID, readerID uuid.UUID) (*model.Loan, error)

	// ReturnLoan closes the oldest active loan of the pair. A nil returnDate means now.
	ReturnLoan(ctx context.Context, bookID, readerID uuid.UUID, returnDate *time.Time) (*model.Loan, error)

	ListActiveLoans(ctx context.Context, readerID uuid.UUID) ([]model.Loan, error)
	ListLoans(ctx context.Context, req model.ListLoansRequest) ([]model.Loan, int, error)
}
