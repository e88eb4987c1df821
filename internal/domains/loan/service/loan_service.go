package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
)

type LoanService struct {
	repo repository.RepositoryInterface
	now  func() time.Time
}

func NewService(repo repository.RepositoryInterface) *LoanService {
	return &LoanService{
		repo: repo,
		now:  time.Now,
	}
}

// timestamp is truncated to the precision Postgres stores.
func (s *LoanService) timestamp() time.Time {
	return s.now().UTC().Truncate(time.Microsecond)
}

// CreateLoan locks the book and then the reader, so concurrent loans of the same
// book or by the same reader are applied one at a time.
func (s *LoanService) CreateLoan(ctx context.Context, bookID, readerID uuid.UUID) (*model.Loan, error) {
	var loan *model.Loan

	err := s.repo.RunInTx(ctx, func(tx repository.TxRepository) error {
		copies, err := tx.LockBook(ctx, bookID)
		if err != nil {
			return err
		}
		if err := tx.LockReader(ctx, readerID); err != nil {
			return err
		}

		if copies < 1 {
			return model.ErrNoCopiesAvailable
		}

		onLoan, err := tx.HasActiveLoan(ctx, bookID, readerID)
		if err != nil {
			return err
		}
		if onLoan {
			return model.ErrAlreadyOnLoan
		}

		active, err := tx.CountActiveByReader(ctx, readerID)
		if err != nil {
			return err
		}
		if active >= model.MaxActiveLoansPerReader {
			return model.NewLoanLimitExceededError(active)
		}

		l := &model.Loan{
			BookID:   bookID,
			ReaderID: readerID,
			LoanDate: s.timestamp(),
		}
		if err := tx.Insert(ctx, l); err != nil {
			return err
		}
		if err := tx.AdjustCopies(ctx, bookID, -1); err != nil {
			return err
		}

		loan = l
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", loan.ID.String()).
		Str("book_id", bookID.String()).
		Str("reader_id", readerID.String()).
		Msg("loan created")
	return loan, nil
}

func (s *LoanService) ReturnLoan(ctx context.Context, bookID, readerID uuid.UUID, returnDate *time.Time) (*model.Loan, error) {
	var loan *model.Loan

	err := s.repo.RunInTx(ctx, func(tx repository.TxRepository) error {
		active, err := tx.FindActiveForUpdate(ctx, bookID, readerID)
		if err != nil {
			return err
		}

		at := s.timestamp()
		if returnDate != nil {
			at = returnDate.UTC().Truncate(time.Microsecond)
		}
		if at.Before(active.LoanDate) {
			return fmt.Errorf("%w: loan_date=%s", model.ErrReturnBeforeLoan, active.LoanDate.Format(time.RFC3339))
		}

		closed, err := tx.MarkReturned(ctx, active.ID, at)
		if err != nil {
			return err
		}
		if err := tx.AdjustCopies(ctx, bookID, 1); err != nil {
			return err
		}

		loan = closed
		return nil
	})
	if err != nil {
		return nil, err
	}

	log.Info().
		Str("loan_id", loan.ID.String()).
		Str("book_id", bookID.String()).
		Str("reader_id", readerID.String()).
		Msg("loan returned")
	return loan, nil
}

func (s *LoanService) ListActiveLoans(ctx context.Context, readerID uuid.UUID) ([]model.Loan, error) {
	exists, err := s.repo.ReaderExists(ctx, readerID)
	if err != nil {
		return nil, err
	}
	if !exists {
		return nil, model.NewReaderNotFoundError(readerID)
	}

	return s.repo.ListActiveByReader(ctx, readerID)
}

func (s *LoanService) ListLoans(ctx context.Context, req model.ListLoansRequest) ([]model.Loan, int, error) {
	req.Normalize()

	loans, total, err := s.repo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, 0, fmt.Errorf("list loans: %w", err)
	}
	return loans, total, nil
}
