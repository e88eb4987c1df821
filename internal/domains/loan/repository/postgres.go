package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/loan/model"
	"library-backend/pkg/database"
)

const selectLoan = `SELECT id, book_id, reader_id, loan_date, return_date, created_at, updated_at FROM loans`

type postgresRepository struct {
	pool      *pgxpool.Pool
	txOptions pgx.TxOptions
	retryOpts []database.RetryOption
}

// NewRepository creates a loan repository. retryOpts tune the serialization-failure retry of RunInTx.
func NewRepository(pool *pgxpool.Pool, txOptions pgx.TxOptions, retryOpts ...database.RetryOption) RepositoryInterface {
	return &postgresRepository{
		pool:      pool,
		txOptions: txOptions,
		retryOpts: retryOpts,
	}
}

func scanLoan(row pgx.Row) (*model.Loan, error) {
	var l model.Loan
	err := row.Scan(
		&l.ID,
		&l.BookID,
		&l.ReaderID,
		&l.LoanDate,
		&l.ReturnDate,
		&l.CreatedAt,
		&l.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &l, nil
}

func collectLoans(rows pgx.Rows) ([]model.Loan, error) {
	defer rows.Close()

	loans := make([]model.Loan, 0)
	for rows.Next() {
		l, err := scanLoan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan loan: %w", err)
		}
		loans = append(loans, *l)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("rows iteration error: %w", err)
	}
	return loans, nil
}

// translateError maps constraint violations onto loan errors.
func translateError(err error) error {
	code, constraint, ok := database.PgErrorCode(err)
	if !ok {
		return err
	}
	switch code {
	case database.CodeUniqueViolation:
		if constraint == "uq_loans_active_book_reader" {
			return model.ErrAlreadyOnLoan
		}
	case database.CodeCheckViolation:
		switch constraint {
		case "chk_books_copies_non_negative":
			return model.ErrNoCopiesAvailable
		case "chk_loans_return_after_loan":
			return model.ErrReturnBeforeLoan
		}
		return model.ErrConstraintViolation
	case database.CodeForeignKeyViolation:
		return model.ErrConstraintViolation
	}
	return err
}

func (r *postgresRepository) RunInTx(ctx context.Context, fn func(tx TxRepository) error) error {
	return database.WithTransactionRetry(ctx, r.pool, r.txOptions, func(tx pgx.Tx) error {
		return fn(&txRepository{tx: tx})
	}, r.retryOpts...)
}

func (r *postgresRepository) ReaderExists(ctx context.Context, readerID uuid.UUID) (bool, error) {
	var exists bool
	err := r.pool.QueryRow(ctx, `SELECT EXISTS (SELECT 1 FROM readers WHERE id = $1)`, readerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check reader: %w", err)
	}
	return exists, nil
}

func (r *postgresRepository) ListActiveByReader(ctx context.Context, readerID uuid.UUID) ([]model.Loan, error) {
	rows, err := r.pool.Query(ctx,
		selectLoan+` WHERE reader_id = $1 AND return_date IS NULL ORDER BY loan_date ASC, id ASC`,
		readerID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to list active loans: %w", err)
	}
	return collectLoans(rows)
}

func (r *postgresRepository) List(ctx context.Context, filter model.LoanFilter) ([]model.Loan, int, error) {
	countSQL, countArgs, err := buildCountQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count loans: %w", err)
	}

	listSQL, listArgs, err := buildListQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list loans: %w", err)
	}
	loans, err := collectLoans(rows)
	if err != nil {
		return nil, 0, err
	}
	return loans, total, nil
}

// ============================================
// Transaction-scoped operations
// ============================================

type txRepository struct {
	tx pgx.Tx
}

func (t *txRepository) LockBook(ctx context.Context, bookID uuid.UUID) (int, error) {
	var copies int
	err := t.tx.QueryRow(ctx, `SELECT copies FROM books WHERE id = $1 FOR UPDATE`, bookID).Scan(&copies)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return 0, model.NewBookNotFoundError(bookID)
		}
		return 0, fmt.Errorf("failed to lock book: %w", err)
	}
	return copies, nil
}

func (t *txRepository) LockReader(ctx context.Context, readerID uuid.UUID) error {
	var id uuid.UUID
	err := t.tx.QueryRow(ctx, `SELECT id FROM readers WHERE id = $1 FOR UPDATE`, readerID).Scan(&id)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return model.NewReaderNotFoundError(readerID)
		}
		return fmt.Errorf("failed to lock reader: %w", err)
	}
	return nil
}

func (t *txRepository) HasActiveLoan(ctx context.Context, bookID, readerID uuid.UUID) (bool, error) {
	var exists bool
	err := t.tx.QueryRow(ctx, `
		SELECT EXISTS (
			SELECT 1 FROM loans
			WHERE book_id = $1 AND reader_id = $2 AND return_date IS NULL
		)
	`, bookID, readerID).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check active loan: %w", err)
	}
	return exists, nil
}

func (t *txRepository) CountActiveByReader(ctx context.Context, readerID uuid.UUID) (int, error) {
	var n int
	err := t.tx.QueryRow(ctx,
		`SELECT COUNT(*) FROM loans WHERE reader_id = $1 AND return_date IS NULL`,
		readerID,
	).Scan(&n)
	if err != nil {
		return 0, fmt.Errorf("failed to count active loans: %w", err)
	}
	return n, nil
}

func (t *txRepository) Insert(ctx context.Context, loan *model.Loan) error {
	query := `
		INSERT INTO loans (book_id, reader_id, loan_date)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := t.tx.QueryRow(ctx, query, loan.BookID, loan.ReaderID, loan.LoanDate).
		Scan(&loan.ID, &loan.CreatedAt, &loan.UpdatedAt)
	if err != nil {
		if mapped := translateError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to insert loan: %w", err)
	}
	return nil
}

func (t *txRepository) AdjustCopies(ctx context.Context, bookID uuid.UUID, delta int) error {
	tag, err := t.tx.Exec(ctx,
		`UPDATE books SET copies = copies + $2, updated_at = NOW() WHERE id = $1`,
		bookID, delta,
	)
	if err != nil {
		if mapped := translateError(err); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to adjust copies: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.NewBookNotFoundError(bookID)
	}
	return nil
}

func (t *txRepository) FindActiveForUpdate(ctx context.Context, bookID, readerID uuid.UUID) (*model.Loan, error) {
	l, err := scanLoan(t.tx.QueryRow(ctx, selectLoan+`
		WHERE book_id = $1 AND reader_id = $2 AND return_date IS NULL
		ORDER BY loan_date ASC, id ASC
		LIMIT 1
		FOR UPDATE
	`, bookID, readerID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoActiveLoan
		}
		return nil, fmt.Errorf("failed to find active loan: %w", err)
	}
	return l, nil
}

func (t *txRepository) MarkReturned(ctx context.Context, loanID uuid.UUID, returnDate time.Time) (*model.Loan, error) {
	l, err := scanLoan(t.tx.QueryRow(ctx, `
		UPDATE loans
		SET return_date = $2, updated_at = NOW()
		WHERE id = $1 AND return_date IS NULL
		RETURNING id, book_id, reader_id, loan_date, return_date, created_at, updated_at
	`, loanID, returnDate))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrNoActiveLoan
		}
		if mapped := translateError(err); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to mark loan returned: %w", err)
	}
	return l, nil
}
