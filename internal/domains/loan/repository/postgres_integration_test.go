package repository_test

import (
	"bytes"
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"sync"
	"testing"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/loan/handler"
	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/repository"
	"library-backend/internal/domains/loan/service"
	infraDB "library-backend/internal/infrastructure/database"
	"library-backend/migrations"
	"library-backend/pkg/database"
)

// testDatabaseURLEnv names the DSN of a disposable Postgres database.
// Tests in this file are skipped when it is unset.
const testDatabaseURLEnv = "LIBRARY_TEST_DATABASE_URL"

// newTestPool connects to the test database with a private schema on the search path
// and applies the embedded migrations into it. The schema is dropped when the test ends.
func newTestPool(t testing.TB) *pgxpool.Pool {
	t.Helper()

	dsn := os.Getenv(testDatabaseURLEnv)
	if dsn == "" {
		t.Skipf("%s not set", testDatabaseURLEnv)
	}

	schema := fmt.Sprintf("loan_it_%d", time.Now().UnixNano())
	quoted := pgx.Identifier{schema}.Sanitize()

	config, err := pgxpool.ParseConfig(dsn)
	require.NoError(t, err)
	config.ConnConfig.RuntimeParams["search_path"] = schema + ",public"
	config.MaxConns = 16

	ctx := context.Background()
	pool, err := pgxpool.NewWithConfig(ctx, config)
	require.NoError(t, err)
	t.Cleanup(pool.Close)

	_, err = pool.Exec(ctx, "CREATE SCHEMA "+quoted)
	require.NoError(t, err)
	t.Cleanup(func() {
		_, err := pool.Exec(context.Background(), "DROP SCHEMA "+quoted+" CASCADE")
		assert.NoError(t, err)
	})

	applied, err := infraDB.Migrate(ctx, pool, migrations.FS())
	require.NoError(t, err)
	require.Positive(t, applied)

	applied, err = infraDB.Migrate(ctx, pool, migrations.FS())
	require.NoError(t, err)
	require.Zero(t, applied)

	return pool
}

func newTestService(t testing.TB, pool *pgxpool.Pool) (*service.LoanService, repository.RepositoryInterface) {
	t.Helper()
	repo := repository.NewRepository(pool, pgx.TxOptions{},
		database.WithMaxAttempts(6),
		database.WithBaseDelay(time.Millisecond),
	)
	return service.NewService(repo), repo
}

func insertBook(t testing.TB, pool *pgxpool.Pool, copies int) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO books (title, author, copies) VALUES ($1, $2, $3) RETURNING id`,
		"Dune", "Frank Herbert", copies,
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func insertReader(t testing.TB, pool *pgxpool.Pool) uuid.UUID {
	t.Helper()
	var id uuid.UUID
	err := pool.QueryRow(context.Background(),
		`INSERT INTO readers (name, email) VALUES ($1, $2) RETURNING id`,
		"Reader", uuid.NewString()+"@library.test",
	).Scan(&id)
	require.NoError(t, err)
	return id
}

func bookCopies(t testing.TB, pool *pgxpool.Pool, id uuid.UUID) int {
	t.Helper()
	var copies int
	require.NoError(t, pool.QueryRow(context.Background(), `SELECT copies FROM books WHERE id = $1`, id).Scan(&copies))
	return copies
}

func activeLoans(t testing.TB, pool *pgxpool.Pool, bookID uuid.UUID) int {
	t.Helper()
	var n int
	err := pool.QueryRow(context.Background(),
		`SELECT COUNT(*) FROM loans WHERE book_id = $1 AND return_date IS NULL`, bookID,
	).Scan(&n)
	require.NoError(t, err)
	return n
}

func Test_Postgres_CreateLoan_LastCopyGoesToExactlyOneReader(t *testing.T) {
	// arrange
	pool := newTestPool(t)
	svc, _ := newTestService(t, pool)
	book := insertBook(t, pool, 1)

	const contenders = 8
	readers := make([]uuid.UUID, contenders)
	for i := range readers {
		readers[i] = insertReader(t, pool)
	}

	// act
	var (
		wg    sync.WaitGroup
		start = make(chan struct{})
		errs  = make([]error, contenders)
	)
	for i, reader := range readers {
		wg.Add(1)
		go func(i int, reader uuid.UUID) {
			defer wg.Done()
			<-start
			_, errs[i] = svc.CreateLoan(context.Background(), book, reader)
		}(i, reader)
	}
	close(start)
	wg.Wait()

	// assert
	won := 0
	for _, err := range errs {
		if err == nil {
			won++
			continue
		}
		assert.ErrorIs(t, err, model.ErrNoCopiesAvailable)
	}
	assert.Equal(t, 1, won)
	assert.Equal(t, 0, bookCopies(t, pool, book))
	assert.Equal(t, 1, activeLoans(t, pool, book))
}

func Test_Postgres_CreateLoan_FourthLoanRejected(t *testing.T) {
	pool := newTestPool(t)
	svc, _ := newTestService(t, pool)
	reader := insertReader(t, pool)
	ctx := context.Background()

	for i := 0; i < model.MaxActiveLoansPerReader; i++ {
		_, err := svc.CreateLoan(ctx, insertBook(t, pool, 1), reader)
		require.NoError(t, err)
	}

	fourth := insertBook(t, pool, 1)
	_, err := svc.CreateLoan(ctx, fourth, reader)

	assert.ErrorIs(t, err, model.ErrLoanLimitExceeded)
	assert.Equal(t, 1, bookCopies(t, pool, fourth))
	assert.Equal(t, 0, activeLoans(t, pool, fourth))
}

func Test_Postgres_CreateLoan_ConcurrentLimitForOneReader(t *testing.T) {
	pool := newTestPool(t)
	svc, _ := newTestService(t, pool)
	reader := insertReader(t, pool)

	books := make([]uuid.UUID, 6)
	for i := range books {
		books[i] = insertBook(t, pool, 1)
	}

	var (
		wg    sync.WaitGroup
		mu    sync.Mutex
		start = make(chan struct{})
		won   int
	)
	for _, book := range books {
		wg.Add(1)
		go func(book uuid.UUID) {
			defer wg.Done()
			<-start
			_, err := svc.CreateLoan(context.Background(), book, reader)
			if err != nil {
				assert.ErrorIs(t, err, model.ErrLoanLimitExceeded)
				return
			}
			mu.Lock()
			won++
			mu.Unlock()
		}(book)
	}
	close(start)
	wg.Wait()

	assert.Equal(t, model.MaxActiveLoansPerReader, won)

	active, err := svc.ListActiveLoans(context.Background(), reader)
	require.NoError(t, err)
	assert.Len(t, active, model.MaxActiveLoansPerReader)
}

func Test_Postgres_ReturnLoan_RestoresCopies(t *testing.T) {
	pool := newTestPool(t)
	svc, repo := newTestService(t, pool)
	book := insertBook(t, pool, 2)
	reader := insertReader(t, pool)
	ctx := context.Background()

	_, err := svc.CreateLoan(ctx, book, reader)
	require.NoError(t, err)
	require.Equal(t, 1, bookCopies(t, pool, book))

	returned, err := svc.ReturnLoan(ctx, book, reader, nil)
	require.NoError(t, err)

	require.NotNil(t, returned.ReturnDate)
	assert.False(t, returned.ReturnDate.Before(returned.LoanDate))
	assert.Equal(t, 2, bookCopies(t, pool, book))

	active, err := svc.ListActiveLoans(ctx, reader)
	require.NoError(t, err)
	assert.Empty(t, active)

	closed, total, err := repo.List(ctx, model.LoanFilter{ReaderID: &reader, Status: model.StatusClosed, Limit: 10})
	require.NoError(t, err)
	assert.Equal(t, 1, total)
	require.Len(t, closed, 1)
	assert.Equal(t, returned.ID, closed[0].ID)

	_, err = svc.ReturnLoan(ctx, book, reader, nil)
	assert.ErrorIs(t, err, model.ErrNoActiveLoan)
}

func Test_Postgres_ReturnLoan_DateBeforeLoan_Returns400(t *testing.T) {
	// arrange
	gin.SetMode(gin.TestMode)
	pool := newTestPool(t)
	svc, _ := newTestService(t, pool)
	book := insertBook(t, pool, 1)
	reader := insertReader(t, pool)

	_, err := svc.CreateLoan(context.Background(), book, reader)
	require.NoError(t, err)

	r := gin.New()
	handler.NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	body := fmt.Sprintf(`{"book_id":%q,"reader_id":%q,"return_date":%q}`,
		book, reader, time.Now().Add(-24*time.Hour).UTC().Format(time.RFC3339))

	// act
	w := httptest.NewRecorder()
	req := httptest.NewRequest(http.MethodPost, "/api/v1/loans/return", bytes.NewBufferString(body))
	req.Header.Set("Content-Type", "application/json")
	r.ServeHTTP(w, req)

	// assert
	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "Return date is before loan date")
	assert.Equal(t, 1, activeLoans(t, pool, book))
	assert.Equal(t, 0, bookCopies(t, pool, book))
}

func Test_Postgres_Constraints_MapToLoanErrors(t *testing.T) {
	pool := newTestPool(t)
	_, repo := newTestService(t, pool)
	book := insertBook(t, pool, 1)
	reader := insertReader(t, pool)
	ctx := context.Background()
	loanDate := time.Now().UTC().Truncate(time.Microsecond)

	var first model.Loan
	err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
		first = model.Loan{BookID: book, ReaderID: reader, LoanDate: loanDate}
		return tx.Insert(ctx, &first)
	})
	require.NoError(t, err)

	t.Run("second active loan for the same pair", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
			return tx.Insert(ctx, &model.Loan{BookID: book, ReaderID: reader, LoanDate: loanDate})
		})
		assert.ErrorIs(t, err, model.ErrAlreadyOnLoan)
	})

	t.Run("copies below zero", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
			return tx.AdjustCopies(ctx, book, -2)
		})
		assert.ErrorIs(t, err, model.ErrNoCopiesAvailable)
		assert.Equal(t, 1, bookCopies(t, pool, book))
	})

	t.Run("return stamped before the loan", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
			loan, err := tx.FindActiveForUpdate(ctx, book, reader)
			if err != nil {
				return err
			}
			_, err = tx.MarkReturned(ctx, loan.ID, loan.LoanDate.Add(-time.Second))
			return err
		})
		assert.ErrorIs(t, err, model.ErrReturnBeforeLoan)
		assert.Equal(t, 1, activeLoans(t, pool, book))
	})

	t.Run("unknown book", func(t *testing.T) {
		err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
			_, err := tx.LockBook(ctx, uuid.New())
			return err
		})
		assert.ErrorIs(t, err, model.ErrBookNotFound)
	})

	t.Run("rolled back on error", func(t *testing.T) {
		errStop := errors.New("stop")
		err := repo.RunInTx(ctx, func(tx repository.TxRepository) error {
			if err := tx.AdjustCopies(ctx, book, 5); err != nil {
				return err
			}
			return errStop
		})
		assert.ErrorIs(t, err, errStop)
		assert.Equal(t, 1, bookCopies(t, pool, book))
	})
}
