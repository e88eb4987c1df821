package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/book/model"
	"library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new book repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanBook(row pgx.Row) (*model.Book, error) {
	var b model.Book
	err := row.Scan(
		&b.ID,
		&b.Title,
		&b.Author,
		&b.PublishedYear,
		&b.ISBN,
		&b.Copies,
		&b.Description,
		&b.CreatedAt,
		&b.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}
	return &b, nil
}

// translateError maps constraint violations onto domain errors.
func translateError(err error, isbn *string) error {
	code, _, ok := database.PgErrorCode(err)
	if !ok {
		return err
	}
	switch code {
	case database.CodeUniqueViolation:
		if isbn != nil {
			return model.NewISBNAlreadyExistsError(*isbn)
		}
		return model.ErrISBNAlreadyExists
	case database.CodeForeignKeyViolation:
		return model.ErrBookHasLoans
	case database.CodeCheckViolation:
		return model.ErrNegativeCopies
	}
	return err
}

func (r *postgresRepository) Create(ctx context.Context, book *model.Book) error {
	query := `
		INSERT INTO books (title, author, published_year, isbn, copies, description)
		VALUES ($1, $2, $3, $4, $5, $6)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query,
		book.Title,
		book.Author,
		book.PublishedYear,
		book.ISBN,
		book.Copies,
		book.Description,
	).Scan(&book.ID, &book.CreatedAt, &book.UpdatedAt)
	if err != nil {
		if mapped := translateError(err, book.ISBN); mapped != err {
			return mapped
		}
		return fmt.Errorf("failed to create book: %w", err)
	}

	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	query := `
		SELECT id, title, author, published_year, isbn, copies, description, created_at, updated_at
		FROM books
		WHERE id = $1
	`

	b, err := scanBook(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewBookNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	countSQL, countArgs, err := buildCountQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count books: %w", err)
	}

	listSQL, listArgs, err := buildListQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list books: %w", err)
	}
	defer rows.Close()

	books := make([]model.Book, 0, filter.Limit)
	for rows.Next() {
		b, err := scanBook(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan book: %w", err)
		}
		books = append(books, *b)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return books, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, patch model.BookPatch) (*model.Book, error) {
	query, args, err := buildUpdateQuery(id, patch)
	if err != nil {
		return nil, err
	}

	b, err := scanBook(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewBookNotFoundError(id)
		}
		if mapped := translateError(err, patch.ISBN); mapped != err {
			return nil, mapped
		}
		return nil, fmt.Errorf("failed to update book: %w", err)
	}
	return b, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM books WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrBookHasLoans
		}
		return fmt.Errorf("failed to delete book: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewBookNotFoundError(id)
	}
	return nil
}
