package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/reader/model"
	"library-backend/pkg/database"
)

type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new reader repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanReader(row pgx.Row) (*model.Reader, error) {
	var r model.Reader
	if err := row.Scan(&r.ID, &r.Name, &r.Email, &r.Phone, &r.CreatedAt, &r.UpdatedAt); err != nil {
		return nil, err
	}
	return &r, nil
}

func (r *postgresRepository) Create(ctx context.Context, reader *model.Reader) error {
	query := `
		INSERT INTO readers (name, email, phone)
		VALUES ($1, $2, $3)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, reader.Name, reader.Email, reader.Phone).
		Scan(&reader.ID, &reader.CreatedAt, &reader.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.NewEmailAlreadyExistsError(reader.Email)
		}
		return fmt.Errorf("failed to create reader: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	query := `
		SELECT id, name, email, phone, created_at, updated_at
		FROM readers
		WHERE id = $1
	`

	reader, err := scanReader(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewReaderNotFoundError(id)
		}
		return nil, fmt.Errorf("failed to get reader: %w", err)
	}
	return reader, nil
}

func (r *postgresRepository) List(ctx context.Context, filter model.ReaderFilter) ([]model.Reader, int, error) {
	countSQL, countArgs, err := buildCountQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	var total int
	if err := r.pool.QueryRow(ctx, countSQL, countArgs...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count readers: %w", err)
	}

	listSQL, listArgs, err := buildListQuery(filter)
	if err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx, listSQL, listArgs...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list readers: %w", err)
	}
	defer rows.Close()

	readers := make([]model.Reader, 0, filter.Limit)
	for rows.Next() {
		reader, err := scanReader(rows)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan reader: %w", err)
		}
		readers = append(readers, *reader)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("rows iteration error: %w", err)
	}

	return readers, total, nil
}

func (r *postgresRepository) Update(ctx context.Context, id uuid.UUID, patch model.ReaderPatch) (*model.Reader, error) {
	query, args, err := buildUpdateQuery(id, patch)
	if err != nil {
		return nil, err
	}

	reader, err := scanReader(r.pool.QueryRow(ctx, query, args...))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.NewReaderNotFoundError(id)
		}
		if database.IsUniqueViolation(err) && patch.Email != nil {
			return nil, model.NewEmailAlreadyExistsError(*patch.Email)
		}
		return nil, fmt.Errorf("failed to update reader: %w", err)
	}
	return reader, nil
}

func (r *postgresRepository) Delete(ctx context.Context, id uuid.UUID) error {
	tag, err := r.pool.Exec(ctx, `DELETE FROM readers WHERE id = $1`, id)
	if err != nil {
		if database.IsForeignKeyViolation(err) {
			return model.ErrReaderHasLoans
		}
		return fmt.Errorf("failed to delete reader: %w", err)
	}

	if tag.RowsAffected() == 0 {
		return model.NewReaderNotFoundError(id)
	}
	return nil
}

func (r *postgresRepository) EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error) {
	query := `SELECT EXISTS(SELECT 1 FROM readers WHERE email = $1 AND id <> $2)`

	var exists bool
	if err := r.pool.QueryRow(ctx, query, email, excludeID).Scan(&exists); err != nil {
		return false, fmt.Errorf("failed to check reader email: %w", err)
	}
	return exists, nil
}
