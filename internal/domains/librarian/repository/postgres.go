package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"library-backend/internal/domains/librarian/model"
	"library-backend/pkg/database"
)

const librarianColumns = `id, email, password_hash, full_name, is_active, created_at, updated_at`

type postgresRepository struct {
	pool *pgxpool.Pool
}

func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

func scanLibrarian(row pgx.Row) (*model.Librarian, error) {
	var l model.Librarian
	err := row.Scan(&l.ID, &l.Email, &l.PasswordHash, &l.FullName, &l.IsActive, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrLibrarianNotFound
		}
		return nil, err
	}
	return &l, nil
}

func (r *postgresRepository) Create(ctx context.Context, l *model.Librarian) error {
	query := `
		INSERT INTO librarians (email, password_hash, full_name, is_active)
		VALUES ($1, $2, $3, $4)
		RETURNING id, created_at, updated_at
	`

	err := r.pool.QueryRow(ctx, query, l.Email, l.PasswordHash, l.FullName, l.IsActive).
		Scan(&l.ID, &l.CreatedAt, &l.UpdatedAt)
	if err != nil {
		if database.IsUniqueViolation(err) {
			return model.ErrEmailAlreadyRegistered
		}
		return fmt.Errorf("failed to create librarian: %w", err)
	}
	return nil
}

func (r *postgresRepository) GetByEmail(ctx context.Context, email string) (*model.Librarian, error) {
	l, err := scanLibrarian(r.pool.QueryRow(ctx,
		`SELECT `+librarianColumns+` FROM librarians WHERE email = $1`, email))
	if err != nil && !errors.Is(err, model.ErrLibrarianNotFound) {
		return nil, fmt.Errorf("failed to get librarian by email: %w", err)
	}
	return l, err
}

func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Librarian, error) {
	l, err := scanLibrarian(r.pool.QueryRow(ctx,
		`SELECT `+librarianColumns+` FROM librarians WHERE id = $1`, id))
	if err != nil && !errors.Is(err, model.ErrLibrarianNotFound) {
		return nil, fmt.Errorf("failed to get librarian: %w", err)
	}
	return l, err
}
