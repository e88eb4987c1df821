package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/librarian/model"
)

type RepositoryInterface interface {
	Create(ctx context.Context, librarian *model.Librarian) error
	GetByEmail(ctx context.Context, email string) (*model.Librarian, error)
	GetByID(ctx context.Context, id uuid.UUID) (*model.Librarian, error)
}
