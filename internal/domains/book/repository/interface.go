package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/book/model"
)

// RepositoryInterface is the catalog store.
type RepositoryInterface interface {
	Create(ctx context.Context, book *model.Book) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error)
	List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error)
	Update(ctx context.Context, id uuid.UUID, patch model.BookPatch) (*model.Book, error)
	Delete(ctx context.Context, id uuid.UUID) error
}
