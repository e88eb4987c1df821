package repository

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/reader/model"
)

// RepositoryInterface is the roster store.
type RepositoryInterface interface {
	Create(ctx context.Context, reader *model.Reader) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.Reader, error)
	List(ctx context.Context, filter model.ReaderFilter) ([]model.Reader, int, error)
	Update(ctx context.Context, id uuid.UUID, patch model.ReaderPatch) (*model.Reader, error)
	Delete(ctx context.Context, id uuid.UUID) error

	// EmailExists reports whether a reader other than excludeID uses email.
	EmailExists(ctx context.Context, email string, excludeID uuid.UUID) (bool, error)
}
