package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/reader/model"
)

type ServiceInterface interface {
	CreateReader(ctx context.Context, req model.CreateReaderRequest) (*model.Reader, error)
	GetReader(ctx context.Context, id uuid.UUID) (*model.Reader, error)
	ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error)
	UpdateReader(ctx context.Context, id uuid.UUID, req model.UpdateReaderRequest) (*model.Reader, error)
	DeleteReader(ctx context.Context, id uuid.UUID) error
}
