package service

import (
	"context"

	"github.com/google/uuid"

	"library-backend/internal/domains/librarian/model"
	"library-backend/pkg/jwt"
)

type ServiceInterface interface {
	Register(ctx context.Context, req model.RegisterRequest) (*model.Librarian, error)
	Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error)
	Logout(ctx context.Context, claims *jwt.Claims) error
	Me(ctx context.Context, id uuid.UUID) (*model.Librarian, error)

	// Authenticate backs the auth middleware.
	Authenticate(ctx context.Context, token string) (*jwt.Claims, error)
}
