package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"golang.org/x/crypto/bcrypt"

	"library-backend/internal/domains/librarian/model"
	"library-backend/internal/domains/librarian/repository"
	"library-backend/pkg/jwt"
)

const defaultBcryptCost = 12

// dummyHash is compared against when the email is unknown, so both failure paths cost one bcrypt round.
var dummyHash, _ = bcrypt.GenerateFromPassword([]byte("library-dummy-password"), defaultBcryptCost)

type AuthService struct {
	repo        repository.RepositoryInterface
	tokens      *jwt.Manager
	revocations *RevocationStore
	bcryptCost  int
}

func NewService(repo repository.RepositoryInterface, tokens *jwt.Manager, revocations *RevocationStore) *AuthService {
	return &AuthService{
		repo:        repo,
		tokens:      tokens,
		revocations: revocations,
		bcryptCost:  defaultBcryptCost,
	}
}

func (s *AuthService) Register(ctx context.Context, req model.RegisterRequest) (*model.Librarian, error) {
	email := model.NormalizeEmail(req.Email)

	_, err := s.repo.GetByEmail(ctx, email)
	switch {
	case err == nil:
		return nil, model.ErrEmailAlreadyRegistered
	case !errors.Is(err, model.ErrLibrarianNotFound):
		return nil, err
	}

	hash, err := bcrypt.GenerateFromPassword([]byte(req.Password), s.bcryptCost)
	if err != nil {
		return nil, fmt.Errorf("hash password: %w", err)
	}

	l := &model.Librarian{
		Email:        email,
		PasswordHash: string(hash),
		FullName:     strings.TrimSpace(req.FullName),
		IsActive:     true,
	}
	if err := s.repo.Create(ctx, l); err != nil {
		return nil, err
	}

	log.Info().Str("librarian_id", l.ID.String()).Msg("librarian registered")
	return l, nil
}

func (s *AuthService) Login(ctx context.Context, req model.LoginRequest) (*model.TokenResponse, error) {
	l, err := s.repo.GetByEmail(ctx, model.NormalizeEmail(req.Email))
	if err != nil {
		if errors.Is(err, model.ErrLibrarianNotFound) {
			_ = bcrypt.CompareHashAndPassword(dummyHash, []byte(req.Password))
			return nil, model.ErrInvalidCredentials
		}
		return nil, err
	}

	if err := bcrypt.CompareHashAndPassword([]byte(l.PasswordHash), []byte(req.Password)); err != nil {
		return nil, model.ErrInvalidCredentials
	}
	if !l.IsActive {
		return nil, model.ErrInactiveLibrarian
	}

	token, claims, err := s.tokens.GenerateAccessToken(l.ID.String(), l.Email)
	if err != nil {
		return nil, err
	}

	log.Info().Str("librarian_id", l.ID.String()).Msg("librarian logged in")
	return &model.TokenResponse{
		AccessToken: token,
		TokenType:   "bearer",
		ExpiresAt:   claims.ExpiresAt.Time,
	}, nil
}

// Logout revokes the presented token for the rest of its lifetime.
func (s *AuthService) Logout(ctx context.Context, claims *jwt.Claims) error {
	if claims == nil || claims.ExpiresAt == nil {
		return jwt.ErrInvalidToken
	}

	if err := s.revocations.Revoke(ctx, claims.ID, claims.ExpiresAt.Time); err != nil {
		return fmt.Errorf("revoke token: %w", err)
	}

	log.Info().Str("librarian_id", claims.LibrarianID).Msg("librarian logged out")
	return nil
}

func (s *AuthService) Me(ctx context.Context, id uuid.UUID) (*model.Librarian, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *AuthService) Authenticate(ctx context.Context, token string) (*jwt.Claims, error) {
	claims, err := s.tokens.ValidateAccessToken(token)
	if err != nil {
		return nil, err
	}

	revoked, err := s.revocations.IsRevoked(ctx, claims.ID)
	if err != nil {
		return nil, fmt.Errorf("%w: check revocation: %w", jwt.ErrVerificationUnavailable, err)
	}
	if revoked {
		return nil, model.ErrTokenRevoked
	}

	id, err := uuid.Parse(claims.LibrarianID)
	if err != nil {
		return nil, jwt.ErrInvalidToken
	}

	l, err := s.repo.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, model.ErrLibrarianNotFound) {
			return nil, err
		}
		return nil, fmt.Errorf("%w: load librarian: %w", jwt.ErrVerificationUnavailable, err)
	}
	if !l.IsActive {
		return nil, model.ErrInactiveLibrarian
	}

	return claims, nil
}
