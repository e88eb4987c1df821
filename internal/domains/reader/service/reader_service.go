package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/reader/model"
	"library-backend/internal/domains/reader/repository"
)

type ReaderService struct {
	repo        repository.RepositoryInterface
	phoneRegion string
}

// NewService creates the roster service. phoneRegion is used for numbers without a country code.
func NewService(repo repository.RepositoryInterface, phoneRegion string) ServiceInterface {
	return &ReaderService{repo: repo, phoneRegion: phoneRegion}
}

func (s *ReaderService) normalizePhone(phone *string) (*string, error) {
	if phone == nil || strings.TrimSpace(*phone) == "" {
		return nil, nil
	}
	e164, err := model.NormalizePhone(*phone, s.phoneRegion)
	if err != nil {
		return nil, err
	}
	return &e164, nil
}

func (s *ReaderService) CreateReader(ctx context.Context, req model.CreateReaderRequest) (*model.Reader, error) {
	phone, err := s.normalizePhone(req.Phone)
	if err != nil {
		return nil, err
	}

	reader := &model.Reader{
		Name:  strings.TrimSpace(req.Name),
		Email: model.NormalizeEmail(req.Email),
		Phone: phone,
	}

	exists, err := s.repo.EmailExists(ctx, reader.Email, uuid.Nil)
	if err != nil {
		return nil, err
	}
	if exists {
		return nil, model.NewEmailAlreadyExistsError(reader.Email)
	}

	// the unique index still guards the race between the check and the insert
	if err := s.repo.Create(ctx, reader); err != nil {
		return nil, err
	}

	log.Info().Str("reader_id", reader.ID.String()).Msg("reader created")
	return reader, nil
}

func (s *ReaderService) GetReader(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *ReaderService) ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error) {
	req.Normalize()

	readers, total, err := s.repo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, 0, fmt.Errorf("list readers: %w", err)
	}
	return readers, total, nil
}

func (s *ReaderService) UpdateReader(ctx context.Context, id uuid.UUID, req model.UpdateReaderRequest) (*model.Reader, error) {
	var patch model.ReaderPatch

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		patch.Name = &name
	}
	if req.Email != nil {
		email := model.NormalizeEmail(*req.Email)
		patch.Email = &email
	}
	if req.Phone != nil {
		phone, err := s.normalizePhone(req.Phone)
		if err != nil {
			return nil, err
		}
		if phone == nil {
			empty := ""
			phone = &empty
		}
		patch.Phone = phone
	}

	if patch.Empty() {
		return nil, model.ErrEmptyUpdate
	}

	if patch.Email != nil {
		exists, err := s.repo.EmailExists(ctx, *patch.Email, id)
		if err != nil {
			return nil, err
		}
		if exists {
			return nil, model.NewEmailAlreadyExistsError(*patch.Email)
		}
	}

	reader, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	log.Info().Str("reader_id", id.String()).Msg("reader updated")
	return reader, nil
}

func (s *ReaderService) DeleteReader(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("reader_id", id.String()).Msg("reader deleted")
	return nil
}
