package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/xuri/excelize/v2"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/repository"
)

// exportLimit caps the number of rows in one spreadsheet.
const exportLimit = 10000

type BookService struct {
	repo repository.RepositoryInterface
}

func NewService(repo repository.RepositoryInterface) ServiceInterface {
	return &BookService{repo: repo}
}

func (s *BookService) CreateBook(ctx context.Context, req model.CreateBookRequest) (*model.Book, error) {
	book := req.ToBook()

	if err := s.repo.Create(ctx, book); err != nil {
		return nil, err
	}

	log.Info().Str("book_id", book.ID.String()).Int("copies", book.Copies).Msg("book created")
	return book, nil
}

func (s *BookService) GetBook(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	return s.repo.GetByID(ctx, id)
}

func (s *BookService) ListBooks(ctx context.Context, req model.ListBooksRequest) ([]model.Book, int, error) {
	req.Normalize()

	books, total, err := s.repo.List(ctx, req.ToFilter())
	if err != nil {
		return nil, 0, fmt.Errorf("list books: %w", err)
	}
	return books, total, nil
}

func (s *BookService) UpdateBook(ctx context.Context, id uuid.UUID, req model.UpdateBookRequest) (*model.Book, error) {
	patch := req.ToPatch()
	if patch.Empty() {
		return nil, model.ErrEmptyUpdate
	}
	if patch.Copies != nil && *patch.Copies < 0 {
		return nil, model.ErrNegativeCopies
	}

	book, err := s.repo.Update(ctx, id, patch)
	if err != nil {
		return nil, err
	}

	log.Info().Str("book_id", id.String()).Msg("book updated")
	return book, nil
}

func (s *BookService) DeleteBook(ctx context.Context, id uuid.UUID) error {
	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	log.Info().Str("book_id", id.String()).Msg("book deleted")
	return nil
}

// ExportBooksToExcel renders every book matching the filters, ignoring pagination.
func (s *BookService) ExportBooksToExcel(ctx context.Context, req model.ListBooksRequest) (*excelize.File, error) {
	filter := req.ToFilter()
	filter.Limit = exportLimit
	filter.Offset = 0

	books, _, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list books: %w", err)
	}

	f, err := buildBooksExcelFile(books)
	if err != nil {
		return nil, fmt.Errorf("failed to build excel file: %w", err)
	}
	return f, nil
}
