package service

import (
	"context"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"library-backend/internal/domains/book/model"
)

type mockRepository struct {
	mock.Mock
}

func (m *mockRepository) Create(ctx context.Context, book *model.Book) error {
	args := m.Called(ctx, book)
	if args.Error(0) == nil {
		book.ID = uuid.New()
	}
	return args.Error(0)
}

func (m *mockRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.Book, error) {
	args := m.Called(ctx, id)
	if b := args.Get(0); b != nil {
		return b.(*model.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) List(ctx context.Context, filter model.BookFilter) ([]model.Book, int, error) {
	args := m.Called(ctx, filter)
	return args.Get(0).([]model.Book), args.Int(1), args.Error(2)
}

func (m *mockRepository) Update(ctx context.Context, id uuid.UUID, patch model.BookPatch) (*model.Book, error) {
	args := m.Called(ctx, id, patch)
	if b := args.Get(0); b != nil {
		return b.(*model.Book), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockRepository) Delete(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func intPtr(v int) *int       { return &v }
func strPtr(v string) *string { return &v }

func Test_CreateBook_DefaultsToOneCopy(t *testing.T) {
	// arrange
	repo := &mockRepository{}
	repo.On("Create", mock.Anything, mock.MatchedBy(func(b *model.Book) bool {
		return b.Copies == 1 && b.Title == "Dune" && *b.ISBN == "9780441013593"
	})).Return(nil)
	svc := NewService(repo)

	// act
	book, err := svc.CreateBook(context.Background(), model.CreateBookRequest{
		Title:  " Dune ",
		Author: "Frank Herbert",
		ISBN:   strPtr("978-0-441-01359-3"),
	})

	// assert
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, book.ID)
	repo.AssertExpectations(t)
}

func Test_CreateBook_PropagatesDuplicateISBN(t *testing.T) {
	repo := &mockRepository{}
	repo.On("Create", mock.Anything, mock.Anything).Return(model.NewISBNAlreadyExistsError("123"))
	svc := NewService(repo)

	_, err := svc.CreateBook(context.Background(), model.CreateBookRequest{Title: "A", Author: "B"})

	assert.ErrorIs(t, err, model.ErrISBNAlreadyExists)
}

func Test_ListBooks_AppliesPagination(t *testing.T) {
	repo := &mockRepository{}
	repo.On("List", mock.Anything, model.BookFilter{Query: "go", AvailableOnly: true, Limit: 10, Offset: 20}).
		Return([]model.Book{{Title: "Go"}}, 21, nil)
	svc := NewService(repo)

	books, total, err := svc.ListBooks(context.Background(), model.ListBooksRequest{
		Query: "go", Available: true, Page: 3, Limit: 10,
	})

	require.NoError(t, err)
	assert.Len(t, books, 1)
	assert.Equal(t, 21, total)
	repo.AssertExpectations(t)
}

func Test_UpdateBook_RejectsEmptyPatch(t *testing.T) {
	svc := NewService(&mockRepository{})

	_, err := svc.UpdateBook(context.Background(), uuid.New(), model.UpdateBookRequest{})

	assert.ErrorIs(t, err, model.ErrEmptyUpdate)
}

func Test_UpdateBook_RejectsNegativeCopies(t *testing.T) {
	svc := NewService(&mockRepository{})

	_, err := svc.UpdateBook(context.Background(), uuid.New(), model.UpdateBookRequest{Copies: intPtr(-1)})

	assert.ErrorIs(t, err, model.ErrNegativeCopies)
}

func Test_UpdateBook_PassesPatch(t *testing.T) {
	id := uuid.New()
	repo := &mockRepository{}
	repo.On("Update", mock.Anything, id, mock.MatchedBy(func(p model.BookPatch) bool {
		return p.Copies != nil && *p.Copies == 5 && p.Title == nil
	})).Return(&model.Book{ID: id, Copies: 5}, nil)
	svc := NewService(repo)

	book, err := svc.UpdateBook(context.Background(), id, model.UpdateBookRequest{Copies: intPtr(5)})

	require.NoError(t, err)
	assert.Equal(t, 5, book.Copies)
}

func Test_DeleteBook_WithLoans(t *testing.T) {
	id := uuid.New()
	repo := &mockRepository{}
	repo.On("Delete", mock.Anything, id).Return(model.ErrBookHasLoans)
	svc := NewService(repo)

	err := svc.DeleteBook(context.Background(), id)

	assert.ErrorIs(t, err, model.ErrBookHasLoans)
	assert.True(t, model.IsConflictError(err))
}

func Test_ExportBooksToExcel_WritesRows(t *testing.T) {
	created := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	books := []model.Book{
		{ID: uuid.New(), Title: "Dune", Author: "Frank Herbert", PublishedYear: intPtr(1965), Copies: 2, CreatedAt: created, UpdatedAt: created},
		{ID: uuid.New(), Title: "Emma", Author: "Jane Austen", ISBN: strPtr("9780141439587"), Copies: 0, CreatedAt: created, UpdatedAt: created},
	}
	repo := &mockRepository{}
	repo.On("List", mock.Anything, mock.MatchedBy(func(f model.BookFilter) bool {
		return f.Limit == exportLimit && f.Offset == 0
	})).Return(books, 2, nil)
	svc := NewService(repo)

	f, err := svc.ExportBooksToExcel(context.Background(), model.ListBooksRequest{Page: 4, Limit: 5})
	require.NoError(t, err)
	defer f.Close()

	header, err := f.GetCellValue(exportSheetName, "B1")
	require.NoError(t, err)
	assert.Equal(t, "Title", header)

	title, _ := f.GetCellValue(exportSheetName, "B2")
	year, _ := f.GetCellValue(exportSheetName, "D2")
	isbn, _ := f.GetCellValue(exportSheetName, "E3")
	copies, _ := f.GetCellValue(exportSheetName, "F3")
	assert.Equal(t, "Dune", title)
	assert.Equal(t, "1965", year)
	assert.Equal(t, "9780141439587", isbn)
	assert.Equal(t, "0", copies)

	rows, err := f.GetRows(exportSheetName)
	require.NoError(t, err)
	assert.Len(t, rows, 3)
}
