package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"

	"library-backend/internal/domains/reader/model"
)

func init() {
	gin.SetMode(gin.TestMode)
}

type mockService struct {
	mock.Mock
}

func (m *mockService) CreateReader(ctx context.Context, req model.CreateReaderRequest) (*model.Reader, error) {
	args := m.Called(ctx, req)
	if r := args.Get(0); r != nil {
		return r.(*model.Reader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) GetReader(ctx context.Context, id uuid.UUID) (*model.Reader, error) {
	args := m.Called(ctx, id)
	if r := args.Get(0); r != nil {
		return r.(*model.Reader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) ListReaders(ctx context.Context, req model.ListReadersRequest) ([]model.Reader, int, error) {
	args := m.Called(ctx, req)
	return args.Get(0).([]model.Reader), args.Int(1), args.Error(2)
}

func (m *mockService) UpdateReader(ctx context.Context, id uuid.UUID, req model.UpdateReaderRequest) (*model.Reader, error) {
	args := m.Called(ctx, id, req)
	if r := args.Get(0); r != nil {
		return r.(*model.Reader), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockService) DeleteReader(ctx context.Context, id uuid.UUID) error {
	return m.Called(ctx, id).Error(0)
}

func serve(svc *mockService, method, path string, body interface{}) *httptest.ResponseRecorder {
	r := gin.New()
	NewHandler(svc).RegisterRoutes(r.Group("/api/v1"))

	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)
	return w
}

func Test_CreateReader_Returns201(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateReader", mock.Anything, model.CreateReaderRequest{Name: "Ann", Email: "ann@example.com"}).
		Return(&model.Reader{ID: uuid.New(), Name: "Ann", Email: "ann@example.com"}, nil)

	w := serve(svc, http.MethodPost, "/api/v1/readers", gin.H{"name": "Ann", "email": "ann@example.com"})

	assert.Equal(t, http.StatusCreated, w.Code)
}

func Test_CreateReader_BadEmail(t *testing.T) {
	w := serve(&mockService{}, http.MethodPost, "/api/v1/readers", gin.H{"name": "Ann", "email": "nope"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "email")
}

func Test_CreateReader_DuplicateEmail(t *testing.T) {
	svc := &mockService{}
	svc.On("CreateReader", mock.Anything, mock.Anything).Return(nil, model.NewEmailAlreadyExistsError("ann@example.com"))

	w := serve(svc, http.MethodPost, "/api/v1/readers", gin.H{"name": "Ann", "email": "ann@example.com"})

	assert.Equal(t, http.StatusConflict, w.Code)
}

func Test_UpdateReader_InvalidPhone(t *testing.T) {
	id := uuid.New()
	svc := &mockService{}
	svc.On("UpdateReader", mock.Anything, id, mock.Anything).Return(nil, model.NewInvalidPhoneError("12", assert.AnError))

	w := serve(svc, http.MethodPut, "/api/v1/readers/"+id.String(), gin.H{"phone": "12"})

	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func Test_GetReader_NotFound(t *testing.T) {
	id := uuid.New()
	svc := &mockService{}
	svc.On("GetReader", mock.Anything, id).Return(nil, model.NewReaderNotFoundError(id))

	w := serve(svc, http.MethodGet, "/api/v1/readers/"+id.String(), nil)

	assert.Equal(t, http.StatusNotFound, w.Code)
}

func Test_DeleteReader_HasLoans(t *testing.T) {
	id := uuid.New()
	svc := &mockService{}
	svc.On("DeleteReader", mock.Anything, id).Return(model.ErrReaderHasLoans)

	w := serve(svc, http.MethodDelete, "/api/v1/readers/"+id.String(), nil)

	assert.Equal(t, http.StatusConflict, w.Code)
}
