package handler

import (
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/book/model"
	"library-backend/internal/domains/book/service"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates a new book handler
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

type validatable interface {
	Validate() error
}

func bindJSON(c *gin.Context, req validatable) bool {
	if err := c.ShouldBindJSON(req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return false
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return false
	}
	return true
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid book ID format", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.Error(c, http.StatusNotFound, "Book not found", err.Error())
	case errors.Is(err, model.ErrISBNAlreadyExists):
		response.Error(c, http.StatusConflict, "ISBN already exists", err.Error())
	case errors.Is(err, model.ErrBookHasLoans):
		response.Error(c, http.StatusConflict, "Book has loans", err.Error())
	case errors.Is(err, model.ErrNegativeCopies):
		response.Error(c, http.StatusConflict, "Copies cannot be negative", err.Error())
	case errors.Is(err, model.ErrEmptyUpdate):
		response.Error(c, http.StatusBadRequest, "No fields to update", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}

// CreateBook handles POST /api/v1/books
func (h *Handler) CreateBook(c *gin.Context) {
	var req model.CreateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.service.CreateBook(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to create book")
		return
	}

	response.Success(c, http.StatusCreated, "Book created successfully", book)
}

// GetBook handles GET /api/v1/books/:id
func (h *Handler) GetBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	book, err := h.service.GetBook(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to get book")
		return
	}

	response.Success(c, http.StatusOK, "Book retrieved successfully", book)
}

// ListBooks handles GET /api/v1/books?q=&isbn=&available=&page=&limit=
func (h *Handler) ListBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	books, total, err := h.service.ListBooks(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to list books")
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, "Books retrieved successfully", books,
		response.NewMeta(req.Page, req.Limit, total))
}

// UpdateBook handles PUT /api/v1/books/:id
func (h *Handler) UpdateBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateBookRequest
	if !bindJSON(c, &req) {
		return
	}

	book, err := h.service.UpdateBook(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err, "Failed to update book")
		return
	}

	response.Success(c, http.StatusOK, "Book updated successfully", book)
}

// DeleteBook handles DELETE /api/v1/books/:id
func (h *Handler) DeleteBook(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteBook(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete book")
		return
	}

	response.Success(c, http.StatusOK, "Book deleted successfully", nil)
}

// ExportBooks handles GET /api/v1/books/export and streams an xlsx workbook.
func (h *Handler) ExportBooks(c *gin.Context) {
	var req model.ListBooksRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}

	f, err := h.service.ExportBooksToExcel(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to export books")
		return
	}
	defer f.Close()

	filename := fmt.Sprintf("books_%s.xlsx", time.Now().UTC().Format("20060102_150405"))
	c.Header("Content-Type", "application/vnd.openxmlformats-officedocument.spreadsheetml.sheet")
	c.Header("Content-Disposition", fmt.Sprintf(`attachment; filename="%s"`, filename))
	c.Status(http.StatusOK)

	if _, err := f.WriteTo(c.Writer); err != nil {
		log.Error().Err(err).Msg("failed to write excel export")
	}
}

// RegisterRoutes mounts the catalog routes on an authenticated group.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	books := rg.Group("/books")
	{
		books.POST("", h.CreateBook)
		books.GET("", h.ListBooks)
		books.GET("/export", h.ExportBooks)
		books.GET("/:id", h.GetBook)
		books.PUT("/:id", h.UpdateBook)
		books.PATCH("/:id", h.UpdateBook)
		books.DELETE("/:id", h.DeleteBook)
	}
}
