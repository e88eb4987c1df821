package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/reader/model"
	"library-backend/internal/domains/reader/service"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates a new reader handler
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func parseID(c *gin.Context) (uuid.UUID, bool) {
	id, err := uuid.Parse(c.Param("id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid reader ID format", err.Error())
		return uuid.Nil, false
	}
	return id, true
}

func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrReaderNotFound):
		response.Error(c, http.StatusNotFound, "Reader not found", err.Error())
	case errors.Is(err, model.ErrEmailAlreadyExists):
		response.Error(c, http.StatusConflict, "Email already registered", err.Error())
	case errors.Is(err, model.ErrReaderHasLoans):
		response.Error(c, http.StatusConflict, "Reader has loans", err.Error())
	case errors.Is(err, model.ErrInvalidPhone):
		response.Error(c, http.StatusBadRequest, "Invalid phone number", err.Error())
	case errors.Is(err, model.ErrEmptyUpdate):
		response.Error(c, http.StatusBadRequest, "No fields to update", err.Error())
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}

// CreateReader handles POST /api/v1/readers
func (h *Handler) CreateReader(c *gin.Context) {
	var req model.CreateReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	reader, err := h.service.CreateReader(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to create reader")
		return
	}

	response.Success(c, http.StatusCreated, "Reader created successfully", reader)
}

// GetReader handles GET /api/v1/readers/:id
func (h *Handler) GetReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	reader, err := h.service.GetReader(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to get reader")
		return
	}

	response.Success(c, http.StatusOK, "Reader retrieved successfully", reader)
}

// ListReaders handles GET /api/v1/readers?q=&page=&limit=
func (h *Handler) ListReaders(c *gin.Context) {
	var req model.ListReadersRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	readers, total, err := h.service.ListReaders(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to list readers")
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, "Readers retrieved successfully", readers,
		response.NewMeta(req.Page, req.Limit, total))
}

// UpdateReader handles PUT /api/v1/readers/:id
func (h *Handler) UpdateReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	var req model.UpdateReaderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	reader, err := h.service.UpdateReader(c.Request.Context(), id, req)
	if err != nil {
		h.handleError(c, err, "Failed to update reader")
		return
	}

	response.Success(c, http.StatusOK, "Reader updated successfully", reader)
}

// DeleteReader handles DELETE /api/v1/readers/:id
func (h *Handler) DeleteReader(c *gin.Context) {
	id, ok := parseID(c)
	if !ok {
		return
	}

	if err := h.service.DeleteReader(c.Request.Context(), id); err != nil {
		h.handleError(c, err, "Failed to delete reader")
		return
	}

	response.Success(c, http.StatusOK, "Reader deleted successfully", nil)
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	readers := rg.Group("/readers")
	{
		readers.POST("", h.CreateReader)
		readers.GET("", h.ListReaders)
		readers.GET("/:id", h.GetReader)
		readers.PUT("/:id", h.UpdateReader)
		readers.PATCH("/:id", h.UpdateReader)
		readers.DELETE("/:id", h.DeleteReader)
	}
}
