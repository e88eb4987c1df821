package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/loan/model"
	"library-backend/internal/domains/loan/service"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

// NewHandler creates a new loan handler
func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrBookNotFound):
		response.Error(c, http.StatusNotFound, "Book not found", err.Error())
	case errors.Is(err, model.ErrReaderNotFound):
		response.Error(c, http.StatusNotFound, "Reader not found", err.Error())
	case errors.Is(err, model.ErrNoCopiesAvailable):
		response.Error(c, http.StatusConflict, "No copies available", nil)
	case errors.Is(err, model.ErrAlreadyOnLoan):
		response.Error(c, http.StatusConflict, "Book already on loan to this reader", nil)
	case errors.Is(err, model.ErrLoanLimitExceeded):
		response.Error(c, http.StatusConflict, "Loan limit exceeded", err.Error())
	case errors.Is(err, model.ErrNoActiveLoan):
		response.Error(c, http.StatusConflict, "No active loan found", nil)
	case errors.Is(err, model.ErrReturnBeforeLoan):
		response.Error(c, http.StatusBadRequest, "Return date is before loan date", err.Error())
	case errors.Is(err, model.ErrConstraintViolation):
		response.Error(c, http.StatusConflict, "Request conflicts with current state", nil)
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}

// CreateLoan handles POST /api/v1/loans
func (h *Handler) CreateLoan(c *gin.Context) {
	var req model.CreateLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}
	bookID, readerID, err := req.IDs()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ID format", err.Error())
		return
	}

	loan, err := h.service.CreateLoan(c.Request.Context(), bookID, readerID)
	if err != nil {
		h.handleError(c, err, "Failed to create loan")
		return
	}

	response.Success(c, http.StatusCreated, "Loan created successfully", loan)
}

// ReturnLoan handles POST /api/v1/loans/return
func (h *Handler) ReturnLoan(c *gin.Context) {
	var req model.ReturnLoanRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}
	bookID, readerID, err := req.IDs()
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid ID format", err.Error())
		return
	}

	loan, err := h.service.ReturnLoan(c.Request.Context(), bookID, readerID, req.ReturnDate)
	if err != nil {
		h.handleError(c, err, "Failed to return loan")
		return
	}

	response.Success(c, http.StatusOK, "Loan returned successfully", loan)
}

// ListActiveLoans handles GET /api/v1/loans/:reader_id
func (h *Handler) ListActiveLoans(c *gin.Context) {
	readerID, err := uuid.Parse(c.Param("reader_id"))
	if err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid reader ID format", err.Error())
		return
	}

	loans, err := h.service.ListActiveLoans(c.Request.Context(), readerID)
	if err != nil {
		h.handleError(c, err, "Failed to list active loans")
		return
	}

	response.Success(c, http.StatusOK, "Active loans retrieved successfully", loans)
}

// ListLoans handles GET /api/v1/loans?reader_id=&book_id=&status=&page=&limit=
func (h *Handler) ListLoans(c *gin.Context) {
	var req model.ListLoansRequest
	if err := c.ShouldBindQuery(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid query parameters", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	loans, total, err := h.service.ListLoans(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to list loans")
		return
	}

	req.Normalize()
	response.SuccessWithMeta(c, http.StatusOK, "Loans retrieved successfully", loans,
		response.NewMeta(req.Page, req.Limit, total))
}

func (h *Handler) RegisterRoutes(rg *gin.RouterGroup) {
	loans := rg.Group("/loans")
	{
		loans.POST("", h.CreateLoan)
		loans.POST("/return", h.ReturnLoan)
		loans.GET("", h.ListLoans)
		loans.GET("/:reader_id", h.ListActiveLoans)
	}
}
