package handler

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"

	"library-backend/internal/domains/librarian/model"
	"library-backend/internal/domains/librarian/service"
	"library-backend/internal/shared/middleware"
	"library-backend/internal/shared/response"
)

type Handler struct {
	service service.ServiceInterface
}

func NewHandler(service service.ServiceInterface) *Handler {
	return &Handler{service: service}
}

func (h *Handler) handleError(c *gin.Context, err error, fallback string) {
	switch {
	case errors.Is(err, model.ErrEmailAlreadyRegistered):
		response.Error(c, http.StatusConflict, "Email already registered", nil)
	case errors.Is(err, model.ErrInvalidCredentials):
		c.Header("WWW-Authenticate", "Bearer")
		response.Error(c, http.StatusUnauthorized, "Incorrect email or password", nil)
	case errors.Is(err, model.ErrInactiveLibrarian):
		response.Error(c, http.StatusUnauthorized, "Inactive librarian", nil)
	case errors.Is(err, model.ErrLibrarianNotFound):
		response.Error(c, http.StatusNotFound, "Librarian not found", nil)
	default:
		log.Error().Err(err).Str("request_id", c.GetString("request_id")).Msg(fallback)
		response.Error(c, http.StatusInternalServerError, fallback, nil)
	}
}

// Register handles POST /api/v1/auth/register
func (h *Handler) Register(c *gin.Context) {
	var req model.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	l, err := h.service.Register(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to register")
		return
	}

	response.Success(c, http.StatusCreated, "Registration successful", l)
}

// Login handles POST /api/v1/auth/login
func (h *Handler) Login(c *gin.Context) {
	var req model.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		response.Error(c, http.StatusBadRequest, "Invalid request payload", err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		response.Error(c, http.StatusBadRequest, "Validation failed", err)
		return
	}

	tok, err := h.service.Login(c.Request.Context(), req)
	if err != nil {
		h.handleError(c, err, "Failed to login")
		return
	}

	response.Success(c, http.StatusOK, "Login successful", tok)
}

// Logout handles POST /api/v1/auth/logout. Requires AuthMiddleware.
func (h *Handler) Logout(c *gin.Context) {
	claims, ok := middleware.ClaimsFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	if err := h.service.Logout(c.Request.Context(), claims); err != nil {
		h.handleError(c, err, "Failed to logout")
		return
	}

	c.Status(http.StatusNoContent)
}

// Me handles GET /api/v1/auth/me. Requires AuthMiddleware.
func (h *Handler) Me(c *gin.Context) {
	id, ok := middleware.LibrarianIDFromContext(c)
	if !ok {
		response.Error(c, http.StatusUnauthorized, "Could not validate credentials", nil)
		return
	}

	l, err := h.service.Me(c.Request.Context(), id)
	if err != nil {
		h.handleError(c, err, "Failed to get profile")
		return
	}

	response.Success(c, http.StatusOK, "Profile retrieved successfully", l)
}

// RegisterRoutes mounts /auth. auth guards logout and me.
func (h *Handler) RegisterRoutes(rg *gin.RouterGroup, auth gin.HandlerFunc) {
	g := rg.Group("/auth")
	{
		g.POST("/register", h.Register)
		g.POST("/login", h.Login)
		g.POST("/logout", auth, h.Logout)
		g.GET("/me", auth, h.Me)
	}
}
